// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package filter

import (
	"fmt"
	"strings"
)

// Mode selects whether the extension list is an allowlist or a blocklist.
type Mode string

const (
	ModeInclude Mode = "include"
	ModeExclude Mode = "exclude"
)

// ParseMode parses a mode by name.  Any value other than "include" or
// "exclude" is a configuration error.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "include":
		return ModeInclude, nil
	case "exclude":
		return ModeExclude, nil
	}
	return ModeInclude, fmt.Errorf("unknown extension mode %q, expecting %q or %q", name, ModeInclude, ModeExclude)
}
