// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package filter

import (
	"path"
	"strings"
)

// Filter decides whether a discovered file is eligible for processing based
// on its filename extension.
type Filter struct {
	extensions map[string]struct{}
	mode       Mode
}

// New returns a filter for the given extensions.  Extensions are compared
// case-insensitively and a leading dot is ignored, so "JPG", "jpg", and
// ".jpg" configure the same filter.  An empty list disables filtering.
func New(extensions []string, mode Mode) *Filter {
	set := map[string]struct{}{}
	for _, extension := range extensions {
		extension = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(extension), "."))
		if len(extension) == 0 {
			continue
		}
		set[extension] = struct{}{}
	}
	return &Filter{
		extensions: set,
		mode:       mode,
	}
}

// Ext returns the extension of the base filename: the substring after the
// final dot, lowercased.  A filename without a dot has no extension.
func Ext(name string) string {
	base := path.Base(name)
	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// ShouldProcess reports whether the named file passes the filter.  Files
// without an extension fail in include mode and pass in exclude mode.
func (f *Filter) ShouldProcess(name string) bool {
	if len(f.extensions) == 0 {
		return true
	}
	extension := Ext(name)
	if len(extension) == 0 {
		return f.mode == ModeExclude
	}
	_, found := f.extensions[extension]
	if f.mode == ModeInclude {
		return found
	}
	return !found
}
