// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"time"
)

type DirectoryEntry interface {
	IsDir() bool
	IsRegular() bool
	ModTime() time.Time
	Name() string
	Size() int64
	String() string
}
