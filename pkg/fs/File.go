// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"io"
)

type File interface {
	io.ReadWriteCloser
	io.Seeker
	Name() string
}
