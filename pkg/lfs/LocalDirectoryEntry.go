// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"os"
	"time"
)

type LocalDirectoryEntry struct {
	fi os.FileInfo
}

func (lde *LocalDirectoryEntry) IsDir() bool {
	return lde.fi.IsDir()
}

func (lde *LocalDirectoryEntry) IsRegular() bool {
	return lde.fi.Mode().IsRegular()
}

func (lde *LocalDirectoryEntry) ModTime() time.Time {
	return lde.fi.ModTime()
}

func (lde *LocalDirectoryEntry) Name() string {
	return lde.fi.Name()
}

func (lde *LocalDirectoryEntry) Size() int64 {
	return lde.fi.Size()
}

func (lde *LocalDirectoryEntry) String() string {
	return lde.fi.Name()
}
