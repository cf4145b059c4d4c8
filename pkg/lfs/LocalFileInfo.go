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

type LocalFileInfo struct {
	name    string
	mode    os.FileMode
	modTime time.Time
	dir     bool
	size    int64
}

func (lfi *LocalFileInfo) IsDir() bool {
	return lfi.dir
}

func (lfi *LocalFileInfo) Mode() os.FileMode {
	return lfi.mode
}

func (lfi *LocalFileInfo) ModTime() time.Time {
	return lfi.modTime
}

func (lfi *LocalFileInfo) Name() string {
	return lfi.name
}

func (lfi *LocalFileInfo) Size() int64 {
	return lfi.size
}

func (lfi *LocalFileInfo) String() string {
	return lfi.name
}

func NewLocalFileInfo(name string, mode os.FileMode, modTime time.Time, dir bool, size int64) *LocalFileInfo {
	return &LocalFileInfo{
		name:    name,
		mode:    mode,
		modTime: modTime,
		dir:     dir,
		size:    size,
	}
}
