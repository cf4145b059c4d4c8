// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"os"
	"time"
)

type FileSystem interface {
	Chmod(ctx context.Context, name string, mode os.FileMode) error
	Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error
	Dir(name string) string
	IsNotExist(err error) bool
	Join(name ...string) string
	MkdirAll(ctx context.Context, name string, mode os.FileMode) (err error)
	Open(ctx context.Context, name string) (File, error)
	OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (File, error)
	ReadDir(ctx context.Context, name string) ([]DirectoryEntry, error)
	Remove(ctx context.Context, name string) error
	Rename(ctx context.Context, oldname string, newname string) error
	Root() string
	Stat(ctx context.Context, name string) (FileInfo, error)
}
