// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/onesync/onesync/pkg/fs"
)

type LocalFileSystem struct {
	fs   afero.Fs
	root string
}

func (lfs *LocalFileSystem) Chmod(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.Chmod(name, mode)
}

func (lfs *LocalFileSystem) Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error {
	return lfs.fs.Chtimes(name, atime, mtime)
}

func (lfs *LocalFileSystem) Dir(name string) string {
	return filepath.Dir(name)
}

func (lfs *LocalFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (lfs *LocalFileSystem) Join(name ...string) string {
	return filepath.Join(name...)
}

func (lfs *LocalFileSystem) MkdirAll(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.MkdirAll(name, mode)
}

func (lfs *LocalFileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	f, err := lfs.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

func (lfs *LocalFileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (fs.File, error) {
	f, err := lfs.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

func (lfs *LocalFileSystem) ReadDir(ctx context.Context, name string) ([]fs.DirectoryEntry, error) {
	fileInfos, err := afero.ReadDir(lfs.fs, name)
	if err != nil {
		return nil, err
	}
	directoryEntries := make([]fs.DirectoryEntry, 0, len(fileInfos))
	for _, fileInfo := range fileInfos {
		directoryEntries = append(directoryEntries, &LocalDirectoryEntry{
			fi: fileInfo,
		})
	}
	return directoryEntries, nil
}

func (lfs *LocalFileSystem) Remove(ctx context.Context, name string) error {
	return lfs.fs.Remove(name)
}

func (lfs *LocalFileSystem) Rename(ctx context.Context, oldname string, newname string) error {
	return lfs.fs.Rename(oldname, newname)
}

func (lfs *LocalFileSystem) Root() string {
	return lfs.root
}

func (lfs *LocalFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	fi, err := lfs.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	return NewLocalFileInfo(fi.Name(), fi.Mode(), fi.ModTime(), fi.IsDir(), fi.Size()), nil
}

// New wraps an existing afero filesystem.  The root is only used for
// reporting.
func New(afs afero.Fs, root string) *LocalFileSystem {
	return &LocalFileSystem{
		fs:   afs,
		root: root,
	}
}

func NewLocalFileSystem(rootPath string) *LocalFileSystem {
	return New(afero.NewBasePathFs(afero.NewOsFs(), rootPath), rootPath)
}

func NewReadOnlyLocalFileSystem(rootPath string) *LocalFileSystem {
	return New(afero.NewBasePathFs(afero.NewReadOnlyFs(afero.NewOsFs()), rootPath), rootPath)
}

// NewMemoryFileSystem returns an empty in-memory filesystem, used by tests.
func NewMemoryFileSystem() *LocalFileSystem {
	return New(afero.NewBasePathFs(afero.NewMemMapFs(), "/"), "/")
}
