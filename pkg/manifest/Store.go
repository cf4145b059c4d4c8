// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const (
	PathsFileName  = "copied_paths.txt"
	HashesFileName = "copied_hashes.txt"
)

// Store is the durable, append-only record of content already materialized
// at the destination.  It keeps two sets: content hashes, the primary
// identity, and relative paths, kept for stores created before hash tracking
// existed.  Entries are one per line with no escaping; once present, an
// entry is never removed by the store itself.
type Store struct {
	mutex      sync.Mutex
	paths      map[string]struct{}
	hashes     map[string]struct{}
	pathsFile  afero.File
	hashesFile afero.File
}

// Open loads the manifest in the given directory, creating the directory and
// backing files if they do not exist yet.  The backing files stay open for
// appending until Close is called.
func Open(afs afero.Fs, dir string) (*Store, error) {
	if err := afs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating manifest directory %q: %w", dir, err)
	}

	paths, pathsFile, err := openSet(afs, filepath.Join(dir, PathsFileName))
	if err != nil {
		return nil, err
	}

	hashes, hashesFile, err := openSet(afs, filepath.Join(dir, HashesFileName))
	if err != nil {
		_ = pathsFile.Close()
		return nil, err
	}

	return &Store{
		paths:      paths,
		hashes:     hashes,
		pathsFile:  pathsFile,
		hashesFile: hashesFile,
	}, nil
}

func openSet(afs afero.Fs, name string) (map[string]struct{}, afero.File, error) {
	set := map[string]struct{}{}

	data, err := afero.ReadFile(afs, name)
	if err != nil && !os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("error reading manifest file %q: %w", name, err)
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		set[line] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading manifest file %q: %w", name, err)
	}

	f, err := afs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening manifest file %q: %w", name, err)
	}

	return set, f, nil
}

// ContainsHash reports whether a copy of content with the given hash has been
// recorded.
func (s *Store) ContainsHash(hash string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, found := s.hashes[hash]
	return found
}

// ContainsPath reports whether a copy of the given relative path has been
// recorded.  This is the legacy fallback identity; ContainsHash is checked
// first by callers.
func (s *Store) ContainsPath(path string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	_, found := s.paths[path]
	return found
}

// Record appends the relative path and content hash of a completed copy.
// Both entries are flushed to stable storage before Record returns, so a
// crash after a successful Record can never cause a duplicate copy.
// Recording the same path or hash more than once is legal.
func (s *Store) Record(path string, hash string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, err := s.pathsFile.WriteString(path + "\n"); err != nil {
		return fmt.Errorf("error appending path %q to manifest: %w", path, err)
	}
	if err := s.pathsFile.Sync(); err != nil {
		return fmt.Errorf("error flushing manifest after appending path %q: %w", path, err)
	}

	if _, err := s.hashesFile.WriteString(hash + "\n"); err != nil {
		return fmt.Errorf("error appending hash %q to manifest: %w", hash, err)
	}
	if err := s.hashesFile.Sync(); err != nil {
		return fmt.Errorf("error flushing manifest after appending hash %q: %w", hash, err)
	}

	s.paths[path] = struct{}{}
	s.hashes[hash] = struct{}{}

	return nil
}

// Len returns the number of distinct recorded paths and hashes.
func (s *Store) Len() (int, int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return len(s.paths), len(s.hashes)
}

// Close releases the backing files.
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.pathsFile.Close(); err != nil {
		_ = s.hashesFile.Close()
		return fmt.Errorf("error closing manifest path file: %w", err)
	}
	if err := s.hashesFile.Close(); err != nil {
		return fmt.Errorf("error closing manifest hash file: %w", err)
	}
	return nil
}
