// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/onesync/onesync/pkg/digest"
	"github.com/onesync/onesync/pkg/filter"
	"github.com/onesync/onesync/pkg/fs"
	"github.com/onesync/onesync/pkg/layout"
	"github.com/onesync/onesync/pkg/manifest"
)

// Engine reconciles the source tree against the manifest.  Each Scan
// enumerates every regular file under the source root, filters by extension,
// hashes the content, and copies files whose content has never been copied
// before, recording each successful copy in the manifest.
type Engine struct {
	source      fs.FileSystem
	destination fs.FileSystem
	manifest    *manifest.Store
	filter      *filter.Filter
	flatten     bool
	maxThreads  int
	logger      fs.Logger
}

func NewEngine(input *EngineInput) *Engine {
	maxThreads := input.MaxThreads
	if maxThreads < 1 {
		maxThreads = 1
	}
	return &Engine{
		source:      input.SourceFileSystem,
		destination: input.DestinationFileSystem,
		manifest:    input.Manifest,
		filter:      input.Filter,
		flatten:     input.FlattenOutput,
		maxThreads:  maxThreads,
		logger:      input.Logger,
	}
}

// Scan runs one full pass over the source tree.  Per-file failures are
// logged, counted, and skipped; the scan only returns an error if the source
// root cannot be enumerated or the context is cancelled.  A file that fails
// is left unrecorded so a later scan retries it.
func (e *Engine) Scan(ctx context.Context) (*ScanResult, error) {
	t := &tally{}

	names, err := e.enumerate(ctx, ".", t)
	if err != nil {
		return t.snapshot(), err
	}

	locks := newKeyedMutex()

	var wg errgroup.Group
	wg.SetLimit(e.maxThreads)

	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		name := name
		wg.Go(func() error {
			e.processFile(ctx, name, t, locks)
			return nil
		})
	}

	_ = wg.Wait()

	if err := ctx.Err(); err != nil {
		return t.snapshot(), err
	}

	return t.snapshot(), nil
}

// enumerate returns the relative paths of all regular files under dir.  A
// subdirectory that cannot be read is counted as an error and skipped; only
// an unreadable scan root fails the scan.
func (e *Engine) enumerate(ctx context.Context, dir string, t *tally) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	directoryEntries, err := e.source.ReadDir(ctx, dir)
	if err != nil {
		if dir == "." {
			return nil, fmt.Errorf("error reading source root %q: %w", e.source.Root(), err)
		}
		_ = e.logger.Error("Error reading source directory", map[string]interface{}{
			"dir": dir,
			"err": err.Error(),
		})
		t.errored()
		return nil, nil
	}

	names := []string{}
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		if dir != "." {
			name = e.source.Join(dir, name)
		}
		if directoryEntry.IsDir() {
			children, err := e.enumerate(ctx, name, t)
			if err != nil {
				return nil, err
			}
			names = append(names, children...)
			continue
		}
		if !directoryEntry.IsRegular() {
			continue
		}
		names = append(names, name)
	}
	return names, nil
}

func (e *Engine) processFile(ctx context.Context, name string, t *tally, locks *keyedMutex) {
	if ctx.Err() != nil {
		return
	}

	if !e.filter.ShouldProcess(name) {
		t.skippedByExtension()
		return
	}

	hash, err := digest.Sum(ctx, e.source, name)
	if err != nil {
		_ = e.logger.Error("Error hashing source file", map[string]interface{}{
			"src": name,
			"err": err.Error(),
		})
		t.errored()
		return
	}

	unlock := locks.Lock(hash)
	defer unlock()

	if e.manifest.ContainsHash(hash) || e.manifest.ContainsPath(name) {
		_ = e.logger.Debug("Skipping already copied file", map[string]interface{}{
			"src":  name,
			"hash": hash,
		})
		t.skippedAlreadyCopied()
		return
	}

	destinationName := layout.DestinationFor(name, e.flatten)

	if err := Copy(ctx, &CopyInput{
		SourceName:            name,
		SourceFileSystem:      e.source,
		DestinationName:       destinationName,
		DestinationFileSystem: e.destination,
		Logger:                e.logger,
	}); err != nil {
		if ctx.Err() != nil {
			return
		}
		_ = e.logger.Error("Error copying file", map[string]interface{}{
			"src": name,
			"dst": destinationName,
			"err": err.Error(),
		})
		t.errored()
		return
	}

	if err := e.manifest.Record(name, hash); err != nil {
		// the copy happened but was not recorded, so the next scan makes at
		// most one duplicate copy rather than losing the file
		_ = e.logger.Error("Error recording copy in manifest", map[string]interface{}{
			"src":  name,
			"hash": hash,
			"err":  err.Error(),
		})
		t.errored()
		return
	}

	_ = e.logger.Info("Copied file", map[string]interface{}{
		"src":  name,
		"dst":  destinationName,
		"hash": hash,
	})
	t.copied()
}
