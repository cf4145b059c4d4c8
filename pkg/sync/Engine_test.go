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
	"io"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onesync/onesync/pkg/filter"
	"github.com/onesync/onesync/pkg/lfs"
	"github.com/onesync/onesync/pkg/log"
	"github.com/onesync/onesync/pkg/manifest"
)

type testEnv struct {
	sourceBase afero.Fs
	destBase   afero.Fs
	store      *manifest.Store
	engine     *Engine
}

type testOptions struct {
	extensions []string
	mode       filter.Mode
	flatten    bool
	threads    int
}

func newTestEnv(t *testing.T, files map[string]string, options testOptions) *testEnv {
	t.Helper()

	sourceBase := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, sourceBase.MkdirAll(filepath.Dir("/"+name), 0755))
		require.NoError(t, afero.WriteFile(sourceBase, "/"+name, []byte(content), 0644))
	}

	destBase := afero.NewMemMapFs()

	store, err := manifest.Open(afero.NewMemMapFs(), "/state")
	require.NoError(t, err)

	env := &testEnv{
		sourceBase: sourceBase,
		destBase:   destBase,
		store:      store,
	}
	env.engine = NewEngine(&EngineInput{
		SourceFileSystem:      lfs.New(afero.NewReadOnlyFs(afero.NewBasePathFs(sourceBase, "/")), "/"),
		DestinationFileSystem: lfs.New(afero.NewBasePathFs(destBase, "/"), "/"),
		Manifest:              store,
		Filter:                filter.New(options.extensions, options.mode),
		FlattenOutput:         options.flatten,
		MaxThreads:            options.threads,
		Logger:                log.NewSimpleLoggerWithLevel(io.Discard, log.LevelError),
	})
	return env
}

func (env *testEnv) scan(t *testing.T) *ScanResult {
	t.Helper()
	result, err := env.engine.Scan(context.Background())
	require.NoError(t, err)
	return result
}

func (env *testEnv) destContent(t *testing.T, name string) string {
	t.Helper()
	data, err := afero.ReadFile(env.destBase, "/"+name)
	require.NoError(t, err)
	return string(data)
}

func TestScanCopiesNewFiles(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"file1.txt":               "one",
		"photos/photo1.jpg":       "two",
		"docs/reports/report.pdf": "three",
	}, testOptions{})

	result := env.scan(t)
	assert.Equal(t, 3, result.Copied)
	assert.Equal(t, 0, result.SkippedAlreadyCopied)
	assert.Equal(t, 0, result.SkippedByExtension)
	assert.Equal(t, 0, result.Errors)

	assert.Equal(t, "one", env.destContent(t, "file1.txt"))
	assert.Equal(t, "two", env.destContent(t, "photos/photo1.jpg"))
	assert.Equal(t, "three", env.destContent(t, "docs/reports/report.pdf"))
}

func TestScanIdempotent(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt":   "alpha",
		"b/c.txt": "charlie",
	}, testOptions{})

	first := env.scan(t)
	assert.Equal(t, 2, first.Copied)

	second := env.scan(t)
	assert.Equal(t, 0, second.Copied)
	assert.Equal(t, 2, second.SkippedAlreadyCopied)
	assert.Equal(t, 0, second.Errors)
}

func TestScanRenameInvariance(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt": "alpha",
	}, testOptions{})

	first := env.scan(t)
	assert.Equal(t, 1, first.Copied)

	// rename at the source keeps the same content
	require.NoError(t, env.sourceBase.Rename("/a.txt", "/renamed.txt"))

	second := env.scan(t)
	assert.Equal(t, 0, second.Copied)
	assert.Equal(t, 1, second.SkippedAlreadyCopied)
}

func TestScanDestinationDeletionInvariance(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt": "alpha",
	}, testOptions{})

	first := env.scan(t)
	assert.Equal(t, 1, first.Copied)

	require.NoError(t, env.destBase.Remove("/a.txt"))

	second := env.scan(t)
	assert.Equal(t, 0, second.Copied)
	assert.Equal(t, 1, second.SkippedAlreadyCopied)

	exists, err := afero.Exists(env.destBase, "/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestScanExtensionInclude(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt":  "text",
		"a.jpg":  "image",
		"README": "readme",
	}, testOptions{
		extensions: []string{"jpg", "png"},
		mode:       filter.ModeInclude,
	})

	result := env.scan(t)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 2, result.SkippedByExtension)

	assert.Equal(t, "image", env.destContent(t, "a.jpg"))
	exists, err := afero.Exists(env.destBase, "/a.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestScanExtensionExclude(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"movie.mp4": "video",
		"photo.jpg": "image",
		"README":    "readme",
	}, testOptions{
		extensions: []string{"mp4"},
		mode:       filter.ModeExclude,
	})

	result := env.scan(t)
	assert.Equal(t, 2, result.Copied)
	assert.Equal(t, 1, result.SkippedByExtension)

	assert.Equal(t, "image", env.destContent(t, "photo.jpg"))
	assert.Equal(t, "readme", env.destContent(t, "README"))
}

func TestScanFlatten(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"file1.txt":               "one",
		"photos/photo1.jpg":       "two",
		"docs/reports/report.pdf": "three",
	}, testOptions{
		flatten: true,
	})

	result := env.scan(t)
	assert.Equal(t, 3, result.Copied)

	assert.Equal(t, "one", env.destContent(t, "file1.txt"))
	assert.Equal(t, "two", env.destContent(t, "photo1.jpg"))
	assert.Equal(t, "three", env.destContent(t, "report.pdf"))

	exists, err := afero.Exists(env.destBase, "/photos")
	require.NoError(t, err)
	assert.False(t, exists)

	paths, hashes := env.store.Len()
	assert.Equal(t, 3, paths)
	assert.Equal(t, 3, hashes)
}

func TestScanDistinctContent(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt": "alpha",
		"b.txt": "bravo",
	}, testOptions{})

	result := env.scan(t)
	assert.Equal(t, 2, result.Copied)

	_, hashes := env.store.Len()
	assert.Equal(t, 2, hashes)
}

func TestScanDuplicateContentCopiedOnce(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt":      "same content",
		"copy/b.txt": "same content",
	}, testOptions{})

	result := env.scan(t)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 1, result.SkippedAlreadyCopied)

	_, hashes := env.store.Len()
	assert.Equal(t, 1, hashes)
}

func TestScanParallel(t *testing.T) {
	files := map[string]string{}
	for i := 0; i < 10; i++ {
		content := fmt.Sprintf("content %d", i)
		files[fmt.Sprintf("a/file%d.txt", i)] = content
		files[fmt.Sprintf("b/file%d.txt", i)] = content
	}
	env := newTestEnv(t, files, testOptions{
		threads: 4,
	})

	result := env.scan(t)
	assert.Equal(t, 10, result.Copied)
	assert.Equal(t, 10, result.SkippedAlreadyCopied)
	assert.Equal(t, 0, result.Errors)

	_, hashes := env.store.Len()
	assert.Equal(t, 10, hashes)
}

func TestScanCopyFailureNotRecorded(t *testing.T) {
	sourceBase := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(sourceBase, "/a.txt", []byte("alpha"), 0644))

	destBase := afero.NewMemMapFs()

	store, err := manifest.Open(afero.NewMemMapFs(), "/state")
	require.NoError(t, err)

	logger := log.NewSimpleLoggerWithLevel(io.Discard, log.LevelError)
	source := lfs.New(afero.NewBasePathFs(sourceBase, "/"), "/")

	// an unwritable destination fails the copy and leaves no manifest entry
	broken := NewEngine(&EngineInput{
		SourceFileSystem:      source,
		DestinationFileSystem: lfs.New(afero.NewReadOnlyFs(afero.NewBasePathFs(destBase, "/")), "/"),
		Manifest:              store,
		Filter:                filter.New(nil, filter.ModeInclude),
		Logger:                logger,
	})
	result, err := broken.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Copied)
	assert.Equal(t, 1, result.Errors)

	paths, hashes := store.Len()
	assert.Equal(t, 0, paths)
	assert.Equal(t, 0, hashes)

	// the next scan with a writable destination retries the file
	fixed := NewEngine(&EngineInput{
		SourceFileSystem:      source,
		DestinationFileSystem: lfs.New(afero.NewBasePathFs(destBase, "/"), "/"),
		Manifest:              store,
		Filter:                filter.New(nil, filter.ModeInclude),
		Logger:                logger,
	})
	result, err = fixed.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Copied)
	assert.Equal(t, 0, result.Errors)
}

func TestScanCancelled(t *testing.T) {
	env := newTestEnv(t, map[string]string{
		"a.txt": "alpha",
	}, testOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := env.engine.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, result.Copied)
}
