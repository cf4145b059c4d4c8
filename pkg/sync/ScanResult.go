// =================================================================
//
// Copyright (c) the onesync contributors.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package sync

import (
	"sync"
)

// ScanResult reports the outcome of one full scan of the source tree.
type ScanResult struct {
	Copied               int
	SkippedAlreadyCopied int
	SkippedByExtension   int
	Errors               int
}

// Fields returns the counters in a form suitable for logging.
func (r *ScanResult) Fields() map[string]interface{} {
	return map[string]interface{}{
		"copied":                 r.Copied,
		"skipped_already_copied": r.SkippedAlreadyCopied,
		"skipped_by_extension":   r.SkippedByExtension,
		"errors":                 r.Errors,
	}
}

// tally accumulates scan counters across workers.
type tally struct {
	mutex  sync.Mutex
	result ScanResult
}

func (t *tally) copied() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.result.Copied++
}

func (t *tally) skippedAlreadyCopied() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.result.SkippedAlreadyCopied++
}

func (t *tally) skippedByExtension() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.result.SkippedByExtension++
}

func (t *tally) errored() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.result.Errors++
}

func (t *tally) snapshot() *ScanResult {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	result := t.result
	return &result
}
