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

// keyedMutex serializes the check-copy-record sequence per content hash so
// that two files with identical content processed in parallel can never both
// be copied.
type keyedMutex struct {
	mutex sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{
		locks: map[string]*sync.Mutex{},
	}
}

// Lock locks the mutex for the given key and returns its unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mutex.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mutex.Unlock()
	l.Lock()
	return l.Unlock
}
