// Package keylock provides per-key exclusive locks with context-bounded acquisition.
package keylock

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

type entry struct {
	sem  *semaphore.Weighted
	refs int
}

// Locker hands out one weight-1 semaphore per key. Entries are reference counted and
// dropped once no holder or waiter remains, so the map stays bounded by live keys.
type Locker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

func New() *Locker {
	return &Locker{entries: make(map[uuid.UUID]*entry)}
}

func (l *Locker) ref(key uuid.UUID) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		e = &entry{sem: semaphore.NewWeighted(1)}
		l.entries[key] = e
	}
	e.refs++
	return e.sem
}

func (l *Locker) unref(key uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[key]
	if !ok {
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// Lock acquires every key in canonical order, so callers locking overlapping sets
// cannot deadlock. On failure nothing stays held and ctx's error is returned.
// The returned func releases all keys and is safe to call once.
func (l *Locker) Lock(ctx context.Context, keys ...uuid.UUID) (func(), error) {
	ordered := slices.Clone(keys)
	slices.SortFunc(ordered, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
	ordered = slices.Compact(ordered)

	type holding struct {
		key uuid.UUID
		sem *semaphore.Weighted
	}
	held := make([]holding, 0, len(ordered))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].sem.Release(1)
			l.unref(held[i].key)
		}
	}

	for _, key := range ordered {
		sem := l.ref(key)
		if err := sem.Acquire(ctx, 1); err != nil {
			l.unref(key)
			release()
			return nil, err
		}
		held = append(held, holding{key: key, sem: sem})
	}

	var once sync.Once
	return func() { once.Do(release) }, nil
}

// Len reports the number of keys currently held or awaited.
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
