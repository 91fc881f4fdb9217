// Package dedupe tracks keys that were already accepted so a signup is
// processed at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so it can be retried. Used when a recorded key
	// could not be handed to the queue.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps 64-bit key hashes in insertion order. When bounded,
// the oldest hash is evicted first.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[uint64]*list.Element
	order   *list.List
	maxSize int // <= 0 means unbounded
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: 50000,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[uint64]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	h := xxhash.Sum64String(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[h]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(uint64))
	}
	d.seen[h] = d.order.PushBack(h)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	h := xxhash.Sum64String(key)

	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[h]; ok {
		d.order.Remove(el)
		delete(d.seen, h)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
