package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/okian/herofan/internal/domain/model"
)

// MemoryStore keeps subscriptions in a map. Contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	subs map[string]model.Subscription
	seq  []string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{subs: make(map[string]model.Subscription)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, sub model.Subscription) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[sub.Email]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicate, sub.Email)
	}
	s.subs[sub.Email] = sub
	s.seq = append(s.seq, sub.Email)
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, email string) (model.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return model.Subscription{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[email]
	if !ok {
		return model.Subscription{}, fmt.Errorf("%w: %s", ErrNotFound, email)
	}
	return sub, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]model.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Subscription, 0, len(s.seq))
	for _, email := range s.seq {
		out = append(out, s.subs[email])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs), nil
}

// Close implements Store. It is a no-op.
func (s *MemoryStore) Close() error { return nil }
