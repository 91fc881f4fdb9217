// Package repository stores newsletter subscribers.
package repository

import (
	"context"

	"github.com/okian/herofan/internal/domain/model"
)

// Store persists subscriptions keyed by normalized email.
type Store interface {
	// Save inserts sub. Returns ErrDuplicate if the email is already stored.
	Save(ctx context.Context, sub model.Subscription) error

	// Get returns the subscription for email or ErrNotFound.
	Get(ctx context.Context, email string) (model.Subscription, error)

	// List returns every subscription, oldest first.
	List(ctx context.Context) ([]model.Subscription, error)

	Count(ctx context.Context) (int, error)

	Close() error
}
