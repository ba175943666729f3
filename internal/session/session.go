// Package session abstracts where auth sessions live. The default backing
// is the relational database; a Redis backing is available for
// multi-instance deployments where sessions must be shared.
package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a credential is unknown or expired.
var ErrNotFound = errors.New("session not found")

// Record maps an opaque credential (by hash) to a user id with expiry.
type Record struct {
	UserID    uint
	ExpiresAt time.Time
}

// Store is the auth-session backing injected into the auth service.
type Store interface {
	// Create binds tokenHash to userID for ttl.
	Create(ctx context.Context, tokenHash string, userID uint, ttl time.Duration) error
	// Get resolves tokenHash, returning ErrNotFound for unknown or
	// expired credentials.
	Get(ctx context.Context, tokenHash string) (*Record, error)
	// Delete invalidates tokenHash server-side.
	Delete(ctx context.Context, tokenHash string) error
	// DeleteExpired removes expired entries where the backing does not
	// expire them itself.
	DeleteExpired(ctx context.Context) error
}
