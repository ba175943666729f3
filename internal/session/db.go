package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/KAFKA2306/chat-code-architect-ai2/internal/model"
	"github.com/KAFKA2306/chat-code-architect-ai2/internal/store"
)

// DBStore keeps auth sessions in the auth_sessions table.
type DBStore struct {
	store *store.Store
}

// NewDBStore returns the database-backed session store.
func NewDBStore(s *store.Store) *DBStore {
	return &DBStore{store: s}
}

func (d *DBStore) Create(ctx context.Context, tokenHash string, userID uint, ttl time.Duration) error {
	return d.store.CreateAuthSession(ctx, &model.AuthSession{
		ID:        uuid.New().String(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(ttl),
	})
}

func (d *DBStore) Get(ctx context.Context, tokenHash string) (*Record, error) {
	sess, err := d.store.GetAuthSessionByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if sess.ExpiresAt.Before(time.Now()) {
		// Expired rows are swept by DeleteExpired; treat as absent now.
		return nil, ErrNotFound
	}
	return &Record{UserID: sess.UserID, ExpiresAt: sess.ExpiresAt}, nil
}

func (d *DBStore) Delete(ctx context.Context, tokenHash string) error {
	return d.store.DeleteAuthSession(ctx, tokenHash)
}

func (d *DBStore) DeleteExpired(ctx context.Context) error {
	return d.store.DeleteExpiredAuthSessions(ctx)
}
