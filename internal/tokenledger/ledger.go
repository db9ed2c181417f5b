// Package tokenledger records whether issued tokens have been revoked.
//
// Each token id maps to "false" (live) or "true" (revoked). Records expire
// shortly after the token itself. A missing record, an unreadable store or
// an unexpected value all count as revoked.
package tokenledger

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	keyPrefix = "jti:"

	valueLive    = "false"
	valueRevoked = "true"

	// a record lives 6/5 (1.2x) of its token's lifetime
	marginNum = 6
	marginDen = 5
)

// Store is the key-value contract the ledger needs.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
}

type Ledger struct {
	store Store
	log   *zap.Logger
}

func New(store Store, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, log: log}
}

// TTLFor returns the record lifetime for a token valid for lifetime.
func TTLFor(lifetime time.Duration) time.Duration {
	return lifetime * marginNum / marginDen
}

// Record marks a freshly issued token as live.
func (l *Ledger) Record(ctx context.Context, tokenID string, lifetime time.Duration) error {
	return l.store.Set(ctx, keyPrefix+tokenID, valueLive, TTLFor(lifetime))
}

// Revoke marks the token as revoked, inserting the record if needed.
func (l *Ledger) Revoke(ctx context.Context, tokenID string, lifetime time.Duration) error {
	return l.store.Set(ctx, keyPrefix+tokenID, valueRevoked, TTLFor(lifetime))
}

func (l *Ledger) IsRevoked(ctx context.Context, tokenID string) bool {
	if tokenID == "" {
		return true
	}
	v, found, err := l.store.Get(ctx, keyPrefix+tokenID)
	if err != nil {
		l.log.Warn("token ledger unavailable, treating token as revoked",
			zap.String("jti", tokenID), zap.Error(err))
		return true
	}
	return !found || v != valueLive
}
