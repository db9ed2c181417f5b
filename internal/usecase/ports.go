package usecase

import (
	"context"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/auth"
	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/search"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hashed string) bool
}

type TokenIssuer interface {
	Issue(userID int64, t auth.TokenType, fresh bool) (auth.Token, error)
	Parse(raw string, t auth.TokenType) (*auth.Claims, error)
	Lifetime(t auth.TokenType) time.Duration
}

type TokenLedger interface {
	Record(ctx context.Context, tokenID string, lifetime time.Duration) error
	Revoke(ctx context.Context, tokenID string, lifetime time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) bool
}

// KeyValueStore holds short-lived activation links.
type KeyValueStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// MailMessage is one outbound email with plain text and HTML bodies.
type MailMessage struct {
	Subject    string
	Sender     string
	Recipients []string
	Text       string
	HTML       string
}

type Mailer interface {
	Send(ctx context.Context, m MailMessage) error
}

type EmailRenderer interface {
	Email(name string, data any) (text, html string, err error)
}

// Reindexer rebuilds a search index from the relational store.
type Reindexer interface {
	ReindexAll(ctx context.Context, index string) error
}

type Searcher interface {
	Search(ctx context.Context, index, query string, page, perPage int) (search.Hits, error)
}
