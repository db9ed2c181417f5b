// Package auth issues and verifies JWTs and hashes passwords.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongType    = errors.New("wrong token type")
)

// Claims are the JWT claims. ID is the jti tracked by the token ledger.
type Claims struct {
	Type  TokenType `json:"type"`
	Fresh bool      `json:"fresh,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a user id.
func (c *Claims) UserID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Token is a signed JWT with the metadata the ledger needs.
type Token struct {
	Raw       string
	JTI       string
	Lifetime  time.Duration
	ExpiresAt time.Time
}

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(secret string, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Lifetime returns the configured lifetime of a token type.
func (i *Issuer) Lifetime(t TokenType) time.Duration {
	if t == RefreshToken {
		return i.refreshTTL
	}
	return i.accessTTL
}

// Issue signs a new token for userID. fresh only applies to access tokens.
func (i *Issuer) Issue(userID int64, t TokenType, fresh bool) (Token, error) {
	now := i.now()
	lifetime := i.Lifetime(t)
	exp := now.Add(lifetime)
	jti := uuid.NewString()

	claims := Claims{
		Type:  t,
		Fresh: fresh && t == AccessToken,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{Raw: signed, JTI: jti, Lifetime: lifetime, ExpiresAt: exp}, nil
}

// Parse verifies signature, expiry and type.
func (i *Issuer) Parse(raw string, want TokenType) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != want {
		return nil, ErrWrongType
	}
	return claims, nil
}
