package tokenledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/infra/redisstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLedger(t *testing.T) (*Ledger, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return New(redisstore.New(client), nil), mr
}

func TestTTLFor(t *testing.T) {
	assert.Equal(t, 18*time.Minute, TTLFor(15*time.Minute))
	assert.Equal(t, 36*24*time.Hour, TTLFor(30*24*time.Hour))
}

func TestLedger_RecordThenRevoke(t *testing.T) {
	l, mr := newRedisLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, "abc", 15*time.Minute))
	assert.False(t, l.IsRevoked(ctx, "abc"))
	assert.Equal(t, 18*time.Minute, mr.TTL("jti:abc"))

	v, err := mr.Get("jti:abc")
	require.NoError(t, err)
	assert.Equal(t, "false", v)

	require.NoError(t, l.Revoke(ctx, "abc", 15*time.Minute))
	assert.True(t, l.IsRevoked(ctx, "abc"))
}

func TestLedger_UnknownTokenIsRevoked(t *testing.T) {
	l, _ := newRedisLedger(t)
	assert.True(t, l.IsRevoked(context.Background(), "never-issued"))
	assert.True(t, l.IsRevoked(context.Background(), ""))
}

func TestLedger_ExpiredRecordIsRevoked(t *testing.T) {
	l, mr := newRedisLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Record(ctx, "short", time.Minute))
	mr.FastForward(59 * time.Second)
	assert.False(t, l.IsRevoked(ctx, "short"))

	mr.FastForward(13 * time.Second)
	assert.True(t, l.IsRevoked(ctx, "short"))
}

func TestLedger_RevokeUnrecordedToken(t *testing.T) {
	l, mr := newRedisLedger(t)
	ctx := context.Background()

	require.NoError(t, l.Revoke(ctx, "late", time.Minute))
	v, err := mr.Get("jti:late")
	require.NoError(t, err)
	assert.Equal(t, "true", v)
}

func TestLedger_UnexpectedValueIsRevoked(t *testing.T) {
	l, mr := newRedisLedger(t)
	require.NoError(t, mr.Set("jti:odd", "maybe"))
	assert.True(t, l.IsRevoked(context.Background(), "odd"))
}

type failingStore struct{}

func (failingStore) Set(context.Context, string, string, time.Duration) error {
	return errors.New("down")
}

func (failingStore) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}

func TestLedger_StoreFailure(t *testing.T) {
	l := New(failingStore{}, nil)
	ctx := context.Background()

	assert.Error(t, l.Record(ctx, "x", time.Minute))
	assert.True(t, l.IsRevoked(ctx, "x"))
}
