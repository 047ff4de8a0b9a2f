package session

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIssueAndLookup(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, nil)
	uid := primitive.NewObjectID()

	token, issued, err := m.Issue(uid)
	require.NoError(t, err)
	require.NotEmpty(t, issued.TokenID)

	s, err := m.Lookup(ctx, token)
	require.NoError(t, err)
	require.Equal(t, uid, s.UserID)
	require.Equal(t, issued.TokenID, s.TokenID)
}

func TestLookupRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, nil)

	_, err := m.Lookup(ctx, "")
	require.ErrorIs(t, err, ErrNoSession)
	_, err = m.Lookup(ctx, "not-a-jwt")
	require.ErrorIs(t, err, ErrNoSession)

	other := NewManager("other-secret", time.Hour, nil)
	token, _, err := other.Issue(primitive.NewObjectID())
	require.NoError(t, err)
	_, err = m.Lookup(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	expired := NewManager("secret", time.Hour, nil)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err = expired.Issue(primitive.NewObjectID())
	require.NoError(t, err)
	_, err = m.Lookup(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	// A token signed with "none" must never be accepted.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &claims{UserID: primitive.NewObjectID().Hex()})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Lookup(ctx, raw)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestRevoke(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, NewMemoryRevocations())
	token, _, err := m.Issue(primitive.NewObjectID())
	require.NoError(t, err)

	require.NoError(t, m.Revoke(ctx, token))
	_, err = m.Lookup(ctx, token)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, m.Revoke(ctx, "garbage"))
}

func TestMemoryRevocationsExpire(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocations()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	require.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc")
	require.Equal(t, "abc", TokenFromRequest(r))

	r.Header.Set("Cookie", CookieName+"=from-cookie")
	require.Equal(t, "from-cookie", TokenFromRequest(r))
}

// Runs only when a Redis server is available, e.g. REDIS_ADDR=localhost:6379.
func TestRedisRevocations(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRevocations(client)
	jti := primitive.NewObjectID().Hex()
	require.NoError(t, store.Revoke(ctx, jti, time.Minute))
	revoked, err := store.IsRevoked(ctx, jti)
	require.NoError(t, err)
	require.True(t, revoked)

	revoked, err = store.IsRevoked(ctx, "never-revoked")
	require.NoError(t, err)
	require.False(t, revoked)
}
