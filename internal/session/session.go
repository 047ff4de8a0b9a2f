// Package session issues and validates the signed console session token.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CookieName is the cookie carrying the session token.
const CookieName = "admin_session"

const issuer = "fitness-admin"

// ErrNoSession means the token is missing, malformed, expired or revoked.
var ErrNoSession = errors.New("no active session")

// Session is the authenticated identity behind a token. It carries no role:
// authorization always reads the current profile.
type Session struct {
	UserID    primitive.ObjectID
	TokenID   string
	ExpiresAt time.Time
}

// claims defines the structure of the JWT payload.
type claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// Manager signs tokens and resolves them back into sessions.
type Manager struct {
	secret      []byte
	expiration  time.Duration
	revocations RevocationStore
	now         func() time.Time
}

// NewManager creates a Manager. The secret must not be empty.
func NewManager(secret string, expiration time.Duration, revocations RevocationStore) *Manager {
	if secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	if expiration <= 0 {
		expiration = time.Hour
	}
	if revocations == nil {
		revocations = NewMemoryRevocations()
	}
	return &Manager{
		secret:      []byte(secret),
		expiration:  expiration,
		revocations: revocations,
		now:         time.Now,
	}
}

// Expiration is the lifetime of issued tokens.
func (m *Manager) Expiration() time.Duration {
	return m.expiration
}

// Issue signs a new token for userID.
func (m *Manager) Issue(userID primitive.ObjectID) (string, *Session, error) {
	now := m.now()
	s := &Session{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.expiration),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		UserID: userID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID,
			Subject:   userID.Hex(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return signed, s, nil
}

func (m *Manager) parse(tokenString string) (*Session, error) {
	c := &claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrNoSession
	}
	if c.Issuer != issuer || c.ID == "" || c.ExpiresAt == nil {
		return nil, ErrNoSession
	}
	uid, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return nil, ErrNoSession
	}
	return &Session{UserID: uid, TokenID: c.ID, ExpiresAt: c.ExpiresAt.Time}, nil
}

// Lookup resolves tokenString into a live session. Store failures are returned as-is
// so callers can tell an outage from a missing session.
func (m *Manager) Lookup(ctx context.Context, tokenString string) (*Session, error) {
	if tokenString == "" {
		return nil, ErrNoSession
	}
	s, err := m.parse(tokenString)
	if err != nil {
		return nil, err
	}
	revoked, err := m.revocations.IsRevoked(ctx, s.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrNoSession
	}
	return s, nil
}

// Revoke invalidates tokenString until it would have expired anyway.
// Tokens that do not parse are already unusable and are ignored.
func (m *Manager) Revoke(ctx context.Context, tokenString string) error {
	s, err := m.parse(tokenString)
	if err != nil {
		return nil
	}
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.revocations.Revoke(ctx, s.TokenID, ttl)
}

// TokenFromRequest returns the session cookie, falling back to an Authorization: Bearer header.
func TokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}
