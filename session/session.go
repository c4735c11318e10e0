// Package session issues and verifies signed session cookies.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie.
	CookieName = "cinestream_session"
	// DefaultMaxAge is the session lifetime when none is configured.
	DefaultMaxAge = 7 * 24 * time.Hour

	issuer       = "cinestream"
	minSecretLen = 16
)

// ErrNoSession indicates a missing, expired or invalid session.
var ErrNoSession = errors.New("no session")

// Identity is the signed-in user carried by a session.
type Identity struct {
	UserID   int64
	Username string
}

type claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

// Manager signs and verifies session tokens.
type Manager struct {
	secret []byte
	maxAge time.Duration
	secure bool
	now    func() time.Time
}

// NewManager creates a manager. The secret must be at least 16 bytes.
func NewManager(secret string, maxAge time.Duration, secure bool) (*Manager, error) {
	if len(secret) < minSecretLen {
		return nil, fmt.Errorf("session secret must be at least %d characters", minSecretLen)
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	return &Manager{
		secret: []byte(secret),
		maxAge: maxAge,
		secure: secure,
		now:    time.Now,
	}, nil
}

// Sign returns a token for id.
func (m *Manager) Sign(id Identity) (string, error) {
	now := m.now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.maxAge)),
			ID:        uuid.New().String(),
		},
		Username: id.Username,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return token, nil
}

// Parse verifies a token and returns its identity.
func (m *Manager) Parse(token string) (Identity, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return Identity{}, ErrNoSession
	}

	userID, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Identity{}, ErrNoSession
	}
	return Identity{UserID: userID, Username: c.Username}, nil
}

// Issue signs a token for id and sets it as the session cookie.
func (m *Manager) Issue(w http.ResponseWriter, id Identity) error {
	token, err := m.Sign(id)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the identity of the request's session cookie.
func (m *Manager) FromRequest(r *http.Request) (Identity, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return Identity{}, ErrNoSession
	}
	return m.Parse(cookie.Value)
}

type contextKey struct{}

// WithIdentity stores id in ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the identity stored by WithIdentity.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
