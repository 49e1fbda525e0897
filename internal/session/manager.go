package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	apperrors "sanabridge/internal/errors"
	"sanabridge/internal/model"
	"sanabridge/internal/repository"
)

// CookieName is the session cookie set on login and read on every
// authenticated request.
const CookieName = "sb.session"

// resolveTimeout bounds the store lookup during authorization so a
// stalled database cannot hang every protected request.
const resolveTimeout = 3 * time.Second

// Manager issues, resolves and revokes login sessions. It owns token
// generation, expiry policy and cookie attributes.
type Manager struct {
	sessions     repository.SessionRepository
	duration     time.Duration
	cookieSecure bool
	now          func() time.Time
}

// NewManager creates a session manager.
func NewManager(sessions repository.SessionRepository, duration time.Duration, cookieSecure bool) *Manager {
	return &Manager{
		sessions:     sessions,
		duration:     duration,
		cookieSecure: cookieSecure,
		now:          time.Now,
	}
}

// Create persists a new session for the user and returns the raw token
// and its expiry. The record is durable before the token is handed
// back, so the cookie never references a session that might not exist.
func (m *Manager) Create(ctx context.Context, userID uuid.UUID, ip, userAgent string) (string, time.Time, error) {
	raw, err := NewToken()
	if err != nil {
		return "", time.Time{}, err
	}

	expiresAt := m.now().Add(m.duration)
	record := &model.Session{
		TokenHash: HashToken(raw),
		UserID:    userID,
		ExpiresAt: expiresAt,
		IP:        ip,
		UserAgent: userAgent,
	}
	if err := m.sessions.Create(ctx, record); err != nil {
		return "", time.Time{}, fmt.Errorf("persist session: %w", err)
	}
	return raw, expiresAt, nil
}

// Resolve looks up the session for a raw token. Missing, expired or
// unreadable sessions all surface as ErrAuthenticationRequired;
// expired rows are treated as absent, not purged here.
func (m *Manager) Resolve(ctx context.Context, raw string) (*model.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()

	record, err := m.sessions.FindByHash(ctx, HashToken(raw))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if record.Expired(m.now()) {
		return nil, apperrors.ErrAuthenticationRequired
	}
	return record, nil
}

// Delete revokes the session for a raw token. Idempotent: revoking an
// absent session is not an error.
func (m *Manager) Delete(ctx context.Context, raw string) error {
	return m.sessions.DeleteByHash(ctx, HashToken(raw))
}

// ApplyCookie attaches the raw token to the response as an HttpOnly
// session cookie whose expiry matches the server-side record.
func (m *Manager) ApplyCookie(c echo.Context, raw string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    raw,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie overwrites the session cookie with an empty, epoch-expired
// value so the client discards it.
func (m *Manager) ClearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
