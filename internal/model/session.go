package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side login session. The primary key is the
// SHA-256 hash of the raw token; the raw token itself lives only in
// the client's cookie and is never persisted.
type Session struct {
	TokenHash string    `json:"-" gorm:"type:char(64);primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:char(36);not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	IP        string    `json:"ip" gorm:"size:45"`
	UserAgent string    `json:"user_agent" gorm:"size:255"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session has passed its expiry at the
// given instant.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
