package meta

import (
	"errors"
	"time"
)

// Token is a stored OAuth token for a lead. One live token per
// (lead, provider); saving replaces any previous one.
type Token struct {
	LeadID      string
	Provider    string
	AccessToken string
	TokenType   string
	ExpiresAt   *time.Time
	Raw         map[string]any
	CreatedAt   time.Time
}

const ProviderMeta = "meta"

var (
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("meta oauth not configured")
	ErrInvalidState  = errors.New("invalid oauth state")
)
