package meta

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"

	"kan-backend/internal/leads"
	"kan-backend/internal/shared/telemetry"
)

var defaultScopes = []string{
	"pages_show_list",
	"pages_messaging",
	"whatsapp_business_management",
	"whatsapp_business_messaging",
}

// LeadSource resolves leads before issuing OAuth URLs.
type LeadSource interface {
	Get(ctx context.Context, id string) (leads.Lead, error)
}

// Service drives the Meta OAuth connect flow and token storage.
type Service struct {
	OAuth  *oauth2.Config
	Tokens TokenRepo
	Leads  LeadSource

	states *stateStore
}

// NewService constructs a Service. appID may be empty; ConnectURL then
// reports ErrNotConfigured.
func NewService(appID, appSecret, redirectURL string, tokens TokenRepo, leadSource LeadSource) *Service {
	return &Service{
		OAuth: &oauth2.Config{
			ClientID:     strings.TrimSpace(appID),
			ClientSecret: strings.TrimSpace(appSecret),
			RedirectURL:  strings.TrimSpace(redirectURL),
			Scopes:       defaultScopes,
			Endpoint:     facebook.Endpoint,
		},
		Tokens: tokens,
		Leads:  leadSource,
		states: newStateStore(nil),
	}
}

// Configured reports whether the OAuth app credentials are present.
func (s *Service) Configured() bool {
	return s.OAuth.ClientID != "" && s.OAuth.ClientSecret != "" && s.OAuth.RedirectURL != ""
}

// ConnectURL returns the authorization URL for a lead. The state token is
// single-use and expires after a few minutes.
func (s *Service) ConnectURL(ctx context.Context, leadID string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	if _, err := s.Leads.Get(ctx, leadID); err != nil {
		if errors.Is(err, leads.ErrNotFound) || errors.Is(err, leads.ErrInvalidInput) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("fetch lead: %w", err)
	}
	state := s.states.Issue(leadID)
	return s.OAuth.AuthCodeURL(state), nil
}

// HandleCallback exchanges the authorization code and stores the token for
// the lead bound to the state.
func (s *Service) HandleCallback(ctx context.Context, code, state string) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	leadID, ok := s.states.Consume(state)
	if !ok {
		return "", ErrInvalidState
	}

	token, err := s.OAuth.Exchange(ctx, code)
	if err != nil {
		return leadID, fmt.Errorf("exchange code: %w", err)
	}

	stored := Token{
		LeadID:      leadID,
		Provider:    ProviderMeta,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		Raw: map[string]any{
			"token_type": token.TokenType,
		},
		CreatedAt: time.Now().UTC(),
	}
	if !token.Expiry.IsZero() {
		expiry := token.Expiry.UTC()
		stored.ExpiresAt = &expiry
	}

	if err := s.Tokens.Save(ctx, stored); err != nil {
		return leadID, fmt.Errorf("store token: %w", err)
	}

	telemetry.Info("meta.connected", map[string]any{
		"lead_id": leadID,
	})
	return leadID, nil
}

// Connected reports whether a lead has a stored Meta token.
func (s *Service) Connected(ctx context.Context, leadID string) bool {
	_, err := s.Tokens.Get(ctx, leadID, ProviderMeta)
	return err == nil
}
