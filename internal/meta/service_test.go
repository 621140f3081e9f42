package meta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"kan-backend/internal/engine"
	"kan-backend/internal/leads"
)

func seedLeadService(t *testing.T) (*leads.Service, leads.Lead) {
	t.Helper()
	svc := leads.NewService(leads.NewMemoryRepo(), engine.NewAnalyzer(engine.DefaultConstants(), nil), nil)
	lead, _, err := svc.Diagnose(context.Background(), engine.BusinessIntake{
		CompanyName:        "Estetica Luna",
		TeamSize:           2,
		ManualHoursPerWeek: 5,
		Bottlenecks:        "respondemos mensajes a mano",
	})
	if err != nil {
		t.Fatalf("seed lead: %v", err)
	}
	return svc, lead
}

func TestConnectURLRequiresConfig(t *testing.T) {
	leadSvc, lead := seedLeadService(t)
	svc := NewService("", "", "", NewMemoryRepo(), leadSvc)

	if _, err := svc.ConnectURL(context.Background(), lead.ID); err != ErrNotConfigured {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestConnectURLBindsState(t *testing.T) {
	leadSvc, lead := seedLeadService(t)
	svc := NewService("app-id", "app-secret", "https://kan.mx/meta/callback", NewMemoryRepo(), leadSvc)

	authURL, err := svc.ConnectURL(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("ConnectURL: %v", err)
	}
	if !strings.Contains(authURL, "client_id=app-id") {
		t.Fatalf("auth URL = %q", authURL)
	}
	if !strings.Contains(authURL, "state=") {
		t.Fatalf("auth URL missing state: %q", authURL)
	}

	if _, err := svc.ConnectURL(context.Background(), "00000000-0000-0000-0000-000000000000"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestHandleCallbackStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"bearer","expires_in":3600}`))
	}))
	defer srv.Close()

	leadSvc, lead := seedLeadService(t)
	tokens := NewMemoryRepo()
	svc := NewService("app-id", "app-secret", "https://kan.mx/meta/callback", tokens, leadSvc)
	svc.OAuth.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}

	authURL, err := svc.ConnectURL(context.Background(), lead.ID)
	if err != nil {
		t.Fatalf("ConnectURL: %v", err)
	}
	state := stateFromURL(t, authURL)

	gotLead, err := svc.HandleCallback(context.Background(), "auth-code", state)
	if err != nil {
		t.Fatalf("HandleCallback: %v", err)
	}
	if gotLead != lead.ID {
		t.Fatalf("lead = %q, want %q", gotLead, lead.ID)
	}

	token, err := tokens.Get(context.Background(), lead.ID, ProviderMeta)
	if err != nil {
		t.Fatalf("token not stored: %v", err)
	}
	if token.AccessToken != "tok-123" {
		t.Fatalf("access token = %q", token.AccessToken)
	}
	if token.ExpiresAt == nil || token.ExpiresAt.Before(time.Now().UTC()) {
		t.Fatalf("expires_at = %v", token.ExpiresAt)
	}
	if !svc.Connected(context.Background(), lead.ID) {
		t.Fatalf("expected lead to be connected")
	}

	// State is single-use.
	if _, err := svc.HandleCallback(context.Background(), "auth-code", state); err != ErrInvalidState {
		t.Fatalf("err = %v, want ErrInvalidState", err)
	}
}

func TestStateStoreExpiry(t *testing.T) {
	now := time.Now()
	store := newStateStore(func() time.Time { return now })

	state := store.Issue("lead-1")
	now = now.Add(stateTTL + time.Minute)
	if _, ok := store.Consume(state); ok {
		t.Fatalf("expected expired state to be rejected")
	}
}

func stateFromURL(t *testing.T, authURL string) string {
	t.Helper()
	idx := strings.Index(authURL, "state=")
	if idx < 0 {
		t.Fatalf("no state in %q", authURL)
	}
	state := authURL[idx+len("state="):]
	if amp := strings.Index(state, "&"); amp >= 0 {
		state = state[:amp]
	}
	return state
}
