package meta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestValidateWhatsAppMissingCredentials(t *testing.T) {
	v := NewValidator()
	got := v.ValidateWhatsApp(context.Background(), "", "tok")
	if got.OK || got.Error != "Falta phone_number_id o token" {
		t.Fatalf("validation = %+v", got)
	}
}

func TestValidateMessengerMissingCredentials(t *testing.T) {
	v := NewValidator()
	got := v.ValidateMessenger(context.Background(), "page-1", " ")
	if got.OK || got.Error != "Falta page_id o page token" {
		t.Fatalf("validation = %+v", got)
	}
}

func TestValidateWhatsAppSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/556677") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("fields"); got != "display_phone_number,verified_name" {
			t.Errorf("fields = %q", got)
		}
		if got := r.URL.Query().Get("access_token"); got != "tok-abc" {
			t.Errorf("access_token = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_phone_number":"+52 55 1234 5678","verified_name":"Estetica Luna"}`))
	}))
	defer srv.Close()

	v := &Validator{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got := v.ValidateWhatsApp(context.Background(), "556677", "tok-abc")
	if !got.OK {
		t.Fatalf("validation failed: %+v", got)
	}
	if got.Details["verified_name"] != "Estetica Luna" {
		t.Fatalf("details = %v", got.Details)
	}
}

func TestValidateMessengerReportsGraphError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	v := &Validator{BaseURL: srv.URL, HTTPClient: srv.Client()}
	got := v.ValidateMessenger(context.Background(), "page-1", "bad-token")
	if got.OK {
		t.Fatalf("expected failure, got %+v", got)
	}
	if !strings.Contains(got.Error, "Invalid OAuth access token") {
		t.Fatalf("error = %q", got.Error)
	}
}
