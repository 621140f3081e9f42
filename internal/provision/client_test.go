package provision

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kan-backend/internal/engine"
)

func TestProvisionMissingConfig(t *testing.T) {
	client := NewClient("", "", "http://app.local")

	outcome := client.Provision(context.Background(), Request{
		ProjectID:     "p1",
		WantsWhatsApp: true,
	})
	if outcome.Status != StatusMissingConfig {
		t.Fatalf("status = %q, want missing_config", outcome.Status)
	}
	if len(outcome.Results) != 0 {
		t.Fatalf("expected no workflow attempts, got %d", len(outcome.Results))
	}
}

func TestProvisionImportsWhatsAppWorkflow(t *testing.T) {
	var gotPath, gotKey string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-N8N-API-KEY")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", "http://app.local")
	outcome := client.Provision(context.Background(), Request{
		ProjectID: "42",
		Intake: engine.BusinessIntake{
			CompanyName: "Estetica Luna",
			Industry:    "Servicios",
		},
		MetaAccess: map[string]string{
			"whatsapp_token":           "tok",
			"whatsapp_phone_number_id": "555",
		},
		WantsWhatsApp: true,
	})

	if outcome.Status != StatusOK || !outcome.AllOK() {
		t.Fatalf("outcome = %+v", outcome)
	}
	if len(outcome.Results) != 1 || outcome.Results[0].Workflow != "whatsapp" {
		t.Fatalf("results = %+v", outcome.Results)
	}
	if gotPath != "/api/v1/workflows" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotKey != "secret" {
		t.Fatalf("api key header = %q", gotKey)
	}

	body := string(gotBody)
	if strings.Contains(body, "{{") {
		t.Fatalf("unresolved placeholders in workflow: %s", body)
	}
	for _, want := range []string{"proyecto 42", "Estetica Luna", "555", "http://app.local"} {
		if !strings.Contains(body, want) {
			t.Fatalf("workflow body missing %q", want)
		}
	}
	var doc map[string]any
	if err := json.Unmarshal(gotBody, &doc); err != nil {
		t.Fatalf("workflow body is not JSON: %v", err)
	}
}

func TestProvisionFallsBackToRestPath(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/v1/workflows" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", "http://app.local")
	outcome := client.Provision(context.Background(), Request{
		ProjectID:      "7",
		WantsMessenger: true,
	})

	if !outcome.AllOK() {
		t.Fatalf("outcome = %+v", outcome)
	}
	want := []string{"/api/v1/workflows", "/rest/workflows"}
	if len(paths) != 2 || paths[0] != want[0] || paths[1] != want[1] {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
}

func TestProvisionReportsFailureDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad key"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "wrong", "http://app.local")
	outcome := client.Provision(context.Background(), Request{
		ProjectID:     "9",
		WantsWhatsApp: true,
	})

	if outcome.Status != StatusOK {
		t.Fatalf("status = %q", outcome.Status)
	}
	if outcome.AllOK() {
		t.Fatalf("expected a failed result")
	}
	r := outcome.Results[0]
	if r.OK || !strings.Contains(r.Detail, "401") {
		t.Fatalf("result = %+v", r)
	}
}
