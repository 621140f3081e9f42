package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"kan-backend/internal/engine"
	"kan-backend/internal/leads"
	"kan-backend/internal/projects"
)

type checkoutFixture struct {
	router   *gin.Engine
	leads    *leads.Service
	projects *projects.Service
}

func newCheckoutFixture(t *testing.T, mp *Client) checkoutFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	leadSvc := leads.NewService(leads.NewMemoryRepo(), engine.NewAnalyzer(engine.DefaultConstants(), nil), nil)
	projectSvc := projects.NewService(projects.NewMemoryRepo(), leadSvc, nil)

	router := gin.New()
	NewHandler(NewService(leadSvc, projectSvc, mp)).RegisterRoutes(router.Group("/api/v1"))
	return checkoutFixture{router: router, leads: leadSvc, projects: projectSvc}
}

func (f checkoutFixture) seedExpressLead(t *testing.T) (leads.Lead, projects.Project) {
	t.Helper()
	lead, _, _, err := f.leads.QuickStart(context.Background(), "agenda_chatbot", "Estetica Luna", "luna@example.com", "5215512345678")
	if err != nil {
		t.Fatalf("quick start: %v", err)
	}
	return lead, f.seedProject(t, lead.ID)
}

func (f checkoutFixture) seedDiagnosedLead(t *testing.T) (leads.Lead, projects.Project) {
	t.Helper()
	lead, _, err := f.leads.Diagnose(context.Background(), engine.BusinessIntake{
		CompanyName:        "Ferreteria El Tornillo",
		TeamSize:           6,
		ManualHoursPerWeek: 14,
		Bottlenecks:        "cotizamos a mano y tardamos dias",
		ContactEmail:       "tornillo@example.com",
	})
	if err != nil {
		t.Fatalf("diagnose: %v", err)
	}
	return lead, f.seedProject(t, lead.ID)
}

func (f checkoutFixture) seedProject(t *testing.T, leadID string) projects.Project {
	t.Helper()
	project, _, err := f.projects.Create(context.Background(), projects.CreateInput{
		LeadID:          leadID,
		ConsentContract: true,
		ConsentAccess:   true,
		PaymentMethod:   "tarjeta",
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	return project
}

func (f checkoutFixture) post(t *testing.T, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/mercadopago/preference", bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func testClient(t *testing.T, apiBase string) *Client {
	t.Helper()
	c := NewClient(Config{
		AccessToken: "test-token",
		PublicKey:   "TEST-public-key",
		APIBase:     apiBase,
		BackURLs: BackURLs{
			Success: "https://kan.mx/gracias",
			Pending: "https://kan.mx/pendiente",
			Failure: "https://kan.mx/error",
		},
	})
	return c
}

func TestCreateCheckoutNotConfigured(t *testing.T) {
	f := newCheckoutFixture(t, nil)
	rec := f.post(t, map[string]any{"lead_id": "x", "project_id": "y"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCheckoutChargesExpressPrice(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkout/preferences" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode preference: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-1","init_point":"https://mp.example/checkout/pref-1"}`))
	}))
	defer srv.Close()

	f := newCheckoutFixture(t, testClient(t, srv.URL))
	lead, project := f.seedExpressLead(t)

	rec := f.post(t, map[string]any{"lead_id": lead.ID, "project_id": project.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["preference_id"] != "pref-1" || body["public_key"] != "TEST-public-key" {
		t.Fatalf("body = %v", body)
	}
	if body["amount_mxn"] != 3500.0 {
		t.Fatalf("amount_mxn = %v, want 3500", body["amount_mxn"])
	}

	items := captured["items"].([]any)
	item := items[0].(map[string]any)
	if item["unit_price"] != 3500.0 || item["currency_id"] != "MXN" {
		t.Fatalf("item = %v", item)
	}
	wantRef := "lead-" + lead.ID + "-project-" + project.ID
	if captured["external_reference"] != wantRef {
		t.Fatalf("external_reference = %v, want %q", captured["external_reference"], wantRef)
	}
	payer := captured["payer"].(map[string]any)
	if payer["email"] != "luna@example.com" {
		t.Fatalf("payer = %v", payer)
	}
}

func TestCreateCheckoutChargesSetupFee(t *testing.T) {
	var unitPrice float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var captured map[string]any
		_ = json.NewDecoder(r.Body).Decode(&captured)
		unitPrice = captured["items"].([]any)[0].(map[string]any)["unit_price"].(float64)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"pref-2","init_point":"https://mp.example/checkout/pref-2"}`))
	}))
	defer srv.Close()

	f := newCheckoutFixture(t, testClient(t, srv.URL))
	lead, project := f.seedDiagnosedLead(t)

	rec := f.post(t, map[string]any{"lead_id": lead.ID, "project_id": project.ID})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if want := float64(lead.Diagnosis.Pricing.SetupFeeMXN); unitPrice != want {
		t.Fatalf("unit_price = %v, want %v", unitPrice, want)
	}
}

func TestCreateCheckoutRejectsStaleProject(t *testing.T) {
	f := newCheckoutFixture(t, testClient(t, "https://mp.invalid"))
	lead, _ := f.seedDiagnosedLead(t)
	latest := f.seedProject(t, lead.ID)

	rec := f.post(t, map[string]any{"lead_id": lead.ID, "project_id": "not-" + latest.ID})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCheckoutUnknownLead(t *testing.T) {
	f := newCheckoutFixture(t, testClient(t, "https://mp.invalid"))
	rec := f.post(t, map[string]any{"lead_id": "missing", "project_id": "p"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCheckoutRejectsOtherPaymentMethods(t *testing.T) {
	f := newCheckoutFixture(t, testClient(t, "https://mp.invalid"))
	lead, project := f.seedDiagnosedLead(t)

	rec := f.post(t, map[string]any{
		"lead_id":        lead.ID,
		"project_id":     project.ID,
		"payment_method": "transferencia",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestCreateCheckoutSurfacesGatewayRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
	}))
	defer srv.Close()

	f := newCheckoutFixture(t, testClient(t, srv.URL))
	lead, project := f.seedDiagnosedLead(t)

	rec := f.post(t, map[string]any{"lead_id": lead.ID, "project_id": project.ID})
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "mercadopago_preference_failed") {
		t.Fatalf("body = %s", rec.Body.String())
	}
}
