package provision

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"kan-backend/internal/engine"
	"kan-backend/internal/shared/telemetry"
)

//go:embed templates/*.json
var templateFiles embed.FS

const (
	// Statuses reported by Provision.
	StatusOK            = "ok"
	StatusMissingConfig = "missing_config"

	requestTimeout = 20 * time.Second

	detailLimit = 400
)

// Options are the optional automation extras collected during onboarding.
type Options struct {
	AdvancedWorkflow   bool   `json:"advanced_workflow"`
	CRMWebhookURL      string `json:"crm_webhook_url"`
	CalendarWebhookURL string `json:"calendar_webhook_url"`
	CRMName            string `json:"crm_name"`
	CalendarTool       string `json:"calendar_tool"`
}

// Request describes one provisioning run for a project.
type Request struct {
	ProjectID      string
	Intake         engine.BusinessIntake
	MetaAccess     map[string]string
	Options        Options
	WantsWhatsApp  bool
	WantsMessenger bool
}

// Result is the outcome of importing one workflow.
type Result struct {
	Workflow string `json:"workflow"`
	OK       bool   `json:"ok"`
	Detail   string `json:"detail,omitempty"`
}

// Outcome summarizes a full provisioning run. Failures are reported, never
// returned as errors: onboarding must not block on the automation backend.
type Outcome struct {
	Status  string   `json:"status"`
	Details string   `json:"details,omitempty"`
	Results []Result `json:"results,omitempty"`
}

// AllOK reports whether every attempted workflow imported successfully.
func (o Outcome) AllOK() bool {
	if o.Status != StatusOK {
		return false
	}
	for _, r := range o.Results {
		if !r.OK {
			return false
		}
	}
	return true
}

// Client imports workflow templates into an n8n instance.
type Client struct {
	BaseURL    string
	APIKey     string
	AppBaseURL string
	HTTPClient *http.Client
}

// NewClient constructs a Client. baseURL and apiKey may be empty; Provision
// then reports missing_config without touching the network.
func NewClient(baseURL, apiKey, appBaseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		APIKey:     strings.TrimSpace(apiKey),
		AppBaseURL: strings.TrimRight(strings.TrimSpace(appBaseURL), "/"),
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether the client can reach an n8n instance.
func (c *Client) Configured() bool {
	return c != nil && c.BaseURL != "" && c.APIKey != ""
}

// Provision imports the workflows requested for a project.
func (c *Client) Provision(ctx context.Context, req Request) Outcome {
	if !c.Configured() {
		return Outcome{
			Status:  StatusMissingConfig,
			Details: "N8N_API_URL or N8N_API_KEY not configured",
		}
	}

	var results []Result
	if req.WantsWhatsApp {
		results = append(results, c.importWorkflow(ctx, "whatsapp", c.whatsappTemplate(req), c.whatsappMapping(req)))
	}
	if req.WantsMessenger {
		results = append(results, c.importWorkflow(ctx, "messenger", c.messengerTemplate(req), c.messengerMapping(req)))
	}

	outcome := Outcome{Status: StatusOK, Results: results}
	telemetry.Info("provision.complete", map[string]any{
		"project_id": req.ProjectID,
		"workflows":  len(results),
		"all_ok":     outcome.AllOK(),
	})
	return outcome
}

func (c *Client) whatsappTemplate(req Request) string {
	if req.Options.AdvancedWorkflow {
		return "whatsapp_bot_advanced.json"
	}
	return "whatsapp_bot.json"
}

func (c *Client) messengerTemplate(req Request) string {
	if req.Options.AdvancedWorkflow {
		return "messenger_bot_advanced.json"
	}
	return "messenger_bot.json"
}

func (c *Client) whatsappMapping(req Request) map[string]string {
	m := c.commonMapping(req)
	m["WHATSAPP_TOKEN"] = req.MetaAccess["whatsapp_token"]
	m["WHATSAPP_PHONE_NUMBER_ID"] = req.MetaAccess["whatsapp_phone_number_id"]
	m["WHATSAPP_TEST_NUMBER"] = req.MetaAccess["whatsapp_test_number"]
	return m
}

func (c *Client) messengerMapping(req Request) map[string]string {
	m := c.commonMapping(req)
	m["FACEBOOK_PAGE_ID"] = req.MetaAccess["facebook_page_id"]
	m["MESSENGER_PAGE_TOKEN"] = req.MetaAccess["messenger_page_token"]
	m["MESSENGER_TEST_PSID"] = req.MetaAccess["messenger_test_psid"]
	return m
}

func (c *Client) commonMapping(req Request) map[string]string {
	return map[string]string{
		"PROJECT_ID":           req.ProjectID,
		"APP_BASE_URL":         c.AppBaseURL,
		"CRM_WEBHOOK_URL":      req.Options.CRMWebhookURL,
		"CALENDAR_WEBHOOK_URL": req.Options.CalendarWebhookURL,
		"CRM_NAME":             req.Options.CRMName,
		"CALENDAR_TOOL":        req.Options.CalendarTool,
		"COMPANY_NAME":         req.Intake.CompanyName,
		"BUSINESS_FOCUS":       req.Intake.BusinessFocus,
		"INDUSTRY":             req.Intake.Industry,
		"GOALS":                req.Intake.Goals,
	}
}

func (c *Client) importWorkflow(ctx context.Context, name, templateFile string, mapping map[string]string) Result {
	workflow, err := renderTemplate(templateFile, mapping)
	if err != nil {
		return Result{Workflow: name, OK: false, Detail: err.Error()}
	}
	ok, detail := c.postWorkflow(ctx, workflow)
	return Result{Workflow: name, OK: ok, Detail: detail}
}

// postWorkflow tries the public API path first and falls back to the legacy
// REST path used by older n8n releases.
func (c *Client) postWorkflow(ctx context.Context, workflow []byte) (bool, string) {
	candidates := []string{
		c.BaseURL + "/api/v1/workflows",
		c.BaseURL + "/rest/workflows",
	}

	lastError := ""
	for _, url := range candidates {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(workflow))
		if err != nil {
			lastError = err.Error()
			continue
		}
		req.Header.Set("X-N8N-API-KEY", c.APIKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastError = err.Error()
			continue
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, detailLimit))
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
			return true, string(body)
		}
		lastError = fmt.Sprintf("%d: %s", resp.StatusCode, string(body))
	}
	return false, lastError
}

func renderTemplate(filename string, mapping map[string]string) ([]byte, error) {
	raw, err := templateFiles.ReadFile("templates/" + filename)
	if err != nil {
		return nil, fmt.Errorf("load template %s: %w", filename, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse template %s: %w", filename, err)
	}
	doc = replacePlaceholders(doc, mapping)

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("render template %s: %w", filename, err)
	}
	return out, nil
}

func replacePlaceholders(value any, mapping map[string]string) any {
	switch v := value.(type) {
	case string:
		for key, replacement := range mapping {
			v = strings.ReplaceAll(v, "{{"+key+"}}", replacement)
		}
		return v
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = replacePlaceholders(item, mapping)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = replacePlaceholders(item, mapping)
		}
		return out
	default:
		return value
	}
}
