package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAPIBase is the public Mercado Pago API.
const DefaultAPIBase = "https://api.mercadopago.com"

const (
	defaultItemTitle           = "Implementacion K'an Logic Systems"
	defaultStatementDescriptor = "KANLOGIC"
	statementDescriptorMax     = 13
	requestTimeout             = 15 * time.Second
	detailLimit                = 400
)

// BackURLs are the redirect targets after a hosted checkout.
type BackURLs struct {
	Success string
	Pending string
	Failure string
}

// Config holds the Mercado Pago credentials and checkout presentation.
type Config struct {
	AccessToken         string
	PublicKey           string
	APIBase             string
	ItemTitle           string
	StatementDescriptor string
	BackURLs            BackURLs
	WebhookURL          string
}

// Preference is a server-priced checkout request.
type Preference struct {
	AmountMXN         float64
	ExternalReference string
	PayerEmail        string
	Metadata          map[string]any
}

// CreatedPreference is the hosted checkout returned by Mercado Pago.
type CreatedPreference struct {
	ID        string
	InitPoint string
}

// Client creates checkout preferences against the Mercado Pago API.
type Client struct {
	Config     Config
	HTTPClient *http.Client
}

// NewClient constructs a Client, applying defaults for the API base, item
// title and statement descriptor.
func NewClient(cfg Config) *Client {
	cfg.AccessToken = strings.TrimSpace(cfg.AccessToken)
	cfg.PublicKey = strings.TrimSpace(cfg.PublicKey)
	cfg.APIBase = strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultAPIBase
	}
	cfg.ItemTitle = strings.TrimSpace(cfg.ItemTitle)
	if cfg.ItemTitle == "" {
		cfg.ItemTitle = defaultItemTitle
	}
	cfg.StatementDescriptor = strings.TrimSpace(cfg.StatementDescriptor)
	if cfg.StatementDescriptor == "" {
		cfg.StatementDescriptor = defaultStatementDescriptor
	}
	if len(cfg.StatementDescriptor) > statementDescriptorMax {
		cfg.StatementDescriptor = cfg.StatementDescriptor[:statementDescriptorMax]
	}
	return &Client{
		Config:     cfg,
		HTTPClient: &http.Client{Timeout: requestTimeout},
	}
}

// Configured reports whether both credentials needed for checkout are present.
func (c *Client) Configured() bool {
	return c.Config.AccessToken != "" && c.Config.PublicKey != ""
}

// CreatePreference posts a checkout preference. The amount always comes from
// the caller's server-side pricing, never from client input.
func (c *Client) CreatePreference(ctx context.Context, pref Preference) (CreatedPreference, error) {
	if !c.Configured() {
		return CreatedPreference{}, ErrNotConfigured
	}

	body := map[string]any{
		"items": []map[string]any{{
			"title":       c.Config.ItemTitle,
			"quantity":    1,
			"currency_id": "MXN",
			"unit_price":  pref.AmountMXN,
		}},
		"external_reference":   pref.ExternalReference,
		"statement_descriptor": c.Config.StatementDescriptor,
		"metadata":             pref.Metadata,
		"back_urls": map[string]string{
			"success": c.Config.BackURLs.Success,
			"pending": c.Config.BackURLs.Pending,
			"failure": c.Config.BackURLs.Failure,
		},
		"auto_return": "approved",
	}
	if email := strings.TrimSpace(pref.PayerEmail); email != "" {
		body["payer"] = map[string]string{"email": email}
	}
	if c.Config.WebhookURL != "" {
		body["notification_url"] = c.Config.WebhookURL
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		return CreatedPreference{}, fmt.Errorf("marshal preference: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.Config.APIBase+"/checkout/preferences", bytes.NewReader(encoded))
	if err != nil {
		return CreatedPreference{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return CreatedPreference{}, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if resp.StatusCode >= 300 {
		detail := strings.TrimSpace(string(raw))
		if len(detail) > detailLimit {
			detail = detail[:detailLimit]
		}
		return CreatedPreference{}, fmt.Errorf("%w: status %d: %s", ErrPreferenceFailed, resp.StatusCode, detail)
	}

	var decoded struct {
		ID        string `json:"id"`
		InitPoint string `json:"init_point"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil || decoded.ID == "" {
		return CreatedPreference{}, ErrInvalidPreference
	}
	return CreatedPreference{ID: decoded.ID, InitPoint: decoded.InitPoint}, nil
}
