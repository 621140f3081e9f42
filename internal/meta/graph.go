package meta

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultGraphURL is the Meta Graph API base.
const DefaultGraphURL = "https://graph.facebook.com/v18.0"

const graphTimeout = 15 * time.Second

// Validation is the result of checking one set of channel credentials.
type Validation struct {
	OK      bool           `json:"ok"`
	Error   string         `json:"error,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// Validator checks channel credentials against the Graph API.
type Validator struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewValidator constructs a Validator against the public Graph API.
func NewValidator() *Validator {
	return &Validator{
		BaseURL:    DefaultGraphURL,
		HTTPClient: &http.Client{Timeout: graphTimeout},
	}
}

// ValidateWhatsApp checks a WhatsApp Cloud API phone number id and token.
func (v *Validator) ValidateWhatsApp(ctx context.Context, phoneNumberID, token string) Validation {
	if strings.TrimSpace(phoneNumberID) == "" || strings.TrimSpace(token) == "" {
		return Validation{OK: false, Error: "Falta phone_number_id o token"}
	}
	return v.lookup(ctx, phoneNumberID, token, "display_phone_number,verified_name")
}

// ValidateMessenger checks a Facebook page id and page token.
func (v *Validator) ValidateMessenger(ctx context.Context, pageID, token string) Validation {
	if strings.TrimSpace(pageID) == "" || strings.TrimSpace(token) == "" {
		return Validation{OK: false, Error: "Falta page_id o page token"}
	}
	return v.lookup(ctx, pageID, token, "name")
}

func (v *Validator) lookup(ctx context.Context, objectID, token, fields string) Validation {
	endpoint := strings.TrimRight(v.BaseURL, "/") + "/" + url.PathEscape(objectID)
	query := url.Values{}
	query.Set("fields", fields)
	query.Set("access_token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return Validation{OK: false, Error: err.Error()}
	}
	resp, err := v.HTTPClient.Do(req)
	if err != nil {
		return Validation{OK: false, Error: err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode != http.StatusOK {
		return Validation{OK: false, Error: string(body)}
	}

	var details map[string]any
	if err := json.Unmarshal(body, &details); err != nil {
		return Validation{OK: false, Error: "respuesta no valida del Graph API"}
	}
	return Validation{OK: true, Details: details}
}
