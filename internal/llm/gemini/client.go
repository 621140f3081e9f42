package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"kan-backend/internal/llm"
)

const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Candidate models tried in order when no explicit model works.
var defaultModelCandidates = []string{
	"gemini-2.0-flash",
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
}

// Client implements llm.Client against the Gemini generateContent REST API.
// A request walks an ordered candidate list, skipping models the API reports
// as missing or unsupported, and returns the first non-empty text.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client

	mu        sync.Mutex
	supported []string
	listed    bool
}

// NewClient constructs a Gemini client. model may be empty; the candidate
// list covers the default rotation.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 25 * time.Second
	}
	return &Client{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		model:      normalizeModelName(model),
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

type listModelsResponse struct {
	Models []struct {
		Name                       string   `json:"name"`
		SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
	} `json:"models"`
}

// Generate walks the candidate models and returns the first non-empty reply.
// Hard HTTP errors (auth, quota) abort immediately; not-found/unsupported/
// empty responses advance to the next candidate.
func (c *Client) Generate(ctx context.Context, input llm.GenerateInput) (llm.GenerateOutput, error) {
	candidates := c.resolveCandidates(ctx, input.PreferredModel)
	if len(candidates) == 0 {
		return llm.GenerateOutput{}, &llm.Error{Reason: llm.ReasonNoCandidateModels}
	}

	maxTokens := input.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 320
	}

	var lastErr error = &llm.Error{Reason: llm.ReasonNoCandidateModels}
	for _, model := range candidates {
		text, err := c.generateOnce(ctx, model, input.Prompt, maxTokens, input.Temperature)
		if err == nil {
			return llm.GenerateOutput{Text: text, Model: model}, nil
		}
		switch llm.ReasonOf(err) {
		case llm.ReasonModelNotFound, llm.ReasonModelUnsupported, llm.ReasonEmptyResponse, llm.ReasonInvalidJSON, llm.ReasonNetwork:
			lastErr = err
			continue
		default:
			return llm.GenerateOutput{}, err
		}
	}
	return llm.GenerateOutput{}, lastErr
}

func (c *Client) generateOnce(ctx context.Context, model, prompt string, maxTokens int, temperature float32) (string, error) {
	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxTokens,
		},
	})
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", llm.Errf(llm.ReasonNetwork, model, "%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", llm.Errf(llm.ReasonNetwork, model, "read body: %v", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", &llm.Error{Reason: llm.ReasonModelNotFound, Model: model}
	}
	if resp.StatusCode >= 400 {
		message := responseErrorMessage(body)
		lower := strings.ToLower(message)
		if strings.Contains(lower, "not found") && strings.Contains(lower, "model") {
			return "", &llm.Error{Reason: llm.ReasonModelNotFound, Model: model}
		}
		if strings.Contains(lower, "unsupported for generatecontent") {
			return "", &llm.Error{Reason: llm.ReasonModelUnsupported, Model: model}
		}
		return "", llm.Errf(llm.ReasonHTTP, model, "status %d: %s", resp.StatusCode, message)
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &llm.Error{Reason: llm.ReasonInvalidJSON, Model: model}
	}
	if parsed.Error != nil {
		return "", llm.Errf(llm.ReasonHTTP, model, "%s (%s)", parsed.Error.Message, parsed.Error.Status)
	}
	text := extractText(parsed)
	if text == "" {
		return "", &llm.Error{Reason: llm.ReasonEmptyResponse, Model: model}
	}
	return text, nil
}

// resolveCandidates merges the preferred and configured models with the
// default rotation, then reorders by what the models endpoint reports as
// supporting generateContent. The listing is fetched once per process and
// best-effort; on failure the static list stands.
func (c *Client) resolveCandidates(ctx context.Context, preferred string) []string {
	static := dedupe(append([]string{normalizeModelName(preferred), c.model}, defaultModelCandidates...))
	available := c.supportedModels(ctx)
	if len(available) == 0 {
		return static
	}

	availableSet := make(map[string]bool, len(available))
	for _, m := range available {
		availableSet[m] = true
	}
	prioritized := make([]string, 0, len(static))
	seen := make(map[string]bool)
	for _, m := range static {
		if availableSet[m] {
			prioritized = append(prioritized, m)
			seen[m] = true
		}
	}
	for _, m := range available {
		if !seen[m] {
			prioritized = append(prioritized, m)
		}
	}
	return prioritized
}

func (c *Client) supportedModels(ctx context.Context) []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listed {
		return c.supported
	}
	c.listed = true

	listCtx, cancel := context.WithTimeout(ctx, 12*time.Second)
	defer cancel()
	endpoint := fmt.Sprintf("%s/models?key=%s", c.baseURL, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(listCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil
	}
	var parsed listModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil
	}

	var supported []string
	for _, m := range parsed.Models {
		ok := false
		for _, method := range m.SupportedGenerationMethods {
			if method == "generateContent" {
				ok = true
				break
			}
		}
		if ok {
			if name := normalizeModelName(m.Name); name != "" {
				supported = append(supported, name)
			}
		}
	}
	c.supported = dedupe(supported)
	return c.supported
}

func responseErrorMessage(body []byte) string {
	var parsed struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		if msg := strings.TrimSpace(parsed.Error.Message); msg != "" {
			return msg
		}
		return strings.TrimSpace(parsed.Error.Status)
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 240 {
		text = text[:240]
	}
	return text
}

func extractText(resp generateResponse) string {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if text := strings.TrimSpace(p.Text); text != "" {
				return text
			}
		}
	}
	return ""
}

func normalizeModelName(name string) string {
	value := strings.TrimSpace(name)
	return strings.TrimPrefix(value, "models/")
}

func dedupe(items []string) []string {
	var unique []string
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		unique = append(unique, item)
		seen[item] = true
	}
	return unique
}

var _ llm.Client = (*Client)(nil)
