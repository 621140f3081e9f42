package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"kan-backend/internal/llm"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func generateBody(text string) string {
	payload := map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	}
	raw, _ := json.Marshal(payload)
	return string(raw)
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	if _, err := NewClient("", "", "", 0); err == nil {
		t.Fatalf("NewClient accepted an empty api key")
	}
}

func TestGenerateSuccess(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/models") {
			w.Write([]byte(`{"models": []}`))
			return
		}
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(generateBody("  hola  ")))
	})

	c, err := NewClient("key", server.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := c.Generate(context.Background(), llm.GenerateInput{Prompt: "di hola"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Text != "hola" {
		t.Errorf("Text = %q, want trimmed hola", out.Text)
	}
	if out.Model != "gemini-2.0-flash" {
		t.Errorf("Model = %q", out.Model)
	}
}

func TestGenerateFallsThroughMissingModels(t *testing.T) {
	var tried []string
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/models") {
			w.Write([]byte(`{}`))
			return
		}
		model := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/models/"), ":generateContent")
		tried = append(tried, model)
		if model == "gemini-1.5-flash" {
			w.Write([]byte(generateBody("listo")))
			return
		}
		http.NotFound(w, r)
	})

	c, err := NewClient("key", server.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := c.Generate(context.Background(), llm.GenerateInput{Prompt: "x", PreferredModel: "models/custom-model"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out.Model != "gemini-1.5-flash" {
		t.Errorf("Model = %q, want the first working candidate", out.Model)
	}
	want := []string{"custom-model", "gemini-2.0-flash", "gemini-2.0-flash-lite", "gemini-1.5-flash"}
	if len(tried) != len(want) {
		t.Fatalf("tried = %v, want %v", tried, want)
	}
	for i := range want {
		if tried[i] != want[i] {
			t.Errorf("tried[%d] = %q, want %q", i, tried[i], want[i])
		}
	}
}

func TestGenerateHardErrorAborts(t *testing.T) {
	var calls int
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/models") {
			w.Write([]byte(`{}`))
			return
		}
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "quota exceeded", "status": "RESOURCE_EXHAUSTED"}}`))
	})

	c, err := NewClient("key", server.URL, "gemini-2.0-flash", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Generate(context.Background(), llm.GenerateInput{Prompt: "x"})
	if err == nil {
		t.Fatalf("Generate succeeded on a quota error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on hard errors)", calls)
	}
	if llm.ReasonOf(err) != llm.ReasonHTTP {
		t.Errorf("reason = %q, want http_error", llm.ReasonOf(err))
	}
}

func TestGenerateEmptyResponseReported(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/models") {
			w.Write([]byte(`{}`))
			return
		}
		w.Write([]byte(`{"candidates": []}`))
	})

	c, err := NewClient("key", server.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = c.Generate(context.Background(), llm.GenerateInput{Prompt: "x"})
	if err == nil {
		t.Fatalf("Generate succeeded on empty candidates")
	}
	if llm.ReasonOf(err) != llm.ReasonEmptyResponse {
		t.Errorf("reason = %q, want empty_response", llm.ReasonOf(err))
	}
}

func TestSupportedModelsReordersCandidates(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/models") {
			w.Write([]byte(`{"models": [
				{"name": "models/gemini-1.5-pro", "supportedGenerationMethods": ["generateContent"]},
				{"name": "models/embedding-001", "supportedGenerationMethods": ["embedContent"]}
			]}`))
			return
		}
		w.Write([]byte(generateBody("ok")))
	})

	c, err := NewClient("key", server.URL, "", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	out, err := c.Generate(context.Background(), llm.GenerateInput{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// Only gemini-1.5-pro supports generateContent, so it must be tried first.
	if out.Model != "gemini-1.5-pro" {
		t.Errorf("Model = %q, want the only supported model", out.Model)
	}
}
