package llm

import (
	"context"
	"errors"
	"fmt"
)

// Client abstracts text-generation providers for the diagnosis flow.
type Client interface {
	Generate(ctx context.Context, input GenerateInput) (GenerateOutput, error)
}

// GenerateInput captures a single generation request.
type GenerateInput struct {
	Prompt          string
	MaxOutputTokens int
	Temperature     float32
	PreferredModel  string
}

// GenerateOutput carries the extracted text plus the model that produced it.
type GenerateOutput struct {
	Text  string
	Model string
}

// Reason classifies why a generation attempt failed. Callers branch on it for
// observability and for health reporting; the diagnosis path treats every
// reason the same way (fall back to local heuristics).
type Reason string

const (
	ReasonMissingAPIKey     Reason = "missing_api_key"
	ReasonNoCandidateModels Reason = "no_candidate_models"
	ReasonModelNotFound     Reason = "model_not_found"
	ReasonModelUnsupported  Reason = "model_unsupported"
	ReasonEmptyResponse     Reason = "empty_response"
	ReasonInvalidJSON       Reason = "invalid_json"
	ReasonNetwork           Reason = "network_error"
	ReasonHTTP              Reason = "http_error"
)

// Error is the typed failure returned by providers.
type Error struct {
	Reason Reason
	Model  string
	Detail string
}

func (e *Error) Error() string {
	msg := string(e.Reason)
	if e.Model != "" {
		msg += ": " + e.Model
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return "llm: " + msg
}

// ReasonOf extracts the typed reason from an error chain. Unclassified errors
// report ReasonNetwork.
func ReasonOf(err error) Reason {
	var e *Error
	if errors.As(err, &e) {
		return e.Reason
	}
	return ReasonNetwork
}

// Errf builds a typed Error with a formatted detail string.
func Errf(reason Reason, model, format string, args ...any) *Error {
	return &Error{Reason: reason, Model: model, Detail: fmt.Sprintf(format, args...)}
}

// Disabled is the client used when no API credential is configured. Every
// call fails fast with ReasonMissingAPIKey and no network activity.
type Disabled struct{}

// Generate always reports the missing credential.
func (Disabled) Generate(ctx context.Context, input GenerateInput) (GenerateOutput, error) {
	_ = ctx
	_ = input
	return GenerateOutput{}, &Error{Reason: ReasonMissingAPIKey}
}
