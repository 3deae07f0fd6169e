package translator

import (
	"context"
	"time"
)

// Auto is the sentinel source language asking the backend (or the session
// context upstream) to determine the source itself.
const Auto = "auto"

// TranslateRequest is the uniform input every backend accepts. SourceLang
// is an ISO-639-1 code or Auto; TargetLang is always concrete.
type TranslateRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// Result is the uniform backend output. DetectedLanguage is set only when
// the request went out with SourceLang == Auto and the backend resolved the
// actual source server-side.
type Result struct {
	Text             string        `json:"text"`
	SourceLang       string        `json:"source_lang"`
	TargetLang       string        `json:"target_lang"`
	DetectedLanguage string        `json:"detected_language,omitempty"`
	Confidence       float64       `json:"confidence,omitempty"`
	Latency          time.Duration `json:"latency"`
}

// Language is one entry of a backend's supported-language listing.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// ConnectionStatus is the outcome of a connectivity probe.
type ConnectionStatus struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	ResponseTime time.Duration `json:"response_time"`
	Details      string        `json:"details,omitempty"`
}

// KeyValidation is the outcome of checking an API key against the backend.
type KeyValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// TranslationService is the contract every interchangeable backend
// implements. Failures are reported as *Error, never as raw transport
// errors.
type TranslationService interface {
	Name() string
	Initialize(apiKey string) error
	Translate(ctx context.Context, req TranslateRequest) (*Result, error)
	SupportedLanguages(ctx context.Context) ([]Language, error)
	TestConnection(ctx context.Context) (*ConnectionStatus, error)
	ValidateAPIKey(ctx context.Context, key string) (*KeyValidation, error)
}
