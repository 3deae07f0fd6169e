package translator

import "fmt"

// Kind classifies a translation failure independently of which backend
// produced it.
type Kind string

const (
	KindEmptyInput          Kind = "empty_input"
	KindInvalidAPIKey       Kind = "invalid_api_key"
	KindQuotaExceeded       Kind = "quota_exceeded"
	KindRateLimited         Kind = "rate_limited"
	KindUnsupportedLanguage Kind = "unsupported_language"
	KindNetwork             Kind = "network_error"
	KindInvalidRequest      Kind = "invalid_request"
	KindProvider            Kind = "provider_error"
)

// Error is the structured failure every backend reports. Backends never let
// raw transport errors escape; they wrap them here with the provider name
// attached so the caller can tell which service failed.
type Error struct {
	Kind     Kind
	Message  string
	Provider string
	Err      error
}

func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s: %s", e.Provider, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether an outer layer may reasonably reissue the
// request. The orchestrator itself never retries.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindRateLimited, KindNetwork, KindProvider:
		return true
	}
	return false
}

// NewError builds a structured translation error.
func NewError(provider string, kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Provider: provider, Message: fmt.Sprintf(format, args...)}
}

// WrapError attaches taxonomy and provider identity to an underlying error.
func WrapError(provider string, kind Kind, err error) *Error {
	return &Error{Kind: kind, Provider: provider, Message: err.Error(), Err: err}
}

// errorFromStatus maps an HTTP status from a translation backend onto the
// taxonomy. Unknown statuses become the provider catch-all.
func errorFromStatus(provider string, status int, detail string) *Error {
	var kind Kind
	switch {
	case status == 401 || status == 403:
		kind = KindInvalidAPIKey
	case status == 429:
		kind = KindRateLimited
	case status == 456: // DeepL-style quota status, some gateways reuse it
		kind = KindQuotaExceeded
	case status == 400:
		kind = KindInvalidRequest
	default:
		kind = KindProvider
	}
	if detail == "" {
		detail = fmt.Sprintf("unexpected status %d", status)
	}
	return NewError(provider, kind, "%s", detail)
}
