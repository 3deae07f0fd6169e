package translator

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Retryable(t *testing.T) {
	tests := []struct {
		kind Kind
		want bool
	}{
		{KindEmptyInput, false},
		{KindInvalidAPIKey, false},
		{KindQuotaExceeded, false},
		{KindRateLimited, true},
		{KindUnsupportedLanguage, false},
		{KindNetwork, true},
		{KindInvalidRequest, false},
		{KindProvider, true},
	}
	for _, tt := range tests {
		e := NewError("test", tt.kind, "boom")
		if got := e.Retryable(); got != tt.want {
			t.Errorf("Retryable(%s) = %v, want %v", tt.kind, got, tt.want)
		}
	}
}

func TestError_MessageIncludesProviderAndKind(t *testing.T) {
	e := NewError("google", KindRateLimited, "slow down")
	msg := e.Error()
	for _, part := range []string{"google", "rate_limited", "slow down"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}
}

func TestWrapError_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	e := WrapError("libretranslate", KindNetwork, cause)

	if !errors.Is(e, cause) {
		t.Error("wrapped cause must be reachable through errors.Is")
	}
	var terr *Error
	if !errors.As(error(e), &terr) {
		t.Fatal("errors.As must find *Error")
	}
	if terr.Kind != KindNetwork {
		t.Errorf("Kind = %s, want %s", terr.Kind, KindNetwork)
	}
}

func TestErrorFromStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindInvalidAPIKey},
		{403, KindInvalidAPIKey},
		{429, KindRateLimited},
		{456, KindQuotaExceeded},
		{400, KindInvalidRequest},
		{500, KindProvider},
		{503, KindProvider},
	}
	for _, tt := range tests {
		e := errorFromStatus("test", tt.status, "")
		if e.Kind != tt.want {
			t.Errorf("status %d → %s, want %s", tt.status, e.Kind, tt.want)
		}
		if e.Message == "" {
			t.Errorf("status %d produced an empty message", tt.status)
		}
	}
}
