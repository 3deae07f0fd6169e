package translator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MockService is the offline fallback backend. It produces a deterministic
// pseudo-translation so the rest of the pipeline (context resolution,
// caching, history) stays exercisable without network access or keys.
type MockService struct{}

func NewMockService() *MockService {
	return &MockService{}
}

func (s *MockService) Name() string {
	return "mock"
}

func (s *MockService) Initialize(apiKey string) error {
	return nil
}

func (s *MockService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	start := time.Now()

	if strings.TrimSpace(req.Text) == "" {
		return nil, NewError(s.Name(), KindEmptyInput, "nothing to translate")
	}

	source := req.SourceLang
	detected := ""
	if source == "" || source == Auto {
		detected = detectScript(req.Text)
		source = detected
	}

	return &Result{
		Text:             fmt.Sprintf("[%s→%s] %s", source, req.TargetLang, req.Text),
		SourceLang:       source,
		TargetLang:       req.TargetLang,
		DetectedLanguage: detected,
		Confidence:       1.0,
		Latency:          time.Since(start),
	}, nil
}

func (s *MockService) SupportedLanguages(ctx context.Context) ([]Language, error) {
	return []Language{
		{Code: "en", Name: "English"},
		{Code: "ru", Name: "Russian"},
		{Code: "de", Name: "German"},
		{Code: "fr", Name: "French"},
		{Code: "es", Name: "Spanish"},
		{Code: "uk", Name: "Ukrainian"},
		{Code: "zh", Name: "Chinese"},
	}, nil
}

func (s *MockService) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	return &ConnectionStatus{
		Success:      true,
		Message:      "offline mock backend, always reachable",
		ResponseTime: 0,
	}, nil
}

func (s *MockService) ValidateAPIKey(ctx context.Context, key string) (*KeyValidation, error) {
	return &KeyValidation{Valid: true, Message: "mock backend accepts any key"}, nil
}

// detectScript guesses a language code from the dominant writing system.
// Good enough for the offline backend to drive direction resolution.
func detectScript(text string) string {
	var cyrillic, han, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Han, r):
			han++
		case unicode.IsLetter(r):
			latin++
		}
	}
	switch {
	case cyrillic > han && cyrillic > latin:
		return "ru"
	case han > cyrillic && han > latin:
		return "zh"
	default:
		return "en"
	}
}
