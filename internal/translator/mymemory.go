package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// MyMemoryService uses the free MyMemory API (5000 chars/day anonymous).
// MyMemory needs a concrete language pair, so an "auto" source falls back
// to English; it never reports a server-side detected language.
type MyMemoryService struct {
	email  string
	client *http.Client
}

func NewMyMemoryService(email string) *MyMemoryService {
	return &MyMemoryService{
		email:  email,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

// Initialize records the contact email MyMemory uses to raise the daily
// quota. An empty key is fine, the API works anonymously.
func (s *MyMemoryService) Initialize(apiKey string) error {
	s.email = apiKey
	return nil
}

func (s *MyMemoryService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	start := time.Now()

	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == Auto {
		sourceLang = "en"
	}

	langPair := fmt.Sprintf("%s|%s", sourceLang, req.TargetLang)
	apiURL := fmt.Sprintf("https://api.mymemory.translated.net/get?q=%s&langpair=%s",
		url.QueryEscape(req.Text),
		url.QueryEscape(langPair))
	if s.email != "" {
		apiURL += fmt.Sprintf("&de=%s", url.QueryEscape(s.email))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, WrapError(s.Name(), KindInvalidRequest, err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, WrapError(s.Name(), KindNetwork, err)
	}
	defer resp.Body.Close()

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return nil, WrapError(s.Name(), KindProvider, err)
	}

	if mymemResp.ResponseStatus != 200 {
		return nil, errorFromStatus(s.Name(), mymemResp.ResponseStatus, mymemResp.ResponseDetails)
	}

	confidence := mymemResp.ResponseData.Match
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &Result{
		Text:       mymemResp.ResponseData.TranslatedText,
		SourceLang: sourceLang,
		TargetLang: req.TargetLang,
		Confidence: confidence,
		Latency:    time.Since(start),
	}, nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]Language, error) {
	codes := []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
		"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca",
	}
	out := make([]Language, 0, len(codes))
	for _, c := range codes {
		out = append(out, Language{Code: c})
	}
	return out, nil
}

func (s *MyMemoryService) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	start := time.Now()
	_, err := s.Translate(ctx, TranslateRequest{Text: "ping", SourceLang: "en", TargetLang: "es"})
	elapsed := time.Since(start)
	if err != nil {
		return &ConnectionStatus{
			Success:      false,
			Message:      "mymemory API unreachable",
			ResponseTime: elapsed,
			Details:      err.Error(),
		}, nil
	}
	return &ConnectionStatus{Success: true, Message: "ok", ResponseTime: elapsed}, nil
}

// ValidateAPIKey accepts anything: MyMemory has no keys, only an optional
// contact email.
func (s *MyMemoryService) ValidateAPIKey(ctx context.Context, key string) (*KeyValidation, error) {
	return &KeyValidation{Valid: true, Message: "mymemory uses an optional contact email, no key required"}, nil
}
