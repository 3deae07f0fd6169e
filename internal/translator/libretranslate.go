package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultLibreURL = "https://libretranslate.com"

// LibreTranslateService talks to a LibreTranslate instance (hosted or
// self-hosted via BaseURL). It supports source=auto and reports the
// detected source language with a confidence score.
type LibreTranslateService struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewLibreTranslateService(baseURL string) *LibreTranslateService {
	if baseURL == "" {
		baseURL = defaultLibreURL
	}
	return &LibreTranslateService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *LibreTranslateService) Name() string {
	return "libretranslate"
}

func (s *LibreTranslateService) Initialize(apiKey string) error {
	s.apiKey = apiKey
	return nil
}

func (s *LibreTranslateService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	start := time.Now()

	source := req.SourceLang
	if source == "" {
		source = Auto
	}

	payload := map[string]any{
		"q":      req.Text,
		"source": source,
		"target": req.TargetLang,
		"format": "text",
	}
	if s.apiKey != "" {
		payload["api_key"] = s.apiKey
	}

	body, err := s.post(ctx, "/translate", payload)
	if err != nil {
		return nil, err
	}

	var ltResp struct {
		TranslatedText   string `json:"translatedText"`
		DetectedLanguage *struct {
			Confidence float64 `json:"confidence"`
			Language   string  `json:"language"`
		} `json:"detectedLanguage"`
	}
	if err := json.Unmarshal(body, &ltResp); err != nil {
		return nil, WrapError(s.Name(), KindProvider, err)
	}

	result := &Result{
		Text:       ltResp.TranslatedText,
		SourceLang: source,
		TargetLang: req.TargetLang,
		Confidence: 1.0,
		Latency:    time.Since(start),
	}
	if ltResp.DetectedLanguage != nil {
		result.DetectedLanguage = ltResp.DetectedLanguage.Language
		result.SourceLang = ltResp.DetectedLanguage.Language
		// LibreTranslate reports detection confidence as 0-100.
		result.Confidence = ltResp.DetectedLanguage.Confidence / 100
	}
	return result, nil
}

func (s *LibreTranslateService) SupportedLanguages(ctx context.Context) ([]Language, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/languages", nil)
	if err != nil {
		return nil, WrapError(s.Name(), KindInvalidRequest, err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, WrapError(s.Name(), KindNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromStatus(s.Name(), resp.StatusCode, "")
	}

	var langs []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&langs); err != nil {
		return nil, WrapError(s.Name(), KindProvider, err)
	}

	out := make([]Language, 0, len(langs))
	for _, l := range langs {
		out = append(out, Language{Code: l.Code, Name: l.Name})
	}
	return out, nil
}

func (s *LibreTranslateService) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	start := time.Now()
	langs, err := s.SupportedLanguages(ctx)
	elapsed := time.Since(start)
	if err != nil {
		return &ConnectionStatus{
			Success:      false,
			Message:      fmt.Sprintf("libretranslate at %s unreachable", s.baseURL),
			ResponseTime: elapsed,
			Details:      err.Error(),
		}, nil
	}
	return &ConnectionStatus{
		Success:      true,
		Message:      fmt.Sprintf("ok, %d languages available", len(langs)),
		ResponseTime: elapsed,
	}, nil
}

func (s *LibreTranslateService) ValidateAPIKey(ctx context.Context, key string) (*KeyValidation, error) {
	payload := map[string]any{
		"q":      "ping",
		"source": "en",
		"target": "es",
		"format": "text",
	}
	if key != "" {
		payload["api_key"] = key
	}

	if _, err := s.post(ctx, "/translate", payload); err != nil {
		var terr *Error
		if e, ok := err.(*Error); ok {
			terr = e
		}
		if terr != nil && terr.Kind == KindInvalidAPIKey {
			return &KeyValidation{Valid: false, Message: terr.Message}, nil
		}
		return &KeyValidation{Valid: false, Message: err.Error()}, nil
	}
	return &KeyValidation{Valid: true, Message: "api key accepted"}, nil
}

func (s *LibreTranslateService) post(ctx context.Context, path string, payload map[string]any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, WrapError(s.Name(), KindInvalidRequest, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, WrapError(s.Name(), KindInvalidRequest, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, WrapError(s.Name(), KindNetwork, err)
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, WrapError(s.Name(), KindNetwork, err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(buf.Bytes(), &apiErr)
		return nil, errorFromStatus(s.Name(), resp.StatusCode, apiErr.Error)
	}
	return buf.Bytes(), nil
}
