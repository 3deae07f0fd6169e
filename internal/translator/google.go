package translator

import (
	"context"
	"fmt"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GoogleService talks to the Google Cloud Translation API. When the request
// goes out with an "auto" source, Google resolves the source server-side
// and the detected language is surfaced on the Result.
type GoogleService struct {
	apiKey      string
	credentials string
}

func NewGoogleService() *GoogleService {
	return &GoogleService{}
}

// NewGoogleServiceWithCredentials uses a service-account credentials file
// instead of an API key.
func NewGoogleServiceWithCredentials(path string) *GoogleService {
	return &GoogleService{credentials: path}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) Initialize(apiKey string) error {
	if apiKey == "" && s.credentials == "" {
		return NewError(s.Name(), KindInvalidAPIKey, "api key or credentials file required")
	}
	s.apiKey = apiKey
	return nil
}

func (s *GoogleService) newClient(ctx context.Context, key string) (*translate.Client, error) {
	var opts []option.ClientOption
	switch {
	case key != "":
		opts = append(opts, option.WithAPIKey(key))
	case s.credentials != "":
		opts = append(opts, option.WithCredentialsFile(s.credentials))
	}
	return translate.NewClient(ctx, opts...)
}

func (s *GoogleService) Translate(ctx context.Context, req TranslateRequest) (*Result, error) {
	start := time.Now()

	targetTag, err := language.Parse(req.TargetLang)
	if err != nil {
		return nil, NewError(s.Name(), KindUnsupportedLanguage, "invalid target language %q", req.TargetLang)
	}

	client, err := s.newClient(ctx, s.apiKey)
	if err != nil {
		return nil, s.classify(err)
	}
	defer client.Close()

	var opts *translate.Options
	auto := req.SourceLang == "" || req.SourceLang == Auto
	if !auto {
		sourceTag, err := language.Parse(req.SourceLang)
		if err != nil {
			return nil, NewError(s.Name(), KindUnsupportedLanguage, "invalid source language %q", req.SourceLang)
		}
		opts = &translate.Options{Source: sourceTag}
	}

	translations, err := client.Translate(ctx, []string{req.Text}, targetTag, opts)
	if err != nil {
		return nil, s.classify(err)
	}
	if len(translations) == 0 {
		return nil, NewError(s.Name(), KindProvider, "no translation returned")
	}

	result := &Result{
		Text:       translations[0].Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
		Confidence: 1.0,
		Latency:    time.Since(start),
	}
	if auto && translations[0].Source != (language.Tag{}) {
		base, _ := translations[0].Source.Base()
		result.DetectedLanguage = base.String()
		result.SourceLang = result.DetectedLanguage
	}
	return result, nil
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]Language, error) {
	client, err := s.newClient(ctx, s.apiKey)
	if err != nil {
		return nil, s.classify(err)
	}
	defer client.Close()

	langs, err := client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, s.classify(err)
	}

	out := make([]Language, 0, len(langs))
	for _, l := range langs {
		out = append(out, Language{Code: l.Tag.String(), Name: l.Name})
	}
	return out, nil
}

func (s *GoogleService) TestConnection(ctx context.Context) (*ConnectionStatus, error) {
	start := time.Now()
	langs, err := s.SupportedLanguages(ctx)
	elapsed := time.Since(start)
	if err != nil {
		return &ConnectionStatus{
			Success:      false,
			Message:      "google translation API unreachable",
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

func (s *GoogleService) ValidateAPIKey(ctx context.Context, key string) (*KeyValidation, error) {
	if key == "" {
		return &KeyValidation{Valid: false, Message: "empty api key"}, nil
	}

	client, err := s.newClient(ctx, key)
	if err != nil {
		return &KeyValidation{Valid: false, Message: err.Error()}, nil
	}
	defer client.Close()

	if _, err := client.SupportedLanguages(ctx, language.English); err != nil {
		return &KeyValidation{Valid: false, Message: s.classify(err).Message}, nil
	}
	return &KeyValidation{Valid: true, Message: "api key accepted"}, nil
}

// classify maps Google API errors onto the shared taxonomy.
func (s *GoogleService) classify(err error) *Error {
	if gerr, ok := err.(*googleapi.Error); ok {
		return errorFromStatus(s.Name(), gerr.Code, gerr.Message)
	}
	return WrapError(s.Name(), KindNetwork, err)
}
