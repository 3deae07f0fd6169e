package orchestrator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/valpere/snaptran/internal/config"
	"github.com/valpere/snaptran/internal/session"
	"github.com/valpere/snaptran/internal/translator"
)

// stubProvider records every request and answers from a scriptable
// function; the default echoes the text back.
type stubProvider struct {
	calls   []translator.TranslateRequest
	respond func(req translator.TranslateRequest) (*translator.Result, error)
}

func (s *stubProvider) Name() string               { return "stub" }
func (s *stubProvider) Initialize(apiKey string) error { return nil }

func (s *stubProvider) Translate(ctx context.Context, req translator.TranslateRequest) (*translator.Result, error) {
	s.calls = append(s.calls, req)
	if s.respond != nil {
		return s.respond(req)
	}
	return &translator.Result{
		Text:       "tr:" + req.Text,
		SourceLang: req.SourceLang,
		TargetLang: req.TargetLang,
	}, nil
}

func (s *stubProvider) SupportedLanguages(ctx context.Context) ([]translator.Language, error) {
	return []translator.Language{{Code: "en"}, {Code: "ru"}}, nil
}

func (s *stubProvider) TestConnection(ctx context.Context) (*translator.ConnectionStatus, error) {
	return &translator.ConnectionStatus{Success: true}, nil
}

func (s *stubProvider) ValidateAPIKey(ctx context.Context, key string) (*translator.KeyValidation, error) {
	return &translator.KeyValidation{Valid: true}, nil
}

// stubDetector answers from a fixed text→code table; unknown text yields
// no detection, like a real detector on a short fragment.
type stubDetector map[string]string

func (d stubDetector) Detect(text string, hints []string) string { return d[text] }

func testSettings() config.Settings {
	return config.Settings{
		Translation: config.TranslationSettings{
			PrimaryLanguage:       "ru",
			SecondLanguage:        "en",
			SessionTimeoutMinutes: 10,
			SmartSwitch:           true,
		},
		Provider: config.ProviderSettings{Name: "stub"},
		Cache:    config.CacheSettings{Capacity: 100, TTLHours: 24},
		History:  config.HistorySettings{Capacity: 50},
	}
}

func newTestOrchestrator(settings config.Settings, det stubDetector, provider translator.TranslationService) *Orchestrator {
	sess := session.NewContext(session.Config{
		PrimaryLanguage:        settings.Translation.PrimaryLanguage,
		DefaultForeignLanguage: settings.Translation.SecondLanguage,
		Timeout:                settings.Translation.Timeout(),
	})
	return New(settings, sess, det, provider)
}

func TestTranslate_ExternalInputDrivesDirection(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{
		"Hello world": "en",
		"Привет мир":  "ru",
	}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	// Foreign capture goes foreign→primary.
	resp := o.Translate(ctx, Request{Text: "Hello world", ExternalTrigger: true})
	if resp.Failed() {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
	if resp.SourceLang != "en" || resp.TargetLang != "ru" {
		t.Errorf("pair = %s→%s, want en→ru", resp.SourceLang, resp.TargetLang)
	}
	if resp.Text != "tr:Hello world" {
		t.Errorf("Text = %q", resp.Text)
	}

	// Primary-language capture reuses the sticky foreign target.
	resp = o.Translate(ctx, Request{Text: "Привет мир", ExternalTrigger: true})
	if resp.SourceLang != "ru" || resp.TargetLang != "en" {
		t.Errorf("pair = %s→%s, want ru→en", resp.SourceLang, resp.TargetLang)
	}

	if len(provider.calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.calls))
	}
	if provider.calls[0].SourceLang != "en" || provider.calls[0].TargetLang != "ru" {
		t.Errorf("first call = %+v", provider.calls[0])
	}
	if provider.calls[1].SourceLang != "ru" || provider.calls[1].TargetLang != "en" {
		t.Errorf("second call = %+v", provider.calls[1])
	}
}

func TestTranslate_CacheHitSkipsProvider(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{"Hello world": "en"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	first := o.Translate(ctx, Request{Text: "Hello world", ExternalTrigger: true})
	second := o.Translate(ctx, Request{Text: "Hello world", ExternalTrigger: true})

	if first.FromCache {
		t.Error("first response must not come from cache")
	}
	if !second.FromCache {
		t.Error("second response should come from cache")
	}
	if second.Text != first.Text {
		t.Errorf("cached text %q differs from original %q", second.Text, first.Text)
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1", len(provider.calls))
	}
}

func TestTranslate_NoLocalDetectionSendsAuto(t *testing.T) {
	provider := &stubProvider{
		respond: func(req translator.TranslateRequest) (*translator.Result, error) {
			return &translator.Result{
				Text:             "tr:" + req.Text,
				SourceLang:       "de",
				TargetLang:       req.TargetLang,
				DetectedLanguage: "de",
			}, nil
		},
	}
	o := newTestOrchestrator(testSettings(), stubDetector{}, provider)

	resp := o.Translate(context.Background(), Request{Text: "ok", ExternalTrigger: true})

	if len(provider.calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(provider.calls))
	}
	if provider.calls[0].SourceLang != translator.Auto {
		t.Errorf("sent source = %q, want auto", provider.calls[0].SourceLang)
	}
	// Backend detection of a third language corrects the source without
	// flipping the direction.
	if resp.SourceLang != "de" || resp.TargetLang != "en" {
		t.Errorf("pair = %s→%s, want de→en", resp.SourceLang, resp.TargetLang)
	}
	if resp.DetectedLanguage != "de" {
		t.Errorf("DetectedLanguage = %q", resp.DetectedLanguage)
	}
}

func TestTranslate_BackendInversionReissuesOnce(t *testing.T) {
	// Fresh session assumes auto→en; the backend detects English, which
	// equals the target, so the direction was inverted.
	provider := &stubProvider{}
	provider.respond = func(req translator.TranslateRequest) (*translator.Result, error) {
		if req.SourceLang == translator.Auto {
			return &translator.Result{
				Text:             "wrong-way",
				SourceLang:       "en",
				TargetLang:       req.TargetLang,
				DetectedLanguage: "en",
			}, nil
		}
		return &translator.Result{
			Text:       "правильный",
			SourceLang: req.SourceLang,
			TargetLang: req.TargetLang,
		}, nil
	}
	o := newTestOrchestrator(testSettings(), stubDetector{}, provider)

	resp := o.Translate(context.Background(), Request{Text: "Hello", ExternalTrigger: true})

	if len(provider.calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.calls))
	}
	if provider.calls[1].SourceLang != "en" || provider.calls[1].TargetLang != "ru" {
		t.Errorf("reissued call = %+v, want en→ru", provider.calls[1])
	}
	if resp.Text != "правильный" {
		t.Errorf("Text = %q, want the reissued result", resp.Text)
	}
	if resp.SourceLang != "en" || resp.TargetLang != "ru" {
		t.Errorf("pair = %s→%s, want en→ru", resp.SourceLang, resp.TargetLang)
	}

	// The corrected pair is what got cached.
	cached := o.Translate(context.Background(), Request{Text: "Hello", SourceLang: "en", TargetLang: "ru"})
	if !cached.FromCache {
		t.Error("corrected pair should be served from cache")
	}
}

func TestTranslate_ErrorNotCachedNotRecorded(t *testing.T) {
	provider := &stubProvider{
		respond: func(req translator.TranslateRequest) (*translator.Result, error) {
			return nil, translator.NewError("stub", translator.KindRateLimited, "slow down")
		},
	}
	det := stubDetector{"Hello world": "en"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	resp := o.Translate(ctx, Request{Text: "Hello world", ExternalTrigger: true})
	if !resp.Failed() {
		t.Fatal("expected a failure")
	}
	if resp.Err.Kind != translator.KindRateLimited {
		t.Errorf("Kind = %s", resp.Err.Kind)
	}
	if !resp.Err.Retryable() {
		t.Error("rate limiting should be retryable")
	}
	if len(o.History()) != 0 {
		t.Error("failed translations must not enter history")
	}

	// Nothing was cached: a retry reaches the provider again.
	o.Translate(ctx, Request{Text: "Hello world", ExternalTrigger: true})
	if len(provider.calls) != 2 {
		t.Errorf("provider calls = %d, want 2", len(provider.calls))
	}
}

func TestTranslate_EmptyTextRejected(t *testing.T) {
	provider := &stubProvider{}
	o := newTestOrchestrator(testSettings(), stubDetector{}, provider)

	resp := o.Translate(context.Background(), Request{Text: "   \n  "})
	if !resp.Failed() {
		t.Fatal("expected a failure")
	}
	if resp.Err.Kind != translator.KindEmptyInput {
		t.Errorf("Kind = %s", resp.Err.Kind)
	}
	if len(provider.calls) != 0 {
		t.Error("provider must not be called for empty text")
	}
}

func TestTranslate_StaleSequenceDropped(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{"newer": "en", "older": "en"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	first := o.NextSeq()
	second := o.NextSeq()

	resp := o.Translate(ctx, Request{Text: "newer", ExternalTrigger: false, Seq: second})
	if resp.Failed() || resp.Superseded {
		t.Fatalf("newer request should run: %+v", resp)
	}

	resp = o.Translate(ctx, Request{Text: "older", ExternalTrigger: false, Seq: first})
	if !resp.Superseded {
		t.Error("older request should be dropped as superseded")
	}
	if len(provider.calls) != 1 {
		t.Errorf("provider calls = %d, want 1", len(provider.calls))
	}
	if len(o.History()) != 1 {
		t.Errorf("history entries = %d, want 1", len(o.History()))
	}
}

func TestTranslate_NilProviderFallsBackToMock(t *testing.T) {
	o := newTestOrchestrator(testSettings(), stubDetector{"Hello world": "en"}, nil)

	if o.Provider() != "" {
		t.Errorf("Provider before first call = %q, want empty", o.Provider())
	}

	resp := o.Translate(context.Background(), Request{Text: "Hello world", ExternalTrigger: true})
	if resp.Failed() {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
	if resp.Provider != "mock" {
		t.Errorf("Provider = %q, want mock", resp.Provider)
	}
	if o.Provider() != "mock" {
		t.Errorf("active provider = %q, want mock", o.Provider())
	}
}

func TestTranslate_ExplicitSourceWarmsStickiness(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{"Привет мир": "ru"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	// Explicit de→? resolves to the primary language and records de as
	// the sticky foreign language.
	resp := o.Translate(ctx, Request{Text: "Hallo Welt", SourceLang: "de"})
	if resp.SourceLang != "de" || resp.TargetLang != "ru" {
		t.Errorf("pair = %s→%s, want de→ru", resp.SourceLang, resp.TargetLang)
	}

	// A later auto request in the primary language now targets de.
	resp = o.Translate(ctx, Request{Text: "Привет мир", ExternalTrigger: true})
	if resp.SourceLang != "ru" || resp.TargetLang != "de" {
		t.Errorf("pair = %s→%s, want ru→de", resp.SourceLang, resp.TargetLang)
	}
}

func TestTranslate_ExplicitTargetWarmsStickiness(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{"Как дела": "ru"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	// Explicit ru→de records de as the sticky foreign language even
	// though only the target is foreign.
	resp := o.Translate(ctx, Request{Text: "Привет мир", SourceLang: "ru", TargetLang: "de"})
	if resp.SourceLang != "ru" || resp.TargetLang != "de" {
		t.Errorf("pair = %s→%s, want ru→de", resp.SourceLang, resp.TargetLang)
	}

	// A later auto request in the primary language now targets de.
	resp = o.Translate(ctx, Request{Text: "Как дела", ExternalTrigger: true})
	if resp.SourceLang != "ru" || resp.TargetLang != "de" {
		t.Errorf("pair = %s→%s, want ru→de", resp.SourceLang, resp.TargetLang)
	}
}

func TestTranslate_SmartSwitchOffUsesConfiguredPair(t *testing.T) {
	settings := testSettings()
	settings.Translation.SmartSwitch = false
	provider := &stubProvider{}
	o := newTestOrchestrator(settings, stubDetector{"Hello world": "en"}, provider)

	resp := o.Translate(context.Background(), Request{Text: "Hello world", ExternalTrigger: true})

	// With smart switching off an auto request goes out as-is against the
	// configured second language.
	if len(provider.calls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(provider.calls))
	}
	if provider.calls[0].SourceLang != translator.Auto || provider.calls[0].TargetLang != "en" {
		t.Errorf("call = %+v, want auto→en", provider.calls[0])
	}
	if resp.Failed() {
		t.Fatalf("unexpected error: %v", resp.Err)
	}
}

func TestUpdateSettings_ReconfiguresSessionAndProvider(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{"bonjour le monde": "fr", "Привет мир": "ru"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	next := testSettings()
	next.Translation.SecondLanguage = "fr"
	next.Provider = config.ProviderSettings{Name: "mock"}
	o.UpdateSettings(next)

	if o.Provider() != "mock" {
		t.Errorf("provider after update = %q, want mock", o.Provider())
	}

	// The new default foreign language cascades into a fresh session.
	resp := o.Translate(ctx, Request{Text: "Привет мир", ExternalTrigger: true})
	if resp.TargetLang != "fr" {
		t.Errorf("target = %q, want fr", resp.TargetLang)
	}
}

func TestUpdateSettings_BadProviderKept(t *testing.T) {
	provider := &stubProvider{}
	o := newTestOrchestrator(testSettings(), stubDetector{}, provider)

	next := testSettings()
	next.Provider = config.ProviderSettings{Name: "no-such-backend"}
	o.UpdateSettings(next)

	if o.Provider() != "stub" {
		t.Errorf("provider = %q, want the previous stub kept", o.Provider())
	}
}

func TestTranslate_ShieldsURLsFromBackend(t *testing.T) {
	provider := &stubProvider{}
	text := "Read https://example.com/docs before starting"
	det := stubDetector{text: "en"}
	o := newTestOrchestrator(testSettings(), det, provider)

	resp := o.Translate(context.Background(), Request{Text: text, ExternalTrigger: true})
	if resp.Failed() {
		t.Fatalf("unexpected error: %v", resp.Err)
	}

	if strings.Contains(provider.calls[0].Text, "https://") {
		t.Errorf("backend saw the raw URL: %q", provider.calls[0].Text)
	}
	if !strings.Contains(resp.Text, "https://example.com/docs") {
		t.Errorf("URL not restored in %q", resp.Text)
	}
}

func TestTranslate_HistoryMostRecentFirst(t *testing.T) {
	provider := &stubProvider{}
	det := stubDetector{"one": "en", "two": "en"}
	o := newTestOrchestrator(testSettings(), det, provider)
	ctx := context.Background()

	o.Translate(ctx, Request{Text: "one", ExternalTrigger: true})
	o.Translate(ctx, Request{Text: "two", ExternalTrigger: true})

	entries := o.History()
	if len(entries) != 2 {
		t.Fatalf("history entries = %d, want 2", len(entries))
	}
	if entries[0].Text != "two" || entries[1].Text != "one" {
		t.Errorf("order = %q, %q", entries[0].Text, entries[1].Text)
	}
	if entries[0].Timestamp.After(time.Now()) {
		t.Error("timestamp in the future")
	}
}
