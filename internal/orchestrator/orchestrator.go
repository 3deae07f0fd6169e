// Package orchestrator is the single entry point the rest of the
// application calls: it glues the language detector, the session context,
// the configured translation backend, the result cache and the history
// together into one Translate call.
package orchestrator

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/valpere/snaptran/internal/cache"
	"github.com/valpere/snaptran/internal/config"
	"github.com/valpere/snaptran/internal/history"
	"github.com/valpere/snaptran/internal/placeholder"
	"github.com/valpere/snaptran/internal/session"
	"github.com/valpere/snaptran/internal/store"
	"github.com/valpere/snaptran/internal/translator"
)

// LanguageDetector is the slice of the detector the orchestrator uses.
// Detection is an optimization: implementations report "" instead of
// failing.
type LanguageDetector interface {
	Detect(text string, hints []string) string
}

// Request is one translation ask. SourceLang may be "auto" (or empty,
// which means the same); TargetLang may be empty to let settings and
// session state resolve it. ExternalTrigger distinguishes hotkey/clipboard
// captures from live edits of the input box. Seq is an optional monotonic
// sequence number for the latest-wins contract: a request older than the
// last applied one is dropped without touching any state. Zero means
// unsequenced.
type Request struct {
	Text            string
	SourceLang      string
	TargetLang      string
	ExternalTrigger bool
	Seq             uint64
}

// Response is the outcome. Err is nil on success; Superseded marks a
// sequenced request that lost to a newer one.
type Response struct {
	Text             string
	SourceLang       string
	TargetLang       string
	DetectedLanguage string
	Provider         string
	Timestamp        time.Time
	FromCache        bool
	Superseded       bool
	Err              *translator.Error
}

// Failed reports whether the translation produced an error.
func (r *Response) Failed() bool {
	return r.Err != nil
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithLogger sets the logger; the default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithStore mirrors successful translations into a persistent store.
func WithStore(st *store.Store) Option {
	return func(o *Orchestrator) { o.store = st }
}

// Orchestrator serializes translation requests against the shared session
// context: each Translate call runs to completion, provider I/O included,
// before the next one's context mutation is applied.
type Orchestrator struct {
	mu sync.Mutex

	sess     *session.Context
	det      LanguageDetector
	provider translator.TranslationService
	cache    *cache.Cache
	hist     *history.Ring
	store    *store.Store
	settings config.Settings
	logger   *log.Logger

	seq     atomic.Uint64
	lastSeq uint64
}

// New wires an orchestrator. provider may be nil: the first Translate call
// then falls back to the offline mock so a missing provider configuration
// never blocks startup.
func New(settings config.Settings, sess *session.Context, det LanguageDetector, provider translator.TranslationService, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sess:     sess,
		det:      det,
		provider: provider,
		cache:    cache.New(settings.Cache.Capacity, settings.Cache.TTL()),
		hist:     history.New(settings.History.Capacity),
		settings: settings,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// NextSeq hands out monotonic sequence numbers for callers that coalesce
// live-typing retranslation upstream.
func (o *Orchestrator) NextSeq() uint64 {
	return o.seq.Add(1)
}

// Translate resolves the language pair, consults the cache and calls the
// backend. On a server-side detected direction inversion the request is
// reissued once with the corrected pair before the result is cached.
func (o *Orchestrator) Translate(ctx context.Context, req Request) *Response {
	if strings.TrimSpace(req.Text) == "" {
		return &Response{
			Timestamp: time.Now(),
			Err:       translator.NewError("", translator.KindEmptyInput, "empty text"),
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	if req.Seq != 0 {
		if req.Seq <= o.lastSeq {
			o.logger.Debug("dropping superseded request", "seq", req.Seq, "last_applied", o.lastSeq)
			return &Response{Timestamp: time.Now(), Superseded: true}
		}
		o.lastSeq = req.Seq
	}

	provider := o.provider
	if provider == nil {
		provider = translator.NewMockService()
		o.provider = provider
		o.logger.Warn("no translation provider configured, falling back to offline mock")
	}

	source := req.SourceLang
	if source == "" {
		source = translator.Auto
	}
	target := req.TargetLang

	smart := o.settings.Translation.SmartSwitch
	detected := ""

	if smart && source == translator.Auto {
		hints := []string{o.sess.PrimaryLanguage(), o.sess.LastForeignLanguage()}
		detected = o.det.Detect(req.Text, hints)

		if req.ExternalTrigger {
			o.sess.HandleExternalInput(detected)
		} else {
			o.sess.HandleInputUpdate(detected)
		}

		pair := o.sess.CurrentPair()
		if detected == "" {
			// No local signal: send "auto" and let the backend decide,
			// against whatever target the session currently holds.
			target = pair.Target
		} else {
			source, target = pair.Source, pair.Target
		}
		o.logger.Debug("direction resolved",
			"detected", detected, "source", source, "target", target,
			"external", req.ExternalTrigger)
	} else {
		if target == "" {
			target = o.resolveExplicitTarget(source)
		}
		// Keep stickiness warm so a later auto request benefits. An
		// explicitly requested foreign target counts as much as a
		// foreign source.
		o.sess.RememberForeign(source)
		o.sess.RememberForeign(target)
	}

	sentAuto := source == translator.Auto

	key := cache.NewKey(provider.Name(), req.Text, source, target)
	if entry, ok := o.cache.Get(key); ok {
		o.logger.Debug("cache hit", "source", source, "target", target)
		return o.cached(provider.Name(), source, target, entry)
	}

	result, err := o.callProvider(ctx, provider, req.Text, source, target)
	if err != nil {
		return o.failure(provider.Name(), err)
	}

	if sentAuto && result.DetectedLanguage != "" {
		if smart && o.sess.UpdateFromAPIResult(result.DetectedLanguage) {
			// The backend saw the opposite direction from what was
			// assumed; the target was wrong, so reissue with the
			// corrected pair (unless the corrected result is cached).
			pair := o.sess.CurrentPair()
			source, target = pair.Source, pair.Target
			o.logger.Debug("direction inverted by backend detection",
				"detected", result.DetectedLanguage, "source", source, "target", target)

			key = cache.NewKey(provider.Name(), req.Text, source, target)
			if entry, ok := o.cache.Get(key); ok {
				return o.cached(provider.Name(), source, target, entry)
			}

			result, err = o.callProvider(ctx, provider, req.Text, source, target)
			if err != nil {
				return o.failure(provider.Name(), err)
			}
		} else {
			source = result.DetectedLanguage
		}
	}

	resp := &Response{
		Text:             result.Text,
		SourceLang:       source,
		TargetLang:       target,
		DetectedLanguage: firstNonEmpty(result.DetectedLanguage, detected),
		Provider:         provider.Name(),
		Timestamp:        time.Now(),
	}

	if check := o.det.Detect(resp.Text, []string{target}); check != "" && check != target {
		o.logger.Debug("result does not read as the target language",
			"detected", check, "target", target)
	}

	o.cache.Put(key, cache.Entry{Text: resp.Text, DetectedLanguage: resp.DetectedLanguage})
	o.hist.Add(history.Entry{
		Text:       req.Text,
		Translated: resp.Text,
		SourceLang: resp.SourceLang,
		TargetLang: resp.TargetLang,
		Provider:   resp.Provider,
		Timestamp:  resp.Timestamp,
	})
	if o.store != nil {
		if err := o.store.Append(ctx, store.Record{
			SourceText:     req.Text,
			TranslatedText: resp.Text,
			SourceLang:     resp.SourceLang,
			TargetLang:     resp.TargetLang,
			Provider:       resp.Provider,
			CreatedAt:      resp.Timestamp,
		}); err != nil {
			o.logger.Warn("failed to persist history record", "err", err)
		}
	}

	return resp
}

// UpdateSettings applies a new settings snapshot: session defaults cascade
// through the context, and a provider change swaps the backend. A backend
// that fails to construct keeps the previous one in place.
func (o *Orchestrator) UpdateSettings(s config.Settings) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if s.Provider != o.settings.Provider {
		svc, err := translator.New(s.Provider.Name, translator.Options{
			APIKey:          s.Provider.APIKey,
			BaseURL:         s.Provider.BaseURL,
			CredentialsFile: s.Provider.CredentialsFile,
		})
		if err != nil {
			o.logger.Error("keeping previous provider", "err", err)
		} else {
			o.provider = svc
			o.logger.Info("translation provider switched", "provider", svc.Name())
		}
	}

	o.settings = s
	o.sess.UpdateConfig(
		s.Translation.PrimaryLanguage,
		s.Translation.SecondLanguage,
		s.Translation.Timeout(),
	)
}

// History returns the session history, most recent first.
func (o *Orchestrator) History() []history.Entry {
	return o.hist.Entries()
}

// Provider returns the active backend name, or "" before the lazy
// fallback has run.
func (o *Orchestrator) Provider() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.provider == nil {
		return ""
	}
	return o.provider.Name()
}

// callProvider shields URLs, emails and markup from the backend, issues
// the request and restores the shielded fragments in the result.
func (o *Orchestrator) callProvider(ctx context.Context, provider translator.TranslationService, text, source, target string) (*translator.Result, error) {
	protected, markers := placeholder.Protect(text)

	result, err := provider.Translate(ctx, translator.TranslateRequest{
		Text:       protected,
		SourceLang: source,
		TargetLang: target,
	})
	if err != nil {
		return nil, err
	}

	if len(markers) > 0 {
		if missing := placeholder.Validate(result.Text, markers); len(missing) > 0 {
			o.logger.Warn("backend dropped protected fragments", "missing", len(missing), "total", len(markers))
		}
		result.Text = placeholder.Restore(result.Text, markers)
	}
	return result, nil
}

// resolveExplicitTarget picks a target for a request that bypassed the
// session machinery: translating out of the primary (or an unresolved
// source) aims at the configured second language, anything else aims home.
func (o *Orchestrator) resolveExplicitTarget(source string) string {
	primary := o.settings.Translation.PrimaryLanguage
	second := o.settings.Translation.SecondLanguage
	switch source {
	case translator.Auto, primary:
		return second
	default:
		return primary
	}
}

func (o *Orchestrator) cached(provider, source, target string, entry cache.Entry) *Response {
	return &Response{
		Text:             entry.Text,
		SourceLang:       source,
		TargetLang:       target,
		DetectedLanguage: entry.DetectedLanguage,
		Provider:         provider,
		Timestamp:        time.Now(),
		FromCache:        true,
	}
}

// failure converts a backend error into an error response. Nothing is
// cached and the session context is left as it was, so a retry resolves
// to the same direction.
func (o *Orchestrator) failure(provider string, err error) *Response {
	var terr *translator.Error
	if !errors.As(err, &terr) {
		terr = translator.WrapError(provider, translator.KindProvider, err)
	}
	o.logger.Warn("translation failed",
		"provider", provider, "kind", terr.Kind, "retryable", terr.Retryable(), "err", terr.Message)
	return &Response{Provider: provider, Timestamp: time.Now(), Err: terr}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
