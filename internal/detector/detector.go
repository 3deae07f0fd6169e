// Package detector wraps a statistical n-gram language detector behind the
// narrow contract the session machinery needs: text in, two-letter code or
// nothing out. Short inputs are gated hard, because a wrong guess on a
// fragment corrupts session state.
package detector

import (
	"strings"
	"unicode/utf8"

	lingua "github.com/pemistahl/lingua-go"
)

const (
	// MinTextLength is the minimum rune count for any detection attempt.
	MinTextLength = 3
	// ShortTextLength marks inputs that additionally need high confidence.
	ShortTextLength = 10
	// ShortTextConfidence is the confidence floor for short inputs.
	ShortTextConfidence = 0.75

	// hintMargin is how close (relative to the top candidate) a hinted
	// language must score to win over an unhinted one.
	hintMargin = 0.9
)

// codeByLanguage is the closed mapping table. Languages the underlying
// detector knows but that are absent here never leak out as codes.
var codeByLanguage = map[lingua.Language]string{
	lingua.English:    "en",
	lingua.Russian:    "ru",
	lingua.German:     "de",
	lingua.French:     "fr",
	lingua.Spanish:    "es",
	lingua.Italian:    "it",
	lingua.Portuguese: "pt",
	lingua.Ukrainian:  "uk",
	lingua.Polish:     "pl",
	lingua.Dutch:      "nl",
	lingua.Czech:      "cs",
	lingua.Swedish:    "sv",
	lingua.Turkish:    "tr",
	lingua.Chinese:    "zh",
	lingua.Japanese:   "ja",
	lingua.Korean:     "ko",
	lingua.Arabic:     "ar",
}

type Detector struct {
	detector lingua.LanguageDetector
}

// New builds the detector once, over the mapped language set only.
func New() *Detector {
	languages := make([]lingua.Language, 0, len(codeByLanguage))
	for lang := range codeByLanguage {
		languages = append(languages, lang)
	}

	d := lingua.NewLanguageDetectorBuilder().
		FromLanguages(languages...).
		WithPreloadedLanguageModels().
		Build()

	return &Detector{detector: d}
}

// Detect returns the best-guess two-letter code for text, or "" when the
// input carries too little signal. Hints is a small whitelist of probable
// codes (the caller passes the primary and sticky foreign languages); a
// hinted candidate scoring close to the statistical winner is preferred,
// which keeps short ambiguous strings from flipping to implausible
// languages.
func (d *Detector) Detect(text string, hints []string) string {
	clean := strings.TrimSpace(text)
	length := utf8.RuneCountInString(clean)
	if length < MinTextLength {
		return ""
	}

	values := d.detector.ComputeLanguageConfidenceValues(clean)
	if len(values) == 0 {
		return ""
	}

	best := values[0]
	chosen, confidence := best.Language(), best.Value()

	if !hinted(codeByLanguage[chosen], hints) {
		for _, v := range values[1:] {
			if v.Value() < best.Value()*hintMargin {
				break
			}
			if hinted(codeByLanguage[v.Language()], hints) {
				chosen, confidence = v.Language(), v.Value()
				break
			}
		}
	}

	if length < ShortTextLength && confidence < ShortTextConfidence {
		return ""
	}

	code, ok := codeByLanguage[chosen]
	if !ok {
		return ""
	}
	return code
}

// SupportedCodes lists the codes the detector can produce.
func (d *Detector) SupportedCodes() []string {
	codes := make([]string, 0, len(codeByLanguage))
	for _, code := range codeByLanguage {
		codes = append(codes, code)
	}
	return codes
}

func hinted(code string, hints []string) bool {
	if code == "" {
		return false
	}
	for _, h := range hints {
		if h == code {
			return true
		}
	}
	return false
}
