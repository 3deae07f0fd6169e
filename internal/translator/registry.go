package translator

import (
	"fmt"
	"sort"
)

// Options carries the per-backend wiring a constructor may need.
type Options struct {
	APIKey          string
	BaseURL         string
	CredentialsFile string
}

type constructor func(Options) TranslationService

// The backend set is closed: selection happens by name through this map,
// never by reflection or dynamic dispatch.
var registry = map[string]constructor{
	"mock": func(Options) TranslationService {
		return NewMockService()
	},
	"google": func(o Options) TranslationService {
		if o.CredentialsFile != "" {
			return NewGoogleServiceWithCredentials(o.CredentialsFile)
		}
		return NewGoogleService()
	},
	"mymemory": func(o Options) TranslationService {
		return NewMyMemoryService(o.APIKey)
	},
	"libretranslate": func(o Options) TranslationService {
		return NewLibreTranslateService(o.BaseURL)
	},
}

// New constructs the named backend and hands it the configured API key.
func New(name string, opts Options) (TranslationService, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown translation service %q (available: %v)", name, Names())
	}
	svc := build(opts)
	if err := svc.Initialize(opts.APIKey); err != nil {
		return nil, fmt.Errorf("initialize %s: %w", name, err)
	}
	return svc, nil
}

// Names lists the registered backends in stable order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
