/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/valpere/snaptran/internal/config"
	"github.com/valpere/snaptran/internal/detector"
	"github.com/valpere/snaptran/internal/orchestrator"
	"github.com/valpere/snaptran/internal/session"
	"github.com/valpere/snaptran/internal/store"
	"github.com/valpere/snaptran/internal/translator"
)

var verbose bool

func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: false,
		Prefix:          "snaptran",
	})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.WarnLevel)
	}
	return logger
}

func loadSettings() (config.Settings, *config.Loader, error) {
	loader := config.NewLoader(configPath)
	settings, err := loader.Load()
	if err != nil {
		return config.Settings{}, nil, err
	}
	return settings, loader, nil
}

// buildProvider constructs the configured backend; an unknown or
// misconfigured backend is reported, not silently swapped.
func buildProvider(settings config.Settings) (translator.TranslationService, error) {
	svc, err := translator.New(settings.Provider.Name, translator.Options{
		APIKey:          settings.Provider.APIKey,
		BaseURL:         settings.Provider.BaseURL,
		CredentialsFile: settings.Provider.CredentialsFile,
	})
	if err != nil {
		return nil, fmt.Errorf("provider configuration: %w", err)
	}
	return svc, nil
}

// buildOrchestrator wires the full stack the way the application's hotkey
// layer would: session context seeded from settings, lingua detector,
// configured backend, optional persistent history. The returned cleanup
// closes the store when one was opened.
func buildOrchestrator(settings config.Settings, loader *config.Loader, logger *log.Logger) (*orchestrator.Orchestrator, func(), error) {
	sess := session.NewContext(session.Config{
		PrimaryLanguage:        settings.Translation.PrimaryLanguage,
		DefaultForeignLanguage: settings.Translation.SecondLanguage,
		Timeout:                settings.Translation.Timeout(),
	})

	provider, err := buildProvider(settings)
	if err != nil {
		return nil, nil, err
	}

	opts := []orchestrator.Option{orchestrator.WithLogger(logger)}
	cleanup := func() {}

	if settings.History.DBPath != "" {
		st, err := store.New(settings.History.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open history database: %w", err)
		}
		opts = append(opts, orchestrator.WithStore(st))
		cleanup = func() { st.Close() }
	}

	orch := orchestrator.New(settings, sess, detector.New(), provider, opts...)

	if loader != nil {
		loader.Watch(func(s config.Settings) {
			logger.Info("configuration changed, applying")
			orch.UpdateSettings(s)
		})
	}

	return orch, cleanup, nil
}
