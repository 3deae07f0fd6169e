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
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/snaptran/internal/orchestrator"
)

var (
	sourceLang string
	targetLang string
	external   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text]",
	Short: "Translate text with automatic direction resolution",
	Long: `Translate text given as arguments (or piped on stdin). With --source auto
(the default) the session context decides the direction: foreign text is
translated into your primary language, primary-language text into the
sticky foreign language.

--external marks the text as captured from outside (hotkey/clipboard), the
default models live typing in the input box.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if text == "" {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			text = strings.TrimRight(string(raw), "\n")
		}

		settings, loader, err := loadSettings()
		if err != nil {
			return err
		}

		logger := newLogger()
		orch, cleanup, err := buildOrchestrator(settings, loader, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		resp := orch.Translate(context.Background(), orchestrator.Request{
			Text:            text,
			SourceLang:      sourceLang,
			TargetLang:      targetLang,
			ExternalTrigger: external,
			Seq:             orch.NextSeq(),
		})
		if resp.Failed() {
			return fmt.Errorf("translation failed: %s", resp.Err)
		}

		fmt.Fprintf(os.Stderr, "%s → %s (%s)%s\n",
			resp.SourceLang, resp.TargetLang, resp.Provider,
			cacheTag(resp.FromCache))
		fmt.Println(resp.Text)
		return nil
	},
}

func cacheTag(fromCache bool) string {
	if fromCache {
		return " [cached]"
	}
	return ""
}

func init() {
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "source language code, or auto")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "target language code (default: resolved by session context)")
	translateCmd.Flags().BoolVarP(&external, "external", "e", false, "treat text as an external capture rather than live typing")
	translateCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log direction resolution decisions")
	rootCmd.AddCommand(translateCmd)
}
