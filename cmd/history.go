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

	"github.com/spf13/cobra"

	"github.com/valpere/snaptran/internal/store"
)

var historyLimit int

func openHistoryStore() (*store.Store, error) {
	settings, _, err := loadSettings()
	if err != nil {
		return nil, err
	}
	if settings.History.DBPath == "" {
		return nil, fmt.Errorf("history.db_path is not configured, persistent history is disabled")
	}
	return store.New(settings.History.DBPath)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the persistent translation history",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent translations, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer st.Close()

		records, err := st.List(context.Background(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		for _, r := range records {
			fmt.Printf("%s  %s→%s  [%s]\n  %s\n  %s\n",
				r.CreatedAt.Format("2006-01-02 15:04"),
				r.SourceLang, r.TargetLang, r.Provider,
				r.SourceText, r.TranslatedText)
		}
		return nil
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the persistent history",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer st.Close()

		stats, err := st.Stats(context.Background())
		if err != nil {
			return fmt.Errorf("failed to read stats: %w", err)
		}

		fmt.Printf("entries: %d\nproviders: %d\nlanguage pairs: %d\n",
			stats.TotalEntries, stats.Providers, stats.Pairs)
		return nil
	},
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all persistent history records",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openHistoryStore()
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Printf("removed %d records\n", n)
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum records to show (0 = all)")
	historyCmd.AddCommand(historyListCmd, historyStatsCmd, historyClearCmd)
	rootCmd.AddCommand(historyCmd)
}
