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
)

var checkKey string

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the configured backend and optionally validate an API key",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, _, err := loadSettings()
		if err != nil {
			return err
		}

		provider, err := buildProvider(settings)
		if err != nil {
			return err
		}

		ctx := context.Background()

		status, err := provider.TestConnection(ctx)
		if err != nil {
			return fmt.Errorf("connection test failed: %w", err)
		}
		if status.Success {
			fmt.Printf("%s: %s (%s)\n", provider.Name(), status.Message, status.ResponseTime)
		} else {
			fmt.Printf("%s: FAILED: %s\n", provider.Name(), status.Message)
			if status.Details != "" {
				fmt.Printf("  %s\n", status.Details)
			}
		}

		key := checkKey
		if key == "" {
			key = settings.Provider.APIKey
		}
		if key != "" {
			validation, err := provider.ValidateAPIKey(ctx, key)
			if err != nil {
				return fmt.Errorf("key validation failed: %w", err)
			}
			if validation.Valid {
				fmt.Printf("api key: valid (%s)\n", validation.Message)
			} else {
				fmt.Printf("api key: INVALID: %s\n", validation.Message)
			}
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkKey, "key", "", "API key to validate (default: the configured one)")
	rootCmd.AddCommand(checkCmd)
}
