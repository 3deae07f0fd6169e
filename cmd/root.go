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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "snaptran",
	Short: "Context-aware clipboard translator",
	Long: `snaptran translates captured or typed text between your primary language
and a sticky foreign language, deciding the direction automatically: a
foreign snippet is translated home, primary-language text goes back to the
most recently used foreign language, and the direction flips when you
start typing the other language.

Backends: mock (offline), google, mymemory, libretranslate.

Use "snaptran translate --help" for translation options.`,
	Version: version,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./snaptran.yaml, ~/.config/snaptran/snaptran.yaml)")
}
