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
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/mstranslate/internal/config"
	"github.com/valpere/mstranslate/internal/logging"
)

var version = "0.1.0"

var (
	cfgFile string
	envFile string
	noColor bool

	v      = viper.New()
	cfg    *config.Config
	logger *logrus.Logger
)

// errReported is returned when the failure has already been shown to the user.
var errReported = errors.New("reported")

var rootCmd = &cobra.Command{
	Use:   "mstranslate",
	Short: "Microsoft Translator widget for the terminal",
	Long: `A terminal translation widget backed by the Microsoft Translator token and
Ajax endpoints. Translations are cached locally by text and target language.

Configuration is read from flags, MSTRANSLATE_* environment variables, a .env
file and $HOME/.mstranslate.yaml, in that order of precedence.

Use "mstranslate translate --help" for translation options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}

		if _, err := config.LoadEnvFile(envFile); err != nil {
			return err
		}

		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		if err := loaded.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		l, err := logging.New(loaded.LogLevel, loaded.LogFormat)
		if err != nil {
			return err
		}
		if f := v.ConfigFileUsed(); f != "" {
			l.WithField("file", f).Debug("Config loaded")
		}

		cfg, logger = loaded, l
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()

	pf.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.mstranslate.yaml)")
	pf.StringVar(&envFile, "env-file", ".env", "Path to the .env file")
	pf.BoolVar(&noColor, "no-color", false, "Disable colored output")

	pf.String("subscription-key", "", "Translator subscription key")
	pf.String("token-url", "", "Token endpoint URL")
	pf.String("languages-url", "", "Languages endpoint URL template")
	pf.String("translate-url", "", "Translate endpoint URL template")
	pf.String("default-language", config.DefaultLanguage, "Source language preselected after bootstrap")
	pf.Int("min-text-length", 2, "Shortest text that may be translated")
	pf.String("db", config.DefaultCachePath, "Local translation cache path")
	pf.Bool("no-cache", false, "Disable the local translation cache")
	pf.Duration("timeout", 0, "Per-request timeout (default 30s)")
	pf.Float64("rate-limit", 0, "Maximum requests per second (0 = unlimited)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("log-format", "text", "Log format (text, json)")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address while the command runs (e.g. 127.0.0.1:9464)")

	for key, flag := range map[string]string{
		config.KeySubscriptionKey: "subscription-key",
		config.KeyTokenURL:        "token-url",
		config.KeyLanguagesURL:    "languages-url",
		config.KeyTranslateURL:    "translate-url",
		config.KeyDefaultLanguage: "default-language",
		config.KeyMinTextLength:   "min-text-length",
		config.KeyCachePath:       "db",
		config.KeyNoCache:         "no-cache",
		config.KeyRequestTimeout:  "timeout",
		config.KeyRateLimit:       "rate-limit",
		config.KeyLogLevel:        "log-level",
		config.KeyLogFormat:       "log-format",
		config.KeyMetricsAddr:     "metrics-addr",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}
