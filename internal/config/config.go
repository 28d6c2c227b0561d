// Package config resolves mstranslate settings from defaults, an optional
// config file, a .env file, MSTRANSLATE_* environment variables and flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/valpere/mstranslate/internal/translator"
	"github.com/valpere/mstranslate/internal/transport"
	"github.com/valpere/mstranslate/internal/widget"
)

const EnvPrefix = "MSTRANSLATE"

// Keys recognised in config files and, upper-cased with the prefix, in the
// environment.
const (
	KeySubscriptionKey = "subscription_key"
	KeyTokenURL        = "token_url"
	KeyLanguagesURL    = "languages_url"
	KeyTranslateURL    = "translate_url"
	KeyDefaultLanguage = "default_language"
	KeyMinTextLength   = "min_text_length"
	KeyCachePath       = "cache_path"
	KeyNoCache         = "no_cache"
	KeyRequestTimeout  = "request_timeout"
	KeyRateLimit       = "rate_limit"
	KeyLogLevel        = "log_level"
	KeyLogFormat       = "log_format"
	KeyMetricsAddr     = "metrics_addr"
)

const (
	DefaultLanguage  = "en"
	DefaultCachePath = "./data/mstranslate.db"
)

type Config struct {
	SubscriptionKey string `mapstructure:"subscription_key"`

	translator.Endpoints `mapstructure:",squash"`

	DefaultLanguage string `mapstructure:"default_language"`
	MinTextLength   int    `mapstructure:"min_text_length"`

	CachePath string `mapstructure:"cache_path"`
	NoCache   bool   `mapstructure:"no_cache"`

	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimit      float64       `mapstructure:"rate_limit"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`

	// MetricsAddr, when set, serves /metrics for the lifetime of a command.
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// SetDefaults registers every key, which also makes each one resolvable from
// the environment.
func SetDefaults(v *viper.Viper) {
	endpoints := translator.DefaultEndpoints()

	v.SetDefault(KeySubscriptionKey, "")
	v.SetDefault(KeyTokenURL, endpoints.TokenURL)
	v.SetDefault(KeyLanguagesURL, endpoints.LanguagesURL)
	v.SetDefault(KeyTranslateURL, endpoints.TranslateURL)
	v.SetDefault(KeyDefaultLanguage, DefaultLanguage)
	v.SetDefault(KeyMinTextLength, widget.DefaultMinTextLength)
	v.SetDefault(KeyCachePath, DefaultCachePath)
	v.SetDefault(KeyNoCache, false)
	v.SetDefault(KeyRequestTimeout, transport.DefaultTimeout)
	v.SetDefault(KeyRateLimit, 0.0)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyMetricsAddr, "")
}

// LoadEnvFile loads path into the process environment without overriding
// variables that are already set. A missing file is not an error; the
// returned path is empty when nothing was loaded.
func LoadEnvFile(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err := godotenv.Load(path); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return path, nil
}

// Load reads configFile, when given or found in $HOME, and returns the
// resolved configuration.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(".mstranslate")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.MinTextLength < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyMinTextLength))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyRateLimit))
	}
	if strings.TrimSpace(c.TokenURL) == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyTokenURL))
	}
	templates := []struct{ key, value string }{
		{KeyLanguagesURL, c.LanguagesURL},
		{KeyTranslateURL, c.TranslateURL},
	}
	for _, tmpl := range templates {
		for _, slot := range []string{translator.TokenSlot, translator.CallbackSlot} {
			if !strings.Contains(tmpl.value, slot) {
				errs = append(errs, fmt.Errorf("%s must contain %s", tmpl.key, slot))
			}
		}
	}
	if !strings.Contains(c.TranslateURL, translator.TextSlot) || !strings.Contains(c.TranslateURL, translator.ToSlot) {
		errs = append(errs, fmt.Errorf("%s must contain %s and %s", KeyTranslateURL, translator.TextSlot, translator.ToSlot))
	}

	return errors.Join(errs...)
}

func (c *Config) WidgetOptions() widget.Options {
	return widget.Options{
		MinTextLength:   c.MinTextLength,
		DefaultLanguage: c.DefaultLanguage,
	}
}
