package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"codeberg.org/snonux/ivrit/internal/fetch"
)

// Fallback translation providers
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

// Defaults shared by flags and configuration
const (
	DefaultDictionaryURL = "https://www.pealim.com/ru/search/"
	DefaultContextURL    = "https://context.reverso.net/translation/hebrew-russian/"
	DefaultOutputFile    = "updated_file.xlsx"
	DefaultOpenAIModel   = "gpt-4o-mini"
	DefaultAddr          = ":8080"
)

// Settings is the typed view of the merged configuration file,
// environment variables and flags
type Settings struct {
	Sites     SiteSettings      `mapstructure:"sites"`
	HTTP      HTTPSettings      `mapstructure:"http"`
	Translate TranslateSettings `mapstructure:"translate"`
	Examples  ExampleSettings   `mapstructure:"examples"`
	Output    OutputSettings    `mapstructure:"output"`
	Sheets    SheetsSettings    `mapstructure:"sheets"`
	Log       LogSettings       `mapstructure:"log"`
	Serve     ServeSettings     `mapstructure:"serve"`
	Workers   int               `mapstructure:"workers"`
}

// SiteSettings holds the remote site base URLs
type SiteSettings struct {
	DictionaryURL string `mapstructure:"dictionary_url"`
	ContextURL    string `mapstructure:"context_url"`
}

// HTTPSettings configures the page clients
type HTTPSettings struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	Delay           time.Duration `mapstructure:"delay"`
	RandomDelay     time.Duration `mapstructure:"random_delay"`
	UserAgent       string        `mapstructure:"user_agent"`
	CacheDir        string        `mapstructure:"cache_dir"`
	BreakerFailures uint32        `mapstructure:"breaker_failures"`
	BreakerTimeout  time.Duration `mapstructure:"breaker_timeout"`
}

// TranslateSettings configures the fallback translator
type TranslateSettings struct {
	Provider    string `mapstructure:"provider"`
	Source      string `mapstructure:"source"`
	Target      string `mapstructure:"target"`
	OpenAIModel string `mapstructure:"openai_model"`
	OpenAIKey   string `mapstructure:"openai_key"`
}

// ExampleSettings configures example filtering
type ExampleSettings struct {
	MinLength  int    `mapstructure:"min_length"`
	SourceLang string `mapstructure:"source_lang"`
	TargetLang string `mapstructure:"target_lang"`
}

// OutputSettings configures the exported table
type OutputSettings struct {
	Format      string `mapstructure:"format"` // xlsx, csv or sheets; empty derives it from File
	File        string `mapstructure:"file"`
	Diagnostics bool   `mapstructure:"diagnostics"`
}

// SheetsSettings configures the Google Sheets export
type SheetsSettings struct {
	Spreadsheet string `mapstructure:"spreadsheet"`
	Credentials string `mapstructure:"credentials"`
}

// LogSettings configures logging
type LogSettings struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ServeSettings configures the upload server
type ServeSettings struct {
	Addr string `mapstructure:"addr"`
}

// DefaultSettings returns the built-in configuration
func DefaultSettings() *Settings {
	return &Settings{
		Sites: SiteSettings{
			DictionaryURL: DefaultDictionaryURL,
			ContextURL:    DefaultContextURL,
		},
		HTTP: HTTPSettings{
			Timeout:         20 * time.Second,
			Delay:           time.Second,
			RandomDelay:     500 * time.Millisecond,
			UserAgent:       fetch.DefaultUserAgent,
			BreakerFailures: 5,
			BreakerTimeout:  30 * time.Second,
		},
		Translate: TranslateSettings{
			Provider:    ProviderGoogle,
			Source:      "iw",
			Target:      "ru",
			OpenAIModel: DefaultOpenAIModel,
		},
		Examples: ExampleSettings{
			MinLength:  10,
			SourceLang: "he",
			TargetLang: "ru",
		},
		Output: OutputSettings{
			File: DefaultOutputFile,
		},
		Log: LogSettings{
			Level: "info",
		},
		Serve: ServeSettings{
			Addr: DefaultAddr,
		},
		Workers: 1,
	}
}

// setDefaults registers every configuration key with viper so that
// environment variables are picked up for all of them
func setDefaults(v *viper.Viper) {
	d := DefaultSettings()
	v.SetDefault("sites.dictionary_url", d.Sites.DictionaryURL)
	v.SetDefault("sites.context_url", d.Sites.ContextURL)
	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.delay", d.HTTP.Delay)
	v.SetDefault("http.random_delay", d.HTTP.RandomDelay)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.cache_dir", d.HTTP.CacheDir)
	v.SetDefault("http.breaker_failures", d.HTTP.BreakerFailures)
	v.SetDefault("http.breaker_timeout", d.HTTP.BreakerTimeout)
	v.SetDefault("translate.provider", d.Translate.Provider)
	v.SetDefault("translate.source", d.Translate.Source)
	v.SetDefault("translate.target", d.Translate.Target)
	v.SetDefault("translate.openai_model", d.Translate.OpenAIModel)
	v.SetDefault("translate.openai_key", "")
	v.SetDefault("examples.min_length", d.Examples.MinLength)
	v.SetDefault("examples.source_lang", d.Examples.SourceLang)
	v.SetDefault("examples.target_lang", d.Examples.TargetLang)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.file", d.Output.File)
	v.SetDefault("output.diagnostics", d.Output.Diagnostics)
	v.SetDefault("sheets.spreadsheet", "")
	v.SetDefault("sheets.credentials", "")
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", "")
	v.SetDefault("serve.addr", d.Serve.Addr)
	v.SetDefault("workers", d.Workers)
}

// LoadSettings unmarshals the global viper configuration and validates it
func LoadSettings() (*Settings, error) {
	return loadSettings(viper.GetViper())
}

func loadSettings(v *viper.Viper) (*Settings, error) {
	setDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks option values that would otherwise fail late
func (s *Settings) Validate() error {
	switch s.Translate.Provider {
	case ProviderGoogle, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("unknown translation provider: %s (use google, openai or none)", s.Translate.Provider)
	}

	switch s.Output.Format {
	case "", "xlsx", "csv":
	case "sheets":
		if s.Sheets.Spreadsheet == "" {
			return fmt.Errorf("the sheets output format needs a spreadsheet (--spreadsheet)")
		}
	default:
		return fmt.Errorf("unknown output format: %s (use xlsx, csv or sheets)", s.Output.Format)
	}

	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.Examples.MinLength < 1 {
		return fmt.Errorf("examples.min_length must be at least 1, got %d", s.Examples.MinLength)
	}
	if s.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	return nil
}

// FetchOptions returns the page client options
func (s *Settings) FetchOptions() fetch.Options {
	return fetch.Options{
		UserAgent:       s.HTTP.UserAgent,
		Timeout:         s.HTTP.Timeout,
		Delay:           s.HTTP.Delay,
		RandomDelay:     s.HTTP.RandomDelay,
		CacheDir:        s.HTTP.CacheDir,
		BreakerFailures: s.HTTP.BreakerFailures,
		BreakerTimeout:  s.HTTP.BreakerTimeout,
	}
}

// OpenAIKey returns the OpenAI API key, preferring OPENAI_API_KEY
func (s *Settings) OpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return s.Translate.OpenAIKey
}
