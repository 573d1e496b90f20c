// ABOUTME: Application configuration loaded from the environment
// ABOUTME: Reads an optional .env file, then SAWT_* variables via envconfig
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/sawtlab/sawt-go/pkg/audio/output"
	"github.com/sawtlab/sawt-go/pkg/playback"
	"github.com/sawtlab/sawt-go/pkg/tts"
)

// Config holds all configuration for the player
type Config struct {
	// Speech service
	APIKey       string        `envconfig:"GEMINI_API_KEY"`
	APIBaseURL   string        `envconfig:"SAWT_API_BASE_URL" default:"https://generativelanguage.googleapis.com"`
	TTSModel     string        `envconfig:"SAWT_TTS_MODEL" default:"gemini-2.5-flash-preview-tts"`
	RewriteModel string        `envconfig:"SAWT_REWRITE_MODEL" default:"gemini-2.5-pro"`
	HTTPTimeout  time.Duration `envconfig:"SAWT_HTTP_TIMEOUT" default:"60s"`

	// Resilience
	RetryAttempts int           `envconfig:"SAWT_RETRY_ATTEMPTS" default:"3"`
	RetryBackoff  time.Duration `envconfig:"SAWT_RETRY_BACKOFF" default:"500ms"` // initial backoff

	// Audio
	AudioBackend string `envconfig:"SAWT_AUDIO_BACKEND" default:"oto"` // oto or malgo
	OutputDir    string `envconfig:"SAWT_OUTPUT_DIR" default:"."`

	// Speaker defaults
	DefaultVoice string  `envconfig:"SAWT_DEFAULT_VOICE" default:"karim"`
	DefaultStyle string  `envconfig:"SAWT_DEFAULT_STYLE" default:"natural"`
	DefaultSpeed float64 `envconfig:"SAWT_DEFAULT_SPEED" default:"1.0"`

	// Observability
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty   bool   `envconfig:"LOG_PRETTY" default:"false"`
	MetricsAddr string `envconfig:"SAWT_METRICS_ADDR" default:""` // empty disables the endpoint
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. The API key is checked by RequireAPIKey
// since offline use does not need it.
func (c *Config) Validate() error {
	switch c.AudioBackend {
	case output.BackendOto, output.BackendMalgo:
	default:
		return fmt.Errorf("SAWT_AUDIO_BACKEND must be %q or %q, got %q", output.BackendOto, output.BackendMalgo, c.AudioBackend)
	}
	if err := playback.ValidateRate(c.DefaultSpeed); err != nil {
		return fmt.Errorf("SAWT_DEFAULT_SPEED: %w", err)
	}
	if _, err := tts.ParseVoice(c.DefaultVoice); err != nil {
		return fmt.Errorf("SAWT_DEFAULT_VOICE: %w", err)
	}
	if _, err := tts.ParseStyle(c.DefaultStyle); err != nil {
		return fmt.Errorf("SAWT_DEFAULT_STYLE: %w", err)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("SAWT_HTTP_TIMEOUT must be positive, got %v", c.HTTPTimeout)
	}
	if c.RetryAttempts < 1 {
		return fmt.Errorf("SAWT_RETRY_ATTEMPTS must be at least 1, got %d", c.RetryAttempts)
	}
	return nil
}

// RequireAPIKey fails when no speech service key is configured
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required: %w", tts.ErrMissingAPIKey)
	}
	return nil
}

// TTSConfig builds the speech client configuration
func (c *Config) TTSConfig() tts.Config {
	retry := tts.DefaultRetryConfig()
	retry.MaxAttempts = c.RetryAttempts
	retry.InitialBackoff = c.RetryBackoff

	return tts.Config{
		APIKey:       c.APIKey,
		BaseURL:      c.APIBaseURL,
		SpeechModel:  c.TTSModel,
		RewriteModel: c.RewriteModel,
		Timeout:      c.HTTPTimeout,
		Retry:        retry,
	}
}
