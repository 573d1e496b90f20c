// ABOUTME: Tests for environment configuration loading
// ABOUTME: Tests defaults, overrides, and validation failures
package config

import (
	"errors"
	"testing"
	"time"

	"github.com/sawtlab/sawt-go/pkg/tts"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}

	if cfg.AudioBackend != "oto" {
		t.Errorf("AudioBackend = %q, want oto", cfg.AudioBackend)
	}
	if cfg.DefaultSpeed != 1.0 {
		t.Errorf("DefaultSpeed = %v, want 1.0", cfg.DefaultSpeed)
	}
	if cfg.HTTPTimeout != 60*time.Second {
		t.Errorf("HTTPTimeout = %v, want 60s", cfg.HTTPTimeout)
	}
	if cfg.TTSModel != tts.DefaultSpeechModel || cfg.RewriteModel != tts.DefaultRewriteModel {
		t.Errorf("models = %q/%q", cfg.TTSModel, cfg.RewriteModel)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "k")
	t.Setenv("SAWT_AUDIO_BACKEND", "malgo")
	t.Setenv("SAWT_DEFAULT_VOICE", "zuhair")
	t.Setenv("SAWT_DEFAULT_SPEED", "1.5")
	t.Setenv("SAWT_RETRY_BACKOFF", "2s")
	t.Setenv("SAWT_RETRY_ATTEMPTS", "5")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.AudioBackend != "malgo" || cfg.DefaultVoice != "zuhair" || cfg.DefaultSpeed != 1.5 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() error = %v", err)
	}

	tc := cfg.TTSConfig()
	if tc.Retry.MaxAttempts != 5 || tc.Retry.InitialBackoff != 2*time.Second {
		t.Errorf("TTSConfig().Retry = %+v", tc.Retry)
	}
	if tc.APIKey != "k" {
		t.Errorf("TTSConfig().APIKey = %q", tc.APIKey)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown backend", "SAWT_AUDIO_BACKEND", "portaudio"},
		{"speed too fast", "SAWT_DEFAULT_SPEED", "2.5"},
		{"speed too slow", "SAWT_DEFAULT_SPEED", "0.25"},
		{"unknown voice", "SAWT_DEFAULT_VOICE", "Kore"},
		{"unknown style", "SAWT_DEFAULT_STYLE", "shouting"},
		{"zero attempts", "SAWT_RETRY_ATTEMPTS", "0"},
		{"unparsable timeout", "SAWT_HTTP_TIMEOUT", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := LoadFromEnv(); err == nil {
				t.Errorf("LoadFromEnv() with %s=%s succeeded", tt.key, tt.value)
			}
		})
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireAPIKey(); !errors.Is(err, tts.ErrMissingAPIKey) {
		t.Errorf("RequireAPIKey() error = %v, want ErrMissingAPIKey", err)
	}
}
