// ABOUTME: Tests for the Gemini REST client
// ABOUTME: Uses httptest servers to check request shape, parsing, and retries
package tts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL + "/",
		Retry:   fastRetry(3),
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func audioResponse(data string) map[string]any {
	return map[string]any{
		"candidates": []any{map[string]any{
			"content": map[string]any{
				"parts": []any{map[string]any{
					"inlineData": map[string]any{"mimeType": "audio/L16;codec=pcm;rate=24000", "data": data},
				}},
			},
		}},
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient(Config{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("NewClient() error = %v, want ErrMissingAPIKey", err)
	}
}

func TestSynthesizeRequest(t *testing.T) {
	var got generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1beta/models/"+DefaultSpeechModel+":generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("api key header = %q", r.Header.Get("x-goog-api-key"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, audioResponse("AAA="))
	})

	payload, err := c.Synthesize(context.Background(), Request{Text: "مرحبا", Voice: VoiceShadi, Style: StyleDocumentary})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if payload != "AAA=" {
		t.Errorf("payload = %q, want AAA=", payload)
	}

	if len(got.Contents) != 1 || len(got.Contents[0].Parts) != 1 {
		t.Fatalf("contents = %+v", got.Contents)
	}
	if want := "قل بأسلوب راوي وثائقي: مرحبا"; got.Contents[0].Parts[0].Text != want {
		t.Errorf("prompt = %q, want %q", got.Contents[0].Parts[0].Text, want)
	}
	gc := got.GenerationConfig
	if gc == nil || len(gc.ResponseModalities) != 1 || gc.ResponseModalities[0] != "AUDIO" {
		t.Fatalf("generationConfig = %+v", gc)
	}
	if gc.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Charon" {
		t.Errorf("voice = %q, want Charon", gc.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
	}
}

func TestSynthesizeValidation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent for invalid input")
	})

	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"empty text", Request{Text: "  ", Voice: VoiceKarim, Style: StyleNatural}, ErrEmptyText},
		{"unknown voice", Request{Text: "x", Voice: "Kore", Style: StyleNatural}, ErrUnknownVoice},
		{"unknown style", Request{Text: "x", Voice: VoiceKarim, Style: "loud"}, ErrUnknownStyle},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := c.Synthesize(context.Background(), tt.req); !errors.Is(err, tt.want) {
				t.Errorf("Synthesize() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestSynthesizeNoAudio(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"candidates": []any{}})
	})

	_, err := c.Synthesize(context.Background(), Request{Text: "x", Voice: VoiceKarim, Style: StyleNatural})
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("Synthesize() error = %v, want ErrNoAudio", err)
	}
}

func TestSynthesizeRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		writeJSON(t, w, audioResponse("AAA="))
	})

	if _, err := c.Synthesize(context.Background(), Request{Text: "x", Voice: VoiceKarim, Style: StyleNatural}); err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestSynthesizeClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad key", http.StatusUnauthorized)
	})

	_, err := c.Synthesize(context.Background(), Request{Text: "x", Voice: VoiceKarim, Style: StyleNatural})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("Synthesize() error = %v, want APIError 401", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestSynthesizeRateLimitExhausted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	})

	_, err := c.Synthesize(context.Background(), Request{Text: "x", Voice: VoiceKarim, Style: StyleNatural})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Synthesize() error = %v, want APIError 429", err)
	}
}

func TestRewrite(t *testing.T) {
	var got generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1beta/models/"+DefaultRewriteModel+":generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		writeJSON(t, w, map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{"parts": []any{
					map[string]any{"text": " نص "},
					map[string]any{"text": "جديد\n"},
				}},
			}},
		})
	})

	out, err := c.Rewrite(context.Background(), "نص قديم", StyleHistorical)
	if err != nil {
		t.Fatalf("Rewrite() error = %v", err)
	}
	if out != "نص جديد" {
		t.Errorf("Rewrite() = %q, want %q", out, "نص جديد")
	}
	if got.GenerationConfig != nil {
		t.Errorf("rewrite sent generationConfig %+v", got.GenerationConfig)
	}
	if got.Contents[0].Parts[0].Text != RewritePrompt("نص قديم", StyleHistorical) {
		t.Errorf("prompt = %q", got.Contents[0].Parts[0].Text)
	}
}

func TestRewriteNoText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{"candidates": []any{}})
	})

	if _, err := c.Rewrite(context.Background(), "x", StyleNatural); !errors.Is(err, ErrNoText) {
		t.Errorf("Rewrite() error = %v, want ErrNoText", err)
	}
}
