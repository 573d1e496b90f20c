// ABOUTME: Gemini REST client for speech synthesis and text rewriting
// ABOUTME: Calls generateContent and extracts the inline base64 audio payload
package tts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Defaults for the hosted service
const (
	DefaultBaseURL      = "https://generativelanguage.googleapis.com"
	DefaultSpeechModel  = "gemini-2.5-flash-preview-tts"
	DefaultRewriteModel = "gemini-2.5-pro"
	DefaultTimeout      = 60 * time.Second
)

var (
	ErrMissingAPIKey = errors.New("speech service API key is not configured")
	ErrEmptyText     = errors.New("text is empty")
	ErrNoAudio       = errors.New("no audio data in response")
	ErrNoText        = errors.New("no text in response")
	ErrUnknownVoice  = errors.New("unknown voice")
	ErrUnknownStyle  = errors.New("unknown style")
)

// APIError represents an error response from the service with the HTTP status code preserved.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return fmt.Sprintf("speech service rejected the request: %s", e.Body)
	case http.StatusUnauthorized, http.StatusForbidden:
		return "speech service API key is invalid or lacks access"
	case http.StatusTooManyRequests:
		return "speech service rate limit or quota exceeded, try again later"
	default:
		return fmt.Sprintf("speech service returned status %d: %s", e.StatusCode, e.Body)
	}
}

// Config holds client configuration
type Config struct {
	APIKey       string
	BaseURL      string
	SpeechModel  string
	RewriteModel string
	Timeout      time.Duration
	Retry        RetryConfig

	// HTTPClient overrides the default client; Timeout is ignored when set
	HTTPClient *http.Client
}

// Request describes one speech generation
type Request struct {
	Text  string
	Voice Voice
	Style Style

	// ID correlates log lines; optional
	ID string
}

// Client calls the speech service
type Client struct {
	config Config
	client *http.Client
}

// NewClient creates a client, filling unset fields with defaults
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.SpeechModel == "" {
		cfg.SpeechModel = DefaultSpeechModel
	}
	if cfg.RewriteModel == "" {
		cfg.RewriteModel = DefaultRewriteModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Retry.MaxAttempts == 0 {
		cfg.Retry = DefaultRetryConfig()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{config: cfg, client: httpClient}, nil
}

// Wire types for generateContent

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Synthesize generates speech and returns the base64 PCM payload
func (c *Client) Synthesize(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.Text) == "" {
		return "", ErrEmptyText
	}
	if _, err := ParseVoice(string(req.Voice)); err != nil {
		return "", err
	}
	if _, err := ParseStyle(string(req.Style)); err != nil {
		return "", err
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: SpeechPrompt(req.Text, req.Style)}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: req.Voice.APIName()},
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.generate(ctx, c.config.SpeechModel, body)
	if err != nil {
		return "", err
	}

	payload := firstInlineData(resp)
	if payload == "" {
		return "", ErrNoAudio
	}

	log.Debug().
		Str("request_id", req.ID).
		Str("voice", string(req.Voice)).
		Str("style", string(req.Style)).
		Int("payload_len", len(payload)).
		Dur("elapsed", time.Since(start)).
		Msg("Speech generated")
	return payload, nil
}

// Rewrite restates text in the given style
func (c *Client) Rewrite(ctx context.Context, text string, style Style) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyText
	}
	if _, err := ParseStyle(string(style)); err != nil {
		return "", err
	}

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: RewritePrompt(text, style)}}}},
	}

	resp, err := c.generate(ctx, c.config.RewriteModel, body)
	if err != nil {
		return "", err
	}

	out := strings.TrimSpace(joinText(resp))
	if out == "" {
		return "", ErrNoText
	}
	return out, nil
}

// generate posts one generateContent call with retries
func (c *Client) generate(ctx context.Context, model string, body generateRequest) (*generateResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.config.BaseURL, model)

	var out *generateResponse
	err = withRetry(ctx, c.config.Retry, model, func() error {
		resp, err := c.post(ctx, url, payload)
		if err != nil {
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, url string, payload []byte) (*generateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, retryable(fmt.Errorf("speech service request failed: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
		if retryableStatus(resp.StatusCode) {
			return nil, retryable(apiErr)
		}
		return nil, apiErr
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

func firstInlineData(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].InlineData == nil {
		return ""
	}
	return parts[0].InlineData.Data
}

func joinText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}
