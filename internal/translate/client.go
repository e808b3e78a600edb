// Package translate wraps the LibreTranslate HTTP API and the decision of
// whether a caption needs translating at all.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a thin LibreTranslate client. It holds no per-request state and
// is safe for concurrent use; construct one per process and share it.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ShouldTranslate reports whether a caption must be routed through the
// translation service: only when the client asked for Hindi and the
// recognizer ran in English.
func ShouldTranslate(targetLang, recognizedLang string) bool {
	return targetLang == "hi" && recognizedLang == "en"
}

// MaybeTranslate returns text unchanged unless ShouldTranslate holds, in
// which case it calls the translation service.
func (c *Client) MaybeTranslate(ctx context.Context, text, targetLang, recognizedLang string) (string, error) {
	if !ShouldTranslate(targetLang, recognizedLang) {
		return text, nil
	}
	return c.Translate(ctx, text, recognizedLang, targetLang)
}

// Translate sends text to the translation service and returns the
// translated text. A non-200 status or a malformed body is an error.
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	form := url.Values{
		"q":      {text},
		"source": {sourceLang},
		"target": {targetLang},
		"format": {"text"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read translate response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parse translate response: %w", err)
	}

	return parsed.TranslatedText, nil
}
