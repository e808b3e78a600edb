package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// HTTPRecognizer talks to a speech-to-text HTTP service. The request is a
// multipart upload of the audio artifact plus a language field; the
// response is JSON {"transcript": "...", "confidence": 0.93}.
type HTTPRecognizer struct {
	baseURL    string
	language   string
	httpClient *http.Client
}

type HTTPOption func(*HTTPRecognizer)

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) HTTPOption {
	return func(r *HTTPRecognizer) {
		r.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) HTTPOption {
	return func(r *HTTPRecognizer) {
		r.httpClient = httpClient
	}
}

// NewHTTPRecognizer creates a recognizer bound to one language code.
func NewHTTPRecognizer(baseURL, language string, opts ...HTTPOption) *HTTPRecognizer {
	r := &HTTPRecognizer{
		baseURL:  baseURL,
		language: language,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewHTTPFactory returns a Factory producing HTTPRecognizers against one
// service endpoint.
func NewHTTPFactory(baseURL string, opts ...HTTPOption) Factory {
	return func(languageCode string) Recognizer {
		return NewHTTPRecognizer(baseURL, languageCode, opts...)
	}
}

func (r *HTTPRecognizer) Transcribe(ctx context.Context, audioPath string) (Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return Result{}, fmt.Errorf("open audio artifact: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return Result{}, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return Result{}, fmt.Errorf("read audio artifact: %w", err)
	}
	if err := mw.WriteField("language", r.language); err != nil {
		return Result{}, err
	}
	if err := mw.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL, &body)
	if err != nil {
		return Result{}, fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("transcribe request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read transcribe response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("transcribe error %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var parsed struct {
		Transcript string   `json:"transcript"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Result{}, fmt.Errorf("parse transcribe response: %w", err)
	}

	result := Result{
		Transcript: parsed.Transcript,
		Confidence: ConfidenceUnknown,
	}
	if parsed.Confidence != nil {
		result.Confidence = *parsed.Confidence
	}
	return result, nil
}
