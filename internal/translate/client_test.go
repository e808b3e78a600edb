package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShouldTranslate(t *testing.T) {
	require.True(t, ShouldTranslate("hi", "en"))

	require.False(t, ShouldTranslate("hi", "hi"))
	require.False(t, ShouldTranslate("en", "en"))
	require.False(t, ShouldTranslate("ta", "en"))
	require.False(t, ShouldTranslate("", ""))
}

func TestTranslate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "Hello there.", r.PostForm.Get("q"))
		require.Equal(t, "en", r.PostForm.Get("source"))
		require.Equal(t, "hi", r.PostForm.Get("target"))
		require.Equal(t, "text", r.PostForm.Get("format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translatedText":"नमस्ते।"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	out, err := client.Translate(context.Background(), "Hello there.", "en", "hi")
	require.NoError(t, err)
	require.Equal(t, "नमस्ते।", out)
}

func TestTranslate_NonSuccessStatusIncludesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Translate(context.Background(), "text", "en", "hi")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
	require.Contains(t, err.Error(), "rate limited")
}

func TestTranslate_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Translate(context.Background(), "text", "en", "hi")
	require.Error(t, err)
}

func TestMaybeTranslate_PassThroughMakesNoCall(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"translatedText":"x"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	for _, tc := range []struct{ target, recognized string }{
		{"en", "en"},
		{"hi", "hi"},
		{"ta", "ta"},
		{"ml", "en"},
	} {
		out, err := client.MaybeTranslate(context.Background(), "unchanged", tc.target, tc.recognized)
		require.NoError(t, err)
		require.Equal(t, "unchanged", out)
	}
	require.Equal(t, int64(0), calls.Load())
}

func TestMaybeTranslate_HindiFromEnglishCallsService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		require.Equal(t, "en", r.PostForm.Get("source"))
		require.Equal(t, "hi", r.PostForm.Get("target"))
		_, _ = w.Write([]byte(`{"translatedText":"अनुवादित"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	out, err := client.MaybeTranslate(context.Background(), "Hello there.", "hi", "en")
	require.NoError(t, err)
	require.Equal(t, "अनुवादित", out)
}
