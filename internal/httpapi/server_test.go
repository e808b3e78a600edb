package httpapi

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/events"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/janitor"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/pipeline"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	jobs []pipeline.Job
}

func (f *fakeDispatcher) Dispatch(job pipeline.Job) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, job)
}

func (f *fakeDispatcher) dispatched() []pipeline.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pipeline.Job(nil), f.jobs...)
}

func newTestServer(t *testing.T) (*Server, *fakeDispatcher, string) {
	t.Helper()
	uploadDir := t.TempDir()
	dispatcher := &fakeDispatcher{}
	srv := NewServer(uploadDir, events.NewHub(), dispatcher)
	return srv, dispatcher, uploadDir
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUpload_SavesFile(t *testing.T) {
	srv, _, uploadDir := newTestServer(t)

	body, contentType := multipartBody(t, "file", "my lecture.mp4", "fake video bytes")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success  bool   `json:"success"`
		Path     string `json:"path"`
		Filename string `json:"filename"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "my_lecture.mp4", resp.Filename)
	require.Equal(t, filepath.Join(uploadDir, "my_lecture.mp4"), resp.Path)

	saved, err := os.ReadFile(resp.Path)
	require.NoError(t, err)
	require.Equal(t, "fake video bytes", string(saved))
}

func TestUpload_MissingFileField(t *testing.T) {
	srv, _, _ := newTestServer(t)

	body, contentType := multipartBody(t, "other", "x.mp4", "data")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_RejectsGet(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/upload", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	uploadDir := t.TempDir()
	j := janitor.New("*/30 * * * *", time.Hour, uploadDir)
	srv := NewServer(uploadDir, events.NewHub(), &fakeDispatcher{}, WithJanitor(j))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp["status"])
	require.Contains(t, resp, "next_cleanup")
}

func TestLanguages(t *testing.T) {
	srv, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/languages", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 7)
	require.Equal(t, "bn", resp[0]["code"])
}

func TestTranscribe_DispatchesJob(t *testing.T) {
	srv, dispatcher, uploadDir := newTestServer(t)

	videoPath := filepath.Join(uploadDir, "video.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("v"), 0o644))

	payload, err := json.Marshal(map[string]string{
		"session_id": "sess-1",
		"video_path": videoPath,
		"lang":       "hi",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	jobs := dispatcher.dispatched()
	require.Len(t, jobs, 1)
	require.Equal(t, "sess-1", jobs[0].SessionID)
	require.Equal(t, videoPath, jobs[0].MediaRef)
	require.Equal(t, pipeline.SourceUpload, jobs[0].Kind)
	require.Equal(t, "hi", jobs[0].TargetLang)
}

func TestTranscribe_MissingVideoPath(t *testing.T) {
	srv, dispatcher, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/transcribe",
		bytes.NewReader([]byte(`{"session_id":"sess-1"}`)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, dispatcher.dispatched())
}

func TestTranscribe_NonexistentVideoPath(t *testing.T) {
	srv, dispatcher, _ := newTestServer(t)

	payload := []byte(`{"session_id":"sess-1","video_path":"/nope/missing.mp4"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/transcribe", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, dispatcher.dispatched())
}

func TestYouTube_DispatchesJobWithDefaultLang(t *testing.T) {
	srv, dispatcher, _ := newTestServer(t)

	payload := []byte(`{"session_id":"sess-1","url":"https://youtu.be/abc"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/youtube", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	jobs := dispatcher.dispatched()
	require.Len(t, jobs, 1)
	require.Equal(t, pipeline.SourceYouTube, jobs[0].Kind)
	require.Equal(t, "https://youtu.be/abc", jobs[0].MediaRef)
	require.Equal(t, "en", jobs[0].TargetLang)
}

func TestYouTube_MissingURL(t *testing.T) {
	srv, dispatcher, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/youtube",
		bytes.NewReader([]byte(`{"session_id":"sess-1"}`)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, dispatcher.dispatched())
}
