package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/language"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/internal/pipeline"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/file"
	"github.com/ASHUTOSH-A-49/live-video-caption-generator/pkg/log"
)

// maxUploadBytes caps one uploaded media file.
const maxUploadBytes = 1 << 30

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "No file")
		return
	}

	upload, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file")
		return
	}
	defer upload.Close()

	if header.Filename == "" {
		writeError(w, http.StatusBadRequest, "No file selected")
		return
	}

	filename := file.SanitizeName(header.Filename)
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, upload); err != nil {
		_ = os.Remove(path)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info("Saved upload %s (%d bytes)", path, header.Size)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"path":     path,
		"filename": filename,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	payload := map[string]any{
		"status":   "ok",
		"sessions": s.hub.Len(),
	}
	if s.janitor != nil {
		if info, err := s.janitor.TriggerInfo(); err == nil {
			payload["next_cleanup"] = info.Next
		}
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	codes := language.Supported()
	ret := make([]map[string]string, 0, len(codes))
	for _, code := range codes {
		ret = append(ret, map[string]string{
			"code": code,
			"name": language.DisplayName(code),
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

type transcribeRequest struct {
	SessionID string `json:"session_id"`
	VideoPath string `json:"video_path"`
	Lang      string `json:"lang"`
}

func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req transcribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.VideoPath == "" {
		writeError(w, http.StatusBadRequest, "video_path is required")
		return
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		writeError(w, http.StatusBadRequest, "video_path does not exist")
		return
	}

	job := pipeline.NewJob(req.SessionID, req.VideoPath, pipeline.SourceUpload, req.Lang)
	s.dispatcher.Dispatch(job)

	log.Info("Accepted transcription job %s for session %s", job.ID, job.SessionID)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id": job.ID,
	})
}

type youtubeRequest struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
	Lang      string `json:"lang"`
}

func (s *Server) handleYouTube(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req youtubeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	job := pipeline.NewJob(req.SessionID, req.URL, pipeline.SourceYouTube, req.Lang)
	s.dispatcher.Dispatch(job)

	log.Info("Accepted YouTube job %s for session %s", job.ID, job.SessionID)
	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id": job.ID,
	})
}
