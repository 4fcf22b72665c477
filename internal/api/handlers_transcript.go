package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/joshuasparkes/transcription-to-stories/internal/extract"
	"github.com/joshuasparkes/transcription-to-stories/internal/library"
	"github.com/joshuasparkes/transcription-to-stories/internal/parser"
)

// formTranscript resolves the transcript for a transformation request. The
// form may carry an uploaded "file", the "library" name of a preloaded
// transcript, or pasted "text"; they are tried in that order. On failure it
// writes the error response and returns ok=false.
func (s *Server) formTranscript(w http.ResponseWriter, r *http.Request) (transcript, source string, ok bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		jsonError(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	data, source, ok := s.formDocument(w, r)
	if !ok {
		return "", "", false
	}

	text, err := parser.Transcript(bytes.NewReader(data), source)
	if err != nil {
		jsonError(w, "failed to extract text: "+err.Error(), http.StatusBadRequest)
		return "", "", false
	}
	return text, source, true
}

// formDocument pulls the raw document bytes out of the already-parsed form.
func (s *Server) formDocument(w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	file, header, err := r.FormFile("file")
	switch {
	case err == nil:
		defer file.Close()

		filename := sanitizeFilename(header.Filename)
		if !parser.IsSupportedExtension(filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
			return nil, "", false
		}
		data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return nil, "", false
		}
		if int64(len(data)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		return data, filename, true

	case !errors.Is(err, http.ErrMissingFile):
		jsonError(w, "file is invalid: "+err.Error(), http.StatusBadRequest)
		return nil, "", false
	}

	if name := r.FormValue("library"); name != "" {
		data, err := s.library.Read(name)
		switch {
		case errors.Is(err, library.ErrNotFound):
			jsonError(w, "library file not found: "+name, http.StatusNotFound)
			return nil, "", false
		case errors.Is(err, library.ErrInvalidName):
			jsonError(w, "invalid library file name", http.StatusBadRequest)
			return nil, "", false
		case err != nil:
			jsonError(w, "failed to read library file", http.StatusInternalServerError)
			return nil, "", false
		}
		return data, name, true
	}

	if text := r.FormValue("text"); strings.TrimSpace(text) != "" {
		if int64(len(text)) > s.cfg.MaxUploadBytes {
			jsonError(w, fmt.Sprintf("text exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
			return nil, "", false
		}
		return []byte(text), "pasted.txt", true
	}

	jsonError(w, "file, library, or text is required", http.StatusBadRequest)
	return nil, "", false
}

// handleNormalize returns the cleaned plain-dialogue form of a transcript
// without calling the model.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	transcript, source, ok := s.formTranscript(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename":   source,
		"transcript": transcript,
	})
}

// handleStories extracts the requirements discussed in a transcript as a
// table of user stories.
func (s *Server) handleStories(w http.ResponseWriter, r *http.Request) {
	transcript, _, ok := s.formTranscript(w, r)
	if !ok {
		return
	}

	records, err := s.claude.Stories(r.Context(), transcript)
	if err != nil {
		s.modelError(w, "stories", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"records": records,
		"headers": records.Headers(),
	})
}

// handleQuestion answers a free-form question about a transcript.
func (s *Server) handleQuestion(w http.ResponseWriter, r *http.Request) {
	transcript, _, ok := s.formTranscript(w, r)
	if !ok {
		return
	}

	question := strings.TrimSpace(r.FormValue("question"))
	if question == "" {
		jsonError(w, "question is required", http.StatusBadRequest)
		return
	}

	answer, err := s.claude.Answer(r.Context(), transcript, question)
	if err != nil {
		s.modelError(w, "question", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(answer)
}

// handleRewrite restates a transcript as clean prose.
func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	transcript, _, ok := s.formTranscript(w, r)
	if !ok {
		return
	}

	text, err := s.claude.Rewrite(r.Context(), transcript)
	if err != nil {
		s.modelError(w, "rewrite", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"text": text})
}

// modelError translates a failed model call. Provider-side failures become
// 502 so the browser can tell "try again later" from a bug.
func (s *Server) modelError(w http.ResponseWriter, mode string, err error) {
	var apiErr *extract.APIError
	if errors.As(err, &apiErr) {
		s.log.Error("model call failed", "mode", mode, "upstream_status", apiErr.StatusCode, "error", err)
		jsonError(w, "model provider error", http.StatusBadGateway)
		return
	}
	s.log.Error("model call failed", "mode", mode, "error", err)
	jsonError(w, "model call failed", http.StatusInternalServerError)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
