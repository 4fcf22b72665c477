package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/joshuasparkes/transcription-to-stories/internal/library"
	"github.com/joshuasparkes/transcription-to-stories/internal/parser"
)

// handleLibrary lists the preloaded transcripts.
func (s *Server) handleLibrary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"files": s.library.List(),
	})
}

// handleLibraryFile returns one library transcript in its normalized form.
func (s *Server) handleLibraryFile(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	data, err := s.library.Read(name)
	switch {
	case errors.Is(err, library.ErrNotFound):
		jsonError(w, "library file not found: "+name, http.StatusNotFound)
		return
	case errors.Is(err, library.ErrInvalidName):
		jsonError(w, "invalid library file name", http.StatusBadRequest)
		return
	case err != nil:
		jsonError(w, "failed to read library file", http.StatusInternalServerError)
		return
	}

	transcript, err := parser.Transcript(bytes.NewReader(data), name)
	if err != nil {
		jsonError(w, "failed to extract text: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":       name,
		"transcript": transcript,
	})
}
