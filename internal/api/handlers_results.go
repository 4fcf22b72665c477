package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/joshuasparkes/transcription-to-stories/internal/results"
)

// exportRequest carries the records shown in the browser plus the indices
// of the checked rows. Records come back as raw JSON so field order
// survives the round trip.
type exportRequest struct {
	Records   json.RawMessage `json:"records"`
	Selection []int           `json:"selection"`
}

// handleExport renders the selected records as TSV. An empty selection
// exports every row; no records at all is 204.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 4<<20)

	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	records := results.Decode(req.Records)
	if len(records) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	sel := results.NewSelection()
	for _, i := range req.Selection {
		sel.Add(i)
	}

	w.Header().Set("Content-Type", "text/tab-separated-values; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="stories.tsv"`)
	io.WriteString(w, records.TSV(sel))
}
