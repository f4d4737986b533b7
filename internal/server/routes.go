package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lazypower/cmv/internal/estimate"
	"github.com/lazypower/cmv/internal/trim"
)

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	snaps, err := s.db.ListSnapshots(r.URL.Query().Get("project"), limit)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"snapshots": snaps,
		"count":     len(snaps),
	})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.db.GetSnapshot(chi.URLParam(r, "snapshotID"))
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
		return
	}

	children, err := s.db.Children(snap.ID)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"snapshot": snap,
		"children": children,
	})
}

// handleTrim runs a dry trim against a transcript path and reports what a
// real run would do. Nothing is written anywhere.
func (s *Server) handleTrim(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path      string `json:"path"`
		Threshold int    `json:"threshold"`
		Model     string `json:"model"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid json"}`, http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		http.Error(w, `{"error":"path required"}`, http.StatusBadRequest)
		return
	}
	if req.Model == "" {
		req.Model = "sonnet"
	}

	f, err := os.Open(req.Path)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusNotFound)
		return
	}
	defer f.Close()

	m, err := trim.Trim(f, io.Discard, trim.Options{Threshold: req.Threshold})
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusInternalServerError)
		return
	}

	proj, err := estimate.Project(m, req.Model)
	if err != nil {
		http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"metrics":    m,
		"projection": proj,
	})
}
