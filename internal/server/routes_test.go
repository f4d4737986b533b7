package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lazypower/cmv/internal/store"
)

func testServer(t *testing.T) (*Server, *store.DB) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db, "test"), db
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["status"] != "ok" {
		t.Errorf("status = %v, want ok", resp["status"])
	}
	if resp["version"] != "test" {
		t.Errorf("version = %v, want test", resp["version"])
	}
}

func TestListSnapshots(t *testing.T) {
	srv, db := testServer(t)

	for i := 0; i < 3; i++ {
		snap := &store.Snapshot{
			ID:        fmt.Sprintf("snap-%04d", i),
			SessionID: fmt.Sprintf("sess-%d", i),
			Project:   "/work/app",
			Path:      fmt.Sprintf("/tmp/snap-%d.jsonl", i),
		}
		if err := db.SaveSnapshot(snap); err != nil {
			t.Fatalf("SaveSnapshot: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/api/snapshots", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Count int `json:"count"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Count != 3 {
		t.Errorf("count = %d, want 3", resp.Count)
	}
}

func TestGetSnapshotNotFound(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("GET", "/api/snapshots/nope", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestTrimDryRun(t *testing.T) {
	srv, _ := testServer(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "session.jsonl")
	content := `{"type":"user","message":{"role":"user","content":"hello"}}
{"type":"file-history-snapshot","messageId":"fh-1","snapshot":{}}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	body := fmt.Sprintf(`{"path":%q}`, path)
	req := httptest.NewRequest("POST", "/api/trim", strings.NewReader(body))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Metrics struct {
			FileHistoryRemoved int `json:"fileHistoryRemoved"`
		} `json:"metrics"`
		Projection struct {
			Model string `json:"model"`
		} `json:"projection"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Metrics.FileHistoryRemoved != 1 {
		t.Errorf("fileHistoryRemoved = %d, want 1", resp.Metrics.FileHistoryRemoved)
	}
	if resp.Projection.Model == "" {
		t.Error("projection missing from response")
	}
}

func TestTrimMissingPath(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest("POST", "/api/trim", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
