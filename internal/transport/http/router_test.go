package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"trivia-board-host/internal/app"
)

func TestExportImportEndpoints(t *testing.T) {
	host := newTestHost(t)
	server := httptest.NewServer(NewRouter(host, quietLogger()))
	defer server.Close()

	resp, err := http.Get(server.URL + "/export/categories")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	exported, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export status %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), app.CategoriesFileName) {
		t.Fatalf("unexpected disposition %q", resp.Header.Get("Content-Disposition"))
	}

	resp, err = http.Post(server.URL+"/import/categories", "application/json", bytes.NewReader(exported))
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	var snap app.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || len(snap.Document.Categories) != 2 {
		t.Fatalf("expected merged categories, status=%d", resp.StatusCode)
	}
	if snap.Document.Categories[0].ID == snap.Document.Categories[1].ID {
		t.Fatalf("re-import must not duplicate ids")
	}
}

func TestImportTeamsRejectsBadPayload(t *testing.T) {
	host := newTestHost(t)
	handler := NewRouter(host, quietLogger())

	req := httptest.NewRequest(http.MethodPost, "/import/teams", strings.NewReader(`{"nope": 1}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "invalid import") {
		t.Fatalf("expected invalid import message, got %s", rec.Body.String())
	}
	if len(host.Document().Teams) != 2 {
		t.Fatalf("teams must be unchanged")
	}
}

func TestStateAndHealth(t *testing.T) {
	handler := NewRouter(newTestHost(t), quietLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Body.String() != "ok" {
		t.Fatalf("healthz = %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/state", nil))
	var snap app.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	if snap.Document.Config.Title != "Quiz Title" {
		t.Fatalf("unexpected title %q", snap.Document.Config.Title)
	}
}
