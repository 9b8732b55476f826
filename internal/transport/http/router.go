package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"trivia-board-host/internal/app"
	"trivia-board-host/internal/domain"
)

const maxImportBytes = 5 << 20

// NewRouter wires the websocket control surface and the export/import endpoints.
func NewRouter(host *app.Host, logger *slog.Logger) http.Handler {
	ws := NewWSHandler(host, logger)
	files := &fileHandler{host: host, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("GET /state", files.state)
	mux.HandleFunc("GET /export/categories", files.exportCategories)
	mux.HandleFunc("GET /export/teams", files.exportTeams)
	mux.HandleFunc("POST /import/categories", files.importCategories)
	mux.HandleFunc("POST /import/teams", files.importTeams)
	return mux
}

type fileHandler struct {
	host   *app.Host
	logger *slog.Logger
}

func (f *fileHandler) state(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, f.host.Snapshot())
}

func (f *fileHandler) exportCategories(w http.ResponseWriter, r *http.Request) {
	f.download(w, app.CategoriesFileName, f.host.ExportCategories)
}

func (f *fileHandler) exportTeams(w http.ResponseWriter, r *http.Request) {
	f.download(w, app.TeamsFileName, f.host.ExportTeams)
}

func (f *fileHandler) download(w http.ResponseWriter, name string, export func() ([]byte, error)) {
	data, err := export()
	if err != nil {
		f.logger.Error("export failed", "file", name, "err", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

func (f *fileHandler) importCategories(w http.ResponseWriter, r *http.Request) {
	f.upload(w, r, f.host.ImportCategories)
}

func (f *fileHandler) importTeams(w http.ResponseWriter, r *http.Request) {
	f.upload(w, r, f.host.ImportTeams)
}

func (f *fileHandler) upload(w http.ResponseWriter, r *http.Request, apply func([]byte) (app.Snapshot, error)) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "error reading file"})
		return
	}
	snap, err := apply(data)
	if errors.Is(err, domain.ErrInvalidImport) {
		f.logger.Info("import rejected", "path", r.URL.Path, "err", err)
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: err.Error()})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
