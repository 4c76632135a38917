package inbound

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/shandysiswandi/healthmon/internal/frontend/asset"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgerror"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	bundle          *asset.Bundle
	router          *pkgrouter.Router
	historyFallback bool
}

func (h *HTTPEndpoint) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, asset.IndexFile)
}

func (h *HTTPEndpoint) Static(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		h.router.WriteError(r.Context(), w, pkgerror.NewNotFound("endpoint not found"))
		return
	}

	if r.URL.Path == "/api" || strings.HasPrefix(r.URL.Path, "/api/") {
		h.router.WriteError(r.Context(), w, pkgerror.NewNotFound("endpoint not found"))
		return
	}

	name := asset.Clean(r.URL.Path)
	if h.historyFallback && path.Ext(name) == "" && !h.bundle.Exists(name) {
		name = asset.IndexFile
	}

	h.serve(w, r, name)
}

func (h *HTTPEndpoint) serve(w http.ResponseWriter, r *http.Request, name string) {
	a, err := h.bundle.Open(name)
	if err != nil {
		if errors.Is(err, asset.ErrNotFound) {
			slog.DebugContext(r.Context(), "static asset not found", "name", name, "root", h.bundle.Root())
			h.router.WriteError(r.Context(), w, pkgerror.NewNotFound(name+" not found"))
			return
		}
		h.router.WriteError(r.Context(), w, pkgerror.NewServer(err))
		return
	}
	defer func() {
		_ = a.Close()
	}()

	w.Header().Set("Content-Type", a.ContentType)
	if name == asset.IndexFile {
		w.Header().Set("Cache-Control", "no-cache")
	}

	http.ServeContent(w, r, a.Name, a.ModTime, a.Content)
}
