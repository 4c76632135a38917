package inbound

import (
	"net/http"

	"github.com/shandysiswandi/healthmon/internal/frontend/asset"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
)

type Options struct {
	// HistoryFallback serves index.html for unknown extension-less paths.
	HistoryFallback bool
}

// RegisterHTTPEndpoint mounts the entry document on "/" and makes every
// other unmatched GET/HEAD path resolve against the bundle.
func RegisterHTTPEndpoint(r *pkgrouter.Router, bundle *asset.Bundle, opts Options) {
	end := &HTTPEndpoint{
		bundle:          bundle,
		router:          r,
		historyFallback: opts.HistoryFallback,
	}

	r.Handle(http.MethodGet, "/", http.HandlerFunc(end.Index))
	r.Handle(http.MethodHead, "/", http.HandlerFunc(end.Index))

	r.NotFound(http.HandlerFunc(end.Static))
}
