package pkgrouter

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgerror"
)

// Handler is the application-style handler used by this router.
//
// It returns a response payload (that will be JSON encoded) or an error.
type Handler func(ctx context.Context, r *http.Request) (any, error)

// Option customizes a Router built by NewRouter.
type Option func(*Router)

// WithDebug makes error responses carry the underlying cause.
func WithDebug(debug bool) Option {
	return func(r *Router) {
		r.debug = debug
	}
}

// WithLogMask replaces DefaultLogMask for the request log.
func WithLogMask(keys ...string) Option {
	return func(r *Router) {
		r.mask = newMasker(keys...)
	}
}

// WithHealthDetails adds fn's result under "data" in the /health response.
func WithHealthDetails(fn func() map[string]any) Option {
	return func(r *Router) {
		r.health = fn
	}
}

// Router is an http.Handler that wraps httprouter and a middleware chain.
type Router struct {
	hr         *httprouter.Router
	errorCodec func(ctx context.Context, w http.ResponseWriter, err error)
	encoder    func(ctx context.Context, w http.ResponseWriter, resp any)
	mws        []Middleware
	mask       masker
	health     func() map[string]any
	debug      bool
}

// NewRouter builds the default application router with standard middleware.
func NewRouter(uuid Generator, opts ...Option) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
	}

	ro := &Router{hr: hr, mask: newMasker(DefaultLogMask...)}
	for _, opt := range opts {
		opt(ro)
	}
	ro.mws = []Middleware{
		ro.middlewareRecoverer,
		middlewareCorrelationID(uuid),
		middlewareLogging(ro.mask),
	}

	ro.errorCodec = func(ctx context.Context, w http.ResponseWriter, err error) {
		gerr, ok := pkgerror.As(err)
		if !ok {
			slog.ErrorContext(ctx, "unhandled error", "error", err)
			errResp := errorResponse{Message: "Internal server error"}
			if ro.debug {
				errResp.Error = map[string]string{"detail": err.Error()}
			}
			writeJSON(w, errResp, http.StatusInternalServerError)
			return
		}

		errResp := errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}
		if gerr.Type() == pkgerror.TypeServer {
			slog.ErrorContext(ctx, "server error", "error", gerr.String())
			if ro.debug && gerr.Unwrap() != nil {
				errResp.Error = map[string]string{"detail": gerr.Unwrap().Error()}
			}
		}

		writeJSON(w, errResp, gerr.StatusCode())
	}

	ro.encoder = func(ctx context.Context, w http.ResponseWriter, resp any) {
		code := http.StatusOK
		if sc, ok := resp.(interface {
			StatusCode() int
		}); ok {
			code = sc.StatusCode()
		}

		if code == http.StatusNoContent || resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if e, ok := resp.(interface {
			Enveloped() bool
		}); ok && !e.Enveloped() {
			writeJSON(w, resp, code)
			return
		}

		msg := "request has been successfully"
		if m, ok := resp.(interface {
			Message() string
		}); ok {
			msg = m.Message()
		}

		var meta map[string]any
		if m, ok := resp.(interface {
			Meta() map[string]any
		}); ok {
			meta = m.Meta()
		}

		writeJSON(w, successReponse{
			Message: msg,
			Data:    resp,
			Meta:    meta,
		}, code)
	}

	ro.NotFound(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ro.errorCodec(req.Context(), w, pkgerror.NewNotFound("endpoint not found"))
	}))
	hr.MethodNotAllowed = ro.chain("", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ro.errorCodec(req.Context(), w, pkgerror.NewMethodNotAllowed(req.Method))
	}))

	ro.Handle(http.MethodGet, "/health", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		resp := successReponse{Message: "server is running well"}
		if ro.health != nil {
			resp.Data = ro.health()
		}
		writeJSON(w, resp, http.StatusOK)
	}))

	return ro
}

// Use appends middleware to the existing middleware stack.
func (r *Router) Use(mws ...Middleware) {
	r.mws = append(r.mws, mws...)
}

// NotFound replaces the handler used when no route matches.
//
// The handler runs behind the standard middleware stack.
func (r *Router) NotFound(h http.Handler) {
	r.hr.NotFound = r.chain("", h)
}

// Debug reports whether verbose error reporting is enabled.
func (r *Router) Debug() bool {
	return r.debug
}

// GET registers a GET endpoint using the application Handler signature.
// HEAD is answered by the same handler.
func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodGet, path, h, mws...)
	r.endpoint(http.MethodHead, path, h, mws...)
}

// POST registers a POST endpoint using the application Handler signature.
func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPost, path, h, mws...)
}

// PUT registers a PUT endpoint using the application Handler signature.
func (r *Router) PUT(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPut, path, h, mws...)
}

// PATCH registers a PATCH endpoint using the application Handler signature.
func (r *Router) PATCH(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodPatch, path, h, mws...)
}

// DELETE registers a DELETE endpoint using the application Handler signature.
func (r *Router) DELETE(path string, h Handler, mws ...Middleware) {
	r.endpoint(http.MethodDelete, path, h, mws...)
}

// Handle registers a raw http.Handler with the router.
func (r *Router) Handle(method, path string, h http.Handler, mws ...Middleware) {
	r.hr.Handler(method, path, r.chain(path, h, mws...))
}

// WriteError encodes err the same way endpoint handlers do.
//
// Raw handlers registered with Handle use it to keep error bodies consistent.
func (r *Router) WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	r.errorCodec(ctx, w, err)
}

func (r *Router) endpoint(method, path string, h Handler, mws ...Middleware) {
	r.Handle(method, path, http.HandlerFunc(func(w http.ResponseWriter, re *http.Request) {
		resp, err := h(re.Context(), re)
		if err != nil {
			r.errorCodec(re.Context(), w, err)
			return
		}
		r.encoder(re.Context(), w, resp)
	}), mws...)
}

func (r *Router) chain(path string, h http.Handler, mws ...Middleware) http.Handler {
	all := make([]Middleware, 0, len(r.mws)+len(mws)+1)
	if path != "" {
		all = append(all, middlewareRoute(path))
	}
	all = append(all, r.mws...)
	all = append(all, mws...)
	return Chain(h, all...)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

type errorResponse struct {
	Message string            `json:"message"`
	Error   map[string]string `json:"error,omitempty"`
}

type successReponse struct {
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		slog.Error("server: failed to encode data to json", "error", err)
	}
}
