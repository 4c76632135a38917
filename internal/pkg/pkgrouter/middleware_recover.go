package pkgrouter

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/shandysiswandi/healthmon/internal/pkg/pkgerror"
)

// middlewareRecoverer turns a handler panic into the router's regular 500
// response and logs the frames that belong to this module.
func (r *Router) middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:err113,errorlint // this must compare directly
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			slog.ErrorContext(req.Context(), "panic on the server",
				"because", rvr,
				"stack", internalFrames(debug.Stack()),
			)

			if req.Header.Get("Connection") == "Upgrade" {
				return
			}
			r.errorCodec(req.Context(), w, pkgerror.NewServer(fmt.Errorf("panic: %v", rvr)))
		}()

		next.ServeHTTP(w, req)
	})
}

// internalFrames keeps "internal/<pkg>/<file>.go:<line>" locations from a
// debug.Stack dump, innermost first.
func internalFrames(stack []byte) []string {
	var frames []string
	for _, line := range strings.Split(string(stack), "\n") {
		line = strings.TrimSpace(line)
		idx := strings.Index(line, "/internal/")
		if idx == -1 || !strings.Contains(line, ".go:") {
			continue
		}
		loc := line[idx+1:]
		if end := strings.IndexByte(loc, ' '); end != -1 {
			loc = loc[:end]
		}
		frames = append(frames, loc)
	}
	return frames
}
