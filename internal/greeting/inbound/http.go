package inbound

import "github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"

func RegisterHTTPEndpoint(r *pkgrouter.Router, message string) {
	end := &HTTPEndpoint{message: message}

	r.GET("/api/data", end.Data)
}
