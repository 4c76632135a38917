package inbound

import (
	"context"
	"net/http"
)

type HTTPEndpoint struct {
	message string
}

func (h *HTTPEndpoint) Data(context.Context, *http.Request) (any, error) {
	return DataResponse{Message: h.message}, nil
}
