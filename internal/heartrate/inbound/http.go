package inbound

import (
	"context"

	"github.com/shandysiswandi/healthmon/internal/heartrate/usecase"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
)

type uc interface {
	Series(ctx context.Context) (usecase.SeriesResult, error)
	Add(ctx context.Context, rawHeartRate string) (usecase.AddResult, error)
	Alerts(ctx context.Context) (usecase.AlertsResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.GET("/api/get_data", end.GetData)

	// GET is what the dashboard and sensors call; POST is accepted as well.
	r.GET("/api/add_data/:heart_rate", end.AddData)
	r.POST("/api/add_data/:heart_rate", end.AddData)

	r.GET("/api/alerts", end.Alerts)
}
