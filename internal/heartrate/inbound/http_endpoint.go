package inbound

import (
	"context"
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/healthmon/internal/heartrate/usecase"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) GetData(ctx context.Context, _ *http.Request) (any, error) {
	result, err := h.uc.Series(ctx)
	if err != nil {
		return nil, err
	}

	return SeriesResponse{
		Timestamps: result.Timestamps,
		HeartRates: result.HeartRates,
	}, nil
}

func (h *HTTPEndpoint) AddData(ctx context.Context, _ *http.Request) (any, error) {
	result, err := h.uc.Add(ctx, pkgrouter.GetParam(ctx, "heart_rate"))
	if err != nil {
		return nil, err
	}

	return AddResponse{
		Timestamp: result.Timestamp,
		HeartRate: result.HeartRate,
	}, nil
}

func (h *HTTPEndpoint) Alerts(ctx context.Context, _ *http.Request) (any, error) {
	result, err := h.uc.Alerts(ctx)
	if err != nil {
		return nil, err
	}

	return AlertsResponse{
		Low:   result.Thresholds.Low,
		High:  result.Thresholds.High,
		Count: len(result.Readings),
		Readings: lo.Map(result.Readings, func(a usecase.Alert, _ int) Alert {
			return Alert{Timestamp: a.Timestamp, HeartRate: a.HeartRate, Level: string(a.Level)}
		}),
	}, nil
}
