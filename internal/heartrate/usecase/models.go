package usecase

import "github.com/shandysiswandi/healthmon/internal/heartrate/entity"

// SeriesResult holds readings as two parallel columns, oldest first.
type SeriesResult struct {
	Timestamps []string
	HeartRates []int
}

type AddResult struct {
	Timestamp string
	HeartRate int
}

type Alert struct {
	Timestamp string
	HeartRate int
	Level     entity.Level
}

type AlertsResult struct {
	Thresholds entity.Thresholds
	Readings   []Alert
}
