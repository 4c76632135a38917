package entity

type Level string

const (
	LevelNormal Level = "NORMAL"
	LevelLow    Level = "LOW"
	LevelHigh   Level = "HIGH"
)

// Thresholds bound the normal heart rate range, both ends inclusive.
type Thresholds struct {
	Low  int `json:"low" validate:"gte=1"`
	High int `json:"high" validate:"gtfield=Low"`
}

func (t Thresholds) Classify(heartRate int) Level {
	switch {
	case heartRate < t.Low:
		return LevelLow
	case heartRate > t.High:
		return LevelHigh
	default:
		return LevelNormal
	}
}

func (t Thresholds) IsAbnormal(heartRate int) bool {
	return t.Classify(heartRate) != LevelNormal
}
