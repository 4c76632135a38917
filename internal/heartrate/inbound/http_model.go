package inbound

// The dashboard reads these payloads directly, so they are written without
// the standard envelope.

type SeriesResponse struct {
	Timestamps []string `json:"timestamps"`
	HeartRates []int    `json:"heart_rates"`
}

func (SeriesResponse) Enveloped() bool { return false }

type AddResponse struct {
	Timestamp string `json:"timestamp"`
	HeartRate int    `json:"heart_rate"`
}

func (AddResponse) Enveloped() bool { return false }

type Alert struct {
	Timestamp string `json:"timestamp"`
	HeartRate int    `json:"heart_rate"`
	Level     string `json:"level"`
}

type AlertsResponse struct {
	Low      int     `json:"low"`
	High     int     `json:"high"`
	Count    int     `json:"count"`
	Readings []Alert `json:"readings"`
}

func (AlertsResponse) Enveloped() bool { return false }
