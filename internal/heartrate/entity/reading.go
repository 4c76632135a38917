package entity

import "time"

// TimestampLayout is the wire format of reading timestamps, in server local time.
const TimestampLayout = "2006-01-02T15:04:05"

type Reading struct {
	ID        int64
	Timestamp time.Time
	HeartRate int
}

func (r Reading) FormattedTimestamp() string {
	return r.Timestamp.Format(TimestampLayout)
}

// ParseTimestamp accepts TimestampLayout (local time) and RFC 3339.
func ParseTimestamp(value string) (time.Time, error) {
	ts, err := time.ParseInLocation(TimestampLayout, value, time.Local)
	if err == nil {
		return ts, nil
	}

	return time.Parse(time.RFC3339, value)
}
