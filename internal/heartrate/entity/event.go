package entity

// AbnormalReadingEvent is published for every reading outside the thresholds.
type AbnormalReadingEvent struct {
	EventID string
	// CorrelationID ties delivery logs to the request that stored the reading.
	CorrelationID string
	Reading       Reading
	Level         Level
	Thresholds    Thresholds
}
