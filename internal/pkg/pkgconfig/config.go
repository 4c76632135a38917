package pkgconfig

import "time"

// Config is the application's view of configuration.
type Config interface {
	GetInt(key string) int64
	GetBool(key string) bool
	GetString(key string) string
	GetArray(key string) []string
	GetDuration(key string) time.Duration

	// Set overrides a value at runtime (for example from a CLI flag).
	Set(key string, value any)

	// OnChange registers fn to run after the config file is re-read.
	OnChange(fn func())

	Close() error
}
