package app

import (
	"time"

	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
)

// EnvPrefix namespaces environment overrides, e.g. HEALTHMON_SERVER_ADDRESS_HTTP.
const EnvPrefix = "HEALTHMON"

// DefaultConfigPath is looked up when no --config flag is given.
const DefaultConfigPath = "./config/config.yaml"

func defaultConfig() map[string]any {
	return map[string]any{
		"tz": "",

		"server.address.http":         "0.0.0.0:5000",
		"server.debug":                true,
		"server.read_header_timeout":  10 * time.Second,
		"server.shutdown_timeout":     10 * time.Second,
		"server.max_background_tasks": 100,
		"server.node_id":              pkguid.RandomNode,

		"cors.allowed_origins":   "*",
		"cors.allow_credentials": false,

		"modules.greeting.enabled": true,
		"modules.greeting.message": "Hello from Flask!",

		"modules.frontend.enabled":          true,
		"modules.frontend.static_dir":       "../frontend/build",
		"modules.frontend.history_fallback": false,

		"modules.heartrate.enabled":            true,
		"modules.heartrate.store.driver":       "file",
		"modules.heartrate.store.path":         "data/data.json",
		"modules.heartrate.store.gc_interval":  5 * time.Minute,
		"modules.heartrate.threshold.low":      60,
		"modules.heartrate.threshold.high":     140,
		"modules.heartrate.alert.workers":      2,
		"modules.heartrate.alert.max_retries":  3,
		"modules.heartrate.alert.base_backoff": 200 * time.Millisecond,
	}
}
