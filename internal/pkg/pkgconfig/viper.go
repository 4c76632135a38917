package pkgconfig

import (
	"errors"
	"log/slog"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Options tunes how NewViper resolves values.
type Options struct {
	// Defaults are applied before the file and the environment.
	Defaults map[string]any
	// EnvPrefix enables environment overrides, "server.debug" becomes PREFIX_SERVER_DEBUG.
	EnvPrefix string
	// Optional makes a missing config file fall back to defaults instead of failing.
	Optional bool
}

// Viper is a Config implementation backed by github.com/spf13/viper.
type Viper struct {
	v    *viper.Viper
	file string

	mu        sync.Mutex
	listeners []func()
	closed    bool
}

// NewViper loads configuration from pathFile (may be empty) and opts.
//
// The config file type is inferred by Viper from the filename extension.
func NewViper(pathFile string, opts Options) (*Viper, error) {
	v := viper.New()

	for key, value := range opts.Defaults {
		v.SetDefault(key, value)
	}

	if opts.EnvPrefix != "" {
		v.SetEnvPrefix(opts.EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	vc := &Viper{v: v}
	if pathFile == "" {
		return vc, nil
	}

	filename := path.Base(pathFile)
	v.AddConfigPath(path.Dir(pathFile))
	v.SetConfigName(strings.TrimSuffix(filename, path.Ext(filename)))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.Optional && errors.As(err, &notFound) {
			return vc, nil
		}
		return nil, err
	}

	vc.file = v.ConfigFileUsed()
	v.OnConfigChange(vc.changed)
	v.WatchConfig()

	return vc, nil
}

// File returns the config file that was read, empty when running on defaults.
func (vc *Viper) File() string {
	return vc.file
}

// GetInt returns the value for key as int64.
func (vc *Viper) GetInt(key string) int64 {
	return vc.v.GetInt64(key)
}

// GetBool returns the value for key as bool.
func (vc *Viper) GetBool(key string) bool {
	return vc.v.GetBool(key)
}

// GetString returns the value for key as string.
func (vc *Viper) GetString(key string) string {
	return vc.v.GetString(key)
}

// GetDuration returns the value for key parsed as a time.Duration ("10s", "5m").
func (vc *Viper) GetDuration(key string) time.Duration {
	return vc.v.GetDuration(key)
}

// GetArray returns the value for key as a list.
//
// YAML sequences are returned as-is, scalar values are split by commas and
// blank entries dropped, so "*" and "a, b" both work for cors.allowed_origins.
func (vc *Viper) GetArray(key string) []string {
	switch vc.v.Get(key).(type) {
	case []any, []string:
		return vc.v.GetStringSlice(key)
	}

	var out []string
	for _, part := range strings.Split(vc.v.GetString(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Set overrides key for the lifetime of the process.
func (vc *Viper) Set(key string, value any) {
	vc.v.Set(key, value)
}

// OnChange registers fn; it only ever fires when a config file was loaded.
func (vc *Viper) OnChange(fn func()) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.listeners = append(vc.listeners, fn)
}

// Close detaches every OnChange listener.
func (vc *Viper) Close() error {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.closed = true
	vc.listeners = nil
	return nil
}

func (vc *Viper) changed(e fsnotify.Event) {
	vc.mu.Lock()
	if vc.closed {
		vc.mu.Unlock()
		return
	}
	listeners := append([]func(){}, vc.listeners...)
	vc.mu.Unlock()

	slog.Info("config file reloaded", "file", e.Name, "op", e.Op.String())
	for _, fn := range listeners {
		fn()
	}
}
