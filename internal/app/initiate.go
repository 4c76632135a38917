package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkglog"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgvalidator"
)

func (a *App) initConfig() error {
	path := a.options.ConfigPath
	optional := path == ""
	if optional {
		path = DefaultConfigPath
	}

	cfg, err := pkgconfig.NewViper(path, pkgconfig.Options{
		Defaults:  defaultConfig(),
		EnvPrefix: EnvPrefix,
		Optional:  optional,
	})
	if err != nil {
		return fmt.Errorf("failed to init config: %w", err)
	}

	for key, value := range a.options.Overrides {
		cfg.Set(key, value)
	}

	if tz := cfg.GetString("tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("invalid tz %q: %w", tz, err)
		}
		time.Local = loc
	}

	if cfg.File() == "" {
		slog.Info("no config file found, using defaults", "path", path)
	}

	a.config = cfg
	return nil
}

func (a *App) initLogging() error {
	pkglog.InitLogging(pkglog.Options{Debug: a.config.GetBool("server.debug")})
	return nil
}

func (a *App) initLibraries() error {
	a.goroutine = pkgroutine.NewManager(int(a.config.GetInt("server.max_background_tasks")))
	a.uuid = pkguid.NewUUID()
	a.validator = pkgvalidator.New()

	sf, err := pkguid.NewSnowflake(a.config.GetInt("server.node_id"))
	if err != nil {
		return fmt.Errorf("failed to init snowflake: %w", err)
	}
	a.snowflake = sf

	return nil
}

func (a *App) initHTTPServer() error {
	debug := a.config.GetBool("server.debug")
	a.router = pkgrouter.NewRouter(a.uuid,
		pkgrouter.WithDebug(debug),
		pkgrouter.WithHealthDetails(func() map[string]any {
			return map[string]any{"background_tasks": a.goroutine.Running()}
		}),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("cors.allowed_origins"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{pkgrouter.HeaderCorrelationID},
		AllowCredentials: a.config.GetBool("cors.allow_credentials"),
	})

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: a.config.GetDuration("server.read_header_timeout"),
	}

	if debug {
		slog.Debug("verbose error reporting enabled")
	}

	return nil
}

func (a *App) initClosers() error {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}

	return nil
}
