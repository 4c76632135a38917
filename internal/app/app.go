package app

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/healthmon/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkglog"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgvalidator"
)

// Options controls how New resolves configuration.
type Options struct {
	// ConfigPath points at an optional YAML file; empty means DefaultConfigPath.
	ConfigPath string
	// Overrides win over every other config source (CLI flags).
	Overrides map[string]any
}

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	options Options
	config  pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	goroutine *pkgroutine.Manager
	validator *pkgvalidator.Validator

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New(opts Options) (*App, error) {
	pkglog.InitLogging(pkglog.Options{})

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:     ctx,
		cancel:  cancel,
		options: opts,
	}

	steps := []func() error{
		app.initConfig,
		app.initLogging,
		app.initLibraries,
		app.initHTTPServer,
		app.initModules,
		app.initClosers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			app.abort()
			return nil, err
		}
	}

	return app, nil
}

// Handler returns the fully wrapped HTTP handler (CORS included).
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Addr is the listen address of the HTTP server.
func (a *App) Addr() string {
	return a.httpServer.Addr
}

func (a *App) abort() {
	a.cancel()
	for _, closer := range a.closerFn {
		_ = closer(context.Background())
	}
}
