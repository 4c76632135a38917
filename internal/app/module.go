package app

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/healthmon/internal/frontend"
	"github.com/shandysiswandi/healthmon/internal/greeting"
	"github.com/shandysiswandi/healthmon/internal/heartrate"
)

func (a *App) initModules() error {
	if a.config.GetBool("modules.greeting.enabled") {
		if err := greeting.New(greeting.Dependency{
			Config: a.config,
			Router: a.router,
		}); err != nil {
			return fmt.Errorf("failed to init module greeting: %w", err)
		}
	}

	if a.config.GetBool("modules.heartrate.enabled") {
		closer, err := heartrate.New(heartrate.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			NumberID:  a.snowflake,
			Validator: a.validator,
		})
		if err != nil {
			return fmt.Errorf("failed to init module heartrate: %w", err)
		}
		if closer != nil {
			a.addCloser("Heartrate", closer)
		}
	}

	if a.config.GetBool("modules.frontend.enabled") {
		if err := frontend.New(frontend.Dependency{
			Config: a.config,
			Router: a.router,
		}); err != nil {
			return fmt.Errorf("failed to init module frontend: %w", err)
		}
	}

	return nil
}

func (a *App) addCloser(name string, fn func(context.Context) error) {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}
	a.closerFn[name] = fn
}
