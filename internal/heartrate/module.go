package heartrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
	"github.com/shandysiswandi/healthmon/internal/heartrate/event"
	"github.com/shandysiswandi/healthmon/internal/heartrate/inbound"
	"github.com/shandysiswandi/healthmon/internal/heartrate/store"
	"github.com/shandysiswandi/healthmon/internal/heartrate/usecase"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgerror"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgvalidator"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	NumberID  pkguid.NumberID
	Validator *pkgvalidator.Validator
}

func New(dep Dependency) (func(context.Context) error, error) {
	if dep.Validator == nil {
		dep.Validator = pkgvalidator.New()
	}
	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}
	if dep.Context == nil {
		dep.Context = context.Background()
	}

	thresholds := func() entity.Thresholds {
		return entity.Thresholds{
			Low:  int(dep.Config.GetInt("modules.heartrate.threshold.low")),
			High: int(dep.Config.GetInt("modules.heartrate.threshold.high")),
		}
	}
	if err := dep.Validator.Struct(thresholds(), "invalid heart rate thresholds"); err != nil {
		return nil, configError(err)
	}

	storeCfg := store.Config{
		Driver: dep.Config.GetString("modules.heartrate.store.driver"),
		Path:   dep.Config.GetString("modules.heartrate.store.path"),
	}
	if err := dep.Validator.Struct(storeCfg, "invalid heart rate store config"); err != nil {
		return nil, configError(err)
	}

	if storeCfg.Driver == store.DriverBadger && dep.NumberID == nil {
		return nil, errors.New("badger store requires a numeric id generator")
	}

	storage, err := store.Open(storeCfg)
	if err != nil {
		return nil, err
	}
	slog.Info("heart rate store opened", "driver", storeCfg.Driver, "path", storeCfg.Path)

	if bs, ok := storage.(*store.BadgerStore); ok && dep.Goroutine != nil {
		dep.Goroutine.Every(dep.Context, "badger-value-log-gc",
			dep.Config.GetDuration("modules.heartrate.store.gc_interval"), bs.CollectGarbage)
	}

	bus := event.NewBus(512)
	consumer := event.NewAlertConsumer(bus, event.LogNotifier{}, event.ConsumerConfig{
		Workers:     int(dep.Config.GetInt("modules.heartrate.alert.workers")),
		MaxRetries:  int(dep.Config.GetInt("modules.heartrate.alert.max_retries")),
		BaseBackoff: dep.Config.GetDuration("modules.heartrate.alert.base_backoff"),
	})
	consumer.Start()

	uc := usecase.New(usecase.Dependency{
		Store:      storage,
		Events:     bus,
		ReadingID:  dep.NumberID,
		EventID:    dep.ID,
		Validator:  dep.Validator,
		Thresholds: thresholds(),
	})

	dep.Config.OnChange(func() {
		next := thresholds()
		if next == uc.Thresholds() {
			return
		}
		if err := uc.SetThresholds(next); err != nil {
			slog.Warn("ignoring reloaded heart rate thresholds", "low", next.Low, "high", next.High, "error", err)
			return
		}
		slog.Info("heart rate thresholds reloaded", "low", next.Low, "high", next.High)
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return func(ctx context.Context) error {
		return errors.Join(consumer.Stop(ctx), storage.Close())
	}, nil
}

// configError flattens validation details into a startup error message.
func configError(err error) error {
	if gerr, ok := pkgerror.As(err); ok {
		return fmt.Errorf("%s: %v", gerr.Msg(), gerr.Fields())
	}
	return err
}
