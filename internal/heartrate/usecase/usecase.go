package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgerror"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkglog"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkguid"
	"github.com/shandysiswandi/healthmon/internal/pkg/pkgvalidator"
)

// MsgInvalidHeartRate is returned to clients for any unusable heart_rate value.
const MsgInvalidHeartRate = "Invalid heart_rate"

type Store interface {
	Append(ctx context.Context, reading entity.Reading) error
	List(ctx context.Context) ([]entity.Reading, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.AbnormalReadingEvent) error
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store      Store
	Events     EventPublisher
	Clock      Clock
	ReadingID  pkguid.NumberID
	EventID    pkguid.StringID
	Validator  *pkgvalidator.Validator
	Thresholds entity.Thresholds
}

type Usecase struct {
	store      Store
	events     EventPublisher
	clock      Clock
	readingID  pkguid.NumberID
	eventID    pkguid.StringID
	validator  *pkgvalidator.Validator
	thresholds atomic.Pointer[entity.Thresholds]
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	validator := dep.Validator
	if validator == nil {
		validator = pkgvalidator.New()
	}

	u := &Usecase{
		store:     dep.Store,
		events:    dep.Events,
		clock:     clock,
		readingID: dep.ReadingID,
		eventID:   dep.EventID,
		validator: validator,
	}
	th := dep.Thresholds
	u.thresholds.Store(&th)

	return u
}

// Thresholds is the range currently used to classify readings.
func (u *Usecase) Thresholds() entity.Thresholds {
	return *u.thresholds.Load()
}

// SetThresholds swaps the classification range for subsequent requests.
// Readings already stored are re-classified on the next Alerts call.
func (u *Usecase) SetThresholds(th entity.Thresholds) error {
	if err := u.validator.Struct(th, "Invalid thresholds"); err != nil {
		return err
	}
	u.thresholds.Store(&th)
	return nil
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

type addInput struct {
	HeartRate int `json:"heart_rate" validate:"gte=1,lte=300"`
}

func (u *Usecase) Series(ctx context.Context) (SeriesResult, error) {
	readings, err := u.store.List(ctx)
	if err != nil {
		return SeriesResult{}, pkgerror.Normalize(err)
	}

	return SeriesResult{
		Timestamps: lo.Map(readings, func(r entity.Reading, _ int) string { return r.FormattedTimestamp() }),
		HeartRates: lo.Map(readings, func(r entity.Reading, _ int) int { return r.HeartRate }),
	}, nil
}

func (u *Usecase) Add(ctx context.Context, rawHeartRate string) (AddResult, error) {
	if u.store == nil {
		return AddResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	heartRate, err := strconv.Atoi(strings.TrimSpace(rawHeartRate))
	if err != nil {
		return AddResult{}, pkgerror.NewValidation(MsgInvalidHeartRate, pkgerror.CodeInvalidFormat, map[string]string{
			"heart_rate": "must be an integer",
		})
	}

	if err := u.validator.Struct(addInput{HeartRate: heartRate}, MsgInvalidHeartRate); err != nil {
		return AddResult{}, err
	}

	reading := entity.Reading{
		Timestamp: u.clock.Now().Truncate(time.Second),
		HeartRate: heartRate,
	}
	if u.readingID != nil {
		reading.ID = u.readingID.Generate()
	}

	if err := u.store.Append(ctx, reading); err != nil {
		return AddResult{}, pkgerror.Normalize(err)
	}

	slog.DebugContext(ctx, "heart rate recorded", "reading_id", reading.ID, "heart_rate", heartRate)

	th := u.Thresholds()
	if level := th.Classify(heartRate); level != entity.LevelNormal {
		u.publishAbnormal(ctx, reading, level, th)
	}

	return AddResult{
		Timestamp: reading.FormattedTimestamp(),
		HeartRate: heartRate,
	}, nil
}

func (u *Usecase) Alerts(ctx context.Context) (AlertsResult, error) {
	readings, err := u.store.List(ctx)
	if err != nil {
		return AlertsResult{}, pkgerror.Normalize(err)
	}

	th := u.Thresholds()
	abnormal := lo.Filter(readings, func(r entity.Reading, _ int) bool {
		return th.IsAbnormal(r.HeartRate)
	})

	return AlertsResult{
		Thresholds: th,
		Readings: lo.Map(abnormal, func(r entity.Reading, _ int) Alert {
			return Alert{
				Timestamp: r.FormattedTimestamp(),
				HeartRate: r.HeartRate,
				Level:     th.Classify(r.HeartRate),
			}
		}),
	}, nil
}

func (u *Usecase) publishAbnormal(ctx context.Context, reading entity.Reading, level entity.Level, th entity.Thresholds) {
	if u.events == nil {
		return
	}

	event := entity.AbnormalReadingEvent{
		CorrelationID: pkglog.GetCorrelationID(ctx),
		Reading:       reading,
		Level:         level,
		Thresholds:    th,
	}
	if u.eventID != nil {
		event.EventID = u.eventID.Generate()
	}

	if err := u.events.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish abnormal reading event", "event_id", event.EventID, "error", err)
	}
}
