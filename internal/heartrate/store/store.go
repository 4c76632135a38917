package store

import (
	"context"
	"fmt"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
)

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBadger = "badger"
)

// Storage is the full contract of a reading store, lifecycle included.
type Storage interface {
	Append(ctx context.Context, reading entity.Reading) error
	List(ctx context.Context) ([]entity.Reading, error)
	Close() error
}

type Config struct {
	Driver string `json:"driver" validate:"oneof=memory file badger"`
	Path   string `json:"path" validate:"required_unless=Driver memory"`
}

// Open builds the store selected by cfg.Driver. cfg is expected to be validated.
func Open(cfg Config) (Storage, error) {
	switch cfg.Driver {
	case DriverMemory:
		return NewInMemoryStore(), nil
	case DriverFile:
		return NewFileStore(cfg.Path)
	case DriverBadger:
		return NewBadgerStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
