package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
)

const readingKeyPrefix = "reading:"

type badgerReading struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	HeartRate int       `json:"heart_rate"`
}

// BadgerStore keeps one key per reading. Keys embed the zero-padded reading
// id, so prefix iteration returns readings in id order.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	return &BadgerStore{db: db}, nil
}

func readingKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", readingKeyPrefix, id))
}

func (s *BadgerStore) Append(ctx context.Context, reading entity.Reading) error {
	if reading.ID <= 0 {
		return errors.New("reading id is required")
	}

	value, err := json.Marshal(badgerReading{
		ID:        reading.ID,
		Timestamp: reading.Timestamp,
		HeartRate: reading.HeartRate,
	})
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(readingKey(reading.ID), value)
	})
}

func (s *BadgerStore) List(ctx context.Context) ([]entity.Reading, error) {
	var readings []entity.Reading

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(readingKeyPrefix)

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var rec badgerReading
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}

			readings = append(readings, entity.Reading{
				ID:        rec.ID,
				Timestamp: rec.Timestamp.Local(),
				HeartRate: rec.HeartRate,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return readings, nil
}

// CollectGarbage runs one value-log GC pass. Nothing to rewrite is not an error.
func (s *BadgerStore) CollectGarbage(ctx context.Context) error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
		return nil
	}
	if err == nil {
		slog.DebugContext(ctx, "badger value log compacted")
	}
	return err
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
