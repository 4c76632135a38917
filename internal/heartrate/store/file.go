package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/shandysiswandi/healthmon/internal/heartrate/entity"
)

// document is the on-disk layout: two parallel arrays, oldest reading first.
type document struct {
	Timestamps []string `json:"timestamps"`
	HeartRates []int    `json:"heart_rates"`
}

// FileStore keeps readings in a single JSON document.
//
// The file is re-read on every call so external edits are picked up.
// Writes replace the file atomically.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		if err := s.write(document{Timestamps: []string{}, HeartRates: []int{}}); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore) Append(ctx context.Context, reading entity.Reading) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}

	doc.Timestamps = append(doc.Timestamps, reading.FormattedTimestamp())
	doc.HeartRates = append(doc.HeartRates, reading.HeartRate)

	return s.write(doc)
}

func (s *FileStore) List(ctx context.Context) ([]entity.Reading, error) {
	s.mu.Lock()
	doc, err := s.read()
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	n := len(doc.Timestamps)
	if len(doc.HeartRates) != n {
		slog.WarnContext(ctx, "data file columns differ in length", "path", s.path,
			"timestamps", len(doc.Timestamps), "heart_rates", len(doc.HeartRates))
		n = min(n, len(doc.HeartRates))
	}

	readings := make([]entity.Reading, 0, n)
	for i := 0; i < n; i++ {
		ts, err := entity.ParseTimestamp(doc.Timestamps[i])
		if err != nil {
			slog.WarnContext(ctx, "skip reading with bad timestamp", "path", s.path, "index", i, "error", err)
			continue
		}
		readings = append(readings, entity.Reading{Timestamp: ts, HeartRate: doc.HeartRates[i]})
	}

	return readings, nil
}

func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) read() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, fmt.Errorf("read data file: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, fmt.Errorf("decode data file: %w", err)
	}

	return doc, nil
}

func (s *FileStore) write(doc document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp data file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp data file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), s.path)
}
