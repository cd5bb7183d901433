// Package jsonfile persists interaction records as a single pretty-printed
// JSON array document, the canonical log format.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/storage"
	"github.com/paulson-ai/backend/internal/storage/models"
	"github.com/paulson-ai/backend/pkg/logger"
)

// Store appends by reading the full history, adding one record, and writing
// the document back. The mutex serializes appenders sharing this store so a
// concurrent read-modify-write cannot drop records; the temp-file rename
// keeps a crash mid-write from truncating history.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	s := &Store{path: path}

	// Initialize to an empty array on first use.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	logger.Info("JSON interaction store opened", zap.String("path", path))

	return s, nil
}

func (s *Store) Append(ctx context.Context, record models.InteractionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	records, err := s.read()
	if err != nil {
		return err
	}

	records = append(records, record)

	if err := s.write(records); err != nil {
		return err
	}

	logger.Debug("Interaction appended",
		zap.String("emotion", record.DetectedEmotion.String()),
		zap.Int("total", len(records)),
	)

	return nil
}

func (s *Store) All(ctx context.Context) ([]models.InteractionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	return s.read()
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) read() ([]models.InteractionRecord, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	var records []models.InteractionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrCorrupt, err)
	}

	return records, nil
}

func (s *Store) write(records []models.InteractionRecord) error {
	if records == nil {
		records = []models.InteractionRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	return nil
}
