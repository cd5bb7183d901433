// Package sqlite backs the interaction log with a transactional store, the
// recommended backend when multiple writers share one log.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/paulson-ai/backend/internal/emotion"
	"github.com/paulson-ai/backend/internal/storage"
	"github.com/paulson-ai/backend/internal/storage/models"
	"github.com/paulson-ai/backend/pkg/logger"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", storage.ErrPersistence, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		return nil, fmt.Errorf("%w: failed to enable WAL mode: %v", storage.ErrPersistence, err)
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		return nil, err
	}

	logger.Info("SQLite interaction store opened", zap.String("path", dbPath))

	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		seq INTEGER,
		timestamp TEXT NOT NULL,
		user_input TEXT NOT NULL,
		detected_emotion TEXT NOT NULL,
		emotion_scores TEXT NOT NULL,
		response TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_interactions_emotion ON interactions(detected_emotion);
	CREATE INDEX IF NOT EXISTS idx_interactions_seq ON interactions(seq);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("%w: failed to initialize schema: %v", storage.ErrPersistence, err)
	}

	return nil
}

func (s *Store) Append(ctx context.Context, record models.InteractionRecord) error {
	scoresJSON, err := json.Marshal(record.EmotionScores)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	query := `
		INSERT INTO interactions (id, seq, timestamp, user_input, detected_emotion, emotion_scores, response)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM interactions), ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		uuid.New().String(),
		record.Timestamp.Format(time.RFC3339Nano),
		record.UserInput,
		record.DetectedEmotion.String(),
		string(scoresJSON),
		record.Response,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert interaction: %v", storage.ErrPersistence, err)
	}

	logger.Debug("Interaction inserted", zap.String("emotion", record.DetectedEmotion.String()))

	return nil
}

func (s *Store) All(ctx context.Context) ([]models.InteractionRecord, error) {
	query := `
		SELECT timestamp, user_input, detected_emotion, emotion_scores, response
		FROM interactions
		ORDER BY seq ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read interactions: %v", storage.ErrPersistence, err)
	}
	defer rows.Close()

	var records []models.InteractionRecord
	for rows.Next() {
		var (
			r          models.InteractionRecord
			ts         string
			label      string
			scoresJSON string
		)

		if err := rows.Scan(&ts, &r.UserInput, &label, &scoresJSON, &r.Response); err != nil {
			return nil, fmt.Errorf("%w: failed to scan row: %v", storage.ErrPersistence, err)
		}

		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("%w: bad timestamp %q: %v", storage.ErrCorrupt, ts, err)
		}
		r.Timestamp = parsed
		r.DetectedEmotion = emotion.Label(label)

		if err := json.Unmarshal([]byte(scoresJSON), &r.EmotionScores); err != nil {
			return nil, fmt.Errorf("%w: bad score payload: %v", storage.ErrCorrupt, err)
		}

		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", storage.ErrPersistence, err)
	}

	return records, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
