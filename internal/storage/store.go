// Package storage defines the append-only interaction log contract shared by
// the JSON document store and the SQLite store.
package storage

import (
	"context"
	"errors"

	"github.com/paulson-ai/backend/internal/storage/models"
)

var (
	// ErrPersistence covers unrecoverable I/O failures against the store.
	ErrPersistence = errors.New("interaction store failure")
	// ErrCorrupt means the store exists but cannot be parsed.
	ErrCorrupt = errors.New("interaction store is corrupt")
)

// Store persists interaction records append-only. Append must make the
// record durably visible to a subsequent All within the same process and
// across restarts. Implementations serialize concurrent appends.
type Store interface {
	Append(ctx context.Context, record models.InteractionRecord) error
	All(ctx context.Context) ([]models.InteractionRecord, error)
	Close() error
}
