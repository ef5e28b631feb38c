// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// ErrGameExists is returned when a game with the same center, start time and
// chomper version is already stored. It is a benign outcome, not a failure.
var ErrGameExists = errors.New("game exists")

// Backend is the interface all storage implementations must satisfy
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// SaveGame persists one chomped game atomically: either every row is
	// written or none are. A stored game from an older chomper version is replaced.
	SaveGame(ctx context.Context, result *core.GameResult) error
}

// Exportable is an optional interface for storage backends that produce
// files on disk, one per saved game.
type Exportable interface {
	ExportedFilePaths() []string
}
