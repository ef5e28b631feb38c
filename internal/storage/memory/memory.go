// internal/storage/memory/memory.go
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/zmaniacz/lfstats-chomper/internal/config"
	"github.com/zmaniacz/lfstats-chomper/internal/storage"
	"github.com/zmaniacz/lfstats-chomper/pkg/core"
)

// gameKey identifies a game the same way the relational sink does: center plus start instant.
type gameKey struct {
	region string
	site   string
	start  int64
}

func keyOf(r *core.GameResult) gameKey {
	return gameKey{
		region: r.Meta.RegionCode,
		site:   r.Meta.SiteCode,
		start:  r.Game.MissionStartTime.UnixNano(),
	}
}

// GameRecord is one saved game and where it was exported to
type GameRecord struct {
	Result     *core.GameResult
	ExportPath string
}

// Backend stores chomped games in memory and exports each one to JSON
type Backend struct {
	cfg   config.MemoryConfig
	games map[gameKey]*GameRecord
	order []gameKey
	mu    sync.RWMutex
}

// New creates a new memory backend
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		games: make(map[gameKey]*GameRecord),
	}
}

// Init initializes the backend
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources
func (b *Backend) Close() error {
	return nil
}

// SaveGame exports the game and keeps it in memory. A game already held from the
// same chomper version is rejected with storage.ErrGameExists; one from another
// version is replaced. Nothing is kept if the export fails.
func (b *Backend) SaveGame(ctx context.Context, result *core.GameResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := keyOf(result)
	if existing, ok := b.games[key]; ok && existing.Result.Meta.ChomperVersion == result.Meta.ChomperVersion {
		return storage.ErrGameExists
	}

	record := &GameRecord{Result: result}
	if b.cfg.OutputDir != "" {
		path, err := b.exportJSON(result)
		if err != nil {
			return fmt.Errorf("failed to export game: %w", err)
		}
		record.ExportPath = path
	}

	if _, ok := b.games[key]; !ok {
		b.order = append(b.order, key)
	}
	b.games[key] = record
	return nil
}

// Games returns the saved games in the order they were first saved
func (b *Backend) Games() []*core.GameResult {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*core.GameResult, 0, len(b.order))
	for _, k := range b.order {
		out = append(out, b.games[k].Result)
	}
	return out
}

// ExportedFilePaths returns the files written so far, sorted
func (b *Backend) ExportedFilePaths() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var paths []string
	for _, rec := range b.games {
		if rec.ExportPath != "" {
			paths = append(paths, rec.ExportPath)
		}
	}
	sort.Strings(paths)
	return paths
}
