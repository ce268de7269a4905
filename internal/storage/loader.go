package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/scalerdb/scalerdb/internal/engine"
	"github.com/scalerdb/scalerdb/internal/pool"
)

// Load reads a single-document database file and rebuilds the live
// database. Every row is replayed through the insert path, so a document
// that violates a table invariant fails the load instead of producing a
// corrupt database. The database takes its name from the file name.
func Load(path string) (*engine.Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database file %s: %w", path, err)
	}

	var doc DatabaseDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse database file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	db, err := DecodeDatabase(name, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild database from %s: %w", path, err)
	}

	slog.Info("database loaded",
		slog.String("name", db.Name()),
		slog.String("path", path),
		slog.Int("table_count", db.TableCount()),
	)
	return db, nil
}

// LoadTables rebuilds a database from a directory written by SaveTables,
// parsing and replaying tables concurrently on a worker pool.
func LoadTables(dir string, workers int) (*engine.Database, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest in %s: %w", dir, err)
	}
	var manifest ManifestDoc
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest in %s: %w", dir, err)
	}

	db := engine.NewDatabase(manifest.Name)

	p := pool.New(workers)
	defer p.Shutdown()

	handles := make([]*pool.Handle, 0, len(manifest.Tables))
	for _, name := range manifest.Tables {
		path := filepath.Join(dir, name+".json")
		h, err := p.Submit(func() error {
			return loadTable(db, path)
		})
		if err != nil {
			return nil, err
		}
		handles = append(handles, h)
	}

	var firstErr error
	for _, h := range handles {
		if err := h.Wait(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	slog.Info("database loaded per table",
		slog.String("name", db.Name()),
		slog.String("dir", dir),
		slog.Int("table_count", db.TableCount()),
		slog.Int("workers", workers),
	)
	return db, nil
}

func loadTable(db *engine.Database, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to open table file %s: %w", path, err)
	}
	var doc TableDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse table file %s: %w", path, err)
	}
	if _, err := DecodeTable(db, doc); err != nil {
		return fmt.Errorf("failed to rebuild table from %s: %w", path, err)
	}
	return nil
}
