package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/scalerdb/scalerdb/internal/engine"
	"github.com/scalerdb/scalerdb/internal/pool"
)

// Save writes the whole database as one document at path, using a
// uuid-suffixed temp file and an atomic rename.
func Save(db *engine.Database, path string) error {
	if db == nil {
		return fmt.Errorf("cannot save nil database")
	}

	doc := EncodeDatabase(db)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal database %s: %w", db.Name(), err)
	}

	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write database %s: %w", db.Name(), err)
	}

	slog.Info("database saved",
		slog.String("name", db.Name()),
		slog.String("path", path),
		slog.Int("table_count", len(doc.Tables)),
	)
	return nil
}

// SaveTables writes one document per table under dir plus a manifest,
// serializing tables concurrently on a worker pool. The manifest is only
// written after every table file landed, so a failed save never looks
// complete.
func SaveTables(db *engine.Database, dir string, workers int) error {
	if db == nil {
		return fmt.Errorf("cannot save nil database")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	names := db.TableNames()
	sort.Strings(names)

	p := pool.New(workers)
	defer p.Shutdown()

	handles := make([]*pool.Handle, 0, len(names))
	for _, name := range names {
		table := db.Table(name)
		if table == nil {
			continue
		}
		path := filepath.Join(dir, name+".json")
		h, err := p.Submit(func() error {
			return saveTable(table, path)
		})
		if err != nil {
			return err
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
		return firstErr
	}

	manifest := ManifestDoc{Name: db.Name(), Version: 1, Tables: names}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest for %s: %w", db.Name(), err)
	}
	if err := writeAtomic(filepath.Join(dir, "manifest.json"), data); err != nil {
		return fmt.Errorf("failed to write manifest for %s: %w", db.Name(), err)
	}

	slog.Info("database saved per table",
		slog.String("name", db.Name()),
		slog.String("dir", dir),
		slog.Int("table_count", len(names)),
		slog.Int("workers", workers),
	)
	return nil
}

func saveTable(t *engine.Table, path string) error {
	doc := EncodeTable(t)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal table %s: %w", t.Name(), err)
	}
	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("failed to write table %s: %w", t.Name(), err)
	}
	return nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place. The uuid suffix keeps concurrent writers of the same path from
// clobbering each other's temp file.
func writeAtomic(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.tmp.%s", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
