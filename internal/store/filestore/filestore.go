// Package filestore keeps each collection in its own JSON file under a data
// directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/CuongMinh72/bakery-sys/internal/bakery"
	"github.com/CuongMinh72/bakery-sys/internal/store"
)

var _ store.Adapter = (*Adapter)(nil)

// Adapter stores <dir>/<collection>.json files.
type Adapter struct {
	dir string
}

// New creates dir when needed and returns an adapter rooted there.
func New(dir string) (*Adapter, error) {
	if dir == "" {
		return nil, errors.New("filestore: data dir required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create data dir: %w", err)
	}
	return &Adapter{dir: dir}, nil
}

func (a *Adapter) path(col bakery.Collection) string {
	return filepath.Join(a.dir, string(col)+".json")
}

// Load reads a collection file. A missing file is an empty collection.
func (a *Adapter) Load(ctx context.Context, col bakery.Collection) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(a.path(col))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", col, err)
	}
	var docs []json.RawMessage
	if len(raw) == 0 {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("filestore: decode %s: %w", col, err)
	}
	return docs, nil
}

// Save writes the collection to a temporary file and renames it over the
// previous one.
func (a *Adapter) Save(ctx context.Context, col bakery.Collection, docs []json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if docs == nil {
		docs = []json.RawMessage{}
	}
	raw, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", col, err)
	}
	tmp, err := os.CreateTemp(a.dir, string(col)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("filestore: write %s: %w", col, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: close %s: %w", col, err)
	}
	if err := os.Rename(tmp.Name(), a.path(col)); err != nil {
		return fmt.Errorf("filestore: replace %s: %w", col, err)
	}
	return nil
}
