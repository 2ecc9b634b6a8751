// Package db layers the shadow-snapshot model over the content-addressed
// object store: planting scans into shadow trees, verifying and
// enumerating them, diffing, and grafting them into a composite tree.
package db

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/odvcencio/husk/pkg/object"
)

var (
	ErrInvalidTreeStructure = errors.New("invalid shadow tree structure")
	ErrUnsupportedEntry     = errors.New("unsupported tree entry")
	ErrEntryAlreadyExists   = errors.New("entry already exists")
	ErrEntryNotFound        = errors.New("entry not found")
)

// Database is an opened husk database.
type Database struct {
	RootDir string        // directory containing .husk/
	HuskDir string        // .husk/ directory
	Store   *object.Store // content-addressed object store

	emptyBlobOnce sync.Once
	emptyBlob     object.Hash
	emptyBlobErr  error
}

// Init creates a new database at path: the .husk/ directory with objects/,
// refs/heads/, a default HEAD, and a default config. Fails if .husk/
// already exists.
func Init(path string) (*Database, error) {
	huskDir := filepath.Join(path, ".husk")

	if _, err := os.Stat(huskDir); err == nil {
		return nil, fmt.Errorf("init: database already exists at %s", huskDir)
	}

	dirs := []string{
		filepath.Join(huskDir, "objects"),
		filepath.Join(huskDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	headPath := filepath.Join(huskDir, "HEAD")
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("init: write HEAD: %w", err)
	}

	d := &Database{
		RootDir: path,
		HuskDir: huskDir,
		Store:   object.NewStore(huskDir),
	}
	if err := d.WriteConfig(DefaultConfig()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	return d, nil
}

// Open searches upward from path for a .husk/ directory and opens the
// database.
func Open(path string) (*Database, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		huskDir := filepath.Join(cur, ".husk")
		info, err := os.Stat(huskDir)
		if err == nil && info.IsDir() {
			return &Database{
				RootDir: cur,
				HuskDir: huskDir,
				Store:   object.NewStore(huskDir),
			}, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open: not a husk database (or any parent up to /)")
		}
		cur = parent
	}
}

// EmptyBlobHash returns the address of the zero-length blob, writing it on
// first use and memoizing the result. Every marker entry points here.
func (d *Database) EmptyBlobHash() (object.Hash, error) {
	d.emptyBlobOnce.Do(func() {
		d.emptyBlob, d.emptyBlobErr = d.Store.WriteBlob(&object.Blob{})
	})
	return d.emptyBlob, d.emptyBlobErr
}
