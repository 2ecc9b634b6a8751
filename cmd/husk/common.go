package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/odvcencio/husk/pkg/db"
	"github.com/odvcencio/husk/pkg/substance"
)

const envSubstanceDir = "HUSK_SUBSTANCE_DIR"

// openDatabase opens the database enclosing the working directory.
func openDatabase() (*db.Database, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getwd: %w", err)
	}
	return db.Open(cwd)
}

// openSubstance builds the substance store for d. The --substance-dir
// flag wins, then HUSK_SUBSTANCE_DIR, then the database config.
func openSubstance(d *db.Database) (substance.Substance, error) {
	dir := flagSubstanceDir
	if dir == "" {
		dir = os.Getenv(envSubstanceDir)
	}
	if dir == "" {
		configured, err := d.SubstanceDir()
		if err != nil {
			return nil, err
		}
		dir = configured
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("substance dir: %w", err)
	}
	return substance.New(abs), nil
}
