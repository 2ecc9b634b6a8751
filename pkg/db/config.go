package db

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config stores database-local settings.
type Config struct {
	// SubstanceDir is where the bulk store lives, relative to RootDir
	// unless absolute.
	SubstanceDir string `toml:"substance_dir"`
	Author       string `toml:"author"`
}

// DefaultConfig returns the config written by Init.
func DefaultConfig() *Config {
	return &Config{
		SubstanceDir: filepath.Join(".husk", "substance"),
		Author:       "husk",
	}
}

func (d *Database) configPath() string {
	return filepath.Join(d.HuskDir, "config.toml")
}

// ReadConfig reads .husk/config.toml. A missing file returns the defaults.
func (d *Database) ReadConfig() (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(d.configPath(), cfg); err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return cfg, nil
}

// WriteConfig atomically writes .husk/config.toml.
func (d *Database) WriteConfig(cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}

	tmp, err := os.CreateTemp(d.HuskDir, ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, d.configPath()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// SubstanceDir resolves the configured substance directory against RootDir.
func (d *Database) SubstanceDir() (string, error) {
	cfg, err := d.ReadConfig()
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(cfg.SubstanceDir) {
		return cfg.SubstanceDir, nil
	}
	return filepath.Join(d.RootDir, cfg.SubstanceDir), nil
}
