package substance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"github.com/odvcencio/husk/pkg/shadow"
)

// FilesystemSubstance stores blobs as zstd-compressed files in a
// 2-character fan-out layout under dir: blobs/ab/cdef0123...
type FilesystemSubstance struct {
	fs  afero.Fs
	dir string
}

// New creates a substance store on the real filesystem rooted at dir.
func New(dir string) *FilesystemSubstance {
	return NewWithFs(afero.NewOsFs(), dir)
}

// NewWithFs creates a substance store on an arbitrary afero filesystem.
func NewWithFs(fs afero.Fs, dir string) *FilesystemSubstance {
	return &FilesystemSubstance{fs: fs, dir: dir}
}

func (s *FilesystemSubstance) blobPath(hash shadow.ContentHash) string {
	return filepath.Join(s.dir, "blobs", string(hash[:2]), string(hash[2:]))
}

// HaveBlob reports whether the store holds bytes for hash.
func (s *FilesystemSubstance) HaveBlob(hash shadow.ContentHash) bool {
	_, err := s.fs.Stat(s.blobPath(hash))
	return err == nil
}

// Store reads the file at src, verifies it still hashes to hash, and
// stores it compressed. A hash already present is a no-op success. The
// write is atomic: temp file, then rename into place.
func (s *FilesystemSubstance) Store(hash shadow.ContentHash, src string) error {
	if s.HaveBlob(hash) {
		return nil
	}

	srcFile, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("substance store %s: %w", hash, err)
	}
	defer srcFile.Close()

	dir := filepath.Join(s.dir, "blobs", string(hash[:2]))
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("substance store %s: mkdir: %w", hash, err)
	}
	tmp, err := afero.TempFile(s.fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("substance store %s: tmpfile: %w", hash, err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		s.fs.Remove(tmpName)
	}

	enc, err := zstd.NewWriter(tmp)
	if err != nil {
		cleanup()
		return fmt.Errorf("substance store %s: %w", hash, err)
	}
	h := sha256.New()
	if _, err := io.Copy(io.MultiWriter(enc, h), srcFile); err != nil {
		enc.Close()
		cleanup()
		return fmt.Errorf("substance store %s: %w", hash, err)
	}
	if err := enc.Close(); err != nil {
		cleanup()
		return fmt.Errorf("substance store %s: %w", hash, err)
	}
	if err := tmp.Close(); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("substance store %s: %w", hash, err)
	}

	if got := hex.EncodeToString(h.Sum(nil)); got != string(hash) {
		s.fs.Remove(tmpName)
		return fmt.Errorf("substance store %s: source %q now hashes to %s: %w", hash, src, got, ErrCorruptBlob)
	}

	if err := s.fs.Rename(tmpName, s.blobPath(hash)); err != nil {
		s.fs.Remove(tmpName)
		return fmt.Errorf("substance store %s: rename: %w", hash, err)
	}
	return nil
}

// CheckBlob decompresses the stored bytes, re-hashes them and verifies
// the result against hash.
func (s *FilesystemSubstance) CheckBlob(hash shadow.ContentHash) error {
	f, err := s.fs.Open(s.blobPath(hash))
	if err != nil {
		return fmt.Errorf("substance check %s: %w", hash, err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return fmt.Errorf("substance check %s: %w", hash, err)
	}
	defer dec.Close()

	h := sha256.New()
	if _, err := io.Copy(h, dec); err != nil {
		return fmt.Errorf("substance check %s: %w", hash, err)
	}
	if got := hex.EncodeToString(h.Sum(nil)); got != string(hash) {
		return fmt.Errorf("substance check %s: stored bytes hash to %s: %w", hash, got, ErrCorruptBlob)
	}
	return nil
}
