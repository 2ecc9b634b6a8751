// Package snapshot consumes the output of a filesystem scan: a snapshot
// directory holding two correlated record streams ("nodes" and "digests")
// plus the subject path, and a parser turning them into an ordered entry
// sequence. It also provides a native scanner producing that directory.
package snapshot

import (
	"fmt"
	"os"
	"path/filepath"
)

// files making up a snapshot directory.
var snapshotFiles = []string{"subject.txt", "nodes", "digests"}

// Snapshot is a snapshot directory on disk.
type Snapshot struct {
	dir string
}

// New wraps the snapshot directory at dir. Nothing is read until Entries
// or Subject is called.
func New(dir string) *Snapshot {
	return &Snapshot{dir: dir}
}

// Dir returns the snapshot directory path.
func (s *Snapshot) Dir() string {
	return s.dir
}

func (s *Snapshot) nodesPath() string {
	return filepath.Join(s.dir, "nodes")
}

func (s *Snapshot) digestsPath() string {
	return filepath.Join(s.dir, "digests")
}

func (s *Snapshot) subjectPath() string {
	return filepath.Join(s.dir, "subject.txt")
}

// Subject returns the path of the scanned directory, as recorded by Take.
func (s *Snapshot) Subject() (string, error) {
	data, err := os.ReadFile(s.subjectPath())
	if err != nil {
		return "", fmt.Errorf("snapshot subject: %w", err)
	}
	n := len(data)
	for n > 0 && data[n-1] == '\n' {
		n--
	}
	return string(data[:n]), nil
}

// Entries opens the record streams and returns the entry producer. The
// caller owns closing it.
func (s *Snapshot) Entries() (*Entries, error) {
	nodes, err := os.Open(s.nodesPath())
	if err != nil {
		return nil, fmt.Errorf("snapshot entries: %w", err)
	}
	digests, err := os.Open(s.digestsPath())
	if err != nil {
		nodes.Close()
		return nil, fmt.Errorf("snapshot entries: %w", err)
	}
	entries := NewEntries(nodes, digests)
	entries.closers = append(entries.closers, nodes, digests)
	return entries, nil
}

// Remove deletes the snapshot directory and its files.
func (s *Snapshot) Remove() error {
	for _, name := range snapshotFiles {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot: %w", err)
		}
	}
	if err := os.Remove(s.dir); err != nil {
		return fmt.Errorf("remove snapshot: %w", err)
	}
	return nil
}
