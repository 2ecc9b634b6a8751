package snapshot

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// Take scans the subject directory and writes the nodes and digests record
// streams into the snapshot directory, creating it if needed. The walk is
// depth-first in lexical order, so a directory's record always precedes
// its descendants and the descendants are contiguous, which is the shape
// the entry parser and the planter rely on. Symlinks are recorded, never followed.
func (s *Snapshot) Take(subject string) error {
	absSubject, err := filepath.Abs(subject)
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}

	nodesFile, err := os.Create(s.nodesPath())
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	defer nodesFile.Close()
	digestsFile, err := os.Create(s.digestsPath())
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	defer digestsFile.Close()

	nodes := bufio.NewWriter(nodesFile)
	digests := bufio.NewWriter(digestsFile)

	err = filepath.WalkDir(absSubject, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(absSubject, path)
		if err != nil {
			return err
		}
		scanPath := "."
		if rel != "." {
			scanPath = "./" + filepath.ToSlash(rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		typ := nodeType(info.Mode())
		perm := info.Mode().Perm()

		size := "?"
		target := ""
		switch typ {
		case 'f':
			size = fmt.Sprintf("%d", info.Size())
		case 'l':
			target, err = os.Readlink(path)
			if err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(nodes, "%c 0%03o %s %s\x00 %s\x00\n", typ, perm, size, scanPath, target); err != nil {
			return err
		}

		if typ == 'f' {
			digest, err := digestFile(path)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(digests, "%s *%s\x00\n", digest, scanPath); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}

	if err := nodes.Flush(); err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	if err := digests.Flush(); err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	if err := os.WriteFile(s.subjectPath(), []byte(absSubject+"\n"), 0o644); err != nil {
		return fmt.Errorf("take snapshot: %w", err)
	}
	return nil
}

func nodeType(mode fs.FileMode) byte {
	switch {
	case mode.IsDir():
		return 'd'
	case mode&fs.ModeSymlink != 0:
		return 'l'
	case mode.IsRegular():
		return 'f'
	case mode&fs.ModeSocket != 0:
		return 's'
	case mode&fs.ModeNamedPipe != 0:
		return 'p'
	case mode&fs.ModeCharDevice != 0:
		return 'c'
	default:
		return 'b'
	}
}

// DigestFile computes the lowercase hex SHA-256 of the file at path.
func DigestFile(path string) (string, error) {
	return digestFile(path)
}

func digestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
