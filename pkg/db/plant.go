package db

import (
	"fmt"
	"path/filepath"

	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
	"github.com/odvcencio/husk/pkg/snapshot"
	"github.com/odvcencio/husk/pkg/substance"
)

// PlantSnapshot parses the snapshot and plants it as a shadow tree,
// returning the root's mode and address.
func (d *Database) PlantSnapshot(snap *snapshot.Snapshot) (string, object.Hash, error) {
	entries, err := snap.Entries()
	if err != nil {
		return "", "", err
	}
	defer entries.Close()
	return d.PlantEntries(entries)
}

// PlantEntries consumes a well-formed entry sequence (pre-order, children
// contiguous) and builds the shadow tree bottom-up: children's objects are
// written before their parent tree. The first entry must be the subject
// root; the sequence must be fully consumed by the plant.
func (d *Database) PlantEntries(entries *snapshot.Entries) (string, object.Hash, error) {
	entry, err := entries.Next()
	if err != nil {
		return "", "", err
	}
	if entry == nil {
		return "", "", fmt.Errorf("plant: empty entry sequence")
	}
	if !entry.Path.IsRoot() {
		return "", "", fmt.Errorf("plant: first entry is %q, not the subject root", entry.Path)
	}

	emptyBlob, err := d.EmptyBlobHash()
	if err != nil {
		return "", "", err
	}

	mode, hash, err := d.plantEntry(entries, entry, emptyBlob)
	if err != nil {
		return "", "", err
	}

	rest, err := entries.Peek()
	if err != nil {
		return "", "", err
	}
	if rest != nil {
		return "", "", fmt.Errorf("plant: entry %q is not a descendant of the subject root", rest.Path)
	}
	return mode, hash, nil
}

func (d *Database) plantEntry(entries *snapshot.Entries, entry *snapshot.Entry, emptyBlob object.Hash) (string, object.Hash, error) {
	switch v := entry.Value.(type) {
	case snapshot.FileValue:
		mode := object.TreeModeFile
		if v.Executable {
			mode = object.TreeModeExecutable
		}
		hash, err := d.Store.WriteBlob(&object.Blob{Data: v.Shadow.Encode()})
		if err != nil {
			return "", "", err
		}
		return mode, hash, nil

	case snapshot.LinkValue:
		hash, err := d.Store.WriteBlob(&object.Blob{Data: []byte(v.Target)})
		if err != nil {
			return "", "", err
		}
		return object.TreeModeSymlink, hash, nil

	case snapshot.TreeValue:
		tree := &object.TreeObj{Entries: []object.TreeEntry{{
			Name: shadow.MarkerName,
			Mode: object.TreeModeFile,
			Hash: emptyBlob,
		}}}
		for {
			candidate, err := entries.Peek()
			if err != nil {
				return "", "", err
			}
			if candidate == nil || !candidate.Path.IsChildOf(entry.Path) {
				break
			}
			child, err := entries.Next()
			if err != nil {
				return "", "", err
			}
			childMode, childHash, err := d.plantEntry(entries, child, emptyBlob)
			if err != nil {
				return "", "", err
			}
			tree.Entries = append(tree.Entries, object.TreeEntry{
				Name: shadow.EncodeComponent(child.Path.Base()),
				Mode: childMode,
				Hash: childHash,
			})
		}
		hash, err := d.Store.WriteTree(tree)
		if err != nil {
			return "", "", err
		}
		return object.TreeModeDir, hash, nil

	default:
		return "", "", fmt.Errorf("plant: unknown entry value %T", entry.Value)
	}
}

// StoreSnapshot re-walks the planted tree and feeds every unique blob's
// real bytes into the substance store, resolving each blob's source by
// joining its first-seen path under the scanned subject directory.
func (d *Database) StoreSnapshot(sub substance.Substance, tree object.Hash, subject string) error {
	return d.UniqueShadows(tree, func(path shadow.Path, sh shadow.Shadow) error {
		src := filepath.Join(subject, filepath.FromSlash(path.String()))
		if err := sub.Store(sh.ContentHash, src); err != nil {
			return fmt.Errorf("store snapshot %q: %w", path, err)
		}
		return nil
	})
}
