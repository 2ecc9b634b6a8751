package db

import (
	"fmt"

	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
)

// EmptyTreeHash writes and returns the logically-empty directory: a tree
// holding only the marker entry.
func (d *Database) EmptyTreeHash() (object.Hash, error) {
	emptyBlob, err := d.EmptyBlobHash()
	if err != nil {
		return "", err
	}
	return d.Store.WriteTree(&object.TreeObj{Entries: []object.TreeEntry{{
		Name: shadow.MarkerName,
		Mode: object.TreeModeFile,
		Hash: emptyBlob,
	}}})
}

// Append grafts (mode, obj) into the tree at root under relPath, returning
// the new root address. Only the trees along relPath are rewritten; every
// sibling entry is carried over by reference, so all untouched subtrees
// stay shared with the original root, which remains valid. Missing
// intermediate directories are created. If the final component already
// exists the call fails with ErrEntryAlreadyExists unless force is set,
// in which case the entry is overwritten.
func (d *Database) Append(root object.Hash, relPath shadow.Path, mode string, obj object.Hash, force bool) (object.Hash, error) {
	if relPath.IsRoot() {
		return "", fmt.Errorf("append: relative path must not be the root")
	}
	if !object.ValidMode(mode) {
		return "", fmt.Errorf("append: bad mode %q", mode)
	}
	newRoot, err := d.appendAt(root, relPath.Components(), mode, obj, force)
	if err != nil {
		return "", fmt.Errorf("append %q: %w", relPath, err)
	}
	return newRoot, nil
}

// appendAt rewrites one level. tree == "" stands for an absent directory,
// materialized as a marker-only tree.
func (d *Database) appendAt(tree object.Hash, components []string, mode string, obj object.Hash, force bool) (object.Hash, error) {
	tr, err := d.readEditableTree(tree)
	if err != nil {
		return "", err
	}

	name := shadow.EncodeComponent(components[0])
	existing, exists := tr.Lookup(name)

	if len(components) == 1 {
		if exists && !force {
			return "", fmt.Errorf("%w: %q", ErrEntryAlreadyExists, components[0])
		}
		upsertEntry(tr, object.TreeEntry{Name: name, Mode: mode, Hash: obj})
		return d.Store.WriteTree(tr)
	}

	var childTree object.Hash
	if exists {
		if !existing.IsDir() {
			return "", fmt.Errorf("%w: %q is not a directory", ErrEntryAlreadyExists, components[0])
		}
		childTree = existing.Hash
	}
	newChild, err := d.appendAt(childTree, components[1:], mode, obj, force)
	if err != nil {
		return "", err
	}
	upsertEntry(tr, object.TreeEntry{Name: name, Mode: object.TreeModeDir, Hash: newChild})
	return d.Store.WriteTree(tr)
}

// Remove excises the entry at relPath from the tree at root, returning the
// new root address. The same copy-on-write discipline as Append applies.
// Fails with ErrEntryNotFound if any component along the path is absent.
// A directory left with no real entries keeps its marker-only tree; it is
// not deleted from its parent.
func (d *Database) Remove(root object.Hash, relPath shadow.Path) (object.Hash, error) {
	if relPath.IsRoot() {
		return "", fmt.Errorf("remove: relative path must not be the root")
	}
	newRoot, err := d.removeAt(root, relPath.Components())
	if err != nil {
		return "", fmt.Errorf("remove %q: %w", relPath, err)
	}
	return newRoot, nil
}

func (d *Database) removeAt(tree object.Hash, components []string) (object.Hash, error) {
	tr, err := d.readEditableTree(tree)
	if err != nil {
		return "", err
	}

	name := shadow.EncodeComponent(components[0])
	existing, exists := tr.Lookup(name)
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrEntryNotFound, components[0])
	}

	if len(components) == 1 {
		deleteEntry(tr, name)
		return d.Store.WriteTree(tr)
	}

	if !existing.IsDir() {
		return "", fmt.Errorf("%w: %q is not a directory", ErrEntryNotFound, components[0])
	}
	newChild, err := d.removeAt(existing.Hash, components[1:])
	if err != nil {
		return "", err
	}
	upsertEntry(tr, object.TreeEntry{Name: name, Mode: object.TreeModeDir, Hash: newChild})
	return d.Store.WriteTree(tr)
}

// readEditableTree reads a tree for copy-on-write editing, validating the
// marker invariant first. tree == "" yields a fresh marker-only tree.
func (d *Database) readEditableTree(tree object.Hash) (*object.TreeObj, error) {
	if tree == "" {
		emptyBlob, err := d.EmptyBlobHash()
		if err != nil {
			return nil, err
		}
		return &object.TreeObj{Entries: []object.TreeEntry{{
			Name: shadow.MarkerName,
			Mode: object.TreeModeFile,
			Hash: emptyBlob,
		}}}, nil
	}
	tr, err := d.Store.ReadTree(tree)
	if err != nil {
		return nil, err
	}
	if len(tr.Entries) == 0 || tr.Entries[0].Name != shadow.MarkerName {
		return nil, fmt.Errorf("%w: tree %s does not start with the marker", ErrInvalidTreeStructure, tree)
	}
	return tr, nil
}

func upsertEntry(tr *object.TreeObj, entry object.TreeEntry) {
	for i := range tr.Entries {
		if tr.Entries[i].Name == entry.Name {
			tr.Entries[i] = entry
			return
		}
	}
	tr.Entries = append(tr.Entries, entry)
}

func deleteEntry(tr *object.TreeObj, name string) {
	for i := range tr.Entries {
		if tr.Entries[i].Name == name {
			tr.Entries = append(tr.Entries[:i], tr.Entries[i+1:]...)
			return
		}
	}
}
