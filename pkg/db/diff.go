package db

import (
	"fmt"

	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
)

// DiffSide tells which input tree a difference belongs to.
type DiffSide int

const (
	SideA DiffSide = iota
	SideB
)

func (s DiffSide) String() string {
	if s == SideA {
		return "A"
	}
	return "B"
}

// Difference is one divergent entry between two trees. A Difference is
// shallow: a subtree present on only one side, or replaced wholesale, is
// reported as a single entry without descending into it.
type Difference struct {
	Side DiffSide
	Mode string
	Hash object.Hash
	Path shadow.Path
}

func (d Difference) String() string {
	return fmt.Sprintf("%s %s %s %s", d.Side, d.Mode, d.Hash, d.Path)
}

// ShallowDiff compares the trees at a and b and emits their differences.
// Subtrees with identical addresses are pruned without reading them; the
// structural sharing of the store is what makes this cheap.
func (d *Database) ShallowDiff(a, b object.Hash, emit func(Difference) error) error {
	path := shadow.RootPath()
	return d.shallowDiffTrees(&path, a, b, emit)
}

func (d *Database) shallowDiffTrees(path *shadow.Path, a, b object.Hash, emit func(Difference) error) error {
	if a == b {
		return nil
	}
	treeA, err := d.readEditableTree(a)
	if err != nil {
		return err
	}
	treeB, err := d.readEditableTree(b)
	if err != nil {
		return err
	}

	// Both entry lists are in stored (sorted) order; merge them.
	entriesA, entriesB := treeA.Entries, treeB.Entries
	i, j := 0, 0
	for i < len(entriesA) || j < len(entriesB) {
		switch {
		case j >= len(entriesB) || (i < len(entriesA) && entriesA[i].Name < entriesB[j].Name):
			if err := d.emitDifference(path, SideA, entriesA[i], emit); err != nil {
				return err
			}
			i++
		case i >= len(entriesA) || entriesB[j].Name < entriesA[i].Name:
			if err := d.emitDifference(path, SideB, entriesB[j], emit); err != nil {
				return err
			}
			j++
		default:
			entryA, entryB := entriesA[i], entriesB[j]
			i, j = i+1, j+1
			if entryA.Mode == entryB.Mode && entryA.Hash == entryB.Hash {
				continue
			}
			if entryA.IsDir() && entryB.IsDir() {
				component, err := decodeComponent(entryA.Name)
				if err != nil {
					return err
				}
				path.Push(component)
				err = d.shallowDiffTrees(path, entryA.Hash, entryB.Hash, emit)
				path.Pop()
				if err != nil {
					return err
				}
				continue
			}
			if err := d.emitDifference(path, SideA, entryA, emit); err != nil {
				return err
			}
			if err := d.emitDifference(path, SideB, entryB, emit); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Database) emitDifference(path *shadow.Path, side DiffSide, entry object.TreeEntry, emit func(Difference) error) error {
	name, err := shadow.DecodeEntryName(entry.Name)
	if err != nil {
		return err
	}
	if name.IsMarker() {
		// Markers are structural, never a difference.
		return nil
	}
	component, _ := name.Component()
	return emit(Difference{
		Side: side,
		Mode: entry.Mode,
		Hash: entry.Hash,
		Path: path.Child(component),
	})
}

func decodeComponent(raw string) (string, error) {
	name, err := shadow.DecodeEntryName(raw)
	if err != nil {
		return "", err
	}
	component, ok := name.Component()
	if !ok {
		return "", fmt.Errorf("%w: marker where a component was expected", ErrInvalidTreeStructure)
	}
	return component, nil
}
