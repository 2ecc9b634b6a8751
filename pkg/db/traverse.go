package db

import (
	"fmt"

	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
)

// TreeDecision is the OnTree callback's verdict for a subtree.
type TreeDecision int

const (
	Descend TreeDecision = iota
	Skip
)

// Callbacks are the hook points of a traversal. Embed NoopCallbacks for
// default no-op implementations. Visit values and their paths are only
// valid for the duration of the callback; use Path().Clone() to retain.
type Callbacks interface {
	OnBlob(*VisitBlob) error
	OnLink(*VisitLink) error
	OnTree(*VisitTree) (TreeDecision, error)
}

// NoopCallbacks implements Callbacks with no-ops (OnTree descends).
type NoopCallbacks struct{}

func (NoopCallbacks) OnBlob(*VisitBlob) error { return nil }
func (NoopCallbacks) OnLink(*VisitLink) error { return nil }
func (NoopCallbacks) OnTree(*VisitTree) (TreeDecision, error) {
	return Descend, nil
}

type visit struct {
	db   *Database
	path shadow.Path
	hash object.Hash
}

// Hash returns the visited object's address.
func (v *visit) Hash() object.Hash { return v.hash }

// Path returns the path at which the object was reached.
func (v *visit) Path() shadow.Path { return v.path }

// VisitBlob is a file entry being visited.
type VisitBlob struct {
	visit
	executable bool
}

// Executable reports whether the entry carries the executable mode.
func (v *VisitBlob) Executable() bool { return v.executable }

// ReadShadow reads the blob and decodes it as a shadow record.
func (v *VisitBlob) ReadShadow() (shadow.Shadow, error) {
	blob, err := v.db.Store.ReadBlob(v.hash)
	if err != nil {
		return shadow.Shadow{}, err
	}
	return shadow.DecodeShadow(blob.Data)
}

// VisitLink is a symlink entry being visited.
type VisitLink struct {
	visit
}

// ReadTarget reads the blob holding the link target.
func (v *VisitLink) ReadTarget() (string, error) {
	blob, err := v.db.Store.ReadBlob(v.hash)
	if err != nil {
		return "", err
	}
	return string(blob.Data), nil
}

// VisitTree is a tree being visited, before any descent decision.
type VisitTree struct {
	visit
}

// OnUnique decorates inner so that every object address is processed at
// most once: repeat blobs and links become no-ops, repeat trees return
// Skip without consulting inner. This is the mechanism that makes shared
// subtrees, however many paths reach them, cost a single visit.
type OnUnique struct {
	seen  map[object.Hash]struct{}
	inner Callbacks
}

// NewOnUnique wraps inner in a dedup adapter with fresh memory.
func NewOnUnique(inner Callbacks) *OnUnique {
	return &OnUnique{
		seen:  make(map[object.Hash]struct{}),
		inner: inner,
	}
}

func (u *OnUnique) remember(h object.Hash) bool {
	if _, ok := u.seen[h]; ok {
		return false
	}
	u.seen[h] = struct{}{}
	return true
}

func (u *OnUnique) OnBlob(v *VisitBlob) error {
	if !u.remember(v.Hash()) {
		return nil
	}
	return u.inner.OnBlob(v)
}

func (u *OnUnique) OnLink(v *VisitLink) error {
	if !u.remember(v.Hash()) {
		return nil
	}
	return u.inner.OnLink(v)
}

func (u *OnUnique) OnTree(v *VisitTree) (TreeDecision, error) {
	if !u.remember(v.Hash()) {
		return Skip, nil
	}
	return u.inner.OnTree(v)
}

// Traverser is a recursive walk over a shadow/bulk tree. At every tree
// the first entry must be the marker pointing at the empty blob; the
// zero-length check happens lazily once per traverser and is cached by
// address afterwards. Remaining entries are visited in stored order with
// the path accumulator pushed around each visit.
type Traverser struct {
	db        *Database
	callbacks Callbacks
	emptyBlob object.Hash // "" until first verified
}

// Traverser builds a walk bound to callbacks.
func (d *Database) Traverser(callbacks Callbacks) *Traverser {
	return &Traverser{db: d, callbacks: callbacks}
}

// Traverse walks the tree at hash from the root path.
func (t *Traverser) Traverse(tree object.Hash) error {
	path := shadow.RootPath()
	return t.traverseFrom(&path, tree)
}

func (t *Traverser) ensureBlobIsEmpty(h object.Hash) error {
	if t.emptyBlob != "" {
		if h != t.emptyBlob {
			return fmt.Errorf("%w: marker blob %s is not the empty blob", ErrInvalidTreeStructure, h)
		}
		return nil
	}
	blob, err := t.db.Store.ReadBlob(h)
	if err != nil {
		return err
	}
	if len(blob.Data) != 0 {
		return fmt.Errorf("%w: marker blob %s has %d bytes", ErrInvalidTreeStructure, h, len(blob.Data))
	}
	t.emptyBlob = h
	return nil
}

func (t *Traverser) traverseFrom(path *shadow.Path, tree object.Hash) error {
	decision, err := t.callbacks.OnTree(&VisitTree{visit{db: t.db, path: *path, hash: tree}})
	if err != nil {
		return err
	}
	if decision == Skip {
		return nil
	}

	tr, err := t.db.Store.ReadTree(tree)
	if err != nil {
		return err
	}

	for i, entry := range tr.Entries {
		name, err := shadow.DecodeEntryName(entry.Name)
		if err != nil {
			return fmt.Errorf("tree %s: %w", tree, err)
		}

		if i == 0 {
			if !name.IsMarker() {
				return fmt.Errorf("%w: tree %s does not start with the marker", ErrInvalidTreeStructure, tree)
			}
			if entry.Mode != object.TreeModeFile {
				return fmt.Errorf("%w: tree %s marker has mode %s", ErrInvalidTreeStructure, tree, entry.Mode)
			}
			if err := t.ensureBlobIsEmpty(entry.Hash); err != nil {
				return err
			}
			continue
		}

		component, ok := name.Component()
		if !ok {
			return fmt.Errorf("%w: tree %s repeats the marker", ErrInvalidTreeStructure, tree)
		}

		path.Push(component)
		err = t.visitEntry(path, entry)
		path.Pop()
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Traverser) visitEntry(path *shadow.Path, entry object.TreeEntry) error {
	switch entry.Mode {
	case object.TreeModeSymlink:
		return t.callbacks.OnLink(&VisitLink{visit{db: t.db, path: *path, hash: entry.Hash}})
	case object.TreeModeFile, object.TreeModeExecutable:
		return t.callbacks.OnBlob(&VisitBlob{
			visit:      visit{db: t.db, path: *path, hash: entry.Hash},
			executable: entry.Mode == object.TreeModeExecutable,
		})
	case object.TreeModeDir:
		return t.traverseFrom(path, entry.Hash)
	default:
		return fmt.Errorf("%w: mode %s at %s", ErrUnsupportedEntry, entry.Mode, path)
	}
}
