package db

import (
	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
)

type checkCallbacks struct {
	NoopCallbacks
}

func (checkCallbacks) OnBlob(v *VisitBlob) error {
	_, err := v.ReadShadow()
	return err
}

func (checkCallbacks) OnLink(v *VisitLink) error {
	_, err := v.ReadTarget()
	return err
}

// Check walks the tree at hash, forcing a read of every blob and link so
// that any storage or structure problem surfaces. Shared content is
// checked once.
func (d *Database) Check(tree object.Hash) error {
	return d.Traverser(NewOnUnique(checkCallbacks{})).Traverse(tree)
}

type uniqueShadowsCallbacks struct {
	NoopCallbacks
	fn func(shadow.Path, shadow.Shadow) error
}

func (c *uniqueShadowsCallbacks) OnBlob(v *VisitBlob) error {
	sh, err := v.ReadShadow()
	if err != nil {
		return err
	}
	return c.fn(v.Path(), sh)
}

// UniqueShadows calls fn once per distinct blob in the tree at hash, with
// the first path at which each blob is encountered. Paths are only valid
// during the call.
func (d *Database) UniqueShadows(tree object.Hash, fn func(shadow.Path, shadow.Shadow) error) error {
	return d.Traverser(NewOnUnique(&uniqueShadowsCallbacks{fn: fn})).Traverse(tree)
}
