package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/odvcencio/husk/pkg/object"
)

// CommitSimple writes a commit for tree with the given message. parent may
// be "" for a root commit. The commit is not published anywhere; advancing
// HEAD is SafeMerge's job.
func (d *Database) CommitSimple(message string, tree object.Hash, parent object.Hash) (object.Hash, error) {
	cfg, err := d.ReadConfig()
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}

	commit := &object.CommitObj{
		TreeHash:  tree,
		Author:    cfg.Author,
		Timestamp: time.Now().Unix(),
		Message:   message,
	}
	if parent != "" {
		commit.Parents = []object.Hash{parent}
	}

	hash, err := d.Store.WriteCommit(commit)
	if err != nil {
		return "", fmt.Errorf("commit: %w", err)
	}
	return hash, nil
}

// SafeMerge advances HEAD's branch to commit, fast-forward only: the
// current HEAD commit must be a parent of commit (or HEAD must be unborn).
// Anything else is refused, never force-moved.
func (d *Database) SafeMerge(commit object.Hash) error {
	head, err := d.Head()
	if err != nil {
		return err
	}
	if !strings.HasPrefix(head, "refs/") {
		return fmt.Errorf("safe merge: HEAD is detached")
	}

	current, err := d.ResolveRef("HEAD")
	if err != nil {
		return err
	}
	if current != "" {
		commitObj, err := d.Store.ReadCommit(commit)
		if err != nil {
			return err
		}
		fastForward := false
		for _, p := range commitObj.Parents {
			if p == current {
				fastForward = true
				break
			}
		}
		if !fastForward {
			return fmt.Errorf("safe merge: %s is not a fast-forward of %s", commit, current)
		}
	}
	return d.UpdateRef(head, commit)
}

// ResolveTreeish resolves spec (a tree hash, a commit hash, a ref name,
// or "HEAD") to a tree address, peeling commits to their trees.
func (d *Database) ResolveTreeish(spec string) (object.Hash, error) {
	hash := object.Hash(spec)
	if !hash.Valid() || !d.Store.Has(hash) {
		resolved, err := d.ResolveRef(spec)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", spec, err)
		}
		if resolved == "" {
			return "", fmt.Errorf("resolve %q: unborn ref", spec)
		}
		hash = resolved
	}

	objType, err := d.Store.Type(hash)
	if err != nil {
		return "", err
	}
	switch objType {
	case object.TypeTree:
		return hash, nil
	case object.TypeCommit:
		commit, err := d.Store.ReadCommit(hash)
		if err != nil {
			return "", err
		}
		return commit.TreeHash, nil
	default:
		return "", fmt.Errorf("resolve %q: %s is a %s, not a tree or commit", spec, hash, objType)
	}
}
