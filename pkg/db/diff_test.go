package db

import (
	"testing"

	"github.com/odvcencio/husk/pkg/object"
)

func collectDiff(t *testing.T, d *Database, a, b object.Hash) []Difference {
	t.Helper()
	var diffs []Difference
	err := d.ShallowDiff(a, b, func(diff Difference) error {
		diffs = append(diffs, diff)
		return nil
	})
	if err != nil {
		t.Fatalf("ShallowDiff: %v", err)
	}
	return diffs
}

func TestDiffIdenticalTrees(t *testing.T) {
	d := testDB(t)
	tree := plantFrom(t, d, "d .", "f ./a.txt alpha", "d ./sub", "f ./sub/b.txt beta")
	if diffs := collectDiff(t, d, tree, tree); len(diffs) != 0 {
		t.Errorf("identical trees differ: %v", diffs)
	}
}

func TestDiffChangedFile(t *testing.T) {
	d := testDB(t)
	a := plantFrom(t, d, "d .", "f ./a.txt alpha", "d ./sub", "f ./sub/b.txt old")
	b := plantFrom(t, d, "d .", "f ./a.txt alpha", "d ./sub", "f ./sub/b.txt new!")

	diffs := collectDiff(t, d, a, b)
	if len(diffs) != 2 {
		t.Fatalf("diffs: got %v, want exactly one entry per side", diffs)
	}
	for _, diff := range diffs {
		if diff.Path.String() != "sub/b.txt" {
			t.Errorf("diff path: got %q, want %q", diff.Path, "sub/b.txt")
		}
	}
	if diffs[0].Side == diffs[1].Side {
		t.Errorf("both differences on side %s", diffs[0].Side)
	}
}

func TestDiffOneSidedEntryIsShallow(t *testing.T) {
	d := testDB(t)
	a := plantFrom(t, d, "d .", "f ./a.txt alpha")
	b := plantFrom(t, d,
		"d .",
		"f ./a.txt alpha",
		"d ./extra",
		"f ./extra/deep.txt deep",
	)

	diffs := collectDiff(t, d, a, b)
	if len(diffs) != 1 {
		t.Fatalf("diffs: got %v, want a single shallow entry", diffs)
	}
	diff := diffs[0]
	if diff.Side != SideB {
		t.Errorf("side: got %s, want B", diff.Side)
	}
	if diff.Path.String() != "extra" {
		t.Errorf("path: got %q, want %q (shallow, not recursed)", diff.Path, "extra")
	}
	if diff.Mode != object.TreeModeDir {
		t.Errorf("mode: got %s", diff.Mode)
	}
}

func TestDiffModeChange(t *testing.T) {
	d := testDB(t)
	a := plantFrom(t, d, "d .", "f ./tool same bytes")
	b := plantFrom(t, d, "d .", "x ./tool same bytes")

	diffs := collectDiff(t, d, a, b)
	if len(diffs) != 2 {
		t.Fatalf("diffs: got %v", diffs)
	}
	// Same shadow on both sides; only the mode moved.
	if diffs[0].Hash != diffs[1].Hash {
		t.Errorf("hashes differ across a pure mode change: %s vs %s", diffs[0].Hash, diffs[1].Hash)
	}
	modes := map[DiffSide]string{diffs[0].Side: diffs[0].Mode, diffs[1].Side: diffs[1].Mode}
	if modes[SideA] != object.TreeModeFile || modes[SideB] != object.TreeModeExecutable {
		t.Errorf("modes: %v", modes)
	}
}

func TestDiffFileBecomesDirectory(t *testing.T) {
	d := testDB(t)
	a := plantFrom(t, d, "d .", "f ./thing bytes")
	b := plantFrom(t, d, "d .", "d ./thing", "f ./thing/inner.txt bytes")

	diffs := collectDiff(t, d, a, b)
	if len(diffs) != 2 {
		t.Fatalf("diffs: got %v", diffs)
	}
	for _, diff := range diffs {
		if diff.Path.String() != "thing" {
			t.Errorf("replaced entry should report shallowly at %q, got %q", "thing", diff.Path)
		}
	}
}
