package db

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/husk/pkg/object"
	"github.com/odvcencio/husk/pkg/shadow"
	"github.com/odvcencio/husk/pkg/snapshot"
	"github.com/odvcencio/husk/pkg/substance"
)

func TestPlantIsDeterministic(t *testing.T) {
	d := testDB(t)
	specs := []string{
		"d .",
		"f ./a.txt alpha",
		"d ./sub",
		"f ./sub/b.txt beta",
	}
	first := plantFrom(t, d, specs...)
	second := plantFrom(t, d, specs...)
	if first != second {
		t.Errorf("same scan planted to different addresses: %s vs %s", first, second)
	}
}

func TestPlantRecordsShadows(t *testing.T) {
	d := testDB(t)
	tree := plantFrom(t, d,
		"d .",
		"f ./a.txt alpha",
		"d ./sub",
		"f ./sub/b.txt longer content here",
	)

	got := make(map[string]shadow.Shadow)
	err := d.UniqueShadows(tree, func(p shadow.Path, sh shadow.Shadow) error {
		got[p.String()] = sh
		return nil
	})
	if err != nil {
		t.Fatalf("UniqueShadows: %v", err)
	}

	want := map[string]shadow.Shadow{
		"a.txt":     {ContentHash: shadow.ContentHash(digestOf("alpha")), Size: 5},
		"sub/b.txt": {ContentHash: shadow.ContentHash(digestOf("longer content here")), Size: 19},
	}
	if len(got) != len(want) {
		t.Fatalf("shadows: got %v", got)
	}
	for p, sh := range want {
		if got[p] != sh {
			t.Errorf("shadow at %q: got %+v, want %+v", p, got[p], sh)
		}
	}
}

func TestPlantSharesIdenticalSubtrees(t *testing.T) {
	d := testDB(t)
	tree := plantFrom(t, d,
		"d .",
		"d ./x",
		"f ./x/f.txt same bytes",
		"d ./y",
		"f ./y/f.txt same bytes",
	)

	tr, err := d.Store.ReadTree(tree)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	hashX, okX := tr.Lookup(shadow.EncodeComponent("x"))
	hashY, okY := tr.Lookup(shadow.EncodeComponent("y"))
	if !okX || !okY {
		t.Fatalf("root entries missing: %+v", tr.Entries)
	}
	if hashX.Hash != hashY.Hash {
		t.Errorf("identical subtrees have different addresses: %s vs %s", hashX.Hash, hashY.Hash)
	}

	seen := 0
	err = d.UniqueShadows(tree, func(shadow.Path, shadow.Shadow) error {
		seen++
		return nil
	})
	if err != nil {
		t.Fatalf("UniqueShadows: %v", err)
	}
	if seen != 1 {
		t.Errorf("unique shadows: got %d, want 1", seen)
	}
}

func TestPlantRootOnly(t *testing.T) {
	d := testDB(t)
	tree := plantFrom(t, d, "d .")

	tr, err := d.Store.ReadTree(tree)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(tr.Entries) != 1 || tr.Entries[0].Name != shadow.MarkerName {
		t.Errorf("empty subject should plant a marker-only tree, got %+v", tr.Entries)
	}
	if err := d.Check(tree); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func TestPlantRejectsNonRootFirstEntry(t *testing.T) {
	d := testDB(t)
	nodes, digests := scanStreams("f ./a.txt hi")
	entries := snapshot.NewEntries(strings.NewReader(nodes), strings.NewReader(digests))
	if _, _, err := d.PlantEntries(entries); err == nil {
		t.Error("planting a sequence that does not start at the root should fail")
	}
}

func TestPlantRejectsOrphanEntry(t *testing.T) {
	d := testDB(t)
	// ./a/b.txt has no ./a directory record, so it cannot hang off the root.
	nodes, digests := scanStreams("d .", "f ./a/b.txt hi")
	entries := snapshot.NewEntries(strings.NewReader(nodes), strings.NewReader(digests))
	if _, _, err := d.PlantEntries(entries); err == nil {
		t.Error("planting with an unreachable entry should fail")
	}
}

func TestPlantRejectsEmptySequence(t *testing.T) {
	d := testDB(t)
	entries := snapshot.NewEntries(strings.NewReader(""), strings.NewReader(""))
	if _, _, err := d.PlantEntries(entries); err == nil {
		t.Error("planting an empty sequence should fail")
	}
}

func TestPlantSnapshotAndStoreSubstance(t *testing.T) {
	d := testDB(t)

	subject := t.TempDir()
	if err := os.WriteFile(filepath.Join(subject, "a.txt"), []byte("alpha\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(subject, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(subject, "sub", "b.txt"), []byte("beta\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := snapshot.New(filepath.Join(t.TempDir(), "snap"))
	if err := snap.Take(subject); err != nil {
		t.Fatalf("Take: %v", err)
	}

	mode, tree, err := d.PlantSnapshot(snap)
	if err != nil {
		t.Fatalf("PlantSnapshot: %v", err)
	}
	if mode != object.TreeModeDir {
		t.Errorf("plant mode: got %s", mode)
	}
	if err := d.Check(tree); err != nil {
		t.Fatalf("Check: %v", err)
	}

	sub := substance.New(t.TempDir())
	if err := d.StoreSnapshot(sub, tree, subject); err != nil {
		t.Fatalf("StoreSnapshot: %v", err)
	}
	err = d.UniqueShadows(tree, func(p shadow.Path, sh shadow.Shadow) error {
		if !sub.HaveBlob(sh.ContentHash) {
			t.Errorf("substance is missing blob for %q", p)
		}
		return sub.CheckBlob(sh.ContentHash)
	})
	if err != nil {
		t.Fatalf("verify substance: %v", err)
	}
}
