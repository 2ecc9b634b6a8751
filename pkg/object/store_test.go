package object

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	return NewStore(dir)
}

func TestHashBytesDeterminism(t *testing.T) {
	data := []byte("hello world")
	h1 := HashBytes(data)
	h2 := HashBytes(data)
	if h1 != h2 {
		t.Errorf("HashBytes not deterministic: %q != %q", h1, h2)
	}
	if len(h1) != 64 {
		t.Errorf("Hash length: got %d, want 64", len(h1))
	}
}

func TestHashObjectEnvelope(t *testing.T) {
	data := []byte("hello")
	h1 := HashObject(TypeBlob, data)
	h2 := HashBytes(data)
	if h1 == h2 {
		t.Error("HashObject should differ from HashBytes due to envelope")
	}

	// Same type+data => same hash
	h3 := HashObject(TypeBlob, data)
	if h1 != h3 {
		t.Error("HashObject not deterministic")
	}

	// Different type => different hash
	h4 := HashObject(TypeTree, data)
	if h1 == h4 {
		t.Error("Different types should produce different hashes")
	}
}

func TestHashValid(t *testing.T) {
	if !HashBytes([]byte("x")).Valid() {
		t.Error("computed hash should be valid")
	}
	for _, h := range []Hash{"", "abc", Hash(strings.Repeat("G", 64)), Hash(strings.Repeat("A", 64))} {
		if h.Valid() {
			t.Errorf("Hash(%q).Valid() should be false", h)
		}
	}
}

func TestStoreWriteRead(t *testing.T) {
	s := tempStore(t)
	data := []byte("hello world")
	h, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(h) != 64 {
		t.Errorf("Hash length: got %d, want 64", len(h))
	}

	gotType, gotData, err := s.Read(h)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if gotType != TypeBlob {
		t.Errorf("Type: got %q, want %q", gotType, TypeBlob)
	}
	if !bytes.Equal(gotData, data) {
		t.Errorf("Data: got %q, want %q", gotData, data)
	}
}

func TestStoreHas(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("exists"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !s.Has(h) {
		t.Error("Has returned false for existing object")
	}
	if s.Has(Hash(strings.Repeat("0", 64))) {
		t.Error("Has returned true for non-existing object")
	}
}

func TestStoreFanoutLayout(t *testing.T) {
	s := tempStore(t)
	h, err := s.Write(TypeBlob, []byte("fanout test"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	objPath := filepath.Join(s.root, "objects", string(h[:2]), string(h[2:]))
	if _, err := os.Stat(objPath); os.IsNotExist(err) {
		t.Errorf("Expected fan-out file at %s", objPath)
	}
}

func TestStoreDuplicateWrite(t *testing.T) {
	s := tempStore(t)
	data := []byte("duplicate")
	h1, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 1: %v", err)
	}
	h2, err := s.Write(TypeBlob, data)
	if err != nil {
		t.Fatalf("Write 2: %v", err)
	}
	if h1 != h2 {
		t.Errorf("Same content produced different hashes: %q vs %q", h1, h2)
	}
}

func TestStoreReadMissing(t *testing.T) {
	s := tempStore(t)
	if _, _, err := s.Read(Hash(strings.Repeat("0", 64))); err == nil {
		t.Error("Read of missing object should return error")
	}
}

func TestStoreTypeMismatch(t *testing.T) {
	s := tempStore(t)
	h, err := s.WriteBlob(&Blob{Data: []byte("not a tree")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	if _, err := s.ReadTree(h); err == nil {
		t.Error("ReadTree of a blob should fail")
	}
	if _, err := s.ReadCommit(h); err == nil {
		t.Error("ReadCommit of a blob should fail")
	}
}

func TestStoreEmptyTreeRejected(t *testing.T) {
	s := tempStore(t)
	if _, err := s.WriteTree(&TreeObj{}); err == nil {
		t.Error("WriteTree of an empty tree should fail")
	}
}

func TestStoreWriteReadTree(t *testing.T) {
	s := tempStore(t)
	blobHash, err := s.WriteBlob(&Blob{Data: []byte("leaf")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	orig := &TreeObj{Entries: []TreeEntry{
		{Name: "1b with space", Mode: TreeModeExecutable, Hash: blobHash},
		{Name: "0", Mode: TreeModeFile, Hash: blobHash},
		{Name: "1a", Mode: TreeModeSymlink, Hash: blobHash},
	}}
	h, err := s.WriteTree(orig)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	got, err := s.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	// Entries come back in sorted order.
	wantNames := []string{"0", "1a", "1b with space"}
	if len(got.Entries) != len(wantNames) {
		t.Fatalf("Entries: got %d, want %d", len(got.Entries), len(wantNames))
	}
	for i, name := range wantNames {
		if got.Entries[i].Name != name {
			t.Errorf("Entries[%d].Name: got %q, want %q", i, got.Entries[i].Name, name)
		}
	}
}

func TestTreeHashIgnoresInsertionOrder(t *testing.T) {
	s := tempStore(t)
	blobHash, err := s.WriteBlob(&Blob{Data: []byte("x")})
	if err != nil {
		t.Fatalf("WriteBlob: %v", err)
	}
	a := &TreeObj{Entries: []TreeEntry{
		{Name: "1a", Mode: TreeModeFile, Hash: blobHash},
		{Name: "1b", Mode: TreeModeFile, Hash: blobHash},
	}}
	b := &TreeObj{Entries: []TreeEntry{
		{Name: "1b", Mode: TreeModeFile, Hash: blobHash},
		{Name: "1a", Mode: TreeModeFile, Hash: blobHash},
	}}
	ha, err := s.WriteTree(a)
	if err != nil {
		t.Fatalf("WriteTree a: %v", err)
	}
	hb, err := s.WriteTree(b)
	if err != nil {
		t.Fatalf("WriteTree b: %v", err)
	}
	if ha != hb {
		t.Errorf("Insertion order changed the address: %q vs %q", ha, hb)
	}
}

func TestUnmarshalTreeRejectsBadMode(t *testing.T) {
	if _, err := UnmarshalTree([]byte("123456 " + strings.Repeat("a", 64) + " name\x00")); err == nil {
		t.Error("unknown mode should fail")
	}
}

func TestStoreWriteReadCommit(t *testing.T) {
	s := tempStore(t)
	orig := &CommitObj{
		TreeHash:  Hash(strings.Repeat("a", 64)),
		Parents:   []Hash{Hash(strings.Repeat("b", 64))},
		Author:    "husk",
		Timestamp: 1700000000,
		Message:   "snapshot x/y\n\nwith body",
	}
	h, err := s.WriteCommit(orig)
	if err != nil {
		t.Fatalf("WriteCommit: %v", err)
	}
	got, err := s.ReadCommit(h)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if got.TreeHash != orig.TreeHash || got.Author != orig.Author ||
		got.Timestamp != orig.Timestamp || got.Message != orig.Message {
		t.Errorf("Commit round-trip mismatch: %+v", got)
	}
	if len(got.Parents) != 1 || got.Parents[0] != orig.Parents[0] {
		t.Errorf("Parents round-trip mismatch: %v", got.Parents)
	}
}
