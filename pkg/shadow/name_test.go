package shadow

import (
	"errors"
	"testing"
)

func TestEntryNameRoundTrip(t *testing.T) {
	for _, c := range []string{"a", "0", "1", "00", "with space", ".hidden", "0123"} {
		encoded := EncodeComponent(c)
		if encoded == MarkerName {
			t.Errorf("EncodeComponent(%q) collides with the marker", c)
		}
		decoded, err := DecodeEntryName(encoded)
		if err != nil {
			t.Fatalf("DecodeEntryName(%q): %v", encoded, err)
		}
		got, ok := decoded.Component()
		if !ok || got != c {
			t.Errorf("round trip %q: got %q, %v", c, got, ok)
		}
	}
}

func TestDecodeMarker(t *testing.T) {
	decoded, err := DecodeEntryName(MarkerName)
	if err != nil {
		t.Fatalf("DecodeEntryName(marker): %v", err)
	}
	if !decoded.IsMarker() {
		t.Error("marker not recognized")
	}
	if _, ok := decoded.Component(); ok {
		t.Error("marker should have no component")
	}
	if decoded.Encode() != MarkerName {
		t.Errorf("marker re-encodes to %q", decoded.Encode())
	}
}

func TestDecodeReservedCollision(t *testing.T) {
	for _, raw := range []string{"", "0x", "00", "2abc", "marker"} {
		if _, err := DecodeEntryName(raw); !errors.Is(err, ErrReservedName) {
			t.Errorf("DecodeEntryName(%q): got %v, want ErrReservedName", raw, err)
		}
	}
}

func TestDecodeRejectsSeparator(t *testing.T) {
	if _, err := DecodeEntryName(EncodeComponent("a") + "/b"); !errors.Is(err, ErrInvalidPath) {
		t.Error("component with separator should fail decoding")
	}
}

func TestMarkerSortsFirst(t *testing.T) {
	// The marker must occupy the lowest sort position among all legal
	// entry names; the traversal engine depends on finding it first.
	for _, c := range []string{"", "a", "0", "\x01", "~"} {
		if encoded := EncodeComponent(c); encoded <= MarkerName {
			t.Errorf("EncodeComponent(%q) = %q sorts before the marker", c, encoded)
		}
	}
}
