package shadow

import (
	"errors"
	"fmt"
	"strings"
)

var ErrReservedName = errors.New("reserved entry name")

// Tree-entry names are namespaced with a single prefix character so that
// the reserved marker always sorts lexicographically before every real
// entry, and so that no component can ever encode to the marker form:
//
//	"0"        the marker (points at the empty blob)
//	"1" + c    the component c
//
// The encoding is injective and total over valid components.
const (
	MarkerName      = "0"
	componentPrefix = "1"
)

// EntryName is a decoded tree-entry name: either the marker or a real
// component.
type EntryName struct {
	marker    bool
	component string
}

// MarkerEntryName returns the decoded form of the marker.
func MarkerEntryName() EntryName {
	return EntryName{marker: true}
}

// ComponentEntryName returns the decoded form of a real component.
func ComponentEntryName(component string) EntryName {
	return EntryName{component: component}
}

// IsMarker reports whether the name is the reserved marker.
func (n EntryName) IsMarker() bool {
	return n.marker
}

// Component returns the real component name, and false for the marker.
func (n EntryName) Component() (string, bool) {
	if n.marker {
		return "", false
	}
	return n.component, true
}

// Encode renders the name to its stored tree-entry form.
func (n EntryName) Encode() string {
	if n.marker {
		return MarkerName
	}
	return componentPrefix + n.component
}

// EncodeComponent is shorthand for ComponentEntryName(c).Encode().
func EncodeComponent(component string) string {
	return componentPrefix + component
}

// DecodeEntryName parses a stored tree-entry name. Names outside the
// two-prefix namespace collide with the reserved scheme and are rejected.
func DecodeEntryName(raw string) (EntryName, error) {
	if raw == MarkerName {
		return MarkerEntryName(), nil
	}
	if component, ok := strings.CutPrefix(raw, componentPrefix); ok {
		if err := validateComponent(component); err != nil {
			return EntryName{}, err
		}
		return ComponentEntryName(component), nil
	}
	return EntryName{}, fmt.Errorf("%w: %q", ErrReservedName, raw)
}
