package shadow

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var ErrInvalidPath = errors.New("invalid path")

// Separator joins path components in the string form.
const Separator = "/"

// Path is an ordered sequence of components. The zero value is the root
// path (no components). The same type serves paths inside a shadow tree
// being planted and paths inside a composite bulk tree being edited; the
// invariants are identical.
type Path struct {
	components []string
}

// RootPath returns the path with zero components.
func RootPath() Path {
	return Path{}
}

// NewPath builds a path from components, validating each one.
func NewPath(components ...string) (Path, error) {
	p := Path{}
	for _, c := range components {
		if err := validateComponent(c); err != nil {
			return Path{}, err
		}
		p.components = append(p.components, c)
	}
	return p, nil
}

func validateComponent(c string) error {
	if c == "" {
		return fmt.Errorf("%w: empty component", ErrInvalidPath)
	}
	if strings.Contains(c, Separator) {
		return fmt.Errorf("%w: component %q contains separator", ErrInvalidPath, c)
	}
	return nil
}

// ParsePath parses the string form "a/b/c". The empty string is the root.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return RootPath(), nil
	}
	return NewPath(strings.Split(s, Separator)...)
}

// String renders the path back to its "a/b/c" form. The root renders as "".
func (p Path) String() string {
	return strings.Join(p.components, Separator)
}

// Components returns the component sequence. Callers must not mutate it.
func (p Path) Components() []string {
	return p.components
}

// IsRoot reports whether the path has zero components.
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Len returns the number of components.
func (p Path) Len() int {
	return len(p.components)
}

// Base returns the final component. Panics on the root path.
func (p Path) Base() string {
	return p.components[len(p.components)-1]
}

// Parent returns the path with the final component removed, and false for
// the root path.
func (p Path) Parent() (Path, bool) {
	if p.IsRoot() {
		return Path{}, false
	}
	return Path{components: p.components[:len(p.components)-1]}, true
}

// Child returns a new path extended by component. The receiver is unchanged.
func (p Path) Child(component string) Path {
	return Path{components: append(slices.Clone(p.components), component)}
}

// Equal reports component-wise equality.
func (p Path) Equal(o Path) bool {
	return slices.Equal(p.components, o.components)
}

// IsChildOf reports whether p is an immediate child of dir.
func (p Path) IsChildOf(dir Path) bool {
	if p.IsRoot() {
		return false
	}
	return slices.Equal(p.components[:len(p.components)-1], dir.components)
}

// Clone returns a path with its own backing storage, safe to retain while
// the original keeps mutating.
func (p Path) Clone() Path {
	return Path{components: slices.Clone(p.components)}
}

// Push appends a component in place. Used as the traversal accumulator;
// the component must already be validated.
func (p *Path) Push(component string) {
	p.components = append(p.components, component)
}

// Pop removes the final component in place.
func (p *Path) Pop() {
	p.components = p.components[:len(p.components)-1]
}
