// Package filter defines the three-method contract a pixel/value
// transformation implements (Metadata, Validate, Execute), plus the two
// context types the scheduler and validation pipeline build to drive it.
//
// Filter implementations themselves are immutable per graph instance:
// the same Filter value may back multiple graph nodes and must
// not accumulate mutable state across Execute calls other than what
// Reset explicitly clears between batch runs.
package filter

import "github.com/ambarahq/ambara/port"

// Category is the closed set of catalog groupings a filter belongs to.
type Category int

const (
	CategoryIO Category = iota
	CategoryColor
	CategoryTransform
	CategoryFilterEffects
	CategoryComposite
	CategoryMath
	CategoryUtility
)

// String renders a Category for diagnostics and UI grouping.
func (c Category) String() string {
	switch c {
	case CategoryIO:
		return "IO"
	case CategoryColor:
		return "Color"
	case CategoryTransform:
		return "Transform"
	case CategoryFilterEffects:
		return "FilterEffects"
	case CategoryComposite:
		return "Composite"
	case CategoryMath:
		return "Math"
	case CategoryUtility:
		return "Utility"
	default:
		return "Unknown"
	}
}

// Metadata is the immutable, per-filter-type description every instance
// of a given filter id shares.
type Metadata struct {
	ID              string
	DisplayName     string
	Category        Category
	Description     string
	Version         string
	Author          string
	Inputs          []port.Port
	Outputs         []port.Port
	Parameters      []port.Parameter
	Tags            []string
	ColorHint       string
	SupportsProgress bool
	Deterministic    bool
}

// InputPort looks up an input port definition by name.
func (m Metadata) InputPort(name string) (port.Port, bool) {
	for _, p := range m.Inputs {
		if p.Name == name {
			return p, true
		}
	}
	return port.Port{}, false
}

// OutputPort looks up an output port definition by name.
func (m Metadata) OutputPort(name string) (port.Port, bool) {
	for _, p := range m.Outputs {
		if p.Name == name {
			return p, true
		}
	}
	return port.Port{}, false
}

// Parameter looks up a parameter definition by name.
func (m Metadata) Parameter(name string) (port.Parameter, bool) {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return port.Parameter{}, false
}
