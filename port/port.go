// Package port defines the static, per-filter-type declarations a graph
// node carries: its input/output ports, its parameters, and the
// constraints that bound a parameter's effective value. None of these
// types hold runtime state — they are immutable metadata consulted by the
// validation pipeline and the execution context.
package port

import "github.com/ambarahq/ambara/value"

// Direction distinguishes an input port from an output port.
type Direction int

const (
	DirectionInput Direction = iota
	DirectionOutput
)

// Port describes one named, typed input or output on a filter.
type Port struct {
	Name        string
	DisplayName string
	Direction   Direction
	Type        value.PortType
	Optional    bool
	Default     *value.Value // nil means no default
	Constraints []Constraint
	Description string
}

// HasDefault reports whether this port carries a default value — an
// unconnected, non-optional input without a default fails structural
// validation.
func (p Port) HasDefault() bool { return p.Default != nil }

// UIHint is the closed set of editor widgets a Parameter may request.
type UIHint int

const (
	HintDefault UIHint = iota
	HintSlider
	HintDropdown
	HintColorPicker
	HintFileChooser
	HintTextInput
	HintCheckbox
	HintSpinBox
	HintAngle
	HintPosition2D
)

// SliderOptions configures a Slider hint.
type SliderOptions struct {
	Log bool
}

// DropdownOptions configures a Dropdown hint.
type DropdownOptions struct {
	Options []string
}

// FileChooserOptions configures a FileChooser hint.
type FileChooserOptions struct {
	GlobFilters []string
}

// TextInputOptions configures a TextInput hint.
type TextInputOptions struct {
	Multiline   bool
	Placeholder string
}

// Parameter describes one named, typed, never-connected filter setting.
// Unlike a Port it always has a mandatory default and may carry a UI hint
// steering how an authoring surface should render it.
type Parameter struct {
	Name        string
	Type        value.PortType
	Default     value.Value
	Constraints []Constraint
	Hint        UIHint
	Slider      SliderOptions
	Dropdown    DropdownOptions
	FileChooser FileChooserOptions
	TextInput   TextInputOptions
	Group       string // optional UI grouping label
	Description string
}
