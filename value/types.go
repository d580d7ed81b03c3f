// Package value defines Value, the closed sum type every port, parameter,
// and cached output in the engine carries, plus PortType, the lattice used
// to decide whether two ports may be connected.
//
// Value is a struct with a discriminant Kind rather than an interface: the
// set of variants is closed (never extended outside this package), so a
// tagged struct avoids the allocation and type-assertion cost of boxing
// every scalar in an interface{}.
package value

import "fmt"

// Kind discriminates the variant a Value currently holds.
type Kind int

const (
	KindNone Kind = iota
	KindImage
	KindInteger
	KindFloat
	KindString
	KindBoolean
	KindColor
	KindVector2
	KindVector3
	KindArray
	KindMap
)

// String renders a Kind for diagnostics and JSON type tags.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindImage:
		return "Image"
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindColor:
		return "Color"
	case KindVector2:
		return "Vector2"
	case KindVector3:
		return "Vector3"
	case KindArray:
		return "Array"
	case KindMap:
		return "Map"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Color is an RGBA color, four 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// Vector2 is a 2-component float vector.
type Vector2 struct {
	X, Y float64
}

// Vector3 is a 3-component float vector.
type Vector3 struct {
	X, Y, Z float64
}

// Value is the closed sum type of transferable payloads that flow along
// graph connections and sit in parameter overrides. Zero value is None.
type Value struct {
	kind Kind

	integer int64
	float64 float64
	str     string
	boolean bool
	color   Color
	vec2    Vector2
	vec3    Vector3
	array   []Value
	mp      map[string]Value
	image   *Image
}

// Kind reports the variant this Value currently holds.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v is the None variant.
func (v Value) IsNone() bool { return v.kind == KindNone }

// None returns the None Value.
func None() Value { return Value{kind: KindNone} }

// NewInteger constructs an Integer Value.
func NewInteger(i int64) Value { return Value{kind: KindInteger, integer: i} }

// NewFloat constructs a Float Value.
func NewFloat(f float64) Value { return Value{kind: KindFloat, float64: f} }

// NewString constructs a String Value.
func NewString(s string) Value { return Value{kind: KindString, str: s} }

// NewBoolean constructs a Boolean Value.
func NewBoolean(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

// NewColor constructs a Color Value.
func NewColor(c Color) Value { return Value{kind: KindColor, color: c} }

// NewVector2 constructs a Vector2 Value.
func NewVector2(v Vector2) Value { return Value{kind: KindVector2, vec2: v} }

// NewVector3 constructs a Vector3 Value.
func NewVector3(v Vector3) Value { return Value{kind: KindVector3, vec3: v} }

// NewArray constructs an Array Value. The slice is retained, not copied;
// callers that mutate it afterward mutate the Value.
func NewArray(items []Value) Value { return Value{kind: KindArray, array: items} }

// NewMap constructs a Map Value. The map is retained, not copied.
func NewMap(m map[string]Value) Value { return Value{kind: KindMap, mp: m} }

// NewImage constructs an Image Value.
func NewImage(img *Image) Value { return Value{kind: KindImage, image: img} }

// AsInteger returns the integer payload and whether v held one.
func (v Value) AsInteger() (int64, bool) {
	if v.kind != KindInteger {
		return 0, false
	}
	return v.integer, true
}

// AsFloat returns the float payload, widening an Integer if necessary, per
// the implicit Integer→Float coercion rule.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.float64, true
	case KindInteger:
		return float64(v.integer), true
	default:
		return 0, false
	}
}

// AsString returns the string payload and whether v held one.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// AsBoolean returns the boolean payload and whether v held one.
func (v Value) AsBoolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.boolean, true
}

// AsColor returns the color payload and whether v held one.
func (v Value) AsColor() (Color, bool) {
	if v.kind != KindColor {
		return Color{}, false
	}
	return v.color, true
}

// AsVector2 returns the Vector2 payload and whether v held one.
func (v Value) AsVector2() (Vector2, bool) {
	if v.kind != KindVector2 {
		return Vector2{}, false
	}
	return v.vec2, true
}

// AsVector3 returns the Vector3 payload and whether v held one.
func (v Value) AsVector3() (Vector3, bool) {
	if v.kind != KindVector3 {
		return Vector3{}, false
	}
	return v.vec3, true
}

// AsArray returns the array payload and whether v held one.
func (v Value) AsArray() ([]Value, bool) {
	if v.kind != KindArray {
		return nil, false
	}
	return v.array, true
}

// AsMap returns the map payload and whether v held one.
func (v Value) AsMap() (map[string]Value, bool) {
	if v.kind != KindMap {
		return nil, false
	}
	return v.mp, true
}

// AsImage returns the image payload and whether v held one.
func (v Value) AsImage() (*Image, bool) {
	if v.kind != KindImage {
		return nil, false
	}
	return v.image, true
}
