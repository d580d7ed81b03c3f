package validate

import (
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/value"
)

// placeholderFor builds a typed stand-in value for a connected input port
// during the Custom stage: a typed zero for numbers, a 1920x1080
// PNG-with-alpha for images, empty for strings/arrays/maps, and so on.
func placeholderFor(t value.PortType) value.Value {
	switch t.Kind {
	case value.PortImage:
		meta := value.Metadata{Width: 1920, Height: 1080, Format: value.FormatRGBA8, HasAlpha: true}
		return value.NewImage(value.NewImageMeta(meta, value.Origin{Kind: value.OriginNone}))
	case value.PortInteger:
		return value.NewInteger(0)
	case value.PortFloat:
		return value.NewFloat(0)
	case value.PortString:
		return value.NewString("")
	case value.PortBoolean:
		return value.NewBoolean(false)
	case value.PortColor:
		return value.NewColor(value.Color{})
	case value.PortVector2:
		return value.NewVector2(value.Vector2{})
	case value.PortVector3:
		return value.NewVector3(value.Vector3{})
	case value.PortArray:
		return value.NewArray(nil)
	case value.PortMap:
		return value.NewMap(nil)
	default:
		return value.None()
	}
}

// effectiveParameters resolves every declared parameter of a node's
// filter to its effective value (override or default), by name.
func effectiveParameters(params []port.Parameter, resolve func(name string) (value.Value, bool)) map[string]value.Value {
	out := make(map[string]value.Value, len(params))
	for _, p := range params {
		if v, ok := resolve(p.Name); ok {
			out[p.Name] = v
			continue
		}
		out[p.Name] = p.Default
	}
	return out
}
