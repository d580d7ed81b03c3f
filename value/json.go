package value

import (
	"encoding/json"
	"fmt"
)

// jsonColor mirrors the {r,g,b,a} wire shape for a Color Value.
type jsonColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type jsonVector2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type jsonVector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// jsonImage is the wire shape for an Image Value. Pixels are never
// serialized inline; only metadata and a file-origin path
// travel with the document.
type jsonImage struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   Format `json:"format"`
	HasAlpha bool   `json:"has_alpha"`
	Path     string `json:"path,omitempty"`
}

// envelope is the {"type": ..., "data": ...} wire shape every Value uses.
type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// MarshalJSON renders v as a tagged {"type", "data"} envelope.
func (v Value) MarshalJSON() ([]byte, error) {
	env := envelope{Type: v.kind.String()}
	var (
		data []byte
		err  error
	)
	switch v.kind {
	case KindNone:
		// no data field
	case KindInteger:
		data, err = json.Marshal(v.integer)
	case KindFloat:
		data, err = json.Marshal(v.float64)
	case KindString:
		data, err = json.Marshal(v.str)
	case KindBoolean:
		data, err = json.Marshal(v.boolean)
	case KindColor:
		data, err = json.Marshal(jsonColor{v.color.R, v.color.G, v.color.B, v.color.A})
	case KindVector2:
		data, err = json.Marshal(jsonVector2{v.vec2.X, v.vec2.Y})
	case KindVector3:
		data, err = json.Marshal(jsonVector3{v.vec3.X, v.vec3.Y, v.vec3.Z})
	case KindArray:
		data, err = json.Marshal(v.array)
	case KindMap:
		data, err = json.Marshal(v.mp)
	case KindImage:
		ji := jsonImage{}
		if v.image != nil {
			ji.Width, ji.Height = v.image.Meta.Width, v.image.Meta.Height
			ji.Format, ji.HasAlpha = v.image.Meta.Format, v.image.Meta.HasAlpha
			if v.image.Origin.Kind == OriginFilePath {
				ji.Path = v.image.Origin.Path
			}
		}
		data, err = json.Marshal(ji)
	default:
		return nil, fmt.Errorf("value: cannot marshal unknown kind %v", v.kind)
	}
	if err != nil {
		return nil, err
	}
	env.Data = data
	return json.Marshal(env)
}

// UnmarshalJSON parses a tagged {"type", "data"} envelope back into v.
func (v *Value) UnmarshalJSON(b []byte) error {
	var env envelope
	if err := json.Unmarshal(b, &env); err != nil {
		return err
	}
	switch env.Type {
	case "None", "":
		*v = None()
		return nil
	case "Integer":
		var i int64
		if err := json.Unmarshal(env.Data, &i); err != nil {
			return err
		}
		*v = NewInteger(i)
	case "Float":
		var f float64
		if err := json.Unmarshal(env.Data, &f); err != nil {
			return err
		}
		*v = NewFloat(f)
	case "String":
		var s string
		if err := json.Unmarshal(env.Data, &s); err != nil {
			return err
		}
		*v = NewString(s)
	case "Boolean":
		var bb bool
		if err := json.Unmarshal(env.Data, &bb); err != nil {
			return err
		}
		*v = NewBoolean(bb)
	case "Color":
		var c jsonColor
		if err := json.Unmarshal(env.Data, &c); err != nil {
			return err
		}
		*v = NewColor(Color{R: c.R, G: c.G, B: c.B, A: c.A})
	case "Vector2":
		var vv jsonVector2
		if err := json.Unmarshal(env.Data, &vv); err != nil {
			return err
		}
		*v = NewVector2(Vector2{X: vv.X, Y: vv.Y})
	case "Vector3":
		var vv jsonVector3
		if err := json.Unmarshal(env.Data, &vv); err != nil {
			return err
		}
		*v = NewVector3(Vector3{X: vv.X, Y: vv.Y, Z: vv.Z})
	case "Array":
		var arr []Value
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &arr); err != nil {
				return err
			}
		}
		*v = NewArray(arr)
	case "Map":
		var m map[string]Value
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &m); err != nil {
				return err
			}
		}
		*v = NewMap(m)
	case "Image":
		var ji jsonImage
		if err := json.Unmarshal(env.Data, &ji); err != nil {
			return err
		}
		origin := Origin{}
		if ji.Path != "" {
			origin = Origin{Kind: OriginFilePath, Path: ji.Path}
		}
		*v = NewImage(NewImageMeta(Metadata{
			Width: ji.Width, Height: ji.Height, Format: ji.Format, HasAlpha: ji.HasAlpha,
		}, origin))
	default:
		return fmt.Errorf("value: unknown type tag %q", env.Type)
	}
	return nil
}
