package value

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortTypeCompatibility(t *testing.T) {
	cases := []struct {
		name       string
		from, to   PortType
		compatible bool
	}{
		{"any accepts everything", Any, Integer, true},
		{"everything flows into any", Integer, Any, true},
		{"integer widens to float", Integer, Float, true},
		{"float does not narrow to integer", Float, Integer, false},
		{"exact match", String, String, true},
		{"mismatch", String, Image, false},
		{"array covariance ok", ArrayOf(Integer), ArrayOf(Float), true},
		{"array covariance mismatch", ArrayOf(Integer), ArrayOf(String), false},
		{"map covariance ok", MapOf(Integer), MapOf(Float), true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.compatible, c.from.CompatibleWith(c.to))
		})
	}
}

func TestValueAsFloatWidensInteger(t *testing.T) {
	v := NewInteger(7)
	f, ok := v.AsFloat()
	require.True(t, ok)
	assert.Equal(t, 7.0, f)
}

func TestDigestStableAcrossCalls(t *testing.T) {
	a := NewMap(map[string]Value{"b": NewInteger(2), "a": NewString("x")})
	b := NewMap(map[string]Value{"a": NewString("x"), "b": NewInteger(2)})
	assert.Equal(t, Digest(a), Digest(b), "map digest must be order-independent")
}

func TestDigestDistinguishesValues(t *testing.T) {
	assert.NotEqual(t, Digest(NewInteger(1)), Digest(NewInteger(2)))
	assert.NotEqual(t, Digest(NewInteger(1)), Digest(NewFloat(1)))
}

func TestDigestImageIgnoresPixels(t *testing.T) {
	metaOnly := NewImage(NewImageMeta(Metadata{Width: 4, Height: 4}, Origin{}))
	withPixels := NewImage(NewImagePixels(Metadata{Width: 4, Height: 4}, Origin{}, make([]byte, 64)))
	assert.Equal(t, Digest(metaOnly), Digest(withPixels))
}

func TestImageCloneForWriteCopiesWhenShared(t *testing.T) {
	img := NewImagePixels(Metadata{Width: 2, Height: 1}, Origin{}, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	shared := img.Share()
	defer func() { _ = shared }()

	cloned := img.CloneForWrite()
	require.NotNil(t, cloned)
	cloned.Pixels()[0] = 99
	assert.NotEqual(t, img.Pixels()[0], cloned.Pixels()[0], "clone-on-write must not mutate the shared buffer")
}

func TestImageCloneForWriteNoopWhenExclusive(t *testing.T) {
	img := NewImagePixels(Metadata{Width: 1, Height: 1}, Origin{}, []byte{1, 2, 3, 4})
	cloned := img.CloneForWrite()
	assert.Same(t, img, cloned)
}

func TestValueJSONRoundTrip(t *testing.T) {
	values := []Value{
		None(),
		NewInteger(42),
		NewFloat(3.5),
		NewString("hello"),
		NewBoolean(true),
		NewColor(Color{R: 1, G: 2, B: 3, A: 4}),
		NewVector2(Vector2{X: 1, Y: 2}),
		NewVector3(Vector3{X: 1, Y: 2, Z: 3}),
		NewArray([]Value{NewInteger(1), NewString("x")}),
		NewMap(map[string]Value{"k": NewInteger(5)}),
		NewImage(NewImageMeta(Metadata{Width: 10, Height: 20, Format: FormatRGBA8, HasAlpha: true}, Origin{Kind: OriginFilePath, Path: "img.png"})),
	}
	for _, v := range values {
		b, err := json.Marshal(v)
		require.NoError(t, err)

		var out Value
		require.NoError(t, json.Unmarshal(b, &out))
		assert.Equal(t, v.Kind(), out.Kind())
	}
}

func TestValueJSONTaggedShape(t *testing.T) {
	b, err := json.Marshal(NewInteger(42))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"Integer","data":42}`, string(b))
}
