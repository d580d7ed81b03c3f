package port

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ambarahq/ambara/value"
)

func TestRangeConstraint(t *testing.T) {
	c := Range(0, 10)
	assert.Equal(t, "", c.Validate(value.NewFloat(5)))
	assert.NotEqual(t, "", c.Validate(value.NewFloat(15)))
}

func TestPositiveConstraint(t *testing.T) {
	c := Positive()
	assert.Equal(t, "", c.Validate(value.NewInteger(1)))
	assert.NotEqual(t, "", c.Validate(value.NewInteger(0)))
	assert.NotEqual(t, "", c.Validate(value.NewInteger(-1)))
}

func TestImageMinDimensions(t *testing.T) {
	c := ImageMinDimensions(100, 100)
	small := value.NewImage(value.NewImageMeta(value.Metadata{Width: 50, Height: 50}, value.Origin{}))
	big := value.NewImage(value.NewImageMeta(value.Metadata{Width: 200, Height: 200}, value.Origin{}))
	assert.NotEqual(t, "", c.Validate(small))
	assert.Equal(t, "", c.Validate(big))
}

func TestOneOfConstraint(t *testing.T) {
	c := OneOf(value.NewString("a"), value.NewString("b"))
	assert.Equal(t, "", c.Validate(value.NewString("a")))
	assert.NotEqual(t, "", c.Validate(value.NewString("c")))
}

func TestCustomConstraint(t *testing.T) {
	c := Custom("even", "must be even", func(v value.Value) string {
		i, ok := v.AsInteger()
		if !ok || i%2 != 0 {
			return "not even"
		}
		return ""
	})
	assert.Equal(t, "", c.Validate(value.NewInteger(4)))
	assert.NotEqual(t, "", c.Validate(value.NewInteger(3)))
}

func TestNotEmptyConstraint(t *testing.T) {
	c := NotEmpty()
	assert.NotEqual(t, "", c.Validate(value.NewString("")))
	assert.Equal(t, "", c.Validate(value.NewString("x")))
}
