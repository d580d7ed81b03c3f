package port

import (
	"fmt"
	"strings"

	"github.com/ambarahq/ambara/value"
)

// ConstraintKind discriminates the closed set of constraint variants.
type ConstraintKind int

const (
	ConstraintRange ConstraintKind = iota
	ConstraintMin
	ConstraintMax
	ConstraintStep
	ConstraintMinLength
	ConstraintMaxLength
	ConstraintPattern
	ConstraintNotEmpty
	ConstraintImageMinDimensions
	ConstraintImageMaxDimensions
	ConstraintImageAspectRatio
	ConstraintImageFormat
	ConstraintImageRequiresAlpha
	ConstraintOneOf
	ConstraintPositive
	ConstraintNonNegative
	ConstraintCustom
)

// CustomPredicate is the opaque validation function a Custom constraint
// wraps. It returns a human reason on failure, or "" on success.
type CustomPredicate func(v value.Value) (reason string)

// Constraint is a tagged variant bounding the legal values of a Port or
// Parameter. Each knows how to validate a Value and describe itself.
type Constraint struct {
	Kind ConstraintKind

	Min, Max float64
	Step     float64

	MinLength, MaxLength int
	Pattern              string

	ImgMinW, ImgMinH int
	ImgMaxW, ImgMaxH int
	AspectRatio      float64
	AspectEpsilon    float64
	AllowedFormats   []value.Format

	OneOf []value.Value

	CustomName string
	CustomDesc string
	CustomFn   CustomPredicate
}

// Range constructs a Range(min, max) constraint.
func Range(min, max float64) Constraint {
	return Constraint{Kind: ConstraintRange, Min: min, Max: max}
}

// Min constructs a Min(min) constraint.
func Min(min float64) Constraint { return Constraint{Kind: ConstraintMin, Min: min} }

// Max constructs a Max(max) constraint.
func Max(max float64) Constraint { return Constraint{Kind: ConstraintMax, Max: max} }

// Step constructs a Step(step) constraint.
func Step(step float64) Constraint { return Constraint{Kind: ConstraintStep, Step: step} }

// MinLength constructs a MinLength(n) constraint (strings/arrays).
func MinLength(n int) Constraint { return Constraint{Kind: ConstraintMinLength, MinLength: n} }

// MaxLength constructs a MaxLength(n) constraint (strings/arrays).
func MaxLength(n int) Constraint { return Constraint{Kind: ConstraintMaxLength, MaxLength: n} }

// Pattern constructs a Pattern(substring) constraint — a plain substring
// match, not a full regular expression.
func Pattern(substr string) Constraint { return Constraint{Kind: ConstraintPattern, Pattern: substr} }

// NotEmpty constructs a NotEmpty constraint.
func NotEmpty() Constraint { return Constraint{Kind: ConstraintNotEmpty} }

// ImageMinDimensions constructs an ImageMinDimensions(w, h) constraint.
func ImageMinDimensions(w, h int) Constraint {
	return Constraint{Kind: ConstraintImageMinDimensions, ImgMinW: w, ImgMinH: h}
}

// ImageMaxDimensions constructs an ImageMaxDimensions(w, h) constraint.
func ImageMaxDimensions(w, h int) Constraint {
	return Constraint{Kind: ConstraintImageMaxDimensions, ImgMaxW: w, ImgMaxH: h}
}

// ImageAspectRatio constructs an ImageAspectRatio(r, epsilon) constraint.
func ImageAspectRatio(r, epsilon float64) Constraint {
	return Constraint{Kind: ConstraintImageAspectRatio, AspectRatio: r, AspectEpsilon: epsilon}
}

// ImageFormat constructs an ImageFormat(allowed) constraint.
func ImageFormat(allowed ...value.Format) Constraint {
	return Constraint{Kind: ConstraintImageFormat, AllowedFormats: allowed}
}

// ImageRequiresAlpha constructs an ImageRequiresAlpha constraint.
func ImageRequiresAlpha() Constraint { return Constraint{Kind: ConstraintImageRequiresAlpha} }

// OneOf constructs a OneOf(set) constraint.
func OneOf(set ...value.Value) Constraint { return Constraint{Kind: ConstraintOneOf, OneOf: set} }

// Positive constructs a Positive (> 0) constraint.
func Positive() Constraint { return Constraint{Kind: ConstraintPositive} }

// NonNegative constructs a NonNegative (>= 0) constraint.
func NonNegative() Constraint { return Constraint{Kind: ConstraintNonNegative} }

// Custom wraps an opaque predicate as a Constraint.
func Custom(name, description string, fn CustomPredicate) Constraint {
	return Constraint{Kind: ConstraintCustom, CustomName: name, CustomDesc: description, CustomFn: fn}
}

// Validate checks v against the constraint, returning "" when v satisfies
// it or a human-readable reason when it does not.
func (c Constraint) Validate(v value.Value) string {
	switch c.Kind {
	case ConstraintRange:
		f, ok := v.AsFloat()
		if !ok {
			return "value is not numeric"
		}
		if f < c.Min || f > c.Max {
			return fmt.Sprintf("value %v out of range [%v, %v]", f, c.Min, c.Max)
		}
	case ConstraintMin:
		f, ok := v.AsFloat()
		if !ok {
			return "value is not numeric"
		}
		if f < c.Min {
			return fmt.Sprintf("value %v below minimum %v", f, c.Min)
		}
	case ConstraintMax:
		f, ok := v.AsFloat()
		if !ok {
			return "value is not numeric"
		}
		if f > c.Max {
			return fmt.Sprintf("value %v above maximum %v", f, c.Max)
		}
	case ConstraintStep:
		f, ok := v.AsFloat()
		if !ok || c.Step <= 0 {
			return "value is not numeric"
		}
		ratio := f / c.Step
		if ratio-float64(int64(ratio+0.5)) > 1e-9 || ratio-float64(int64(ratio+0.5)) < -1e-9 {
			return fmt.Sprintf("value %v is not a multiple of step %v", f, c.Step)
		}
	case ConstraintMinLength:
		n, ok := lengthOf(v)
		if !ok || n < c.MinLength {
			return fmt.Sprintf("length below minimum %d", c.MinLength)
		}
	case ConstraintMaxLength:
		n, ok := lengthOf(v)
		if !ok || n > c.MaxLength {
			return fmt.Sprintf("length above maximum %d", c.MaxLength)
		}
	case ConstraintPattern:
		s, ok := v.AsString()
		if !ok || !strings.Contains(s, c.Pattern) {
			return fmt.Sprintf("value does not contain %q", c.Pattern)
		}
	case ConstraintNotEmpty:
		n, ok := lengthOf(v)
		if !ok || n == 0 {
			return "value must not be empty"
		}
	case ConstraintImageMinDimensions:
		img, ok := v.AsImage()
		if !ok || img == nil {
			return "value is not an image"
		}
		if img.Meta.Width < c.ImgMinW || img.Meta.Height < c.ImgMinH {
			return fmt.Sprintf("image %dx%d smaller than minimum %dx%d", img.Meta.Width, img.Meta.Height, c.ImgMinW, c.ImgMinH)
		}
	case ConstraintImageMaxDimensions:
		img, ok := v.AsImage()
		if !ok || img == nil {
			return "value is not an image"
		}
		if img.Meta.Width > c.ImgMaxW || img.Meta.Height > c.ImgMaxH {
			return fmt.Sprintf("image %dx%d larger than maximum %dx%d", img.Meta.Width, img.Meta.Height, c.ImgMaxW, c.ImgMaxH)
		}
	case ConstraintImageAspectRatio:
		img, ok := v.AsImage()
		if !ok || img == nil || img.Meta.Height == 0 {
			return "value is not an image"
		}
		ratio := float64(img.Meta.Width) / float64(img.Meta.Height)
		if diff := ratio - c.AspectRatio; diff > c.AspectEpsilon || diff < -c.AspectEpsilon {
			return fmt.Sprintf("aspect ratio %.4f outside %.4f±%.4f", ratio, c.AspectRatio, c.AspectEpsilon)
		}
	case ConstraintImageFormat:
		img, ok := v.AsImage()
		if !ok || img == nil {
			return "value is not an image"
		}
		for _, f := range c.AllowedFormats {
			if f == img.Meta.Format {
				return ""
			}
		}
		return fmt.Sprintf("image format %q not in allowed set", img.Meta.Format)
	case ConstraintImageRequiresAlpha:
		img, ok := v.AsImage()
		if !ok || img == nil || !img.Meta.HasAlpha {
			return "image does not have an alpha channel"
		}
	case ConstraintOneOf:
		for _, allowed := range c.OneOf {
			if valuesEqual(v, allowed) {
				return ""
			}
		}
		return "value is not one of the allowed options"
	case ConstraintPositive:
		f, ok := v.AsFloat()
		if !ok || f <= 0 {
			return "value must be positive"
		}
	case ConstraintNonNegative:
		f, ok := v.AsFloat()
		if !ok || f < 0 {
			return "value must be non-negative"
		}
	case ConstraintCustom:
		if c.CustomFn != nil {
			return c.CustomFn(v)
		}
	}
	return ""
}

// Describe returns a human-readable description of the constraint.
func (c Constraint) Describe() string {
	switch c.Kind {
	case ConstraintRange:
		return fmt.Sprintf("must be between %v and %v", c.Min, c.Max)
	case ConstraintMin:
		return fmt.Sprintf("must be at least %v", c.Min)
	case ConstraintMax:
		return fmt.Sprintf("must be at most %v", c.Max)
	case ConstraintStep:
		return fmt.Sprintf("must be a multiple of %v", c.Step)
	case ConstraintMinLength:
		return fmt.Sprintf("must have length at least %d", c.MinLength)
	case ConstraintMaxLength:
		return fmt.Sprintf("must have length at most %d", c.MaxLength)
	case ConstraintPattern:
		return fmt.Sprintf("must contain %q", c.Pattern)
	case ConstraintNotEmpty:
		return "must not be empty"
	case ConstraintImageMinDimensions:
		return fmt.Sprintf("image must be at least %dx%d", c.ImgMinW, c.ImgMinH)
	case ConstraintImageMaxDimensions:
		return fmt.Sprintf("image must be at most %dx%d", c.ImgMaxW, c.ImgMaxH)
	case ConstraintImageAspectRatio:
		return fmt.Sprintf("image aspect ratio must be %.4f ± %.4f", c.AspectRatio, c.AspectEpsilon)
	case ConstraintImageFormat:
		return fmt.Sprintf("image format must be one of %v", c.AllowedFormats)
	case ConstraintImageRequiresAlpha:
		return "image must have an alpha channel"
	case ConstraintOneOf:
		return "value must be one of the allowed options"
	case ConstraintPositive:
		return "must be positive"
	case ConstraintNonNegative:
		return "must be non-negative"
	case ConstraintCustom:
		return c.CustomDesc
	default:
		return "unknown constraint"
	}
}

func lengthOf(v value.Value) (int, bool) {
	switch v.Kind() {
	case value.KindString:
		s, _ := v.AsString()
		return len(s), true
	case value.KindArray:
		a, _ := v.AsArray()
		return len(a), true
	case value.KindMap:
		m, _ := v.AsMap()
		return len(m), true
	default:
		return 0, false
	}
}

func valuesEqual(a, b value.Value) bool {
	return value.Digest(a) == value.Digest(b) && a.Kind() == b.Kind()
}
