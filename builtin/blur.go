package builtin

import (
	"context"
	"fmt"
	"math"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/tile"
	"github.com/ambarahq/ambara/value"
)

// GaussianBlur approximates a Gaussian blur with a separable box blur
// pass in each direction. Unlike grayscale/brightness this exercises
// the tile substrate's non-zero SpatialExtent overlap path: each output
// pixel reads radius-many neighbors, so a tile must be expanded before
// reading and the core region recovered afterward.
type GaussianBlur struct{}

// NewGaussianBlur constructs the gaussian_blur filter.
func NewGaussianBlur() *GaussianBlur { return &GaussianBlur{} }

func (f *GaussianBlur) Metadata() filter.Metadata {
	return filter.Metadata{
		ID:          "gaussian_blur",
		DisplayName: "Gaussian Blur",
		Category:    filter.CategoryFilterEffects,
		Description: "Blurs an image; sigma controls the effective radius.",
		Version:     "1.0.0",
		Inputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionInput, Type: value.Image},
		},
		Outputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionOutput, Type: value.Image},
		},
		Parameters: []port.Parameter{
			{
				Name:        "sigma",
				Type:        value.Float,
				Default:     value.NewFloat(1.0),
				Constraints: []port.Constraint{port.Positive(), port.Max(64)},
				Hint:        port.HintSlider,
				Description: "Standard deviation of the blur kernel, in pixels.",
			},
		},
		SupportsProgress: true,
		Deterministic:    true,
	}
}

func (f *GaussianBlur) Validate(ctx *filter.ValidationContext) error {
	if _, ok := ctx.InputImage("image"); !ok {
		return filter.NewValidationError(ctx.NodeID, "image input is required")
	}
	if sigma, ok := ctx.ParamFloat("sigma"); ok && sigma <= 0 {
		return filter.NewValidationError(ctx.NodeID, "sigma must be positive")
	}
	return nil
}

// radiusForSigma converts a Gaussian standard deviation into an
// equivalent box-blur radius (the common three-pass-box approximation
// collapses to this single-pass radius at reduced fidelity).
func radiusForSigma(sigma float64) int {
	r := int(math.Ceil(sigma * 3))
	if r < 1 {
		r = 1
	}
	return r
}

func boxBlurPass(src, dst []byte, w, h, bpp, radius int, horizontal bool) {
	var sums [4]int32
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := range sums {
				sums[c] = 0
			}
			count := 0
			if horizontal {
				for dx := -radius; dx <= radius; dx++ {
					sx := x + dx
					if sx < 0 {
						sx = 0
					} else if sx >= w {
						sx = w - 1
					}
					off := (y*w + sx) * bpp
					for c := 0; c < bpp; c++ {
						sums[c] += int32(src[off+c])
					}
					count++
				}
			} else {
				for dy := -radius; dy <= radius; dy++ {
					sy := y + dy
					if sy < 0 {
						sy = 0
					} else if sy >= h {
						sy = h - 1
					}
					off := (sy*w + x) * bpp
					for c := 0; c < bpp; c++ {
						sums[c] += int32(src[off+c])
					}
					count++
				}
			}
			off := (y*w + x) * bpp
			for c := 0; c < bpp; c++ {
				dst[off+c] = uint8(sums[c] / int32(count))
			}
		}
	}
}

func blurTransform(radius int) tile.Transform {
	return func(_ context.Context, in *tile.Buffer) (*tile.Buffer, error) {
		bpp := value.BytesPerPixel(in.Format)
		if bpp != 4 {
			return nil, fmt.Errorf("builtin: gaussian_blur requires a 4-channel format, got %s", in.Format)
		}
		w, h := in.Region.Width, in.Region.Height
		tmp := make([]byte, len(in.Pix))
		boxBlurPass(in.Pix, tmp, w, h, bpp, radius, true)

		out := tile.NewBuffer(in.Region, in.Format)
		boxBlurPass(tmp, out.Pix, w, h, bpp, radius, false)
		return out, nil
	}
}

func (f *GaussianBlur) Execute(ctx *filter.ExecutionContext) error {
	img, ok := ctx.TakeInputImage("image")
	if !ok || img == nil {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingInput)
	}
	sigma, ok := ctx.ParamFloat("sigma")
	if !ok || sigma <= 0 {
		sigma = 1.0
	}
	radius := radiusForSigma(sigma)

	src := tile.NewInMemorySource(img)
	sink := tile.NewInMemorySink()
	cfg := tileConfig(ctx, tile.Symmetric(radius))
	if err := tile.Run(ctx.Context(), src, sink, cfg, memoryTracker(ctx), blurTransform(radius)); err != nil {
		return filter.NewExecutionError(ctx.NodeID, fmt.Errorf("%w: %v", filter.ErrImageProcessing, err))
	}

	ctx.SetOutput("image", value.NewImage(sink.Finished()))
	return nil
}
