package builtin

import (
	"fmt"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/tile"
	"github.com/ambarahq/ambara/value"
)

// Grayscale converts an image to luminance-only color. Zero overlap: every output pixel depends only on the
// corresponding input pixel.
type Grayscale struct{}

// NewGrayscale constructs the grayscale filter.
func NewGrayscale() *Grayscale { return &Grayscale{} }

func (f *Grayscale) Metadata() filter.Metadata {
	return filter.Metadata{
		ID:          "grayscale",
		DisplayName: "Grayscale",
		Category:    filter.CategoryColor,
		Description: "Converts an image to grayscale by perceptual luminance.",
		Version:     "1.0.0",
		Inputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionInput, Type: value.Image},
		},
		Outputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionOutput, Type: value.Image},
		},
		SupportsProgress: true,
		Deterministic:    true,
	}
}

func (f *Grayscale) Validate(ctx *filter.ValidationContext) error {
	if _, ok := ctx.InputImage("image"); !ok {
		return filter.NewValidationError(ctx.NodeID, "image input is required")
	}
	return nil
}

// luminance computes perceptual grayscale via the Rec. 601 weights.
func luminance(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
}

func (f *Grayscale) Execute(ctx *filter.ExecutionContext) error {
	img, ok := ctx.TakeInputImage("image")
	if !ok || img == nil {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingInput)
	}

	transform := tile.PointWise(func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		l := luminance(r, g, b)
		return l, l, l, a
	})

	src := tile.NewInMemorySource(img)
	sink := tile.NewInMemorySink()
	cfg := tileConfig(ctx, tile.SpatialExtent{})
	if err := tile.Run(ctx.Context(), src, sink, cfg, memoryTracker(ctx), transform); err != nil {
		return filter.NewExecutionError(ctx.NodeID, fmt.Errorf("%w: %v", filter.ErrImageProcessing, err))
	}

	ctx.SetOutput("image", value.NewImage(sink.Finished()))
	return nil
}
