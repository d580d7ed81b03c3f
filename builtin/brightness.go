package builtin

import (
	"fmt"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/tile"
	"github.com/ambarahq/ambara/value"
)

// Brightness applies an additive brightness adjustment in [-1, 1]
//. Zero overlap, point-wise.
type Brightness struct{}

// NewBrightness constructs the brightness filter.
func NewBrightness() *Brightness { return &Brightness{} }

func (f *Brightness) Metadata() filter.Metadata {
	return filter.Metadata{
		ID:          "brightness",
		DisplayName: "Brightness",
		Category:    filter.CategoryColor,
		Description: "Adjusts image brightness by an additive factor.",
		Version:     "1.0.0",
		Inputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionInput, Type: value.Image},
		},
		Outputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionOutput, Type: value.Image},
		},
		Parameters: []port.Parameter{
			{
				Name:        "amount",
				Type:        value.Float,
				Default:     value.NewFloat(0),
				Constraints: []port.Constraint{port.Range(-1, 1)},
				Hint:        port.HintSlider,
				Description: "Brightness delta in [-1, 1]; 0 leaves the image unchanged.",
			},
		},
		SupportsProgress: true,
		Deterministic:    true,
	}
}

func (f *Brightness) Validate(ctx *filter.ValidationContext) error {
	if _, ok := ctx.InputImage("image"); !ok {
		return filter.NewValidationError(ctx.NodeID, "image input is required")
	}
	return nil
}

func clampByte(v int32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func (f *Brightness) Execute(ctx *filter.ExecutionContext) error {
	img, ok := ctx.TakeInputImage("image")
	if !ok || img == nil {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingInput)
	}
	amount, _ := ctx.ParamFloat("amount")
	delta := int32(amount * 255)

	transform := tile.PointWise(func(r, g, b, a uint8) (uint8, uint8, uint8, uint8) {
		return clampByte(int32(r) + delta), clampByte(int32(g) + delta), clampByte(int32(b) + delta), a
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
