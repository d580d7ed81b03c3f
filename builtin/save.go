package builtin

import (
	"fmt"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/tile"
	"github.com/ambarahq/ambara/value"
)

// Save writes the graph's terminal image to disk.
type Save struct{}

// NewSave constructs the save filter.
func NewSave() *Save { return &Save{} }

func (f *Save) Metadata() filter.Metadata {
	return filter.Metadata{
		ID:          "save",
		DisplayName: "Save Image",
		Category:    filter.CategoryIO,
		Description: "Writes an image to disk as PNG or JPEG.",
		Version:     "1.0.0",
		Inputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionInput, Type: value.Image},
		},
		Parameters: []port.Parameter{
			{
				Name:        "path",
				Type:        value.String,
				Default:     value.NewString(""),
				Constraints: []port.Constraint{port.NotEmpty()},
				Hint:        port.HintFileChooser,
				Description: "Destination path; extension selects the codec.",
			},
		},
		Deterministic: true,
	}
}

func (f *Save) Validate(ctx *filter.ValidationContext) error {
	path, ok := ctx.ParamString("path")
	if !ok || path == "" {
		return filter.NewValidationError(ctx.NodeID, "path parameter is required")
	}
	if _, ok := ctx.InputImage("image"); !ok {
		return filter.NewValidationError(ctx.NodeID, "image input is required")
	}
	return nil
}

func (f *Save) Execute(ctx *filter.ExecutionContext) error {
	path, ok := ctx.ParamString("path")
	if !ok || path == "" {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingParameter)
	}
	img, ok := ctx.TakeInputImage("image")
	if !ok || img == nil {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingInput)
	}

	src := tile.NewInMemorySource(img)
	sink := tile.NewFileSink(path)
	cfg := tileConfig(ctx, tile.SpatialExtent{})
	if err := tile.Run(ctx.Context(), src, sink, cfg, memoryTracker(ctx), identity); err != nil {
		return filter.NewExecutionError(ctx.NodeID, fmt.Errorf("%w: %v", filter.ErrImageProcessing, err))
	}

	return nil
}
