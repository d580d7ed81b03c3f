package builtin

import (
	"fmt"

	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/tile"
	"github.com/ambarahq/ambara/value"
)

// Load decodes an image file into the graph.
type Load struct{}

// NewLoad constructs the load filter.
func NewLoad() *Load { return &Load{} }

func (f *Load) Metadata() filter.Metadata {
	return filter.Metadata{
		ID:          "load",
		DisplayName: "Load Image",
		Category:    filter.CategoryIO,
		Description: "Reads an image file from disk.",
		Version:     "1.0.0",
		Outputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionOutput, Type: value.Image},
		},
		Parameters: []port.Parameter{
			{
				Name:        "path",
				Type:        value.String,
				Default:     value.NewString(""),
				Constraints: []port.Constraint{port.NotEmpty()},
				Hint:        port.HintFileChooser,
				Description: "Path to the source image file.",
			},
		},
		Deterministic: true,
	}
}

func (f *Load) Validate(ctx *filter.ValidationContext) error {
	path, ok := ctx.ParamString("path")
	if !ok || path == "" {
		return filter.NewValidationError(ctx.NodeID, "path parameter is required")
	}
	return nil
}

func (f *Load) Execute(ctx *filter.ExecutionContext) error {
	path, ok := ctx.ParamString("path")
	if !ok || path == "" {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingParameter)
	}

	src, err := tile.OpenFileSource(path)
	if err != nil {
		return filter.NewExecutionError(ctx.NodeID, fmt.Errorf("%w: %v", filter.ErrImageProcessing, err))
	}

	sink := tile.NewInMemorySink()
	cfg := tileConfig(ctx, tile.SpatialExtent{})
	if err := tile.Run(ctx.Context(), src, sink, cfg, memoryTracker(ctx), identity); err != nil {
		return filter.NewExecutionError(ctx.NodeID, fmt.Errorf("%w: %v", filter.ErrImageProcessing, err))
	}

	img := sink.Finished()
	img.Origin = value.Origin{Kind: value.OriginFilePath, Path: path}
	ctx.SetOutput("image", value.NewImage(img))
	return nil
}
