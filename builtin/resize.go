package builtin

import (
	"github.com/ambarahq/ambara/filter"
	"github.com/ambarahq/ambara/port"
	"github.com/ambarahq/ambara/value"
)

// Resize resamples an image to a new width/height using nearest-neighbor
// interpolation. Every output pixel may read
// from anywhere in the source, so this runs on the whole decoded image
// rather than through the tile substrate and declares SupportsProgress
// false.
type Resize struct{}

// NewResize constructs the resize filter.
func NewResize() *Resize { return &Resize{} }

func (f *Resize) Metadata() filter.Metadata {
	return filter.Metadata{
		ID:          "resize",
		DisplayName: "Resize",
		Category:    filter.CategoryTransform,
		Description: "Resamples an image to a new width and height (nearest-neighbor).",
		Version:     "1.0.0",
		Inputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionInput, Type: value.Image},
		},
		Outputs: []port.Port{
			{Name: "image", DisplayName: "Image", Direction: port.DirectionOutput, Type: value.Image},
		},
		Parameters: []port.Parameter{
			{
				Name:        "width",
				Type:        value.Integer,
				Default:     value.NewInteger(0),
				Constraints: []port.Constraint{port.Positive()},
				Hint:        port.HintSpinBox,
				Description: "Target width in pixels.",
			},
			{
				Name:        "height",
				Type:        value.Integer,
				Default:     value.NewInteger(0),
				Constraints: []port.Constraint{port.Positive()},
				Hint:        port.HintSpinBox,
				Description: "Target height in pixels.",
			},
		},
		SupportsProgress: false,
		Deterministic:    true,
	}
}

func (f *Resize) Validate(ctx *filter.ValidationContext) error {
	if _, ok := ctx.InputImage("image"); !ok {
		return filter.NewValidationError(ctx.NodeID, "image input is required")
	}
	if w, ok := ctx.ParamInteger("width"); ok && w <= 0 {
		return filter.NewValidationError(ctx.NodeID, "width must be positive")
	}
	if h, ok := ctx.ParamInteger("height"); ok && h <= 0 {
		return filter.NewValidationError(ctx.NodeID, "height must be positive")
	}
	return nil
}

func (f *Resize) Execute(ctx *filter.ExecutionContext) error {
	img, ok := ctx.TakeInputImage("image")
	if !ok || img == nil {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingInput)
	}
	width, _ := ctx.ParamInteger("width")
	height, _ := ctx.ParamInteger("height")
	if width <= 0 || height <= 0 {
		return filter.NewExecutionError(ctx.NodeID, filter.ErrMissingParameter)
	}

	bpp := value.BytesPerPixel(img.Meta.Format)
	srcW, srcH := img.Meta.Width, img.Meta.Height
	srcPix := img.Pixels()
	dstW, dstH := int(width), int(height)
	dstPix := make([]byte, dstW*dstH*bpp)

	for y := 0; y < dstH; y++ {
		if ctx.CheckCancelled() {
			return filter.NewExecutionError(ctx.NodeID, filter.ErrCancelled)
		}
		sy := y * srcH / dstH
		if sy >= srcH {
			sy = srcH - 1
		}
		for x := 0; x < dstW; x++ {
			sx := x * srcW / dstW
			if sx >= srcW {
				sx = srcW - 1
			}
			srcOff := (sy*srcW + sx) * bpp
			dstOff := (y*dstW + x) * bpp
			copy(dstPix[dstOff:dstOff+bpp], srcPix[srcOff:srcOff+bpp])
		}
		ctx.SetProgress(float64(y+1) / float64(dstH))
	}

	meta := img.Meta
	meta.Width, meta.Height = dstW, dstH
	out := value.NewImagePixels(meta, value.Origin{Kind: value.OriginInMemory}, dstPix)
	ctx.SetOutput("image", value.NewImage(out))
	return nil
}
