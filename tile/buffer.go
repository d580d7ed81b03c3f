package tile

import "github.com/ambarahq/ambara/value"

// Buffer is a decoded rectangle of pixels: Region names where it sits in
// the full image (or, for output tiles, where its core belongs), Pix
// holds BytesPerPixel(Format)*Width*Height tightly-packed row-major
// bytes.
type Buffer struct {
	Region Region
	Format value.Format
	Pix    []byte
}

// NewBuffer allocates a zeroed Buffer for the given region and format.
func NewBuffer(region Region, format value.Format) *Buffer {
	bpp := value.BytesPerPixel(format)
	return &Buffer{Region: region, Format: format, Pix: make([]byte, region.Width*region.Height*bpp)}
}

// at returns the byte offset of pixel (x, y) within Pix, where x, y are
// relative to Region's own origin.
func (b *Buffer) at(x, y int) int {
	bpp := value.BytesPerPixel(b.Format)
	return (y*b.Region.Width + x) * bpp
}

// Sub extracts the portion of b that falls within core (in absolute
// image coordinates), producing a new tightly-packed Buffer whose Region
// is core. Used to recover the core (un-expanded) output region from a
// tile that was read with overlap.
func (b *Buffer) Sub(core Region) *Buffer {
	out := NewBuffer(core, b.Format)
	bpp := value.BytesPerPixel(b.Format)
	for row := 0; row < core.Height; row++ {
		srcY := core.Y - b.Region.Y + row
		if srcY < 0 || srcY >= b.Region.Height {
			continue
		}
		srcX0 := core.X - b.Region.X
		if srcX0 < 0 || srcX0+core.Width > b.Region.Width {
			continue
		}
		srcOff := b.at(srcX0, srcY)
		dstOff := out.at(0, row)
		copy(out.Pix[dstOff:dstOff+core.Width*bpp], b.Pix[srcOff:srcOff+core.Width*bpp])
	}
	return out
}
