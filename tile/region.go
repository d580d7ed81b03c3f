// Package tile implements the chunked/tiled image-processing substrate:
// memory-bounded tile decomposition, overlap handling for spatial
// filters, a compare-and-swap memory tracker, source/sink contracts, and
// the tile pipeline itself. Region/extent clamping arithmetic follows a
// familiar bounds-clamping idiom, generalized from integer grid cells to
// pixel rectangles.
package tile

// Region is an axis-aligned rectangle of pixel coordinates. Right and
// bottom edges are exclusive.
type Region struct {
	X, Y          int
	Width, Height int
}

// Right returns the exclusive right edge.
func (r Region) Right() int { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Region) Bottom() int { return r.Y + r.Height }

// Empty reports whether the region has no area.
func (r Region) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Expand grows r symmetrically/asymmetrically by a SpatialExtent,
// without clamping — callers clamp to image bounds separately.
func (r Region) Expand(e SpatialExtent) Region {
	return Region{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// ClampTo restricts r to lie within bounds (typically the full image
// region), following an InBounds-before-visit discipline.
func (r Region) ClampTo(bounds Region) Region {
	x0 := max(r.X, bounds.X)
	y0 := max(r.Y, bounds.Y)
	x1 := min(r.Right(), bounds.Right())
	y1 := min(r.Bottom(), bounds.Bottom())
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return Region{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// ByteSize returns the 4-byte-per-pixel footprint of this region.
func (r Region) ByteSize() int64 {
	return int64(r.Width) * int64(r.Height) * 4
}
