package value

import "sync"

// Format tags the pixel encoding of an Image's decoded buffer.
type Format string

const (
	FormatRGBA8  Format = "rgba8"
	FormatGray8  Format = "gray8"
	FormatRGB8   Format = "rgb8"
	FormatUnknown Format = "unknown"
)

// OriginKind discriminates where an Image's bytes came from.
type OriginKind int

const (
	OriginNone OriginKind = iota
	OriginFilePath
	OriginBase64
	OriginTempID
	OriginInMemory
)

// Origin records provenance for an Image value. Equality of two Images is
// by Metadata+Origin, never by pixel comparison.
type Origin struct {
	Kind OriginKind
	Path string // OriginFilePath
	Data string // OriginBase64 (the encoded payload) or OriginTempID (the id)
}

// Metadata describes an image without requiring decoded pixels.
type Metadata struct {
	Width    int
	Height   int
	Format   Format
	HasAlpha bool
}

// pixelBuffer is the shared, reference-counted backing store for decoded
// pixels. Multiple Image values may point at the same pixelBuffer; a
// filter that needs to mutate clones first (copy-on-write).
type pixelBuffer struct {
	mu   sync.Mutex
	refs int32
	Pix  []byte // row-major, Metadata.Width*Height*4 bytes (RGBA8) or *1 (Gray8)
}

func newPixelBuffer(pix []byte) *pixelBuffer {
	return &pixelBuffer{refs: 1, Pix: pix}
}

func (b *pixelBuffer) retain() *pixelBuffer {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	b.refs++
	b.mu.Unlock()
	return b
}

func (b *pixelBuffer) shared() bool {
	if b == nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refs > 1
}

// Image is the value-model representation of an image: metadata, an
// optional shared pixel buffer, and an origin reference. Images are never
// hashed by pixel content — only Metadata participates in
// the cache digest.
type Image struct {
	Meta   Metadata
	Origin Origin
	pixels *pixelBuffer
}

// NewImageMeta constructs an Image with metadata and origin but no decoded
// pixel buffer — the common case for a load node's placeholder or a
// file-origin value that has not been decoded yet.
func NewImageMeta(meta Metadata, origin Origin) *Image {
	return &Image{Meta: meta, Origin: origin}
}

// NewImagePixels constructs an Image owning a fresh pixel buffer. pix must
// be exactly BytesPerPixel(meta.Format)*meta.Width*meta.Height bytes.
func NewImagePixels(meta Metadata, origin Origin, pix []byte) *Image {
	return &Image{Meta: meta, Origin: origin, pixels: newPixelBuffer(pix)}
}

// BytesPerPixel returns the channel count for a Format.
func BytesPerPixel(f Format) int {
	switch f {
	case FormatGray8:
		return 1
	case FormatRGB8:
		return 3
	default:
		return 4
	}
}

// HasPixels reports whether the image carries a decoded pixel buffer.
func (img *Image) HasPixels() bool { return img != nil && img.pixels != nil }

// Pixels returns the raw pixel bytes, or nil if undecoded.
func (img *Image) Pixels() []byte {
	if img == nil || img.pixels == nil {
		return nil
	}
	return img.pixels.Pix
}

// Share returns a new *Image referencing the same pixel buffer (refcount
// bumped), so two Values can point at one set of pixels without copying.
func (img *Image) Share() *Image {
	if img == nil {
		return nil
	}
	return &Image{Meta: img.Meta, Origin: img.Origin, pixels: img.pixels.retain()}
}

// CloneForWrite returns an *Image a caller may safely mutate in place: if
// the backing buffer is exclusively owned it is returned unchanged
// (no-op), otherwise the pixel bytes are copied into a fresh buffer
// (copy-on-write).
func (img *Image) CloneForWrite() *Image {
	if img == nil || img.pixels == nil {
		return img
	}
	if !img.pixels.shared() {
		return img
	}
	cp := make([]byte, len(img.pixels.Pix))
	copy(cp, img.pixels.Pix)
	return &Image{Meta: img.Meta, Origin: img.Origin, pixels: newPixelBuffer(cp)}
}

// Equal compares two Images by Metadata and Origin only, per the value
// model's equality contract — pixel buffers are never compared.
func (img *Image) Equal(other *Image) bool {
	if img == nil || other == nil {
		return img == other
	}
	return img.Meta == other.Meta && img.Origin == other.Origin
}

// ApproximateByteSize estimates the memory cost of this image for the
// cache's byte-budget accounting: width*height*4 regardless of actual
// Format, a conservative upper bound.
func (img *Image) ApproximateByteSize() int64 {
	if img == nil {
		return 0
	}
	return int64(img.Meta.Width) * int64(img.Meta.Height) * 4
}
