package value

import (
	"encoding/binary"
	"math"
	"sort"

	"github.com/cespare/xxhash/v2"
)

// Digest computes the 64-bit structural digest of v used as half of a
// cache key: variant tag, then payload — integers and
// IEEE-754 bit patterns for floats, byte contents for strings, component
// bytes for colors/vectors, length-prefixed recursive digest for arrays
// and maps (maps in sorted-key order). Images digest by Metadata only;
// raw pixel bytes never participate.
func Digest(v Value) uint64 {
	h := xxhash.New()
	writeDigest(h, v)
	return h.Sum64()
}

func writeDigest(h *xxhash.Digest, v Value) {
	var tag [1]byte
	tag[0] = byte(v.kind)
	_, _ = h.Write(tag[:])

	switch v.kind {
	case KindNone:
		// tag only
	case KindInteger:
		writeUint64(h, uint64(v.integer))
	case KindFloat:
		writeUint64(h, math.Float64bits(v.float64))
	case KindString:
		writeLenPrefixed(h, []byte(v.str))
	case KindBoolean:
		if v.boolean {
			_, _ = h.Write([]byte{1})
		} else {
			_, _ = h.Write([]byte{0})
		}
	case KindColor:
		_, _ = h.Write([]byte{v.color.R, v.color.G, v.color.B, v.color.A})
	case KindVector2:
		writeUint64(h, math.Float64bits(v.vec2.X))
		writeUint64(h, math.Float64bits(v.vec2.Y))
	case KindVector3:
		writeUint64(h, math.Float64bits(v.vec3.X))
		writeUint64(h, math.Float64bits(v.vec3.Y))
		writeUint64(h, math.Float64bits(v.vec3.Z))
	case KindArray:
		writeUint64(h, uint64(len(v.array)))
		for _, item := range v.array {
			writeDigest(h, item)
		}
	case KindMap:
		keys := make([]string, 0, len(v.mp))
		for k := range v.mp {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeUint64(h, uint64(len(keys)))
		for _, k := range keys {
			writeLenPrefixed(h, []byte(k))
			writeDigest(h, v.mp[k])
		}
	case KindImage:
		if v.image == nil {
			writeUint64(h, 0)
		} else {
			writeUint64(h, uint64(v.image.Meta.Width))
			writeUint64(h, uint64(v.image.Meta.Height))
		}
	}
}

func writeUint64(h *xxhash.Digest, n uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], n)
	_, _ = h.Write(buf[:])
}

func writeLenPrefixed(h *xxhash.Digest, b []byte) {
	writeUint64(h, uint64(len(b)))
	_, _ = h.Write(b)
}

// ApproximateByteSize estimates v's in-memory footprint for the cache's
// byte-budget accounting: structural overhead plus a
// per-variant cost — strings cost their length, arrays/maps the sum of
// their children, images width*height*4.
func ApproximateByteSize(v Value) int64 {
	const overhead = 16
	switch v.kind {
	case KindString:
		return overhead + int64(len(v.str))
	case KindArray:
		total := int64(overhead)
		for _, item := range v.array {
			total += ApproximateByteSize(item)
		}
		return total
	case KindMap:
		total := int64(overhead)
		for k, item := range v.mp {
			total += int64(len(k)) + ApproximateByteSize(item)
		}
		return total
	case KindImage:
		return overhead + v.image.ApproximateByteSize()
	default:
		return overhead
	}
}
