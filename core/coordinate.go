package core

import (
	"encoding/binary"
	"math"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// Coordinate is an immutable integer grid point. The Hash field is a
// cached digest of (X, Y, Z); it never participates in equality and is
// safe to compare or persist across processes, platforms, and builds
// (XXH64 with the default seed over fixed little-endian encodings).
//
// All fields are exported for inspection: structured logging, debugging
// dumps, and test fixtures rely on the x/y/z/hash field names staying
// stable.
type Coordinate struct {
	X    int64  `json:"x"`
	Y    int64  `json:"y"`
	Z    int64  `json:"z"`
	Hash uint64 `json:"hash"`
}

// NewCoordinate constructs a grid point and computes its identity hash.
// Total over all int64 triples; axis offsets wrap on overflow.
func NewCoordinate(x, y, z int64) Coordinate {
	return Coordinate{X: x, Y: y, Z: z, Hash: hashTriple(x, y, z)}
}

// Equal reports whether two coordinates name the same grid point.
// The cached hash is derived state and is deliberately ignored.
func (c Coordinate) Equal(other Coordinate) bool {
	return c.X == other.X && c.Y == other.Y && c.Z == other.Z
}

// GridDistance returns the single-precision Euclidean distance between
// two grid points, in grid units. This is the coarse measure the Layout
// scales into real lengths; integer axes beyond 2^24 lose mantissa bits
// here, so callers needing exact geometry at that magnitude should use
// DistanceTo instead.
func GridDistance(a, b Coordinate) float32 {
	dx := float32(a.X) - float32(b.X)
	dy := float32(a.Y) - float32(b.Y)
	dz := float32(a.Z) - float32(b.Z)
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

// DistanceTo returns the double-precision Euclidean distance to other,
// in grid units.
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	dx := float64(c.X) - float64(other.X)
	dy := float64(c.Y) - float64(other.Y)
	dz := float64(c.Z) - float64(other.Z)
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// hashAxis digests a single axis value.
func hashAxis(v int64) uint64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return xxhash.Sum64(b[:])
}

// hashTriple combines the three axis digests into one identity hash.
// Each axis is offset by a distinct constant before hashing so that
// permuted or reflected triples (the same magnitudes on different axes)
// do not collide. The three digests are summed in a 128-bit accumulator
// so the sum cannot wrap, and the accumulator is hashed once more.
func hashTriple(x, y, z int64) uint64 {
	hx := hashAxis(x + 1)
	hy := hashAxis(y + 2)
	hz := hashAxis(z + 3)

	lo, carry := bits.Add64(hx, hy, 0)
	hi := carry
	lo, carry = bits.Add64(lo, hz, 0)
	hi += carry

	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], lo)
	binary.LittleEndian.PutUint64(b[8:], hi)
	return xxhash.Sum64(b[:])
}
