// Package segment implements the bit-level codec for segmented doubles.
//
// A float64 is stored as two independently addressable 32-bit segments:
// the "head" (sign, 11-bit exponent, upper 20 mantissa bits) and the
// "tail" (lower 32 mantissa bits). Reading the head alone yields a
// reduced-precision approximation with roughly 6 decimal digits, while
// still covering the full double exponent range. Recombining head and
// tail is bit-exact.
package segment

import "math"

const (
	// MaxSingleSegmentPrecision is the best achievable relative error
	// when reading values through the head segment only. A 20-bit
	// mantissa gives 20*log10(2) ~= 6 decimal digits.
	MaxSingleSegmentPrecision = 1e-6

	// AdaptivePrecisionBound is the recommended convergence threshold
	// below which an iterative caller should escalate to full
	// precision.
	AdaptivePrecisionBound = 5e-5
)

// EncodeFull splits the IEEE-754 bit pattern of d into its upper and
// lower 32-bit halves. The split is bit-exact for every value,
// including signed zero, infinities and NaN payloads.
func EncodeFull(d float64) (head, tail uint32) {
	b := math.Float64bits(d)
	return uint32(b >> 32), uint32(b)
}

// DecodeFull recombines a head/tail pair into the original float64.
// DecodeFull(EncodeFull(d)) == d bit-exactly for all d.
func DecodeFull(head, tail uint32) float64 {
	return math.Float64frombits(uint64(head)<<32 | uint64(tail))
}

// EncodeHead returns only the upper 32 bits of d's bit pattern.
// Unlike EncodeFull it carries no tail; a paired tail cell is left
// untouched by callers that store the result.
func EncodeHead(d float64) uint32 {
	return uint32(math.Float64bits(d) >> 32)
}

// DecodeHead interprets a head segment with an implicit zero tail.
// Equivalent to DecodeFull(head, 0). The result approximates the
// originally encoded value with a relative error bounded by
// MaxSingleSegmentPrecision (mantissa truncated to 20 bits).
func DecodeHead(head uint32) float64 {
	return math.Float64frombits(uint64(head) << 32)
}

// HeadError returns the relative error introduced by representing d
// through its head segment only. Returns 0 for zero, infinite and NaN
// inputs.
func HeadError(d float64) float64 {
	if d == 0 || math.IsInf(d, 0) || math.IsNaN(d) {
		return 0
	}
	approx := DecodeHead(EncodeHead(d))
	return math.Abs((approx - d) / d)
}
