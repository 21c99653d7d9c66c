package scale

import (
	"math"

	"github.com/plt-rs/plt/pkg/errors"
)

// Padding applied to auto-scaled ranges.
const (
	// PadFraction widens a data extent by this fraction of its span on each side.
	PadFraction = 0.05

	// ZeroSpanPad widens a single-valued extent by this absolute amount on each side.
	ZeroSpanPad = 0.5
)

// DefaultRange is used when no series contributes any value to an axis.
var DefaultRange = Range{Min: 0, Max: 1}

// Source is anything that contributes coordinate values to an axis.
type Source interface {
	// Values returns every coordinate array relevant to axis. A source with no
	// data for the axis returns nil.
	Values(axis Axis) [][]float64
}

// Resolve computes the range for axis.
//
// Explicit limits are validated and returned unchanged. Otherwise the finite
// extent of all sources is padded by PadFraction, or by ZeroSpanPad when the
// extent is a single value. With no values at all the result is DefaultRange.
// If values exist but none is finite, Resolve fails with NO_FINITE_DATA.
func Resolve(limits *Range, sources []Source, axis Axis) (Range, error) {
	if limits != nil {
		if !limits.Valid() {
			return Range{}, errors.New(errors.ErrCodeInvalidLimits,
				"%s limits [%g, %g] must be finite with min < max", axis, limits.Min, limits.Max).In(errors.StageLimits)
		}
		return *limits, nil
	}

	seen := 0
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, src := range sources {
		for _, vals := range src.Values(axis) {
			for _, v := range vals {
				seen++
				if finite(v) {
					lo = math.Min(lo, v)
					hi = math.Max(hi, v)
				}
			}
		}
	}

	if seen == 0 {
		return DefaultRange, nil
	}
	if lo > hi {
		return Range{}, errors.New(errors.ErrCodeNoFiniteData,
			"%s axis has %d values and none is finite", axis, seen).In(errors.StageLimits)
	}
	return Pad(Range{Min: lo, Max: hi}), nil
}

// Pad widens a raw data extent for display. The result always satisfies
// Valid as long as both bounds of r are finite.
func Pad(r Range) Range {
	var padded Range
	if span := r.Span(); span > 0 {
		d := span * PadFraction
		padded = Range{Min: r.Min - d, Max: r.Max + d}
	} else {
		d := ZeroSpanPad
		if r.Min-d == r.Min || r.Max+d == r.Max {
			d = math.Abs(r.Min) * PadFraction
		}
		padded = Range{Min: r.Min - d, Max: r.Max + d}
	}

	if padded.Valid() {
		return padded
	}
	if r.Valid() {
		return r
	}
	lo, hi := math.Nextafter(r.Min, math.Inf(-1)), math.Nextafter(r.Max, math.Inf(1))
	if math.IsInf(lo, 0) {
		lo = r.Min
	}
	if math.IsInf(hi, 0) {
		hi = r.Max
	}
	return Range{Min: lo, Max: hi}
}
