// Package ticks computes tick positions and labels for an axis.
//
// Auto major ticks use a nice-number search: steps are drawn from
// {1, 2, 5} x 10^k and the step whose tick count lies closest to the ideal
// density for the axis' pixel length wins. Minor ticks always subdivide the
// major step. Everything is recomputed per draw from the current range.
package ticks

import (
	"math"

	"github.com/plt-rs/plt/pkg/scale"
)

// Kind distinguishes labelled major ticks from minor subdivisions.
type Kind int

// Tick kinds.
const (
	Major Kind = iota
	Minor
)

// Tick is a position on an axis with an optional label.
type Tick struct {
	Value float64
	Label string
	Kind  Kind
}

// Density tuning. An axis of L pixels aims for L/TargetSpacing ticks and
// accepts counts within Window(L).
const (
	TargetSpacing = 80.0
	SparseSpacing = 120.0
	DenseSpacing  = 40.0

	// MinorDivisions is the default number of sub-intervals per major interval.
	MinorDivisions = 4

	// maxMinorTicks bounds minor generation for pathological manual majors.
	maxMinorTicks = 10000

	// eps is the relative tolerance used when counting multiples of a step.
	eps = 1e-9
)

var niceMantissas = [...]float64{1, 2, 5}

// Window returns the accepted range of auto major tick counts for an axis of
// pixelLength pixels. Both bounds are non-decreasing in pixelLength, and the
// window is always wide enough for some {1,2,5} step to fit any range.
func Window(pixelLength float64) (lo, hi int) {
	lo = max(2, int(math.Floor(pixelLength/SparseSpacing)))
	hi = max(int(math.Floor(pixelLength/DenseSpacing)), int(math.Ceil(2.5*float64(lo)+3.5)))
	return lo, hi
}

// Ideal returns the ideal tick count for pixelLength.
func Ideal(pixelLength float64) float64 {
	return pixelLength / TargetSpacing
}

// Count returns the number of integer multiples of step inside r.
func Count(r scale.Range, step float64) int {
	first, last := bounds(r, step)
	if last < first {
		return 0
	}
	return int(last-first) + 1
}

// bounds returns the smallest and largest integers i with i*step in r.
func bounds(r scale.Range, step float64) (first, last float64) {
	first = math.Ceil(r.Min/step - eps)
	last = math.Floor(r.Max/step + eps)
	return first, last
}

// AutoStep picks the nice step for r on an axis of pixelLength pixels.
//
// Among steps whose tick count lies in Window(pixelLength), the count
// closest to Ideal(pixelLength) wins; ties go to the larger count and then
// to the smaller step.
func AutoStep(r scale.Range, pixelLength float64) float64 {
	span := r.Span()
	if !(span > 0) || math.IsInf(span, 0) {
		return 0
	}
	lo, hi := Window(pixelLength)
	ideal := Ideal(pixelLength)

	kLow := int(math.Floor(math.Log10(span/float64(hi+1)))) - 1
	kHigh := int(math.Ceil(math.Log10(span))) + 1

	var (
		best      float64
		bestCount = -1
		bestDiff  = math.Inf(1)
		// fallback tracks the candidate nearest the window if none fits.
		fallback     float64
		fallbackMiss = math.MaxInt
	)
	for k := kLow; k <= kHigh; k++ {
		for _, m := range niceMantissas {
			step := m * math.Pow10(k)
			n := Count(r, step)
			if n < lo || n > hi {
				miss := max(lo-n, n-hi)
				if miss < fallbackMiss {
					fallback, fallbackMiss = step, miss
				}
				continue
			}
			diff := math.Abs(float64(n) - ideal)
			switch {
			case diff < bestDiff,
				diff == bestDiff && n > bestCount,
				diff == bestDiff && n == bestCount && step < best:
				best, bestCount, bestDiff = step, n, diff
			}
		}
	}
	if bestCount < 0 {
		return fallback
	}
	return best
}

// Positions returns every multiple of step inside r, in increasing order.
// Values are computed as i*step for integer i so they never accumulate drift.
func Positions(r scale.Range, step float64) []float64 {
	if !(step > 0) {
		return nil
	}
	first, last := bounds(r, step)
	if last < first {
		return nil
	}
	out := make([]float64, 0, int(last-first)+1)
	for i := first; i <= last; i++ {
		out = append(out, zero(i*step))
	}
	return out
}

// MajorTicks generates auto major ticks with labels for r on an axis of
// pixelLength pixels. Labels are literal values; Resolve is the entry point
// that may scale them and report a modifier.
func MajorTicks(r scale.Range, pixelLength float64) []Tick {
	step := AutoStep(r, pixelLength)
	pos := Positions(r, step)
	labels := Literal(pos, step)
	out := make([]Tick, len(pos))
	for i, v := range pos {
		out[i] = Tick{Value: v, Label: labels[i], Kind: Major}
	}
	return out
}

// MinorTicks subdivides the major step into MinorDivisions parts.
func MinorTicks(r scale.Range, majors []Tick) []Tick {
	return Subdivide(r, majors, MinorDivisions)
}

// Subdivide generates minor ticks dividing each major interval into
// divisions equal parts. The major step is the distance between the first
// two majors and the grid is anchored at the first major. Minor ticks extend
// past the outermost majors up to the range bounds. Candidates coinciding
// with a major tick are suppressed.
func Subdivide(r scale.Range, majors []Tick, divisions int) []Tick {
	if len(majors) < 2 || divisions < 2 {
		return nil
	}
	anchor := majors[0].Value
	step := majors[1].Value - majors[0].Value
	if !(math.Abs(step) > 0) {
		return nil
	}
	minor := math.Abs(step) / float64(divisions)

	kFirst := math.Ceil((r.Min-anchor)/minor - eps)
	kLast := math.Floor((r.Max-anchor)/minor + eps)
	if kLast < kFirst || kLast-kFirst > maxMinorTicks {
		return nil
	}

	var out []Tick
	for k := kFirst; k <= kLast; k++ {
		if math.Mod(k, float64(divisions)) == 0 {
			continue
		}
		v := zero(anchor + k*minor)
		if coincides(v, majors, minor) {
			continue
		}
		out = append(out, Tick{Value: v, Kind: Minor})
	}
	return out
}

func coincides(v float64, majors []Tick, unit float64) bool {
	for _, m := range majors {
		if math.Abs(m.Value-v) <= unit*1e-6 {
			return true
		}
	}
	return false
}

// zero turns negative zero into zero.
func zero(v float64) float64 {
	if v == 0 {
		return 0
	}
	return v
}
