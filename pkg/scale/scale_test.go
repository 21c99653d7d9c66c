package scale

import (
	"image"
	"math"
	"testing"

	"github.com/plt-rs/plt/pkg/errors"
)

type values map[Axis][][]float64

func (v values) Values(axis Axis) [][]float64 { return v[axis] }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResolveExplicitLimits(t *testing.T) {
	tests := []struct {
		name    string
		limits  Range
		wantErr bool
	}{
		{"valid", Range{-1, 1}, false},
		{"equal", Range{2, 2}, true},
		{"reversed", Range{3, 1}, true},
		{"nan", Range{math.NaN(), 1}, true},
		{"inf", Range{0, math.Inf(1)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lim := tt.limits
			got, err := Resolve(&lim, []Source{values{X: {{100, 200}}}}, X)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeInvalidLimits) {
					t.Errorf("error code = %v, want INVALID_LIMITS", errors.GetCode(err))
				}
				if errors.StageOf(err) != errors.StageLimits {
					t.Errorf("stage = %q, want limits", errors.StageOf(err))
				}
				return
			}
			if got != tt.limits {
				t.Errorf("Resolve() = %v, want explicit %v unchanged", got, tt.limits)
			}
		})
	}
}

func TestResolveAuto(t *testing.T) {
	tests := []struct {
		name    string
		sources []Source
		axis    Axis
		want    Range
	}{
		{
			name:    "scenario x",
			sources: []Source{values{X: {{0, 1, 2, 3}}, Y: {{0, 1, 4, 9}}}},
			axis:    X,
			want:    Range{-0.15, 3.15},
		},
		{
			name:    "scenario y",
			sources: []Source{values{X: {{0, 1, 2, 3}}, Y: {{0, 1, 4, 9}}}},
			axis:    Y,
			want:    Range{-0.45, 9.45},
		},
		{
			name:    "zero span",
			sources: []Source{values{Y: {{2, 2, 2}}}},
			axis:    Y,
			want:    Range{1.5, 2.5},
		},
		{
			name:    "non-finite skipped",
			sources: []Source{values{X: {{math.NaN(), 0, math.Inf(1), 10}}}},
			axis:    X,
			want:    Range{-0.5, 10.5},
		},
		{
			name:    "multiple sources and arrays",
			sources: []Source{values{Y: {{0, 1}, {-1, 0}}}, values{Y: {{3}}}},
			axis:    Y,
			want:    Range{-1.2, 3.2},
		},
		{
			name:    "no sources",
			sources: nil,
			axis:    X,
			want:    DefaultRange,
		},
		{
			name:    "empty series skipped",
			sources: []Source{values{}, values{X: {{}}}},
			axis:    X,
			want:    DefaultRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(nil, tt.sources, tt.axis)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if !approx(got.Min, tt.want.Min) || !approx(got.Max, tt.want.Max) {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
			if !got.Valid() {
				t.Errorf("Resolve() = %v is not a valid range", got)
			}
		})
	}
}

func TestResolveNoFiniteData(t *testing.T) {
	src := values{Y: {{math.NaN(), math.Inf(-1)}}}
	_, err := Resolve(nil, []Source{src}, Y)
	if !errors.Is(err, errors.ErrCodeNoFiniteData) {
		t.Fatalf("Resolve() error = %v, want NO_FINITE_DATA", err)
	}
	if errors.StageOf(err) != errors.StageLimits {
		t.Errorf("stage = %q, want limits", errors.StageOf(err))
	}
}

func TestPadExtremes(t *testing.T) {
	tests := []Range{
		{1e20, 1e20},
		{-1e300, -1e300},
		{math.MaxFloat64, math.MaxFloat64},
		{-math.MaxFloat64, math.MaxFloat64},
		{0, 0},
	}
	for _, r := range tests {
		got := Pad(r)
		if !got.Valid() {
			t.Errorf("Pad(%v) = %v, not valid", r, got)
		}
		if got.Min > r.Min || got.Max < r.Max {
			t.Errorf("Pad(%v) = %v does not cover input", r, got)
		}
	}
}

func TestRangeHelpers(t *testing.T) {
	r := Range{0, 10}
	if r.Span() != 10 {
		t.Errorf("Span() = %v", r.Span())
	}
	if !r.Contains(10, 0) || r.Contains(10.5, 0) || !r.Contains(10.5, 0.1) {
		t.Error("Contains tolerance wrong")
	}
	if got := r.Expand(-5).Expand(math.NaN()); got != (Range{-5, 10}) {
		t.Errorf("Expand = %v", got)
	}
}

func TestLinearEndpoints(t *testing.T) {
	area := image.Rect(10, 20, 110, 220)
	r := Range{-1, 1}

	x := NewX(r, area)
	if got := x.ToPixel(r.Min); got != 10 {
		t.Errorf("x.ToPixel(min) = %v, want 10", got)
	}
	if got := x.ToPixel(r.Max); got != 110 {
		t.Errorf("x.ToPixel(max) = %v, want 110", got)
	}

	// Y is inverted: min maps to the bottom row, max to the top row.
	y := NewY(r, area)
	if got := y.ToPixel(r.Min); got != 220 {
		t.Errorf("y.ToPixel(min) = %v, want 220", got)
	}
	if got := y.ToPixel(r.Max); got != 20 {
		t.Errorf("y.ToPixel(max) = %v, want 20", got)
	}
	if y.ToPixel(0.5) >= y.ToPixel(0) {
		t.Error("increasing y data must decrease pixel row")
	}
}

func TestLinearIsAffine(t *testing.T) {
	l := New(X, Range{2, 7}, image.Rect(0, 0, 500, 10))
	for _, pair := range [][2]float64{{2, 3}, {-4, 11}, {5.5, 6.25}} {
		a, b := pair[0], pair[1]
		mid := l.ToPixel((a + b) / 2)
		if !approx(mid, (l.ToPixel(a)+l.ToPixel(b))/2) {
			t.Errorf("ToPixel not affine at %v", pair)
		}
	}

	// Out-of-range values are still mapped, without clipping.
	if got := l.ToPixel(12); !approx(got, 1000) {
		t.Errorf("ToPixel(12) = %v, want 1000", got)
	}
}

func TestLinearToDataInverts(t *testing.T) {
	for _, axis := range []Axis{X, Y} {
		l := New(axis, Range{-3, 9}, image.Rect(5, 5, 305, 205))
		for _, v := range []float64{-3, 0, 4.5, 9, 20} {
			if got := l.ToData(l.ToPixel(v)); !approx(got, v) {
				t.Errorf("%s: ToData(ToPixel(%v)) = %v", axis, v, got)
			}
		}
		if l.Range() != (Range{-3, 9}) {
			t.Errorf("Range() = %v", l.Range())
		}
	}
}
