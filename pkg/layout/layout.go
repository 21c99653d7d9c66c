// Package layout partitions a figure's pixel area into subplot rectangles.
//
// A Strategy computes one rectangle per subplot, in registration order.
// [Partition] runs a strategy and enforces the partition invariants: every
// rectangle lies inside the total area, no two rectangles overlap, and each
// one is at least the strategy's minimum size.
//
// Rectangles are image.Rectangle values, so they are half-open: a rectangle
// ending at x=50 and one starting at x=50 are disjoint.
package layout

import (
	"image"

	"github.com/plt-rs/plt/pkg/errors"
)

// Defaults shared by the built-in strategies.
const (
	DefaultMargin  = 10
	DefaultSpacing = 10
	DefaultAspect  = 1.0
)

// DefaultMinSize is the smallest subplot rectangle a strategy accepts.
var DefaultMinSize = image.Pt(40, 40)

// Strategy turns a total pixel rectangle into n subplot rectangles.
type Strategy interface {
	// Rects returns exactly n rectangles, one per subplot in order.
	Rects(total image.Rectangle, n int) ([]image.Rectangle, error)
	// MinSize is the smallest acceptable rectangle.
	MinSize() image.Point
}

// Partition computes the subplot rectangles for n subplots in total.
func Partition(total image.Rectangle, n int, s Strategy) ([]image.Rectangle, error) {
	if s == nil {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "no layout strategy").In(errors.StageLayout)
	}
	if n < 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "negative subplot count %d", n).In(errors.StageLayout)
	}
	if total.Empty() {
		return nil, errors.New(errors.ErrCodeInsufficientSpace, "figure area %v is empty", total).In(errors.StageLayout)
	}

	rects, err := s.Rects(total, n)
	if err != nil {
		return nil, err
	}
	if len(rects) != n {
		return nil, errors.New(errors.ErrCodeInternal, "layout produced %d rectangles for %d subplots", len(rects), n).In(errors.StageLayout)
	}

	minSize := s.MinSize()
	for i, r := range rects {
		if r.Dx() < minSize.X || r.Dy() < minSize.Y {
			return nil, errors.New(errors.ErrCodeInsufficientSpace,
				"subplot %d gets %dx%d px, need at least %dx%d", i, r.Dx(), r.Dy(), minSize.X, minSize.Y).In(errors.StageLayout)
		}
		if !r.In(total) {
			return nil, errors.New(errors.ErrCodeInvalidLayout, "subplot %d rectangle %v exceeds figure %v", i, r, total).In(errors.StageLayout)
		}
		for j := range i {
			if r.Overlaps(rects[j]) {
				return nil, errors.New(errors.ErrCodeInvalidLayout, "subplots %d and %d overlap", j, i).In(errors.StageLayout)
			}
		}
	}
	return rects, nil
}

// Option configures a built-in strategy. Options that do not apply to a
// strategy are ignored by it.
type Option func(*settings)

type settings struct {
	margin  int
	spacing int
	aspect  float64
	minSize image.Point
}

func newSettings(opts []Option) settings {
	s := settings{
		margin:  DefaultMargin,
		spacing: DefaultSpacing,
		aspect:  DefaultAspect,
		minSize: DefaultMinSize,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMargin sets the outer margin in pixels.
func WithMargin(px int) Option {
	return func(s *settings) { s.margin = px }
}

// WithSpacing sets the gap between grid cells in pixels.
func WithSpacing(px int) Option {
	return func(s *settings) { s.spacing = px }
}

// WithAspect sets the preferred columns-per-row ratio for derived grids.
func WithAspect(a float64) Option {
	return func(s *settings) { s.aspect = a }
}

// WithMinSize sets the minimum subplot rectangle.
func WithMinSize(w, h int) Option {
	return func(s *settings) { s.minSize = image.Pt(w, h) }
}

// Single places one subplot in the total area inset by Margin.
type Single struct {
	Margin int
	Min    image.Point
}

// NewSingle returns a Single strategy with defaults applied.
func NewSingle(opts ...Option) Single {
	s := newSettings(opts)
	return Single{Margin: s.margin, Min: s.minSize}
}

// MinSize implements Strategy.
func (s Single) MinSize() image.Point { return s.Min }

// Rects implements Strategy.
func (s Single) Rects(total image.Rectangle, n int) ([]image.Rectangle, error) {
	switch {
	case n == 0:
		return nil, nil
	case n > 1:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "single layout holds one subplot, got %d", n).In(errors.StageLayout)
	case s.Margin < 0:
		return nil, errors.New(errors.ErrCodeInvalidLayout, "negative margin %d", s.Margin).In(errors.StageLayout)
	}
	w := total.Dx() - 2*s.Margin
	h := total.Dy() - 2*s.Margin
	if w < 0 || h < 0 {
		return nil, errors.New(errors.ErrCodeInsufficientSpace,
			"figure %dx%d px cannot fit a %d px margin", total.Dx(), total.Dy(), s.Margin).In(errors.StageLayout)
	}
	x0, y0 := total.Min.X+s.Margin, total.Min.Y+s.Margin
	return []image.Rectangle{image.Rect(x0, y0, x0+w, y0+h)}, nil
}
