package layout

import (
	"image"
	"math"

	"github.com/plt-rs/plt/pkg/errors"
)

// Cell addresses a grid position. Row 0 is the top row.
type Cell struct {
	Row, Col int
}

// Grid divides the area into equal cells separated by Spacing.
//
// Rows and Cols may be zero, in which case they are derived from the subplot
// count: cols = ceil(sqrt(n*Aspect)), rows = ceil(n/cols). Subplot i takes
// cell i in row-major order unless Cells gives explicit positions. Cells not
// assigned to a subplot stay empty.
//
// Cell sizes are integral, so up to cols-1 (or rows-1) pixels past the last
// cell can stay unused.
type Grid struct {
	Rows, Cols int
	Aspect     float64
	Margin     int
	Spacing    int
	Cells      []Cell
	Min        image.Point
}

// NewGrid returns a Grid strategy with defaults applied. Pass zero rows or
// cols to derive them from the subplot count.
func NewGrid(rows, cols int, opts ...Option) Grid {
	s := newSettings(opts)
	return Grid{
		Rows:    rows,
		Cols:    cols,
		Aspect:  s.aspect,
		Margin:  s.margin,
		Spacing: s.spacing,
		Min:     s.minSize,
	}
}

// MinSize implements Strategy.
func (g Grid) MinSize() image.Point { return g.Min }

// Dims returns the grid dimensions used for n subplots.
func (g Grid) Dims(n int) (rows, cols int) {
	rows, cols = g.Rows, g.Cols
	switch {
	case rows > 0 && cols > 0:
		return rows, cols
	case cols > 0:
		return max(1, ceilDiv(n, cols)), cols
	case rows > 0:
		return rows, max(1, ceilDiv(n, rows))
	}
	aspect := g.Aspect
	if !(aspect > 0) || math.IsInf(aspect, 0) {
		aspect = DefaultAspect
	}
	cols = max(1, int(math.Ceil(math.Sqrt(float64(n)*aspect))))
	return max(1, ceilDiv(n, cols)), cols
}

// Rects implements Strategy.
func (g Grid) Rects(total image.Rectangle, n int) ([]image.Rectangle, error) {
	if n == 0 {
		return nil, nil
	}
	if g.Rows < 0 || g.Cols < 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "negative grid size %dx%d", g.Rows, g.Cols).In(errors.StageLayout)
	}
	if g.Margin < 0 || g.Spacing < 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "negative margin %d or spacing %d", g.Margin, g.Spacing).In(errors.StageLayout)
	}

	rows, cols := g.Dims(n)
	cells, err := g.assign(n, rows, cols)
	if err != nil {
		return nil, err
	}

	cw := (total.Dx() - 2*g.Margin - (cols-1)*g.Spacing) / cols
	ch := (total.Dy() - 2*g.Margin - (rows-1)*g.Spacing) / rows
	if cw < 1 || ch < 1 {
		return nil, errors.New(errors.ErrCodeInsufficientSpace,
			"figure %dx%d px cannot fit a %dx%d grid", total.Dx(), total.Dy(), rows, cols).In(errors.StageLayout)
	}

	rects := make([]image.Rectangle, n)
	for i, c := range cells {
		x0 := total.Min.X + g.Margin + c.Col*(cw+g.Spacing)
		y0 := total.Min.Y + g.Margin + c.Row*(ch+g.Spacing)
		rects[i] = image.Rect(x0, y0, x0+cw, y0+ch)
	}
	return rects, nil
}

// assign returns the cell of each subplot.
func (g Grid) assign(n, rows, cols int) ([]Cell, error) {
	if g.Cells == nil {
		if n > rows*cols {
			return nil, errors.New(errors.ErrCodeInvalidIndex,
				"%d subplots do not fit a %dx%d grid", n, rows, cols).In(errors.StageLayout)
		}
		cells := make([]Cell, n)
		for i := range cells {
			cells[i] = Cell{Row: i / cols, Col: i % cols}
		}
		return cells, nil
	}

	if len(g.Cells) != n {
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"%d grid cells for %d subplots", len(g.Cells), n).In(errors.StageLayout)
	}
	used := make(map[Cell]int, n)
	for i, c := range g.Cells {
		if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
			return nil, errors.New(errors.ErrCodeInvalidIndex,
				"cell (%d, %d) is outside the %dx%d grid", c.Row, c.Col, rows, cols).In(errors.StageLayout)
		}
		if j, ok := used[c]; ok {
			return nil, errors.New(errors.ErrCodeInvalidLayout,
				"subplots %d and %d share cell (%d, %d)", j, i, c.Row, c.Col).In(errors.StageLayout)
		}
		used[c] = i
	}
	return g.Cells, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
