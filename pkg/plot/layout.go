package plot

import (
	"github.com/plt-rs/plt/pkg/errors"
	"github.com/plt-rs/plt/pkg/layout"
)

// Layout arranges subplots on a figure. Subplots are returned in the order
// they were registered, which is also the order they are drawn in.
type Layout interface {
	Subplots() []*Subplot
	Strategy() layout.Strategy
}

// SingleLayout holds one subplot filling the figure minus a margin.
type SingleLayout struct {
	subplot  *Subplot
	strategy layout.Single
}

// NewSingleLayout places sp alone on the figure.
func NewSingleLayout(sp *Subplot, opts ...layout.Option) *SingleLayout {
	return &SingleLayout{subplot: sp, strategy: layout.NewSingle(opts...)}
}

// Subplots implements Layout.
func (l *SingleLayout) Subplots() []*Subplot {
	if l.subplot == nil {
		return nil
	}
	return []*Subplot{l.subplot}
}

// Strategy implements Layout.
func (l *SingleLayout) Strategy() layout.Strategy { return l.strategy }

// GridLayout places subplots in equal cells.
//
// A layout made by NewGridLayout has fixed dimensions and subplots are
// placed with Insert. A layout made by NewAutoGridLayout derives its
// dimensions from the number of subplots appended with Add.
type GridLayout struct {
	strategy layout.Grid
	subplots []*Subplot
	cells    []layout.Cell
}

// NewGridLayout returns an empty rows x cols grid.
func NewGridLayout(rows, cols int, opts ...layout.Option) (*GridLayout, error) {
	if rows < 1 || cols < 1 {
		return nil, errors.New(errors.ErrCodeInvalidLayout, "grid must have at least one row and column, got %dx%d", rows, cols).In(errors.StageLayout)
	}
	return &GridLayout{strategy: layout.NewGrid(rows, cols, opts...)}, nil
}

// NewAutoGridLayout returns a grid sized from its subplot count. Use
// layout.WithAspect to prefer wider or taller arrangements.
func NewAutoGridLayout(opts ...layout.Option) *GridLayout {
	return &GridLayout{strategy: layout.NewGrid(0, 0, opts...)}
}

// Insert places sp at row, col of a fixed grid.
func (l *GridLayout) Insert(row, col int, sp *Subplot) error {
	if sp == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil subplot").In(errors.StageLayout)
	}
	if l.strategy.Rows == 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "auto grid has no fixed cells; use Add").In(errors.StageLayout)
	}
	if row < 0 || row >= l.strategy.Rows || col < 0 || col >= l.strategy.Cols {
		return errors.New(errors.ErrCodeInvalidIndex, "cell (%d, %d) outside %dx%d grid",
			row, col, l.strategy.Rows, l.strategy.Cols).In(errors.StageLayout)
	}
	cell := layout.Cell{Row: row, Col: col}
	for _, c := range l.cells {
		if c == cell {
			return errors.New(errors.ErrCodeInvalidLayout, "cell (%d, %d) already holds a subplot", row, col).In(errors.StageLayout)
		}
	}
	l.cells = append(l.cells, cell)
	l.subplots = append(l.subplots, sp)
	return nil
}

// Add appends sp to an auto grid.
func (l *GridLayout) Add(sp *Subplot) error {
	if sp == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil subplot").In(errors.StageLayout)
	}
	if l.strategy.Rows != 0 {
		return errors.New(errors.ErrCodeInvalidLayout, "fixed grid needs an explicit cell; use Insert").In(errors.StageLayout)
	}
	l.subplots = append(l.subplots, sp)
	return nil
}

// Subplots implements Layout.
func (l *GridLayout) Subplots() []*Subplot { return l.subplots }

// Strategy implements Layout.
func (l *GridLayout) Strategy() layout.Strategy {
	s := l.strategy
	if len(l.cells) > 0 {
		s.Cells = l.cells
	}
	return s
}

// CustomLayout places each subplot in a fractional area of the figure.
type CustomLayout struct {
	opts     []layout.Option
	areas    []layout.Area
	subplots []*Subplot
}

// NewCustomLayout returns an empty custom layout.
func NewCustomLayout(opts ...layout.Option) *CustomLayout {
	return &CustomLayout{opts: opts}
}

// Insert places sp in area. Areas must not overlap once rounded to pixels;
// overlaps are reported when the figure is drawn.
func (l *CustomLayout) Insert(area layout.Area, sp *Subplot) error {
	if sp == nil {
		return errors.New(errors.ErrCodeInvalidInput, "nil subplot").In(errors.StageLayout)
	}
	if !area.Valid() {
		return errors.New(errors.ErrCodeInvalidLayout, "invalid area %+v", area).In(errors.StageLayout)
	}
	l.areas = append(l.areas, area)
	l.subplots = append(l.subplots, sp)
	return nil
}

// Subplots implements Layout.
func (l *CustomLayout) Subplots() []*Subplot { return l.subplots }

// Strategy implements Layout.
func (l *CustomLayout) Strategy() layout.Strategy {
	return layout.NewCustom(l.areas, l.opts...)
}
