package render

import (
	"image"
	"math"
	"testing"

	"github.com/plt-rs/plt/pkg/draw"
	"github.com/plt-rs/plt/pkg/scale"
	"github.com/plt-rs/plt/pkg/series"
	"github.com/plt-rs/plt/pkg/ticks"
)

var blue = draw.RGB(0, 0, 1)

func newRecorder() *draw.Recorder {
	return draw.NewRecorder(draw.Size{Width: 400, Height: 300})
}

func unitFrame() Frame {
	return NewFrame(image.Rect(0, 0, 100, 100), scale.Range{Min: 0, Max: 1}, scale.Range{Min: 0, Max: 1})
}

func polylines(r *draw.Recorder) []draw.Polyline {
	var out []draw.Polyline
	for _, p := range r.Primitives() {
		if pl, ok := p.(draw.Polyline); ok {
			out = append(out, pl)
		}
	}
	return out
}

func count[T draw.Primitive](r *draw.Recorder) int {
	n := 0
	for _, p := range r.Primitives() {
		if _, ok := p.(T); ok {
			n++
		}
	}
	return n
}

func TestStepIsPixelPerfect(t *testing.T) {
	s, err := series.NewStep([]float64{0, 1}, []float64{0, 1})
	if err != nil {
		t.Fatal(err)
	}
	rec := newRecorder()
	if err := Series(rec, s, unitFrame(), blue); err != nil {
		t.Fatal(err)
	}

	lines := polylines(rec)
	if len(lines) != 1 {
		t.Fatalf("got %d polylines, want 1", len(lines))
	}
	pts := lines[0].Points
	want := []draw.Point{{X: 0, Y: 100}, {X: 100, Y: 100}, {X: 100, Y: 0}}
	if len(pts) != len(want) {
		t.Fatalf("vertices = %v, want %v", pts, want)
	}
	for i := range want {
		if pts[i] != want[i] {
			t.Errorf("vertex %d = %v, want %v", i, pts[i], want[i])
		}
	}
	// The end of the horizontal run and the riser share one integral column.
	if pts[1].X != pts[2].X || pts[1].X != math.Trunc(pts[1].X) {
		t.Errorf("riser x = %v / %v, want one integer column", pts[1].X, pts[2].X)
	}
}

func TestStepSnapsFractionalPixels(t *testing.T) {
	f := NewFrame(image.Rect(3, 5, 100, 90), scale.Range{Min: -0.3, Max: 1.7}, scale.Range{Min: -0.15, Max: 2.2})
	s, _ := series.NewStep([]float64{0, 0.4, 1.1, 1.2}, []float64{0.1, 2, 0.7, 1})
	e, _ := series.NewStepEdges([]float64{0, 0.5, 1}, []float64{1, 2})

	for _, s := range []*series.Series{s, e} {
		vs := StepVertices(s, f)
		for i, p := range vs {
			if p.X != math.Round(p.X) || p.Y != math.Round(p.Y) {
				t.Errorf("vertex %d = %v is not on the pixel grid", i, p)
			}
		}
		for i := 1; i < len(vs); i++ {
			if vs[i].X != vs[i-1].X && vs[i].Y != vs[i-1].Y {
				t.Errorf("segment %v -> %v is diagonal", vs[i-1], vs[i])
			}
		}
	}
	if got := len(StepVertices(e, f)); got != 4 {
		t.Errorf("edge series has %d vertices, want 4", got)
	}
	if got := len(StepVertices(s, f)); got != 7 {
		t.Errorf("point series has %d vertices, want 7", got)
	}
}

func TestLineBreaksAtNonFinite(t *testing.T) {
	s, _ := series.NewLine([]float64{0, 0.25, 0.5, 0.75, 1}, []float64{0, 1, math.NaN(), 0.5, 0.5})
	rec := newRecorder()
	if err := Series(rec, s, unitFrame(), blue); err != nil {
		t.Fatal(err)
	}
	lines := polylines(rec)
	if len(lines) != 2 || len(lines[0].Points) != 2 || len(lines[1].Points) != 2 {
		t.Fatalf("polylines = %v, want two runs of 2 points", lines)
	}
	for _, l := range lines {
		if l.Style.Clip != image.Rect(0, 0, 100, 100) {
			t.Errorf("polyline clip = %v, want plot area", l.Style.Clip)
		}
		if l.Style.Color != blue || l.Style.Width != series.DefaultWidth {
			t.Errorf("polyline style = %+v", l.Style)
		}
	}
	// Data order is kept.
	if lines[0].Points[0] != (draw.Point{X: 0, Y: 100}) {
		t.Errorf("first point = %v, want (0, 100)", lines[0].Points[0])
	}
}

func TestLineWithMarkers(t *testing.T) {
	s, _ := series.NewLine([]float64{0, 0.5, 1}, []float64{0, 1, 0}, series.WithMarker(draw.MarkerSquare))
	rec := newRecorder()
	if err := Series(rec, s, unitFrame(), blue); err != nil {
		t.Fatal(err)
	}
	if n := count[draw.Glyph](rec); n != 3 {
		t.Errorf("got %d markers, want 3", n)
	}
	// The line is drawn before its markers.
	if _, ok := rec.Primitives()[0].(draw.Polyline); !ok {
		t.Errorf("first primitive = %T, want Polyline", rec.Primitives()[0])
	}
}

func TestScatter(t *testing.T) {
	s, _ := series.NewScatter([]float64{0.1, 0.2, math.Inf(1), 0.4}, []float64{0.5, 0.5, 0.5, 0.9})
	rec := newRecorder()
	if err := Series(rec, s, unitFrame(), blue); err != nil {
		t.Fatal(err)
	}
	if n := count[draw.Glyph](rec); n != 3 {
		t.Fatalf("got %d markers, want 3", n)
	}
	if n := count[draw.Polyline](rec); n != 0 {
		t.Errorf("scatter drew %d polylines", n)
	}
	last := rec.Primitives()[2].(draw.Glyph)
	if math.Abs(last.Center.X-40) > 1e-9 || math.Abs(last.Center.Y-10) > 1e-9 {
		t.Errorf("last marker at %v, want (40, 10)", last.Center)
	}
	if last.Marker != draw.MarkerCircle || last.Style.Color != blue {
		t.Errorf("marker = %v %+v", last.Marker, last.Style)
	}
}

func TestFillBetween(t *testing.T) {
	s, _ := series.NewFillBetween([]float64{0, 0.5, 1}, []float64{1, 1, 1}, []float64{0, 0.5, 0})
	rec := newRecorder()
	if err := Series(rec, s, unitFrame(), blue); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 1 {
		t.Fatalf("got %d primitives, want 1 fill", rec.Len())
	}
	fill := rec.Primitives()[0].(draw.Fill)
	want := []draw.Point{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 50, Y: 50}, {X: 0, Y: 100}}
	if len(fill.Boundary) != len(want) {
		t.Fatalf("boundary = %v, want %v", fill.Boundary, want)
	}
	for i := range want {
		if fill.Boundary[i] != want[i] {
			t.Errorf("boundary %d = %v, want %v", i, fill.Boundary[i], want[i])
		}
	}
	if fill.Style.Color != blue.WithAlpha(series.FillAlpha) {
		t.Errorf("fill color = %v, want translucent cycle color", fill.Style.Color)
	}
}

func TestFillToBaselineCrossing(t *testing.T) {
	s, _ := series.NewFillTo([]float64{0, 0.5, 1}, []float64{0, 1, 0}, 0.5)
	b := FillBoundary(s, unitFrame())
	if len(b) != 6 {
		t.Fatalf("boundary = %v, want 6 points", b)
	}
	for _, p := range b[3:] {
		if p.Y != 50 {
			t.Errorf("baseline point %v, want y = 50", p)
		}
	}
}

func TestFillTooFewPoints(t *testing.T) {
	s, _ := series.NewFillTo([]float64{0.5}, []float64{1}, 0)
	rec := newRecorder()
	if err := Series(rec, s, unitFrame(), blue); err != nil {
		t.Fatal(err)
	}
	if rec.Len() != 0 {
		t.Errorf("single-point fill drew %d primitives", rec.Len())
	}
}

func decorations() Decorations {
	xset, _ := ticks.Resolve(scale.Range{Min: 0, Max: 1}, 100, ticks.Policy{})
	yset, _ := ticks.Resolve(scale.Range{Min: 0, Max: 1}, 100, ticks.Policy{})
	d := Decorations{
		Title: "title",
		X:     Axis{Label: "x", Ticks: xset, TickLabels: true, Spine: true, Grid: GridMajor},
		Y:     Axis{Label: "y", Ticks: yset, TickLabels: true, Spine: true},
	}
	d.X2, d.Y2 = Mirror(d.X), Mirror(d.Y)
	return d
}

func TestDrawAxes(t *testing.T) {
	d := decorations()
	rec := newRecorder()
	if err := DrawAxes(rec, unitFrame(), d, DefaultFormat()); err != nil {
		t.Fatal(err)
	}

	var texts []draw.Text
	for _, p := range rec.Primitives() {
		if tx, ok := p.(draw.Text); ok {
			texts = append(texts, tx)
		}
	}
	wantTexts := len(d.X.Ticks.Major) + len(d.Y.Ticks.Major) + 3
	if len(texts) != wantTexts {
		t.Errorf("got %d text runs, want %d", len(texts), wantTexts)
	}

	var rotated int
	for _, tx := range texts {
		if tx.Style.Rotation != 0 {
			rotated++
			if tx.Text != "y" {
				t.Errorf("unexpected rotated text %q", tx.Text)
			}
		}
	}
	if rotated != 1 {
		t.Errorf("got %d rotated labels, want 1", rotated)
	}

	// Four spines plus two marks (one mirrored) per tick.
	ticksDrawn := len(d.X.Ticks.Major) + len(d.X.Ticks.Minor) + len(d.Y.Ticks.Major) + len(d.Y.Ticks.Minor)
	if n := count[draw.Line](rec); n != 4+2*ticksDrawn {
		t.Errorf("got %d lines, want %d", n, 4+2*ticksDrawn)
	}

	for _, p := range rec.Primitives() {
		if l, ok := p.(draw.Line); ok && l.Start.X != l.End.X && l.Start.Y != l.End.Y {
			t.Errorf("decoration line %v -> %v is not axis-aligned", l.Start, l.End)
		}
	}
}

func TestDrawAxesHiddenSpines(t *testing.T) {
	d := decorations()
	d.X.Spine, d.Y.Spine = false, false
	d.X2, d.Y2 = Mirror(d.X), Mirror(d.Y)
	f := DefaultFormat()
	f.TickDirection = TickOuter
	rec := newRecorder()
	if err := DrawAxes(rec, unitFrame(), d, f); err != nil {
		t.Fatal(err)
	}
	ticksDrawn := len(d.X.Ticks.Major) + len(d.X.Ticks.Minor) + len(d.Y.Ticks.Major) + len(d.Y.Ticks.Minor)
	if n := count[draw.Line](rec); n != ticksDrawn {
		t.Errorf("got %d lines, want %d unmirrored ticks", n, ticksDrawn)
	}
	for _, p := range rec.Primitives() {
		if l, ok := p.(draw.Line); ok && l.Start.X == l.End.X && math.Min(l.Start.Y, l.End.Y) < 100 {
			t.Errorf("outer x tick %v -> %v points into the plot", l.Start, l.End)
		}
	}
}

func TestDrawGrid(t *testing.T) {
	d := decorations()
	rec := newRecorder()
	if err := DrawGrid(rec, unitFrame(), d, DefaultFormat()); err != nil {
		t.Fatal(err)
	}
	if n := count[draw.Line](rec); n != len(d.X.Ticks.Major) {
		t.Errorf("got %d grid lines, want %d", n, len(d.X.Ticks.Major))
	}

	d.Y.Grid = GridFull
	rec.Reset()
	if err := DrawGrid(rec, unitFrame(), d, DefaultFormat()); err != nil {
		t.Fatal(err)
	}
	want := len(d.X.Ticks.Major) + len(d.Y.Ticks.Major) + len(d.Y.Ticks.Minor)
	if n := count[draw.Line](rec); n != want {
		t.Errorf("got %d grid lines, want %d", n, want)
	}
}

func TestMeasure(t *testing.T) {
	rec := newRecorder()
	f := DefaultFormat()
	em := f.FontSize
	pad := math.Floor(em * 0.6)

	empty := Measure(rec, Decorations{}, f)
	if empty != (Insets{Left: int(pad), Right: int(pad), Top: int(pad), Bottom: int(pad)}) {
		t.Errorf("empty insets = %+v, want %v on every side", empty, pad)
	}

	d := decorations()
	got := Measure(rec, d, f)
	if want := int(pad + 2*(em+pad)); got.Bottom != want {
		t.Errorf("bottom = %d, want %d", got.Bottom, want)
	}
	if want := int(pad + em + pad); got.Top != want {
		t.Errorf("top = %d, want %d", got.Top, want)
	}
	if got.Left <= int(pad+em+pad) {
		t.Errorf("left = %d should include the tick label column", got.Left)
	}

	f.TickDirection = TickOuter
	if outer := Measure(rec, d, f); outer.Bottom != got.Bottom+int(f.TickLength) {
		t.Errorf("outer ticks bottom = %d, want %d", outer.Bottom, got.Bottom+int(f.TickLength))
	}
}

func TestDrawLegend(t *testing.T) {
	s, _ := series.NewLine(nil, nil, series.WithMarker(draw.MarkerCircle))
	fill, _ := series.NewFillTo(nil, nil, 0)
	entries := []LegendEntry{
		{Label: "line", Kind: series.Line, Style: s.Style().Resolve(series.Line, blue)},
		{Label: "fill", Kind: series.Fill, Style: fill.Style().Resolve(series.Fill, blue)},
	}
	rec := newRecorder()
	if err := DrawLegend(rec, unitFrame(), entries, DefaultFormat()); err != nil {
		t.Fatal(err)
	}
	if n := count[draw.Text](rec); n != 2 {
		t.Errorf("got %d labels, want 2", n)
	}
	if n := count[draw.Glyph](rec); n != 1 {
		t.Errorf("got %d marker swatches, want 1", n)
	}

	rec.Reset()
	if err := DrawLegend(rec, unitFrame(), nil, DefaultFormat()); err != nil || rec.Len() != 0 {
		t.Errorf("empty legend drew %d primitives, err %v", rec.Len(), err)
	}
}

func TestInsetsShrink(t *testing.T) {
	r := image.Rect(0, 0, 100, 80)
	if got := (Insets{Left: 10, Right: 5, Top: 3, Bottom: 7}).Shrink(r); got != image.Rect(10, 3, 95, 73) {
		t.Errorf("Shrink() = %v", got)
	}
	if got := (Insets{Left: 60, Right: 60}).Shrink(r); !got.Empty() {
		t.Errorf("Shrink() = %v, want empty", got)
	}
}

func TestDrawSecondaryAxes(t *testing.T) {
	y2set, _ := ticks.Resolve(scale.Range{Min: 100, Max: 200}, 100, ticks.Policy{})
	x2set, _ := ticks.Resolve(scale.Range{Min: -5, Max: 5}, 100, ticks.Policy{})
	d := decorations()
	d.X2 = Axis{Label: "top", Ticks: x2set, TickLabels: true, Spine: true}
	d.Y2 = Axis{Label: "right", Ticks: y2set, TickLabels: true, Spine: true}
	fr := unitFrame().WithSecondary(scale.Range{Min: -5, Max: 5}, scale.Range{Min: 100, Max: 200})

	rec := newRecorder()
	if err := DrawAxes(rec, fr, d, DefaultFormat()); err != nil {
		t.Fatal(err)
	}

	labels := map[string]draw.Text{}
	for _, p := range rec.Primitives() {
		if tx, ok := p.(draw.Text); ok {
			labels[tx.Text] = tx
		}
	}
	for _, tk := range y2set.Major {
		tx, ok := labels[tk.Label]
		if !ok {
			t.Errorf("right tick label %q not drawn", tk.Label)
			continue
		}
		if tx.Anchor.X <= 100 || tx.Style.HAlign != draw.AlignLeft {
			t.Errorf("right tick label %q at %v aligned %v, want left-aligned right of the plot", tk.Label, tx.Anchor, tx.Style.HAlign)
		}
		if want := math.Round(fr.Y2.ToPixel(tk.Value)); tx.Anchor.Y != want {
			t.Errorf("right tick label %q at y %v, want %v", tk.Label, tx.Anchor.Y, want)
		}
	}
	for _, tk := range x2set.Major {
		if tx, ok := labels[tk.Label]; !ok || tx.Anchor.Y >= 0 {
			t.Errorf("top tick label %q = %+v, want it above the plot", tk.Label, tx)
		}
	}
	if tx := labels["right"]; tx.Style.Rotation == 0 || tx.Anchor.X <= 100 {
		t.Errorf("right label = %+v, want rotated right of the plot", tx)
	}
	if title, top := labels["title"], labels["top"]; title.Anchor.Y >= top.Anchor.Y {
		t.Errorf("title at y %v should sit above the top label at %v", title.Anchor.Y, top.Anchor.Y)
	}

	rec.Reset()
	plain := decorations()
	dm := Measure(rec, d, DefaultFormat())
	pm := Measure(rec, plain, DefaultFormat())
	if dm.Right <= pm.Right || dm.Top <= pm.Top {
		t.Errorf("secondary insets %+v should exceed mirrored insets %+v on the top and right", dm, pm)
	}
	if dm.Left != pm.Left || dm.Bottom != pm.Bottom {
		t.Errorf("secondary axes changed the left or bottom inset: %+v vs %+v", dm, pm)
	}
}

func TestDrawMinorTickLabels(t *testing.T) {
	set, _ := ticks.Resolve(scale.Range{Min: 0, Max: 1}, 100, ticks.Policy{MinorLabels: ticks.OnLabels()})
	d := Decorations{X: Axis{Ticks: set, TickLabels: true, Spine: true}}
	rec := newRecorder()
	if err := DrawAxes(rec, unitFrame(), d, DefaultFormat()); err != nil {
		t.Fatal(err)
	}
	if want, got := len(set.Major)+len(set.Minor), count[draw.Text](rec); got != want {
		t.Errorf("got %d tick labels, want %d for majors and minors", got, want)
	}
}

func TestMirror(t *testing.T) {
	a := decorations().X
	m := Mirror(a)
	if !m.Spine || m.TickLabels || m.Label != "" || m.Grid != GridNone {
		t.Errorf("mirror = %+v, want a bare spine", m)
	}
	if len(m.Ticks.Major) != len(a.Ticks.Major) || m.Ticks.Modifier != "" {
		t.Fatalf("mirror ticks = %+v", m.Ticks)
	}
	for _, tk := range m.Ticks.Major {
		if tk.Label != "" {
			t.Errorf("mirrored tick %v keeps its label", tk)
		}
	}
	if a.Ticks.Major[0].Label == "" {
		t.Error("Mirror modified the source ticks")
	}

	a.Spine = false
	if m := Mirror(a); m.Spine || m.hasTicks() {
		t.Errorf("mirror of a hidden spine = %+v, want nothing", m)
	}
}

func TestFrameFor(t *testing.T) {
	fr := unitFrame().WithSecondary(scale.Range{Min: 0, Max: 10}, scale.Range{Min: 0, Max: 100})
	tests := []struct {
		name   string
		sx, sy bool
		want   draw.Point
	}{
		{"primary", false, false, draw.Point{X: 100, Y: 0}},
		{"secondary y", false, true, draw.Point{X: 100, Y: 99}},
		{"secondary x", true, false, draw.Point{X: 10, Y: 0}},
		{"both", true, true, draw.Point{X: 10, Y: 99}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fr.For(tt.sx, tt.sy).Point(1, 1); got != tt.want {
				t.Errorf("Point(1, 1) = %v, want %v", got, tt.want)
			}
		})
	}
}
