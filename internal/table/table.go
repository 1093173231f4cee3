// Package table models code-mandated design tables as explicit sorted
// breakpoint structures with linear interpolation between breakpoints and
// clamping at the boundaries.
//
// Lookups never extrapolate. An argument outside the tabulated range is
// clamped to the nearest boundary and the returned Lookup records which
// axis was clamped so callers can attach a warning to their result.
package table

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// Clamp records how an argument was moved onto the table range
type Clamp struct {
	Axis  string  `json:"axis"`
	Given float64 `json:"given"`
	Used  float64 `json:"used"`
}

func (c Clamp) String() string {
	return fmt.Sprintf("%s %.4g outside table range, clamped to %.4g", c.Axis, c.Given, c.Used)
}

// Lookup is the value read from a table plus any boundary clamps applied
type Lookup struct {
	Value  float64
	Clamps []Clamp
}

// Clamped reports whether any axis was clamped
func (l Lookup) Clamped() bool {
	return len(l.Clamps) > 0
}

// Curve is a one-dimensional piecewise-linear table y(x)
type Curve struct {
	Name string
	Axis string
	xs   []float64
	ys   []float64
	fit  interp.PiecewiseLinear
}

// NewCurve builds a curve from breakpoints. xs must be strictly increasing.
func NewCurve(name, axis string, xs, ys []float64) (*Curve, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("table %s: %d breakpoints but %d values", name, len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("table %s: no breakpoints", name)
	}
	if !sort.Float64sAreSorted(xs) {
		return nil, fmt.Errorf("table %s: breakpoints must be increasing", name)
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] == xs[i-1] {
			return nil, fmt.Errorf("table %s: duplicate breakpoint %g", name, xs[i])
		}
	}

	c := &Curve{
		Name: name,
		Axis: axis,
		xs:   append([]float64(nil), xs...),
		ys:   append([]float64(nil), ys...),
	}
	if len(xs) > 1 {
		if err := c.fit.Fit(c.xs, c.ys); err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
	}
	return c, nil
}

// MustCurve is NewCurve for package-level table literals
func MustCurve(name, axis string, xs, ys []float64) *Curve {
	c, err := NewCurve(name, axis, xs, ys)
	if err != nil {
		panic(err)
	}
	return c
}

// Range returns the first and last breakpoint
func (c *Curve) Range() (lo, hi float64) {
	return c.xs[0], c.xs[len(c.xs)-1]
}

// At evaluates the curve, clamping x to the tabulated range.
// Boundary arguments return the boundary value exactly.
func (c *Curve) At(x float64) Lookup {
	var out Lookup
	lo, hi := c.Range()
	switch {
	case x <= lo:
		if x < lo {
			out.Clamps = append(out.Clamps, Clamp{Axis: c.Axis, Given: x, Used: lo})
		}
		out.Value = c.ys[0]
		return out
	case x >= hi:
		if x > hi {
			out.Clamps = append(out.Clamps, Clamp{Axis: c.Axis, Given: x, Used: hi})
		}
		out.Value = c.ys[len(c.ys)-1]
		return out
	}
	if i := sort.SearchFloat64s(c.xs, x); i < len(c.xs) && c.xs[i] == x {
		out.Value = c.ys[i]
		return out
	}
	out.Value = c.fit.Predict(x)
	return out
}

// Grid is a two-dimensional table z(row, col) with bilinear interpolation.
// Rows and columns are each strictly increasing.
type Grid struct {
	Name    string
	RowAxis string
	ColAxis string
	rows    []float64
	cols    []float64
	// byCol[j] is the curve along the row axis for column j
	byCol []*Curve
}

// NewGrid builds a grid from row and column breakpoints and values[row][col]
func NewGrid(name, rowAxis, colAxis string, rows, cols []float64, values [][]float64) (*Grid, error) {
	if len(values) != len(rows) {
		return nil, fmt.Errorf("table %s: %d rows but %d value rows", name, len(rows), len(values))
	}
	if len(cols) == 0 || !sort.Float64sAreSorted(cols) {
		return nil, fmt.Errorf("table %s: column breakpoints must be increasing", name)
	}
	g := &Grid{
		Name:    name,
		RowAxis: rowAxis,
		ColAxis: colAxis,
		rows:    append([]float64(nil), rows...),
		cols:    append([]float64(nil), cols...),
	}
	for j := range cols {
		col := make([]float64, len(rows))
		for i, row := range values {
			if len(row) != len(cols) {
				return nil, fmt.Errorf("table %s: row %d has %d values, want %d", name, i, len(row), len(cols))
			}
			col[i] = row[j]
		}
		c, err := NewCurve(fmt.Sprintf("%s[%s=%g]", name, colAxis, cols[j]), rowAxis, rows, col)
		if err != nil {
			return nil, err
		}
		g.byCol = append(g.byCol, c)
	}
	return g, nil
}

// MustGrid is NewGrid for package-level table literals
func MustGrid(name, rowAxis, colAxis string, rows, cols []float64, values [][]float64) *Grid {
	g, err := NewGrid(name, rowAxis, colAxis, rows, cols, values)
	if err != nil {
		panic(err)
	}
	return g
}

// ColumnRange returns the first and last column breakpoint
func (g *Grid) ColumnRange() (lo, hi float64) {
	return g.cols[0], g.cols[len(g.cols)-1]
}

// RowRange returns the first and last row breakpoint
func (g *Grid) RowRange() (lo, hi float64) {
	return g.rows[0], g.rows[len(g.rows)-1]
}

// At evaluates the grid at (row, col), clamping both axes independently
func (g *Grid) At(row, col float64) Lookup {
	var out Lookup

	lo, hi := g.ColumnRange()
	c := col
	if c < lo {
		out.Clamps = append(out.Clamps, Clamp{Axis: g.ColAxis, Given: col, Used: lo})
		c = lo
	} else if c > hi {
		out.Clamps = append(out.Clamps, Clamp{Axis: g.ColAxis, Given: col, Used: hi})
		c = hi
	}

	j := sort.SearchFloat64s(g.cols, c)
	if j < len(g.cols) && g.cols[j] == c {
		l := g.byCol[j].At(row)
		out.Value = l.Value
		out.Clamps = append(out.Clamps, l.Clamps...)
		return out
	}

	left := g.byCol[j-1].At(row)
	right := g.byCol[j].At(row)
	t := (c - g.cols[j-1]) / (g.cols[j] - g.cols[j-1])
	out.Value = left.Value + t*(right.Value-left.Value)
	out.Clamps = append(out.Clamps, left.Clamps...)
	return out
}
