// Package sweep evaluates a galaxy metric over a grid of parameter values.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strconv"
	"strings"

	"github.com/san-kum/galaxy/internal/analysis"
	"github.com/san-kum/galaxy/internal/galaxy"
	"golang.org/x/sync/errgroup"
)

var (
	ErrBadAxis       = errors.New("sweep: malformed axis")
	ErrEmptyGrid     = errors.New("sweep: empty grid")
	ErrUnknownMetric = errors.New("sweep: unknown metric")
)

// maxAxisValues guards against ranges with a tiny step.
const maxAxisValues = 1000

// Axis is one swept parameter and the values it takes.
type Axis struct {
	Key    string
	Values []float64
}

// ParseAxis parses "key=lo:hi:step" or "key=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	key, spec, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" || spec == "" {
		return Axis{}, fmt.Errorf("%w: %q", ErrBadAxis, s)
	}
	c, ok := galaxy.LookupControl(key)
	if !ok {
		return Axis{}, fmt.Errorf("%w: %q", galaxy.ErrUnknownParam, key)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		var nums [3]float64
		for i, p := range parts {
			v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return Axis{}, fmt.Errorf("%w: %q: %v", ErrBadAxis, s, err)
			}
			nums[i] = v
		}
		lo, hi, step := nums[0], nums[1], nums[2]
		if step <= 0 || hi < lo || (hi-lo)/step >= maxAxisValues {
			return Axis{}, fmt.Errorf("%w: %q", ErrBadAxis, s)
		}
		axis := Axis{Key: key}
		n := int(math.Floor((hi-lo)/step+1e-9)) + 1
		for i := 0; i < n; i++ {
			axis.Values = append(axis.Values, math.Round((lo+float64(i)*step)*1e9)/1e9)
		}
		return inRange(axis, c, s)
	}

	axis := Axis{Key: key}
	for _, p := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("%w: %q: %v", ErrBadAxis, s, err)
		}
		axis.Values = append(axis.Values, v)
	}
	return inRange(axis, c, s)
}

// inRange rejects axes with values the control would clamp.
func inRange(axis Axis, c galaxy.Control, s string) (Axis, error) {
	for _, v := range axis.Values {
		if !c.Contains(v) {
			return Axis{}, fmt.Errorf("%w: %q: %g not in [%g, %g]", ErrBadAxis, s, v, c.Min, c.Max)
		}
	}
	return axis, nil
}

// Point is one evaluated grid cell.
type Point struct {
	Values  map[string]float64 `json:"values"`
	Metrics map[string]float64 `json:"metrics"`
	Score   float64            `json:"score"`
}

type Result struct {
	Metric string  `json:"metric"`
	Best   Point   `json:"best"`
	Points []Point `json:"points"`
}

type GridSearch struct {
	axes []Axis
	// Minimize selects the lowest score instead of the highest.
	Minimize bool
	Workers  int
}

func NewGridSearch(axes []Axis) *GridSearch {
	return &GridSearch{axes: axes, Workers: runtime.GOMAXPROCS(0)}
}

// Cells enumerates every combination of axis values.
func (g *GridSearch) Cells() []map[string]float64 {
	if len(g.axes) == 0 {
		return nil
	}
	var cells []map[string]float64
	g.cellsRecursive(0, map[string]float64{}, &cells)
	return cells
}

func (g *GridSearch) cellsRecursive(depth int, current map[string]float64, out *[]map[string]float64) {
	if depth == len(g.axes) {
		*out = append(*out, current)
		return
	}
	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Key] = val
		g.cellsRecursive(depth+1, next, out)
	}
}

// Search generates a field for every cell on top of base and scores it by
// metric (a key of analysis.Metrics).
func (g *GridSearch) Search(ctx context.Context, base galaxy.Params, metric string) (Result, error) {
	cells := g.Cells()
	if len(cells) == 0 {
		return Result{}, ErrEmptyGrid
	}
	if _, ok := analysis.Metrics(&galaxy.Field{})[metric]; !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}

	points := make([]Point, len(cells))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(1, g.Workers))
	for i, cell := range cells {
		eg.Go(func() error {
			p := base
			for k, v := range cell {
				if err := p.Set(k, v); err != nil {
					return err
				}
			}
			f, err := galaxy.Generate(ctx, p)
			if err != nil {
				return fmt.Errorf("cell %v: %w", cell, err)
			}
			m := analysis.Metrics(f)
			points[i] = Point{Values: cell, Metrics: m, Score: m[metric]}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Metric: metric, Points: points, Best: points[0]}
	for _, pt := range points[1:] {
		if g.better(pt.Score, res.Best.Score) {
			res.Best = pt
		}
	}
	return res, nil
}

func (g *GridSearch) better(a, b float64) bool {
	if g.Minimize {
		return a < b
	}
	return a > b
}
