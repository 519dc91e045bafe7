// Package transform implements the geometric resampling operations, Scale
// and Rotate, on top of frame and interp.
//
// Both operations use inverse mapping: every destination pixel is mapped
// back to a fractional source location, the four surrounding samples are
// gathered from a padded copy of the source, and the interpolator blends
// them. Destination rows are independent, so they are processed in bands
// that may run concurrently.
package transform

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Fepozopo/resample/pkg/config"
	"github.com/Fepozopo/resample/pkg/frame"
	"github.com/Fepozopo/resample/pkg/interp"
	"github.com/Fepozopo/resample/pkg/logging"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Engine carries the execution settings shared by all transforms. A nil
// *Engine behaves like Default().
type Engine struct {
	cfg config.Config
	log logrus.FieldLogger
}

// New returns an engine using cfg. A nil log discards output.
func New(cfg config.Config, log logrus.FieldLogger) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	return &Engine{cfg: cfg, log: log}
}

func Default() *Engine {
	return New(config.Default(), nil)
}

func (e *Engine) orDefault() *Engine {
	if e == nil {
		return Default()
	}
	return e
}

// Config returns the engine settings.
func (e *Engine) Config() config.Config {
	return e.orDefault().cfg
}

func (e *Engine) workers() int {
	if e.cfg.Workers > 0 {
		return e.cfg.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// forEachBand splits rows into contiguous bands and calls fn for each.
// Small destinations run on the calling goroutine. The first error is
// returned once all bands have finished.
func (e *Engine) forEachBand(rows, cols int, fn func(y0, y1 int) error) error {
	workers := min(e.workers(), rows)
	if workers <= 1 || rows*cols < e.cfg.ParallelMinPixels {
		return fn(0, rows)
	}

	chunk := (rows + workers - 1) / workers
	e.log.WithFields(logrus.Fields{
		"rows":    rows,
		"workers": workers,
		"band":    chunk,
	}).Debug("splitting destination into row bands")

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < rows; start += chunk {
		end := min(start+chunk, rows)
		g.Go(func() error {
			return fn(start, end)
		})
	}
	return g.Wait()
}

// samplingGrid holds, for a set of destination pixels, the floor index and
// fractional remainder of the inverse-mapped source coordinate. All slices
// have the same length. Channels share coordinates, so the grid is per
// pixel and channels are iterated when gathering.
type samplingGrid struct {
	dstY, dstX []int
	iy, ix     []int
	fy, fx     []float64
}

func newSamplingGrid(capacity int) *samplingGrid {
	return &samplingGrid{
		dstY: make([]int, 0, capacity),
		dstX: make([]int, 0, capacity),
		iy:   make([]int, 0, capacity),
		ix:   make([]int, 0, capacity),
		fy:   make([]float64, 0, capacity),
		fx:   make([]float64, 0, capacity),
	}
}

func (g *samplingGrid) len() int { return len(g.dstY) }

func (g *samplingGrid) add(dy, dx, iy, ix int, fy, fx float64) {
	g.dstY = append(g.dstY, dy)
	g.dstX = append(g.dstX, dx)
	g.iy = append(g.iy, iy)
	g.ix = append(g.ix, ix)
	g.fy = append(g.fy, fy)
	g.fx = append(g.fx, fx)
}

// resample gathers the four neighbours of every grid entry from padded,
// interpolates them and scatters the result into dst, channel by channel.
// The zero fallback of an interp.ZeroFallback is decided on the value as
// stored in T.
func resample[T frame.Sample](padded, dst *frame.Frame[T], g *samplingGrid, ip interp.Interpolator) error {
	n := g.len()
	if n == 0 {
		return nil
	}
	iy1 := make([]int, n)
	ix1 := make([]int, n)
	for i := range n {
		iy1[i] = g.iy[i] + 1
		ix1[i] = g.ix[i] + 1
	}
	cs := make([]int, n)
	lt := make([]T, n)
	lb := make([]T, n)
	rt := make([]T, n)
	rb := make([]T, n)
	ns := make([]interp.Neighborhood, n)
	vals := make([]float64, n)
	out := make([]T, n)

	for c := 0; c < dst.Channels(); c++ {
		for i := range cs {
			cs[i] = c
		}
		if err := gather4(padded, g, iy1, ix1, cs, lt, lb, rt, rb); err != nil {
			return err
		}
		for i := range ns {
			ns[i] = interp.Neighborhood{
				TopLeft:     float64(lt[i]),
				BottomLeft:  float64(lb[i]),
				TopRight:    float64(rt[i]),
				BottomRight: float64(rb[i]),
			}
		}
		if err := interp.Batch(ip, ns, g.fy, g.fx, vals); err != nil {
			return err
		}
		zf, _ := ip.(interp.ZeroFallback)
		for i, v := range vals {
			out[i] = frame.Cast[T](v)
			if out[i] != 0 || zf == nil {
				continue
			}
			if fb, ok := zf.Fallback(ns[i], g.fy[i], g.fx[i]); ok {
				out[i] = frame.Cast[T](fb)
			}
		}
		if err := dst.Scatter(g.dstY, g.dstX, cs, out); err != nil {
			return fmt.Errorf("scatter channel %d: %w", c, err)
		}
	}
	return nil
}

func gather4[T frame.Sample](f *frame.Frame[T], g *samplingGrid, iy1, ix1, cs []int, lt, lb, rt, rb []T) error {
	if err := f.Gather(g.iy, g.ix, cs, lt); err != nil {
		return fmt.Errorf("gather top-left: %w", err)
	}
	if err := f.Gather(iy1, g.ix, cs, lb); err != nil {
		return fmt.Errorf("gather bottom-left: %w", err)
	}
	if err := f.Gather(g.iy, ix1, cs, rt); err != nil {
		return fmt.Errorf("gather top-right: %w", err)
	}
	if err := f.Gather(iy1, ix1, cs, rb); err != nil {
		return fmt.Errorf("gather bottom-right: %w", err)
	}
	return nil
}

func padForNeighbors[T frame.Sample](src *frame.Frame[T]) (*frame.Frame[T], error) {
	return frame.NewPadder(src).Bottom(1).End(1).Build()
}

func interpolatorName(ip interp.Interpolator) string {
	if s, ok := ip.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", ip)
}
