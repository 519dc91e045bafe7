// Package frame holds the pixel grid the resampling engine works on.
//
// A Frame is a height x width x channel grid of numeric samples stored
// row-major in a single slice. Indexing is bounds-checked, and the batched
// Gather/Scatter helpers validate every index before touching memory.
package frame

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	ErrInvalidShape  = errors.New("invalid frame shape: height, width and channels must be positive")
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrOutOfBounds   = errors.New("index out of bounds")
)

// Sample is the set of numeric types a Frame can store.
type Sample interface {
	constraints.Integer | constraints.Float
}

// Frame is a height x width x channel grid of samples.
type Frame[T Sample] struct {
	Pix []T
	h   int
	w   int
	c   int
}

// New allocates a zero-filled frame.
func New[T Sample](h, w, c int) (*Frame[T], error) {
	if h <= 0 || w <= 0 || c <= 0 {
		return nil, fmt.Errorf("%w: got %dx%dx%d", ErrInvalidShape, h, w, c)
	}
	return &Frame[T]{Pix: make([]T, h*w*c), h: h, w: w, c: c}, nil
}

// FromSlice builds a frame holding a copy of pix, which must be laid out
// row-major as [h][w][c].
func FromSlice[T Sample](h, w, c int, pix []T) (*Frame[T], error) {
	f, err := New[T](h, w, c)
	if err != nil {
		return nil, err
	}
	if len(pix) != len(f.Pix) {
		return nil, fmt.Errorf("%w: %d samples for a %dx%dx%d frame", ErrShapeMismatch, len(pix), h, w, c)
	}
	copy(f.Pix, pix)
	return f, nil
}

func (f *Frame[T]) Height() int   { return f.h }
func (f *Frame[T]) Width() int    { return f.w }
func (f *Frame[T]) Channels() int { return f.c }

// Len returns the number of samples (h*w*c).
func (f *Frame[T]) Len() int { return len(f.Pix) }

// Offset returns the index of (y, x, c) in Pix. It does not check bounds.
func (f *Frame[T]) Offset(y, x, c int) int {
	return (y*f.w+x)*f.c + c
}

func (f *Frame[T]) inBounds(y, x, c int) bool {
	return y >= 0 && y < f.h && x >= 0 && x < f.w && c >= 0 && c < f.c
}

// At returns the sample at (y, x, c).
func (f *Frame[T]) At(y, x, c int) (T, error) {
	if !f.inBounds(y, x, c) {
		var zero T
		return zero, fmt.Errorf("%w: (%d, %d, %d) in %dx%dx%d", ErrOutOfBounds, y, x, c, f.h, f.w, f.c)
	}
	return f.Pix[f.Offset(y, x, c)], nil
}

// Set writes v at (y, x, c).
func (f *Frame[T]) Set(y, x, c int, v T) error {
	if !f.inBounds(y, x, c) {
		return fmt.Errorf("%w: (%d, %d, %d) in %dx%dx%d", ErrOutOfBounds, y, x, c, f.h, f.w, f.c)
	}
	f.Pix[f.Offset(y, x, c)] = v
	return nil
}

// checkIndex validates a batch of coordinates. Nothing is read or written
// unless every coordinate is in range.
func (f *Frame[T]) checkIndex(ys, xs, cs []int, n int) error {
	if len(ys) != n || len(xs) != n || len(cs) != n {
		return fmt.Errorf("%w: index lengths y=%d x=%d c=%d, values=%d", ErrShapeMismatch, len(ys), len(xs), len(cs), n)
	}
	for i := range ys {
		if !f.inBounds(ys[i], xs[i], cs[i]) {
			return fmt.Errorf("%w: entry %d (%d, %d, %d) in %dx%dx%d", ErrOutOfBounds, i, ys[i], xs[i], cs[i], f.h, f.w, f.c)
		}
	}
	return nil
}

// Gather reads dst[i] = f[ys[i], xs[i], cs[i]] for every i.
func (f *Frame[T]) Gather(ys, xs, cs []int, dst []T) error {
	if err := f.checkIndex(ys, xs, cs, len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = f.Pix[f.Offset(ys[i], xs[i], cs[i])]
	}
	return nil
}

// Scatter writes f[ys[i], xs[i], cs[i]] = vals[i] for every i.
func (f *Frame[T]) Scatter(ys, xs, cs []int, vals []T) error {
	if err := f.checkIndex(ys, xs, cs, len(vals)); err != nil {
		return err
	}
	for i, v := range vals {
		f.Pix[f.Offset(ys[i], xs[i], cs[i])] = v
	}
	return nil
}

// Clone returns a deep copy of f.
func (f *Frame[T]) Clone() *Frame[T] {
	out := &Frame[T]{Pix: make([]T, len(f.Pix)), h: f.h, w: f.w, c: f.c}
	copy(out.Pix, f.Pix)
	return out
}

// SameShape reports whether f and o have identical dimensions.
func (f *Frame[T]) SameShape(o *Frame[T]) bool {
	return f.h == o.h && f.w == o.w && f.c == o.c
}

// Equal reports whether f and o have the same shape and samples.
func (f *Frame[T]) Equal(o *Frame[T]) bool {
	if f == o {
		return true
	}
	if f == nil || o == nil || !f.SameShape(o) {
		return false
	}
	for i := range f.Pix {
		if f.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// Cast converts a real-valued blend into the storage type T. Floats are
// converted directly. Integers are truncated toward zero and saturated to
// the range of T.
func Cast[T Sample](v float64) T {
	var zero T
	switch any(zero).(type) {
	case float32, float64:
		return T(v)
	}
	if math.IsNaN(v) {
		return zero
	}
	lo, hi := intRange[T]()
	v = math.Trunc(v)
	if v <= lo {
		return T(lo)
	}
	if v >= hi {
		return T(hi)
	}
	return T(v)
}

// intRange returns the representable range of integer type T as float64.
// The upper bound of 64-bit types is rounded down to the nearest float64
// that converts back without overflow.
func intRange[T Sample]() (float64, float64) {
	var zero T
	switch any(zero).(type) {
	case int8:
		return math.MinInt8, math.MaxInt8
	case int16:
		return math.MinInt16, math.MaxInt16
	case int32:
		return math.MinInt32, math.MaxInt32
	case uint8:
		return 0, math.MaxUint8
	case uint16:
		return 0, math.MaxUint16
	case uint32:
		return 0, math.MaxUint32
	case uint, uint64, uintptr:
		return 0, math.Nextafter(math.MaxUint64, 0)
	default:
		// int, int64 and named integer types
		if zero-1 < 0 {
			return math.MinInt64, math.Nextafter(math.MaxInt64, 0)
		}
		return 0, math.Nextafter(math.MaxUint64, 0)
	}
}
