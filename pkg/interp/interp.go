// Package interp turns four neighbouring samples and a fractional offset
// into one interpolated value.
//
// Offsets are always passed vertical first: fy is the distance below the
// top row, fx the distance right of the left column, both in [0, 1] for
// points inside the cell.
package interp

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrLengthMismatch      = errors.New("batch length mismatch")
	ErrUnknownInterpolator = errors.New("unknown interpolator: only bilinear and triangular are available")
)

const (
	NameBilinear   = "bilinear"
	NameTriangular = "triangular"
)

// Neighborhood holds the four samples around a fractional location.
// Field order (top-left, bottom-left, top-right, bottom-right) is the
// order the engine gathers them in.
type Neighborhood struct {
	TopLeft     float64
	BottomLeft  float64
	TopRight    float64
	BottomRight float64
}

// Interpolator evaluates a Neighborhood at offset (fy, fx).
type Interpolator interface {
	Interpolate(n Neighborhood, fy, fx float64) float64
}

// ZeroFallback is implemented by interpolators that replace results
// storing as zero with a second evaluation. Callers that narrow results to
// a sample type check the narrowed value and, when it is zero, store
// Fallback instead if it reports true.
type ZeroFallback interface {
	Fallback(n Neighborhood, fy, fx float64) (float64, bool)
}

// Batch evaluates ip for every entry. All slices must have equal length.
func Batch(ip Interpolator, ns []Neighborhood, fy, fx, out []float64) error {
	if len(fy) != len(ns) || len(fx) != len(ns) || len(out) != len(ns) {
		return fmt.Errorf("%w: neighborhoods=%d fy=%d fx=%d out=%d", ErrLengthMismatch, len(ns), len(fy), len(fx), len(out))
	}
	for i := range ns {
		out[i] = ip.Interpolate(ns[i], fy[i], fx[i])
	}
	return nil
}

// ByName returns the interpolator registered under name. The empty name
// selects bilinear.
func ByName(name string) (Interpolator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameBilinear:
		return Bilinear{}, nil
	case NameTriangular, "barycentric":
		return Triangular{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInterpolator, name)
}
