package interp

import (
	"fmt"

	"golang.org/x/image/math/f64"
)

// RecomputePolicy selects which results Triangular re-evaluates against
// the left triangle after the case dispatch.
type RecomputePolicy int

const (
	// RecomputeZero re-evaluates every result that no case claimed and
	// every result that is zero once stored in the frame's sample type, so
	// on integer frames anything in (-1, 1) is recomputed. A legitimately
	// black sample is recomputed too; this matches the historical output.
	RecomputeZero RecomputePolicy = iota
	// RecomputeUnassigned re-evaluates only results no case claimed.
	RecomputeUnassigned
)

// Triangular splits the cell into four triangles meeting at the centroid,
// whose value is the mean of the four corners, and evaluates the plane
// through the triangle that contains the offset.
type Triangular struct {
	Recompute RecomputePolicy
}

func (Triangular) String() string { return NameTriangular }

type corner int

const (
	topLeft corner = iota
	bottomLeft
	topRight
	bottomRight
)

// position in (fy, fx)
var cornerPos = [4][2]float64{
	topLeft:     {0, 0},
	bottomLeft:  {1, 0},
	topRight:    {0, 1},
	bottomRight: {1, 1},
}

func (c corner) value(n Neighborhood) float64 {
	switch c {
	case topLeft:
		return n.TopLeft
	case bottomLeft:
		return n.BottomLeft
	case topRight:
		return n.TopRight
	}
	return n.BottomRight
}

type triangle struct {
	a, b corner
	// pinv maps (value(a), value(b), centroid) to plane coefficients
	// (alpha, beta, gamma) with value = alpha*fy + beta*fx + gamma.
	pinv f64.Mat3
	// contains reports whether (fy, fx) falls in this triangle. The four
	// predicates partition the unit square except for the centroid.
	contains func(fy, fx float64) bool
}

var triangles = [4]triangle{
	mustTriangle(topLeft, bottomLeft, func(fy, fx float64) bool {
		return fx <= fy && fx < 1-fy
	}),
	mustTriangle(bottomLeft, bottomRight, func(fy, fx float64) bool {
		return fx < fy && fy >= 1-fx
	}),
	mustTriangle(topRight, bottomRight, func(fy, fx float64) bool {
		return fx >= fy && fy > 1-fx
	}),
	mustTriangle(topLeft, topRight, func(fy, fx float64) bool {
		return fx > fy && fy <= 1-fx
	}),
}

func mustTriangle(a, b corner, contains func(fy, fx float64) bool) triangle {
	m := f64.Mat3{
		cornerPos[a][0], cornerPos[a][1], 1,
		cornerPos[b][0], cornerPos[b][1], 1,
		0.5, 0.5, 1,
	}
	pinv, err := invert3(m)
	if err != nil {
		panic(fmt.Sprintf("interp: triangle %d-%d: %v", a, b, err))
	}
	return triangle{a: a, b: b, pinv: pinv, contains: contains}
}

func (t *triangle) eval(n Neighborhood, centroid, fy, fx float64) float64 {
	abg := mulVec3(t.pinv, f64.Vec3{t.a.value(n), t.b.value(n), centroid})
	return abg[0]*fy + abg[1]*fx + abg[2]
}

// triangleIndex returns the triangle containing (fy, fx), or -1. Should
// rounding let two predicates match, the later one wins.
func triangleIndex(fy, fx float64) int {
	idx := -1
	for i := range triangles {
		if triangles[i].contains(fy, fx) {
			idx = i
		}
	}
	return idx
}

func (tr Triangular) Interpolate(n Neighborhood, fy, fx float64) float64 {
	centroid := (n.TopLeft + n.BottomLeft + n.TopRight + n.BottomRight) / 4
	idx := triangleIndex(fy, fx)
	if idx < 0 {
		return triangles[0].eval(n, centroid, fy, fx)
	}
	v := triangles[idx].eval(n, centroid, fy, fx)
	if v == 0 && tr.Recompute == RecomputeZero {
		return triangles[0].eval(n, centroid, fy, fx)
	}
	return v
}

// Fallback returns the left triangle's plane at (fy, fx), the value that
// replaces a result which stores as zero. It reports false under
// RecomputeUnassigned.
func (tr Triangular) Fallback(n Neighborhood, fy, fx float64) (float64, bool) {
	if tr.Recompute != RecomputeZero {
		return 0, false
	}
	centroid := (n.TopLeft + n.BottomLeft + n.TopRight + n.BottomRight) / 4
	return triangles[0].eval(n, centroid, fy, fx), true
}
