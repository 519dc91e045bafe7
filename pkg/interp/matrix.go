package interp

import (
	"errors"
	"math"

	"golang.org/x/image/math/f64"
)

var errSingular = errors.New("singular matrix")

// singularEps bounds |det| below which a coefficient matrix is rejected.
const singularEps = 1e-12

// invert3 returns the inverse of m via its adjugate. For the nonsingular
// coefficient matrices used here this is also the Moore-Penrose
// pseudo-inverse.
func invert3(m f64.Mat3) (f64.Mat3, error) {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[3], m[4], m[5]
	g, h, i := m[6], m[7], m[8]

	c00 := e*i - f*h
	c01 := -(d*i - f*g)
	c02 := d*h - e*g
	det := a*c00 + b*c01 + c*c02
	if math.Abs(det) < singularEps {
		return f64.Mat3{}, errSingular
	}
	inv := 1 / det
	return f64.Mat3{
		c00 * inv, -(b*i - c*h) * inv, (b*f - c*e) * inv,
		c01 * inv, (a*i - c*g) * inv, -(a*f - c*d) * inv,
		c02 * inv, -(a*h - b*g) * inv, (a*e - b*d) * inv,
	}, nil
}

func mulVec3(m f64.Mat3, v f64.Vec3) f64.Vec3 {
	return f64.Vec3{
		m[3*0+0]*v[0] + m[3*0+1]*v[1] + m[3*0+2]*v[2],
		m[3*1+0]*v[0] + m[3*1+1]*v[1] + m[3*1+2]*v[2],
		m[3*2+0]*v[0] + m[3*2+1]*v[1] + m[3*2+2]*v[2],
	}
}
