package interp

// Bilinear blends the cell with two linear passes: fx pairs each top
// corner with the bottom corner on its side, then fy blends the two
// results.
type Bilinear struct{}

func (Bilinear) String() string { return NameBilinear }

// Interpolate computes
//
//	left   = (1-fx)*lt + fx*lb
//	right  = (1-fx)*rt + fx*rb
//	result = (1-fy)*left + fy*right
//
// It returns lt at (0, 0) and rb at (1, 1) exactly, and a constant
// neighbourhood yields that constant for any offset. Offsets outside
// [0, 1] extrapolate.
func (Bilinear) Interpolate(n Neighborhood, fy, fx float64) float64 {
	left := lerp(n.TopLeft, n.BottomLeft, fx)
	right := lerp(n.TopRight, n.BottomRight, fx)
	return lerp(left, right, fy)
}

// lerp returns (1-t)*a + t*b. Each half of the range is measured from its
// own endpoint, so t=0 gives a, t=1 gives b and a==b gives a, all exactly.
func lerp(a, b, t float64) float64 {
	if t < 0.5 {
		return a + t*(b-a)
	}
	return b - (1-t)*(b-a)
}
