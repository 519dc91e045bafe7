package transform

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/math/f64"

	"github.com/Fepozopo/resample/pkg/frame"
	"github.com/Fepozopo/resample/pkg/interp"
)

// Mode selects how Rotate sizes its destination.
type Mode string

const (
	// ModeFit grows the destination to the bounding box of the rotated
	// source, so nothing is clipped.
	ModeFit Mode = "fit"
	// ModeNaive keeps the source size; rotated content outside it is
	// clipped.
	ModeNaive Mode = "naive"
)

// RotateOptions configures Rotate. Degrees are counter-clockwise as seen
// on screen.
type RotateOptions struct {
	Degrees      float64
	Mode         Mode
	Interpolator interp.Interpolator
	// PixelCentred places the rotation centre of an n-pixel axis at
	// (n-1)/2, between pixel indices, instead of n/2. Quarter turns then
	// map pixels onto pixels exactly rather than losing an edge row or
	// column to the mask.
	PixelCentred bool
}

// sizeEps absorbs floating noise in the rotated bounding box before it is
// truncated.
const sizeEps = 1e-9

// sincos returns exact values at multiples of 90 degrees.
func sincos(degrees float64) (sin, cos float64) {
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}
	switch d {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(d * math.Pi / 180)
}

// affMul returns p*q, applying q first.
func affMul(p, q f64.Aff3) f64.Aff3 {
	return f64.Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func affTranslate(tx, ty float64) f64.Aff3 {
	return f64.Aff3{1, 0, tx, 0, 1, ty}
}

func centre(n int, pixelCentred bool) float64 {
	if pixelCentred {
		return float64(n-1) / 2
	}
	return float64(n) / 2
}

func affApply(m f64.Aff3, x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// rotation returns the forward rotation in pixel coordinates (y down), so
// that positive angles turn the picture counter-clockwise on screen.
func rotation(sin, cos float64) f64.Aff3 {
	return f64.Aff3{cos, sin, 0, -sin, cos, 0}
}

// inverseRotation is the transpose of rotation.
func inverseRotation(sin, cos float64) f64.Aff3 {
	return f64.Aff3{cos, -sin, 0, sin, cos, 0}
}

// RotatedSize returns the destination size for rotating an h x w frame.
// ModeFit returns the truncated bounding box of the rotated corners;
// every other mode returns the source size.
func RotatedSize(h, w int, degrees float64, mode Mode) (int, int) {
	if mode != ModeFit {
		return h, w
	}
	sin, cos := sincos(degrees)
	r := rotation(sin, cos)
	hw, hh := float64(w)/2, float64(h)/2
	corners := [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		x, y := affApply(r, c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return int(maxY - minY + sizeEps), int(maxX - minX + sizeEps)
}

// Rotate turns src by Degrees about its centre.
//
// Modes other than ModeFit and ModeNaive are a pass-through: src itself is
// returned unchanged and no error is reported.
//
// Every destination pixel is mapped back through the inverse rotation.
// Pixels whose source floor index falls outside [0, h) x [0, w) keep the
// zero background; the one-pixel padding only guarantees the "+1"
// neighbours of retained pixels.
func Rotate[T frame.Sample](e *Engine, src *frame.Frame[T], o RotateOptions) (*frame.Frame[T], error) {
	e = e.orDefault()
	if src == nil {
		return nil, fmt.Errorf("%w: nil source frame", ErrInvalidArgument)
	}
	if o.Mode != ModeFit && o.Mode != ModeNaive {
		e.log.WithField("mode", string(o.Mode)).Debug("rotate mode not fit or naive; returning source unchanged")
		return src, nil
	}
	if math.IsNaN(o.Degrees) || math.IsInf(o.Degrees, 0) {
		return nil, fmt.Errorf("%w: rotation angle must be finite, got %v", ErrInvalidArgument, o.Degrees)
	}
	if o.Interpolator == nil {
		return nil, fmt.Errorf("%w: nil interpolator", ErrInvalidArgument)
	}

	h, w := src.Height(), src.Width()
	dh, dw := RotatedSize(h, w, o.Degrees, o.Mode)

	padded, err := padForNeighbors(src)
	if err != nil {
		return nil, err
	}
	dst, err := frame.New[T](dh, dw, src.Channels())
	if err != nil {
		return nil, err
	}

	log := e.log.WithFields(logrus.Fields{
		"op":           "rotate",
		"degrees":      o.Degrees,
		"mode":         string(o.Mode),
		"src":          fmt.Sprintf("%dx%dx%d", h, w, src.Channels()),
		"dst":          fmt.Sprintf("%dx%d", dh, dw),
		"interpolator": interpolatorName(o.Interpolator),
	})
	log.Debug("resampling")

	// destination pixel -> destination-centred -> source-centred -> source
	// pixel
	sin, cos := sincos(o.Degrees)
	pc := o.PixelCentred
	inv := affMul(affTranslate(centre(w, pc), centre(h, pc)),
		affMul(inverseRotation(sin, cos), affTranslate(-centre(dw, pc), -centre(dh, pc))))

	err = e.forEachBand(dh, dw, func(y0, y1 int) error {
		g := newSamplingGrid((y1 - y0) * dw)
		for dy := y0; dy < y1; dy++ {
			for dx := 0; dx < dw; dx++ {
				sx, sy := affApply(inv, float64(dx), float64(dy))
				fy, fx := math.Floor(sy), math.Floor(sx)
				if fy < 0 || fy >= float64(h) || fx < 0 || fx >= float64(w) {
					continue
				}
				g.add(dy, dx, int(fy), int(fx), sy-fy, sx-fx)
			}
		}
		return resample(padded, dst, g, o.Interpolator)
	})
	if err != nil {
		log.WithError(err).Warn("rotate failed")
		return nil, err
	}
	return dst, nil
}
