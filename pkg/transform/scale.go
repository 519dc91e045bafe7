package transform

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/Fepozopo/resample/pkg/frame"
	"github.com/Fepozopo/resample/pkg/interp"
)

// ScaleOptions configures Scale. Factors below 1 shrink, above 1 enlarge.
type ScaleOptions struct {
	ScaleX       float64
	ScaleY       float64
	Interpolator interp.Interpolator
}

// ScaledSize returns the destination size for factors (sx, sy):
// floor(h*sy) x floor(w*sx).
func ScaledSize(h, w int, sx, sy float64) (int, int) {
	return int(math.Floor(float64(h) * sy)), int(math.Floor(float64(w) * sx))
}

func validFactor(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Scale resamples src by (ScaleX, ScaleY). The source is padded by one
// zero row and column so the "+1" neighbours of the last row and column
// exist; destination pixels mapping there blend toward zero.
func Scale[T frame.Sample](e *Engine, src *frame.Frame[T], o ScaleOptions) (*frame.Frame[T], error) {
	e = e.orDefault()
	if src == nil {
		return nil, fmt.Errorf("%w: nil source frame", ErrInvalidArgument)
	}
	if !validFactor(o.ScaleX) || !validFactor(o.ScaleY) {
		return nil, fmt.Errorf("%w: scale factors must be positive and finite, got x=%v y=%v", ErrInvalidArgument, o.ScaleX, o.ScaleY)
	}
	if o.Interpolator == nil {
		return nil, fmt.Errorf("%w: nil interpolator", ErrInvalidArgument)
	}
	dh, dw := ScaledSize(src.Height(), src.Width(), o.ScaleX, o.ScaleY)
	if dh <= 0 || dw <= 0 {
		return nil, fmt.Errorf("%w: scaling %dx%d by x=%v y=%v leaves no pixels", ErrInvalidArgument, src.Height(), src.Width(), o.ScaleX, o.ScaleY)
	}

	padded, err := padForNeighbors(src)
	if err != nil {
		return nil, err
	}
	dst, err := frame.New[T](dh, dw, src.Channels())
	if err != nil {
		return nil, err
	}

	log := e.log.WithFields(logrus.Fields{
		"op":           "scale",
		"src":          fmt.Sprintf("%dx%dx%d", src.Height(), src.Width(), src.Channels()),
		"dst":          fmt.Sprintf("%dx%d", dh, dw),
		"interpolator": interpolatorName(o.Interpolator),
	})
	log.Debug("resampling")

	ry, rx := 1/o.ScaleY, 1/o.ScaleX
	err = e.forEachBand(dh, dw, func(y0, y1 int) error {
		g := newSamplingGrid((y1 - y0) * dw)
		for dy := y0; dy < y1; dy++ {
			sy := float64(dy) * ry
			iy := math.Floor(sy)
			for dx := 0; dx < dw; dx++ {
				sx := float64(dx) * rx
				ix := math.Floor(sx)
				g.add(dy, dx, int(iy), int(ix), sy-iy, sx-ix)
			}
		}
		return resample(padded, dst, g, o.Interpolator)
	})
	if err != nil {
		log.WithError(err).Warn("scale failed")
		return nil, err
	}
	return dst, nil
}
