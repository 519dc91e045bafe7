package command

import (
	"errors"
	"fmt"
	"image"
	"math"
	"strconv"

	"github.com/Fepozopo/resample/pkg/frame"
	"github.com/Fepozopo/resample/pkg/interp"
	"github.com/Fepozopo/resample/pkg/transform"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("bad arguments")
)

// Apply runs the named command on img and returns a new *image.NRGBA.
// The image is converted to a 4-channel frame first, so the result is
// always non-premultiplied RGBA. A nil engine uses transform.Default().
//
// An omitted interpolator argument falls back to the engine's configured
// default.
func Apply(e *transform.Engine, img image.Image, name string, args []string) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: source image is nil", ErrBadArgs)
	}
	spec, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	if len(args) < spec.minArgs() || len(args) > len(spec.Args) {
		return nil, fmt.Errorf("%w: usage: %s", ErrBadArgs, spec.Usage)
	}
	src, err := frame.FromImage(img)
	if err != nil {
		return nil, err
	}

	var out *frame.Frame[uint8]
	switch name {
	case "scale":
		sx, err := parseFloat("sx", args[0])
		if err != nil {
			return nil, err
		}
		sy, err := parseFloat("sy", args[1])
		if err != nil {
			return nil, err
		}
		ip, err := interpolator(e, args, 2)
		if err != nil {
			return nil, err
		}
		out, err = transform.Scale(e, src, transform.ScaleOptions{ScaleX: sx, ScaleY: sy, Interpolator: ip})
		if err != nil {
			return nil, err
		}

	case "rotate":
		deg, err := parseFloat("degrees", args[0])
		if err != nil {
			return nil, err
		}
		mode := transform.ModeFit
		if len(args) > 1 {
			mode = transform.Mode(args[1])
		}
		ip, err := interpolator(e, args, 2)
		if err != nil {
			return nil, err
		}
		out, err = transform.Rotate(e, src, transform.RotateOptions{Degrees: deg, Mode: mode, Interpolator: ip})
		if err != nil {
			return nil, err
		}

	case "resize":
		w, err := parseDim("width", args[0])
		if err != nil {
			return nil, err
		}
		h, err := parseDim("height", args[1])
		if err != nil {
			return nil, err
		}
		ip, err := interpolator(e, args, 2)
		if err != nil {
			return nil, err
		}
		sy := factorFor(src.Height(), h)
		sx := factorFor(src.Width(), w)
		out, err = transform.Scale(e, src, transform.ScaleOptions{ScaleX: sx, ScaleY: sy, Interpolator: ip})
		if err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	dst, err := frame.ToNRGBA(out)
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// factorFor returns the smallest factor f with floor(from*f) == to.
func factorFor(from, to int) float64 {
	f := float64(to) / float64(from)
	for int(math.Floor(float64(from)*f)) < to {
		f = math.Nextafter(f, math.Inf(1))
	}
	return f
}

func interpolator(e *transform.Engine, args []string, i int) (interp.Interpolator, error) {
	name := e.Config().Interpolator
	if len(args) > i {
		name = args[i]
	}
	ip, err := interp.ByName(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadArgs, err)
	}
	return ip, nil
}

func parseFloat(name, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %w", ErrBadArgs, name, err)
	}
	return v, nil
}

func parseDim(name, s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %w", ErrBadArgs, name, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %d", ErrBadArgs, name, v)
	}
	return v, nil
}
