package transform

import (
	"errors"
	"math"
	"testing"

	"github.com/Fepozopo/resample/pkg/config"
	"github.com/Fepozopo/resample/pkg/frame"
	"github.com/Fepozopo/resample/pkg/interp"
)

var interpolators = []interp.Interpolator{interp.Bilinear{}, interp.Triangular{}}

func assertError(t testing.TB, got, want error) {
	t.Helper()
	if !errors.Is(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func assertSize[T frame.Sample](t testing.TB, f *frame.Frame[T], h, w, c int) {
	t.Helper()
	if f.Height() != h || f.Width() != w || f.Channels() != c {
		t.Fatalf("got %dx%dx%d, want %dx%dx%d", f.Height(), f.Width(), f.Channels(), h, w, c)
	}
}

// gradient returns an h x w x c frame whose samples vary along every axis.
func gradient(t testing.TB, h, w, c int) *frame.Frame[uint8] {
	t.Helper()
	f, err := frame.New[uint8](h, w, c)
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for ch := 0; ch < c; ch++ {
				f.Set(y, x, ch, uint8((y*37+x*11+ch*71)%256))
			}
		}
	}
	return f
}

func solid(t testing.TB, h, w, c int, v uint8) *frame.Frame[uint8] {
	t.Helper()
	f, err := frame.New[uint8](h, w, c)
	if err != nil {
		t.Fatalf("frame.New failed: %v", err)
	}
	for i := range f.Pix {
		f.Pix[i] = v
	}
	return f
}

func parallelEngine() *Engine {
	cfg := config.Default()
	cfg.Workers = 4
	cfg.ParallelMinPixels = 0
	return New(cfg, nil)
}

func sequentialEngine() *Engine {
	cfg := config.Default()
	cfg.Workers = 1
	return New(cfg, nil)
}

func TestScaleTwoByTwoBilinear(t *testing.T) {
	src, _ := frame.FromSlice(2, 2, 1, []int32{10, 20, 30, 40})
	out, err := Scale(nil, src, ScaleOptions{ScaleX: 2, ScaleY: 2, Interpolator: interp.Bilinear{}})
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	assertSize(t, out, 4, 4, 1)
	// left = lerp(lt, lb, fx), right = lerp(rt, rb, fx), lerp(left, right, fy);
	// the last row and column blend toward the zero padding.
	want := []int32{
		10, 20, 20, 30,
		15, 25, 10, 15,
		30, 15, 40, 20,
		35, 17, 20, 10,
	}
	for i := range want {
		if out.Pix[i] != want[i] {
			t.Fatalf("got %v, want %v", out.Pix, want)
		}
	}
}

func TestScaleIdentity(t *testing.T) {
	for _, ip := range interpolators {
		t.Run(interpolatorName(ip), func(t *testing.T) {
			src := gradient(t, 9, 13, 4)
			out, err := Scale(nil, src, ScaleOptions{ScaleX: 1, ScaleY: 1, Interpolator: ip})
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			if !out.Equal(src) {
				t.Fatalf("scale 1.0 changed the frame")
			}
			if out == src {
				t.Fatalf("scale returned the source frame instead of a new one")
			}
		})
	}

	fsrc, _ := frame.FromSlice(2, 2, 1, []float64{0.25, -1.5, 3, 1e9})
	out, err := Scale(nil, fsrc, ScaleOptions{ScaleX: 1, ScaleY: 1, Interpolator: interp.Bilinear{}})
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if !out.Equal(fsrc) {
		t.Fatalf("float identity scale: got %v, want %v", out.Pix, fsrc.Pix)
	}
}

func TestScaleSizeLaw(t *testing.T) {
	sizes := []int{1, 7, 32}
	factors := []float64{0.5, 1.0, 2.0, 3.3}
	for _, h := range sizes {
		for _, w := range sizes {
			for _, sx := range factors {
				for _, sy := range factors {
					src := gradient(t, h, w, 3)
					out, err := Scale(nil, src, ScaleOptions{ScaleX: sx, ScaleY: sy, Interpolator: interp.Bilinear{}})
					wantH := int(math.Floor(float64(h) * sy))
					wantW := int(math.Floor(float64(w) * sx))
					if wantH == 0 || wantW == 0 {
						assertError(t, err, ErrInvalidArgument)
						continue
					}
					if err != nil {
						t.Fatalf("Scale(%dx%d, %v, %v) failed: %v", h, w, sx, sy, err)
					}
					assertSize(t, out, wantH, wantW, 3)
				}
			}
		}
	}
}

func TestScaleDownsampleTakesInverseMappedSamples(t *testing.T) {
	src := gradient(t, 8, 8, 1)
	out, err := Scale(nil, src, ScaleOptions{ScaleX: 0.5, ScaleY: 0.5, Interpolator: interp.Bilinear{}})
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	assertSize(t, out, 4, 4, 1)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			got, _ := out.At(y, x, 0)
			want, _ := src.At(2*y, 2*x, 0)
			if got != want {
				t.Errorf("(%d,%d) = %d, want source (%d,%d) = %d", y, x, got, 2*y, 2*x, want)
			}
		}
	}
}

func TestScaleSolidFrameStaysSolid(t *testing.T) {
	for _, s := range []float64{1.3, 2.7, 3.3, 7} {
		for v := 1; v <= 255; v++ {
			src := solid(t, 10, 10, 1, uint8(v))
			out, err := Scale(nil, src, ScaleOptions{ScaleX: s, ScaleY: s, Interpolator: interp.Bilinear{}})
			if err != nil {
				t.Fatalf("Scale failed: %v", err)
			}
			r := 1 / s
			for dy := 0; dy < out.Height(); dy++ {
				// skip samples that reach into the zero padding
				if math.Floor(float64(dy)*r) >= 9 {
					continue
				}
				for dx := 0; dx < out.Width(); dx++ {
					if math.Floor(float64(dx)*r) >= 9 {
						continue
					}
					if got, _ := out.At(dy, dx, 0); got != uint8(v) {
						t.Fatalf("scale %v, v=%d: (%d,%d) = %d", s, v, dy, dx, got)
					}
				}
			}
		}
	}
}

func TestTriangularZeroFallbackUsesStoredValue(t *testing.T) {
	// Destination (1,1) samples the source cell at fy=0.05, fx=0.5, inside
	// the top triangle, whose plane gives 0.2 there. Stored as uint8 that is
	// 0, so the left triangle's plane (2) replaces it.
	src, _ := frame.FromSlice(2, 2, 1, []uint8{0, 0, 0, 8})
	o := ScaleOptions{ScaleX: 2, ScaleY: 20, Interpolator: interp.Triangular{}}
	out, err := Scale(nil, src, o)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if got, _ := out.At(1, 1, 0); got != 2 {
		t.Errorf("RecomputeZero: got %d, want 2", got)
	}

	o.Interpolator = interp.Triangular{Recompute: interp.RecomputeUnassigned}
	out, err = Scale(nil, src, o)
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if got, _ := out.At(1, 1, 0); got != 0 {
		t.Errorf("RecomputeUnassigned: got %d, want 0", got)
	}

	// float samples keep the small non-zero value
	fsrc, _ := frame.FromSlice(2, 2, 1, []float64{0, 0, 0, 8})
	fout, err := Scale(nil, fsrc, ScaleOptions{ScaleX: 2, ScaleY: 20, Interpolator: interp.Triangular{}})
	if err != nil {
		t.Fatalf("Scale failed: %v", err)
	}
	if got, _ := fout.At(1, 1, 0); math.Abs(got-0.2) > 1e-9 {
		t.Errorf("float64: got %v, want 0.2", got)
	}
}

func TestScaleInvalidArguments(t *testing.T) {
	src := gradient(t, 4, 4, 1)
	cases := []ScaleOptions{
		{ScaleX: 0, ScaleY: 1, Interpolator: interp.Bilinear{}},
		{ScaleX: 1, ScaleY: -2, Interpolator: interp.Bilinear{}},
		{ScaleX: math.NaN(), ScaleY: 1, Interpolator: interp.Bilinear{}},
		{ScaleX: 1, ScaleY: math.Inf(1), Interpolator: interp.Bilinear{}},
		{ScaleX: 1, ScaleY: 1},
		{ScaleX: 0.1, ScaleY: 1, Interpolator: interp.Bilinear{}},
	}
	for _, o := range cases {
		out, err := Scale(nil, src, o)
		assertError(t, err, ErrInvalidArgument)
		if out != nil {
			t.Errorf("options %+v returned a frame alongside the error", o)
		}
	}
	_, err := Scale[uint8](nil, nil, ScaleOptions{ScaleX: 1, ScaleY: 1, Interpolator: interp.Bilinear{}})
	assertError(t, err, ErrInvalidArgument)
}

func TestScaleParallelMatchesSequential(t *testing.T) {
	for _, ip := range interpolators {
		src := gradient(t, 31, 17, 3)
		o := ScaleOptions{ScaleX: 2.7, ScaleY: 1.9, Interpolator: ip}
		seq, err := Scale(sequentialEngine(), src, o)
		if err != nil {
			t.Fatalf("sequential scale failed: %v", err)
		}
		par, err := Scale(parallelEngine(), src, o)
		if err != nil {
			t.Fatalf("parallel scale failed: %v", err)
		}
		if !seq.Equal(par) {
			t.Fatalf("%s: parallel result differs from sequential", interpolatorName(ip))
		}
	}
}

func TestRotateFitZeroIsIdentity(t *testing.T) {
	for _, ip := range interpolators {
		t.Run(interpolatorName(ip), func(t *testing.T) {
			src := gradient(t, 7, 12, 4)
			out, err := Rotate(nil, src, RotateOptions{Degrees: 0, Mode: ModeFit, Interpolator: ip})
			if err != nil {
				t.Fatalf("Rotate failed: %v", err)
			}
			if !out.Equal(src) {
				t.Fatalf("0 degree rotation changed the frame")
			}
		})
	}
}

func TestRotateNaiveFullTurn(t *testing.T) {
	src := gradient(t, 10, 9, 3)
	for _, deg := range []float64{360, -360, 720} {
		out, err := Rotate(nil, src, RotateOptions{Degrees: deg, Mode: ModeNaive, Interpolator: interp.Bilinear{}})
		if err != nil {
			t.Fatalf("Rotate(%v) failed: %v", deg, err)
		}
		assertSize(t, out, 10, 9, 3)
		for y := 1; y < 9; y++ {
			for x := 1; x < 8; x++ {
				for c := 0; c < 3; c++ {
					got, _ := out.At(y, x, c)
					want, _ := src.At(y, x, c)
					if d := int(got) - int(want); d < -1 || d > 1 {
						t.Fatalf("%v degrees: (%d,%d,%d) = %d, want %d", deg, y, x, c, got, want)
					}
				}
			}
		}
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	src, _ := frame.FromSlice(2, 3, 1, []uint8{
		1, 2, 3,
		4, 5, 6,
	})
	cases := []struct {
		name  string
		deg   float64
		mode  Mode
		pixel bool
		h, w  int
		want  []uint8
		ip    interp.Interpolator
	}{
		// Centres at n/2: source x = 3-dy lands on the mask edge for dy=0,
		// so the top row stays background and the left column is lost.
		{"fit 90", 90, ModeFit, false, 3, 2, []uint8{0, 0, 3, 6, 2, 5}, interp.Bilinear{}},
		{"naive 180", 180, ModeNaive, false, 2, 3, []uint8{0, 0, 0, 0, 6, 5}, interp.Triangular{}},
		// Centres at (n-1)/2: exact permutations, the right column becomes
		// the top row.
		{"fit 90 pixel-centred", 90, ModeFit, true, 3, 2, []uint8{3, 6, 2, 5, 1, 4}, interp.Bilinear{}},
		{"naive 180 pixel-centred", 180, ModeNaive, true, 2, 3, []uint8{6, 5, 4, 3, 2, 1}, interp.Triangular{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out, err := Rotate(nil, src, RotateOptions{Degrees: c.deg, Mode: c.mode, Interpolator: c.ip, PixelCentred: c.pixel})
			if err != nil {
				t.Fatalf("Rotate failed: %v", err)
			}
			assertSize(t, out, c.h, c.w, 1)
			for i := range c.want {
				if out.Pix[i] != c.want[i] {
					t.Fatalf("got %v, want %v", out.Pix, c.want)
				}
			}
		})
	}
}

func TestRotateSamplesAboutFrameCentre(t *testing.T) {
	// Horizontal ramp 0, 10, ..., 90. At 180 degrees the destination centre
	// (5, 5) maps onto source (5, 5) and (5, 4) onto (5, 6).
	src, _ := frame.New[float64](10, 10, 1)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			src.Set(y, x, 0, float64(10*x))
		}
	}
	out, err := Rotate(nil, src, RotateOptions{Degrees: 180, Mode: ModeNaive, Interpolator: interp.Bilinear{}})
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	cases := []struct {
		x    int
		want float64
	}{{5, 50}, {4, 60}, {1, 90}, {0, 0}}
	for _, c := range cases {
		if got, _ := out.At(5, c.x, 0); got != c.want {
			t.Errorf("(5,%d) = %v, want %v", c.x, got, c.want)
		}
	}
}

func TestRotateFitSizeAndBackground(t *testing.T) {
	src := solid(t, 10, 10, 2, 200)
	out, err := Rotate(nil, src, RotateOptions{Degrees: 45, Mode: ModeFit, Interpolator: interp.Bilinear{}})
	if err != nil {
		t.Fatalf("Rotate failed: %v", err)
	}
	// 10*(cos45+sin45) = 14.14...
	assertSize(t, out, 14, 14, 2)
	for c := 0; c < 2; c++ {
		if v, _ := out.At(0, 0, c); v != 0 {
			t.Errorf("corner channel %d = %d, want background 0", c, v)
		}
		if v, _ := out.At(7, 7, c); v != 200 {
			t.Errorf("centre channel %d = %d, want 200", c, v)
		}
	}

	if h, w := RotatedSize(4, 8, 90, ModeFit); h != 8 || w != 4 {
		t.Errorf("RotatedSize 90 = %dx%d, want 8x4", h, w)
	}
	if h, w := RotatedSize(4, 8, 33, ModeNaive); h != 4 || w != 8 {
		t.Errorf("RotatedSize naive = %dx%d, want 4x8", h, w)
	}
}

func TestRotateUnknownModePassesThrough(t *testing.T) {
	src := gradient(t, 3, 3, 1)
	for _, mode := range []Mode{"bogus", ""} {
		out, err := Rotate(nil, src, RotateOptions{Degrees: 30, Mode: mode})
		if err != nil {
			t.Fatalf("mode %q: unexpected error %v", mode, err)
		}
		if out != src {
			t.Fatalf("mode %q: expected the source frame back", mode)
		}
	}
}

func TestRotateInvalidArguments(t *testing.T) {
	src := gradient(t, 3, 3, 1)
	_, err := Rotate(nil, src, RotateOptions{Degrees: math.NaN(), Mode: ModeFit, Interpolator: interp.Bilinear{}})
	assertError(t, err, ErrInvalidArgument)
	_, err = Rotate(nil, src, RotateOptions{Degrees: 10, Mode: ModeNaive})
	assertError(t, err, ErrInvalidArgument)
	_, err = Rotate[uint8](nil, nil, RotateOptions{Degrees: 10, Mode: ModeNaive, Interpolator: interp.Bilinear{}})
	assertError(t, err, ErrInvalidArgument)
}

func TestRotateParallelMatchesSequential(t *testing.T) {
	for _, ip := range interpolators {
		src := gradient(t, 23, 29, 4)
		o := RotateOptions{Degrees: -37.5, Mode: ModeFit, Interpolator: ip}
		seq, err := Rotate(sequentialEngine(), src, o)
		if err != nil {
			t.Fatalf("sequential rotate failed: %v", err)
		}
		par, err := Rotate(parallelEngine(), src, o)
		if err != nil {
			t.Fatalf("parallel rotate failed: %v", err)
		}
		if !seq.Equal(par) {
			t.Fatalf("%s: parallel result differs from sequential", interpolatorName(ip))
		}
	}
}

func TestSincosExactQuarterTurns(t *testing.T) {
	cases := []struct {
		deg      float64
		sin, cos float64
	}{
		{0, 0, 1}, {90, 1, 0}, {180, 0, -1}, {270, -1, 0},
		{360, 0, 1}, {-90, -1, 0}, {450, 1, 0},
	}
	for _, c := range cases {
		s, co := sincos(c.deg)
		if s != c.sin || co != c.cos {
			t.Errorf("sincos(%v) = (%v, %v), want (%v, %v)", c.deg, s, co, c.sin, c.cos)
		}
	}
}
