package frame

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// FromImage converts any image.Image into a 4-channel (non-premultiplied
// RGBA) uint8 frame. The frame origin is the image's Bounds().Min.
func FromImage(img image.Image) (*Frame[uint8], error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidShape)
	}
	b := img.Bounds()
	n, ok := img.(*image.NRGBA)
	if !ok {
		n = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(n, n.Bounds(), img, b.Min, draw.Src)
		b = n.Bounds()
	}
	f, err := New[uint8](b.Dy(), b.Dx(), 4)
	if err != nil {
		return nil, err
	}
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		i := n.PixOffset(b.Min.X, b.Min.Y+y)
		copy(f.Pix[y*rowLen:(y+1)*rowLen], n.Pix[i:i+rowLen])
	}
	return f, nil
}

// ToNRGBA converts a uint8 frame with 1 (gray), 3 (RGB) or 4 (RGBA)
// channels into an *image.NRGBA. Missing alpha is opaque.
func ToNRGBA(f *Frame[uint8]) (*image.NRGBA, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: nil frame", ErrInvalidShape)
	}
	out := image.NewNRGBA(image.Rect(0, 0, f.w, f.h))
	switch f.c {
	case 4:
		copy(out.Pix, f.Pix)
	case 3:
		for p, i := 0, 0; p < len(f.Pix); p, i = p+3, i+4 {
			out.Pix[i+0] = f.Pix[p+0]
			out.Pix[i+1] = f.Pix[p+1]
			out.Pix[i+2] = f.Pix[p+2]
			out.Pix[i+3] = 255
		}
	case 1:
		for p, i := 0, 0; p < len(f.Pix); p, i = p+1, i+4 {
			v := f.Pix[p]
			out.Pix[i+0] = v
			out.Pix[i+1] = v
			out.Pix[i+2] = v
			out.Pix[i+3] = 255
		}
	default:
		return nil, fmt.Errorf("%w: cannot convert %d channels to NRGBA", ErrShapeMismatch, f.c)
	}
	return out, nil
}
