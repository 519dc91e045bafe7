package frame

import (
	"errors"
	"fmt"
)

var ErrInvalidPadding = errors.New("invalid padding: size must be positive")

// Side names the frame edge a Padding extends.
type Side int

const (
	Top Side = iota
	Bottom
	Start // left
	End   // right
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Start:
		return "start"
	case End:
		return "end"
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// Padding adds Size zero rows or columns on one Side.
type Padding struct {
	Side Side
	Size int
}

// Pad returns a new frame with zero-valued borders added as directed.
// Directives on the same side accumulate; their order does not matter.
// f is not modified.
func Pad[T Sample](f *Frame[T], pads ...Padding) (*Frame[T], error) {
	var top, bottom, start, end int
	for _, p := range pads {
		if p.Size <= 0 {
			return nil, fmt.Errorf("%w: %s %d", ErrInvalidPadding, p.Side, p.Size)
		}
		switch p.Side {
		case Top:
			top += p.Size
		case Bottom:
			bottom += p.Size
		case Start:
			start += p.Size
		case End:
			end += p.Size
		default:
			return nil, fmt.Errorf("%w: unknown side %s", ErrInvalidPadding, p.Side)
		}
	}

	out, err := New[T](f.h+top+bottom, f.w+start+end, f.c)
	if err != nil {
		return nil, err
	}
	rowLen := f.w * f.c
	for y := 0; y < f.h; y++ {
		src := f.Pix[y*rowLen : (y+1)*rowLen]
		o := out.Offset(y+top, start, 0)
		copy(out.Pix[o:o+rowLen], src)
	}
	return out, nil
}

// Padder collects padding directives for a frame. Build applies them
// with Pad.
//
//	padded, err := frame.NewPadder(f).Bottom(1).End(1).Build()
type Padder[T Sample] struct {
	src  *Frame[T]
	pads []Padding
}

func NewPadder[T Sample](f *Frame[T]) *Padder[T] {
	return &Padder[T]{src: f}
}

func (p *Padder[T]) Top(size int) *Padder[T]    { return p.add(Top, size) }
func (p *Padder[T]) Bottom(size int) *Padder[T] { return p.add(Bottom, size) }
func (p *Padder[T]) Start(size int) *Padder[T]  { return p.add(Start, size) }
func (p *Padder[T]) End(size int) *Padder[T]    { return p.add(End, size) }

func (p *Padder[T]) add(s Side, size int) *Padder[T] {
	p.pads = append(p.pads, Padding{Side: s, Size: size})
	return p
}

// Paddings returns the directives collected so far.
func (p *Padder[T]) Paddings() []Padding {
	out := make([]Padding, len(p.pads))
	copy(out, p.pads)
	return out
}

// Build pads the source frame.
func (p *Padder[T]) Build() (*Frame[T], error) {
	return Pad(p.src, p.pads...)
}
