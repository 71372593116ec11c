package dither

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// Channel indexes in a Buffer pixel.
const (
	R = iota
	G
	B
	A

	channels = 4
)

// Buffer holds the RGBA samples of one image, row-major and
// channel-interleaved.
//
// Samples are float32 and not clamped: diffused error can push an
// unvisited sample outside of [0, 255] until it is quantized.
type Buffer struct {
	Width  int
	Height int
	Pix    []float32
}

// NewBuffer returns a zeroed Buffer of the given size.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid buffer size %dx%d", ErrContractViolation, width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*channels),
	}, nil
}

// FromImage copies an image into a new Buffer. Samples are
// non-premultiplied 8-bit values.
func FromImage(m image.Image) (*Buffer, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: nil image", ErrContractViolation)
	}
	b := m.Bounds()
	buf, err := NewBuffer(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	src, ok := m.(*image.NRGBA)
	if !ok {
		src = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(src, src.Bounds(), m, b.Min, draw.Src)
	} else if b.Min != (image.Point{}) {
		src = src.SubImage(b).(*image.NRGBA)
	}

	for y := 0; y < buf.Height; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+buf.Width*4]
		off := buf.offset(0, y)
		for i, v := range row {
			buf.Pix[off+i] = float32(v)
		}
	}
	return buf, nil
}

// Image returns the buffer content as an *image.NRGBA. Samples are
// rounded and clamped to [0, 255].
func (b *Buffer) Image() *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, v := range b.Pix {
		m.Pix[i] = clamp8(v)
	}
	return m
}

// Clone returns a deep copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	c := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]float32, len(b.Pix)),
	}
	copy(c.Pix, b.Pix)
	return c
}

// At returns the sample of channel c at (x, y).
func (b *Buffer) At(x, y, c int) float32 {
	return b.Pix[b.offset(x, y)+c]
}

// Set sets the sample of channel c at (x, y).
func (b *Buffer) Set(x, y, c int, v float32) {
	b.Pix[b.offset(x, y)+c] = v
}

// SetRGBA sets the four samples of the pixel at (x, y).
func (b *Buffer) SetRGBA(x, y int, c color.NRGBA) {
	i := b.offset(x, y)
	b.Pix[i+R] = float32(c.R)
	b.Pix[i+G] = float32(c.G)
	b.Pix[i+B] = float32(c.B)
	b.Pix[i+A] = float32(c.A)
}

// In reports whether (x, y) lies inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.Width + x) * channels
}

func (b *Buffer) validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrContractViolation)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: invalid buffer size %dx%d", ErrContractViolation, b.Width, b.Height)
	}
	if len(b.Pix) != b.Width*b.Height*channels {
		return fmt.Errorf("%w: buffer holds %d samples, expected %d",
			ErrContractViolation, len(b.Pix), b.Width*b.Height*channels)
	}
	return nil
}

func clamp8(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.Round(float64(v)))
}
