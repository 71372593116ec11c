package dither

import (
	"math"

	"golang.org/x/sync/errgroup"
)

// Engine performs error diffusion dithering with a Kernel.
type Engine struct {
	Kernel *Kernel

	// Parallel runs the R, G and B channels on their own goroutine.
	// No kernel mixes channels, so the result is identical to a
	// sequential run.
	Parallel bool
}

// NewEngine returns an Engine using the given kernel.
func NewEngine(k *Kernel) *Engine {
	return &Engine{Kernel: k}
}

// Apply dithers the buffer in place and returns it.
func (e *Engine) Apply(b *Buffer, threshold int) (*Buffer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := e.Kernel.Validate(); err != nil {
		return nil, err
	}

	t := float32(threshold)
	if !e.Parallel {
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				for c := R; c <= B; c++ {
					e.step(b, x, y, c, t)
				}
			}
		}
		return b, nil
	}

	var g errgroup.Group
	for c := R; c <= B; c++ {
		c := c
		g.Go(func() error {
			for y := 0; y < b.Height; y++ {
				for x := 0; x < b.Width; x++ {
					e.step(b, x, y, c, t)
				}
			}
			return nil
		})
	}
	return b, g.Wait()
}

// step quantizes one sample and diffuses its error.
func (e *Engine) step(b *Buffer, x, y, c int, t float32) {
	i := b.offset(x, y) + c
	old := b.Pix[i]
	n := quantize(old, t)
	b.Pix[i] = n
	e.diffuse(b, x, y, c, old-n)
}

func (e *Engine) diffuse(b *Buffer, x, y, c int, err float32) {
	k := e.Kernel
	if err == 0 {
		return
	}

	if k.PreDivide {
		share := float32(math.Floor(float64(err) / float64(k.Denominator)))
		for _, o := range k.Offsets {
			if b.In(x+o.DX, y+o.DY) {
				b.Pix[b.offset(x+o.DX, y+o.DY)+c] += share * float32(o.Weight)
			}
		}
		return
	}

	d := float32(k.Denominator)
	for _, o := range k.Offsets {
		if b.In(x+o.DX, y+o.DY) {
			b.Pix[b.offset(x+o.DX, y+o.DY)+c] += err * float32(o.Weight) / d
		}
	}
}

// quantize is the two level decision shared by every algorithm.
func quantize(v, t float32) float32 {
	if v < t {
		return 0
	}
	return 255
}
