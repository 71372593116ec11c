package dither

import "math"

// Lattice defaults.
const (
	DefaultLatticePasses = 5
	DefaultLatticeOmega  = 1.0 / 0.6
)

// LatticeSimulator runs a few lattice relaxation passes over density
// fields built from the image before thresholding each sample.
//
// The velocity fields start at zero and nothing ever drives them, so
// the equilibrium density equals the current density and every pass
// leaves the densities where they were. Velocities are streamed but
// never advect density. There is no error diffusion: the output is a
// per-sample threshold of the relaxed densities.
type LatticeSimulator struct {
	Passes int
	Omega  float64
}

// NewLatticeSimulator returns a LatticeSimulator with the default
// pass count and relaxation rate.
func NewLatticeSimulator() *LatticeSimulator {
	return &LatticeSimulator{
		Passes: DefaultLatticePasses,
		Omega:  DefaultLatticeOmega,
	}
}

type lattice struct {
	w, h    int
	density [3][]float64
	ux, uy  []float64
}

func newLattice(b *Buffer) *lattice {
	n := b.Width * b.Height
	l := &lattice{
		w:  b.Width,
		h:  b.Height,
		ux: make([]float64, n),
		uy: make([]float64, n),
	}
	for c := R; c <= B; c++ {
		l.density[c] = make([]float64, n)
		for i := 0; i < n; i++ {
			l.density[c][i] = clampUnit(float64(b.Pix[i*channels+c]) / 255)
		}
	}
	return l
}

// collide relaxes every density toward its local equilibrium.
func (l *lattice) collide(omega float64) {
	for c := range l.density {
		rho := l.density[c]
		for i := range rho {
			u2 := l.ux[i]*l.ux[i] + l.uy[i]*l.uy[i]
			eq := rho[i] * (1 - 1.5*u2)
			rho[i] -= omega * (rho[i] - eq)
		}
	}
}

// stream shifts the velocity fields by one cell, x to the right and
// y downward. Vacated cells are set to zero.
func (l *lattice) stream() {
	for y := 0; y < l.h; y++ {
		row := l.ux[y*l.w : (y+1)*l.w]
		copy(row[1:], row[:l.w-1])
		row[0] = 0
	}
	copy(l.uy[l.w:], l.uy[:len(l.uy)-l.w])
	for x := 0; x < l.w; x++ {
		l.uy[x] = 0
	}
}

// Apply thresholds the buffer in place after the relaxation passes
// and returns it.
func (s *LatticeSimulator) Apply(b *Buffer, threshold int) (*Buffer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	l := newLattice(b)
	for i := 0; i < s.Passes; i++ {
		l.collide(s.Omega)
		l.stream()
	}

	t := float32(threshold)
	for c := R; c <= B; c++ {
		for i, rho := range l.density[c] {
			v := float32(math.Round(clampUnit(rho) * 255))
			b.Pix[i*channels+c] = quantize(v, t)
		}
	}
	return b, nil
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
