// Package dither implements bilevel per-channel dithering of RGBA
// pixel buffers: error diffusion with classic kernels, a lattice
// relaxation variant, ordered, random and plain threshold.
package dither

import (
	"errors"
	"fmt"
	"strings"
)

// ErrContractViolation is wrapped by every error caused by invalid
// input: bad buffer size, threshold out of range, unknown algorithm.
var ErrContractViolation = errors.New("contract violation")

// DefaultThreshold is the cutoff used when none is configured.
const DefaultThreshold = 128

// Ditherer transforms a buffer in place.
type Ditherer interface {
	Apply(b *Buffer, threshold int) (*Buffer, error)
}

// Algorithm selects a dithering method.
type Algorithm int

// Available algorithms.
const (
	FloydSteinbergAlgorithm Algorithm = iota
	StuckiAlgorithm
	BurkesAlgorithm
	SierraAlgorithm
	AtkinsonAlgorithm
	PseudoLatticeAlgorithm
	OrderedAlgorithm
	RandomAlgorithm
	ThresholdAlgorithm
)

// Kind groups algorithms by the way they work.
type Kind string

// Algorithm kinds.
const (
	KindDiffusion Kind = "diffusion"
	KindLattice   Kind = "lattice"
	KindOrdered   Kind = "ordered"
	KindRandom    Kind = "random"
	KindThreshold Kind = "threshold"
)

type algorithmInfo struct {
	name   string
	label  string
	kind   Kind
	kernel *Kernel
}

var algorithms = []algorithmInfo{
	FloydSteinbergAlgorithm: {"floyd-steinberg", "Floyd-Steinberg", KindDiffusion, FloydSteinberg},
	StuckiAlgorithm:         {"stucki", "Stucki", KindDiffusion, Stucki},
	BurkesAlgorithm:         {"burkes", "Burkes", KindDiffusion, Burkes},
	SierraAlgorithm:         {"sierra", "Sierra", KindDiffusion, Sierra},
	AtkinsonAlgorithm:       {"atkinson", "Atkinson", KindDiffusion, Atkinson},
	PseudoLatticeAlgorithm:  {"pseudo-lattice", "Pseudo Lattice", KindLattice, nil},
	OrderedAlgorithm:        {"ordered", "Ordered Dithering", KindOrdered, nil},
	RandomAlgorithm:         {"random", "Random Dithering", KindRandom, nil},
	ThresholdAlgorithm:      {"threshold", "Threshold", KindThreshold, nil},
}

// Algorithms returns every available algorithm, in declaration order.
func Algorithms() []Algorithm {
	res := make([]Algorithm, len(algorithms))
	for i := range algorithms {
		res[i] = Algorithm(i)
	}
	return res
}

func (a Algorithm) info() (algorithmInfo, bool) {
	if a < 0 || int(a) >= len(algorithms) {
		return algorithmInfo{}, false
	}
	return algorithms[a], true
}

// String returns the canonical algorithm name.
func (a Algorithm) String() string {
	if i, ok := a.info(); ok {
		return i.name
	}
	return fmt.Sprintf("Algorithm(%d)", int(a))
}

// Label returns a human readable name.
func (a Algorithm) Label() string {
	i, _ := a.info()
	return i.label
}

// Kind returns the algorithm family.
func (a Algorithm) Kind() Kind {
	i, _ := a.info()
	return i.kind
}

// Kernel returns the diffusion kernel of the algorithm, or nil when
// it does not diffuse error.
func (a Algorithm) Kernel() *Kernel {
	i, _ := a.info()
	return i.kernel
}

// MarshalText implements encoding.TextMarshaler.
func (a Algorithm) MarshalText() ([]byte, error) {
	if _, ok := a.info(); !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %d", ErrContractViolation, int(a))
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Algorithm) UnmarshalText(text []byte) error {
	v, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAlgorithm returns the algorithm matching name. Matching ignores
// case, dashes, underscores and spaces so "floydSteinberg",
// "Floyd Steinberg" and "floyd-steinberg" are the same.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := normalizeName(name)
	for i, x := range algorithms {
		if normalizeName(x.name) == n {
			return Algorithm(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown algorithm %q", ErrContractViolation, name)
}

func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(s)))
}

// Options configures a Ditherer built by New.
type Options struct {
	Algorithm Algorithm
	Threshold int

	// Parallel processes color channels concurrently (diffusion only).
	Parallel bool
	// Seed feeds the random algorithm.
	Seed int64
	// Matrix is the threshold map name for the ordered algorithm.
	Matrix string
}

// DefaultOptions returns Floyd-Steinberg with the default threshold.
func DefaultOptions() Options {
	return Options{
		Algorithm: FloydSteinbergAlgorithm,
		Threshold: DefaultThreshold,
		Seed:      1,
		Matrix:    DefaultThresholdMap,
	}
}

// New returns the Ditherer for the given options.
func New(opts Options) (Ditherer, error) {
	if err := validateThreshold(opts.Threshold); err != nil {
		return nil, err
	}
	info, ok := opts.Algorithm.info()
	if !ok {
		return nil, fmt.Errorf("%w: unknown algorithm %d", ErrContractViolation, int(opts.Algorithm))
	}

	switch info.kind {
	case KindDiffusion:
		return &Engine{Kernel: info.kernel, Parallel: opts.Parallel}, nil
	case KindLattice:
		return NewLatticeSimulator(), nil
	case KindOrdered:
		m, err := LookupThresholdMap(opts.Matrix)
		if err != nil {
			return nil, err
		}
		return &Ordered{Map: m}, nil
	case KindRandom:
		return &Random{Seed: opts.Seed}, nil
	}
	return Threshold{}, nil
}

// Apply dithers the buffer in place with the given options and
// returns it.
func Apply(b *Buffer, opts Options) (*Buffer, error) {
	d, err := New(opts)
	if err != nil {
		return nil, err
	}
	return d.Apply(b, opts.Threshold)
}

func validateThreshold(t int) error {
	if t < 0 || t > 255 {
		return fmt.Errorf("%w: threshold %d out of range [0, 255]", ErrContractViolation, t)
	}
	return nil
}
