package dither

import "fmt"

// Offset is one error diffusion target, relative to the current pixel.
type Offset struct {
	DY     int
	DX     int
	Weight int
}

// Kernel describes how a pixel's quantization error is distributed to
// its not yet visited neighbors.
//
// With PreDivide unset, each target receives err*Weight/Denominator.
// With PreDivide set, the error is floor-divided by Denominator first
// and each target receives that share times its Weight; the remainder
// is discarded.
type Kernel struct {
	Name        string
	Denominator int
	PreDivide   bool
	Offsets     []Offset
}

// Rows returns the number of rows below the current one the kernel
// writes to.
func (k *Kernel) Rows() int {
	n := 0
	for _, o := range k.Offsets {
		if o.DY > n {
			n = o.DY
		}
	}
	return n
}

// WeightSum returns the sum of all the kernel weights.
func (k *Kernel) WeightSum() int {
	s := 0
	for _, o := range k.Offsets {
		s += o.Weight
	}
	return s
}

// Validate checks that the kernel only sends error forward in scan
// order and has a usable denominator.
func (k *Kernel) Validate() error {
	if k == nil {
		return fmt.Errorf("%w: nil kernel", ErrContractViolation)
	}
	if k.Denominator <= 0 {
		return fmt.Errorf("%w: kernel %q has denominator %d", ErrContractViolation, k.Name, k.Denominator)
	}
	if len(k.Offsets) == 0 {
		return fmt.Errorf("%w: kernel %q has no offsets", ErrContractViolation, k.Name)
	}
	for _, o := range k.Offsets {
		if o.DY < 0 || (o.DY == 0 && o.DX <= 0) {
			return fmt.Errorf("%w: kernel %q offset (%d,%d) is not causal",
				ErrContractViolation, k.Name, o.DY, o.DX)
		}
	}
	return nil
}

// Diffusion kernels.
var (
	FloydSteinberg = &Kernel{
		Name:        "floyd-steinberg",
		Denominator: 16,
		Offsets: []Offset{
			{0, 1, 7},
			{1, -1, 3}, {1, 0, 5}, {1, 1, 1},
		},
	}

	Stucki = &Kernel{
		Name:        "stucki",
		Denominator: 42,
		Offsets: []Offset{
			{0, 1, 8}, {0, 2, 4},
			{1, -2, 2}, {1, -1, 4}, {1, 0, 8}, {1, 1, 4}, {1, 2, 2},
			{2, -2, 1}, {2, -1, 2}, {2, 0, 4}, {2, 1, 2}, {2, 2, 1},
		},
	}

	Burkes = &Kernel{
		Name:        "burkes",
		Denominator: 32,
		Offsets: []Offset{
			{0, 1, 8}, {0, 2, 4},
			{1, -2, 2}, {1, -1, 4}, {1, 0, 8}, {1, 1, 4}, {1, 2, 2},
		},
	}

	Sierra = &Kernel{
		Name:        "sierra",
		Denominator: 32,
		Offsets: []Offset{
			{0, 1, 5}, {0, 2, 3},
			{1, -2, 2}, {1, -1, 4}, {1, 0, 5}, {1, 1, 4}, {1, 2, 2},
			{2, -1, 2}, {2, 0, 3}, {2, 1, 2},
		},
	}

	// Atkinson only redistributes 6/8 of the error.
	Atkinson = &Kernel{
		Name:        "atkinson",
		Denominator: 8,
		PreDivide:   true,
		Offsets: []Offset{
			{0, 1, 1}, {0, 2, 1},
			{1, -1, 1}, {1, 0, 1}, {1, 1, 1},
			{2, 0, 1},
		},
	}
)
