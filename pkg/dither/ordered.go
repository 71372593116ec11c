package dither

import (
	"fmt"
	"math/rand"
	"sort"

	mdither "github.com/makeworld-the-better-one/dither/v2"
)

// ThresholdMap is an ordered dithering matrix. Cells hold values in
// [0, Max).
type ThresholdMap struct {
	Name   string
	Matrix [][]uint
	Max    uint
}

// offset returns the tone offset of the map at (x, y), in
// [-127.5, 127.5).
func (m *ThresholdMap) offset(x, y int) float32 {
	row := m.Matrix[y%len(m.Matrix)]
	v := row[x%len(row)]
	return (float32(v)+0.5)/float32(m.Max)*255 - 127.5
}

func (m *ThresholdMap) validate() error {
	if m == nil || len(m.Matrix) == 0 || m.Max == 0 {
		return fmt.Errorf("%w: invalid threshold map", ErrContractViolation)
	}
	for _, row := range m.Matrix {
		if len(row) == 0 {
			return fmt.Errorf("%w: threshold map %q has an empty row", ErrContractViolation, m.Name)
		}
	}
	return nil
}

func bayer(n int) [][]uint {
	m := [][]uint{{0}}
	for size := 1; size < n; size *= 2 {
		next := make([][]uint, size*2)
		for y := range next {
			next[y] = make([]uint, size*2)
		}
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				v := m[y][x] * 4
				next[y][x] = v
				next[y][x+size] = v + 2
				next[y+size][x] = v + 3
				next[y+size][x+size] = v + 1
			}
		}
		m = next
	}
	return m
}

func fromOrdered(name string, m mdither.OrderedDitherMatrix) *ThresholdMap {
	return &ThresholdMap{Name: name, Matrix: m.Matrix, Max: m.Max}
}

var thresholdMaps = map[string]*ThresholdMap{
	"bayer-4x4":         {Name: "bayer-4x4", Matrix: bayer(4), Max: 16},
	"bayer-8x8":         {Name: "bayer-8x8", Matrix: bayer(8), Max: 64},
	"clustered-dot-4x4": fromOrdered("clustered-dot-4x4", mdither.ClusteredDot4x4),
	"clustered-dot-8x8": fromOrdered("clustered-dot-8x8", mdither.ClusteredDot8x8),
	"horizontal-3x5":    fromOrdered("horizontal-3x5", mdither.Horizontal3x5),
	"vertical-5x3":      fromOrdered("vertical-5x3", mdither.Vertical5x3),
}

// DefaultThresholdMap is the map used when none is given.
const DefaultThresholdMap = "bayer-4x4"

// LookupThresholdMap returns a threshold map by name.
func LookupThresholdMap(name string) (*ThresholdMap, error) {
	if name == "" {
		name = DefaultThresholdMap
	}
	m, ok := thresholdMaps[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown threshold map %q", ErrContractViolation, name)
	}
	return m, nil
}

// ThresholdMaps returns the sorted list of threshold map names.
func ThresholdMaps() []string {
	res := make([]string, 0, len(thresholdMaps))
	for k := range thresholdMaps {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// Ordered perturbs every sample with a tiled threshold map before
// quantizing it.
type Ordered struct {
	Map *ThresholdMap
}

// Apply dithers the buffer in place and returns it.
func (o *Ordered) Apply(b *Buffer, threshold int) (*Buffer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	if err := o.Map.validate(); err != nil {
		return nil, err
	}

	t := float32(threshold)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			d := o.Map.offset(x, y)
			i := b.offset(x, y)
			for c := R; c <= B; c++ {
				b.Pix[i+c] = quantize(b.Pix[i+c]+d, t)
			}
		}
	}
	return b, nil
}

// Random perturbs every sample with uniform noise before quantizing
// it. The noise source is seeded, so a given seed always yields the
// same output.
type Random struct {
	Seed int64
}

// Apply dithers the buffer in place and returns it.
func (r *Random) Apply(b *Buffer, threshold int) (*Buffer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	rnd := rand.New(rand.NewSource(r.Seed))
	t := float32(threshold)
	for i := 0; i < len(b.Pix); i += channels {
		for c := R; c <= B; c++ {
			noise := (rnd.Float32() - 0.5) * 255
			b.Pix[i+c] = quantize(b.Pix[i+c]+noise, t)
		}
	}
	return b, nil
}

// Threshold quantizes every sample without any dithering.
type Threshold struct{}

// Apply thresholds the buffer in place and returns it.
func (Threshold) Apply(b *Buffer, threshold int) (*Buffer, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	t := float32(threshold)
	for i := 0; i < len(b.Pix); i += channels {
		for c := R; c <= B; c++ {
			b.Pix[i+c] = quantize(b.Pix[i+c], t)
		}
	}
	return b, nil
}
