package dither

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(t *testing.T, w, h int, v float32) *Buffer {
	t.Helper()
	b, err := NewBuffer(w, h)
	require.NoError(t, err)
	for i := 0; i < len(b.Pix); i += channels {
		b.Pix[i+R], b.Pix[i+G], b.Pix[i+B] = v, v, v
		b.Pix[i+A] = 255
	}
	return b
}

func TestLatticeUniform(t *testing.T) {
	tests := []struct {
		value     float32
		threshold int
		expected  float32
	}{
		{50, 128, 0},
		{200, 128, 255},
		{128, 128, 255},
		{127, 128, 0},
		{0, 0, 255},
		{255, 255, 255},
	}

	for _, x := range tests {
		b := uniform(t, 9, 6, x.value)
		_, err := NewLatticeSimulator().Apply(b, x.threshold)
		require.NoError(t, err)
		for i := 0; i < len(b.Pix); i += channels {
			assert.Equal(t, []float32{x.expected, x.expected, x.expected, 255}, b.Pix[i:i+channels],
				"value %v threshold %d", x.value, x.threshold)
		}
	}
}

func TestLatticeIsPerSample(t *testing.T) {
	// No error is carried between samples: the result is a plain
	// threshold of the input.
	src := gradient(t, 31, 11)

	b1, err := NewLatticeSimulator().Apply(src.Clone(), 100)
	require.NoError(t, err)
	assertBilevel(t, src, b1)

	b2, err := Threshold{}.Apply(src.Clone(), 100)
	require.NoError(t, err)
	assert.Equal(t, b2.Pix, b1.Pix)
}

func TestLatticeOutOfRangeSamples(t *testing.T) {
	b, _ := NewBuffer(2, 1)
	b.Set(0, 0, R, -40)
	b.Set(1, 0, R, 400)

	_, err := NewLatticeSimulator().Apply(b, 128)
	require.NoError(t, err)
	assert.Equal(t, float32(0), b.At(0, 0, R))
	assert.Equal(t, float32(255), b.At(1, 0, R))
}

func TestLatticeFields(t *testing.T) {
	b := gradient(t, 5, 4)
	l := newLattice(b)
	before := l.density[G][7]

	for i := 0; i < DefaultLatticePasses; i++ {
		l.collide(DefaultLatticeOmega)
		l.stream()
	}

	assert.Equal(t, before, l.density[G][7])
	assert.Equal(t, make([]float64, 20), l.ux)
	assert.Equal(t, make([]float64, 20), l.uy)

	t.Run("stream", func(t *testing.T) {
		l := newLattice(uniform(t, 3, 2, 0))
		l.ux = []float64{1, 2, 3, 4, 5, 6}
		l.uy = []float64{1, 2, 3, 4, 5, 6}
		l.stream()
		assert.Equal(t, []float64{0, 1, 2, 0, 4, 5}, l.ux)
		assert.Equal(t, []float64{0, 0, 0, 1, 2, 3}, l.uy)
	})
}

func TestLatticeContract(t *testing.T) {
	_, err := NewLatticeSimulator().Apply(nil, 128)
	assert.ErrorIs(t, err, ErrContractViolation)

	_, err = NewLatticeSimulator().Apply(uniform(t, 1, 1, 0), 300)
	assert.ErrorIs(t, err, ErrContractViolation)
}
