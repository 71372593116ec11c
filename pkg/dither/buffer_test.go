package dither

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBuffer(t *testing.T) {
	b, err := NewBuffer(3, 2)
	require.NoError(t, err)
	assert.Len(t, b.Pix, 24)

	for _, s := range [][2]int{{0, 1}, {1, 0}, {-3, 2}, {0, 0}} {
		b, err := NewBuffer(s[0], s[1])
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrContractViolation)
	}
}

func TestBufferAccess(t *testing.T) {
	b, _ := NewBuffer(3, 2)
	b.Set(2, 1, G, -12.5)
	b.SetRGBA(1, 0, color.NRGBA{1, 2, 3, 4})

	assert.Equal(t, float32(-12.5), b.At(2, 1, G))
	assert.Equal(t, []float32{1, 2, 3, 4}, b.Pix[4:8])
	assert.True(t, b.In(0, 0))
	assert.True(t, b.In(2, 1))
	assert.False(t, b.In(3, 1))
	assert.False(t, b.In(0, 2))
	assert.False(t, b.In(-1, 0))

	c := b.Clone()
	c.Set(0, 0, R, 9)
	assert.Equal(t, float32(0), b.At(0, 0, R))
}

func TestFromImage(t *testing.T) {
	t.Run("nrgba", func(t *testing.T) {
		m := image.NewNRGBA(image.Rect(0, 0, 2, 2))
		m.SetNRGBA(1, 1, color.NRGBA{10, 20, 30, 128})

		b, err := FromImage(m)
		require.NoError(t, err)
		assert.Equal(t, 2, b.Width)
		assert.Equal(t, 2, b.Height)
		assert.Equal(t, []float32{10, 20, 30, 128}, b.Pix[12:16])
	})

	t.Run("sub image", func(t *testing.T) {
		m := image.NewNRGBA(image.Rect(0, 0, 4, 4))
		m.SetNRGBA(2, 3, color.NRGBA{200, 100, 50, 255})

		b, err := FromImage(m.SubImage(image.Rect(1, 2, 4, 4)))
		require.NoError(t, err)
		assert.Equal(t, 3, b.Width)
		assert.Equal(t, 2, b.Height)
		assert.Equal(t, []float32{200, 100, 50, 255}, b.Pix[(1*3+1)*4:(1*3+2)*4])
	})

	t.Run("gray", func(t *testing.T) {
		m := image.NewGray(image.Rect(5, 5, 6, 6))
		m.SetGray(5, 5, color.Gray{Y: 77})

		b, err := FromImage(m)
		require.NoError(t, err)
		assert.Equal(t, []float32{77, 77, 77, 255}, b.Pix)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := FromImage(nil)
		assert.ErrorIs(t, err, ErrContractViolation)

		_, err = FromImage(image.NewRGBA(image.Rect(0, 0, 0, 3)))
		assert.ErrorIs(t, err, ErrContractViolation)
	})
}

func TestBufferImage(t *testing.T) {
	b, _ := NewBuffer(2, 1)
	copy(b.Pix, []float32{-20, 255.4, 300, 12.6, 0, 127.5, 255, 255})

	m := b.Image()
	assert.Equal(t, image.Rect(0, 0, 2, 1), m.Bounds())
	assert.Equal(t, []uint8{0, 255, 255, 13, 0, 128, 255, 255}, m.Pix)
}
