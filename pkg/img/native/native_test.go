package native

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{
				uint8(x * 255 / w), uint8(y * 255 / h), 90, 255,
			})
		}
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, m))
	return buf.Bytes()
}

func TestNew(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		im, err := New(bytes.NewReader(testPNG(t, 40, 30)), 0)
		require.NoError(t, err)
		defer im.Close()
		assert.Equal(t, "png", im.Format())
		assert.Equal(t, uint(40), im.Width())
		assert.Equal(t, uint(30), im.Height())
	})

	t.Run("too big", func(t *testing.T) {
		im, err := New(bytes.NewReader(testPNG(t, 40, 30)), 1000)
		assert.Nil(t, im)
		assert.ErrorIs(t, err, img.ErrTooBig)
	})

	t.Run("bogus", func(t *testing.T) {
		_, err := New(bytes.NewReader([]byte("not an image")), 0)
		assert.EqualError(t, err, "image: unknown format")
	})

	t.Run("registered", func(t *testing.T) {
		assert.Contains(t, img.Loaders(), "native")
	})
}

func TestFit(t *testing.T) {
	tests := []struct {
		w, h     uint
		expected [2]uint
	}{
		{24, 24, [2]uint{24, 18}},
		{400, 400, [2]uint{40, 30}},
		{0, 15, [2]uint{20, 15}},
		{10, 0, [2]uint{10, 7}},
	}

	for _, x := range tests {
		im, _ := New(bytes.NewReader(testPNG(t, 40, 30)), 0)
		require.NoError(t, im.Fit(x.w, x.h))
		assert.Equal(t, x.expected, [2]uint{im.Width(), im.Height()})
	}
}

func TestGrayscale(t *testing.T) {
	im, _ := New(bytes.NewReader(testPNG(t, 8, 8)), 0)
	require.NoError(t, im.Grayscale())

	m := im.(*Image).Image()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			r, g, b, _ := m.At(x, y).RGBA()
			assert.Equal(t, r, g)
			assert.Equal(t, g, b)
		}
	}
}

func TestAdjust(t *testing.T) {
	im, _ := New(bytes.NewReader(testPNG(t, 8, 8)), 0)
	before := im.(*Image).Image()

	require.NoError(t, im.Adjust(img.Adjustments{}))
	assert.Same(t, before, im.(*Image).Image())

	require.NoError(t, im.Adjust(img.Adjustments{Gamma: 2.2, Contrast: 0.2, Brightness: -0.1}))
	assert.NotSame(t, before, im.(*Image).Image())
	assert.Equal(t, before.Bounds(), im.(*Image).Image().Bounds())
}

func TestDither(t *testing.T) {
	for _, a := range dither.Algorithms() {
		t.Run(a.String(), func(t *testing.T) {
			im, _ := New(bytes.NewReader(testPNG(t, 16, 9)), 0)
			opts := dither.DefaultOptions()
			opts.Algorithm = a
			require.NoError(t, im.Dither(opts))

			m := im.(*Image).Image().(*image.NRGBA)
			for i, v := range m.Pix {
				if i%4 == 3 {
					assert.Equal(t, uint8(255), v)
					continue
				}
				assert.Contains(t, []uint8{0, 255}, v)
			}
		})
	}

	t.Run("error", func(t *testing.T) {
		im, _ := New(bytes.NewReader(testPNG(t, 4, 4)), 0)
		err := im.Dither(dither.Options{Threshold: 512})
		assert.ErrorIs(t, err, dither.ErrContractViolation)
	})
}

func TestEncode(t *testing.T) {
	tests := []struct {
		format   string
		expected string
	}{
		{"", "png"},
		{"png", "png"},
		{"gif", "gif"},
		{"jpeg", "jpeg"},
		{"webp", "png"},
	}

	for _, x := range tests {
		t.Run(x.expected, func(t *testing.T) {
			im, _ := New(bytes.NewReader(testPNG(t, 12, 12)), 0)
			require.NoError(t, im.Dither(dither.DefaultOptions()))

			r, f, err := im.Encode(x.format)
			require.NoError(t, err)
			assert.Equal(t, x.expected, f)

			b, _ := io.ReadAll(r)
			_, format, err := image.DecodeConfig(bytes.NewReader(b))
			require.NoError(t, err)
			assert.Equal(t, f, format)
		})
	}

	t.Run("gif palette", func(t *testing.T) {
		im, _ := New(bytes.NewReader(testPNG(t, 12, 12)), 0)
		require.NoError(t, im.Dither(dither.DefaultOptions()))
		r, _, err := im.Encode("gif")
		require.NoError(t, err)

		m, _, err := image.Decode(r)
		require.NoError(t, err)
		assert.LessOrEqual(t, len(m.(*image.Paletted).Palette), 8)
	})
}
