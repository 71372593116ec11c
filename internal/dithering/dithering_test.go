package dithering

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ditherit/ditherit/configs"
)

func keepConfig(t *testing.T) {
	saved := configs.Config
	t.Cleanup(func() {
		configs.Config = saved
	})
}

// testPNG returns an opaque PNG gradient.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((x + y) * 20 % 256),
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, m))
	return buf.Bytes()
}

// assertBilevel checks that every color sample of m is 0 or 255.
func assertBilevel(t *testing.T, m image.Image) {
	t.Helper()
	b := m.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(m.At(x, y)).(color.NRGBA)
			for _, v := range []uint8{c.R, c.G, c.B} {
				if v != 0 && v != 255 {
					t.Fatalf("pixel (%d,%d) has sample %d", x, y, v)
				}
			}
		}
	}
}
