package native

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"io"

	"image/gif"  // GIF decoder and encoder
	"image/jpeg" // JPEG decoder and encoder
	"image/png"  // PNG decoder and encoder

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"

	_ "github.com/biessek/golang-ico" // ICO decoder
	_ "golang.org/x/image/bmp"        // BMP decoder
	_ "golang.org/x/image/tiff"       // TIFF decoder
	_ "golang.org/x/image/webp"       // WEBP decoder

	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"
)

func init() {
	img.AddLoader("native", New)
}

// bilevelPalette holds every color a dithered image can contain.
var bilevelPalette = color.Palette{
	color.NRGBA{0, 0, 0, 255},
	color.NRGBA{255, 255, 255, 255},
	color.NRGBA{255, 0, 0, 255},
	color.NRGBA{0, 255, 0, 255},
	color.NRGBA{0, 0, 255, 255},
	color.NRGBA{255, 255, 0, 255},
	color.NRGBA{0, 255, 255, 255},
	color.NRGBA{255, 0, 255, 255},
}

// Image is an image.
type Image struct {
	m        image.Image
	format   string
	quality  uint
	dithered bool
}

// New returns a new Image instance from a reader.
func New(r io.Reader, maxPixels int) (img.Image, error) {
	// We need to grab the format first, hence this two pass thing
	var buf bytes.Buffer
	tee := io.TeeReader(r, &buf)

	c, format, err := image.DecodeConfig(tee)
	if err != nil {
		return nil, err
	}

	if maxPixels > 0 && c.Width*c.Height > maxPixels {
		return nil, img.ErrTooBig
	}

	m, err := imaging.Decode(
		io.MultiReader(&buf, r),
		imaging.AutoOrientation(true),
	)
	if err != nil {
		return nil, err
	}

	return &Image{
		m:       m,
		format:  format,
		quality: 90,
	}, nil
}

// FromImage wraps an existing image.Image.
func FromImage(m image.Image, format string) *Image {
	return &Image{
		m:       m,
		format:  format,
		quality: 90,
	}
}

// Image returns the wrapped image.
func (im *Image) Image() image.Image {
	return im.m
}

// Close must be called after you're done with your image conversion.
func (im *Image) Close() error {
	return nil
}

// Encode encodes the image to the given format. If format is an
// empty string it will reuse the original format if possible.
// It fallbacks to png encoding.
func (im *Image) Encode(format string) (io.Reader, string, error) {
	if format == "" {
		format = im.format
	}

	var err error
	buf := new(bytes.Buffer)

	switch format {
	case "gif":
		m, ok := im.m.(*image.Paletted)
		if !ok && im.dithered {
			m = toPaletted(im.m, bilevelPalette)
		}
		if m != nil {
			err = gif.Encode(buf, m, &gif.Options{NumColors: len(m.Palette)})
		} else {
			err = gif.Encode(buf, im.m, &gif.Options{NumColors: 256})
		}
	case "jpeg":
		options := &jpeg.Options{Quality: int(im.quality)}
		err = jpeg.Encode(buf, im.m, options)
	default:
		format = "png"
		encoder := &png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(buf, im.m)
	}

	return bytes.NewReader(buf.Bytes()), format, err
}

// Format returns the image format.
func (im *Image) Format() string {
	return im.format
}

// Width returns the image width.
func (im *Image) Width() uint {
	return uint(im.m.Bounds().Dx())
}

// Height returns the image height.
func (im *Image) Height() uint {
	return uint(im.m.Bounds().Dy())
}

// SetQuality sets the JPEG quality of final image.
func (im *Image) SetQuality(q uint) {
	im.quality = q
}

// Fit resizes the image to a given size, only if
// the given width and height are bigger than the current
// image. A zero dimension is not constrained.
func (im *Image) Fit(w, h uint) error {
	if w == 0 {
		w = im.Width()
	}
	if h == 0 {
		h = im.Height()
	}
	if w >= im.Width() && h >= im.Height() {
		return nil
	}

	im.m = imaging.Fit(im.m, int(w), int(h), imaging.Lanczos)
	return nil
}

// Grayscale transforms the image to a grayscale version.
func (im *Image) Grayscale() error {
	im.m = effect.Grayscale(im.m)
	return nil
}

// Adjust applies gamma, contrast and brightness corrections.
func (im *Image) Adjust(a img.Adjustments) error {
	if a.Gamma > 0 && a.Gamma != 1 {
		im.m = adjust.Gamma(im.m, a.Gamma)
	}
	if a.Contrast != 0 {
		im.m = adjust.Contrast(im.m, a.Contrast)
	}
	if a.Brightness != 0 {
		im.m = adjust.Brightness(im.m, a.Brightness)
	}
	return nil
}

// Dither replaces the image with its dithered version.
func (im *Image) Dither(opts dither.Options) error {
	b, err := dither.FromImage(im.m)
	if err != nil {
		return err
	}
	if _, err = dither.Apply(b, opts); err != nil {
		return err
	}

	im.m = b.Image()
	im.dithered = true
	return nil
}

// toPaletted maps every pixel to the nearest palette color. Alpha is
// dropped.
func toPaletted(m image.Image, p color.Palette) *image.Paletted {
	b := m.Bounds()
	pm := image.NewPaletted(b, p)
	draw.Draw(pm, b, m, b.Min, draw.Src)
	return pm
}
