//go:build imagick

// Package imagick provides an image loader backed by ImageMagick.
// It requires cgo and the MagickWand development files, hence the
// "imagick" build tag.
package imagick

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/gographics/imagick.v2/imagick"

	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"
)

// MagickWand is not safe for concurrent use across wands.
var lock sync.Mutex

func init() {
	imagick.Initialize()

	img.AddLoader("imagick", New)
}

// Image is an image.
type Image struct {
	mw      *imagick.MagickWand
	format  string
	quality uint
}

// New returns a new Image instance from a reader.
func New(r io.Reader, maxPixels int) (img.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	lock.Lock()
	mw := imagick.NewMagickWand()
	if err = mw.PingImageBlob(b); err != nil {
		lock.Unlock()
		mw.Destroy()
		return nil, err
	}
	if maxPixels > 0 && int(mw.GetImageWidth()*mw.GetImageHeight()) > maxPixels {
		lock.Unlock()
		mw.Destroy()
		return nil, img.ErrTooBig
	}

	mw.Clear()
	if err = mw.ReadImageBlob(b); err != nil {
		lock.Unlock()
		mw.Destroy()
		return nil, err
	}
	if err = mw.AutoOrientImage(); err != nil {
		lock.Unlock()
		mw.Destroy()
		return nil, err
	}

	return &Image{
		mw:      mw,
		format:  strings.ToLower(mw.GetImageFormat()),
		quality: 90,
	}, nil
}

// Close destroys the underlying image resource. It must be called
// after you're done with your image conversion.
func (im *Image) Close() error {
	im.mw.Destroy()
	lock.Unlock()
	return nil
}

// Encode encodes the image to the given format. If format is an
// empty string it will reuse the original format if possible.
// It fallbacks to png encoding.
func (im *Image) Encode(format string) (io.Reader, string, error) {
	if format == "" {
		format = im.format
	}

	switch format {
	case "gif":
		if err := im.mw.SetImageFormat("gif"); err != nil {
			return nil, "", err
		}
	case "jpeg":
		if err := im.mw.SetImageFormat("jpeg"); err != nil {
			return nil, "", err
		}
		if err := im.mw.SetImageCompressionQuality(im.quality); err != nil {
			return nil, "", err
		}
	default:
		format = "png"
		if err := im.mw.SetImageFormat("png"); err != nil {
			return nil, "", err
		}
	}

	return bytes.NewReader(im.mw.GetImageBlob()), format, nil
}

// Format returns the image format.
func (im *Image) Format() string {
	return im.format
}

// Width returns the image width.
func (im *Image) Width() uint {
	return im.mw.GetImageWidth()
}

// Height returns the image height.
func (im *Image) Height() uint {
	return im.mw.GetImageHeight()
}

// SetQuality sets the JPEG quality of final image.
func (im *Image) SetQuality(q uint) {
	im.quality = q
}

// Fit resizes the image to a given size, only if
// the given width and height are bigger than the current
// image. A zero dimension is not constrained.
func (im *Image) Fit(w, h uint) error {
	ow := im.mw.GetImageWidth()
	oh := im.mw.GetImageHeight()
	if w == 0 {
		w = ow
	}
	if h == 0 {
		h = oh
	}
	if w >= ow && h >= oh {
		return nil
	}

	srcAspectRatio := float64(ow) / float64(oh)
	maxAspectRatio := float64(w) / float64(h)

	var nw, nh uint
	if srcAspectRatio > maxAspectRatio {
		nw = w
		nh = uint(float64(nw) / srcAspectRatio)
	} else {
		nh = h
		nw = uint(float64(nh) * srcAspectRatio)
	}
	if nw == 0 {
		nw = 1
	}
	if nh == 0 {
		nh = 1
	}

	return im.mw.ResizeImage(nw, nh, imagick.FILTER_LANCZOS, 1)
}

// Grayscale transforms the image to a grayscale version.
func (im *Image) Grayscale() error {
	return im.mw.TransformImageColorspace(imagick.COLORSPACE_GRAY)
}

// Adjust applies gamma, contrast and brightness corrections.
// Contrast and brightness use the same [-1, 1] range as the
// native processor.
func (im *Image) Adjust(a img.Adjustments) error {
	if a.Gamma > 0 && a.Gamma != 1 {
		if err := im.mw.GammaImage(a.Gamma); err != nil {
			return err
		}
	}
	if a.Contrast != 0 || a.Brightness != 0 {
		return im.mw.BrightnessContrastImage(a.Brightness*100, a.Contrast*100)
	}
	return nil
}

// Dither exports the pixels, runs the dithering engine on them and
// imports the result back.
func (im *Image) Dither(opts dither.Options) error {
	w, h := im.mw.GetImageWidth(), im.mw.GetImageHeight()
	px, err := im.mw.ExportImagePixels(0, 0, w, h, "RGBA", imagick.PIXEL_CHAR)
	if err != nil {
		return err
	}
	samples, ok := px.([]byte)
	if !ok || uint(len(samples)) != w*h*4 {
		return fmt.Errorf("unexpected pixel storage %T", px)
	}

	b, err := dither.NewBuffer(int(w), int(h))
	if err != nil {
		return err
	}
	for i, v := range samples {
		b.Pix[i] = float32(v)
	}

	if _, err = dither.Apply(b, opts); err != nil {
		return err
	}

	return im.mw.ImportImagePixels(0, 0, w, h, "RGBA", imagick.PIXEL_CHAR, b.Image().Pix)
}
