package img

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ditherit/ditherit/pkg/dither"
)

// ErrTooBig is returned by loaders when an image exceeds the
// configured pixel count.
var ErrTooBig = errors.New("image is too big")

// Image describes the interface of an image manipulation object.
type Image interface {
	Close() error
	Encode(format string) (io.Reader, string, error)
	Format() string
	Width() uint
	Height() uint
	SetQuality(uint)
	Fit(w, h uint) error
	Grayscale() error
	Adjust(a Adjustments) error
	Dither(opts dither.Options) error
}

// Adjustments are tonal corrections applied before dithering.
// Zero values leave the image untouched, except Gamma where 0 and 1
// both mean no correction.
type Adjustments struct {
	Gamma      float64
	Contrast   float64
	Brightness float64
}

// IsZero reports whether the adjustments would not change anything.
func (a Adjustments) IsZero() bool {
	return (a.Gamma == 0 || a.Gamma == 1) && a.Contrast == 0 && a.Brightness == 0
}

// Loader decodes an image from a reader. maxPixels limits the decoded
// size, 0 means no limit.
type Loader func(r io.Reader, maxPixels int) (Image, error)

var loaders = map[string]Loader{}

// AddLoader adds a new image loader to the available loaders.
func AddLoader(name string, fn Loader) {
	loaders[name] = fn
}

// Loaders returns the sorted names of the registered loaders.
func Loaders() []string {
	res := make([]string, 0, len(loaders))
	for k := range loaders {
		res = append(res, k)
	}
	sort.Strings(res)
	return res
}

// New loads an image using the given loader.
func New(loader string, r io.Reader, maxPixels int) (Image, error) {
	fn, ok := loaders[loader]
	if !ok {
		return nil, fmt.Errorf("loader %s not found", loader)
	}

	return fn(r, maxPixels)
}

// Extension returns the file extension for an encoding format.
func Extension(format string) string {
	switch format {
	case "jpeg":
		return ".jpg"
	case "":
		return ".png"
	}
	return "." + format
}

// ContentType returns the MIME type for an encoding format.
func ContentType(format string) string {
	switch format {
	case "gif":
		return "image/gif"
	case "jpeg":
		return "image/jpeg"
	}
	return "image/png"
}
