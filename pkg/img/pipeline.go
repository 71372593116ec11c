package img

import (
	"github.com/ditherit/ditherit/pkg/dither"
)

// Pipeline describes the processing steps leading to a dithered
// image. Steps run in this order: fit, grayscale, adjustments, dither.
type Pipeline struct {
	MaxWidth  uint
	MaxHeight uint
	Grayscale bool
	Adjust    Adjustments
	Quality   uint
	Dither    dither.Options
}

// Run applies the pipeline to an image.
func (p Pipeline) Run(im Image) error {
	if p.Quality > 0 {
		im.SetQuality(p.Quality)
	}
	if p.MaxWidth > 0 || p.MaxHeight > 0 {
		if err := im.Fit(p.MaxWidth, p.MaxHeight); err != nil {
			return err
		}
	}
	if p.Grayscale {
		if err := im.Grayscale(); err != nil {
			return err
		}
	}
	if !p.Adjust.IsZero() {
		if err := im.Adjust(p.Adjust); err != nil {
			return err
		}
	}

	return im.Dither(p.Dither)
}
