package configs

import (
	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"
)

// DitherOptions returns the dithering options from the [dither]
// section.
func DitherOptions() (dither.Options, error) {
	a, err := dither.ParseAlgorithm(Config.Dither.Algorithm)
	if err != nil {
		return dither.Options{}, err
	}

	return dither.Options{
		Algorithm: a,
		Threshold: Config.Dither.Threshold,
		Parallel:  Config.Dither.Parallel,
		Seed:      Config.Dither.Seed,
		Matrix:    Config.Dither.Matrix,
	}, nil
}

// Pipeline returns the image pipeline from the [images] and [dither]
// sections.
func Pipeline() (img.Pipeline, error) {
	opts, err := DitherOptions()
	if err != nil {
		return img.Pipeline{}, err
	}

	return img.Pipeline{
		MaxWidth:  uint(max0(Config.Images.MaxWidth)),
		MaxHeight: uint(max0(Config.Images.MaxHeight)),
		Grayscale: Config.Images.Grayscale,
		Quality:   uint(max0(Config.Images.Quality)),
		Adjust: img.Adjustments{
			Gamma:      Config.Images.Gamma,
			Contrast:   Config.Images.Contrast,
			Brightness: Config.Images.Brightness,
		},
		Dither: opts,
	}, nil
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
