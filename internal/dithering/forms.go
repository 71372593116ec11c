package dithering

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ditherit/ditherit/pkg/dither"
	"github.com/ditherit/ditherit/pkg/img"
)

var validFormats = []interface{}{"png", "gif", "jpeg"}

// ditherForm holds the query string of a dither request. Unset
// values keep the configured defaults.
type ditherForm struct {
	Algorithm string `schema:"algorithm" json:"algorithm" conform:"trim,lower"`
	Threshold *int   `schema:"threshold" json:"threshold"`
	Matrix    string `schema:"matrix" json:"matrix" conform:"trim,lower"`
	Seed      *int64 `schema:"seed" json:"seed"`
	Format    string `schema:"format" json:"format" conform:"trim,lower"`
	Grayscale *bool  `schema:"grayscale" json:"grayscale"`
	Width     uint   `schema:"width" json:"width"`
	Height    uint   `schema:"height" json:"height"`
}

// Validate implements validation.Validatable.
func (f *ditherForm) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Algorithm, validation.By(isAlgorithm)),
		validation.Field(&f.Threshold, validation.Min(0), validation.Max(255)),
		validation.Field(&f.Matrix, validation.By(isThresholdMap)),
		validation.Field(&f.Format, validation.In(validFormats...)),
		validation.Field(&f.Width, validation.Max(uint(8192))),
		validation.Field(&f.Height, validation.Max(uint(8192))),
	)
}

func isAlgorithm(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := dither.ParseAlgorithm(s); err != nil {
		return errors.New("unknown algorithm")
	}
	return nil
}

func isThresholdMap(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := dither.LookupThresholdMap(s); err != nil {
		return errors.New("unknown threshold map")
	}
	return nil
}

// apply overrides the given pipeline with the form values.
// The form must be valid.
func (f *ditherForm) apply(p *img.Pipeline) {
	if f.Algorithm != "" {
		p.Dither.Algorithm, _ = dither.ParseAlgorithm(f.Algorithm)
	}
	if f.Threshold != nil {
		p.Dither.Threshold = *f.Threshold
	}
	if f.Matrix != "" {
		p.Dither.Matrix = f.Matrix
	}
	if f.Seed != nil {
		p.Dither.Seed = *f.Seed
	}
	if f.Grayscale != nil {
		p.Grayscale = *f.Grayscale
	}
	if f.Width > 0 && (p.MaxWidth == 0 || f.Width < p.MaxWidth) {
		p.MaxWidth = f.Width
	}
	if f.Height > 0 && (p.MaxHeight == 0 || f.Height < p.MaxHeight) {
		p.MaxHeight = f.Height
	}
}
