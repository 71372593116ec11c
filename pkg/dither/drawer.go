package dither

import (
	"image"
	"image/draw"
)

// Drawer adapts a Ditherer to the draw.Drawer interface.
//
//	dst := image.NewRGBA(src.Bounds())
//	dither.Drawer{Ditherer: dither.NewEngine(dither.Atkinson), Threshold: 128}.
//		Draw(dst, dst.Bounds(), src, src.Bounds().Min)
//
// Draw panics when the ditherer rejects its input, since draw.Drawer
// has no way to report errors.
type Drawer struct {
	Ditherer  Ditherer
	Threshold int
}

var _ draw.Drawer = Drawer{}

// Draw dithers the part of src aligned with r in dst and writes the
// result to dst.
func (d Drawer) Draw(dst draw.Image, r image.Rectangle, src image.Image, sp image.Point) {
	orig := r.Min
	r = r.Intersect(dst.Bounds())
	sp = sp.Add(r.Min.Sub(orig))

	sr := image.Rectangle{Min: sp, Max: sp.Add(r.Size())}.Intersect(src.Bounds())
	if sr.Empty() {
		return
	}
	r.Min = r.Min.Add(sr.Min.Sub(sp))
	r.Max = r.Min.Add(sr.Size())

	sub := image.NewNRGBA(image.Rect(0, 0, sr.Dx(), sr.Dy()))
	draw.Draw(sub, sub.Bounds(), src, sr.Min, draw.Src)

	b, err := FromImage(sub)
	if err != nil {
		panic(err)
	}
	if _, err := d.Ditherer.Apply(b, d.Threshold); err != nil {
		panic(err)
	}
	draw.Draw(dst, r, b.Image(), image.Point{}, draw.Src)
}
