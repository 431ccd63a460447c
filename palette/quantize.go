package palette

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/gotgr/tgr/raster"
)

// direct565Model quantises arbitrary colours down to the 5-6-5 colour
// cube the on-disk palette entries are restricted to, so
// draw.FloydSteinberg's error-diffusion dithering has a meaningful palette
// to target when building an indexed palette from a direct-colour source
// raster.
type direct565Model struct{}

func (direct565Model) Convert(c color.Color) color.Color {
	return raster.DecodeDirect565(raster.EncodeDirect565(raster.FromColor(c)))
}

// Quantize builds an indexed Palette (capped at maxColors, 1-based once
// written to disk) from a direct-colour source image using Floyd-Steinberg
// dithering, and returns the matching indexed raster. Index 0 is reserved,
// so at most maxColors-1 distinct colours are produced.
//
// This path is not exercised by any known captured asset (palette encoding
// on write was never observed in the source tool); treat its output as
// provisional until validated against a real indexed-mode sample.
func Quantize(src image.Image, maxColors int) (Palette, *image.Paletted, error) {
	if maxColors < 2 {
		maxColors = 2
	}
	colors := collectColors(src, maxColors-1)

	model := make(color.Palette, 0, len(colors)+1)
	model = append(model, color.Transparent)
	for _, c := range colors {
		model = append(model, c)
	}

	bounds := src.Bounds()
	dst := image.NewPaletted(bounds, model)
	draw.FloydSteinberg.Draw(dst, bounds, src, image.Point{})

	pal := make(Palette, len(model))
	for i, c := range model {
		pal[i] = raster.FromColor(c)
	}
	return pal, dst, nil
}

// collectColors gathers up to limit distinct 5-6-5-quantised colours seen
// in src, in first-encountered order.
func collectColors(src image.Image, limit int) []color.Color {
	seen := make(map[raster.Pixel]bool, limit)
	var out []color.Color
	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y && len(out) < limit; y++ {
		for x := bounds.Min.X; x < bounds.Max.X && len(out) < limit; x++ {
			p := raster.DecodeDirect565(raster.EncodeDirect565(raster.FromColor(src.At(x, y))))
			if seen[p] {
				continue
			}
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}
