package raster

import (
	"image"
	"image/color"
)

// Canvas wraps a decoded frame's pixel buffer together with the on-disk
// rectangle it occupies within the sprite's overall canvas, so crop/offset
// bookkeeping (§4.I) travels with the pixels instead of being threaded
// through every call site.
type Canvas struct {
	Img *image.NRGBA

	// ULX, ULY, LRX, LRY are the frame's inclusive bounding rectangle in
	// the sprite's overall coordinate space, as recorded in the header's
	// per-frame array.
	ULX, ULY, LRX, LRY int
}

// NewCanvas allocates a Canvas sized to the inclusive rectangle
// (ulx,uly)-(lrx,lry).
func NewCanvas(ulx, uly, lrx, lry int) *Canvas {
	w, h := lrx-ulx+1, lry-uly+1
	return &Canvas{
		Img: image.NewNRGBA(image.Rect(0, 0, w, h)),
		ULX: ulx, ULY: uly, LRX: lrx, LRY: lry,
	}
}

// Width and Height return the canvas's pixel dimensions.
func (c *Canvas) Width() int  { return c.Img.Bounds().Dx() }
func (c *Canvas) Height() int { return c.Img.Bounds().Dy() }

// SetRow writes one fully decoded scanline into row y of the canvas,
// storing each pixel's straight-alpha channels unchanged.
func (c *Canvas) SetRow(y int, pixels []Pixel) {
	for x, p := range pixels {
		c.Img.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A})
	}
}

// Row extracts scanline y as a flat Pixel slice, the shape EncodeLine
// expects.
func (c *Canvas) Row(y int) []Pixel {
	w := c.Width()
	row := make([]Pixel, w)
	for x := 0; x < w; x++ {
		row[x] = FromColor(c.Img.At(x, y))
	}
	return row
}
