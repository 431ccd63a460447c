// Package raster implements the per-line opcode codec that marshals pixels
// between their compressed on-disk form and a flat RGBA raster (§4.F/§4.G),
// plus the 5-6-5 direct-colour pixel format shared by the bitstream and the
// palette (§3 "Pixel").
package raster

import "image/color"

// Pixel is a logical RGBA pixel, 8 bits per channel. It implements
// color.Color so decoded rasters compose directly with image.Image and
// image/draw in the CLI layer.
type Pixel struct {
	R, G, B, A uint8
}

// RGBA implements color.Color, returning alpha-premultiplied channels as
// that interface requires (Pixel itself stores straight alpha).
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A}.RGBA()
}

// FromColor converts an arbitrary color.Color to a Pixel using straight
// (non-premultiplied) 8-bit channels, matching the alpha convention used
// throughout the opcode stream (§3).
func FromColor(c color.Color) Pixel {
	if p, ok := c.(Pixel); ok {
		return p
	}
	nrgba := color.NRGBAModel.Convert(c).(color.NRGBA)
	return Pixel{R: nrgba.R, G: nrgba.G, B: nrgba.B, A: nrgba.A}
}

// Sentinel pixels (§3).
var (
	// TRANSPARENCY is the raster colour used to denote a known-transparent
	// pixel: (0x00, 0xFF, 0xFF, 0x00).
	TRANSPARENCY = Pixel{R: 0x00, G: 0xFF, B: 0xFF, A: 0x00}

	// SHADOW is half-alpha black: (0, 0, 0, 0x80).
	SHADOW = Pixel{R: 0, G: 0, B: 0, A: 0x80}
)

// expand / compress implement the rational rounding round(c/max*255) and its
// inverse, used for 5-6-5 channel expansion/compression (§3). The source's
// shift-only decoder (`blue = (w<<3)&0xFF`) is discarded per §9 — this is
// the canonical form.
func expand(bits uint16, width int) uint8 {
	max := uint16(1)<<uint(width) - 1
	return uint8((uint32(bits)*255 + uint32(max)/2) / uint32(max))
}

func compress(c uint8, width int) uint16 {
	max := uint16(1)<<uint(width) - 1
	return uint16((uint32(c)*uint32(max) + 127) / 255)
}

// DecodeDirect565 decodes a little-endian 16-bit 5-6-5 value into a Pixel
// with full (255) alpha: blue = bits[0:5], green = bits[5:11], red =
// bits[11:16].
func DecodeDirect565(v uint16) Pixel {
	b := expand(v&0x1F, 5)
	g := expand((v>>5)&0x3F, 6)
	r := expand((v>>11)&0x1F, 5)
	return Pixel{R: r, G: g, B: b, A: 0xFF}
}

// EncodeDirect565 packs a Pixel's RGB channels into a little-endian 16-bit
// 5-6-5 value, discarding alpha.
func EncodeDirect565(p Pixel) uint16 {
	r5 := compress(p.R, 5)
	g6 := compress(p.G, 6)
	b5 := compress(p.B, 5)
	return (r5 << 11) | (g6 << 5) | b5
}

// PaletteLookup resolves a 1-based on-disk palette index to a Pixel.
// Implemented by *palette.Palette; declared here (rather than imported) to
// avoid a raster<->palette import cycle, since palette.Palette is itself a
// []raster.Pixel.
type PaletteLookup interface {
	At(index int) (Pixel, error)
}

// PlayerColorLookup resolves a (player, shade) pair to a Pixel. Implemented
// by *playercolor.Table.
type PlayerColorLookup interface {
	At(player, shade int) (Pixel, error)
}
