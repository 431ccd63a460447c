package raster

import "github.com/pkg/errors"

// Errors returned by the line decoder/encoder (§7).
var (
	ErrUnsupportedBitDepth = errors.New("raster: unsupported bits-per-pixel (want 8 or 16)")
	ErrPaletteUnset        = errors.New("raster: indexed line requires a Palette")
	ErrEncodeOverflow      = errors.New("raster: encoded line exceeds field width")
	ErrShortRead           = errors.New("raster: opcode stream truncated")
)
