package raster

import (
	"log/slog"

	"github.com/pkg/errors"
)

// LineMeta is the parsed three-field header that precedes every line's
// opcode payload (§3 "Line"): the total on-disk length of the line record
// (header + payload), the count of leading transparent pixels folded into
// the header, and the expected pixel width of the decoded row.
type LineMeta struct {
	TotalLength       int
	TransparentPixels int
	PixelLength       int

	// Offset is the byte position, within the frame's chunk payload, of
	// the opcode stream that follows this header.
	Offset int
	// DataLength is the number of opcode-stream bytes belonging to this
	// line: TotalLength minus the bytes the header itself occupied.
	DataLength int
}

// ReadLineMeta parses a LineMeta starting at pos within data, returning the
// position immediately after the three length fields (i.e. LineMeta.Offset).
func ReadLineMeta(data []byte, pos int) (LineMeta, int, error) {
	start := pos

	total, n, ok := readVarLen(data[pos:])
	if !ok {
		return LineMeta{}, pos, errors.WithStack(ErrShortRead)
	}
	pos += n

	transparent, n, ok := readVarLen(data[pos:])
	if !ok {
		return LineMeta{}, pos, errors.WithStack(ErrShortRead)
	}
	pos += n

	pixelLen, n, ok := readVarLen(data[pos:])
	if !ok {
		return LineMeta{}, pos, errors.WithStack(ErrShortRead)
	}
	pos += n

	return LineMeta{
		TotalLength:       total,
		TransparentPixels: transparent,
		PixelLength:       pixelLen,
		Offset:            pos,
		DataLength:        total - (pos - start),
	}, pos, nil
}

// DecodeOptions configures DecodeLine.
type DecodeOptions struct {
	// BitsPerPixel is 8 (palette-indexed) or 16 (direct 5-6-5 colour).
	BitsPerPixel int
	// Palette resolves palette indices; required when BitsPerPixel==8.
	Palette PaletteLookup
	// PlayerColors resolves (player, shade) pairs; required whenever the
	// stream contains a player-colour opcode (flags 0b110/0b111).
	PlayerColors PlayerColorLookup
	// Player selects which player's colour ramp flags 0b110/0b111 index
	// into.
	Player int
	// FxErrorFix treats opcode bytes 0x7F and 0xFD as a single magenta
	// transparent pixel rather than dispatching them through the normal
	// flag/length decomposition, matching a known game-engine quirk.
	FxErrorFix bool
	// Logger receives a warning for any opcode flag or short line this
	// decoder cannot make sense of. Decoding continues regardless;
	// nil disables logging.
	Logger *slog.Logger
}

var magentaMarker = Pixel{R: 255, G: 0, B: 255, A: 0}

// DecodeLine expands one line's opcode stream into PixelLength pixels.
// data is the enclosing frame payload; meta.Offset/meta.DataLength locate
// this line's opcode bytes within it.
func DecodeLine(data []byte, meta LineMeta, opts DecodeOptions, frameIndex, lineIndex int) ([]Pixel, error) {
	pixelBytes := opts.BitsPerPixel / 8
	if pixelBytes != 1 && pixelBytes != 2 {
		return nil, errors.WithStack(ErrUnsupportedBitDepth)
	}

	out := make([]Pixel, 0, meta.PixelLength)
	for i := 0; i < meta.TransparentPixels; i++ {
		out = append(out, TRANSPARENCY)
	}

	readPixel := func(pos int) (Pixel, error) {
		if pos+pixelBytes > len(data) {
			return Pixel{}, errors.WithStack(ErrShortRead)
		}
		if pixelBytes == 1 {
			if opts.Palette == nil {
				return Pixel{}, errors.WithStack(ErrPaletteUnset)
			}
			// Palette.At treats index 0 as a non-fatal skip (§7); only an
			// out-of-range index is an error here.
			return opts.Palette.At(int(data[pos]))
		}
		v := uint16(data[pos]) | uint16(data[pos+1])<<8
		return DecodeDirect565(v), nil
	}

	playerColor := func(shade int) (Pixel, error) {
		if opts.PlayerColors == nil {
			return Pixel{}, errors.New("raster: player-colour opcode requires a PlayerColorLookup")
		}
		return opts.PlayerColors.At(opts.Player, shade)
	}

	pos := meta.Offset
	end := meta.Offset + meta.DataLength
	for pos < end {
		if pos >= len(data) {
			return nil, errors.WithStack(ErrShortRead)
		}
		b := data[pos]
		pos++

		if opts.FxErrorFix && (b == 0x7F || b == 0xFD) {
			out = append(out, magentaMarker)
			continue
		}

		flag := b >> 5
		runLength := int(b & 0x1F)

		switch flag {
		case 0b000: // transparent run
			for i := 0; i < runLength; i++ {
				out = append(out, TRANSPARENCY)
			}

		case 0b001: // solid run
			p, err := readPixel(pos)
			if err != nil {
				return nil, err
			}
			pos += pixelBytes
			for i := 0; i < runLength; i++ {
				out = append(out, p)
			}

		case 0b010: // literal run
			for i := 0; i < runLength; i++ {
				p, err := readPixel(pos)
				if err != nil {
					return nil, err
				}
				pos += pixelBytes
				out = append(out, p)
			}

		case 0b011: // translucent run
			if pos >= len(data) {
				return nil, errors.WithStack(ErrShortRead)
			}
			alphaRaw := data[pos] & 0x1F
			pos++
			p, err := readPixel(pos)
			if err != nil {
				return nil, err
			}
			pos += pixelBytes
			p.A = expand(uint16(alphaRaw), 5)
			for i := 0; i < runLength; i++ {
				out = append(out, p)
			}

		case 0b100: // single translucent pixel
			p, err := readPixel(pos)
			if err != nil {
				return nil, err
			}
			pos += pixelBytes
			p.A = expand(uint16(runLength), 5)
			out = append(out, p)

		case 0b101: // shadow run
			for i := 0; i < runLength; i++ {
				out = append(out, SHADOW)
			}

		case 0b110: // single player-colour pixel
			p, err := playerColor(runLength)
			if err != nil {
				return nil, err
			}
			out = append(out, p)

		case 0b111: // packed player-colour indices, two per byte
			readLen := (runLength + 1) / 2
			if pos+readLen > len(data) {
				return nil, errors.WithStack(ErrShortRead)
			}
			for i := 0; i < readLen; i++ {
				byt := data[pos+i]
				hi, err := playerColor(int((byt>>3)&0x1F | 0x01))
				if err != nil {
					return nil, err
				}
				out = append(out, hi)

				if runLength%2 == 0 || i < readLen-1 {
					lo, err := playerColor(int((byt<<1)&0x1F | 0x01))
					if err != nil {
						return nil, err
					}
					out = append(out, lo)
				}
			}
			pos += readLen

		default:
			if opts.Logger != nil {
				opts.Logger.Warn("raster: unsupported opcode flag",
					"frame", frameIndex, "line", lineIndex,
					"flag", flag, "byte", b, "offset", pos-1)
			}
		}
	}

	if len(out) < meta.PixelLength {
		if opts.Logger != nil {
			opts.Logger.Warn("raster: line short of declared pixel width, padding with transparency",
				"frame", frameIndex, "line", lineIndex,
				"got", len(out), "want", meta.PixelLength)
		}
		for len(out) < meta.PixelLength {
			out = append(out, TRANSPARENCY)
		}
	}

	return out, nil
}
