package raster

import "github.com/pkg/errors"

// maxRunLength is the largest run the 5-bit opcode length field can carry.
const maxRunLength = 31

// lookAheadMatching counts how many pixels after pixelIx repeat row[pixelIx]
// exactly, capped at 30 so the run (plus the initial pixel) fits the 5-bit
// length field of opcode flags 0b000/0b001/0b011/0b101.
func lookAheadMatching(row []Pixel, pixelIx int) int {
	width := len(row)
	p := row[pixelIx]
	collected := 0
	for pixelIx+collected+1 < width && row[pixelIx+collected+1] == p {
		collected++
		if collected == maxRunLength-1 {
			break
		}
	}
	return collected
}

// lookAheadUnique counts the leading run of distinct, fully opaque pixels
// starting at pixelIx, stopping as soon as a repeat (or a non-opaque pixel)
// would let a run opcode take over, capped at maxRunLength.
func lookAheadUnique(row []Pixel, pixelIx int) int {
	width := len(row)
	if pixelIx == width-1 {
		return 1
	}
	collected := 0
	for {
		nextIdx := pixelIx + collected + 1
		if nextIdx >= width {
			break
		}
		this := row[pixelIx+collected]
		if this == row[nextIdx] || this.A != 255 {
			break
		}
		collected++
		if collected == maxRunLength {
			break
		}
	}
	return collected
}

// packDirect splits p's 5-6-5 value into its high and low bytes; the opcode
// stream stores them low byte first (little-endian), as DecodeLine reads them.
func packDirect(p Pixel) (hi, lo byte) {
	v := EncodeDirect565(p)
	return byte(v >> 8), byte(v)
}

// EncodeLine packs one row of pixels into its on-disk opcode stream plus
// variable-width header. row must be a fully decoded, straight-alpha raster
// row; opaque/transparent/translucent classification follows row[i].A.
func EncodeLine(row []Pixel, frameIndex, lineIndex int) ([]byte, error) {
	width := len(row)
	pixelIx := 0
	offset := 0
	ctPixels := 0

	body := make([]byte, 0, estimateLineBody(width))

scan:
	for pixelIx < width {
		p := row[pixelIx]

		switch {
		case p.A == 0:
			runLength := lookAheadMatching(row, pixelIx) + 1
			switch {
			case pixelIx == 0:
				offset = runLength
				pixelIx += runLength
			case pixelIx+runLength >= width:
				break scan
			default:
				body = append(body, byte(0b000<<5)|byte(runLength&0x1F))
				pixelIx += runLength
				ctPixels += runLength
			}

		case p.A < 255:
			runLength := lookAheadMatching(row, pixelIx) + 1
			hi, lo := packDirect(p)
			a5 := compress(p.A, 5)
			if runLength == 1 {
				body = append(body, byte(0b100<<5)|byte(a5&0x1F), lo, hi)
			} else {
				body = append(body, byte(0b011<<5)|byte(runLength&0x1F), byte(a5), lo, hi)
			}
			pixelIx += runLength
			ctPixels += runLength

		default: // fully opaque
			if matching := lookAheadMatching(row, pixelIx); matching > 0 {
				runLength := matching + 1
				hi, lo := packDirect(p)
				body = append(body, byte(0b001<<5)|byte(runLength&0x1F), lo, hi)
				pixelIx += runLength
				ctPixels += runLength
			} else {
				runLength := lookAheadUnique(row, pixelIx)
				body = append(body, byte(0b010<<5)|byte(runLength&0x1F))
				for i := 0; i < runLength; i++ {
					hi, lo := packDirect(row[pixelIx+i])
					body = append(body, lo, hi)
				}
				pixelIx += runLength
				ctPixels += runLength
			}
		}
	}

	return encodeLineHeader(frameIndex, lineIndex, body, ctPixels, offset)
}

// encodeLineHeader prepends the three-field variable-width line header
// (§3 "Line") to body, matching readVarLen's 1-byte/2-byte framing.
func encodeLineHeader(frameIndex, lineIndex int, body []byte, ctPixels, offset int) ([]byte, error) {
	lineLength := len(body)
	headerLength := 3

	if lineLength > 0x7FFA {
		return nil, errors.Wrapf(ErrEncodeOverflow, "frame %d line %d: body length %d exceeds 15-bit maximum", frameIndex, lineIndex, lineLength)
	}
	if offset > 0xFF {
		return nil, errors.Wrapf(ErrEncodeOverflow, "frame %d line %d: leading offset %d exceeds 8-bit maximum", frameIndex, lineIndex, offset)
	}
	if ctPixels > 0x7FFF {
		return nil, errors.Wrapf(ErrEncodeOverflow, "frame %d line %d: pixel count %d exceeds 15-bit maximum", frameIndex, lineIndex, ctPixels)
	}

	wideCt := ctPixels > 0x7F
	if wideCt {
		headerLength++
	}
	wideLen := lineLength+headerLength > 0x7F
	if wideLen {
		headerLength++
	}

	header := make([]byte, 0, headerLength)
	header = appendVarLen(header, lineLength+headerLength, wideLen)
	header = append(header, byte(offset))
	header = appendVarLen(header, ctPixels, wideCt)

	return append(header, body...), nil
}

// estimateLineBody pre-sizes the body buffer to avoid quadratic
// reallocation: pixel_count*bytes_per_pixel plus one opcode byte per run of
// up to 31 pixels.
func estimateLineBody(width int) int {
	const bytesPerPixel = 2 // encoder always emits direct 5-6-5 pixel bodies
	return width*bytesPerPixel + width/maxRunLength
}
