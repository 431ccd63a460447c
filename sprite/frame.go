// Package sprite implements the frame driver (§4.H): looping scanlines,
// assembling a frame's Canvas on decode, and padding a frame's encoded
// payload to a 4-byte boundary on encode.
package sprite

import (
	"github.com/pkg/errors"

	"github.com/gotgr/tgr/internal/pool"
	"github.com/gotgr/tgr/raster"
)

var ErrFrameSizeMismatch = errors.New("sprite: encoded frame line count does not match declared height")

// DecodeOptions configures DecodeFrame; it embeds raster.DecodeOptions, whose
// Logger is shared by the frame-level warnings here and by every line the
// frame decodes.
type DecodeOptions struct {
	raster.DecodeOptions
}

// DecodeFrame decodes a FRAM chunk's payload into a Canvas of the given
// inclusive bounding rectangle. A zero-area rectangle (ulx=uly=lrx=lry=0)
// is a padding frame: payload is expected to be empty and nil is returned
// with no error, matching §7's "zero-size frame rectangle produces a
// padding frame, not an error".
func DecodeFrame(payload []byte, ulx, uly, lrx, lry int, opts DecodeOptions, frameIndex int) (*raster.Canvas, error) {
	width, height := lrx-ulx+1, lry-uly+1
	if ulx == 0 && uly == 0 && lrx == 0 && lry == 0 {
		return nil, nil
	}

	canvas := raster.NewCanvas(ulx, uly, lrx, lry)

	pos := 0
	for y := 0; y < height; y++ {
		// A zero total_length byte cannot start a real line (its header alone
		// is 3 bytes); it is the zero padding that aligns the payload to 4
		// bytes, so the encoded lines end here.
		if pos >= len(payload) || payload[pos] == 0 {
			if opts.Logger != nil {
				opts.Logger.Warn("sprite: frame shorter than declared height, padding remaining rows",
					"frame", frameIndex, "have_rows", y, "want_rows", height)
			}
			for ; y < height; y++ {
				fillTransparent(canvas, y, width)
			}
			break
		}

		meta, _, err := raster.ReadLineMeta(payload, pos)
		if err != nil {
			return nil, errors.Wrapf(err, "sprite: frame %d line %d", frameIndex, y)
		}

		pixels, err := raster.DecodeLine(payload, meta, opts.DecodeOptions, frameIndex, y)
		if err != nil {
			return nil, errors.Wrapf(err, "sprite: frame %d line %d", frameIndex, y)
		}
		canvas.SetRow(y, pixels)

		pos = meta.Offset + meta.DataLength
	}

	return canvas, nil
}

func fillTransparent(canvas *raster.Canvas, y, width int) {
	row := make([]raster.Pixel, width)
	for i := range row {
		row[i] = raster.TRANSPARENCY
	}
	canvas.SetRow(y, row)
}

// EncodeFrame encodes every row of canvas and wraps the result in a FRAM
// chunk, zero-padded to a 4-byte multiple (§4.H). A nil canvas produces the
// zero-length padding-frame form.
func EncodeFrame(canvas *raster.Canvas, frameIndex int) ([]byte, error) {
	if canvas == nil {
		return frameChunk(nil), nil
	}

	// Rows are accumulated in a pooled scratch buffer sized at 2 bytes per
	// pixel plus slack (append grows past it for frames that need more, such
	// as single translucent pixels at 3 bytes each), then copied into a
	// right-sized result so the pooled backing array can be reused.
	scratch := pool.Get(canvas.Width()*canvas.Height()*2 + 64)
	body := scratch[:0]
	for y := 0; y < canvas.Height(); y++ {
		line, err := raster.EncodeLine(canvas.Row(y), frameIndex, y)
		if err != nil {
			pool.Put(scratch)
			return nil, errors.Wrapf(err, "sprite: encoding frame %d line %d", frameIndex, y)
		}
		body = append(body, line...)
	}
	if pad := len(body) % 4; pad != 0 {
		body = append(body, make([]byte, 4-pad)...)
	}
	out := frameChunk(body)
	pool.Put(scratch)
	return out, nil
}

func frameChunk(body []byte) []byte {
	out := make([]byte, 8, 8+len(body))
	copy(out[0:4], "FRAM")
	n := uint32(len(body))
	out[4], out[5], out[6], out[7] = byte(n>>24), byte(n>>16), byte(n>>8), byte(n)
	return append(out, body...)
}
