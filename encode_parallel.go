package tgr

import (
	"context"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/pkg/errors"

	"github.com/gotgr/tgr/raster"
	"github.com/gotgr/tgr/sprite"
)

// EncodeParallel is the concurrent counterpart of Encode (§5): per-frame
// encoding is independent once metadata is known, so each frame's opcode
// stream is produced by its own goroutine and the results are reassembled
// in original order before header offsets are computed.
func EncodeParallel(ctx context.Context, w io.Writer, frames []*raster.Canvas, meta Metadata) error {
	encoded := make([][]byte, len(frames))

	g, ctx := errgroup.WithContext(ctx)
	for i, canvas := range frames {
		i, canvas := i, canvas
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			chunk, err := sprite.EncodeFrame(canvas, i)
			if err != nil {
				return errors.Wrapf(err, "tgr: encoding frame %d", i)
			}
			encoded[i] = chunk
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return assembleAndWrite(w, frames, encoded, meta)
}
