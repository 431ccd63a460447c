// Package tgr is the file driver (§4.I): it glues the IFF framing, header,
// palette, player-colour and per-frame line codecs into whole-file decode
// and encode pipelines.
package tgr

import (
	"io"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/gotgr/tgr/header"
	"github.com/gotgr/tgr/internal/iff"
	"github.com/gotgr/tgr/palette"
	"github.com/gotgr/tgr/raster"
	"github.com/gotgr/tgr/sprite"
)

var (
	ErrInvalidFormType = errors.New("tgr: FORM is not of type TGAR")
	ErrMissingHeader   = errors.New("tgr: TGAR form has no HEDR chunk")
	ErrMissingPalette  = errors.New("tgr: indexed-colour file has no PALT chunk")
	ErrFrameIndex      = errors.New("tgr: frame index out of range")
)

// DecodeOptions configures how opcode streams are interpreted; it is
// threaded down to every sprite.DecodeFrame call.
type DecodeOptions struct {
	PlayerColors raster.PlayerColorLookup
	Player       int
	FxErrorFix   bool
	Logger       *slog.Logger
}

// File is a parsed .TGR, lazily decoding frames on demand (§3 "Lifecycle").
type File struct {
	data    []byte
	form    *iff.Form
	Header  *header.Header
	Palette palette.Palette
	opts    DecodeOptions
}

// Decode parses IFF framing, the HEDR header and (if indexed) the PALT
// palette. Frame rasters are not decoded until File.Frame is called.
func Decode(r io.Reader, opts DecodeOptions) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "tgr: reading source")
	}

	form, err := iff.ParseForm(data)
	if err != nil {
		return nil, errors.Wrap(err, "tgr: parsing IFF framing")
	}
	if form.FormType != iff.TypeTGAR {
		return nil, errors.Wrapf(ErrInvalidFormType, "got %q", form.FormType)
	}

	hedr, idx, ok := form.Find(iff.TypeHEDR, 0)
	if !ok {
		return nil, errors.WithStack(ErrMissingHeader)
	}
	h, err := header.Decode(hedr.Payload(data))
	if err != nil {
		return nil, errors.Wrap(err, "tgr: decoding HEDR")
	}
	if err := h.Validate(); err != nil {
		return nil, errors.Wrap(err, "tgr: validating HEDR")
	}

	f := &File{data: data, form: form, Header: h, opts: opts}

	if h.IndexedColour() {
		palt, _, ok := form.Find(iff.TypePALT, idx)
		if !ok {
			return nil, errors.WithStack(ErrMissingPalette)
		}
		pal, err := palette.Decode(palt.Payload(data))
		if err != nil {
			return nil, errors.Wrap(err, "tgr: decoding PALT")
		}
		f.Palette = pal
	}

	return f, nil
}

// Frame decodes frame i on demand, seeking into the backing byte buffer at
// the offset recorded in the header's per-frame array.
func (f *File) Frame(i int) (*raster.Canvas, error) {
	if i < 0 || i >= len(f.Header.Frames) {
		return nil, errors.Wrapf(ErrFrameIndex, "index %d, framecount %d", i, len(f.Header.Frames))
	}
	rect := f.Header.Frames[i]

	// The recorded offset points just past the FRAM chunk's 8-byte header
	// (see header.FirstFrameOffset), so the payload length is the 4 bytes
	// before it.
	offset := int(rect.Offset)
	if offset < 8 || offset > len(f.data) {
		return nil, errors.Wrapf(iff.ErrTruncated, "tgr: frame %d offset %d beyond file length %d", i, offset, len(f.data))
	}
	length := int(iffBEUint32(f.data[offset-4 : offset]))
	if offset+length > len(f.data) {
		return nil, errors.Wrapf(iff.ErrTruncated, "tgr: frame %d payload of %d bytes at offset %d beyond file length %d", i, length, offset, len(f.data))
	}
	payload := f.data[offset : offset+length]

	opts := sprite.DecodeOptions{DecodeOptions: raster.DecodeOptions{
		BitsPerPixel: int(f.Header.BitsPerPixel),
		Player:       f.opts.Player,
		FxErrorFix:   f.opts.FxErrorFix,
		PlayerColors: f.opts.PlayerColors,
		Logger:       f.opts.Logger,
	}}
	if f.Header.IndexedColour() {
		opts.Palette = f.Palette
	}

	canvas, err := sprite.DecodeFrame(payload, int(rect.ULX), int(rect.ULY), int(rect.LRX), int(rect.LRY), opts, i)
	if err != nil {
		return nil, errors.Wrapf(err, "tgr: decoding frame %d", i)
	}
	return canvas, nil
}

func iffBEUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Metadata is the in-memory analogue of the sprite-metadata INI (§6),
// decoupled from any filesystem path.
type Metadata struct {
	BitsPerPixel  uint8
	Size          [2]uint16
	Hotspot       [2]uint16
	BoundingBox   [4]uint16
	PaletteOffset uint32
	Animations    []header.Animation
	// Palette is required when BitsPerPixel == 8; ignored otherwise.
	Palette palette.Palette
}

func (m Metadata) toHeader(frames []header.FrameRect) *header.Header {
	indexMode := uint8(0)
	if m.BitsPerPixel == 8 {
		indexMode = 0x1A
	}
	return &header.Header{
		Version:       4,
		FrameCount:    uint16(len(frames)),
		BitsPerPixel:  m.BitsPerPixel,
		IndexMode:     indexMode,
		Size:          m.Size,
		Hotspot:       m.Hotspot,
		BoundingBox:   m.BoundingBox,
		PaletteOffset: m.PaletteOffset,
		Frames:        frames,
		Animations:    m.Animations,
	}
}

// Encode runs the sequential encode pipeline (§4.I): each frame is encoded
// in order, the header is emitted with the resulting offsets, and the whole
// thing is wrapped in a FORM TGAR envelope.
func Encode(w io.Writer, frames []*raster.Canvas, meta Metadata) error {
	encoded, err := encodeFrames(frames)
	if err != nil {
		return err
	}
	return assembleAndWrite(w, frames, encoded, meta)
}

func encodeFrames(frames []*raster.Canvas) ([][]byte, error) {
	encoded := make([][]byte, len(frames))
	for i, canvas := range frames {
		chunk, err := sprite.EncodeFrame(canvas, i)
		if err != nil {
			return nil, errors.Wrapf(err, "tgr: encoding frame %d", i)
		}
		encoded[i] = chunk
	}
	return encoded, nil
}

func assembleAndWrite(w io.Writer, frames []*raster.Canvas, encoded [][]byte, meta Metadata) error {
	rects := make([]header.FrameRect, len(frames))
	lens := make([]int, len(frames))
	for i, canvas := range frames {
		lens[i] = len(encoded[i])
		if canvas == nil {
			continue
		}
		rects[i] = header.FrameRect{
			ULX: uint16(canvas.ULX), ULY: uint16(canvas.ULY),
			LRX: uint16(canvas.LRX), LRY: uint16(canvas.LRY),
		}
	}

	h := meta.toHeader(rects)
	hedrBody, err := header.Encode(h, lens)
	if err != nil {
		return errors.Wrap(err, "tgr: encoding HEDR")
	}

	children := []iff.Chunk{{Type: iff.TypeHEDR, Data: hedrBody}}
	if meta.BitsPerPixel == 8 {
		children = append(children, iff.Chunk{Type: iff.TypePALT, Data: palette.Encode(meta.Palette)})
	}
	for _, chunk := range encoded {
		// chunk already carries its own FRAM(type,length) header; iff.Chunk
		// wraps type+payload generically, so split it back apart here.
		children = append(children, iff.Chunk{Type: string(chunk[0:4]), Data: chunk[8:]})
	}

	out := iff.WriteForm(iff.TypeTGAR, children)
	_, err = w.Write(out)
	return errors.Wrap(err, "tgr: writing FORM")
}
