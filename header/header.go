// Package header decodes and encodes the HEDR chunk body: version,
// bit depth, overall canvas size, hotspot, bounding box, the per-frame
// rectangle/offset array, and the animation table (§4.C).
package header

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// fixedBodySize is the length, in bytes, of the HEDR fields preceding the
// per-frame array: version(4) + framecount(2) + bits_per_px(1) + pad(1) +
// pad(1) + index_mode(1) + offset_flag(1) + pad(1) + size(4) + hotspot(4) +
// bounding_box(8) + reserved(12).
const fixedBodySize = 40

// frameEntrySize is the encoded size of one per-frame array entry:
// ulx,uly,lrx,lry u16 + offset u32.
const frameEntrySize = 12

// animEntrySize is the encoded size of one animation table entry:
// start_frame, frame_count, animation_count, all u16.
const animEntrySize = 6

// maxAnimations is a tooling constraint observed in every captured asset;
// Decode does not enforce it strictly but Header.Validate does.
const maxAnimations = 6

var (
	ErrTruncated          = errors.New("header: HEDR body truncated")
	ErrBitDepthMismatch   = errors.New("header: index_mode/bits_per_px disagree on indexed colour")
	ErrInvalidFrameRect   = errors.New("header: frame rectangle is not positive-area")
	ErrTooManyAnimations  = errors.New("header: anim_count exceeds tooling constraint of 6")
	ErrFrameCountMismatch = errors.New("header: framecount does not match per-frame array length")
)

// FrameRect is one entry of the per-frame array: an inclusive bounding
// rectangle plus the absolute file offset of the frame's FRAM chunk payload
// (just past its 8-byte chunk header).
type FrameRect struct {
	ULX, ULY, LRX, LRY uint16
	Offset             uint32
}

// Width and Height return the frame's pixel dimensions.
func (f FrameRect) Width() int  { return int(f.LRX) - int(f.ULX) + 1 }
func (f FrameRect) Height() int { return int(f.LRY) - int(f.ULY) + 1 }

// Animation is one entry of the animation table.
type Animation struct {
	StartFrame, FrameCount, AnimationCount uint16
}

// Header is the decoded HEDR body.
type Header struct {
	Version      uint32
	FrameCount   uint16
	BitsPerPixel uint8
	IndexMode    uint8
	OffsetFlag   uint8
	Size         [2]uint16
	Hotspot      [2]uint16
	BoundingBox  [4]uint16
	PaletteOffset uint32

	Frames     []FrameRect
	Animations []Animation
}

// IndexedColour reports whether pixel data is palette-indexed, per the
// (index_mode & 0x7F) == 0x1A convention.
func (h Header) IndexedColour() bool {
	return h.IndexMode&0x7F == 0x1A
}

// Validate checks the invariants Decode is expected to uphold.
func (h Header) Validate() error {
	if int(h.FrameCount) != len(h.Frames) {
		return errors.WithStack(ErrFrameCountMismatch)
	}
	if h.IndexedColour() != (h.BitsPerPixel == 8) {
		return errors.WithStack(ErrBitDepthMismatch)
	}
	for i, f := range h.Frames {
		if f.Width() <= 0 || f.Height() <= 0 {
			return errors.Wrapf(ErrInvalidFrameRect, "frame %d: %+v", i, f)
		}
	}
	if len(h.Animations) > maxAnimations {
		return errors.WithStack(ErrTooManyAnimations)
	}
	return nil
}

// Decode parses a HEDR chunk payload.
func Decode(data []byte) (*Header, error) {
	if len(data) < fixedBodySize {
		return nil, errors.WithStack(ErrTruncated)
	}

	h := &Header{
		Version:      binary.LittleEndian.Uint32(data[0:4]),
		FrameCount:   binary.LittleEndian.Uint16(data[4:6]),
		BitsPerPixel: data[6],
		// data[7] pad
		IndexMode:  data[9],
		OffsetFlag: data[10],
		// data[11] pad
	}
	h.Size = [2]uint16{binary.LittleEndian.Uint16(data[12:14]), binary.LittleEndian.Uint16(data[14:16])}
	h.Hotspot = [2]uint16{binary.LittleEndian.Uint16(data[16:18]), binary.LittleEndian.Uint16(data[18:20])}
	h.BoundingBox = [4]uint16{
		binary.LittleEndian.Uint16(data[20:22]),
		binary.LittleEndian.Uint16(data[22:24]),
		binary.LittleEndian.Uint16(data[24:26]),
		binary.LittleEndian.Uint16(data[26:28]),
	}
	// data[28:40] reserved; last 4 bytes carry the palette offset.
	h.PaletteOffset = binary.LittleEndian.Uint32(data[36:40])

	pos := fixedBodySize
	need := int(h.FrameCount)*frameEntrySize + 2
	if len(data) < pos+need {
		return nil, errors.WithStack(ErrTruncated)
	}
	h.Frames = make([]FrameRect, h.FrameCount)
	for i := range h.Frames {
		h.Frames[i] = FrameRect{
			ULX:    binary.LittleEndian.Uint16(data[pos : pos+2]),
			ULY:    binary.LittleEndian.Uint16(data[pos+2 : pos+4]),
			LRX:    binary.LittleEndian.Uint16(data[pos+4 : pos+6]),
			LRY:    binary.LittleEndian.Uint16(data[pos+6 : pos+8]),
			Offset: binary.LittleEndian.Uint32(data[pos+8 : pos+12]),
		}
		pos += frameEntrySize
	}

	animCount := binary.LittleEndian.Uint16(data[pos : pos+2])
	pos += 2
	if len(data) < pos+int(animCount)*animEntrySize {
		return nil, errors.WithStack(ErrTruncated)
	}
	h.Animations = make([]Animation, animCount)
	for i := range h.Animations {
		h.Animations[i] = Animation{
			StartFrame:     binary.LittleEndian.Uint16(data[pos : pos+2]),
			FrameCount:     binary.LittleEndian.Uint16(data[pos+2 : pos+4]),
			AnimationCount: binary.LittleEndian.Uint16(data[pos+4 : pos+6]),
		}
		pos += animEntrySize
	}

	return h, nil
}

// FirstFrameOffset computes the absolute file offset of the first FRAM
// chunk's payload, given the encoded size of the animation table (§4.C):
// sizeof(FORM header=12) + sizeof(HEDR header=8) + sizeof(HEDR fixed=40) +
// framecount*12 + anim_table_size + sizeof(FRAM header=8).
func FirstFrameOffset(frameCount int, animTableSize int) int {
	return 12 + 8 + fixedBodySize + frameCount*frameEntrySize + animTableSize + 8
}

// AnimTableSize returns the encoded byte length of the animation table
// including its count prefix and the 2-byte pad emitted when animCount is
// even, so the HEDR body ends on a 4-byte boundary.
func AnimTableSize(animCount int) int {
	size := 2 + animCount*animEntrySize
	if animCount%2 == 0 {
		size += 2
	}
	return size
}

// Encode serialises h, computing per-frame offsets so that frame i's FRAM
// payload begins at FirstFrameOffset plus the cumulative encoded length of
// frames 0..i-1 (each frameLens[i] includes that frame's 8-byte FRAM
// header). frameLens must have the same length as h.Frames.
func Encode(h *Header, frameLens []int) ([]byte, error) {
	if len(frameLens) != len(h.Frames) {
		return nil, errors.Errorf("header: frameLens length %d does not match %d frames", len(frameLens), len(h.Frames))
	}
	if len(h.Animations) > maxAnimations {
		return nil, errors.WithStack(ErrTooManyAnimations)
	}

	animBuf := encodeAnimations(h.Animations)
	firstOffset := FirstFrameOffset(len(h.Frames), len(animBuf))

	buf := make([]byte, fixedBodySize, fixedBodySize+len(h.Frames)*frameEntrySize+len(animBuf))
	binary.LittleEndian.PutUint32(buf[0:4], h.Version)
	binary.LittleEndian.PutUint16(buf[4:6], uint16(len(h.Frames)))
	buf[6] = h.BitsPerPixel
	buf[7] = 0
	buf[8] = 0
	buf[9] = h.IndexMode
	buf[10] = h.OffsetFlag
	buf[11] = 0
	binary.LittleEndian.PutUint16(buf[12:14], h.Size[0])
	binary.LittleEndian.PutUint16(buf[14:16], h.Size[1])
	binary.LittleEndian.PutUint16(buf[16:18], h.Hotspot[0])
	binary.LittleEndian.PutUint16(buf[18:20], h.Hotspot[1])
	binary.LittleEndian.PutUint16(buf[20:22], h.BoundingBox[0])
	binary.LittleEndian.PutUint16(buf[22:24], h.BoundingBox[1])
	binary.LittleEndian.PutUint16(buf[24:26], h.BoundingBox[2])
	binary.LittleEndian.PutUint16(buf[26:28], h.BoundingBox[3])
	binary.LittleEndian.PutUint32(buf[36:40], h.PaletteOffset)

	offset := uint32(firstOffset)
	for i, f := range h.Frames {
		entry := make([]byte, frameEntrySize)
		binary.LittleEndian.PutUint16(entry[0:2], f.ULX)
		binary.LittleEndian.PutUint16(entry[2:4], f.ULY)
		binary.LittleEndian.PutUint16(entry[4:6], f.LRX)
		binary.LittleEndian.PutUint16(entry[6:8], f.LRY)
		binary.LittleEndian.PutUint32(entry[8:12], offset)
		buf = append(buf, entry...)
		offset += uint32(frameLens[i])
	}

	buf = append(buf, animBuf...)
	return buf, nil
}

func encodeAnimations(anims []Animation) []byte {
	buf := make([]byte, 2, 2+len(anims)*animEntrySize+2)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(anims)))
	for _, a := range anims {
		var entry [animEntrySize]byte
		binary.LittleEndian.PutUint16(entry[0:2], a.StartFrame)
		binary.LittleEndian.PutUint16(entry[2:4], a.FrameCount)
		binary.LittleEndian.PutUint16(entry[4:6], a.AnimationCount)
		buf = append(buf, entry[:]...)
	}
	if len(anims)%2 == 0 {
		buf = append(buf, 0, 0)
	}
	return buf
}
