// Package palette decodes and encodes the PALT chunk: a count-prefixed
// table of 16-bit 5-6-5 colour entries used by indexed-mode sprites
// (§4.D). Palette lookups are 1-based, matching the on-disk opcode
// indices emitted by the line codec.
package palette

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/gotgr/tgr/raster"
)

var (
	ErrTruncated  = errors.New("palette: PALT body truncated")
	ErrOutOfRange = errors.New("palette: index out of range")
)

// Palette is a 5-6-5 colour table, addressed 1-based by on-disk opcode
// indices. Index 0 is reserved and resolves to raster.TRANSPARENCY rather
// than an entry.
type Palette []raster.Pixel

// Decode parses a PALT chunk payload: count:u16, 2 pad bytes, then count
// little-endian 5-6-5 entries.
func Decode(data []byte) (Palette, error) {
	if len(data) < 4 {
		return nil, errors.WithStack(ErrTruncated)
	}
	count := binary.LittleEndian.Uint16(data[0:2])
	need := 4 + int(count)*2
	if len(data) < need {
		return nil, errors.WithStack(ErrTruncated)
	}
	pal := make(Palette, count)
	pos := 4
	for i := range pal {
		v := binary.LittleEndian.Uint16(data[pos : pos+2])
		pal[i] = raster.DecodeDirect565(v)
		pos += 2
	}
	return pal, nil
}

// Encode serialises the palette back to a PALT chunk payload.
func Encode(pal Palette) []byte {
	buf := make([]byte, 4, 4+len(pal)*2)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(len(pal)))
	for _, p := range pal {
		var entry [2]byte
		binary.LittleEndian.PutUint16(entry[:], raster.EncodeDirect565(p))
		buf = append(buf, entry[:]...)
	}
	return buf
}

// At resolves a 1-based on-disk palette index, satisfying
// raster.PaletteLookup. Index 0 is reserved and skipped (§7): it resolves
// to raster.TRANSPARENCY rather than an error, distinct from an
// out-of-range index, which is fatal.
func (p Palette) At(index int) (raster.Pixel, error) {
	if index == 0 {
		return raster.TRANSPARENCY, nil
	}
	if index < 0 || index > len(p) {
		return raster.Pixel{}, errors.Wrapf(ErrOutOfRange, "index %d, palette size %d", index, len(p))
	}
	return p[index-1], nil
}
