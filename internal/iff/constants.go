// Package iff implements the EA-85 IFF chunked container convention used by
// TGAR sprite files: a big-endian FORM wrapper around a flat sequence of
// leaf chunks (type, length, payload, optional pad byte).
package iff

import "encoding/binary"

// Chunk type tags used by TGAR files.
const (
	TypeFORM = "FORM"
	TypeTGAR = "TGAR"
	TypeHEDR = "HEDR"
	TypePALT = "PALT"
	TypeFRAM = "FRAM"
)

// Framing sizes.
const (
	ChunkHeaderSize = 8  // 4-byte type + 4-byte big-endian length
	FormHeaderSize  = 12 // "FORM" + length + 4-byte form type
)

// MaxChunkPayload bounds a single chunk's declared length so that malformed
// lengths cannot be used to overrun the input buffer or overflow size math.
const MaxChunkPayload = ^uint32(0) - ChunkHeaderSize - 1

// PaddedLength returns length rounded up to the next even number, as IFF
// requires every chunk payload to end on a 2-byte boundary.
func PaddedLength(length uint32) uint32 {
	return length + (length & 1)
}

// beUint32/putBEUint32 centralize the big-endian framing fields (chunk type
// lengths, FORM length). Field contents inside HEDR/PALT/opcode payloads are
// little-endian and are handled by their own packages.
func beUint32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }

func putBEUint32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }

// isChunkType reports whether b holds 4 printable-ASCII bytes, as required
// for a chunk type tag.
func isChunkType(b []byte) bool {
	if len(b) != 4 {
		return false
	}
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			return false
		}
	}
	return true
}
