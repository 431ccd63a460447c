package iff

import (
	"fmt"

	"github.com/pkg/errors"
)

// Errors returned while parsing an IFF stream.
var (
	ErrNotIFF           = errors.New("iff: not a FORM container")
	ErrInvalidFormType  = errors.New("iff: invalid form type")
	ErrInvalidChunkType = errors.New("iff: invalid chunk type tag")
	ErrTruncated        = errors.New("iff: truncated chunk payload")
	ErrTooLarge         = errors.New("iff: chunk payload exceeds container limits")
)

// Leaf is one child chunk of a FORM, recorded by reference into the
// original buffer — no payload copy happens until a consumer asks for one.
// This mirrors §9's "tagged variant" guidance: the chunk universe here is
// flat (TGAR nests no child FORMs), so a single Leaf shape suffices instead
// of a recursive Form/Leaf sum type.
type Leaf struct {
	Type   string
	Offset int // absolute offset of payload within the source buffer
	Length int
}

// Payload returns this leaf's bytes from the original source buffer.
func (l Leaf) Payload(src []byte) []byte {
	return src[l.Offset : l.Offset+l.Length]
}

// Form is a parsed top-level FORM chunk: its form type plus an ordered list
// of child leaves.
type Form struct {
	FormType string
	Children []Leaf
}

// ParseForm reads the top-level FORM chunk from data: 4-byte "FORM" tag,
// big-endian u32 length, 4-byte form type, then child chunks until the
// declared length is consumed. Child iteration accounts for the odd-length
// pad byte per chunk (§4.A).
func ParseForm(data []byte) (*Form, error) {
	if len(data) < FormHeaderSize {
		return nil, errors.WithStack(ErrTruncated)
	}
	if string(data[0:4]) != TypeFORM {
		return nil, errors.WithStack(ErrNotIFF)
	}
	length := beUint32(data[4:8])
	if length > MaxChunkPayload {
		return nil, errors.WithStack(ErrTooLarge)
	}
	formType := string(data[8:12])
	if !isChunkType(data[8:12]) {
		return nil, errors.WithStack(ErrInvalidFormType)
	}

	end := 8 + int(length)
	if end > len(data) {
		return nil, errors.WithStack(ErrTruncated)
	}

	f := &Form{FormType: formType}
	pos := 12
	for pos < end {
		leaf, consumed, err := readLeaf(data, pos)
		if err != nil {
			return nil, err
		}
		f.Children = append(f.Children, leaf)
		pos += consumed
	}
	return f, nil
}

// readLeaf reads one child chunk starting at data[pos:].
func readLeaf(data []byte, pos int) (Leaf, int, error) {
	if pos+ChunkHeaderSize > len(data) {
		return Leaf{}, 0, errors.WithStack(ErrTruncated)
	}
	typeBytes := data[pos : pos+4]
	if !isChunkType(typeBytes) {
		return Leaf{}, 0, errors.Wrapf(ErrInvalidChunkType, "at offset %d", pos)
	}
	length := beUint32(data[pos+4 : pos+8])
	if length > MaxChunkPayload {
		return Leaf{}, 0, errors.WithStack(ErrTooLarge)
	}

	payloadOffset := pos + ChunkHeaderSize
	payloadEnd := payloadOffset + int(length)
	if payloadEnd > len(data) {
		return Leaf{}, 0, errors.Wrapf(ErrTruncated, "chunk %s needs %d bytes", string(typeBytes), length)
	}

	leaf := Leaf{
		Type:   string(typeBytes),
		Offset: payloadOffset,
		Length: int(length),
	}

	consumed := ChunkHeaderSize + int(PaddedLength(length))
	return leaf, consumed, nil
}

// Find returns the payload offset/length of the first child with the given
// type, searching from startIndex onward, plus the index after the match.
func (f *Form) Find(chunkType string, startIndex int) (Leaf, int, bool) {
	for i := startIndex; i < len(f.Children); i++ {
		if f.Children[i].Type == chunkType {
			return f.Children[i], i + 1, true
		}
	}
	return Leaf{}, startIndex, false
}

// String implements fmt.Stringer for debugging/CLI `info` output.
func (f *Form) String() string {
	return fmt.Sprintf("FORM %s (%d children)", f.FormType, len(f.Children))
}
