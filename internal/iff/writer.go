package iff

// Chunk is one child to be written by WriteForm: a 4-byte type tag plus its
// raw payload bytes. No validation of child content is performed (§4.B).
type Chunk struct {
	Type string
	Data []byte
}

// WriteForm assembles a FORM chunk of the given form type wrapping the
// supplied children, in order. Each child is emitted as
// (type, big-endian u32 length, payload, 0-byte pad if length is odd).
func WriteForm(formType string, children []Chunk) []byte {
	bodyLen := 4 // form type
	for _, c := range children {
		bodyLen += ChunkHeaderSize + int(PaddedLength(uint32(len(c.Data))))
	}

	buf := make([]byte, 0, FormHeaderSize+bodyLen-4)
	buf = append(buf, TypeFORM...)
	buf = appendBEUint32(buf, uint32(bodyLen))
	buf = append(buf, formType...)

	for _, c := range children {
		buf = append(buf, c.Type...)
		buf = appendBEUint32(buf, uint32(len(c.Data)))
		buf = append(buf, c.Data...)
		if len(c.Data)%2 != 0 {
			buf = append(buf, 0)
		}
	}
	return buf
}

func appendBEUint32(buf []byte, v uint32) []byte {
	return append(buf, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
