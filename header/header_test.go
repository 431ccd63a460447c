package header

import "testing"

func sampleHeader() *Header {
	return &Header{
		Version:      4,
		BitsPerPixel: 16,
		IndexMode:    0,
		Size:         [2]uint16{10, 20},
		Hotspot:      [2]uint16{5, 10},
		BoundingBox:  [4]uint16{0, 0, 9, 19},
		Frames: []FrameRect{
			{ULX: 0, ULY: 0, LRX: 9, LRY: 19},
		},
		Animations: []Animation{{StartFrame: 0, FrameCount: 1, AnimationCount: 1}},
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	h := sampleHeader()
	frameLen := 8 + 4 // FRAM header + one padded line's worth
	encoded, err := Encode(h, []int{frameLen})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if err := decoded.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if decoded.Version != h.Version || decoded.BitsPerPixel != h.BitsPerPixel {
		t.Fatalf("mismatch: %+v", decoded)
	}
	if len(decoded.Frames) != 1 || decoded.Frames[0].Width() != 10 || decoded.Frames[0].Height() != 20 {
		t.Fatalf("unexpected frame rect: %+v", decoded.Frames)
	}
	if len(decoded.Animations) != 1 || decoded.Animations[0].FrameCount != 1 {
		t.Fatalf("unexpected animations: %+v", decoded.Animations)
	}
}

func TestDecode_IndexedBitDepthAgreement(t *testing.T) {
	h := sampleHeader()
	h.BitsPerPixel = 8
	h.IndexMode = 0x1A
	encoded, err := Encode(h, []int{12})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !decoded.IndexedColour() {
		t.Fatal("expected indexed colour")
	}
	if err := decoded.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestAnimTableSize_EvenCountPadding(t *testing.T) {
	if got := AnimTableSize(2); got != 2+2*animEntrySize+2 {
		t.Fatalf("AnimTableSize(2) = %d", got)
	}
	if got := AnimTableSize(1); got != 2+1*animEntrySize {
		t.Fatalf("AnimTableSize(1) = %d", got)
	}
}

func TestFirstFrameOffset(t *testing.T) {
	got := FirstFrameOffset(1, AnimTableSize(1))
	want := 12 + 8 + fixedBodySize + frameEntrySize + (2 + animEntrySize) + 8
	if got != want {
		t.Fatalf("FirstFrameOffset = %d, want %d", got, want)
	}
}

func TestValidate_FrameCountMismatch(t *testing.T) {
	h := sampleHeader()
	h.FrameCount = 2
	if err := h.Validate(); err == nil {
		t.Fatal("expected mismatch error")
	}
}

func TestDecode_Truncated(t *testing.T) {
	if _, err := Decode(make([]byte, 10)); err == nil {
		t.Fatal("expected truncation error")
	}
}
