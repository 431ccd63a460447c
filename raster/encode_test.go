package raster

import (
	"testing"
)

func TestEncodeLine_SolidRun(t *testing.T) {
	row := []Pixel{
		{R: 0, G: 0, B: 0, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
		{R: 0, G: 0, B: 0, A: 255},
	}
	out, err := EncodeLine(row, 0, 0)
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}

	meta, _, err := ReadLineMeta(out, 0)
	if err != nil {
		t.Fatalf("ReadLineMeta: %v", err)
	}
	got, err := DecodeLine(out, meta, DecodeOptions{BitsPerPixel: 16}, 0, 0)
	if err != nil {
		t.Fatalf("DecodeLine: %v", err)
	}
	if len(got) != len(row) {
		t.Fatalf("len = %d, want %d", len(got), len(row))
	}
	for i := range row {
		if got[i] != row[i] {
			t.Fatalf("pixel %d = %+v, want %+v", i, got[i], row[i])
		}
	}
}

func TestEncodeLine_LeadingTransparencyFoldedIntoOffset(t *testing.T) {
	row := []Pixel{
		TRANSPARENCY, TRANSPARENCY, TRANSPARENCY,
		{R: 1, G: 2, B: 3, A: 255},
	}
	out, err := EncodeLine(row, 0, 0)
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}
	meta, _, err := ReadLineMeta(out, 0)
	if err != nil {
		t.Fatalf("ReadLineMeta: %v", err)
	}
	if meta.TransparentPixels != 3 {
		t.Fatalf("transparent pixels = %d, want 3", meta.TransparentPixels)
	}
}

func TestEncodeLine_LiteralRunOfDistinctPixels(t *testing.T) {
	row := []Pixel{
		{R: 255, G: 0, B: 0, A: 255},
		{R: 0, G: 255, B: 0, A: 255},
		{R: 0, G: 0, B: 255, A: 255},
	}
	out, err := EncodeLine(row, 0, 0)
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}
	meta, _, err := ReadLineMeta(out, 0)
	if err != nil {
		t.Fatalf("ReadLineMeta: %v", err)
	}
	got, err := DecodeLine(out, meta, DecodeOptions{BitsPerPixel: 16}, 0, 0)
	if err != nil {
		t.Fatalf("DecodeLine: %v", err)
	}
	for i := range row {
		// 5-6-5 round trip is lossy; compare against the direct codec's own
		// round trip rather than the original 8-bit channel values.
		want := DecodeDirect565(EncodeDirect565(row[i]))
		if got[i].R != want.R || got[i].G != want.G || got[i].B != want.B {
			t.Fatalf("pixel %d = %+v, want %+v", i, got[i], want)
		}
	}
}

func TestEncodeLine_TranslucentSingleAndRun(t *testing.T) {
	translucent := Pixel{R: 255, G: 255, B: 255, A: 132}
	row := []Pixel{translucent, translucent, {R: 10, G: 10, B: 10, A: 64}}
	out, err := EncodeLine(row, 0, 0)
	if err != nil {
		t.Fatalf("EncodeLine: %v", err)
	}
	meta, _, err := ReadLineMeta(out, 0)
	if err != nil {
		t.Fatalf("ReadLineMeta: %v", err)
	}
	got, err := DecodeLine(out, meta, DecodeOptions{BitsPerPixel: 16}, 0, 0)
	if err != nil {
		t.Fatalf("DecodeLine: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].A == 0 || got[0].A == 255 {
		t.Fatalf("pixel 0 alpha = %d, want translucent", got[0].A)
	}
}

func TestEncodeLineHeader_OverflowErrors(t *testing.T) {
	if _, err := encodeLineHeader(0, 0, make([]byte, 0x7FFB), 0, 0); err == nil {
		t.Fatal("expected overflow error for body length")
	}
	if _, err := encodeLineHeader(0, 0, nil, 0, 0x100); err == nil {
		t.Fatal("expected overflow error for offset")
	}
	if _, err := encodeLineHeader(0, 0, nil, 0x8000, 0); err == nil {
		t.Fatal("expected overflow error for pixel count")
	}
}

func TestEncodeLineHeader_WideFields(t *testing.T) {
	body := make([]byte, 200)
	out, err := encodeLineHeader(0, 0, body, 0x90, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	meta, pos, err := ReadLineMeta(out, 0)
	if err != nil {
		t.Fatalf("ReadLineMeta: %v", err)
	}
	if pos != 5 {
		t.Fatalf("header width = %d, want 5 (2-byte total length + 1-byte offset + 2-byte pixel count)", pos)
	}
	if meta.DataLength != len(body) {
		t.Fatalf("data length = %d, want %d", meta.DataLength, len(body))
	}
}
