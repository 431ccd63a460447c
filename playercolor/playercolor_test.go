package playercolor

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestINI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "COLORS.INI")
	content := "[PlayerColors]\n" +
		"color_2_shade_0 = 0,0,0\n" +
		"color_2_shade_21 = 10,20,30\n" +
		"color_11_shade_5 = 200,100,50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_ResolvesKnownEntries(t *testing.T) {
	tbl, err := Load(writeTestINI(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	p, err := tbl.At(2, 21)
	if err != nil {
		t.Fatalf("At(2,21): %v", err)
	}
	if p.R != 10 || p.G != 20 || p.B != 30 {
		t.Fatalf("got %+v", p)
	}
}

func TestAt_UnknownPairErrors(t *testing.T) {
	tbl, err := Load(writeTestINI(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := tbl.At(3, 0); err == nil {
		t.Fatal("expected error for unknown player")
	}
}

func TestDefault_CoversPlayerTwo(t *testing.T) {
	tbl := Default()
	p, err := tbl.At(2, 31)
	if err != nil {
		t.Fatalf("At(2,31): %v", err)
	}
	if p.B != 255 {
		t.Fatalf("shade 31 blue = %d, want 255", p.B)
	}
}
