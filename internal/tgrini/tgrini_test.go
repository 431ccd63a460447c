package tgrini

import (
	"path/filepath"
	"testing"

	"github.com/gotgr/tgr/header"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sprite.ini")
	meta := &SpriteMeta{
		BitsPerPixel: 16,
		HotspotX:     4, HotspotY: 8,
		BBoxXMin: 0, BBoxYMin: 0, BBoxXMax: 31, BBoxYMax: 31,
		Animations: []header.Animation{
			{StartFrame: 0, FrameCount: 8, AnimationCount: 8},
			{StartFrame: 8, FrameCount: 8, AnimationCount: 8},
		},
	}

	if err := Save(path, meta); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.BitsPerPixel != 16 || loaded.HotspotX != 4 || loaded.BBoxXMax != 31 {
		t.Fatalf("unexpected metadata: %+v", loaded)
	}
	if len(loaded.Animations) != 2 || loaded.Animations[1].StartFrame != 8 {
		t.Fatalf("unexpected animations: %+v", loaded.Animations)
	}
}
