// Package tgrini marshals the sprite-metadata INI (sections BitDepth,
// HotSpot, BoundingBox, Animations/Animation0..5) used by the unpack/pack
// CLI, wrapping gopkg.in/ini.v1 the way the CLI wraps PNG I/O in image/png:
// both are out-of-core concerns that still need a real implementation for
// the tool to be runnable end-to-end (§6).
package tgrini

import (
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/gotgr/tgr/header"
)

// SpriteMeta is the in-memory shape of sprite.ini.
type SpriteMeta struct {
	BitsPerPixel uint8
	HotspotX, HotspotY int
	BBoxXMin, BBoxYMin, BBoxXMax, BBoxYMax int
	Animations []header.Animation
}

// Load parses a sprite.ini file.
func Load(path string) (*SpriteMeta, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "tgrini: loading %s", path)
	}

	m := &SpriteMeta{}
	depth, err := cfg.Section("BitDepth").Key("Depth").Int()
	if err != nil {
		return nil, errors.Wrap(err, "tgrini: BitDepth.Depth")
	}
	m.BitsPerPixel = uint8(depth)

	hs := cfg.Section("HotSpot")
	m.HotspotX, _ = hs.Key("X").Int()
	m.HotspotY, _ = hs.Key("Y").Int()

	bb := cfg.Section("BoundingBox")
	m.BBoxXMin, _ = bb.Key("XMin").Int()
	m.BBoxYMin, _ = bb.Key("YMin").Int()
	m.BBoxXMax, _ = bb.Key("XMax").Int()
	m.BBoxYMax, _ = bb.Key("YMax").Int()

	for i := 0; i < 6; i++ {
		name := fmt.Sprintf("Animation%d", i)
		if !cfg.HasSection(name) {
			continue
		}
		sec := cfg.Section(name)
		start, _ := sec.Key("StartFrame").Int()
		count, _ := sec.Key("FrameCount").Int()
		reps, _ := sec.Key("AnimationCount").Int()
		m.Animations = append(m.Animations, header.Animation{
			StartFrame:     uint16(start),
			FrameCount:     uint16(count),
			AnimationCount: uint16(reps),
		})
	}

	return m, nil
}

// Save writes a sprite.ini file describing m, with the same commentary
// sections the original authoring tool emits.
func Save(path string, m *SpriteMeta) error {
	cfg := ini.Empty()

	desc, _ := cfg.NewSection("Description")
	desc.Comment = "; metadata for the extracted sprite; allows repacking into a .TGR"

	bd, _ := cfg.NewSection("BitDepth")
	bd.Comment = "; Depth is 16 for direct colour, 8 for a colour palette"
	bd.NewKey("Depth", fmt.Sprint(m.BitsPerPixel))

	hs, _ := cfg.NewSection("HotSpot")
	hs.Comment = "; HotSpot is the in-engine anchor point relative to the game object"
	hs.NewKey("X", fmt.Sprint(m.HotspotX))
	hs.NewKey("Y", fmt.Sprint(m.HotspotY))

	bb, _ := cfg.NewSection("BoundingBox")
	bb.Comment = "; BoundingBox is the clickable region of the sprite"
	bb.NewKey("XMin", fmt.Sprint(m.BBoxXMin))
	bb.NewKey("YMin", fmt.Sprint(m.BBoxYMin))
	bb.NewKey("XMax", fmt.Sprint(m.BBoxXMax))
	bb.NewKey("YMax", fmt.Sprint(m.BBoxYMax))

	anims, _ := cfg.NewSection("Animations")
	anims.Comment = "; up to six animations, each a StartFrame/FrameCount/AnimationCount triple"

	for i, a := range m.Animations {
		sec, _ := cfg.NewSection(fmt.Sprintf("Animation%d", i))
		sec.NewKey("StartFrame", fmt.Sprint(a.StartFrame))
		sec.NewKey("FrameCount", fmt.Sprint(a.FrameCount))
		sec.NewKey("AnimationCount", fmt.Sprint(a.AnimationCount))
	}

	return errors.Wrapf(cfg.SaveTo(path), "tgrini: saving %s", path)
}
