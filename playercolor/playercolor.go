// Package playercolor loads and resolves the per-player colour ramp used
// by the "player colour" opcode families (flags 110/111): a 2-D mapping
// (player 1..11, shade 0..31) -> Pixel, sourced from an INI file (§4.E).
package playercolor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/ini.v1"

	"github.com/gotgr/tgr/raster"
)

var ErrUnknownPlayerColor = errors.New("playercolor: no entry for requested (player, shade)")

var keyPattern = regexp.MustCompile(`^color_(\d{1,2})_shade_(\d{1,2})$`)

// Table is a loaded ramp, keyed by (player, shade).
type Table struct {
	entries map[[2]int]raster.Pixel
}

// At resolves a (player, shade) pair, satisfying raster.PlayerColorLookup.
func (t *Table) At(player, shade int) (raster.Pixel, error) {
	p, ok := t.entries[[2]int{player, shade}]
	if !ok {
		return raster.Pixel{}, errors.Wrapf(ErrUnknownPlayerColor, "player %d shade %d", player, shade)
	}
	return p, nil
}

// Load parses an INI file's [PlayerColors] section, with keys of the form
// color_<player>_shade_<shade> = R,G,B.
func Load(path string) (*Table, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "playercolor: loading %s", path)
	}
	section, err := cfg.GetSection("PlayerColors")
	if err != nil {
		return nil, errors.Wrapf(err, "playercolor: %s has no [PlayerColors] section", path)
	}

	t := &Table{entries: make(map[[2]int]raster.Pixel)}
	for _, key := range section.Keys() {
		m := keyPattern.FindStringSubmatch(key.Name())
		if m == nil {
			continue
		}
		player, _ := strconv.Atoi(m[1])
		shade, _ := strconv.Atoi(m[2])

		r, g, b, ok := parseTriplet(key.Value())
		if !ok {
			continue
		}
		t.entries[[2]int{player, shade}] = raster.Pixel{R: r, G: g, B: b, A: 0xFF}
	}
	return t, nil
}

func parseTriplet(s string) (r, g, b uint8, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, false
		}
		vals[i] = n
	}
	return uint8(vals[0]), uint8(vals[1]), uint8(vals[2]), true
}

// Default returns a minimal built-in fallback ramp covering player 2
// (blue), the faction used by almost every singleplayer unit asset, so
// assets missing a COLORS.INI can still be decoded approximately.
func Default() *Table {
	t := &Table{entries: make(map[[2]int]raster.Pixel)}
	for shade := 0; shade < 32; shade++ {
		level := uint8(shade * 255 / 31)
		t.entries[[2]int{2, shade}] = raster.Pixel{R: 0, G: 0, B: level, A: 0xFF}
	}
	return t
}
