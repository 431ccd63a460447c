// Command tgrtool unpacks and packs .TGR sprite containers.
//
// Usage:
//
//	tgrtool unpack <src.tgr> [-o dir] [-c 1..11] [-frame N] [-fx-error-fix] [-config path]
//	tgrtool pack <dir> [-o out.tgr] [-config path] [-no-crop]
//	tgrtool info <src.tgr>
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/gotgr/tgr"
	"github.com/gotgr/tgr/internal/tgrini"
	"github.com/gotgr/tgr/playercolor"
	"github.com/gotgr/tgr/raster"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "unpack":
		err = runUnpack(os.Args[2:])
	case "pack":
		err = runPack(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "tgrtool: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "tgrtool: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  tgrtool unpack <src.tgr> [-o dir] [-c 1..11] [-frame N] [-fx-error-fix] [-config path]
  tgrtool pack <dir> [-o out.tgr] [-config path] [-no-crop]
  tgrtool info <src.tgr>
`)
}

var frameNumberRe = regexp.MustCompile(`fram_(\d{1,4})`)

// --- unpack ---

func runUnpack(args []string) error {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	outDir := fs.String("o", "", "output directory (default: <input> without extension)")
	player := fs.Int("c", 2, "player colour 1-11")
	frameOnly := fs.Int("frame", -1, "decode only this frame index (-1 = all)")
	fxErrorFix := fs.Bool("fx-error-fix", false, "treat 0x7F/0xFD opcodes as a magenta sentinel pixel")
	configPath := fs.String("config", "", "COLORS.INI path (default: built-in player-2 ramp)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("unpack: missing input file\nUsage: tgrtool unpack <src.tgr> [options]")
	}
	srcPath := fs.Arg(0)

	in, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer in.Close()

	colors, err := loadPlayerColors(*configPath)
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	f, err := tgr.Decode(in, tgr.DecodeOptions{
		PlayerColors: colors,
		Player:       *player,
		FxErrorFix:   *fxErrorFix,
	})
	if err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	dir := *outDir
	if dir == "" {
		base := filepath.Base(srcPath)
		dir = base[:len(base)-len(filepath.Ext(base))]
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	for i := range f.Header.Frames {
		if *frameOnly >= 0 && i != *frameOnly {
			continue
		}
		canvas, err := f.Frame(i)
		if err != nil {
			return fmt.Errorf("unpack: frame %d: %w", i, err)
		}
		if canvas == nil {
			continue // padding frame, nothing to write
		}
		name := filepath.Join(dir, fmt.Sprintf("fram_%04d.png", i))
		if err := writePNG(name, canvas.Img); err != nil {
			return fmt.Errorf("unpack: frame %d: %w", i, err)
		}
	}

	meta := &tgrini.SpriteMeta{
		BitsPerPixel: f.Header.BitsPerPixel,
		HotspotX:     int(f.Header.Hotspot[0]),
		HotspotY:     int(f.Header.Hotspot[1]),
		BBoxXMin:     int(f.Header.BoundingBox[0]),
		BBoxYMin:     int(f.Header.BoundingBox[1]),
		BBoxXMax:     int(f.Header.BoundingBox[2]),
		BBoxYMax:     int(f.Header.BoundingBox[3]),
		Animations:   f.Header.Animations,
	}
	if err := tgrini.Save(filepath.Join(dir, "sprite.ini"), meta); err != nil {
		return fmt.Errorf("unpack: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Unpacked %s → %s (%d frames)\n", srcPath, dir, len(f.Header.Frames))
	return nil
}

func writePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	return out.Close()
}

func loadPlayerColors(configPath string) (*playercolor.Table, error) {
	if configPath == "" {
		return playercolor.Default(), nil
	}
	return playercolor.Load(configPath)
}

// --- pack ---

func runPack(args []string) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	outPath := fs.String("o", "", "output path (default: <dir>.tgr)")
	noCrop := fs.Bool("no-crop", false, "skip tight bounding-box crop; keep full canvas per frame")
	configPath := fs.String("config", "", "sprite.ini path (default: <dir>/sprite.ini)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("pack: missing input directory\nUsage: tgrtool pack <dir> [options]")
	}
	dir := fs.Arg(0)

	iniPath := *configPath
	if iniPath == "" {
		iniPath = filepath.Join(dir, "sprite.ini")
	}
	meta, err := tgrini.Load(iniPath)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	frames, canvasW, canvasH, err := loadFrames(dir, !*noCrop)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	output := *outPath
	if output == "" {
		output = filepath.Clean(dir) + ".tgr"
	}
	out, err := os.Create(output)
	if err != nil {
		return err
	}

	tgrMeta := tgr.Metadata{
		BitsPerPixel: meta.BitsPerPixel,
		Size:         [2]uint16{uint16(canvasW), uint16(canvasH)},
		Hotspot:      [2]uint16{uint16(meta.HotspotX), uint16(meta.HotspotY)},
		BoundingBox: [4]uint16{
			uint16(meta.BBoxXMin), uint16(meta.BBoxYMin),
			uint16(meta.BBoxXMax), uint16(meta.BBoxYMax),
		},
		Animations: meta.Animations,
	}

	if err := tgr.Encode(out, frames, tgrMeta); err != nil {
		out.Close()
		os.Remove(output)
		return fmt.Errorf("pack: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(output)
		return err
	}

	fmt.Fprintf(os.Stderr, "Packed %s → %s (%d frames)\n", dir, output, len(frames))
	return nil
}

func loadFrames(dir string, crop bool) ([]*raster.Canvas, int, int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, 0, 0, err
	}

	type indexedFile struct {
		index int
		path  string
	}
	var files []indexedFile
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".png" {
			continue
		}
		m := frameNumberRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		files = append(files, indexedFile{index: n, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

	frames := make([]*raster.Canvas, len(files))
	var canvasW, canvasH int
	for i, f := range files {
		img, err := decodePNG(f.path)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("frame %d: %w", f.index, err)
		}
		b := img.Bounds()
		if canvasW == 0 {
			canvasW, canvasH = b.Dx(), b.Dy()
		}

		ulx, uly, lrx, lry := 0, 0, b.Dx()-1, b.Dy()-1
		if crop {
			ulx, uly, lrx, lry = tightBounds(img)
		}
		canvas := raster.NewCanvas(ulx, uly, lrx, lry)
		for y := 0; y < canvas.Height(); y++ {
			row := make([]raster.Pixel, canvas.Width())
			for x := 0; x < canvas.Width(); x++ {
				row[x] = raster.FromColor(img.At(ulx+x, uly+y))
			}
			canvas.SetRow(y, row)
		}
		frames[i] = canvas
	}
	return frames, canvasW, canvasH, nil
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return png.Decode(f)
}

// tightBounds finds the inclusive bounding rectangle of non-transparent
// pixels (alpha > 0), matching the original tool's crop behaviour.
func tightBounds(img image.Image) (ulx, uly, lrx, lry int) {
	b := img.Bounds()
	ulx, uly = b.Max.X, b.Max.Y
	lrx, lry = b.Min.X, b.Min.Y
	found := false
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a == 0 {
				continue
			}
			found = true
			if x < ulx {
				ulx = x
			}
			if y < uly {
				uly = y
			}
			if x > lrx {
				lrx = x
			}
			if y > lry {
				lry = y
			}
		}
	}
	if !found {
		return 0, 0, 0, 0
	}
	return ulx - b.Min.X, uly - b.Min.Y, lrx - b.Min.X, lry - b.Min.Y
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: tgrtool info <src.tgr>")
	}
	inputPath := args[0]

	in, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	f, err := tgr.Decode(in, tgr.DecodeOptions{})
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	fmt.Printf("File:        %s\n", inputPath)
	fmt.Printf("Version:     %d\n", f.Header.Version)
	fmt.Printf("Frames:      %d\n", f.Header.FrameCount)
	fmt.Printf("Bit depth:   %d\n", f.Header.BitsPerPixel)
	fmt.Printf("Indexed:     %v\n", f.Header.IndexedColour())
	fmt.Printf("Size:        %d x %d\n", f.Header.Size[0], f.Header.Size[1])
	fmt.Printf("Hotspot:     (%d, %d)\n", f.Header.Hotspot[0], f.Header.Hotspot[1])
	fmt.Printf("Animations:  %d\n", len(f.Header.Animations))
	for i, a := range f.Header.Animations {
		fmt.Printf("  [%d] start=%d count=%d reps=%d\n", i, a.StartFrame, a.FrameCount, a.AnimationCount)
	}
	if f.Header.IndexedColour() {
		fmt.Printf("Palette:     %d entries\n", len(f.Palette))
	}

	if fi, err := in.Stat(); err == nil {
		fmt.Printf("File size:   %d bytes\n", fi.Size())
	}
	return nil
}
