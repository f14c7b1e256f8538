// fnatool is a CLI utility for title content: path resolution, bone trees,
// half-precision values and image conversion.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/fnago/internal/engine/model"
	"github.com/Faultbox/fnago/internal/engine/texture"
	"github.com/Faultbox/fnago/internal/logger"
	"github.com/Faultbox/fnago/internal/title"
	"github.com/Faultbox/fnago/pkg/formats"
	"github.com/Faultbox/fnago/pkg/packedvector"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "resolve":
		cmdResolve(args)
	case "bones", "tree":
		cmdBones(args)
	case "half":
		cmdHalf(args)
	case "unhalf":
		cmdUnhalf(args)
	case "convert":
		cmdConvert(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`fnatool - title content utility

Usage:
  fnatool <command> [options]

Commands:
  resolve [-case-fallback] <root> <name>...  Resolve logical names under a title root
  bones <file.xbon>                          Print the bone tree of a model
  half <float>...                            Encode floats as half-precision bits
  unhalf <bits>...                           Decode half-precision bits (hex or decimal)
  convert [-q quality] <in> <out>            Convert an image to PNG or JPEG

Examples:
  fnatool resolve -case-fallback ./game content/model.xnb
  fnatool bones Content/Models/robot.xbon
  fnatool half 1 0.5 65504
  fnatool unhalf 0x3c00 0x7bff
  fnatool convert skin.tga skin.png`)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func cmdResolve(args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	caseFallback := fs.Bool("case-fallback", title.CaseFallbackFromEnv(), "Resolve names case-insensitively")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: fnatool resolve [-case-fallback] <root> <name>...")
	}
	if err := logger.Init(logger.Config{Level: "warn", Console: true}); err != nil {
		fail("Error: %v", err)
	}
	defer logger.Sync()

	c, err := title.New(fs.Arg(0),
		title.WithCaseFallback(*caseFallback),
		title.WithLogger(logger.Named("title")),
		title.WithCache(nil))
	if err != nil {
		fail("Error: %v", err)
	}

	missing := 0
	for _, name := range fs.Args()[1:] {
		path := c.Resolve(name)
		status := "ok"
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			status = "missing"
			missing++
		}
		fmt.Printf("%-8s %s -> %s\n", status, name, path)
	}
	if missing > 0 {
		os.Exit(2)
	}
}

func cmdBones(args []string) {
	if len(args) < 1 {
		fail("Usage: fnatool bones <file.xbon>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		fail("Error: %v", err)
	}
	defer f.Close()

	src, err := formats.ReadBones(f)
	if err != nil {
		fail("Error: %v", err)
	}
	m, err := model.Build(src)
	if err != nil {
		fail("Error: %v", err)
	}

	fmt.Printf("Model:  %s\n", filepath.Base(args[0]))
	fmt.Printf("Bones:  %d\n", m.Bones().Len())
	fmt.Printf("Meshes: %d\n", len(m.Meshes()))
	if m.Root() == nil {
		return
	}
	fmt.Println()
	printBone(m.Root(), 0)
}

func printBone(b *model.Bone, depth int) {
	world := model.AbsoluteTransform(b).Translation()
	fmt.Printf("%s[%d] %s  world=(%.3f, %.3f, %.3f)\n",
		strings.Repeat("  ", depth), b.Index(), b.Name(), world.X, world.Y, world.Z)
	for _, mesh := range b.Meshes() {
		fmt.Printf("%s  mesh %q r=%.3f\n", strings.Repeat("  ", depth), mesh.Name, mesh.BoundingSphere.Radius)
	}
	for _, child := range b.Children().All() {
		printBone(child, depth+1)
	}
}

func cmdHalf(args []string) {
	if len(args) < 1 {
		fail("Usage: fnatool half <float>...")
	}
	for _, arg := range args {
		f, err := strconv.ParseFloat(arg, 32)
		if err != nil {
			fail("Error: %v", err)
		}
		bits := packedvector.FloatToHalfBits(float32(f))
		fmt.Printf("%-12s 0x%04x  (decodes to %g)\n", arg, bits, packedvector.HalfBitsToFloat(bits))
	}
}

func cmdUnhalf(args []string) {
	if len(args) < 1 {
		fail("Usage: fnatool unhalf <bits>...")
	}
	for _, arg := range args {
		bits, err := strconv.ParseUint(arg, 0, 16)
		if err != nil {
			fail("Error: %v", err)
		}
		fmt.Printf("0x%04x  %g\n", bits, packedvector.HalfBitsToFloat(uint16(bits)))
	}
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	quality := fs.Int("q", texture.DefaultJPEGQuality, "JPEG quality (1-100)")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fail("Usage: fnatool convert [-q quality] <in> <out.png|out.jpg>")
	}

	in, err := os.Open(fs.Arg(0))
	if err != nil {
		fail("Error: %v", err)
	}
	defer in.Close()

	img, err := texture.Decode(in)
	if err != nil {
		fail("Error: %v", err)
	}

	out, err := os.Create(fs.Arg(1))
	if err != nil {
		fail("Error: %v", err)
	}
	defer out.Close()

	switch strings.ToLower(filepath.Ext(fs.Arg(1))) {
	case ".jpg", ".jpeg":
		err = texture.EncodeJPEG(out, img, *quality)
	default:
		err = texture.EncodePNG(out, img)
	}
	if err != nil {
		fail("Error: %v", err)
	}
	fmt.Printf("Converted %s (%dx%d) -> %s\n", fs.Arg(0), img.Width, img.Height, fs.Arg(1))
}
