package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-pinhole-raytracer/pkg/core"
	"github.com/df07/go-pinhole-raytracer/pkg/output"
	"github.com/df07/go-pinhole-raytracer/pkg/preview"
	"github.com/df07/go-pinhole-raytracer/pkg/renderer"
	"github.com/df07/go-pinhole-raytracer/pkg/scene"
)

// Config holds the parsed command line options
type Config struct {
	SceneType    string
	Width        int
	AspectRatio  float64
	Format       output.Format
	Out          string // "-" writes to stdout
	ExactFarRoot bool
	Compare      bool // legacy and exact far roots side by side, always PNG
	Preview      bool
	PreviewScale int
	Quiet        bool
}

func main() {
	// Parse command line flags
	sceneType := flag.String("scene", "default", "Scene: "+strings.Join(scene.Names(), ", ")+", a scenes/<name>.json name or a .json path")
	width := flag.Int("width", 0, "Image width in pixels (0 keeps the scene default)")
	aspect := flag.Float64("aspect", 0, "Aspect ratio width/height (0 keeps the scene default)")
	format := flag.String("format", "png", "Output format: png, p3 or p6")
	out := flag.String("out", "", "Output file; '-' writes to stdout (default output/<scene>/render_<timestamp>.<ext>)")
	exactFarRoot := flag.Bool("exact-far-root", false, "Use (-halfB + sqrtD) / a for the far sphere root")
	compare := flag.Bool("compare", false, "Render with both far-root formulas and write a labelled side-by-side PNG")
	showPreview := flag.Bool("preview", false, "Show the result in a window (Esc closes)")
	previewScale := flag.Int("preview-scale", 0, "Preview window scale (0 picks automatically)")
	quiet := flag.Bool("quiet", false, "Suppress progress output")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	// Show help if requested
	if *help {
		showHelp()
		return
	}

	parsedFormat, err := output.ParseFormat(*format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	config := Config{
		SceneType:    *sceneType,
		Width:        *width,
		AspectRatio:  *aspect,
		Format:       parsedFormat,
		Out:          *out,
		ExactFarRoot: *exactFarRoot,
		Compare:      *compare,
		Preview:      *showPreview,
		PreviewScale: *previewScale,
		Quiet:        *quiet,
	}

	if err := run(config, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Pinhole Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	fmt.Println("  default - Small sphere resting on a large ground sphere")
	fmt.Println("  single  - One sphere in front of a square camera")
	fmt.Println("  golden  - 2x2 regression image")
	fmt.Println("  <name>  - scenes/<name>.json")
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.<ext>")
}

// run renders the configured scene and writes it out. Progress goes to
// stderr so a PPM written to stdout stays clean.
func run(config Config, stdout io.Writer) error {
	var logger core.Logger = renderer.NewDefaultLogger()
	if config.Quiet {
		logger = renderer.NopLogger{}
	}

	selectedScene, err := createScene(config.SceneType, renderer.CameraConfig{
		Width:       config.Width,
		AspectRatio: config.AspectRatio,
	})
	if err != nil {
		return err
	}
	if config.Compare {
		return runCompare(config, selectedScene, stdout, logger)
	}
	if config.ExactFarRoot {
		selectedScene.SetExactFarRoot(true)
	}

	raytracer, err := renderer.NewRaytracer(selectedScene, logger)
	if err != nil {
		return err
	}

	logger.Printf("Rendering %s (%dx%d, %d spheres)...\n", selectedScene.Name,
		raytracer.Camera().Width(), raytracer.Camera().Height(), selectedScene.GetPrimitiveCount())

	buf, stats, err := raytracer.Render()
	if err != nil {
		return err
	}

	if config.Out == "-" {
		if err := output.Write(stdout, buf, config.Format); err != nil {
			return err
		}
	} else {
		filename := config.Out
		if filename == "" {
			timestamp := time.Now().Format("20060102_150405")
			filename = filepath.Join(createOutputDir(config.SceneType),
				"render_"+timestamp+config.Format.Extension())
		}
		if err := output.WriteFile(filename, buf, config.Format); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", filename)
	}

	if config.Preview {
		return showPreview(buf, stats, selectedScene.Name, config.PreviewScale, logger)
	}
	return nil
}

// runCompare renders the scene once per far-root formula and writes both
// renders to a single PNG sheet
func runCompare(config Config, s *scene.Scene, stdout io.Writer, logger core.Logger) error {
	renders := make([]*renderer.Buffer, 2)
	for i, exact := range []bool{false, true} {
		s.SetExactFarRoot(exact)
		raytracer, err := renderer.NewRaytracer(s, logger)
		if err != nil {
			return err
		}
		buf, _, err := raytracer.Render()
		if err != nil {
			return err
		}
		renders[i] = buf
	}

	if config.Out == "-" {
		return output.WriteComparePNG(stdout, renders[0], renders[1], "legacy far root", "exact far root")
	}

	filename := config.Out
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = filepath.Join(createOutputDir(config.SceneType), "compare_"+timestamp+".png")
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := output.WriteComparePNG(f, renders[0], renders[1], "legacy far root", "exact far root"); err != nil {
		return err
	}
	logger.Printf("Comparison saved as %s\n", filename)
	return nil
}

func showPreview(buf *renderer.Buffer, stats renderer.RenderStats, name string, scale int, logger core.Logger) error {
	caption := fmt.Sprintf("%d/%d HIT %s", stats.HitPixels, stats.TotalPixels, stats.Duration.Round(time.Millisecond))
	err := preview.Show(buf, caption, "Pinhole Raytracer - "+name, scale)
	if errors.Is(err, preview.ErrUnavailable) {
		logger.Printf("Preview skipped: %v\n", err)
		return nil
	}
	return err
}

// createScene resolves built-in names, .json paths and names of files in scenes/
func createScene(sceneType string, cameraOverrides ...renderer.CameraConfig) (*scene.Scene, error) {
	s, err := scene.Lookup(sceneType, cameraOverrides...)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, scene.ErrUnknownScene) {
		return nil, err
	}

	s, loadErr := tryLoadJSONScene(sceneType, cameraOverrides...)
	if loadErr != nil {
		return nil, loadErr
	}
	if s != nil {
		return s, nil
	}
	return nil, err
}

// Directories searched for scenes/<name>.json
var sceneDirs = []string{"scenes", "../scenes"}

// tryLoadJSONScene looks for <dir>/<name>.json. It returns nil and no error
// when no such file exists, and the load error when the file is invalid.
func tryLoadJSONScene(sceneType string, cameraOverrides ...renderer.CameraConfig) (*scene.Scene, error) {
	if sceneType == "" || filepath.Base(sceneType) != sceneType {
		return nil, nil
	}
	for _, dir := range sceneDirs {
		path := filepath.Join(dir, sceneType+".json")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return scene.NewJSONScene(path, cameraOverrides...)
	}
	return nil, nil
}

// createOutputDir returns output/<scene>, using the file name for scene paths
func createOutputDir(sceneType string) string {
	base := sceneType
	if strings.HasSuffix(base, ".json") || strings.ContainsAny(base, `/\`) {
		base = strings.TrimSuffix(filepath.Base(base), filepath.Ext(base))
	}
	base = strings.TrimPrefix(base, "json:")
	if base == "" {
		base = "scene"
	}
	return filepath.Join("output", base)
}
