// Package filmlab applies photochemically-plausible film emulation to
// decoded RGB images: tone curves, color matrices, halation, color
// bleed, chemical grain and stylized presets, composed as a sequence of
// pure raster transforms.
package filmlab

import (
	"image"
	"math/rand"

	"github.com/disintegration/imaging"

	"github.com/analogworks/filmlab/internal/camera"
	"github.com/analogworks/filmlab/internal/effects"
	"github.com/analogworks/filmlab/internal/preset"
	"github.com/analogworks/filmlab/internal/raster"
	"github.com/analogworks/filmlab/internal/stock"
)

// Options configures one processing run.
type Options struct {
	Preset string
	ISO    float64
	// Seed makes stochastic effects reproducible; 0 means time-seeded.
	Seed int64
	// CameraMake/CameraModel, when set, resolve an optional calibration
	// profile applied before the chain.
	CameraMake  string
	CameraModel string
}

// DefaultOptions returns the portrait preset at ISO 400.
func DefaultOptions() Options {
	return Options{
		Preset: "portrait",
		ISO:    400,
	}
}

// Process loads an image file, runs the preset chain, and saves the
// result.
func Process(inputPath, outputPath string, opts Options) error {
	base, err := raster.Load(inputPath)
	if err != nil {
		return err
	}
	out, err := run(base, opts)
	if err != nil {
		return err
	}
	return imaging.Save(out.Image(), outputPath, imaging.JPEGQuality(95))
}

// ProcessImage runs the preset chain over an already-decoded image.
func ProcessImage(img image.Image, opts Options) (image.Image, error) {
	out, err := run(raster.FromImage(img), opts)
	if err != nil {
		return nil, err
	}
	return out.Image(), nil
}

func run(base *raster.Raster, opts Options) (*raster.Raster, error) {
	name := opts.Preset
	if name == "" {
		name = "portrait"
	}
	p, err := preset.Lookup(name)
	if err != nil {
		return nil, err
	}

	if opts.CameraMake != "" || opts.CameraModel != "" {
		resolver := camera.NewResolver(camera.Builtin())
		if prof := resolver.Resolve(opts.CameraMake, opts.CameraModel); prof != nil {
			base = prof.Apply(base)
		}
	}

	runOpts := preset.RunOptions{ISO: opts.ISO}
	if opts.Seed != 0 {
		runOpts.Rng = rand.New(rand.NewSource(opts.Seed))
	}
	engine := preset.NewEngine(nil)
	return engine.Run(base, p, runOpts)
}

// Presets lists the available preset names.
func Presets() []string { return preset.Names() }

// Stocks lists the available film stock names.
func Stocks() []string { return stock.Names() }

// Effects lists the available effect identifiers.
func Effects() []string { return effects.Names() }
