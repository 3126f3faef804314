// Package batch drives the pipeline over files: load once, calibrate,
// run the chain N times for independent variations, and keep one bad
// variation or file from taking down its siblings.
package batch

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"

	"github.com/analogworks/filmlab/internal/camera"
	"github.com/analogworks/filmlab/internal/preset"
	"github.com/analogworks/filmlab/internal/raster"
)

// Job names what to run: a preset, or an ad-hoc chain with its stock
// context. Exactly one of Preset / Chain should be set.
type Job struct {
	Preset *preset.Preset
	Chain  preset.Chain
	Stock  string
	Temp   float64
}

func (j Job) label() string {
	if j.Preset != nil {
		return j.Preset.Name
	}
	return "recipe"
}

// Runner applies a job to files. One Runner is safe to reuse across
// files; it holds no per-file state.
type Runner struct {
	Engine     *preset.Engine
	Resolver   *camera.Resolver
	OutDir     string
	Variations int
	ISO        float64
	// Seed makes every variation reproducible; 0 means time-seeded
	// (variation numbering stays stable either way).
	Seed   int64
	Logger *log.Logger
}

// Report summarizes a batch.
type Report struct {
	Files     int
	Processed int
	Failed    int
	Wrote     int
}

func (r Report) String() string {
	return fmt.Sprintf("%d/%d files processed, %d outputs, %d failed",
		r.Processed, r.Files, r.Wrote, r.Failed)
}

func (b *Runner) logf(format string, args ...interface{}) {
	if b.Logger != nil {
		b.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

func (b *Runner) variations() int {
	if b.Variations <= 0 {
		return 1
	}
	return b.Variations
}

// ProcessFile loads one image and writes up to Variations outputs.
// Every variation re-runs the chain against the same calibrated base
// raster, never against a previous variation's output. The returned
// count is how many outputs were written; a load failure returns it
// with the error, any later failure only costs that one variation.
func (b *Runner) ProcessFile(path string, job Job) (int, error) {
	base, err := raster.Load(path)
	if err != nil {
		return 0, err
	}

	if b.OutDir != "" {
		if err := os.MkdirAll(b.OutDir, 0o755); err != nil {
			return 0, fmt.Errorf("create output dir: %w", err)
		}
	}

	if b.Resolver != nil {
		mk, model := camera.ReadExif(path)
		if prof := b.Resolver.Resolve(mk, model); prof != nil {
			base = prof.Apply(base)
		}
	}

	wrote := 0
	for i := 1; i <= b.variations(); i++ {
		outPath := b.outputPath(path, job, i)
		if err := b.runVariation(base, job, i, outPath); err != nil {
			b.logf("%s variation %d: %v", filepath.Base(path), i, err)
			continue
		}
		wrote++
	}
	return wrote, nil
}

// runVariation is the failure boundary: a panic mid-chain (a caller
// contract violation surfacing) is converted to an error here, and no
// partial output file is written for a variation that failed.
func (b *Runner) runVariation(base *raster.Raster, job Job, i int, outPath string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("chain panic: %v", r)
		}
	}()

	var seed int64
	if b.Seed != 0 {
		seed = b.Seed + int64(i)
	} else {
		seed = time.Now().UnixNano() + int64(i)
	}
	opts := preset.RunOptions{
		ISO:   b.ISO,
		Stock: job.Stock,
		Temp:  job.Temp,
		Rng:   rand.New(rand.NewSource(seed)),
	}

	var out *raster.Raster
	if job.Preset != nil {
		out, err = b.Engine.Run(base, *job.Preset, opts)
	} else {
		out, err = b.Engine.RunRecipe(base, job.Chain, opts)
	}
	if err != nil {
		return err
	}

	if err := imaging.Save(out.Image(), outPath, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

func (b *Runner) outputPath(inPath string, job Job, variation int) string {
	base := filepath.Base(inPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	out := fmt.Sprintf("%s_%s_v%d.jpg", name, job.label(), variation)
	if b.OutDir != "" {
		return filepath.Join(b.OutDir, out)
	}
	return filepath.Join(filepath.Dir(inPath), out)
}

// ProcessBatch runs the job over every path. A failed file is counted
// and skipped; it never aborts the rest of the batch.
func (b *Runner) ProcessBatch(paths []string, job Job) Report {
	rep := Report{Files: len(paths)}
	for _, path := range paths {
		start := time.Now()
		wrote, err := b.ProcessFile(path, job)
		rep.Wrote += wrote
		if err != nil {
			rep.Failed++
			b.logf("%s FAILED: %v", filepath.Base(path), err)
			continue
		}
		rep.Processed++
		b.logf("%s: %d variations (%dms)", filepath.Base(path), wrote, time.Since(start).Milliseconds())
	}
	return rep
}
