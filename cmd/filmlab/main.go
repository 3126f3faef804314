package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/analogworks/filmlab/internal/batch"
	"github.com/analogworks/filmlab/internal/camera"
	"github.com/analogworks/filmlab/internal/effects"
	"github.com/analogworks/filmlab/internal/preset"
	"github.com/analogworks/filmlab/internal/stock"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "filmlab",
	Short: "Apply analog film emulation to images",
	Long: `filmlab renders digital images as photochemically-plausible film:
tone curves and color matrices per stock, halation, color bleed,
chemical grain and development variance, composed through named presets
or ad-hoc recipes.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single image",
	RunE:  runProcess,
}

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process all images in a directory",
	RunE:  runBatch,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Process an image with a randomly generated effect chain",
	RunE:  runRandom,
}

var listCmd = &cobra.Command{
	Use:   "presets",
	Short: "List presets, stocks and effects",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Presets:", strings.Join(preset.Names(), ", "))
		fmt.Println("Stocks: ", strings.Join(stock.Names(), ", "))
		fmt.Println("Effects:", strings.Join(effects.Names(), ", "))
	},
}

var (
	inputPath   string
	outputPath  string
	presetName  string
	stockName   string
	recipePath  string
	profilePath string
	randomMode  string
	isoValue    float64
	variations  int
	seed        int64
)

func init() {
	for _, cmd := range []*cobra.Command{processCmd, batchCmd, randomCmd} {
		cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file or directory (required)")
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output directory (required)")
		cmd.Flags().Float64Var(&isoValue, "iso", 400, "Film ISO for the grain model")
		cmd.Flags().IntVarP(&variations, "variations", "n", 1, "Independent variations per image")
		cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time-based)")
		cmd.Flags().StringVar(&profilePath, "camera-profiles", "", "YAML camera profile file (default: built-in table)")
		cmd.MarkFlagRequired("input")
		cmd.MarkFlagRequired("output")
	}
	processCmd.Flags().StringVarP(&presetName, "preset", "p", "portrait", "Preset name")
	processCmd.Flags().StringVarP(&recipePath, "recipe", "r", "", "JSON recipe file (overrides --preset)")
	processCmd.Flags().StringVarP(&stockName, "stock", "s", "", "Film stock for recipe runs")
	batchCmd.Flags().StringVarP(&presetName, "preset", "p", "portrait", "Preset name")
	batchCmd.Flags().StringVarP(&recipePath, "recipe", "r", "", "JSON recipe file (overrides --preset)")
	batchCmd.Flags().StringVarP(&stockName, "stock", "s", "", "Film stock for recipe runs")
	randomCmd.Flags().StringVarP(&randomMode, "mode", "m", "professional", "Chain mode: professional, experimental")
	randomCmd.Flags().StringVarP(&stockName, "stock", "s", "", "Film stock for the random chain")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(listCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunner() (*batch.Runner, error) {
	vendors := camera.Builtin()
	if profilePath != "" {
		loaded, err := camera.LoadProfiles(profilePath)
		if err != nil {
			return nil, err
		}
		vendors = loaded
	}
	logger := log.New(os.Stderr, "", 0)
	return &batch.Runner{
		Engine:     preset.NewEngine(logger),
		Resolver:   camera.NewResolver(vendors),
		OutDir:     outputPath,
		Variations: variations,
		ISO:        isoValue,
		Seed:       seed,
		Logger:     logger,
	}, nil
}

func buildJob() (batch.Job, error) {
	if recipePath != "" {
		data, err := os.ReadFile(recipePath)
		if err != nil {
			return batch.Job{}, fmt.Errorf("read recipe: %w", err)
		}
		chain, err := preset.ParseRecipe(data)
		if err != nil {
			return batch.Job{}, err
		}
		return batch.Job{Chain: chain, Stock: stockName}, nil
	}
	p, err := preset.Lookup(presetName)
	if err != nil {
		return batch.Job{}, err
	}
	return batch.Job{Preset: &p}, nil
}

func runProcess(cmd *cobra.Command, args []string) error {
	runner, err := newRunner()
	if err != nil {
		return err
	}
	job, err := buildJob()
	if err != nil {
		return err
	}

	start := time.Now()
	wrote, err := runner.ProcessFile(inputPath, job)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	fmt.Printf("Done: %d variations (%dms)\n", wrote, time.Since(start).Milliseconds())
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	runner, err := newRunner()
	if err != nil {
		return err
	}
	job, err := buildJob()
	if err != nil {
		return err
	}

	paths, err := collectImages(inputPath)
	if err != nil {
		return err
	}
	rep := runner.ProcessBatch(paths, job)
	fmt.Printf("\nBatch complete: %s\n", rep)
	return nil
}

func runRandom(cmd *cobra.Command, args []string) error {
	mode := preset.Mode(strings.ToLower(randomMode))
	if mode != preset.ModeProfessional && mode != preset.ModeExperimental {
		return fmt.Errorf("unknown mode: %s (valid: professional, experimental)", randomMode)
	}

	chainSeed := seed
	if chainSeed == 0 {
		chainSeed = time.Now().UnixNano()
	}
	chain := preset.RandomChain(mode, rand.New(rand.NewSource(chainSeed)))
	for _, step := range chain {
		fmt.Printf("  %-18s %.2f\n", step.Effect, step.Intensity)
	}

	runner, err := newRunner()
	if err != nil {
		return err
	}
	job := batch.Job{Chain: chain, Stock: stockName}

	start := time.Now()
	wrote, err := runner.ProcessFile(inputPath, job)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}
	fmt.Printf("Done: %d variations (%dms)\n", wrote, time.Since(start).Milliseconds())
	return nil
}

func collectImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".jpg", ".jpeg", ".png", ".tif", ".tiff":
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
