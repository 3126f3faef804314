package batch

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/analogworks/filmlab/internal/preset"
)

func writeTestImage(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{uint8(x * 12), uint8(y * 12), 128, 255}) //nolint:gosec // test image generation
		}
	}
	f, err := os.Create(path) //nolint:gosec // test file path is controlled
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
}

func testRunner(t *testing.T, outDir string, variations int) *Runner {
	t.Helper()
	quiet := log.New(io.Discard, "", 0)
	return &Runner{
		Engine:     preset.NewEngine(quiet),
		OutDir:     outDir,
		Variations: variations,
		ISO:        400,
		Seed:       99,
		Logger:     quiet,
	}
}

func portraitJob(t *testing.T) Job {
	t.Helper()
	p, err := preset.Lookup("portrait")
	if err != nil {
		t.Fatal(err)
	}
	return Job{Preset: &p}
}

func TestProcessFileVariations(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "shot.png")
	writeTestImage(t, inPath, 20, 20)

	outDir := filepath.Join(dir, "out")
	b := testRunner(t, outDir, 3)

	wrote, err := b.ProcessFile(inPath, portraitJob(t))
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if wrote != 3 {
		t.Errorf("wrote = %d, want 3", wrote)
	}
	for i := 1; i <= 3; i++ {
		want := filepath.Join(outDir, fmt.Sprintf("shot_portrait_v%d.jpg", i))
		if _, err := os.Stat(want); err != nil {
			t.Errorf("missing output %s", want)
		}
	}
}

func TestProcessFileCorruptInput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "broken.jpg")
	if err := os.WriteFile(inPath, []byte("this is not an image"), 0o644); err != nil {
		t.Fatal(err)
	}

	b := testRunner(t, dir, 3)
	wrote, err := b.ProcessFile(inPath, portraitJob(t))
	if err == nil {
		t.Fatal("corrupt input should return a load error")
	}
	if wrote != 0 {
		t.Errorf("wrote = %d for a corrupt file, want 0", wrote)
	}
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")

	var paths []string
	for i := 1; i <= 5; i++ {
		p := filepath.Join(dir, fmt.Sprintf("frame%d.png", i))
		if i == 2 {
			if err := os.WriteFile(p, []byte("corrupt"), 0o644); err != nil {
				t.Fatal(err)
			}
		} else {
			writeTestImage(t, p, 16, 16)
		}
		paths = append(paths, p)
	}

	b := testRunner(t, outDir, 3)
	rep := b.ProcessBatch(paths, portraitJob(t))

	if rep.Files != 5 {
		t.Errorf("Files = %d, want 5", rep.Files)
	}
	if rep.Processed != 4 {
		t.Errorf("Processed = %d, want 4", rep.Processed)
	}
	if rep.Failed != 1 {
		t.Errorf("Failed = %d, want 1", rep.Failed)
	}
	if rep.Wrote != 12 {
		t.Errorf("Wrote = %d, want 12 (4 files x 3 variations)", rep.Wrote)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".jpg") {
			count++
		}
	}
	if count != 12 {
		t.Errorf("output dir has %d jpgs, want 12", count)
	}
}

func TestVariationFailureDoesNotAbortSiblings(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "shot.png")
	writeTestImage(t, inPath, 12, 12)

	b := testRunner(t, dir, 2)
	bad := preset.Preset{Name: "bad", Stock: "unobtainium_25", Effects: []string{"grain"}, Intensity: 1}

	wrote, err := b.ProcessFile(inPath, Job{Preset: &bad})
	if err != nil {
		t.Fatalf("a per-variation failure must not surface as a file error: %v", err)
	}
	if wrote != 0 {
		t.Errorf("wrote = %d, want 0 (every variation failed)", wrote)
	}
}

func TestSeededVariationsReproducible(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "shot.png")
	writeTestImage(t, inPath, 16, 16)

	out1 := filepath.Join(dir, "out1")
	out2 := filepath.Join(dir, "out2")

	b1 := testRunner(t, out1, 2)
	b2 := testRunner(t, out2, 2)

	if _, err := b1.ProcessFile(inPath, portraitJob(t)); err != nil {
		t.Fatal(err)
	}
	if _, err := b2.ProcessFile(inPath, portraitJob(t)); err != nil {
		t.Fatal(err)
	}

	for i := 1; i <= 2; i++ {
		name := fmt.Sprintf("shot_portrait_v%d.jpg", i)
		d1, err := os.ReadFile(filepath.Join(out1, name)) //nolint:gosec // test file path
		if err != nil {
			t.Fatal(err)
		}
		d2, err := os.ReadFile(filepath.Join(out2, name)) //nolint:gosec // test file path
		if err != nil {
			t.Fatal(err)
		}
		if string(d1) != string(d2) {
			t.Errorf("variation %d differs between identically seeded runs", i)
		}
	}
}
