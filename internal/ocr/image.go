package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lifedash/docintel/internal/extract"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Lang      string // default "eng"

	TessdataDir string
	PSM         int // e.g., 6 is good for a uniform block of text
	OEM         int // 1 = LSTM; leave 0 to use default

	// Progress, when set, receives advisory recognition progress (0-100).
	Progress extract.ProgressFunc
}

// Backend performs raster OCR over the full image in a single recognition
// pass. The recognizer's text is returned unmodified; confidence is the
// mean word confidence tesseract reports in TSV mode, on its native 0-100
// scale.
type Backend struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewBackend(cfg Config, logger *slog.Logger) *Backend {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "eng"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{cfg: cfg, runner: execRunner{}, logger: logger}
}

func (b *Backend) Name() string { return "image-ocr" }

func (b *Backend) Extract(ctx context.Context, data []byte) (extract.BackendResult, error) {
	path, cleanup, err := writeTemp(data)
	if err != nil {
		return extract.BackendResult{}, err
	}
	defer cleanup()

	b.emit(0)
	text, err := b.recognize(ctx, path)
	if err != nil {
		return extract.BackendResult{}, err
	}
	b.emit(60)

	conf, err := b.tsvConfidence(ctx, path)
	if err != nil {
		// confidence is best-effort; the recognized text still stands
		b.logger.Warn("ocr.confidence.unavailable", "error", err)
		conf = 0
	}
	b.emit(100)

	return extract.BackendResult{Text: text, Confidence: conf, Pages: 1}, nil
}

func (b *Backend) emit(pct int) {
	if b.cfg.Progress != nil {
		b.cfg.Progress(pct)
	}
}

func (b *Backend) recognize(ctx context.Context, path string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, _, err := b.runner.Run(ctx, b.cfg.Tesseract, b.args(path)...)
	if err != nil {
		return "", fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil
}

// tsvConfidence runs tesseract in TSV mode and returns the mean word
// confidence in 0-100.
func (b *Backend) tsvConfidence(ctx context.Context, path string) (float32, error) {
	args := append(b.args(path), "tsv")
	out, _, err := b.runner.Run(ctx, b.cfg.Tesseract, args...)
	if err != nil {
		return 0, fmt.Errorf("tesseract TSV: %w", err)
	}

	lines := strings.Split(string(out), "\n")
	// conf column is the last; header line includes "conf"
	var sum, n float64
	for i, ln := range lines {
		if i == 0 || len(ln) == 0 {
			continue
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		confStr := cols[len(cols)-1]
		if confStr == "" || confStr == "-1" {
			continue
		}
		if v, err := strconv.ParseFloat(confStr, 64); err == nil {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float32(sum / n), nil
}

func (b *Backend) args(path string) []string {
	args := []string{path, "stdout", "-l", b.cfg.Lang}
	if b.cfg.PSM > 0 {
		args = append(args, "--psm", strconv.Itoa(b.cfg.PSM))
	}
	if b.cfg.OEM > 0 {
		args = append(args, "--oem", strconv.Itoa(b.cfg.OEM))
	}
	if b.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", b.cfg.TessdataDir)
	}
	return args
}

func writeTemp(data []byte) (string, func(), error) {
	f, err := os.CreateTemp("", "docintel-ocr-*")
	if err != nil {
		return "", nil, fmt.Errorf("temp file: %w", err)
	}
	name := f.Name()
	cleanup := func() { _ = os.Remove(name) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return name, cleanup, nil
}
