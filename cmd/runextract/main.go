package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/common"
	"github.com/lifedash/docintel/internal/docparse"
	"github.com/lifedash/docintel/internal/extract"
	"github.com/lifedash/docintel/internal/ocr"
	"github.com/lifedash/docintel/internal/pdftext"
)

// runextract extracts a single file and prints the result as JSON. It needs
// no database, only the file and (for images) a tesseract binary.
func main() {
	var (
		file        = flag.String("file", "", "path to the document to extract")
		contentType = flag.String("type", "", "declared content type (default: derived from extension)")
		progress    = flag.Bool("progress", false, "print OCR progress to stderr")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: runextract -file <path> [-type <content-type>] [-progress]")
		os.Exit(2)
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", *file, err)
		os.Exit(1)
	}

	ct := *contentType
	if ct == "" {
		ext := constants.NormalizeExt(filepath.Ext(*file))
		ct = constants.ContentTypeForExt(ext)
		if ct == "" {
			fmt.Fprintf(os.Stderr, "cannot derive content type for %q, pass -type\n", *file)
			os.Exit(2)
		}
	}

	cfg := common.LoadConfig()

	ocrCfg := ocr.Config{
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		TessdataDir: cfg.OCR.TessdataDir,
		PSM:         cfg.OCR.PSM,
		OEM:         cfg.OCR.OEM,
	}
	if *progress {
		ocrCfg.Progress = func(pct int) {
			fmt.Fprintf(os.Stderr, "ocr progress: %d%%\n", pct)
		}
	}

	svc := extract.NewService(pdftext.New(logger), ocr.NewBackend(ocrCfg, logger), docparse.NewParser(), logger)

	result, err := svc.Extract(context.Background(), data, ct)
	if err != nil {
		fmt.Fprintf(os.Stderr, "extract: %v\n", err)
		os.Exit(1)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode result: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
