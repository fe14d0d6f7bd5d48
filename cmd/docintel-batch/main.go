package main

import (
	"context"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lifedash/docintel/constants"
	"github.com/lifedash/docintel/internal/common"
	"github.com/lifedash/docintel/internal/docparse"
	"github.com/lifedash/docintel/internal/extract"
	"github.com/lifedash/docintel/internal/export"
	"github.com/lifedash/docintel/internal/ocr"
	"github.com/lifedash/docintel/internal/pdftext"
)

// docintel-batch walks a directory, extracts every supported document, and
// writes the results to an XLSX workbook. No database involved.
func main() {
	var (
		dir = flag.String("dir", "", "directory to scan")
		out = flag.String("out", "documents.xlsx", "output workbook path")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "usage: docintel-batch -dir <path> [-out <file.xlsx>]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	svc := extract.NewService(
		pdftext.New(logger),
		ocr.NewBackend(ocr.Config{
			Tesseract:   cfg.OCR.Tesseract,
			Lang:        cfg.OCR.Lang,
			TessdataDir: cfg.OCR.TessdataDir,
			PSM:         cfg.OCR.PSM,
			OEM:         cfg.OCR.OEM,
		}, logger),
		docparse.NewParser(),
		logger,
	)

	var rows []export.Row
	var processed, failed, skipped int

	err := filepath.WalkDir(*dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != *dir {
				return filepath.SkipDir
			}
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if _, ok := constants.AllowedExtensions[ext]; !ok {
			skipped++
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			failed++
			return nil
		}

		result, err := svc.Extract(context.Background(), data, constants.ContentTypeForExt(ext))
		if err != nil {
			fmt.Fprintf(os.Stderr, "extract %s: %v\n", path, err)
			failed++
			return nil
		}

		rows = append(rows, export.Row{
			Filename:       d.Name(),
			Category:       string(result.Category),
			Confidence:     result.Confidence,
			ExpirationDate: result.Metadata.ExpirationDate,
			RenewalDate:    result.Metadata.RenewalDate,
			PolicyNumber:   result.Metadata.PolicyNumber,
			AccountNumber:  result.Metadata.AccountNumber,
			Amount:         result.Metadata.Amount,
			Currency:       result.Metadata.Currency,
			Email:          result.Metadata.Email,
			Phone:          result.Metadata.Phone,
			SourcePath:     path,
			ProcessedAt:    time.Now().UTC(),
		})
		processed++
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "walk %s: %v\n", *dir, err)
		os.Exit(1)
	}

	data, err := export.DocumentsXLSX(rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "render workbook: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}

	fmt.Printf("processed=%d failed=%d skipped=%d out=%s\n", processed, failed, skipped, *out)
	if failed > 0 {
		os.Exit(1)
	}
}
