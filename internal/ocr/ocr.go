package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/timetable-import/constants"
	"github.com/joseph-ayodele/timetable-import/internal/layout"
)

type Config struct {
	Tesseract string // binary name or absolute path; if empty -> "tesseract"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"

	TesseractLang string // default "eng"
	TessdataDir   string
	PSM           int // page segmentation mode; 6 (uniform block) suits table grids
	OEM           int // 1 = LSTM; leave 0 to use default
	DPI           int // rasterization DPI for PDFs, default 300

	// MinConfidence drops words tesseract scored below it (0..100). 0 keeps everything.
	MinConfidence float64
}

// Result is one OCR pass over a timetable image.
type Result struct {
	Annotations []layout.Annotation
	Page        layout.Page
	Confidence  float32 // mean word confidence, 0..1
	Duration    time.Duration
}

// Extractor turns timetable images into word annotations via tesseract.
type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return NewExtractorWithRunner(cfg, execRunner{logger: logger}, logger)
}

// NewExtractorWithRunner is NewExtractor with the command runner supplied by the caller.
func NewExtractorWithRunner(cfg Config, runner Runner, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: runner, logger: logger}
}

// Annotate runs OCR on an image (or the first page of a PDF) and returns word annotations.
func (e *Extractor) Annotate(ctx context.Context, path string) (Result, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	e.logger.Debug("ocr.annotate.start", "path", path, "ext", ext)

	switch {
	case constants.IsPDF(ext):
		img, cleanup, err := e.rasterizeFirstPage(ctx, path)
		if err != nil {
			return Result{}, err
		}
		defer cleanup()
		path = img
	case constants.IsAllowedImage(ext):
	default:
		e.logger.Error("ocr.annotate.unsupported", "extension", ext)
		return Result{}, fmt.Errorf("unsupported extension: %q", ext)
	}

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.tesseractArgs(path)...)
	if err != nil {
		return Result{}, fmt.Errorf("tesseract tsv: %w: %s", err, truncate(string(errb), 512))
	}
	doc := ParseTSV(out, e.cfg.MinConfidence)
	res := Result{
		Annotations: doc.Annotations,
		Page:        doc.Page,
		Confidence:  doc.Confidence,
		Duration:    time.Since(start),
	}
	e.logger.Info("ocr.tsv.parsed",
		"path", path,
		"words", len(res.Annotations),
		"page_w", res.Page.Width,
		"page_h", res.Page.Height,
		"confidence", res.Confidence,
		"duration_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// tesseract <file> stdout -l <lang> --psm N [--oem N] [--tessdata-dir D] tsv
func (e *Extractor) tesseractArgs(path string) []string {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang, "--psm", fmt.Sprintf("%d", e.cfg.PSM)}
	if e.cfg.OEM > 0 {
		args = append(args, "--oem", fmt.Sprintf("%d", e.cfg.OEM))
	}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	return append(args, "tsv")
}
