package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// rasterizeFirstPage renders page 1 of a PDF to PNG. Call cleanup to remove the temp dir.
func (e *Extractor) rasterizeFirstPage(ctx context.Context, path string) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "tt-pp-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("ocr.pdf.cleanup_failed", "dir", tmpDir, "error", err)
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png -f 1 -l 1 <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", "-f", "1", "-l", "1", path, prefix)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm: %w: %s", err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm produced no images")
	}
	return matches[0], cleanup, nil
}
