package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/climaxcard/buylist/buylist/logger"
)

const snapshotTimeout = 30 * time.Second

// CaptureSnapshot renders the built page in headless Chrome and writes a
// full-page PNG. Used to eyeball a build before publishing and for the
// shop's social-media price updates.
func CaptureSnapshot(ctx context.Context, indexPath, outPath string) error {
	abs, err := filepath.Abs(indexPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("page not built yet: %w", err)
	}

	chromedpCtx, cancel := chromedp.NewContext(ctx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancel()
	chromedpCtx, cancel = context.WithTimeout(chromedpCtx, snapshotTimeout)
	defer cancel()

	start := time.Now()
	var buf []byte
	err = chromedp.Run(chromedpCtx,
		chromedp.EmulateViewport(1280, 2000),
		chromedp.Navigate("file://"+abs),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.Sleep(500*time.Millisecond), // let the script hydrate the grid
		chromedp.FullScreenshot(&buf, 90),
	)
	if err != nil {
		return fmt.Errorf("failed to capture page snapshot: %w", err)
	}

	if err := os.WriteFile(outPath, buf, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	logger.LogSystem("snapshot captured",
		slog.String("out", outPath),
		slog.Int("bytes", len(buf)),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
