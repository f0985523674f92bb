// Package thumbs builds the local thumbnail set for the generated page:
// card images are fetched, downscaled to a fixed width and written under
// assets/thumbs/ with content-addressed names, so rebuilding the page never
// refetches what it already has.
package thumbs

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWidth   = 600
	fetchTimeout   = 12 * time.Second
	relThumbDir    = "assets/thumbs"
	cacheEntries   = 4096
	jpegQuality    = 60
	fetchUserAgent = "Mozilla/5.0 (compatible; buylist-builder)"
)

// Builder fetches and scales thumbnails. Safe for use by the errgroup
// workers it spawns; the LRU is internally synchronized.
type Builder struct {
	OutDir      string // site output root; thumbs land in OutDir/assets/thumbs
	Width       int
	Concurrency int

	client *http.Client
	cache  *lru.Cache
}

func NewBuilder(outDir string, width, concurrency int) *Builder {
	if width <= 0 {
		width = defaultWidth
	}
	if concurrency <= 0 {
		concurrency = 8
	}
	cache, _ := lru.New(cacheEntries)
	return &Builder{
		OutDir:      outDir,
		Width:       width,
		Concurrency: concurrency,
		client:      &http.Client{Timeout: fetchTimeout},
		cache:       cache,
	}
}

func thumbName(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

// Ensure materializes thumbnails for every URL and returns url → relative
// thumb path for the ones that succeeded. Failures are skipped, not fatal:
// the page falls back to the full-resolution image for those cards.
func (b *Builder) Ensure(ctx context.Context, urls []string) (map[string]string, error) {
	results := make([]string, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.Concurrency)
	for i, url := range urls {
		if url == "" {
			continue
		}
		i, url := i, url
		g.Go(func() error {
			rel, err := b.ensureOne(ctx, url)
			if err != nil {
				return nil // degrade to the full image
			}
			results[i] = rel
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]string, len(urls))
	for i, url := range urls {
		if results[i] != "" {
			out[url] = results[i]
		}
	}
	return out, nil
}

func (b *Builder) ensureOne(ctx context.Context, url string) (string, error) {
	rel := filepath.ToSlash(filepath.Join(relThumbDir, thumbName(url)))
	if cached, ok := b.cache.Get(url); ok {
		return cached.(string), nil
	}

	abs := filepath.Join(b.OutDir, rel)
	if _, err := os.Stat(abs); err == nil {
		b.cache.Add(url, rel)
		return rel, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	resp, err := b.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	src, _, err := image.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}

	scaled := b.scale(src)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := jpeg.Encode(f, scaled, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", err
	}

	b.cache.Add(url, rel)
	return rel, nil
}

func (b *Builder) scale(src image.Image) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || w <= b.Width {
		return src
	}
	newH := h * b.Width / w
	if newH < 1 {
		newH = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Width, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}
