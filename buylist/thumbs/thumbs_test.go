package thumbs

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestThumbNameIsStable(t *testing.T) {
	a := thumbName("https://x.test/a.jpg")
	b := thumbName("https://x.test/a.jpg")
	c := thumbName("https://x.test/b.jpg")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32+len(".jpg"))
	assert.Equal(t, ".jpg", filepath.Ext(a))
}

func TestScaleKeepsAspectRatio(t *testing.T) {
	b := NewBuilder(t.TempDir(), 600, 1)
	src := image.NewRGBA(image.Rect(0, 0, 1200, 1680))
	out := b.scale(src)
	assert.Equal(t, 600, out.Bounds().Dx())
	assert.Equal(t, 840, out.Bounds().Dy())
}

func TestScaleLeavesSmallImagesAlone(t *testing.T) {
	b := NewBuilder(t.TempDir(), 600, 1)
	src := image.NewRGBA(image.Rect(0, 0, 400, 560))
	out := b.scale(src)
	assert.Equal(t, 400, out.Bounds().Dx())
	assert.Equal(t, 560, out.Bounds().Dy())
}

func TestEnsureWritesThumbsAndSkipsFailures(t *testing.T) {
	payload := testPNG(t, 800, 1120)
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		hits++
		w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	b := NewBuilder(dir, 600, 2)

	good := srv.URL + "/card.png"
	bad := srv.URL + "/missing.png"
	got, err := b.Ensure(context.Background(), []string{good, bad, ""})
	require.NoError(t, err)

	require.Contains(t, got, good)
	assert.NotContains(t, got, bad, "failed fetches fall back to the full image")

	abs := filepath.Join(dir, filepath.FromSlash(got[good]))
	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 600, img.Bounds().Dx())

	// Second run is served from disk, not the network.
	before := hits
	_, err = b.Ensure(context.Background(), []string{good})
	require.NoError(t, err)
	assert.Equal(t, before, hits)
}
