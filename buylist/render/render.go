// Package render writes the static catalog page: one self-contained
// directory with index.html, the stylesheet, the client script and the
// embedded card payload. The first result page is prerendered server-side
// so the page shows content before the script hydrates it.
package render

import (
	"crypto/md5"
	"embed"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/climaxcard/buylist/buylist/cart"
	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/engine"
	"github.com/climaxcard/buylist/buylist/pagination"
	"github.com/climaxcard/buylist/buylist/search"
)

//go:embed assets/page.html.tmpl assets/style.css assets/app.js
var assets embed.FS

// Site carries the page-level settings taken from the [site] config section.
type Site struct {
	Title       string
	PerPage     int
	LIFFID      string
	OAID        string
	MailOrder   string
	ShopURL     string
	LogoFile    string
	InitialSort string // "", "desc" or "asc"
}

type Renderer struct {
	site Site
	tmpl *template.Template
}

func New(site Site) (*Renderer, error) {
	if site.PerPage <= 0 {
		site.PerPage = 80
	}
	tmpl, err := template.ParseFS(assets, "assets/page.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	return &Renderer{site: site, tmpl: tmpl}, nil
}

type cardView struct {
	Name      string
	Code      string
	Pack      string
	Rarity    string
	Booster   string
	PriceText string
	HasPrice  bool
	Price     int
	ImgSrc    string
	Promo     bool
	Latest    bool
}

type pageData struct {
	Title       string
	CardsVer    string
	Payload     template.JS
	LogoURI     template.URL
	LIFFID      string
	OAID        string
	MailOrder   string
	ShopURL     string
	GeneratedAt string
	Notice      string
	Total       int
	Cards       []cardView
	Page        int
	TotalPages  int
	Pager       []pagination.Button
	InitialSort string
}

// Build writes the complete site into outDir. An empty card list still
// produces a valid page carrying a "no data" notice instead of the grid.
func (r *Renderer) Build(outDir string, cards []catalog.Card) error {
	payload, err := catalog.EncodePayload(cards)
	if err != nil {
		return fmt.Errorf("failed to encode card payload: %w", err)
	}
	sum := md5.Sum(payload)

	data := pageData{
		Title:       r.site.Title,
		CardsVer:    hex.EncodeToString(sum[:])[:8],
		Payload:     template.JS(payload),
		LogoURI:     template.URL(logoDataURI(r.site.LogoFile)),
		LIFFID:      r.site.LIFFID,
		OAID:        r.site.OAID,
		MailOrder:   r.site.MailOrder,
		ShopURL:     r.site.ShopURL,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Total:       len(cards),
		InitialSort: r.site.InitialSort,
	}

	if len(cards) == 0 {
		data.Notice = "現在、買取データを準備中です。しばらくお待ちください。"
		data.Page = 1
		data.TotalPages = 1
	} else {
		ctl := engine.New(catalog.BuildIndex(cards), r.site.PerPage, nil)
		ctl.SetSort(initialSort(r.site.InitialSort))
		snap := ctl.Snapshot()
		data.Page = snap.Page
		data.TotalPages = snap.TotalPages
		data.Pager = pagination.Buttons(snap.Page, snap.TotalPages, pagination.WindowWide)
		data.Cards = make([]cardView, len(snap.PageItems))
		for i, it := range snap.PageItems {
			data.Cards[i] = viewOf(it.Card)
		}
	}

	if err := os.MkdirAll(filepath.Join(outDir, "assets"), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	if err := r.writeHTML(outDir, data); err != nil {
		return err
	}
	return r.writeAssets(outDir)
}

func initialSort(s string) search.Sort {
	switch s {
	case "desc":
		return search.SortPriceDesc
	case "asc":
		return search.SortPriceAsc
	default:
		return search.SortNone
	}
}

func viewOf(c catalog.Card) cardView {
	v := cardView{
		Name:    c.Name,
		Code:    c.Code,
		Pack:    c.Pack,
		Rarity:  c.Rarity,
		Booster: c.Booster,
		ImgSrc:  c.Image,
		Promo:   c.Promo,
		Latest:  c.Latest,
	}
	if c.Thumb != "" {
		v.ImgSrc = c.Thumb
	}
	if c.Price != nil {
		v.HasPrice = true
		v.Price = *c.Price
		v.PriceText = "¥" + groupDigits(*c.Price)
	} else {
		v.PriceText = "要確認"
	}
	return v
}

func groupDigits(v int) string {
	s := fmt.Sprintf("%d", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, d := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

func (r *Renderer) writeHTML(outDir string, data pageData) error {
	f, err := os.Create(filepath.Join(outDir, "index.html"))
	if err != nil {
		return fmt.Errorf("failed to create index.html: %w", err)
	}
	defer f.Close()
	if err := r.tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	return nil
}

func (r *Renderer) writeAssets(outDir string) error {
	css, err := assets.ReadFile("assets/style.css")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outDir, "assets", "style.css"), css, 0o644); err != nil {
		return fmt.Errorf("failed to write stylesheet: %w", err)
	}

	js, err := assets.ReadFile("assets/app.js")
	if err != nil {
		return err
	}
	script := strings.NewReplacer(
		"__PER_PAGE__", fmt.Sprintf("%d", r.site.PerPage),
		"__CART_CAP__", fmt.Sprintf("%d", cart.Cap),
		"__CHUNK_LIMIT__", fmt.Sprintf("%d", cart.ChunkLimit),
		"__LIFF_ID__", r.site.LIFFID,
		"__OA_ID__", r.site.OAID,
		"__INITIAL_SORT__", r.site.InitialSort,
	).Replace(string(js))
	if err := os.WriteFile(filepath.Join(outDir, "assets", "app.js"), []byte(script), 0o644); err != nil {
		return fmt.Errorf("failed to write client script: %w", err)
	}
	return nil
}

// logoDataURI inlines the shop logo so the page has no required local image
// dependency. Missing or unreadable logos just render the text title.
func logoDataURI(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	mime := "image/png"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".svg":
		mime = "image/svg+xml"
	case ".webp":
		mime = "image/webp"
	case ".gif":
		mime = "image/gif"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}
