// Package ingest turns buylist exports into catalog records. The CSV path
// is the primary workflow (the shop exports the Excel sheet to CSV); the
// database path reads the same shape from Postgres.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/climaxcard/buylist/buylist/catalog"
)

// Column-position fallbacks (0-based) used when the header row carries none
// of the known names. They mirror the layout of the shop's sheet.
const (
	idxName   = 2
	idxPack   = 4
	idxCode   = 5
	idxRarity = 6
	idxBoost  = 7
	idxPrice  = 14
	idxPromo  = 15
	idxImage  = 16
)

// headerAliases maps each record field to the header spellings seen across
// sheet revisions.
var headerAliases = map[string][]string{
	"name":   {"display_name", "商品名"},
	"pack":   {"expansion", "エキスパンション"},
	"code":   {"cardnumber", "カード番号"},
	"rarity": {"rarity", "レアリティ"},
	"boost":  {"pack_name", "封入パック", "パック名"},
	"price":  {"buy_price", "買取価格"},
	"promo":  {"promo", "強化", "チェック", "check", "flag"},
	"image":  {"画像url", "image_url"},
}

var fallbackIndex = map[string]int{
	"name":   idxName,
	"pack":   idxPack,
	"code":   idxCode,
	"rarity": idxRarity,
	"boost":  idxBoost,
	"price":  idxPrice,
	"promo":  idxPromo,
	"image":  idxImage,
}

// trueTokens are the cell values the sheet uses for a checked promo flag.
var trueTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true, "on": true,
	"☑": true, "✓": true, "✔": true, "◯": true, "○": true, "レ": true, "済": true,
}

// nullTokens are spreadsheet artifacts that mean "empty".
var nullTokens = map[string]bool{
	"nan": true, "none": true, "null": true, "nil": true,
}

func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if nullTokens[strings.ToLower(s)] {
		return ""
	}
	return s
}

var nonNumeric = regexp.MustCompile(`[^\d.\-]`)

// parsePrice reads a lenient integer: currency symbols and grouping commas
// are stripped, anything non-numeric yields nil.
func parsePrice(s string) *int {
	s = nonNumeric.ReplaceAllString(cleanCell(s), "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	if s == "" || s == "-" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

func parseFlag(s string) bool {
	return trueTokens[strings.ToLower(cleanCell(s))]
}

var (
	imageFormulaRe = regexp.MustCompile(`(?i)@?IMAGE\s*\(\s*["']\s*(https?://[^"']+)\s*["']`)
	quotedURLRe    = regexp.MustCompile(`^=?\s*["']\s*(https?://[^"']+)\s*["']\s*$`)
	bareURLRe      = regexp.MustCompile(`(https?://[^\s"')]+)`)
)

// ImageURL extracts the usable image URL out of whatever the sheet cell
// holds: an =IMAGE("…") formula, a quoted URL, a bare URL, or a card-detail
// link whose id parameter maps onto the public card-image path.
func ImageURL(cell string) string {
	s := strings.TrimSpace(cell)
	s = strings.NewReplacer("＠", "@", "＂", `"`, "＇", "'").Replace(s)
	if s == "" {
		return ""
	}
	if m := imageFormulaRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := quotedURLRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := bareURLRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return s
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return ""
	}
	if strings.Contains(s, "id=") {
		id := parsed.Query().Get("id")
		if id == "" {
			parts := strings.Split(parsed.Path, "/")
			id = parts[len(parts)-1]
		}
		if id != "" {
			return "https://dm.takaratomy.co.jp/wp-content/card/cardimage/" + id + ".jpg"
		}
	}
	parts := strings.Split(parsed.Path, "/")
	if slug := strings.TrimSpace(parts[len(parts)-1]); slug != "" {
		return "https://dm.takaratomy.co.jp/wp-content/card/cardimage/" + slug + ".jpg"
	}
	return ""
}

// latestPack is the pack code flagged as the newest set on the page.
const latestPack = "M2A"

// LoadCSV reads the buylist export. The first row is the header; columns
// resolve by alias name first, positional fallback second. Rows without a
// name are dropped.
func LoadCSV(path string) ([]catalog.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buylist csv: %w", err)
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]catalog.Card, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse buylist csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	cols := resolveColumns(rows[0])
	cell := func(row []string, field string) string {
		idx, ok := cols[field]
		if !ok || idx >= len(row) {
			return ""
		}
		return cleanCell(row[idx])
	}

	cards := make([]catalog.Card, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, "name")
		if name == "" || strings.HasPrefix(name, "Unnamed") {
			continue
		}
		pack := cell(row, "pack")
		c := catalog.Card{
			Name:    name,
			Pack:    pack,
			Code:    cell(row, "code"),
			Rarity:  cell(row, "rarity"),
			Booster: cell(row, "boost"),
			Price:   parsePrice(cell(row, "price")),
			Image:   ImageURL(cell(row, "image")),
			Promo:   parseFlag(cell(row, "promo")),
			Latest:  strings.EqualFold(strings.TrimSpace(pack), latestPack),
		}
		c.SearchBlob = catalog.SearchBlobFor(c)
		cards = append(cards, c)
	}
	return cards, nil
}

func resolveColumns(header []string) map[string]int {
	cols := make(map[string]int, len(headerAliases))
	for field, aliases := range headerAliases {
		found := false
		for i, h := range header {
			h = strings.ToLower(strings.TrimSpace(h))
			for _, a := range aliases {
				if h == a {
					cols[field] = i
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			if idx, ok := fallbackIndex[field]; ok && idx < len(header) {
				cols[field] = idx
			}
		}
	}
	return cols
}
