package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSVWithHeaderAliases(t *testing.T) {
	csv := strings.Join([]string{
		"display_name,expansion,cardnumber,rarity,pack_name,buy_price,promo,画像URL",
		`ルギアV,SV-P,110/S-P,SR,"パラダイムトリガー","1,500",☑,https://example.test/lugia.jpg`,
		`ピカチュウ,M2a,025/M2a,プロモ,,300,,`,
		`,SV-P,999/S-P,C,,10,,`, // no name: dropped
	}, "\n")

	cards, err := parseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, cards, 2)

	lugia := cards[0]
	assert.Equal(t, "ルギアV", lugia.Name)
	assert.Equal(t, "SV-P", lugia.Pack)
	assert.Equal(t, "110/S-P", lugia.Code)
	require.NotNil(t, lugia.Price)
	assert.Equal(t, 1500, *lugia.Price, "grouping comma must not break the price")
	assert.True(t, lugia.Promo, "checkbox glyph counts as true")
	assert.False(t, lugia.Latest)
	assert.Equal(t, "https://example.test/lugia.jpg", lugia.Image)
	assert.NotEmpty(t, lugia.SearchBlob)

	pika := cards[1]
	require.NotNil(t, pika.Price)
	assert.Equal(t, 300, *pika.Price)
	assert.False(t, pika.Promo)
	assert.True(t, pika.Latest, "pack M2a flags the latest set, case-insensitively")
}

func TestParseCSVPositionalFallback(t *testing.T) {
	// 17 anonymous columns; fields resolve by position.
	row := make([]string, 17)
	header := make([]string, 17)
	for i := range header {
		header[i] = "col" + string(rune('a'+i))
	}
	row[idxName] = "リザードンex"
	row[idxPack] = "151"
	row[idxCode] = "066/165"
	row[idxRarity] = "RR"
	row[idxBoost] = "SV2a"
	row[idxPrice] = `"¥2,000"`
	row[idxPromo] = "レ"
	row[idxImage] = `"=IMAGE(""https://example.test/z.png"")"`

	csv := strings.Join(header, ",") + "\n" + strings.Join(row, ",") + "\n"
	cards, err := parseCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, cards, 1)
	c := cards[0]
	assert.Equal(t, "リザードンex", c.Name)
	require.NotNil(t, c.Price)
	assert.Equal(t, 2000, *c.Price)
	assert.True(t, c.Promo)
	assert.Equal(t, "https://example.test/z.png", c.Image)
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want *int
	}{
		{"1500", intp(1500)},
		{"1,500", intp(1500)},
		{"¥1,500円", intp(1500)},
		{"300.0", intp(300)},
		{"", nil},
		{"nan", nil},
		{"相談", nil},
		{"-", nil},
	}
	for _, tt := range tests {
		got := parsePrice(tt.in)
		if tt.want == nil {
			assert.Nil(t, got, "parsePrice(%q)", tt.in)
		} else {
			require.NotNil(t, got, "parsePrice(%q)", tt.in)
			assert.Equal(t, *tt.want, *got, "parsePrice(%q)", tt.in)
		}
	}
}

func intp(v int) *int { return &v }

func TestImageURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"image formula", `=IMAGE("https://x.test/a.jpg")`, "https://x.test/a.jpg"},
		{"fullwidth quotes", `＝IMAGE(＂https://x.test/a.jpg＂)`, "https://x.test/a.jpg"},
		{"quoted url", `"https://x.test/b.png"`, "https://x.test/b.png"},
		{"bare url", "https://x.test/c.webp", "https://x.test/c.webp"},
		{"detail link id", "/card/?id=dm01-001", "https://dm.takaratomy.co.jp/wp-content/card/cardimage/dm01-001.jpg"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ImageURL(tt.in))
		})
	}
}
