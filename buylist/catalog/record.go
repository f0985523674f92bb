// Package catalog holds the denormalized card records and the search index
// built from them. Records are immutable after load; the folded comparison
// fields are derived once at index-build time.
package catalog

import (
	"encoding/json"
	"fmt"
)

// Card is one buylist row. Price is nil when the sheet has no buy price for
// the row; the page renders a placeholder and sorting treats it as 0.
type Card struct {
	Name    string
	Pack    string
	Code    string
	Rarity  string
	Booster string
	Price   *int
	Image   string
	Thumb   string
	// SearchBlob is the precomputed search text carried in the payload.
	// The engine recomputes its own folded fields and never consults it.
	SearchBlob string
	Promo      bool
	Latest     bool
}

// PriceOrZero is the sort/total key for the card's price.
func (c Card) PriceOrZero() int {
	if c.Price == nil {
		return 0
	}
	return *c.Price
}

// flexBool accepts the payload's 0/1 flags as well as real booleans.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "true", "1":
		*b = true
	default:
		*b = false
	}
	return nil
}

// rawCard accepts both the compact payload shape (n, p, c, r, b, pr, i, t,
// s, k, L) and the expanded shape. For each field the compact key wins when
// both are present.
type rawCard struct {
	N       *string   `json:"n"`
	Name    *string   `json:"name"`
	P       *string   `json:"p"`
	Pack    *string   `json:"pack"`
	C       *string   `json:"c"`
	Code    *string   `json:"code"`
	R       *string   `json:"r"`
	Rarity  *string   `json:"rarity"`
	B       *string   `json:"b"`
	Booster *string   `json:"booster"`
	PR      *int      `json:"pr"`
	Price   *int      `json:"price"`
	I       *string   `json:"i"`
	Image   *string   `json:"image"`
	T       *string   `json:"t"`
	Thumb   *string   `json:"thumb"`
	S       *string   `json:"s"`
	K       *flexBool `json:"k"`
	Promo   *flexBool `json:"promo"`
	L       *flexBool `json:"L"`
	Latest  *flexBool `json:"latest"`
}

func pick(compact, long *string) string {
	if compact != nil {
		return *compact
	}
	if long != nil {
		return *long
	}
	return ""
}

func pickBool(compact, long *flexBool) bool {
	if compact != nil {
		return bool(*compact)
	}
	if long != nil {
		return bool(*long)
	}
	return false
}

func (r rawCard) card() Card {
	price := r.PR
	if price == nil {
		price = r.Price
	}
	return Card{
		Name:       pick(r.N, r.Name),
		Pack:       pick(r.P, r.Pack),
		Code:       pick(r.C, r.Code),
		Rarity:     pick(r.R, r.Rarity),
		Booster:    pick(r.B, r.Booster),
		Price:      price,
		Image:      pick(r.I, r.Image),
		Thumb:      pick(r.T, r.Thumb),
		SearchBlob: pick(r.S, nil),
		Promo:      pickBool(r.K, r.Promo),
		Latest:     pickBool(r.L, r.Latest),
	}
}

// DecodePayload parses the embedded JSON card payload. A payload that is not
// a JSON array yields an empty list and an error; the caller renders a
// "no data" notice instead of failing the build. Individual malformed
// elements are skipped, and missing keys default to empty/nil/false.
func DecodePayload(data []byte) ([]Card, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return nil, fmt.Errorf("card payload is not an array: %w", err)
	}
	cards := make([]Card, 0, len(elems))
	for _, e := range elems {
		var raw rawCard
		if err := json.Unmarshal(e, &raw); err != nil {
			continue
		}
		cards = append(cards, raw.card())
	}
	return cards, nil
}

// payloadCard is the compact wire shape written into the generated page.
type payloadCard struct {
	N  string `json:"n"`
	P  string `json:"p"`
	C  string `json:"c"`
	R  string `json:"r"`
	B  string `json:"b"`
	PR *int   `json:"pr"`
	I  string `json:"i"`
	T  string `json:"t"`
	S  string `json:"s"`
	K  int    `json:"k"`
	L  int    `json:"L"`
}

// EncodePayload renders cards in the compact wire shape.
func EncodePayload(cards []Card) ([]byte, error) {
	out := make([]payloadCard, len(cards))
	for i, c := range cards {
		k, l := 0, 0
		if c.Promo {
			k = 1
		}
		if c.Latest {
			l = 1
		}
		out[i] = payloadCard{
			N: c.Name, P: c.Pack, C: c.Code, R: c.Rarity, B: c.Booster,
			PR: c.Price, I: c.Image, T: c.Thumb, S: c.SearchBlob, K: k, L: l,
		}
	}
	return json.Marshal(out)
}
