package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/disgo/webhook"
	"github.com/disgoorg/snowflake/v2"

	"github.com/climaxcard/buylist/buylist/cart"
	"github.com/climaxcard/buylist/buylist/logger"
)

// HandoffRelay forwards cart hand-off requests to the shop's Discord
// webhook so staff see the provisional appraisal the moment a customer
// sends it. Long carts are chunked under the channel's message limit.
type HandoffRelay struct {
	client     webhook.Client
	chunkLimit int
}

// NewHandoffRelay builds a relay from either a full webhook URL or an
// explicit id/token pair.
func NewHandoffRelay(webhookURL, id, token string, chunkLimit int) (*HandoffRelay, error) {
	if chunkLimit <= 0 {
		chunkLimit = cart.ChunkLimit
	}
	var client webhook.Client
	switch {
	case webhookURL != "":
		c, err := webhook.NewWithURL(webhookURL)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook url: %w", err)
		}
		client = c
	case id != "" && token != "":
		webhookID, err := snowflake.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook id: %w", err)
		}
		client = webhook.New(webhookID, token)
	default:
		return nil, fmt.Errorf("handoff webhook is not configured")
	}
	return &HandoffRelay{client: client, chunkLimit: chunkLimit}, nil
}

// Send renders the hand-off text for lines and posts it, one message per
// chunk. Chunks after the first carry their (i/n) position label.
func (r *HandoffRelay) Send(ctx context.Context, lines []cart.Line) error {
	if len(lines) == 0 {
		return fmt.Errorf("cart is empty")
	}
	messages := cart.HandoffMessages(cart.HandoffText(lines), r.chunkLimit)
	for i, m := range messages {
		if _, err := r.client.CreateContent(m, rest.WithCtx(ctx)); err != nil {
			return fmt.Errorf("failed to send hand-off chunk %d/%d: %w", i+1, len(messages), err)
		}
	}
	logger.LogSystem("hand-off sent",
		slog.Int("lines", len(lines)),
		slog.Int("chunks", len(messages)),
	)
	return nil
}

// Close releases the webhook client's rest resources.
func (r *HandoffRelay) Close(ctx context.Context) {
	r.client.Close(ctx)
}

// OAMessageURL builds the LINE official-account fallback link the page
// offers when the LIFF runtime is unavailable: the first hand-off chunk
// prefilled into the chat composer.
func OAMessageURL(oaID string, lines []cart.Line, chunkLimit int) string {
	if oaID == "" || len(lines) == 0 {
		return ""
	}
	if chunkLimit <= 0 {
		chunkLimit = cart.ChunkLimit
	}
	messages := cart.HandoffMessages(cart.HandoffText(lines), chunkLimit)
	return "https://line.me/R/oaMessage/" + url.PathEscape(oaID) + "/?" + url.QueryEscape(messages[0])
}
