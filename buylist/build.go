package buylist

import (
	"context"
	"fmt"
	"time"

	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/ingest"
	"github.com/climaxcard/buylist/buylist/logger"
	"github.com/climaxcard/buylist/buylist/render"
	"github.com/climaxcard/buylist/buylist/thumbs"
)

// Build runs the full pipeline: ingest the buylist, materialize thumbnails,
// render the static site into cfg.Site.OutDir. An ingest failure does not
// abort the build; the page is rendered with the "no data" notice so a bad
// export never blanks the published site.
func Build(ctx context.Context, cfg *Config) error {
	cards, err := loadCards(ctx, cfg)
	if err != nil {
		logger.LogError("ingest failed, rendering notice page", err)
		cards = nil
	}

	if cfg.Thumbs.Enabled && len(cards) > 0 {
		start := time.Now()
		err := attachThumbs(ctx, cfg, cards)
		logger.LogBuild("thumbs", time.Since(start), err)
		if err != nil {
			return err
		}
	}

	start := time.Now()
	r, err := render.New(render.Site{
		Title:       cfg.Site.Title,
		PerPage:     cfg.Site.PerPage,
		LIFFID:      cfg.Site.LIFFID,
		OAID:        cfg.Site.OAID,
		MailOrder:   cfg.Site.MailOrder,
		ShopURL:     cfg.Site.ShopURL,
		LogoFile:    cfg.Site.LogoFile,
		InitialSort: "desc",
	})
	if err != nil {
		return err
	}
	err = r.Build(cfg.Site.OutDir, cards)
	logger.LogBuild("render", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to render site: %w", err)
	}
	return nil
}

// LoadIndex ingests and indexes the catalog for the terminal search mode.
func LoadIndex(ctx context.Context, cfg *Config) ([]catalog.IndexedCard, error) {
	cards, err := loadCards(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return catalog.BuildIndex(cards), nil
}

func loadCards(ctx context.Context, cfg *Config) ([]catalog.Card, error) {
	start := time.Now()
	var cards []catalog.Card
	var err error
	switch cfg.Source.Kind {
	case "csv":
		cards, err = ingest.LoadCSV(cfg.Source.CSV)
	case "postgres":
		cards, err = ingest.LoadDatabase(ctx, ingest.DBConfig{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Database,
			Table:    cfg.DB.Table,
			PoolSize: cfg.DB.PoolSize,
		})
	default:
		err = fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
	logger.LogBuild("ingest", time.Since(start), err)
	return cards, err
}

func attachThumbs(ctx context.Context, cfg *Config, cards []catalog.Card) error {
	urls := make([]string, len(cards))
	for i, c := range cards {
		urls[i] = c.Image
	}
	builder := thumbs.NewBuilder(cfg.Site.OutDir, cfg.Thumbs.Width, cfg.Thumbs.Concurrency)
	thumbed, err := builder.Ensure(ctx, urls)
	if err != nil {
		return fmt.Errorf("thumbnail pass failed: %w", err)
	}
	for i := range cards {
		if rel, ok := thumbed[cards[i].Image]; ok {
			cards[i].Thumb = rel
		}
	}
	return nil
}
