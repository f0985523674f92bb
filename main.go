package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/climaxcard/buylist/buylist"
	"github.com/climaxcard/buylist/buylist/cart"
	"github.com/climaxcard/buylist/buylist/logger"
	"github.com/climaxcard/buylist/buylist/search"
	"github.com/climaxcard/buylist/buylist/services"
	"github.com/climaxcard/buylist/buylist/watch"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting buylist builder",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	watchMode := flag.Bool("watch", false, "rebuild when the source sheet changes")
	preview := flag.String("preview", "", "serve the output dir on this address (e.g. :8080)")
	publish := flag.Bool("publish", false, "upload the built site to Spaces")
	snapshot := flag.String("snapshot", "", "write a full-page screenshot to this file after building")
	grep := flag.String("grep", "", "search the catalog from the terminal instead of building")
	sendTest := flag.Bool("send-test", false, "send a test hand-off through the configured webhook")
	flag.Parse()

	cfg, err := buylist.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(customHandler.WithLevel(cfg.Log.Level)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *grep != "" {
		if err := runGrep(ctx, cfg, *grep); err != nil {
			slog.Error("Search failed", slog.Any("error", err))
			os.Exit(-1)
		}
		return
	}

	if *sendTest {
		if err := runSendTest(ctx, cfg); err != nil {
			slog.Error("Test hand-off failed", slog.Any("error", err))
			os.Exit(-1)
		}
		return
	}

	start := time.Now()
	if err := buylist.Build(ctx, cfg); err != nil {
		slog.Error("Build failed", slog.Any("error", err), slog.Duration("took", time.Since(start)))
		os.Exit(-1)
	}
	slog.Info("Site built", slog.String("out", cfg.Site.OutDir), slog.Duration("took", time.Since(start)))

	if *snapshot != "" {
		if err := services.CaptureSnapshot(ctx, filepath.Join(cfg.Site.OutDir, "index.html"), *snapshot); err != nil {
			slog.Error("Snapshot failed", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	if *publish {
		if err := runPublish(ctx, cfg); err != nil {
			slog.Error("Publish failed", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	if !*watchMode && *preview == "" {
		return
	}

	if *preview != "" {
		go func() {
			if err := watch.Serve(ctx, *preview, cfg.Site.OutDir); err != nil {
				slog.Error("Preview server failed", slog.Any("error", err))
			}
		}()
	}

	if *watchMode {
		if cfg.Source.Kind != "csv" {
			slog.Error("Watch mode needs a csv source", slog.String("kind", cfg.Source.Kind))
			os.Exit(-1)
		}
		go func() {
			err := watch.Run(ctx, cfg.Source.CSV, func() {
				rebuildStart := time.Now()
				if err := buylist.Build(ctx, cfg); err != nil {
					logger.LogError("rebuild failed", err)
					return
				}
				slog.Info("Site rebuilt", slog.Duration("took", time.Since(rebuildStart)))
			})
			if err != nil && ctx.Err() == nil {
				slog.Error("Watcher failed", slog.Any("error", err))
			}
		}()
	}

	slog.Info("Running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down...")
}

func runPublish(ctx context.Context, cfg *buylist.Config) error {
	publisher, err := services.NewSpacesPublisher(
		cfg.Spaces.Key,
		cfg.Spaces.Secret,
		cfg.Spaces.Region,
		cfg.Spaces.Bucket,
		cfg.Spaces.Prefix,
	)
	if err != nil {
		return err
	}
	_, err = publisher.PublishDir(ctx, cfg.Site.OutDir)
	return err
}

func runSendTest(ctx context.Context, cfg *buylist.Config) error {
	relay, err := services.NewHandoffRelay(
		cfg.Handoff.WebhookURL,
		cfg.Handoff.WebhookID,
		cfg.Handoff.WebhookToken,
		cfg.Handoff.ChunkLimit,
	)
	if err != nil {
		return err
	}
	defer relay.Close(ctx)

	// Prefer the locally persisted cart; an empty one falls back to a
	// fixed test line so the webhook can be verified without a cart.
	c := cart.New(cart.NewFileStore(cfg.Site.CartFile))
	lines := c.Lines()
	if len(lines) == 0 {
		lines = []cart.Line{{Name: "テストカード", Model: "000/TEST", Price: 1500, Qty: 1}}
	}
	return relay.Send(ctx, lines)
}

// runGrep evaluates a name query against the catalog and prints the hits,
// falling back to fuzzy name suggestions on a miss.
func runGrep(ctx context.Context, cfg *buylist.Config, query string) error {
	index, err := buylist.LoadIndex(ctx, cfg)
	if err != nil {
		return err
	}

	view := search.Evaluate(index, search.Query{Name: query, Sort: search.SortPriceDesc})
	if len(view) == 0 {
		fmt.Printf("no match for %q\n", query)
		if names := search.Suggest(index, query, 5); len(names) > 0 {
			fmt.Println("did you mean:")
			for _, n := range names {
				fmt.Printf("  %s\n", n)
			}
		}
		return nil
	}

	for _, it := range view {
		price := "要確認"
		if it.Price != nil {
			price = fmt.Sprintf("¥%d", *it.Price)
		}
		fmt.Printf("%-8s %-10s %-6s %s\n", price, it.Code, it.Rarity, it.Name)
	}
	fmt.Printf("%d hits\n", len(view))
	return nil
}
