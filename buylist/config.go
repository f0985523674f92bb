// Package buylist carries the builder configuration and the build
// orchestration shared by the CLI modes.
package buylist

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log     LogConfig     `toml:"log"`
	Site    SiteConfig    `toml:"site"`
	Source  SourceConfig  `toml:"source"`
	DB      DBConfig      `toml:"db"`
	Spaces  SpacesConfig  `toml:"spaces"`
	Handoff HandoffConfig `toml:"handoff"`
	Thumbs  ThumbsConfig  `toml:"thumbs"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// SiteConfig drives the generated page.
type SiteConfig struct {
	Title     string `toml:"title"`
	OutDir    string `toml:"out_dir"`
	PerPage   int    `toml:"per_page"`
	LIFFID    string `toml:"liff_id"`
	OAID      string `toml:"oa_id"`
	MailOrder string `toml:"mail_order_url"`
	ShopURL   string `toml:"shop_url"`
	LogoFile  string `toml:"logo_file"`
	CartFile  string `toml:"cart_file"` // CLI-side cart persistence
}

// SourceConfig selects where the buylist rows come from. Kind is "csv" or
// "postgres".
type SourceConfig struct {
	Kind string `toml:"kind"`
	CSV  string `toml:"csv"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	Table    string `toml:"table"`
	PoolSize int    `toml:"pool_size"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Prefix string `toml:"prefix"`
}

type HandoffConfig struct {
	WebhookURL   string `toml:"webhook_url"`
	WebhookID    string `toml:"webhook_id"`
	WebhookToken string `toml:"webhook_token"`
	ChunkLimit   int    `toml:"chunk_limit"`
}

type ThumbsConfig struct {
	Enabled     bool `toml:"enabled"`
	Width       int  `toml:"width"`
	Concurrency int  `toml:"concurrency"`
}

func (c *Config) applyDefaults() {
	if c.Site.Title == "" {
		c.Site.Title = "買取表"
	}
	if c.Site.OutDir == "" {
		c.Site.OutDir = "docs"
	}
	if c.Site.PerPage <= 0 {
		c.Site.PerPage = 80
	}
	if c.Site.CartFile == "" {
		c.Site.CartFile = "cart.json"
	}
	if c.Source.Kind == "" {
		c.Source.Kind = "csv"
	}
	if c.DB.Table == "" {
		c.DB.Table = "buylist"
	}
	if c.Thumbs.Width <= 0 {
		c.Thumbs.Width = 600
	}
	if c.Thumbs.Concurrency <= 0 {
		c.Thumbs.Concurrency = 8
	}
}
