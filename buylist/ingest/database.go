package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/climaxcard/buylist/buylist/catalog"
	"github.com/climaxcard/buylist/buylist/logger"
)

const (
	defaultConnTimeout = 5 * time.Second
	defaultMaxRetries  = 3
	defaultRetryWait   = time.Second
)

// DBConfig mirrors the [db] config section.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	Table    string
	PoolSize int
}

// buylistRow is the Postgres shape of one buylist entry.
type buylistRow struct {
	bun.BaseModel `bun:"table:buylist,alias:b"`

	ID       int64  `bun:"id,pk,autoincrement"`
	Name     string `bun:"display_name,notnull"`
	Pack     string `bun:"expansion"`
	Code     string `bun:"cardnumber"`
	Rarity   string `bun:"rarity"`
	Booster  string `bun:"pack_name"`
	BuyPrice *int   `bun:"buy_price"`
	ImageURL string `bun:"image_url"`
	Promo    bool   `bun:"promo"`
}

func (r buylistRow) card() catalog.Card {
	c := catalog.Card{
		Name:    r.Name,
		Pack:    r.Pack,
		Code:    r.Code,
		Rarity:  r.Rarity,
		Booster: r.Booster,
		Price:   r.BuyPrice,
		Image:   ImageURL(r.ImageURL),
		Promo:   r.Promo,
		Latest:  strings.EqualFold(strings.TrimSpace(r.Pack), latestPack),
	}
	c.SearchBlob = catalog.SearchBlobFor(c)
	return c
}

// LoadDatabase reads the buylist table from Postgres. The server is dialed
// and pinged through a pgx pool before the bun query layer touches it, so
// an unreachable database fails fast with a clear error.
func LoadDatabase(ctx context.Context, cfg DBConfig) ([]catalog.Card, error) {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	var conn net.Conn
	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		conn, err = net.DialTimeout("tcp", addr, defaultConnTimeout)
		if err == nil {
			break
		}
		time.Sleep(defaultRetryWait)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}
	conn.Close()

	poolConfig, err := pgxpool.ParseConfig(connString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connString(cfg))))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	start := time.Now()
	var rows []buylistRow
	query := db.NewSelect().Model(&rows).Order("id ASC")
	if cfg.Table != "" && cfg.Table != "buylist" {
		query = query.ModelTableExpr("? AS b", bun.Ident(cfg.Table))
	}
	err = query.Scan(ctx)
	logger.LogQuery("select buylist rows", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load buylist rows: %w", err)
	}

	cards := make([]catalog.Card, 0, len(rows))
	for _, r := range rows {
		if r.Name == "" {
			continue
		}
		cards = append(cards, r.card())
	}
	return cards, nil
}

func connString(cfg DBConfig) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
}
