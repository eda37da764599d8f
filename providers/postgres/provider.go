// Package postgres registers the "postgres" connector provider backed by pgx.
//
// Import it for side effects:
//
//	import _ "github.com/Konsultn-Engineering/sqlbulk/providers/postgres"
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/connector"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

type Provider struct{}

func init() {
	connector.Register("postgres", &Provider{})
	connector.Register("pgx", &Provider{})
}

func (p *Provider) buildDSN(cfg connector.Config) string {
	port := cfg.Port
	if port == 0 {
		port = 5432
	}
	return connector.NewDSNBuilder("postgres").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, port).
		Database(cfg.Database).
		Param("sslmode", cfg.SSLMode).
		Params(cfg.Params).
		WithPostgresDefaults().
		Build()
}

// Open parses the DSN with pgx and wraps it in a database/sql pool.
func (p *Provider) Open(ctx context.Context, cfg connector.Config) (*sql.DB, error) {
	connCfg, err := pgx.ParseConfig(p.buildDSN(cfg))
	if err != nil {
		return nil, err
	}

	// apply defaults
	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle <= 0 {
		cfg.Pool.MaxIdle = 5
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}
	if cfg.Pool.MaxIdleTime == 0 {
		cfg.Pool.MaxIdleTime = 30 * time.Minute
	}

	db := stdlib.OpenDB(*connCfg)
	db.SetMaxOpenConns(cfg.Pool.MaxOpen)
	db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)
	return db, nil
}
