// Package sqlserver registers the "sqlserver" connector provider backed by
// go-mssqldb.
package sqlserver

import (
	"context"
	"database/sql"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/connector"
	mssql "github.com/microsoft/go-mssqldb"
)

type Provider struct{}

func init() {
	connector.Register("sqlserver", &Provider{})
	connector.Register("mssql", &Provider{})
}

func (p *Provider) buildDSN(cfg connector.Config) string {
	port := cfg.Port
	if port == 0 {
		port = 1433
	}
	b := connector.NewDSNBuilder("sqlserver").
		Auth(cfg.Username, cfg.Password).
		Host(cfg.Host, port).
		Param("database", cfg.Database).
		Params(cfg.Params)
	if cfg.SSLMode == "disable" {
		b.Param("encrypt", "disable")
	}
	return b.WithSQLServerDefaults().Build()
}

func (p *Provider) Open(ctx context.Context, cfg connector.Config) (*sql.DB, error) {
	conn, err := mssql.NewConnector(p.buildDSN(cfg))
	if err != nil {
		return nil, err
	}

	if cfg.Pool.MaxOpen <= 0 {
		cfg.Pool.MaxOpen = 10
	}
	if cfg.Pool.MaxIdle <= 0 {
		cfg.Pool.MaxIdle = 5
	}
	if cfg.Pool.MaxLifetime == 0 {
		cfg.Pool.MaxLifetime = time.Hour
	}

	db := sql.OpenDB(conn)
	db.SetMaxOpenConns(cfg.Pool.MaxOpen)
	db.SetMaxIdleConns(cfg.Pool.MaxIdle)
	db.SetConnMaxLifetime(cfg.Pool.MaxLifetime)
	if cfg.Pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.Pool.MaxIdleTime)
	}
	return db, nil
}
