package connector

import (
	"context"
	"database/sql"
)

// Provider opens a pooled *sql.DB for a driver.
type Provider interface {
	Open(ctx context.Context, config Config) (*sql.DB, error)
}
