// Package engine executes compiled batches inside a single transaction and
// classifies the failures.
//
// Ownership follows what the caller supplies at commit:
//
//   - a *sql.Tx: statements run on it; the caller commits or rolls back
//   - a *sql.Conn: the engine begins, commits or rolls back its own tx
//   - neither: the engine resolves a pool by connection name, takes a
//     dedicated connection and owns both it and the tx
package engine

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/connector"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
)

// DefaultTimeout bounds statement execution when no timeout is configured.
const DefaultTimeout = 600 * time.Second

// Resolver maps a logical connection name to a pool.
// *connector.Registry satisfies it.
type Resolver interface {
	DB(ctx context.Context, name string, cred *connector.Credentials) (*sql.DB, error)
}

type Engine struct {
	resolver   Resolver
	dialect    dialect.Dialect
	schema     *schema.Context
	logger     *slog.Logger
	timeout    time.Duration
	connection string
}

type Option func(*Engine)

func WithDialect(d dialect.Dialect) Option {
	return func(e *Engine) {
		if d != nil {
			e.dialect = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithDefaultTimeout sets the execution timeout used when a commit does not
// supply one. Zero or negative disables it.
func WithDefaultTimeout(d time.Duration) Option {
	return func(e *Engine) { e.timeout = d }
}

// WithConnectionName sets the connection resolved when a commit names none.
func WithConnectionName(name string) Option {
	return func(e *Engine) { e.connection = name }
}

func WithSchema(s *schema.Context) Option {
	return func(e *Engine) {
		if s != nil {
			e.schema = s
		}
	}
}

func New(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		dialect:  dialect.NewSQLServerDialect(),
		logger:   slog.Default(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.schema == nil {
		e.schema = schema.New()
	}
	return e
}

func (e *Engine) Dialect() dialect.Dialect { return e.dialect }
func (e *Engine) Schema() *schema.Context  { return e.schema }
func (e *Engine) Logger() *slog.Logger     { return e.logger }
