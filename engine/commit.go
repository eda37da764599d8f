package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/connector"
)

type commitConfig struct {
	connection string
	cred       *connector.Credentials
	conn       *sql.Conn
	tx         *sql.Tx
	timeout    time.Duration
}

// CommitOption customises a single Exec.
type CommitOption func(*commitConfig)

// WithConnection selects the named connection to resolve.
func WithConnection(name string) CommitOption {
	return func(c *commitConfig) { c.connection = name }
}

func WithCredentials(username, password string) CommitOption {
	return func(c *commitConfig) {
		c.cred = &connector.Credentials{Username: username, Password: password}
	}
}

// WithConn runs the batch on conn in a transaction the engine owns.
// The connection itself is left open.
func WithConn(conn *sql.Conn) CommitOption {
	return func(c *commitConfig) { c.conn = conn }
}

// WithTx runs the batch on tx without committing or rolling it back.
func WithTx(tx *sql.Tx) CommitOption {
	return func(c *commitConfig) { c.tx = tx }
}

func WithTimeout(d time.Duration) CommitOption {
	return func(c *commitConfig) { c.timeout = d }
}

// Exec renders b for the engine's dialect and runs it atomically. It returns
// the total rows affected. An empty batch returns 0 without touching the
// database.
func (e *Engine) Exec(ctx context.Context, b *batch.Batch, opts ...CommitOption) (int64, error) {
	cfg := commitConfig{connection: e.connection, timeout: e.timeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	if b == nil || b.Len() == 0 {
		return 0, nil
	}

	cmds, err := b.Render(e.dialect)
	if err != nil {
		return 0, err
	}

	log := e.logger.With(slog.String("batch", b.ID()))

	if cfg.tx != nil {
		return e.run(ctx, log, b, cmds, cfg.tx, false, cfg.timeout)
	}

	conn := cfg.conn
	if conn == nil {
		db, err := e.resolver.DB(ctx, cfg.connection, cfg.cred)
		if err != nil {
			if bulkerr.IsConfiguration(err) {
				return 0, err
			}
			return 0, &bulkerr.ExecutionError{BatchID: b.ID(), Stage: "connect", Err: err}
		}
		conn, err = db.Conn(ctx)
		if err != nil {
			return 0, &bulkerr.ExecutionError{BatchID: b.ID(), Stage: "connect", Err: err}
		}
		defer func() {
			if err := conn.Close(); err != nil {
				log.Warn("close connection", slog.Any("error", err))
			}
		}()
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, &bulkerr.ExecutionError{BatchID: b.ID(), Stage: "begin", Err: err}
	}
	return e.run(ctx, log, b, cmds, tx, true, cfg.timeout)
}

func (e *Engine) run(ctx context.Context, log *slog.Logger, b *batch.Batch, cmds []batch.Command, tx *sql.Tx, owned bool, timeout time.Duration) (int64, error) {
	execCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	var total int64
	for _, cmd := range cmds {
		res, err := tx.ExecContext(execCtx, cmd.SQL, cmd.Args...)
		if err != nil {
			// drivers report a cancelled command in their own words
			if ctxErr := execCtx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
				err = fmt.Errorf("%w: %w", ctxErr, err)
			}
			return 0, e.fail(log, b, tx, owned, "exec", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, e.fail(log, b, tx, owned, "rows affected", err)
		}
		total += n
	}

	if owned {
		if err := tx.Commit(); err != nil {
			return 0, &bulkerr.ExecutionError{BatchID: b.ID(), Stage: "commit", Err: err}
		}
	}

	log.Debug("batch executed",
		slog.Int("statements", b.Len()),
		slog.Int("commands", len(cmds)),
		slog.Int("params", b.Params().Len()),
		slog.Int64("rows", total),
		slog.Duration("duration", time.Since(start)),
	)
	return total, nil
}

func (e *Engine) fail(log *slog.Logger, b *batch.Batch, tx *sql.Tx, owned bool, stage string, err error) error {
	if owned {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn("rollback failed", slog.Any("error", rbErr))
		} else {
			log.Warn("batch rolled back", slog.String("stage", stage))
		}
	}

	if e.dialect.IsIdentityConflict(err) {
		log.Error("identity column conflict", slog.Any("error", err))
		return &bulkerr.IdentityConflictError{BatchID: b.ID(), Err: err}
	}
	return &bulkerr.ExecutionError{BatchID: b.ID(), Stage: stage, Err: err}
}
