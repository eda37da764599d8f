// Package query is the fluent surface over the compiler and engine. Every
// staged type returned here is a view over one shared transaction context:
// chaining with ThenDo* adds another operation to the same batch, and Commit
// runs the whole batch once.
//
//	rows, err := query.Upsert[Person](eng).
//		ForObject(&p).
//		WithTable("Person").
//		SetIdentityColumn("Id").
//		MatchTargetOn("Id").
//		Commit(ctx)
//
// Builders are not safe for concurrent use.
package query

import (
	"context"
	"errors"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/Konsultn-Engineering/sqlbulk/engine"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
)

// Runner compiles against a dialect and executes batches.
// *engine.Engine satisfies it.
type Runner interface {
	Dialect() dialect.Dialect
	Schema() *schema.Context
	Exec(ctx context.Context, b *batch.Batch, opts ...engine.CommitOption) (int64, error)
}

// txContext is the state shared by every stage of one chain.
type txContext struct {
	runner    Runner
	batch     *batch.Batch
	errors    []error
	pending   func() error
	committed bool
	timeout   time.Duration
}

func newTxContext(r Runner) *txContext {
	return &txContext{
		runner: r,
		batch:  batch.New(),
	}
}

// AddError records a builder error; it is returned from Commit.
func (c *txContext) AddError(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *txContext) HasErrors() bool {
	return len(c.errors) > 0
}

func (c *txContext) Err() error {
	switch len(c.errors) {
	case 0:
		return nil
	case 1:
		return c.errors[0]
	default:
		return errors.Join(c.errors...)
	}
}

// flush compiles the pending operation into the batch.
func (c *txContext) flush() {
	if c.pending == nil {
		return
	}
	compile := c.pending
	c.pending = nil
	c.AddError(compile())
}

func (c *txContext) commit(ctx context.Context, opts []engine.CommitOption) (int64, error) {
	if c.committed {
		return 0, bulkerr.Configuration("Commit", bulkerr.ErrAlreadyCommitted)
	}
	c.committed = true

	c.flush()
	if err := c.Err(); err != nil {
		return 0, err
	}
	if c.timeout > 0 {
		opts = append([]engine.CommitOption{engine.WithTimeout(c.timeout)}, opts...)
	}
	return c.runner.Exec(ctx, c.batch, opts...)
}

func (c *txContext) toSQL() (string, []batch.Param, error) {
	c.flush()
	if err := c.Err(); err != nil {
		return "", nil, err
	}
	return c.batch.Template(c.runner.Dialect()), c.batch.Params().All(), nil
}
