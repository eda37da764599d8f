package query

import (
	"context"
	"reflect"
	"time"

	"github.com/Konsultn-Engineering/sqlbulk/ast"
	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/compiler"
	"github.com/Konsultn-Engineering/sqlbulk/engine"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
)

// state is one operation of a chain. The staged types below share it.
type state[T any] struct {
	ctx     *txContext
	op      compiler.Operation
	touched bool
	sealed  bool
}

func newState[T any](ctx *txContext, kind compiler.Kind) *state[T] {
	s := &state[T]{
		ctx: ctx,
		op: compiler.Operation{
			Kind:       kind,
			Columns:    compiler.NewColumnSet(),
			Conditions: compiler.NewConditions(),
			Mapping:    compiler.ColumnMapping{},
		},
	}
	meta, err := ctx.runner.Schema().Introspect(reflect.TypeFor[T]())
	if err != nil {
		ctx.AddError(bulkerr.Configuration(kind.String(), err))
	} else {
		s.op.Meta = meta
	}
	ctx.pending = s.compile
	return s
}

func (s *state[T]) mutable(op string) bool {
	if s.sealed || s.ctx.committed {
		s.ctx.AddError(bulkerr.Configurationf(op, bulkerr.ErrInvalidOperation, "%s operation already compiled", s.op.Kind))
		return false
	}
	return true
}

// seed selects every eligible property.
func (s *state[T]) seed() {
	if s.op.Meta == nil {
		return
	}
	for _, f := range s.op.Meta.Eligible() {
		s.op.Columns.Add(f.Name)
	}
}

func (s *state[T]) compile() error {
	s.sealed = true
	if s.op.Meta == nil {
		return nil
	}
	if !s.touched && s.op.Kind != compiler.Delete {
		s.seed()
	}
	return compiler.Compile(s.ctx.batch, s.ctx.runner.Dialect(), &s.op)
}

func (s *state[T]) property(op string, selector func(*T) any) (string, bool) {
	name, err := schema.PropertyOf(selector)
	if err != nil {
		s.ctx.AddError(bulkerr.Configuration(op, err))
		return "", false
	}
	return name, true
}

func (s *state[T]) predicate(role ast.Role, e Expr) {
	op := role.Keyword()
	if !s.mutable(op) || s.op.Meta == nil {
		return
	}
	if e.err != nil {
		s.ctx.AddError(e.err)
		return
	}
	suffix := compiler.DeleteSuffix
	if s.op.Kind != compiler.Delete {
		suffix = compiler.UpdateSuffix
	}
	b := s.ctx.batch
	s.ctx.AddError(compiler.AddPredicate(e.node, role, s.op.Conditions, b.Params(), b.Next(), suffix, s.op.Meta))
}

// Setup is the entry stage of an operation on T.
type Setup[T any] struct{ s *state[T] }

func newSetup[T any](ctx *txContext, kind compiler.Kind) *Setup[T] {
	return &Setup[T]{s: newState[T](ctx, kind)}
}

// ForObject targets one entity. A nil entity makes Update and Delete fail at
// Commit; the other operations commit nothing.
func (b *Setup[T]) ForObject(entity *T) *Object[T] {
	if b.s.mutable("ForObject") && entity != nil {
		b.s.op.Rows = []reflect.Value{reflect.ValueOf(entity)}
	}
	return &Object[T]{s: b.s}
}

// ForCollection targets every entity of items. An empty collection adds
// nothing to the batch.
func (b *Setup[T]) ForCollection(items []T) *Object[T] {
	if b.s.mutable("ForCollection") {
		b.s.op.Collection = true
		b.s.op.Rows = make([]reflect.Value, len(items))
		v := reflect.ValueOf(items)
		for i := range items {
			b.s.op.Rows[i] = v.Index(i)
		}
	}
	return &Object[T]{s: b.s}
}

// Object is the stage after the entity is known.
type Object[T any] struct{ s *state[T] }

// WithTable names the table, or the procedure for a procedure call.
func (o *Object[T]) WithTable(name string) *Table[T] {
	if o.s.mutable("WithTable") {
		o.s.op.Table = name
	}
	return &Table[T]{s: o.s}
}

// InferTable uses the entity's TableName method or the schema naming
// strategy.
func (o *Object[T]) InferTable() *Table[T] {
	if o.s.mutable("InferTable") && o.s.op.Meta != nil {
		o.s.op.Table = o.s.op.Meta.Table
	}
	return &Table[T]{s: o.s}
}

// Table configures columns and the operation.
type Table[T any] struct{ s *state[T] }

func (t *Table[T]) WithSchema(name string) *Table[T] {
	if t.s.mutable("WithSchema") {
		t.s.op.Schema = name
	}
	return t
}

// WithTimeout bounds execution of the whole batch. The last call in a chain
// wins.
func (t *Table[T]) WithTimeout(d time.Duration) *Table[T] {
	if t.s.mutable("WithTimeout") {
		t.s.ctx.timeout = d
	}
	return t
}

// AddColumn selects properties. Without any column call every eligible
// property is selected.
func (t *Table[T]) AddColumn(properties ...string) *Table[T] {
	if t.s.mutable("AddColumn") {
		t.s.touched = true
		for _, p := range properties {
			t.s.op.Columns.Add(p)
		}
	}
	return t
}

func (t *Table[T]) AddColumnOf(selector func(*T) any) *Table[T] {
	if name, ok := t.s.property("AddColumn", selector); ok {
		t.AddColumn(name)
	}
	return t
}

func (t *Table[T]) AddAllColumns() *Table[T] {
	if t.s.mutable("AddAllColumns") {
		t.s.touched = true
		t.s.seed()
	}
	return t
}

// RemoveColumn drops a property from the selection. The first column call
// being a removal starts from every eligible property.
func (t *Table[T]) RemoveColumn(property string) *Table[T] {
	if !t.s.mutable("RemoveColumn") {
		return t
	}
	if !t.s.touched {
		t.s.touched = true
		t.s.seed()
	}
	if err := t.s.op.Columns.Remove(property); err != nil {
		t.s.ctx.AddError(err)
	}
	return t
}

// CustomColumnMapping renders property as column. Struct tags supply the
// defaults.
func (t *Table[T]) CustomColumnMapping(property, column string) *Table[T] {
	if t.s.mutable("CustomColumnMapping") {
		t.s.op.Mapping[property] = column
	}
	return t
}

// SetIdentityColumn excludes property from inserted values. It may be set
// once.
func (t *Table[T]) SetIdentityColumn(property string) *Table[T] {
	if !t.s.mutable("SetIdentityColumn") {
		return t
	}
	if t.s.op.Identity != "" {
		t.s.ctx.AddError(bulkerr.Configurationf("SetIdentityColumn", bulkerr.ErrDuplicateIdentity, "%q already set, got %q", t.s.op.Identity, property))
		return t
	}
	t.s.op.Identity = property
	return t
}

func (t *Table[T]) SetIdentityColumnOf(selector func(*T) any) *Table[T] {
	if name, ok := t.s.property("SetIdentityColumn", selector); ok {
		t.SetIdentityColumn(name)
	}
	return t
}

// MatchTargetOn sets the column rows are matched on. The last call wins.
func (t *Table[T]) MatchTargetOn(property string) *Table[T] {
	if t.s.mutable("MatchTargetOn") {
		t.s.op.Match = property
	}
	return t
}

func (t *Table[T]) MatchTargetOnOf(selector func(*T) any) *Table[T] {
	if name, ok := t.s.property("MatchTargetOn", selector); ok {
		t.MatchTargetOn(name)
	}
	return t
}

// Where starts the filter of an update or delete.
func (t *Table[T]) Where(e Expr) *Filter[T] {
	t.s.predicate(ast.RoleWhere, e)
	return &Filter[T]{s: t.s}
}

func (t *Table[T]) Commit(ctx context.Context, opts ...engine.CommitOption) (int64, error) {
	return t.s.ctx.commit(ctx, opts)
}

// ToSQL compiles the chain so far and returns its template and parameters
// without executing. The operation can no longer be changed afterwards.
func (t *Table[T]) ToSQL() (string, []batch.Param, error) {
	return t.s.ctx.toSQL()
}

func (t *Table[T]) batchContext() *txContext { return t.s.ctx }

// Filter adds conditions after Where. Conditions render in call order.
type Filter[T any] struct{ s *state[T] }

func (f *Filter[T]) And(e Expr) *Filter[T] {
	f.s.predicate(ast.RoleAnd, e)
	return f
}

func (f *Filter[T]) Or(e Expr) *Filter[T] {
	f.s.predicate(ast.RoleOr, e)
	return f
}

func (f *Filter[T]) Commit(ctx context.Context, opts ...engine.CommitOption) (int64, error) {
	return f.s.ctx.commit(ctx, opts)
}

func (f *Filter[T]) ToSQL() (string, []batch.Param, error) {
	return f.s.ctx.toSQL()
}

func (f *Filter[T]) batchContext() *txContext { return f.s.ctx }
