package query

import (
	"github.com/Konsultn-Engineering/sqlbulk/ast"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
)

// Col is the fluent entry point for a filter on a property.
func Col(property string) *ColumnBuilder {
	return &ColumnBuilder{name: property}
}

// ColOf names the property through a field selector:
//
//	query.ColOf(func(o *Order) any { return &o.Status }).Eq("Closed")
func ColOf[T any](selector func(*T) any) *ColumnBuilder {
	name, err := schema.PropertyOf(selector)
	if err != nil {
		err = bulkerr.Configuration("ColOf", err)
	}
	return &ColumnBuilder{name: name, err: err}
}

// ColumnBuilder builds comparisons against one property.
type ColumnBuilder struct {
	name string
	err  error
}

func (cb *ColumnBuilder) Build() *ast.Column {
	return ast.NewColumn(cb.name)
}

func (cb *ColumnBuilder) compare(op string, v any) Expr {
	return Expr{node: ast.NewBinaryExpr(cb.Build(), op, ast.NewValue(v)), err: cb.err}
}

// Eq compares for equality; Eq(nil) becomes IS NULL.
func (cb *ColumnBuilder) Eq(v any) Expr { return cb.compare(ast.OpEqual, v) }

// NotEq compares for inequality; NotEq(nil) becomes IS NOT NULL.
func (cb *ColumnBuilder) NotEq(v any) Expr { return cb.compare(ast.OpNotEqualAlt, v) }

func (cb *ColumnBuilder) Gt(v any) Expr      { return cb.compare(ast.OpGreaterThan, v) }
func (cb *ColumnBuilder) Gte(v any) Expr     { return cb.compare(ast.OpGreaterThanOrEqual, v) }
func (cb *ColumnBuilder) Lt(v any) Expr      { return cb.compare(ast.OpLessThan, v) }
func (cb *ColumnBuilder) Lte(v any) Expr     { return cb.compare(ast.OpLessThanOrEqual, v) }
func (cb *ColumnBuilder) Like(v any) Expr    { return cb.compare(ast.OpLike, v) }
func (cb *ColumnBuilder) NotLike(v any) Expr { return cb.compare(ast.OpNotLike, v) }

func (cb *ColumnBuilder) IsNull() Expr {
	return Expr{node: ast.NewUnaryExpr(ast.OpIsNull, cb.Build()), err: cb.err}
}

func (cb *ColumnBuilder) IsNotNull() Expr {
	return Expr{node: ast.NewUnaryExpr(ast.OpIsNotNull, cb.Build()), err: cb.err}
}

// Expr is one filter term ready for Where, And or Or.
type Expr struct {
	node ast.Node
	err  error
}
