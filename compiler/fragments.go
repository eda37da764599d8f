package compiler

import (
	"github.com/Konsultn-Engineering/sqlbulk/ast"
)

// BuildUpdateSet returns SET a=@a<n>, b=@b<n> for cols minus exclude,
// typically the identity and match columns. The parameters must already be
// bound for row n.
func BuildUpdateSet(cols *ColumnSet, n int, exclude ...string) *ast.SetClause {
	entries := cols.Without(exclude...)
	set := &ast.SetClause{Assignments: make([]ast.Assignment, 0, len(entries))}
	for _, e := range entries {
		set.Assignments = append(set.Assignments, ast.Assignment{
			Column: ast.NewColumn(columnOf(e)),
			Value:  ast.NewParam(ParamName(columnOf(e), n)),
		})
	}
	return set
}

// BuildInsertIntoSet returns INSERT INTO <table> (a, b) VALUES ... with the
// identity column left out of the column list.
func BuildInsertIntoSet(table *ast.Table, cols *ColumnSet, identity string, values *ast.ValuesClause) *ast.InsertStmt {
	return &ast.InsertStmt{Table: table, Columns: columnList(cols.Without(identity)), Values: values}
}

// BuildValueSet joins bound row tuples into one VALUES clause.
func BuildValueSet(rows ...[]*ast.Param) *ast.ValuesClause {
	return &ast.ValuesClause{Rows: rows}
}
