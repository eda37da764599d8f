package visitor

import (
	"fmt"

	"github.com/Konsultn-Engineering/sqlbulk/ast"
	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
)

// SQLVisitor renders statement nodes into a batch statement. Tables,
// identifiers and parameters stay symbolic; the dialect only decides the
// shape of dialect-specific statements such as upserts.
type SQLVisitor struct {
	stmt    *batch.Statement
	dialect dialect.Dialect
}

func NewSQLVisitor(d dialect.Dialect) *SQLVisitor {
	return &SQLVisitor{stmt: batch.NewStatement(), dialect: d}
}

// Build renders root into a fresh statement.
func (v *SQLVisitor) Build(root ast.Node) (*batch.Statement, error) {
	v.stmt = batch.NewStatement()
	if err := root.Accept(v); err != nil {
		return nil, err
	}
	return v.stmt, nil
}

func (v *SQLVisitor) VisitInsert(s *ast.InsertStmt) error {
	v.stmt.Text("INSERT INTO ")
	if err := s.Table.Accept(v); err != nil {
		return err
	}
	if err := v.columnList(s.Columns); err != nil {
		return err
	}
	v.stmt.Text(" ")
	return s.Values.Accept(v)
}

func (v *SQLVisitor) VisitUpdate(s *ast.UpdateStmt) error {
	v.stmt.Text("UPDATE ")
	if err := s.Table.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" ")
	if err := s.Set.Accept(v); err != nil {
		return err
	}
	if s.Where.Empty() {
		return nil
	}
	v.stmt.Text(" ")
	return s.Where.Accept(v)
}

func (v *SQLVisitor) VisitDelete(s *ast.DeleteStmt) error {
	v.stmt.Text("DELETE FROM ")
	if err := s.Table.Accept(v); err != nil {
		return err
	}
	if s.Where.Empty() {
		return nil
	}
	v.stmt.Text(" ")
	return s.Where.Accept(v)
}

func (v *SQLVisitor) VisitUpsert(s *ast.UpsertStmt) error {
	switch v.dialect.UpsertStyle() {
	case dialect.UpsertMerge:
		return v.mergeUpsert(s)
	default:
		return v.rowCountUpsert(s)
	}
}

// UPDATE t SET ... WHERE [m] = @m IF (@@ROWCOUNT = 0) BEGIN INSERT INTO t (...) VALUES (...) END
func (v *SQLVisitor) rowCountUpsert(s *ast.UpsertStmt) error {
	update := &ast.UpdateStmt{Table: s.Table, Set: s.Set, Where: ast.NewWhereClause([]*ast.Condition{s.Match})}
	if err := update.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" IF (@@ROWCOUNT = 0) BEGIN ")
	insert := &ast.InsertStmt{Table: s.Table, Columns: s.Columns, Values: s.Values}
	if err := insert.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" END")
	return nil
}

// MERGE INTO t USING (SELECT 1) AS src ON m = $1 WHEN MATCHED THEN UPDATE SET ...
// WHEN NOT MATCHED THEN INSERT (...) VALUES (...)
func (v *SQLVisitor) mergeUpsert(s *ast.UpsertStmt) error {
	v.stmt.Text("MERGE INTO ")
	if err := s.Table.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" USING (SELECT 1) AS src ON ")
	if err := s.Match.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" WHEN MATCHED THEN UPDATE ")
	if err := s.Set.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" WHEN NOT MATCHED THEN INSERT")
	if err := v.columnList(s.Columns); err != nil {
		return err
	}
	v.stmt.Text(" ")
	return s.Values.Accept(v)
}

func (v *SQLVisitor) VisitProcCall(p *ast.ProcCall) error {
	if v.dialect.ProcedureStyle() == dialect.ProcedureCall {
		v.stmt.Text("CALL ")
		if err := p.Proc.Accept(v); err != nil {
			return err
		}
		v.stmt.Text("(")
		for i, arg := range p.Args {
			if i > 0 {
				v.stmt.Text(", ")
			}
			if err := arg.Value.Accept(v); err != nil {
				return err
			}
		}
		v.stmt.Text(")")
		return nil
	}

	v.stmt.Text("EXEC ")
	if err := p.Proc.Accept(v); err != nil {
		return err
	}
	for i, arg := range p.Args {
		if i > 0 {
			v.stmt.Text(",")
		}
		v.stmt.Text(" @" + arg.Name + " = ")
		if err := arg.Value.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitColumn(c *ast.Column) error {
	if c.Quoted {
		v.stmt.Ident(c.Name)
	} else {
		v.stmt.Column(c.Name)
	}
	return nil
}

func (v *SQLVisitor) VisitTable(t *ast.Table) error {
	v.stmt.Table(t.Ref)
	return nil
}

func (v *SQLVisitor) VisitParam(p *ast.Param) error {
	v.stmt.Param(p.Name)
	return nil
}

// Literals never reach rendered SQL; predicates are compiled to parameters first.
func (v *SQLVisitor) VisitValue(val *ast.Value) error {
	return fmt.Errorf("visitor: literal %v must be bound as a parameter", val.Val)
}

func (v *SQLVisitor) VisitBinaryExpr(b *ast.BinaryExpr) error {
	return fmt.Errorf("visitor: uncompiled expression %q", b.Operator)
}

func (v *SQLVisitor) VisitUnaryExpr(u *ast.UnaryExpr) error {
	return fmt.Errorf("visitor: uncompiled expression %q", u.Operator)
}

func (v *SQLVisitor) VisitCondition(c *ast.Condition) error {
	if err := c.Column.Accept(v); err != nil {
		return err
	}
	v.stmt.Text(" " + c.Operator)
	if c.Param == nil {
		return nil
	}
	v.stmt.Text(" ")
	return c.Param.Accept(v)
}

func (v *SQLVisitor) VisitWhereClause(w *ast.WhereClause) error {
	for i, c := range w.Ordered() {
		if i == 0 {
			v.stmt.Text("WHERE ")
		} else {
			v.stmt.Text(" " + c.Role.Keyword() + " ")
		}
		if err := c.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitSetClause(s *ast.SetClause) error {
	v.stmt.Text("SET ")
	for i, a := range s.Assignments {
		if i > 0 {
			v.stmt.Text(", ")
		}
		if err := a.Column.Accept(v); err != nil {
			return err
		}
		v.stmt.Text("=")
		if err := a.Value.Accept(v); err != nil {
			return err
		}
	}
	return nil
}

func (v *SQLVisitor) VisitValuesClause(vc *ast.ValuesClause) error {
	v.stmt.Text("VALUES ")
	for i, row := range vc.Rows {
		if i > 0 {
			v.stmt.Text(", ")
		}
		v.stmt.Text("(")
		for j, p := range row {
			if j > 0 {
				v.stmt.Text(", ")
			}
			if err := p.Accept(v); err != nil {
				return err
			}
		}
		v.stmt.Text(")")
	}
	return nil
}

func (v *SQLVisitor) columnList(cols []*ast.Column) error {
	v.stmt.Text(" (")
	for i, c := range cols {
		if i > 0 {
			v.stmt.Text(", ")
		}
		if err := c.Accept(v); err != nil {
			return err
		}
	}
	v.stmt.Text(")")
	return nil
}
