package ast

type InsertStmt struct {
	Table   *Table
	Columns []*Column
	Values  *ValuesClause
}

func (i *InsertStmt) Type() NodeType         { return NodeInsert }
func (i *InsertStmt) Accept(v Visitor) error { return v.VisitInsert(i) }
