package ast

// UpsertStmt updates the row matched on Match and inserts it when no row
// was updated.
type UpsertStmt struct {
	Table   *Table
	Set     *SetClause
	Match   *Condition
	Columns []*Column
	Values  *ValuesClause
}

func (u *UpsertStmt) Type() NodeType         { return NodeUpsert }
func (u *UpsertStmt) Accept(v Visitor) error { return v.VisitUpsert(u) }
