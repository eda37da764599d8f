package ast

// Table is a table or routine reference. Ref is the batch-local index the
// batch resolves to a qualified name at render time.
type Table struct {
	Schema string
	Name   string
	Ref    int
}

func NewTable(schema, name string, ref int) *Table {
	return &Table{Schema: schema, Name: name, Ref: ref}
}

func (t *Table) Type() NodeType         { return NodeTable }
func (t *Table) Accept(v Visitor) error { return v.VisitTable(t) }
