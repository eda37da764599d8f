package ast

// Column names an entity property before column mappings are applied and the
// SQL column afterwards. Quoted columns are rendered as dialect identifiers.
type Column struct {
	Name   string
	Quoted bool
}

func NewColumn(name string) *Column {
	return &Column{Name: name}
}

func (c *Column) Type() NodeType { return NodeColumn }

func (c *Column) Accept(v Visitor) error { return v.VisitColumn(c) }
