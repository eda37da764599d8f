package ast

// Assignment is one column = @param pair of a SET clause.
type Assignment struct {
	Column *Column
	Value  *Param
}

type SetClause struct {
	Assignments []Assignment
}

func (s *SetClause) Type() NodeType         { return NodeSet }
func (s *SetClause) Accept(v Visitor) error { return v.VisitSetClause(s) }

// ValuesClause is one or more parenthesised parameter tuples.
type ValuesClause struct {
	Rows [][]*Param
}

func (vc *ValuesClause) Type() NodeType         { return NodeValues }
func (vc *ValuesClause) Accept(v Visitor) error { return v.VisitValuesClause(vc) }
