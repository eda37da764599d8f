package ast

import "sort"

// WhereClause holds conditions rendered in ascending sort order.
type WhereClause struct {
	Conditions []*Condition
}

func NewWhereClause(conds []*Condition) *WhereClause {
	return &WhereClause{Conditions: conds}
}

func (w *WhereClause) Type() NodeType         { return NodeWhere }
func (w *WhereClause) Accept(v Visitor) error { return v.VisitWhereClause(w) }

// Ordered returns a copy of the conditions sorted by sort order.
func (w *WhereClause) Ordered() []*Condition {
	if w == nil {
		return nil
	}
	out := make([]*Condition, len(w.Conditions))
	copy(out, w.Conditions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}

func (w *WhereClause) Empty() bool {
	return w == nil || len(w.Conditions) == 0
}
