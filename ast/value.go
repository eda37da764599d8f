package ast

// Value is a literal captured by a predicate expression.
type Value struct {
	Val any
}

func NewValue(val any) *Value {
	return &Value{Val: val}
}

func (v *Value) Type() NodeType           { return NodeValue }
func (v *Value) Accept(vis Visitor) error { return vis.VisitValue(v) }

// IsNull reports whether the literal is SQL NULL.
func (v *Value) IsNull() bool {
	return v == nil || v.Val == nil
}
