package ast

// BinaryExpr is a comparison authored by the caller, e.g. Status = 'Closed'.
type BinaryExpr struct {
	Left     Node
	Operator string
	Right    Node
}

func NewBinaryExpr(left Node, op string, right Node) *BinaryExpr {
	return &BinaryExpr{Left: left, Operator: op, Right: right}
}

func (b *BinaryExpr) Type() NodeType         { return NodeBinaryExpr }
func (b *BinaryExpr) Accept(v Visitor) error { return v.VisitBinaryExpr(b) }

// UnaryExpr is a postfix test such as IS NULL.
type UnaryExpr struct {
	Operator string
	Operand  Node
}

func NewUnaryExpr(op string, operand Node) *UnaryExpr {
	return &UnaryExpr{Operator: op, Operand: operand}
}

func (u *UnaryExpr) Type() NodeType         { return NodeUnaryExpr }
func (u *UnaryExpr) Accept(v Visitor) error { return v.VisitUnaryExpr(u) }
