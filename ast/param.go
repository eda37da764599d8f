package ast

// Param references a named parameter registered with the batch.
type Param struct {
	Name string
}

func NewParam(name string) *Param {
	return &Param{Name: name}
}

func (p *Param) Type() NodeType         { return NodeParam }
func (p *Param) Accept(v Visitor) error { return v.VisitParam(p) }
