package ast

// ProcArg binds a procedure argument name to a batch parameter.
type ProcArg struct {
	Name  string
	Value *Param
}

type ProcCall struct {
	Proc *Table
	Args []ProcArg
}

func (p *ProcCall) Type() NodeType         { return NodeProcCall }
func (p *ProcCall) Accept(v Visitor) error { return v.VisitProcCall(p) }
