package ast

// Role is the logical position of a condition in a WHERE clause.
type Role int

const (
	RoleWhere Role = iota
	RoleAnd
	RoleOr
)

// Keyword returns the SQL keyword emitted before the condition.
func (r Role) Keyword() string {
	switch r {
	case RoleAnd:
		return OpAnd
	case RoleOr:
		return OpOr
	default:
		return "WHERE"
	}
}

func (r Role) String() string { return r.Keyword() }

// Condition is one compiled filter term. Property keeps the authored name;
// Column carries the mapped SQL column. Param is nil for null tests.
type Condition struct {
	Role      Role
	Property  string
	Column    *Column
	Operator  string
	Param     *Param
	SortOrder int
}

func (c *Condition) Type() NodeType         { return NodeCondition }
func (c *Condition) Accept(v Visitor) error { return v.VisitCondition(c) }
