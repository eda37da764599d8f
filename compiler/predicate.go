package compiler

import (
	"github.com/Konsultn-Engineering/sqlbulk/ast"
	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
)

// Suffixes keep predicate parameters apart from SET parameters of the same
// property.
const (
	DeleteSuffix = ""
	UpdateSuffix = "_Condition"
)

// Conditions is the filter list of one operation.
type Conditions struct {
	items  []*ast.Condition
	mapped bool
}

func NewConditions() *Conditions {
	return &Conditions{}
}

func (c *Conditions) Items() []*ast.Condition { return c.items }

func (c *Conditions) Len() int { return len(c.items) }

func (c *Conditions) Mapped() bool { return c.mapped }

func (c *Conditions) applyMapping(m ColumnMapping) {
	if c.mapped {
		return
	}
	for _, cond := range c.items {
		cond.Column.Name = m.Column(cond.Property)
	}
	c.mapped = true
}

// Validate checks that a non-empty list has exactly one Where condition and
// that it sorts first.
func (c *Conditions) Validate() error {
	if len(c.items) == 0 {
		return nil
	}
	var where *ast.Condition
	lowest := c.items[0].SortOrder
	for _, cond := range c.items {
		if cond.SortOrder < lowest {
			lowest = cond.SortOrder
		}
		if cond.Role != ast.RoleWhere {
			continue
		}
		if where != nil {
			return bulkerr.Configuration("Where", bulkerr.ErrMultipleWhere)
		}
		where = cond
	}
	if where == nil || where.SortOrder != lowest {
		return bulkerr.Configurationf("Where", bulkerr.ErrInvalidOperation, "And/Or must follow Where")
	}
	return nil
}

// AddPredicate compiles one comparison of a property against a value into a
// condition appended to target, binding the value as a parameter named
// <property><uniqueSuffix><sortOrder>. Comparisons against nil become null
// tests and bind nothing.
func AddPredicate(expr ast.Node, role ast.Role, target *Conditions, params *batch.ParamSet, sortOrder int, uniqueSuffix string, meta *schema.EntityMeta) error {
	column, op, value, err := reduce(expr)
	if err != nil {
		return err
	}
	if _, ok := meta.Property(column.Name); !ok {
		return bulkerr.Configurationf("Where", bulkerr.ErrUnknownProperty, "%s has no property %q", meta.Name, column.Name)
	}
	if role == ast.RoleWhere {
		for _, c := range target.items {
			if c.Role == ast.RoleWhere {
				return bulkerr.Configuration("Where", bulkerr.ErrMultipleWhere)
			}
		}
	}

	cond := &ast.Condition{
		Role:      role,
		Property:  column.Name,
		Column:    &ast.Column{Name: column.Name},
		Operator:  op,
		SortOrder: sortOrder,
	}
	if !ast.IsNullTest(op) {
		name := indexedName(paramBase(column.Name)+uniqueSuffix, sortOrder)
		if err := params.Add(name, value.Val); err != nil {
			return err
		}
		cond.Param = ast.NewParam(name)
	}

	target.items = append(target.items, cond)
	target.mapped = false
	return nil
}

func reduce(expr ast.Node) (*ast.Column, string, *ast.Value, error) {
	switch e := expr.(type) {
	case *ast.BinaryExpr:
		col, ok := e.Left.(*ast.Column)
		if !ok {
			return nil, "", nil, unsupported("left side must be a property")
		}
		val, ok := e.Right.(*ast.Value)
		if !ok {
			return nil, "", nil, unsupported("right side must be a value")
		}
		if !ast.IsComparison(e.Operator) {
			return nil, "", nil, unsupported("operator " + e.Operator)
		}
		if val.IsNull() {
			switch e.Operator {
			case ast.OpEqual:
				return col, ast.OpIsNull, nil, nil
			case ast.OpNotEqual, ast.OpNotEqualAlt:
				return col, ast.OpIsNotNull, nil, nil
			default:
				return nil, "", nil, unsupported("operator " + e.Operator + " against NULL")
			}
		}
		return col, e.Operator, val, nil
	case *ast.UnaryExpr:
		col, ok := e.Operand.(*ast.Column)
		if !ok || !ast.IsNullTest(e.Operator) {
			return nil, "", nil, unsupported("unary " + e.Operator)
		}
		return col, e.Operator, nil, nil
	case nil:
		return nil, "", nil, unsupported("nil expression")
	default:
		return nil, "", nil, unsupported("expression type")
	}
}

func unsupported(detail string) error {
	return bulkerr.Configurationf("Where", bulkerr.ErrUnsupportedPredicate, "%s", detail)
}

// BuildPredicateQuery returns conds as a WHERE clause node that renders as
// WHERE c1 AND c2 OR c3 in sort order. No conditions give an empty clause,
// which renders as nothing and applies the statement to every row.
func BuildPredicateQuery(conds *Conditions) *ast.WhereClause {
	if conds == nil {
		return ast.NewWhereClause(nil)
	}
	return ast.NewWhereClause(conds.items)
}
