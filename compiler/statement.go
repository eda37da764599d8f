package compiler

import (
	"reflect"

	"github.com/Konsultn-Engineering/sqlbulk/ast"
	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/Konsultn-Engineering/sqlbulk/schema"
	"github.com/Konsultn-Engineering/sqlbulk/visitor"
)

type Kind int

const (
	Insert Kind = iota
	Update
	Delete
	Upsert
	Procedure
)

func (k Kind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Update:
		return "update"
	case Delete:
		return "delete"
	case Upsert:
		return "upsert"
	case Procedure:
		return "procedure"
	default:
		return "unknown"
	}
}

// Operation is everything a staged builder collected for one statement
// group. Rows holds one struct value per entity; Table holds the procedure
// name for Procedure.
type Operation struct {
	Kind       Kind
	Meta       *schema.EntityMeta
	Rows       []reflect.Value
	Collection bool
	Schema     string
	Table      string
	Columns    *ColumnSet
	Mapping    ColumnMapping
	Conditions *Conditions
	Identity   string
	Match      string
}

// Compile validates op, binds its parameters and appends its statements to b.
// An empty collection appends nothing, as does a missing entity on a single
// insert, upsert or procedure call. A single update or delete without an
// entity is ErrNoEntity.
func Compile(b *batch.Batch, d dialect.Dialect, op *Operation) error {
	if op.Columns == nil {
		op.Columns = NewColumnSet()
	}
	if op.Conditions == nil {
		op.Conditions = NewConditions()
	}
	if err := op.validate(); err != nil {
		return err
	}
	if len(op.Rows) == 0 {
		return nil
	}

	mapping := op.mapping()
	DoColumnMappings(mapping, op.Columns, op.Conditions)
	if err := checkDistinctColumns(op.Columns); err != nil {
		return err
	}

	c := &stmtCompiler{
		batch:   b,
		op:      op,
		mapping: mapping,
		table:   ast.NewTable(op.Schema, op.Table, b.Table(op.Schema, op.Table)),
	}

	var nodes []ast.Node
	var err error
	switch op.Kind {
	case Insert:
		nodes, err = c.insert()
	case Update:
		nodes, err = c.update()
	case Delete:
		nodes, err = c.delete()
	case Upsert:
		nodes, err = c.upsert()
	case Procedure:
		nodes, err = c.procedure()
	}
	if err != nil {
		return err
	}

	v := visitor.NewSQLVisitor(d)
	for _, n := range nodes {
		stmt, err := v.Build(n)
		if err != nil {
			return err
		}
		b.Append(stmt)
	}
	return nil
}

func (op *Operation) mapping() ColumnMapping {
	m := ColumnMapping(op.Meta.TagMappings())
	for k, v := range op.Mapping {
		m[k] = v
	}
	return m
}

func (op *Operation) validate() error {
	name := op.Kind.String()
	if op.Meta == nil {
		return bulkerr.Configuration(name, bulkerr.ErrNoEntity)
	}
	if op.Table == "" {
		return bulkerr.Configuration(name, bulkerr.ErrNoTable)
	}
	if !op.Collection && len(op.Rows) == 0 && (op.Kind == Update || op.Kind == Delete) {
		return bulkerr.Configuration(name, bulkerr.ErrNoEntity)
	}

	for _, p := range append(op.Columns.Properties(), op.Identity, op.Match) {
		if p == "" {
			continue
		}
		if _, ok := op.Meta.Property(p); !ok {
			return bulkerr.Configurationf(name, bulkerr.ErrUnknownProperty, "%s has no property %q", op.Meta.Name, p)
		}
	}

	switch op.Kind {
	case Insert, Update, Upsert, Procedure:
		if op.Columns.Len() == 0 {
			return bulkerr.Configuration(name, bulkerr.ErrNoColumns)
		}
	}

	switch op.Kind {
	case Insert, Upsert, Procedure:
		if op.Conditions.Len() > 0 {
			return bulkerr.Configurationf(name, bulkerr.ErrInvalidOperation, "%s does not take a filter", name)
		}
	}

	switch {
	case op.Kind == Upsert && op.Match == "":
		return bulkerr.Configuration(name, bulkerr.ErrMissingMatchTarget)
	case op.Collection && (op.Kind == Update || op.Kind == Delete):
		if op.Match == "" {
			return bulkerr.Configurationf(name, bulkerr.ErrMissingMatchTarget, "collection %s matches rows on a column", name)
		}
		if op.Conditions.Len() > 0 {
			return bulkerr.Configurationf(name, bulkerr.ErrInvalidOperation, "collection %s does not take a filter", name)
		}
	case op.Match != "" && op.Conditions.Len() > 0:
		return bulkerr.Configurationf(name, bulkerr.ErrInvalidOperation, "use either a match target or a filter")
	}

	return op.Conditions.Validate()
}

func checkDistinctColumns(cols *ColumnSet) error {
	seen := make(map[string]string, cols.Len())
	for _, e := range cols.Entries() {
		if prev, ok := seen[e.Column]; ok {
			return bulkerr.Configurationf("CustomColumnMapping", bulkerr.ErrInvalidOperation,
				"properties %q and %q both map to column %q", prev, e.Property, e.Column)
		}
		seen[e.Column] = e.Property
	}
	return nil
}

type stmtCompiler struct {
	batch   *batch.Batch
	op      *Operation
	mapping ColumnMapping
	table   *ast.Table
}

func (c *stmtCompiler) params() *batch.ParamSet { return c.batch.Params() }

func (c *stmtCompiler) insert() ([]ast.Node, error) {
	entries := c.op.Columns.Without(c.op.Identity)
	if len(entries) == 0 {
		return nil, bulkerr.Configurationf("insert", bulkerr.ErrNoColumns, "only the identity column was selected")
	}

	rows := make([][]*ast.Param, 0, len(c.op.Rows))
	for _, row := range c.op.Rows {
		ps, err := AddQueryParams(c.params(), entries, c.op.Meta, row, c.batch.Next())
		if err != nil {
			return nil, err
		}
		rows = append(rows, ps)
	}
	return []ast.Node{BuildInsertIntoSet(c.table, c.op.Columns, c.op.Identity, BuildValueSet(rows...))}, nil
}

func (c *stmtCompiler) update() ([]ast.Node, error) {
	entries := c.op.Columns.Without(c.op.Identity, c.op.Match)
	if len(entries) == 0 {
		return nil, bulkerr.Configurationf("update", bulkerr.ErrNoColumns, "no updatable columns")
	}

	nodes := make([]ast.Node, 0, len(c.op.Rows))
	for _, row := range c.op.Rows {
		n := c.batch.Next()
		assigns, err := AddUpdateQueryParams(c.params(), entries, c.op.Meta, row, n)
		if err != nil {
			return nil, err
		}
		where, err := c.filter(row, n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ast.UpdateStmt{Table: c.table, Set: &ast.SetClause{Assignments: assigns}, Where: where})
	}
	return nodes, nil
}

func (c *stmtCompiler) delete() ([]ast.Node, error) {
	nodes := make([]ast.Node, 0, len(c.op.Rows))
	for _, row := range c.op.Rows {
		n := -1
		if c.op.Match != "" {
			n = c.batch.Next()
		}
		where, err := c.filter(row, n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ast.DeleteStmt{Table: c.table, Where: where})
	}
	return nodes, nil
}

// filter is the match condition when a match target is set, else the
// authored conditions (possibly none).
func (c *stmtCompiler) filter(row reflect.Value, n int) (*ast.WhereClause, error) {
	if c.op.Match == "" {
		return BuildPredicateQuery(c.op.Conditions), nil
	}
	match, err := c.matchCondition(row, n)
	if err != nil {
		return nil, err
	}
	return ast.NewWhereClause([]*ast.Condition{match}), nil
}

func (c *stmtCompiler) upsert() ([]ast.Node, error) {
	insertEntries := c.op.Columns.Without(c.op.Identity)
	setEntries := c.op.Columns.Without(c.op.Identity, c.op.Match)
	if len(insertEntries) == 0 || len(setEntries) == 0 {
		return nil, bulkerr.Configurationf("upsert", bulkerr.ErrNoColumns, "no columns left after excluding identity and match target")
	}

	nodes := make([]ast.Node, 0, len(c.op.Rows))
	for _, row := range c.op.Rows {
		n := c.batch.Next()
		values, err := AddQueryParams(c.params(), insertEntries, c.op.Meta, row, n)
		if err != nil {
			return nil, err
		}
		match, err := c.matchCondition(row, n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ast.UpsertStmt{
			Table:   c.table,
			Set:     BuildUpdateSet(c.op.Columns, n, c.op.Identity, c.op.Match),
			Match:   match,
			Columns: columnList(insertEntries),
			Values:  BuildValueSet(values),
		})
	}
	return nodes, nil
}

func (c *stmtCompiler) procedure() ([]ast.Node, error) {
	entries := c.op.Columns.Entries()
	nodes := make([]ast.Node, 0, len(c.op.Rows))
	for _, row := range c.op.Rows {
		ps, err := AddQueryParams(c.params(), entries, c.op.Meta, row, c.batch.Next())
		if err != nil {
			return nil, err
		}
		call := &ast.ProcCall{Proc: c.table, Args: make([]ast.ProcArg, len(entries))}
		for i, e := range entries {
			call.Args[i] = ast.ProcArg{Name: paramBase(columnOf(e)), Value: ps[i]}
		}
		nodes = append(nodes, call)
	}
	return nodes, nil
}

// matchCondition builds [match] = @match<n>, reusing the row parameter when
// the match column is also inserted.
func (c *stmtCompiler) matchCondition(row reflect.Value, n int) (*ast.Condition, error) {
	column := c.mapping.Column(c.op.Match)
	name := ParamName(column, n)
	if !c.params().Has(name) {
		if _, err := bindProperty(c.params(), c.op.Meta, row, c.op.Match, column, n); err != nil {
			return nil, err
		}
	}
	return &ast.Condition{
		Role:     ast.RoleWhere,
		Property: c.op.Match,
		Column:   &ast.Column{Name: column, Quoted: true},
		Operator: ast.OpEqual,
		Param:    ast.NewParam(name),
	}, nil
}
