// Package batch holds the transaction batch: the ordered statements of one
// commit, the parameters they share and the tables they reference.
package batch

import (
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// statementSeparator joins statements sent as one command.
const statementSeparator = "; "

type TableRef struct {
	Schema string
	Name   string
}

// Command is one physical command ready for ExecContext.
type Command struct {
	SQL  string
	Args []any
}

type Batch struct {
	id         ulid.ULID
	token      string
	params     *ParamSet
	tables     []TableRef
	tableIndex map[TableRef]int
	statements []*Statement
	counter    int
}

func New() *Batch {
	return &Batch{
		id:         ulid.Make(),
		token:      uuid.NewString(),
		params:     NewParamSet(),
		tableIndex: make(map[TableRef]int),
	}
}

// ID identifies the batch in logs and errors.
func (b *Batch) ID() string { return b.id.String() }

// Token is the placeholder prefix shown for tables in Template.
func (b *Batch) Token() string { return b.token }

func (b *Batch) Params() *ParamSet { return b.params }

// Table returns the reference index for schema.name, registering it once.
func (b *Batch) Table(schema, name string) int {
	ref := TableRef{Schema: schema, Name: name}
	if i, ok := b.tableIndex[ref]; ok {
		return i
	}
	i := len(b.tables)
	b.tables = append(b.tables, ref)
	b.tableIndex[ref] = i
	return i
}

func (b *Batch) Tables() []TableRef { return b.tables }

// Next returns the next value of the batch-wide counter. Every row and every
// predicate consumes one value, which keeps generated parameter names unique
// across chained statements.
func (b *Batch) Next() int {
	n := b.counter
	b.counter++
	return n
}

func (b *Batch) Append(stmts ...*Statement) {
	for _, s := range stmts {
		if s != nil && !s.Empty() {
			b.statements = append(b.statements, s)
		}
	}
}

func (b *Batch) Len() int { return len(b.statements) }

func (b *Batch) Statements() []*Statement { return b.statements }

// Template renders the batch with table placeholders in place of qualified
// names.
func (b *Batch) Template(d dialect.Dialect) string {
	parts := make([]string, len(b.statements))
	for i, s := range b.statements {
		sql, _ := render(d, s, make(map[string]int), b.placeholder)
		parts[i] = sql
	}
	return strings.Join(parts, statementSeparator)
}

func (b *Batch) placeholder(ref int) string {
	return b.token + "_" + strconv.Itoa(ref)
}

// Render resolves tables and parameters for d. Dialects that accept several
// parameterised statements in one command get a single command; the others
// get one command per statement.
func (b *Batch) Render(d dialect.Dialect) ([]Command, error) {
	qualify := func(ref int) string {
		t := b.tables[ref]
		return d.QualifyTable(t.Schema, t.Name)
	}

	if d.MultiStatement() {
		positions := make(map[string]int)
		texts := make([]string, len(b.statements))
		var names []string
		for i, s := range b.statements {
			sql, added := render(d, s, positions, qualify)
			texts[i] = sql
			names = append(names, added...)
		}
		args, err := b.bind(d, names)
		if err != nil {
			return nil, err
		}
		return []Command{{SQL: strings.Join(texts, statementSeparator), Args: args}}, nil
	}

	cmds := make([]Command, 0, len(b.statements))
	for _, s := range b.statements {
		sql, names := render(d, s, make(map[string]int), qualify)
		args, err := b.bind(d, names)
		if err != nil {
			return nil, err
		}
		cmds = append(cmds, Command{SQL: sql, Args: args})
	}
	return cmds, nil
}

// render writes s and returns the parameter names it saw for the first time
// within positions.
func render(d dialect.Dialect, s *Statement, positions map[string]int, table func(int) string) (string, []string) {
	var sb strings.Builder
	var added []string
	for _, p := range s.parts {
		switch p.Kind {
		case PartText:
			sb.WriteString(p.Text)
		case PartColumn:
			sb.WriteString(d.Column(p.Text))
		case PartIdent:
			sb.WriteString(d.QuoteIdentifier(p.Text))
		case PartTable:
			sb.WriteString(table(p.Ref))
		case PartParam:
			pos, ok := positions[p.Text]
			if !ok {
				pos = len(positions) + 1
				positions[p.Text] = pos
				added = append(added, p.Text)
			}
			sb.WriteString(d.Placeholder(p.Text, pos))
		}
	}
	return sb.String(), added
}

func (b *Batch) bind(d dialect.Dialect, names []string) ([]any, error) {
	args := make([]any, 0, len(names))
	for _, name := range names {
		v, ok := b.params.Get(name)
		if !ok {
			return nil, bulkerr.Configurationf("Render", bulkerr.ErrUnknownProperty, "parameter %q is not bound", name)
		}
		args = append(args, d.Arg(name, v))
	}
	return args, nil
}
