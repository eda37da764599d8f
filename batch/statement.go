package batch

import (
	"strings"

	"github.com/Konsultn-Engineering/sqlbulk/dialect"
)

type PartKind uint8

const (
	PartText PartKind = iota
	PartColumn
	PartIdent
	PartTable
	PartParam
)

// Part is one token of a statement. Text holds literal SQL, a column or
// identifier name, or a parameter name; Ref holds the table index.
type Part struct {
	Kind PartKind
	Text string
	Ref  int
}

// Statement is a dialect-neutral statement fragment. Identifiers, tables and
// parameters stay symbolic until the batch is rendered.
type Statement struct {
	parts []Part
}

func NewStatement() *Statement {
	return &Statement{parts: make([]Part, 0, 16)}
}

func (s *Statement) Text(sql string) *Statement {
	if n := len(s.parts); n > 0 && s.parts[n-1].Kind == PartText {
		s.parts[n-1].Text += sql
		return s
	}
	s.parts = append(s.parts, Part{Kind: PartText, Text: sql})
	return s
}

func (s *Statement) Column(name string) *Statement {
	s.parts = append(s.parts, Part{Kind: PartColumn, Text: name})
	return s
}

func (s *Statement) Ident(name string) *Statement {
	s.parts = append(s.parts, Part{Kind: PartIdent, Text: name})
	return s
}

func (s *Statement) Table(ref int) *Statement {
	s.parts = append(s.parts, Part{Kind: PartTable, Ref: ref})
	return s
}

func (s *Statement) Param(name string) *Statement {
	s.parts = append(s.parts, Part{Kind: PartParam, Text: name})
	return s
}

func (s *Statement) Parts() []Part {
	return s.parts
}

func (s *Statement) Empty() bool {
	for _, p := range s.parts {
		if p.Kind != PartText || strings.TrimSpace(p.Text) != "" {
			return false
		}
	}
	return true
}

// SQL renders the statement on its own, resolving table references with table.
func (s *Statement) SQL(d dialect.Dialect, table func(ref int) string) string {
	sql, _ := render(d, s, make(map[string]int), table)
	return sql
}
