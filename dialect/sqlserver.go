package dialect

import (
	"database/sql"
	"strings"
)

// identityInsertConflict is SQL Server error 544: cannot insert explicit
// value for identity column when IDENTITY_INSERT is OFF.
const identityInsertConflict = 544

// errorNumberer is implemented by mssql.Error.
type errorNumberer interface {
	SQLErrorNumber() int32
}

type SQLServer struct{}

func NewSQLServerDialect() Dialect {
	return &SQLServer{}
}

func (SQLServer) Name() string { return "sqlserver" }

func (SQLServer) QuoteIdentifier(name string) string {
	return "[" + strings.ReplaceAll(name, "]", "]]") + "]"
}

func (s SQLServer) QualifyTable(schema, name string) string {
	if schema == "" {
		schema = s.DefaultSchema()
	}
	return s.QuoteIdentifier(schema) + "." + s.QuoteIdentifier(name)
}

// Column renders plain column names bare. Names that are T-SQL reserved
// words or contain anything but letters, digits and underscores are
// bracketed.
func (s SQLServer) Column(name string) string {
	if isPlainIdentifier(name) && !tsqlReserved[strings.ToUpper(name)] {
		return name
	}
	return s.QuoteIdentifier(name)
}

func isPlainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

var tsqlReserved = map[string]bool{
	"ADD": true, "ALL": true, "ALTER": true, "AND": true, "ANY": true, "AS": true,
	"ASC": true, "BEGIN": true, "BETWEEN": true, "BY": true, "CASE": true, "CHECK": true,
	"COLUMN": true, "CONSTRAINT": true, "CREATE": true, "CROSS": true, "CURRENT": true,
	"DATABASE": true, "DEFAULT": true, "DELETE": true, "DESC": true, "DISTINCT": true,
	"DROP": true, "ELSE": true, "END": true, "EXEC": true, "EXECUTE": true, "EXISTS": true,
	"FILE": true, "FOREIGN": true, "FROM": true, "FULL": true, "FUNCTION": true,
	"GROUP": true, "HAVING": true, "IDENTITY": true, "IF": true, "IN": true, "INDEX": true,
	"INNER": true, "INSERT": true, "INTO": true, "IS": true, "JOIN": true, "KEY": true,
	"LEFT": true, "LIKE": true, "MERGE": true, "NOT": true, "NULL": true, "OF": true,
	"ON": true, "OPEN": true, "OR": true, "ORDER": true, "OUTER": true, "PERCENT": true,
	"PLAN": true, "PRIMARY": true, "PROCEDURE": true, "PUBLIC": true, "REFERENCES": true,
	"RIGHT": true, "ROWCOUNT": true, "RULE": true, "SCHEMA": true, "SELECT": true,
	"SET": true, "TABLE": true, "THEN": true, "TO": true, "TOP": true, "TRAN": true,
	"TRANSACTION": true, "TRIGGER": true, "UNION": true, "UNIQUE": true, "UPDATE": true,
	"USER": true, "VALUES": true, "VIEW": true, "WHEN": true, "WHERE": true, "WITH": true,
}

func (SQLServer) Placeholder(name string, _ int) string {
	return "@" + name
}

func (SQLServer) Arg(name string, value any) any {
	return sql.Named(name, value)
}

func (SQLServer) DefaultSchema() string          { return "dbo" }
func (SQLServer) MultiStatement() bool           { return true }
func (SQLServer) UpsertStyle() UpsertStyle       { return UpsertRowCount }
func (SQLServer) ProcedureStyle() ProcedureStyle { return ProcedureExec }

func (SQLServer) IsIdentityConflict(err error) bool {
	if e, ok := asError[errorNumberer](err); ok {
		return e.SQLErrorNumber() == identityInsertConflict
	}
	return false
}
