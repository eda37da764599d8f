package dialect

import "errors"

// UpsertStyle selects how an update-else-insert statement is rendered.
type UpsertStyle int

const (
	// UpsertRowCount renders UPDATE ... IF (@@ROWCOUNT = 0) BEGIN INSERT ... END.
	UpsertRowCount UpsertStyle = iota
	// UpsertMerge renders MERGE INTO ... WHEN MATCHED / WHEN NOT MATCHED.
	UpsertMerge
)

// ProcedureStyle selects how a stored procedure call is rendered.
type ProcedureStyle int

const (
	ProcedureExec ProcedureStyle = iota // EXEC proc @A = @A0
	ProcedureCall                       // CALL proc($1)
)

type Dialect interface {
	Name() string
	QuoteIdentifier(name string) string
	QualifyTable(schema, name string) string
	// Column renders a column reference in SET, INSERT and predicate lists.
	Column(name string) string
	// Placeholder renders the parameter name at its 1-based position within
	// one command.
	Placeholder(name string, position int) string
	// Arg wraps a parameter value for binding.
	Arg(name string, value any) any
	DefaultSchema() string
	// MultiStatement reports whether several parameterised statements can be
	// sent as one command.
	MultiStatement() bool
	UpsertStyle() UpsertStyle
	ProcedureStyle() ProcedureStyle
	// IsIdentityConflict reports whether err is the vendor error raised when an
	// explicit value is written to an identity column.
	IsIdentityConflict(err error) bool
}

// For returns the dialect registered for a driver name.
func For(driver string) (Dialect, bool) {
	switch driver {
	case "sqlserver", "mssql":
		return NewSQLServerDialect(), true
	case "postgres", "pgx":
		return NewPostgresDialect(), true
	default:
		return nil, false
	}
}

func asError[T any](err error) (T, bool) {
	var zero T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return zero, false
}
