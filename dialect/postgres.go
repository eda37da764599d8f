package dialect

import (
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgGeneratedAlways is raised when a value is written to a GENERATED ALWAYS
// identity column.
const pgGeneratedAlways = "428C9"

// sqlStateError covers lib/pq style errors that are not *pgconn.PgError.
type sqlStateError interface {
	SQLState() string
}

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) Name() string { return "postgres" }

func (Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (p Postgres) QualifyTable(schema, name string) string {
	if schema == "" {
		schema = p.DefaultSchema()
	}
	return p.QuoteIdentifier(schema) + "." + p.QuoteIdentifier(name)
}

func (p Postgres) Column(name string) string { return p.QuoteIdentifier(name) }

func (Postgres) Placeholder(_ string, position int) string {
	return "$" + strconv.Itoa(position)
}

func (Postgres) Arg(_ string, value any) any { return value }

func (Postgres) DefaultSchema() string          { return "public" }
func (Postgres) MultiStatement() bool           { return false }
func (Postgres) UpsertStyle() UpsertStyle       { return UpsertMerge }
func (Postgres) ProcedureStyle() ProcedureStyle { return ProcedureCall }

func (Postgres) IsIdentityConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgGeneratedAlways
	}
	if e, ok := asError[sqlStateError](err); ok {
		return e.SQLState() == pgGeneratedAlways
	}
	return false
}
