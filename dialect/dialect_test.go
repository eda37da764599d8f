package dialect

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	mssql "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"
)

func TestSQLServerRendering(t *testing.T) {
	d := NewSQLServerDialect()

	assert.Equal(t, "[dbo].[Person]", d.QualifyTable("", "Person"))
	assert.Equal(t, "[sales].[Orders]", d.QualifyTable("sales", "Orders"))
	assert.Equal(t, "[odd]]name]", d.QuoteIdentifier("odd]name"))
	assert.Equal(t, "Name", d.Column("Name"))
	assert.Equal(t, "Address1", d.Column("Address1"))
	assert.Equal(t, "[Order]", d.Column("Order"))
	assert.Equal(t, "[key]", d.Column("key"))
	assert.Equal(t, "[first name]", d.Column("first name"))
	assert.Equal(t, "[1st]", d.Column("1st"))
	assert.Equal(t, "@Name0", d.Placeholder("Name0", 3))
	assert.Equal(t, sql.Named("Name0", "A"), d.Arg("Name0", "A"))
	assert.True(t, d.MultiStatement())
}

func TestPostgresRendering(t *testing.T) {
	d := NewPostgresDialect()

	assert.Equal(t, `"public"."person"`, d.QualifyTable("", "person"))
	assert.Equal(t, `"Name"`, d.Column("Name"))
	assert.Equal(t, "$3", d.Placeholder("Name0", 3))
	assert.Equal(t, "A", d.Arg("Name0", "A"))
	assert.False(t, d.MultiStatement())
	assert.Equal(t, UpsertMerge, d.UpsertStyle())
}

func TestIsIdentityConflict(t *testing.T) {
	ss := NewSQLServerDialect()
	pg := NewPostgresDialect()

	identity := mssql.Error{Number: 544, Message: "Cannot insert explicit value for identity column"}
	other := mssql.Error{Number: 2627, Message: "Violation of PRIMARY KEY constraint"}

	assert.True(t, ss.IsIdentityConflict(identity))
	assert.True(t, ss.IsIdentityConflict(fmt.Errorf("exec: %w", identity)))
	assert.False(t, ss.IsIdentityConflict(other))
	assert.False(t, ss.IsIdentityConflict(errors.New("544")))

	assert.True(t, pg.IsIdentityConflict(&pgconn.PgError{Code: "428C9"}))
	assert.False(t, pg.IsIdentityConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, pg.IsIdentityConflict(identity))
}

func TestFor(t *testing.T) {
	d, ok := For("mssql")
	assert.True(t, ok)
	assert.Equal(t, "sqlserver", d.Name())

	d, ok = For("pgx")
	assert.True(t, ok)
	assert.Equal(t, "postgres", d.Name())

	_, ok = For("oracle")
	assert.False(t, ok)
}
