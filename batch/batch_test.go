package batch

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func upsertFixture(t *testing.T) *Batch {
	t.Helper()
	b := New()
	ref := b.Table("", "Person")
	n := b.Next()
	require.Equal(t, 0, n)
	require.NoError(t, b.Params().Add("Name0", "A"))
	require.NoError(t, b.Params().Add("Id0", int64(1)))

	s := NewStatement().
		Text("UPDATE ").Table(ref).Text(" SET ").Column("Name").Text("=").Param("Name0").
		Text(" WHERE ").Ident("Id").Text(" = ").Param("Id0").
		Text(" IF (@@ROWCOUNT = 0) BEGIN INSERT INTO ").Table(ref).Text(" (").Column("Name").
		Text(") VALUES (").Param("Name0").Text(") END")
	b.Append(s)
	return b
}

func TestParamSetRejectsDuplicates(t *testing.T) {
	ps := NewParamSet()
	require.NoError(t, ps.Add("Name0", "A"))

	err := ps.Add("Name0", "B")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bulkerr.ErrDuplicateParameter))
	assert.True(t, bulkerr.IsConfiguration(err))

	v, ok := ps.Get("Name0")
	assert.True(t, ok)
	assert.Equal(t, "A", v)
	assert.Equal(t, []Param{{Name: "Name0", Value: "A"}}, ps.All())
}

func TestTableRefsAreDeduplicated(t *testing.T) {
	b := New()
	a := b.Table("", "Person")
	o := b.Table("sales", "Orders")
	again := b.Table("", "Person")

	assert.Equal(t, 0, a)
	assert.Equal(t, 1, o)
	assert.Equal(t, a, again)
	assert.Len(t, b.Tables(), 2)
}

func TestCounterIsMonotonic(t *testing.T) {
	b := New()
	for i := 0; i < 5; i++ {
		assert.Equal(t, i, b.Next())
	}
}

func TestTemplateUsesPlaceholderToken(t *testing.T) {
	b := upsertFixture(t)
	ph := b.Token() + "_0"

	assert.Equal(t,
		"UPDATE "+ph+" SET Name=@Name0 WHERE [Id] = @Id0 IF (@@ROWCOUNT = 0) BEGIN INSERT INTO "+ph+" (Name) VALUES (@Name0) END",
		b.Template(dialect.NewSQLServerDialect()))
}

func TestRenderSQLServerSingleCommand(t *testing.T) {
	b := upsertFixture(t)
	ref := b.Table("", "Orders")
	require.NoError(t, b.Params().Add("Status1", "Closed"))
	b.Append(NewStatement().Text("DELETE FROM ").Table(ref).Text(" WHERE ").Column("Status").Text(" = ").Param("Status1"))

	cmds, err := b.Render(dialect.NewSQLServerDialect())
	require.NoError(t, err)
	require.Len(t, cmds, 1)

	assert.Equal(t,
		"UPDATE [dbo].[Person] SET Name=@Name0 WHERE [Id] = @Id0 IF (@@ROWCOUNT = 0) BEGIN INSERT INTO [dbo].[Person] (Name) VALUES (@Name0) END; "+
			"DELETE FROM [dbo].[Orders] WHERE Status = @Status1",
		cmds[0].SQL)
	assert.Equal(t, []any{
		sql.Named("Name0", "A"),
		sql.Named("Id0", int64(1)),
		sql.Named("Status1", "Closed"),
	}, cmds[0].Args)
}

func TestRenderPostgresCommandPerStatement(t *testing.T) {
	b := upsertFixture(t)
	ref := b.Table("", "Orders")
	require.NoError(t, b.Params().Add("Status1", "Closed"))
	b.Append(NewStatement().Text("DELETE FROM ").Table(ref).Text(" WHERE ").Column("Status").Text(" = ").Param("Status1"))

	cmds, err := b.Render(dialect.NewPostgresDialect())
	require.NoError(t, err)
	require.Len(t, cmds, 2)

	assert.Equal(t, `UPDATE "public"."Person" SET "Name"=$1 WHERE "Id" = $2 IF (@@ROWCOUNT = 0) BEGIN INSERT INTO "public"."Person" ("Name") VALUES ($1) END`, cmds[0].SQL)
	assert.Equal(t, []any{"A", int64(1)}, cmds[0].Args)
	assert.Equal(t, `DELETE FROM "public"."Orders" WHERE "Status" = $1`, cmds[1].SQL)
	assert.Equal(t, []any{"Closed"}, cmds[1].Args)
}

func TestRenderUnboundParameter(t *testing.T) {
	b := New()
	ref := b.Table("", "Person")
	b.Append(NewStatement().Text("DELETE FROM ").Table(ref).Text(" WHERE ").Column("Id").Text(" = ").Param("Id0"))

	_, err := b.Render(dialect.NewSQLServerDialect())
	require.Error(t, err)
	assert.True(t, bulkerr.IsConfiguration(err))
}

func TestAppendSkipsEmptyStatements(t *testing.T) {
	b := New()
	b.Append(nil, NewStatement(), NewStatement().Text("  "))
	assert.Equal(t, 0, b.Len())
}
