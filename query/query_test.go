package query

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Konsultn-Engineering/sqlbulk/batch"
	"github.com/Konsultn-Engineering/sqlbulk/bulkerr"
	"github.com/Konsultn-Engineering/sqlbulk/connector"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/Konsultn-Engineering/sqlbulk/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Person struct {
	Id   int64
	Name string
}

type Order struct {
	Id     int64
	Status string
	Age    int64
}

type Invoice struct {
	Id    int64
	Total float64
}

func (Invoice) TableName() string { return "Invoices" }

func setup(t *testing.T, opts ...engine.Option) (*engine.Engine, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	reg := connector.NewRegistry(nil)
	reg.Attach("", db)
	opts = append([]engine.Option{engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	return engine.New(reg, opts...), mock
}

// unresolvable fails any attempt to open a connection.
func unresolvable() *engine.Engine {
	return engine.New(connector.NewRegistry(nil), engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

// =========================================================================
// End to end
// =========================================================================

func TestUpsertSingleEntity(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE [dbo].[Person] SET Name=@Name0 WHERE [Id] = @Id0 IF (@@ROWCOUNT = 0) BEGIN INSERT INTO [dbo].[Person] (Name) VALUES (@Name0) END").
		WithArgs(sql.Named("Name0", "A"), sql.Named("Id0", int64(1))).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows, err := Upsert[Person](e).
		ForObject(&Person{Id: 1, Name: "A"}).
		WithTable("Person").
		SetIdentityColumn("Id").
		MatchTargetOn("Id").
		Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteWhereAnd(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM [dbo].[Orders] WHERE Status = @Status0 AND Age > @Age1").
		WithArgs(sql.Named("Status0", "Closed"), sql.Named("Age1", int64(30))).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectCommit()

	rows, err := Delete[Order](e).
		ForObject(&Order{}).
		WithTable("Orders").
		Where(Col("Status").Eq("Closed")).
		And(Col("Age").Gt(int64(30))).
		Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateWhereUsesConditionSuffix(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE [dbo].[Orders] SET Age=@Age2 WHERE State = @Status_Condition0 OR State IS NULL").
		WithArgs(sql.Named("Age2", int64(9)), sql.Named("Status_Condition0", "Open")).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	rows, err := Update[Order](e).
		ForObject(&Order{Age: 9}).
		WithTable("Orders").
		AddColumn("Age").
		CustomColumnMapping("Status", "State").
		Where(ColOf(func(o *Order) any { return &o.Status }).Eq("Open")).
		Or(Col("Status").Eq(nil)).
		Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChainAcrossTablesIsOneCommand(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO [dbo].[Person] (Name) VALUES (@Name0); DELETE FROM [sales].[Orders] WHERE Status = @Status1").
		WithArgs(sql.Named("Name0", "A"), sql.Named("Status1", "Closed")).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	first := Insert[Person](e).
		ForObject(&Person{Id: 1, Name: "A"}).
		WithTable("Person").
		SetIdentityColumn("Id")

	rows, err := ThenDoDelete[Order](first).
		ForObject(&Order{}).
		WithTable("Orders").
		WithSchema("sales").
		Where(Col("Status").Eq("Closed")).
		Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChainedParametersStayDistinct(t *testing.T) {
	e := unresolvable()

	first := Insert[Person](e).ForObject(&Person{Name: "A"}).WithTable("Person").SetIdentityColumn("Id")
	second := ThenDoInsert[Person](first).ForObject(&Person{Name: "B"}).WithTable("Person").SetIdentityColumn("Id")
	third := ThenDoUpdate[Person](second).ForObject(&Person{Name: "C"}).WithTable("Person").AddColumn("Name").
		Where(Col("Name").Eq("B"))

	tmpl, params, err := third.ToSQL()
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(tmpl, "; ")+1)

	seen := map[string]bool{}
	for _, p := range params {
		assert.False(t, seen[p.Name], p.Name)
		seen[p.Name] = true
	}
	assert.Equal(t, []batch.Param{
		{Name: "Name0", Value: "A"},
		{Name: "Name1", Value: "B"},
		{Name: "Name_Condition2", Value: "B"},
		{Name: "Name3", Value: "C"},
	}, params)
}

func TestPostgresUpsertUsesMerge(t *testing.T) {
	e, mock := setup(t, engine.WithDialect(dialect.NewPostgresDialect()))

	mock.ExpectBegin()
	mock.ExpectExec(`MERGE INTO "public"."Person" USING (SELECT 1) AS src ON "Id" = $1 WHEN MATCHED THEN UPDATE SET "Name"=$2 WHEN NOT MATCHED THEN INSERT ("Name") VALUES ($2)`).
		WithArgs(int64(7), "A").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := Upsert[Person](e).
		ForObject(&Person{Id: 7, Name: "A"}).
		WithTable("Person").
		AddColumn("Name").
		MatchTargetOnOf(func(p *Person) any { return &p.Id }).
		Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCollectionUpsert(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE [dbo].[Invoices] SET Total=@Total0 WHERE [Id] = @Id0 IF (@@ROWCOUNT = 0) BEGIN INSERT INTO [dbo].[Invoices] (Total) VALUES (@Total0) END; " +
		"UPDATE [dbo].[Invoices] SET Total=@Total1 WHERE [Id] = @Id1 IF (@@ROWCOUNT = 0) BEGIN INSERT INTO [dbo].[Invoices] (Total) VALUES (@Total1) END").
		WithArgs(sql.Named("Total0", 1.5), sql.Named("Id0", int64(1)), sql.Named("Total1", 2.5), sql.Named("Id1", int64(2))).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	rows, err := Upsert[Invoice](e).
		ForCollection([]Invoice{{Id: 1, Total: 1.5}, {Id: 2, Total: 2.5}}).
		InferTable().
		SetIdentityColumnOf(func(i *Invoice) any { return &i.Id }).
		MatchTargetOn("Id").
		Commit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProcedure(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("EXEC [ops].[SavePerson] @Name = @Name0").
		WithArgs(sql.Named("Name0", "A")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := Procedure[Person](e).
		ForObject(&Person{Name: "A"}).
		WithTable("SavePerson").
		WithSchema("ops").
		RemoveColumn("Id").
		Commit(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomColumnMapping(t *testing.T) {
	tmpl, params, err := Insert[Person](unresolvable()).
		ForObject(&Person{Id: 1, Name: "A"}).
		WithTable("Person").
		AddColumn("Name").
		CustomColumnMapping("Name", "FullName").
		ToSQL()
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(tmpl, " (FullName) VALUES (@FullName0)"), tmpl)
	assert.Equal(t, []batch.Param{{Name: "FullName0", Value: "A"}}, params)
}

func TestMatchTargetLastCallWins(t *testing.T) {
	tmpl, _, err := Upsert[Order](unresolvable()).
		ForObject(&Order{Id: 1, Status: "Open"}).
		WithTable("Orders").
		SetIdentityColumn("Id").
		MatchTargetOn("Id").
		MatchTargetOn("Status").
		ToSQL()
	require.NoError(t, err)
	assert.Contains(t, tmpl, "WHERE [Status] = @Status0")
	assert.NotContains(t, tmpl, "[Id]")
}

func TestBuilderTimeoutBoundsCommit(t *testing.T) {
	e, mock := setup(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM [dbo].[Person] WHERE Id = @Id0").
		WillDelayFor(time.Second).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	_, err := Delete[Person](e).
		ForObject(&Person{}).
		WithTable("Person").
		WithTimeout(10 * time.Millisecond).
		Where(Col("Id").Eq(int64(3))).
		Commit(context.Background())
	require.Error(t, err)
	assert.True(t, bulkerr.IsExecution(err))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	require.NoError(t, mock.ExpectationsWereMet())
}

// =========================================================================
// Nothing to do
// =========================================================================

func TestNilEntityIsConfigurationError(t *testing.T) {
	for name, op := range map[string]func() (int64, error){
		"update": func() (int64, error) {
			return Update[Person](unresolvable()).ForObject(nil).WithTable("Person").Commit(context.Background())
		},
		"delete": func() (int64, error) {
			return Delete[Person](unresolvable()).ForObject(nil).WithTable("Person").
				Where(Col("Id").Eq(1)).Commit(context.Background())
		},
	} {
		t.Run(name, func(t *testing.T) {
			rows, err := op()
			assert.Zero(t, rows)
			assert.True(t, errors.Is(err, bulkerr.ErrNoEntity))
			assert.True(t, bulkerr.IsConfiguration(err))
		})
	}
}

func TestNilEntityInsertOrUpsertCommitsNothing(t *testing.T) {
	ctx := context.Background()

	rows, err := Insert[Person](unresolvable()).ForObject(nil).WithTable("Person").Commit(ctx)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = Upsert[Person](unresolvable()).ForObject(nil).WithTable("Person").MatchTargetOn("Id").Commit(ctx)
	require.NoError(t, err)
	assert.Zero(t, rows)
}

func TestEmptyCollectionOpensNoConnection(t *testing.T) {
	rows, err := Upsert[Person](unresolvable()).
		ForCollection(nil).
		WithTable("Person").
		MatchTargetOn("Id").
		Commit(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = Delete[Person](unresolvable()).
		ForCollection([]Person{}).
		WithTable("Person").
		MatchTargetOn("Id").
		Commit(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rows)
}

// =========================================================================
// Builder misuse
// =========================================================================

func TestConfigurationErrors(t *testing.T) {
	ctx := context.Background()
	e := unresolvable()

	tests := []struct {
		name   string
		commit func() (int64, error)
		want   error
	}{
		{"duplicate identity", func() (int64, error) {
			return Insert[Person](e).ForObject(&Person{}).WithTable("Person").
				SetIdentityColumn("Id").SetIdentityColumn("Name").Commit(ctx)
		}, bulkerr.ErrDuplicateIdentity},
		{"remove absent column", func() (int64, error) {
			return Insert[Person](e).ForObject(&Person{}).WithTable("Person").
				AddColumn("Name").RemoveColumn("Id").Commit(ctx)
		}, bulkerr.ErrColumnNotFound},
		{"missing table", func() (int64, error) {
			return Insert[Person](e).ForObject(&Person{}).WithTable("").Commit(ctx)
		}, bulkerr.ErrNoTable},
		{"missing match target", func() (int64, error) {
			return Upsert[Person](e).ForObject(&Person{}).WithTable("Person").Commit(ctx)
		}, bulkerr.ErrMissingMatchTarget},
		{"unknown property", func() (int64, error) {
			return Delete[Person](e).ForObject(&Person{}).WithTable("Person").
				Where(Col("Missing").Eq(1)).Commit(ctx)
		}, bulkerr.ErrUnknownProperty},
		{"second where", func() (int64, error) {
			tbl := Delete[Person](e).ForObject(&Person{}).WithTable("Person")
			tbl.Where(Col("Id").Eq(1))
			return tbl.Where(Col("Name").Eq("A")).Commit(ctx)
		}, bulkerr.ErrMultipleWhere},
		{"filter on insert", func() (int64, error) {
			return Insert[Person](e).ForObject(&Person{}).WithTable("Person").
				Where(Col("Id").Eq(1)).Commit(ctx)
		}, bulkerr.ErrInvalidOperation},
		{"bad selector", func() (int64, error) {
			other := 0
			return Insert[Person](e).ForObject(&Person{}).WithTable("Person").
				AddColumnOf(func(*Person) any { return &other }).Commit(ctx)
		}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := tt.commit()
			require.Error(t, err)
			assert.Zero(t, rows)
			assert.True(t, bulkerr.IsConfiguration(err), err.Error())
			if tt.want != nil {
				assert.True(t, errors.Is(err, tt.want), err.Error())
			}
		})
	}
}

func TestSecondCommitIsRefused(t *testing.T) {
	e, mock := setup(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM [dbo].[Person] WHERE Id = @Id0").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	f := Delete[Person](e).ForObject(&Person{}).WithTable("Person").Where(Col("Id").Eq(int64(3)))
	_, err := f.Commit(context.Background())
	require.NoError(t, err)

	_, err = f.Commit(context.Background())
	assert.True(t, errors.Is(err, bulkerr.ErrAlreadyCommitted))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStageIsSealedAfterChaining(t *testing.T) {
	first := Insert[Person](unresolvable()).ForObject(&Person{Name: "A"}).WithTable("Person")
	next := ThenDoInsert[Person](first)

	first.AddColumn("Name")

	_, err := next.ForObject(&Person{Name: "B"}).WithTable("Person").Commit(context.Background())
	assert.True(t, errors.Is(err, bulkerr.ErrInvalidOperation))
}

func TestExecutionErrorsPassThrough(t *testing.T) {
	e, mock := setup(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM [dbo].[Person] WHERE Id = @Id0").WillReturnError(errors.New("lock timeout"))
	mock.ExpectRollback()

	_, err := Delete[Person](e).ForObject(&Person{}).WithTable("Person").
		Where(Col("Id").Eq(int64(3))).
		Commit(context.Background())
	assert.True(t, bulkerr.IsExecution(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
