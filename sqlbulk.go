// Package sqlbulk builds and runs bulk insert, update, delete, upsert and
// stored procedure batches against SQL Server and Postgres.
//
//	db, err := sqlbulk.Open("connections.yaml")
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
//	first := sqlbulk.Insert[Person](db).ForObject(&p).WithTable("Person").SetIdentityColumn("Id")
//	rows, err := sqlbulk.ThenDoDelete[Order](first).
//		ForObject(&Order{}).
//		WithTable("Orders").
//		Where(sqlbulk.Col("Status").Eq("Closed")).
//		And(sqlbulk.Col("Age").Gt(30)).
//		Commit(ctx)
//
// Drivers register themselves on import:
//
//	import _ "github.com/Konsultn-Engineering/sqlbulk/providers/sqlserver"
package sqlbulk

import (
	"github.com/Konsultn-Engineering/sqlbulk/connector"
	"github.com/Konsultn-Engineering/sqlbulk/dialect"
	"github.com/Konsultn-Engineering/sqlbulk/engine"
	"github.com/Konsultn-Engineering/sqlbulk/query"
)

// DB is an engine over the named connections of one configuration file.
type DB struct {
	*engine.Engine
	registry *connector.Registry
}

// Open loads a YAML connection file. The dialect follows the driver of the
// default connection unless an engine.WithDialect option overrides it.
// No connection is opened until the first commit.
func Open(path string, opts ...engine.Option) (*DB, error) {
	f, err := connector.Load(path)
	if err != nil {
		return nil, err
	}
	return OpenFile(f, opts...), nil
}

// OpenFile is Open for an already parsed configuration.
func OpenFile(f *connector.File, opts ...engine.Option) *DB {
	reg := connector.NewRegistry(f)
	if driver, ok := reg.Driver(""); ok {
		if d, ok := dialect.For(driver); ok {
			opts = append([]engine.Option{engine.WithDialect(d)}, opts...)
		}
	}
	return &DB{Engine: engine.New(reg, opts...), registry: reg}
}

func (db *DB) Registry() *connector.Registry { return db.registry }

// Close closes the pools opened from configuration.
func (db *DB) Close() error { return db.registry.Close() }

// New builds an engine over any resolver.
func New(resolver engine.Resolver, opts ...engine.Option) *engine.Engine {
	return engine.New(resolver, opts...)
}

func Insert[T any](r query.Runner) *query.Setup[T]    { return query.Insert[T](r) }
func Update[T any](r query.Runner) *query.Setup[T]    { return query.Update[T](r) }
func Delete[T any](r query.Runner) *query.Setup[T]    { return query.Delete[T](r) }
func Upsert[T any](r query.Runner) *query.Setup[T]    { return query.Upsert[T](r) }
func Procedure[T any](r query.Runner) *query.Setup[T] { return query.Procedure[T](r) }

func ThenDoInsert[U any](prev query.Chain) *query.Setup[U] { return query.ThenDoInsert[U](prev) }
func ThenDoUpdate[U any](prev query.Chain) *query.Setup[U] { return query.ThenDoUpdate[U](prev) }
func ThenDoDelete[U any](prev query.Chain) *query.Setup[U] { return query.ThenDoDelete[U](prev) }
func ThenDoUpsert[U any](prev query.Chain) *query.Setup[U] { return query.ThenDoUpsert[U](prev) }

func ThenDoProcedure[U any](prev query.Chain) *query.Setup[U] {
	return query.ThenDoProcedure[U](prev)
}

// Col starts a filter on a property.
func Col(property string) *query.ColumnBuilder { return query.Col(property) }

// ColOf starts a filter on the property a selector returns.
func ColOf[T any](selector func(*T) any) *query.ColumnBuilder { return query.ColOf(selector) }
