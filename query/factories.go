package query

import "github.com/Konsultn-Engineering/sqlbulk/compiler"

func Insert[T any](r Runner) *Setup[T] {
	return newSetup[T](newTxContext(r), compiler.Insert)
}

func Update[T any](r Runner) *Setup[T] {
	return newSetup[T](newTxContext(r), compiler.Update)
}

func Delete[T any](r Runner) *Setup[T] {
	return newSetup[T](newTxContext(r), compiler.Delete)
}

func Upsert[T any](r Runner) *Setup[T] {
	return newSetup[T](newTxContext(r), compiler.Upsert)
}

// Procedure calls a stored procedure once per entity, passing the selected
// properties as named arguments. WithTable names the procedure.
func Procedure[T any](r Runner) *Setup[T] {
	return newSetup[T](newTxContext(r), compiler.Procedure)
}

// Chain is a stage that further operations can be chained after.
type Chain interface {
	batchContext() *txContext
}

func then[U any](prev Chain, kind compiler.Kind) *Setup[U] {
	ctx := prev.batchContext()
	ctx.flush()
	return newSetup[U](ctx, kind)
}

// ThenDoInsert adds an insert of U to the batch of prev.
func ThenDoInsert[U any](prev Chain) *Setup[U] { return then[U](prev, compiler.Insert) }

func ThenDoUpdate[U any](prev Chain) *Setup[U] { return then[U](prev, compiler.Update) }

func ThenDoDelete[U any](prev Chain) *Setup[U] { return then[U](prev, compiler.Delete) }

func ThenDoUpsert[U any](prev Chain) *Setup[U] { return then[U](prev, compiler.Upsert) }

func ThenDoProcedure[U any](prev Chain) *Setup[U] { return then[U](prev, compiler.Procedure) }
