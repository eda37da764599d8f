package ast

type Visitor interface {
	VisitInsert(*InsertStmt) error
	VisitUpdate(*UpdateStmt) error
	VisitDelete(*DeleteStmt) error
	VisitUpsert(*UpsertStmt) error
	VisitProcCall(*ProcCall) error

	VisitColumn(*Column) error
	VisitTable(*Table) error
	VisitValue(*Value) error
	VisitParam(*Param) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitUnaryExpr(*UnaryExpr) error

	VisitCondition(*Condition) error
	VisitWhereClause(*WhereClause) error
	VisitSetClause(*SetClause) error
	VisitValuesClause(*ValuesClause) error
}
