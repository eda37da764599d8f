package ast

type NodeType int

const (
	NodeInsert NodeType = iota
	NodeUpdate
	NodeDelete
	NodeUpsert
	NodeProcCall
	NodeColumn
	NodeTable
	NodeValue
	NodeParam
	NodeBinaryExpr
	NodeUnaryExpr
	NodeCondition
	NodeWhere
	NodeSet
	NodeValues
)

type Node interface {
	Type() NodeType
	Accept(v Visitor) error
}
