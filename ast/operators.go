package ast

const (
	OpEqual              = "="
	OpNotEqual           = "!="
	OpNotEqualAlt        = "<>"
	OpLessThan           = "<"
	OpLessThanOrEqual    = "<="
	OpGreaterThan        = ">"
	OpGreaterThanOrEqual = ">="
)

// Logical Operators
const (
	OpAnd = "AND"
	OpOr  = "OR"
)

// Pattern Matching
const (
	OpLike    = "LIKE"
	OpNotLike = "NOT LIKE"
)

// Null Operations
const (
	OpIsNull    = "IS NULL"
	OpIsNotNull = "IS NOT NULL"
)

var comparisonOperators = map[string]struct{}{
	OpEqual:              {},
	OpNotEqual:           {},
	OpNotEqualAlt:        {},
	OpLessThan:           {},
	OpLessThanOrEqual:    {},
	OpGreaterThan:        {},
	OpGreaterThanOrEqual: {},
	OpLike:               {},
	OpNotLike:            {},
}

// IsComparison reports whether op compares a column against a value.
func IsComparison(op string) bool {
	_, ok := comparisonOperators[op]
	return ok
}

// IsNullTest reports whether op is a unary null test.
func IsNullTest(op string) bool {
	return op == OpIsNull || op == OpIsNotNull
}
