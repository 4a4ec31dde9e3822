package types

// Operator names the common scalar comparison functions a Fun node may
// carry. These are a convenience vocabulary for building Fun nodes in tests
// and in a future surface layer; the resolver and linker never switch on
// Operator itself, only on node kind.
type Operator Symbol

const (
	// Basic comparison operators.
	EQ Operator = "="
	NE Operator = "!="
	GT Operator = ">"
	GE Operator = ">="
	LT Operator = "<"
	LE Operator = "<="

	// Extended operators.
	IN        Operator = "IN"
	NotIn     Operator = "NOT IN"
	LIKE      Operator = "LIKE"
	NotLike   Operator = "NOT LIKE"
	IsNull    Operator = "IS NULL"
	IsNotNull Operator = "IS NOT NULL"
	EXISTS    Operator = "EXISTS"
	NotExists Operator = "NOT EXISTS"

	// Boolean connectives.
	AndOp Operator = "AND"
	OrOp  Operator = "OR"
	NotOp Operator = "NOT"
)

// Direction represents sort direction for Order and Partition.
type Direction string

const (
	ASC  Direction = "ASC"
	DESC Direction = "DESC"
)
