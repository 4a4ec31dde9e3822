package types

// GetNode navigates from Over by Name. A bare column reference has Over
// nil; a chained reference Get(Get(:a),:b) or Get(tabularQ,:b) is rewritten
// by the annotator's rebind into NameBound/HandleBound before resolution
// ever sees it, so by the time the linker walks the annotated tree every
// surviving GetNode is a single-step field access.
type GetNode struct {
	Over Node
	Name Symbol
}

func (*GetNode) isNode()   {}
func (*GetNode) isScalar() {}

// FunNode applies a named scalar function (an operator, in the common
// case) to Args.
type FunNode struct {
	Name Symbol
	Args []Node // scalar
}

func (*FunNode) isNode()   {}
func (*FunNode) isScalar() {}

// AggNode is an aggregate call, valid only where a Group or Partition base
// is in scope. In a user tree Over carries an outer navigation chain (a Get
// chain or a tabular node); the annotator's rebind strips it and wraps the
// aggregate in NameBound/HandleBound instead, so in the annotated tree Over
// is always nil.
type AggNode struct {
	Name   Symbol
	Args   []Node // scalar
	Filter Node   // scalar, nilable
	Over   Node
}

func (*AggNode) isNode()   {}
func (*AggNode) isScalar() {}

// LiteralNode is a constant value baked into the query.
type LiteralNode struct {
	Value any
}

func (*LiteralNode) isNode()   {}
func (*LiteralNode) isScalar() {}

// VariableNode is a late-bound placeholder (a query parameter).
type VariableNode struct {
	Name Symbol
}

func (*VariableNode) isNode()   {}
func (*VariableNode) isScalar() {}

// SortNode wraps a scalar expression with a sort direction; it appears
// inside Order.By / Partition.OrderBy and is transparent to gather.
type SortNode struct {
	Over Node // scalar
	Dir  Direction
}

func (*SortNode) isNode()   {}
func (*SortNode) isScalar() {}

// --- middle-end-only scalar nodes ---

// NameBoundNode is the rebind of Get(over=Get(:a), name=:b): Name is the
// outer navigation field (:a), Over is the base being rebound (Get(:b)).
type NameBoundNode struct {
	Over Node
	Name Symbol
}

func (*NameBoundNode) isNode()   {}
func (*NameBoundNode) isScalar() {}

// HandleBoundNode is the rebind of Get(over=tabularQ, name=:b): Handle
// identifies tabularQ, Over carries the (possibly further-chained) field
// navigation (:b) that continues inside it.
type HandleBoundNode struct {
	Over   Node
	Handle Handle
}

func (*HandleBoundNode) isNode()   {}
func (*HandleBoundNode) isScalar() {}

// ScalarOver returns the input of a scalar node that has one, or nil. Get,
// Agg, NameBound, HandleBound, and Sort all carry an Over slot; Fun's
// children live in Args instead and Literal/Variable have no input at all.
func ScalarOver(n Node) Node {
	switch t := n.(type) {
	case *GetNode:
		return t.Over
	case *AggNode:
		return t.Over
	case *SortNode:
		return t.Over
	case *NameBoundNode:
		return t.Over
	case *HandleBoundNode:
		return t.Over
	default:
		return nil
	}
}
