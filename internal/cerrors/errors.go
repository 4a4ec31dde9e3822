// Package cerrors defines the compiler's error kinds. They live in an
// internal package, not the root one, because all three passes need to
// construct them and the root package imports the passes, not the other
// way around; the root package re-exports these as its own public types,
// the way the teacher's root package re-exports internal/types.
package cerrors

import (
	"fmt"
	"strings"

	"github.com/boxsql/boxsql/internal/types"
)

// Kind identifies one of the nine error shapes a compile can fail with.
type Kind int

const (
	IllFormed Kind = iota
	UndefinedName
	UndefinedHandle
	UnexpectedScalarType
	UnexpectedRowType
	AmbiguousName
	AmbiguousHandle
	AmbiguousAggregate
	UnexpectedAggregate
)

func (k Kind) String() string {
	switch k {
	case IllFormed:
		return "IllFormed"
	case UndefinedName:
		return "UndefinedName"
	case UndefinedHandle:
		return "UndefinedHandle"
	case UnexpectedScalarType:
		return "UnexpectedScalarType"
	case UnexpectedRowType:
		return "UnexpectedRowType"
	case AmbiguousName:
		return "AmbiguousName"
	case AmbiguousHandle:
		return "AmbiguousHandle"
	case AmbiguousAggregate:
		return "AmbiguousAggregate"
	case UnexpectedAggregate:
		return "UnexpectedAggregate"
	default:
		return "Unknown"
	}
}

// CompileError is the common shape every error kind below implements, so
// callers can branch on Kind() without a type switch over nine concrete
// types.
type CompileError interface {
	error
	Kind() Kind
	Path() []types.Node
}

// Error is the single concrete type behind every Kind; Name carries the
// offending symbol for the kinds that have one (zero value otherwise).
type Error struct {
	kind Kind
	name types.Symbol
	path []types.Node
}

func New(kind Kind, name types.Symbol, path []types.Node) *Error {
	return &Error{kind: kind, name: name, path: path}
}

func (e *Error) Kind() Kind         { return e.kind }
func (e *Error) Path() []types.Node { return e.path }
func (e *Error) Name() types.Symbol { return e.name }

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s", e.kind)
	if e.name != "" {
		fmt.Fprintf(&b, " %q", string(e.name))
	}
	if len(e.path) > 0 {
		fmt.Fprintf(&b, " at %s", describePath(e.path))
	}
	return b.String()
}

// describePath renders a path leaf-first as a short breadcrumb of node
// kinds, e.g. "Get < Where < Select", good enough for a human reading a
// returned error without reaching for a debugger.
func describePath(path []types.Node) string {
	names := make([]string, len(path))
	for i, n := range path {
		names[i] = kindName(n)
	}
	return strings.Join(names, " < ")
}

func kindName(n types.Node) string {
	switch n.(type) {
	case *types.FromNode:
		return "From"
	case *types.SelectNode:
		return "Select"
	case *types.WhereNode:
		return "Where"
	case *types.JoinNode:
		return "Join"
	case *types.GroupNode:
		return "Group"
	case *types.PartitionNode:
		return "Partition"
	case *types.AppendNode:
		return "Append"
	case *types.AsNode:
		return "As"
	case *types.DefineNode:
		return "Define"
	case *types.OrderNode:
		return "Order"
	case *types.LimitNode:
		return "Limit"
	case *types.HighlightNode:
		return "Highlight"
	case *types.BindNode:
		return "Bind"
	case *types.GetNode:
		return "Get"
	case *types.FunNode:
		return "Fun"
	case *types.AggNode:
		return "Agg"
	case *types.LiteralNode:
		return "Literal"
	case *types.VariableNode:
		return "Variable"
	case *types.SortNode:
		return "Sort"
	case *types.BoxNode:
		return "Box"
	case *types.ExtendedJoinNode:
		return "ExtendedJoin"
	case *types.ExtendedBindNode:
		return "ExtendedBind"
	case *types.NameBoundNode:
		return "NameBound"
	case *types.HandleBoundNode:
		return "HandleBound"
	default:
		return "?"
	}
}

func IllFormedErr(path []types.Node) *Error {
	return New(IllFormed, "", path)
}

func UndefinedNameErr(name types.Symbol, path []types.Node) *Error {
	return New(UndefinedName, name, path)
}

func UndefinedHandleErr(path []types.Node) *Error {
	return New(UndefinedHandle, "", path)
}

func UnexpectedScalarTypeErr(name types.Symbol, path []types.Node) *Error {
	return New(UnexpectedScalarType, name, path)
}

func UnexpectedRowTypeErr(name types.Symbol, path []types.Node) *Error {
	return New(UnexpectedRowType, name, path)
}

func AmbiguousNameErr(name types.Symbol, path []types.Node) *Error {
	return New(AmbiguousName, name, path)
}

func AmbiguousHandleErr(path []types.Node) *Error {
	return New(AmbiguousHandle, "", path)
}

func AmbiguousAggregateErr(path []types.Node) *Error {
	return New(AmbiguousAggregate, "", path)
}

func UnexpectedAggregateErr(path []types.Node) *Error {
	return New(UnexpectedAggregate, "", path)
}
