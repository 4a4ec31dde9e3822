package boxsql

import (
	"errors"

	"github.com/boxsql/boxsql/internal/cerrors"
	"github.com/boxsql/boxsql/internal/types"
)

// ErrorKind identifies which of spec.md 7's nine shapes a CompileError is.
type ErrorKind = cerrors.Kind

const (
	KindIllFormed            = cerrors.IllFormed
	KindUndefinedName        = cerrors.UndefinedName
	KindUndefinedHandle      = cerrors.UndefinedHandle
	KindUnexpectedScalarType = cerrors.UnexpectedScalarType
	KindUnexpectedRowType    = cerrors.UnexpectedRowType
	KindAmbiguousName        = cerrors.AmbiguousName
	KindAmbiguousHandle      = cerrors.AmbiguousHandle
	KindAmbiguousAggregate   = cerrors.AmbiguousAggregate
	KindUnexpectedAggregate  = cerrors.UnexpectedAggregate
)

// CompileError is the shape every error Compile can return implements: a
// kind to switch on and the user-visible path (leaf first) to the
// offending expression.
type CompileError interface {
	error
	Kind() ErrorKind
	Path() []types.Node
}

// Concrete error types, one per spec.md 7 kind. Each is a thin wrapper
// around the internal representation so callers can type-assert to a
// specific kind without reaching into internal/cerrors themselves.

// IllFormedError means the annotator saw a node in an impossible context:
// a scalar-only node in tabular position, or a Get chain that ends at a
// node which is neither a Get nor tabular.
type IllFormedError struct{ Err *cerrors.Error }

// UndefinedNameError means a NameBound or Get navigated through a field
// name absent from the row it was checked against.
type UndefinedNameError struct{ Err *cerrors.Error }

// UndefinedHandleError means a HandleBound addressed a handle absent both
// from the enclosing box's handle map and from every box in the tree.
type UndefinedHandleError struct{ Err *cerrors.Error }

// UnexpectedScalarTypeError means navigation expected a nested row but
// found a plain column (or, for Group, a Get that reaches it and isn't a
// group key — see SPEC_FULL.md's resolved Open Question).
type UnexpectedScalarTypeError struct{ Err *cerrors.Error }

// UnexpectedRowTypeError means a Get expected a scalar column but found a
// nested row field.
type UnexpectedRowTypeError struct{ Err *cerrors.Error }

// AmbiguousNameError means validation reached a name a join or append
// left ambiguous.
type AmbiguousNameError struct{ Err *cerrors.Error }

// AmbiguousHandleError means validation reached a handle two merged
// boxes both claimed.
type AmbiguousHandleError struct{ Err *cerrors.Error }

// AmbiguousAggregateError means an Agg reached a group base two branches
// disagree on.
type AmbiguousAggregateError struct{ Err *cerrors.Error }

// UnexpectedAggregateError means an Agg was used where no Group or
// Partition is in scope.
type UnexpectedAggregateError struct{ Err *cerrors.Error }

func (e *IllFormedError) Error() string         { return e.Err.Error() }
func (e *IllFormedError) Kind() ErrorKind       { return e.Err.Kind() }
func (e *IllFormedError) Path() []types.Node    { return e.Err.Path() }

func (e *UndefinedNameError) Error() string      { return e.Err.Error() }
func (e *UndefinedNameError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *UndefinedNameError) Path() []types.Node { return e.Err.Path() }

func (e *UndefinedHandleError) Error() string      { return e.Err.Error() }
func (e *UndefinedHandleError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *UndefinedHandleError) Path() []types.Node { return e.Err.Path() }

func (e *UnexpectedScalarTypeError) Error() string      { return e.Err.Error() }
func (e *UnexpectedScalarTypeError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *UnexpectedScalarTypeError) Path() []types.Node { return e.Err.Path() }

func (e *UnexpectedRowTypeError) Error() string      { return e.Err.Error() }
func (e *UnexpectedRowTypeError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *UnexpectedRowTypeError) Path() []types.Node { return e.Err.Path() }

func (e *AmbiguousNameError) Error() string      { return e.Err.Error() }
func (e *AmbiguousNameError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *AmbiguousNameError) Path() []types.Node { return e.Err.Path() }

func (e *AmbiguousHandleError) Error() string      { return e.Err.Error() }
func (e *AmbiguousHandleError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *AmbiguousHandleError) Path() []types.Node { return e.Err.Path() }

func (e *AmbiguousAggregateError) Error() string      { return e.Err.Error() }
func (e *AmbiguousAggregateError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *AmbiguousAggregateError) Path() []types.Node { return e.Err.Path() }

func (e *UnexpectedAggregateError) Error() string      { return e.Err.Error() }
func (e *UnexpectedAggregateError) Kind() ErrorKind    { return e.Err.Kind() }
func (e *UnexpectedAggregateError) Path() []types.Node { return e.Err.Path() }

// wrapError converts an *cerrors.Error into the matching concrete public
// type, so a caller doing errors.As(err, &someCompileError) gets the kind
// they expect rather than always unwrapping to the same struct.
func wrapError(err error) error {
	var ce *cerrors.Error
	if !errors.As(err, &ce) {
		return err
	}
	switch ce.Kind() {
	case cerrors.IllFormed:
		return &IllFormedError{Err: ce}
	case cerrors.UndefinedName:
		return &UndefinedNameError{Err: ce}
	case cerrors.UndefinedHandle:
		return &UndefinedHandleError{Err: ce}
	case cerrors.UnexpectedScalarType:
		return &UnexpectedScalarTypeError{Err: ce}
	case cerrors.UnexpectedRowType:
		return &UnexpectedRowTypeError{Err: ce}
	case cerrors.AmbiguousName:
		return &AmbiguousNameError{Err: ce}
	case cerrors.AmbiguousHandle:
		return &AmbiguousHandleError{Err: ce}
	case cerrors.AmbiguousAggregate:
		return &AmbiguousAggregateError{Err: ce}
	case cerrors.UnexpectedAggregate:
		return &UnexpectedAggregateError{Err: ce}
	default:
		return ce
	}
}
