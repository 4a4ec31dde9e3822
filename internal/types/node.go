// Package types holds the canonical operator-tree and box-type
// representation shared by the annotator, type resolver, and reference
// linker. Nothing here renders SQL or talks to a catalog; it is pure data
// plus a few tree-walking helper functions (Over, Label, ScalarOver).
package types

// Node is the marker interface implemented by every operator-tree node,
// both user-authored and middle-end-introduced. It carries no methods of
// its own; the passes recover the concrete kind with a type switch, kept
// deliberately as two separate switches (tabular vs scalar context) per
// the annotator's design rather than one polymorphic dispatch, so that a
// node appearing in the wrong context falls through to an explicit
// IllFormed case instead of silently doing the wrong thing.
type Node interface {
	isNode()
}

// TabularNode is implemented by every node that produces rows.
type TabularNode interface {
	Node
	isTabular()
}

// ScalarNode is implemented by every node that produces a value or predicate.
type ScalarNode interface {
	Node
	isScalar()
}

// Overer describes a node exposing its input through an Over() method. The
// node types in this package keep their input in an Over field instead,
// so none of them implements it; the Over function reads that field.
type Overer interface {
	Over() Node
}
