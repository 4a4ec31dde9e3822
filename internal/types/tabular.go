package types

// FromNode is a leaf: it introduces a table's rows with no input of its own.
type FromNode struct {
	Table Table
}

func (*FromNode) isNode()    {}
func (*FromNode) isTabular() {}

// SelectItem is one entry of a Select's label map; order is preserved.
type SelectItem struct {
	Label Symbol
	Expr  Node // scalar
}

// SelectNode projects a new row shape, cutting the outer scope: refs that
// reach a Select from outside can only see the labels it declares.
type SelectNode struct {
	Over     Node
	LabelMap []SelectItem
}

func (*SelectNode) isNode()    {}
func (*SelectNode) isTabular() {}

// WhereNode filters Over's rows by Condition, a scalar predicate.
type WhereNode struct {
	Over      Node
	Condition Node // scalar
}

func (*WhereNode) isNode()    {}
func (*WhereNode) isTabular() {}

// JoinNode is the user-authored join: Over is the left side, Joinee the
// right side, On the join predicate. The annotator rewrites every JoinNode
// into an ExtendedJoinNode.
type JoinNode struct {
	Over   Node
	Joinee Node // tabular
	On     Node // scalar
	Kind   JoinKind
}

func (*JoinNode) isNode()    {}
func (*JoinNode) isTabular() {}

// JoinKind names the SQL join variant; the middle end does not interpret
// it beyond carrying it through to ExtendedJoin for the (out-of-scope)
// emitter to read back.
type JoinKind string

const (
	InnerJoin JoinKind = "INNER"
	LeftJoin  JoinKind = "LEFT"
	RightJoin JoinKind = "RIGHT"
	FullJoin  JoinKind = "FULL"
	CrossJoin JoinKind = "CROSS"
)

// GroupItem is one group-key entry; order is preserved.
type GroupItem struct {
	Label Symbol
	Expr  Node // scalar
}

// GroupNode groups Over's rows by By, exposing Over's row as the aggregate
// base (BoxType.Row.Group) for downstream Agg references.
type GroupNode struct {
	Over Node
	By   []GroupItem
}

func (*GroupNode) isNode()    {}
func (*GroupNode) isTabular() {}

// OrderItem pairs a scalar expression with a sort direction.
type OrderItem struct {
	Expr Node // scalar
	Dir  Direction
}

// PartitionNode is a windowed grouping: unlike Group it keeps Over's row
// fields visible (for window functions referencing un-grouped columns)
// while also exposing Over's row as the aggregate base.
type PartitionNode struct {
	Over    Node
	By      []GroupItem
	OrderBy []OrderItem
}

func (*PartitionNode) isNode()    {}
func (*PartitionNode) isTabular() {}

// AppendNode concatenates Over with every member of List (a UNION ALL in
// spirit); the resulting row type is the intersection of all branches.
type AppendNode struct {
	Over Node
	List []Node // tabular
}

func (*AppendNode) isNode()    {}
func (*AppendNode) isTabular() {}

// AsNode wraps Over's row inside a single namespace field named Name; it is
// also the node that gives Over a canonical label when none exists yet.
type AsNode struct {
	Over Node
	Name Symbol
}

func (*AsNode) isNode()    {}
func (*AsNode) isTabular() {}

// DefineItem is one computed-column entry; order is preserved and a later
// label shadows an earlier one of the same name (spec: "set/replace").
type DefineItem struct {
	Label Symbol
	Expr  Node // scalar
}

// DefineNode adds or replaces computed columns on top of Over's row.
type DefineNode struct {
	Over     Node
	LabelMap []DefineItem
}

func (*DefineNode) isNode()    {}
func (*DefineNode) isTabular() {}

// OrderNode sorts Over's rows; it does not change the row shape.
type OrderNode struct {
	Over Node
	By   []OrderItem
}

func (*OrderNode) isNode()    {}
func (*OrderNode) isTabular() {}

// LimitNode caps Over's rows; it does not change the row shape.
type LimitNode struct {
	Over   Node
	Count  *int
	Offset *int
}

func (*LimitNode) isNode()    {}
func (*LimitNode) isTabular() {}

// HighlightNode is a display-only annotation over Over; it is transparent
// to both type resolution and reference linking.
type HighlightNode struct {
	Over Node
	Note Symbol
}

func (*HighlightNode) isNode()    {}
func (*HighlightNode) isTabular() {}

// BindItem is one outer-scope scalar binding, e.g. a WITH-style named
// value made available to Over's subtree.
type BindItem struct {
	Label Symbol
	Expr  Node // scalar
}

// BindNode is the user-authored form; the annotator rewrites it into an
// ExtendedBindNode with Owned initialized to false.
type BindNode struct {
	Over Node
	List []BindItem
}

func (*BindNode) isNode()    {}
func (*BindNode) isTabular() {}

// --- middle-end-only tabular nodes ---

// BoxNode wraps every tabular node the annotator produces. Type, Handle,
// and Refs start zero-valued and are filled in by the resolver and linker
// respectively; apart from ExtendedJoin's Lateral and Type, nothing else
// in the annotated tree is mutated after construction.
type BoxNode struct {
	Over   Node // the wrapped tabular node, possibly nil (empty box)
	Type   *BoxType
	Handle Handle
	Refs   []Node
}

func (*BoxNode) isNode()    {}
func (*BoxNode) isTabular() {}

// ExtendedJoinNode is the annotated form of JoinNode. Lateral and Type are
// filled in by the linker and resolver respectively; Type is cached here
// because a join's BoxType is computed once but consulted again when
// gathering the free references of On.
type ExtendedJoinNode struct {
	Over    Node
	Joinee  Node // tabular
	On      Node // scalar
	Kind    JoinKind
	Lateral []Node
	Type    *BoxType
}

func (*ExtendedJoinNode) isNode()    {}
func (*ExtendedJoinNode) isTabular() {}

// ExtendedBindNode is the annotated form of BindNode. Owned starts false
// and no pass sets it to true, so the linker validates every bind's List
// against the empty box.
type ExtendedBindNode struct {
	Over  Node
	List  []BindItem
	Owned bool
}

func (*ExtendedBindNode) isNode()    {}
func (*ExtendedBindNode) isTabular() {}

// Over returns the wrapped input node, or nil for nodes with no input.
// It is the single place that understands every tabular node's "over"
// slot. The resolver and linker do not call it; they reach Over through
// their own type switches.
func Over(n Node) Node {
	switch t := n.(type) {
	case *FromNode:
		return nil
	case *SelectNode:
		return t.Over
	case *WhereNode:
		return t.Over
	case *JoinNode:
		return t.Over
	case *GroupNode:
		return t.Over
	case *PartitionNode:
		return t.Over
	case *AppendNode:
		return t.Over
	case *AsNode:
		return t.Over
	case *DefineNode:
		return t.Over
	case *OrderNode:
		return t.Over
	case *LimitNode:
		return t.Over
	case *HighlightNode:
		return t.Over
	case *BindNode:
		return t.Over
	case *BoxNode:
		return t.Over
	case *ExtendedJoinNode:
		return t.Over
	case *ExtendedBindNode:
		return t.Over
	default:
		return nil
	}
}

// Label computes the canonical label of a tabular node per spec: From uses
// its table's label, As uses its own name, Group/Partition carry forward
// whatever label Over already has (they introduce no name of their own),
// and every other kind propagates from Over.
func Label(n Node) Symbol {
	switch t := n.(type) {
	case *FromNode:
		return t.Table.Label()
	case *AsNode:
		return t.Name
	case *GroupNode:
		return Label(t.Over)
	case *PartitionNode:
		return Label(t.Over)
	default:
		if over := Over(n); over != nil {
			return Label(over)
		}
		return ""
	}
}
