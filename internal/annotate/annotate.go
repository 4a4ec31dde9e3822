// Package annotate implements the compiler's first pass: it walks a user
// operator tree in two mutually-recursive contexts (tabular and scalar),
// wraps every tabular node in a Box, rewrites Join into ExtendedJoin and
// Bind into ExtendedBind, and rewrites every Get-chain into nested
// NameBound/HandleBound wrappers so the later passes never see a
// multi-step Get. See spec.md 4.3 and DESIGN.md for the rules this file
// grounds each case on.
package annotate

import (
	"github.com/boxsql/boxsql/internal/cerrors"
	"github.com/boxsql/boxsql/internal/handle"
	"github.com/boxsql/boxsql/internal/pathmap"
	"github.com/boxsql/boxsql/internal/types"
)

// Result is everything the resolver and linker need from this pass: the
// rewritten tree (Root, always a *types.BoxNode), the full set of boxes in
// construction order, a lookup from a box's wrapped node back to its Box,
// and the path map and handle allocator the later passes keep consulting.
type Result struct {
	Root    *types.BoxNode
	Boxes   []*types.BoxNode
	BoxOf   map[types.Node]*types.BoxNode
	PathMap *pathmap.PathMap
	Alloc   *handle.Allocator
}

type annotator struct {
	pm    *pathmap.PathMap
	alloc *handle.Allocator
	boxes []*types.BoxNode
	boxOf map[types.Node]*types.BoxNode
}

// Annotate runs the annotator over root, which must be a tabular node (the
// top level of any query is always tabular).
func Annotate(root types.Node) (*Result, error) {
	a := &annotator{
		pm:    pathmap.New(),
		alloc: handle.New(),
		boxOf: make(map[types.Node]*types.BoxNode),
	}
	if root != nil {
		if _, ok := root.(types.TabularNode); !ok {
			return nil, cerrors.IllFormedErr(nil)
		}
	}
	box, err := a.annotateTabular(root)
	if err != nil {
		return nil, err
	}
	return &Result{
		Root:    box,
		Boxes:   a.boxes,
		BoxOf:   a.boxOf,
		PathMap: a.pm,
		Alloc:   a.alloc,
	}, nil
}

// annotateTabular is the tabular-context entry point: reconstruct n with
// its children annotated, wrap the result in a fresh Box, and mark both
// the unwrapped and wrapped versions' origins at the position n occupies
// in the user tree (spec.md 4.1/4.3).
func (a *annotator) annotateTabular(n types.Node) (*types.BoxNode, error) {
	if n == nil {
		box := &types.BoxNode{}
		a.boxes = append(a.boxes, box)
		return box, nil
	}
	a.pm.Grow(n)
	rewritten, err := a.buildTabular(n)
	if err != nil {
		a.pm.Shrink()
		return nil, err
	}
	a.pm.MarkOrigin(rewritten)
	box := &types.BoxNode{Over: rewritten}
	a.boxes = append(a.boxes, box)
	a.boxOf[rewritten] = box
	a.pm.MarkOrigin(box)
	a.pm.Shrink()
	return box, nil
}

func (a *annotator) illFormed() error {
	return cerrors.IllFormedErr(a.pm.CurrentPath())
}

// buildTabular dispatches on n's concrete kind, annotating every input
// (tabular children recursively, scalar children via annotateScalar) and
// reconstructing the same operator — Join becomes ExtendedJoin and Bind
// becomes ExtendedBind, per spec.md 4.3.
func (a *annotator) buildTabular(n types.Node) (types.Node, error) {
	switch t := n.(type) {
	case *types.FromNode:
		return &types.FromNode{Table: t.Table}, nil

	case *types.SelectNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		items := make([]types.SelectItem, len(t.LabelMap))
		for i, it := range t.LabelMap {
			expr, err := a.annotateScalar(it.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = types.SelectItem{Label: it.Label, Expr: expr}
		}
		return &types.SelectNode{Over: over, LabelMap: items}, nil

	case *types.WhereNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		cond, err := a.annotateScalar(t.Condition)
		if err != nil {
			return nil, err
		}
		return &types.WhereNode{Over: over, Condition: cond}, nil

	case *types.JoinNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		joinee, err := a.annotateTabular(t.Joinee)
		if err != nil {
			return nil, err
		}
		on, err := a.annotateScalar(t.On)
		if err != nil {
			return nil, err
		}
		return &types.ExtendedJoinNode{Over: over, Joinee: joinee, On: on, Kind: t.Kind}, nil

	case *types.GroupNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		by, err := a.annotateGroupItems(t.By)
		if err != nil {
			return nil, err
		}
		return &types.GroupNode{Over: over, By: by}, nil

	case *types.PartitionNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		by, err := a.annotateGroupItems(t.By)
		if err != nil {
			return nil, err
		}
		orderBy, err := a.annotateOrderItems(t.OrderBy)
		if err != nil {
			return nil, err
		}
		return &types.PartitionNode{Over: over, By: by, OrderBy: orderBy}, nil

	case *types.AppendNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		list := make([]types.Node, len(t.List))
		for i, m := range t.List {
			box, err := a.annotateTabular(m)
			if err != nil {
				return nil, err
			}
			list[i] = box
		}
		return &types.AppendNode{Over: over, List: list}, nil

	case *types.AsNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		return &types.AsNode{Over: over, Name: t.Name}, nil

	case *types.DefineNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		items := make([]types.DefineItem, len(t.LabelMap))
		for i, it := range t.LabelMap {
			expr, err := a.annotateScalar(it.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = types.DefineItem{Label: it.Label, Expr: expr}
		}
		return &types.DefineNode{Over: over, LabelMap: items}, nil

	case *types.OrderNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		by, err := a.annotateOrderItems(t.By)
		if err != nil {
			return nil, err
		}
		return &types.OrderNode{Over: over, By: by}, nil

	case *types.LimitNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		return &types.LimitNode{Over: over, Count: t.Count, Offset: t.Offset}, nil

	case *types.HighlightNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		return &types.HighlightNode{Over: over, Note: t.Note}, nil

	case *types.BindNode:
		over, err := a.annotateTabular(t.Over)
		if err != nil {
			return nil, err
		}
		items := make([]types.BindItem, len(t.List))
		for i, it := range t.List {
			expr, err := a.annotateScalar(it.Expr)
			if err != nil {
				return nil, err
			}
			items[i] = types.BindItem{Label: it.Label, Expr: expr}
		}
		return &types.ExtendedBindNode{Over: over, List: items, Owned: false}, nil

	default:
		return nil, a.illFormed()
	}
}

func (a *annotator) annotateGroupItems(items []types.GroupItem) ([]types.GroupItem, error) {
	out := make([]types.GroupItem, len(items))
	for i, it := range items {
		expr, err := a.annotateScalar(it.Expr)
		if err != nil {
			return nil, err
		}
		out[i] = types.GroupItem{Label: it.Label, Expr: expr}
	}
	return out, nil
}

func (a *annotator) annotateOrderItems(items []types.OrderItem) ([]types.OrderItem, error) {
	out := make([]types.OrderItem, len(items))
	for i, it := range items {
		expr, err := a.annotateScalar(it.Expr)
		if err != nil {
			return nil, err
		}
		out[i] = types.OrderItem{Expr: expr, Dir: it.Dir}
	}
	return out, nil
}

// annotateScalar is the scalar-context entry point. A tabular node reached
// here (a sub-query used directly as a value, not through a Get) is
// annotated tabularly and returned as-is: a Box can stand in for a scalar
// value (spec.md 4.3, "scalar tabular").
func (a *annotator) annotateScalar(n types.Node) (types.Node, error) {
	if n == nil {
		return nil, nil
	}
	if tab, ok := n.(types.TabularNode); ok {
		return a.annotateTabular(tab)
	}

	a.pm.Grow(n)
	rewritten, err := a.buildScalar(n)
	if err != nil {
		a.pm.Shrink()
		return nil, err
	}
	a.pm.MarkOrigin(rewritten)
	a.pm.Shrink()
	return rewritten, nil
}

func (a *annotator) buildScalar(n types.Node) (types.Node, error) {
	switch t := n.(type) {
	case *types.GetNode:
		base := &types.GetNode{Name: t.Name}
		return a.rebind(t.Over, base)

	case *types.FunNode:
		args := make([]types.Node, len(t.Args))
		for i, arg := range t.Args {
			v, err := a.annotateScalar(arg)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		return &types.FunNode{Name: t.Name, Args: args}, nil

	case *types.AggNode:
		args := make([]types.Node, len(t.Args))
		for i, arg := range t.Args {
			v, err := a.annotateScalar(arg)
			if err != nil {
				return nil, err
			}
			args[i] = v
		}
		filter, err := a.annotateScalar(t.Filter)
		if err != nil {
			return nil, err
		}
		base := &types.AggNode{Name: t.Name, Args: args, Filter: filter}
		return a.rebind(t.Over, base)

	case *types.LiteralNode:
		return &types.LiteralNode{Value: t.Value}, nil

	case *types.VariableNode:
		return &types.VariableNode{Name: t.Name}, nil

	case *types.SortNode:
		inner, err := a.annotateScalar(t.Over)
		if err != nil {
			return nil, err
		}
		return &types.SortNode{Over: inner, Dir: t.Dir}, nil

	default:
		return nil, a.illFormed()
	}
}

// rebind strips a Get-chain rooted at node, wrapping base in one NameBound
// per Get layer and, if the chain bottoms out at a tabular node, one
// HandleBound carrying that node's handle. base starts as the innermost
// reconstruction already stripped of its own over slot (spec.md 4.3's
// worked example: Get(over=Get(:a), name=:b) becomes
// NameBound(over=Get(:b), name=:a)).
func (a *annotator) rebind(node types.Node, base types.Node) (types.Node, error) {
	depth := 0
	for {
		g, ok := node.(*types.GetNode)
		if !ok {
			break
		}
		a.pm.Grow(g)
		depth++
		base = &types.NameBoundNode{Over: base, Name: g.Name}
		a.pm.MarkOrigin(base)
		node = g.Over
	}

	var result types.Node = base
	var rebindErr error
	if node != nil {
		tab, ok := node.(types.TabularNode)
		if !ok {
			rebindErr = cerrors.IllFormedErr(a.pm.CurrentPath())
		} else {
			if _, err := a.annotateTabular(tab); err != nil {
				rebindErr = err
			} else {
				h := a.alloc.MakeHandle(node)
				bound := &types.HandleBoundNode{Over: base, Handle: h}
				a.pm.MarkOrigin(bound)
				result = bound
			}
		}
	}

	for i := 0; i < depth; i++ {
		a.pm.Shrink()
	}
	return result, rebindErr
}
