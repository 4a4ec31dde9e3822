package link

import (
	"github.com/boxsql/boxsql/internal/cerrors"
	"github.com/boxsql/boxsql/internal/pathmap"
	"github.com/boxsql/boxsql/internal/types"
)

// gather collects the free terminal references (Get, Agg, NameBound,
// HandleBound) out of a scalar subtree, recursing through Fun's args and
// Sort's wrapper. A Box reached while gathering seals the boundary: it is
// a separate sub-query whose own pass through the box list will link its
// own refs.
func gather(n types.Node, out *[]types.Node) {
	if n == nil {
		return
	}
	switch t := n.(type) {
	case *types.GetNode, *types.AggNode, *types.NameBoundNode, *types.HandleBoundNode:
		*out = append(*out, n)
	case *types.FunNode:
		for _, a := range t.Args {
			gather(a, out)
		}
	case *types.SortNode:
		gather(t.Over, out)
	case *types.BoxNode:
		return
	default:
		return
	}
}

// gatherTabular walks a tabular node's own spine of boxes — the chain an
// ExtendedJoin's joinee is built from — collecting every scalar ref
// reachable at any level, used only to detect lateral correlation: a ref
// inside the joinee that addresses the outer box's handle.
func gatherTabular(n types.Node, out *[]types.Node) {
	if n == nil {
		return
	}
	switch t := n.(type) {
	case *types.BoxNode:
		gatherTabular(t.Over, out)
	case *types.FromNode:
		return
	case *types.SelectNode:
		for _, it := range t.LabelMap {
			gather(it.Expr, out)
		}
		gatherTabular(t.Over, out)
	case *types.WhereNode:
		gather(t.Condition, out)
		gatherTabular(t.Over, out)
	case *types.ExtendedJoinNode:
		gather(t.On, out)
		gatherTabular(t.Over, out)
		gatherTabular(t.Joinee, out)
	case *types.GroupNode:
		for _, it := range t.By {
			gather(it.Expr, out)
		}
		gatherTabular(t.Over, out)
	case *types.PartitionNode:
		for _, it := range t.By {
			gather(it.Expr, out)
		}
		for _, it := range t.OrderBy {
			gather(it.Expr, out)
		}
		gatherTabular(t.Over, out)
	case *types.AppendNode:
		gatherTabular(t.Over, out)
		for _, m := range t.List {
			gatherTabular(m, out)
		}
	case *types.AsNode:
		gatherTabular(t.Over, out)
	case *types.DefineNode:
		for _, it := range t.LabelMap {
			gather(it.Expr, out)
		}
		gatherTabular(t.Over, out)
	case *types.OrderNode:
		for _, it := range t.By {
			gather(it.Expr, out)
		}
		gatherTabular(t.Over, out)
	case *types.LimitNode:
		gatherTabular(t.Over, out)
	case *types.HighlightNode:
		gatherTabular(t.Over, out)
	case *types.ExtendedBindNode:
		for _, it := range t.List {
			gather(it.Expr, out)
		}
		gatherTabular(t.Over, out)
	default:
		return
	}
}

// gatherAndValidate gathers n's free refs and validates each against t,
// returning the ones that still belong to the caller's child box. A
// HandleBound that validateAgainstBox redirects elsewhere (see below) is
// dropped from the returned slice — it has already been pushed onto the
// box it actually targets.
func (l *linker) gatherAndValidate(n types.Node, t *types.BoxType) ([]types.Node, error) {
	var refs []types.Node
	gather(n, &refs)
	kept := make([]types.Node, 0, len(refs))
	for _, ref := range refs {
		redirected, err := l.validateAgainstBox(t, ref)
		if err != nil {
			return nil, err
		}
		if !redirected {
			kept = append(kept, ref)
		}
	}
	return kept, nil
}

// validateAgainstBox checks ref against a BoxType. A HandleBound is first
// tried against t's own HandleMap, which only ever covers t's self-handle
// plus whatever ExtendedJoin/Append unioned in from structural children.
// A handle that addresses a box outside that local scope — a correlated
// subquery reached via Get(subquery, name), or a lateral joinee reaching
// back to its outer box — is not locally invalid, only locally unknown:
// the linker's global handle index is consulted next, and if it owns the
// handle the reference is redirected there directly (validated against
// that box's own type, then demanded on that box's own Refs) rather than
// rejected. Only a handle unknown both locally and globally is an error.
// redirected reports whether the ref was pushed onto another box instead
// of being returned to the caller to push onto its own child.
func (l *linker) validateAgainstBox(t *types.BoxType, ref types.Node) (bool, error) {
	hb, ok := ref.(*types.HandleBoundNode)
	if !ok {
		return false, validateAgainstRow(t.Row, ref, l.pm)
	}
	if entry, known := t.HandleMap[hb.Handle]; known {
		if entry.Ambiguous {
			return false, cerrors.AmbiguousHandleErr(l.pm.PathOf(ref))
		}
		return false, validateAgainstRow(entry.Row, hb.Over, l.pm)
	}
	target, known := l.handles[hb.Handle]
	if !known {
		return false, cerrors.UndefinedHandleErr(l.pm.PathOf(ref))
	}
	if err := validateAgainstRow(target.Type.Row, hb.Over, l.pm); err != nil {
		return false, err
	}
	target.Refs = append(target.Refs, hb.Over)
	return true, nil
}

// validateAgainstRow checks ref against a RowType: NameBound descends
// through nested namespace fields, Get requires a scalar leaf, Agg
// requires a group base in scope.
func validateAgainstRow(row *types.RowType, ref types.Node, pm *pathmap.PathMap) error {
	switch rt := ref.(type) {
	case *types.NameBoundNode:
		ft, ok := row.Get(rt.Name)
		if !ok {
			return cerrors.UndefinedNameErr(rt.Name, pm.PathOf(ref))
		}
		if ft.Kind == types.FieldAmbiguousKind {
			return cerrors.AmbiguousNameErr(rt.Name, pm.PathOf(ref))
		}
		if ft.Kind != types.FieldRowKind {
			return cerrors.UnexpectedScalarTypeErr(rt.Name, pm.PathOf(ref))
		}
		return validateAgainstRow(ft.Row, rt.Over, pm)

	case *types.GetNode:
		ft, ok := row.Get(rt.Name)
		if !ok {
			return cerrors.UndefinedNameErr(rt.Name, pm.PathOf(ref))
		}
		if ft.Kind == types.FieldAmbiguousKind {
			return cerrors.AmbiguousNameErr(rt.Name, pm.PathOf(ref))
		}
		if ft.Kind != types.FieldScalarKind {
			return cerrors.UnexpectedRowTypeErr(rt.Name, pm.PathOf(ref))
		}
		return nil

	case *types.AggNode:
		switch row.Group.Kind {
		case types.GroupRowKind:
			return nil
		case types.GroupAmbiguousKind:
			return cerrors.AmbiguousAggregateErr(pm.PathOf(ref))
		default:
			return cerrors.UnexpectedAggregateErr(pm.PathOf(ref))
		}

	default:
		return cerrors.IllFormedErr(pm.PathOf(ref))
	}
}

// route decides, for a ref demanded at an ExtendedJoin, which side (-1
// left/over, +1 right/joinee) it belongs to.
func route(lt, rt *types.BoxType, ref types.Node, pm *pathmap.PathMap) (int, error) {
	if hb, ok := ref.(*types.HandleBoundNode); ok {
		if _, ok := lt.HandleMap[hb.Handle]; ok {
			return -1, nil
		}
		return 1, nil
	}
	return routeRow(lt.Row, rt.Row, ref, pm)
}

func routeRow(lrow, rrow *types.RowType, ref types.Node, pm *pathmap.PathMap) (int, error) {
	switch rt := ref.(type) {
	case *types.NameBoundNode:
		lf, lok := lrow.Get(rt.Name)
		rf, rok := rrow.Get(rt.Name)
		switch {
		case lok && !rok:
			return -1, nil
		case rok && !lok:
			return 1, nil
		case lok && rok:
			if lf.Kind != types.FieldRowKind || rf.Kind != types.FieldRowKind {
				return 0, cerrors.IllFormedErr(pm.PathOf(ref))
			}
			return routeRow(lf.Row, rf.Row, rt.Over, pm)
		default:
			return 0, cerrors.UndefinedNameErr(rt.Name, pm.PathOf(ref))
		}

	case *types.GetNode:
		if _, ok := lrow.Get(rt.Name); ok {
			return -1, nil
		}
		return 1, nil

	case *types.AggNode:
		if lrow.Group.Kind == types.GroupRowKind {
			return -1, nil
		}
		return 1, nil

	default:
		return 0, cerrors.IllFormedErr(pm.PathOf(ref))
	}
}
