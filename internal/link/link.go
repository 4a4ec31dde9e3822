// Package link implements the compiler's third pass: top-down propagation
// of the set of scalar references each box's consumer actually demands,
// validated against the box's resolved type and routed across binary
// operators. See spec.md 4.5 and 4.6; this file has one case per row of
// the per-kind linking table plus gather/validate/route.
package link

import (
	"github.com/boxsql/boxsql/internal/annotate"
	"github.com/boxsql/boxsql/internal/cerrors"
	"github.com/boxsql/boxsql/internal/pathmap"
	"github.com/boxsql/boxsql/internal/types"
)

// linker carries the path map (for error locality) alongside a global
// index from handle to the box that owns it. Most references resolve
// against the box directly in scope, but a HandleBound can address a box
// that is not a structural ancestor/descendant of the box currently being
// linked at all — a correlated sub-query reached only via
// Get(subquery, name), or the outer side of a lateral join referenced
// from inside its joinee. The index is how such a reference finds the
// box it actually means instead of being rejected as undefined.
type linker struct {
	pm      *pathmap.PathMap
	handles map[types.Handle]*types.BoxNode
}

func newLinker(r *annotate.Result) *linker {
	l := &linker{pm: r.PathMap, handles: make(map[types.Handle]*types.BoxNode, len(r.Boxes))}
	for _, box := range r.Boxes {
		if box.Handle != types.NoHandle {
			l.handles[box.Handle] = box
		}
	}
	return l
}

// Run seeds the root box's demanded references and walks r.Boxes in
// reverse construction order (root first), dispatching each box's
// translated refs into its children.
func Run(r *annotate.Result) error {
	if len(r.Boxes) == 0 {
		return nil
	}
	l := newLinker(r)
	root := r.Boxes[len(r.Boxes)-1]
	seedRoot(root)
	for i := len(r.Boxes) - 1; i >= 0; i-- {
		box := r.Boxes[i]
		translated := translate(box.Refs, box.Handle)
		if err := l.linkNode(box.Over, translated); err != nil {
			return err
		}
	}
	return nil
}

// seedRoot demands every scalar column of the root's visible row, in
// declaration order — there is no consumer above the root to narrow it.
func seedRoot(root *types.BoxNode) {
	if root.Type == nil {
		return
	}
	for _, sym := range root.Type.Row.Order() {
		ft, _ := root.Type.Row.Get(sym)
		if ft.Kind != types.FieldScalarKind {
			continue
		}
		root.Refs = append(root.Refs, &types.GetNode{Name: sym})
	}
}

// translate collapses a HandleBound ref that carries this box's own
// handle back to its inner expression — it has reached the box it was
// addressed to and is now an ordinary in-scope reference.
func translate(refs []types.Node, h types.Handle) []types.Node {
	if h == types.NoHandle {
		return refs
	}
	out := make([]types.Node, 0, len(refs))
	for _, ref := range refs {
		if hb, ok := ref.(*types.HandleBoundNode); ok && hb.Handle == h {
			out = append(out, hb.Over)
			continue
		}
		out = append(out, ref)
	}
	return out
}

func childBox(n types.Node) *types.BoxNode {
	box, _ := n.(*types.BoxNode)
	return box
}

// linkNode dispatches on the box's wrapped node kind, pushing refs into
// the boxes wrapping its tabular children.
func (l *linker) linkNode(n types.Node, refs []types.Node) error {
	switch t := n.(type) {
	case nil:
		return nil

	case *types.FromNode:
		return nil

	case *types.SelectNode:
		over := childBox(t.Over)
		var gathered []types.Node
		for _, item := range t.LabelMap {
			g, err := l.gatherAndValidate(item.Expr, over.Type)
			if err != nil {
				return err
			}
			gathered = append(gathered, g...)
		}
		over.Refs = append(over.Refs, gathered...)
		return nil

	case *types.WhereNode:
		over := childBox(t.Over)
		over.Refs = append(over.Refs, refs...)
		g, err := l.gatherAndValidate(t.Condition, over.Type)
		if err != nil {
			return err
		}
		over.Refs = append(over.Refs, g...)
		return nil

	case *types.ExtendedJoinNode:
		return l.linkExtendedJoin(t, refs)

	case *types.GroupNode:
		return l.linkGroup(t, refs)

	case *types.PartitionNode:
		return l.linkPartition(t, refs)

	case *types.AppendNode:
		over := childBox(t.Over)
		over.Refs = append(over.Refs, refs...)
		for _, m := range t.List {
			mb := childBox(m)
			mb.Refs = append(mb.Refs, refs...)
		}
		return nil

	case *types.AsNode:
		return l.linkAs(t, refs)

	case *types.DefineNode:
		return l.linkDefine(t, refs)

	case *types.OrderNode:
		over := childBox(t.Over)
		over.Refs = append(over.Refs, refs...)
		for _, it := range t.By {
			g, err := l.gatherAndValidate(it.Expr, over.Type)
			if err != nil {
				return err
			}
			over.Refs = append(over.Refs, g...)
		}
		return nil

	case *types.LimitNode:
		over := childBox(t.Over)
		over.Refs = append(over.Refs, refs...)
		return nil

	case *types.HighlightNode:
		over := childBox(t.Over)
		over.Refs = append(over.Refs, refs...)
		return nil

	case *types.ExtendedBindNode:
		return l.linkExtendedBind(t, refs)

	default:
		return nil
	}
}

func (l *linker) linkAs(t *types.AsNode, refs []types.Node) error {
	over := childBox(t.Over)
	for _, ref := range refs {
		switch rt := ref.(type) {
		case *types.NameBoundNode:
			if rt.Name != t.Name {
				return cerrors.IllFormedErr(l.pm.PathOf(ref))
			}
			over.Refs = append(over.Refs, rt.Over)
		case *types.HandleBoundNode:
			over.Refs = append(over.Refs, ref)
		default:
			return cerrors.IllFormedErr(l.pm.PathOf(ref))
		}
	}
	return nil
}

func (l *linker) linkDefine(t *types.DefineNode, refs []types.Node) error {
	over := childBox(t.Over)
	defined := make(map[types.Symbol]types.Node, len(t.LabelMap))
	for _, it := range t.LabelMap {
		defined[it.Label] = it.Expr
	}
	done := make(map[types.Symbol]bool)
	for _, ref := range refs {
		g, ok := ref.(*types.GetNode)
		if ok {
			if expr, isDefined := defined[g.Name]; isDefined {
				if !done[g.Name] {
					done[g.Name] = true
					gathered, err := l.gatherAndValidate(expr, over.Type)
					if err != nil {
						return err
					}
					over.Refs = append(over.Refs, gathered...)
				}
				continue
			}
		}
		over.Refs = append(over.Refs, ref)
	}
	return nil
}

func (l *linker) linkExtendedBind(t *types.ExtendedBindNode, refs []types.Node) error {
	over := childBox(t.Over)
	if !t.Owned {
		empty := types.NewBoxType("")
		for _, it := range t.List {
			if _, err := l.gatherAndValidate(it.Expr, empty); err != nil {
				return err
			}
		}
	}
	over.Refs = append(over.Refs, refs...)
	return nil
}

func (l *linker) linkGroup(t *types.GroupNode, refs []types.Node) error {
	over := childBox(t.Over)
	var gathered []types.Node
	for _, it := range t.By {
		g, err := l.gatherAndValidate(it.Expr, over.Type)
		if err != nil {
			return err
		}
		gathered = append(gathered, g...)
	}
	groupKeys := make(map[types.Symbol]bool, len(t.By))
	for _, it := range t.By {
		groupKeys[it.Label] = true
	}
	for _, ref := range refs {
		switch rt := ref.(type) {
		case *types.AggNode:
			for _, a := range rt.Args {
				g, err := l.gatherAndValidate(a, over.Type)
				if err != nil {
					return err
				}
				gathered = append(gathered, g...)
			}
			if rt.Filter != nil {
				g, err := l.gatherAndValidate(rt.Filter, over.Type)
				if err != nil {
					return err
				}
				gathered = append(gathered, g...)
			}
		case *types.GetNode:
			// Resolved Open Question (SPEC_FULL.md 6): a Get that isn't a
			// group key can never be materialised by this aggregate query,
			// so it is a validation error rather than a silent drop.
			if !groupKeys[rt.Name] {
				return cerrors.UnexpectedScalarTypeErr(rt.Name, l.pm.PathOf(ref))
			}
		}
	}
	over.Refs = append(over.Refs, gathered...)
	return nil
}

func (l *linker) linkPartition(t *types.PartitionNode, refs []types.Node) error {
	over := childBox(t.Over)
	for _, ref := range refs {
		if agg, ok := ref.(*types.AggNode); ok {
			for _, a := range agg.Args {
				g, err := l.gatherAndValidate(a, over.Type)
				if err != nil {
					return err
				}
				over.Refs = append(over.Refs, g...)
			}
			if agg.Filter != nil {
				g, err := l.gatherAndValidate(agg.Filter, over.Type)
				if err != nil {
					return err
				}
				over.Refs = append(over.Refs, g...)
			}
			continue
		}
		over.Refs = append(over.Refs, ref)
	}
	for _, it := range t.By {
		g, err := l.gatherAndValidate(it.Expr, over.Type)
		if err != nil {
			return err
		}
		over.Refs = append(over.Refs, g...)
	}
	for _, it := range t.OrderBy {
		g, err := l.gatherAndValidate(it.Expr, over.Type)
		if err != nil {
			return err
		}
		over.Refs = append(over.Refs, g...)
	}
	return nil
}

func (l *linker) linkExtendedJoin(t *types.ExtendedJoinNode, refs []types.Node) error {
	over := childBox(t.Over)
	joinee := childBox(t.Joinee)

	var joineeRefs []types.Node
	gatherTabular(t.Joinee, &joineeRefs)
	var lateral []types.Node
	for _, ref := range joineeRefs {
		if hb, ok := ref.(*types.HandleBoundNode); ok && hb.Handle == over.Handle && over.Handle != types.NoHandle {
			lateral = append(lateral, ref)
		}
	}
	t.Lateral = lateral
	over.Refs = append(over.Refs, lateral...)

	onRefs, err := l.gatherAndValidate(t.On, t.Type)
	if err != nil {
		return err
	}
	all := append(onRefs, refs...)

	for _, ref := range all {
		dir, err := route(over.Type, joinee.Type, ref, l.pm)
		if err != nil {
			return err
		}
		if dir < 0 {
			over.Refs = append(over.Refs, ref)
		} else {
			joinee.Refs = append(joinee.Refs, ref)
		}
	}
	return nil
}
