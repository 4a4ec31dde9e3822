// Package resolve implements the compiler's second pass: bottom-up
// propagation of BoxType (row schema plus handle map) through every box
// the annotator produced. See spec.md 4.4 for the per-kind resolution
// table this file follows one case per row.
package resolve

import (
	"github.com/boxsql/boxsql/internal/annotate"
	"github.com/boxsql/boxsql/internal/handle"
	"github.com/boxsql/boxsql/internal/types"
)

// Run walks r.Boxes in construction order (children before parents, since
// a box is appended only after its subtree finishes annotating) and fills
// in Handle and Type on every box.
func Run(r *annotate.Result) error {
	for _, box := range r.Boxes {
		h := handle.GetHandle(r.PathMap, r.Alloc, box.Over)
		t := resolveType(box.Over)
		t.SetHandle(h, t.Row)
		box.Handle = h
		box.Type = t
	}
	return nil
}

func resolveType(n types.Node) *types.BoxType {
	if n == nil {
		return types.NewBoxType("")
	}
	switch t := n.(type) {
	case *types.FromNode:
		return resolveFrom(t)
	case *types.AsNode:
		return resolveAs(t)
	case *types.SelectNode:
		return resolveSelect(t)
	case *types.DefineNode:
		return resolveDefine(t)
	case *types.GroupNode:
		return resolveGroup(t)
	case *types.PartitionNode:
		return resolvePartition(t)
	case *types.AppendNode:
		return resolveAppend(t)
	case *types.ExtendedJoinNode:
		return resolveExtendedJoin(t)
	case *types.ExtendedBindNode:
		return passthrough(t.Over)
	case *types.HighlightNode:
		return passthrough(t.Over)
	case *types.LimitNode:
		return passthrough(t.Over)
	case *types.OrderNode:
		return passthrough(t.Over)
	case *types.WhereNode:
		return passthrough(t.Over)
	default:
		return types.NewBoxType("")
	}
}

func boxType(n types.Node) *types.BoxType {
	if n == nil {
		return types.NewBoxType("")
	}
	box, ok := n.(*types.BoxNode)
	if !ok || box.Type == nil {
		return types.NewBoxType("")
	}
	return box.Type
}

func cloneHandleMap(m map[types.Handle]types.HandleEntry) map[types.Handle]types.HandleEntry {
	out := make(map[types.Handle]types.HandleEntry, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func passthrough(over types.Node) *types.BoxType {
	ot := boxType(over)
	return &types.BoxType{Name: ot.Name, Row: ot.Row, HandleMap: cloneHandleMap(ot.HandleMap)}
}

func resolveFrom(t *types.FromNode) *types.BoxType {
	bt := types.NewBoxType(t.Table.Label())
	for _, col := range t.Table.Columns {
		bt.Row.Set(types.Symbol(col), types.ScalarField)
	}
	return bt
}

func resolveAs(t *types.AsNode) *types.BoxType {
	ot := boxType(t.Over)
	row := types.NewRowType()
	row.Set(t.Name, types.RowField(ot.Row))
	return &types.BoxType{Name: t.Name, Row: row, HandleMap: cloneHandleMap(ot.HandleMap)}
}

func resolveSelect(t *types.SelectNode) *types.BoxType {
	ot := boxType(t.Over)
	bt := types.NewBoxType(ot.Name)
	for _, item := range t.LabelMap {
		bt.Row.Set(item.Label, types.ScalarField)
	}
	return bt
}

func resolveDefine(t *types.DefineNode) *types.BoxType {
	ot := boxType(t.Over)
	row := ot.Row.Clone()
	for _, item := range t.LabelMap {
		row.Set(item.Label, types.ScalarField)
	}
	return &types.BoxType{Name: ot.Name, Row: row, HandleMap: cloneHandleMap(ot.HandleMap)}
}

func resolveGroup(t *types.GroupNode) *types.BoxType {
	ot := boxType(t.Over)
	bt := types.NewBoxType(ot.Name)
	for _, item := range t.By {
		bt.Row.Set(item.Label, types.ScalarField)
	}
	bt.Row.Group = types.RowGroup(ot.Row)
	return bt
}

func resolvePartition(t *types.PartitionNode) *types.BoxType {
	ot := boxType(t.Over)
	row := ot.Row.Clone()
	row.Group = types.RowGroup(ot.Row)
	return &types.BoxType{Name: ot.Name, Row: row, HandleMap: cloneHandleMap(ot.HandleMap)}
}

func resolveAppend(t *types.AppendNode) *types.BoxType {
	acc := boxType(t.Over)
	for _, member := range t.List {
		mt := boxType(member)
		acc = &types.BoxType{
			Name:      acc.Name,
			Row:       types.IntersectRow(acc.Row, mt.Row),
			HandleMap: types.IntersectHandleMap(acc.HandleMap, mt.HandleMap),
		}
	}
	return acc
}

func resolveExtendedJoin(t *types.ExtendedJoinNode) *types.BoxType {
	lt := boxType(t.Over)
	rt := boxType(t.Joinee)
	bt := &types.BoxType{
		Name:      lt.Name,
		Row:       types.UnionRow(lt.Row, rt.Row),
		HandleMap: types.UnionHandleMap(lt.HandleMap, rt.HandleMap),
	}
	t.Type = bt
	return bt
}
