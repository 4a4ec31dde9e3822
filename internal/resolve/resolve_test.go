package resolve

import (
	"testing"

	"github.com/boxsql/boxsql/internal/annotate"
	"github.com/boxsql/boxsql/internal/types"
)

func mustAnnotate(t *testing.T, n types.Node) *annotate.Result {
	t.Helper()
	res, err := annotate.Annotate(n)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	return res
}

func TestResolveFromPreservesColumnOrder(t *testing.T) {
	tree := types.From(types.Table{Name: "t", Columns: []string{"c", "a", "b"}})
	res := mustAnnotate(t, tree)
	if err := Run(res); err != nil {
		t.Fatalf("Run: %v", err)
	}
	order := res.Root.Type.Row.Order()
	want := []types.Symbol{"c", "a", "b"}
	if len(order) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(order))
	}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("field %d: expected %q, got %q", i, w, order[i])
		}
	}
}

func TestResolveSelectProjectsLabelsInOrder(t *testing.T) {
	tree := types.Select(
		types.From(types.Table{Name: "t", Columns: []string{"a", "b", "c"}}),
		types.SelectItem{Label: "b", Expr: types.Get(nil, "b")},
		types.SelectItem{Label: "a", Expr: types.Get(nil, "a")},
	)
	res := mustAnnotate(t, tree)
	if err := Run(res); err != nil {
		t.Fatalf("Run: %v", err)
	}
	order := res.Root.Type.Row.Order()
	if len(order) != 2 || order[0] != "b" || order[1] != "a" {
		t.Fatalf("expected [b a], got %v", order)
	}
}

func TestResolveJoinUnionsRows(t *testing.T) {
	tree := types.Join(
		types.As(types.From(types.Table{Name: "a", Columns: []string{"k"}}), "a"),
		types.As(types.From(types.Table{Name: "b", Columns: []string{"k"}}), "b"),
		types.Literal(true),
		types.InnerJoin,
	)
	res := mustAnnotate(t, tree)
	if err := Run(res); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Root.Type.Row.Len() != 2 {
		t.Fatalf("expected 2 namespace fields on the join row, got %d", res.Root.Type.Row.Len())
	}
}

func TestResolveHandleCorrectness(t *testing.T) {
	// A correlated subquery reached via Get(subquery, name) must produce
	// a box whose Handle is nonzero, matching the outer HandleBound.
	sub := types.From(types.Table{Name: "b", Columns: []string{"v"}})
	outer := types.Select(
		types.From(types.Table{Name: "a", Columns: []string{"x"}}),
		types.SelectItem{Label: "v", Expr: types.Get(sub, "v")},
	)
	res := mustAnnotate(t, outer)
	if err := Run(res); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var subBox *types.BoxNode
	for _, box := range res.Boxes {
		if _, ok := box.Over.(*types.FromNode); ok && box.Over.(*types.FromNode).Table.Name == "b" {
			subBox = box
		}
	}
	if subBox == nil {
		t.Fatal("expected to find the correlated sub-query's box")
	}
	if subBox.Handle == types.NoHandle {
		t.Fatal("expected the correlated sub-query's box to carry a nonzero handle")
	}
}
