package annotate

import (
	"testing"

	"github.com/boxsql/boxsql/internal/types"
)

func TestAnnotateWrapsEveryTabularNodeInExactlyOneBox(t *testing.T) {
	tree := types.Where(
		types.From(types.Table{Name: "a", Columns: []string{"x"}}),
		types.Get(nil, "x"),
	)

	res, err := Annotate(tree)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	// Coverage (spec.md 8.1): every tabular node in the output is a Box,
	// and every Box's Over (when non-nil) is itself not a Box.
	for _, box := range res.Boxes {
		if box.Over == nil {
			continue
		}
		if _, isBox := box.Over.(*types.BoxNode); isBox {
			t.Fatalf("a Box directly wraps another Box: %+v", box)
		}
	}
	if len(res.Boxes) != 2 {
		t.Fatalf("expected 2 boxes (From, Where), got %d", len(res.Boxes))
	}
}

func TestAnnotateJoinBecomesExtendedJoin(t *testing.T) {
	tree := types.Join(
		types.From(types.Table{Name: "a"}),
		types.From(types.Table{Name: "b"}),
		types.Literal(true),
		types.InnerJoin,
	)
	res, err := Annotate(tree)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if _, ok := res.Root.Over.(*types.ExtendedJoinNode); !ok {
		t.Fatalf("expected root.Over to be ExtendedJoin, got %T", res.Root.Over)
	}
}

func TestAnnotateBindBecomesUnownedExtendedBind(t *testing.T) {
	tree := types.Bind(
		types.From(types.Table{Name: "a"}),
		types.BindItem{Label: "v", Expr: types.Literal(1)},
	)
	res, err := Annotate(tree)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	eb, ok := res.Root.Over.(*types.ExtendedBindNode)
	if !ok {
		t.Fatalf("expected root.Over to be ExtendedBind, got %T", res.Root.Over)
	}
	if eb.Owned {
		t.Fatal("expected a freshly-annotated ExtendedBind to start unowned")
	}
}

func TestAnnotateGetChainRebindsToNameBound(t *testing.T) {
	// Get(over=Get(:a), name=:b) -> NameBound(over=Get(:b), name=:a).
	chain := types.Get(types.Get(nil, "a"), "b")
	tree := types.Select(
		types.From(types.Table{Name: "t"}),
		types.SelectItem{Label: "v", Expr: chain},
	)

	res, err := Annotate(tree)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	sel := res.Root.Over.(*types.SelectNode)
	nb, ok := sel.LabelMap[0].Expr.(*types.NameBoundNode)
	if !ok {
		t.Fatalf("expected NameBound, got %T", sel.LabelMap[0].Expr)
	}
	if nb.Name != "a" {
		t.Fatalf("expected outer navigation name 'a', got %q", nb.Name)
	}
	inner, ok := nb.Over.(*types.GetNode)
	if !ok || inner.Name != "b" {
		t.Fatalf("expected inner Get(:b), got %+v", nb.Over)
	}
}

func TestAnnotateIllFormedOnScalarInTabularPosition(t *testing.T) {
	tree := types.Where(types.Literal(1), types.Literal(true))
	if _, err := Annotate(tree); err == nil {
		t.Fatal("expected an IllFormed error for a scalar node used as Over")
	}
}

func TestAnnotateRebaseIsIdempotentOnFreshInput(t *testing.T) {
	build := func() types.Node {
		return types.Select(
			types.From(types.Table{Name: "a", Columns: []string{"x"}}),
			types.SelectItem{Label: "x", Expr: types.Get(nil, "x")},
		)
	}

	r1, err := Annotate(build())
	if err != nil {
		t.Fatalf("Annotate 1: %v", err)
	}
	r2, err := Annotate(build())
	if err != nil {
		t.Fatalf("Annotate 2: %v", err)
	}
	if len(r1.Boxes) != len(r2.Boxes) {
		t.Fatalf("expected equal box counts across reannotation, got %d vs %d", len(r1.Boxes), len(r2.Boxes))
	}
}
