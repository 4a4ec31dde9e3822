package link

import (
	"testing"

	"github.com/boxsql/boxsql/internal/annotate"
	"github.com/boxsql/boxsql/internal/resolve"
	"github.com/boxsql/boxsql/internal/types"
)

func compileThroughLink(t *testing.T, n types.Node) *annotate.Result {
	t.Helper()
	res, err := annotate.Annotate(n)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if err := resolve.Run(res); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if err := Run(res); err != nil {
		t.Fatalf("Link: %v", err)
	}
	return res
}

// Ref-validity (spec.md 8.4): every entry of every box's refs validates
// against that box's own type.
func TestLinkRefValidity(t *testing.T) {
	tree := types.Select(
		types.Where(
			types.From(types.Table{Name: "t", Columns: []string{"a", "b"}}),
			types.Fun(types.Symbol(types.EQ), types.Get(nil, "a"), types.Literal(1)),
		),
		types.SelectItem{Label: "b", Expr: types.Get(nil, "b")},
	)
	res := compileThroughLink(t, tree)

	l := newLinker(res)
	for _, box := range res.Boxes {
		for _, ref := range box.Refs {
			if _, err := l.validateAgainstBox(box.Type, ref); err != nil {
				t.Fatalf("box ref failed its own box's validation: %v (ref=%+v)", err, ref)
			}
		}
	}
}

// Routing totality (spec.md 8.5): every demanded ref at an ExtendedJoin
// routes to exactly one side, and that side actually received it.
func TestLinkRoutingTotality(t *testing.T) {
	a := types.Table{Name: "a", Columns: []string{"k", "x"}}
	b := types.Table{Name: "b", Columns: []string{"k", "y"}}
	join := types.Join(
		types.As(types.From(a), "a"),
		types.As(types.From(b), "b"),
		types.Fun(types.Symbol(types.EQ),
			types.Get(types.Get(nil, "a"), "k"),
			types.Get(types.Get(nil, "b"), "k"),
		),
		types.InnerJoin,
	)
	tree := types.Select(join,
		types.SelectItem{Label: "x", Expr: types.Get(types.Get(nil, "a"), "x")},
		types.SelectItem{Label: "y", Expr: types.Get(types.Get(nil, "b"), "y")},
	)
	res := compileThroughLink(t, tree)

	joinBox := findJoinBox(res)
	if joinBox == nil {
		t.Fatal("expected to find the join's box")
	}
	jn := joinBox.Over.(*types.ExtendedJoinNode)
	left := jn.Over.(*types.BoxNode)
	right := jn.Joinee.(*types.BoxNode)

	if len(left.Refs) == 0 {
		t.Fatal("expected the left side to receive at least one routed ref")
	}
	if len(right.Refs) == 0 {
		t.Fatal("expected the right side to receive at least one routed ref")
	}
}

func findJoinBox(res *annotate.Result) *types.BoxNode {
	for _, box := range res.Boxes {
		if _, ok := box.Over.(*types.ExtendedJoinNode); ok {
			return box
		}
	}
	return nil
}

// Error locality (spec.md 8.7): the reported path's leaf is the offending
// Get node itself.
func TestLinkErrorLocalityPointsAtOffendingGet(t *testing.T) {
	tree := types.Select(
		types.From(types.Table{Name: "t", Columns: []string{"a"}}),
		types.SelectItem{Label: "missing", Expr: types.Get(nil, "missing")},
	)
	res, err := annotate.Annotate(tree)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if err := resolve.Run(res); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	err = Run(res)
	if err == nil {
		t.Fatal("expected UndefinedName for a missing column")
	}
	ce, ok := err.(interface{ Path() []types.Node })
	if !ok {
		t.Fatalf("expected an error exposing Path(), got %T", err)
	}
	path := ce.Path()
	if len(path) == 0 {
		t.Fatal("expected a non-empty path")
	}
	g, ok := path[0].(*types.GetNode)
	if !ok || g.Name != "missing" {
		t.Fatalf("expected path to start at Get(missing), got %+v", path[0])
	}
}
