package boxsql

import (
	"testing"

	"github.com/boxsql/boxsql/internal/types"
)

func peopleTable() types.Table {
	return types.Table{Name: "people", Columns: []string{"name", "age"}}
}

// E1: From(people).Select(:name -> Get(:name)).
func TestCompileSelectSeedsRefs(t *testing.T) {
	tree := types.Select(types.From(peopleTable()),
		types.SelectItem{Label: "name", Expr: types.Get(nil, "name")},
	)

	out, err := Compile(tree)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	root, ok := out.Root.(*types.BoxNode)
	if !ok {
		t.Fatalf("root is not a Box: %T", out.Root)
	}
	if root.Type == nil || root.Type.Row.Len() != 1 {
		t.Fatalf("expected single-field root row, got %+v", root.Type)
	}
	if _, ok := root.Type.Row.Get("name"); !ok {
		t.Fatalf("expected root row to have field %q", "name")
	}

	selectNode, ok := root.Over.(*types.SelectNode)
	if !ok {
		t.Fatalf("root.Over is not Select: %T", root.Over)
	}
	fromBox, ok := selectNode.Over.(*types.BoxNode)
	if !ok {
		t.Fatalf("select.Over is not a Box: %T", selectNode.Over)
	}
	if len(fromBox.Refs) != 1 {
		t.Fatalf("expected From box to have 1 seeded ref, got %d", len(fromBox.Refs))
	}
	g, ok := fromBox.Refs[0].(*types.GetNode)
	if !ok || g.Name != "name" {
		t.Fatalf("expected From box ref Get(name), got %+v", fromBox.Refs[0])
	}
}

// E2: From(people).Where(Fun(>,Get(age),Literal(21))).Select(:name).
func TestCompileWhereGathersCondition(t *testing.T) {
	tree := types.Select(
		types.Where(
			types.From(peopleTable()),
			types.Fun(types.Symbol(types.GT), types.Get(nil, "age"), types.Literal(21)),
		),
		types.SelectItem{Label: "name", Expr: types.Get(nil, "name")},
	)

	out, err := Compile(tree)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	root := out.Root.(*types.BoxNode)
	selectNode := root.Over.(*types.SelectNode)
	whereBox := selectNode.Over.(*types.BoxNode)
	whereNode := whereBox.Over.(*types.WhereNode)
	fromBox := whereNode.Over.(*types.BoxNode)

	names := map[types.Symbol]bool{}
	for _, ref := range fromBox.Refs {
		if g, ok := ref.(*types.GetNode); ok {
			names[g.Name] = true
		}
	}
	if !names["age"] || !names["name"] {
		t.Fatalf("expected the Where input box refs to contain age and name, got %+v", fromBox.Refs)
	}
}

// E6: From(a).Select(Agg(count)) with no enclosing Group/Partition.
func TestCompileBareAggIsUnexpectedAggregate(t *testing.T) {
	tree := types.Select(
		types.From(types.Table{Name: "a", Columns: []string{"x"}}),
		types.SelectItem{Label: "n", Expr: types.Agg("count", nil, nil)},
	)

	_, err := Compile(tree)
	if err == nil {
		t.Fatal("expected an error for bare Agg outside Group/Partition")
	}
	ce, ok := err.(CompileError)
	if !ok {
		t.Fatalf("expected a CompileError, got %T", err)
	}
	if ce.Kind() != KindUnexpectedAggregate {
		t.Fatalf("expected KindUnexpectedAggregate, got %v", ce.Kind())
	}
}

// E4: From(orders).Group(customer_id).Select(customer_id, Agg(sum,total)).
func TestCompileGroupValidatesAggAndKeys(t *testing.T) {
	orders := types.Table{Name: "orders", Columns: []string{"customer_id", "total"}}
	tree := types.Select(
		types.Group(types.From(orders),
			types.GroupItem{Label: "customer_id", Expr: types.Get(nil, "customer_id")},
		),
		types.SelectItem{Label: "customer_id", Expr: types.Get(nil, "customer_id")},
		types.SelectItem{Label: "total", Expr: types.Agg("sum", []types.Node{types.Get(nil, "total")}, nil)},
	)

	out, err := Compile(tree)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	root := out.Root.(*types.BoxNode)
	selectNode := root.Over.(*types.SelectNode)
	groupBox := selectNode.Over.(*types.BoxNode)
	groupNode := groupBox.Over.(*types.GroupNode)
	fromBox := groupNode.Over.(*types.BoxNode)

	if groupBox.Type.Row.Group.Kind != types.GroupRowKind {
		t.Fatalf("expected group box to carry a concrete group base, got %+v", groupBox.Type.Row.Group)
	}

	found := false
	for _, ref := range fromBox.Refs {
		if g, ok := ref.(*types.GetNode); ok && g.Name == "total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected From box refs to include total (from the Agg arg), got %+v", fromBox.Refs)
	}
}

// E4 variant of the resolved Open Question: a Get over a Group that is not
// a group key is a validation error, not a silent drop. The Group's row
// holds only its keys, so the Select's own validation reports the column
// as UndefinedName.
func TestCompileGroupRejectsNonKeyGet(t *testing.T) {
	orders := types.Table{Name: "orders", Columns: []string{"customer_id", "total"}}
	tree := types.Select(
		types.Group(types.From(orders),
			types.GroupItem{Label: "customer_id", Expr: types.Get(nil, "customer_id")},
		),
		types.SelectItem{Label: "total", Expr: types.Get(nil, "total")},
	)

	_, err := Compile(tree)
	if err == nil {
		t.Fatal("expected an error for a non-group-key Get reaching a Group")
	}
	ce, ok := err.(CompileError)
	if !ok {
		t.Fatalf("expected a CompileError, got %T", err)
	}
	if ce.Kind() != KindUndefinedName {
		t.Fatalf("expected KindUndefinedName, got %v", ce.Kind())
	}
}

// E3: From(a).Join(From(b), on=a.k=b.k).Select(a.x).
func TestCompileJoinResolvesAndRoutes(t *testing.T) {
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
	)

	out, err := Compile(tree)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	root := out.Root.(*types.BoxNode)
	selectNode := root.Over.(*types.SelectNode)
	joinBox := selectNode.Over.(*types.BoxNode)
	joinNode := joinBox.Over.(*types.ExtendedJoinNode)

	aField, ok := joinBox.Type.Row.Get("a")
	if !ok || aField.Kind != types.FieldRowKind {
		t.Fatalf("expected join row to have a nested 'a' namespace, got %+v", aField)
	}
	bField, ok := joinBox.Type.Row.Get("b")
	if !ok || bField.Kind != types.FieldRowKind {
		t.Fatalf("expected join row to have a nested 'b' namespace, got %+v", bField)
	}

	leftBox := joinNode.Over.(*types.BoxNode)
	rightBox := joinNode.Joinee.(*types.BoxNode)

	leftHasX := false
	for _, ref := range leftBox.Refs {
		if nb, ok := ref.(*types.NameBoundNode); ok && nb.Name == "a" {
			if g, ok := nb.Over.(*types.GetNode); ok && g.Name == "x" {
				leftHasX = true
			}
		}
	}
	if !leftHasX {
		t.Fatalf("expected left box refs to include a.x, got %+v", leftBox.Refs)
	}
	if len(rightBox.Refs) == 0 {
		t.Fatalf("expected right box to receive the b.k side of the join condition")
	}
}

// E5: From(a).As(:x).Join(From(b).As(:y), on=x.k=y.k); Get(:z,:k) is
// undefined.
func TestCompileUndefinedNamespaceName(t *testing.T) {
	a := types.Table{Name: "a", Columns: []string{"k"}}
	b := types.Table{Name: "b", Columns: []string{"k"}}

	join := types.Join(
		types.As(types.From(a), "x"),
		types.As(types.From(b), "y"),
		types.Fun(types.Symbol(types.EQ),
			types.Get(types.Get(nil, "x"), "k"),
			types.Get(types.Get(nil, "y"), "k"),
		),
		types.InnerJoin,
	)
	tree := types.Select(join,
		types.SelectItem{Label: "k", Expr: types.Get(types.Get(nil, "z"), "k")},
	)

	_, err := Compile(tree)
	if err == nil {
		t.Fatal("expected UndefinedName for a namespace that was never joined")
	}
	ce, ok := err.(CompileError)
	if !ok {
		t.Fatalf("expected a CompileError, got %T", err)
	}
	if ce.Kind() != KindUndefinedName {
		t.Fatalf("expected KindUndefinedName, got %v", ce.Kind())
	}
}

// A correlated subquery reached only via Get(subquery, name) must compile
// end to end: the subquery's handle is known nowhere in the outer box's
// local HandleMap, so this exercises the linker's global handle fallback
// rather than a purely structural lookup.
func TestCompileCorrelatedSubqueryHandleReference(t *testing.T) {
	sub := types.From(types.Table{Name: "b", Columns: []string{"v"}})
	tree := types.Select(
		types.From(types.Table{Name: "a", Columns: []string{"x"}}),
		types.SelectItem{Label: "v", Expr: types.Get(sub, "v")},
	)

	out, err := Compile(tree)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	var subBox *types.BoxNode
	for _, box := range out.Boxes {
		if fn, ok := box.Over.(*types.FromNode); ok && fn.Table.Name == "b" {
			subBox = box
		}
	}
	if subBox == nil {
		t.Fatal("expected to find the correlated sub-query's box")
	}
	found := false
	for _, ref := range subBox.Refs {
		if g, ok := ref.(*types.GetNode); ok && g.Name == "v" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the sub-query's box to receive the demanded ref, got %+v", subBox.Refs)
	}
}

// The canonical lateral-join shape: the joinee's own Where condition
// reaches back into the outer side's raw tabular node via Get. This must
// compile successfully and populate ExtendedJoin.Lateral, the field the
// emitter reads to decide whether to render LATERAL.
func TestCompileLateralJoinCorrelatesViaHandle(t *testing.T) {
	outerFrom := types.From(types.Table{Name: "a", Columns: []string{"k", "x"}})
	b := types.Table{Name: "b", Columns: []string{"k", "y"}}

	joinee := types.Where(
		types.From(b),
		types.Fun(types.Symbol(types.EQ), types.Get(nil, "k"), types.Get(outerFrom, "k")),
	)
	join := types.Join(outerFrom, joinee, types.Literal(true), types.InnerJoin)
	tree := types.Select(join,
		types.SelectItem{Label: "x", Expr: types.Get(nil, "x")},
		types.SelectItem{Label: "y", Expr: types.Get(nil, "y")},
	)

	out, err := Compile(tree)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	root := out.Root.(*types.BoxNode)
	selectNode := root.Over.(*types.SelectNode)
	joinBox := selectNode.Over.(*types.BoxNode)
	joinNode := joinBox.Over.(*types.ExtendedJoinNode)

	if len(joinNode.Lateral) == 0 {
		t.Fatal("expected ExtendedJoin.Lateral to be populated by the correlated reference")
	}
}

func TestCompileNilRootProducesEmptyBox(t *testing.T) {
	out, err := Compile(nil)
	if err != nil {
		t.Fatalf("Compile(nil): %v", err)
	}
	root, ok := out.Root.(*types.BoxNode)
	if !ok {
		t.Fatalf("expected a Box root, got %T", out.Root)
	}
	if root.Over != nil {
		t.Fatalf("expected an empty box, got Over=%+v", root.Over)
	}
}
