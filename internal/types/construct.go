package types

// This file holds flat, non-validating constructors for every user-facing
// node kind. They exist so this module's own tests (and any future surface
// layer) have a way to build an operator tree without reaching into struct
// literals; they perform no validation because validity is established by
// the compiler passes, not at construction time.

func From(table Table) *FromNode { return &FromNode{Table: table} }

func Select(over Node, labelMap ...SelectItem) *SelectNode {
	return &SelectNode{Over: over, LabelMap: labelMap}
}

func Where(over Node, condition Node) *WhereNode {
	return &WhereNode{Over: over, Condition: condition}
}

func Join(over, joinee, on Node, kind JoinKind) *JoinNode {
	return &JoinNode{Over: over, Joinee: joinee, On: on, Kind: kind}
}

func Group(over Node, by ...GroupItem) *GroupNode {
	return &GroupNode{Over: over, By: by}
}

func Partition(over Node, by []GroupItem, orderBy []OrderItem) *PartitionNode {
	return &PartitionNode{Over: over, By: by, OrderBy: orderBy}
}

func Append(over Node, list ...Node) *AppendNode {
	return &AppendNode{Over: over, List: list}
}

func As(over Node, name Symbol) *AsNode {
	return &AsNode{Over: over, Name: name}
}

func Define(over Node, labelMap ...DefineItem) *DefineNode {
	return &DefineNode{Over: over, LabelMap: labelMap}
}

func Order(over Node, by ...OrderItem) *OrderNode {
	return &OrderNode{Over: over, By: by}
}

func Limit(over Node, count, offset *int) *LimitNode {
	return &LimitNode{Over: over, Count: count, Offset: offset}
}

func Highlight(over Node, note Symbol) *HighlightNode {
	return &HighlightNode{Over: over, Note: note}
}

func Bind(over Node, list ...BindItem) *BindNode {
	return &BindNode{Over: over, List: list}
}

func Get(over Node, name Symbol) *GetNode { return &GetNode{Over: over, Name: name} }

func Fun(name Symbol, args ...Node) *FunNode { return &FunNode{Name: name, Args: args} }

func Agg(name Symbol, args []Node, filter Node) *AggNode {
	return &AggNode{Name: name, Args: args, Filter: filter}
}

func Literal(value any) *LiteralNode { return &LiteralNode{Value: value} }

func Variable(name Symbol) *VariableNode { return &VariableNode{Name: name} }

func Sort(over Node, dir Direction) *SortNode { return &SortNode{Over: over, Dir: dir} }
