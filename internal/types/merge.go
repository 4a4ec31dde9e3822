package types

// UnionField merges two FieldTypes as spec 4.4 requires for ExtendedJoin:
// conflicting kinds yield AmbiguousField; an empty side yields the other
// side; identical scalar kinds pass through; two RowKinds recurse.
func UnionField(a, b FieldType) FieldType {
	if a.Kind == FieldEmptyKind {
		return b
	}
	if b.Kind == FieldEmptyKind {
		return a
	}
	if a.Kind != b.Kind {
		return AmbiguousField
	}
	switch a.Kind {
	case FieldRowKind:
		return RowField(UnionRow(a.Row, b.Row))
	case FieldScalarKind:
		return ScalarField
	default:
		return AmbiguousField
	}
}

// IntersectField merges two FieldTypes as spec 4.4 requires for Append:
// EmptyType intersected with anything is EmptyType; matching kinds pass
// (or recurse, for nested rows); mismatched kinds are ambiguous. See
// SPEC_FULL.md's resolved Open Question: nested RowType intersection
// recurses rather than collapsing straight to AmbiguousField.
func IntersectField(a, b FieldType) FieldType {
	if a.Kind == FieldEmptyKind || b.Kind == FieldEmptyKind {
		return EmptyField
	}
	if a.Kind != b.Kind {
		return AmbiguousField
	}
	switch a.Kind {
	case FieldRowKind:
		return RowField(IntersectRow(a.Row, b.Row))
	case FieldScalarKind:
		return ScalarField
	default:
		return AmbiguousField
	}
}

// UnionRow merges two row types field-by-field, in the order fields were
// first seen across both rows, and unions their Group slots.
func UnionRow(a, b *RowType) *RowType {
	out := NewRowType()
	for _, sym := range a.Order() {
		af, _ := a.Get(sym)
		if bf, ok := b.Get(sym); ok {
			out.Set(sym, UnionField(af, bf))
		} else {
			out.Set(sym, af)
		}
	}
	for _, sym := range b.Order() {
		if _, ok := out.Get(sym); ok {
			continue
		}
		bf, _ := b.Get(sym)
		out.Set(sym, bf)
	}
	out.Group = UnionGroup(a.Group, b.Group)
	return out
}

// IntersectRow keeps only fields present in both rows (spec 4.4: "fields
// present in all"), in a's order, and intersects their Group slots.
func IntersectRow(a, b *RowType) *RowType {
	out := NewRowType()
	for _, sym := range a.Order() {
		bf, ok := b.Get(sym)
		if !ok {
			continue
		}
		af, _ := a.Get(sym)
		out.Set(sym, IntersectField(af, bf))
	}
	out.Group = IntersectGroup(a.Group, b.Group)
	return out
}

// UnionGroup follows spec 4.4: EmptyType union X = X; two concrete bases
// recurse; anything else is ambiguous.
func UnionGroup(a, b GroupType) GroupType {
	if a.Kind == GroupEmptyKind {
		return b
	}
	if b.Kind == GroupEmptyKind {
		return a
	}
	if a.Kind == GroupRowKind && b.Kind == GroupRowKind {
		return RowGroup(UnionRow(a.Row, b.Row))
	}
	return AmbiguousGroup
}

// IntersectGroup follows spec 4.4: EmptyType intersect X = EmptyType; two
// concrete bases recurse; anything else is ambiguous.
func IntersectGroup(a, b GroupType) GroupType {
	if a.Kind == GroupEmptyKind || b.Kind == GroupEmptyKind {
		return EmptyGroup
	}
	if a.Kind == GroupRowKind && b.Kind == GroupRowKind {
		return RowGroup(IntersectRow(a.Row, b.Row))
	}
	return AmbiguousGroup
}

// UnionHandleMap merges two handle maps; a handle present in both becomes
// ambiguous (spec 4.4: "union handle maps (overlap -> AmbiguousType)").
func UnionHandleMap(a, b map[Handle]HandleEntry) map[Handle]HandleEntry {
	out := make(map[Handle]HandleEntry, len(a)+len(b))
	for h, e := range a {
		out[h] = e
	}
	for h, e := range b {
		if _, exists := out[h]; exists {
			out[h] = HandleEntry{Ambiguous: true}
			continue
		}
		out[h] = e
	}
	return out
}

// IntersectHandleMap keeps only handles present in both maps, set
// ambiguous if either side already marked it so.
func IntersectHandleMap(a, b map[Handle]HandleEntry) map[Handle]HandleEntry {
	out := make(map[Handle]HandleEntry)
	for h, e := range a {
		be, ok := b[h]
		if !ok {
			continue
		}
		if e.Ambiguous || be.Ambiguous {
			out[h] = HandleEntry{Ambiguous: true}
			continue
		}
		out[h] = e
	}
	return out
}
