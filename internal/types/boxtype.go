package types

// HandleEntry is one entry of a BoxType's handle map: either a concrete
// RowType (the inner tabular node's own row) or Ambiguous if the handle was
// claimed twice: both sides of an ExtendedJoin carry it (UnionHandleMap),
// or a box's own handle is already in the map it inherited (SetHandle).
// An Append (IntersectHandleMap) keeps an entry ambiguous only if a branch
// already marked it so.
type HandleEntry struct {
	Ambiguous bool
	Row       *RowType
}

// BoxType is the schema of a tabular expression: its default alias, its
// visible row, and the map from every inner addressable handle to that
// inner node's row.
type BoxType struct {
	Name      Symbol
	Row       *RowType
	HandleMap map[Handle]HandleEntry
}

// NewBoxType returns a BoxType with an empty row and handle map.
func NewBoxType(name Symbol) *BoxType {
	return &BoxType{Name: name, Row: NewRowType(), HandleMap: make(map[Handle]HandleEntry)}
}

// SetHandle records that h resolves to row, widening to Ambiguous if h
// already has an entry, whatever its row (spec 4.4 step 3: "an existing
// entry becomes AmbiguousType").
func (t *BoxType) SetHandle(h Handle, row *RowType) {
	if h == NoHandle {
		return
	}
	if _, exists := t.HandleMap[h]; exists {
		t.HandleMap[h] = HandleEntry{Ambiguous: true}
		return
	}
	t.HandleMap[h] = HandleEntry{Row: row}
}
