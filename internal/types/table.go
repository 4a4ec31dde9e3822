package types

// Table describes a FROM target: its declared name, its default alias, and
// the columns a catalog reports for it. Column order is preserved because it
// becomes the field order of the From box's row type.
type Table struct {
	Name    string
	Alias   string
	Columns []string
}

// GetName returns the table name.
func (t Table) GetName() string {
	return t.Name
}

// GetAlias returns the table alias, or the empty string if none was given.
func (t Table) GetAlias() string {
	return t.Alias
}

// Label returns the canonical label for a From node over this table: the
// alias if one was given, else the table name.
func (t Table) Label() Symbol {
	if t.Alias != "" {
		return Symbol(t.Alias)
	}
	return Symbol(t.Name)
}
