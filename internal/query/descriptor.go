package query

// Field maps an API field name onto a SQL column.
type Field struct {
	Name      string // name used in query parameters and response bodies
	Column    string // underlying column, always referenced via this map
	Sensitive bool   // never filterable, sortable, or selectable
}

// Relation describes an optional related-record expansion: for each result
// row, records from Table whose RemoteColumn matches the row's LocalField
// value are attached under Name. Related fields are display only, never
// filterable or sortable.
type Relation struct {
	Name        string  // key the related record is attached under
	Table       string
	LocalField  string  // API field on the parent carrying the foreign key
	RemoteField Field   // identity field on the related table
	Fields      []Field // related fields to attach
}

// Descriptor is the capability surface a collection exposes to the query
// builder: its table, its field/column mapping, and its default ordering.
// Only fields listed here ever reach the generated SQL, so request input
// can never name a raw column.
type Descriptor struct {
	Table        string
	IDField      string // API name of the identity field, always selected
	CreatedField string // API field backing the default descending sort
	Fields       []Field
	Relation     *Relation
}

// field looks up a non-sensitive field by API name.
func (d *Descriptor) field(name string) (Field, bool) {
	for _, f := range d.Fields {
		if f.Name == name && !f.Sensitive {
			return f, true
		}
	}
	return Field{}, false
}

// defaultFields returns every non-sensitive field, the default selection.
func (d *Descriptor) defaultFields() []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.Sensitive {
			out = append(out, f)
		}
	}
	return out
}

// idColumn returns the SQL column backing the identity field.
func (d *Descriptor) idColumn() string {
	for _, f := range d.Fields {
		if f.Name == d.IDField {
			return f.Column
		}
	}
	return "id"
}
