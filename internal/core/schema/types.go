// Package schema contains the pure business logic for deriving per-part
// record schemas from a procedure configuration.
// This is part of the Functional Core - no I/O, only pure functions.
package schema

// FieldKind is the storage kind of a declared field.
type FieldKind string

const (
	// KindText is a free-text field, stored as TEXT with '' default.
	KindText FieldKind = "text"
	// KindBoolean is a checkbox field, stored as INTEGER 0/1.
	KindBoolean FieldKind = "boolean"
)

// Which selects one of the two schemas derived for a part.
type Which string

const (
	// InProcess covers stages up to and including production QC.
	InProcess Which = "in_process"
	// Completion covers stages from QC onward.
	Completion Which = "completion"
)

// FieldDef is a field as declared under a stage in the procedure
// configuration, before name qualification.
type FieldDef struct {
	Name  string
	Kind  FieldKind
	Label string
}

// StageDefinition is one stage of a part's procedure configuration.
type StageDefinition struct {
	Name     string
	Enabled  bool
	Position int
	Fields   []FieldDef
}

// FieldSpec is a derived field on a part schema. QualifiedName is unique
// within the schema and is the physical column name.
type FieldSpec struct {
	QualifiedName string
	Kind          FieldKind
	Label         string
	// Section is the owning stage name, empty for common fields.
	Section string
	// IsCommon marks the identifying fields (usid, serial_number) seeded
	// on the completion schema.
	IsCommon bool
}

// PartSchema is one of the two derived record schemas for a part.
// Timestamps indicates the created_at/updated_at pair carried by the
// backing table alongside the field list.
type PartSchema struct {
	PartNumber string
	Which      Which
	TableName  string
	Fields     []FieldSpec
	Timestamps bool
}

// Field returns the spec with the given qualified name, if present.
func (s *PartSchema) Field(qualifiedName string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.QualifiedName == qualifiedName {
			return f, true
		}
	}
	return FieldSpec{}, false
}

// FieldNames returns the qualified names of all fields in schema order.
func (s *PartSchema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.QualifiedName
	}
	return names
}

// Pair holds the two schemas derived together from one procedure
// configuration. They are created and replaced together, never edited
// independently.
type Pair struct {
	InProcess  *PartSchema
	Completion *PartSchema
}

// Schema returns the requested half of the pair.
func (p Pair) Schema(which Which) *PartSchema {
	if which == Completion {
		return p.Completion
	}
	return p.InProcess
}
