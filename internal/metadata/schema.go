package metadata

// RangeSpec declares an integer field with inclusive bounds.
// Max <= 0 means unbounded above.
type RangeSpec struct {
	Field string `json:"field" yaml:"field"`
	Min   int    `json:"min" yaml:"min"`
	Max   int    `json:"max,omitempty" yaml:"max,omitempty"`
}

// ListSpec declares a field encoded as a JSON array of positive integers
// (the spreadsheet shorthand "a-b" is also accepted).
type ListSpec struct {
	Field string `json:"field" yaml:"field"`
}

// ObjectSpec declares a field encoded as a JSON object.
type ObjectSpec struct {
	Field string `json:"field" yaml:"field"`
}

// RefSpec declares a comma-separated list of IDs that must exist in the
// Target kind's dataset.
type RefSpec struct {
	Field  string `json:"field" yaml:"field"`
	Target Kind   `json:"target" yaml:"target"`
}

// Schema is the declarative validation table for one dataset kind.
// The engine is parameterized by these tables; adding a kind means adding
// a schema, not a routine.
type Schema struct {
	Kind     Kind         `json:"kind" yaml:"kind"`
	IDField  string       `json:"id_field" yaml:"id_field"`
	Required []string     `json:"required" yaml:"required"`
	Ranges   []RangeSpec  `json:"ranges,omitempty" yaml:"ranges,omitempty"`
	Lists    []ListSpec   `json:"lists,omitempty" yaml:"lists,omitempty"`
	Objects  []ObjectSpec `json:"objects,omitempty" yaml:"objects,omitempty"`
	Refs     []RefSpec    `json:"refs,omitempty" yaml:"refs,omitempty"`
}

// RequiresColumn reports whether the schema lists the column as required.
func (s *Schema) RequiresColumn(name string) bool {
	for _, c := range s.Required {
		if c == name {
			return true
		}
	}
	return false
}

// GetRange returns the range spec for the field, or nil.
func (s *Schema) GetRange(field string) *RangeSpec {
	for i := range s.Ranges {
		if s.Ranges[i].Field == field {
			return &s.Ranges[i]
		}
	}
	return nil
}
