package entity

import (
	"fmt"

	"alchemist-backend/internal/metadata"
)

// Row is one record: canonical field name to a loosely typed cell value.
// Encoded-structure fields (JSON arrays/objects) arrive as strings.
type Row map[string]any

// String returns the best-effort string form of a field value.
// Missing and nil values render as "".
func (r Row) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Entity is one uploaded dataset: its kind, ordered rows, and the
// diagnostics from the most recent validation pass. Row order is the
// 1-based row number used in diagnostics.
type Entity struct {
	Kind     metadata.Kind `json:"kind"`
	Rows     []Row         `json:"rows"`
	Errors   []Diagnostic  `json:"errors"`
	Warnings []Diagnostic  `json:"warnings"`
}

func New(kind metadata.Kind, rows []Row) *Entity {
	return &Entity{Kind: kind, Rows: rows, Errors: []Diagnostic{}, Warnings: []Diagnostic{}}
}

// SetDiagnostics replaces both partitions from a single diagnostic stream.
// Every diagnostic lands in exactly one partition, by severity, preserving
// stream order within each.
func (e *Entity) SetDiagnostics(diags []Diagnostic) {
	e.Errors = []Diagnostic{}
	e.Warnings = []Diagnostic{}
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			e.Warnings = append(e.Warnings, d)
		} else {
			e.Errors = append(e.Errors, d)
		}
	}
}

// IDs returns the set of raw ID values present in the dataset, using the
// schema's ID field. Empty values are skipped.
func (e *Entity) IDs(idField string) map[string]bool {
	ids := make(map[string]bool, len(e.Rows))
	for _, row := range e.Rows {
		if id := row.String(idField); id != "" {
			ids[id] = true
		}
	}
	return ids
}
