package engine

import (
	"encoding/json"
	"fmt"
	"strings"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
)

// checkRequiredColumns verifies column presence against the first row's key
// set. One missing_column error per absent column, row sentinel 1. A
// dataset with no rows is missing every required column. This check never
// blocks the row-level checks.
func checkRequiredColumns(e *entity.Entity, schema *metadata.Schema) []entity.Diagnostic {
	keys := make(map[string]bool)
	if len(e.Rows) > 0 {
		for k := range e.Rows[0] {
			keys[k] = true
		}
	}

	var diags []entity.Diagnostic
	for _, col := range schema.Required {
		if !keys[col] {
			diags = append(diags, entity.Diagnostic{
				Row:      1,
				Column:   col,
				Kind:     entity.DiagMissingColumn,
				Message:  fmt.Sprintf("required column %s is missing", col),
				Severity: entity.SeverityError,
			})
		}
	}
	return diags
}

// checkIdentity enforces a non-empty, collection-unique ID. seen is scoped
// to a single Validate invocation; duplicates are reported on every row
// after the first occurrence.
func checkIdentity(row entity.Row, rowNum int, schema *metadata.Schema, seen map[string]bool) []entity.Diagnostic {
	id := row.String(schema.IDField)
	if id == "" {
		return []entity.Diagnostic{{
			Row:      rowNum,
			Column:   schema.IDField,
			Kind:     entity.DiagMissingValue,
			Message:  fmt.Sprintf("%s is required", schema.IDField),
			Severity: entity.SeverityError,
		}}
	}
	if seen[id] {
		return []entity.Diagnostic{{
			Row:      rowNum,
			Column:   schema.IDField,
			Kind:     entity.DiagDuplicateID,
			Message:  fmt.Sprintf("duplicate %s %q", schema.IDField, id),
			Severity: entity.SeverityError,
		}}
	}
	seen[id] = true
	return nil
}

// checkRanges validates the schema's integer-range fields. A value that
// fails integer coercion is reported as out of range, not as a separate
// kind. Optional columns (not in Required) are skipped when absent or empty.
func checkRanges(row entity.Row, rowNum int, schema *metadata.Schema) []entity.Diagnostic {
	var diags []entity.Diagnostic
	for _, spec := range schema.Ranges {
		raw, present := row[spec.Field]
		if (!present || row.String(spec.Field) == "") && !schema.RequiresColumn(spec.Field) {
			continue
		}

		n, ok := entity.ToInt(raw)
		if !ok || n < spec.Min || (spec.Max > 0 && n > spec.Max) {
			diags = append(diags, entity.Diagnostic{
				Row:      rowNum,
				Column:   spec.Field,
				Kind:     entity.DiagInvalidRange,
				Message:  rangeMessage(spec, row.String(spec.Field)),
				Severity: entity.SeverityError,
			})
		}
	}
	return diags
}

func rangeMessage(spec metadata.RangeSpec, raw string) string {
	if spec.Max > 0 {
		return fmt.Sprintf("%s must be an integer between %d and %d, got %q", spec.Field, spec.Min, spec.Max, raw)
	}
	return fmt.Sprintf("%s must be an integer >= %d, got %q", spec.Field, spec.Min, raw)
}

// checkEncoded validates the encoded-structure fields: JSON objects and
// phase lists. Parse failures become diagnostics, never faults.
func checkEncoded(row entity.Row, rowNum int, schema *metadata.Schema) []entity.Diagnostic {
	var diags []entity.Diagnostic

	for _, spec := range schema.Objects {
		raw := strings.TrimSpace(row.String(spec.Field))
		if raw == "" && !schema.RequiresColumn(spec.Field) {
			continue
		}
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			diags = append(diags, entity.Diagnostic{
				Row:      rowNum,
				Column:   spec.Field,
				Kind:     entity.DiagInvalidJSON,
				Message:  fmt.Sprintf("%s must be a JSON object, got %q", spec.Field, row.String(spec.Field)),
				Severity: entity.SeverityError,
			})
		}
	}

	for _, spec := range schema.Lists {
		raw := row.String(spec.Field)
		if strings.TrimSpace(raw) == "" && !schema.RequiresColumn(spec.Field) {
			continue
		}
		if _, err := entity.ParsePhaseList(raw); err != nil {
			diags = append(diags, entity.Diagnostic{
				Row:      rowNum,
				Column:   spec.Field,
				Kind:     entity.DiagMalformedList,
				Message:  fmt.Sprintf("%s must be a JSON array of positive integers or a range like \"1-3\", got %q", spec.Field, raw),
				Severity: entity.SeverityError,
			})
		}
	}

	return diags
}

// checkReferences verifies that every comma-separated token in a reference
// field exists as an ID in the target dataset. One unknown_reference error
// per unknown token.
func checkReferences(row entity.Row, rowNum int, schema *metadata.Schema, all []*entity.Entity, reg *metadata.Registry) []entity.Diagnostic {
	var diags []entity.Diagnostic
	for _, spec := range schema.Refs {
		tokens := entity.SplitList(row.String(spec.Field))
		if len(tokens) == 0 {
			continue
		}

		targetSchema := reg.Get(spec.Target)
		if targetSchema == nil {
			continue
		}
		ids := map[string]bool{}
		if target := findDataset(all, spec.Target); target != nil {
			ids = target.IDs(targetSchema.IDField)
		}

		for _, token := range tokens {
			if !ids[token] {
				diags = append(diags, entity.Diagnostic{
					Row:      rowNum,
					Column:   spec.Field,
					Kind:     entity.DiagUnknownReference,
					Message:  fmt.Sprintf("%s references unknown %s %q", spec.Field, spec.Target, token),
					Severity: entity.SeverityError,
				})
			}
		}
	}
	return diags
}
