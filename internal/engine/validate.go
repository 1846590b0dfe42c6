package engine

import (
	"context"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/instrument"
	"alchemist-backend/internal/metadata"
)

// Validate runs the full diagnostic pass for one dataset against the
// schema table for its kind. Cross-entity checks (references, skill
// coverage, concurrency) read the other datasets from all but never
// mutate them. The returned stream is deterministic: row-major, with a
// fixed check order within each row, so re-running on unchanged input
// yields an identical sequence.
func Validate(ctx context.Context, e *entity.Entity, all []*entity.Entity, reg *metadata.Registry) []entity.Diagnostic {
	_, span := instrument.GetInstrumenter(ctx).StartSpan(ctx, "engine", "validate", "validate."+string(e.Kind))
	defer span.End()
	span.SetEntity(string(e.Kind), "")

	schema := reg.Get(e.Kind)
	if schema == nil {
		span.SetStatus("ok")
		return nil
	}

	diags := checkRequiredColumns(e, schema)

	workers := findDataset(all, metadata.KindWorkers)
	seen := make(map[string]bool, len(e.Rows))

	for i, row := range e.Rows {
		rowNum := i + 1
		diags = append(diags, checkIdentity(row, rowNum, schema, seen)...)
		diags = append(diags, checkRanges(row, rowNum, schema)...)
		diags = append(diags, checkEncoded(row, rowNum, schema)...)
		diags = append(diags, checkReferences(row, rowNum, schema, all, reg)...)

		switch e.Kind {
		case metadata.KindWorkers:
			diags = append(diags, checkWorkerCapacity(row, rowNum)...)
		case metadata.KindTasks:
			diags = append(diags, checkSkillCoverage(row, rowNum, workers)...)
			diags = append(diags, checkConcurrencyFeasibility(row, rowNum, workers)...)
		}
	}

	span.SetMetadata("rows", len(e.Rows))
	span.SetMetadata("diagnostics", len(diags))
	span.SetStatus("ok")
	return diags
}

// ValidateAll validates every stored dataset, folds phase-saturation
// findings into the tasks dataset, and publishes the severity partitions
// through the store. Stored entities are not mutated in place: each
// annotated dataset replaces its predecessor under the store's lock, so
// concurrent readers keep serving a consistent snapshot. It returns the
// combined diagnostic stream.
func ValidateAll(ctx context.Context, store *entity.Store, reg *metadata.Registry) []entity.Diagnostic {
	_, span := instrument.GetInstrumenter(ctx).StartSpan(ctx, "engine", "validate", "validate.all")
	defer span.End()

	all := store.All()
	var stream []entity.Diagnostic

	for _, e := range all {
		diags := Validate(ctx, e, all, reg)
		if e.Kind == metadata.KindTasks {
			diags = append(diags, ValidatePhaseSaturation(all)...)
		}
		store.SetDiagnostics(e.Kind, diags)
		stream = append(stream, diags...)
	}

	span.SetMetadata("diagnostics", len(stream))
	span.SetStatus("ok")
	return stream
}

// findDataset returns the dataset of the given kind, or nil.
func findDataset(all []*entity.Entity, kind metadata.Kind) *entity.Entity {
	for _, e := range all {
		if e != nil && e.Kind == kind {
			return e
		}
	}
	return nil
}
