package query

import (
	"context"
	"fmt"
	"regexp"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/instrument"
	"alchemist-backend/internal/metadata"
)

// ResultRow is a shallow copy of a matched record tagged with its source
// dataset kind under "_kind".
type ResultRow map[string]any

// Result is the outcome of one query: the matched rows and an explanation
// naming which pattern fired (or that the fallback search ran).
type Result struct {
	Rows        []ResultRow `json:"rows"`
	Explanation string      `json:"explanation"`
}

// handlerFunc extracts parameters from the regexp submatches and filters
// the datasets. A nil return means the extraction could not be resolved
// (e.g. unknown entity kind) and the fallback search should run instead.
type handlerFunc func(m []string, datasets []*entity.Entity) *Result

type pattern struct {
	name    string
	re      *regexp.Regexp
	handler handlerFunc
}

// Engine evaluates free-text queries against an ordered pattern table,
// first match wins. It holds no state besides the compiled patterns and is
// safe for concurrent use.
type Engine struct {
	patterns []pattern
}

func New() *Engine {
	e := &Engine{}
	e.patterns = []pattern{
		{
			name:    "generic condition",
			re:      regexp.MustCompile(`(?i)\b(?:find|show|get|list)\s+(\w+)\s+(?:with|having|that\s+have)\s+(.+)`),
			handler: e.genericCondition,
		},
		{
			name:    "numeric comparison",
			re:      regexp.MustCompile(`(?i)\b(\w+)\s+with\s+(\w+)\s+(more|greater|over|above|less|fewer|under|below)\s+than\s+(\d+)`),
			handler: e.numericComparison,
		},
		{
			name:    "field equality",
			re:      regexp.MustCompile(`(?i)\b(\w+)\s+with\s+(\w+)\s+equal\s+to\s+(\S+)`),
			handler: e.fieldEquality,
		},
		{
			name:    "group membership",
			re:      regexp.MustCompile(`(?i)\b(\w+)\s+(?:in|from)\s+(?:group|team)\s+(\S+)`),
			handler: e.groupMembership,
		},
		{
			name:    "phase availability",
			re:      regexp.MustCompile(`(?i)\b(\w+)\s+available\s+in\s+phases?\s+(\d+)(?:\s+and\s+(\d+))?`),
			handler: e.phaseAvailability,
		},
		{
			name:    "phase preference",
			re:      regexp.MustCompile(`(?i)\b(\w+)\s+preferr?(?:ing|s)?\s+phases?\s+(\d+)(?:\s+and\s+(\d+))?`),
			handler: e.phasePreference,
		},
		{
			name:    "skill requirement",
			re:      regexp.MustCompile(`(?i)\b(\w+)\s+(?:requiring|needing)\s+skills?\s+(.+)`),
			handler: e.skillRequirement,
		},
	}
	return e
}

// Query evaluates the text against the pattern table. The first pattern
// whose expression matches is applied; when no pattern matches (or the
// matched pattern cannot resolve its parameters) the engine falls back to
// a substring search across every dataset. Query never fails and never
// mutates the datasets.
func (e *Engine) Query(ctx context.Context, text string, datasets []*entity.Entity) *Result {
	_, span := instrument.GetInstrumenter(ctx).StartSpan(ctx, "engine", "query", "query.evaluate")
	defer span.End()

	for _, p := range e.patterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if res := p.handler(m, datasets); res != nil {
			span.SetMetadata("pattern", p.name)
			span.SetMetadata("rows", len(res.Rows))
			span.SetStatus("ok")
			return res
		}
		break
	}

	res := fallbackSearch(text, datasets)
	span.SetMetadata("pattern", "fallback")
	span.SetMetadata("rows", len(res.Rows))
	span.SetStatus("ok")
	return res
}

// collect filters one dataset's rows with the predicate, returning fresh
// tagged copies.
func collect(e *entity.Entity, keep func(entity.Row) bool) []ResultRow {
	rows := []ResultRow{}
	if e == nil {
		return rows
	}
	for _, row := range e.Rows {
		if keep(row) {
			out := ResultRow(row.Clone())
			out["_kind"] = string(e.Kind)
			rows = append(rows, out)
		}
	}
	return rows
}

// findDataset returns the dataset of the given kind, or nil.
func findDataset(datasets []*entity.Entity, kind metadata.Kind) *entity.Entity {
	for _, e := range datasets {
		if e != nil && e.Kind == kind {
			return e
		}
	}
	return nil
}

func explain(pattern, detail string) string {
	return fmt.Sprintf("Matched pattern %q: %s", pattern, detail)
}
