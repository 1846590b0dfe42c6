package rules

import "sync"

// Rule kinds. These strings are part of the API contract; consumers match
// on them bit-exactly.
const (
	KindCoRun           = "coRun"
	KindSlotRestriction = "slotRestriction"
	KindLoadLimit       = "loadLimit"
	KindPhaseWindow     = "phaseWindow"
	KindPatternMatch    = "patternMatch"
	KindPrecedence      = "precedence"
)

// ValidKind reports whether k is one of the known rule kinds.
func ValidKind(k string) bool {
	switch k {
	case KindCoRun, KindSlotRestriction, KindLoadLimit,
		KindPhaseWindow, KindPatternMatch, KindPrecedence:
		return true
	}
	return false
}

// Rule is one operator-declared business rule. The engine records rules
// and previews them; it never enforces them against the datasets. The
// shape of Parameters depends on Kind; an optional "expression" parameter
// (a boolean expression over record/kind) powers the preview feature.
type Rule struct {
	ID          string         `json:"id"`
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`

	// compiled caches the compiled expression program (set lazily, not
	// serialized). mu guards it so concurrent previews of the same rule
	// are safe.
	mu       sync.Mutex
	compiled any
}

// Expression returns the optional expression parameter, or "".
func (r *Rule) Expression() string {
	if r.Parameters == nil {
		return ""
	}
	s, _ := r.Parameters["expression"].(string)
	return s
}
