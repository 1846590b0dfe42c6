package rules

import (
	"strings"

	"github.com/google/uuid"
)

// keywordRule is one entry in the interpreter's ordered keyword table.
type keywordRule struct {
	keywords []string
	kind     string
	name     string
	params   func(text string) map[string]any
}

// interpretTable is checked in priority order; the first entry whose
// keyword appears in the text wins.
var interpretTable = []keywordRule{
	{
		keywords: []string{"together", "co-run", "corun"},
		kind:     KindCoRun,
		name:     "Co-run tasks",
		params: func(string) map[string]any {
			return map[string]any{"tasks": []string{}}
		},
	},
	{
		keywords: []string{"load", "limit"},
		kind:     KindLoadLimit,
		name:     "Load limit",
		params: func(string) map[string]any {
			return map[string]any{"workerGroup": "", "maxSlotsPerPhase": 5}
		},
	},
	{
		keywords: []string{"phase", "window"},
		kind:     KindPhaseWindow,
		name:     "Phase window",
		params: func(string) map[string]any {
			return map[string]any{"task": "", "phases": []int{}}
		},
	},
}

// Interpret maps a free-text sentence to a partially filled rule skeleton
// for the operator to refine. It is a shallow first-match-wins keyword
// heuristic and never fails: text matching nothing becomes a patternMatch
// skeleton with the raw text stashed for later pattern authoring. The
// original text is always preserved verbatim in Description.
func Interpret(text string) *Rule {
	lower := strings.ToLower(text)

	for _, entry := range interpretTable {
		for _, kw := range entry.keywords {
			if strings.Contains(lower, kw) {
				return &Rule{
					ID:          uuid.New().String(),
					Kind:        entry.kind,
					Name:        entry.name,
					Description: text,
					Parameters:  entry.params(text),
				}
			}
		}
	}

	return &Rule{
		ID:          uuid.New().String(),
		Kind:        KindPatternMatch,
		Name:        "Pattern rule",
		Description: text,
		Parameters: map[string]any{
			"pattern":  "",
			"template": "",
			"params":   map[string]any{"originalText": text},
		},
	}
}
