package query

import (
	"fmt"
	"regexp"
	"strings"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
)

// resolveField maps a human field word to a canonical field name for the
// given kind. isList marks fields whose numeric comparisons operate on the
// comma-separated token count rather than the cell value.
func resolveField(word string, kind metadata.Kind) (field string, isList bool, ok bool) {
	switch strings.ToLower(word) {
	case "priority", "prioritylevel":
		return metadata.FieldPriorityLevel, false, true
	case "duration":
		return metadata.FieldDuration, false, true
	case "skill", "skills":
		if kind == metadata.KindTasks {
			return metadata.FieldRequiredSkills, true, true
		}
		return metadata.FieldSkills, true, true
	case "load", "maxload":
		return metadata.FieldMaxLoadPerPhase, false, true
	case "concurrent", "concurrency", "maxconcurrent":
		return metadata.FieldMaxConcurrent, false, true
	case "qualification", "qualificationlevel":
		return "QualificationLevel", false, true
	}
	return "", false, false
}

// fieldNumber extracts the comparable number from a row field: the token
// count for list fields, the integer value otherwise.
func fieldNumber(row entity.Row, field string, isList bool) (int, bool) {
	if isList {
		return len(entity.SplitList(row.String(field))), true
	}
	return entity.ToInt(row[field])
}

func isMoreWord(w string) bool {
	switch strings.ToLower(w) {
	case "more", "greater", "over", "above":
		return true
	}
	return false
}

// numericComparison handles "KIND with FIELD more/less than N".
func (e *Engine) numericComparison(m []string, datasets []*entity.Entity) *Result {
	kind, ok := metadata.ParseKind(m[1])
	if !ok {
		return nil
	}
	field, isList, ok := resolveField(m[2], kind)
	if !ok {
		return nil
	}
	n, ok := entity.ToInt(m[4])
	if !ok {
		return nil
	}
	more := isMoreWord(m[3])

	rows := collect(findDataset(datasets, kind), func(row entity.Row) bool {
		v, ok := fieldNumber(row, field, isList)
		if !ok {
			return false
		}
		if more {
			return v > n
		}
		return v < n
	})

	op := "<"
	if more {
		op = ">"
	}
	noun := field
	if isList {
		noun = field + " count"
	}
	return &Result{
		Rows:        rows,
		Explanation: explain("numeric comparison", fmt.Sprintf("%s where %s %s %d", kind, noun, op, n)),
	}
}

// fieldEquality handles "KIND with FIELD equal to V". Numeric values
// compare as integers; anything else is a case-insensitive substring match.
func (e *Engine) fieldEquality(m []string, datasets []*entity.Entity) *Result {
	kind, ok := metadata.ParseKind(m[1])
	if !ok {
		return nil
	}
	field, isList, ok := resolveField(m[2], kind)
	if !ok {
		return nil
	}
	value := m[3]

	var keep func(entity.Row) bool
	if n, numeric := entity.ToInt(value); numeric {
		keep = func(row entity.Row) bool {
			v, ok := fieldNumber(row, field, isList)
			return ok && v == n
		}
	} else {
		needle := strings.ToLower(value)
		keep = func(row entity.Row) bool {
			return strings.Contains(strings.ToLower(row.String(field)), needle)
		}
	}

	return &Result{
		Rows:        collect(findDataset(datasets, kind), keep),
		Explanation: explain("field equality", fmt.Sprintf("%s where %s equals %s", kind, field, value)),
	}
}

// groupFields are checked in order for group-membership queries; whichever
// exists on the row is matched.
var groupFields = []string{
	metadata.FieldGroupTag,
	metadata.FieldWorkerGroup,
	metadata.FieldCategory,
}

// groupMembership handles "KIND in/from group/team G".
func (e *Engine) groupMembership(m []string, datasets []*entity.Entity) *Result {
	kind, ok := metadata.ParseKind(m[1])
	if !ok {
		return nil
	}
	needle := strings.ToLower(m[2])

	rows := collect(findDataset(datasets, kind), func(row entity.Row) bool {
		for _, f := range groupFields {
			if _, present := row[f]; !present {
				continue
			}
			if strings.Contains(strings.ToLower(row.String(f)), needle) {
				return true
			}
		}
		return false
	})

	return &Result{
		Rows:        rows,
		Explanation: explain("group membership", fmt.Sprintf("%s in group %s", kind, m[2])),
	}
}

// phaseField returns the encoded-phase field for a kind, or "".
func phaseField(kind metadata.Kind) string {
	switch kind {
	case metadata.KindWorkers:
		return metadata.FieldAvailableSlots
	case metadata.KindTasks:
		return metadata.FieldPreferredPhases
	}
	return ""
}

func requestedPhases(m []string) []int {
	phases := []int{}
	for _, s := range m[2:] {
		if s == "" {
			continue
		}
		if n, ok := entity.ToInt(s); ok {
			phases = append(phases, n)
		}
	}
	return phases
}

// phaseAvailability handles "KIND available in phase P [and P2]": every
// requested phase must be a member of the row's phase list.
func (e *Engine) phaseAvailability(m []string, datasets []*entity.Entity) *Result {
	return e.phaseFilter(m, datasets, true, "phase availability")
}

// phasePreference handles "KIND preferring phase P [and P2]": any
// requested phase suffices.
func (e *Engine) phasePreference(m []string, datasets []*entity.Entity) *Result {
	return e.phaseFilter(m, datasets, false, "phase preference")
}

func (e *Engine) phaseFilter(m []string, datasets []*entity.Entity, all bool, name string) *Result {
	kind, ok := metadata.ParseKind(m[1])
	if !ok {
		return nil
	}
	field := phaseField(kind)
	if field == "" {
		return nil
	}
	wanted := requestedPhases(m)
	if len(wanted) == 0 {
		return nil
	}

	rows := collect(findDataset(datasets, kind), func(row entity.Row) bool {
		phases, err := entity.ParsePhaseList(row.String(field))
		if err != nil {
			return false
		}
		member := make(map[int]bool, len(phases))
		for _, p := range phases {
			member[p] = true
		}
		if all {
			for _, p := range wanted {
				if !member[p] {
					return false
				}
			}
			return true
		}
		for _, p := range wanted {
			if member[p] {
				return true
			}
		}
		return false
	})

	return &Result{
		Rows:        rows,
		Explanation: explain(name, fmt.Sprintf("%s with %s covering phases %v", kind, field, wanted)),
	}
}

var skillSplitRe = regexp.MustCompile(`(?i)\s*(?:,|\bor\b|\band\b)\s*`)

// skillRequirement handles "KIND requiring skill(s) S". S splits on
// and/or/commas into alternatives; a row matches when its skill field
// contains any alternative as a substring. The looseness is intentional
// ("Java" matches "JavaScript").
func (e *Engine) skillRequirement(m []string, datasets []*entity.Entity) *Result {
	kind, ok := metadata.ParseKind(m[1])
	if !ok {
		return nil
	}
	field := metadata.FieldSkills
	if kind == metadata.KindTasks {
		field = metadata.FieldRequiredSkills
	}

	var alternatives []string
	for _, alt := range skillSplitRe.Split(m[2], -1) {
		if alt = strings.TrimSpace(alt); alt != "" {
			alternatives = append(alternatives, strings.ToLower(alt))
		}
	}
	if len(alternatives) == 0 {
		return nil
	}

	rows := collect(findDataset(datasets, kind), func(row entity.Row) bool {
		have := strings.ToLower(row.String(field))
		for _, alt := range alternatives {
			if strings.Contains(have, alt) {
				return true
			}
		}
		return false
	})

	return &Result{
		Rows:        rows,
		Explanation: explain("skill requirement", fmt.Sprintf("%s whose %s contain any of: %s", kind, field, strings.Join(alternatives, ", "))),
	}
}
