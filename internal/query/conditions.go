package query

import (
	"fmt"
	"regexp"
	"strings"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
)

var numberRe = regexp.MustCompile(`\d+`)

// genericCondition handles "find/show/get KIND with/having COND" by
// dispatching on keywords in the condition text: priority thresholds,
// duration thresholds, and skill-count thresholds. Unrecognized conditions
// fall back to the text search.
func (e *Engine) genericCondition(m []string, datasets []*entity.Entity) *Result {
	kind, ok := metadata.ParseKind(m[1])
	if !ok {
		return nil
	}
	cond := strings.ToLower(m[2])

	op := condOp(cond)
	n, hasNumber := extractNumber(cond)

	switch {
	case strings.Contains(cond, "priority"):
		if !hasNumber {
			// "high priority" style phrasing
			if strings.Contains(cond, "high") {
				n, op = 4, opAtLeast
			} else if strings.Contains(cond, "low") {
				n, op = 2, opAtMost
			} else {
				return nil
			}
		}
		return e.conditionResult(datasets, kind, metadata.FieldPriorityLevel, false, op, n,
			fmt.Sprintf("%s with priority %s %d", kind, op, n))

	case strings.Contains(cond, "duration"):
		if !hasNumber {
			return nil
		}
		return e.conditionResult(datasets, kind, metadata.FieldDuration, false, op, n,
			fmt.Sprintf("%s with duration %s %d", kind, op, n))

	case strings.Contains(cond, "skill"):
		if !hasNumber {
			return nil
		}
		field := metadata.FieldSkills
		if kind == metadata.KindTasks {
			field = metadata.FieldRequiredSkills
		}
		return e.conditionResult(datasets, kind, field, true, op, n,
			fmt.Sprintf("%s with skill count %s %d", kind, op, n))
	}

	return nil
}

type condOperator string

const (
	opEquals  condOperator = "="
	opMore    condOperator = ">"
	opLess    condOperator = "<"
	opAtLeast condOperator = ">="
	opAtMost  condOperator = "<="
)

func condOp(cond string) condOperator {
	switch {
	case strings.Contains(cond, "at least"):
		return opAtLeast
	case strings.Contains(cond, "at most"):
		return opAtMost
	case strings.Contains(cond, "more than"), strings.Contains(cond, "greater than"),
		strings.Contains(cond, "over"), strings.Contains(cond, "above"):
		return opMore
	case strings.Contains(cond, "less than"), strings.Contains(cond, "fewer than"),
		strings.Contains(cond, "under"), strings.Contains(cond, "below"):
		return opLess
	}
	return opEquals
}

func (op condOperator) apply(v, n int) bool {
	switch op {
	case opMore:
		return v > n
	case opLess:
		return v < n
	case opAtLeast:
		return v >= n
	case opAtMost:
		return v <= n
	}
	return v == n
}

func extractNumber(cond string) (int, bool) {
	s := numberRe.FindString(cond)
	if s == "" {
		return 0, false
	}
	n, ok := entity.ToInt(s)
	return n, ok
}

func (e *Engine) conditionResult(datasets []*entity.Entity, kind metadata.Kind, field string, isList bool, op condOperator, n int, detail string) *Result {
	rows := collect(findDataset(datasets, kind), func(row entity.Row) bool {
		v, ok := fieldNumber(row, field, isList)
		return ok && op.apply(v, n)
	})
	return &Result{
		Rows:        rows,
		Explanation: explain("generic condition", detail),
	}
}
