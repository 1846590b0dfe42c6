package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// ToInt coerces a cell value to an integer, best-effort. Floats with a
// zero fraction count (spreadsheet decoders often hand back 3.0 for 3).
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
		return 0, false
	case float32:
		return ToInt(float64(n))
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
		return 0, false
	}
	return 0, false
}

// SplitList splits a comma-separated cell into trimmed, non-empty tokens.
func SplitList(s string) []string {
	var tokens []string
	for _, p := range strings.Split(s, ",") {
		if t := strings.TrimSpace(p); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

var phaseRangeRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)

// ParsePhaseList parses an encoded phase list: a JSON array of positive
// integers ("[1,2,3]"), the spreadsheet range shorthand ("1-3"), or a bare
// integer ("2"). Anything else is malformed.
func ParsePhaseList(raw string) ([]int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, fmt.Errorf("empty phase list")
	}

	if strings.HasPrefix(s, "[") {
		var items []any
		if err := json.Unmarshal([]byte(s), &items); err != nil {
			return nil, fmt.Errorf("invalid JSON array: %w", err)
		}
		phases := make([]int, 0, len(items))
		for _, item := range items {
			n, ok := ToInt(item)
			if !ok || n < 1 {
				return nil, fmt.Errorf("phase list items must be positive integers, got %v", item)
			}
			phases = append(phases, n)
		}
		return phases, nil
	}

	if m := phaseRangeRe.FindStringSubmatch(s); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo < 1 || hi < lo {
			return nil, fmt.Errorf("invalid phase range %q", s)
		}
		phases := make([]int, 0, hi-lo+1)
		for p := lo; p <= hi; p++ {
			phases = append(phases, p)
		}
		return phases, nil
	}

	if n, err := strconv.Atoi(s); err == nil && n >= 1 {
		return []int{n}, nil
	}

	return nil, fmt.Errorf("unrecognized phase list %q", raw)
}
