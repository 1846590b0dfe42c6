package rules

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/instrument"
)

// LintFinding describes a rule whose expression parameter does not compile.
type LintFinding struct {
	RuleID  string `json:"rule_id,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// CompileExpression compiles a rule expression into an expr-lang program.
// Rule expressions must evaluate to a boolean.
func CompileExpression(expression string) (*vm.Program, error) {
	prog, err := expr.Compile(expression, expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}
	return prog, nil
}

// program returns the rule's compiled expression, compiling and caching
// it on first use. The cache is guarded so concurrent callers share one
// compilation.
func (r *Rule) program() (*vm.Program, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prog, ok := r.compiled.(*vm.Program); ok && prog != nil {
		return prog, nil
	}
	prog, err := CompileExpression(r.Expression())
	if err != nil {
		return nil, err
	}
	r.compiled = prog
	return prog, nil
}

// Lint checks the rule's optional expression parameter. It returns nil
// when there is no expression or the expression compiles.
func Lint(rule *Rule) *LintFinding {
	if rule.Expression() == "" {
		return nil
	}
	if _, err := rule.program(); err != nil {
		return &LintFinding{
			RuleID:  rule.ID,
			Field:   "expression",
			Message: err.Error(),
		}
	}
	return nil
}

// PreviewRow is one dataset row matched by a rule expression, tagged with
// its source kind.
type PreviewRow map[string]any

// PreviewRule evaluates the rule's expression against every row of every
// dataset and returns the matches as fresh copies tagged with "_kind".
// Rules without an expression match nothing; rows whose evaluation errors
// are skipped. Previewing never fails.
func PreviewRule(ctx context.Context, rule *Rule, datasets []*entity.Entity) []PreviewRow {
	_, span := instrument.GetInstrumenter(ctx).StartSpan(ctx, "engine", "rules", "rules.preview")
	defer span.End()

	if rule.Expression() == "" {
		span.SetStatus("ok")
		return []PreviewRow{}
	}

	prog, err := rule.program()
	if err != nil {
		span.SetStatus("error")
		return []PreviewRow{}
	}

	matches := []PreviewRow{}
	for _, e := range datasets {
		for _, row := range e.Rows {
			env := map[string]any{
				"record": map[string]any(row),
				"kind":   string(e.Kind),
			}
			result, err := expr.Run(prog, env)
			if err != nil {
				continue
			}
			matched, ok := result.(bool)
			if !ok || !matched {
				continue
			}
			out := PreviewRow(row.Clone())
			out["_kind"] = string(e.Kind)
			matches = append(matches, out)
		}
	}

	span.SetMetadata("matches", len(matches))
	span.SetStatus("ok")
	return matches
}
