package rules

import (
	"context"
	"sync"
	"testing"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
)

func TestCompileExpression(t *testing.T) {
	prog, err := CompileExpression(`record.Category == "etl" && kind == "tasks"`)
	if err != nil {
		t.Fatalf("compile expression: %v", err)
	}
	if prog == nil {
		t.Fatal("expected non-nil program")
	}
}

func TestLint_BadExpression(t *testing.T) {
	r := &Rule{
		ID:         "r1",
		Kind:       KindPatternMatch,
		Parameters: map[string]any{"expression": "record.Duration >"},
	}
	finding := Lint(r)
	if finding == nil {
		t.Fatal("expected a lint finding for a broken expression")
	}
	if finding.Field != "expression" || finding.RuleID != "r1" {
		t.Fatalf("unexpected finding: %+v", finding)
	}
}

func TestLint_NoExpressionIsFine(t *testing.T) {
	r := &Rule{Kind: KindCoRun, Parameters: map[string]any{"tasks": []string{"T1"}}}
	if finding := Lint(r); finding != nil {
		t.Fatalf("expected nil finding, got %+v", finding)
	}
}

func TestPreviewRule(t *testing.T) {
	tasks := entity.New(metadata.KindTasks, []entity.Row{
		{"TaskID": "T1", "Category": "etl"},
		{"TaskID": "T2", "Category": "reporting"},
	})
	workers := entity.New(metadata.KindWorkers, []entity.Row{
		{"WorkerID": "W1", "WorkerGroup": "core"},
	})

	r := &Rule{
		Kind:       KindPatternMatch,
		Parameters: map[string]any{"expression": `kind == "tasks" && record.Category == "etl"`},
	}

	matches := PreviewRule(context.Background(), r, []*entity.Entity{workers, tasks})
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d (%v)", len(matches), matches)
	}
	if matches[0]["TaskID"] != "T1" || matches[0]["_kind"] != "tasks" {
		t.Fatalf("unexpected match: %v", matches[0])
	}
}

func TestPreviewRule_NoExpression(t *testing.T) {
	r := &Rule{Kind: KindCoRun}
	matches := PreviewRule(context.Background(), r, nil)
	if len(matches) != 0 {
		t.Fatalf("expected no matches without an expression, got %v", matches)
	}
}

func TestPreviewRule_EvaluationErrorsSkipRow(t *testing.T) {
	tasks := entity.New(metadata.KindTasks, []entity.Row{
		{"TaskID": "T1"}, // no Duration field: expression errors, row skipped
		{"TaskID": "T2", "Duration": 5},
	})
	r := &Rule{
		Kind:       KindPatternMatch,
		Parameters: map[string]any{"expression": `record.Duration > 3`},
	}
	matches := PreviewRule(context.Background(), r, []*entity.Entity{tasks})
	if len(matches) != 1 || matches[0]["TaskID"] != "T2" {
		t.Fatalf("expected only T2, got %v", matches)
	}
}

func TestPreviewRule_ConcurrentLazyCompile(t *testing.T) {
	tasks := entity.New(metadata.KindTasks, []entity.Row{
		{"TaskID": "T1", "Category": "etl"},
		{"TaskID": "T2", "Category": "reporting"},
	})
	r := &Rule{
		Kind:       KindPatternMatch,
		Parameters: map[string]any{"expression": `record.Category == "etl"`},
	}

	var wg sync.WaitGroup
	got := make([]int, 8)
	for i := 0; i < len(got); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = len(PreviewRule(context.Background(), r, []*entity.Entity{tasks}))
		}(i)
	}
	wg.Wait()

	for i, n := range got {
		if n != 1 {
			t.Fatalf("goroutine %d got %d matches, want 1", i, n)
		}
	}
}
