package query

import (
	"context"
	"reflect"
	"testing"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
)

func fixture() []*entity.Entity {
	clients := entity.New(metadata.KindClients, []entity.Row{
		{"ClientID": "C1", "ClientName": "Acme", "PriorityLevel": "5", "GroupTag": "alpha", "RequestedTaskIDs": "T1"},
		{"ClientID": "C2", "ClientName": "Globex", "PriorityLevel": "2", "GroupTag": "beta", "RequestedTaskIDs": "T2"},
	})
	workers := entity.New(metadata.KindWorkers, []entity.Row{
		{"WorkerID": "W1", "WorkerName": "Dana", "Skills": "golang,sql,python,terraform", "AvailableSlots": "[1,2,3]", "MaxLoadPerPhase": "2", "WorkerGroup": "core"},
		{"WorkerID": "W2", "WorkerName": "Sam", "Skills": "java", "AvailableSlots": "[2]", "MaxLoadPerPhase": "1", "WorkerGroup": "contractors"},
	})
	tasks := entity.New(metadata.KindTasks, []entity.Row{
		{"TaskID": "T1", "TaskName": "Ingest", "Category": "etl", "Duration": "4", "RequiredSkills": "golang", "PreferredPhases": "[1]", "MaxConcurrent": "1"},
		{"TaskID": "T2", "TaskName": "Report xylophone", "Category": "reporting", "Duration": "1", "RequiredSkills": "sql", "PreferredPhases": "[2,3]", "MaxConcurrent": "2"},
	})
	return []*entity.Entity{clients, workers, tasks}
}

func rowIDs(rows []ResultRow, field string) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i], _ = r[field].(string)
	}
	return ids
}

func TestQuery_SkillCountThreshold(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "workers with skills more than 3", fixture())

	if got := rowIDs(res.Rows, "WorkerID"); !reflect.DeepEqual(got, []string{"W1"}) {
		t.Fatalf("expected [W1], got %v", got)
	}
	if res.Rows[0]["_kind"] != "workers" {
		t.Fatalf("expected source kind workers, got %v", res.Rows[0]["_kind"])
	}

	// Deterministic across repeated calls.
	again := eng.Query(context.Background(), "workers with skills more than 3", fixture())
	if !reflect.DeepEqual(res.Rows, again.Rows) {
		t.Fatalf("repeated query differs:\n%v\n%v", res.Rows, again.Rows)
	}
}

func TestQuery_GenericCondition_Priority(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "show clients with priority level 5", fixture())

	if got := rowIDs(res.Rows, "ClientID"); !reflect.DeepEqual(got, []string{"C1"}) {
		t.Fatalf("expected [C1], got %v", got)
	}

	high := eng.Query(context.Background(), "find clients with high priority", fixture())
	if got := rowIDs(high.Rows, "ClientID"); !reflect.DeepEqual(got, []string{"C1"}) {
		t.Fatalf("expected high priority to match C1, got %v", got)
	}
}

func TestQuery_DurationThreshold(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "tasks with duration more than 2", fixture())

	if got := rowIDs(res.Rows, "TaskID"); !reflect.DeepEqual(got, []string{"T1"}) {
		t.Fatalf("expected [T1], got %v", got)
	}
}

func TestQuery_KindSynonyms(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "jobs with duration less than 2", fixture())

	if got := rowIDs(res.Rows, "TaskID"); !reflect.DeepEqual(got, []string{"T2"}) {
		t.Fatalf("expected synonym jobs to resolve to tasks and match [T2], got %v", got)
	}

	emp := eng.Query(context.Background(), "employees with load more than 1", fixture())
	if got := rowIDs(emp.Rows, "WorkerID"); !reflect.DeepEqual(got, []string{"W1"}) {
		t.Fatalf("expected [W1], got %v", got)
	}
}

func TestQuery_GroupMembership(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "workers in group core", fixture())

	if got := rowIDs(res.Rows, "WorkerID"); !reflect.DeepEqual(got, []string{"W1"}) {
		t.Fatalf("expected [W1], got %v", got)
	}
}

func TestQuery_PhaseAvailability(t *testing.T) {
	eng := New()

	res := eng.Query(context.Background(), "workers available in phase 1 and 3", fixture())
	if got := rowIDs(res.Rows, "WorkerID"); !reflect.DeepEqual(got, []string{"W1"}) {
		t.Fatalf("availability requires all phases; expected [W1], got %v", got)
	}

	pref := eng.Query(context.Background(), "tasks preferring phase 3", fixture())
	if got := rowIDs(pref.Rows, "TaskID"); !reflect.DeepEqual(got, []string{"T2"}) {
		t.Fatalf("expected [T2], got %v", got)
	}
}

func TestQuery_SkillRequirement_Alternatives(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "workers requiring skill java or terraform", fixture())

	if got := rowIDs(res.Rows, "WorkerID"); !reflect.DeepEqual(got, []string{"W1", "W2"}) {
		t.Fatalf("expected [W1 W2], got %v", got)
	}
}

func TestQuery_FieldEquality(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "clients with priority equal to 2", fixture())

	if got := rowIDs(res.Rows, "ClientID"); !reflect.DeepEqual(got, []string{"C2"}) {
		t.Fatalf("expected [C2], got %v", got)
	}
}

func TestQuery_FallbackSubstringSearch(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "xylophone", fixture())

	if res.Explanation != fallbackExplanation {
		t.Fatalf("expected fallback explanation, got %q", res.Explanation)
	}
	if got := rowIDs(res.Rows, "TaskID"); !reflect.DeepEqual(got, []string{"T2"}) {
		t.Fatalf("expected fallback to find [T2], got %v", got)
	}
	if res.Rows[0]["_kind"] != "tasks" {
		t.Fatalf("expected source kind tasks, got %v", res.Rows[0]["_kind"])
	}
}

func TestQuery_FallbackEmptyOnNoMatch(t *testing.T) {
	eng := New()
	res := eng.Query(context.Background(), "zzz-not-present", fixture())

	if len(res.Rows) != 0 {
		t.Fatalf("expected no rows, got %v", res.Rows)
	}
}

func TestQuery_DoesNotMutateSource(t *testing.T) {
	eng := New()
	datasets := fixture()
	res := eng.Query(context.Background(), "workers in group core", datasets)
	if len(res.Rows) == 0 {
		t.Fatal("fixture should match")
	}
	res.Rows[0]["WorkerName"] = "changed"

	if datasets[1].Rows[0]["WorkerName"] != "Dana" {
		t.Fatal("query result mutation leaked into the source dataset")
	}
}
