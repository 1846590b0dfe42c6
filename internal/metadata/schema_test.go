package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseKind_Synonyms(t *testing.T) {
	cases := map[string]Kind{
		"clients":    KindClients,
		"Customer":   KindClients,
		"worker":     KindWorkers,
		"EMPLOYEES":  KindWorkers,
		"staff":      KindWorkers,
		"job":        KindTasks,
		"activities": KindTasks,
	}
	for in, want := range cases {
		got, ok := ParseKind(in)
		if !ok || got != want {
			t.Fatalf("ParseKind(%q) = %v, %v; want %v", in, got, ok, want)
		}
	}
	if _, ok := ParseKind("spaceships"); ok {
		t.Fatal("expected unknown kind to fail")
	}
}

func TestDefaults_CoverAllKinds(t *testing.T) {
	reg := NewRegistry()
	reg.Load(Defaults())

	for _, k := range Kinds() {
		s := reg.Get(k)
		if s == nil {
			t.Fatalf("no default schema for %s", k)
		}
		if s.IDField == "" {
			t.Fatalf("schema %s has no ID field", k)
		}
		if !s.RequiresColumn(s.IDField) {
			t.Fatalf("schema %s must require its own ID column", k)
		}
	}

	clients := reg.Get(KindClients)
	if r := clients.GetRange(FieldPriorityLevel); r == nil || r.Min != 1 || r.Max != 5 {
		t.Fatalf("expected PriorityLevel range 1..5, got %+v", r)
	}
}

func TestLoadFile_OverridesOneKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemas.yaml")
	doc := `schemas:
  - kind: clients
    id_field: ClientID
    required: [ClientID, ClientName]
    ranges:
      - field: PriorityLevel
        min: 1
        max: 10
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	schemas, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(schemas) != 3 {
		t.Fatalf("expected overrides merged with defaults (3 schemas), got %d", len(schemas))
	}

	reg := NewRegistry()
	reg.Load(schemas)
	clients := reg.Get(KindClients)
	if r := clients.GetRange(FieldPriorityLevel); r == nil || r.Max != 10 {
		t.Fatalf("expected overridden max 10, got %+v", r)
	}
	if workers := reg.Get(KindWorkers); workers == nil || workers.IDField != FieldWorkerID {
		t.Fatal("expected workers schema to keep its default")
	}
}

func TestLoadFile_RejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schemas.yaml")
	doc := `schemas:
  - kind: vehicles
    id_field: VehicleID
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected an error for an unknown kind")
	}
}
