package metadata

import "strings"

// Kind identifies one of the three dataset kinds the engine understands.
type Kind string

const (
	KindClients Kind = "clients"
	KindWorkers Kind = "workers"
	KindTasks   Kind = "tasks"
)

// Kinds returns all kinds in canonical order (clients, workers, tasks).
func Kinds() []Kind {
	return []Kind{KindClients, KindWorkers, KindTasks}
}

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindClients || k == KindWorkers || k == KindTasks
}

// kindSynonyms maps the human words used in queries and API paths to a kind.
// Both singular and plural forms are listed so callers don't have to stem.
var kindSynonyms = map[string]Kind{
	"client":     KindClients,
	"clients":    KindClients,
	"customer":   KindClients,
	"customers":  KindClients,
	"worker":     KindWorkers,
	"workers":    KindWorkers,
	"employee":   KindWorkers,
	"employees":  KindWorkers,
	"staff":      KindWorkers,
	"task":       KindTasks,
	"tasks":      KindTasks,
	"job":        KindTasks,
	"jobs":       KindTasks,
	"activity":   KindTasks,
	"activities": KindTasks,
}

// ParseKind resolves a kind name or synonym (case-insensitive) to a Kind.
func ParseKind(s string) (Kind, bool) {
	k, ok := kindSynonyms[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}
