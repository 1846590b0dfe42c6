package entity

// Severity partitions diagnostics into export-blocking errors and
// plausibility warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic kinds. These strings are part of the API contract; consumers
// match on them bit-exactly.
const (
	DiagMissingColumn             = "missing_column"
	DiagMissingValue              = "missing_value"
	DiagDuplicateID               = "duplicate_id"
	DiagInvalidRange              = "invalid_range"
	DiagInvalidJSON               = "invalid_json"
	DiagMalformedList             = "malformed_list"
	DiagUnknownReference          = "unknown_reference"
	DiagOverloadedWorker          = "overloaded_worker"
	DiagSkillCoverage             = "skill_coverage"
	DiagMaxConcurrencyFeasibility = "max_concurrency_feasibility"
	DiagPhaseSlotSaturation       = "phase_slot_saturation"
)

// Diagnostic is one validation finding. Row is 1-based; dataset-level
// findings use row 1 as a sentinel and a descriptive column label.
type Diagnostic struct {
	Row      int      `json:"row"`
	Column   string   `json:"column"`
	Kind     string   `json:"kind"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
