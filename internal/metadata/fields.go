package metadata

// Canonical field names. The header normalizer upstream guarantees these
// keys; the cross-entity checks and the query engine address them directly.
const (
	FieldClientID         = "ClientID"
	FieldClientName       = "ClientName"
	FieldPriorityLevel    = "PriorityLevel"
	FieldRequestedTaskIDs = "RequestedTaskIDs"
	FieldGroupTag         = "GroupTag"
	FieldAttributesJSON   = "AttributesJSON"

	FieldWorkerID        = "WorkerID"
	FieldWorkerName      = "WorkerName"
	FieldSkills          = "Skills"
	FieldAvailableSlots  = "AvailableSlots"
	FieldMaxLoadPerPhase = "MaxLoadPerPhase"
	FieldWorkerGroup     = "WorkerGroup"

	FieldTaskID          = "TaskID"
	FieldTaskName        = "TaskName"
	FieldCategory        = "Category"
	FieldDuration        = "Duration"
	FieldRequiredSkills  = "RequiredSkills"
	FieldPreferredPhases = "PreferredPhases"
	FieldMaxConcurrent   = "MaxConcurrent"
)
