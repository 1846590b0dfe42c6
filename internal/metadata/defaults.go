package metadata

// Defaults returns the built-in schemas for the three dataset kinds.
// Column names are the canonical field names produced by the header
// normalizer upstream of this service.
func Defaults() []*Schema {
	return []*Schema{
		{
			Kind:    KindClients,
			IDField: "ClientID",
			Required: []string{
				"ClientID", "ClientName", "PriorityLevel",
				"RequestedTaskIDs", "GroupTag", "AttributesJSON",
			},
			Ranges:  []RangeSpec{{Field: "PriorityLevel", Min: 1, Max: 5}},
			Objects: []ObjectSpec{{Field: "AttributesJSON"}},
			Refs:    []RefSpec{{Field: "RequestedTaskIDs", Target: KindTasks}},
		},
		{
			Kind:    KindWorkers,
			IDField: "WorkerID",
			Required: []string{
				"WorkerID", "WorkerName", "Skills",
				"AvailableSlots", "MaxLoadPerPhase", "WorkerGroup",
			},
			Ranges: []RangeSpec{
				{Field: "MaxLoadPerPhase", Min: 1},
				// QualificationLevel is optional; range-checked only when the column exists.
				{Field: "QualificationLevel", Min: 1, Max: 5},
			},
			Lists: []ListSpec{{Field: "AvailableSlots"}},
		},
		{
			Kind:    KindTasks,
			IDField: "TaskID",
			Required: []string{
				"TaskID", "TaskName", "Category", "Duration",
				"RequiredSkills", "PreferredPhases", "MaxConcurrent",
			},
			Ranges: []RangeSpec{
				{Field: "Duration", Min: 1},
				{Field: "MaxConcurrent", Min: 1},
			},
			Lists: []ListSpec{{Field: "PreferredPhases"}},
		},
	}
}
