package engine

import (
	"fmt"
	"sort"
	"strings"

	"alchemist-backend/internal/entity"
	"alchemist-backend/internal/metadata"
)

// phaseSlotsLabel is the column label for dataset-level saturation
// findings. It is a descriptive string, not a real field name.
const phaseSlotsLabel = "Phase slots"

// checkWorkerCapacity flags workers whose available-slot count is smaller
// than their declared per-phase load. A plausibility warning, not a
// structural error: such a worker can never fill their quota.
func checkWorkerCapacity(row entity.Row, rowNum int) []entity.Diagnostic {
	slots, err := entity.ParsePhaseList(row.String(metadata.FieldAvailableSlots))
	if err != nil {
		return nil // malformed slots already reported by the list check
	}
	maxLoad, ok := entity.ToInt(row[metadata.FieldMaxLoadPerPhase])
	if !ok {
		return nil
	}
	if len(slots) < maxLoad {
		return []entity.Diagnostic{{
			Row:    rowNum,
			Column: metadata.FieldMaxLoadPerPhase,
			Kind:   entity.DiagOverloadedWorker,
			Message: fmt.Sprintf("worker has %d available slot(s) but MaxLoadPerPhase %d",
				len(slots), maxLoad),
			Severity: entity.SeverityWarning,
		}}
	}
	return nil
}

// checkSkillCoverage warns when a task requires skills no worker has. One
// warning per task, listing every uncovered skill.
func checkSkillCoverage(row entity.Row, rowNum int, workers *entity.Entity) []entity.Diagnostic {
	required := entity.SplitList(row.String(metadata.FieldRequiredSkills))
	if len(required) == 0 {
		return nil
	}

	pool := workerSkillUnion(workers)
	var uncovered []string
	for _, skill := range required {
		if !pool[strings.ToLower(skill)] {
			uncovered = append(uncovered, skill)
		}
	}
	if len(uncovered) == 0 {
		return nil
	}
	return []entity.Diagnostic{{
		Row:    rowNum,
		Column: metadata.FieldRequiredSkills,
		Kind:   entity.DiagSkillCoverage,
		Message: fmt.Sprintf("no worker covers required skill(s): %s",
			strings.Join(uncovered, ", ")),
		Severity: entity.SeverityWarning,
	}}
}

// checkConcurrencyFeasibility warns when fewer workers share a skill with
// the task than its declared max concurrency.
func checkConcurrencyFeasibility(row entity.Row, rowNum int, workers *entity.Entity) []entity.Diagnostic {
	maxConcurrent, ok := entity.ToInt(row[metadata.FieldMaxConcurrent])
	if !ok {
		return nil // invalid value already reported by the range check
	}
	required := entity.SplitList(row.String(metadata.FieldRequiredSkills))
	if len(required) == 0 {
		return nil
	}

	qualified := 0
	if workers != nil {
		for _, w := range workers.Rows {
			if skillsIntersect(w.String(metadata.FieldSkills), required) {
				qualified++
			}
		}
	}
	if qualified < maxConcurrent {
		return []entity.Diagnostic{{
			Row:    rowNum,
			Column: metadata.FieldMaxConcurrent,
			Kind:   entity.DiagMaxConcurrencyFeasibility,
			Message: fmt.Sprintf("MaxConcurrent is %d but only %d worker(s) have the required skills",
				maxConcurrent, qualified),
			Severity: entity.SeverityWarning,
		}}
	}
	return nil
}

// ValidatePhaseSaturation compares per-phase worker capacity against task
// demand across all datasets. Capacity is each worker's MaxLoadPerPhase
// contributed to every phase in their available slots; demand is each
// task's duration added to every preferred phase. One warning per
// oversaturated phase, ascending, row sentinel 1. Tasks whose phase list
// fails to parse get their own warning at their row rather than being
// silently skipped.
func ValidatePhaseSaturation(all []*entity.Entity) []entity.Diagnostic {
	workers := findDataset(all, metadata.KindWorkers)
	tasks := findDataset(all, metadata.KindTasks)

	capacity := make(map[int]int)
	if workers != nil {
		for _, w := range workers.Rows {
			slots, err := entity.ParsePhaseList(w.String(metadata.FieldAvailableSlots))
			if err != nil {
				continue
			}
			maxLoad, ok := entity.ToInt(w[metadata.FieldMaxLoadPerPhase])
			if !ok {
				continue
			}
			for _, phase := range slots {
				capacity[phase] += maxLoad
			}
		}
	}

	var diags []entity.Diagnostic
	demand := make(map[int]int)
	if tasks != nil {
		for i, t := range tasks.Rows {
			phases, err := entity.ParsePhaseList(t.String(metadata.FieldPreferredPhases))
			if err != nil {
				diags = append(diags, entity.Diagnostic{
					Row:      i + 1,
					Column:   metadata.FieldPreferredPhases,
					Kind:     entity.DiagPhaseSlotSaturation,
					Message:  "preferred phases could not be parsed; task excluded from saturation totals",
					Severity: entity.SeverityWarning,
				})
				continue
			}
			duration, ok := entity.ToInt(t[metadata.FieldDuration])
			if !ok {
				continue
			}
			for _, phase := range phases {
				demand[phase] += duration
			}
		}
	}

	var phases []int
	for phase, d := range demand {
		if d > capacity[phase] {
			phases = append(phases, phase)
		}
	}
	sort.Ints(phases)
	for _, phase := range phases {
		diags = append(diags, entity.Diagnostic{
			Row:    1,
			Column: phaseSlotsLabel,
			Kind:   entity.DiagPhaseSlotSaturation,
			Message: fmt.Sprintf("phase %d is oversaturated: demand %d exceeds capacity %d",
				phase, demand[phase], capacity[phase]),
			Severity: entity.SeverityWarning,
		})
	}
	return diags
}

// workerSkillUnion returns the lowercased set of all skills any worker has.
func workerSkillUnion(workers *entity.Entity) map[string]bool {
	pool := make(map[string]bool)
	if workers == nil {
		return pool
	}
	for _, w := range workers.Rows {
		for _, skill := range entity.SplitList(w.String(metadata.FieldSkills)) {
			pool[strings.ToLower(skill)] = true
		}
	}
	return pool
}

// skillsIntersect reports whether any required skill appears in the
// worker's comma-separated skill list. Token match is case-insensitive.
func skillsIntersect(workerSkills string, required []string) bool {
	have := make(map[string]bool)
	for _, s := range entity.SplitList(workerSkills) {
		have[strings.ToLower(s)] = true
	}
	for _, s := range required {
		if have[strings.ToLower(s)] {
			return true
		}
	}
	return false
}
