// Package harness executes YAML conformance scenarios against a real
// engine over a temporary data directory, then checks per-step
// expectations, final-state assertions, and a golden snapshot of the
// audit trail.
package harness

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/condmon/acmcfg/internal/engine"
	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/query"
	"github.com/condmon/acmcfg/internal/tables"
	"github.com/condmon/acmcfg/internal/testutil"
)

// clockStart anchors every scenario's deterministic clock.
var clockStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// Result is the outcome of one scenario run.
type Result struct {
	Scenario string
	Pass     bool
	Errors   []string

	// Trail is the final change log, for golden comparison.
	Trail []model.Entry
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}

// Run executes a scenario against a fresh engine with a stepped clock,
// so two runs of the same scenario produce identical audit trails.
func Run(t *testing.T, s *Scenario) *Result {
	t.Helper()
	result := &Result{Scenario: s.Name, Pass: true}

	dir := testutil.SeedDir(t, s.Technologies...)
	store, err := tables.Open(dir)
	if err != nil {
		result.addError("open store: %v", err)
		return result
	}
	e := engine.New(store, engine.WithClock(testutil.NewStepClock(clockStart, time.Second)))

	for i, step := range s.Steps {
		runStep(result, e, i, step)
	}

	if err := store.Reload(); err != nil {
		result.addError("final reload: %v", err)
		return result
	}
	snap := store.Snapshot()
	for i, a := range s.Assertions {
		runAssertion(result, snap, i, a)
	}
	result.Trail = snap.ChangeLog
	return result
}

func runStep(result *Result, e *engine.Engine, index int, step Step) {
	var (
		changed bool
		logID   int64
		err     error
	)

	switch step.Op {
	case "add_component":
		changed, err = e.AddComponent(step.Component, step.Actor)
	case "add_class":
		changed, err = e.AddClass(step.Class, step.Actor)
	case "assign_technology":
		changed, err = e.AssignTechnology(step.Component, step.Technology,
			model.ApplicationType(step.ApplicationType), step.Actor)
	case "update_application_type":
		changed, err = e.UpdateApplicationType(step.Component, step.Technology,
			model.ApplicationType(step.ApplicationType), step.Actor)
	case "assign_class":
		changed, err = e.AssignComponentToClass(step.Class, step.Component, step.Actor)
	case "request_remove_component":
		logID, err = e.RequestRemoveComponent(step.Component, step.Notes, step.Actor)
	case "request_remove_technology":
		logID, err = e.RequestRemoveTechnology(step.Component, step.Technology, step.Notes, step.Actor)
	case "request_remove_class_assignment":
		logID, err = e.RequestRemoveFromClass(step.Class, step.Component, step.Notes, step.Actor)
	case "approve":
		err = e.Approve(step.LogID, step.Actor)
	case "reject":
		err = e.Reject(step.LogID, step.Actor)
	default:
		result.addError("steps[%d]: unknown op %q", index, step.Op)
		return
	}

	expect := step.Expect
	if expect == nil {
		if err != nil {
			result.addError("steps[%d] %s: unexpected error: %v", index, step.Op, err)
		}
		return
	}

	if expect.Error != "" {
		if code := errorCode(err); code != expect.Error {
			result.addError("steps[%d] %s: expected error %s, got %v", index, step.Op, expect.Error, err)
		}
		return
	}
	if err != nil {
		result.addError("steps[%d] %s: unexpected error: %v", index, step.Op, err)
		return
	}
	if expect.Changed != nil && changed != *expect.Changed {
		result.addError("steps[%d] %s: expected changed=%v, got %v", index, step.Op, *expect.Changed, changed)
	}
	if expect.LogID != 0 && logID != expect.LogID {
		result.addError("steps[%d] %s: expected log_id=%d, got %d", index, step.Op, expect.LogID, logID)
	}
}

func runAssertion(result *Result, snap *model.Snapshot, index int, a Assertion) {
	switch a.Type {
	case AssertPendingCount:
		if got := len(snap.PendingEntries()); got != a.Count {
			result.addError("assertions[%d]: expected %d pending requests, got %d", index, a.Count, got)
		}
	case AssertComponentPresent:
		if !snap.HasComponent(a.Component) {
			result.addError("assertions[%d]: component %q is absent", index, a.Component)
		}
	case AssertComponentAbsent:
		if snap.HasComponent(a.Component) {
			result.addError("assertions[%d]: component %q is still present", index, a.Component)
		}
	case AssertAssignmentPresent:
		if snap.FindAssignment(a.Component, a.Technology) == nil {
			result.addError("assertions[%d]: assignment %s → %s is absent", index, a.Component, a.Technology)
		}
	case AssertAssignmentAbsent:
		if snap.FindAssignment(a.Component, a.Technology) != nil {
			result.addError("assertions[%d]: assignment %s → %s is still present", index, a.Component, a.Technology)
		}
	case AssertLogStatus:
		entry := snap.FindEntry(a.LogID)
		if entry == nil {
			result.addError("assertions[%d]: no change-log entry %d", index, a.LogID)
		} else if string(entry.Status) != a.Status {
			result.addError("assertions[%d]: entry %d has status %s, expected %s", index, a.LogID, entry.Status, a.Status)
		}
	case AssertClassTechnologies:
		rows, err := query.TechnologiesRequiredBy(snap, a.Class)
		if err != nil {
			result.addError("assertions[%d]: %v", index, err)
			return
		}
		if len(rows) != len(a.Require) {
			result.addError("assertions[%d]: class %q requires %d technologies, expected %d", index, a.Class, len(rows), len(a.Require))
			return
		}
		for i, want := range a.Require {
			got := rows[i]
			if got.TechnologyCode != want.Technology || string(got.ApplicationType) != want.ApplicationType {
				result.addError("assertions[%d]: requirement %d is %s/%s, expected %s/%s",
					index, i, got.TechnologyCode, got.ApplicationType, want.Technology, want.ApplicationType)
			}
		}
	default:
		result.addError("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
}

// errorCode extracts the structured code from an engine error, or "" for
// nil and non-structured errors.
func errorCode(err error) string {
	if err == nil {
		return ""
	}
	var me *model.Error
	if errors.As(err, &me) {
		return string(me.Code)
	}
	return ""
}
