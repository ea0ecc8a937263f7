// Package validate implements read-only referential-integrity checks over
// a configuration snapshot.
//
// Checks never mutate and never short-circuit: the complete issue set is
// always returned so an admin sees every problem at once. Data-quality
// problems are issues, not errors; only store unavailability is an error,
// and that is the caller's to surface before checking.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/condmon/acmcfg/internal/model"
)

// Severity classifies an issue.
type Severity string

const (
	// SeverityWarning marks data-quality findings: rows that are legal
	// but probably incomplete (a component no class references, etc).
	SeverityWarning Severity = "warning"

	// SeverityError marks integrity violations: junction rows whose
	// natural keys have no matching master row, or pending requests
	// whose target rows no longer exist.
	SeverityError Severity = "error"
)

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// Issue codes.
const (
	CodeComponentNoTechnologies = "component_no_technologies"
	CodeComponentNoClass        = "component_no_class"
	CodeClassNoComponents       = "class_no_components"
	CodeUnknownComponentInCT    = "component_technology_unknown_component"
	CodeUnknownTechnologyInCT   = "component_technology_unknown_technology"
	CodeUnknownClassInCC        = "class_component_unknown_class"
	CodeUnknownComponentInCC    = "class_component_unknown_component"
	CodeStalePendingRequest     = "stale_pending_request"
)

// Check runs every integrity check over the snapshot and returns the full
// issue set. An empty result means the configuration is consistent.
func Check(snap *model.Snapshot) []Issue {
	var issues []Issue

	componentSet := toSet(names(snap.Components, func(c model.Component) string { return c.Name }))
	technologySet := toSet(names(snap.Technologies, func(t model.Technology) string { return t.Code }))
	classSet := toSet(names(snap.Classes, func(c model.AssetClass) string { return c.Name }))

	withTechnology := make(map[string]bool)
	for _, a := range snap.ComponentTechnology {
		withTechnology[a.ComponentName] = true
	}
	inClass := make(map[string]bool)
	classHasComponent := make(map[string]bool)
	for _, a := range snap.ClassComponent {
		inClass[a.ComponentName] = true
		classHasComponent[a.ClassName] = true
	}

	if missing := missingFrom(snap.ComponentNames(), withTechnology); len(missing) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeComponentNoTechnologies,
			Message: fmt.Sprintf("components with no technology assignments (%d): %s",
				len(missing), strings.Join(missing, ", ")),
		})
	}
	if missing := missingFrom(snap.ComponentNames(), inClass); len(missing) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeComponentNoClass,
			Message: fmt.Sprintf("components not in any class (%d): %s",
				len(missing), strings.Join(missing, ", ")),
		})
	}
	if missing := missingFrom(snap.ClassNames(), classHasComponent); len(missing) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Code:     CodeClassNoComponents,
			Message: fmt.Sprintf("classes with no components (%d): %s",
				len(missing), strings.Join(missing, ", ")),
		})
	}

	if unknown := unknownKeys(snap.ComponentTechnology,
		func(a model.TechnologyAssignment) string { return a.ComponentName }, componentSet); len(unknown) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeUnknownComponentInCT,
			Message:  "component_technology references unknown components: " + strings.Join(unknown, ", "),
		})
	}
	if unknown := unknownKeys(snap.ComponentTechnology,
		func(a model.TechnologyAssignment) string { return a.TechnologyCode }, technologySet); len(unknown) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeUnknownTechnologyInCT,
			Message:  "component_technology references unknown technology codes: " + strings.Join(unknown, ", "),
		})
	}
	if unknown := unknownKeys(snap.ClassComponent,
		func(a model.ClassAssignment) string { return a.ClassName }, classSet); len(unknown) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeUnknownClassInCC,
			Message:  "class_component references unknown classes: " + strings.Join(unknown, ", "),
		})
	}
	if unknown := unknownKeys(snap.ClassComponent,
		func(a model.ClassAssignment) string { return a.ComponentName }, componentSet); len(unknown) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     CodeUnknownComponentInCC,
			Message:  "class_component references unknown components: " + strings.Join(unknown, ", "),
		})
	}

	issues = append(issues, stalePendingRequests(snap)...)
	return issues
}

// stalePendingRequests detects pending removal requests whose target rows
// are already gone. That is the detectable signature of an approval whose
// table deletions committed but whose log-status write did not.
func stalePendingRequests(snap *model.Snapshot) []Issue {
	var issues []Issue
	for _, e := range snap.PendingEntries() {
		if e.Action != model.ActionRemoveRequest {
			continue
		}
		var gone bool
		var target string
		switch p := e.Payload.(type) {
		case *model.ComponentRemoval:
			gone = !snap.HasComponent(p.ComponentName)
			target = "component " + p.ComponentName
		case *model.TechnologyRemoval:
			gone = snap.FindAssignment(p.ComponentName, p.TechnologyCode) == nil
			target = fmt.Sprintf("assignment %s → %s", p.ComponentName, p.TechnologyCode)
		case *model.ClassAssignmentRemoval:
			gone = !snap.HasClassAssignment(p.ClassName, p.ComponentName)
			target = fmt.Sprintf("assignment %s ← %s", p.ClassName, p.ComponentName)
		}
		if gone {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Code:     CodeStalePendingRequest,
				Message: fmt.Sprintf("pending request log_id=%d targets %s, which no longer exists",
					e.LogID, target),
			})
		}
	}
	return issues
}

func names[T any](rows []T, key func(T) string) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = key(r)
	}
	return out
}

func toSet(keys []string) map[string]bool {
	set := make(map[string]bool, len(keys))
	for _, k := range keys {
		set[k] = true
	}
	return set
}

func missingFrom(sortedKeys []string, present map[string]bool) []string {
	var missing []string
	for _, k := range sortedKeys {
		if !present[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

func unknownKeys[T any](rows []T, key func(T) string, master map[string]bool) []string {
	seen := make(map[string]bool)
	var unknown []string
	for _, r := range rows {
		k := key(r)
		if !master[k] && !seen[k] {
			seen[k] = true
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	return unknown
}
