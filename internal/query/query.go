// Package query implements read-only derivations over a configuration
// snapshot: per-component and per-class lookups, the class-level
// technology requirement derivation, and the legacy cross-tab exports the
// downstream pipeline consumes.
//
// Every function takes an explicit snapshot; nothing here caches or
// mutates store state.
package query

import (
	"sort"
	"strings"

	"github.com/condmon/acmcfg/internal/model"
)

// TechnologyRow is one technology assigned to a component.
type TechnologyRow struct {
	TechnologyCode  string                `json:"technology_code"`
	ApplicationType model.ApplicationType `json:"application_type"`
}

// ComponentRow is one component monitored by a technology.
type ComponentRow struct {
	ComponentName   string                `json:"component_name"`
	ApplicationType model.ApplicationType `json:"application_type"`
}

// RequirementRow is one derived class-level technology requirement.
type RequirementRow struct {
	TechnologyCode  string                `json:"technology_code"`
	ApplicationType model.ApplicationType `json:"application_type"`
	// DrivingComponents lists every component in the class carrying this
	// technology, comma-joined and sorted.
	DrivingComponents string `json:"driving_components"`
}

// TechnologiesOf returns all technologies assigned to a component, sorted
// by code. Fails NotFound if the component does not exist.
func TechnologiesOf(snap *model.Snapshot, component string) ([]TechnologyRow, error) {
	component = model.NormalizeKey(component)
	if !snap.HasComponent(component) {
		return nil, model.NewNotFound("component", component)
	}

	var rows []TechnologyRow
	for _, a := range snap.ComponentTechnology {
		if a.ComponentName == component {
			rows = append(rows, TechnologyRow{
				TechnologyCode:  a.TechnologyCode,
				ApplicationType: a.ApplicationType,
			})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TechnologyCode < rows[j].TechnologyCode })
	return rows, nil
}

// ClassesOf returns all asset class names that include a component,
// sorted. Fails NotFound if the component does not exist.
func ClassesOf(snap *model.Snapshot, component string) ([]string, error) {
	component = model.NormalizeKey(component)
	if !snap.HasComponent(component) {
		return nil, model.NewNotFound("component", component)
	}

	var classes []string
	for _, a := range snap.ClassComponent {
		if a.ComponentName == component {
			classes = append(classes, a.ClassName)
		}
	}
	sort.Strings(classes)
	return classes, nil
}

// ComponentsOfTechnology returns all components monitored by a technology,
// sorted by component name. typeFilter restricts the result to exactly
// Primary or Secondary assignments; the empty string means no filter, and
// any other value fails InvalidArgument.
func ComponentsOfTechnology(snap *model.Snapshot, techCode, typeFilter string) ([]ComponentRow, error) {
	techCode = model.NormalizeKey(techCode)
	if !snap.HasTechnology(techCode) {
		return nil, model.NewNotFound("technology", techCode)
	}
	if typeFilter != "" && !model.ValidApplicationTypes[model.ApplicationType(typeFilter)] {
		return nil, model.NewInvalidArgument("application_type filter must be Primary or Secondary, got %q", typeFilter)
	}

	var rows []ComponentRow
	for _, a := range snap.ComponentTechnology {
		if a.TechnologyCode != techCode {
			continue
		}
		if typeFilter != "" && a.ApplicationType != model.ApplicationType(typeFilter) {
			continue
		}
		rows = append(rows, ComponentRow{
			ComponentName:   a.ComponentName,
			ApplicationType: a.ApplicationType,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ComponentName < rows[j].ComponentName })
	return rows, nil
}

// ComponentsInClass returns all component names in an asset class,
// sorted. Fails NotFound if the class does not exist.
func ComponentsInClass(snap *model.Snapshot, class string) ([]string, error) {
	class = model.NormalizeKey(class)
	if !snap.HasClass(class) {
		return nil, model.NewNotFound("class", class)
	}

	var components []string
	for _, a := range snap.ClassComponent {
		if a.ClassName == class {
			components = append(components, a.ComponentName)
		}
	}
	sort.Strings(components)
	return components, nil
}

// TechnologiesRequiredBy derives the technology requirements of an asset
// class from the union of its components' assignments. When several
// components drive the same technology with different application types,
// Primary strictly dominates Secondary. A class with no components, or no
// technology-bearing components, yields an empty result, not an error.
func TechnologiesRequiredBy(snap *model.Snapshot, class string) ([]RequirementRow, error) {
	components, err := ComponentsInClass(snap, class)
	if err != nil {
		return nil, err
	}
	inClass := make(map[string]bool, len(components))
	for _, c := range components {
		inClass[c] = true
	}

	type group struct {
		best    model.ApplicationType
		drivers []string
	}
	groups := make(map[string]*group)
	for _, a := range snap.ComponentTechnology {
		if !inClass[a.ComponentName] {
			continue
		}
		g := groups[a.TechnologyCode]
		if g == nil {
			g = &group{best: a.ApplicationType}
			groups[a.TechnologyCode] = g
		}
		if a.ApplicationType == model.Primary {
			g.best = model.Primary
		}
		g.drivers = append(g.drivers, a.ComponentName)
	}

	rows := make([]RequirementRow, 0, len(groups))
	for code, g := range groups {
		sort.Strings(g.drivers)
		rows = append(rows, RequirementRow{
			TechnologyCode:    code,
			ApplicationType:   g.best,
			DrivingComponents: strings.Join(g.drivers, ", "),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].TechnologyCode < rows[j].TechnologyCode })
	return rows, nil
}

// Summary holds the configuration counts shown by the summary surface.
type Summary struct {
	Components            int `json:"components"`
	Technologies          int `json:"technologies"`
	Classes               int `json:"classes"`
	TechnologyAssignments int `json:"technology_assignments"`
	ClassAssignments      int `json:"class_assignments"`
	ChangeLogEntries      int `json:"change_log_entries"`
	PendingRequests       int `json:"pending_requests"`
}

// Summarize returns the configuration counts for a snapshot.
func Summarize(snap *model.Snapshot) Summary {
	return Summary{
		Components:            len(snap.Components),
		Technologies:          len(snap.Technologies),
		Classes:               len(snap.Classes),
		TechnologyAssignments: len(snap.ComponentTechnology),
		ClassAssignments:      len(snap.ClassComponent),
		ChangeLogEntries:      len(snap.ChangeLog),
		PendingRequests:       len(snap.PendingEntries()),
	}
}
