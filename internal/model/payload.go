package model

import (
	"encoding/json"
	"fmt"
)

// Payload is the structured snapshot of a change, embedded in a change-log
// entry. Each (entity type, action) pair has exactly one payload variant,
// so impact fields exist only where the variant defines them.
type Payload interface {
	payloadKind() string
}

// ComponentAdd records an immediate component addition.
type ComponentAdd struct {
	ComponentName string `json:"component_name"`
}

// ClassAdd records an immediate asset class addition.
type ClassAdd struct {
	ClassName string `json:"class_name"`
}

// TechnologyAssign records an immediate component↔technology assignment.
type TechnologyAssign struct {
	ComponentName   string          `json:"component_name"`
	TechnologyCode  string          `json:"technology_code"`
	ApplicationType ApplicationType `json:"application_type"`
}

// ApplicationTypeUpdate records an in-place Primary↔Secondary change,
// keeping both the old and new value.
type ApplicationTypeUpdate struct {
	ComponentName      string          `json:"component_name"`
	TechnologyCode     string          `json:"technology_code"`
	OldApplicationType ApplicationType `json:"old_application_type"`
	NewApplicationType ApplicationType `json:"new_application_type"`
}

// ClassAssign records an immediate class↔component assignment.
type ClassAssign struct {
	ClassName     string `json:"class_name"`
	ComponentName string `json:"component_name"`
}

// TechnologyAssignmentRef is one row of a removal impact summary.
type TechnologyAssignmentRef struct {
	TechnologyCode  string          `json:"technology_code"`
	ApplicationType ApplicationType `json:"application_type"`
}

// RemovalImpact summarizes what an approved component removal would
// cascade to, for admin review.
type RemovalImpact struct {
	AssignedToClasses     []string                  `json:"assigned_to_classes"`
	TechnologyAssignments []TechnologyAssignmentRef `json:"technology_assignments"`
}

// ComponentRemoval is a deferred component removal request. Approval
// deletes the component and cascades to every row the impact lists.
type ComponentRemoval struct {
	ComponentName string        `json:"component_name"`
	Impact        RemovalImpact `json:"impact"`
}

// TechnologyRemoval is a deferred component↔technology removal request.
// The application type at request time is kept for the reviewer.
type TechnologyRemoval struct {
	ComponentName   string          `json:"component_name"`
	TechnologyCode  string          `json:"technology_code"`
	ApplicationType ApplicationType `json:"application_type"`
}

// ClassAssignmentRemoval is a deferred class↔component removal request.
type ClassAssignmentRemoval struct {
	ClassName     string `json:"class_name"`
	ComponentName string `json:"component_name"`
}

func (ComponentAdd) payloadKind() string           { return "component_add" }
func (ClassAdd) payloadKind() string               { return "class_add" }
func (TechnologyAssign) payloadKind() string       { return "technology_assign" }
func (ApplicationTypeUpdate) payloadKind() string  { return "application_type_update" }
func (ClassAssign) payloadKind() string            { return "class_assign" }
func (ComponentRemoval) payloadKind() string       { return "component_removal" }
func (TechnologyRemoval) payloadKind() string      { return "technology_removal" }
func (ClassAssignmentRemoval) payloadKind() string { return "class_assignment_removal" }

// MarshalPayload serializes a payload to the JSON text stored in the
// change log's payload column.
func MarshalPayload(p Payload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("marshal payload: nil payload")
	}
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}
	return string(data), nil
}

// UnmarshalPayload decodes the payload column of a change-log row into
// the variant selected by the row's entity type and action.
func UnmarshalPayload(entityType EntityType, action Action, data string) (Payload, error) {
	decode := func(v Payload) (Payload, error) {
		if err := json.Unmarshal([]byte(data), v); err != nil {
			return nil, fmt.Errorf("unmarshal %s/%s payload: %w", entityType, action, err)
		}
		return v, nil
	}

	switch {
	case entityType == EntityComponent && action == ActionAdd:
		p := &ComponentAdd{}
		return decode(p)
	case entityType == EntityComponent && action == ActionRemoveRequest:
		p := &ComponentRemoval{}
		return decode(p)
	case entityType == EntityClass && action == ActionAdd:
		p := &ClassAdd{}
		return decode(p)
	case entityType == EntityComponentTechnology && action == ActionAdd:
		p := &TechnologyAssign{}
		return decode(p)
	case entityType == EntityComponentTechnology && action == ActionUpdate:
		p := &ApplicationTypeUpdate{}
		return decode(p)
	case entityType == EntityComponentTechnology && action == ActionRemoveRequest:
		p := &TechnologyRemoval{}
		return decode(p)
	case entityType == EntityClassComponent && action == ActionAdd:
		p := &ClassAssign{}
		return decode(p)
	case entityType == EntityClassComponent && action == ActionRemoveRequest:
		p := &ClassAssignmentRemoval{}
		return decode(p)
	default:
		return nil, fmt.Errorf("no payload variant for entity_type=%q action=%q", entityType, action)
	}
}
