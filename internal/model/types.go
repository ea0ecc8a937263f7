package model

// ApplicationType is the priority of a technology's applicability to a
// component. Primary means the technology is required; Secondary means it
// is supplementary or an alternate.
type ApplicationType string

const (
	Primary   ApplicationType = "Primary"
	Secondary ApplicationType = "Secondary"
)

// ValidApplicationTypes defines the allowed application types.
var ValidApplicationTypes = map[ApplicationType]bool{
	Primary:   true,
	Secondary: true,
}

// LegacyCell returns the legacy cross-tab cell value for an application
// type: "P" for Primary, "S" for Secondary.
func (t ApplicationType) LegacyCell() string {
	switch t {
	case Primary:
		return "P"
	case Secondary:
		return "S"
	default:
		return ""
	}
}

// EntityType identifies which relation a change-log entry affects.
type EntityType string

const (
	EntityComponent           EntityType = "component"
	EntityClass               EntityType = "class"
	EntityComponentTechnology EntityType = "component_technology"
	EntityClassComponent      EntityType = "class_component"
)

// Action identifies what a change-log entry did (or requests).
type Action string

const (
	ActionAdd           Action = "add"
	ActionUpdate        Action = "update"
	ActionRemoveRequest Action = "remove_request"
)

// Status is the lifecycle state of a change-log entry.
//
// applied is terminal and set by immediate mutations. pending entries
// transition exactly once to approved or rejected; both are terminal.
type Status string

const (
	StatusApplied  Status = "applied"
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatuses defines the allowed change-log statuses.
var ValidStatuses = map[Status]bool{
	StatusApplied:  true,
	StatusPending:  true,
	StatusApproved: true,
	StatusRejected: true,
}

// Component is a monitorable physical component type (e.g. "Gearboxes").
type Component struct {
	// LegacyID is the pre-migration integer id, kept as text for
	// round-trip fidelity. Empty when the source table has no id column.
	LegacyID string `json:"component_id,omitempty"`
	Name     string `json:"component_name"`
}

// Technology is a monitoring technology code (e.g. "VI", "IR").
// The technology master list is immutable in this store.
type Technology struct {
	LegacyID string `json:"technology_id,omitempty"`
	Code     string `json:"technology_code"`
}

// AssetClass is an equipment class (Maximo asset class).
type AssetClass struct {
	LegacyID string `json:"class_id,omitempty"`
	Name     string `json:"class_name"`
}

// TechnologyAssignment says a component is monitored with a technology at
// a given priority. At most one assignment exists per (component,
// technology) pair; the application type is updated in place.
type TechnologyAssignment struct {
	ComponentName   string          `json:"component_name"`
	TechnologyCode  string          `json:"technology_code"`
	ApplicationType ApplicationType `json:"application_type"`
}

// ClassAssignment says a component type occurs in an asset class.
type ClassAssignment struct {
	ClassName     string `json:"class_name"`
	ComponentName string `json:"component_name"`
}
