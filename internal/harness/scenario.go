package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one YAML-defined conformance scenario: a sequence of
// operations against a freshly seeded data directory, with optional
// per-step expectations and final-state assertions.
type Scenario struct {
	// Name uniquely identifies the scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario exercises.
	Description string `yaml:"description"`

	// Technologies seeds the technology master list.
	Technologies []string `yaml:"technologies"`

	// Steps is the operation sequence, executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state after all steps ran.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is one engine operation. Which fields apply depends on the op.
type Step struct {
	// Op selects the operation: add_component, add_class,
	// assign_technology, update_application_type, assign_class,
	// request_remove_component, request_remove_technology,
	// request_remove_class_assignment, approve, reject.
	Op string `yaml:"op"`

	Component       string `yaml:"component,omitempty"`
	Technology      string `yaml:"technology,omitempty"`
	Class           string `yaml:"class,omitempty"`
	ApplicationType string `yaml:"application_type,omitempty"`
	Notes           string `yaml:"notes,omitempty"`
	Actor           string `yaml:"actor,omitempty"`
	LogID           int64  `yaml:"log_id,omitempty"`

	// Expect validates the step outcome. A step with no expect clause
	// must simply not fail.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect is a per-step expectation. All set fields must match.
type Expect struct {
	// Error is the expected error code (e.g. NOT_FOUND). When set the
	// step must fail with that code.
	Error string `yaml:"error,omitempty"`

	// Changed is the expected mutation outcome of an immediate op.
	Changed *bool `yaml:"changed,omitempty"`

	// LogID is the expected id returned by a removal request.
	LogID int64 `yaml:"log_id,omitempty"`
}

// Assertion validates final state. Which fields apply depends on the
// type.
type Assertion struct {
	// Type selects the assertion: pending_count, component_present,
	// component_absent, assignment_present, assignment_absent,
	// log_status, class_technologies.
	Type string `yaml:"type"`

	Count      int           `yaml:"count,omitempty"`
	Component  string        `yaml:"component,omitempty"`
	Technology string        `yaml:"technology,omitempty"`
	Class      string        `yaml:"class,omitempty"`
	LogID      int64         `yaml:"log_id,omitempty"`
	Status     string        `yaml:"status,omitempty"`
	Require    []Requirement `yaml:"require,omitempty"`
}

// Requirement is one expected row of a class_technologies assertion.
type Requirement struct {
	Technology      string `yaml:"technology"`
	ApplicationType string `yaml:"application_type"`
}

// Assertion type constants.
const (
	AssertPendingCount      = "pending_count"
	AssertComponentPresent  = "component_present"
	AssertComponentAbsent   = "component_absent"
	AssertAssignmentPresent = "assignment_present"
	AssertAssignmentAbsent  = "assignment_absent"
	AssertLogStatus         = "log_status"
	AssertClassTechnologies = "class_technologies"
)

// stepOps enumerates the valid step operations.
var stepOps = map[string]bool{
	"add_component":                   true,
	"add_class":                       true,
	"assign_technology":               true,
	"update_application_type":         true,
	"assign_class":                    true,
	"request_remove_component":        true,
	"request_remove_technology":       true,
	"request_remove_class_assignment": true,
	"approve":                         true,
	"reject":                          true,
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently skipping checks.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if !stepOps[step.Op] {
			return fmt.Errorf("steps[%d]: unknown op %q", i, step.Op)
		}
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertPendingCount:
		case AssertComponentPresent, AssertComponentAbsent:
			if a.Component == "" {
				return fmt.Errorf("assertions[%d]: component is required for %s", i, a.Type)
			}
		case AssertAssignmentPresent, AssertAssignmentAbsent:
			if a.Component == "" || a.Technology == "" {
				return fmt.Errorf("assertions[%d]: component and technology are required for %s", i, a.Type)
			}
		case AssertLogStatus:
			if a.LogID == 0 || a.Status == "" {
				return fmt.Errorf("assertions[%d]: log_id and status are required for log_status", i)
			}
		case AssertClassTechnologies:
			if a.Class == "" {
				return fmt.Errorf("assertions[%d]: class is required for class_technologies", i)
			}
		default:
			return fmt.Errorf("assertions[%d]: unknown assertion type %q", i, a.Type)
		}
	}
	return nil
}
