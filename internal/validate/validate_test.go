package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condmon/acmcfg/internal/model"
)

func codes(issues []Issue) []string {
	out := make([]string, len(issues))
	for i, issue := range issues {
		out[i] = issue.Code
	}
	return out
}

// TestCheck_CleanSnapshot tests that a consistent configuration yields no
// issues.
func TestCheck_CleanSnapshot(t *testing.T) {
	snap := &model.Snapshot{
		Components:   []model.Component{{Name: "Gearboxes"}},
		Technologies: []model.Technology{{Code: "VI"}},
		Classes:      []model.AssetClass{{Name: "Rotating-1"}},
		ComponentTechnology: []model.TechnologyAssignment{
			{ComponentName: "Gearboxes", TechnologyCode: "VI", ApplicationType: model.Primary},
		},
		ClassComponent: []model.ClassAssignment{
			{ClassName: "Rotating-1", ComponentName: "Gearboxes"},
		},
	}
	assert.Empty(t, Check(snap))
}

// TestCheck_Warnings tests the three coverage warnings.
func TestCheck_Warnings(t *testing.T) {
	snap := &model.Snapshot{
		Components:   []model.Component{{Name: "Couplings"}},
		Technologies: []model.Technology{{Code: "VI"}},
		Classes:      []model.AssetClass{{Name: "Static-1"}},
	}

	issues := Check(snap)
	require.Len(t, issues, 3)
	assert.Equal(t, []string{
		CodeComponentNoTechnologies,
		CodeComponentNoClass,
		CodeClassNoComponents,
	}, codes(issues))
	for _, issue := range issues {
		assert.Equal(t, SeverityWarning, issue.Severity)
	}
	assert.Contains(t, issues[0].Message, "Couplings")
}

// TestCheck_IntegrityErrors tests that junction rows with unmatched keys
// are reported together, not short-circuited.
func TestCheck_IntegrityErrors(t *testing.T) {
	snap := &model.Snapshot{
		Technologies: []model.Technology{{Code: "VI"}},
		ComponentTechnology: []model.TechnologyAssignment{
			{ComponentName: "Ghost", TechnologyCode: "XX", ApplicationType: model.Primary},
		},
		ClassComponent: []model.ClassAssignment{
			{ClassName: "NoSuchClass", ComponentName: "Ghost"},
		},
	}

	issues := Check(snap)
	got := codes(issues)
	assert.Contains(t, got, CodeUnknownComponentInCT)
	assert.Contains(t, got, CodeUnknownTechnologyInCT)
	assert.Contains(t, got, CodeUnknownClassInCC)
	assert.Contains(t, got, CodeUnknownComponentInCC)
	for _, issue := range issues {
		assert.Equal(t, SeverityError, issue.Severity)
	}
}

// TestCheck_StalePendingRequest tests detection of a pending removal whose
// target rows are already gone (interrupted approval cascade).
func TestCheck_StalePendingRequest(t *testing.T) {
	snap := &model.Snapshot{
		Technologies: []model.Technology{{Code: "VI"}},
		ChangeLog: []model.Entry{{
			LogID:      3,
			EntityType: model.EntityComponent,
			Action:     model.ActionRemoveRequest,
			EntityKey:  "Gearboxes",
			Payload:    &model.ComponentRemoval{ComponentName: "Gearboxes"},
			Status:     model.StatusPending,
		}},
	}

	issues := Check(snap)
	require.Len(t, issues, 1)
	assert.Equal(t, CodeStalePendingRequest, issues[0].Code)
	assert.Equal(t, SeverityError, issues[0].Severity)
	assert.Contains(t, issues[0].Message, "log_id=3")
}

// TestCheck_PendingRequestStillValid tests that a pending request whose
// target still exists raises nothing.
func TestCheck_PendingRequestStillValid(t *testing.T) {
	snap := &model.Snapshot{
		Components:   []model.Component{{Name: "Gearboxes"}},
		Technologies: []model.Technology{{Code: "VI"}},
		Classes:      []model.AssetClass{{Name: "Rotating-1"}},
		ComponentTechnology: []model.TechnologyAssignment{
			{ComponentName: "Gearboxes", TechnologyCode: "VI", ApplicationType: model.Primary},
		},
		ClassComponent: []model.ClassAssignment{
			{ClassName: "Rotating-1", ComponentName: "Gearboxes"},
		},
		ChangeLog: []model.Entry{{
			LogID:      1,
			EntityType: model.EntityComponent,
			Action:     model.ActionRemoveRequest,
			EntityKey:  "Gearboxes",
			Payload:    &model.ComponentRemoval{ComponentName: "Gearboxes"},
			Status:     model.StatusPending,
		}},
	}
	assert.Empty(t, Check(snap))
}
