package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/condmon/acmcfg/internal/model"
)

func validSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Components:   []model.Component{{Name: "Gearboxes"}},
		Technologies: []model.Technology{{Code: "VI"}},
		Classes:      []model.AssetClass{{Name: "Rotating-1"}},
		ComponentTechnology: []model.TechnologyAssignment{
			{ComponentName: "Gearboxes", TechnologyCode: "VI", ApplicationType: model.Primary},
		},
		ClassComponent: []model.ClassAssignment{
			{ClassName: "Rotating-1", ComponentName: "Gearboxes"},
		},
		ChangeLog: []model.Entry{
			{LogID: 1, EntityType: model.EntityComponent, Action: model.ActionAdd, EntityKey: "Gearboxes", Status: model.StatusApplied},
		},
	}
}

// TestCheck_Valid tests that a well-formed snapshot produces no
// violations, including the empty snapshot.
func TestCheck_Valid(t *testing.T) {
	assert.Empty(t, Check(validSnapshot()))
	assert.Empty(t, Check(&model.Snapshot{}))
}

// TestCheck_BadApplicationType tests the closed Primary/Secondary enum.
func TestCheck_BadApplicationType(t *testing.T) {
	snap := validSnapshot()
	snap.ComponentTechnology[0].ApplicationType = "Tertiary"

	violations := Check(snap)
	assert.NotEmpty(t, violations)
}

// TestCheck_EmptyKey tests rejection of empty natural keys.
func TestCheck_EmptyKey(t *testing.T) {
	snap := validSnapshot()
	snap.Components = append(snap.Components, model.Component{Name: ""})

	assert.NotEmpty(t, Check(snap))
}

// TestCheck_BadLogEntry tests the log id and status constraints.
func TestCheck_BadLogEntry(t *testing.T) {
	snap := validSnapshot()
	snap.ChangeLog[0].LogID = 0
	assert.NotEmpty(t, Check(snap))

	snap = validSnapshot()
	snap.ChangeLog[0].Status = "undone"
	assert.NotEmpty(t, Check(snap))
}
