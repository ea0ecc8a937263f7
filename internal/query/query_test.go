package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condmon/acmcfg/internal/model"
)

func fixtureSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Components: []model.Component{
			{Name: "Gearboxes"}, {Name: "Motors"}, {Name: "Couplings"},
		},
		Technologies: []model.Technology{
			{Code: "VI"}, {Code: "IR"}, {Code: "UT"},
		},
		Classes: []model.AssetClass{
			{Name: "Rotating-1"}, {Name: "Static-1"},
		},
		ComponentTechnology: []model.TechnologyAssignment{
			{ComponentName: "Gearboxes", TechnologyCode: "VI", ApplicationType: model.Primary},
			{ComponentName: "Gearboxes", TechnologyCode: "IR", ApplicationType: model.Secondary},
			{ComponentName: "Motors", TechnologyCode: "VI", ApplicationType: model.Secondary},
			{ComponentName: "Motors", TechnologyCode: "IR", ApplicationType: model.Primary},
		},
		ClassComponent: []model.ClassAssignment{
			{ClassName: "Rotating-1", ComponentName: "Gearboxes"},
			{ClassName: "Rotating-1", ComponentName: "Motors"},
		},
	}
}

// TestTechnologiesOf tests per-component lookup, sorted by code.
func TestTechnologiesOf(t *testing.T) {
	rows, err := TechnologiesOf(fixtureSnapshot(), "Gearboxes")
	require.NoError(t, err)
	assert.Equal(t, []TechnologyRow{
		{TechnologyCode: "IR", ApplicationType: model.Secondary},
		{TechnologyCode: "VI", ApplicationType: model.Primary},
	}, rows)
}

// TestTechnologiesOf_NotFound tests the missing-component failure.
func TestTechnologiesOf_NotFound(t *testing.T) {
	_, err := TechnologiesOf(fixtureSnapshot(), "Bearings")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

// TestClassesOf tests component-to-class lookup.
func TestClassesOf(t *testing.T) {
	classes, err := ClassesOf(fixtureSnapshot(), "Gearboxes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rotating-1"}, classes)

	classes, err = ClassesOf(fixtureSnapshot(), "Couplings")
	require.NoError(t, err)
	assert.Empty(t, classes)
}

// TestComponentsOfTechnology tests technology-to-component lookup with
// and without the application-type filter.
func TestComponentsOfTechnology(t *testing.T) {
	rows, err := ComponentsOfTechnology(fixtureSnapshot(), "VI", "")
	require.NoError(t, err)
	assert.Equal(t, []ComponentRow{
		{ComponentName: "Gearboxes", ApplicationType: model.Primary},
		{ComponentName: "Motors", ApplicationType: model.Secondary},
	}, rows)

	rows, err = ComponentsOfTechnology(fixtureSnapshot(), "VI", "Primary")
	require.NoError(t, err)
	assert.Equal(t, []ComponentRow{
		{ComponentName: "Gearboxes", ApplicationType: model.Primary},
	}, rows)
}

// TestComponentsOfTechnology_BadFilter tests rejection of filter values
// outside {Primary, Secondary}.
func TestComponentsOfTechnology_BadFilter(t *testing.T) {
	_, err := ComponentsOfTechnology(fixtureSnapshot(), "VI", "Tertiary")
	require.Error(t, err)
	assert.True(t, model.IsInvalidArgument(err))

	_, err = ComponentsOfTechnology(fixtureSnapshot(), "XX", "")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

// TestTechnologiesRequiredBy tests the class-level derivation with
// Primary-over-Secondary resolution and driving component lists.
func TestTechnologiesRequiredBy(t *testing.T) {
	rows, err := TechnologiesRequiredBy(fixtureSnapshot(), "Rotating-1")
	require.NoError(t, err)
	assert.Equal(t, []RequirementRow{
		{TechnologyCode: "IR", ApplicationType: model.Primary, DrivingComponents: "Gearboxes, Motors"},
		{TechnologyCode: "VI", ApplicationType: model.Primary, DrivingComponents: "Gearboxes, Motors"},
	}, rows)
}

// TestTechnologiesRequiredBy_PrimaryDominates tests the property from the
// requirement: one Primary driver lifts the whole technology to Primary.
func TestTechnologiesRequiredBy_PrimaryDominates(t *testing.T) {
	snap := fixtureSnapshot()
	snap.ComponentTechnology = []model.TechnologyAssignment{
		{ComponentName: "Gearboxes", TechnologyCode: "VI", ApplicationType: model.Primary},
		{ComponentName: "Motors", TechnologyCode: "VI", ApplicationType: model.Secondary},
	}

	rows, err := TechnologiesRequiredBy(snap, "Rotating-1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, RequirementRow{
		TechnologyCode:    "VI",
		ApplicationType:   model.Primary,
		DrivingComponents: "Gearboxes, Motors",
	}, rows[0])
}

// TestTechnologiesRequiredBy_EmptyClass tests that an empty class is a
// valid empty result, not an error.
func TestTechnologiesRequiredBy_EmptyClass(t *testing.T) {
	rows, err := TechnologiesRequiredBy(fixtureSnapshot(), "Static-1")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

// TestSummarize tests the configuration counts.
func TestSummarize(t *testing.T) {
	snap := fixtureSnapshot()
	snap.ChangeLog = []model.Entry{
		{LogID: 1, Status: model.StatusApplied, EntityType: model.EntityComponent, Action: model.ActionAdd},
		{LogID: 2, Status: model.StatusPending, EntityType: model.EntityComponent, Action: model.ActionRemoveRequest},
	}

	assert.Equal(t, Summary{
		Components:            3,
		Technologies:          3,
		Classes:               2,
		TechnologyAssignments: 4,
		ClassAssignments:      2,
		ChangeLogEntries:      2,
		PendingRequests:       1,
	}, Summarize(snap))
}

// TestComponentTechnologyMatrix tests the legacy P/S cross-tab export.
func TestComponentTechnologyMatrix(t *testing.T) {
	m := ComponentTechnologyMatrix(fixtureSnapshot())
	assert.Equal(t, []string{"component_name", "IR", "UT", "VI"}, m.Header)
	assert.Equal(t, [][]string{
		{"Couplings", "", "", ""},
		{"Gearboxes", "S", "", "P"},
		{"Motors", "P", "", "S"},
	}, m.Rows)
}

// TestClassComponentMatrix tests the legacy x cross-tab export.
func TestClassComponentMatrix(t *testing.T) {
	m := ClassComponentMatrix(fixtureSnapshot())
	assert.Equal(t, []string{"class_name", "Couplings", "Gearboxes", "Motors"}, m.Header)
	assert.Equal(t, [][]string{
		{"Rotating-1", "", "x", "x"},
		{"Static-1", "", "", ""},
	}, m.Rows)
}
