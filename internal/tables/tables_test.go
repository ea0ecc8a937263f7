package tables

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/testutil"
)

// TestOpen_MissingTable tests that a missing required table is fatal.
func TestOpen_MissingTable(t *testing.T) {
	dir := testutil.SeedDir(t, "VI")
	require.NoError(t, os.Remove(filepath.Join(dir, "classes.csv")))

	_, err := Open(dir)
	require.Error(t, err)
	assert.True(t, model.IsIO(err))
	assert.Contains(t, err.Error(), "classes")
}

// TestStore_RoundTrip tests that persisting and reloading yields
// equivalent relations.
func TestStore_RoundTrip(t *testing.T) {
	dir := testutil.SeedDir(t, "VI", "IR")
	s, err := Open(dir)
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Components = append(snap.Components, model.Component{Name: "Gearboxes"})
	snap.Classes = append(snap.Classes, model.AssetClass{Name: "Rotating-1"})
	snap.ComponentTechnology = append(snap.ComponentTechnology, model.TechnologyAssignment{
		ComponentName:   "Gearboxes",
		TechnologyCode:  "VI",
		ApplicationType: model.Primary,
	})
	snap.ClassComponent = append(snap.ClassComponent, model.ClassAssignment{
		ClassName:     "Rotating-1",
		ComponentName: "Gearboxes",
	})
	for _, table := range []string{TableComponents, TableClasses, TableComponentTechnology, TableClassComponent} {
		require.NoError(t, s.Persist(table))
	}

	require.NoError(t, s.Reload())
	reloaded := s.Snapshot()
	assert.Equal(t, []model.Component{{Name: "Gearboxes"}}, reloaded.Components)
	assert.Equal(t, []string{"IR", "VI"}, reloaded.TechnologyCodes())
	assert.Equal(t, model.Primary, reloaded.FindAssignment("Gearboxes", "VI").ApplicationType)
	assert.True(t, reloaded.HasClassAssignment("Rotating-1", "Gearboxes"))
}

// TestStore_ChangeLogRoundTrip tests the full change-log row codec,
// payload column included.
func TestStore_ChangeLogRoundTrip(t *testing.T) {
	dir := testutil.SeedDir(t, "VI")
	s, err := Open(dir)
	require.NoError(t, err)

	ts := time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)
	entry := model.Entry{
		LogID:      1,
		Timestamp:  ts,
		EntityType: model.EntityComponent,
		Action:     model.ActionRemoveRequest,
		EntityKey:  "Gearboxes",
		Payload: &model.ComponentRemoval{
			ComponentName: "Gearboxes",
			Impact: model.RemovalImpact{
				AssignedToClasses: []string{"Rotating-1"},
				TechnologyAssignments: []model.TechnologyAssignmentRef{
					{TechnologyCode: "VI", ApplicationType: model.Primary},
				},
			},
		},
		Notes:       "decommissioned",
		RequestedBy: "jdoe",
		Status:      model.StatusPending,
	}
	s.Snapshot().ChangeLog = append(s.Snapshot().ChangeLog, entry)
	require.NoError(t, s.Persist(TableChangeLog))

	require.NoError(t, s.Reload())
	log := s.Snapshot().ChangeLog
	require.Len(t, log, 1)
	assert.Equal(t, entry, log[0])

	hw, err := s.LogHighWaterOnDisk()
	require.NoError(t, err)
	assert.Equal(t, int64(1), hw)
}

// TestStore_LegacyIDColumns tests that legacy integer id columns survive
// a load/persist cycle.
func TestStore_LegacyIDColumns(t *testing.T) {
	dir := testutil.SeedDir(t, "VI")
	path := filepath.Join(dir, "components.csv")
	require.NoError(t, os.WriteFile(path, []byte("component_id,component_name\n4,Gearboxes\n7,Motors\n"), 0o644))

	s, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, []model.Component{
		{LegacyID: "4", Name: "Gearboxes"},
		{LegacyID: "7", Name: "Motors"},
	}, s.Snapshot().Components)

	require.NoError(t, s.Persist(TableComponents))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "component_id,component_name\n4,Gearboxes\n7,Motors\n", string(data))
}

// TestWriteCSVAtomic_NoPartialFiles tests that a completed write leaves
// no temp files behind.
func TestWriteCSVAtomic_NoPartialFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")
	require.NoError(t, WriteFileAtomic(path, []string{"a", "b"}, [][]string{{"1", "2"}}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))
}

// TestStore_Watch tests that external table writes are reported and temp
// files are filtered.
func TestStore_Watch(t *testing.T) {
	dir := testutil.SeedDir(t, "VI")
	s, err := Open(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed, err := s.Watch(ctx)
	require.NoError(t, err)

	// External edit, as another process would do it.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "classes.csv"), []byte("class_name\nRotating-1\n"), 0o644))

	select {
	case table := <-changed:
		assert.Equal(t, TableClasses, table)
	case <-time.After(5 * time.Second):
		t.Fatal("no watch event for external edit")
	}
}
