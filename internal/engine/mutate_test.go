package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/tables"
	"github.com/condmon/acmcfg/internal/testutil"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	dir := testutil.SeedDir(t, "VI", "IR", "UT")
	store, err := tables.Open(dir)
	require.NoError(t, err)
	clock := testutil.NewStepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)
	return New(store, WithClock(clock))
}

// TestAddComponent tests insertion, the audit entry, and duplicate no-op.
func TestAddComponent(t *testing.T) {
	e := newTestEngine(t)

	changed, err := e.AddComponent("Gearboxes", "jdoe")
	require.NoError(t, err)
	assert.True(t, changed)

	snap := e.Store().Snapshot()
	assert.True(t, snap.HasComponent("Gearboxes"))
	require.Len(t, snap.ChangeLog, 1)
	entry := snap.ChangeLog[0]
	assert.Equal(t, int64(1), entry.LogID)
	assert.Equal(t, model.EntityComponent, entry.EntityType)
	assert.Equal(t, model.ActionAdd, entry.Action)
	assert.Equal(t, model.StatusApplied, entry.Status)
	assert.Equal(t, "jdoe", entry.RequestedBy)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), entry.Timestamp)

	changed, err = e.AddComponent("Gearboxes", "jdoe")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, e.Store().Snapshot().ChangeLog, 1)
}

// TestAddComponent_TrimsAndNormalizes tests that keys are trimmed before
// the duplicate check, so "  Gearboxes " is the same component.
func TestAddComponent_TrimsAndNormalizes(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.AddComponent("Gearboxes", "")
	require.NoError(t, err)

	changed, err := e.AddComponent("  Gearboxes ", "")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = e.AddComponent("   ", "")
	require.Error(t, err)
	assert.True(t, model.IsInvalidArgument(err))
}

// TestAddComponent_DefaultActor tests the system default for an empty
// requester on immediate operations.
func TestAddComponent_DefaultActor(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.AddComponent("Motors", "")
	require.NoError(t, err)
	assert.Equal(t, "system", e.Store().Snapshot().ChangeLog[0].RequestedBy)
}

// TestAddClass tests class insertion and duplicate no-op.
func TestAddClass(t *testing.T) {
	e := newTestEngine(t)

	changed, err := e.AddClass("Rotating-1", "jdoe")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, e.Store().Snapshot().HasClass("Rotating-1"))

	changed, err = e.AddClass("Rotating-1", "jdoe")
	require.NoError(t, err)
	assert.False(t, changed)
}

// TestAssignTechnology tests the happy path, both NotFound preconditions,
// the application-type check, and the duplicate no-op.
func TestAssignTechnology(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.AddComponent("Gearboxes", "")
	require.NoError(t, err)

	changed, err := e.AssignTechnology("Gearboxes", "VI", model.Primary, "jdoe")
	require.NoError(t, err)
	assert.True(t, changed)

	snap := e.Store().Snapshot()
	assignment := snap.FindAssignment("Gearboxes", "VI")
	require.NotNil(t, assignment)
	assert.Equal(t, model.Primary, assignment.ApplicationType)

	entry := snap.ChangeLog[len(snap.ChangeLog)-1]
	assert.Equal(t, "Gearboxes → VI", entry.EntityKey)
	assert.Equal(t, &model.TechnologyAssign{
		ComponentName:   "Gearboxes",
		TechnologyCode:  "VI",
		ApplicationType: model.Primary,
	}, entry.Payload)

	_, err = e.AssignTechnology("Bearings", "VI", model.Primary, "")
	assert.True(t, model.IsNotFound(err))

	_, err = e.AssignTechnology("Gearboxes", "XX", model.Primary, "")
	assert.True(t, model.IsNotFound(err))

	_, err = e.AssignTechnology("Gearboxes", "IR", model.ApplicationType("Tertiary"), "")
	assert.True(t, model.IsInvalidArgument(err))

	changed, err = e.AssignTechnology("Gearboxes", "VI", model.Secondary, "")
	require.NoError(t, err)
	assert.False(t, changed, "existing pair is a no-op even with a different type")
}

// TestUpdateApplicationType tests the in-place priority change with the
// old value captured in the payload.
func TestUpdateApplicationType(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.AddComponent("Gearboxes", "")
	require.NoError(t, err)
	_, err = e.AssignTechnology("Gearboxes", "VI", model.Primary, "")
	require.NoError(t, err)

	changed, err := e.UpdateApplicationType("Gearboxes", "VI", model.Secondary, "jdoe")
	require.NoError(t, err)
	assert.True(t, changed)

	snap := e.Store().Snapshot()
	assert.Equal(t, model.Secondary, snap.FindAssignment("Gearboxes", "VI").ApplicationType)

	entry := snap.ChangeLog[len(snap.ChangeLog)-1]
	assert.Equal(t, model.ActionUpdate, entry.Action)
	assert.Equal(t, &model.ApplicationTypeUpdate{
		ComponentName:      "Gearboxes",
		TechnologyCode:     "VI",
		OldApplicationType: model.Primary,
		NewApplicationType: model.Secondary,
	}, entry.Payload)

	changed, err = e.UpdateApplicationType("Gearboxes", "VI", model.Secondary, "jdoe")
	require.NoError(t, err)
	assert.False(t, changed, "same value is a no-op")

	_, err = e.UpdateApplicationType("Gearboxes", "IR", model.Primary, "")
	assert.True(t, model.IsNotFound(err))
}

// TestAssignComponentToClass tests roster insertion with the ← entity
// key direction.
func TestAssignComponentToClass(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.AddComponent("Gearboxes", "")
	require.NoError(t, err)
	_, err = e.AddClass("Rotating-1", "")
	require.NoError(t, err)

	changed, err := e.AssignComponentToClass("Rotating-1", "Gearboxes", "jdoe")
	require.NoError(t, err)
	assert.True(t, changed)

	snap := e.Store().Snapshot()
	assert.True(t, snap.HasClassAssignment("Rotating-1", "Gearboxes"))
	assert.Equal(t, "Rotating-1 ← Gearboxes", snap.ChangeLog[len(snap.ChangeLog)-1].EntityKey)

	changed, err = e.AssignComponentToClass("Rotating-1", "Gearboxes", "jdoe")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = e.AssignComponentToClass("Static-1", "Gearboxes", "")
	assert.True(t, model.IsNotFound(err))

	_, err = e.AssignComponentToClass("Rotating-1", "Bearings", "")
	assert.True(t, model.IsNotFound(err))
}

// TestMutations_PersistAcrossReopen tests that mutations survive a fresh
// Open of the same directory, including the audit payloads.
func TestMutations_PersistAcrossReopen(t *testing.T) {
	dir := testutil.SeedDir(t, "VI")
	store, err := tables.Open(dir)
	require.NoError(t, err)
	e := New(store, WithClock(testutil.NewStepClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Second)))

	_, err = e.AddComponent("Gearboxes", "jdoe")
	require.NoError(t, err)
	_, err = e.AssignTechnology("Gearboxes", "VI", model.Primary, "jdoe")
	require.NoError(t, err)

	reopened, err := tables.Open(dir)
	require.NoError(t, err)
	snap := reopened.Snapshot()
	assert.True(t, snap.HasComponent("Gearboxes"))
	require.NotNil(t, snap.FindAssignment("Gearboxes", "VI"))
	require.Len(t, snap.ChangeLog, 2)
	assert.Equal(t, &model.TechnologyAssign{
		ComponentName:   "Gearboxes",
		TechnologyCode:  "VI",
		ApplicationType: model.Primary,
	}, snap.ChangeLog[1].Payload)
}

// TestLogIDs_MonotonicAcrossEngines tests that two engines over the same
// directory never reuse a log id: each reloads and claims max+1.
func TestLogIDs_MonotonicAcrossEngines(t *testing.T) {
	dir := testutil.SeedDir(t)
	storeA, err := tables.Open(dir)
	require.NoError(t, err)
	storeB, err := tables.Open(dir)
	require.NoError(t, err)
	a := New(storeA)
	b := New(storeB)

	_, err = a.AddComponent("Gearboxes", "")
	require.NoError(t, err)
	_, err = b.AddComponent("Motors", "")
	require.NoError(t, err)
	_, err = a.AddComponent("Couplings", "")
	require.NoError(t, err)

	reopened, err := tables.Open(dir)
	require.NoError(t, err)
	log := reopened.Snapshot().ChangeLog
	require.Len(t, log, 3)
	for i, entry := range log {
		assert.Equal(t, int64(i+1), entry.LogID)
	}
}
