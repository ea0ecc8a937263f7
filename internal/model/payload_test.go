package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMarshalPayload_ComponentRemoval tests that impact sub-structures
// round-trip through the payload column.
func TestMarshalPayload_ComponentRemoval(t *testing.T) {
	p := &ComponentRemoval{
		ComponentName: "Gearboxes",
		Impact: RemovalImpact{
			AssignedToClasses: []string{"Rotating-1"},
			TechnologyAssignments: []TechnologyAssignmentRef{
				{TechnologyCode: "IR", ApplicationType: Secondary},
				{TechnologyCode: "VI", ApplicationType: Primary},
			},
		},
	}

	data, err := MarshalPayload(p)
	require.NoError(t, err)
	assert.Contains(t, data, `"impact"`)
	assert.Contains(t, data, `"assigned_to_classes":["Rotating-1"]`)

	decoded, err := UnmarshalPayload(EntityComponent, ActionRemoveRequest, data)
	require.NoError(t, err)
	assert.Equal(t, p, decoded)
}

// TestUnmarshalPayload_VariantSelection tests that the (entity, action)
// pair selects the right variant.
func TestUnmarshalPayload_VariantSelection(t *testing.T) {
	data := `{"class_name":"Rotating-1","component_name":"Gearboxes"}`

	add, err := UnmarshalPayload(EntityClassComponent, ActionAdd, data)
	require.NoError(t, err)
	assert.IsType(t, &ClassAssign{}, add)

	rm, err := UnmarshalPayload(EntityClassComponent, ActionRemoveRequest, data)
	require.NoError(t, err)
	assert.IsType(t, &ClassAssignmentRemoval{}, rm)
}

// TestUnmarshalPayload_UnknownPair tests rejection of undefined pairs.
func TestUnmarshalPayload_UnknownPair(t *testing.T) {
	_, err := UnmarshalPayload(EntityClass, ActionRemoveRequest, `{}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no payload variant")
}

// TestNextLogID tests high-water-mark id assignment.
func TestNextLogID(t *testing.T) {
	assert.Equal(t, int64(1), NextLogID(nil))

	log := []Entry{{LogID: 3}, {LogID: 1}, {LogID: 7}}
	assert.Equal(t, int64(8), NextLogID(log))
	assert.Equal(t, int64(7), LogHighWater(log))
}

// TestFormatTime_Empty tests that zero times render empty and parse back.
func TestFormatTime_Empty(t *testing.T) {
	assert.Equal(t, "", FormatTime(time.Time{}))

	parsed, err := ParseTime("")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())
}

// TestNormalizeKey tests trimming and NFC normalization.
func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "Gearboxes", NormalizeKey("  Gearboxes "))
	// U+0065 U+0301 (e + combining acute) normalizes to U+00E9.
	assert.Equal(t, "\u00e9", NormalizeKey("e\u0301"))
}
