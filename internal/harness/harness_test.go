package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarios runs every scenario under testdata/scenarios against its
// golden audit trail.
func TestScenarios(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenario files found")

	for _, path := range paths {
		scenario, err := LoadScenario(path)
		require.NoError(t, err, path)

		t.Run(scenario.Name, func(t *testing.T) {
			result := RunWithGolden(t, scenario)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

// TestLoadScenario_RejectsUnknownFields tests the strict decoder.
func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, `
name: bad
description: typo in a field name
technologies: [VI]
steps:
  - op: add_component
    component: Fans
assertion:
  - type: pending_count
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
}

// TestLoadScenario_RejectsUnknownOp tests step op validation.
func TestLoadScenario_RejectsUnknownOp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad-op.yaml")
	writeFile(t, path, `
name: bad-op
description: op is not in the vocabulary
technologies: [VI]
steps:
  - op: drop_component
    component: Fans
`)
	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown op")
}
