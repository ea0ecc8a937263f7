package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SeedDir creates an initialized data directory under t.TempDir(): the
// technology master list holds the given codes, every other table is
// empty. Mirrors the layout the migration leaves behind (natural keys
// only, no legacy id columns).
func SeedDir(t *testing.T, techCodes ...string) string {
	t.Helper()
	dir := t.TempDir()

	techRows := "technology_code\n"
	for _, code := range techCodes {
		techRows += code + "\n"
	}

	files := map[string]string{
		"components.csv":           "component_name\n",
		"technologies.csv":         techRows,
		"classes.csv":              "class_name\n",
		"component_technology.csv": "component_name,technology_code,application_type\n",
		"class_component.csv":      "class_name,component_name\n",
		"change_log.csv": "log_id,timestamp,entity_type,action,entity_key," +
			"payload,notes,requested_by,status,reviewed_by,reviewed_at\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	return dir
}
