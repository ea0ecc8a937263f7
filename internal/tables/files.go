package tables

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/google/uuid"
)

// readCSV reads all records from a CSV file, including the header row.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// writeCSVAtomic writes records to path via a uniquely named temp file in
// the same directory followed by a rename. The uuid suffix keeps two
// processes writing the same table from sharing a temp file; the rename
// makes the replace all-or-nothing.
func writeCSVAtomic(path string, records [][]string) error {
	tmp := fmt.Sprintf("%s.tmp-%s", path, uuid.NewString())

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flush %s: %w", tmp, err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// WriteFileAtomic writes a header row plus data rows to path with the
// same temp-then-rename discipline the store uses for its own tables.
// Exported for the legacy cross-tab export path.
func WriteFileAtomic(path string, header []string, rows [][]string) error {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, header)
	records = append(records, rows...)
	return writeCSVAtomic(path, records)
}
