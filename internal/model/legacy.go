package model

import "strconv"

// NextLegacyID allocates the next legacy integer id for a master table
// that still carries an id column: max(existing)+1, as text. Returns the
// empty string when no row has an id, meaning the column was already
// retired and new rows should not reintroduce it.
func NextLegacyID(ids []string) string {
	max := 0
	found := false
	for _, id := range ids {
		n, err := strconv.Atoi(id)
		if err != nil {
			continue
		}
		found = true
		if n > max {
			max = n
		}
	}
	if !found {
		return ""
	}
	return strconv.Itoa(max + 1)
}
