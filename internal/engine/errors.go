package engine

import (
	"errors"
	"fmt"
	"strings"
)

// CascadeError reports an approval cascade that failed partway through
// its table writes. Committed names the tables whose deletions reached
// disk before the failure; Failed names the write that broke. The change
// log still shows the entry as pending, which the validator surfaces as
// a stale request.
type CascadeError struct {
	LogID     int64
	Committed []string
	Failed    string
	Err       error
}

func (e *CascadeError) Error() string {
	committed := "none"
	if len(e.Committed) > 0 {
		committed = strings.Join(e.Committed, ", ")
	}
	return fmt.Sprintf("approval cascade for log id %d failed writing %s (committed: %s): %v",
		e.LogID, e.Failed, committed, e.Err)
}

func (e *CascadeError) Unwrap() error { return e.Err }

// IsCascadeError reports whether err is a partial-cascade failure and
// returns it for inspection.
func IsCascadeError(err error) (*CascadeError, bool) {
	var ce *CascadeError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
