package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/condmon/acmcfg/internal/model"
)

// trailEntry is the golden-file rendering of one change-log entry. Field
// order here is the column order of change_log.csv.
type trailEntry struct {
	LogID       int64  `json:"log_id"`
	Timestamp   string `json:"timestamp"`
	EntityType  string `json:"entity_type"`
	Action      string `json:"action"`
	EntityKey   string `json:"entity_key"`
	Payload     string `json:"payload"`
	Notes       string `json:"notes"`
	RequestedBy string `json:"requested_by"`
	Status      string `json:"status"`
	ReviewedBy  string `json:"reviewed_by"`
	ReviewedAt  string `json:"reviewed_at"`
}

type trailSnapshot struct {
	Scenario   string       `json:"scenario"`
	AuditTrail []trailEntry `json:"audit_trail"`
}

// renderTrail serializes a change log for golden comparison.
func renderTrail(scenario string, trail []model.Entry) ([]byte, error) {
	snapshot := trailSnapshot{Scenario: scenario, AuditTrail: []trailEntry{}}
	for _, e := range trail {
		payload, err := model.MarshalPayload(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("render entry %d: %w", e.LogID, err)
		}
		snapshot.AuditTrail = append(snapshot.AuditTrail, trailEntry{
			LogID:       e.LogID,
			Timestamp:   model.FormatTime(e.Timestamp),
			EntityType:  string(e.EntityType),
			Action:      string(e.Action),
			EntityKey:   e.EntityKey,
			Payload:     payload,
			Notes:       e.Notes,
			RequestedBy: e.RequestedBy,
			Status:      string(e.Status),
			ReviewedBy:  e.ReviewedBy,
			ReviewedAt:  model.FormatTime(e.ReviewedAt),
		})
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal trail: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its audit trail against
// testdata/golden/{scenario.Name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) *Result {
	t.Helper()

	result := Run(t, s)
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	data, err := renderTrail(s.Name, result.Trail)
	if err != nil {
		t.Fatalf("render audit trail: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, data)
	return result
}
