package tables

import (
	"fmt"
	"strconv"

	"github.com/condmon/acmcfg/internal/model"
)

// Column names shared with the legacy pipeline.
const (
	colComponentID     = "component_id"
	colComponentName   = "component_name"
	colTechnologyID    = "technology_id"
	colTechnologyCode  = "technology_code"
	colClassID         = "class_id"
	colClassName       = "class_name"
	colApplicationType = "application_type"
)

// changeLogHeader is the fixed column order of change_log.csv.
var changeLogHeader = []string{
	"log_id", "timestamp", "entity_type", "action", "entity_key",
	"payload", "notes", "requested_by", "status", "reviewed_by", "reviewed_at",
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	return idx
}

// masterRow is the common shape of the three master tables: a natural key
// plus an optional legacy integer id column.
type masterRow struct {
	id  string
	key string
}

func decodeMaster(table string, records [][]string, idCol, keyCol string) ([]masterRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", table)
	}
	idx := headerIndex(records[0])
	k, ok := idx[keyCol]
	if !ok {
		return nil, fmt.Errorf("%s: missing required column %q", table, keyCol)
	}
	i, hasID := idx[idCol]

	rows := make([]masterRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := masterRow{key: rec[k]}
		if hasID {
			row.id = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// encodeMaster serializes a master table. The legacy id column is written
// only when at least one row still carries an id, matching how the
// migrated files look before and after the id columns are retired.
func encodeMaster(rows []masterRow, idCol, keyCol string) [][]string {
	hasID := false
	for _, r := range rows {
		if r.id != "" {
			hasID = true
			break
		}
	}

	records := make([][]string, 0, len(rows)+1)
	if hasID {
		records = append(records, []string{idCol, keyCol})
		for _, r := range rows {
			records = append(records, []string{r.id, r.key})
		}
		return records
	}
	records = append(records, []string{keyCol})
	for _, r := range rows {
		records = append(records, []string{r.key})
	}
	return records
}

func decodeComponents(records [][]string) ([]model.Component, error) {
	rows, err := decodeMaster(TableComponents, records, colComponentID, colComponentName)
	if err != nil {
		return nil, err
	}
	out := make([]model.Component, len(rows))
	for i, r := range rows {
		out[i] = model.Component{LegacyID: r.id, Name: r.key}
	}
	return out, nil
}

func encodeComponents(components []model.Component) [][]string {
	rows := make([]masterRow, len(components))
	for i, c := range components {
		rows[i] = masterRow{id: c.LegacyID, key: c.Name}
	}
	return encodeMaster(rows, colComponentID, colComponentName)
}

func decodeTechnologies(records [][]string) ([]model.Technology, error) {
	rows, err := decodeMaster(TableTechnologies, records, colTechnologyID, colTechnologyCode)
	if err != nil {
		return nil, err
	}
	out := make([]model.Technology, len(rows))
	for i, r := range rows {
		out[i] = model.Technology{LegacyID: r.id, Code: r.key}
	}
	return out, nil
}

func encodeTechnologies(techs []model.Technology) [][]string {
	rows := make([]masterRow, len(techs))
	for i, t := range techs {
		rows[i] = masterRow{id: t.LegacyID, key: t.Code}
	}
	return encodeMaster(rows, colTechnologyID, colTechnologyCode)
}

func decodeClasses(records [][]string) ([]model.AssetClass, error) {
	rows, err := decodeMaster(TableClasses, records, colClassID, colClassName)
	if err != nil {
		return nil, err
	}
	out := make([]model.AssetClass, len(rows))
	for i, r := range rows {
		out[i] = model.AssetClass{LegacyID: r.id, Name: r.key}
	}
	return out, nil
}

func encodeClasses(classes []model.AssetClass) [][]string {
	rows := make([]masterRow, len(classes))
	for i, c := range classes {
		rows[i] = masterRow{id: c.LegacyID, key: c.Name}
	}
	return encodeMaster(rows, colClassID, colClassName)
}

func decodeComponentTechnology(records [][]string) ([]model.TechnologyAssignment, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", TableComponentTechnology)
	}
	idx := headerIndex(records[0])
	for _, col := range []string{colComponentName, colTechnologyCode, colApplicationType} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", TableComponentTechnology, col)
		}
	}

	out := make([]model.TechnologyAssignment, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, model.TechnologyAssignment{
			ComponentName:   rec[idx[colComponentName]],
			TechnologyCode:  rec[idx[colTechnologyCode]],
			ApplicationType: model.ApplicationType(rec[idx[colApplicationType]]),
		})
	}
	return out, nil
}

func encodeComponentTechnology(assignments []model.TechnologyAssignment) [][]string {
	records := make([][]string, 0, len(assignments)+1)
	records = append(records, []string{colComponentName, colTechnologyCode, colApplicationType})
	for _, a := range assignments {
		records = append(records, []string{a.ComponentName, a.TechnologyCode, string(a.ApplicationType)})
	}
	return records
}

func decodeClassComponent(records [][]string) ([]model.ClassAssignment, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", TableClassComponent)
	}
	idx := headerIndex(records[0])
	for _, col := range []string{colClassName, colComponentName} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", TableClassComponent, col)
		}
	}

	out := make([]model.ClassAssignment, 0, len(records)-1)
	for _, rec := range records[1:] {
		out = append(out, model.ClassAssignment{
			ClassName:     rec[idx[colClassName]],
			ComponentName: rec[idx[colComponentName]],
		})
	}
	return out, nil
}

func encodeClassComponent(assignments []model.ClassAssignment) [][]string {
	records := make([][]string, 0, len(assignments)+1)
	records = append(records, []string{colClassName, colComponentName})
	for _, a := range assignments {
		records = append(records, []string{a.ClassName, a.ComponentName})
	}
	return records
}

func decodeChangeLog(records [][]string) ([]model.Entry, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: missing header row", TableChangeLog)
	}
	idx := headerIndex(records[0])
	for _, col := range changeLogHeader {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", TableChangeLog, col)
		}
	}

	entries := make([]model.Entry, 0, len(records)-1)
	for n, rec := range records[1:] {
		logID, err := strconv.ParseInt(rec[idx["log_id"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad log_id: %w", TableChangeLog, n+1, err)
		}
		ts, err := model.ParseTime(rec[idx["timestamp"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", TableChangeLog, n+1, err)
		}
		reviewedAt, err := model.ParseTime(rec[idx["reviewed_at"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", TableChangeLog, n+1, err)
		}

		entityType := model.EntityType(rec[idx["entity_type"]])
		action := model.Action(rec[idx["action"]])
		payload, err := model.UnmarshalPayload(entityType, action, rec[idx["payload"]])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", TableChangeLog, n+1, err)
		}

		status := model.Status(rec[idx["status"]])
		if !model.ValidStatuses[status] {
			return nil, fmt.Errorf("%s row %d: unknown status %q", TableChangeLog, n+1, status)
		}

		entries = append(entries, model.Entry{
			LogID:       logID,
			Timestamp:   ts,
			EntityType:  entityType,
			Action:      action,
			EntityKey:   rec[idx["entity_key"]],
			Payload:     payload,
			Notes:       rec[idx["notes"]],
			RequestedBy: rec[idx["requested_by"]],
			Status:      status,
			ReviewedBy:  rec[idx["reviewed_by"]],
			ReviewedAt:  reviewedAt,
		})
	}
	return entries, nil
}

func encodeChangeLog(entries []model.Entry) ([][]string, error) {
	records := make([][]string, 0, len(entries)+1)
	records = append(records, changeLogHeader)
	for _, e := range entries {
		payload, err := model.MarshalPayload(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("%s log_id %d: %w", TableChangeLog, e.LogID, err)
		}
		records = append(records, []string{
			strconv.FormatInt(e.LogID, 10),
			model.FormatTime(e.Timestamp),
			string(e.EntityType),
			string(e.Action),
			e.EntityKey,
			payload,
			e.Notes,
			e.RequestedBy,
			string(e.Status),
			e.ReviewedBy,
			model.FormatTime(e.ReviewedAt),
		})
	}
	return records, nil
}
