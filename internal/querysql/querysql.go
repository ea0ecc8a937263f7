// Package querysql offers an ad-hoc, read-only SQL surface over a
// configuration snapshot. The snapshot is loaded into an in-memory
// SQLite database whose tables mirror the CSV relations, so operators
// can answer questions the fixed query set does not cover.
package querysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/condmon/acmcfg/internal/model"
)

const schemaSQL = `
CREATE TABLE components (
    component_name TEXT PRIMARY KEY
);
CREATE TABLE technologies (
    technology_code TEXT PRIMARY KEY
);
CREATE TABLE classes (
    class_name TEXT PRIMARY KEY
);
CREATE TABLE component_technology (
    component_name   TEXT NOT NULL,
    technology_code  TEXT NOT NULL,
    application_type TEXT NOT NULL,
    PRIMARY KEY (component_name, technology_code)
);
CREATE TABLE class_component (
    class_name     TEXT NOT NULL,
    component_name TEXT NOT NULL,
    PRIMARY KEY (class_name, component_name)
);
CREATE TABLE change_log (
    log_id       INTEGER PRIMARY KEY,
    timestamp    TEXT NOT NULL,
    entity_type  TEXT NOT NULL,
    action       TEXT NOT NULL,
    entity_key   TEXT NOT NULL,
    payload      TEXT NOT NULL,
    notes        TEXT NOT NULL,
    requested_by TEXT NOT NULL,
    status       TEXT NOT NULL,
    reviewed_by  TEXT NOT NULL,
    reviewed_at  TEXT NOT NULL
);
`

// Result holds the rows of one query, every value rendered as text.
type Result struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Runner executes read-only queries against one loaded snapshot. It does
// not track later mutations; open a fresh runner for fresh data.
type Runner struct {
	db *sql.DB
}

// Open loads the snapshot into a new in-memory database.
func Open(snap *model.Snapshot) (*Runner, error) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory database: %w", err)
	}
	// The in-memory database vanishes with its last connection, so pin
	// exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	if err := load(db, snap); err != nil {
		db.Close()
		return nil, err
	}
	return &Runner{db: db}, nil
}

// Close releases the in-memory database.
func (r *Runner) Close() error { return r.db.Close() }

// Query runs a single SELECT statement. Anything that is not a plain
// SELECT (or a WITH leading into one) is rejected before touching the
// database.
func (r *Runner) Query(ctx context.Context, query string) (*Result, error) {
	if err := checkReadOnly(query); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &Result{Columns: columns, Rows: [][]string{}}
	for rows.Next() {
		values := make([]any, len(columns))
		for i := range values {
			values[i] = new(sql.NullString)
		}
		if err := rows.Scan(values...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make([]string, len(columns))
		for i, v := range values {
			ns := v.(*sql.NullString)
			if ns.Valid {
				row[i] = ns.String
			}
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return result, nil
}

// checkReadOnly admits only SELECT and WITH statements, one per query.
func checkReadOnly(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return model.NewInvalidArgument("empty query")
	}
	if i := strings.Index(trimmed, ";"); i >= 0 && strings.TrimSpace(trimmed[i+1:]) != "" {
		return model.NewInvalidArgument("only a single statement is allowed")
	}
	first := strings.ToUpper(strings.Fields(trimmed)[0])
	if first != "SELECT" && first != "WITH" {
		return model.NewInvalidArgument("only SELECT queries are allowed, got %s", first)
	}
	return nil
}

func load(db *sql.DB, snap *model.Snapshot) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin load: %w", err)
	}
	defer tx.Rollback()

	for _, c := range snap.Components {
		if _, err := tx.Exec(`INSERT INTO components (component_name) VALUES (?)`, c.Name); err != nil {
			return fmt.Errorf("load components: %w", err)
		}
	}
	for _, t := range snap.Technologies {
		if _, err := tx.Exec(`INSERT INTO technologies (technology_code) VALUES (?)`, t.Code); err != nil {
			return fmt.Errorf("load technologies: %w", err)
		}
	}
	for _, c := range snap.Classes {
		if _, err := tx.Exec(`INSERT INTO classes (class_name) VALUES (?)`, c.Name); err != nil {
			return fmt.Errorf("load classes: %w", err)
		}
	}
	for _, a := range snap.ComponentTechnology {
		if _, err := tx.Exec(
			`INSERT INTO component_technology (component_name, technology_code, application_type) VALUES (?, ?, ?)`,
			a.ComponentName, a.TechnologyCode, string(a.ApplicationType)); err != nil {
			return fmt.Errorf("load component_technology: %w", err)
		}
	}
	for _, a := range snap.ClassComponent {
		if _, err := tx.Exec(
			`INSERT INTO class_component (class_name, component_name) VALUES (?, ?)`,
			a.ClassName, a.ComponentName); err != nil {
			return fmt.Errorf("load class_component: %w", err)
		}
	}
	for _, e := range snap.ChangeLog {
		payload, err := model.MarshalPayload(e.Payload)
		if err != nil {
			return fmt.Errorf("load change_log entry %d: %w", e.LogID, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO change_log (log_id, timestamp, entity_type, action, entity_key, payload, notes, requested_by, status, reviewed_by, reviewed_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.LogID, model.FormatTime(e.Timestamp), string(e.EntityType), string(e.Action),
			e.EntityKey, payload, e.Notes, e.RequestedBy, string(e.Status),
			e.ReviewedBy, model.FormatTime(e.ReviewedAt)); err != nil {
			return fmt.Errorf("load change_log: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit load: %w", err)
	}
	return nil
}
