// Package schema validates the structural shape of a configuration
// snapshot against an embedded CUE schema: non-empty keys, the closed
// Primary/Secondary vocabulary, positive log ids, and the entity-type,
// action, and status enums. It complements the validate package, which
// checks referential integrity across tables.
package schema

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/condmon/acmcfg/internal/model"
)

//go:embed schema.cue
var schemaSource string

// Violation is one schema constraint failure, with the CUE path of the
// offending value.
type Violation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

var (
	schemaOnce  sync.Once
	schemaValue cue.Value
)

// snapshotDef compiles the embedded schema once and returns the
// #Snapshot definition.
func snapshotDef() cue.Value {
	schemaOnce.Do(func() {
		ctx := cuecontext.New()
		schemaValue = ctx.CompileString(schemaSource).LookupPath(cue.ParsePath("#Snapshot"))
	})
	return schemaValue
}

// assignmentData mirrors the component_technology row shape the schema
// expects.
type assignmentData struct {
	ComponentName   string `json:"component_name"`
	TechnologyCode  string `json:"technology_code"`
	ApplicationType string `json:"application_type"`
}

type rosterData struct {
	ClassName     string `json:"class_name"`
	ComponentName string `json:"component_name"`
}

type entryData struct {
	LogID      int64  `json:"log_id"`
	EntityType string `json:"entity_type"`
	Action     string `json:"action"`
	EntityKey  string `json:"entity_key"`
	Status     string `json:"status"`
}

type snapshotData struct {
	Components          []string         `json:"components"`
	Technologies        []string         `json:"technologies"`
	Classes             []string         `json:"classes"`
	ComponentTechnology []assignmentData `json:"component_technology"`
	ClassComponent      []rosterData     `json:"class_component"`
	ChangeLog           []entryData      `json:"change_log"`
}

func encodeSnapshot(snap *model.Snapshot) snapshotData {
	data := snapshotData{
		Components:          []string{},
		Technologies:        []string{},
		Classes:             []string{},
		ComponentTechnology: []assignmentData{},
		ClassComponent:      []rosterData{},
		ChangeLog:           []entryData{},
	}
	for _, c := range snap.Components {
		data.Components = append(data.Components, c.Name)
	}
	for _, t := range snap.Technologies {
		data.Technologies = append(data.Technologies, t.Code)
	}
	for _, c := range snap.Classes {
		data.Classes = append(data.Classes, c.Name)
	}
	for _, a := range snap.ComponentTechnology {
		data.ComponentTechnology = append(data.ComponentTechnology, assignmentData{
			ComponentName:   a.ComponentName,
			TechnologyCode:  a.TechnologyCode,
			ApplicationType: string(a.ApplicationType),
		})
	}
	for _, a := range snap.ClassComponent {
		data.ClassComponent = append(data.ClassComponent, rosterData{
			ClassName:     a.ClassName,
			ComponentName: a.ComponentName,
		})
	}
	for _, e := range snap.ChangeLog {
		data.ChangeLog = append(data.ChangeLog, entryData{
			LogID:      e.LogID,
			EntityType: string(e.EntityType),
			Action:     string(e.Action),
			EntityKey:  e.EntityKey,
			Status:     string(e.Status),
		})
	}
	return data
}

// Check unifies the snapshot with the schema and returns every
// constraint violation found. An empty result means the snapshot is
// structurally sound.
func Check(snap *model.Snapshot) []Violation {
	def := snapshotDef()
	if err := def.Err(); err != nil {
		return toViolations(err)
	}

	ctx := def.Context()
	unified := def.Unify(ctx.Encode(encodeSnapshot(snap)))
	if err := unified.Err(); err != nil {
		return toViolations(err)
	}
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return toViolations(err)
	}
	return nil
}

func toViolations(err error) []Violation {
	var out []Violation
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, Violation{
			Path:    strings.Join(cueerrors.Path(e), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	return out
}
