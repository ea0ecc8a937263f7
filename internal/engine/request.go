package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/query"
)

// requireJustification enforces the shared preconditions of all removal
// requests: a justification and a named requester.
func requireJustification(notes, requestedBy string) error {
	if model.NormalizeKey(notes) == "" {
		return model.NewInvalidArgument("removal requests require a justification in notes")
	}
	if model.NormalizeKey(requestedBy) == "" {
		return model.NewInvalidArgument("removal requests require a named requester")
	}
	return nil
}

// RequestRemoveComponent records a pending request to delete a component
// and everything that references it. The impact assessment (classes and
// technology assignments that would go with it) is captured in the entry
// payload at request time. Returns the log id of the pending entry.
func (e *Engine) RequestRemoveComponent(component, notes, requestedBy string) (int64, error) {
	component = model.NormalizeKey(component)
	if err := requireJustification(notes, requestedBy); err != nil {
		return 0, err
	}
	if err := e.store.Reload(); err != nil {
		return 0, err
	}

	snap := e.store.Snapshot()
	if !snap.HasComponent(component) {
		return 0, model.NewNotFound("component", component)
	}

	classes, err := query.ClassesOf(snap, component)
	if err != nil {
		return 0, err
	}
	techs, err := query.TechnologiesOf(snap, component)
	if err != nil {
		return 0, err
	}
	impact := model.RemovalImpact{AssignedToClasses: classes}
	for _, tr := range techs {
		impact.TechnologyAssignments = append(impact.TechnologyAssignments, model.TechnologyAssignmentRef{
			TechnologyCode:  tr.TechnologyCode,
			ApplicationType: tr.ApplicationType,
		})
	}

	id, err := e.appendEntry(model.Entry{
		EntityType: model.EntityComponent,
		Action:     model.ActionRemoveRequest,
		EntityKey:  component,
		Payload: &model.ComponentRemoval{
			ComponentName: component,
			Impact:        impact,
		},
		Notes:       notes,
		RequestedBy: requestedBy,
		Status:      model.StatusPending,
	})
	if err != nil {
		return 0, err
	}
	e.logger.Info("component removal requested",
		zap.Int64("log_id", id),
		zap.String("component", component),
		zap.String("requested_by", requestedBy))
	return id, nil
}

// RequestRemoveTechnology records a pending request to unassign a single
// technology from a component. Fails NotFound when the assignment does
// not exist. Returns the log id of the pending entry.
func (e *Engine) RequestRemoveTechnology(component, techCode, notes, requestedBy string) (int64, error) {
	component = model.NormalizeKey(component)
	techCode = model.NormalizeKey(techCode)
	if err := requireJustification(notes, requestedBy); err != nil {
		return 0, err
	}
	if err := e.store.Reload(); err != nil {
		return 0, err
	}

	snap := e.store.Snapshot()
	assignment := snap.FindAssignment(component, techCode)
	if assignment == nil {
		return 0, model.NewNotFound("assignment", fmt.Sprintf("%s → %s", component, techCode))
	}

	id, err := e.appendEntry(model.Entry{
		EntityType: model.EntityComponentTechnology,
		Action:     model.ActionRemoveRequest,
		EntityKey:  fmt.Sprintf("%s → %s", component, techCode),
		Payload: &model.TechnologyRemoval{
			ComponentName:   component,
			TechnologyCode:  techCode,
			ApplicationType: assignment.ApplicationType,
		},
		Notes:       notes,
		RequestedBy: requestedBy,
		Status:      model.StatusPending,
	})
	if err != nil {
		return 0, err
	}
	e.logger.Info("technology removal requested",
		zap.Int64("log_id", id),
		zap.String("component", component),
		zap.String("technology", techCode),
		zap.String("requested_by", requestedBy))
	return id, nil
}

// RequestRemoveFromClass records a pending request to drop a component
// from a class roster. Fails NotFound when the pair is not on the roster.
// Returns the log id of the pending entry.
func (e *Engine) RequestRemoveFromClass(class, component, notes, requestedBy string) (int64, error) {
	class = model.NormalizeKey(class)
	component = model.NormalizeKey(component)
	if err := requireJustification(notes, requestedBy); err != nil {
		return 0, err
	}
	if err := e.store.Reload(); err != nil {
		return 0, err
	}

	snap := e.store.Snapshot()
	if !snap.HasClassAssignment(class, component) {
		return 0, model.NewNotFound("class assignment", fmt.Sprintf("%s ← %s", class, component))
	}

	id, err := e.appendEntry(model.Entry{
		EntityType: model.EntityClassComponent,
		Action:     model.ActionRemoveRequest,
		EntityKey:  fmt.Sprintf("%s ← %s", class, component),
		Payload: &model.ClassAssignmentRemoval{
			ClassName:     class,
			ComponentName: component,
		},
		Notes:       notes,
		RequestedBy: requestedBy,
		Status:      model.StatusPending,
	})
	if err != nil {
		return 0, err
	}
	e.logger.Info("class assignment removal requested",
		zap.Int64("log_id", id),
		zap.String("class", class),
		zap.String("component", component),
		zap.String("requested_by", requestedBy))
	return id, nil
}
