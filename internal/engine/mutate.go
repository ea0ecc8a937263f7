package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/tables"
)

// AddComponent adds a component to the master list. Returns true if a row
// was inserted, false if the name already exists (a no-op, not an error).
func (e *Engine) AddComponent(name, requestedBy string) (bool, error) {
	name = model.NormalizeKey(name)
	if name == "" {
		return false, model.NewInvalidArgument("component name is required")
	}
	if err := e.store.Reload(); err != nil {
		return false, err
	}

	snap := e.store.Snapshot()
	if snap.HasComponent(name) {
		return false, nil
	}

	ids := make([]string, len(snap.Components))
	for i, c := range snap.Components {
		ids[i] = c.LegacyID
	}
	snap.Components = append(snap.Components, model.Component{
		LegacyID: model.NextLegacyID(ids),
		Name:     name,
	})
	if err := e.store.Persist(tables.TableComponents); err != nil {
		return false, err
	}

	if _, err := e.appendEntry(model.Entry{
		EntityType:  model.EntityComponent,
		Action:      model.ActionAdd,
		EntityKey:   name,
		Payload:     &model.ComponentAdd{ComponentName: name},
		RequestedBy: actorOrSystem(requestedBy),
		Status:      model.StatusApplied,
	}); err != nil {
		return false, err
	}
	e.logger.Info("component added", zap.String("component", name))
	return true, nil
}

// AddClass adds an asset class to the master list. Returns true if a row
// was inserted, false if the name already exists.
func (e *Engine) AddClass(name, requestedBy string) (bool, error) {
	name = model.NormalizeKey(name)
	if name == "" {
		return false, model.NewInvalidArgument("class name is required")
	}
	if err := e.store.Reload(); err != nil {
		return false, err
	}

	snap := e.store.Snapshot()
	if snap.HasClass(name) {
		return false, nil
	}

	ids := make([]string, len(snap.Classes))
	for i, c := range snap.Classes {
		ids[i] = c.LegacyID
	}
	snap.Classes = append(snap.Classes, model.AssetClass{
		LegacyID: model.NextLegacyID(ids),
		Name:     name,
	})
	if err := e.store.Persist(tables.TableClasses); err != nil {
		return false, err
	}

	if _, err := e.appendEntry(model.Entry{
		EntityType:  model.EntityClass,
		Action:      model.ActionAdd,
		EntityKey:   name,
		Payload:     &model.ClassAdd{ClassName: name},
		RequestedBy: actorOrSystem(requestedBy),
		Status:      model.StatusApplied,
	}); err != nil {
		return false, err
	}
	e.logger.Info("class added", zap.String("class", name))
	return true, nil
}

// AssignTechnology assigns a technology to a component at the given
// priority. Fails NotFound if the component or technology code does not
// exist and InvalidArgument for an unknown application type. Returns
// false without error if the pair is already assigned.
func (e *Engine) AssignTechnology(component, techCode string, applicationType model.ApplicationType, requestedBy string) (bool, error) {
	component = model.NormalizeKey(component)
	techCode = model.NormalizeKey(techCode)
	if !model.ValidApplicationTypes[applicationType] {
		return false, model.NewInvalidArgument("application_type must be Primary or Secondary, got %q", applicationType)
	}
	if err := e.store.Reload(); err != nil {
		return false, err
	}

	snap := e.store.Snapshot()
	if !snap.HasComponent(component) {
		return false, model.NewNotFound("component", component)
	}
	if !snap.HasTechnology(techCode) {
		return false, model.NewNotFound("technology", techCode)
	}
	if snap.FindAssignment(component, techCode) != nil {
		return false, nil
	}

	snap.ComponentTechnology = append(snap.ComponentTechnology, model.TechnologyAssignment{
		ComponentName:   component,
		TechnologyCode:  techCode,
		ApplicationType: applicationType,
	})
	if err := e.store.Persist(tables.TableComponentTechnology); err != nil {
		return false, err
	}

	if _, err := e.appendEntry(model.Entry{
		EntityType: model.EntityComponentTechnology,
		Action:     model.ActionAdd,
		EntityKey:  fmt.Sprintf("%s → %s", component, techCode),
		Payload: &model.TechnologyAssign{
			ComponentName:   component,
			TechnologyCode:  techCode,
			ApplicationType: applicationType,
		},
		RequestedBy: actorOrSystem(requestedBy),
		Status:      model.StatusApplied,
	}); err != nil {
		return false, err
	}
	e.logger.Info("technology assigned",
		zap.String("component", component),
		zap.String("technology", techCode),
		zap.String("application_type", string(applicationType)))
	return true, nil
}

// UpdateApplicationType changes the priority of an existing assignment in
// place. Fails NotFound if the assignment does not exist. Returns false
// without error if the new type equals the current value.
func (e *Engine) UpdateApplicationType(component, techCode string, newType model.ApplicationType, requestedBy string) (bool, error) {
	component = model.NormalizeKey(component)
	techCode = model.NormalizeKey(techCode)
	if !model.ValidApplicationTypes[newType] {
		return false, model.NewInvalidArgument("application_type must be Primary or Secondary, got %q", newType)
	}
	if err := e.store.Reload(); err != nil {
		return false, err
	}

	snap := e.store.Snapshot()
	if !snap.HasComponent(component) {
		return false, model.NewNotFound("component", component)
	}
	if !snap.HasTechnology(techCode) {
		return false, model.NewNotFound("technology", techCode)
	}
	assignment := snap.FindAssignment(component, techCode)
	if assignment == nil {
		return false, model.NewNotFound("assignment", fmt.Sprintf("%s → %s", component, techCode))
	}
	if assignment.ApplicationType == newType {
		return false, nil
	}

	oldType := assignment.ApplicationType
	assignment.ApplicationType = newType
	if err := e.store.Persist(tables.TableComponentTechnology); err != nil {
		return false, err
	}

	if _, err := e.appendEntry(model.Entry{
		EntityType: model.EntityComponentTechnology,
		Action:     model.ActionUpdate,
		EntityKey:  fmt.Sprintf("%s → %s", component, techCode),
		Payload: &model.ApplicationTypeUpdate{
			ComponentName:      component,
			TechnologyCode:     techCode,
			OldApplicationType: oldType,
			NewApplicationType: newType,
		},
		RequestedBy: actorOrSystem(requestedBy),
		Status:      model.StatusApplied,
	}); err != nil {
		return false, err
	}
	e.logger.Info("application type updated",
		zap.String("component", component),
		zap.String("technology", techCode),
		zap.String("old", string(oldType)),
		zap.String("new", string(newType)))
	return true, nil
}

// AssignComponentToClass records that a component type occurs in an asset
// class. Fails NotFound on either missing key. Returns false without
// error if the pair already exists.
func (e *Engine) AssignComponentToClass(class, component, requestedBy string) (bool, error) {
	class = model.NormalizeKey(class)
	component = model.NormalizeKey(component)
	if err := e.store.Reload(); err != nil {
		return false, err
	}

	snap := e.store.Snapshot()
	if !snap.HasClass(class) {
		return false, model.NewNotFound("class", class)
	}
	if !snap.HasComponent(component) {
		return false, model.NewNotFound("component", component)
	}
	if snap.HasClassAssignment(class, component) {
		return false, nil
	}

	snap.ClassComponent = append(snap.ClassComponent, model.ClassAssignment{
		ClassName:     class,
		ComponentName: component,
	})
	if err := e.store.Persist(tables.TableClassComponent); err != nil {
		return false, err
	}

	if _, err := e.appendEntry(model.Entry{
		EntityType: model.EntityClassComponent,
		Action:     model.ActionAdd,
		EntityKey:  fmt.Sprintf("%s ← %s", class, component),
		Payload: &model.ClassAssign{
			ClassName:     class,
			ComponentName: component,
		},
		RequestedBy: actorOrSystem(requestedBy),
		Status:      model.StatusApplied,
	}); err != nil {
		return false, err
	}
	e.logger.Info("component assigned to class",
		zap.String("class", class),
		zap.String("component", component))
	return true, nil
}
