package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/condmon/acmcfg/internal/model"
	"github.com/condmon/acmcfg/internal/tables"
)

// PendingRequests returns the pending change-log entries in log order,
// from a fresh load.
func (e *Engine) PendingRequests() ([]model.Entry, error) {
	if err := e.store.Reload(); err != nil {
		return nil, err
	}
	return e.store.Snapshot().PendingEntries(), nil
}

// Approve executes a pending removal request: the deletions the entry's
// payload describes are applied to the master tables, then the entry is
// marked approved. Fails NotFound for an unknown log id and InvalidState
// when the entry is not pending or is not a removal request.
//
// The log-status write goes last. If a table write fails after earlier
// ones committed, Approve returns a CascadeError and leaves the entry
// pending so the inconsistency stays visible.
func (e *Engine) Approve(logID int64, reviewedBy string) error {
	reviewedBy = model.NormalizeKey(reviewedBy)
	if reviewedBy == "" {
		return model.NewInvalidArgument("approval requires a named reviewer")
	}
	if err := e.store.Reload(); err != nil {
		return err
	}

	snap := e.store.Snapshot()
	entry := snap.FindEntry(logID)
	if entry == nil {
		return model.NewNotFound("change-log entry", fmt.Sprintf("%d", logID))
	}
	if entry.Status != model.StatusPending {
		return model.NewInvalidState("log entry %d is %s, only pending entries can be reviewed", logID, entry.Status)
	}
	if entry.Action != model.ActionRemoveRequest {
		return model.NewInvalidState("log entry %d is a %s, only removal requests require approval", logID, entry.Action)
	}

	var writes []string
	switch p := entry.Payload.(type) {
	case *model.ComponentRemoval:
		removeComponent(snap, p.ComponentName)
		writes = []string{tables.TableComponents, tables.TableComponentTechnology, tables.TableClassComponent}
	case *model.TechnologyRemoval:
		removeTechnologyAssignment(snap, p.ComponentName, p.TechnologyCode)
		writes = []string{tables.TableComponentTechnology}
	case *model.ClassAssignmentRemoval:
		removeClassAssignment(snap, p.ClassName, p.ComponentName)
		writes = []string{tables.TableClassComponent}
	default:
		return model.NewInvalidState("log entry %d carries no executable removal payload", logID)
	}

	var committed []string
	for _, table := range writes {
		if err := e.store.Persist(table); err != nil {
			return &CascadeError{LogID: logID, Committed: committed, Failed: table, Err: err}
		}
		committed = append(committed, table)
	}

	if err := e.transitionEntry(entry, model.StatusApproved, reviewedBy); err != nil {
		return &CascadeError{LogID: logID, Committed: committed, Failed: tables.TableChangeLog, Err: err}
	}
	e.logger.Info("removal approved",
		zap.Int64("log_id", logID),
		zap.String("entity_key", entry.EntityKey),
		zap.String("reviewed_by", reviewedBy))
	return nil
}

// Reject marks a pending entry rejected without touching any master
// table. Unlike Approve it accepts any pending entry regardless of
// action.
func (e *Engine) Reject(logID int64, reviewedBy string) error {
	reviewedBy = model.NormalizeKey(reviewedBy)
	if reviewedBy == "" {
		return model.NewInvalidArgument("rejection requires a named reviewer")
	}
	if err := e.store.Reload(); err != nil {
		return err
	}

	snap := e.store.Snapshot()
	entry := snap.FindEntry(logID)
	if entry == nil {
		return model.NewNotFound("change-log entry", fmt.Sprintf("%d", logID))
	}
	if entry.Status != model.StatusPending {
		return model.NewInvalidState("log entry %d is %s, only pending entries can be reviewed", logID, entry.Status)
	}

	if err := e.transitionEntry(entry, model.StatusRejected, reviewedBy); err != nil {
		return err
	}
	e.logger.Info("removal rejected",
		zap.Int64("log_id", logID),
		zap.String("entity_key", entry.EntityKey),
		zap.String("reviewed_by", reviewedBy))
	return nil
}

// removeComponent deletes a component and every row referencing it.
func removeComponent(snap *model.Snapshot, name string) {
	kept := snap.Components[:0]
	for _, c := range snap.Components {
		if c.Name != name {
			kept = append(kept, c)
		}
	}
	snap.Components = kept

	keptCT := snap.ComponentTechnology[:0]
	for _, a := range snap.ComponentTechnology {
		if a.ComponentName != name {
			keptCT = append(keptCT, a)
		}
	}
	snap.ComponentTechnology = keptCT

	keptCC := snap.ClassComponent[:0]
	for _, a := range snap.ClassComponent {
		if a.ComponentName != name {
			keptCC = append(keptCC, a)
		}
	}
	snap.ClassComponent = keptCC
}

// removeTechnologyAssignment deletes one component↔technology row.
func removeTechnologyAssignment(snap *model.Snapshot, component, tech string) {
	kept := snap.ComponentTechnology[:0]
	for _, a := range snap.ComponentTechnology {
		if a.ComponentName != component || a.TechnologyCode != tech {
			kept = append(kept, a)
		}
	}
	snap.ComponentTechnology = kept
}

// removeClassAssignment deletes one class↔component row.
func removeClassAssignment(snap *model.Snapshot, class, component string) {
	kept := snap.ClassComponent[:0]
	for _, a := range snap.ClassComponent {
		if a.ClassName != class || a.ComponentName != component {
			kept = append(kept, a)
		}
	}
	snap.ClassComponent = kept
}
