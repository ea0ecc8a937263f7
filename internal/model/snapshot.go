package model

import "sort"

// Snapshot is one in-memory image of the five relations plus the change
// log, as loaded from durable storage. The table store owns the canonical
// snapshot; everything else treats a snapshot as read-only input.
type Snapshot struct {
	Components          []Component
	Technologies        []Technology
	Classes             []AssetClass
	ComponentTechnology []TechnologyAssignment
	ClassComponent      []ClassAssignment
	ChangeLog           []Entry
}

// HasComponent reports whether a component with the given name exists.
func (s *Snapshot) HasComponent(name string) bool {
	for _, c := range s.Components {
		if c.Name == name {
			return true
		}
	}
	return false
}

// HasTechnology reports whether a technology code exists.
func (s *Snapshot) HasTechnology(code string) bool {
	for _, t := range s.Technologies {
		if t.Code == code {
			return true
		}
	}
	return false
}

// HasClass reports whether an asset class with the given name exists.
func (s *Snapshot) HasClass(name string) bool {
	for _, c := range s.Classes {
		if c.Name == name {
			return true
		}
	}
	return false
}

// FindAssignment returns the technology assignment for the pair, or nil.
func (s *Snapshot) FindAssignment(component, tech string) *TechnologyAssignment {
	for i := range s.ComponentTechnology {
		a := &s.ComponentTechnology[i]
		if a.ComponentName == component && a.TechnologyCode == tech {
			return a
		}
	}
	return nil
}

// HasClassAssignment reports whether the class↔component pair exists.
func (s *Snapshot) HasClassAssignment(class, component string) bool {
	for _, a := range s.ClassComponent {
		if a.ClassName == class && a.ComponentName == component {
			return true
		}
	}
	return false
}

// ComponentNames returns all component names, sorted.
func (s *Snapshot) ComponentNames() []string {
	names := make([]string, 0, len(s.Components))
	for _, c := range s.Components {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// TechnologyCodes returns all technology codes, sorted.
func (s *Snapshot) TechnologyCodes() []string {
	codes := make([]string, 0, len(s.Technologies))
	for _, t := range s.Technologies {
		codes = append(codes, t.Code)
	}
	sort.Strings(codes)
	return codes
}

// ClassNames returns all asset class names, sorted.
func (s *Snapshot) ClassNames() []string {
	names := make([]string, 0, len(s.Classes))
	for _, c := range s.Classes {
		names = append(names, c.Name)
	}
	sort.Strings(names)
	return names
}

// FindEntry returns the change-log entry with the given id, or nil.
func (s *Snapshot) FindEntry(logID int64) *Entry {
	for i := range s.ChangeLog {
		if s.ChangeLog[i].LogID == logID {
			return &s.ChangeLog[i]
		}
	}
	return nil
}

// PendingEntries returns all pending change-log entries in log order.
func (s *Snapshot) PendingEntries() []Entry {
	var pending []Entry
	for _, e := range s.ChangeLog {
		if e.Status == StatusPending {
			pending = append(pending, e)
		}
	}
	return pending
}
