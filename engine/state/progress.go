package state

import (
	"maps"

	"github.com/nathoo/casefile/types"
)

// Entry is the dynamic progress of one case.
type Entry struct {
	Status     types.CaseStatus
	Objectives map[string]types.ObjectiveStatus
	Flags      map[string]bool
}

// CanAdvanceCase reports whether a case may move from one status to another.
// Transitions only move forward and never leave a terminal status.
func CanAdvanceCase(from, to types.CaseStatus) bool {
	return to.Valid() && !from.Terminal() && to.Rank() > from.Rank()
}

// CanAdvanceObjective reports whether an objective may move between statuses.
func CanAdvanceObjective(from, to types.ObjectiveStatus) bool {
	return to.Valid() && !from.Terminal() && to.Rank() > from.Rank()
}

// SetStatus advances the overall status. It returns the previous status and
// whether anything changed; regressions and same-status writes are no-ops.
func (e *Entry) SetStatus(to types.CaseStatus) (types.CaseStatus, bool) {
	from := e.Status
	if !CanAdvanceCase(from, to) {
		return from, false
	}
	e.Status = to
	return from, true
}

// SetObjective advances an objective. Unknown objective ids are no-ops.
func (e *Entry) SetObjective(id string, to types.ObjectiveStatus) (types.ObjectiveStatus, bool) {
	from, ok := e.Objectives[id]
	if !ok || !CanAdvanceObjective(from, to) {
		return from, false
	}
	e.Objectives[id] = to
	return from, true
}

// SetFlag stores a case-local flag and reports whether it changed.
func (e *Entry) SetFlag(name string, value bool) bool {
	old := e.Flags[name]
	e.Flags[name] = value
	return old != value
}

// Progress is the progress table: one entry per case, created lazily the
// first time the case is referenced and never deleted.
type Progress struct {
	entries map[string]*Entry
}

// NewProgress creates an empty progress table.
func NewProgress() *Progress {
	return &Progress{entries: map[string]*Entry{}}
}

// Entry returns the entry for def, creating it with every objective
// Inactive and the case Unavailable.
func (p *Progress) Entry(def *types.CaseDef) *Entry {
	if e, ok := p.entries[def.ID]; ok {
		return e
	}
	e := &Entry{
		Status:     types.CaseUnavailable,
		Objectives: make(map[string]types.ObjectiveStatus, len(def.Objectives)),
		Flags:      map[string]bool{},
	}
	for _, o := range def.Objectives {
		e.Objectives[o.ID] = types.ObjectiveInactive
	}
	p.entries[def.ID] = e
	return e
}

// Lookup returns the entry for a case without creating it.
func (p *Progress) Lookup(caseID string) (*Entry, bool) {
	e, ok := p.entries[caseID]
	return e, ok
}

// CaseStatus returns a case's overall status; unknown cases are Unavailable.
func (p *Progress) CaseStatus(caseID string) types.CaseStatus {
	if e, ok := p.entries[caseID]; ok {
		return e.Status
	}
	return types.CaseUnavailable
}

// ObjectiveStatus returns an objective's status; unknown ones are Inactive.
func (p *Progress) ObjectiveStatus(caseID, objectiveID string) types.ObjectiveStatus {
	if e, ok := p.entries[caseID]; ok {
		return e.Objectives[objectiveID]
	}
	return types.ObjectiveInactive
}

// CaseFlag returns a case-local flag; unknown ones are false.
func (p *Progress) CaseFlag(caseID, name string) bool {
	if e, ok := p.entries[caseID]; ok {
		return e.Flags[name]
	}
	return false
}

// Snapshot returns a deep copy of a case's entry.
func (p *Progress) Snapshot(caseID string) (Entry, bool) {
	e, ok := p.entries[caseID]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Status:     e.Status,
		Objectives: maps.Clone(e.Objectives),
		Flags:      maps.Clone(e.Flags),
	}, true
}
