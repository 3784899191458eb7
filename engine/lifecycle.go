package engine

import (
	"github.com/nathoo/casefile/engine/effects"
	"github.com/nathoo/casefile/engine/rules"
	"github.com/nathoo/casefile/engine/state"
	"github.com/nathoo/casefile/types"
)

// view is the condition evaluator's window onto the engine's state.
type view struct {
	*state.Facts
	*state.Progress
	reg state.Registry
}

var (
	_ rules.View    = view{}
	_ rules.Catalog = view{}
)

func (v view) HasCase(caseID string) bool {
	_, ok := v.reg.Case(caseID)
	return ok
}

func (v view) HasObjective(caseID, objectiveID string) bool {
	def, ok := v.reg.Case(caseID)
	if !ok {
		return false
	}
	_, ok = def.Objective(objectiveID)
	return ok
}

func (e *Engine) met(conds []types.Condition, ctx rules.Context) bool {
	return rules.AreMet(conds, view{e.facts, e.progress, e.reg}, ctx, e.logger)
}

// advance applies one pass of the case state machine to def and reports
// whether anything changed. A case makes at most one overall transition per
// pass.
func (e *Engine) advance(def *types.CaseDef) bool {
	entry := e.progress.Entry(def)
	ctx := rules.Context{CaseID: def.ID}

	switch entry.Status {
	case types.CaseUnavailable:
		if e.met(def.MakeAvailable, ctx) {
			return e.setCase(def, entry, types.CaseInactive)
		}

	case types.CaseInactive:
		if e.met(def.Start, ctx) {
			e.start(def, entry)
			return true
		}

	case types.CaseInProgress:
		changed := false
		for _, obj := range def.Objectives {
			if e.advanceObjective(def, entry, obj) {
				changed = true
			}
		}
		if e.resolveOutcome(def, entry) {
			changed = true
		}
		return changed
	}

	return false
}

// start moves a case to InProgress and activates every objective whose
// activation conditions already hold. Objective events precede the case
// event.
func (e *Engine) start(def *types.CaseDef, entry *state.Entry) {
	from, changed := entry.SetStatus(types.CaseInProgress)
	if !changed {
		return
	}
	for _, obj := range def.Objectives {
		if e.met(obj.Activate, rules.Context{CaseID: def.ID, ObjectiveID: obj.ID}) {
			e.setObjective(def, entry, obj, types.ObjectiveActive)
		}
	}
	e.emitCase(def.ID, from, types.CaseInProgress)
}

// advanceObjective runs the activate and complete edges of one objective.
func (e *Engine) advanceObjective(def *types.CaseDef, entry *state.Entry, obj types.ObjectiveDef) bool {
	ctx := rules.Context{CaseID: def.ID, ObjectiveID: obj.ID}
	changed := false

	if entry.Objectives[obj.ID] == types.ObjectiveInactive && e.met(obj.Activate, ctx) {
		changed = e.setObjective(def, entry, obj, types.ObjectiveActive)
	}
	if entry.Objectives[obj.ID] == types.ObjectiveActive && e.met(obj.Complete, ctx) {
		if e.setObjective(def, entry, obj, types.ObjectiveCompleted) {
			changed = true
		}
	}
	return changed
}

// resolveOutcome checks failure before success. Success needs the success
// list to hold and every required objective to be Completed.
func (e *Engine) resolveOutcome(def *types.CaseDef, entry *state.Entry) bool {
	ctx := rules.Context{CaseID: def.ID}

	if rules.AnyDefined(def.Failure) && e.met(def.Failure, ctx) {
		return e.finish(def, entry, types.CaseFailed)
	}
	if e.met(def.Success, ctx) && requiredComplete(def, entry) {
		return e.finish(def, entry, types.CaseSuccessful)
	}
	return false
}

func requiredComplete(def *types.CaseDef, entry *state.Entry) bool {
	for _, obj := range def.Objectives {
		if !obj.Optional && entry.Objectives[obj.ID] != types.ObjectiveCompleted {
			return false
		}
	}
	return true
}

// finish moves a case to a terminal status and dispatches its reward set.
func (e *Engine) finish(def *types.CaseDef, entry *state.Entry, to types.CaseStatus) bool {
	if !e.setCase(def, entry, to) {
		return false
	}
	rs := def.OnSuccess
	if to == types.CaseFailed {
		rs = def.OnFailure
	}
	e.reward(rs, effects.Source{CaseID: def.ID})
	return true
}

func (e *Engine) setCase(def *types.CaseDef, entry *state.Entry, to types.CaseStatus) bool {
	from, changed := entry.SetStatus(to)
	if changed {
		e.emitCase(def.ID, from, to)
	}
	return changed
}

// setObjective advances an objective. An optional objective reaching
// Completed dispatches its reward on that edge only.
func (e *Engine) setObjective(def *types.CaseDef, entry *state.Entry, obj types.ObjectiveDef, to types.ObjectiveStatus) bool {
	from, changed := entry.SetObjective(obj.ID, to)
	if !changed {
		return false
	}
	e.logger.Info("objective status changed",
		"case", def.ID, "objective", obj.ID, "from", from.String(), "to", to.String(), "pass", e.pass)
	e.out.events = append(e.out.events, types.Event{
		Type:         types.EventObjectiveStatusChanged,
		CaseID:       def.ID,
		ObjectiveID:  obj.ID,
		OldObjective: from,
		NewObjective: to,
		Pass:         e.pass,
	})

	if to == types.ObjectiveCompleted && obj.Optional {
		if rs, ok := def.ObjectiveRewards[obj.ID]; ok {
			e.reward(rs, effects.Source{CaseID: def.ID, ObjectiveID: obj.ID})
		}
	}
	return true
}

func (e *Engine) emitCase(caseID string, from, to types.CaseStatus) {
	e.logger.Info("case status changed",
		"case", caseID, "from", from.String(), "to", to.String(), "pass", e.pass)
	e.out.events = append(e.out.events, types.Event{
		Type:    types.EventCaseStatusChanged,
		CaseID:  caseID,
		OldCase: from,
		NewCase: to,
		Pass:    e.pass,
	})
}

func (e *Engine) reward(rs types.RewardSet, src effects.Source) {
	grants := effects.Apply(rs, src, rewardFlags{e})
	e.out.grants = append(e.out.grants, grants...)
}

// rewardFlags writes reward flags straight into the fact store. A change
// marks the loop dirty instead of starting a nested evaluation.
type rewardFlags struct{ e *Engine }

func (r rewardFlags) SetRewardFlag(id string) {
	if r.e.facts.SetFlag(id, true) {
		r.e.dirty = true
	}
}
