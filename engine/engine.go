// Package engine owns the fact store and progress table and drives every
// case through its lifecycle. Each public call mutates facts or statuses,
// settles the re-evaluation loop to a fixed point, then delivers rewards and
// notifications with the engine unlocked.
package engine

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/nathoo/casefile/engine/effects"
	"github.com/nathoo/casefile/engine/events"
	"github.com/nathoo/casefile/engine/rules"
	"github.com/nathoo/casefile/engine/state"
	"github.com/nathoo/casefile/types"
)

// DefaultMaxPasses is the pass cap when Options leaves it unset. The engine
// raises it to the registry's transition bound when that is larger.
const DefaultMaxPasses = 128

// Options configures an Engine.
type Options struct {
	MaxPasses     int
	Logger        *slog.Logger
	Collaborators effects.Collaborators
}

// Engine holds the registry and the mutable case state.
type Engine struct {
	mu sync.Mutex

	reg      state.Registry
	facts    *state.Facts
	progress *state.Progress
	bus      events.Bus
	collab   effects.Collaborators

	maxPasses int
	logger    *slog.Logger

	// Re-evaluation state, guarded by mu.
	dirty bool
	pass  int
	out   *pending
}

// pending collects what a single public call produced.
type pending struct {
	events []types.Event
	grants []types.Grant
}

// New creates an engine over reg. Every case starts Unavailable; call
// Refresh to make the initial availability pass.
func New(reg state.Registry, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = DefaultMaxPasses
	}
	maxPasses = max(maxPasses, passBound(reg))
	return &Engine{
		reg:       reg,
		facts:     state.NewFacts(),
		progress:  state.NewProgress(),
		collab:    opts.Collaborators,
		maxPasses: maxPasses,
		logger:    logger,
	}
}

// Registry returns the case definitions the engine runs over.
func (e *Engine) Registry() state.Registry {
	return e.reg
}

// Subscribe registers an observer for status notifications.
func (e *Engine) Subscribe(obs events.Observer) uuid.UUID {
	return e.bus.Subscribe(obs)
}

// Unsubscribe removes an observer.
func (e *Engine) Unsubscribe(id uuid.UUID) bool {
	return e.bus.Unsubscribe(id)
}

// passBound is the most passes a settle can need: every pass that is not
// the last moves at least one case (three edges at most) or objective (two
// edges) forward, and reward flags only change alongside such a move.
func passBound(reg state.Registry) int {
	n := 2
	for _, id := range reg.CaseIDs() {
		if def, ok := reg.Case(id); ok {
			n += 3 + 2*len(def.Objectives)
		}
	}
	return n
}

// call runs op under the lock, settles if op asks for it, then delivers
// grants and events after unlocking so collaborators and observers may call
// back into the engine.
func (e *Engine) call(op func() (settle bool, err error)) (types.Result, error) {
	return e.callThen(op, nil)
}

// callThen is call with a check that runs under the lock once the loop has
// settled. Its error is returned when op itself succeeded.
func (e *Engine) callThen(op func() (settle bool, err error), after func() error) (types.Result, error) {
	e.mu.Lock()
	e.out = &pending{}
	res := types.Result{Converged: true}

	settle, err := op()
	if settle {
		res.Passes, res.Converged = e.settle()
	}
	if err == nil && after != nil {
		err = after()
	}
	res.Events = e.out.events
	res.Grants = e.out.grants
	e.out = nil
	e.mu.Unlock()

	effects.Deliver(res.Grants, e.collab)
	e.bus.Dispatch(res.Events)
	return res, err
}

// --- Fact mutators ---

// SetGlobalFlag stores a global flag and re-evaluates every case.
func (e *Engine) SetGlobalFlag(id string, value bool) types.Result {
	res, _ := e.call(func() (bool, error) {
		e.facts.SetFlag(id, value)
		return true, nil
	})
	return res
}

// SetCaseFlag stores a case-local flag and re-evaluates every case. Unknown
// cases are logged and left alone.
func (e *Engine) SetCaseFlag(caseID, name string, value bool) types.Result {
	res, _ := e.call(func() (bool, error) {
		def, ok := e.reg.Case(caseID)
		if !ok {
			e.logger.Warn("case flag on unknown case ignored", "case", caseID, "flag", name)
			return false, nil
		}
		e.progress.Entry(def).SetFlag(name, value)
		return true, nil
	})
	return res
}

// SetSkillLevel stores a skill level and re-evaluates every case.
func (e *Engine) SetSkillLevel(skill string, level int) types.Result {
	res, _ := e.call(func() (bool, error) {
		e.facts.SetSkill(skill, level)
		return true, nil
	})
	return res
}

// ModifySkillLevel adds delta to a skill and re-evaluates every case.
func (e *Engine) ModifySkillLevel(skill string, delta int) types.Result {
	res, _ := e.call(func() (bool, error) {
		e.facts.ModifySkill(skill, delta)
		return true, nil
	})
	return res
}

// Refresh re-evaluates every case without changing any fact. Hosts call it
// when something the engine cannot observe has changed.
func (e *Engine) Refresh() types.Result {
	res, _ := e.call(func() (bool, error) { return true, nil })
	return res
}

// --- Case operations ---

// ActivateCase starts a case that is Inactive or Unavailable whose start
// conditions hold. Otherwise nothing changes and ErrPreconditionNotMet is
// returned.
func (e *Engine) ActivateCase(caseID string) (types.Result, error) {
	return e.call(func() (bool, error) {
		def, ok := e.reg.Case(caseID)
		if !ok {
			return false, fmt.Errorf("activate %q: %w", caseID, ErrUnknownCase)
		}
		entry := e.progress.Entry(def)
		if entry.Status != types.CaseInactive && entry.Status != types.CaseUnavailable {
			return false, fmt.Errorf("activate %q: case is %s: %w", caseID, entry.Status, ErrPreconditionNotMet)
		}
		if !e.met(def.Start, rules.Context{CaseID: caseID}) {
			return false, fmt.Errorf("activate %q: start conditions not met: %w", caseID, ErrPreconditionNotMet)
		}
		e.start(def, entry)
		return true, nil
	})
}

// SetCaseOverallStatus forces a case forward to status. Setting the status
// the case already has does nothing. Entering Successful or Failed
// dispatches the matching reward set.
func (e *Engine) SetCaseOverallStatus(caseID string, status types.CaseStatus) (types.Result, error) {
	return e.call(func() (bool, error) {
		def, ok := e.reg.Case(caseID)
		if !ok {
			return false, fmt.Errorf("set status of %q: %w", caseID, ErrUnknownCase)
		}
		entry := e.progress.Entry(def)
		if entry.Status == status {
			return false, nil
		}
		if !state.CanAdvanceCase(entry.Status, status) {
			return false, fmt.Errorf("set status of %q from %s to %s: %w", caseID, entry.Status, status, ErrInvalidTransition)
		}
		switch {
		case status == types.CaseInProgress:
			e.start(def, entry)
		case status.Terminal():
			e.finish(def, entry, status)
		default:
			e.setCase(def, entry, status)
		}
		return true, nil
	})
}

// CompleteObjectiveFromExternalAction sets caseFlag on the case (when
// non-empty) and, if the case is in progress, tries to activate and
// complete the objective before re-evaluating everything. It returns
// ErrPreconditionNotMet if the objective is not Completed once the loop has
// settled; the flag stays set either way.
func (e *Engine) CompleteObjectiveFromExternalAction(caseID, objectiveID, caseFlag string) (types.Result, error) {
	var entry *state.Entry
	op := func() (bool, error) {
		def, ok := e.reg.Case(caseID)
		if !ok {
			return false, fmt.Errorf("complete %s/%s: %w", caseID, objectiveID, ErrUnknownCase)
		}
		obj, ok := def.Objective(objectiveID)
		if !ok {
			return false, fmt.Errorf("complete %s/%s: %w", caseID, objectiveID, ErrUnknownObjective)
		}
		entry = e.progress.Entry(def)
		if caseFlag != "" {
			entry.SetFlag(caseFlag, true)
		}
		if entry.Status == types.CaseInProgress {
			e.advanceObjective(def, entry, obj)
		}
		return true, nil
	}
	completed := func() error {
		if st := entry.Objectives[objectiveID]; st != types.ObjectiveCompleted {
			return fmt.Errorf("complete %s/%s: objective is %s: %w",
				caseID, objectiveID, st, ErrPreconditionNotMet)
		}
		return nil
	}
	return e.callThen(op, completed)
}

// --- Queries ---

// GetCaseOverallStatus returns a case's status. Unknown cases are Unavailable.
func (e *Engine) GetCaseOverallStatus(caseID string) types.CaseStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.reg.Case(caseID); !ok {
		e.logger.Warn("status query for unknown case", "case", caseID)
	}
	return e.progress.CaseStatus(caseID)
}

// GetObjectiveStatus returns an objective's status. Unknown ones are Inactive.
func (e *Engine) GetObjectiveStatus(caseID, objectiveID string) types.ObjectiveStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	if def, ok := e.reg.Case(caseID); !ok {
		e.logger.Warn("status query for unknown case", "case", caseID, "objective", objectiveID)
	} else if _, ok := def.Objective(objectiveID); !ok {
		e.logger.Warn("status query for unknown objective", "case", caseID, "objective", objectiveID)
	}
	return e.progress.ObjectiveStatus(caseID, objectiveID)
}

// GetSkillLevel returns a skill's level. Unset skills are 0.
func (e *Engine) GetSkillLevel(skill string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.facts.Skill(skill)
}

// CheckGlobalFlag reports a global flag. Unset flags are false.
func (e *Engine) CheckGlobalFlag(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.facts.Flag(id)
}

// IsCaseFlagTrue reports a case-local flag. Unknown cases and unset flags
// are false.
func (e *Engine) IsCaseFlagTrue(caseID, name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.CaseFlag(caseID, name)
}

// Snapshot returns a copy of a case's progress. Cases the engine has never
// touched report false.
func (e *Engine) Snapshot(caseID string) (state.Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.progress.Snapshot(caseID)
}

// Flags returns a copy of every global flag.
func (e *Engine) Flags() map[string]bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.facts.Flags()
}

// Skills returns a copy of every skill level.
func (e *Engine) Skills() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.facts.Skills()
}
