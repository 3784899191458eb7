// Package dialogue implements case offers made by provider NPCs.
package dialogue

import (
	"errors"
	"fmt"

	"github.com/nathoo/casefile/engine"
	"github.com/nathoo/casefile/types"
)

// AcceptedFlag is the case-local flag set when the player agrees to take a
// case. Content can gate a case's start conditions on it.
const AcceptedFlag = "accepted"

// ErrNotProvider is returned when an NPC is asked for a case it does not
// offer.
var ErrNotProvider = errors.New("case not offered by this npc")

// Offers returns the ids of cases npcID provides that are currently
// Inactive, in registration order.
func Offers(eng *engine.Engine, npcID string) []string {
	reg := eng.Registry()
	var result []string
	for _, id := range reg.CaseIDs() {
		def, ok := reg.Case(id)
		if !ok || def.Provider != npcID {
			continue
		}
		if eng.GetCaseOverallStatus(id) == types.CaseInactive {
			result = append(result, id)
		}
	}
	return result
}

// Providers returns every NPC that provides at least one case.
func Providers(eng *engine.Engine) []string {
	reg := eng.Registry()
	seen := map[string]bool{}
	var result []string
	for _, id := range reg.CaseIDs() {
		def, ok := reg.Case(id)
		if !ok || def.Provider == "" || seen[def.Provider] {
			continue
		}
		seen[def.Provider] = true
		result = append(result, def.Provider)
	}
	return result
}

// Accept records the player's agreement on the case and activates it. A
// case whose start conditions depend on AcceptedFlag starts as soon as the
// flag is set; any other case is started explicitly.
func Accept(eng *engine.Engine, npcID, caseID string) (types.Result, error) {
	def, ok := eng.Registry().Case(caseID)
	if !ok {
		return types.Result{}, fmt.Errorf("accept %q: %w", caseID, engine.ErrUnknownCase)
	}
	if def.Provider != npcID {
		return types.Result{}, fmt.Errorf("accept %q from %q: %w", caseID, npcID, ErrNotProvider)
	}
	if status := eng.GetCaseOverallStatus(caseID); status != types.CaseInactive {
		return types.Result{}, fmt.Errorf("accept %q: case is %s: %w", caseID, status, engine.ErrPreconditionNotMet)
	}

	res := eng.SetCaseFlag(caseID, AcceptedFlag, true)
	if eng.GetCaseOverallStatus(caseID).Rank() >= types.CaseInProgress.Rank() {
		return res, nil
	}

	more, err := eng.ActivateCase(caseID)
	return merge(res, more), err
}

// merge appends b's output to a.
func merge(a, b types.Result) types.Result {
	a.Events = append(a.Events, b.Events...)
	a.Grants = append(a.Grants, b.Grants...)
	a.Output = append(a.Output, b.Output...)
	a.Passes += b.Passes
	a.Converged = a.Converged && b.Converged
	return a
}
