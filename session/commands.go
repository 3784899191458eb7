package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nathoo/casefile/engine"
	"github.com/nathoo/casefile/engine/dialogue"
	"github.com/nathoo/casefile/engine/resolve"
	"github.com/nathoo/casefile/types"
)

func (s *Session) cmdFlag(args []string) types.Result {
	if len(args) == 0 {
		return say("Flag what?")
	}
	id := strings.Join(args, "_")
	return s.narrate(s.Engine.SetGlobalFlag(id, true), "Noted: "+id+".")
}

func (s *Session) cmdUnflag(args []string) types.Result {
	if len(args) == 0 {
		return say("Clear what?")
	}
	id := strings.Join(args, "_")
	return s.narrate(s.Engine.SetGlobalFlag(id, false), "Struck out: "+id+".")
}

// caseflag <case> <flag> [on|off]
func (s *Session) cmdCaseFlag(args []string) types.Result {
	if len(args) < 2 {
		return say("Usage: caseflag <case> <flag> [on|off]")
	}
	caseID, err := resolve.Case(s.Defs, args[0])
	if err != nil {
		return say(sentence(err.Error()))
	}
	value := true
	if len(args) > 2 {
		v, ok := parseBool(args[2])
		if !ok {
			return say(fmt.Sprintf("%q is not on or off.", args[2]))
		}
		value = v
	}
	res := s.Engine.SetCaseFlag(caseID, args[1], value)
	return s.narrate(res, fmt.Sprintf("You note %q on %s.", args[1], s.caseName(caseID)))
}

// skill <name> <level>
func (s *Session) cmdSkill(args []string) types.Result {
	if len(args) < 2 {
		return say("Usage: skill <name> <level>")
	}
	level, err := strconv.Atoi(args[1])
	if err != nil {
		return say(fmt.Sprintf("%q is not a number.", args[1]))
	}
	res := s.Engine.SetSkillLevel(args[0], level)
	return s.narrate(res, fmt.Sprintf("Your %s is now %d.", args[0], level))
}

// train <name> [amount]
func (s *Session) cmdTrain(args []string) types.Result {
	if len(args) == 0 {
		return say("Train what?")
	}
	delta := 1
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return say(fmt.Sprintf("%q is not a number.", args[1]))
		}
		delta = n
	}
	res := s.Engine.ModifySkillLevel(args[0], delta)
	level := s.Engine.GetSkillLevel(args[0])
	verb := "improves"
	if delta < 0 {
		verb = "slips"
	}
	return s.narrate(res, fmt.Sprintf("Your %s %s to %d.", args[0], verb, level))
}

// accept <case> [from <npc>]
func (s *Session) cmdAccept(args []string) types.Result {
	if len(args) == 0 {
		return say("Accept which case?")
	}
	caseID, err := resolve.Case(s.Defs, args[0])
	if err != nil {
		return say(sentence(err.Error()))
	}
	def, _ := s.Defs.Case(caseID)

	npc := def.Provider
	if len(args) > 1 {
		npc = args[1]
	}
	if npc == "" {
		return say("Nobody is offering that case.")
	}

	res, err := dialogue.Accept(s.Engine, npc, caseID)
	switch {
	case errors.Is(err, dialogue.ErrNotProvider):
		return say(fmt.Sprintf("%s has no say over %s.", DisplayName(npc), def.Name))
	case errors.Is(err, engine.ErrPreconditionNotMet):
		return s.narrate(res, fmt.Sprintf("You can't take on %s right now.", def.Name))
	case err != nil:
		return say(sentence(err.Error()))
	}
	return s.narrate(res, fmt.Sprintf("You agree to look into %s.", def.Name))
}

// talk <npc> records the meeting as the global flag met_<npc> and lists
// the cases the NPC can offer afterwards.
func (s *Session) cmdTalk(args []string) types.Result {
	if len(args) == 0 {
		return say("Talk to whom?")
	}
	npc := strings.ReplaceAll(args[0], " ", "_")
	res := s.narrate(s.Engine.SetGlobalFlag("met_"+npc, true))

	offers := dialogue.Offers(s.Engine, npc)
	var lines []string
	switch {
	case len(offers) > 0:
		for _, id := range offers {
			lines = append(lines, fmt.Sprintf("%s has a case for you: %s.", DisplayName(npc), s.caseName(id)))
		}
	default:
		lines = append(lines, fmt.Sprintf("%s has nothing for you right now.", DisplayName(npc)))
	}
	res.Output = append(res.Output, lines...)
	return res
}

// clue <case> <objective> [flag]
func (s *Session) cmdClue(args []string) types.Result {
	if len(args) < 2 {
		return say("Usage: clue <case> <lead> [note]")
	}
	caseID, err := resolve.Case(s.Defs, args[0])
	if err != nil {
		return say(sentence(err.Error()))
	}
	def, _ := s.Defs.Case(caseID)
	objID, err := resolve.Objective(def, args[1])
	if err != nil {
		return say(sentence(err.Error()))
	}
	var flag string
	if len(args) > 2 {
		flag = args[2]
	}

	res, err := s.Engine.CompleteObjectiveFromExternalAction(caseID, objID, flag)
	if errors.Is(err, engine.ErrPreconditionNotMet) {
		return s.narrate(res, "That doesn't settle the lead yet.")
	}
	if err != nil {
		return say(sentence(err.Error()))
	}
	return s.narrate(res)
}

// force <case> <status>
func (s *Session) cmdForce(args []string) types.Result {
	if len(args) < 2 {
		return say("Usage: force <case> <status>")
	}
	caseID, err := resolve.Case(s.Defs, args[0])
	if err != nil {
		return say(sentence(err.Error()))
	}
	status, ok := parseStatus(args[1])
	if !ok {
		return say(fmt.Sprintf("%q is not a case status.", args[1]))
	}

	from := s.Engine.GetCaseOverallStatus(caseID)
	res, err := s.Engine.SetCaseOverallStatus(caseID, status)
	if errors.Is(err, engine.ErrInvalidTransition) {
		return say(fmt.Sprintf("%s can't go from %s to %s.", s.caseName(caseID), from, status))
	}
	if err != nil {
		return say(sentence(err.Error()))
	}
	if len(res.Events) == 0 {
		return s.narrate(res, "Nothing changes.")
	}
	return s.narrate(res)
}

func (s *Session) cmdTick([]string) types.Result {
	res := s.Engine.Refresh()
	if len(res.Events) == 0 {
		return s.narrate(res, "Time passes.")
	}
	return s.narrate(res)
}

func (s *Session) cmdCases([]string) types.Result {
	var lines []string
	for _, id := range s.Defs.CaseIDs() {
		status := s.Engine.GetCaseOverallStatus(id)
		if status == types.CaseUnavailable {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s [%s]", s.caseName(id), StatusLabel(status)))
	}
	if len(lines) == 0 {
		return say("Your casebook is empty.")
	}
	return say(append([]string{"Casebook:"}, lines...)...)
}

func (s *Session) cmdCase(args []string) types.Result {
	if len(args) == 0 {
		return s.cmdCases(nil)
	}
	caseID, err := resolve.Case(s.Defs, args[0])
	if err != nil {
		return say(sentence(err.Error()))
	}
	entry, _ := s.Engine.Snapshot(caseID)
	if entry.Status == types.CaseUnavailable {
		return say("You haven't heard of that case.")
	}

	def, _ := s.Defs.Case(caseID)
	lines := []string{fmt.Sprintf("%s [%s]", def.Name, StatusLabel(entry.Status))}
	if def.Description != "" {
		lines = append(lines, def.Description)
	}
	for _, o := range def.Objectives {
		st := entry.Objectives[o.ID]
		if st == types.ObjectiveInactive {
			continue
		}
		mark := "[ ]"
		if st == types.ObjectiveCompleted {
			mark = "[x]"
		}
		line := fmt.Sprintf("  %s %s", mark, o.Text)
		if o.Optional {
			line += " (optional)"
		}
		lines = append(lines, line)
	}
	return say(lines...)
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "on", "yes", "y":
		return true, true
	case "off", "no", "n":
		return false, true
	}
	v, err := strconv.ParseBool(s)
	return v, err == nil
}

// parseStatus accepts a status name, a spaced variant of it or the
// integer code.
func parseStatus(s string) (types.CaseStatus, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		st := types.CaseStatus(n)
		return st, st.Valid()
	}
	name := strings.ReplaceAll(strings.ToLower(s), " ", "_")
	switch name {
	case "open", "started", "active":
		name = "in_progress"
	case "solved", "success":
		name = "successful"
	case "failure", "unsolved":
		name = "failed"
	}
	return types.ParseCaseStatus(name)
}
