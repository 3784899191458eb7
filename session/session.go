// Package session turns player commands into engine calls and narrative
// output. It owns the engine, the reward ledger and the turn counter for
// one play-through.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nathoo/casefile/engine"
	"github.com/nathoo/casefile/engine/effects"
	"github.com/nathoo/casefile/engine/parser"
	"github.com/nathoo/casefile/engine/state"
	"github.com/nathoo/casefile/types"
)

// Options configures a Session.
type Options struct {
	MaxPasses int
	Logger    *slog.Logger
}

// Session is one play-through over loaded content.
type Session struct {
	ID     uuid.UUID
	Defs   *state.Defs
	Engine *engine.Engine
	Ledger *effects.Ledger
	Turn   int

	logger *slog.Logger
}

// Summary is the compact view shown in status bars.
type Summary struct {
	Counts     map[types.CaseStatus]int
	Experience int
	Turn       int
}

// New creates a session with a fresh engine whose rewards land in the
// session's ledger.
func New(defs *state.Defs, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.New()
	logger = logger.With("session", id.String())

	ledger := effects.NewLedger()
	eng := engine.New(defs, engine.Options{
		MaxPasses:     opts.MaxPasses,
		Logger:        logger,
		Collaborators: ledger.Collaborators(),
	})

	return &Session{
		ID:     id,
		Defs:   defs,
		Engine: eng,
		Ledger: ledger,
		logger: logger,
	}
}

// command is one verb handler. Queries do not advance the turn counter.
type command struct {
	run   func(s *Session, args []string) types.Result
	query bool
}

var commands = map[string]command{
	"flag":     {run: (*Session).cmdFlag},
	"unflag":   {run: (*Session).cmdUnflag},
	"caseflag": {run: (*Session).cmdCaseFlag},
	"skill":    {run: (*Session).cmdSkill},
	"train":    {run: (*Session).cmdTrain},
	"accept":   {run: (*Session).cmdAccept},
	"talk":     {run: (*Session).cmdTalk},
	"clue":     {run: (*Session).cmdClue},
	"force":    {run: (*Session).cmdForce},
	"tick":     {run: (*Session).cmdTick},
	"cases":    {run: (*Session).cmdCases, query: true},
	"case":     {run: (*Session).cmdCase, query: true},
}

// Start runs the first evaluation so cases with no availability
// conditions surface, and returns the opening narration.
func (s *Session) Start() types.Result {
	res := s.Engine.Refresh()
	var lines []string
	if s.Defs.Game.Intro != "" {
		lines = append(lines, s.Defs.Game.Intro, "")
	}
	return s.narrate(res, lines...)
}

// Step parses and executes one command.
func (s *Session) Step(input string) types.Result {
	cmd := parser.Parse(input)
	if cmd.Verb == "" {
		return say("Say again?")
	}

	c, ok := commands[cmd.Verb]
	if !ok {
		return say(fmt.Sprintf("I don't know how to %q.", cmd.Verb))
	}

	res := c.run(s, cmd.Args)
	if !c.query {
		s.Turn++
	}
	s.logger.Debug("command", "verb", cmd.Verb, "args", cmd.Args, "turn", s.Turn,
		"events", len(res.Events), "grants", len(res.Grants), "passes", res.Passes)
	return res
}

// Summary reports status counts over every registered case, the current
// experience total and the turn.
func (s *Session) Summary() Summary {
	counts := map[types.CaseStatus]int{}
	for _, id := range s.Defs.CaseIDs() {
		counts[s.Engine.GetCaseOverallStatus(id)]++
	}
	return Summary{
		Counts:     counts,
		Experience: s.Ledger.Experience(),
		Turn:       s.Turn,
	}
}

// StateLines dumps facts, rewards and case statuses for debugging.
func (s *Session) StateLines() []string {
	lines := []string{fmt.Sprintf("Turn: %d", s.Turn)}

	var set []string
	for id, v := range s.Engine.Flags() {
		if v {
			set = append(set, id)
		}
	}
	slices.Sort(set)
	if len(set) > 0 {
		lines = append(lines, "Flags: "+strings.Join(set, ", "))
	}

	skills := s.Engine.Skills()
	if len(skills) > 0 {
		var parts []string
		for _, name := range slices.Sorted(maps.Keys(skills)) {
			parts = append(parts, fmt.Sprintf("%s=%d", name, skills[name]))
		}
		lines = append(lines, "Skills: "+strings.Join(parts, ", "))
	}

	lines = append(lines, fmt.Sprintf("Experience: %d", s.Ledger.Experience()))
	if rep := s.Ledger.Reputation(); len(rep) > 0 {
		var parts []string
		for _, f := range slices.Sorted(maps.Keys(rep)) {
			parts = append(parts, fmt.Sprintf("%s=%+d", f, rep[f]))
		}
		lines = append(lines, "Reputation: "+strings.Join(parts, ", "))
	}
	if roster := s.Ledger.Roster(); len(roster) > 0 {
		lines = append(lines, "Roster: "+strings.Join(roster, ", "))
	}

	for _, id := range s.Defs.CaseIDs() {
		entry, _ := s.Engine.Snapshot(id)
		line := fmt.Sprintf("Case %s: %s", id, entry.Status)
		if len(entry.Objectives) > 0 {
			var parts []string
			def, _ := s.Defs.Case(id)
			for _, o := range def.Objectives {
				parts = append(parts, fmt.Sprintf("%s=%s", o.ID, entry.Objectives[o.ID]))
			}
			line += " (" + strings.Join(parts, ", ") + ")"
		}
		lines = append(lines, line)
	}
	return lines
}

// HelpLines lists the game commands.
func HelpLines() []string {
	return []string{
		"Game commands:",
		"  cases (ls, journal)            List your cases",
		"  case <name> (x, look at)       Show a case and its leads",
		"  talk to <npc>                  See what an NPC has for you",
		"  accept <case> [from <npc>]     Take on a case",
		"  clue <case> <lead> [note]      Report a lead as resolved",
		"  flag <name> / unflag <name>    Set or clear a world flag",
		"  caseflag <case> <name> [off]   Set a note on a case",
		"  skill <name> <n>               Set a skill level",
		"  train <name> [n]               Improve a skill",
		"  force <case> <status>          Move a case to a status",
		"  tick (z, wait)                 Let time pass",
		"  again (g)                      Repeat your last command",
	}
}

// TraceLines renders the raw events, grants and pass count of a result.
func TraceLines(res types.Result) []string {
	lines := []string{fmt.Sprintf("[trace] passes=%d converged=%t", res.Passes, res.Converged)}
	for _, ev := range res.Events {
		switch ev.Type {
		case types.EventCaseStatusChanged:
			lines = append(lines, fmt.Sprintf("[trace]   case %s %s -> %s (pass %d)",
				ev.CaseID, ev.OldCase, ev.NewCase, ev.Pass))
		case types.EventObjectiveStatusChanged:
			lines = append(lines, fmt.Sprintf("[trace]   objective %s/%s %s -> %s (pass %d)",
				ev.CaseID, ev.ObjectiveID, ev.OldObjective, ev.NewObjective, ev.Pass))
		}
	}
	for _, g := range res.Grants {
		src := g.CaseID
		if g.ObjectiveID != "" {
			src += "/" + g.ObjectiveID
		}
		var what string
		switch g.Kind {
		case types.GrantExperience:
			what = fmt.Sprintf("%d", g.Amount)
		case types.GrantReputation:
			what = fmt.Sprintf("%s %+d", g.Faction, g.Amount)
		case types.GrantRoster:
			what = g.Member
		case types.GrantFlag:
			what = g.Flag
		}
		lines = append(lines, fmt.Sprintf("[trace]   grant %s %s from %s", g.Kind, what, src))
	}
	return lines
}

// say returns a result that only carries output.
func say(lines ...string) types.Result {
	return types.Result{Converged: true, Output: lines}
}
