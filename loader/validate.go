package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/nathoo/casefile/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks compiled cases, logs every warning, and returns a
// *ValidationError if any errors were found.
func validate(game types.GameDef, cases []types.CaseDef, logger *slog.Logger) error {
	ve := checkContent(game, cases)
	for _, w := range ve.Warnings {
		logger.Warn("content warning", "detail", w)
	}
	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// checkContent checks compiled cases for referential integrity. Problems
// the engine tolerates at runtime are warnings; only content that cannot
// run at all is an error.
func checkContent(game types.GameDef, cases []types.CaseDef) *ValidationError {
	ve := &ValidationError{}

	if len(cases) == 0 {
		ve.Errors = append(ve.Errors, "no cases defined")
	}
	if game.Title == "" {
		ve.Warnings = append(ve.Warnings, "Game.Title is not set")
	}

	// Objectives per case id; the first definition of a duplicate id wins.
	objectives := map[string]map[string]bool{}
	for _, c := range cases {
		if _, dup := objectives[c.ID]; dup {
			continue
		}
		objs := map[string]bool{}
		for _, o := range c.Objectives {
			objs[o.ID] = true
		}
		objectives[c.ID] = objs
	}

	for _, c := range cases {
		check := func(where string, conds []types.Condition) {
			validateConditions(c.ID, where, conds, objectives, ve)
		}
		check("available", c.MakeAvailable)
		check("start", c.Start)
		check("success", c.Success)
		check("failure", c.Failure)
		for _, o := range c.Objectives {
			check("objective "+o.ID+" activate", o.Activate)
			check("objective "+o.ID+" complete", o.Complete)
		}

		for id := range c.ObjectiveRewards {
			o, ok := c.Objective(id)
			switch {
			case !ok:
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"case %q has a reward for undefined objective %q", c.ID, id))
			case !o.Optional:
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"case %q rewards required objective %q; only optional objectives are rewarded", c.ID, id))
			}
		}
	}
	return ve
}

func validateConditions(caseID, where string, conds []types.Condition, objectives map[string]map[string]bool, ve *ValidationError) {
	warn := func(format string, args ...any) {
		prefix := fmt.Sprintf("case %q %s: ", caseID, where)
		ve.Warnings = append(ve.Warnings, prefix+fmt.Sprintf(format, args...))
	}

	target := func(ref string) string {
		if ref == "" {
			return caseID
		}
		return ref
	}

	for _, cond := range conds {
		switch c := cond.(type) {
		case types.FlagIsSet:
			if c.Flag == "" {
				warn("flag_is_set has no flag")
			}
		case types.ObjectiveIsCompleted:
			if c.Objective == "" {
				warn("objective_completed has no objective")
				continue
			}
			objs, ok := objectives[target(c.Case)]
			if !ok {
				warn("objective_completed references undefined case %q", c.Case)
			} else if !objs[c.Objective] {
				warn("objective_completed references undefined objective %q of case %q", c.Objective, target(c.Case))
			}
		case types.CaseStatusIs:
			if _, ok := objectives[target(c.Case)]; !ok {
				warn("case_status_is references undefined case %q", c.Case)
			}
		case types.CaseFlagIs:
			if c.Flag == "" {
				warn("case_flag_is has no flag")
			}
			if _, ok := objectives[target(c.Case)]; !ok {
				warn("case_flag_is references undefined case %q", c.Case)
			}
		case types.SkillAtLeast:
			if c.Skill == "" {
				warn("skill_at_least has no skill")
			}
		}
	}
}
