// Package rules implements trigger condition evaluation.
package rules

import (
	"io"
	"log/slog"

	"github.com/nathoo/casefile/types"
)

// View is the read-only fact surface conditions are evaluated against.
type View interface {
	Flag(id string) bool
	Skill(name string) int
	CaseStatus(caseID string) types.CaseStatus
	ObjectiveStatus(caseID, objectiveID string) types.ObjectiveStatus
	CaseFlag(caseID, name string) bool
}

// Catalog is implemented by views that know which cases and objectives are
// defined. EvalCondition uses it to log references to missing ones.
type Catalog interface {
	HasCase(caseID string) bool
	HasObjective(caseID, objectiveID string) bool
}

// Context identifies the case (and objective, if any) that owns the
// condition list being evaluated.
type Context struct {
	CaseID      string
	ObjectiveID string
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// EvalCondition evaluates a single condition. Malformed conditions are
// logged and evaluate to false.
func EvalCondition(c types.Condition, v View, ctx Context, logger *slog.Logger) bool {
	if logger == nil {
		logger = discard
	}

	switch c := c.(type) {
	case types.FlagIsSet:
		if c.Flag == "" {
			return malformed(logger, c, ctx, "empty flag id")
		}
		return v.Flag(c.Flag) == c.Want

	case types.ObjectiveIsCompleted:
		if c.Objective == "" {
			return malformed(logger, c, ctx, "empty objective id")
		}
		caseID := target(c.Case, ctx)
		if caseID == "" {
			return malformed(logger, c, ctx, "no case to check")
		}
		unknownRef(v, logger, c, caseID, c.Objective)
		done := v.ObjectiveStatus(caseID, c.Objective) == types.ObjectiveCompleted
		return done == c.Want

	case types.CaseStatusIs:
		if !c.Status.Valid() {
			return malformed(logger, c, ctx, "status outside the defined set")
		}
		caseID := target(c.Case, ctx)
		if caseID == "" {
			return malformed(logger, c, ctx, "no case to check")
		}
		unknownRef(v, logger, c, caseID, "")
		return v.CaseStatus(caseID) == c.Status

	case types.PlayerLevel:
		// Player levels do not exist yet.
		logger.Debug("player level condition stubbed to true", "case", ctx.CaseID, "level", c.Level)
		return true

	case types.PlayerAcceptsQuestDialogue:
		return true

	case types.CaseFlagIs:
		if c.Flag == "" {
			return malformed(logger, c, ctx, "empty case flag id")
		}
		caseID := target(c.Case, ctx)
		if caseID == "" {
			return malformed(logger, c, ctx, "no case to check")
		}
		unknownRef(v, logger, c, caseID, "")
		return v.CaseFlag(caseID, c.Flag) == c.Want

	case types.SkillAtLeast:
		if c.Skill == "" {
			return malformed(logger, c, ctx, "empty skill name")
		}
		return v.Skill(c.Skill) >= c.Level

	case nil:
		return malformed(logger, nil, ctx, "nil condition")

	default:
		return malformed(logger, c, ctx, "unknown condition type")
	}
}

// target resolves an optional case reference against the context.
func target(caseID string, ctx Context) string {
	if caseID != "" {
		return caseID
	}
	return ctx.CaseID
}

// unknownRef logs a reference to an undefined case or objective. The
// condition still evaluates against the default status.
func unknownRef(v View, logger *slog.Logger, c types.Condition, caseID, objectiveID string) {
	cat, ok := v.(Catalog)
	if !ok {
		return
	}
	switch {
	case !cat.HasCase(caseID):
		logger.Debug("condition references unknown case, using default",
			"kind", c.Kind(), "case", caseID)
	case objectiveID != "" && !cat.HasObjective(caseID, objectiveID):
		logger.Debug("condition references unknown objective, using default",
			"kind", c.Kind(), "case", caseID, "objective", objectiveID)
	}
}

func malformed(logger *slog.Logger, c types.Condition, ctx Context, reason string) bool {
	kind := types.ConditionKind("nil")
	if c != nil {
		kind = c.Kind()
	}
	logger.Warn("malformed condition treated as not satisfied",
		"kind", kind, "case", ctx.CaseID, "objective", ctx.ObjectiveID, "reason", reason)
	return false
}
