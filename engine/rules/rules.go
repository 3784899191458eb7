package rules

import (
	"log/slog"

	"github.com/nathoo/casefile/types"
)

// AreMet returns true if all conditions hold (AND logic). An empty or nil
// list is vacuously true. Evaluation stops at the first failing condition.
func AreMet(conditions []types.Condition, v View, ctx Context, logger *slog.Logger) bool {
	for _, c := range conditions {
		if !EvalCondition(c, v, ctx, logger) {
			return false
		}
	}
	return true
}

// AnyDefined reports whether a condition list has at least one entry. Used
// where an empty list means "never" rather than "always" (failure lists).
func AnyDefined(conditions []types.Condition) bool {
	return len(conditions) > 0
}
