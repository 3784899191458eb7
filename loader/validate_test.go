package loader

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/nathoo/casefile/types"
)

// validCases returns a minimal set of cases that validate cleanly.
func validCases() []types.CaseDef {
	return []types.CaseDef{
		{
			ID:   "first",
			Name: "First",
			Objectives: []types.ObjectiveDef{
				{ID: "clue", Text: "Find the clue"},
				{ID: "extra", Text: "Bonus", Optional: true},
			},
			ObjectiveRewards: map[string]types.RewardSet{"extra": {Experience: 5}},
		},
		{
			ID:            "second",
			MakeAvailable: []types.Condition{types.CaseStatusIs{Case: "first", Status: types.CaseSuccessful}},
			Start:         []types.Condition{types.ObjectiveIsCompleted{Case: "first", Objective: "clue", Want: true}},
		},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validGame() types.GameDef {
	return types.GameDef{Title: "Test"}
}

func TestValidate_ValidCases(t *testing.T) {
	ve := checkContent(validGame(), validCases())
	if len(ve.Errors) != 0 || len(ve.Warnings) != 0 {
		t.Fatalf("expected clean content, got errors %v warnings %v", ve.Errors, ve.Warnings)
	}
	if err := validate(validGame(), validCases(), discard()); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
}

func TestValidate_NoCases(t *testing.T) {
	err := validate(validGame(), nil, discard())
	if err == nil {
		t.Fatal("expected error for no cases")
	}
	ve := err.(*ValidationError)
	assertContains(t, ve.Errors, "no cases defined")
}

func TestValidate_Warnings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(g *types.GameDef, cs []types.CaseDef)
		want   string
	}{
		{"empty title", func(g *types.GameDef, _ []types.CaseDef) { g.Title = "" }, "Game.Title is not set"},
		{"undefined case in status", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[1].MakeAvailable = []types.Condition{types.CaseStatusIs{Case: "nope"}}
		}, `case_status_is references undefined case "nope"`},
		{"undefined objective", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[1].Start = []types.Condition{types.ObjectiveIsCompleted{Case: "first", Objective: "missing"}}
		}, `undefined objective "missing" of case "first"`},
		{"local objective resolves to owner", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[1].Success = []types.Condition{types.ObjectiveIsCompleted{Objective: "clue"}}
		}, `undefined objective "clue" of case "second"`},
		{"empty flag", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[0].Failure = []types.Condition{types.FlagIsSet{}}
		}, "flag_is_set has no flag"},
		{"empty case flag", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[0].Objectives[0].Complete = []types.Condition{types.CaseFlagIs{}}
		}, `"first" objective clue complete: case_flag_is has no flag`},
		{"empty skill", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[0].Start = []types.Condition{types.SkillAtLeast{Level: 1}}
		}, "skill_at_least has no skill"},
		{"reward for required objective", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[0].ObjectiveRewards["clue"] = types.RewardSet{Experience: 1}
		}, `rewards required objective "clue"`},
		{"reward for undefined objective", func(_ *types.GameDef, cs []types.CaseDef) {
			cs[0].ObjectiveRewards["ghost"] = types.RewardSet{Experience: 1}
		}, `reward for undefined objective "ghost"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			game, cases := validGame(), validCases()
			tt.mutate(&game, cases)

			ve := checkContent(game, cases)
			if len(ve.Errors) != 0 {
				t.Fatalf("warnings must not be errors: %v", ve.Errors)
			}
			assertContains(t, ve.Warnings, tt.want)
		})
	}
}

func TestValidate_WarningsAreLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	if err := validate(types.GameDef{}, validCases(), logger); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "content warning") || !strings.Contains(buf.String(), "Game.Title is not set") {
		t.Errorf("warning not logged:\n%s", buf.String())
	}
}

func TestValidate_FirstDuplicateWins(t *testing.T) {
	cases := append(validCases(), types.CaseDef{ID: "first"})

	ve := checkContent(validGame(), cases)
	for _, w := range ve.Warnings {
		if strings.Contains(w, "undefined objective") {
			t.Errorf("objectives of the first definition should be used: %s", w)
		}
	}
}

func TestValidationError_Message(t *testing.T) {
	ve := &ValidationError{Errors: []string{"a", "b"}}
	msg := ve.Error()
	if !strings.Contains(msg, "2 error(s)") || !strings.Contains(msg, "a\n  b") {
		t.Errorf("Error() = %q", msg)
	}
	if !IsValidation(ve) {
		t.Error("IsValidation should recognize *ValidationError")
	}
}

func assertContains(t *testing.T, strs []string, substr string) {
	t.Helper()
	for _, s := range strs {
		if strings.Contains(s, substr) {
			return
		}
	}
	t.Errorf("expected a message containing %q, got %v", substr, strs)
}
