package loader

import (
	"reflect"
	"strings"
	"testing"

	"github.com/nathoo/casefile/types"
	lua "github.com/yuin/gopher-lua"
)

// newTestVM creates a sandboxed Lua VM with the API registered and a fresh collector.
func newTestVM() (*lua.LState, *collector) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibs(L)
	sandbox(L)
	coll := &collector{}
	registerAPI(L, coll)
	return L, coll
}

func TestCompileGame_FirstWins(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	coll.file = "game.lua"
	if err := L.DoString(`
		Game { title = "Test Game", author = "Author", version = "1.0", intro = "Welcome!" }
		Game { title = "Second" }
	`); err != nil {
		t.Fatal(err)
	}

	game := compileGame(coll.games, discard())
	if game.Title != "Test Game" {
		t.Errorf("Title = %q, want %q", game.Title, "Test Game")
	}
	if game.Author != "Author" {
		t.Errorf("Author = %q, want %q", game.Author, "Author")
	}
	if game.Version != "1.0" {
		t.Errorf("Version = %q, want %q", game.Version, "1.0")
	}
	if game.Intro != "Welcome!" {
		t.Errorf("Intro = %q, want %q", game.Intro, "Welcome!")
	}
}

func TestCompileGame_None(t *testing.T) {
	if got := compileGame(nil, nil); got != (types.GameDef{}) {
		t.Errorf("expected zero GameDef, got %+v", got)
	}
}

func TestLuaCase_Constructor(t *testing.T) {
	L, coll := newTestVM()
	defer L.Close()

	coll.file = "cases.lua"
	if err := L.DoString(`
		Case "c1" {
			name = "First",
			provider = "npc",
			level = 4,
			start = { FlagIsSet("go") },
			objectives = {
				Objective "o1" { text = "One", complete = { CaseFlagIs("done") } },
				Objective "o2" { text = "Two", optional = true },
			},
			objective_rewards = { o2 = Reward { xp = 7, roster = { "ally" } } },
		}
	`); err != nil {
		t.Fatal(err)
	}

	if len(coll.cases) != 1 {
		t.Fatalf("expected 1 case, got %d", len(coll.cases))
	}
	rc := coll.cases[0]
	if rc.ID != "c1" || rc.Name != "First" || rc.Provider != "npc" || rc.Level != 4 {
		t.Errorf("case = %+v", rc)
	}
	if rc.source != "cases.lua" {
		t.Errorf("source = %q", rc.source)
	}
	if len(rc.Objectives) != 2 || rc.Objectives[0].ID != "o1" || !rc.Objectives[1].Optional {
		t.Errorf("objectives = %+v", rc.Objectives)
	}
	if rc.Objectives[0].Complete[0]["type"] != "case_flag_is" {
		t.Errorf("complete = %+v", rc.Objectives[0].Complete)
	}
	if r := rc.ObjectiveRewards["o2"]; r.XP != 7 || len(r.Roster) != 1 {
		t.Errorf("objective reward = %+v", r)
	}
}

func TestConditionHelpers(t *testing.T) {
	tests := []struct {
		src  string
		want types.Condition
	}{
		{`FlagIsSet("a")`, types.FlagIsSet{Flag: "a", Want: true}},
		{`FlagIsSet("a", false)`, types.FlagIsSet{Flag: "a", Want: false}},
		{`FlagNot("a")`, types.FlagIsSet{Flag: "a", Want: false}},
		{`ObjectiveCompleted("o")`, types.ObjectiveIsCompleted{Objective: "o", Want: true}},
		{`ObjectiveCompletedIn("c", "o", false)`, types.ObjectiveIsCompleted{Case: "c", Objective: "o", Want: false}},
		{`CaseStatusIs("in_progress")`, types.CaseStatusIs{Status: types.CaseInProgress}},
		{`CaseStatusOf("c", 4)`, types.CaseStatusIs{Case: "c", Status: types.CaseFailed}},
		{`PlayerLevel(5)`, types.PlayerLevel{Level: 5}},
		{`PlayerAcceptsQuestDialogue()`, types.PlayerAcceptsQuestDialogue{}},
		{`CaseFlagIs("f")`, types.CaseFlagIs{Flag: "f", Want: true}},
		{`CaseFlagOf("c", "f", false)`, types.CaseFlagIs{Case: "c", Flag: "f", Want: false}},
		{`SkillAtLeast("law", 3)`, types.SkillAtLeast{Skill: "law", Level: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			L, _ := newTestVM()
			defer L.Close()

			if err := L.DoString("return " + tt.src); err != nil {
				t.Fatal(err)
			}
			params := tableToAnyMap(L.CheckTable(-1))
			got, err := compileCondition(params)
			if err != nil {
				t.Fatalf("compileCondition: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestCompileCondition_Errors(t *testing.T) {
	tests := []struct {
		name   string
		params map[string]any
		want   string
	}{
		{"no type", map[string]any{}, `unknown condition type ""`},
		{"unknown type", map[string]any{"type": "rain"}, `unknown condition type "rain"`},
		{"missing status", map[string]any{"type": "case_status_is"}, "missing or invalid case status"},
		{"bad status name", map[string]any{"type": "case_status_is", "status": "paused"}, `unknown case status "paused"`},
		{"status out of range", map[string]any{"type": "case_status_is", "status": 9}, "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileCondition(tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   any
		want types.CaseStatus
	}{
		{"unavailable", types.CaseUnavailable},
		{"Inactive", types.CaseInactive},
		{"IN_PROGRESS", types.CaseInProgress},
		{"successful", types.CaseSuccessful},
		{0, types.CaseUnavailable},
		{3, types.CaseSuccessful},
		{4, types.CaseFailed},
	}
	for _, tt := range tests {
		got, err := parseStatus(tt.in)
		if err != nil {
			t.Errorf("parseStatus(%v): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseStatus(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCompileCondition_FloatLevel(t *testing.T) {
	// YAML decodes 2.0 as float64.
	got, err := compileCondition(map[string]any{"type": "skill_at_least", "skill": "s", "level": 2.0})
	if err != nil {
		t.Fatal(err)
	}
	if got.(types.SkillAtLeast).Level != 2 {
		t.Errorf("level = %d", got.(types.SkillAtLeast).Level)
	}
}

func TestCompileReward_SortsReputation(t *testing.T) {
	rs := compileReward(rawReward{
		XP:         10,
		Reputation: map[string]int{"zeta": 1, "alpha": -2, "mid": 3},
		Roster:     []string{"r"},
		Flags:      []string{"f"},
	})

	want := []types.ReputationDelta{{Faction: "alpha", Delta: -2}, {Faction: "mid", Delta: 3}, {Faction: "zeta", Delta: 1}}
	if !reflect.DeepEqual(rs.Reputation, want) {
		t.Errorf("reputation = %+v, want %+v", rs.Reputation, want)
	}
	if rs.Experience != 10 || rs.Roster[0] != "r" || rs.Flags[0] != "f" {
		t.Errorf("reward = %+v", rs)
	}
	if !compileReward(rawReward{}).Empty() {
		t.Error("zero rawReward should compile to an empty set")
	}
}

func TestCompileCase_Errors(t *testing.T) {
	tests := []struct {
		name string
		rc   rawCase
		want string
	}{
		{"empty id", rawCase{}, "empty id"},
		{"empty objective id", rawCase{ID: "c", Objectives: []rawObjective{{Text: "x"}}}, "objective with empty id"},
		{"duplicate objective", rawCase{ID: "c", Objectives: []rawObjective{{ID: "o"}, {ID: "o"}}}, `duplicate objective id "o"`},
		{"bad failure condition", rawCase{ID: "c", Failure: []map[string]any{{"type": "x"}}}, "failure: condition 1"},
		{"bad objective condition", rawCase{ID: "c", Objectives: []rawObjective{{
			ID: "o", Complete: []map[string]any{{"type": "x"}},
		}}}, "objective o complete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := compileCase(tt.rc)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSandbox_RemovesUnsafeGlobals(t *testing.T) {
	L, _ := newTestVM()
	defer L.Close()

	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "rawset", "collectgarbage"} {
		if L.GetGlobal(name) != lua.LNil {
			t.Errorf("%s should be removed", name)
		}
	}
	if err := L.DoString(`return math.random`); err != nil {
		t.Fatal(err)
	}
	if L.Get(-1) != lua.LNil {
		t.Error("math.random should be removed")
	}
	if L.GetGlobal("os") != lua.LNil || L.GetGlobal("io") != lua.LNil {
		t.Error("os and io must not be opened")
	}
}

func TestSortedFiles(t *testing.T) {
	got := sortedFiles([]string{"z.lua", "b.yaml", "game.lua", "a.yml"})
	want := []string{"game.lua", "a.yml", "b.yaml", "z.lua"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sortedFiles = %v, want %v", got, want)
	}
}
