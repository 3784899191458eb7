// Package loader loads Lua and YAML case content into Go structs at startup.
// The Lua VM is discarded after loading, so there is no Lua at runtime.
package loader

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/nathoo/casefile/types"
	lua "github.com/yuin/gopher-lua"
)

// rawGame holds game metadata before compilation.
type rawGame struct {
	title, author, version, intro string
	source                        string
}

// rawCase is the format-neutral form of a case as authored in Lua or YAML.
type rawCase struct {
	ID               string               `yaml:"id"`
	Name             string               `yaml:"name"`
	Provider         string               `yaml:"provider"`
	Level            int                  `yaml:"level"`
	Description      string               `yaml:"description"`
	Available        []map[string]any     `yaml:"available"`
	Start            []map[string]any     `yaml:"start"`
	Success          []map[string]any     `yaml:"success"`
	Failure          []map[string]any     `yaml:"failure"`
	Objectives       []rawObjective       `yaml:"objectives"`
	OnSuccess        rawReward            `yaml:"on_success"`
	OnFailure        rawReward            `yaml:"on_failure"`
	ObjectiveRewards map[string]rawReward `yaml:"objective_rewards"`

	source string
}

type rawObjective struct {
	ID       string           `yaml:"id"`
	Text     string           `yaml:"text"`
	Optional bool             `yaml:"optional"`
	Activate []map[string]any `yaml:"activate"`
	Complete []map[string]any `yaml:"complete"`
}

type rawReward struct {
	XP         int            `yaml:"xp"`
	Reputation map[string]int `yaml:"reputation"`
	Roster     []string       `yaml:"roster"`
	Flags      []string       `yaml:"flags"`
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an int field from a Lua table, or 0 if missing.
func getInt(tbl *lua.LTable, key string) int {
	v := tbl.RawGetString(key)
	if n, ok := v.(lua.LNumber); ok {
		return int(n)
	}
	return 0
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// toGoValue converts a Lua value to a Go value recursively.
func toGoValue(v lua.LValue) any {
	switch val := v.(type) {
	case lua.LBool:
		return bool(val)
	case lua.LNumber:
		f := float64(val)
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case *lua.LNilType:
		return nil
	case lua.LString:
		return string(val)
	case *lua.LTable:
		// Check if it's an array (sequential integer keys starting at 1).
		maxN := val.MaxN()
		if maxN > 0 {
			arr := make([]any, 0, maxN)
			for i := 1; i <= maxN; i++ {
				arr = append(arr, toGoValue(val.RawGetInt(i)))
			}
			return arr
		}
		// Otherwise treat as map.
		return tableToAnyMap(val)
	default:
		return nil
	}
}

// tableToAnyMap converts a Lua table to a map[string]any.
func tableToAnyMap(tbl *lua.LTable) map[string]any {
	if tbl == nil {
		return nil
	}
	m := map[string]any{}
	tbl.ForEach(func(k, v lua.LValue) {
		if ks, ok := k.(lua.LString); ok {
			m[string(ks)] = toGoValue(v)
		}
	})
	return m
}

// tableToStrings converts the array part of a Lua table to strings.
func tableToStrings(tbl *lua.LTable) []string {
	if tbl == nil {
		return nil
	}
	var out []string
	for i := 1; i <= tbl.MaxN(); i++ {
		if s, ok := tbl.RawGetInt(i).(lua.LString); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// tableToIntMap converts a Lua table of string → number to a map.
func tableToIntMap(tbl *lua.LTable) map[string]int {
	if tbl == nil {
		return nil
	}
	m := map[string]int{}
	tbl.ForEach(func(k, v lua.LValue) {
		ks, ok := k.(lua.LString)
		if !ok {
			return
		}
		if n, ok := v.(lua.LNumber); ok {
			m[string(ks)] = int(n)
		}
	})
	return m
}

// tableToConditions converts an array of condition tables.
func tableToConditions(tbl *lua.LTable) []map[string]any {
	if tbl == nil {
		return nil
	}
	var out []map[string]any
	for i := 1; i <= tbl.MaxN(); i++ {
		if c, ok := tbl.RawGetInt(i).(*lua.LTable); ok {
			out = append(out, tableToAnyMap(c))
		}
	}
	return out
}

func luaReward(tbl *lua.LTable) rawReward {
	if tbl == nil {
		return rawReward{}
	}
	return rawReward{
		XP:         getInt(tbl, "xp"),
		Reputation: tableToIntMap(getTable(tbl, "reputation")),
		Roster:     tableToStrings(getTable(tbl, "roster")),
		Flags:      tableToStrings(getTable(tbl, "flags")),
	}
}

// luaCase reads a Case "id" { ... } table into a rawCase.
func luaCase(id, source string, tbl *lua.LTable) rawCase {
	rc := rawCase{
		ID:          id,
		Name:        getString(tbl, "name"),
		Provider:    getString(tbl, "provider"),
		Level:       getInt(tbl, "level"),
		Description: getString(tbl, "description"),
		Available:   tableToConditions(getTable(tbl, "available")),
		Start:       tableToConditions(getTable(tbl, "start")),
		Success:     tableToConditions(getTable(tbl, "success")),
		Failure:     tableToConditions(getTable(tbl, "failure")),
		OnSuccess:   luaReward(getTable(tbl, "on_success")),
		OnFailure:   luaReward(getTable(tbl, "on_failure")),
		source:      source,
	}

	if objs := getTable(tbl, "objectives"); objs != nil {
		for i := 1; i <= objs.MaxN(); i++ {
			o, ok := objs.RawGetInt(i).(*lua.LTable)
			if !ok {
				continue
			}
			rc.Objectives = append(rc.Objectives, rawObjective{
				ID:       getString(o, "id"),
				Text:     getString(o, "text"),
				Optional: getBool(o, "optional", false),
				Activate: tableToConditions(getTable(o, "activate")),
				Complete: tableToConditions(getTable(o, "complete")),
			})
		}
	}

	if rewards := getTable(tbl, "objective_rewards"); rewards != nil {
		rc.ObjectiveRewards = map[string]rawReward{}
		rewards.ForEach(func(k, v lua.LValue) {
			ks, ok := k.(lua.LString)
			if !ok {
				return
			}
			if rt, ok := v.(*lua.LTable); ok {
				rc.ObjectiveRewards[string(ks)] = luaReward(rt)
			}
		})
	}

	return rc
}

// compileCase converts a rawCase into a CaseDef.
func compileCase(rc rawCase) (types.CaseDef, error) {
	if rc.ID == "" {
		return types.CaseDef{}, fmt.Errorf("case with empty id")
	}

	def := types.CaseDef{
		ID:               rc.ID,
		Name:             rc.Name,
		Description:      rc.Description,
		Provider:         rc.Provider,
		RecommendedLevel: rc.Level,
		OnSuccess:        compileReward(rc.OnSuccess),
		OnFailure:        compileReward(rc.OnFailure),
	}
	if def.Name == "" {
		def.Name = rc.ID
	}

	lists := []struct {
		name string
		raw  []map[string]any
		dst  *[]types.Condition
	}{
		{"available", rc.Available, &def.MakeAvailable},
		{"start", rc.Start, &def.Start},
		{"success", rc.Success, &def.Success},
		{"failure", rc.Failure, &def.Failure},
	}
	for _, l := range lists {
		conds, err := compileConditions(l.raw)
		if err != nil {
			return types.CaseDef{}, fmt.Errorf("%s: %w", l.name, err)
		}
		*l.dst = conds
	}

	seen := map[string]bool{}
	for _, ro := range rc.Objectives {
		if ro.ID == "" {
			return types.CaseDef{}, fmt.Errorf("objective with empty id")
		}
		if seen[ro.ID] {
			return types.CaseDef{}, fmt.Errorf("duplicate objective id %q", ro.ID)
		}
		seen[ro.ID] = true

		activate, err := compileConditions(ro.Activate)
		if err != nil {
			return types.CaseDef{}, fmt.Errorf("objective %s activate: %w", ro.ID, err)
		}
		complete, err := compileConditions(ro.Complete)
		if err != nil {
			return types.CaseDef{}, fmt.Errorf("objective %s complete: %w", ro.ID, err)
		}
		def.Objectives = append(def.Objectives, types.ObjectiveDef{
			ID:       ro.ID,
			Text:     ro.Text,
			Optional: ro.Optional,
			Activate: activate,
			Complete: complete,
		})
	}

	if len(rc.ObjectiveRewards) > 0 {
		def.ObjectiveRewards = make(map[string]types.RewardSet, len(rc.ObjectiveRewards))
		for id, rr := range rc.ObjectiveRewards {
			def.ObjectiveRewards[id] = compileReward(rr)
		}
	}

	return def, nil
}

// compileReward converts a rawReward. Reputation deltas are sorted by
// faction so dispatch order does not depend on map iteration.
func compileReward(rr rawReward) types.RewardSet {
	rs := types.RewardSet{
		Experience: rr.XP,
		Roster:     slices.Clone(rr.Roster),
		Flags:      slices.Clone(rr.Flags),
	}
	factions := make([]string, 0, len(rr.Reputation))
	for f := range rr.Reputation {
		factions = append(factions, f)
	}
	sort.Strings(factions)
	for _, f := range factions {
		rs.Reputation = append(rs.Reputation, types.ReputationDelta{Faction: f, Delta: rr.Reputation[f]})
	}
	return rs
}

func compileConditions(raw []map[string]any) ([]types.Condition, error) {
	var conditions []types.Condition
	for i, params := range raw {
		c, err := compileCondition(params)
		if err != nil {
			return nil, fmt.Errorf("condition %d: %w", i+1, err)
		}
		conditions = append(conditions, c)
	}
	return conditions, nil
}

// compileCondition builds the typed condition named by params["type"].
// Missing parameters are left empty; the evaluator reports them.
func compileCondition(params map[string]any) (types.Condition, error) {
	condType, _ := params["type"].(string)

	switch types.ConditionKind(condType) {
	case types.KindFlagIsSet:
		return types.FlagIsSet{Flag: str(params, "flag"), Want: boolOr(params, "value", true)}, nil

	case types.KindObjectiveCompleted:
		return types.ObjectiveIsCompleted{
			Case:      str(params, "case"),
			Objective: str(params, "objective"),
			Want:      boolOr(params, "value", true),
		}, nil

	case types.KindPlayerLevel:
		return types.PlayerLevel{Level: num(params, "level")}, nil

	case types.KindCaseStatusIs:
		status, err := parseStatus(params["status"])
		if err != nil {
			return nil, err
		}
		return types.CaseStatusIs{Case: str(params, "case"), Status: status}, nil

	case types.KindPlayerAcceptsQuestDialogue:
		return types.PlayerAcceptsQuestDialogue{}, nil

	case types.KindCaseFlagIs:
		return types.CaseFlagIs{
			Case: str(params, "case"),
			Flag: str(params, "flag"),
			Want: boolOr(params, "value", true),
		}, nil

	case types.KindSkillAtLeast:
		return types.SkillAtLeast{Skill: str(params, "skill"), Level: num(params, "level")}, nil

	default:
		return nil, fmt.Errorf("unknown condition type %q", condType)
	}
}

// parseStatus accepts a status name or its integer code.
func parseStatus(v any) (types.CaseStatus, error) {
	switch s := v.(type) {
	case string:
		if st, ok := types.ParseCaseStatus(strings.ToLower(s)); ok {
			return st, nil
		}
		return 0, fmt.Errorf("unknown case status %q", s)
	case int:
		if st := types.CaseStatus(s); st.Valid() {
			return st, nil
		}
		return 0, fmt.Errorf("case status code %d out of range", s)
	default:
		return 0, fmt.Errorf("missing or invalid case status %v", v)
	}
}

func str(params map[string]any, key string) string {
	s, _ := params[key].(string)
	return s
}

func boolOr(params map[string]any, key string, def bool) bool {
	if b, ok := params[key].(bool); ok {
		return b
	}
	return def
}

func num(params map[string]any, key string) int {
	switch n := params[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

// sortedFiles returns content files with game.lua first and the rest
// sorted alphabetically.
func sortedFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
