package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerConditionHelpers(L)
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.games = append(coll.games, rawGame{
			title:   getString(tbl, "title"),
			author:  getString(tbl, "author"),
			version: getString(tbl, "version"),
			intro:   getString(tbl, "intro"),
			source:  coll.file,
		})
		return 0
	}))

	// Case "id" { ... }: curried. Case("id") returns a function that takes a table.
	L.SetGlobal("Case", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		file := coll.file
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.cases = append(coll.cases, luaCase(id, file, tbl))
			return 0
		}))
		return 1
	}))

	// Objective "id" { ... }: curried, returns the table tagged with its id
	// so it can be listed in a case's objectives.
	L.SetGlobal("Objective", L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			tbl.RawSetString("id", lua.LString(id))
			L.Push(tbl)
			return 1
		}))
		return 1
	}))

	// Reward { xp = ..., reputation = {...}, roster = {...}, flags = {...} }
	// Pass-through, returns the table.
	L.SetGlobal("Reward", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))
}

// condition builds a condition table from alternating key/value pairs.
func condition(L *lua.LState, condType string, kv ...any) *lua.LTable {
	tbl := L.NewTable()
	tbl.RawSetString("type", lua.LString(condType))
	for i := 0; i+1 < len(kv); i += 2 {
		key := kv[i].(string)
		switch v := kv[i+1].(type) {
		case string:
			tbl.RawSetString(key, lua.LString(v))
		case bool:
			tbl.RawSetString(key, lua.LBool(v))
		case lua.LValue:
			tbl.RawSetString(key, v)
		}
	}
	return tbl
}

func registerConditionHelpers(L *lua.LState) {
	// FlagIsSet("flag" [, want])
	L.SetGlobal("FlagIsSet", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		want := L.OptBool(2, true)
		L.Push(condition(L, "flag_is_set", "flag", flag, "value", want))
		return 1
	}))

	// FlagNot("flag")
	L.SetGlobal("FlagNot", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		L.Push(condition(L, "flag_is_set", "flag", flag, "value", false))
		return 1
	}))

	// ObjectiveCompleted("objective" [, want]): objective of the owning case.
	L.SetGlobal("ObjectiveCompleted", L.NewFunction(func(L *lua.LState) int {
		obj := L.CheckString(1)
		want := L.OptBool(2, true)
		L.Push(condition(L, "objective_completed", "objective", obj, "value", want))
		return 1
	}))

	// ObjectiveCompletedIn("case", "objective" [, want])
	L.SetGlobal("ObjectiveCompletedIn", L.NewFunction(func(L *lua.LState) int {
		caseID := L.CheckString(1)
		obj := L.CheckString(2)
		want := L.OptBool(3, true)
		L.Push(condition(L, "objective_completed", "case", caseID, "objective", obj, "value", want))
		return 1
	}))

	// CaseStatusIs(status): status name or integer code of the owning case.
	L.SetGlobal("CaseStatusIs", L.NewFunction(func(L *lua.LState) int {
		status := L.CheckAny(1)
		L.Push(condition(L, "case_status_is", "status", status))
		return 1
	}))

	// CaseStatusOf("case", status)
	L.SetGlobal("CaseStatusOf", L.NewFunction(func(L *lua.LState) int {
		caseID := L.CheckString(1)
		status := L.CheckAny(2)
		L.Push(condition(L, "case_status_is", "case", caseID, "status", status))
		return 1
	}))

	// PlayerLevel(n)
	L.SetGlobal("PlayerLevel", L.NewFunction(func(L *lua.LState) int {
		level := L.CheckNumber(1)
		L.Push(condition(L, "player_level", "level", level))
		return 1
	}))

	// PlayerAcceptsQuestDialogue()
	L.SetGlobal("PlayerAcceptsQuestDialogue", L.NewFunction(func(L *lua.LState) int {
		L.Push(condition(L, "player_accepts_quest_dialogue"))
		return 1
	}))

	// CaseFlagIs("flag" [, want]): case-local flag of the owning case.
	L.SetGlobal("CaseFlagIs", L.NewFunction(func(L *lua.LState) int {
		flag := L.CheckString(1)
		want := L.OptBool(2, true)
		L.Push(condition(L, "case_flag_is", "flag", flag, "value", want))
		return 1
	}))

	// CaseFlagOf("case", "flag" [, want])
	L.SetGlobal("CaseFlagOf", L.NewFunction(func(L *lua.LState) int {
		caseID := L.CheckString(1)
		flag := L.CheckString(2)
		want := L.OptBool(3, true)
		L.Push(condition(L, "case_flag_is", "case", caseID, "flag", flag, "value", want))
		return 1
	}))

	// SkillAtLeast("skill", n)
	L.SetGlobal("SkillAtLeast", L.NewFunction(func(L *lua.LState) int {
		skill := L.CheckString(1)
		level := L.CheckNumber(2)
		L.Push(condition(L, "skill_at_least", "skill", skill, "level", level))
		return 1
	}))
}
