package state

import (
	"testing"

	"github.com/nathoo/casefile/types"
)

func testCases() []types.CaseDef {
	return []types.CaseDef{
		{
			ID:       "heiress",
			Name:     "The Missing Heiress",
			Provider: "inspector",
			Objectives: []types.ObjectiveDef{
				{ID: "letter"},
				{ID: "diary", Optional: true},
			},
		},
		{ID: "forgery", Name: "The Forged Will", Provider: "solicitor"},
		{ID: "heiress", Name: "Duplicate Heiress"},
		{ID: "docks", Name: "Trouble at the Docks", Provider: "inspector"},
	}
}

func TestNewDefs_FirstRegistrationWins(t *testing.T) {
	defs := NewDefs(types.GameDef{}, testCases(), nil)

	if len(defs.Order) != 3 {
		t.Fatalf("expected 3 registered cases, got %d (%v)", len(defs.Order), defs.Order)
	}
	c, ok := defs.Case("heiress")
	if !ok {
		t.Fatal("expected heiress to be registered")
	}
	if c.Name != "The Missing Heiress" {
		t.Errorf("Name = %q, want first definition", c.Name)
	}
}

func TestNewDefs_KeepsRegistrationOrder(t *testing.T) {
	defs := NewDefs(types.GameDef{}, testCases(), nil)

	want := []string{"heiress", "forgery", "docks"}
	for i, id := range defs.CaseIDs() {
		if id != want[i] {
			t.Errorf("CaseIDs()[%d] = %q, want %q", i, id, want[i])
		}
	}
}

func TestDefs_ProvidedBy(t *testing.T) {
	defs := NewDefs(types.GameDef{}, testCases(), nil)

	got := defs.ProvidedBy("inspector")
	if len(got) != 2 || got[0] != "heiress" || got[1] != "docks" {
		t.Errorf("ProvidedBy(inspector) = %v", got)
	}
	if got := defs.ProvidedBy("nobody"); len(got) != 0 {
		t.Errorf("ProvidedBy(nobody) = %v, want empty", got)
	}
}

func TestFacts_UnsetDefaults(t *testing.T) {
	f := NewFacts()

	if f.Flag("nonexistent") {
		t.Error("expected unset flag to be false")
	}
	if got := f.Skill("logic"); got != 0 {
		t.Errorf("expected unset skill 0, got %d", got)
	}
}

func TestFacts_SetFlagReportsChange(t *testing.T) {
	f := NewFacts()

	if !f.SetFlag("ready", true) {
		t.Error("expected first set to report a change")
	}
	if f.SetFlag("ready", true) {
		t.Error("expected same-value set to report no change")
	}
	if f.SetFlag("other", false) {
		t.Error("expected false on unset flag to report no change")
	}
	if !f.Flag("ready") {
		t.Error("expected ready to be true")
	}
}

func TestFacts_ModifySkill(t *testing.T) {
	f := NewFacts()
	f.SetSkill("logic", 2)

	if got := f.ModifySkill("logic", 3); got != 5 {
		t.Errorf("ModifySkill = %d, want 5", got)
	}
	if got := f.ModifySkill("empathy", -1); got != -1 {
		t.Errorf("ModifySkill on unset = %d, want -1", got)
	}
}

func TestFacts_SetFlagNamesSorted(t *testing.T) {
	f := NewFacts()
	f.SetFlag("b", true)
	f.SetFlag("a", true)
	f.SetFlag("c", false)

	got := f.SetFlagNames()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("SetFlagNames() = %v", got)
	}
}

func TestProgress_LazyEntry(t *testing.T) {
	p := NewProgress()
	def := &testCases()[0]

	if _, ok := p.Lookup(def.ID); ok {
		t.Fatal("expected no entry before first reference")
	}
	e := p.Entry(def)
	if e.Status != types.CaseUnavailable {
		t.Errorf("Status = %v, want unavailable", e.Status)
	}
	if len(e.Objectives) != 2 {
		t.Errorf("expected 2 objectives, got %d", len(e.Objectives))
	}
	for id, s := range e.Objectives {
		if s != types.ObjectiveInactive {
			t.Errorf("objective %s = %v, want inactive", id, s)
		}
	}
	if p.Entry(def) != e {
		t.Error("expected the same entry on second reference")
	}
}

func TestProgress_UnknownDefaults(t *testing.T) {
	p := NewProgress()

	if got := p.CaseStatus("ghost"); got != types.CaseUnavailable {
		t.Errorf("CaseStatus(ghost) = %v", got)
	}
	if got := p.ObjectiveStatus("ghost", "o"); got != types.ObjectiveInactive {
		t.Errorf("ObjectiveStatus(ghost) = %v", got)
	}
	if p.CaseFlag("ghost", "f") {
		t.Error("expected unknown case flag to be false")
	}
}

func TestEntry_SetStatusMonotone(t *testing.T) {
	tests := []struct {
		from    types.CaseStatus
		to      types.CaseStatus
		changed bool
	}{
		{types.CaseUnavailable, types.CaseInactive, true},
		{types.CaseUnavailable, types.CaseInProgress, true},
		{types.CaseInactive, types.CaseInProgress, true},
		{types.CaseInProgress, types.CaseSuccessful, true},
		{types.CaseInProgress, types.CaseFailed, true},
		{types.CaseInProgress, types.CaseInProgress, false},
		{types.CaseInProgress, types.CaseInactive, false},
		{types.CaseSuccessful, types.CaseFailed, false},
		{types.CaseFailed, types.CaseSuccessful, false},
		{types.CaseInactive, types.CaseStatus(42), false},
	}
	for _, tt := range tests {
		e := &Entry{Status: tt.from}
		old, changed := e.SetStatus(tt.to)
		if changed != tt.changed {
			t.Errorf("%v -> %v: changed = %v, want %v", tt.from, tt.to, changed, tt.changed)
		}
		if old != tt.from {
			t.Errorf("%v -> %v: old = %v", tt.from, tt.to, old)
		}
		if !changed && e.Status != tt.from {
			t.Errorf("%v -> %v: status mutated to %v on refused transition", tt.from, tt.to, e.Status)
		}
	}
}

func TestEntry_SetObjectiveMonotone(t *testing.T) {
	e := &Entry{Objectives: map[string]types.ObjectiveStatus{"o": types.ObjectiveInactive}}

	if _, ok := e.SetObjective("o", types.ObjectiveActive); !ok {
		t.Error("expected inactive -> active")
	}
	if _, ok := e.SetObjective("o", types.ObjectiveInactive); ok {
		t.Error("expected active -> inactive to be refused")
	}
	if _, ok := e.SetObjective("o", types.ObjectiveCompleted); !ok {
		t.Error("expected active -> completed")
	}
	if _, ok := e.SetObjective("o", types.ObjectiveFailed); ok {
		t.Error("expected completed -> failed to be refused")
	}
	if _, ok := e.SetObjective("missing", types.ObjectiveActive); ok {
		t.Error("expected unknown objective to be a no-op")
	}
}

func TestProgress_SnapshotIsCopy(t *testing.T) {
	p := NewProgress()
	def := &testCases()[0]
	e := p.Entry(def)
	e.SetFlag("letter_found", true)

	snap, ok := p.Snapshot(def.ID)
	if !ok {
		t.Fatal("expected snapshot")
	}
	snap.Flags["letter_found"] = false
	snap.Objectives["letter"] = types.ObjectiveCompleted

	if !p.CaseFlag(def.ID, "letter_found") {
		t.Error("snapshot mutation leaked into progress flags")
	}
	if p.ObjectiveStatus(def.ID, "letter") != types.ObjectiveInactive {
		t.Error("snapshot mutation leaked into objectives")
	}
}
