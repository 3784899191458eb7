package types

// ConditionKind names a trigger condition variant.
type ConditionKind string

const (
	KindFlagIsSet                  ConditionKind = "flag_is_set"
	KindObjectiveCompleted         ConditionKind = "objective_completed"
	KindPlayerLevel                ConditionKind = "player_level"
	KindCaseStatusIs               ConditionKind = "case_status_is"
	KindPlayerAcceptsQuestDialogue ConditionKind = "player_accepts_quest_dialogue"
	KindCaseFlagIs                 ConditionKind = "case_flag_is"
	KindSkillAtLeast               ConditionKind = "skill_at_least"
)

// Condition is one authored trigger predicate. Each kind is its own struct.
type Condition interface {
	Kind() ConditionKind
}

// FlagIsSet holds when the global flag equals Want.
type FlagIsSet struct {
	Flag string
	Want bool
}

// ObjectiveIsCompleted holds when (objective is Completed) equals Want.
// An empty Case means the evaluation context case.
type ObjectiveIsCompleted struct {
	Case      string
	Objective string
	Want      bool
}

// PlayerLevel is a placeholder: player levels do not exist yet.
type PlayerLevel struct {
	Level int
}

// CaseStatusIs holds when the case's overall status equals Status.
// An empty Case means the evaluation context case.
type CaseStatusIs struct {
	Case   string
	Status CaseStatus
}

// PlayerAcceptsQuestDialogue marks a list as gated by the player accepting
// the case in dialogue. The accept event is what triggers evaluation.
type PlayerAcceptsQuestDialogue struct{}

// CaseFlagIs holds when the case-local flag equals Want.
// An empty Case means the evaluation context case.
type CaseFlagIs struct {
	Case string
	Flag string
	Want bool
}

// SkillAtLeast holds when the named skill is at least Level.
type SkillAtLeast struct {
	Skill string
	Level int
}

func (FlagIsSet) Kind() ConditionKind                  { return KindFlagIsSet }
func (ObjectiveIsCompleted) Kind() ConditionKind       { return KindObjectiveCompleted }
func (PlayerLevel) Kind() ConditionKind                { return KindPlayerLevel }
func (CaseStatusIs) Kind() ConditionKind               { return KindCaseStatusIs }
func (PlayerAcceptsQuestDialogue) Kind() ConditionKind { return KindPlayerAcceptsQuestDialogue }
func (CaseFlagIs) Kind() ConditionKind                 { return KindCaseFlagIs }
func (SkillAtLeast) Kind() ConditionKind               { return KindSkillAtLeast }
