// Package types defines the shared data structures for the casefile engine.
// This package contains type definitions and trivial accessors only. No
// evaluation logic.
package types

// CaseStatus is the overall lifecycle status of a case.
// The integer values are the authored status codes.
type CaseStatus int

const (
	CaseUnavailable CaseStatus = iota
	CaseInactive
	CaseInProgress
	CaseSuccessful
	CaseFailed
)

var caseStatusNames = [...]string{
	CaseUnavailable: "unavailable",
	CaseInactive:    "inactive",
	CaseInProgress:  "in_progress",
	CaseSuccessful:  "successful",
	CaseFailed:      "failed",
}

func (s CaseStatus) String() string {
	if s.Valid() {
		return caseStatusNames[s]
	}
	return "invalid"
}

// Valid reports whether s is one of the defined statuses.
func (s CaseStatus) Valid() bool {
	return s >= CaseUnavailable && s <= CaseFailed
}

// Terminal reports whether no transition may leave s.
func (s CaseStatus) Terminal() bool {
	return s == CaseSuccessful || s == CaseFailed
}

// Rank is the position of s in the forward order. Successful and Failed
// share the last rank.
func (s CaseStatus) Rank() int {
	if s == CaseFailed {
		return int(CaseSuccessful)
	}
	return int(s)
}

// ParseCaseStatus maps an authored status name to a CaseStatus.
func ParseCaseStatus(name string) (CaseStatus, bool) {
	for i, n := range caseStatusNames {
		if n == name {
			return CaseStatus(i), true
		}
	}
	return CaseUnavailable, false
}

// ObjectiveStatus is the status of a single objective within a case.
type ObjectiveStatus int

const (
	ObjectiveInactive ObjectiveStatus = iota
	ObjectiveActive
	ObjectiveCompleted
	ObjectiveFailed // reserved; no rule transitions into it
)

var objectiveStatusNames = [...]string{
	ObjectiveInactive:  "inactive",
	ObjectiveActive:    "active",
	ObjectiveCompleted: "completed",
	ObjectiveFailed:    "failed",
}

func (s ObjectiveStatus) String() string {
	if s.Valid() {
		return objectiveStatusNames[s]
	}
	return "invalid"
}

// Valid reports whether s is one of the defined statuses.
func (s ObjectiveStatus) Valid() bool {
	return s >= ObjectiveInactive && s <= ObjectiveFailed
}

// Terminal reports whether no transition may leave s.
func (s ObjectiveStatus) Terminal() bool {
	return s == ObjectiveCompleted || s == ObjectiveFailed
}

// Rank is the position of s in the forward order.
func (s ObjectiveStatus) Rank() int {
	if s == ObjectiveFailed {
		return int(ObjectiveCompleted)
	}
	return int(s)
}

// ReputationDelta is a change in standing with one faction.
type ReputationDelta struct {
	Faction string
	Delta   int
}

// RewardSet is a bundle of side effects applied on a terminal transition or
// an optional objective completion.
type RewardSet struct {
	Experience int
	Reputation []ReputationDelta
	Roster     []string // new roster member ids
	Flags      []string // global flags set to true
}

// Empty reports whether applying rs would do nothing.
func (rs RewardSet) Empty() bool {
	return rs.Experience == 0 && len(rs.Reputation) == 0 &&
		len(rs.Roster) == 0 && len(rs.Flags) == 0
}

// ObjectiveDef is the immutable definition of an objective.
type ObjectiveDef struct {
	ID       string
	Text     string
	Optional bool
	Activate []Condition
	Complete []Condition
}

// CaseDef is the immutable definition of a case.
type CaseDef struct {
	ID               string
	Name             string
	Description      string
	Provider         string // NPC that offers the case
	RecommendedLevel int

	MakeAvailable []Condition
	Start         []Condition
	Success       []Condition
	Failure       []Condition

	Objectives []ObjectiveDef // ordered

	OnSuccess        RewardSet
	OnFailure        RewardSet
	ObjectiveRewards map[string]RewardSet // optional objective id → reward
}

// Objective returns the objective with the given id.
func (c *CaseDef) Objective(id string) (ObjectiveDef, bool) {
	for _, o := range c.Objectives {
		if o.ID == id {
			return o, true
		}
	}
	return ObjectiveDef{}, false
}

// GameDef holds content metadata.
type GameDef struct {
	Title   string
	Author  string
	Version string
	Intro   string
}

// EventType identifies a status notification.
type EventType string

const (
	EventCaseStatusChanged      EventType = "case_status_changed"
	EventObjectiveStatusChanged EventType = "objective_status_changed"
)

// Event is a status change notification. Only the fields matching Type are set.
type Event struct {
	Type         EventType
	CaseID       string
	ObjectiveID  string
	OldCase      CaseStatus
	NewCase      CaseStatus
	OldObjective ObjectiveStatus
	NewObjective ObjectiveStatus
	Pass         int // re-evaluation pass that produced the change; 0 = direct call
}

// GrantKind identifies one applied reward item.
type GrantKind string

const (
	GrantExperience GrantKind = "experience"
	GrantReputation GrantKind = "reputation"
	GrantRoster     GrantKind = "roster"
	GrantFlag       GrantKind = "flag"
)

// Grant records a single reward item applied by the dispatcher.
type Grant struct {
	Kind        GrantKind
	CaseID      string
	ObjectiveID string // empty for case-level rewards
	Amount      int    // experience or reputation delta
	Faction     string
	Member      string
	Flag        string
}

// Result is the output of a single engine call or driver command.
type Result struct {
	Events    []Event
	Grants    []Grant
	Passes    int
	Converged bool
	Output    []string
}

// Command is the parsed representation of a driver command.
type Command struct {
	Verb string
	Args []string
}
