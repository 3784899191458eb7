// Package effects implements the reward dispatcher. Apply turns a reward set
// into grants and sets reward flags; Deliver hands the remaining grants to
// the player-facing collaborators. No condition logic lives here.
package effects

import "github.com/nathoo/casefile/types"

// Source identifies the transition a reward set was dispatched for.
type Source struct {
	CaseID      string
	ObjectiveID string // empty for case-level rewards
}

// FlagSetter receives reward flags. The engine's implementation writes the
// fact store immediately and marks the re-evaluation loop dirty.
type FlagSetter interface {
	SetRewardFlag(id string)
}

// PlayerProgress receives experience.
type PlayerProgress interface {
	AddExperience(amount int)
}

// Factions receives reputation changes.
type Factions interface {
	AdjustReputation(faction string, delta int)
}

// Roster receives new members.
type Roster interface {
	AddMember(id string)
}

// Collaborators bundles the external reward sinks. Nil fields are skipped.
type Collaborators struct {
	Progress PlayerProgress
	Factions Factions
	Roster   Roster
}

// Apply dispatches a reward set once. Flags are set through flags right
// away; every item, flags included, is returned as a grant in the order
// experience, reputation, roster, flags.
func Apply(rs types.RewardSet, src Source, flags FlagSetter) []types.Grant {
	if rs.Empty() {
		return nil
	}

	var grants []types.Grant
	base := types.Grant{CaseID: src.CaseID, ObjectiveID: src.ObjectiveID}

	if rs.Experience != 0 {
		g := base
		g.Kind = types.GrantExperience
		g.Amount = rs.Experience
		grants = append(grants, g)
	}

	for _, r := range rs.Reputation {
		if r.Faction == "" || r.Delta == 0 {
			continue
		}
		g := base
		g.Kind = types.GrantReputation
		g.Faction = r.Faction
		g.Amount = r.Delta
		grants = append(grants, g)
	}

	for _, m := range rs.Roster {
		if m == "" {
			continue
		}
		g := base
		g.Kind = types.GrantRoster
		g.Member = m
		grants = append(grants, g)
	}

	for _, f := range rs.Flags {
		if f == "" {
			continue
		}
		if flags != nil {
			flags.SetRewardFlag(f)
		}
		g := base
		g.Kind = types.GrantFlag
		g.Flag = f
		grants = append(grants, g)
	}

	return grants
}

// Deliver hands experience, reputation and roster grants to the
// collaborators in order. Flag grants were already applied by Apply.
func Deliver(grants []types.Grant, c Collaborators) {
	for _, g := range grants {
		switch g.Kind {
		case types.GrantExperience:
			if c.Progress != nil {
				c.Progress.AddExperience(g.Amount)
			}
		case types.GrantReputation:
			if c.Factions != nil {
				c.Factions.AdjustReputation(g.Faction, g.Amount)
			}
		case types.GrantRoster:
			if c.Roster != nil {
				c.Roster.AddMember(g.Member)
			}
		}
	}
}
