package effects

import (
	"maps"
	"slices"
	"sync"
)

// Ledger is an in-memory PlayerProgress, Factions and Roster.
type Ledger struct {
	mu         sync.Mutex
	experience int
	reputation map[string]int
	roster     []string
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{reputation: map[string]int{}}
}

// Collaborators returns c with every field backed by l.
func (l *Ledger) Collaborators() Collaborators {
	return Collaborators{Progress: l, Factions: l, Roster: l}
}

func (l *Ledger) AddExperience(amount int) {
	l.mu.Lock()
	l.experience += amount
	l.mu.Unlock()
}

func (l *Ledger) AdjustReputation(faction string, delta int) {
	l.mu.Lock()
	l.reputation[faction] += delta
	l.mu.Unlock()
}

// AddMember appends id to the roster. Members already present are ignored.
func (l *Ledger) AddMember(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if slices.Contains(l.roster, id) {
		return
	}
	l.roster = append(l.roster, id)
}

func (l *Ledger) Experience() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.experience
}

// Reputation returns a copy of every faction standing.
func (l *Ledger) Reputation() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return maps.Clone(l.reputation)
}

// Roster returns the members in join order.
func (l *Ledger) Roster() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.roster)
}
