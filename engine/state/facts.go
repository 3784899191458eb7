package state

import (
	"maps"
	"slices"
)

// Facts is the global fact store: boolean flags and skill levels.
// Unset flags read false, unset skills read 0.
type Facts struct {
	flags  map[string]bool
	skills map[string]int
}

// NewFacts creates an empty fact store.
func NewFacts() *Facts {
	return &Facts{
		flags:  map[string]bool{},
		skills: map[string]int{},
	}
}

// Flag returns the value of a global flag.
func (f *Facts) Flag(id string) bool {
	return f.flags[id]
}

// SetFlag stores a global flag and reports whether its value changed.
func (f *Facts) SetFlag(id string, value bool) bool {
	old := f.flags[id]
	f.flags[id] = value
	return old != value
}

// Skill returns the level of a skill.
func (f *Facts) Skill(name string) int {
	return f.skills[name]
}

// SetSkill stores a skill level and reports whether it changed.
func (f *Facts) SetSkill(name string, level int) bool {
	old := f.skills[name]
	f.skills[name] = level
	return old != level
}

// ModifySkill adds delta to a skill and returns the new level.
func (f *Facts) ModifySkill(name string, delta int) int {
	f.skills[name] += delta
	return f.skills[name]
}

// Flags returns a copy of every stored flag.
func (f *Facts) Flags() map[string]bool {
	return maps.Clone(f.flags)
}

// Skills returns a copy of every stored skill level.
func (f *Facts) Skills() map[string]int {
	return maps.Clone(f.skills)
}

// SetFlagNames returns the sorted names of flags currently true.
func (f *Facts) SetFlagNames() []string {
	var names []string
	for name, v := range f.flags {
		if v {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
