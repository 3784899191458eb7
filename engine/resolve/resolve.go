// Package resolve maps names typed by the player to case and objective ids.
package resolve

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/nathoo/casefile/engine/state"
	"github.com/nathoo/casefile/types"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// AmbiguityError indicates multiple cases or objectives matched a name.
type AmbiguityError struct {
	Name       string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	names := strings.Join(e.Candidates, ", ")
	return fmt.Sprintf("which %s? (%s)", e.Name, names)
}

// NotFoundError indicates nothing matched a name. Suggestions holds the
// closest ids by fuzzy match, best first.
type NotFoundError struct {
	Kind        string // "case" or "objective"
	Name        string
	Suggestions []string
}

func (e *NotFoundError) Error() string {
	msg := fmt.Sprintf("no %s called %q", e.Kind, e.Name)
	if len(e.Suggestions) > 0 {
		msg += " (did you mean " + strings.Join(e.Suggestions, ", ") + "?)"
	}
	return msg
}

// candidate is one resolvable id and its display name.
type candidate struct {
	id   string
	name string
}

// candidates implements fuzzy.Source over ids and display names.
type candidates []candidate

func (c candidates) Len() int { return len(c) }

func (c candidates) String(i int) string {
	return strings.ToLower(c[i].id + " " + c[i].name)
}

// Case resolves a case id or display name.
func Case(reg state.Registry, name string) (string, error) {
	var cs candidates
	for _, id := range reg.CaseIDs() {
		def, ok := reg.Case(id)
		if !ok {
			continue
		}
		cs = append(cs, candidate{id: id, name: def.Name})
	}
	return resolveName(cs, "case", name)
}

// Objective resolves an objective id or text within a case.
func Objective(def *types.CaseDef, name string) (string, error) {
	cs := make(candidates, 0, len(def.Objectives))
	for _, o := range def.Objectives {
		cs = append(cs, candidate{id: o.ID, name: o.Text})
	}
	return resolveName(cs, "objective", name)
}

// resolveName resolves a single name against cs.
func resolveName(cs candidates, kind, name string) (string, error) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return "", &NotFoundError{Kind: kind, Name: name}
	}

	// 1. Exact id match.
	for _, c := range cs {
		if c.id == name {
			return c.id, nil
		}
	}

	// 2. Name, word and normalized id matches.
	var matches []string
	for _, c := range cs {
		if matchesName(c, nameLower) {
			matches = append(matches, c.id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{Kind: kind, Name: name, Suggestions: suggest(cs, nameLower)}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguityError{Name: name, Candidates: matches}
	}
}

// matchesName checks if a candidate matches the query (case-insensitive).
// Supports exact name match, word-based partial match, and id match.
func matchesName(c candidate, nameLower string) bool {
	displayLower := strings.ToLower(c.name)
	// Exact match.
	if displayLower == nameLower {
		return true
	}
	// Word-based partial match: query matches any word in the name.
	// e.g. "heiress" matches "The Missing Heiress".
	for _, word := range strings.Fields(displayLower) {
		if word == nameLower {
			return true
		}
	}
	idLower := strings.ToLower(c.id)
	if idLower == nameLower {
		return true
	}
	// Underscore normalization: "missing heiress" matches id "missing_heiress".
	return strings.ReplaceAll(nameLower, " ", "_") == idLower
}

// suggest returns up to maxSuggestions ids whose id or name fuzzily match.
func suggest(cs candidates, nameLower string) []string {
	var out []string
	for _, m := range fuzzy.FindFrom(nameLower, cs) {
		id := cs[m.Index].id
		if slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
