// Package parser converts command strings into Command structs.
// Intentionally dumb: no NLP, just pattern matching.
package parser

import (
	"strings"

	"github.com/nathoo/casefile/types"
)

var verbAliases = map[string]string{
	// Global flags
	"set":   "flag",
	"raise": "flag",
	"clear": "unflag",
	"lower": "unflag",
	"reset": "unflag",

	// Case-local flags
	"cflag": "caseflag",
	"note":  "caseflag",

	// Skills
	"practice": "train",
	"study":    "train",
	"learn":    "train",

	// Dialogue
	"ask":      "talk",
	"speak":    "talk",
	"chat":     "talk",
	"converse": "talk",

	// Taking a case
	"take":   "accept",
	"agree":  "accept",
	"pursue": "accept",

	// Clues
	"find":     "clue",
	"found":    "clue",
	"discover": "clue",
	"collect":  "clue",

	// Forced transitions
	"mark": "force",

	// Listing
	"ls":       "cases",
	"list":     "cases",
	"journal":  "cases",
	"j":        "cases",
	"casebook": "cases",

	// Case detail
	"x":       "case",
	"examine": "case",
	"inspect": "case",
	"show":    "case",
	"look":    "case",
	"l":       "case",

	// Time passes
	"z":       "tick",
	"wait":    "tick",
	"refresh": "tick",
}

// phraseVerbs take free-text names; their arguments are split on the first
// preposition instead of on whitespace.
var phraseVerbs = map[string]bool{
	"talk":   true,
	"accept": true,
	"case":   true,
}

var prepositions = map[string]bool{
	"on": true, "at": true, "to": true,
	"with": true, "from": true, "for": true,
	"about": true,
}

var articles = map[string]bool{
	"the": true, "a": true, "an": true,
}

// Parse converts a raw command string into a Command.
func Parse(input string) types.Command {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Command{}
	}

	words := strings.Fields(strings.ToLower(input))

	// Handle multi-word verb phrases before general parsing.
	words = expandMultiWordVerbs(words)
	if len(words) == 0 {
		return types.Command{}
	}

	// Apply verb aliases.
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripArticles(words[1:])

	if phraseVerbs[verb] {
		object, target := splitOnPreposition(rest)
		var args []string
		if object != "" {
			args = append(args, object)
		}
		if target != "" {
			args = append(args, target)
		}
		return types.Command{Verb: verb, Args: args}
	}

	if len(rest) == 0 {
		rest = nil
	}
	return types.Command{Verb: verb, Args: rest}
}

// expandMultiWordVerbs handles "talk to", "take on", "pick up" etc.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}

	switch words[0] {
	case "look":
		if words[1] == "at" || words[1] == "into" {
			return append([]string{"case"}, words[2:]...)
		}
	case "pick":
		if words[1] == "up" {
			return append([]string{"clue"}, words[2:]...)
		}
	case "talk", "speak", "chat":
		if words[1] == "to" || words[1] == "with" {
			return append([]string{"talk"}, words[2:]...)
		}
	case "take":
		if words[1] == "on" || words[1] == "up" {
			return append([]string{"accept"}, words[2:]...)
		}
	case "set":
		if len(words) > 2 && words[1] == "skill" {
			return append([]string{"skill"}, words[2:]...)
		}
	}

	return words
}

// stripArticles removes articles ("the", "a", "an") from the word list.
func stripArticles(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !articles[w] {
			result = append(result, w)
		}
	}
	return result
}

// splitOnPreposition splits words on the first preposition.
// Words before the preposition become the object, words after become the target.
// If no preposition is found, all words become the object.
func splitOnPreposition(words []string) (object, target string) {
	for i, w := range words {
		if prepositions[w] {
			object = strings.Join(words[:i], " ")
			target = strings.Join(words[i+1:], " ")
			return object, target
		}
	}
	return strings.Join(words, " "), ""
}
