package parser

import (
	"slices"
	"testing"

	"github.com/nathoo/casefile/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Command
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Command{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Command{},
		},

		// Bare verbs
		{
			name:  "cases",
			input: "cases",
			want:  types.Command{Verb: "cases"},
		},
		{
			name:  "tick",
			input: "tick",
			want:  types.Command{Verb: "tick"},
		},

		// Verb aliases
		{
			name:  "ls → cases",
			input: "ls",
			want:  types.Command{Verb: "cases"},
		},
		{
			name:  "z → tick",
			input: "z",
			want:  types.Command{Verb: "tick"},
		},
		{
			name:  "set ready → flag ready",
			input: "set ready",
			want:  types.Command{Verb: "flag", Args: []string{"ready"}},
		},
		{
			name:  "clear ready → unflag ready",
			input: "clear ready",
			want:  types.Command{Verb: "unflag", Args: []string{"ready"}},
		},
		{
			name:  "practice logic 2 → train",
			input: "practice logic 2",
			want:  types.Command{Verb: "train", Args: []string{"logic", "2"}},
		},
		{
			name:  "find → clue",
			input: "find heiress letter letter_found",
			want:  types.Command{Verb: "clue", Args: []string{"heiress", "letter", "letter_found"}},
		},

		// Case-sensitivity
		{
			name:  "uppercase input",
			input: "FLAG Ready",
			want:  types.Command{Verb: "flag", Args: []string{"ready"}},
		},

		// Positional arguments
		{
			name:  "caseflag with value",
			input: "caseflag heiress letter_found off",
			want:  types.Command{Verb: "caseflag", Args: []string{"heiress", "letter_found", "off"}},
		},
		{
			name:  "force status",
			input: "force heiress successful",
			want:  types.Command{Verb: "force", Args: []string{"heiress", "successful"}},
		},
		{
			name:  "set skill → skill",
			input: "set skill logic 3",
			want:  types.Command{Verb: "skill", Args: []string{"logic", "3"}},
		},

		// Phrase verbs
		{
			name:  "case with multi-word name",
			input: "case the missing heiress",
			want:  types.Command{Verb: "case", Args: []string{"missing heiress"}},
		},
		{
			name:  "look at → case",
			input: "look at the forged will",
			want:  types.Command{Verb: "case", Args: []string{"forged will"}},
		},
		{
			name:  "talk to inspector",
			input: "talk to the inspector",
			want:  types.Command{Verb: "talk", Args: []string{"inspector"}},
		},
		{
			name:  "accept from npc",
			input: "accept missing heiress from inspector",
			want:  types.Command{Verb: "accept", Args: []string{"missing heiress", "inspector"}},
		},
		{
			name:  "take on → accept",
			input: "take on the heiress",
			want:  types.Command{Verb: "accept", Args: []string{"heiress"}},
		},
		{
			name:  "pick up → clue",
			input: "pick up heiress letter",
			want:  types.Command{Verb: "clue", Args: []string{"heiress", "letter"}},
		},
		{
			name:  "bare talk",
			input: "talk",
			want:  types.Command{Verb: "talk"},
		},

		// Unknown verbs pass through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  types.Command{Verb: "dance", Args: []string{"wildly"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Verb != tt.want.Verb {
				t.Errorf("Verb = %q, want %q", got.Verb, tt.want.Verb)
			}
			if !slices.Equal(got.Args, tt.want.Args) {
				t.Errorf("Args = %q, want %q", got.Args, tt.want.Args)
			}
		})
	}
}
