package session

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nathoo/casefile/types"
)

// narrate appends lead lines followed by one line per event and visible
// grant to res.Output.
func (s *Session) narrate(res types.Result, lead ...string) types.Result {
	out := append([]string(nil), lead...)
	for _, ev := range res.Events {
		if line := s.eventLine(ev); line != "" {
			out = append(out, line)
		}
	}
	for _, g := range res.Grants {
		if line := grantLine(g); line != "" {
			out = append(out, line)
		}
	}
	if res.Passes > 0 && !res.Converged {
		out = append(out, "[The casebook would not settle. See the log.]")
	}
	res.Output = append(res.Output, out...)
	return res
}

func (s *Session) eventLine(ev types.Event) string {
	switch ev.Type {
	case types.EventCaseStatusChanged:
		name := s.caseName(ev.CaseID)
		switch ev.NewCase {
		case types.CaseInactive:
			return fmt.Sprintf("New case available: %s.", name)
		case types.CaseInProgress:
			return fmt.Sprintf("Case opened: %s.", name)
		case types.CaseSuccessful:
			return fmt.Sprintf("Case closed: %s. Solved.", name)
		case types.CaseFailed:
			return fmt.Sprintf("Case closed: %s. Unsolved.", name)
		}
	case types.EventObjectiveStatusChanged:
		text := s.objectiveText(ev.CaseID, ev.ObjectiveID)
		switch ev.NewObjective {
		case types.ObjectiveActive:
			return fmt.Sprintf("New lead: %s.", text)
		case types.ObjectiveCompleted:
			return fmt.Sprintf("Lead resolved: %s.", text)
		case types.ObjectiveFailed:
			return fmt.Sprintf("Lead lost: %s.", text)
		}
	}
	return ""
}

// grantLine narrates one reward item. Flag grants are silent.
func grantLine(g types.Grant) string {
	switch g.Kind {
	case types.GrantExperience:
		return fmt.Sprintf("+%d experience.", g.Amount)
	case types.GrantReputation:
		return fmt.Sprintf("Standing with %s %+d.", DisplayName(g.Faction), g.Amount)
	case types.GrantRoster:
		return fmt.Sprintf("%s joins your circle.", DisplayName(g.Member))
	}
	return ""
}

func (s *Session) caseName(id string) string {
	if def, ok := s.Defs.Case(id); ok {
		return def.Name
	}
	return id
}

func (s *Session) objectiveText(caseID, objID string) string {
	def, ok := s.Defs.Case(caseID)
	if !ok {
		return objID
	}
	o, ok := def.Objective(objID)
	if !ok || o.Text == "" {
		return objID
	}
	return strings.TrimSuffix(o.Text, ".")
}

// DisplayName turns an id such as "lady_ashby" into "Lady Ashby".
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "_", " "))
}

// StatusLabel is the casebook label for a case status.
func StatusLabel(s types.CaseStatus) string {
	switch s {
	case types.CaseInactive:
		return "offered"
	case types.CaseInProgress:
		return "open"
	case types.CaseSuccessful:
		return "solved"
	case types.CaseFailed:
		return "unsolved"
	}
	return s.String()
}

// sentence capitalizes the first letter and ends with a period.
func sentence(s string) string {
	if s == "" {
		return s
	}
	r, n := utf8.DecodeRuneInString(s)
	s = string(unicode.ToUpper(r)) + s[n:]
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") {
		s += "."
	}
	return s
}
