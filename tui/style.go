package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleText = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleCase = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleLead = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleReward = lipgloss.NewStyle().
			Foreground(lipgloss.Color("114"))

	styleDialogue = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("34"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindText lineKind = iota
	kindCase
	kindLead
	kindReward
	kindDialogue
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "Case opened:"),
		strings.HasPrefix(line, "Case closed:"),
		strings.HasPrefix(line, "New case available:"):
		return kindCase
	case strings.HasPrefix(line, "New lead:"),
		strings.HasPrefix(line, "Lead resolved:"),
		strings.HasPrefix(line, "Lead lost:"):
		return kindLead
	case strings.HasPrefix(line, "+"),
		strings.HasPrefix(line, "Standing with "),
		strings.HasSuffix(line, " joins your circle."):
		return kindReward
	case strings.Contains(line, " has a case for you: "),
		strings.HasSuffix(line, " has nothing for you right now."):
		return kindDialogue
	case strings.HasPrefix(line, "No case called"),
		strings.HasPrefix(line, "No objective called"),
		strings.HasPrefix(line, "Which "),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "I don't know how"):
		return kindError
	default:
		return kindText
	}
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
