package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/casefile/session"
	"github.com/nathoo/casefile/types"
)

// boardOrder is the order statuses appear in the status bar.
var boardOrder = []types.CaseStatus{
	types.CaseInProgress,
	types.CaseInactive,
	types.CaseSuccessful,
	types.CaseFailed,
}

// boardCounts renders "open 1 · offered 2 · solved 0 · unsolved 0".
func boardCounts(counts map[types.CaseStatus]int) string {
	parts := make([]string, 0, len(boardOrder))
	for _, st := range boardOrder {
		parts = append(parts, fmt.Sprintf("%s %d", session.StatusLabel(st), counts[st]))
	}
	return strings.Join(parts, " · ")
}

// renderStatusBar produces a full-width inverted status line showing
// case counts per status, experience, and turn count.
func (m Model) renderStatusBar() string {
	sum := m.session.Summary()

	left := " " + boardCounts(sum.Counts)
	right := fmt.Sprintf("XP:%d | T:%d ", sum.Experience, sum.Turn)

	// Prefix the title if it fits.
	if title := m.session.Defs.Game.Title; title != "" {
		candidate := fmt.Sprintf(" %s |%s", title, left)
		if lipgloss.Width(candidate)+lipgloss.Width(right)+2 < m.width {
			left = candidate
		}
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return styleStatusBar.Width(m.width).Render(bar)
}
