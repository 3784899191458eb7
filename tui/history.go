// Package tui provides a Bubble Tea terminal UI for the casefile engine.
package tui

import "strings"

// History remembers submitted input for Up/Down recall and keeps the last
// game command for "again". Meta commands and repeats are recalled but never
// become the repeatable command.
type History struct {
	entries []string
	limit   int
	cursor  int // len(entries) when not navigating
	last    string
}

// NewHistory keeps at most limit entries.
func NewHistory(limit int) *History {
	return &History{limit: limit}
}

// Record stores one submitted line. Consecutive duplicates collapse.
func (h *History) Record(line string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != line {
		h.entries = append(h.entries, line)
		if over := len(h.entries) - h.limit; over > 0 {
			h.entries = h.entries[over:]
		}
	}
	h.cursor = len(h.entries)

	if !isMeta(line) && !isRepeat(line) {
		h.last = line
	}
}

// Last returns the command "again" should replay.
func (h *History) Last() (string, bool) {
	return h.last, h.last != ""
}

// Prev steps back through recorded lines, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps forward. Past the newest entry it reports false, which means
// the prompt should go back to empty input.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries)-1 {
		h.cursor = len(h.entries)
		return "", false
	}
	h.cursor++
	return h.entries[h.cursor], true
}

// ResetCursor ends navigation.
func (h *History) ResetCursor() {
	h.cursor = len(h.entries)
}

func isMeta(line string) bool {
	return strings.HasPrefix(line, "/")
}

func isRepeat(line string) bool {
	switch strings.ToLower(line) {
	case "again", "g":
		return true
	}
	return false
}
