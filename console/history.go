package console

import (
	"strings"
	"sync"
)

// commandEntry is one recorded input line, tagged with the value reference
// ("$N") it produced so a later line can be traced back to the expression
// that computed it. The ARM debugger's CommandHistory had no equivalent of
// a value reference — stepping through instructions produces no numbered
// result a later command could cite.
type commandEntry struct {
	line     string
	valueRef string
}

// CommandHistory maintains a history of raw input lines for up/down
// navigation in the REPL and TUI, and a lookup from value reference back to
// the expression that produced it. Navigation mechanics are adapted from
// the ARM debugger's CommandHistory; the valueRef bookkeeping is new.
type CommandHistory struct {
	mu       sync.RWMutex
	commands []commandEntry
	maxSize  int
	position int
}

// NewCommandHistory creates a command history capped at maxSize entries.
func NewCommandHistory(maxSize int) *CommandHistory {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &CommandHistory{
		commands: make([]commandEntry, 0, 100),
		maxSize:  maxSize,
		position: 0,
	}
}

// Add records a command with no associated value reference (typically one
// that failed to evaluate), skipping empty input and exact repeats of the
// previous entry.
func (h *CommandHistory) Add(cmd string) {
	h.AddResult(cmd, "")
}

// AddResult records a command alongside the value reference it produced,
// so a later Lookup(ref) can recall which expression computed $N.
func (h *CommandHistory) AddResult(cmd, valueRef string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cmd == "" {
		return
	}
	if len(h.commands) > 0 && h.commands[len(h.commands)-1].line == cmd {
		h.position = len(h.commands)
		return
	}

	h.commands = append(h.commands, commandEntry{line: cmd, valueRef: valueRef})
	if len(h.commands) > h.maxSize {
		h.commands = h.commands[len(h.commands)-h.maxSize:]
	}
	h.position = len(h.commands)
}

// Lookup returns the expression that produced value reference ref (e.g.
// "$3"), and whether one was found.
func (h *CommandHistory) Lookup(ref string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for i := len(h.commands) - 1; i >= 0; i-- {
		if h.commands[i].valueRef == ref {
			return h.commands[i].line, true
		}
	}
	return "", false
}

// Previous moves back one entry and returns it, or "" if already at the
// start.
func (h *CommandHistory) Previous() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 || h.position == 0 {
		return ""
	}
	h.position--
	return h.commands[h.position].line
}

// Next moves forward one entry and returns it, or "" once past the end.
func (h *CommandHistory) Next() string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.commands) == 0 {
		return ""
	}
	if h.position >= len(h.commands)-1 {
		h.position = len(h.commands)
		return ""
	}
	h.position++
	return h.commands[h.position].line
}

// GetLast returns the most recently added command without moving position.
func (h *CommandHistory) GetLast() string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.commands) == 0 {
		return ""
	}
	return h.commands[len(h.commands)-1].line
}

// GetAll returns a copy of every recorded command line.
func (h *CommandHistory) GetAll() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := make([]string, len(h.commands))
	for i, c := range h.commands {
		result[i] = c.line
	}
	return result
}

// Size returns the number of recorded commands.
func (h *CommandHistory) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.commands)
}

// resolveRecall rewrites a "!$N" line into the expression that produced
// $N, via h.Lookup, so the REPL/TUI can re-run an earlier calculation
// without retyping it. Returns ok=false for any line that isn't a recall.
func resolveRecall(line string, h *CommandHistory) (string, bool) {
	if !strings.HasPrefix(line, "!$") {
		return "", false
	}
	ref := line[1:]
	return h.Lookup(ref)
}
