package harness

import (
	"fmt"
	"io"
	"sort"

	"github.com/itohio/pcbtest/pkg/tick"
)

// State is the dispatcher state.
type State int

const (
	// AwaitingInput shows the menu when asked to and waits for a selection.
	AwaitingInput State = iota
	// InRoutine forwards every poll to the selected routine until it finishes.
	InRoutine
)

func (s State) String() string {
	switch s {
	case AwaitingInput:
		return "awaiting-input"
	case InRoutine:
		return "in-routine"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Action is what a menu key does.
type Action int

const (
	ActionInvalid Action = iota
	ActionRedraw
	ActionRun
)

// RedrawKey shows the menu again.
const RedrawKey byte = '0'

// Entry binds a menu key to a routine.
type Entry struct {
	Key     byte
	Label   string
	Routine Routine
}

type transition struct {
	action  Action
	routine Routine
}

// Menu is the top-level character-driven dispatcher.
type Menu struct {
	out     printer
	entries []Entry
	table   map[byte]transition

	state  State
	redraw bool
	active Routine
}

// NewMenu creates a dispatcher with the given entries. The redraw key is always
// bound; entries are listed in key order.
func NewMenu(con io.Writer, entries ...Entry) *Menu {
	sorted := append([]Entry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Key < sorted[j].Key })

	table := map[byte]transition{
		RedrawKey: {action: ActionRedraw},
	}
	for _, e := range sorted {
		if e.Key == 0 || e.Key == RedrawKey || e.Routine == nil {
			continue
		}
		table[e.Key] = transition{action: ActionRun, routine: e.Routine}
	}

	return &Menu{
		out:     printer{w: con},
		entries: sorted,
		table:   table,
		state:   AwaitingInput,
		redraw:  true,
	}
}

// State returns the current dispatcher state.
func (m *Menu) State() State { return m.state }

// NeedsRedraw reports whether the menu will be printed on the next poll.
func (m *Menu) NeedsRedraw() bool { return m.redraw }

// Active returns the running routine, or nil.
func (m *Menu) Active() Routine { return m.active }

// Lookup returns the action bound to key. A zero byte is not a key.
func (m *Menu) Lookup(key byte) Action {
	if t, ok := m.table[key]; ok {
		return t.action
	}
	return ActionInvalid
}

// Keys returns every bound key in ascending order.
func (m *Menu) Keys() []byte {
	keys := make([]byte, 0, len(m.table))
	for k := range m.table {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Step processes one poll: the current tick and the received character
// (0 when nothing arrived).
func (m *Menu) Step(now tick.Tick, in byte) {
	if m.state == InRoutine {
		if m.active.Step(now, in) == Finished {
			m.leave()
		}
		return
	}

	if m.redraw {
		m.print()
		m.redraw = false
	}

	if in == 0 {
		return
	}

	m.out.line("You entered: %c", in)

	t, ok := m.table[in]
	if !ok {
		m.out.line("ERROR: invalid menu option!")
		m.out.line("Showing menu again...")
		m.redraw = true
		return
	}

	switch t.action {
	case ActionRedraw:
		m.redraw = true
	case ActionRun:
		m.enter(now, t.routine)
	}
}

func (m *Menu) enter(now tick.Tick, r Routine) {
	if r.Enter(now) == Finished {
		return
	}
	m.active = r
	m.state = InRoutine
}

func (m *Menu) leave() {
	m.active = nil
	m.state = AwaitingInput
}

func (m *Menu) print() {
	m.out.line("Choose a module to test:")
	m.out.line("%c: Show menu again", RedrawKey)
	for _, e := range m.entries {
		if _, ok := m.table[e.Key]; !ok || e.Key == RedrawKey {
			continue
		}
		m.out.line("%c: %s", e.Key, e.Label)
	}
}
