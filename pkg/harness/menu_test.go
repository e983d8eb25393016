package harness

import (
	"testing"

	"github.com/itohio/pcbtest/pkg/console"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var menuLines = []string{
	"Choose a module to test:",
	"0: Show menu again",
	"1: Test only DHT11",
	"2: Test only OLED (SPI2)",
	"3: Test only Solar panel (ADC1 CH1)",
	"4: Evaluate mold risk",
}

func newTestMenu(con *console.Script) (*Menu, map[byte]*stubRoutine) {
	stubs := map[byte]*stubRoutine{
		'1': {name: "DHT11", finishOn: 'q'},
		'2': {name: "OLED", enter: Finished},
		'3': {name: "ADC", finishOn: 'q'},
		'4': {name: "Mold risk", finishOn: 'q'},
	}
	m := NewMenu(con,
		Entry{Key: '3', Label: "Test only Solar panel (ADC1 CH1)", Routine: stubs['3']},
		Entry{Key: '1', Label: "Test only DHT11", Routine: stubs['1']},
		Entry{Key: '4', Label: "Evaluate mold risk", Routine: stubs['4']},
		Entry{Key: '2', Label: "Test only OLED (SPI2)", Routine: stubs['2']},
	)
	return m, stubs
}

func TestMenu_InitialRedraw(t *testing.T) {
	con := console.NewScript()
	m, _ := newTestMenu(con)

	assert.True(t, m.NeedsRedraw())
	assert.Equal(t, AwaitingInput, m.State())

	m.Step(0, 0)
	assert.Equal(t, menuLines, con.Lines())
	assert.False(t, m.NeedsRedraw())

	con.Reset()
	m.Step(1, 0)
	assert.Empty(t, con.Output(), "no input and no redraw must print nothing")
}

func TestMenu_InvalidOption(t *testing.T) {
	tests := []struct {
		name string
		key  byte
	}{
		{name: "digit", key: '9'},
		{name: "letter", key: 'x'},
		{name: "quit outside routine", key: 'q'},
		{name: "newline", key: '\n'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			con := console.NewScript()
			m, _ := newTestMenu(con)
			m.Step(0, 0)
			con.Reset()

			m.Step(1, tt.key)
			assert.Equal(t, []string{
				"You entered: " + string(tt.key),
				"ERROR: invalid menu option!",
				"Showing menu again...",
			}, con.Lines())
			assert.True(t, m.NeedsRedraw())
			assert.Equal(t, AwaitingInput, m.State())

			con.Reset()
			m.Step(2, 0)
			assert.Equal(t, menuLines, con.Lines())
		})
	}
}

func TestMenu_RedrawKey(t *testing.T) {
	con := console.NewScript()
	m, _ := newTestMenu(con)
	m.Step(0, 0)
	con.Reset()

	m.Step(1, '0')
	assert.Equal(t, []string{"You entered: 0"}, con.Lines())
	assert.True(t, m.NeedsRedraw())

	con.Reset()
	m.Step(2, 0)
	assert.Equal(t, menuLines, con.Lines())
}

func TestMenu_RunsRoutineUntilFinished(t *testing.T) {
	con := console.NewScript()
	m, stubs := newTestMenu(con)
	m.Step(0, 0)

	m.Step(1, '1')
	require.Equal(t, InRoutine, m.State())
	assert.Equal(t, stubs['1'], m.Active())
	assert.Equal(t, 1, stubs['1'].entered)

	con.Reset()
	// Menu keys go to the routine, not the dispatcher.
	m.Step(2, '3')
	m.Step(3, 0)
	assert.Equal(t, 2, stubs['1'].steps)
	assert.Zero(t, stubs['3'].entered)
	assert.Empty(t, con.Output())

	m.Step(4, 'q')
	assert.Equal(t, AwaitingInput, m.State())
	assert.Nil(t, m.Active())
	assert.False(t, m.NeedsRedraw(), "menu is not redrawn after a routine returns")

	con.Reset()
	m.Step(5, 0)
	assert.Empty(t, con.Output())
}

func TestMenu_RoutineFinishedOnEnter(t *testing.T) {
	con := console.NewScript()
	m, stubs := newTestMenu(con)
	m.Step(0, 0)

	m.Step(1, '2')
	assert.Equal(t, 1, stubs['2'].entered)
	assert.Zero(t, stubs['2'].steps)
	assert.Equal(t, AwaitingInput, m.State())
	assert.Nil(t, m.Active())
}

func TestMenu_Table(t *testing.T) {
	m, _ := newTestMenu(console.NewScript())

	assert.Equal(t, []byte{'0', '1', '2', '3', '4'}, m.Keys())
	assert.Equal(t, ActionRedraw, m.Lookup('0'))
	assert.Equal(t, ActionRun, m.Lookup('4'))
	assert.Equal(t, ActionInvalid, m.Lookup('5'))
	assert.Equal(t, ActionInvalid, m.Lookup(0))
}

func TestMenu_SkipsUnboundEntries(t *testing.T) {
	con := console.NewScript()
	m := NewMenu(con,
		Entry{Key: '0', Label: "shadowed", Routine: &stubRoutine{}},
		Entry{Key: '5', Label: "missing routine"},
		Entry{Key: '1', Label: "only", Routine: &stubRoutine{finishOn: 'q'}},
	)

	assert.Equal(t, []byte{'0', '1'}, m.Keys())
	m.Step(0, 0)
	assert.Equal(t, []string{
		"Choose a module to test:",
		"0: Show menu again",
		"1: only",
	}, con.Lines())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "awaiting-input", AwaitingInput.String())
	assert.Equal(t, "in-routine", InRoutine.String())
	assert.Equal(t, "state(7)", State(7).String())
	assert.Equal(t, "running", Running.String())
	assert.Equal(t, "finished", Finished.String())
}
