// Package harness implements the interactive peripheral test loop: a character
// driven menu dispatching into cooperative, tick-paced test routines.
package harness

// Menu keys of the standard harness.
const (
	KeyHumidity byte = '1'
	KeyDisplay  byte = '2'
	KeyAnalog   byte = '3'
	KeyRisk     byte = '4'
)

// Options configures the standard harness.
type Options struct {
	Timing      Timing
	DisplayText string
}

// DefaultOptions returns the standard cadences and display text.
func DefaultOptions() Options {
	return Options{
		Timing:      DefaultTiming(),
		DisplayText: "Monica's OLED!",
	}
}

// New wires the four test routines into a menu.
func New(p Peripherals, opts Options) *Menu {
	t := opts.Timing
	return NewMenu(p.Console,
		Entry{
			Key:     KeyHumidity,
			Label:   "Test only DHT11",
			Routine: NewHumidityTest(p.Console, p.Display, p.Hygrometer, t.HumidityEvery),
		},
		Entry{
			Key:     KeyDisplay,
			Label:   "Test only OLED (SPI2)",
			Routine: NewDisplayTest(p.Console, p.Display, opts.DisplayText),
		},
		Entry{
			Key:     KeyAnalog,
			Label:   "Test only Solar panel (ADC1 CH1)",
			Routine: NewAnalogTest(p.Console, p.ADC, t.AnalogEvery, t.ConversionTimeout),
		},
		Entry{
			Key:     KeyRisk,
			Label:   "Evaluate mold risk",
			Routine: NewRiskTest(p.Console, p.Display, p.Sensors, p.Evaluator, t.RiskEvery),
		},
	)
}
