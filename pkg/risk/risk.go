package risk

const (
	// HumidityHigh is the relative humidity (%) at or above which mold can grow.
	HumidityHigh float32 = 75.0
	// SolarHigh is the raw solar panel reading at or below which the room counts as dark.
	SolarHigh uint32 = 2000
)

// Thresholds holds the two limits used for the mold risk verdict.
type Thresholds struct {
	HumidityHigh float32 `yaml:"humidity_high"` // %RH, inclusive lower bound for risk
	SolarHigh    uint32  `yaml:"solar_high"`    // raw ADC units, inclusive upper bound for risk
}

// Default returns the factory thresholds.
func Default() Thresholds {
	return Thresholds{
		HumidityHigh: HumidityHigh,
		SolarHigh:    SolarHigh,
	}
}

// Evaluate reports mold risk: high humidity combined with low light.
// Both comparisons include the boundary.
func (t Thresholds) Evaluate(humidity float32, lightLevel uint32) bool {
	return humidity >= t.HumidityHigh && lightLevel <= t.SolarHigh
}

// Evaluate applies the default thresholds.
func Evaluate(humidity float32, lightLevel uint32) bool {
	return Default().Evaluate(humidity, lightLevel)
}
