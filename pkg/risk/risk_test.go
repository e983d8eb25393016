package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		humidity float32
		light    uint32
		want     bool
	}{
		{"both at boundary", 75.0, 2000, true},
		{"humidity just below", 74.999, 2000, false},
		{"light just above", 75.0, 2001, false},
		{"saturated and dark", 100.0, 0, true},
		{"dry and dark", 40.0, 0, false},
		{"humid and bright", 90.0, 4095, false},
		{"dry and bright", 10.0, 4095, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.humidity, tt.light))
		})
	}
}

func TestDefault(t *testing.T) {
	th := Default()
	assert.Equal(t, float32(75.0), th.HumidityHigh)
	assert.Equal(t, uint32(2000), th.SolarHigh)
}

func TestThresholds_Custom(t *testing.T) {
	th := Thresholds{HumidityHigh: 60, SolarHigh: 500}

	assert.True(t, th.Evaluate(60, 500))
	assert.False(t, th.Evaluate(59.9, 500))
	assert.False(t, th.Evaluate(60, 501))
}
