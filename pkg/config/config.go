package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/pcbtest/pkg/risk"
)

// Config represents the application configuration.
type Config struct {
	Serial     SerialConfig    `yaml:"serial"`
	Thresholds risk.Thresholds `yaml:"thresholds"`
	Timing     TimingConfig    `yaml:"timing"`
	Display    DisplayConfig   `yaml:"display"`
	Log        LogConfig       `yaml:"log"`
	Mock       MockConfig      `yaml:"mock"`
}

// SerialConfig contains operator console port configuration.
// An empty port means the host console (stdin/stdout) is used.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// TimingConfig contains routine cadences and poll timeouts.
type TimingConfig struct {
	AnalogInterval    time.Duration `yaml:"analog_interval"`    // ADC polling test cadence
	HumidityInterval  time.Duration `yaml:"humidity_interval"`  // DHT11 needs at least ~1 s between reads
	RiskInterval      time.Duration `yaml:"risk_interval"`      // Mold risk evaluation cadence
	ConversionTimeout time.Duration `yaml:"conversion_timeout"` // Bounded wait for a polled ADC conversion
	ReadTimeout       time.Duration `yaml:"read_timeout"`       // Bounded wait for one console character
	TickOffset        uint32        `yaml:"tick_offset"`        // Initial tick value, lets the wrap point be reached quickly
}

// DisplayConfig contains display geometry and the fixed test string.
type DisplayConfig struct {
	Width      int16  `yaml:"width"`
	Height     int16  `yaml:"height"`
	TestString string `yaml:"test_string"`
}

// LogConfig contains diagnostic logging options.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text (tint) or json
}

// MockConfig contains simulated board parameters.
type MockConfig struct {
	Temperature        float32       `yaml:"temperature"`         // Base temperature (°C)
	Humidity           float32       `yaml:"humidity"`            // Base relative humidity (%)
	HumiditySwing      float32       `yaml:"humidity_swing"`      // Peak deviation from base humidity (%)
	HumidityPeriod     time.Duration `yaml:"humidity_period"`     // Period of the humidity wave
	LightMin           uint32        `yaml:"light_min"`           // Darkest solar panel reading
	LightMax           uint32        `yaml:"light_max"`           // Brightest solar panel reading
	LightPeriod        time.Duration `yaml:"light_period"`        // Simulated day length
	NoiseLevel         float32       `yaml:"noise_level"`         // Relative noise amplitude (0-1)
	ConversionInterval time.Duration `yaml:"conversion_interval"` // Period of conversion-complete interrupts
	ConversionDelay    time.Duration `yaml:"conversion_delay"`    // Time a polled conversion takes
	FailEvery          int           `yaml:"fail_every"`          // Every Nth hygrometer read fails (0 = never)
}

// MinHumidityInterval is the shortest spacing between DHT11 reads the sensor tolerates.
const MinHumidityInterval = time.Second

// Millis converts a duration to whole milliseconds for the tick gate.
func Millis(d time.Duration) uint32 {
	if d <= 0 {
		return 0
	}
	return uint32(d / time.Millisecond)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "", // Host console; set to e.g. "/dev/ttyUSB0" to serve the menu over a serial port
			BaudRate: 115200,
		},
		Thresholds: risk.Default(),
		Timing: TimingConfig{
			AnalogInterval:    200 * time.Millisecond,
			HumidityInterval:  1100 * time.Millisecond,
			RiskInterval:      1000 * time.Millisecond,
			ConversionTimeout: 10 * time.Millisecond,
			ReadTimeout:       1 * time.Millisecond,
			TickOffset:        0,
		},
		Display: DisplayConfig{
			Width:      96,
			Height:     64,
			TestString: "Monica's OLED!",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Mock: MockConfig{
			Temperature:        22.0,
			Humidity:           70.0,
			HumiditySwing:      10.0,
			HumidityPeriod:     60 * time.Second,
			LightMin:           300,
			LightMax:           3800,
			LightPeriod:        2 * time.Minute,
			NoiseLevel:         0.01,
			ConversionInterval: 50 * time.Millisecond,
			ConversionDelay:    2 * time.Millisecond,
			FailEvery:          0,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values the harness cannot run with.
func (c *Config) Validate() error {
	h := float64(c.Thresholds.HumidityHigh)
	if math.IsNaN(h) || h < 0 || h > 100 {
		return fmt.Errorf("thresholds.humidity_high out of range: %v", c.Thresholds.HumidityHigh)
	}
	if c.Timing.HumidityInterval < MinHumidityInterval {
		return fmt.Errorf("timing.humidity_interval %v below the sensor minimum of %v",
			c.Timing.HumidityInterval, MinHumidityInterval)
	}
	cadences := []struct {
		name string
		d    time.Duration
	}{
		{"timing.analog_interval", c.Timing.AnalogInterval},
		{"timing.risk_interval", c.Timing.RiskInterval},
	}
	for _, cd := range cadences {
		// The tick gate counts whole milliseconds; anything shorter fires on every poll.
		if cd.d < time.Millisecond {
			return fmt.Errorf("%s must be at least 1ms, got %v", cd.name, cd.d)
		}
	}
	if c.Timing.ConversionTimeout < 0 || c.Timing.ReadTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	if c.Mock.LightMin > c.Mock.LightMax {
		return fmt.Errorf("mock.light_min (%d) above mock.light_max (%d)", c.Mock.LightMin, c.Mock.LightMax)
	}
	if c.Display.Width <= 0 || c.Display.Height <= 0 {
		return fmt.Errorf("invalid display size %dx%d", c.Display.Width, c.Display.Height)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q (allowed: text, json)", c.Log.Format)
	}
	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
// Thresholds are left alone: Load starts from Default, so an omitted threshold
// keeps its default and an explicit 0 is a valid limit.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Timing.AnalogInterval == 0 {
		c.Timing.AnalogInterval = def.Timing.AnalogInterval
	}
	if c.Timing.HumidityInterval == 0 {
		c.Timing.HumidityInterval = def.Timing.HumidityInterval
	}
	if c.Timing.RiskInterval == 0 {
		c.Timing.RiskInterval = def.Timing.RiskInterval
	}
	if c.Timing.ConversionTimeout == 0 {
		c.Timing.ConversionTimeout = def.Timing.ConversionTimeout
	}
	if c.Timing.ReadTimeout == 0 {
		c.Timing.ReadTimeout = def.Timing.ReadTimeout
	}

	if c.Display.Width == 0 {
		c.Display.Width = def.Display.Width
	}
	if c.Display.Height == 0 {
		c.Display.Height = def.Display.Height
	}
	if c.Display.TestString == "" {
		c.Display.TestString = def.Display.TestString
	}

	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}

	if c.Mock.HumidityPeriod == 0 {
		c.Mock.HumidityPeriod = def.Mock.HumidityPeriod
	}
	if c.Mock.LightPeriod == 0 {
		c.Mock.LightPeriod = def.Mock.LightPeriod
	}
	if c.Mock.LightMax == 0 {
		c.Mock.LightMax = def.Mock.LightMax
	}
	if c.Mock.ConversionInterval == 0 {
		c.Mock.ConversionInterval = def.Mock.ConversionInterval
	}
}
