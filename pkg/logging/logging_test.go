package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/itohio/pcbtest/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: "", want: slog.LevelInfo},
		{in: "warning", want: slog.LevelWarn},
		{in: " error ", want: slog.LevelError},
		{in: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn", Format: "json"}, &buf, "pcbtest")
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "port", "/dev/ttyUSB0")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "kept", rec["msg"])
	assert.Equal(t, "pcbtest", rec["app"])
	assert.Equal(t, "/dev/ttyUSB0", rec["port"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "info", Format: "text"}, &buf, "pcbtest")
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("menu ready")
	assert.Contains(t, buf.String(), "menu ready")
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNew_Invalid(t *testing.T) {
	_, err := New(config.LogConfig{Format: "xml"}, &bytes.Buffer{}, "pcbtest")
	assert.Error(t, err)

	_, err = New(config.LogConfig{Level: "loud"}, &bytes.Buffer{}, "pcbtest")
	assert.Error(t, err)
}
