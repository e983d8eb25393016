package main

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/pcbtest/pkg/console"
	"github.com/itohio/pcbtest/pkg/risk"
)

// showSettingsDialog displays the settings dialog.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createThresholdsTab(state),
		createTimingTab(state),
		createSerialTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(520, 380))
	d.Show()
}

func saveConfig(state *appState) {
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
	}
}

// parseThresholds reads the threshold form. Fields that do not parse keep their
// current value.
func parseThresholds(cur risk.Thresholds, humidity, solar string) (risk.Thresholds, error) {
	next := cur
	if h, err := strconv.ParseFloat(humidity, 32); err == nil {
		if math.IsNaN(h) || h < 0 || h > 100 {
			return cur, fmt.Errorf("humidity threshold %v outside 0-100 %%", h)
		}
		next.HumidityHigh = float32(h)
	}
	if s, err := strconv.ParseUint(solar, 10, 32); err == nil {
		next.SolarHigh = uint32(s)
	}
	return next, nil
}

// createThresholdsTab edits the risk limits. They apply to the running harness.
func createThresholdsTab(state *appState) *container.TabItem {
	humidityEntry := widget.NewEntry()
	humidityEntry.SetText(fmt.Sprintf("%.1f", state.cfg.Thresholds.HumidityHigh))

	solarEntry := widget.NewEntry()
	solarEntry.SetText(fmt.Sprintf("%d", state.cfg.Thresholds.SolarHigh))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Humidity limit (%)", Widget: humidityEntry},
			{Text: "Solar limit (raw)", Widget: solarEntry},
		},
		OnSubmit: func() {
			t, err := parseThresholds(state.cfg.Thresholds, humidityEntry.Text, solarEntry.Text)
			if err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			state.cfg.Thresholds = t
			state.bench.thresholds.Set(t)
			saveConfig(state)
		},
	}

	return container.NewTabItem("Thresholds", form)
}

// createTimingTab edits routine cadences. They apply on the next start.
func createTimingTab(state *appState) *container.TabItem {
	analogEntry := widget.NewEntry()
	analogEntry.SetText(state.cfg.Timing.AnalogInterval.String())

	humidityEntry := widget.NewEntry()
	humidityEntry.SetText(state.cfg.Timing.HumidityInterval.String())

	riskEntry := widget.NewEntry()
	riskEntry.SetText(state.cfg.Timing.RiskInterval.String())

	timeoutEntry := widget.NewEntry()
	timeoutEntry.SetText(state.cfg.Timing.ConversionTimeout.String())

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "ADC interval", Widget: analogEntry},
			{Text: "DHT11 interval", Widget: humidityEntry},
			{Text: "Risk interval", Widget: riskEntry},
			{Text: "Conversion timeout", Widget: timeoutEntry},
		},
		OnSubmit: func() {
			next := *state.cfg
			if d, err := time.ParseDuration(analogEntry.Text); err == nil {
				next.Timing.AnalogInterval = d
			}
			if d, err := time.ParseDuration(humidityEntry.Text); err == nil {
				next.Timing.HumidityInterval = d
			}
			if d, err := time.ParseDuration(riskEntry.Text); err == nil {
				next.Timing.RiskInterval = d
			}
			if d, err := time.ParseDuration(timeoutEntry.Text); err == nil {
				next.Timing.ConversionTimeout = d
			}
			// Rejected values never reach the running config.
			if err := next.Validate(); err != nil {
				dialog.ShowError(err, state.window)
				return
			}
			state.cfg.Timing = next.Timing
			saveConfig(state)
			dialog.ShowInformation("Timing", "New cadences apply after a restart.", state.window)
		},
	}

	return container.NewTabItem("Timing", form)
}

// createSerialTab selects the port serving the operator console.
func createSerialTab(state *appState) *container.TabItem {
	ports, err := console.Ports()
	portOptions := []string{""}
	portMap := map[string]string{"": ""}

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	portSelect.SetSelected(currentDisplay)

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Console port (empty = window)", Widget: portSelect},
			{Text: "Baud rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			state.cfg.Serial.Port = portMap[portSelect.Selected]
			if b, err := strconv.Atoi(baudEntry.Text); err == nil && b > 0 {
				state.cfg.Serial.BaudRate = b
			}
			saveConfig(state)
			dialog.ShowInformation("Serial", "The console port applies after a restart.", state.window)
		},
	}

	return container.NewTabItem("Serial", form)
}
