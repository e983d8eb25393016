package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/pcbtest/pkg/config"
	"github.com/itohio/pcbtest/pkg/console"
	"github.com/itohio/pcbtest/pkg/screen"
	"github.com/itohio/pcbtest/pkg/tick"
)

// keyQueueSize bounds typed characters not yet read by the harness.
const keyQueueSize = 64

// appState holds the window state.
type appState struct {
	cfg        *config.Config
	configPath string
	bench      *bench
	window     fyne.Window
	powerBtn   *widget.Button
}

func runWindow(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, configPath string, clock tick.Source) error {
	application := app.NewWithID("com.itohio.pcbtest")

	window := application.NewWindow("PCB Peripheral Test")
	window.Resize(fyne.NewSize(900, 600))
	window.CenterOnScreen()

	term := newTerminal()

	var con console.Console
	var keys *console.Queue
	if cfg.Serial.Port != "" {
		s, err := openSerial(cfg)
		if err != nil {
			log.Fatalf("Failed to open console: %v", err)
		}
		defer s.Close()
		con = s
	} else {
		keys = console.NewQueue(term, keyQueueSize, cfg.Timing.ReadTimeout)
		con = keys
	}

	state := &appState{
		cfg:        cfg,
		configPath: configPath,
		bench:      newBench(cfg, con, clock),
		window:     window,
	}

	display := screen.New(state.bench.screen, screen.DefaultScale)

	if keys != nil {
		window.Canvas().SetOnTypedRune(func(r rune) {
			if r > 0x7f {
				return
			}
			if !keys.Push(byte(r)) {
				slog.Debug("key dropped, harness busy", "key", string(r))
			}
		})
	}

	window.SetContent(container.NewBorder(
		createToolbar(state),
		nil,
		container.NewCenter(display),
		nil,
		container.NewScroll(term.view),
	))

	done := make(chan error, 1)
	go func() {
		if !state.bench.bringUp(ctx) {
			done <- nil
			return
		}
		err := state.bench.run(ctx)
		done <- err
		fyne.Do(application.Quit)
	}()

	// Closing the window stops the harness.
	window.SetOnClosed(cancel)
	window.ShowAndRun()
	cancel()

	return <-done
}

// createToolbar creates the toolbar with the board power and settings buttons.
func createToolbar(state *appState) fyne.CanvasObject {
	powerBtn := widget.NewButtonWithIcon("Board", theme.MediaStopIcon(), func() {
		handlePower(state)
	})
	powerBtn.Importance = widget.HighImportance
	state.powerBtn = powerBtn

	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		showSettingsDialog(state)
	})

	return container.NewBorder(
		nil,
		nil,
		container.NewHBox(powerBtn, settingsBtn),
		nil,
		nil,
	)
}

// handlePower toggles simulated board power.
func handlePower(state *appState) {
	on, err := state.bench.togglePower()
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to toggle board power: %w", err), state.window)
		return
	}

	if on {
		state.powerBtn.SetIcon(theme.MediaStopIcon())
		state.powerBtn.Importance = widget.HighImportance
		slog.Info("board powered")
	} else {
		state.powerBtn.SetIcon(theme.MediaPlayIcon())
		state.powerBtn.Importance = widget.MediumImportance
		slog.Info("board unpowered")
	}
	state.powerBtn.Refresh()
}
