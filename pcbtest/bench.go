package main

import (
	"context"
	"log/slog"
	"sync"

	"github.com/itohio/pcbtest/pkg/board"
	"github.com/itohio/pcbtest/pkg/config"
	"github.com/itohio/pcbtest/pkg/console"
	"github.com/itohio/pcbtest/pkg/fb"
	"github.com/itohio/pcbtest/pkg/harness"
	"github.com/itohio/pcbtest/pkg/latch"
	"github.com/itohio/pcbtest/pkg/risk"
	"github.com/itohio/pcbtest/pkg/sensor"
	"github.com/itohio/pcbtest/pkg/tick"
)

// thresholds lets the settings dialog change the risk limits while a test runs.
type thresholds struct {
	mu sync.RWMutex
	t  risk.Thresholds
}

func (th *thresholds) Set(t risk.Thresholds) {
	th.mu.Lock()
	defer th.mu.Unlock()
	th.t = t
}

func (th *thresholds) Get() risk.Thresholds {
	th.mu.RLock()
	defer th.mu.RUnlock()
	return th.t
}

func (th *thresholds) Evaluate(humidity float32, lightLevel uint32) bool {
	return th.Get().Evaluate(humidity, lightLevel)
}

// timingFromConfig converts configured durations to tick cadences.
func timingFromConfig(cfg config.TimingConfig) harness.Timing {
	return harness.Timing{
		AnalogEvery:       config.Millis(cfg.AnalogInterval),
		HumidityEvery:     config.Millis(cfg.HumidityInterval),
		RiskEvery:         config.Millis(cfg.RiskInterval),
		ConversionTimeout: cfg.ConversionTimeout,
	}
}

// bench is the simulated PCB wired to the test harness.
type bench struct {
	cfg        *config.Config
	clock      tick.Source
	light      *latch.Latch
	board      *board.Mock
	screen     *fb.Framebuffer
	console    console.Console
	thresholds *thresholds
	runner     *harness.Runner
}

func newBench(cfg *config.Config, con console.Console, clock tick.Source) *bench {
	b := &bench{
		cfg:        cfg,
		clock:      clock,
		light:      &latch.Latch{},
		screen:     fb.New(cfg.Display.Width, cfg.Display.Height),
		console:    con,
		thresholds: &thresholds{t: cfg.Thresholds},
	}
	b.board = board.NewMock(&cfg.Mock, b.light)

	menu := harness.New(harness.Peripherals{
		Console:    con,
		Display:    fb.NewText(b.screen),
		ADC:        b.board,
		Hygrometer: b.board,
		Sensors:    sensor.NewPair(b.board, b.light),
		Evaluator:  b.thresholds,
	}, harness.Options{
		Timing:      timingFromConfig(cfg.Timing),
		DisplayText: cfg.Display.TestString,
	})
	b.runner = harness.NewRunner(clock, con, menu)
	return b
}

// bringUp powers the peripherals. A failure is fatal: it is reported on the
// console and the bench locks up until ctx is cancelled.
func (b *bench) bringUp(ctx context.Context) bool {
	if err := b.board.Connect(); err != nil {
		harness.Fatal(b.console, board.NewLockup(b.board, ctx.Done()), err)
		return false
	}
	harness.PrintBanner(b.console, "PCB peripheral test")
	slog.Info("bench ready",
		"display", b.cfg.Display.TestString,
		"tick_offset", b.cfg.Timing.TickOffset)
	return true
}

// run drives the harness until ctx is cancelled and powers the board down.
func (b *bench) run(ctx context.Context) error {
	defer b.board.Close()
	return b.runner.Run(ctx)
}

// togglePower simulates unplugging the board: reads fail until it is powered again.
func (b *bench) togglePower() (bool, error) {
	if b.board.IsConnected() {
		return false, b.board.Close()
	}
	return true, b.board.Connect()
}
