package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/itohio/pcbtest/pkg/config"
	"github.com/itohio/pcbtest/pkg/console"
	"github.com/itohio/pcbtest/pkg/logging"
	"github.com/itohio/pcbtest/pkg/tick"
)

func main() {
	var (
		portFlag     = flag.String("p", "", "Serial port serving the operator console (e.g., COM3 or /dev/ttyUSB0)")
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		headlessFlag = flag.Bool("headless", false, "Run without a window, using stdin/stdout as the console")
		logLevelFlag = flag.String("log-level", "", "Log level override (debug, info, warn, error)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *portFlag != "" {
		cfg.Serial.Port = *portFlag
	}
	if *logLevelFlag != "" {
		cfg.Log.Level = *logLevelFlag
	}

	logger, err := logging.New(cfg.Log, os.Stderr, "pcbtest")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := tick.NewSystem(cfg.Timing.TickOffset)

	if *headlessFlag {
		err = runHeadless(ctx, cfg, clock)
	} else {
		err = runWindow(ctx, stop, cfg, *configFlag, clock)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("harness stopped", "err", err)
		os.Exit(1)
	}
}

// openSerial connects the operator console to a serial port.
func openSerial(cfg *config.Config) (*console.Serial, error) {
	s := console.NewSerial(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Timing.ReadTimeout)
	if err := s.Connect(); err != nil {
		return nil, err
	}
	slog.Info("console on serial port", "port", cfg.Serial.Port, "baud", cfg.Serial.BaudRate)
	return s, nil
}

func runHeadless(ctx context.Context, cfg *config.Config, clock tick.Source) error {
	var con console.Console
	if cfg.Serial.Port != "" {
		s, err := openSerial(cfg)
		if err != nil {
			log.Fatalf("Failed to open console: %v", err)
		}
		defer s.Close()
		con = s
	} else {
		con = console.FromReader(os.Stdin, os.Stdout, cfg.Timing.ReadTimeout)
	}

	b := newBench(cfg, con, clock)
	if !b.bringUp(ctx) {
		return nil
	}
	return b.run(ctx)
}
