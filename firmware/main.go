//go:build tinygo

//go:generate tinygo flash -target=nucleo-f401re

package main

import (
	"machine"

	"tinygo.org/x/drivers/dht"
	"tinygo.org/x/drivers/ssd1331"

	"github.com/itohio/pcbtest/pkg/fb"
	"github.com/itohio/pcbtest/pkg/harness"
	"github.com/itohio/pcbtest/pkg/latch"
	"github.com/itohio/pcbtest/pkg/risk"
	"github.com/itohio/pcbtest/pkg/sensor"
	"github.com/itohio/pcbtest/pkg/tick"
)

var (
	uart    = machine.UART0
	oledSPI = machine.SPI1

	// Written by the conversion-complete sampler, read by the risk routine.
	solarLatch latch.Latch
)

func main() {
	con := uartConsole{uart: uart}
	halt := lockup{stop: make(chan struct{})}

	// Configure UART for the operator console
	if err := uart.Configure(machine.UARTConfig{BaudRate: UART_BAUD_RATE}); err != nil {
		harness.Fatal(nil, halt, err)
	}

	// Solar panel on the ADC
	machine.InitADC()
	PIN_SOLAR.Configure(machine.PinConfig{Mode: machine.PinAnalog})
	solar := &solarADC{adc: machine.ADC{Pin: PIN_SOLAR}}
	solar.adc.Configure(machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	})

	// OLED on SPI
	if err := oledSPI.Configure(machine.SPIConfig{
		Frequency: OLED_SPI_FREQUENCY,
		SCK:       PIN_OLED_SCK,
		SDO:       PIN_OLED_SDO,
	}); err != nil {
		harness.Fatal(con, halt, err)
	}
	oled := ssd1331.New(oledSPI, PIN_OLED_RST, PIN_OLED_DC, PIN_OLED_CS)
	oled.Configure(ssd1331.Config{
		Width:  OLED_WIDTH,
		Height: OLED_HEIGHT,
	})
	if err := oled.FillRectangle(0, 0, OLED_WIDTH, OLED_HEIGHT, fb.Black); err != nil {
		harness.Fatal(con, halt, err)
	}

	hygro := dht11{dev: dht.New(PIN_DHT, dht.DHT11)}

	// Stands in for the conversion-complete interrupt
	go solar.sample(&solarLatch, halt.stop)

	harness.PrintBanner(con, "PCB peripheral test")

	opts := harness.DefaultOptions()
	menu := harness.New(harness.Peripherals{
		Console:    con,
		Display:    fb.NewText(&oled),
		ADC:        solar,
		Hygrometer: hygro,
		Sensors:    sensor.NewPair(hygro, &solarLatch),
		Evaluator:  risk.Default(),
	}, opts)

	runner := harness.NewRunner(tick.NewSystem(0), con, menu)

	// Main loop. ReadChar waits at most READ_TIMEOUT ms, so every routine keeps
	// its cadence while waiting for the quit character.
	for {
		runner.Step()
	}
}
