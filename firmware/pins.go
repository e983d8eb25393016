//go:build tinygo

package main

import "machine"

const (
	// Console
	UART_BAUD_RATE = 115200
	READ_TIMEOUT   = 1 // ms to wait for one console character

	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // Bits delivered to the harness (0-4095)

	// Solar panel conversion-complete interrupt period (ms)
	CONVERSION_INTERVAL_MS = 50

	// Solar panel on ADC1 CH1
	PIN_SOLAR = machine.PA1

	// DHT11 data line
	PIN_DHT = machine.PA8

	// SSD1331 on SPI2. The panel is mounted upside down.
	PIN_OLED_SCK = machine.PC7
	PIN_OLED_SDO = machine.PC3
	PIN_OLED_CS  = machine.PB2
	PIN_OLED_DC  = machine.PB1
	PIN_OLED_RST = machine.PB0

	OLED_SPI_FREQUENCY = 8000000
	OLED_WIDTH         = 96
	OLED_HEIGHT        = 64
)
