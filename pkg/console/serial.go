package console

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the operator console baud rate.
	DefaultBaudRate = 115200
	// DefaultReadTimeout bounds one character read.
	DefaultReadTimeout = time.Millisecond
)

// ErrNotConnected is returned when writing to a closed console.
var ErrNotConnected = errors.New("console not connected")

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Serial serves the console over a serial port.
type Serial struct {
	port        string
	baudRate    int
	readTimeout time.Duration

	conn      serial.Port
	mu        sync.RWMutex
	connected bool
	rx        [1]byte
	failing   atomic.Bool
}

// NewSerial creates a serial console for the given port.
func NewSerial(port string, baudRate int, readTimeout time.Duration) *Serial {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}
	if readTimeout <= 0 {
		readTimeout = DefaultReadTimeout
	}

	return &Serial{
		port:        port,
		baudRate:    baudRate,
		readTimeout: readTimeout,
	}
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{
			Name:        name,
			Description: name,
		})
	}

	return result, nil
}

// Connect opens the serial port.
func (s *Serial) Connect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.connected {
		return fmt.Errorf("already connected")
	}

	mode := &serial.Mode{
		BaudRate: s.baudRate,
	}

	port, err := serial.Open(s.port, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.port, err)
	}

	if err := port.SetReadTimeout(s.readTimeout); err != nil {
		port.Close()
		return fmt.Errorf("failed to set read timeout on %s: %w", s.port, err)
	}

	// Drop anything that piled up before we were listening.
	if err := port.ResetInputBuffer(); err != nil {
		slog.Warn("failed to reset console input buffer", "port", s.port, "err", err)
	}

	s.conn = port
	s.connected = true

	return nil
}

// Close closes the serial port.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.connected {
		return nil
	}

	err := s.conn.Close()
	s.conn = nil
	s.connected = false

	if err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", s.port, err)
	}
	return nil
}

// IsConnected returns whether the port is open.
func (s *Serial) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}

// ReadChar reads one character with the configured timeout.
// Read errors are reported as "nothing received". A closed or failing port
// still takes the full timeout, so a polling loop never spins.
func (s *Serial) ReadChar() byte {
	b, err := s.read()
	if err == nil {
		if s.failing.Swap(false) {
			slog.Info("console read recovered", "port", s.port)
		}
		return b
	}

	if !errors.Is(err, ErrNotConnected) && !s.failing.Swap(true) {
		// Logged once per failure streak.
		slog.Warn("console read failed", "port", s.port, "err", err)
	}
	time.Sleep(s.readTimeout)
	return 0
}

func (s *Serial) read() (byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return 0, ErrNotConnected
	}

	n, err := s.conn.Read(s.rx[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return s.rx[0], nil
}

// Write sends p to the operator.
func (s *Serial) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.connected {
		return 0, ErrNotConnected
	}

	n, err := s.conn.Write(p)
	if err != nil {
		return n, fmt.Errorf("failed to write to %s: %w", s.port, err)
	}
	return n, nil
}
