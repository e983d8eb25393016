package console

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"time"
)

// DefaultQueueSize is the number of pending characters a Queue holds.
const DefaultQueueSize = 64

// Queue is a console fed programmatically (keyboard events, a reader goroutine).
// Push may be called from any goroutine; ReadChar and Write belong to the mainline.
type Queue struct {
	in      chan byte
	out     io.Writer
	timeout time.Duration
	timer   *time.Timer
}

// NewQueue creates a queue console writing to out.
func NewQueue(out io.Writer, size int, timeout time.Duration) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	if out == nil {
		out = io.Discard
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()

	return &Queue{
		in:      make(chan byte, size),
		out:     out,
		timeout: timeout,
		timer:   timer,
	}
}

// FromReader creates a queue console fed by r. CR and LF are dropped because
// the protocol has no line framing and a terminal would otherwise send them
// after every key.
func FromReader(r io.Reader, out io.Writer, timeout time.Duration) *Queue {
	q := NewQueue(out, DefaultQueueSize, timeout)
	go q.pump(r)
	return q
}

// Push queues b for the mainline. It never blocks; when the queue is full the
// character is dropped and false is returned.
func (q *Queue) Push(b byte) bool {
	select {
	case q.in <- b:
		return true
	default:
		return false
	}
}

// ReadChar returns the next queued character or 0 after the timeout.
func (q *Queue) ReadChar() byte {
	select {
	case b := <-q.in:
		return b
	default:
	}

	if q.timeout <= 0 {
		return 0
	}

	q.timer.Reset(q.timeout)
	select {
	case b := <-q.in:
		q.timer.Stop()
		return b
	case <-q.timer.C:
		return 0
	}
}

// Write sends p to the output.
func (q *Queue) Write(p []byte) (int, error) {
	return q.out.Write(p)
}

func (q *Queue) pump(r io.Reader) {
	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				slog.Warn("console input stopped", "err", err)
			}
			return
		}
		if b == '\r' || b == '\n' {
			continue
		}
		if !q.Push(b) {
			slog.Debug("console queue full, dropping character", "char", b)
		}
	}
}
