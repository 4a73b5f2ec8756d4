// internal/reader/reader.go
package reader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/goburrow/serial"
)

// Config is the credential reader transport config.
type Config struct {
	Device string
	Baud   int
}

// Reader pumps bytes from the credential reader's serial port into a
// buffer the control loop can drain without blocking. It implements
// frame.Source.
type Reader struct {
	port io.ReadCloser
	ch   chan byte
	done chan struct{}
}

// Open opens the serial port (8N1) and starts the pump.
func Open(cfg Config) (*Reader, error) {
	if cfg.Device == "" {
		return nil, errors.New("reader: device required")
	}

	port, err := serial.Open(&serial.Config{
		Address:  cfg.Device,
		BaudRate: cfg.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("reader: open %s: %w", cfg.Device, err)
	}

	return NewFromPort(port), nil
}

// NewFromPort wraps an already-open port. Tests pass a fake.
func NewFromPort(port io.ReadCloser) *Reader {
	r := &Reader{
		port: port,
		ch:   make(chan byte, 256),
		done: make(chan struct{}),
	}
	go r.pump()
	return r
}

// pump is the single producer. Read timeouts are the idle case; any
// other error ends the pump (the port is gone, a restart is the fix).
func (r *Reader) pump() {
	buf := make([]byte, 64)
	for {
		select {
		case <-r.done:
			return
		default:
		}

		n, err := r.port.Read(buf)
		for i := 0; i < n; i++ {
			select {
			case r.ch <- buf[i]:
			default:
				// Buffer full: drop. A torn frame fails its checksum
				// and the credential is simply re-read.
			}
		}
		if err != nil {
			if errors.Is(err, serial.ErrTimeout) {
				continue
			}
			if errors.Is(err, io.EOF) {
				return
			}
			select {
			case <-r.done:
			default:
				log.Printf("reader: port read failed: %v", err)
			}
			return
		}
	}
}

// Next serves one buffered byte without blocking.
func (r *Reader) Next() (byte, bool) {
	select {
	case b := <-r.ch:
		return b, true
	default:
		return 0, false
	}
}

// Close stops the pump and closes the port.
func (r *Reader) Close() error {
	close(r.done)
	return r.port.Close()
}
