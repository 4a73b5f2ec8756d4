// internal/hw/modbus/client.go
package modbus

import (
	"errors"
	"fmt"
	"time"

	"github.com/goburrow/modbus"
)

// Client implements hw.Lines against a Modbus TCP I/O module:
// discrete inputs for the sense lines, coils for relay and indicator,
// a holding register pair for the beeper. This adapter is
// geometry-only: it moves bits, the session machine owns meaning.
type Client struct {
	handler *modbus.TCPClientHandler
	mb      modbus.Client
	addr    AddressMap
}

// AddressMap fixes where each line lives on the I/O module.
type AddressMap struct {
	RunHighInput uint16 // discrete input, active-high run sense
	RunLowInput  uint16 // discrete input, active-low run sense
	ButtonInput  uint16 // discrete input, active-low admin button
	RelayCoil    uint16
	GreenCoil    uint16
	RedCoil      uint16
	ToneFreqReg  uint16 // holding register, Hz
	ToneDurReg   uint16 // holding register, ms; write starts playback
}

// Config is minimal transport config plus the address map.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
	Addr     AddressMap
}

const (
	coilOn  uint16 = 0xFF00
	coilOff uint16 = 0x0000
)

// New creates a connected I/O module client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("hw modbus: endpoint required")
	}

	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = cfg.UnitID

	if err := handler.Connect(); err != nil {
		return nil, fmt.Errorf("hw modbus: connect %s: %w", cfg.Endpoint, err)
	}

	return &Client{
		handler: handler,
		mb:      modbus.NewClient(handler),
		addr:    cfg.Addr,
	}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	if c == nil || c.handler == nil {
		return nil
	}
	return c.handler.Close()
}

// ---- hw.Lines interface ----

func (c *Client) RunSensor() (bool, error) {
	high, err := c.readInput(c.addr.RunHighInput)
	if err != nil {
		return false, err
	}
	low, err := c.readInput(c.addr.RunLowInput)
	if err != nil {
		return false, err
	}
	// Active-high leg asserted, or active-low leg pulled down.
	return high || !low, nil
}

func (c *Client) AdminButton() (bool, error) {
	raw, err := c.readInput(c.addr.ButtonInput)
	if err != nil {
		return false, err
	}
	return !raw, nil
}

func (c *Client) SetRelay(on bool) error {
	return c.writeCoil(c.addr.RelayCoil, on)
}

func (c *Client) SetIndicator(green, red bool) error {
	if err := c.writeCoil(c.addr.GreenCoil, green); err != nil {
		return err
	}
	return c.writeCoil(c.addr.RedCoil, red)
}

// Beep loads the frequency register, then the duration register; the
// module starts playback on the duration write.
func (c *Client) Beep(freqHz uint16, d time.Duration) error {
	if _, err := c.mb.WriteSingleRegister(c.addr.ToneFreqReg, freqHz); err != nil {
		return fmt.Errorf("hw modbus: tone freq write: %w", err)
	}
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	if ms > 65535 {
		ms = 65535
	}
	if _, err := c.mb.WriteSingleRegister(c.addr.ToneDurReg, uint16(ms)); err != nil {
		return fmt.Errorf("hw modbus: tone start write: %w", err)
	}
	return nil
}

// ---- internal helpers ----

func (c *Client) readInput(addr uint16) (bool, error) {
	res, err := c.mb.ReadDiscreteInputs(addr, 1)
	if err != nil {
		return false, fmt.Errorf("hw modbus: read input %d: %w", addr, err)
	}
	if len(res) < 1 {
		return false, fmt.Errorf("hw modbus: short read for input %d", addr)
	}
	return res[0]&0x01 != 0, nil
}

func (c *Client) writeCoil(addr uint16, on bool) error {
	v := coilOff
	if on {
		v = coilOn
	}
	if _, err := c.mb.WriteSingleCoil(addr, v); err != nil {
		return fmt.Errorf("hw modbus: write coil %d: %w", addr, err)
	}
	return nil
}
