// internal/hw/lines.go
package hw

import "time"

// Lines is the hardware line boundary. Everything behind it is a thin
// read or write of a physical line with no decision logic; all policy
// lives in the session machine and the controller.
type Lines interface {
	// RunSensor reports whether the machine is running: the logical
	// OR of the active-high and active-low sense legs.
	RunSensor() (bool, error)

	// AdminButton reports whether the admin button is held
	// (the line itself is active-low).
	AdminButton() (bool, error)

	// SetRelay drives the power relay.
	SetRelay(on bool) error

	// SetIndicator drives the two legs of the bicolor indicator.
	SetIndicator(green, red bool) error

	// Beep plays one tone of the given frequency and duration.
	// The call returns once the tone is handed to the transducer;
	// playback itself is bounded by d.
	Beep(freqHz uint16, d time.Duration) error
}
