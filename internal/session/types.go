// internal/session/types.go
package session

import (
	"time"

	"github.com/tamzrod/fobgate/internal/audit"
)

// State is the session control state.
type State int

const (
	StateOff State = iota
	StateTurnOn
	StateOn
	StateTurnOff
	StateDenied
	StateAddPending
	StateAdded
	StateAddFailed
	StateEraseConfirm
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "off"
	case StateTurnOn:
		return "turn-on"
	case StateOn:
		return "on"
	case StateTurnOff:
		return "turn-off"
	case StateDenied:
		return "denied"
	case StateAddPending:
		return "add-pending"
	case StateAdded:
		return "added"
	case StateAddFailed:
		return "add-failed"
	case StateEraseConfirm:
		return "erase-confirm"
	}
	return "unknown"
}

// IndicatorMode is the desired bicolor indicator pattern. The output
// driver owns the blink phase; the machine only picks the mode.
type IndicatorMode int

const (
	IndicatorOff IndicatorMode = iota
	IndicatorGreen
	IndicatorRed
	IndicatorBlinkGreen
	IndicatorBlinkRed
	IndicatorBlinkAlt
)

// Tone is a one-shot audible effect.
type Tone int

const (
	ToneNone Tone = iota
	ToneGood
	ToneBad
	ToneDoubleGood
	ToneTripleGood
)

// Inputs are the level-sampled hardware lines for one iteration.
type Inputs struct {
	Running   bool
	AdminHeld bool
}

// Output is what one transition wants from the hardware: desired
// levels (Relay, Indicator) plus one-shot effects (Tone, Records).
// The machine never touches hardware and never blocks.
type Output struct {
	Relay     bool
	Indicator IndicatorMode
	Tone      Tone
	Records   []audit.Record
}

// Config holds the session timing knobs.
type Config struct {
	StartupTimeout time.Duration // TurnOn -> Off when run never confirms
	DeniedTimeout  time.Duration // red display after a denial
	EnrollWindow   time.Duration // AddPending -> Off without a new tag
	GracePeriod    time.Duration // run drop debounce before logout
	ConfirmTimeout time.Duration // Added / AddFailed / EraseConfirm display

	// PreserveRunning keeps an already-running machine powered across
	// a controller restart instead of cutting the relay.
	PreserveRunning bool
}
