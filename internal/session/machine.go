// internal/session/machine.go
package session

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/fobgate/internal/audit"
	"github.com/tamzrod/fobgate/internal/frame"
	"github.com/tamzrod/fobgate/internal/store"
)

// Authorizer is the store contract the machine consumes.
// IMPORTANT: There must be NO other version of this interface anywhere.
type Authorizer interface {
	Lookup(tag frame.TagID) (store.TagStatus, error)
	Insert(tag frame.TagID) error
	EraseAll() error
}

// Machine is the session state machine. All mutation happens through
// Boot, Tick and HandleTag, called from a single loop; transitions
// are pure with respect to hardware (effects come back in Output).
type Machine struct {
	cfg    Config
	auth   Authorizer
	admins store.AdminList

	state        State
	activeFob    frame.TagID
	sessionID    string
	sessionStart time.Time
	runStart     time.Time
	lastEvent    time.Time
	bootAdmin    bool

	newID func() string
}

// New creates a machine in the Off state. Call Boot once before the
// first Tick.
func New(cfg Config, auth Authorizer, admins store.AdminList) *Machine {
	return &Machine{
		cfg:    cfg,
		auth:   auth,
		admins: admins,
		state:  StateOff,
		newID:  uuid.NewString,
	}
}

// State reports the current control state.
func (m *Machine) State() State { return m.state }

// Boot latches startup conditions: the boot-admin overlay when the
// button is held, and an already-running session when configured to
// preserve one across a controller reset.
func (m *Machine) Boot(in Inputs, now time.Time) Output {
	recs := []audit.Record{m.record(audit.EventBoot, 0, 0, "controller up", now)}

	if in.AdminHeld {
		m.bootAdmin = true
		recs = append(recs, m.record(audit.EventBootAdmin, 0, 0, "admin mode armed", now))
	}

	if m.cfg.PreserveRunning && in.Running {
		m.state = StateOn
		m.sessionID = m.newID()
		m.sessionStart = now
		m.runStart = now
		m.lastEvent = now
		recs = append(recs, m.record(audit.EventBootRun, 0, 0, "machine already running, session preserved", now))
	}

	return m.output(ToneNone, recs)
}

// Tick evaluates the time- and sensor-driven rules. Call once per
// loop iteration before polling for a tag.
func (m *Machine) Tick(in Inputs, now time.Time) Output {
	if m.bootAdmin && !in.AdminHeld {
		m.bootAdmin = false
	}

	tone := ToneNone
	var recs []audit.Record

	switch m.state {
	case StateTurnOn:
		if in.Running {
			m.state = StateOn
			m.runStart = now
			m.lastEvent = now
			recs = append(recs, m.record(audit.EventStart, m.activeFob, 0, "machine running", now))
		} else if now.Sub(m.lastEvent) >= m.cfg.StartupTimeout {
			recs = append(recs, m.record(audit.EventTimeout, m.activeFob, 0, "machine never started", now))
			m.endSession()
			tone = ToneBad
		}

	case StateOn:
		if !in.Running {
			m.state = StateTurnOff
			elapsed := now.Sub(m.runStart)
			m.lastEvent = now
			recs = append(recs, m.record(audit.EventStop, m.activeFob, elapsed, "machine stopped", now))
		}

	case StateTurnOff:
		if in.Running {
			m.state = StateOn
			m.lastEvent = now
			recs = append(recs, m.record(audit.EventRestart, m.activeFob, 0, "machine running again", now))
		} else if now.Sub(m.lastEvent) >= m.cfg.GracePeriod {
			elapsed := now.Sub(m.sessionStart)
			recs = append(recs, m.record(audit.EventLogout, m.activeFob, elapsed, "session closed", now))
			m.endSession()
			tone = ToneBad
		}

	case StateDenied:
		if now.Sub(m.lastEvent) >= m.cfg.DeniedTimeout {
			m.state = StateOff
		}

	case StateAddPending:
		if !in.AdminHeld || now.Sub(m.lastEvent) >= m.cfg.EnrollWindow {
			m.state = StateOff
		}

	case StateAdded, StateAddFailed, StateEraseConfirm:
		if now.Sub(m.lastEvent) >= m.cfg.ConfirmTimeout {
			m.state = StateOff
		}
	}

	return m.output(tone, recs)
}

// HandleTag consumes one decoded tag presentation. Every effectful
// transition is guarded by state or active-tag change, so a fob
// resting on the reader does not retrigger tones or log lines.
func (m *Machine) HandleTag(tag frame.TagID, in Inputs, now time.Time) Output {
	if in.AdminHeld && m.state != StateOn && m.state != StateTurnOn {
		return m.handleAdminTag(tag, now)
	}
	return m.handleAccessTag(tag, now)
}

func (m *Machine) handleAdminTag(tag frame.TagID, now time.Time) Output {
	tone := ToneNone
	var recs []audit.Record

	switch {
	case m.admins.IsAdmin(tag):
		if m.bootAdmin {
			if tag != m.activeFob || m.state != StateEraseConfirm {
				msg := "authorized list erased"
				if err := m.auth.EraseAll(); err != nil {
					msg = "erase failed: " + err.Error()
				}
				m.state = StateEraseConfirm
				m.activeFob = tag
				m.lastEvent = now
				tone = ToneTripleGood
				recs = append(recs, m.record(audit.EventDeleted, tag, 0, msg, now))
			}
		} else {
			if tag != m.activeFob || m.state != StateAddPending {
				m.state = StateAddPending
				m.activeFob = tag
				m.lastEvent = now
				tone = ToneGood
				recs = append(recs, m.record(audit.EventAdmin, tag, 0, "enrollment armed", now))
			}
		}

	case m.state == StateAddPending:
		status, err := m.auth.Lookup(tag)
		if err != nil {
			status = store.Empty
		}
		if status != store.Empty {
			// Already authorized: the enrollment window keeps running.
			break
		}

		m.activeFob = tag
		m.lastEvent = now
		switch err := m.auth.Insert(tag); {
		case err == nil:
			m.state = StateAdded
			tone = ToneDoubleGood
			recs = append(recs, m.record(audit.EventAdded, tag, 0, "fob enrolled", now))
		case errors.Is(err, store.ErrFull):
			m.state = StateAddFailed
			tone = ToneBad
			recs = append(recs, m.record(audit.EventAdded, tag, 0, "store full, fob not enrolled", now))
		default:
			m.state = StateAddFailed
			tone = ToneBad
			recs = append(recs, m.record(audit.EventAdded, tag, 0, "store write failed: "+err.Error(), now))
		}
	}

	return m.output(tone, recs)
}

func (m *Machine) handleAccessTag(tag frame.TagID, now time.Time) Output {
	tone := ToneNone
	var recs []audit.Record

	status, err := m.auth.Lookup(tag)
	if err != nil {
		// Fail safe: an unreadable store denies access.
		status = store.Empty
	}

	if status != store.Empty || m.admins.IsAdmin(tag) {
		if m.state != StateOn && m.state != StateTurnOn {
			m.state = StateTurnOn
			m.activeFob = tag
			m.sessionID = m.newID()
			m.sessionStart = now
			m.lastEvent = now
			tone = ToneGood
			recs = append(recs, m.record(audit.EventLogin, tag, 0, "access granted", now))
		}
	} else if m.state == StateOff || m.state == StateTurnOn || m.state == StateDenied {
		// Unauthorized taps are ignored while the machine is running.
		if tag != m.activeFob || m.state != StateDenied {
			m.state = StateDenied
			m.activeFob = tag
			m.lastEvent = now
			tone = ToneBad
			recs = append(recs, m.record(audit.EventDenied, tag, 0, "access denied", now))
		}
	}

	return m.output(tone, recs)
}

// endSession returns to Off and drops the session identity.
func (m *Machine) endSession() {
	m.state = StateOff
	m.activeFob = 0
	m.sessionID = ""
}

func (m *Machine) record(event string, tag frame.TagID, elapsed time.Duration, msg string, now time.Time) audit.Record {
	return audit.Record{
		Event:     event,
		TagID:     tag,
		Elapsed:   elapsed,
		Message:   msg,
		SessionID: m.sessionID,
		At:        now,
	}
}

// output snapshots the desired hardware levels for the current state.
func (m *Machine) output(tone Tone, recs []audit.Record) Output {
	o := Output{Tone: tone, Records: recs}

	switch m.state {
	case StateTurnOn, StateOn, StateTurnOff:
		o.Relay = true
	}

	o.Indicator = m.indicator()
	return o
}

func (m *Machine) indicator() IndicatorMode {
	if m.bootAdmin {
		return IndicatorBlinkAlt
	}
	switch m.state {
	case StateTurnOn, StateOn, StateTurnOff:
		return IndicatorGreen
	case StateDenied:
		return IndicatorRed
	case StateAddPending, StateAdded:
		return IndicatorBlinkGreen
	case StateAddFailed, StateEraseConfirm:
		return IndicatorBlinkRed
	}
	return IndicatorOff
}
