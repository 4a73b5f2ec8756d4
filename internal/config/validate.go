// internal/config/validate.go
package config

import (
	"fmt"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	g := &cfg.Fobgate

	// ------------------------------------------------------------
	// READER
	// ------------------------------------------------------------

	if g.Reader.Device == "" {
		return fmt.Errorf("reader.device is required")
	}
	if g.Reader.Baud < 0 {
		return fmt.Errorf("reader.baud must not be negative")
	}

	// ------------------------------------------------------------
	// IO MODULE
	// ------------------------------------------------------------

	if g.IO.Endpoint == "" {
		return fmt.Errorf("io.endpoint is required")
	}
	if g.IO.TimeoutMs < 0 {
		return fmt.Errorf("io.timeout_ms must not be negative")
	}

	// Explicitly configured line addresses must not collide within
	// an address space.
	if err := checkCollision("input", map[string]*uint16{
		"run_high_input": g.IO.RunHighInput,
		"run_low_input":  g.IO.RunLowInput,
		"button_input":   g.IO.ButtonInput,
	}); err != nil {
		return err
	}
	if err := checkCollision("coil", map[string]*uint16{
		"relay_coil": g.IO.RelayCoil,
		"green_coil": g.IO.GreenCoil,
		"red_coil":   g.IO.RedCoil,
	}); err != nil {
		return err
	}
	if err := checkCollision("register", map[string]*uint16{
		"tone_freq_reg": g.IO.ToneFreqReg,
		"tone_dur_reg":  g.IO.ToneDurReg,
	}); err != nil {
		return err
	}

	// ------------------------------------------------------------
	// PERSISTENT STORE
	// ------------------------------------------------------------

	if g.Store.Path == "" {
		return fmt.Errorf("store.path is required")
	}
	if g.Store.SizeBytes < 5 {
		return fmt.Errorf("store.size_bytes must hold at least one 5-byte slot, got %d", g.Store.SizeBytes)
	}

	// ------------------------------------------------------------
	// SESSION TIMING / TONES / LOOP
	// ------------------------------------------------------------

	for _, f := range []struct {
		name string
		v    int
	}{
		{"session.startup_timeout_s", g.Session.StartupTimeoutS},
		{"session.denied_s", g.Session.DeniedS},
		{"session.enroll_window_s", g.Session.EnrollWindowS},
		{"session.grace_s", g.Session.GraceS},
		{"session.confirm_s", g.Session.ConfirmS},
		{"tones.good_hz", g.Tones.GoodHz},
		{"tones.bad_hz", g.Tones.BadHz},
		{"tones.short_ms", g.Tones.ShortMs},
		{"tones.long_ms", g.Tones.LongMs},
		{"loop.interval_ms", g.Loop.IntervalMs},
	} {
		if f.v < 0 {
			return fmt.Errorf("%s must not be negative", f.name)
		}
	}

	if g.Tones.GoodHz > 65535 || g.Tones.BadHz > 65535 {
		return fmt.Errorf("tone frequencies must fit a 16-bit register")
	}

	return nil
}

func checkCollision(space string, lines map[string]*uint16) error {
	owner := make(map[uint16]string)
	for name, p := range lines {
		if p == nil {
			continue
		}
		if prev, exists := owner[*p]; exists {
			// Map order is random; normalize the pair for the message.
			a, b := prev, name
			if a > b {
				a, b = b, a
			}
			return fmt.Errorf("io: %s collision: %s and %s both at %d", space, a, b, *p)
		}
		owner[*p] = name
	}
	return nil
}
