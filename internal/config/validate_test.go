// internal/config/validate_test.go
package config

import "testing"

// helper to build a minimal valid config quickly
func base() *Config {
	return &Config{
		Fobgate: FobgateConfig{
			Reader: ReaderConfig{Device: "/dev/ttyUSB0"},
			IO:     IOConfig{Endpoint: "10.0.0.5:502"},
			Store:  StoreConfig{Path: "/var/lib/fobgate/auth.bin", SizeBytes: 1024},
		},
	}
}

func addr(v uint16) *uint16 { return &v }

// ---- tests ----

func TestValidate_MinimalConfig(t *testing.T) {
	if err := Validate(base()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingReaderDevice(t *testing.T) {
	cfg := base()
	cfg.Fobgate.Reader.Device = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected reader.device error, got nil")
	}
}

func TestValidate_MissingIOEndpoint(t *testing.T) {
	cfg := base()
	cfg.Fobgate.IO.Endpoint = ""

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected io.endpoint error, got nil")
	}
}

func TestValidate_StoreTooSmall(t *testing.T) {
	cfg := base()
	cfg.Fobgate.Store.SizeBytes = 4 // smaller than one slot

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected store.size_bytes error, got nil")
	}
}

func TestValidate_InputCollisionDetected(t *testing.T) {
	cfg := base()
	cfg.Fobgate.IO.RunHighInput = addr(3)
	cfg.Fobgate.IO.ButtonInput = addr(3)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected input collision error, got nil")
	}
}

func TestValidate_CoilCollisionDetected(t *testing.T) {
	cfg := base()
	cfg.Fobgate.IO.RelayCoil = addr(7)
	cfg.Fobgate.IO.RedCoil = addr(7)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected coil collision error, got nil")
	}
}

func TestValidate_DistinctAddressesAllowed(t *testing.T) {
	cfg := base()
	cfg.Fobgate.IO.RunHighInput = addr(0)
	cfg.Fobgate.IO.RunLowInput = addr(1)
	cfg.Fobgate.IO.ButtonInput = addr(2)
	cfg.Fobgate.IO.RelayCoil = addr(0)
	cfg.Fobgate.IO.GreenCoil = addr(1)
	cfg.Fobgate.IO.RedCoil = addr(2)

	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_ToneRegisterCollision(t *testing.T) {
	cfg := base()
	cfg.Fobgate.IO.ToneFreqReg = addr(0)
	cfg.Fobgate.IO.ToneDurReg = addr(0)

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected register collision error, got nil")
	}
}

func TestValidate_ToneFrequencyRange(t *testing.T) {
	cfg := base()
	cfg.Fobgate.Tones.GoodHz = 70000

	if err := Validate(cfg); err == nil {
		t.Fatalf("expected tone frequency error, got nil")
	}
}

func TestNormalize_FillsDefaults(t *testing.T) {
	cfg := base()
	if err := Validate(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	Normalize(cfg)

	g := cfg.Fobgate
	if g.Reader.Baud != 9600 {
		t.Fatalf("baud = %d, want 9600", g.Reader.Baud)
	}
	if g.IO.UnitID != 1 || g.IO.TimeoutMs != 1000 {
		t.Fatalf("io defaults = unit %d timeout %d", g.IO.UnitID, g.IO.TimeoutMs)
	}
	if g.IO.RelayCoil == nil || *g.IO.RelayCoil != 0 {
		t.Fatalf("relay coil default missing")
	}
	if g.IO.RedCoil == nil || *g.IO.RedCoil != 2 {
		t.Fatalf("red coil default = %v, want 2", g.IO.RedCoil)
	}
	if g.Session.StartupTimeoutS != 20 || g.Session.GraceS != 5 {
		t.Fatalf("session defaults = %+v", g.Session)
	}
	if g.Tones.GoodHz != 880 || g.Tones.BadHz != 220 {
		t.Fatalf("tone defaults = %+v", g.Tones)
	}
	if g.Loop.IntervalMs != 20 {
		t.Fatalf("loop interval = %d, want 20", g.Loop.IntervalMs)
	}
}

func TestNormalize_KeepsExplicitValues(t *testing.T) {
	cfg := base()
	cfg.Fobgate.Reader.Baud = 2400
	cfg.Fobgate.Session.GraceS = 30
	Normalize(cfg)

	if cfg.Fobgate.Reader.Baud != 2400 {
		t.Fatalf("baud = %d, want explicit 2400", cfg.Fobgate.Reader.Baud)
	}
	if cfg.Fobgate.Session.GraceS != 30 {
		t.Fatalf("grace = %d, want explicit 30", cfg.Fobgate.Session.GraceS)
	}
}
