// internal/config/normalize.go
package config

// Wiring defaults for the reference I/O module.
const (
	defaultRunHighInput uint16 = 0
	defaultRunLowInput  uint16 = 1
	defaultButtonInput  uint16 = 2
	defaultRelayCoil    uint16 = 0
	defaultGreenCoil    uint16 = 1
	defaultRedCoil      uint16 = 2
	defaultToneFreqReg  uint16 = 0
	defaultToneDurReg   uint16 = 1
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}
	g := &cfg.Fobgate

	if g.Reader.Baud == 0 {
		g.Reader.Baud = 9600
	}

	if g.IO.UnitID == 0 {
		g.IO.UnitID = 1
	}
	if g.IO.TimeoutMs == 0 {
		g.IO.TimeoutMs = 1000
	}

	fill(&g.IO.RunHighInput, defaultRunHighInput)
	fill(&g.IO.RunLowInput, defaultRunLowInput)
	fill(&g.IO.ButtonInput, defaultButtonInput)
	fill(&g.IO.RelayCoil, defaultRelayCoil)
	fill(&g.IO.GreenCoil, defaultGreenCoil)
	fill(&g.IO.RedCoil, defaultRedCoil)
	fill(&g.IO.ToneFreqReg, defaultToneFreqReg)
	fill(&g.IO.ToneDurReg, defaultToneDurReg)

	if g.Session.StartupTimeoutS == 0 {
		g.Session.StartupTimeoutS = 20
	}
	if g.Session.DeniedS == 0 {
		g.Session.DeniedS = 3
	}
	if g.Session.EnrollWindowS == 0 {
		g.Session.EnrollWindowS = 10
	}
	if g.Session.GraceS == 0 {
		g.Session.GraceS = 5
	}
	if g.Session.ConfirmS == 0 {
		g.Session.ConfirmS = 3
	}

	if g.Tones.GoodHz == 0 {
		g.Tones.GoodHz = 880
	}
	if g.Tones.BadHz == 0 {
		g.Tones.BadHz = 220
	}
	if g.Tones.ShortMs == 0 {
		g.Tones.ShortMs = 150
	}
	if g.Tones.LongMs == 0 {
		g.Tones.LongMs = 400
	}

	if g.Loop.IntervalMs == 0 {
		g.Loop.IntervalMs = 20
	}
}

func fill(p **uint16, def uint16) {
	if *p == nil {
		v := def
		*p = &v
	}
}
