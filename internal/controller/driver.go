// internal/controller/driver.go
package controller

import (
	"log"
	"time"

	"github.com/tamzrod/fobgate/internal/hw"
	"github.com/tamzrod/fobgate/internal/session"
)

// blinkHalfPeriod gives the 1 Hz indicator blink.
const blinkHalfPeriod = 500 * time.Millisecond

// pulseGap separates the pulses of a double or triple tone.
const pulseGap = 75 * time.Millisecond

// ToneSet is the audible vocabulary, from config.
type ToneSet struct {
	GoodHz uint16
	BadHz  uint16
	Short  time.Duration
	Long   time.Duration
}

// Driver turns machine outputs into line writes. Relay and indicator
// are level-cached and rewritten only on change; blink modes toggle on
// the wall clock; tones run synchronously and are bounded by the
// configured durations.
type Driver struct {
	lines hw.Lines
	tones ToneSet
	sleep func(time.Duration)

	haveRelay bool
	relay     bool

	haveInd bool
	green   bool
	red     bool
}

func NewDriver(lines hw.Lines, tones ToneSet) *Driver {
	return &Driver{
		lines: lines,
		tones: tones,
		sleep: time.Sleep,
	}
}

// Apply pushes one Output to the hardware. Line write failures are
// logged; the cached level is left stale so the write is retried on
// the next change of desired level.
func (d *Driver) Apply(out session.Output, now time.Time) {
	if !d.haveRelay || d.relay != out.Relay {
		if err := d.lines.SetRelay(out.Relay); err != nil {
			log.Printf("driver: relay write failed: %v", err)
		} else {
			d.haveRelay = true
			d.relay = out.Relay
		}
	}

	green, red := indicatorLevels(out.Indicator, now)
	if !d.haveInd || d.green != green || d.red != red {
		if err := d.lines.SetIndicator(green, red); err != nil {
			log.Printf("driver: indicator write failed: %v", err)
		} else {
			d.haveInd = true
			d.green = green
			d.red = red
		}
	}

	d.playTone(out.Tone)
}

// indicatorLevels resolves a mode to pin levels at an instant. Blink
// phase comes from the wall clock so every blinking mode stays in
// step without per-mode timers.
func indicatorLevels(mode session.IndicatorMode, now time.Time) (green, red bool) {
	phase := (now.UnixMilli()/blinkHalfPeriod.Milliseconds())%2 == 0

	switch mode {
	case session.IndicatorGreen:
		return true, false
	case session.IndicatorRed:
		return false, true
	case session.IndicatorBlinkGreen:
		return phase, false
	case session.IndicatorBlinkRed:
		return false, phase
	case session.IndicatorBlinkAlt:
		return phase, !phase
	}
	return false, false
}

func (d *Driver) playTone(tone session.Tone) {
	var err error
	switch tone {
	case session.ToneNone:
		return
	case session.ToneGood:
		err = d.lines.Beep(d.tones.GoodHz, d.tones.Short)
	case session.ToneBad:
		err = d.lines.Beep(d.tones.BadHz, d.tones.Long)
	case session.ToneDoubleGood:
		err = d.pulses(2)
	case session.ToneTripleGood:
		err = d.pulses(3)
	}
	if err != nil {
		log.Printf("driver: tone failed: %v", err)
	}
}

func (d *Driver) pulses(n int) error {
	for i := 0; i < n; i++ {
		if i > 0 {
			d.sleep(d.tones.Short + pulseGap)
		}
		if err := d.lines.Beep(d.tones.GoodHz, d.tones.Short); err != nil {
			return err
		}
	}
	return nil
}
