// internal/controller/controller_test.go
package controller

import (
	"fmt"
	"testing"
	"time"

	"github.com/tamzrod/fobgate/internal/audit"
	"github.com/tamzrod/fobgate/internal/frame"
	"github.com/tamzrod/fobgate/internal/session"
	"github.com/tamzrod/fobgate/internal/store"
)

type fakeLines struct {
	running    bool
	button     bool
	failSensor bool

	relayWrites []bool
	indWrites   [][2]bool
	beeps       []uint16
}

func (f *fakeLines) RunSensor() (bool, error) {
	if f.failSensor {
		return false, fmt.Errorf("bus dead")
	}
	return f.running, nil
}

func (f *fakeLines) AdminButton() (bool, error) { return f.button, nil }

func (f *fakeLines) SetRelay(on bool) error {
	f.relayWrites = append(f.relayWrites, on)
	return nil
}

func (f *fakeLines) SetIndicator(green, red bool) error {
	f.indWrites = append(f.indWrites, [2]bool{green, red})
	return nil
}

func (f *fakeLines) Beep(freqHz uint16, d time.Duration) error {
	f.beeps = append(f.beeps, freqHz)
	return nil
}

// queueSource hands out pre-buffered bytes, frame.Source style.
type queueSource struct {
	data []byte
	pos  int
}

func (s *queueSource) Next() (byte, bool) {
	if s.pos >= len(s.data) {
		return 0, false
	}
	b := s.data[s.pos]
	s.pos++
	return b, true
}

// wireFrame renders tag as a full on-wire reader frame.
func wireFrame(tag frame.TagID) []byte {
	payload := [6]byte{0x5A,
		byte(tag >> 24), byte(tag >> 16), byte(tag >> 8), byte(tag)}
	payload[5] = payload[0] ^ payload[1] ^ payload[2] ^ payload[3] ^ payload[4]

	out := []byte{frame.StartByte}
	for _, b := range payload {
		rev := reverseBits(b)
		out = append(out, fmt.Sprintf("%02X", rev)...)
	}
	return append(out, frame.EndByte)
}

func reverseBits(b byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		out = out<<1 | (b>>i)&1
	}
	return out
}

var testTones = ToneSet{
	GoodHz: 880,
	BadHz:  220,
	Short:  150 * time.Millisecond,
	Long:   400 * time.Millisecond,
}

func TestDriver_WritesOnChangeOnly(t *testing.T) {
	lines := &fakeLines{}
	d := NewDriver(lines, testTones)
	now := time.Unix(1000, 0)

	out := session.Output{Relay: true, Indicator: session.IndicatorGreen}
	d.Apply(out, now)
	d.Apply(out, now)
	d.Apply(out, now)

	if len(lines.relayWrites) != 1 {
		t.Fatalf("relay writes = %d, want 1", len(lines.relayWrites))
	}
	if len(lines.indWrites) != 1 {
		t.Fatalf("indicator writes = %d, want 1", len(lines.indWrites))
	}

	out.Relay = false
	d.Apply(out, now)
	if len(lines.relayWrites) != 2 || lines.relayWrites[1] != false {
		t.Fatalf("relay writes = %v, want second write off", lines.relayWrites)
	}
}

func TestDriver_BlinkFollowsClock(t *testing.T) {
	base := time.UnixMilli(10_000) // phase boundary

	g1, r1 := indicatorLevels(session.IndicatorBlinkGreen, base)
	g2, r2 := indicatorLevels(session.IndicatorBlinkGreen, base.Add(500*time.Millisecond))
	if r1 || r2 {
		t.Fatalf("green blink drove the red leg")
	}
	if g1 == g2 {
		t.Fatalf("blink did not toggle across a half period")
	}

	ag, ar := indicatorLevels(session.IndicatorBlinkAlt, base)
	if ag == ar {
		t.Fatalf("alternating blink lit both legs the same way")
	}
}

func TestDriver_ToneVocabulary(t *testing.T) {
	lines := &fakeLines{}
	d := NewDriver(lines, testTones)
	d.sleep = func(time.Duration) {}
	now := time.Unix(1000, 0)

	d.Apply(session.Output{Tone: session.ToneGood}, now)
	d.Apply(session.Output{Tone: session.ToneBad}, now)
	d.Apply(session.Output{Tone: session.ToneDoubleGood}, now)
	d.Apply(session.Output{Tone: session.ToneTripleGood}, now)

	want := []uint16{880, 220, 880, 880, 880, 880, 880}
	if len(lines.beeps) != len(want) {
		t.Fatalf("beeps = %v, want %v", lines.beeps, want)
	}
	for i := range want {
		if lines.beeps[i] != want[i] {
			t.Fatalf("beeps = %v, want %v", lines.beeps, want)
		}
	}
}

func newTestRunner(t *testing.T, lines *fakeLines, src frame.Source, authorized ...frame.TagID) (*Runner, *audit.MemorySink) {
	t.Helper()

	st, err := store.New(store.NewMemMemory(40))
	if err != nil {
		t.Fatalf("store.New err=%v", err)
	}
	for _, tag := range authorized {
		if err := st.Insert(tag); err != nil {
			t.Fatalf("Insert err=%v", err)
		}
	}

	m := session.New(session.Config{
		StartupTimeout: 20 * time.Second,
		DeniedTimeout:  3 * time.Second,
		EnrollWindow:   10 * time.Second,
		GracePeriod:    5 * time.Second,
		ConfirmTimeout: 3 * time.Second,
	}, st, store.AdminList{})

	sink := audit.NewMemorySink()
	r := New(Config{Interval: time.Millisecond}, m, lines, src, NewDriver(lines, testTones), sink)
	return r, sink
}

func TestRunner_LoginThroughTheLoop(t *testing.T) {
	tag := frame.TagID(0x00A1B2C3)
	lines := &fakeLines{}
	src := &queueSource{data: wireFrame(tag)}
	r, sink := newTestRunner(t, lines, src, tag)

	now := time.Unix(9000, 0)
	r.step(now)

	recs := sink.Records()
	if len(recs) != 1 || recs[0].Event != audit.EventLogin {
		t.Fatalf("records = %+v, want one login", recs)
	}
	if recs[0].TagID != tag {
		t.Fatalf("login tag = %08X, want %08X", uint32(recs[0].TagID), uint32(tag))
	}
	if len(lines.relayWrites) == 0 || !lines.relayWrites[len(lines.relayWrites)-1] {
		t.Fatalf("relay not energized after login")
	}

	// Machine spins up on a later iteration.
	lines.running = true
	r.step(now.Add(time.Second))

	recs = sink.Records()
	if len(recs) != 2 || recs[1].Event != audit.EventStart {
		t.Fatalf("records = %+v, want login then start", recs)
	}
}

func TestRunner_DeniedThroughTheLoop(t *testing.T) {
	lines := &fakeLines{}
	src := &queueSource{data: wireFrame(0x00BADBAD)}
	r, sink := newTestRunner(t, lines, src)

	r.step(time.Unix(9100, 0))

	recs := sink.Records()
	if len(recs) != 1 || recs[0].Event != audit.EventDenied {
		t.Fatalf("records = %+v, want one denied", recs)
	}
	if got := lines.indWrites[len(lines.indWrites)-1]; got != [2]bool{false, true} {
		t.Fatalf("indicator = %v, want red", got)
	}
	if len(lines.beeps) != 1 || lines.beeps[0] != 220 {
		t.Fatalf("beeps = %v, want one bad tone", lines.beeps)
	}
}

func TestRunner_SensorFailureHoldsLastSample(t *testing.T) {
	tag := frame.TagID(0x00A1B2C3)
	lines := &fakeLines{running: true}
	src := &queueSource{data: wireFrame(tag)}
	r, sink := newTestRunner(t, lines, src, tag)

	now := time.Unix(9200, 0)
	r.step(now)                    // login
	r.step(now.Add(time.Second))   // start (running)
	lines.failSensor = true
	r.step(now.Add(2 * time.Second))

	// The read failure must not look like a sensor drop.
	for _, rec := range sink.Records() {
		if rec.Event == audit.EventStop {
			t.Fatalf("sensor read failure produced a stop event")
		}
	}
}

func TestRunner_GarbageOnTheWireIsSilent(t *testing.T) {
	lines := &fakeLines{}
	src := &queueSource{data: []byte{0x00, 0xFF, frame.StartByte, 'Z', 'Z', frame.EndByte}}
	r, sink := newTestRunner(t, lines, src)

	now := time.Unix(9300, 0)
	for i := 0; i < 5; i++ {
		r.step(now.Add(time.Duration(i) * 20 * time.Millisecond))
	}

	if recs := sink.Records(); len(recs) != 0 {
		t.Fatalf("garbage produced records: %+v", recs)
	}
	if len(lines.beeps) != 0 {
		t.Fatalf("garbage produced tones: %v", lines.beeps)
	}
}
