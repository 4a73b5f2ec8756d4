// internal/controller/runner.go
package controller

import (
	"context"
	"log"
	"time"

	"github.com/tamzrod/fobgate/internal/audit"
	"github.com/tamzrod/fobgate/internal/frame"
	"github.com/tamzrod/fobgate/internal/hw"
	"github.com/tamzrod/fobgate/internal/session"
)

// Runner owns the control loop: one iteration evaluates the time and
// sensor rules, then polls for at most one decoded frame. Everything
// the machine touches is sampled and applied here, on one goroutine.
type Runner struct {
	machine  *session.Machine
	lines    hw.Lines
	src      frame.Source
	driver   *Driver
	sink     audit.Sink
	interval time.Duration

	// Last good samples, reused when a line read fails so a flaky
	// bus does not fabricate sensor edges.
	lastRunning bool
	lastButton  bool
}

// Config is the minimal runtime config the runner needs.
type Config struct {
	Interval time.Duration
}

func New(cfg Config, m *session.Machine, lines hw.Lines, src frame.Source, driver *Driver, sink audit.Sink) *Runner {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 20 * time.Millisecond
	}
	return &Runner{
		machine:  m,
		lines:    lines,
		src:      src,
		driver:   driver,
		sink:     sink,
		interval: interval,
	}
}

// Run boots the machine and drives the ticker loop until ctx is done.
func (r *Runner) Run(ctx context.Context) {
	now := time.Now()
	r.emit(r.machine.Boot(r.sample(), now), now)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.step(time.Now())
		}
	}
}

// step is one loop iteration.
func (r *Runner) step(now time.Time) {
	in := r.sample()

	r.emit(r.machine.Tick(in, now), now)

	if tag, ok := frame.Decode(r.src); ok {
		r.emit(r.machine.HandleTag(tag, in, now), now)
	}
}

func (r *Runner) sample() session.Inputs {
	running, err := r.lines.RunSensor()
	if err != nil {
		log.Printf("runner: run sensor read failed: %v", err)
		running = r.lastRunning
	} else {
		r.lastRunning = running
	}

	button, err := r.lines.AdminButton()
	if err != nil {
		log.Printf("runner: admin button read failed: %v", err)
		button = r.lastButton
	} else {
		r.lastButton = button
	}

	return session.Inputs{Running: running, AdminHeld: button}
}

func (r *Runner) emit(out session.Output, now time.Time) {
	r.driver.Apply(out, now)
	for _, rec := range out.Records {
		r.sink.Write(rec)
	}
}
