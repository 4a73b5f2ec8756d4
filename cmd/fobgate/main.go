// cmd/fobgate/main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/tamzrod/fobgate/internal/audit"
	"github.com/tamzrod/fobgate/internal/config"
	"github.com/tamzrod/fobgate/internal/controller"
	hwmodbus "github.com/tamzrod/fobgate/internal/hw/modbus"
	"github.com/tamzrod/fobgate/internal/reader"
	"github.com/tamzrod/fobgate/internal/session"
	"github.com/tamzrod/fobgate/internal/store"
)

func main() {
	cfgPath := pflag.String("config", "", "path to the fobgate YAML config")
	dryRun := pflag.Bool("dry-run", false, "validate the config and exit")
	pflag.Parse()

	if *cfgPath == "" {
		log.Fatal("usage: fobgate --config <fobgate.yaml>")
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	if *dryRun {
		log.Printf("config ok: %s", *cfgPath)
		return
	}

	g := cfg.Fobgate

	// --------------------
	// Persistent authorization store
	// --------------------

	mem, err := store.OpenFile(g.Store.Path, g.Store.SizeBytes)
	if err != nil {
		log.Fatalf("store open failed: %v", err)
	}
	defer mem.Close()

	st, err := store.New(mem)
	if err != nil {
		log.Fatalf("store init failed: %v", err)
	}
	log.Printf("store ready: %d slots at %s", st.Slots(), g.Store.Path)

	// --------------------
	// Credential reader
	// --------------------

	rd, err := reader.Open(reader.Config{
		Device: g.Reader.Device,
		Baud:   g.Reader.Baud,
	})
	if err != nil {
		log.Fatalf("reader open failed: %v", err)
	}
	defer rd.Close()

	// --------------------
	// Hardware lines (I/O module)
	// --------------------

	lines, err := hwmodbus.New(hwmodbus.Config{
		Endpoint: g.IO.Endpoint,
		UnitID:   g.IO.UnitID,
		Timeout:  time.Duration(g.IO.TimeoutMs) * time.Millisecond,
		Addr: hwmodbus.AddressMap{
			RunHighInput: *g.IO.RunHighInput,
			RunLowInput:  *g.IO.RunLowInput,
			ButtonInput:  *g.IO.ButtonInput,
			RelayCoil:    *g.IO.RelayCoil,
			GreenCoil:    *g.IO.GreenCoil,
			RedCoil:      *g.IO.RedCoil,
			ToneFreqReg:  *g.IO.ToneFreqReg,
			ToneDurReg:   *g.IO.ToneDurReg,
		},
	})
	if err != nil {
		log.Fatalf("io module connect failed: %v", err)
	}
	defer lines.Close()

	// --------------------
	// Session machine + control loop
	// --------------------

	machine := session.New(session.Config{
		StartupTimeout:  time.Duration(g.Session.StartupTimeoutS) * time.Second,
		DeniedTimeout:   time.Duration(g.Session.DeniedS) * time.Second,
		EnrollWindow:    time.Duration(g.Session.EnrollWindowS) * time.Second,
		GracePeriod:     time.Duration(g.Session.GraceS) * time.Second,
		ConfirmTimeout:  time.Duration(g.Session.ConfirmS) * time.Second,
		PreserveRunning: g.Session.PreserveRunning,
	}, st, store.DefaultAdmins)

	driver := controller.NewDriver(lines, controller.ToneSet{
		GoodHz: uint16(g.Tones.GoodHz),
		BadHz:  uint16(g.Tones.BadHz),
		Short:  time.Duration(g.Tones.ShortMs) * time.Millisecond,
		Long:   time.Duration(g.Tones.LongMs) * time.Millisecond,
	})

	runner := controller.New(
		controller.Config{Interval: time.Duration(g.Loop.IntervalMs) * time.Millisecond},
		machine,
		lines,
		rd,
		driver,
		audit.NewLogSink(nil),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Nothing past this point is fatal; the loop runs until a signal.
	runner.Run(ctx)
}
