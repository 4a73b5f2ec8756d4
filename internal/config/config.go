// internal/config/config.go
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Fobgate FobgateConfig `yaml:"fobgate"`
}

type FobgateConfig struct {
	Reader  ReaderConfig  `yaml:"reader"`
	IO      IOConfig      `yaml:"io"`
	Store   StoreConfig   `yaml:"store"`
	Session SessionConfig `yaml:"session"`
	Tones   TonesConfig   `yaml:"tones"`
	Loop    LoopConfig    `yaml:"loop"`
}

// ---- READER (serial credential stream) ----

type ReaderConfig struct {
	Device string `yaml:"device"`
	Baud   int    `yaml:"baud"`
}

// ---- IO MODULE (hardware lines over Modbus TCP) ----

type IOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	UnitID    uint8  `yaml:"unit_id"`
	TimeoutMs int    `yaml:"timeout_ms"`

	// Line addresses on the module. Missing addresses take the
	// wiring defaults; see Normalize.
	RunHighInput *uint16 `yaml:"run_high_input"`
	RunLowInput  *uint16 `yaml:"run_low_input"`
	ButtonInput  *uint16 `yaml:"button_input"`
	RelayCoil    *uint16 `yaml:"relay_coil"`
	GreenCoil    *uint16 `yaml:"green_coil"`
	RedCoil      *uint16 `yaml:"red_coil"`
	ToneFreqReg  *uint16 `yaml:"tone_freq_reg"`
	ToneDurReg   *uint16 `yaml:"tone_dur_reg"`
}

// ---- PERSISTENT STORE ----

type StoreConfig struct {
	Path      string `yaml:"path"`
	SizeBytes int    `yaml:"size_bytes"`
}

// ---- SESSION TIMING ----

type SessionConfig struct {
	StartupTimeoutS int  `yaml:"startup_timeout_s"`
	DeniedS         int  `yaml:"denied_s"`
	EnrollWindowS   int  `yaml:"enroll_window_s"`
	GraceS          int  `yaml:"grace_s"`
	ConfirmS        int  `yaml:"confirm_s"`
	PreserveRunning bool `yaml:"preserve_running"`
}

// ---- TONES ----

type TonesConfig struct {
	GoodHz  int `yaml:"good_hz"`
	BadHz   int `yaml:"bad_hz"`
	ShortMs int `yaml:"short_ms"`
	LongMs  int `yaml:"long_ms"`
}

// ---- LOOP ----

type LoopConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// Load reads and decodes the YAML config. Unknown fields are errors.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	return &cfg, nil
}
