// Package config loads the per-proxy-writer and per-reader-match tunables
// from a TOML file, grounded on cmd/dnsproxy/config.go's
// configRepr/toml.DecodeFile/errors.WithStack pattern.
package config

import (
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/yzrtps/acknack/acknack"
)

type configRepr struct {
	ProxyWriter struct {
		LateAckMode           bool  `toml:"late_ack_mode"`
		AckDelayMillis        int64 `toml:"ack_delay_millis"`
		NackDelayMillis       int64 `toml:"nack_delay_millis"`
		AutoReschedNackMillis int64 `toml:"auto_resched_nack_delay_millis"`
		MeasureHBToAckLatency bool  `toml:"measure_hb_to_ack_latency"`
	} `toml:"proxy_writer"`

	Scheduler struct {
		// AvoidSuppressedNack is a pointer so Load can tell "the file set
		// this to false" apart from "the file omits [scheduler]/this key
		// entirely" — a plain bool would silently overwrite Default's
		// AvoidSuppressedNack=true with the TOML zero-value on any file
		// that doesn't mention it.
		AvoidSuppressedNack *bool `toml:"avoid_suppressed_nack"`
	} `toml:"scheduler"`
}

// Config is the decoded, ready-to-use tunable set.
type Config struct {
	ProxyWriter         acknack.ProxyWriterConfig
	ReaderMatch         acknack.ReaderMatchConfig
	AvoidSuppressedNack bool
}

// Default matches the original's documented defaults (ack_delay=10ms,
// nack_delay=100ms, auto_resched_nack_delay=1s), absent a config file.
func Default() *Config {
	return &Config{
		ProxyWriter: acknack.ProxyWriterConfig{
			AckDelayNanos:             (10 * time.Millisecond).Nanoseconds(),
			NackDelayNanos:            (100 * time.Millisecond).Nanoseconds(),
			AutoReschedNackDelayNanos: (1 * time.Second).Nanoseconds(),
		},
		ReaderMatch: acknack.ReaderMatchConfig{
			AckDelay:             10 * time.Millisecond,
			NackDelay:            100 * time.Millisecond,
			AutoReschedNackDelay: 1 * time.Second,
		},
		AvoidSuppressedNack: true,
	}
}

// Load decodes a TOML config file at path into a Config, falling back to
// Default's values for any table that the file omits entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	var repr configRepr
	if _, err := toml.DecodeFile(path, &repr); err != nil {
		return nil, errors.WithStack(err)
	}

	cfg.ProxyWriter.LateAckMode = repr.ProxyWriter.LateAckMode
	cfg.ProxyWriter.MeasureHBToAckLatency = repr.ProxyWriter.MeasureHBToAckLatency
	if repr.ProxyWriter.AckDelayMillis > 0 {
		d := time.Duration(repr.ProxyWriter.AckDelayMillis) * time.Millisecond
		cfg.ProxyWriter.AckDelayNanos = d.Nanoseconds()
		cfg.ReaderMatch.AckDelay = d
	}
	if repr.ProxyWriter.NackDelayMillis > 0 {
		d := time.Duration(repr.ProxyWriter.NackDelayMillis) * time.Millisecond
		cfg.ProxyWriter.NackDelayNanos = d.Nanoseconds()
		cfg.ReaderMatch.NackDelay = d
	}
	if repr.ProxyWriter.AutoReschedNackMillis > 0 {
		d := time.Duration(repr.ProxyWriter.AutoReschedNackMillis) * time.Millisecond
		cfg.ProxyWriter.AutoReschedNackDelayNanos = d.Nanoseconds()
		cfg.ReaderMatch.AutoReschedNackDelay = d
	}
	if repr.Scheduler.AvoidSuppressedNack != nil {
		cfg.AvoidSuppressedNack = *repr.Scheduler.AvoidSuppressedNack
	}

	return cfg, nil
}
