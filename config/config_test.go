package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yzrtps/acknack/config"
)

func writeTOML(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "acknack.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestDefaultAvoidSuppressedNack(t *testing.T) {
	if !config.Default().AvoidSuppressedNack {
		t.Fatalf("Default().AvoidSuppressedNack = false, want true")
	}
}

func TestLoadOmittedSchedulerTableKeepsDefault(t *testing.T) {
	path := writeTOML(t, `
[proxy_writer]
late_ack_mode = true
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.AvoidSuppressedNack {
		t.Fatalf("AvoidSuppressedNack = false after a file that omits [scheduler], want true (Default's value preserved)")
	}
	if !cfg.ProxyWriter.LateAckMode {
		t.Fatalf("LateAckMode not picked up from the file")
	}
}

func TestLoadExplicitFalseOverridesDefault(t *testing.T) {
	path := writeTOML(t, `
[scheduler]
avoid_suppressed_nack = false
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AvoidSuppressedNack {
		t.Fatalf("AvoidSuppressedNack = true, want false (explicit file value should override Default)")
	}
}

func TestLoadExplicitTrueMatchesDefault(t *testing.T) {
	path := writeTOML(t, `
[scheduler]
avoid_suppressed_nack = true
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.AvoidSuppressedNack {
		t.Fatalf("AvoidSuppressedNack = false, want true")
	}
}

func TestLoadDelayMillisOverridesDefault(t *testing.T) {
	path := writeTOML(t, `
[proxy_writer]
ack_delay_millis = 50
nack_delay_millis = 250
auto_resched_nack_delay_millis = 2000
`)

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got, want := cfg.ReaderMatch.AckDelay, 50*time.Millisecond; got != want {
		t.Fatalf("AckDelay = %v, want %v", got, want)
	}
	if got, want := cfg.ReaderMatch.NackDelay, 250*time.Millisecond; got != want {
		t.Fatalf("NackDelay = %v, want %v", got, want)
	}
	if got, want := cfg.ReaderMatch.AutoReschedNackDelay, 2*time.Second; got != want {
		t.Fatalf("AutoReschedNackDelay = %v, want %v", got, want)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "does-not-exist.toml")); err == nil {
		t.Fatalf("Load of a missing file: got nil error, want non-nil")
	}
}
