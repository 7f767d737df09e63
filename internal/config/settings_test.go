package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeSettings(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beacon.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadSettingsDefaultsAndOverrides(t *testing.T) {
	path := writeSettings(t, `
beacons_path = " /data/beacons.json "
max_beacons = 5
min_interval = "200ms"
address = "aa:bb:cc:dd:ee:ff"
`)

	cfg, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if cfg.BeaconsPath != "/data/beacons.json" {
		t.Fatalf("unexpected beacons path: %q", cfg.BeaconsPath)
	}
	if cfg.MaxBeacons != 5 {
		t.Fatalf("unexpected max beacons: %d", cfg.MaxBeacons)
	}
	if cfg.MinInterval != 200*time.Millisecond {
		t.Fatalf("unexpected min interval: %v", cfg.MinInterval)
	}
	if cfg.Address != "AA:BB:CC:DD:EE:FF" {
		t.Fatalf("unexpected address: %q", cfg.Address)
	}

	// Untouched keys keep defaults
	if cfg.MaxInterval != MaxAdvInterval {
		t.Fatalf("unexpected max interval: %v", cfg.MaxInterval)
	}
	if cfg.ChannelMap != AdvChannelMap {
		t.Fatalf("unexpected channel map: 0x%02X", cfg.ChannelMap)
	}
	if cfg.PowerLevel != AdvPowerLevel || cfg.AddressType != AdvAddressType {
		t.Fatalf("unexpected radio defaults: %q %q", cfg.PowerLevel, cfg.AddressType)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadSettingsEmptyFileIsDefault(t *testing.T) {
	cfg, err := LoadSettings(writeSettings(t, ""))
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if cfg != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad duration", `min_interval = "fast"`, "parse min_interval"},
		{"bad max duration", `max_interval = "1 hour"`, "parse max_interval"},
		{"negative max", `max_beacons = -1`, "max_beacons"},
		{"channel map range", `channel_map = 300`, "channel_map"},
		{"not toml", `this is not toml`, "load settings"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(writeSettings(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	if _, err := LoadSettings(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
