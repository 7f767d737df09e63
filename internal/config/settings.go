package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Settings are the runtime options that may be overridden from a file or flags.
type Settings struct {
	BeaconsPath string
	MaxBeacons  int
	LogLevel    string

	MinInterval time.Duration
	MaxInterval time.Duration
	ChannelMap  uint8
	PowerLevel  string
	AddressType string
	Address     string
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		BeaconsPath: DefaultBeaconsPath,
		MaxBeacons:  MaxBeacons,
		LogLevel:    "info",
		MinInterval: MinAdvInterval,
		MaxInterval: MaxAdvInterval,
		ChannelMap:  AdvChannelMap,
		PowerLevel:  AdvPowerLevel,
		AddressType: AdvAddressType,
		Address:     AdvAddress,
	}
}

type fileSettings struct {
	BeaconsPath string `toml:"beacons_path"`
	MaxBeacons  int    `toml:"max_beacons"`
	LogLevel    string `toml:"log_level"`
	MinInterval string `toml:"min_interval"`
	MaxInterval string `toml:"max_interval"`
	ChannelMap  int    `toml:"channel_map"`
	PowerLevel  string `toml:"power_level"`
	AddressType string `toml:"address_type"`
	Address     string `toml:"address"`
}

// LoadSettings reads a TOML settings file. Keys missing from the file keep
// their default value.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	var raw fileSettings
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if meta.IsDefined("beacons_path") {
		if p := strings.TrimSpace(raw.BeaconsPath); p != "" {
			cfg.BeaconsPath = p
		}
	}

	if meta.IsDefined("max_beacons") {
		if raw.MaxBeacons < 0 {
			return Settings{}, fmt.Errorf("max_beacons must not be negative: %d", raw.MaxBeacons)
		}
		cfg.MaxBeacons = raw.MaxBeacons
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}

	if meta.IsDefined("min_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.MinInterval))
		if err != nil {
			return Settings{}, fmt.Errorf("parse min_interval: %w", err)
		}
		cfg.MinInterval = d
	}

	if meta.IsDefined("max_interval") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.MaxInterval))
		if err != nil {
			return Settings{}, fmt.Errorf("parse max_interval: %w", err)
		}
		cfg.MaxInterval = d
	}

	if meta.IsDefined("channel_map") {
		if raw.ChannelMap < 0 || raw.ChannelMap > 0xFF {
			return Settings{}, fmt.Errorf("channel_map out of range: %d", raw.ChannelMap)
		}
		cfg.ChannelMap = uint8(raw.ChannelMap)
	}

	if meta.IsDefined("power_level") {
		cfg.PowerLevel = strings.TrimSpace(raw.PowerLevel)
	}

	if meta.IsDefined("address_type") {
		cfg.AddressType = strings.ToLower(strings.TrimSpace(raw.AddressType))
	}

	if meta.IsDefined("address") {
		cfg.Address = strings.ToUpper(strings.TrimSpace(raw.Address))
	}

	return cfg, nil
}
