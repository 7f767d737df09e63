package bluetooth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/config"
	"github.com/rs/zerolog/log"
)

var (
	ErrPayloadTooLong     = fmt.Errorf("advertising payload exceeds %d bytes", beacon.MaxAdvertisingDataLen)
	ErrNoManufacturerData = errors.New("advertising payload has no manufacturer data")
)

// AdvertiseConfig describes how a payload is broadcast.
type AdvertiseConfig struct {
	MinInterval time.Duration
	MaxInterval time.Duration
	ChannelMap  uint8 // bit 0..2 = channels 37..39
	PowerLevel  string
	AddressType string // "public" or "random"
	Address     string // "AA:BB:CC:DD:EE:FF"
}

// ConfigFromSettings builds the broadcast configuration from runtime settings.
func ConfigFromSettings(s config.Settings) AdvertiseConfig {
	return AdvertiseConfig{
		MinInterval: s.MinInterval,
		MaxInterval: s.MaxInterval,
		ChannelMap:  s.ChannelMap,
		PowerLevel:  s.PowerLevel,
		AddressType: s.AddressType,
		Address:     s.Address,
	}
}

// Validate checks the configuration for values no radio accepts.
func (c AdvertiseConfig) Validate() error {
	if c.MinInterval <= 0 {
		return fmt.Errorf("min interval must be positive: %v", c.MinInterval)
	}
	if c.MaxInterval < c.MinInterval {
		return fmt.Errorf("max interval %v below min interval %v", c.MaxInterval, c.MinInterval)
	}
	if c.ChannelMap&0x07 == 0 {
		return fmt.Errorf("channel map 0x%02X selects no advertising channel", c.ChannelMap)
	}
	switch c.AddressType {
	case "public", "random":
	default:
		return fmt.Errorf("unknown address type %q", c.AddressType)
	}
	if !isValidMAC(c.Address) {
		return fmt.Errorf("invalid address %q", c.Address)
	}
	return nil
}

// Advertiser is the radio control surface used to broadcast one payload.
type Advertiser interface {
	Configure(cfg AdvertiseConfig, payload []byte) error
	Start() error
	Stop() error
	IsActive() bool
}

// Emitter switches the broadcast between payloads. A running broadcast is
// always stopped before the next one is configured.
type Emitter struct {
	mu      sync.Mutex
	adv     Advertiser
	cfg     AdvertiseConfig
	current []byte
}

// NewEmitter validates cfg and wraps adv.
func NewEmitter(adv Advertiser, cfg AdvertiseConfig) (*Emitter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("advertise config: %w", err)
	}
	return &Emitter{adv: adv, cfg: cfg}, nil
}

// Emit broadcasts payload, replacing whatever was on air.
func (e *Emitter) Emit(payload []byte) error {
	if len(payload) > beacon.MaxAdvertisingDataLen {
		return ErrPayloadTooLong
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.adv.IsActive() {
		if err := e.adv.Stop(); err != nil {
			return fmt.Errorf("stop broadcast: %w", err)
		}
	}
	e.current = nil

	if err := e.adv.Configure(e.cfg, payload); err != nil {
		return fmt.Errorf("configure broadcast: %w", err)
	}
	if err := e.adv.Start(); err != nil {
		return fmt.Errorf("start broadcast: %w", err)
	}

	e.current = append([]byte(nil), payload...)
	log.Info().
		Str("payload", beacon.HexString(payload)).
		Dur("interval", e.cfg.MinInterval).
		Msg("broadcast started")
	return nil
}

// Halt stops the broadcast if one is running.
func (e *Emitter) Halt() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.current = nil
	if !e.adv.IsActive() {
		return nil
	}
	if err := e.adv.Stop(); err != nil {
		return fmt.Errorf("stop broadcast: %w", err)
	}
	log.Info().Msg("broadcast stopped")
	return nil
}

// Active reports whether a broadcast is on air.
func (e *Emitter) Active() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.adv.IsActive()
}

// Current returns a copy of the payload on air, or nil.
func (e *Emitter) Current() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return nil
	}
	return append([]byte(nil), e.current...)
}

// Config returns the broadcast configuration.
func (e *Emitter) Config() AdvertiseConfig {
	return e.cfg
}

func isValidMAC(mac string) bool {
	if len(mac) != 17 {
		return false
	}
	for i, c := range strings.ToUpper(mac) {
		if (i+1)%3 == 0 {
			if c != ':' {
				return false
			}
		} else {
			if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F')) {
				return false
			}
		}
	}
	return true
}
