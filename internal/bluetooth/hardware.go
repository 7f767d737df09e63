package bluetooth

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"ble-beacon.klederson.com/internal/beacon"
	"github.com/rs/zerolog/log"
	"tinygo.org/x/bluetooth"
)

var (
	enableOnce sync.Once
	enableErr  error
)

// enableAdapter powers the default adapter once per process; the advertiser
// and the watcher share it.
func enableAdapter() error {
	enableOnce.Do(func() {
		if err := bluetooth.DefaultAdapter.Enable(); err != nil {
			enableErr = fmt.Errorf("failed to enable BLE adapter: %w (try running with sudo or setcap cap_net_admin+ep)", err)
		}
	})
	return enableErr
}

// HardwareAdvertiser broadcasts through the host Bluetooth stack.
//
// The host stack builds the flags structure itself, so only the manufacturer
// data of the payload is handed over. Channel map, power level and address
// are owned by the stack on most hosts and are only logged.
type HardwareAdvertiser struct {
	mu     sync.Mutex
	adv    *bluetooth.Advertisement
	active bool
}

// NewHardwareAdvertiser creates an advertiser on the default adapter.
func NewHardwareAdvertiser() *HardwareAdvertiser {
	return &HardwareAdvertiser{}
}

// Configure enables the adapter and loads payload into the advertisement.
func (h *HardwareAdvertiser) Configure(cfg AdvertiseConfig, payload []byte) error {
	if len(payload) > beacon.MaxAdvertisingDataLen {
		return ErrPayloadTooLong
	}
	mfr, err := manufacturerElements(payload)
	if err != nil {
		return err
	}
	if err := enableAdapter(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.adv == nil {
		h.adv = bluetooth.DefaultAdapter.DefaultAdvertisement()
	}
	log.Debug().
		Uint8("channel_map", cfg.ChannelMap).
		Str("power", cfg.PowerLevel).
		Str("address_type", cfg.AddressType).
		Str("address", cfg.Address).
		Msg("radio options left to host stack")

	return h.adv.Configure(bluetooth.AdvertisementOptions{
		Interval:         bluetooth.NewDuration(cfg.MinInterval),
		ManufacturerData: mfr,
	})
}

// Start begins advertising.
func (h *HardwareAdvertiser) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.adv == nil {
		return errors.New("advertisement not configured")
	}
	if err := h.adv.Start(); err != nil {
		return err
	}
	h.active = true
	return nil
}

// Stop ends advertising.
func (h *HardwareAdvertiser) Stop() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.adv == nil || !h.active {
		return nil
	}
	if err := h.adv.Stop(); err != nil {
		return err
	}
	h.active = false
	return nil
}

// IsActive reports whether the advertisement is running.
func (h *HardwareAdvertiser) IsActive() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.active
}

// manufacturerElements extracts the manufacturer-specific structures from an
// advertising payload.
func manufacturerElements(payload []byte) ([]bluetooth.ManufacturerDataElement, error) {
	structures, err := beacon.SplitADStructures(payload)
	if err != nil {
		return nil, err
	}

	var out []bluetooth.ManufacturerDataElement
	for _, s := range structures {
		if s.Type != beacon.ADTypeManufacturerData || len(s.Data) < 2 {
			continue
		}
		out = append(out, bluetooth.ManufacturerDataElement{
			CompanyID: binary.LittleEndian.Uint16(s.Data[:2]),
			Data:      append([]byte(nil), s.Data[2:]...),
		})
	}
	if len(out) == 0 {
		return nil, ErrNoManufacturerData
	}
	return out, nil
}
