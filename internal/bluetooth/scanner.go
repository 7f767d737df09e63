package bluetooth

import (
	"sync/atomic"

	"ble-beacon.klederson.com/internal/beacon"
	"github.com/rs/zerolog/log"
	"tinygo.org/x/bluetooth"
)

// Watcher scans for proximity beacon frames.
type Watcher struct {
	adapter *bluetooth.Adapter
	sender  Sender
	running atomic.Bool
}

// NewWatcher creates a watcher on the default adapter.
func NewWatcher() *Watcher {
	return &Watcher{
		adapter: bluetooth.DefaultAdapter,
	}
}

// Start begins scanning in a goroutine. Decoded beacons are sent as
// SightingMsg values.
func (w *Watcher) Start(s Sender) error {
	w.sender = s

	if err := enableAdapter(); err != nil {
		return err
	}

	w.running.Store(true)
	go func() {
		err := w.adapter.Scan(func(adapter *bluetooth.Adapter, result bluetooth.ScanResult) {
			if !w.running.Load() {
				return
			}
			for _, m := range result.ManufacturerData() {
				msg, ok := sightingFromManufacturerData(result.Address.String(), result.LocalName(), result.RSSI, m.CompanyID, m.Data)
				if ok && w.sender != nil {
					w.sender.Send(msg)
				}
			}
		})
		if err != nil {
			log.Warn().Err(err).Msg("beacon scan ended")
		}
	}()

	return nil
}

// Stop halts the watcher.
func (w *Watcher) Stop() {
	if !w.running.Swap(false) {
		return
	}
	_ = w.adapter.StopScan()
}

func sightingFromManufacturerData(addr, name string, rssi int16, companyID uint16, data []byte) (SightingMsg, bool) {
	p, err := beacon.DecodeManufacturerData(companyID, data)
	if err != nil {
		return SightingMsg{}, false
	}
	p.Name = name
	return SightingMsg{
		Address:   addr,
		Profile:   p,
		RSSI:      rssi,
		CompanyID: companyID,
	}, true
}
