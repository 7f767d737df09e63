package bluetooth

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/config"
)

// MockAdvertiser records broadcasts instead of driving a radio. Used by demo
// mode and tests.
type MockAdvertiser struct {
	mu      sync.Mutex
	cfg     AdvertiseConfig
	payload []byte
	active  bool
	events  []string

	// FailStart makes Start return an error.
	FailStart bool
}

// NewMockAdvertiser creates an idle mock advertiser.
func NewMockAdvertiser() *MockAdvertiser {
	return &MockAdvertiser{}
}

func (m *MockAdvertiser) Configure(cfg AdvertiseConfig, payload []byte) error {
	if len(payload) > beacon.MaxAdvertisingDataLen {
		return ErrPayloadTooLong
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		return fmt.Errorf("configure while advertising")
	}
	m.cfg = cfg
	m.payload = append([]byte(nil), payload...)
	m.events = append(m.events, "configure")
	return nil
}

func (m *MockAdvertiser) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailStart {
		return fmt.Errorf("mock start failure")
	}
	if m.payload == nil {
		return fmt.Errorf("advertisement not configured")
	}
	m.active = true
	m.events = append(m.events, "start")
	return nil
}

func (m *MockAdvertiser) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
	m.events = append(m.events, "stop")
	return nil
}

func (m *MockAdvertiser) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Payload returns the last configured payload.
func (m *MockAdvertiser) Payload() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.payload...)
}

// Events returns the configure/start/stop history.
func (m *MockAdvertiser) Events() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.events...)
}

// MockWatcher hears whatever the emitter is broadcasting, with a fluctuating
// RSSI, plus a couple of fixed neighbour beacons.
type MockWatcher struct {
	source    func() []byte
	sender    Sender
	running   atomic.Bool
	cancel    context.CancelFunc
	address   string
	baseRSSI  float64
	phase     float64
	amplitude float64
	neighbors []mockNeighbor
}

type mockNeighbor struct {
	address  string
	profile  beacon.Profile
	baseRSSI float64
	phase    float64
}

// NewMockWatcher creates a demo watcher. source returns the payload on air,
// or nil when nothing is broadcast.
func NewMockWatcher(source func() []byte) *MockWatcher {
	neighbors := make([]mockNeighbor, 2)
	for i := range neighbors {
		p := beacon.Profile{
			Identifier:  beacon.DecodeIdentifier(fmt.Sprintf("f7826da6-4fa2-4e98-8024-bc5b71e0893%d", i)),
			Major:       uint16(100 + i),
			Minor:       uint16(rand.Intn(1000)),
			Calibration: -59,
		}
		neighbors[i] = mockNeighbor{
			address:  randomMAC(),
			profile:  p,
			baseRSSI: -65 - rand.Float64()*20, // -65 to -85 dBm
			phase:    rand.Float64() * 2 * math.Pi,
		}
	}

	return &MockWatcher{
		source:    source,
		address:   "69:69:69:69:69:69",
		baseRSSI:  -50,
		phase:     rand.Float64() * 2 * math.Pi,
		amplitude: 3 + rand.Float64()*5, // 3-8 dBm fluctuation
		neighbors: neighbors,
	}
}

// Start begins the mock watcher.
func (w *MockWatcher) Start(s Sender) error {
	w.sender = s
	w.running.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	go w.loop(ctx)
	return nil
}

func (w *MockWatcher) loop(ctx context.Context) {
	ticker := time.NewTicker(config.DemoEmitInterval)
	defer ticker.Stop()

	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !w.running.Load() {
				return
			}
			t += config.DemoEmitInterval.Seconds()
			for _, msg := range w.sightings(t) {
				if w.sender != nil {
					w.sender.Send(msg)
				}
			}
		}
	}
}

// sightings returns the messages heard at time t.
func (w *MockWatcher) sightings(t float64) []SightingMsg {
	var msgs []SightingMsg

	var payload []byte
	if w.source != nil {
		payload = w.source()
	}
	if payload != nil {
		if p, err := beacon.DecodeFrame(payload); err == nil {
			rssi := w.baseRSSI + w.amplitude*math.Sin(t*0.5+w.phase) + (rand.Float64()-0.5)*4
			msgs = append(msgs, SightingMsg{
				Address:   w.address,
				Profile:   p,
				RSSI:      int16(rssi),
				CompanyID: beacon.AppleCompanyID,
			})
		}
	}

	for _, n := range w.neighbors {
		rssi := n.baseRSSI + 4*math.Sin(t*0.3+n.phase) + (rand.Float64()-0.5)*4
		msgs = append(msgs, SightingMsg{
			Address:   n.address,
			Profile:   n.profile,
			RSSI:      int16(rssi),
			CompanyID: beacon.AppleCompanyID,
		})
	}
	return msgs
}

// Stop halts the mock watcher.
func (w *MockWatcher) Stop() {
	w.running.Store(false)
	if w.cancel != nil {
		w.cancel()
	}
}

func randomMAC() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = byte(rand.Intn(256))
	}
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", b[0], b[1], b[2], b[3], b[4], b[5])
}
