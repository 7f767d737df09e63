package config

import "time"

const (
	// Profile source
	DefaultBeaconsPath = "/ext/apps_data/aula_m4_beacon/beacons.json"
	MaxBeacons         = 20 // Profiles kept from the file; the rest are dropped

	// Broadcast defaults
	MinAdvInterval = 100 * time.Millisecond
	MaxAdvInterval = 150 * time.Millisecond
	AdvChannelMap  = 0x07 // Channels 37, 38 and 39
	AdvPowerLevel  = "6dBm"
	AdvAddressType = "random"
	AdvAddress     = "69:69:69:69:69:69"

	// RSSI to distance estimation
	MeasuredPower = -59.0 // Fallback RSSI at 1 meter (dBm) when a beacon reports 0
	PathLossExp   = 2.5   // Path loss exponent (N)
	MinDistance   = 0.1   // Closest reported distance in meters

	// Sighting management
	SightingTimeout = 30 * time.Second // Remove beacons not heard for this long
	EvictInterval   = 5 * time.Second  // How often to run eviction
	SmoothingAlpha  = 0.3              // EMA smoothing factor (30% new, 70% old)
	HistoryLen      = 60               // RSSI samples kept per sighting

	// Demo mode
	DemoEmitInterval = 200 * time.Millisecond

	// UI
	TargetFPS = 10

	// App
	AppName    = "BLE-BEACON"
	AppVersion = "1.0"
)
