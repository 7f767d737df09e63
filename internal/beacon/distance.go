package beacon

import (
	"math"

	"ble-beacon.klederson.com/internal/config"
)

// EstimateDistance estimates distance in meters from a received RSSI and the
// beacon's calibrated RSSI at 1 meter, using the log-distance path loss model.
// Formula: d = 10^((calibration - rssi) / (10 * n))
func EstimateDistance(rssi float64, calibration int8) float64 {
	if rssi >= 0 {
		return config.MinDistance
	}
	measured := float64(calibration)
	if calibration == 0 {
		measured = config.MeasuredPower
	}
	d := math.Pow(10, (measured-rssi)/(10*config.PathLossExp))
	if d < config.MinDistance {
		return config.MinDistance
	}
	return d
}
