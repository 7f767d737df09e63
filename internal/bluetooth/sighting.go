package bluetooth

import (
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	tea "github.com/charmbracelet/bubbletea"
)

// Sender is the part of tea.Program the scanners use.
type Sender interface {
	Send(msg tea.Msg)
}

// SightingMsg is sent when a proximity beacon frame is heard.
type SightingMsg struct {
	Address   string
	Profile   beacon.Profile
	RSSI      int16
	CompanyID uint16
}

// Sighting is a beacon heard on air.
type Sighting struct {
	Key      string
	Address  string
	Profile  beacon.Profile
	Vendor   string
	RSSI     float64 // EMA smoothed
	Distance float64 // Estimated distance in meters
	LastSeen time.Time
	Count    int
}

// DisplayName returns the advertised name, or the short identifier.
func (s *Sighting) DisplayName() string {
	if s.Profile.Name != "" {
		return s.Profile.Name
	}
	return s.Profile.ShortID()
}
