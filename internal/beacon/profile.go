package beacon

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLen is the longest profile name kept, in bytes.
const MaxNameLen = 32

// Profile is one beacon configuration record.
type Profile struct {
	Name        string
	Identifier  uuid.UUID // 16 raw bytes, big-endian as broadcast
	Major       uint16
	Minor       uint16
	Calibration int8 // RSSI at 1 meter (dBm)
}

// DisplayName returns the profile name or "[unnamed]" if empty.
func (p Profile) DisplayName() string {
	if p.Name == "" {
		return "[unnamed]"
	}
	return p.Name
}

// ShortID returns the last three identifier bytes, e.g. "...72ECE0".
func (p Profile) ShortID() string {
	id := p.Identifier
	return fmt.Sprintf("...%02X%02X%02X", id[13], id[14], id[15])
}

// Key identifies a broadcast on air: identifier, major and minor.
func (p Profile) Key() string {
	return fmt.Sprintf("%s/%d/%d", p.Identifier, p.Major, p.Minor)
}

// DefaultProfile is used when no profile file can be opened.
func DefaultProfile() Profile {
	return Profile{
		Name:        "Aula M4 (Default)",
		Identifier:  uuid.MustParse("e2821714-1365-4717-b14d-4845be72ece0"),
		Major:       2,
		Minor:       3,
		Calibration: -54,
	}
}

// truncateName cuts s to MaxNameLen bytes without splitting a rune.
func truncateName(s string) string {
	if len(s) <= MaxNameLen {
		return s
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
