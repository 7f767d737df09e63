package beacon

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"ble-beacon.klederson.com/internal/config"
)

func TestDefaultProfile(t *testing.T) {
	p := DefaultProfile()
	if p.Name != "Aula M4 (Default)" {
		t.Errorf("unexpected name %q", p.Name)
	}
	if got := Encode(p); !bytesEqual(got[9:], aulaFrame[9:]) {
		t.Errorf("default profile frame differs from reference: %s", got)
	}
}

func bytesEqual(a, b []byte) bool {
	return string(a) == string(b)
}

func TestShortIDAndDisplayName(t *testing.T) {
	p := DefaultProfile()
	if got := p.ShortID(); got != "...72ECE0" {
		t.Errorf("expected ...72ECE0, got %q", got)
	}
	if got := (Profile{}).DisplayName(); got != "[unnamed]" {
		t.Errorf("expected [unnamed], got %q", got)
	}
	if got := p.DisplayName(); got != p.Name {
		t.Errorf("expected %q, got %q", p.Name, got)
	}
}

func TestKeyDistinguishesMajorMinor(t *testing.T) {
	a := DefaultProfile()
	b := a
	b.Minor++
	if a.Key() == b.Key() {
		t.Errorf("profiles with different minor share key %q", a.Key())
	}
	c := a
	c.Name = "renamed"
	c.Calibration = -70
	if a.Key() != c.Key() {
		t.Errorf("name and calibration should not change key: %q vs %q", a.Key(), c.Key())
	}
}

func TestTruncateNameKeepsRunes(t *testing.T) {
	long := strings.Repeat("é", 20) // 40 bytes
	got := truncateName(long)
	if len(got) > MaxNameLen {
		t.Errorf("truncated name is %d bytes", len(got))
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated name split a rune: %q", got)
	}
	if got != strings.Repeat("é", 16) {
		t.Errorf("unexpected truncation %q", got)
	}

	odd := "a" + strings.Repeat("é", 20) // rune boundary falls at byte 33
	if got := truncateName(odd); got != "a"+strings.Repeat("é", 15) {
		t.Errorf("unexpected truncation %q", got)
	}
}

func TestEstimateDistance(t *testing.T) {
	if d := EstimateDistance(-54, -54); math.Abs(d-1) > 1e-9 {
		t.Errorf("RSSI equal to calibration should be 1m, got %f", d)
	}
	if d := EstimateDistance(-79, -54); math.Abs(d-10) > 1e-9 {
		t.Errorf("25 dB below calibration should be 10m at n=2.5, got %f", d)
	}
	if d := EstimateDistance(0, -54); d != config.MinDistance {
		t.Errorf("non-negative RSSI should clamp to %f, got %f", config.MinDistance, d)
	}
	if d := EstimateDistance(-10, -54); d != config.MinDistance {
		t.Errorf("very strong RSSI should clamp to %f, got %f", config.MinDistance, d)
	}
	if d := EstimateDistance(config.MeasuredPower, 0); math.Abs(d-1) > 1e-9 {
		t.Errorf("zero calibration should fall back to measured power, got %f", d)
	}
}
