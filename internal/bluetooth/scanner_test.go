package bluetooth

import (
	"testing"

	"ble-beacon.klederson.com/internal/beacon"
)

func TestSightingFromManufacturerData(t *testing.T) {
	p := beacon.DefaultProfile()
	frame := beacon.Encode(p)

	msg, ok := sightingFromManufacturerData("AA:BB:CC:DD:EE:FF", "Aula", -61, beacon.AppleCompanyID, frame[7:])
	if !ok {
		t.Fatal("expected beacon frame to decode")
	}
	p.Name = "Aula"
	if msg.Profile != p {
		t.Errorf("expected %+v, got %+v", p, msg.Profile)
	}
	if msg.RSSI != -61 || msg.Address != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, ok := sightingFromManufacturerData("AA:BB:CC:DD:EE:FF", "", -61, 0x0006, frame[7:]); ok {
		t.Error("non-Apple company decoded as beacon")
	}
	if _, ok := sightingFromManufacturerData("AA:BB:CC:DD:EE:FF", "", -61, beacon.AppleCompanyID, []byte{0x10, 0x05}); ok {
		t.Error("non-beacon subtype decoded as beacon")
	}
}
