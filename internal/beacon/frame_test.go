package beacon

import (
	"bytes"
	"errors"
	"testing"
)

var aulaFrame = []byte{
	0x02, 0x01, 0x06,
	0x1A, 0xFF, 0x4C, 0x00, 0x02, 0x15,
	0xE2, 0x82, 0x17, 0x14, 0x13, 0x65, 0x47, 0x17, 0xB1, 0x4D, 0x48, 0x45, 0xBE, 0x72, 0xEC, 0xE0,
	0x00, 0x02,
	0x00, 0x03,
	0xCA,
}

func aulaProfile() Profile {
	return Profile{
		Name:        "Aula M4",
		Identifier:  DecodeIdentifier("e2821714136547 17b14d4845be72ece0"),
		Major:       2,
		Minor:       3,
		Calibration: -54,
	}
}

func TestEncodeKnownProfile(t *testing.T) {
	frame := Encode(aulaProfile())

	if len(frame) != FrameLen {
		t.Fatalf("expected %d bytes, got %d", FrameLen, len(frame))
	}
	if !bytes.Equal(frame[:], aulaFrame) {
		t.Errorf("frame mismatch:\n got  %s\n want %s", frame, HexString(aulaFrame))
	}
}

func TestEncodeFromParsedText(t *testing.T) {
	input := `{
  "name": "Aula M4",
  "uuid": "e2821714136547 17b14d4845be72ece0",
  "major": 2,
  "minor": 3,
  "rssi_1m": -54
}`
	profiles, err := Parse(bytes.NewReader([]byte(input)), 1)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	frame := Encode(profiles[0])
	if !bytes.Equal(frame.Bytes(), aulaFrame) {
		t.Errorf("frame mismatch: got %s", frame)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	p := aulaProfile()
	a := Encode(p)
	b := Encode(p)
	if a != b {
		t.Errorf("encoding the same profile twice differed:\n%s\n%s", a, b)
	}
}

func TestEncodeFieldByteOrder(t *testing.T) {
	p := Profile{Major: 0x1234, Minor: 0xABCD, Calibration: -1}
	frame := Encode(p)

	if frame[25] != 0x12 || frame[26] != 0x34 {
		t.Errorf("major not big-endian: % X", frame[25:27])
	}
	if frame[27] != 0xAB || frame[28] != 0xCD {
		t.Errorf("minor not big-endian: % X", frame[27:29])
	}
	if frame[29] != 0xFF {
		t.Errorf("calibration -1 should encode as 0xFF, got 0x%02X", frame[29])
	}
	if frame[3] != 0x1A || frame[8] != 0x15 {
		t.Errorf("unexpected length bytes: 0x%02X 0x%02X", frame[3], frame[8])
	}
}

func TestFrameString(t *testing.T) {
	want := "02 01 06 1A FF 4C 00 02 15 E2 82 17 14 13 65 47 17 B1 4D 48 45 BE 72 EC E0 00 02 00 03 CA"
	if got := Encode(aulaProfile()).String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFrameBytesIsCopy(t *testing.T) {
	frame := Encode(aulaProfile())
	b := frame.Bytes()
	b[0] = 0xEE
	if frame[0] != 0x02 {
		t.Error("mutating Bytes() changed the frame")
	}
}

func TestDecodeFrame(t *testing.T) {
	p, err := DecodeFrame(aulaFrame)
	if err != nil {
		t.Fatalf("DecodeFrame failed: %v", err)
	}
	want := aulaProfile()
	want.Name = ""
	if p != want {
		t.Errorf("expected %+v, got %+v", want, p)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"flags only", []byte{0x02, 0x01, 0x06}, ErrNotBeacon},
		{"empty", nil, ErrNotBeacon},
		{"truncated structure", aulaFrame[:20], ErrShortFrame},
		{"other company", []byte{0x04, 0xFF, 0x59, 0x00, 0x02}, ErrNotBeacon},
		{"wrong subtype", []byte{0x05, 0xFF, 0x4C, 0x00, 0x10, 0x05}, ErrNotBeacon},
		{"short manufacturer data", []byte{0x02, 0xFF, 0x4C}, ErrShortFrame},
		{"short payload", []byte{0x06, 0xFF, 0x4C, 0x00, 0x02, 0x15, 0x01}, ErrShortFrame},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeFrame(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSplitADStructures(t *testing.T) {
	structures, err := SplitADStructures(aulaFrame)
	if err != nil {
		t.Fatalf("SplitADStructures failed: %v", err)
	}
	if len(structures) != 2 {
		t.Fatalf("expected 2 structures, got %d", len(structures))
	}
	if structures[0].Type != ADTypeFlags || !bytes.Equal(structures[0].Data, []byte{0x06}) {
		t.Errorf("unexpected flags structure: %+v", structures[0])
	}
	if structures[1].Type != ADTypeManufacturerData || len(structures[1].Data) != 25 {
		t.Errorf("unexpected manufacturer structure: type 0x%02X len %d", structures[1].Type, len(structures[1].Data))
	}

	// Zero length ends the data
	padded := append(append([]byte(nil), aulaFrame[:3]...), 0x00, 0xFF)
	structures, err = SplitADStructures(padded)
	if err != nil {
		t.Fatalf("SplitADStructures with padding failed: %v", err)
	}
	if len(structures) != 1 {
		t.Errorf("expected 1 structure before padding, got %d", len(structures))
	}
}
