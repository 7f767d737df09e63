package beacon

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// AD types and values used by the proximity beacon layout.
const (
	ADTypeFlags            = 0x01
	ADTypeManufacturerData = 0xFF

	FlagsGeneralDiscoverableNoBREDR = 0x06

	AppleCompanyID   = 0x004C
	BeaconSubtype    = 0x02
	BeaconPayloadLen = 0x15 // identifier + major + minor + calibration
)

const (
	// FrameLen is the size of an encoded frame.
	FrameLen = 30
	// MaxAdvertisingDataLen is the legacy advertising data limit.
	MaxAdvertisingDataLen = 31

	flagsLen        = 3
	manufacturerLen = FrameLen - flagsLen - 1 // length byte excluded
	// Manufacturer data after the company ID: subtype, length, payload.
	manufacturerDataLen = 2 + BeaconPayloadLen
)

var (
	ErrShortFrame = errors.New("beacon frame too short")
	ErrNotBeacon  = errors.New("not a proximity beacon frame")
)

// Frame is one encoded advertising payload.
type Frame [FrameLen]byte

// Bytes returns the frame as a slice.
func (f Frame) Bytes() []byte {
	b := make([]byte, FrameLen)
	copy(b, f[:])
	return b
}

// String renders the frame as upper-case hex bytes separated by spaces.
func (f Frame) String() string {
	return HexString(f[:])
}

// HexString renders b as "02 01 06 ...".
func HexString(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}

// Encode builds the advertising frame for p:
//
//	02 01 06                flags
//	1A FF 4C 00 02 15       manufacturer data header
//	<16 identifier bytes>
//	<major BE> <minor BE> <calibration>
func Encode(p Profile) Frame {
	var f Frame

	f[0] = flagsLen - 1
	f[1] = ADTypeFlags
	f[2] = FlagsGeneralDiscoverableNoBREDR

	f[3] = manufacturerLen
	f[4] = ADTypeManufacturerData
	binary.LittleEndian.PutUint16(f[5:7], AppleCompanyID)
	f[7] = BeaconSubtype
	f[8] = BeaconPayloadLen

	copy(f[9:25], p.Identifier[:])
	binary.BigEndian.PutUint16(f[25:27], p.Major)
	binary.BigEndian.PutUint16(f[27:29], p.Minor)
	f[29] = byte(p.Calibration)

	return f
}

// ADStructure is one length-type-value element of advertising data.
type ADStructure struct {
	Type byte
	Data []byte
}

// SplitADStructures splits advertising data into its AD structures. A zero
// length byte ends the data.
func SplitADStructures(data []byte) ([]ADStructure, error) {
	var structures []ADStructure
	offset := 0
	for offset < len(data) {
		length := int(data[offset])
		if length == 0 {
			break
		}
		offset++
		if offset+length > len(data) {
			return nil, fmt.Errorf("%w: AD structure length %d exceeds remaining %d",
				ErrShortFrame, length, len(data)-offset)
		}
		structures = append(structures, ADStructure{
			Type: data[offset],
			Data: data[offset+1 : offset+length],
		})
		offset += length
	}
	return structures, nil
}

// DecodeFrame recovers the beacon fields from a full advertising payload.
// AD structures other than manufacturer data are skipped. The returned
// profile has no name.
func DecodeFrame(data []byte) (Profile, error) {
	structures, err := SplitADStructures(data)
	if err != nil {
		return Profile{}, err
	}
	for _, s := range structures {
		if s.Type != ADTypeManufacturerData {
			continue
		}
		if len(s.Data) < 2 {
			return Profile{}, ErrShortFrame
		}
		return DecodeManufacturerData(binary.LittleEndian.Uint16(s.Data[:2]), s.Data[2:])
	}
	return Profile{}, ErrNotBeacon
}

// DecodeManufacturerData decodes the manufacturer-specific data of a
// beacon, i.e. the bytes after the company ID.
func DecodeManufacturerData(companyID uint16, data []byte) (Profile, error) {
	if companyID != AppleCompanyID {
		return Profile{}, fmt.Errorf("%w: company 0x%04X", ErrNotBeacon, companyID)
	}
	if len(data) < 2 {
		return Profile{}, ErrShortFrame
	}
	if data[0] != BeaconSubtype || data[1] != BeaconPayloadLen {
		return Profile{}, fmt.Errorf("%w: subtype 0x%02X length 0x%02X", ErrNotBeacon, data[0], data[1])
	}
	if len(data) < manufacturerDataLen {
		return Profile{}, fmt.Errorf("%w: got %d bytes, want %d", ErrShortFrame, len(data), manufacturerDataLen)
	}

	var p Profile
	copy(p.Identifier[:], data[2:18])
	p.Major = binary.BigEndian.Uint16(data[18:20])
	p.Minor = binary.BigEndian.Uint16(data[20:22])
	p.Calibration = int8(data[22])
	return p, nil
}
