package beacon

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// FieldKind tags a profile line by the field it carries.
type FieldKind int

const (
	FieldUnrecognized FieldKind = iota
	FieldName
	FieldUUID
	FieldMajor
	FieldMinor
	FieldRSSI
)

func (k FieldKind) String() string {
	switch k {
	case FieldName:
		return "name"
	case FieldUUID:
		return "uuid"
	case FieldMajor:
		return "major"
	case FieldMinor:
		return "minor"
	case FieldRSSI:
		return "rssi_1m"
	default:
		return "unrecognized"
	}
}

// Markers are tested in this order; the first one found on a line wins.
var fieldMarkers = []struct {
	kind   FieldKind
	marker string
}{
	{FieldName, `"name":`},
	{FieldUUID, `"uuid":`},
	{FieldMajor, `"major":`},
	{FieldMinor, `"minor":`},
	{FieldRSSI, `"rssi_1m":`},
}

const (
	identifierHexLen = 32
	maxLineLen       = 1 << 20
)

// classify finds the field marker on a trimmed line and returns the text
// after the marker's colon.
func classify(line string) (FieldKind, string) {
	for _, f := range fieldMarkers {
		if idx := strings.Index(line, f.marker); idx >= 0 {
			return f.kind, line[idx+len(f.marker):]
		}
	}
	return FieldUnrecognized, ""
}

// quotedValue returns the text between the first and the last double quote.
func quotedValue(rest string) (string, bool) {
	first := strings.IndexByte(rest, '"')
	last := strings.LastIndexByte(rest, '"')
	if first < 0 || last <= first {
		return "", false
	}
	return rest[first+1 : last], true
}

// numericValue parses the text up to the first comma as a decimal integer.
// Like strtol, a leading integer prefix is accepted, anything without digits
// reads as 0 and values outside int64 saturate.
func numericValue(rest string) int64 {
	if end := strings.IndexByte(rest, ','); end >= 0 {
		rest = rest[:end]
	}
	s := strings.TrimSpace(rest)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0
	}
	n, _ := strconv.ParseInt(s[:i], 10, 64)
	return n
}

// DecodeIdentifier turns identifier text into 16 bytes. Only ASCII letters
// and digits are kept, at most 32 of them, decoded pairwise as hex. Letters
// outside a-f read as 0 and missing digits leave the tail zeroed.
func DecodeIdentifier(text string) uuid.UUID {
	var digits [identifierHexLen]byte
	n := 0
	for i := 0; i < len(text) && n < len(digits); i++ {
		if isAlnum(text[i]) {
			digits[n] = text[i]
			n++
		}
	}

	var id uuid.UUID
	for i := range id {
		id[i] = hexNibble(digits[2*i])<<4 | hexNibble(digits[2*i+1])
	}
	return id
}

func isAlnum(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}

type scanState int

const (
	stateOutside scanState = iota
	stateInsideRecord
)

// recordScanner accumulates profiles from brace-delimited records.
type recordScanner struct {
	state   scanState
	partial Profile
	out     []Profile
	limit   int
}

func newRecordScanner(limit int) *recordScanner {
	if limit < 0 {
		limit = 0
	}
	return &recordScanner{
		out:   make([]Profile, 0, limit),
		limit: limit,
	}
}

func (s *recordScanner) full() bool {
	return len(s.out) >= s.limit
}

func (s *recordScanner) feed(raw string) {
	line := strings.TrimSpace(raw)

	switch {
	case strings.HasPrefix(line, "{"):
		s.partial = Profile{}
		s.state = stateInsideRecord
		return
	case strings.HasPrefix(line, "}"):
		if s.state == stateInsideRecord {
			s.out = append(s.out, s.partial)
			s.state = stateOutside
		}
		return
	}

	if s.state != stateInsideRecord {
		return
	}

	kind, rest := classify(line)
	switch kind {
	case FieldName:
		if v, ok := quotedValue(rest); ok {
			s.partial.Name = truncateName(v)
		}
	case FieldUUID:
		if v, ok := quotedValue(rest); ok {
			s.partial.Identifier = DecodeIdentifier(v)
		}
	case FieldMajor:
		s.partial.Major = uint16(numericValue(rest))
	case FieldMinor:
		s.partial.Minor = uint16(numericValue(rest))
	case FieldRSSI:
		s.partial.Calibration = int8(numericValue(rest))
	}
}

// Parse reads beacon profiles from loosely formatted JSON-like text, one
// field per line. At most limit profiles are returned; later records are
// dropped. Malformed fields fall back to zero values and never fail the
// parse; only a read error is returned. Lines of any length are accepted,
// but only their first maxLineLen bytes are examined.
func Parse(r io.Reader, limit int) ([]Profile, error) {
	rs := newRecordScanner(limit)

	br := bufio.NewReader(r)
	var line []byte
	for !rs.full() {
		frag, isPrefix, err := br.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read profiles: %w", err)
		}
		if room := maxLineLen - len(line); room > 0 {
			line = append(line, frag[:min(len(frag), room)]...)
		}
		if isPrefix {
			continue
		}
		rs.feed(string(line))
		line = line[:0]
	}
	return rs.out, nil
}

// Load opens the profile file at path and parses it. A missing or
// unreadable file is the only failure.
func Load(path string, limit int) ([]Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open profiles: %w", err)
	}
	defer f.Close()

	return Parse(f, limit)
}
