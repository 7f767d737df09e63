package app

// rssiRing is a circular buffer of RSSI samples.
type rssiRing struct {
	buf   []float64
	pos   int
	count int
}

func newRSSIRing(capacity int) *rssiRing {
	if capacity < 1 {
		capacity = 1
	}
	return &rssiRing{buf: make([]float64, capacity)}
}

func (r *rssiRing) push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// values returns all stored samples in chronological order.
func (r *rssiRing) values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		n := copy(result, r.buf[r.pos:])
		copy(result[n:], r.buf[:r.pos])
	}
	return result
}

// SignalHistory keeps recent RSSI samples per sighting key.
type SignalHistory struct {
	capacity int
	rings    map[string]*rssiRing
}

// NewSignalHistory keeps up to capacity samples per key.
func NewSignalHistory(capacity int) *SignalHistory {
	return &SignalHistory{
		capacity: capacity,
		rings:    make(map[string]*rssiRing),
	}
}

// Push records a sample for key.
func (h *SignalHistory) Push(key string, rssi float64) {
	r, ok := h.rings[key]
	if !ok {
		r = newRSSIRing(h.capacity)
		h.rings[key] = r
	}
	r.push(rssi)
}

// Values returns the samples for key, oldest first.
func (h *SignalHistory) Values(key string) []float64 {
	if r, ok := h.rings[key]; ok {
		return r.values()
	}
	return nil
}

// Retain drops every key not in keep.
func (h *SignalHistory) Retain(keep map[string]bool) {
	for k := range h.rings {
		if !keep[k] {
			delete(h.rings, k)
		}
	}
}
