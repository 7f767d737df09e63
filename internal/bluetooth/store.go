package bluetooth

import (
	"sort"
	"sync"
	"time"

	"ble-beacon.klederson.com/internal/beacon"
	"ble-beacon.klederson.com/internal/config"
)

// SightingStore is a thread-safe store for heard beacons.
type SightingStore struct {
	mu        sync.RWMutex
	sightings map[string]*Sighting
	now       func() time.Time
}

// NewSightingStore creates a new empty SightingStore.
func NewSightingStore() *SightingStore {
	return &SightingStore{
		sightings: make(map[string]*Sighting),
		now:       time.Now,
	}
}

// Upsert adds or updates a sighting keyed by identifier, major and minor.
// RSSI of a known beacon is smoothed using EMA.
func (s *SightingStore) Upsert(msg SightingMsg) *Sighting {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := msg.Profile.Key()
	now := s.now()
	rssi := float64(msg.RSSI)

	if existing, ok := s.sightings[key]; ok {
		existing.RSSI = existing.RSSI*(1-config.SmoothingAlpha) + rssi*config.SmoothingAlpha
		existing.Distance = beacon.EstimateDistance(existing.RSSI, msg.Profile.Calibration)
		existing.LastSeen = now
		existing.Address = msg.Address
		existing.Count++
		if msg.Profile.Name != "" {
			existing.Profile.Name = msg.Profile.Name
		}
		existing.Profile.Calibration = msg.Profile.Calibration
		cp := *existing
		return &cp
	}

	sg := &Sighting{
		Key:      key,
		Address:  msg.Address,
		Profile:  msg.Profile,
		Vendor:   LookupManufacturer(msg.CompanyID),
		RSSI:     rssi,
		Distance: beacon.EstimateDistance(rssi, msg.Profile.Calibration),
		LastSeen: now,
		Count:    1,
	}
	s.sightings[key] = sg
	cp := *sg
	return &cp
}

// Evict removes sightings not heard within the timeout duration.
// Returns the number of evicted sightings.
func (s *SightingStore) Evict(timeout time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-timeout)
	count := 0
	for key, sg := range s.sightings {
		if sg.LastSeen.Before(cutoff) {
			delete(s.sightings, key)
			count++
		}
	}
	return count
}

// Snapshot returns a sorted copy of all sightings (strongest RSSI first).
func (s *SightingStore) Snapshot() []*Sighting {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Sighting, 0, len(s.sightings))
	for _, sg := range s.sightings {
		cp := *sg
		result = append(result, &cp)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].RSSI == result[j].RSSI {
			return result[i].Key < result[j].Key
		}
		return result[i].RSSI > result[j].RSSI
	})
	return result
}

// Count returns the number of tracked sightings.
func (s *SightingStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sightings)
}
