package app

import "time"

// TickMsg triggers a refresh of the sightings snapshot.
type TickMsg time.Time

// EvictMsg triggers sighting eviction.
type EvictMsg time.Time

