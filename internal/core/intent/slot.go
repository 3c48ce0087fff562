// Package intent is the single shared slot between the slow strategic
// producer and the fast simulation tick loop. The producer publishes whole
// decisions; the tick loop reads the most recent one without ever blocking.
package intent

import "sync/atomic"

// Decision is one strategic emission: a desired movement direction in
// [-1, 1] per axis and the fire intent.
type Decision struct {
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
	Fire bool    `json:"shoot"`
}

// Slot holds the latest published Decision with atomic-snapshot semantics:
// a reader sees a whole decision or the previous whole decision, never a
// torn mix. Decisions published between two reads are silently overwritten;
// only last-write visibility is guaranteed.
type Slot struct {
	value   atomic.Value
	version atomic.Uint64
}

// NewSlot returns a slot holding the zero decision ("no intent") so readers
// are valid before the producer's first emission ever arrives.
func NewSlot() *Slot {
	s := &Slot{}
	s.value.Store(Decision{})
	return s
}

// Publish atomically replaces the current decision.
func (s *Slot) Publish(d Decision) {
	s.value.Store(d)
	s.version.Add(1)
}

// Load returns the most recently published decision. It never blocks.
func (s *Slot) Load() Decision {
	return s.value.Load().(Decision)
}

// Version returns the number of publishes so far. Useful for telemetry and
// for tests asserting last-write-wins behaviour.
func (s *Slot) Version() uint64 {
	return s.version.Load()
}
