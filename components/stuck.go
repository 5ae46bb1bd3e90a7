package components

// StuckState tracks recent positions for stagnation detection and the
// escalating un-stuck counter driven by the stuck ladder.
type StuckState struct {
	Recent   [RecentPositionCapacity]RecentPosition
	Count    int // number of valid entries in Recent, caps at capacity
	Head     int // next write index (ring buffer)
	Counter  uint32
}

// Push appends a position sample, overwriting the oldest entry once the
// ring buffer is full.
func (s *StuckState) Push(x, y float32, tick int64) {
	s.Recent[s.Head] = RecentPosition{X: x, Y: y, Tick: tick}
	s.Head = (s.Head + 1) % RecentPositionCapacity
	if s.Count < RecentPositionCapacity {
		s.Count++
	}
}

// Oldest returns the least-recently-pushed sample and true, or the zero
// value and false if the buffer has not yet filled.
func (s *StuckState) Oldest() (RecentPosition, bool) {
	if s.Count < RecentPositionCapacity {
		return RecentPosition{}, false
	}
	// Head points at the slot that will be overwritten next, which is
	// also the oldest entry once the buffer is full.
	return s.Recent[s.Head], true
}
