package compare

// State is the playback state.
type State int

const (
	// StateStopped is the initial state before playback has started.
	StateStopped State = iota
	// StatePlaying means the clock advances on each tick.
	StatePlaying
	// StatePaused holds the current master index.
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Clock is the playback state machine driving the master timeline.
// It holds no wall-clock timing; an external driver calls Tick at the
// configured rate. Not safe for concurrent use: the engine serializes all
// transitions (single-writer discipline).
type Clock struct {
	state       State
	masterIndex int
	rate        float64
	lo, hi      int // valid master index range, inclusive
}

// NewClock creates a clock covering the master range [lo, hi] ticking at
// rate frames per second.
func NewClock(lo, hi int, rate float64) *Clock {
	if hi < lo {
		hi = lo
	}
	if rate <= 0 {
		rate = 30.0
	}
	return &Clock{
		state:       StateStopped,
		masterIndex: lo,
		rate:        rate,
		lo:          lo,
		hi:          hi,
	}
}

// State returns the current playback state.
func (c *Clock) State() State { return c.state }

// MasterIndex returns the current master timeline index.
func (c *Clock) MasterIndex() int { return c.masterIndex }

// Rate returns the playback rate in frames per second.
func (c *Clock) Rate() float64 { return c.rate }

// Range returns the valid master index range.
func (c *Clock) Range() (lo, hi int) { return c.lo, c.hi }

// SetRange updates the valid master range (after an offset change) and
// clamps the current index into it.
func (c *Clock) SetRange(lo, hi int) {
	if hi < lo {
		hi = lo
	}
	c.lo, c.hi = lo, hi
	c.masterIndex = c.clamp(c.masterIndex)
}

// Play transitions Stopped/Paused to Playing. Playing from the last valid
// index restarts from the beginning of the range.
func (c *Clock) Play() {
	if c.state == StatePlaying {
		return
	}
	if c.masterIndex >= c.hi {
		c.masterIndex = c.lo
	}
	c.state = StatePlaying
}

// Pause transitions Playing to Paused. No-op otherwise.
func (c *Clock) Pause() {
	if c.state == StatePlaying {
		c.state = StatePaused
	}
}

// Seek moves the master index, clamped into the valid range. The playback
// state is preserved.
func (c *Clock) Seek(index int) {
	c.masterIndex = c.clamp(index)
}

// SeekToStart seeks to the first valid master index.
func (c *Clock) SeekToStart() { c.Seek(c.lo) }

// SeekToEnd seeks to the last valid master index.
func (c *Clock) SeekToEnd() { c.Seek(c.hi) }

// Step moves the master index by delta frames and pauses. Stepping beyond
// either end of the range saturates: the index stays on the edge frame,
// it never wraps.
func (c *Clock) Step(delta int) {
	if c.state == StatePlaying {
		c.state = StatePaused
	}
	c.masterIndex = c.clamp(c.masterIndex + delta)
	if c.state == StateStopped {
		c.state = StatePaused
	}
}

// Tick advances the master index by one frame when Playing. Reaching the
// last valid index transitions to Paused (no looping). It returns true
// when the index advanced.
func (c *Clock) Tick() bool {
	if c.state != StatePlaying {
		return false
	}
	if c.masterIndex >= c.hi {
		c.state = StatePaused
		return false
	}
	c.masterIndex++
	if c.masterIndex >= c.hi {
		c.state = StatePaused
	}
	return true
}

func (c *Clock) clamp(index int) int {
	if index < c.lo {
		return c.lo
	}
	if index > c.hi {
		return c.hi
	}
	return index
}
