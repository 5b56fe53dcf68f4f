package scoring

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	// DefaultQuarterMinutes is the regulation quarter length.
	DefaultQuarterMinutes = 12
	// NumQuarters is the number of quarters in a game.
	NumQuarters = 4
)

// ClockState is a point-in-time view of the game clock.
type ClockState struct {
	Quarter              int  `json:"quarter"`
	SecondsLeft          int  `json:"secondsLeft"`
	QuarterLengthSeconds int  `json:"quarterLengthSeconds"`
	Running              bool `json:"running"`
}

// Clock is the quarter countdown. It is the one concurrent piece of a
// scoring session: the ticker goroutine and the session loop both touch
// it, so all state lives behind the mutex. The tick callback is a slot;
// ticks always invoke the latest registered callback.
type Clock struct {
	mu            sync.Mutex
	clk           clockwork.Clock
	quarter       int
	quarterLength int // seconds
	remaining     int // seconds
	running       bool
	stop          chan struct{}
	done          chan struct{}
	onTick        func(secondsLeft int)
}

func NewClock(clk clockwork.Clock, quarterMinutes int) *Clock {
	if quarterMinutes <= 0 {
		quarterMinutes = DefaultQuarterMinutes
	}
	length := quarterMinutes * 60
	return &Clock{
		clk:           clk,
		quarter:       1,
		quarterLength: length,
		remaining:     length,
	}
}

// SetOnTick installs the per-second tick callback.
func (c *Clock) SetOnTick(fn func(secondsLeft int)) {
	c.mu.Lock()
	c.onTick = fn
	c.mu.Unlock()
}

// Start begins the countdown. A no-op when already running or when no
// time is left in the quarter.
func (c *Clock) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.remaining <= 0 {
		return
	}
	c.running = true
	stop := make(chan struct{})
	done := make(chan struct{})
	c.stop = stop
	c.done = done
	go c.run(stop, done)
}

func (c *Clock) run(stop, done chan struct{}) {
	defer close(done)
	ticker := c.clk.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			if !c.tick(stop) {
				return
			}
		}
	}
}

// tick decrements the remaining time and fires the callback. Reaching
// zero still fires the callback for that final second, then the clock
// stops without advancing the quarter. Returns false once the clock is
// no longer running so the ticker goroutine exits. A tick raced across
// a pause is discarded: stop identifies the countdown it belongs to.
func (c *Clock) tick(stop chan struct{}) bool {
	c.mu.Lock()
	if !c.running || c.stop != stop {
		c.mu.Unlock()
		return false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		c.stop = nil
		c.done = nil
	}
	alive := c.running
	secondsLeft := c.remaining
	fire := c.onTick
	c.mu.Unlock()

	if fire != nil {
		fire(secondsLeft)
	}
	return alive
}

// Pause stops the countdown; a no-op when already stopped.
func (c *Clock) Pause() {
	c.mu.Lock()
	done := c.pauseLocked()
	c.mu.Unlock()
	c.join(done)
}

// pauseLocked signals the ticker goroutine to stop and returns its done
// channel so the caller can wait for it outside the lock.
func (c *Clock) pauseLocked() chan struct{} {
	if !c.running {
		return nil
	}
	c.running = false
	done := c.done
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
		c.done = nil
	}
	return done
}

// join waits for a stopped ticker goroutine to exit. Must not be called
// with the mutex held: the goroutine may be mid-tick waiting for it.
func (c *Clock) join(done chan struct{}) {
	if done != nil {
		<-done
	}
}

// Reset stops the clock, then restores the full quarter length.
func (c *Clock) Reset() {
	c.mu.Lock()
	done := c.pauseLocked()
	c.remaining = c.quarterLength
	c.mu.Unlock()
	c.join(done)
}

// NextQuarter advances to the following quarter, stopped and at full
// length. Past the fourth quarter it is a no-op. Returns the quarter
// now current and whether an advance happened.
func (c *Clock) NextQuarter() (int, bool) {
	c.mu.Lock()
	if c.quarter >= NumQuarters {
		quarter := c.quarter
		c.mu.Unlock()
		return quarter, false
	}
	done := c.pauseLocked()
	c.quarter++
	c.remaining = c.quarterLength
	quarter := c.quarter
	c.mu.Unlock()
	c.join(done)
	return quarter, true
}

// AdjustTime shifts the remaining time by delta seconds, floored at
// zero. Allowed whether the clock is running or stopped.
func (c *Clock) AdjustTime(delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remaining += delta
	if c.remaining < 0 {
		c.remaining = 0
	}
}

// SetQuarterLength changes the per-quarter duration. When the clock is
// stopped the remaining time resets to the new length; when running,
// the current countdown continues and the new length applies from the
// next reset or quarter change.
func (c *Clock) SetQuarterLength(minutes int) {
	if minutes <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quarterLength = minutes * 60
	if !c.running {
		c.remaining = c.quarterLength
	}
}

// Snapshot returns the current clock state.
func (c *Clock) Snapshot() ClockState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ClockState{
		Quarter:              c.quarter,
		SecondsLeft:          c.remaining,
		QuarterLengthSeconds: c.quarterLength,
		Running:              c.running,
	}
}

// Teardown stops the clock and drops the callback so no tick outlives
// the owning session.
func (c *Clock) Teardown() {
	c.mu.Lock()
	done := c.pauseLocked()
	c.onTick = nil
	c.mu.Unlock()
	c.join(done)
}
