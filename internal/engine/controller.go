package engine

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Snapshot is a read-only view of a session at one instant.
type Snapshot struct {
	SessionID  uuid.UUID
	Phase      Phase
	Target     string
	Typed      string
	Cursor     int
	Errors     []int
	Ticks      int
	KeyPresses int
	Metrics    Metrics
}

// HasError reports whether index is in the error set.
func (s Snapshot) HasError(index int) bool {
	i := sort.SearchInts(s.Errors, index)
	return i < len(s.Errors) && s.Errors[i] == index
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the time source.
func WithClock(clock Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithScheduler overrides how the elapsed-time tick is driven.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) {
		if s != nil {
			c.scheduler = s
		}
	}
}

// WithTickInterval sets the tick period.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithFinishHandler registers the consumer of the final stats payload.
func WithFinishHandler(fn func(FinalStats)) Option {
	return func(c *Controller) {
		c.onFinish = fn
	}
}

// Controller owns one session at a time and is its only mutator.
type Controller struct {
	mu         sync.Mutex
	clock      Clock
	scheduler  Scheduler
	interval   time.Duration
	onFinish   func(FinalStats)
	id         uuid.UUID
	state      *State
	cancelTick func()
}

// NewController builds a controller holding an idle session with an empty target.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		clock:     systemClock{},
		scheduler: TickerScheduler{},
		interval:  DefaultTickInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.startLocked(nil)
	return c
}

// Start replaces the target and begins a fresh idle session.
// Calling it again with the same target before any input changes nothing.
// An empty target has nothing to type, so its session finishes at once and
// the finish handler receives 0 WPM at 100% accuracy.
func (c *Controller) Start(target string) {
	c.mu.Lock()
	if c.unchangedLocked(target) {
		c.mu.Unlock()
		return
	}
	final := c.beginLocked([]rune(target))
	handler := c.onFinish
	c.mu.Unlock()

	notify(handler, final)
}

// Reset restarts the current target from scratch.
func (c *Controller) Reset() {
	c.mu.Lock()
	final := c.beginLocked(c.state.target)
	handler := c.onFinish
	c.mu.Unlock()

	notify(handler, final)
}

// Stop cancels the tick of the current session.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTickLocked()
}

// HandleInput classifies one key event and applies it.
func (c *Controller) HandleInput(ev KeyEvent) Directive {
	c.mu.Lock()
	d := Classify(c.state, ev)
	var final *FinalStats
	switch d.Action {
	case ActionReset:
		final = c.beginLocked(c.state.target)
	case ActionDelete, ActionType:
		now := c.clock.Now()
		if apply(c.state, d, now) {
			m := ComputeMetrics(c.state, now)
			final = &FinalStats{WPM: m.WPM, Accuracy: m.Accuracy, ElapsedSeconds: m.ElapsedSeconds}
		}
		c.syncTickLocked()
	}
	handler := c.onFinish
	c.mu.Unlock()

	notify(handler, final)
	return d.Directive
}

func notify(handler func(FinalStats), final *FinalStats) {
	if final != nil && handler != nil {
		handler(*final)
	}
}

// Snapshot returns the current session view with freshly computed metrics.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	return Snapshot{
		SessionID:  c.id,
		Phase:      s.phase,
		Target:     s.Target(),
		Typed:      s.Typed(),
		Cursor:     s.Cursor(),
		Errors:     s.ErrorIndices(),
		Ticks:      s.ticks,
		KeyPresses: s.keyPresses,
		Metrics:    ComputeMetrics(s, c.clock.Now()),
	}
}

// SessionID identifies the current session instance.
func (c *Controller) SessionID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *Controller) startLocked(target []rune) {
	c.stopTickLocked()
	c.id = uuid.New()
	c.state = newState(target)
}

// beginLocked starts a session over target and returns the final stats
// when the target is empty and the session is therefore already over.
func (c *Controller) beginLocked(target []rune) *FinalStats {
	c.startLocked(target)
	if len(target) > 0 {
		return nil
	}
	c.state.advancePhase(PhaseFinished)
	m := ComputeMetrics(c.state, c.clock.Now())
	return &FinalStats{WPM: m.WPM, Accuracy: m.Accuracy, ElapsedSeconds: m.ElapsedSeconds}
}

// unchangedLocked reports whether starting target would only repeat the
// current untouched session.
func (c *Controller) unchangedLocked(target string) bool {
	if c.state.Target() != target {
		return false
	}
	if target == "" {
		return c.state.phase == PhaseFinished
	}
	return c.state.phase == PhaseIdle
}

func (c *Controller) syncTickLocked() {
	active := c.state.phase == PhaseActive
	switch {
	case active && c.cancelTick == nil:
		id := c.id
		c.cancelTick = c.scheduler.Every(c.interval, func() { c.tick(id) })
	case !active:
		c.stopTickLocked()
	}
}

func (c *Controller) stopTickLocked() {
	if c.cancelTick == nil {
		return
	}
	c.cancelTick()
	c.cancelTick = nil
}

func (c *Controller) tick(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id != c.id {
		return
	}
	c.state.tick()
}
