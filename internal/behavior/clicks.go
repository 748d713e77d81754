package behavior

import (
	"log/slog"
	"math"
	"time"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

// EventsOptions configures click synthesis.
type EventsOptions struct {
	*Toggle
	// Tolerance is how far, in screen units, the pointer may travel between
	// press and release for the pair to count as a click.
	Tolerance float64
	// DoubleClickWindow is the longest gap between two clicks on the same
	// target that still makes a double click.
	DoubleClickWindow time.Duration
	// Now is the clock. Nil means time.Now.
	Now func() time.Time
}

// DefaultEventsOptions returns enabled click synthesis options.
func DefaultEventsOptions() *EventsOptions {
	return &EventsOptions{
		Toggle:            NewToggle(true),
		Tolerance:         3,
		DoubleClickWindow: 500 * time.Millisecond,
	}
}

// Events publishes input.Click and input.DoubleClick from pointer press and
// release pairs.
type Events struct {
	base
	opts *EventsOptions

	pressed   bool
	down      input.PointerDown
	lastClick time.Time
	lastOn    domain.Entity
	clicked   bool
}

// NewEvents creates the behaviour and subscribes it if enabled.
func NewEvents(b *bus.Bus, opts *EventsOptions, logger *slog.Logger) *Events {
	if opts == nil {
		opts = DefaultEventsOptions()
	}
	ev := &Events{base: newBase("events", b, logger, opts.Toggle), opts: opts}
	ev.reset = func() {
		ev.pressed = false
		ev.clicked = false
	}
	ev.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.Subscribe(b, ev.onPointerDown),
			bus.Subscribe(b, ev.onPointerUp),
		}
	})
	return ev
}

func (ev *Events) now() time.Time {
	if ev.opts.Now != nil {
		return ev.opts.Now()
	}
	return time.Now()
}

func (ev *Events) onPointerDown(e input.PointerDown) {
	ev.pressed = true
	ev.down = e
}

func (ev *Events) onPointerUp(e input.PointerUp) {
	if !ev.pressed {
		return
	}
	ev.pressed = false
	if e.Target != ev.down.Target || e.Button != ev.down.Button || distance(e.Point, ev.down.Point) > ev.opts.Tolerance {
		ev.clicked = false
		return
	}

	at := ev.now()
	ev.bus.Publish(input.Click{Pointer: e.Pointer})
	if ev.clicked && ev.lastOn == e.Target && at.Sub(ev.lastClick) <= ev.opts.DoubleClickWindow {
		ev.clicked = false
		ev.bus.Publish(input.DoubleClick{Pointer: e.Pointer})
		return
	}
	ev.clicked = true
	ev.lastClick = at
	ev.lastOn = e.Target
}

func distance(a, b domain.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
