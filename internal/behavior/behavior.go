package behavior

import (
	"io"
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/observable"
)

// Behavior is a unit of reactive policy on top of the bus.
type Behavior interface {
	// Name is the stable identifier used in configuration and over HTTP.
	Name() string
	Toggle() *Toggle
	// Dispose drops every subscription, including the one on the toggle.
	Dispose()
}

// base carries the subscription bookkeeping shared by every behaviour.
type base struct {
	name    string
	bus     *bus.Bus
	logger  *slog.Logger
	toggle  *Toggle
	subs    []*bus.Subscription
	watch   *observable.Subscription
	wire    func() []*bus.Subscription
	reset   func()
	stopped bool
}

func newBase(name string, b *bus.Bus, logger *slog.Logger, toggle *Toggle) base {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if toggle == nil {
		toggle = NewToggle(true)
	}
	return base{
		name:   name,
		bus:    b,
		logger: logger.With("behavior", name),
		toggle: toggle,
	}
}

// start installs the subscriptions produced by wire and follows the toggle
// from then on.
func (b *base) start(wire func() []*bus.Subscription) {
	b.wire = wire
	if b.toggle.Enabled() {
		b.subscribe()
	}
	b.watch = b.toggle.OnChange().Subscribe(func(on bool) {
		if on {
			b.subscribe()
			b.logger.Debug("Behavior enabled")
			return
		}
		b.unsubscribe()
		b.logger.Debug("Behavior disabled")
	})
}

func (b *base) subscribe() {
	if b.stopped || len(b.subs) > 0 {
		return
	}
	b.subs = b.wire()
}

func (b *base) unsubscribe() {
	for _, s := range b.subs {
		s.Unsubscribe()
	}
	b.subs = nil
	if b.reset != nil {
		b.reset()
	}
}

// Name implements Behavior.
func (b *base) Name() string { return b.name }

// Toggle implements Behavior.
func (b *base) Toggle() *Toggle { return b.toggle }

// Subscribed reports whether the behaviour currently holds bus
// subscriptions.
func (b *base) Subscribed() bool { return len(b.subs) > 0 }

// Dispose implements Behavior.
func (b *base) Dispose() {
	if b.stopped {
		return
	}
	b.stopped = true
	b.watch.Unsubscribe()
	b.unsubscribe()
}

func (b *base) diagram() *domain.Diagram { return b.bus.Diagram() }
