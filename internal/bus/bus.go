package bus

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"flowcanvas/internal/domain"
	"flowcanvas/internal/observable"
)

// Subscription is the handle returned by the Subscribe functions.
type Subscription = observable.Subscription

type addedNotification interface {
	AddedItem() any
}

type removedNotification interface {
	RemovedItem() any
	IsOwning() bool
}

// registration holds the forwarding subscriptions of one entity.
type registration struct {
	subs []*observable.Subscription
}

// Bus fans events out to subscribers and forwards every live entity's
// channels onto itself.
type Bus struct {
	logger  *slog.Logger
	diagram *domain.Diagram
	typed   map[reflect.Type]*observable.Channel[any]
	all     *observable.Channel[any]
	wired   map[domain.Entity]*registration
	closed  bool
}

// New creates a bus for d and wires every entity already reachable from it.
// A nil logger discards output.
func New(d *domain.Diagram, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Bus{
		logger:  logger,
		diagram: d,
		typed:   make(map[reflect.Type]*observable.Channel[any]),
		all:     observable.NewChannel[any](),
		wired:   make(map[domain.Entity]*registration),
	}
	if d != nil {
		b.propagate(d)
	}
	return b
}

// Diagram returns the diagram the bus is wired to.
func (b *Bus) Diagram() *domain.Diagram { return b.diagram }

// Subscribe registers fn for events of type E.
func Subscribe[E any](b *Bus, fn func(E)) *Subscription {
	return b.channel(reflect.TypeFor[E]()).Subscribe(func(ev any) {
		fn(ev.(E))
	})
}

// SubscribeWhere registers fn for events of type E that satisfy pred.
func SubscribeWhere[E any](b *Bus, pred func(E) bool, fn func(E)) *Subscription {
	return b.channel(reflect.TypeFor[E]()).Subscribe(func(ev any) {
		e := ev.(E)
		if pred(e) {
			fn(e)
		}
	})
}

// SubscribeAny registers fn for every event, after the typed subscribers of
// that event ran.
func (b *Bus) SubscribeAny(fn func(any)) *Subscription {
	return b.all.Subscribe(fn)
}

func (b *Bus) channel(t reflect.Type) *observable.Channel[any] {
	ch, ok := b.typed[t]
	if !ok {
		ch = observable.NewChannel[any]()
		b.typed[t] = ch
	}
	return ch
}

// Publish delivers ev to every subscriber of its type. Publishing on a
// closed bus does nothing.
func (b *Bus) Publish(ev any) {
	if b.closed || ev == nil {
		return
	}

	if added, ok := ev.(addedNotification); ok {
		if e, ok := added.AddedItem().(domain.Entity); ok {
			b.propagate(e)
		}
	}

	if ch, ok := b.typed[reflect.TypeOf(ev)]; ok {
		ch.Publish(ev)
	}
	b.all.Publish(ev)

	switch v := ev.(type) {
	case removedNotification:
		if !v.IsOwning() {
			return
		}
		if e, ok := v.RemovedItem().(domain.Entity); ok {
			b.teardown(e)
		}
	case domain.Disposed:
		b.teardown(v.Entity)
	}
}

// Propagated reports whether e is wired. Entities are tracked by identity,
// so a detached entity sharing an id with a wired one is not.
func (b *Bus) Propagated(e domain.Entity) bool {
	if isNil(e) {
		return false
	}
	_, ok := b.wired[e]
	return ok
}

// Len returns the number of wired entities.
func (b *Bus) Len() int {
	return len(b.wired)
}

// Close unwires every entity and drops every subscriber. Later publishes
// are ignored.
func (b *Bus) Close() {
	if b.closed {
		return
	}
	b.closed = true
	for e, reg := range b.wired {
		for _, s := range reg.subs {
			s.Unsubscribe()
		}
		delete(b.wired, e)
	}
	for _, ch := range b.typed {
		ch.Clear()
	}
	b.all.Clear()
	b.logger.Debug("Event bus closed")
}

func (b *Bus) propagate(e domain.Entity) {
	if b.closed || isNil(e) || e.Disposed() {
		return
	}
	if _, ok := b.wired[e]; ok {
		return
	}
	reg := &registration{}
	for _, src := range e.Channels() {
		reg.subs = append(reg.subs, src.Forward(b.Publish))
	}
	b.wired[e] = reg
	b.logger.Debug("Propagating entity", "id", e.ID(), "type", typeName(e))

	for _, child := range e.Children() {
		b.propagate(child)
	}
}

func (b *Bus) teardown(e domain.Entity) {
	if isNil(e) {
		return
	}
	reg, ok := b.wired[e]
	if !ok {
		return
	}
	for _, s := range reg.subs {
		s.Unsubscribe()
	}
	delete(b.wired, e)
	b.logger.Debug("Stopped propagating entity", "id", e.ID(), "type", typeName(e))

	for _, child := range e.Children() {
		b.teardown(child)
	}
}

func typeName(e domain.Entity) string {
	return fmt.Sprintf("%T", e)
}

func isNil(e domain.Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
