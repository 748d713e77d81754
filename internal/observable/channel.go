package observable

import "slices"

// Source is the type-erased view of a Channel that the event bus uses to
// forward every event an entity emits without knowing its type.
type Source interface {
	// Forward subscribes sink to the channel. Events are passed as any.
	Forward(sink func(any)) *Subscription
	// Clear drops every subscriber.
	Clear()
}

// Subscription is the handle returned by Subscribe. Calling Unsubscribe more
// than once is safe.
type Subscription struct {
	active bool
	cancel func()
}

// Unsubscribe stops delivery to the handler.
func (s *Subscription) Unsubscribe() {
	if s == nil || !s.active {
		return
	}
	s.active = false
	if s.cancel != nil {
		s.cancel()
	}
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && s.active
}

type subscriber[T any] struct {
	fn  func(T)
	sub *Subscription
}

// Channel delivers events of one type to its subscribers.
type Channel[T any] struct {
	subs []*subscriber[T]
}

// NewChannel creates an empty channel.
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Subscribe registers fn and returns its subscription handle.
func (c *Channel[T]) Subscribe(fn func(T)) *Subscription {
	s := &subscriber[T]{fn: fn}
	s.sub = &Subscription{active: true}
	s.sub.cancel = func() { c.remove(s) }
	c.subs = append(c.subs, s)
	return s.sub
}

// Unsubscribe is equivalent to sub.Unsubscribe().
func (c *Channel[T]) Unsubscribe(sub *Subscription) {
	sub.Unsubscribe()
}

// Publish calls every active subscriber with ev. Subscribers added during
// delivery are not called until the next Publish; subscribers removed during
// delivery are skipped.
func (c *Channel[T]) Publish(ev T) {
	if len(c.subs) == 0 {
		return
	}
	snapshot := slices.Clone(c.subs)
	for _, s := range snapshot {
		if !s.sub.active {
			continue
		}
		s.fn(ev)
	}
}

// Forward implements Source.
func (c *Channel[T]) Forward(sink func(any)) *Subscription {
	return c.Subscribe(func(ev T) { sink(ev) })
}

// Len returns the number of active subscribers.
func (c *Channel[T]) Len() int {
	return len(c.subs)
}

// Clear deactivates and drops every subscriber.
func (c *Channel[T]) Clear() {
	for _, s := range c.subs {
		s.sub.active = false
	}
	c.subs = nil
}

func (c *Channel[T]) remove(target *subscriber[T]) {
	i := slices.Index(c.subs, target)
	if i < 0 {
		return
	}
	// A fresh slice keeps any in-flight snapshot intact.
	c.subs = slices.Concat(c.subs[:i], c.subs[i+1:])
}
