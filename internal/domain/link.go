package domain

import (
	"fmt"

	"flowcanvas/internal/observable"
)

// Link is a directed connection from a source port to an optional target
// port. While unbound, TargetPosition is the free end.
type Link struct {
	lifecycle
	selection
	visibility
	zorder

	id ID
	// Label is free text a renderer may draw along the link.
	Label string

	source         *Port
	target         *Port
	targetPosition Point
	size           Size

	retargeted *observable.Channel[TargetPortChanged]
	dragged    *observable.Channel[TargetPositionChanged]
	resized    *observable.Channel[SizeChanged]
}

// NewLink creates an unbound link starting at source. The link is live only
// once it is added to source's OutgoingLinks. A nil source panics.
func NewLink(source *Port) *Link {
	return NewLinkWithID(NewID(), source)
}

// NewLinkWithID is NewLink with a caller supplied identity.
func NewLinkWithID(id ID, source *Port) *Link {
	if source == nil {
		panic(fmt.Errorf("link %s source: %w", id, ErrNilReference))
	}
	l := &Link{id: id, source: source, targetPosition: source.Center()}
	l.lifecycle = newLifecycle(l)
	l.selection = newSelection(l)
	l.visibility = newVisibility(l)
	l.zorder = newZOrder(l)
	l.retargeted = observable.NewChannel[TargetPortChanged]()
	l.dragged = observable.NewChannel[TargetPositionChanged]()
	l.resized = observable.NewChannel[SizeChanged]()
	return l
}

// ID implements Entity.
func (l *Link) ID() ID { return l.id }

// Diagram implements Entity.
func (l *Link) Diagram() *Diagram {
	if l.source == nil || !l.source.outgoing.Contains(l) {
		return nil
	}
	return l.source.Diagram()
}

// Source returns the port the link starts at.
func (l *Link) Source() *Port { return l.source }

// Target returns the bound target port, or nil.
func (l *Link) Target() *Port { return l.target }

// Bound reports whether the link has a target port.
func (l *Link) Bound() bool { return l.target != nil }

// SetTargetPort binds the link to t, or unbinds it when t is nil, and keeps
// both ports' IncomingLinks in step. Binding a disposed link, or binding to
// a disposed port, panics with ErrDisposed and changes nothing.
func (l *Link) SetTargetPort(t *Port) {
	if l.target == t {
		return
	}
	if t != nil && (l.Disposed() || t.Disposed()) {
		panic(fmt.Errorf("link %s target %s: %w", l.id, t.id, ErrDisposed))
	}
	old := l.target
	l.target = t
	if old != nil {
		old.incoming.Remove(l)
	}
	if t != nil {
		t.incoming.Add(l)
		l.targetPosition = t.Center()
	}
	l.retargeted.Publish(TargetPortChanged{Link: l, Old: old, New: t})
}

// TargetPosition returns the end point: the target port's centre when
// bound, the free end otherwise.
func (l *Link) TargetPosition() Point {
	if l.target != nil {
		return l.target.Center()
	}
	return l.targetPosition
}

// SetTargetPosition moves the free end of an unbound link.
func (l *Link) SetTargetPosition(to Point) {
	old := l.targetPosition
	if old == to {
		return
	}
	l.targetPosition = to
	l.dragged.Publish(TargetPositionChanged{Link: l, Old: old, New: to})
}

// SourcePosition returns the source port's centre.
func (l *Link) SourcePosition() Point { return l.source.Center() }

// Size returns the hit-testing size.
func (l *Link) Size() Size { return l.size }

// SetSize changes the hit-testing size.
func (l *Link) SetSize(to Size) {
	old := l.size
	if old == to {
		return
	}
	l.size = to
	l.resized.Publish(SizeChanged{Entity: l, Old: old, New: to})
}

// OnTargetPortChange returns the TargetPortChanged channel.
func (l *Link) OnTargetPortChange() *observable.Channel[TargetPortChanged] { return l.retargeted }

// OnTargetPositionChange returns the TargetPositionChanged channel.
func (l *Link) OnTargetPositionChange() *observable.Channel[TargetPositionChanged] {
	return l.dragged
}

// Channels implements Entity.
func (l *Link) Channels() []observable.Source {
	return sources(
		l.lifecycle.channels(),
		[]observable.Source{
			l.selection.changed, l.visibility.changed, l.zorder.changed,
			l.retargeted, l.dragged, l.resized,
		},
	)
}

// Children implements Entity. Links own nothing.
func (l *Link) Children() []Entity { return nil }

// Dispose unhooks the link from both ports.
func (l *Link) Dispose() {
	if !l.begin() {
		return
	}
	l.finish(func() {
		l.source.outgoing.RemoveInternal(l)
		if l.target != nil {
			l.target.incoming.RemoveInternal(l)
		}
	}, l.Channels())
}

// moveSource is called when the link is added to another port's
// OutgoingLinks.
func (l *Link) moveSource(p *Port) {
	old := l.source
	l.source = p
	if old != nil {
		old.outgoing.RemoveInternal(l)
	}
}
