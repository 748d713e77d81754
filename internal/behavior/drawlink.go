package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

// DrawLinkOptions configures the DrawLink behaviour.
type DrawLinkOptions struct {
	*Toggle
}

// DefaultDrawLinkOptions returns enabled link drawing options.
func DefaultDrawLinkOptions() *DrawLinkOptions {
	return &DrawLinkOptions{Toggle: NewToggle(true)}
}

// DrawState is the state of the link drawing machine.
type DrawState int

const (
	DrawIdle DrawState = iota
	DrawDrawing
)

// String implements fmt.Stringer.
func (s DrawState) String() string {
	if s == DrawDrawing {
		return "drawing"
	}
	return "idle"
}

// DrawLink lets the user drag a new link out of a port and drop it on
// another one.
//
// A press on a port that can start a link creates an unbound link whose free
// end follows the pointer. Releasing over a port both ends accept binds the
// link; releasing anywhere else disposes it. Unbound links left over from an
// earlier cycle are disposed when a new one starts.
type DrawLink struct {
	base
	opts    *DrawLinkOptions
	state   DrawState
	link    *domain.Link
	origin  domain.Point
	initial domain.Point
}

// NewDrawLink creates the behaviour and subscribes it if enabled.
func NewDrawLink(b *bus.Bus, opts *DrawLinkOptions, logger *slog.Logger) *DrawLink {
	if opts == nil {
		opts = DefaultDrawLinkOptions()
	}
	dl := &DrawLink{base: newBase("draw_link", b, logger, opts.Toggle), opts: opts}
	dl.reset = dl.abandon
	dl.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.SubscribeWhere(b, isLeftDown, dl.onPointerDown),
			bus.Subscribe(b, dl.onPointerMove),
			bus.Subscribe(b, dl.onPointerUp),
		}
	})
	return dl
}

// State returns the current state.
func (dl *DrawLink) State() DrawState { return dl.state }

// Link returns the link being drawn, or nil while idle.
func (dl *DrawLink) Link() *domain.Link { return dl.link }

func (dl *DrawLink) onPointerDown(e input.PointerDown) {
	if dl.state != DrawIdle {
		return
	}
	source, ok := e.Target.(*domain.Port)
	if !ok || !source.CanCreateLink() {
		return
	}
	d := dl.diagram()
	if source.Diagram() != d {
		return
	}

	dl.disposeStale(d)

	link := domain.NewLink(source)
	source.OutgoingLinks().Add(link)
	dl.link = link
	dl.origin = link.TargetPosition()
	dl.initial = e.Point
	dl.state = DrawDrawing
	dl.logger.Debug("Drawing link", "source", source.ID(), "link", link.ID())
	dl.bus.Publish(DrawStarted{Link: link, Source: source})
}

func (dl *DrawLink) onPointerMove(e input.PointerMove) {
	if dl.state != DrawDrawing || dl.link.Disposed() {
		return
	}
	offset := e.Point.Sub(dl.initial).Scale(1 / dl.diagram().Zoom())
	dl.link.SetTargetPosition(dl.origin.Add(offset))
}

func (dl *DrawLink) onPointerUp(e input.PointerUp) {
	if dl.state != DrawDrawing {
		return
	}
	link := dl.link
	dl.link = nil
	dl.state = DrawIdle

	target, ok := e.Target.(*domain.Port)
	if ok && !link.Disposed() && dl.connectable(link.Source(), target) {
		link.SetTargetPort(target)
		dl.logger.Debug("Link created", "link", link.ID(), "target", target.ID())
		dl.bus.Publish(DrawCreated{Link: link})
		return
	}
	link.Dispose()
	dl.logger.Debug("Link drawing cancelled", "link", link.ID())
	dl.bus.Publish(DrawCancelled{Link: link})
}

func (dl *DrawLink) connectable(source, target *domain.Port) bool {
	d := dl.diagram()
	if source.Diagram() != d || target.Diagram() != d {
		return false
	}
	return source.CanConnectTo(target) && target.CanConnectTo(source)
}

// disposeStale removes unbound links that outlived their drawing cycle.
func (dl *DrawLink) disposeStale(d *domain.Diagram) {
	for _, l := range d.AllLinks() {
		if !l.Bound() {
			dl.logger.Debug("Disposing stale link", "link", l.ID())
			l.Dispose()
		}
	}
}

// abandon drops an in-flight link when the behaviour is switched off.
func (dl *DrawLink) abandon() {
	if dl.link != nil && !dl.link.Disposed() {
		dl.link.Dispose()
	}
	dl.link = nil
	dl.state = DrawIdle
}
