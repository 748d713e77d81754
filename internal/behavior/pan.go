package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

// PanOptions configures the Pan behaviour.
type PanOptions struct {
	*Toggle
}

// DefaultPanOptions returns enabled pan options.
func DefaultPanOptions() *PanOptions {
	return &PanOptions{Toggle: NewToggle(true)}
}

// Pan moves the viewport while the background is dragged without ctrl.
type Pan struct {
	base
	opts    *PanOptions
	panning bool
	last    domain.Point
}

// NewPan creates the behaviour and subscribes it if enabled.
func NewPan(b *bus.Bus, opts *PanOptions, logger *slog.Logger) *Pan {
	if opts == nil {
		opts = DefaultPanOptions()
	}
	p := &Pan{base: newBase("pan", b, logger, opts.Toggle), opts: opts}
	p.reset = func() { p.panning = false }
	p.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.SubscribeWhere(b, isLeftDown, p.onPointerDown),
			bus.Subscribe(b, p.onPointerMove),
			bus.Subscribe(b, p.onPointerUp),
		}
	})
	return p
}

// Panning reports whether a pan is in progress.
func (p *Pan) Panning() bool { return p.panning }

func (p *Pan) onPointerDown(e input.PointerDown) {
	if !e.OnBackground() || e.Ctrl {
		return
	}
	p.panning = true
	p.last = e.Point
	d := p.diagram()
	p.bus.Publish(PanStarted{Diagram: d, Pan: d.Pan()})
}

func (p *Pan) onPointerMove(e input.PointerMove) {
	if !p.panning {
		return
	}
	d := p.diagram()
	d.SetPan(d.Pan().Add(e.Point.Sub(p.last)))
	p.last = e.Point
}

func (p *Pan) onPointerUp(input.PointerUp) {
	if !p.panning {
		return
	}
	p.panning = false
	d := p.diagram()
	p.bus.Publish(PanEnded{Diagram: d, Pan: d.Pan()})
}
