package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/input"
)

// ZoomOptions configures the Zoom behaviour.
type ZoomOptions struct {
	*Toggle
	// Step is the factor applied per wheel event. Values at or below one
	// fall back to DefaultZoomStep.
	Step float64
	// ToPointer keeps the model point under the pointer in place.
	ToPointer bool
}

// DefaultZoomStep is the zoom factor applied per wheel event.
const DefaultZoomStep = 1.05

// DefaultZoomOptions returns enabled zoom options.
func DefaultZoomOptions() *ZoomOptions {
	return &ZoomOptions{Toggle: NewToggle(true), Step: DefaultZoomStep}
}

// Zoom scales the viewport on wheel events.
type Zoom struct {
	base
	opts *ZoomOptions
}

// NewZoom creates the behaviour and subscribes it if enabled.
func NewZoom(b *bus.Bus, opts *ZoomOptions, logger *slog.Logger) *Zoom {
	if opts == nil {
		opts = DefaultZoomOptions()
	}
	z := &Zoom{base: newBase("zoom", b, logger, opts.Toggle), opts: opts}
	z.start(func() []*bus.Subscription {
		return []*bus.Subscription{bus.Subscribe(b, z.onWheel)}
	})
	return z
}

func (z *Zoom) onWheel(e input.Wheel) {
	if e.DeltaY == 0 {
		return
	}
	step := z.opts.Step
	if step <= 1 {
		step = DefaultZoomStep
	}

	d := z.diagram()
	anchor := d.ToModel(e.Point)
	next := d.Zoom() * step
	if e.DeltaY > 0 {
		next = d.Zoom() / step
	}
	d.SetZoom(next)
	if z.opts.ToPointer {
		d.SetPan(e.Point.Sub(anchor.Scale(d.Zoom())))
	}
}
