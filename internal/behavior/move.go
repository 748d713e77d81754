package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

// MoveOptions configures the Move behaviour.
type MoveOptions struct {
	*Toggle
}

// DefaultMoveOptions returns enabled move options.
func DefaultMoveOptions() *MoveOptions {
	return &MoveOptions{Toggle: NewToggle(true)}
}

// Move drags the selected nodes and groups. Pointer deltas are divided by
// the zoom so the model moves as far as the pointer did on screen.
type Move struct {
	base
	opts     *MoveOptions
	dragging bool
	last     domain.Point
}

// NewMove creates the behaviour and subscribes it if enabled.
func NewMove(b *bus.Bus, opts *MoveOptions, logger *slog.Logger) *Move {
	if opts == nil {
		opts = DefaultMoveOptions()
	}
	m := &Move{base: newBase("move", b, logger, opts.Toggle), opts: opts}
	m.reset = func() { m.dragging = false }
	m.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.SubscribeWhere(b, isLeftDown, m.onPointerDown),
			bus.Subscribe(b, m.onPointerMove),
			bus.Subscribe(b, m.onPointerUp),
		}
	})
	return m
}

// Dragging reports whether a drag is in progress.
func (m *Move) Dragging() bool { return m.dragging }

func (m *Move) onPointerDown(e input.PointerDown) {
	var selected bool
	switch v := e.Target.(type) {
	case *domain.Node:
		selected = v.Selected()
	case *domain.Group:
		selected = v.Selected()
	}
	if !selected {
		return
	}
	m.dragging = true
	m.last = e.Point
}

func (m *Move) onPointerMove(e input.PointerMove) {
	if !m.dragging {
		return
	}
	d := m.diagram()
	delta := e.Point.Sub(m.last).Scale(1 / d.Zoom())
	m.last = e.Point
	if delta.IsZero() {
		return
	}
	for _, mv := range movableSelection(d) {
		mv.SetPosition(mv.Position().Add(delta))
	}
}

func (m *Move) onPointerUp(input.PointerUp) {
	m.dragging = false
}

// movableSelection returns the selected, unlocked nodes and groups whose
// ancestors are not selected as well.
func movableSelection(d *domain.Diagram) []domain.Movable {
	var out []domain.Movable
	for _, g := range d.AllGroups() {
		if g.Selected() && !g.Locked && !selectedAncestor(g) {
			out = append(out, g)
		}
	}
	for _, n := range d.AllNodes() {
		if n.Selected() && !n.Locked && !selectedAncestor(n) {
			out = append(out, n)
		}
	}
	return out
}

func selectedAncestor(c domain.Container) bool {
	for p := domain.ParentOf(c); p != nil; p = domain.ParentOf(p) {
		if g, ok := p.(*domain.Group); ok && g.Selected() {
			return true
		}
	}
	return false
}
