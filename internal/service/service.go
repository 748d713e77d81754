package service

import (
	"fmt"
	"io"
	"log/slog"

	"flowcanvas/internal/behavior"
	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
)

// Options configures a DiagramService.
type Options struct {
	Diagram   domain.Options
	Behaviors behavior.Options
}

// DefaultOptions returns the default viewport and every built-in behaviour
// enabled.
func DefaultOptions() Options {
	return Options{
		Diagram:   domain.DefaultOptions(),
		Behaviors: behavior.DefaultOptions(),
	}
}

// DiagramService owns a diagram, its bus and its behaviour engine.
type DiagramService struct {
	logger  *slog.Logger
	diagram *domain.Diagram
	bus     *bus.Bus
	engine  *behavior.Engine
	events  *eventStream
	closed  bool
}

// New creates a diagram with one layer, wires a bus to it and registers the
// built-in behaviours.
func New(opts Options, logger *slog.Logger) (*DiagramService, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	d := domain.NewDiagram(opts.Diagram)
	b := bus.New(d, logger.With("component", "bus"))
	e := behavior.NewEngine(b, logger.With("component", "behavior"))
	if err := behavior.RegisterBuiltins(e, opts.Behaviors); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to register behaviors: %w", err)
	}

	s := &DiagramService{
		logger:  logger,
		diagram: d,
		bus:     b,
		engine:  e,
	}
	s.events = newEventStream(b)
	logger.Debug("Diagram service ready", "diagram", d.ID(), "behaviors", len(e.Behaviors()))
	return s, nil
}

// Diagram returns the owned diagram.
func (s *DiagramService) Diagram() *domain.Diagram { return s.diagram }

// Bus returns the bus wired to the diagram.
func (s *DiagramService) Bus() *bus.Bus { return s.bus }

// Behaviors returns the behaviour engine.
func (s *DiagramService) Behaviors() *behavior.Engine { return s.engine }

// Publish puts an input event, or any other event, on the bus.
func (s *DiagramService) Publish(ev any) {
	s.bus.Publish(ev)
}

// Subscribe registers ch for translated diagram events.
func (s *DiagramService) Subscribe(ch chan<- Event) {
	s.events.subscribe(ch)
}

// Unsubscribe stops sending events to ch.
func (s *DiagramService) Unsubscribe(ch chan<- Event) {
	s.events.unsubscribe(ch)
}

// live reports whether e is reachable from the owned diagram.
func (s *DiagramService) live(e domain.Entity) error {
	if e == nil {
		return domain.ErrNilReference
	}
	if e.Disposed() {
		return domain.ErrDisposed
	}
	if e.Diagram() != s.diagram {
		return domain.ErrNotInDiagram
	}
	return nil
}

// attachable reports whether e may be added to the diagram: not disposed,
// and no id in its subtree taken by a different entity.
func (s *DiagramService) attachable(e domain.Entity) error {
	if e == nil {
		return domain.ErrNilReference
	}
	if e.Disposed() {
		return domain.ErrDisposed
	}
	return s.unique(e)
}

func (s *DiagramService) unique(e domain.Entity) error {
	if found, ok := s.diagram.Find(e.ID()); ok && found != e {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, e.ID())
	}
	for _, child := range e.Children() {
		if err := s.unique(child); err != nil {
			return err
		}
	}
	return nil
}

// AddLayer appends a layer to the diagram.
func (s *DiagramService) AddLayer(l *domain.Layer) error {
	if l == nil {
		return fmt.Errorf("add layer: %w", domain.ErrNilReference)
	}
	if err := s.attachable(l); err != nil {
		return fmt.Errorf("add layer %s: %w", l.ID(), err)
	}
	s.diagram.AddLayer(l)
	return nil
}

// AddNode adds n to the current layer.
func (s *DiagramService) AddNode(n *domain.Node) error {
	return s.AddNodeTo(s.diagram.CurrentLayer(), n)
}

// AddNodeTo adds n to a layer or group of the diagram.
func (s *DiagramService) AddNodeTo(parent domain.Container, n *domain.Node) error {
	if n == nil {
		return fmt.Errorf("add node: %w", domain.ErrNilReference)
	}
	if err := s.attachable(n); err != nil {
		return fmt.Errorf("add node %s: %w", n.ID(), err)
	}
	if err := s.live(parent); err != nil {
		return fmt.Errorf("add node %s: parent: %w", n.ID(), err)
	}
	switch p := parent.(type) {
	case *domain.Layer:
		p.Nodes().Add(n)
	case *domain.Group:
		p.Nodes().Add(n)
	default:
		return fmt.Errorf("add node %s: %s cannot hold nodes", n.ID(), parent.Kind())
	}
	return nil
}

// AddGroup adds g to the current layer.
func (s *DiagramService) AddGroup(g *domain.Group) error {
	return s.AddGroupTo(s.diagram.CurrentLayer(), g)
}

// AddGroupTo nests g in a layer or group of the diagram.
func (s *DiagramService) AddGroupTo(parent domain.Container, g *domain.Group) error {
	if g == nil {
		return fmt.Errorf("add group: %w", domain.ErrNilReference)
	}
	if err := s.attachable(g); err != nil {
		return fmt.Errorf("add group %s: %w", g.ID(), err)
	}
	if err := s.live(parent); err != nil {
		return fmt.Errorf("add group %s: parent: %w", g.ID(), err)
	}
	switch p := parent.(type) {
	case *domain.Layer:
		p.Groups().Add(g)
	case *domain.Group:
		return p.AddGroup(g)
	default:
		return fmt.Errorf("add group %s: %s cannot hold groups", g.ID(), parent.Kind())
	}
	return nil
}

// AddPortTo attaches p to a node or group of the diagram.
func (s *DiagramService) AddPortTo(parent domain.PortContainer, p *domain.Port) error {
	if p == nil {
		return fmt.Errorf("add port: %w", domain.ErrNilReference)
	}
	if err := s.attachable(p); err != nil {
		return fmt.Errorf("add port %s: %w", p.ID(), err)
	}
	if err := s.live(parent); err != nil {
		return fmt.Errorf("add port %s: parent: %w", p.ID(), err)
	}
	parent.Ports().Add(p)
	return nil
}

// AddLinkTo creates a link from source to target. A nil target leaves the
// link unbound with its free end on the source.
func (s *DiagramService) AddLinkTo(source, target *domain.Port) (*domain.Link, error) {
	if err := s.live(source); err != nil {
		return nil, fmt.Errorf("add link: source: %w", err)
	}
	l := domain.NewLink(source)
	if err := s.AddLink(l, target); err != nil {
		return nil, err
	}
	return l, nil
}

// AddLink attaches a link built with domain.NewLinkWithID to its source port
// and binds it to target when one is given.
func (s *DiagramService) AddLink(l *domain.Link, target *domain.Port) error {
	if l == nil {
		return fmt.Errorf("add link: %w", domain.ErrNilReference)
	}
	if err := s.attachable(l); err != nil {
		return fmt.Errorf("add link %s: %w", l.ID(), err)
	}
	if err := s.live(l.Source()); err != nil {
		return fmt.Errorf("add link %s: source: %w", l.ID(), err)
	}
	if target != nil {
		if err := s.live(target); err != nil {
			return fmt.Errorf("add link %s: target: %w", l.ID(), err)
		}
	}
	l.Source().OutgoingLinks().Add(l)
	if target != nil {
		l.SetTargetPort(target)
	}
	return nil
}

// RemoveNode removes n from its container.
func (s *DiagramService) RemoveNode(n *domain.Node) bool { return s.remove(n) }

// RemoveGroup removes g from its container.
func (s *DiagramService) RemoveGroup(g *domain.Group) bool { return s.remove(g) }

// RemovePort removes p from its parent.
func (s *DiagramService) RemovePort(p *domain.Port) bool { return s.remove(p) }

// RemoveLink removes l from its source port, which disposes it.
func (s *DiagramService) RemoveLink(l *domain.Link) bool { return s.remove(l) }

func (s *DiagramService) remove(e domain.Entity) bool {
	if s.live(e) != nil {
		return false
	}
	ok, _ := domain.Remove(e)
	return ok
}

// RemoveLayer removes l. The last layer cannot be removed.
func (s *DiagramService) RemoveLayer(l *domain.Layer) (bool, error) {
	if l == nil {
		return false, nil
	}
	return s.diagram.RemoveLayer(l)
}

// UseLayer makes l current.
func (s *DiagramService) UseLayer(l *domain.Layer) error {
	if err := s.diagram.UseLayer(l); err != nil {
		return fmt.Errorf("use layer: %w", err)
	}
	return nil
}

// SelectAll selects every node, group and link.
func (s *DiagramService) SelectAll() { s.diagram.SelectAll() }

// UnselectAll clears the selection.
func (s *DiagramService) UnselectAll() { s.diagram.UnselectAll() }

// SetZoom sets the zoom factor within the diagram's bounds.
func (s *DiagramService) SetZoom(z float64) { s.diagram.SetZoom(z) }

// FindLayer looks a layer up by id.
func (s *DiagramService) FindLayer(id domain.ID) (*domain.Layer, bool) {
	return s.diagram.FindLayer(id)
}

// FindGroup looks a group up by id.
func (s *DiagramService) FindGroup(id domain.ID) (*domain.Group, bool) {
	return s.diagram.FindGroup(id)
}

// FindNode looks a node up by id.
func (s *DiagramService) FindNode(id domain.ID) (*domain.Node, bool) {
	return s.diagram.FindNode(id)
}

// FindPort looks a port up by id.
func (s *DiagramService) FindPort(id domain.ID) (*domain.Port, bool) {
	return s.diagram.FindPort(id)
}

// FindLink looks a link up by id.
func (s *DiagramService) FindLink(id domain.ID) (*domain.Link, bool) {
	return s.diagram.FindLink(id)
}

// Find looks any entity up by id.
func (s *DiagramService) Find(id domain.ID) (domain.Entity, bool) {
	return s.diagram.Find(id)
}

// Clear removes every node and group and every layer but the first, which
// becomes current.
func (s *DiagramService) Clear() {
	layers := s.diagram.Layers().Items()
	for _, l := range layers {
		for _, e := range l.Children() {
			if _, err := domain.Remove(e); err != nil {
				s.logger.Warn("Failed to remove entity", "id", e.ID(), "kind", KindOf(e), "error", err)
			}
		}
	}
	for _, l := range layers[1:] {
		if _, err := s.diagram.RemoveLayer(l); err != nil {
			s.logger.Warn("Failed to remove layer", "layer", l.ID(), "error", err)
		}
	}
	_ = s.diagram.UseLayer(layers[0])
	s.logger.Info("Diagram cleared")
}

// Close disposes the behaviours, the bus and the diagram.
func (s *DiagramService) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.events.close()
	s.engine.Dispose()
	s.bus.Close()
	s.diagram.Dispose()
	s.logger.Debug("Diagram service closed")
}
