package domain

import (
	"fmt"

	"flowcanvas/internal/observable"
)

// Alignment selects the side of the parent a port sits on.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignTop
	AlignBottom
	// AlignCenter places the port in the middle of its parent.
	AlignCenter
	// AlignCustom leaves the position to the caller.
	AlignCustom
)

var alignmentNames = map[Alignment]string{
	AlignLeft:   "left",
	AlignRight:  "right",
	AlignTop:    "top",
	AlignBottom: "bottom",
	AlignCenter: "center",
	AlignCustom: "custom",
}

// String implements fmt.Stringer.
func (a Alignment) String() string {
	if s, ok := alignmentNames[a]; ok {
		return s
	}
	return fmt.Sprintf("alignment(%d)", int(a))
}

// ParseAlignment converts a name produced by String back to an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	for a, name := range alignmentNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown port alignment %q", s)
}

// Justification places a port along the side chosen by its Alignment.
type Justification int

const (
	JustifyStart Justification = iota
	JustifyCenter
	JustifyEnd
)

var justificationNames = map[Justification]string{
	JustifyStart:  "start",
	JustifyCenter: "center",
	JustifyEnd:    "end",
}

// String implements fmt.Stringer.
func (j Justification) String() string {
	if s, ok := justificationNames[j]; ok {
		return s
	}
	return fmt.Sprintf("justification(%d)", int(j))
}

// ParseJustification converts a name produced by String back to a
// Justification.
func ParseJustification(s string) (Justification, error) {
	for j, name := range justificationNames {
		if name == s {
			return j, nil
		}
	}
	return 0, fmt.Errorf("unknown port justification %q", s)
}

// ConnectFilter is an application hook consulted by CanConnectTo.
type ConnectFilter func(from, to *Port) bool

// Port is a connection point on a Node or a Group.
type Port struct {
	lifecycle
	placement
	selection
	visibility
	zorder

	id            ID
	alignment     Alignment
	justification Justification
	offset        Point

	// Locked ports neither start nor accept links.
	Locked bool
	// MaxLinks caps the number of bound links. Zero means unlimited.
	MaxLinks int

	filter   ConnectFilter
	parent   PortContainer
	incoming *observable.Collection[*Link]
	outgoing *observable.Collection[*Link]
	rehomed  *observable.Channel[ContainerChanged]
}

// NewPort creates a detached port.
func NewPort(alignment Alignment, justification Justification, size Size) *Port {
	return NewPortWithID(NewID(), alignment, justification, size)
}

// NewPortWithID creates a detached port with a caller supplied identity.
func NewPortWithID(id ID, alignment Alignment, justification Justification, size Size) *Port {
	p := &Port{id: id, alignment: alignment, justification: justification}
	p.lifecycle = newLifecycle(p)
	p.placement = newPlacement(p, Point{}, size)
	p.selection = newSelection(p)
	p.visibility = newVisibility(p)
	p.zorder = newZOrder(p)
	p.rehomed = observable.NewChannel[ContainerChanged]()

	p.outgoing = observable.NewCollection[*Link](p, observable.GuardAdd[*Link](rejectDisposed[*Link]))
	p.outgoing.OnAdded().Subscribe(func(e LinkAdded) {
		if e.Item.source != p {
			e.Item.moveSource(p)
		}
	})
	p.outgoing.OnRemoved().Subscribe(func(e LinkRemoved) {
		// A link cut from its source cannot survive.
		if !e.Internal && e.Item.source == p {
			e.Item.Dispose()
		}
	})

	p.incoming = observable.NewCollection[*Link](p,
		observable.NonOwning[*Link](),
		observable.GuardAdd[*Link](rejectDisposed[*Link]),
	)
	p.incoming.OnAdded().Subscribe(func(e LinkAdded) {
		if e.Item.target != p {
			e.Item.SetTargetPort(p)
		}
	})
	p.incoming.OnRemoved().Subscribe(func(e LinkRemoved) {
		if !e.Internal && e.Item.target == p {
			e.Item.SetTargetPort(nil)
		}
	})
	return p
}

// ID implements Entity.
func (p *Port) ID() ID { return p.id }

// Parent returns the node or group the port belongs to, or nil while
// detached.
func (p *Port) Parent() PortContainer { return p.parent }

// SetParent moves the port into c's Ports collection. A nil container is a
// programming error and panics.
func (p *Port) SetParent(c PortContainer) {
	if c == nil {
		panic(fmt.Errorf("port %s: %w", p.id, ErrNilReference))
	}
	c.Ports().Add(p)
}

// OnContainerChange returns the ContainerChanged channel.
func (p *Port) OnContainerChange() *observable.Channel[ContainerChanged] { return p.rehomed }

// Diagram implements Entity.
func (p *Port) Diagram() *Diagram {
	if p.parent == nil {
		return nil
	}
	return p.parent.Diagram()
}

// IncomingLinks returns the links whose target is this port.
func (p *Port) IncomingLinks() *observable.Collection[*Link] { return p.incoming }

// OutgoingLinks returns the links whose source is this port.
func (p *Port) OutgoingLinks() *observable.Collection[*Link] { return p.outgoing }

// Links returns outgoing then incoming links.
func (p *Port) Links() []*Link {
	return append(p.outgoing.Items(), p.incoming.Items()...)
}

// Alignment returns the side the port sits on.
func (p *Port) Alignment() Alignment { return p.alignment }

// SetAlignment changes the side and realigns.
func (p *Port) SetAlignment(a Alignment) {
	p.alignment = a
	p.Realign()
}

// Justification returns the placement along the side.
func (p *Port) Justification() Justification { return p.justification }

// SetJustification changes the placement along the side and realigns.
func (p *Port) SetJustification(j Justification) {
	p.justification = j
	p.Realign()
}

// Offset returns the extra displacement added after alignment.
func (p *Port) Offset() Point { return p.offset }

// SetOffset changes the extra displacement and realigns.
func (p *Port) SetOffset(o Point) {
	p.offset = o
	p.Realign()
}

// SetConnectFilter installs an extra check for CanConnectTo.
func (p *Port) SetConnectFilter(f ConnectFilter) { p.filter = f }

// SetPosition places the port and publishes PositionChanged. Aligned ports
// are placed again by the next Realign.
func (p *Port) SetPosition(to Point) {
	old, changed := p.setPosition(to)
	if !changed {
		return
	}
	p.publishMove(old)
}

// SetSize resizes the port and realigns it.
func (p *Port) SetSize(to Size) {
	old, changed := p.setSize(to)
	if !changed {
		return
	}
	p.Realign()
	p.publishResize(old)
}

// Center returns the middle of the port.
func (p *Port) Center() Point {
	return p.Bounds().Center()
}

// Realign recomputes the position from the parent's bounds. Custom and
// detached ports are left alone.
func (p *Port) Realign() {
	if p.alignment == AlignCustom || p.parent == nil {
		return
	}
	p.SetPosition(p.aligned(p.parent.Bounds()))
}

func (p *Port) aligned(b Rect) Point {
	w, h := p.size.Width, p.size.Height
	var pos Point
	switch p.alignment {
	case AlignLeft:
		pos = Point{X: b.X - w/2, Y: justify(p.justification, b.Y, b.Height, h)}
	case AlignRight:
		pos = Point{X: b.Right() - w/2, Y: justify(p.justification, b.Y, b.Height, h)}
	case AlignTop:
		pos = Point{X: justify(p.justification, b.X, b.Width, w), Y: b.Y - h/2}
	case AlignBottom:
		pos = Point{X: justify(p.justification, b.X, b.Width, w), Y: b.Bottom() - h/2}
	default:
		pos = Point{X: b.X + b.Width/2 - w/2, Y: b.Y + b.Height/2 - h/2}
	}
	return pos.Add(p.offset)
}

func justify(j Justification, start, length, size float64) float64 {
	switch j {
	case JustifyStart:
		return start
	case JustifyEnd:
		return start + length - size
	default:
		return start + length/2 - size/2
	}
}

// followParent keeps the port attached after its parent moved by delta.
func (p *Port) followParent(delta Point) {
	if p.alignment == AlignCustom {
		p.SetPosition(p.position.Add(delta))
		return
	}
	p.Realign()
}

// CanCreateLink reports whether a new link may start at this port.
func (p *Port) CanCreateLink() bool {
	if p.disposed || p.Locked || p.parent == nil {
		return false
	}
	return p.hasCapacity()
}

// CanConnectTo reports whether a link from p may end at other.
func (p *Port) CanConnectTo(other *Port) bool {
	if other == nil || other == p || other.disposed || other.Locked {
		return false
	}
	if other.parent != nil && other.parent == p.parent {
		return false
	}
	if !other.hasCapacity() {
		return false
	}
	if p.filter != nil && !p.filter(p, other) {
		return false
	}
	return true
}

func (p *Port) hasCapacity() bool {
	if p.MaxLinks <= 0 {
		return true
	}
	bound := p.incoming.Len()
	for _, l := range p.outgoing.Items() {
		if l.target != nil {
			bound++
		}
	}
	return bound < p.MaxLinks
}

// Channels implements Entity.
func (p *Port) Channels() []observable.Source {
	return sources(
		p.lifecycle.channels(),
		p.placement.channels(),
		[]observable.Source{p.selection.changed, p.visibility.changed, p.zorder.changed, p.rehomed},
		p.outgoing.Channels(),
		p.incoming.Channels(),
	)
}

// Children implements Entity. Only outgoing links are owned by the port.
func (p *Port) Children() []Entity {
	out := make([]Entity, 0, p.outgoing.Len())
	for _, l := range p.outgoing.Items() {
		out = append(out, l)
	}
	return out
}

// Dispose disposes every attached link and detaches the port from its
// parent.
func (p *Port) Dispose() {
	if !p.begin() {
		return
	}
	for _, l := range p.Links() {
		l.Dispose()
	}
	p.finish(func() {
		if p.parent != nil {
			p.parent.Ports().RemoveInternal(p)
		}
	}, p.Channels())
}

func (p *Port) attach(c PortContainer) {
	if p.parent == c {
		p.Realign()
		return
	}
	old := p.parent
	p.parent = c
	if old != nil {
		old.Ports().RemoveInternal(p)
	}
	p.Realign()
	p.rehomed.Publish(ContainerChanged{Entity: p, Old: containerOrNil(old), New: c})
}

func (p *Port) detach(c PortContainer) {
	if p.parent != c {
		return
	}
	p.parent = nil
	p.rehomed.Publish(ContainerChanged{Entity: p, Old: c})
}

// containerOrNil avoids wrapping a nil PortContainer in a non-nil Container.
func containerOrNil(c PortContainer) Container {
	if c == nil {
		return nil
	}
	return c
}
