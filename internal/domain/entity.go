package domain

import "flowcanvas/internal/observable"

// Entity is implemented by every element of the diagram.
type Entity interface {
	ID() ID
	// Diagram returns the diagram the entity is reachable from, or nil
	// while it is detached.
	Diagram() *Diagram
	// Channels lists every notification source the entity owns.
	Channels() []observable.Source
	// Children lists the entities this one owns directly.
	Children() []Entity
	Disposed() bool
	Dispose()
}

// Movable entities have a position.
type Movable interface {
	Entity
	Position() Point
	SetPosition(Point)
	// TranslateInternal moves the entity without publishing PositionChanged
	// and without re-deriving anything from the new position.
	TranslateInternal(delta Point)
	RequestRedraw()
}

// Resizable entities have a size.
type Resizable interface {
	Entity
	Size() Size
	SetSize(Size)
}

// Selectable entities can be part of the selection.
type Selectable interface {
	Entity
	Selected() bool
	SetSelected(bool)
}

// Hideable entities can be hidden.
type Hideable interface {
	Entity
	Visible() bool
	SetVisible(bool)
}

// ZOrdered entities have a stacking order.
type ZOrdered interface {
	Entity
	ZIndex() int
	SetZIndex(int)
}

// ContainerKind tells the three container variants apart.
type ContainerKind int

const (
	KindLayer ContainerKind = iota
	KindGroup
	KindNode
)

// String implements fmt.Stringer.
func (k ContainerKind) String() string {
	switch k {
	case KindLayer:
		return "layer"
	case KindGroup:
		return "group"
	case KindNode:
		return "node"
	default:
		return "unknown"
	}
}

// Container is the closed set {*Layer, *Group, *Node}.
type Container interface {
	Entity
	Kind() ContainerKind
	sealed()
}

// PortContainer is a Container that owns ports: *Group or *Node.
type PortContainer interface {
	Container
	Ports() *observable.Collection[*Port]
	Bounds() Rect
}

// ParentOf returns the container that holds c, or nil for a layer or a
// detached entity.
func ParentOf(c Container) Container {
	switch v := c.(type) {
	case *Group:
		return v.container
	case *Node:
		return v.container
	default:
		return nil
	}
}

func rejectDisposed[T Entity](item T) error {
	if item.Disposed() {
		return ErrDisposed
	}
	return nil
}

// Remove takes e out of the collection that owns it, as an external
// mutation, and reports whether it was there. Layers go through
// Diagram.RemoveLayer and may fail with ErrLastLayer.
func Remove(e Entity) (bool, error) {
	switch v := e.(type) {
	case *Layer:
		if v.diagram == nil {
			return false, nil
		}
		return v.diagram.RemoveLayer(v)
	case *Group:
		switch c := v.container.(type) {
		case *Layer:
			return c.groups.Remove(v), nil
		case *Group:
			return c.groups.Remove(v), nil
		}
	case *Node:
		switch c := v.container.(type) {
		case *Layer:
			return c.nodes.Remove(v), nil
		case *Group:
			return c.nodes.Remove(v), nil
		}
	case *Port:
		if v.parent != nil {
			return v.parent.Ports().Remove(v), nil
		}
	case *Link:
		return v.source.outgoing.Remove(v), nil
	}
	return false, nil
}
