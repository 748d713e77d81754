package domain

import "flowcanvas/internal/observable"

// PositionChanged is published after an entity moved through its public
// setter. Internal translations do not publish it.
type PositionChanged struct {
	Entity Entity
	Old    Point
	New    Point
}

// SizeChanged is published after an entity was resized.
type SizeChanged struct {
	Entity Entity
	Old    Size
	New    Size
}

// SelectionChanged is published when an entity is selected or unselected.
type SelectionChanged struct {
	Entity   Entity
	Selected bool
}

// VisibilityChanged is published when an entity is shown or hidden.
type VisibilityChanged struct {
	Entity  Entity
	Visible bool
}

// ZIndexChanged is published when an entity's z-order changes.
type ZIndexChanged struct {
	Entity Entity
	Old    int
	New    int
}

// Redraw asks the renderer to repaint an entity whose state changed without
// a more specific event.
type Redraw struct {
	Entity Entity
}

// Disposed is the last event an entity publishes.
type Disposed struct {
	Entity Entity
}

// ContainerChanged is published when a Node, Group or Port moves to another
// container, or leaves its container (New is nil).
type ContainerChanged struct {
	Entity Entity
	Old    Container
	New    Container
}

// TargetPortChanged is published when a link is bound, rebound or unbound.
type TargetPortChanged struct {
	Link *Link
	Old  *Port
	New  *Port
}

// TargetPositionChanged is published when the free end of an unbound link
// moves.
type TargetPositionChanged struct {
	Link *Link
	Old  Point
	New  Point
}

// PanChanged is published when the diagram's pan offset changes.
type PanChanged struct {
	Diagram *Diagram
	Old     Point
	New     Point
}

// ZoomChanged is published when the diagram's zoom factor changes.
type ZoomChanged struct {
	Diagram *Diagram
	Old     float64
	New     float64
}

// CanvasResized is published when the renderer reports a new canvas size.
type CanvasResized struct {
	Diagram *Diagram
	Old     Size
	New     Size
}

// CurrentLayerChanged is published when another layer becomes current.
type CurrentLayerChanged struct {
	Diagram *Diagram
	Old     *Layer
	New     *Layer
}

// Collection notifications, named per item type.
type (
	LayerAdded   = observable.Added[*Layer]
	LayerRemoved = observable.Removed[*Layer]
	GroupAdded   = observable.Added[*Group]
	GroupRemoved = observable.Removed[*Group]
	NodeAdded    = observable.Added[*Node]
	NodeRemoved  = observable.Removed[*Node]
	PortAdded    = observable.Added[*Port]
	PortRemoved  = observable.Removed[*Port]
	LinkAdded    = observable.Added[*Link]
	LinkRemoved  = observable.Removed[*Link]
)
