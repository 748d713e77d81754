package domain

import "flowcanvas/internal/observable"

// Node is a box on the canvas that owns ports.
type Node struct {
	lifecycle
	placement
	selection
	visibility
	zorder

	id ID
	// Title is the label a renderer shows.
	Title string
	// Type tags application specific node types so they survive a
	// snapshot round trip.
	Type string
	// Locked nodes cannot be dragged or connected to.
	Locked bool

	container Container
	ports     *observable.Collection[*Port]
	rehomed   *observable.Channel[ContainerChanged]
}

// NewNode creates a detached node.
func NewNode(position Point, size Size) *Node {
	return NewNodeWithID(NewID(), position, size)
}

// NewNodeWithID creates a detached node with a caller supplied identity.
func NewNodeWithID(id ID, position Point, size Size) *Node {
	n := &Node{id: id}
	n.lifecycle = newLifecycle(n)
	n.placement = newPlacement(n, position, size)
	n.selection = newSelection(n)
	n.visibility = newVisibility(n)
	n.zorder = newZOrder(n)
	n.rehomed = observable.NewChannel[ContainerChanged]()
	n.ports = observable.NewCollection[*Port](n, observable.GuardAdd[*Port](rejectDisposed[*Port]))
	n.ports.OnAdded().Subscribe(func(e PortAdded) { e.Item.attach(n) })
	n.ports.OnRemoved().Subscribe(func(e PortRemoved) { e.Item.detach(n) })
	return n
}

// ID implements Entity.
func (n *Node) ID() ID { return n.id }

// Kind implements Container.
func (n *Node) Kind() ContainerKind { return KindNode }

func (n *Node) sealed() {}

// Container returns the layer or group holding the node.
func (n *Node) Container() Container { return n.container }

// OnContainerChange returns the ContainerChanged channel.
func (n *Node) OnContainerChange() *observable.Channel[ContainerChanged] { return n.rehomed }

// Diagram implements Entity.
func (n *Node) Diagram() *Diagram {
	if n.container == nil {
		return nil
	}
	return n.container.Diagram()
}

// Ports returns the node's ports.
func (n *Node) Ports() *observable.Collection[*Port] { return n.ports }

// Links returns every link attached to any of the node's ports.
func (n *Node) Links() []*Link {
	var links []*Link
	for _, p := range n.ports.Items() {
		links = append(links, p.Links()...)
	}
	return links
}

// SetPosition moves the node, keeps its ports aligned and publishes
// PositionChanged.
func (n *Node) SetPosition(to Point) {
	old, changed := n.setPosition(to)
	if !changed {
		return
	}
	delta := to.Sub(old)
	for _, p := range n.ports.Items() {
		p.followParent(delta)
	}
	n.publishMove(old)
}

// SetSize resizes the node and realigns its ports.
func (n *Node) SetSize(to Size) {
	old, changed := n.setSize(to)
	if !changed {
		return
	}
	for _, p := range n.ports.Items() {
		p.Realign()
	}
	n.publishResize(old)
}

// Channels implements Entity.
func (n *Node) Channels() []observable.Source {
	return sources(
		n.lifecycle.channels(),
		n.placement.channels(),
		[]observable.Source{n.selection.changed, n.visibility.changed, n.zorder.changed, n.rehomed},
		n.ports.Channels(),
	)
}

// Children implements Entity.
func (n *Node) Children() []Entity {
	out := make([]Entity, 0, n.ports.Len())
	for _, p := range n.ports.Items() {
		out = append(out, p)
	}
	return out
}

// Dispose disposes the node's ports, detaches the node from its container
// and severs every subscription it owns.
func (n *Node) Dispose() {
	if !n.begin() {
		return
	}
	for _, p := range n.ports.Items() {
		p.Dispose()
	}
	n.finish(func() { detachNode(n) }, n.Channels())
}

// attachTo records c as the node's container and takes the node out of its
// previous one.
func (n *Node) attachTo(c Container) {
	if n.container == c {
		return
	}
	old := n.container
	n.container = c
	if old != nil {
		removeNodeFrom(old, n)
	}
	n.rehomed.Publish(ContainerChanged{Entity: n, Old: old, New: c})
}

func (n *Node) detachFrom(c Container) {
	if n.container != c {
		return
	}
	n.container = nil
	n.rehomed.Publish(ContainerChanged{Entity: n, Old: c})
}

func detachNode(n *Node) {
	if n.container != nil {
		removeNodeFrom(n.container, n)
	}
}

func removeNodeFrom(c Container, n *Node) {
	switch v := c.(type) {
	case *Layer:
		v.nodes.RemoveInternal(n)
	case *Group:
		v.nodes.RemoveInternal(n)
	}
}
