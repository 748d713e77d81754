package domain

import (
	"fmt"

	"flowcanvas/internal/observable"
)

// Group is a container that nests nodes, other groups and its own ports.
type Group struct {
	lifecycle
	placement
	selection
	visibility
	zorder

	id ID
	// Title is the label a renderer shows.
	Title string
	// Locked groups cannot be dragged.
	Locked bool
	// Padding is the space Fit leaves around the children.
	Padding Padding

	container Container
	groups    *observable.Collection[*Group]
	nodes     *observable.Collection[*Node]
	ports     *observable.Collection[*Port]
	rehomed   *observable.Channel[ContainerChanged]
}

// NewGroup creates a detached, empty group.
func NewGroup(position Point, size Size) *Group {
	return NewGroupWithID(NewID(), position, size)
}

// NewGroupWithID creates a detached group with a caller supplied identity.
func NewGroupWithID(id ID, position Point, size Size) *Group {
	g := &Group{id: id}
	g.lifecycle = newLifecycle(g)
	g.placement = newPlacement(g, position, size)
	g.selection = newSelection(g)
	g.visibility = newVisibility(g)
	g.zorder = newZOrder(g)
	g.rehomed = observable.NewChannel[ContainerChanged]()

	g.groups = observable.NewCollection[*Group](g, observable.GuardAdd[*Group](g.acceptChild))
	g.groups.OnAdded().Subscribe(func(e GroupAdded) { e.Item.attachTo(g) })
	g.groups.OnRemoved().Subscribe(func(e GroupRemoved) { e.Item.detachFrom(g) })

	g.nodes = observable.NewCollection[*Node](g, observable.GuardAdd[*Node](rejectDisposed[*Node]))
	g.nodes.OnAdded().Subscribe(func(e NodeAdded) { e.Item.attachTo(g) })
	g.nodes.OnRemoved().Subscribe(func(e NodeRemoved) { e.Item.detachFrom(g) })

	g.ports = observable.NewCollection[*Port](g, observable.GuardAdd[*Port](rejectDisposed[*Port]))
	g.ports.OnAdded().Subscribe(func(e PortAdded) { e.Item.attach(g) })
	g.ports.OnRemoved().Subscribe(func(e PortRemoved) { e.Item.detach(g) })
	return g
}

// ID implements Entity.
func (g *Group) ID() ID { return g.id }

// Kind implements Container.
func (g *Group) Kind() ContainerKind { return KindGroup }

func (g *Group) sealed() {}

// Container returns the layer or group holding g.
func (g *Group) Container() Container { return g.container }

// OnContainerChange returns the ContainerChanged channel.
func (g *Group) OnContainerChange() *observable.Channel[ContainerChanged] { return g.rehomed }

// Diagram implements Entity.
func (g *Group) Diagram() *Diagram {
	if g.container == nil {
		return nil
	}
	return g.container.Diagram()
}

// Groups returns the directly nested groups.
func (g *Group) Groups() *observable.Collection[*Group] { return g.groups }

// Nodes returns the directly nested nodes.
func (g *Group) Nodes() *observable.Collection[*Node] { return g.nodes }

// Ports returns the group's own ports.
func (g *Group) Ports() *observable.Collection[*Port] { return g.ports }

// AddGroup nests child in g. It fails with ErrGroupCycle when child is g or
// one of g's ancestors.
func (g *Group) AddGroup(child *Group) error {
	if err := g.acceptChild(child); err != nil {
		return fmt.Errorf("add group %s to %s: %w", child.id, g.id, err)
	}
	g.groups.Add(child)
	return nil
}

func (g *Group) acceptChild(child *Group) error {
	if child == nil {
		return ErrNilReference
	}
	if child.disposed {
		return ErrDisposed
	}
	if child == g || child.IsAncestorOf(g) {
		return ErrGroupCycle
	}
	return nil
}

// IsAncestorOf reports whether c is nested in g at any depth.
func (g *Group) IsAncestorOf(c Container) bool {
	for p := ParentOf(c); p != nil; p = ParentOf(p) {
		if p == Container(g) {
			return true
		}
	}
	return false
}

// AllGroups returns every group nested in g, depth first.
func (g *Group) AllGroups() []*Group {
	var out []*Group
	for _, child := range g.groups.Items() {
		out = append(out, child)
		out = append(out, child.AllGroups()...)
	}
	return out
}

// AllNodes returns every node nested in g at any depth.
func (g *Group) AllNodes() []*Node {
	out := g.nodes.Items()
	for _, child := range g.groups.Items() {
		out = append(out, child.AllNodes()...)
	}
	return out
}

// AllPorts returns g's ports followed by every port below it.
func (g *Group) AllPorts() []*Port {
	out := g.ports.Items()
	for _, n := range g.nodes.Items() {
		out = append(out, n.ports.Items()...)
	}
	for _, child := range g.groups.Items() {
		out = append(out, child.AllPorts()...)
	}
	return out
}

// Links returns the links attached to the group's own ports.
func (g *Group) Links() []*Link {
	var links []*Link
	for _, p := range g.ports.Items() {
		links = append(links, p.Links()...)
	}
	return links
}

// SetPosition moves the group and publishes PositionChanged. Descendants
// follow through the group move behaviour.
func (g *Group) SetPosition(to Point) {
	old, changed := g.setPosition(to)
	if !changed {
		return
	}
	g.publishMove(old)
}

// SetSize resizes the group and realigns its own ports.
func (g *Group) SetSize(to Size) {
	old, changed := g.setSize(to)
	if !changed {
		return
	}
	for _, p := range g.ports.Items() {
		p.Realign()
	}
	g.publishResize(old)
}

// Fit resizes and moves the group so that its nodes and nested groups fit
// inside the padding. An empty group is left untouched.
func (g *Group) Fit() {
	var (
		box   Rect
		found bool
	)
	add := func(r Rect) {
		if !found {
			box, found = r, true
			return
		}
		box = box.Union(r)
	}
	for _, n := range g.nodes.Items() {
		add(n.Bounds())
	}
	for _, child := range g.groups.Items() {
		add(child.Bounds())
	}
	if !found {
		return
	}
	pos := Point{X: box.X - g.Padding.Left, Y: box.Y - g.Padding.Top}
	size := Size{
		Width:  box.Width + g.Padding.Left + g.Padding.Right,
		Height: box.Height + g.Padding.Top + g.Padding.Bottom,
	}
	// Children already sit where they belong, so skip the cascade.
	g.SetPositionInternal(pos)
	g.SetSize(size)
	g.RequestRedraw()
}

// Channels implements Entity.
func (g *Group) Channels() []observable.Source {
	return sources(
		g.lifecycle.channels(),
		g.placement.channels(),
		[]observable.Source{g.selection.changed, g.visibility.changed, g.zorder.changed, g.rehomed},
		g.groups.Channels(),
		g.nodes.Channels(),
		g.ports.Channels(),
	)
}

// Children implements Entity.
func (g *Group) Children() []Entity {
	var out []Entity
	for _, p := range g.ports.Items() {
		out = append(out, p)
	}
	for _, n := range g.nodes.Items() {
		out = append(out, n)
	}
	for _, child := range g.groups.Items() {
		out = append(out, child)
	}
	return out
}

// Dispose disposes the group's ports, nodes and nested groups, then detaches
// the group from its container.
func (g *Group) Dispose() {
	if !g.begin() {
		return
	}
	for _, p := range g.ports.Items() {
		p.Dispose()
	}
	for _, n := range g.nodes.Items() {
		n.Dispose()
	}
	for _, child := range g.groups.Items() {
		child.Dispose()
	}
	g.finish(func() {
		if g.container != nil {
			removeGroupFrom(g.container, g)
		}
	}, g.Channels())
}

func (g *Group) attachTo(c Container) {
	if g.container == c {
		return
	}
	old := g.container
	g.container = c
	if old != nil {
		removeGroupFrom(old, g)
	}
	g.rehomed.Publish(ContainerChanged{Entity: g, Old: old, New: c})
}

func (g *Group) detachFrom(c Container) {
	if g.container != c {
		return
	}
	g.container = nil
	g.rehomed.Publish(ContainerChanged{Entity: g, Old: c})
}

func removeGroupFrom(c Container, g *Group) {
	switch v := c.(type) {
	case *Layer:
		v.groups.RemoveInternal(g)
	case *Group:
		v.groups.RemoveInternal(g)
	}
}
