package domain

import "flowcanvas/internal/observable"

// Layer is a plane of nodes and groups. Exactly one layer of a diagram is
// current at a time.
type Layer struct {
	lifecycle
	visibility
	zorder

	id ID
	// Name is a human readable label.
	Name string

	current bool
	diagram *Diagram
	groups  *observable.Collection[*Group]
	nodes   *observable.Collection[*Node]
}

// NewLayer creates a detached, empty layer.
func NewLayer(name string) *Layer {
	return NewLayerWithID(NewID(), name)
}

// NewLayerWithID creates a detached layer with a caller supplied identity.
func NewLayerWithID(id ID, name string) *Layer {
	l := &Layer{id: id, Name: name}
	l.lifecycle = newLifecycle(l)
	l.visibility = newVisibility(l)
	l.zorder = newZOrder(l)

	l.groups = observable.NewCollection[*Group](l, observable.GuardAdd[*Group](rejectDisposed[*Group]))
	l.groups.OnAdded().Subscribe(func(e GroupAdded) { e.Item.attachTo(l) })
	l.groups.OnRemoved().Subscribe(func(e GroupRemoved) { e.Item.detachFrom(l) })

	l.nodes = observable.NewCollection[*Node](l, observable.GuardAdd[*Node](rejectDisposed[*Node]))
	l.nodes.OnAdded().Subscribe(func(e NodeAdded) { e.Item.attachTo(l) })
	l.nodes.OnRemoved().Subscribe(func(e NodeRemoved) { e.Item.detachFrom(l) })
	return l
}

// ID implements Entity.
func (l *Layer) ID() ID { return l.id }

// Kind implements Container.
func (l *Layer) Kind() ContainerKind { return KindLayer }

func (l *Layer) sealed() {}

// Diagram implements Entity.
func (l *Layer) Diagram() *Diagram { return l.diagram }

// IsCurrent reports whether new entities go to this layer.
func (l *Layer) IsCurrent() bool { return l.current }

// Groups returns the top-level groups of the layer.
func (l *Layer) Groups() *observable.Collection[*Group] { return l.groups }

// Nodes returns the top-level nodes of the layer.
func (l *Layer) Nodes() *observable.Collection[*Node] { return l.nodes }

// AllGroups returns every group in the layer at any depth.
func (l *Layer) AllGroups() []*Group {
	var out []*Group
	for _, g := range l.groups.Items() {
		out = append(out, g)
		out = append(out, g.AllGroups()...)
	}
	return out
}

// AllNodes returns every node in the layer at any depth.
func (l *Layer) AllNodes() []*Node {
	out := l.nodes.Items()
	for _, g := range l.groups.Items() {
		out = append(out, g.AllNodes()...)
	}
	return out
}

// AllPorts returns every port in the layer, on nodes and on groups.
func (l *Layer) AllPorts() []*Port {
	var out []*Port
	for _, n := range l.nodes.Items() {
		out = append(out, n.ports.Items()...)
	}
	for _, g := range l.groups.Items() {
		out = append(out, g.AllPorts()...)
	}
	return out
}

// AllLinks returns every link whose source port is in the layer.
func (l *Layer) AllLinks() []*Link {
	var out []*Link
	for _, p := range l.AllPorts() {
		out = append(out, p.outgoing.Items()...)
	}
	return out
}

// Channels implements Entity.
func (l *Layer) Channels() []observable.Source {
	return sources(
		l.lifecycle.channels(),
		[]observable.Source{l.visibility.changed, l.zorder.changed},
		l.groups.Channels(),
		l.nodes.Channels(),
	)
}

// Children implements Entity.
func (l *Layer) Children() []Entity {
	var out []Entity
	for _, n := range l.nodes.Items() {
		out = append(out, n)
	}
	for _, g := range l.groups.Items() {
		out = append(out, g)
	}
	return out
}

// Dispose disposes everything on the layer and removes it from the diagram.
// Disposing the last layer of a live diagram panics with ErrLastLayer.
func (l *Layer) Dispose() {
	if l.disposed {
		return
	}
	if d := l.diagram; d != nil && !d.disposed && d.layers.Len() <= 1 {
		panic(ErrLastLayer)
	}
	l.begin()
	for _, n := range l.nodes.Items() {
		n.Dispose()
	}
	for _, g := range l.groups.Items() {
		g.Dispose()
	}
	l.finish(func() {
		if l.diagram != nil {
			l.diagram.layers.RemoveInternal(l)
		}
	}, l.Channels())
}
