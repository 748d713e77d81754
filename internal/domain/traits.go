package domain

import "flowcanvas/internal/observable"

// Traits are embedded by the concrete entities. Each one owns its state and
// the channel that announces changes to it.

type lifecycle struct {
	owner    Entity
	disposed bool
	redraw   *observable.Channel[Redraw]
	disposal *observable.Channel[Disposed]
}

func newLifecycle(owner Entity) lifecycle {
	return lifecycle{
		owner:    owner,
		redraw:   observable.NewChannel[Redraw](),
		disposal: observable.NewChannel[Disposed](),
	}
}

// Disposed reports whether Dispose has run.
func (l *lifecycle) Disposed() bool { return l.disposed }

// RequestRedraw publishes a Redraw event for the entity.
func (l *lifecycle) RequestRedraw() {
	if l.disposed {
		return
	}
	l.redraw.Publish(Redraw{Entity: l.owner})
}

// OnRedraw returns the redraw channel.
func (l *lifecycle) OnRedraw() *observable.Channel[Redraw] { return l.redraw }

// OnDispose returns the disposal channel.
func (l *lifecycle) OnDispose() *observable.Channel[Disposed] { return l.disposal }

// begin marks the entity disposed and reports whether this is the first call.
func (l *lifecycle) begin() bool {
	if l.disposed {
		return false
	}
	l.disposed = true
	return true
}

// finish announces the disposal, lets detach unhook the entity from its
// parent and then severs every subscription. Disposed goes out while the
// entity is still reachable, so bus subscribers hear it.
func (l *lifecycle) finish(detach func(), sources []observable.Source) {
	l.disposal.Publish(Disposed{Entity: l.owner})
	if detach != nil {
		detach()
	}
	for _, s := range sources {
		s.Clear()
	}
}

func (l *lifecycle) channels() []observable.Source {
	return []observable.Source{l.redraw, l.disposal}
}

type placement struct {
	owner    Entity
	position Point
	size     Size
	moved    *observable.Channel[PositionChanged]
	resized  *observable.Channel[SizeChanged]
}

func newPlacement(owner Entity, position Point, size Size) placement {
	return placement{
		owner:    owner,
		position: position,
		size:     size,
		moved:    observable.NewChannel[PositionChanged](),
		resized:  observable.NewChannel[SizeChanged](),
	}
}

// Position returns the top-left corner.
func (p *placement) Position() Point { return p.position }

// Size returns the width and height.
func (p *placement) Size() Size { return p.size }

// Bounds returns the position and size as a rectangle.
func (p *placement) Bounds() Rect { return NewRect(p.position, p.size) }

// OnMove returns the PositionChanged channel.
func (p *placement) OnMove() *observable.Channel[PositionChanged] { return p.moved }

// OnResize returns the SizeChanged channel.
func (p *placement) OnResize() *observable.Channel[SizeChanged] { return p.resized }

// TranslateInternal moves the entity by delta without any notification.
func (p *placement) TranslateInternal(delta Point) {
	p.position = p.position.Add(delta)
}

// SetPositionInternal places the entity without any notification.
func (p *placement) SetPositionInternal(to Point) {
	p.position = to
}

func (p *placement) setPosition(to Point) (Point, bool) {
	old := p.position
	if old == to {
		return old, false
	}
	p.position = to
	return old, true
}

func (p *placement) setSize(to Size) (Size, bool) {
	old := p.size
	if old == to {
		return old, false
	}
	p.size = to
	return old, true
}

func (p *placement) publishMove(old Point) {
	p.moved.Publish(PositionChanged{Entity: p.owner, Old: old, New: p.position})
}

func (p *placement) publishResize(old Size) {
	p.resized.Publish(SizeChanged{Entity: p.owner, Old: old, New: p.size})
}

func (p *placement) channels() []observable.Source {
	return []observable.Source{p.moved, p.resized}
}

type selection struct {
	owner    Entity
	selected bool
	changed  *observable.Channel[SelectionChanged]
}

func newSelection(owner Entity) selection {
	return selection{owner: owner, changed: observable.NewChannel[SelectionChanged]()}
}

// Selected reports whether the entity is selected.
func (s *selection) Selected() bool { return s.selected }

// SetSelected changes the selection state and publishes SelectionChanged.
func (s *selection) SetSelected(v bool) {
	if s.selected == v {
		return
	}
	s.selected = v
	s.changed.Publish(SelectionChanged{Entity: s.owner, Selected: v})
}

// OnSelect returns the SelectionChanged channel.
func (s *selection) OnSelect() *observable.Channel[SelectionChanged] { return s.changed }

type visibility struct {
	owner   Entity
	visible bool
	changed *observable.Channel[VisibilityChanged]
}

func newVisibility(owner Entity) visibility {
	return visibility{owner: owner, visible: true, changed: observable.NewChannel[VisibilityChanged]()}
}

// Visible reports whether the entity is shown.
func (v *visibility) Visible() bool { return v.visible }

// SetVisible shows or hides the entity.
func (v *visibility) SetVisible(visible bool) {
	if v.visible == visible {
		return
	}
	v.visible = visible
	v.changed.Publish(VisibilityChanged{Entity: v.owner, Visible: visible})
}

// OnVisibility returns the VisibilityChanged channel.
func (v *visibility) OnVisibility() *observable.Channel[VisibilityChanged] { return v.changed }

type zorder struct {
	owner   Entity
	z       int
	changed *observable.Channel[ZIndexChanged]
}

func newZOrder(owner Entity) zorder {
	return zorder{owner: owner, changed: observable.NewChannel[ZIndexChanged]()}
}

// ZIndex returns the stacking order. Zero means not assigned yet.
func (z *zorder) ZIndex() int { return z.z }

// SetZIndex changes the stacking order.
func (z *zorder) SetZIndex(v int) {
	if z.z == v {
		return
	}
	old := z.z
	z.z = v
	z.changed.Publish(ZIndexChanged{Entity: z.owner, Old: old, New: v})
}

// OnZIndex returns the ZIndexChanged channel.
func (z *zorder) OnZIndex() *observable.Channel[ZIndexChanged] { return z.changed }

func sources(groups ...[]observable.Source) []observable.Source {
	var out []observable.Source
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
