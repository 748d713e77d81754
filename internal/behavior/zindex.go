package behavior

import (
	"log/slog"
	"math"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
)

// ZIndexOptions configures the ZIndex behaviour.
type ZIndexOptions struct {
	*Toggle
	Multiplier  int
	GroupOffset int
	NodeOffset  int
	PortOffset  int
	// LayerBand separates layers: layer i starts at i*LayerBand.
	LayerBand int
}

// DefaultZIndexOptions returns enabled z-index options.
func DefaultZIndexOptions() *ZIndexOptions {
	return &ZIndexOptions{
		Toggle:      NewToggle(true),
		Multiplier:  10,
		GroupOffset: 1,
		NodeOffset:  2,
		PortOffset:  3,
		LayerBand:   10000,
	}
}

// UnboundLinkZ is the stacking order of a link without a target port.
const UnboundLinkZ = math.MaxInt32 - 1

// ZIndex assigns stacking orders to entities as they join the diagram.
// Entities that already carry a non-zero z-index keep it. Links are
// recomputed whenever their target changes.
type ZIndex struct {
	base
	opts *ZIndexOptions
}

// NewZIndex creates the behaviour and subscribes it if enabled.
func NewZIndex(b *bus.Bus, opts *ZIndexOptions, logger *slog.Logger) *ZIndex {
	if opts == nil {
		opts = DefaultZIndexOptions()
	}
	if opts.Multiplier <= 0 {
		opts.Multiplier = DefaultZIndexOptions().Multiplier
	}
	z := &ZIndex{base: newBase("z_index", b, logger, opts.Toggle), opts: opts}
	z.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.Subscribe(b, func(e domain.LayerAdded) { z.assignLayer(e.Item) }),
			bus.Subscribe(b, func(e domain.GroupAdded) { z.assignGroup(e.Item) }),
			bus.Subscribe(b, func(e domain.NodeAdded) { z.assignNode(e.Item) }),
			bus.Subscribe(b, func(e domain.PortAdded) { z.assignPort(e.Item) }),
			bus.SubscribeWhere(b,
				func(e domain.LinkAdded) bool { return e.Owning },
				func(e domain.LinkAdded) { z.assignLink(e.Item) },
			),
			bus.Subscribe(b, func(e domain.TargetPortChanged) { z.assignLink(e.Link) }),
		}
	})
	return z
}

// Level returns the nesting level children of c are placed at.
func (z *ZIndex) Level(c domain.Container) int {
	m := z.opts.Multiplier
	switch v := c.(type) {
	case *domain.Layer:
		return v.ZIndex()/m + 1
	case *domain.Group:
		return v.ZIndex()/m + 1
	case *domain.Node:
		return (v.ZIndex()-z.opts.NodeOffset)/m + 1
	}
	return 1
}

func (z *ZIndex) assignLayer(l *domain.Layer) {
	d := l.Diagram()
	if l.ZIndex() == 0 && d != nil {
		l.SetZIndex(d.Layers().IndexOf(l) * z.opts.LayerBand)
	}
	for _, g := range l.Groups().Items() {
		z.assignGroup(g)
	}
	for _, n := range l.Nodes().Items() {
		z.assignNode(n)
	}
}

func (z *ZIndex) assignGroup(g *domain.Group) {
	if g.ZIndex() == 0 {
		g.SetZIndex(z.Level(g.Container())*z.opts.Multiplier + z.opts.GroupOffset)
	}
	for _, p := range g.Ports().Items() {
		z.assignPort(p)
	}
	for _, n := range g.Nodes().Items() {
		z.assignNode(n)
	}
	for _, child := range g.Groups().Items() {
		z.assignGroup(child)
	}
}

func (z *ZIndex) assignNode(n *domain.Node) {
	if n.ZIndex() == 0 {
		n.SetZIndex(z.Level(n.Container())*z.opts.Multiplier + z.opts.NodeOffset)
	}
	for _, p := range n.Ports().Items() {
		z.assignPort(p)
	}
}

func (z *ZIndex) assignPort(p *domain.Port) {
	if p.ZIndex() == 0 {
		level := z.Level(p.Parent())
		if _, onNode := p.Parent().(*domain.Node); onNode {
			// Ports sit on top of their node, not one level deeper.
			level--
		}
		p.SetZIndex(level*z.opts.Multiplier + z.opts.PortOffset)
	}
	for _, l := range p.OutgoingLinks().Items() {
		z.assignLink(l)
	}
}

func (z *ZIndex) assignLink(l *domain.Link) {
	if l.Disposed() {
		return
	}
	target := UnboundLinkZ + 1
	if t := l.Target(); t != nil {
		target = t.ZIndex()
	}
	l.SetZIndex(max(l.Source().ZIndex(), target) - 1)
}
