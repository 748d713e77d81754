package codec

import (
	"fmt"

	"flowcanvas/internal/domain"
)

// Version is the snapshot layout written by Capture.
const Version = 1

// Snapshot is a diagram as plain data. Links are listed flat and refer to
// ports by ID.
type Snapshot struct {
	Version      int             `json:"version" yaml:"version" toml:"version"`
	CurrentLayer domain.ID       `json:"current_layer,omitempty" yaml:"current_layer,omitempty" toml:"current_layer,omitempty"`
	Viewport     Viewport        `json:"viewport" yaml:"viewport" toml:"viewport"`
	Layers       []LayerSnapshot `json:"layers" yaml:"layers" toml:"layers"`
	Links        []LinkSnapshot  `json:"links,omitempty" yaml:"links,omitempty" toml:"links,omitempty"`
}

// Viewport is the pan, zoom and canvas size of a diagram.
type Viewport struct {
	Pan    domain.Point `json:"pan" yaml:"pan" toml:"pan"`
	Zoom   float64      `json:"zoom" yaml:"zoom" toml:"zoom"`
	Canvas domain.Size  `json:"canvas" yaml:"canvas" toml:"canvas"`
}

// LayerSnapshot is one layer and everything on it.
type LayerSnapshot struct {
	ID     domain.ID       `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name   string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Groups []GroupSnapshot `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
	Nodes  []NodeSnapshot  `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
}

// GroupSnapshot is a group with its nested groups, nodes and ports.
type GroupSnapshot struct {
	ID       domain.ID       `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Title    string          `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Position domain.Point    `json:"position" yaml:"position" toml:"position"`
	Size     domain.Size     `json:"size" yaml:"size" toml:"size"`
	Padding  domain.Padding  `json:"padding" yaml:"padding" toml:"padding"`
	Locked   bool            `json:"locked,omitempty" yaml:"locked,omitempty" toml:"locked,omitempty"`
	Hidden   bool            `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Ports    []PortSnapshot  `json:"ports,omitempty" yaml:"ports,omitempty" toml:"ports,omitempty"`
	Groups   []GroupSnapshot `json:"groups,omitempty" yaml:"groups,omitempty" toml:"groups,omitempty"`
	Nodes    []NodeSnapshot  `json:"nodes,omitempty" yaml:"nodes,omitempty" toml:"nodes,omitempty"`
}

// NodeSnapshot is a node with its ports.
type NodeSnapshot struct {
	ID       domain.ID      `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Type     string         `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Title    string         `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Position domain.Point   `json:"position" yaml:"position" toml:"position"`
	Size     domain.Size    `json:"size" yaml:"size" toml:"size"`
	Locked   bool           `json:"locked,omitempty" yaml:"locked,omitempty" toml:"locked,omitempty"`
	Hidden   bool           `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	Ports    []PortSnapshot `json:"ports,omitempty" yaml:"ports,omitempty" toml:"ports,omitempty"`
}

// PortSnapshot is a port. Position is only kept for custom aligned ports;
// the others are placed from their parent.
type PortSnapshot struct {
	ID            domain.ID     `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Alignment     string        `json:"alignment" yaml:"alignment" toml:"alignment"`
	Justification string        `json:"justification,omitempty" yaml:"justification,omitempty" toml:"justification,omitempty"`
	Offset        domain.Point  `json:"offset" yaml:"offset" toml:"offset"`
	Size          domain.Size   `json:"size" yaml:"size" toml:"size"`
	Position      *domain.Point `json:"position,omitempty" yaml:"position,omitempty" toml:"position,omitempty"`
	Locked        bool          `json:"locked,omitempty" yaml:"locked,omitempty" toml:"locked,omitempty"`
	Hidden        bool          `json:"hidden,omitempty" yaml:"hidden,omitempty" toml:"hidden,omitempty"`
	MaxLinks      int           `json:"max_links,omitempty" yaml:"max_links,omitempty" toml:"max_links,omitempty"`
}

// LinkSnapshot is a link between two ports. An unbound link has no Target
// and keeps its free end in End.
type LinkSnapshot struct {
	ID     domain.ID     `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Source domain.ID     `json:"source" yaml:"source" toml:"source"`
	Target domain.ID     `json:"target,omitempty" yaml:"target,omitempty" toml:"target,omitempty"`
	End    *domain.Point `json:"end,omitempty" yaml:"end,omitempty" toml:"end,omitempty"`
}

// Stats counts the entities in a snapshot.
type Stats struct {
	Layers int `json:"layers"`
	Groups int `json:"groups"`
	Nodes  int `json:"nodes"`
	Ports  int `json:"ports"`
	Links  int `json:"links"`
}

// Stats counts every layer, group, node, port and link.
func (s *Snapshot) Stats() Stats {
	st := Stats{Layers: len(s.Layers), Links: len(s.Links)}
	var walkNodes func([]NodeSnapshot)
	walkNodes = func(nodes []NodeSnapshot) {
		for _, n := range nodes {
			st.Nodes++
			st.Ports += len(n.Ports)
		}
	}
	var walkGroups func([]GroupSnapshot)
	walkGroups = func(groups []GroupSnapshot) {
		for _, g := range groups {
			st.Groups++
			st.Ports += len(g.Ports)
			walkGroups(g.Groups)
			walkNodes(g.Nodes)
		}
	}
	for _, l := range s.Layers {
		walkGroups(l.Groups)
		walkNodes(l.Nodes)
	}
	return st
}

// Capture copies d into a snapshot.
func Capture(d *domain.Diagram) *Snapshot {
	s := &Snapshot{
		Version: Version,
		Viewport: Viewport{
			Pan:    d.Pan(),
			Zoom:   d.Zoom(),
			Canvas: d.Canvas(),
		},
	}
	if cur := d.CurrentLayer(); cur != nil {
		s.CurrentLayer = cur.ID()
	}
	for _, l := range d.Layers().Items() {
		s.Layers = append(s.Layers, captureLayer(l))
	}
	for _, l := range d.AllLinks() {
		s.Links = append(s.Links, captureLink(l))
	}
	return s
}

// CaptureEntity copies a single entity and everything it owns the way
// Capture records it. The diagram itself is not an entity it handles.
func CaptureEntity(e domain.Entity) (any, bool) {
	switch v := e.(type) {
	case *domain.Layer:
		return captureLayer(v), true
	case *domain.Group:
		return captureGroup(v), true
	case *domain.Node:
		return captureNode(v), true
	case *domain.Port:
		return capturePorts([]*domain.Port{v})[0], true
	case *domain.Link:
		return captureLink(v), true
	}
	return nil, false
}

func captureLayer(l *domain.Layer) LayerSnapshot {
	ls := LayerSnapshot{ID: l.ID(), Name: l.Name}
	for _, g := range l.Groups().Items() {
		ls.Groups = append(ls.Groups, captureGroup(g))
	}
	for _, n := range l.Nodes().Items() {
		ls.Nodes = append(ls.Nodes, captureNode(n))
	}
	return ls
}

func captureGroup(g *domain.Group) GroupSnapshot {
	gs := GroupSnapshot{
		ID:       g.ID(),
		Title:    g.Title,
		Position: g.Position(),
		Size:     g.Size(),
		Padding:  g.Padding,
		Locked:   g.Locked,
		Hidden:   !g.Visible(),
		Ports:    capturePorts(g.Ports().Items()),
	}
	for _, child := range g.Groups().Items() {
		gs.Groups = append(gs.Groups, captureGroup(child))
	}
	for _, n := range g.Nodes().Items() {
		gs.Nodes = append(gs.Nodes, captureNode(n))
	}
	return gs
}

func captureNode(n *domain.Node) NodeSnapshot {
	return NodeSnapshot{
		ID:       n.ID(),
		Type:     n.Type,
		Title:    n.Title,
		Position: n.Position(),
		Size:     n.Size(),
		Locked:   n.Locked,
		Hidden:   !n.Visible(),
		Ports:    capturePorts(n.Ports().Items()),
	}
}

func capturePorts(ports []*domain.Port) []PortSnapshot {
	var out []PortSnapshot
	for _, p := range ports {
		ps := PortSnapshot{
			ID:            p.ID(),
			Alignment:     p.Alignment().String(),
			Justification: p.Justification().String(),
			Offset:        p.Offset(),
			Size:          p.Size(),
			Locked:        p.Locked,
			Hidden:        !p.Visible(),
			MaxLinks:      p.MaxLinks,
		}
		if p.Alignment() == domain.AlignCustom {
			pos := p.Position()
			ps.Position = &pos
		}
		out = append(out, ps)
	}
	return out
}

func captureLink(l *domain.Link) LinkSnapshot {
	ls := LinkSnapshot{ID: l.ID(), Source: l.Source().ID()}
	if t := l.Target(); t != nil {
		ls.Target = t.ID()
	} else {
		end := l.TargetPosition()
		ls.End = &end
	}
	return ls
}

// Builder is what Restore adds entities through. service.DiagramService
// satisfies it.
type Builder interface {
	Diagram() *domain.Diagram
	Clear()
	AddLayer(l *domain.Layer) error
	RemoveLayer(l *domain.Layer) (bool, error)
	UseLayer(l *domain.Layer) error
	AddGroupTo(parent domain.Container, g *domain.Group) error
	AddNodeTo(parent domain.Container, n *domain.Node) error
	AddPortTo(parent domain.PortContainer, p *domain.Port) error
	AddLink(l *domain.Link, target *domain.Port) error
}

// Validate checks what Restore relies on: no ID is used twice, alignments
// parse, and every link names known ports.
func (s *Snapshot) Validate() error {
	if s.Version > Version {
		return fmt.Errorf("%w: version %d is newer than %d", ErrInvalidSnapshot, s.Version, Version)
	}
	seen := make(map[domain.ID]bool)
	ports := make(map[domain.ID]bool)
	claim := func(kind string, id domain.ID) error {
		if id.IsZero() {
			return nil
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate id %s on %s", ErrInvalidSnapshot, id, kind)
		}
		seen[id] = true
		return nil
	}
	checkPorts := func(list []PortSnapshot) error {
		for _, p := range list {
			if err := claim("port", p.ID); err != nil {
				return err
			}
			ports[p.ID] = !p.ID.IsZero()
			if _, _, err := parseAlignment(p); err != nil {
				return err
			}
		}
		return nil
	}
	checkNodes := func(list []NodeSnapshot) error {
		for _, n := range list {
			if err := claim("node", n.ID); err != nil {
				return err
			}
			if err := checkPorts(n.Ports); err != nil {
				return err
			}
		}
		return nil
	}
	var checkGroups func([]GroupSnapshot) error
	checkGroups = func(list []GroupSnapshot) error {
		for _, g := range list {
			if err := claim("group", g.ID); err != nil {
				return err
			}
			if err := checkPorts(g.Ports); err != nil {
				return err
			}
			if err := checkGroups(g.Groups); err != nil {
				return err
			}
			if err := checkNodes(g.Nodes); err != nil {
				return err
			}
		}
		return nil
	}

	for _, l := range s.Layers {
		if err := claim("layer", l.ID); err != nil {
			return err
		}
		if err := checkGroups(l.Groups); err != nil {
			return err
		}
		if err := checkNodes(l.Nodes); err != nil {
			return err
		}
	}
	if !s.CurrentLayer.IsZero() && !hasLayer(s.Layers, s.CurrentLayer) {
		return fmt.Errorf("%w: current layer %s is not listed", ErrInvalidSnapshot, s.CurrentLayer)
	}
	for _, l := range s.Links {
		if err := claim("link", l.ID); err != nil {
			return err
		}
		if !ports[l.Source] {
			return fmt.Errorf("%w: link %s has unknown source port %q", ErrInvalidSnapshot, l.ID, l.Source)
		}
		if !l.Target.IsZero() && !ports[l.Target] {
			return fmt.Errorf("%w: link %s has unknown target port %q", ErrInvalidSnapshot, l.ID, l.Target)
		}
	}
	return nil
}

func hasLayer(layers []LayerSnapshot, id domain.ID) bool {
	for _, l := range layers {
		if l.ID == id {
			return true
		}
	}
	return false
}

func parseAlignment(p PortSnapshot) (domain.Alignment, domain.Justification, error) {
	a, err := domain.ParseAlignment(p.Alignment)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: port %s: %v", ErrInvalidSnapshot, p.ID, err)
	}
	j := domain.JustifyCenter
	if p.Justification != "" {
		if j, err = domain.ParseJustification(p.Justification); err != nil {
			return 0, 0, fmt.Errorf("%w: port %s: %v", ErrInvalidSnapshot, p.ID, err)
		}
	}
	return a, j, nil
}

func idOrNew(id domain.ID) domain.ID {
	if id.IsZero() {
		return domain.NewID()
	}
	return id
}

// Restore replaces what b holds with the snapshot. The snapshot is
// validated first so a bad one leaves b untouched.
func Restore(s *Snapshot, b Builder) error {
	if s == nil {
		return fmt.Errorf("restore: %w", domain.ErrNilReference)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	b.Clear()
	d := b.Diagram()
	if len(s.Layers) > 0 {
		// The kept layer may share an id with a restored one, so it goes
		// before any snapshot layer is added.
		if err := dropLayers(b); err != nil {
			return err
		}
	}
	leftover := d.Layers().Items()

	r := &restorer{b: b, ports: make(map[domain.ID]*domain.Port)}
	var current *domain.Layer
	for _, ls := range s.Layers {
		l := domain.NewLayerWithID(idOrNew(ls.ID), ls.Name)
		if err := b.AddLayer(l); err != nil {
			return fmt.Errorf("restore layer %s: %w", l.ID(), err)
		}
		if ls.ID == s.CurrentLayer || current == nil {
			current = l
		}
		if err := r.groups(l, ls.Groups); err != nil {
			return err
		}
		if err := r.nodes(l, ls.Nodes); err != nil {
			return err
		}
	}
	if current != nil {
		if err := b.UseLayer(current); err != nil {
			return fmt.Errorf("restore current layer: %w", err)
		}
		for _, l := range leftover {
			if _, err := b.RemoveLayer(l); err != nil {
				return fmt.Errorf("restore: drop layer %s: %w", l.ID(), err)
			}
		}
	}

	for _, ls := range s.Links {
		l := domain.NewLinkWithID(idOrNew(ls.ID), r.ports[ls.Source])
		if ls.End != nil {
			l.SetTargetPosition(*ls.End)
		}
		if err := b.AddLink(l, r.ports[ls.Target]); err != nil {
			return fmt.Errorf("restore link %s: %w", l.ID(), err)
		}
	}

	d.SetCanvas(s.Viewport.Canvas)
	if s.Viewport.Zoom > 0 {
		d.SetZoom(s.Viewport.Zoom)
	}
	d.SetPan(s.Viewport.Pan)
	return nil
}

// dropLayers swaps every layer of b for one empty placeholder.
func dropLayers(b Builder) error {
	old := b.Diagram().Layers().Items()
	placeholder := domain.NewLayer("")
	if err := b.AddLayer(placeholder); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	if err := b.UseLayer(placeholder); err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	for _, l := range old {
		if _, err := b.RemoveLayer(l); err != nil {
			return fmt.Errorf("restore: drop layer %s: %w", l.ID(), err)
		}
	}
	return nil
}

type restorer struct {
	b     Builder
	ports map[domain.ID]*domain.Port
}

func (r *restorer) groups(parent domain.Container, list []GroupSnapshot) error {
	for _, gs := range list {
		g := domain.NewGroupWithID(idOrNew(gs.ID), gs.Position, gs.Size)
		g.Title = gs.Title
		g.Padding = gs.Padding
		g.Locked = gs.Locked
		if err := r.b.AddGroupTo(parent, g); err != nil {
			return fmt.Errorf("restore group %s: %w", g.ID(), err)
		}
		if gs.Hidden {
			g.SetVisible(false)
		}
		if err := r.portsOf(g, gs.Ports); err != nil {
			return err
		}
		if err := r.groups(g, gs.Groups); err != nil {
			return err
		}
		if err := r.nodes(g, gs.Nodes); err != nil {
			return err
		}
	}
	return nil
}

func (r *restorer) nodes(parent domain.Container, list []NodeSnapshot) error {
	for _, ns := range list {
		n := domain.NewNodeWithID(idOrNew(ns.ID), ns.Position, ns.Size)
		n.Title = ns.Title
		n.Type = ns.Type
		n.Locked = ns.Locked
		if err := r.b.AddNodeTo(parent, n); err != nil {
			return fmt.Errorf("restore node %s: %w", n.ID(), err)
		}
		if ns.Hidden {
			n.SetVisible(false)
		}
		if err := r.portsOf(n, ns.Ports); err != nil {
			return err
		}
	}
	return nil
}

func (r *restorer) portsOf(parent domain.PortContainer, list []PortSnapshot) error {
	for _, ps := range list {
		a, j, err := parseAlignment(ps)
		if err != nil {
			return err
		}
		p := domain.NewPortWithID(idOrNew(ps.ID), a, j, ps.Size)
		p.SetOffset(ps.Offset)
		p.Locked = ps.Locked
		p.MaxLinks = ps.MaxLinks
		if err := r.b.AddPortTo(parent, p); err != nil {
			return fmt.Errorf("restore port %s: %w", p.ID(), err)
		}
		if a == domain.AlignCustom && ps.Position != nil {
			p.SetPosition(*ps.Position)
		}
		if ps.Hidden {
			p.SetVisible(false)
		}
		if !ps.ID.IsZero() {
			r.ports[ps.ID] = p
		}
	}
	return nil
}
