package domain

import (
	"fmt"

	"flowcanvas/internal/observable"
)

// Options bounds and seeds a diagram's viewport.
type Options struct {
	MinZoom float64 `json:"min_zoom" yaml:"min_zoom"`
	MaxZoom float64 `json:"max_zoom" yaml:"max_zoom"`
	Zoom    float64 `json:"zoom" yaml:"zoom"`
	Canvas  Size    `json:"canvas" yaml:"canvas"`
}

// DefaultOptions returns the viewport settings used when none are given.
func DefaultOptions() Options {
	return Options{MinZoom: 0.1, MaxZoom: 4, Zoom: 1}
}

// Diagram is the root of the model. It always holds at least one layer and
// exactly one of them is current.
type Diagram struct {
	lifecycle

	id      ID
	layers  *observable.Collection[*Layer]
	current *Layer

	pan     Point
	zoom    float64
	minZoom float64
	maxZoom float64
	canvas  Size

	panned   *observable.Channel[PanChanged]
	zoomed   *observable.Channel[ZoomChanged]
	resized  *observable.Channel[CanvasResized]
	switched *observable.Channel[CurrentLayerChanged]
}

// NewDiagram creates a diagram with one current layer.
func NewDiagram(opts Options) *Diagram {
	def := DefaultOptions()
	if opts.MinZoom <= 0 {
		opts.MinZoom = def.MinZoom
	}
	if opts.MaxZoom < opts.MinZoom {
		opts.MaxZoom = max(def.MaxZoom, opts.MinZoom)
	}
	if opts.Zoom == 0 {
		opts.Zoom = def.Zoom
	}

	d := &Diagram{
		id:       NewID(),
		minZoom:  opts.MinZoom,
		maxZoom:  opts.MaxZoom,
		canvas:   opts.Canvas,
		panned:   observable.NewChannel[PanChanged](),
		zoomed:   observable.NewChannel[ZoomChanged](),
		resized:  observable.NewChannel[CanvasResized](),
		switched: observable.NewChannel[CurrentLayerChanged](),
	}
	d.zoom = d.clampZoom(opts.Zoom)
	d.lifecycle = newLifecycle(d)
	d.layers = observable.NewCollection[*Layer](d,
		observable.GuardAdd[*Layer](rejectDisposed[*Layer]),
		observable.GuardRemove[*Layer](d.allowLayerRemoval),
	)
	d.layers.OnAdded().Subscribe(d.layerAdded)
	d.layers.OnRemoved().Subscribe(d.layerRemoved)
	d.layers.Add(NewLayer("default"))
	return d
}

func (d *Diagram) allowLayerRemoval(*Layer) error {
	if !d.disposed && d.layers.Len() <= 1 {
		return ErrLastLayer
	}
	return nil
}

func (d *Diagram) layerAdded(e LayerAdded) {
	if old := e.Item.diagram; old != nil && old != d {
		old.layers.RemoveInternal(e.Item)
	}
	e.Item.diagram = d
	if d.current == nil {
		d.setCurrent(e.Item)
	}
}

func (d *Diagram) layerRemoved(e LayerRemoved) {
	if e.Item.diagram == d {
		e.Item.diagram = nil
	}
	if d.current != e.Item {
		return
	}
	e.Item.current = false
	d.current = nil
	if d.layers.Len() > 0 {
		d.setCurrent(d.layers.At(0))
	}
}

func (d *Diagram) setCurrent(l *Layer) {
	old := d.current
	if old == l {
		return
	}
	if old != nil {
		old.current = false
	}
	l.current = true
	d.current = l
	d.switched.Publish(CurrentLayerChanged{Diagram: d, Old: old, New: l})
}

// ID implements Entity.
func (d *Diagram) ID() ID { return d.id }

// Diagram implements Entity; a diagram is its own root.
func (d *Diagram) Diagram() *Diagram { return d }

// Layers returns the ordered layers.
func (d *Diagram) Layers() *observable.Collection[*Layer] { return d.layers }

// CurrentLayer returns the layer new entities are added to.
func (d *Diagram) CurrentLayer() *Layer { return d.current }

// AddLayer appends l. The first layer added to an empty diagram becomes
// current.
func (d *Diagram) AddLayer(l *Layer) bool {
	return d.layers.Add(l)
}

// RemoveLayer removes l. Removing the current layer promotes the first
// remaining one; removing the only layer fails with ErrLastLayer.
func (d *Diagram) RemoveLayer(l *Layer) (bool, error) {
	if !d.layers.Contains(l) {
		return false, nil
	}
	if err := d.allowLayerRemoval(l); err != nil {
		return false, fmt.Errorf("remove layer %s: %w", l.id, err)
	}
	return d.layers.Remove(l), nil
}

// UseLayer makes l the current layer.
func (d *Diagram) UseLayer(l *Layer) error {
	if l == nil || !d.layers.Contains(l) {
		return ErrLayerNotFound
	}
	d.setCurrent(l)
	return nil
}

// Pan returns the screen offset of the model origin.
func (d *Diagram) Pan() Point { return d.pan }

// SetPan moves the viewport.
func (d *Diagram) SetPan(to Point) {
	old := d.pan
	if old == to {
		return
	}
	d.pan = to
	d.panned.Publish(PanChanged{Diagram: d, Old: old, New: to})
}

// Zoom returns the current zoom factor.
func (d *Diagram) Zoom() float64 { return d.zoom }

// SetZoom changes the zoom factor, clamped to the diagram's bounds.
func (d *Diagram) SetZoom(z float64) {
	z = d.clampZoom(z)
	old := d.zoom
	if old == z {
		return
	}
	d.zoom = z
	d.zoomed.Publish(ZoomChanged{Diagram: d, Old: old, New: z})
}

// ZoomBounds returns the allowed zoom range.
func (d *Diagram) ZoomBounds() (lo, hi float64) { return d.minZoom, d.maxZoom }

func (d *Diagram) clampZoom(z float64) float64 {
	return min(max(z, d.minZoom), d.maxZoom)
}

// Canvas returns the size the renderer reported.
func (d *Diagram) Canvas() Size { return d.canvas }

// SetCanvas records a new canvas size.
func (d *Diagram) SetCanvas(to Size) {
	old := d.canvas
	if old == to {
		return
	}
	d.canvas = to
	d.resized.Publish(CanvasResized{Diagram: d, Old: old, New: to})
}

// ToModel converts a screen point to model coordinates.
func (d *Diagram) ToModel(screen Point) Point {
	return screen.Sub(d.pan).Scale(1 / d.zoom)
}

// ToScreen converts a model point to screen coordinates.
func (d *Diagram) ToScreen(model Point) Point {
	return model.Scale(d.zoom).Add(d.pan)
}

// OnPan returns the PanChanged channel.
func (d *Diagram) OnPan() *observable.Channel[PanChanged] { return d.panned }

// OnZoom returns the ZoomChanged channel.
func (d *Diagram) OnZoom() *observable.Channel[ZoomChanged] { return d.zoomed }

// OnCanvasResize returns the CanvasResized channel.
func (d *Diagram) OnCanvasResize() *observable.Channel[CanvasResized] { return d.resized }

// OnCurrentLayerChange returns the CurrentLayerChanged channel.
func (d *Diagram) OnCurrentLayerChange() *observable.Channel[CurrentLayerChanged] {
	return d.switched
}

// AllGroups returns every group on every layer.
func (d *Diagram) AllGroups() []*Group {
	var out []*Group
	for _, l := range d.layers.Items() {
		out = append(out, l.AllGroups()...)
	}
	return out
}

// AllNodes returns every node on every layer.
func (d *Diagram) AllNodes() []*Node {
	var out []*Node
	for _, l := range d.layers.Items() {
		out = append(out, l.AllNodes()...)
	}
	return out
}

// AllPorts returns every port on every layer.
func (d *Diagram) AllPorts() []*Port {
	var out []*Port
	for _, l := range d.layers.Items() {
		out = append(out, l.AllPorts()...)
	}
	return out
}

// AllLinks returns every live link once, listed under its source port.
func (d *Diagram) AllLinks() []*Link {
	var out []*Link
	for _, l := range d.layers.Items() {
		out = append(out, l.AllLinks()...)
	}
	return out
}

// Selected returns every selected group, node, port and link.
func (d *Diagram) Selected() []Selectable {
	var out []Selectable
	for _, s := range d.selectables() {
		if s.Selected() {
			out = append(out, s)
		}
	}
	return out
}

func (d *Diagram) selectables() []Selectable {
	var out []Selectable
	for _, g := range d.AllGroups() {
		out = append(out, g)
	}
	for _, n := range d.AllNodes() {
		out = append(out, n)
	}
	for _, p := range d.AllPorts() {
		out = append(out, p)
	}
	for _, l := range d.AllLinks() {
		out = append(out, l)
	}
	return out
}

// SelectAll selects every group, node, port and link.
func (d *Diagram) SelectAll() {
	for _, s := range d.selectables() {
		s.SetSelected(true)
	}
}

// UnselectAll clears the selection.
func (d *Diagram) UnselectAll() {
	for _, s := range d.Selected() {
		s.SetSelected(false)
	}
}

// FindLayer returns the layer with the given id.
func (d *Diagram) FindLayer(id ID) (*Layer, bool) {
	return findByID(d.layers.Items(), id)
}

// FindGroup returns the live group with the given id.
func (d *Diagram) FindGroup(id ID) (*Group, bool) {
	return findByID(d.AllGroups(), id)
}

// FindNode returns the live node with the given id.
func (d *Diagram) FindNode(id ID) (*Node, bool) {
	return findByID(d.AllNodes(), id)
}

// FindPort returns the live port with the given id.
func (d *Diagram) FindPort(id ID) (*Port, bool) {
	return findByID(d.AllPorts(), id)
}

// FindLink returns the live link with the given id.
func (d *Diagram) FindLink(id ID) (*Link, bool) {
	return findByID(d.AllLinks(), id)
}

// Find looks an entity of any kind up by id.
func (d *Diagram) Find(id ID) (Entity, bool) {
	if id == d.id {
		return d, true
	}
	if l, ok := d.FindLayer(id); ok {
		return l, true
	}
	if g, ok := d.FindGroup(id); ok {
		return g, true
	}
	if n, ok := d.FindNode(id); ok {
		return n, true
	}
	if p, ok := d.FindPort(id); ok {
		return p, true
	}
	if l, ok := d.FindLink(id); ok {
		return l, true
	}
	return nil, false
}

func findByID[T Entity](items []T, id ID) (T, bool) {
	for _, it := range items {
		if it.ID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Channels implements Entity.
func (d *Diagram) Channels() []observable.Source {
	return sources(
		d.lifecycle.channels(),
		[]observable.Source{d.panned, d.zoomed, d.resized, d.switched},
		d.layers.Channels(),
	)
}

// Children implements Entity.
func (d *Diagram) Children() []Entity {
	out := make([]Entity, 0, d.layers.Len())
	for _, l := range d.layers.Items() {
		out = append(out, l)
	}
	return out
}

// Dispose disposes every layer and severs every subscription. The diagram
// cannot be used afterwards.
func (d *Diagram) Dispose() {
	if !d.begin() {
		return
	}
	for _, l := range d.layers.Items() {
		l.Dispose()
	}
	d.current = nil
	d.finish(nil, d.Channels())
}
