package domain

import (
	"errors"
	"testing"
)

func currentCount(d *Diagram) int {
	n := 0
	for _, l := range d.Layers().Items() {
		if l.IsCurrent() {
			n++
		}
	}
	return n
}

func TestDiagramLayers(t *testing.T) {
	t.Run("new diagram has one current layer", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		if d.Layers().Len() != 1 {
			t.Fatalf("expected 1 layer, got %d", d.Layers().Len())
		}
		if !d.CurrentLayer().IsCurrent() || d.CurrentLayer().Diagram() != d {
			t.Error("expected default layer to be current and attached")
		}
	})

	t.Run("removing the last layer fails", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		ok, err := d.RemoveLayer(d.CurrentLayer())
		if ok || !errors.Is(err, ErrLastLayer) {
			t.Errorf("expected ErrLastLayer, got %v, %v", ok, err)
		}
	})

	t.Run("raw removal of the last layer panics", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		defer func() {
			if r := recover(); r != ErrLastLayer {
				t.Errorf("expected ErrLastLayer panic, got %v", r)
			}
		}()
		d.Layers().Remove(d.CurrentLayer())
	})

	t.Run("removing the current layer promotes the first remaining", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		first := d.CurrentLayer()
		second := NewLayer("second")
		third := NewLayer("third")
		d.AddLayer(second)
		d.AddLayer(third)
		if err := d.UseLayer(third); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ok, err := d.RemoveLayer(third); !ok || err != nil {
			t.Fatalf("expected removal, got %v, %v", ok, err)
		}
		if d.CurrentLayer() != first {
			t.Errorf("expected first layer to become current, got %v", d.CurrentLayer().Name)
		}
		if currentCount(d) != 1 {
			t.Errorf("expected exactly one current layer, got %d", currentCount(d))
		}
	})

	t.Run("exactly one current layer after any switch", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		layers := []*Layer{NewLayer("a"), NewLayer("b"), NewLayer("c")}
		for _, l := range layers {
			d.AddLayer(l)
			if currentCount(d) != 1 {
				t.Fatalf("expected one current layer after add, got %d", currentCount(d))
			}
		}
		for _, l := range layers {
			if err := d.UseLayer(l); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if currentCount(d) != 1 || d.CurrentLayer() != l {
				t.Fatalf("expected %s to be the only current layer", l.Name)
			}
		}
		if _, err := d.RemoveLayer(layers[2]); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if currentCount(d) != 1 {
			t.Errorf("expected one current layer after remove, got %d", currentCount(d))
		}
	})

	t.Run("using a foreign layer fails", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		if err := d.UseLayer(NewLayer("x")); !errors.Is(err, ErrLayerNotFound) {
			t.Errorf("expected ErrLayerNotFound, got %v", err)
		}
	})

	t.Run("removing an absent layer is a no-op", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		ok, err := d.RemoveLayer(NewLayer("x"))
		if ok || err != nil {
			t.Errorf("expected false, nil; got %v, %v", ok, err)
		}
	})
}

func TestDiagramViewport(t *testing.T) {
	t.Run("zoom is clamped", func(t *testing.T) {
		d := NewDiagram(Options{MinZoom: 0.5, MaxZoom: 2, Zoom: 1})
		d.SetZoom(10)
		if d.Zoom() != 2 {
			t.Errorf("expected 2, got %v", d.Zoom())
		}
		d.SetZoom(0.01)
		if d.Zoom() != 0.5 {
			t.Errorf("expected 0.5, got %v", d.Zoom())
		}
	})

	t.Run("zoom change is published once", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		var got []ZoomChanged
		d.OnZoom().Subscribe(func(e ZoomChanged) { got = append(got, e) })
		d.SetZoom(2)
		d.SetZoom(2)
		if len(got) != 1 || got[0].Old != 1 || got[0].New != 2 {
			t.Errorf("expected one 1->2 change, got %v", got)
		}
	})

	t.Run("screen and model coordinates round trip", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		d.SetZoom(2)
		d.SetPan(Point{X: 10, Y: 20})
		m := Point{X: 5, Y: 7}
		if got := d.ToModel(d.ToScreen(m)); got != m {
			t.Errorf("expected %v, got %v", m, got)
		}
	})
}

func TestDiagramSelectionAndLookup(t *testing.T) {
	d, p1, p2 := newLinkedPorts(t)
	l := NewLink(p1)
	p1.OutgoingLinks().Add(l)
	l.SetTargetPort(p2)
	g := NewGroup(Point{}, Size{})
	d.CurrentLayer().Groups().Add(g)

	d.SelectAll()
	if got := len(d.Selected()); got != 6 {
		t.Errorf("expected 6 selected, got %d", got)
	}
	if !p1.Selected() || !p2.Selected() {
		t.Error("expected ports to be selected")
	}
	d.UnselectAll()
	if got := len(d.Selected()); got != 0 {
		t.Errorf("expected nothing selected, got %d", got)
	}

	p1.SetSelected(true)
	d.UnselectAll()
	if p1.Selected() {
		t.Error("expected UnselectAll to clear a selected port")
	}

	for _, e := range []Entity{d, d.CurrentLayer(), g, p1, l} {
		found, ok := d.Find(e.ID())
		if !ok || found != e {
			t.Errorf("expected to find %T %s", e, e.ID())
		}
	}
	if _, ok := d.Find(NewID()); ok {
		t.Error("expected unknown id to be missing")
	}
}

func TestDiagramDispose(t *testing.T) {
	d, p1, _ := newLinkedPorts(t)
	d.AddLayer(NewLayer("extra"))
	var disposed int
	d.OnDispose().Subscribe(func(Disposed) { disposed++ })

	d.Dispose()
	d.Dispose()

	if disposed != 1 {
		t.Errorf("expected one Disposed event, got %d", disposed)
	}
	if !p1.Disposed() {
		t.Error("expected ports to be disposed with the diagram")
	}
	if d.Layers().Len() != 0 {
		t.Errorf("expected no layers, got %d", d.Layers().Len())
	}
}
