package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func newAttachedNode(t *testing.T, d *Diagram, pos Point, size Size) *Node {
	t.Helper()
	n := NewNode(pos, size)
	d.CurrentLayer().Nodes().Add(n)
	return n
}

func TestPortAlignment(t *testing.T) {
	t.Run("right center port sits on the right edge", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		n := newAttachedNode(t, d, Point{}, Size{Width: 100, Height: 100})
		p := NewPort(AlignRight, JustifyCenter, Size{Width: 10, Height: 10})
		n.Ports().Add(p)

		want := Point{X: 95, Y: 45}
		if diff := cmp.Diff(want, p.Position()); diff != "" {
			t.Errorf("position mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("every side and justification", func(t *testing.T) {
		tests := []struct {
			name  string
			align Alignment
			just  Justification
			want  Point
		}{
			{"left start", AlignLeft, JustifyStart, Point{X: 5, Y: 20}},
			{"left end", AlignLeft, JustifyEnd, Point{X: 5, Y: 60}},
			{"top center", AlignTop, JustifyCenter, Point{X: 55, Y: 15}},
			{"bottom end", AlignBottom, JustifyEnd, Point{X: 100, Y: 65}},
			{"center", AlignCenter, JustifyStart, Point{X: 55, Y: 40}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				d := NewDiagram(DefaultOptions())
				n := newAttachedNode(t, d, Point{X: 10, Y: 20}, Size{Width: 100, Height: 50})
				p := NewPort(tt.align, tt.just, Size{Width: 10, Height: 10})
				n.Ports().Add(p)
				if p.Position() != tt.want {
					t.Errorf("expected %v, got %v", tt.want, p.Position())
				}
			})
		}
	})

	t.Run("offset is added after alignment", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		n := newAttachedNode(t, d, Point{}, Size{Width: 100, Height: 100})
		p := NewPort(AlignRight, JustifyCenter, Size{Width: 10, Height: 10})
		n.Ports().Add(p)
		p.SetOffset(Point{X: 1, Y: -1})

		if want := (Point{X: 96, Y: 44}); p.Position() != want {
			t.Errorf("expected %v, got %v", want, p.Position())
		}
	})

	t.Run("aligned port follows its node", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		n := newAttachedNode(t, d, Point{}, Size{Width: 100, Height: 100})
		p := NewPort(AlignRight, JustifyCenter, Size{Width: 10, Height: 10})
		n.Ports().Add(p)

		n.SetPosition(Point{X: 10, Y: 10})
		if want := (Point{X: 105, Y: 55}); p.Position() != want {
			t.Errorf("expected %v after move, got %v", want, p.Position())
		}
		n.SetSize(Size{Width: 200, Height: 100})
		if want := (Point{X: 205, Y: 55}); p.Position() != want {
			t.Errorf("expected %v after resize, got %v", want, p.Position())
		}
	})

	t.Run("custom port keeps its offset from the node", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		n := newAttachedNode(t, d, Point{}, Size{Width: 100, Height: 100})
		p := NewPort(AlignCustom, JustifyStart, Size{Width: 10, Height: 10})
		n.Ports().Add(p)
		p.SetPosition(Point{X: 30, Y: 40})

		n.SetPosition(Point{X: 5, Y: 5})
		if want := (Point{X: 35, Y: 45}); p.Position() != want {
			t.Errorf("expected %v, got %v", want, p.Position())
		}
	})
}

func TestPortParent(t *testing.T) {
	t.Run("adding to another node reparents the port", func(t *testing.T) {
		d := NewDiagram(DefaultOptions())
		n1 := newAttachedNode(t, d, Point{}, Size{Width: 10, Height: 10})
		n2 := newAttachedNode(t, d, Point{X: 50}, Size{Width: 10, Height: 10})
		p := NewPort(AlignLeft, JustifyStart, Size{})
		n1.Ports().Add(p)

		n2.Ports().Add(p)

		if p.Parent() != PortContainer(n2) {
			t.Errorf("expected parent n2, got %v", p.Parent())
		}
		if n1.Ports().Contains(p) {
			t.Error("expected n1 to no longer contain the port")
		}
		if !n2.Ports().Contains(p) {
			t.Error("expected n2 to contain the port")
		}
	})

	t.Run("SetParent adds the port to the container", func(t *testing.T) {
		g := NewGroup(Point{}, Size{Width: 10, Height: 10})
		p := NewPort(AlignTop, JustifyStart, Size{})
		p.SetParent(g)
		if !g.Ports().Contains(p) || p.Parent() != PortContainer(g) {
			t.Error("expected group to own the port")
		}
	})

	t.Run("SetParent with nil panics", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected a panic")
			}
		}()
		NewPort(AlignTop, JustifyStart, Size{}).SetParent(nil)
	})

	t.Run("removal clears the parent", func(t *testing.T) {
		n := NewNode(Point{}, Size{})
		p := NewPort(AlignTop, JustifyStart, Size{})
		n.Ports().Add(p)
		n.Ports().Remove(p)
		if p.Parent() != nil {
			t.Errorf("expected nil parent, got %v", p.Parent())
		}
	})

	t.Run("dispose removes the port from its parent", func(t *testing.T) {
		n := NewNode(Point{}, Size{})
		p := NewPort(AlignTop, JustifyStart, Size{})
		n.Ports().Add(p)
		p.Dispose()
		if n.Ports().Contains(p) {
			t.Error("expected disposed port to be gone")
		}
		if !p.Disposed() {
			t.Error("expected port to be disposed")
		}
	})

	t.Run("disposed port cannot be added", func(t *testing.T) {
		p := NewPort(AlignTop, JustifyStart, Size{})
		p.Dispose()
		defer func() {
			if r := recover(); r != ErrDisposed {
				t.Errorf("expected ErrDisposed panic, got %v", r)
			}
		}()
		NewNode(Point{}, Size{}).Ports().Add(p)
	})
}

func TestPortConnectivity(t *testing.T) {
	setup := func() (*Port, *Port) {
		n1 := NewNode(Point{}, Size{Width: 10, Height: 10})
		n2 := NewNode(Point{X: 50}, Size{Width: 10, Height: 10})
		p1 := NewPort(AlignRight, JustifyCenter, Size{Width: 2, Height: 2})
		p2 := NewPort(AlignLeft, JustifyCenter, Size{Width: 2, Height: 2})
		n1.Ports().Add(p1)
		n2.Ports().Add(p2)
		return p1, p2
	}

	t.Run("detached port cannot start a link", func(t *testing.T) {
		if NewPort(AlignLeft, JustifyStart, Size{}).CanCreateLink() {
			t.Error("expected false")
		}
	})

	t.Run("ports on different nodes connect", func(t *testing.T) {
		p1, p2 := setup()
		if !p1.CanCreateLink() || !p1.CanConnectTo(p2) {
			t.Error("expected p1 to connect to p2")
		}
	})

	t.Run("a port does not connect to itself or its siblings", func(t *testing.T) {
		p1, _ := setup()
		sibling := NewPort(AlignTop, JustifyStart, Size{})
		p1.Parent().Ports().Add(sibling)
		if p1.CanConnectTo(p1) || p1.CanConnectTo(sibling) {
			t.Error("expected false")
		}
	})

	t.Run("locked target is rejected", func(t *testing.T) {
		p1, p2 := setup()
		p2.Locked = true
		if p1.CanConnectTo(p2) {
			t.Error("expected false")
		}
	})

	t.Run("max links counts bound links", func(t *testing.T) {
		p1, p2 := setup()
		p2.MaxLinks = 1
		l := NewLink(p1)
		p1.OutgoingLinks().Add(l)
		l.SetTargetPort(p2)

		other := NewPort(AlignTop, JustifyStart, Size{})
		NewNode(Point{}, Size{}).Ports().Add(other)
		if other.CanConnectTo(p2) {
			t.Error("expected full port to refuse another link")
		}
	})

	t.Run("connect filter has the last word", func(t *testing.T) {
		p1, p2 := setup()
		p1.SetConnectFilter(func(from, to *Port) bool { return false })
		if p1.CanConnectTo(p2) {
			t.Error("expected filter to veto")
		}
	})
}

func TestAlignmentNames(t *testing.T) {
	for a := AlignLeft; a <= AlignCustom; a++ {
		got, err := ParseAlignment(a.String())
		if err != nil || got != a {
			t.Errorf("expected %v, got %v (%v)", a, got, err)
		}
	}
	for j := JustifyStart; j <= JustifyEnd; j++ {
		got, err := ParseJustification(j.String())
		if err != nil || got != j {
			t.Errorf("expected %v, got %v (%v)", j, got, err)
		}
	}
	if _, err := ParseAlignment("diagonal"); err == nil {
		t.Error("expected error for unknown alignment")
	}
}
