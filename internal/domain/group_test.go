package domain

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupNesting(t *testing.T) {
	t.Run("group cannot contain itself", func(t *testing.T) {
		g := NewGroup(Point{}, Size{})
		if err := g.AddGroup(g); !errors.Is(err, ErrGroupCycle) {
			t.Errorf("expected ErrGroupCycle, got %v", err)
		}
	})

	t.Run("transitive cycles are rejected", func(t *testing.T) {
		a := NewGroup(Point{}, Size{})
		b := NewGroup(Point{}, Size{})
		c := NewGroup(Point{}, Size{})
		if err := a.AddGroup(b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := b.AddGroup(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := c.AddGroup(a); !errors.Is(err, ErrGroupCycle) {
			t.Errorf("expected ErrGroupCycle, got %v", err)
		}
		if c.Groups().Len() != 0 {
			t.Error("expected rejected group to stay out")
		}
	})

	t.Run("raw collection add panics on a cycle", func(t *testing.T) {
		a := NewGroup(Point{}, Size{})
		b := NewGroup(Point{}, Size{})
		a.Groups().Add(b)
		defer func() {
			if r := recover(); r != ErrGroupCycle {
				t.Errorf("expected ErrGroupCycle panic, got %v", r)
			}
		}()
		b.Groups().Add(a)
	})

	t.Run("moving a node between groups keeps one container", func(t *testing.T) {
		a := NewGroup(Point{}, Size{})
		b := NewGroup(Point{}, Size{})
		n := NewNode(Point{}, Size{})
		a.Nodes().Add(n)
		b.Nodes().Add(n)
		if a.Nodes().Contains(n) {
			t.Error("expected a to lose the node")
		}
		if n.Container() != Container(b) {
			t.Errorf("expected container b, got %v", n.Container())
		}
	})
}

func TestGroupAggregates(t *testing.T) {
	outer := NewGroup(Point{}, Size{Width: 100, Height: 100})
	inner := NewGroup(Point{}, Size{Width: 50, Height: 50})
	n1 := NewNode(Point{}, Size{Width: 10, Height: 10})
	n2 := NewNode(Point{}, Size{Width: 10, Height: 10})
	gp := NewPort(AlignTop, JustifyStart, Size{})
	np := NewPort(AlignLeft, JustifyStart, Size{})

	outer.Ports().Add(gp)
	outer.Nodes().Add(n1)
	outer.Groups().Add(inner)
	inner.Nodes().Add(n2)
	n2.Ports().Add(np)

	ids := func(es []Entity) []ID {
		var out []ID
		for _, e := range es {
			out = append(out, e.ID())
		}
		return out
	}

	t.Run("AllNodes recurses", func(t *testing.T) {
		var got []Entity
		for _, n := range outer.AllNodes() {
			got = append(got, n)
		}
		if diff := cmp.Diff([]ID{n1.ID(), n2.ID()}, ids(got)); diff != "" {
			t.Errorf("nodes mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("AllGroups recurses", func(t *testing.T) {
		if got := outer.AllGroups(); len(got) != 1 || got[0] != inner {
			t.Errorf("expected [inner], got %v", got)
		}
	})

	t.Run("AllPorts includes node ports", func(t *testing.T) {
		var got []Entity
		for _, p := range outer.AllPorts() {
			got = append(got, p)
		}
		if diff := cmp.Diff([]ID{gp.ID(), np.ID()}, ids(got)); diff != "" {
			t.Errorf("ports mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ancestry", func(t *testing.T) {
		if !outer.IsAncestorOf(n2) {
			t.Error("expected outer to be an ancestor of n2")
		}
		if inner.IsAncestorOf(n1) {
			t.Error("expected inner not to be an ancestor of n1")
		}
	})
}

func TestGroupFit(t *testing.T) {
	g := NewGroup(Point{}, Size{})
	g.Padding = UniformPadding(10)
	g.Nodes().Add(NewNode(Point{X: 20, Y: 30}, Size{Width: 10, Height: 10}))
	g.Nodes().Add(NewNode(Point{X: 60, Y: 40}, Size{Width: 20, Height: 20}))

	g.Fit()

	if want := (Rect{X: 10, Y: 20, Width: 80, Height: 50}); g.Bounds() != want {
		t.Errorf("expected %v, got %v", want, g.Bounds())
	}
}

func TestGroupDispose(t *testing.T) {
	d := NewDiagram(DefaultOptions())
	g := NewGroup(Point{}, Size{})
	child := NewGroup(Point{}, Size{})
	n := NewNode(Point{}, Size{})
	p := NewPort(AlignLeft, JustifyStart, Size{})
	d.CurrentLayer().Groups().Add(g)
	g.Groups().Add(child)
	child.Nodes().Add(n)
	n.Ports().Add(p)

	g.Dispose()

	for _, e := range []Entity{g, child, n, p} {
		if !e.Disposed() {
			t.Errorf("expected %T to be disposed", e)
		}
	}
	if d.CurrentLayer().Groups().Len() != 0 {
		t.Error("expected the layer to lose the group")
	}
	if len(d.AllPorts()) != 0 {
		t.Errorf("expected no ports left, got %d", len(d.AllPorts()))
	}
}
