package behavior

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flowcanvas/internal/domain"
)

func TestZIndex(t *testing.T) {
	t.Run("group node port are stacked in order", func(t *testing.T) {
		h := newHarness(t)
		g := domain.NewGroup(domain.Point{}, domain.Size{Width: 100, Height: 100})
		h.d.CurrentLayer().Groups().Add(g)
		n := domain.NewNode(domain.Point{}, domain.Size{Width: 10, Height: 10})
		g.Nodes().Add(n)
		p := h.port(n, domain.AlignRight)

		require.Equal(t, 11, g.ZIndex())
		require.Equal(t, 22, n.ZIndex())
		require.Equal(t, 23, p.ZIndex())
		require.Less(t, g.ZIndex(), n.ZIndex())
		require.Less(t, n.ZIndex(), p.ZIndex())
	})

	t.Run("pre-populated children are assigned on add", func(t *testing.T) {
		h := newHarness(t)
		outer := domain.NewGroup(domain.Point{}, domain.Size{})
		inner := domain.NewGroup(domain.Point{}, domain.Size{})
		n := domain.NewNode(domain.Point{}, domain.Size{})
		p := domain.NewPort(domain.AlignLeft, domain.JustifyStart, domain.Size{})
		gp := domain.NewPort(domain.AlignTop, domain.JustifyStart, domain.Size{})
		n.Ports().Add(p)
		inner.Nodes().Add(n)
		outer.Groups().Add(inner)
		outer.Ports().Add(gp)

		h.d.CurrentLayer().Groups().Add(outer)

		require.Equal(t, 11, outer.ZIndex())
		require.Equal(t, 23, gp.ZIndex())
		require.Equal(t, 21, inner.ZIndex())
		require.Equal(t, 32, n.ZIndex())
		require.Equal(t, 33, p.ZIndex())
	})

	t.Run("nodes directly on a layer", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)
		p := h.port(n, domain.AlignLeft)
		require.Equal(t, 12, n.ZIndex())
		require.Equal(t, 13, p.ZIndex())
	})

	t.Run("explicit z-index is kept", func(t *testing.T) {
		h := newHarness(t)
		n := domain.NewNode(domain.Point{}, domain.Size{})
		n.SetZIndex(500)
		h.d.CurrentLayer().Nodes().Add(n)
		require.Equal(t, 500, n.ZIndex())
	})

	t.Run("layers are banded", func(t *testing.T) {
		h := newHarness(t)
		second := domain.NewLayer("second")
		h.d.AddLayer(second)
		require.Equal(t, 10000, second.ZIndex())

		n := domain.NewNode(domain.Point{}, domain.Size{})
		second.Nodes().Add(n)
		require.Equal(t, 10012, n.ZIndex())
	})

	t.Run("unbound links render above everything", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)
		p := h.port(n, domain.AlignLeft)
		l := domain.NewLink(p)
		p.OutgoingLinks().Add(l)
		require.Equal(t, UnboundLinkZ, l.ZIndex())
	})
}
