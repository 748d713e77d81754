package behavior

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flowcanvas/internal/domain"
)

func TestMove(t *testing.T) {
	t.Run("drag moves the selected node", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)

		h.down(n, 5, 5)
		h.move(nil, 15, 25)
		h.up(nil, 15, 25)

		require.Equal(t, domain.Point{X: 10, Y: 20}, n.Position())
	})

	t.Run("drag distance is divided by zoom", func(t *testing.T) {
		h := newHarness(t)
		h.d.SetZoom(2)
		n := h.node(0, 0, 10, 10)

		h.down(n, 5, 5)
		h.move(nil, 25, 45)
		h.up(nil, 25, 45)

		require.Equal(t, domain.Point{X: 10, Y: 20}, n.Position())
	})

	t.Run("every selected node follows", func(t *testing.T) {
		h := newHarness(t)
		n1 := h.node(0, 0, 10, 10)
		n2 := h.node(50, 0, 10, 10)
		n1.SetSelected(true)
		n2.SetSelected(true)

		h.down(n1, 5, 5)
		h.move(nil, 10, 5)
		h.up(nil, 10, 5)

		require.Equal(t, domain.Point{X: 5, Y: 0}, n1.Position())
		require.Equal(t, domain.Point{X: 55, Y: 0}, n2.Position())
	})

	t.Run("locked nodes stay put", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)
		n.Locked = true

		h.down(n, 5, 5)
		h.move(nil, 15, 15)

		require.Equal(t, domain.Point{}, n.Position())
	})

	t.Run("moves stop after release", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)

		h.down(n, 0, 0)
		h.up(n, 0, 0)
		h.move(nil, 30, 30)

		require.Equal(t, domain.Point{}, n.Position())
	})

	t.Run("nodes inside a selected group move once", func(t *testing.T) {
		h := newHarness(t)
		g := domain.NewGroup(domain.Point{}, domain.Size{Width: 100, Height: 100})
		n := domain.NewNode(domain.Point{X: 10, Y: 10}, domain.Size{Width: 10, Height: 10})
		g.Nodes().Add(n)
		h.d.CurrentLayer().Groups().Add(g)
		g.SetSelected(true)
		n.SetSelected(true)

		h.down(g, 1, 1)
		h.move(nil, 11, 1)
		h.up(nil, 11, 1)

		require.Equal(t, domain.Point{X: 10}, g.Position())
		require.Equal(t, domain.Point{X: 20, Y: 10}, n.Position())
	})
}

func TestPan(t *testing.T) {
	t.Run("background drag pans and reports start and end", func(t *testing.T) {
		h := newHarness(t)
		started := record[PanStarted](h.bus)
		ended := record[PanEnded](h.bus)

		h.down(nil, 10, 10)
		h.move(nil, 30, 5)
		h.up(nil, 30, 5)

		require.Equal(t, domain.Point{X: 20, Y: -5}, h.d.Pan())
		require.Len(t, *started, 1)
		require.Len(t, *ended, 1)
		require.Equal(t, domain.Point{X: 20, Y: -5}, (*ended)[0].Pan)
	})

	t.Run("ctrl drag does not pan", func(t *testing.T) {
		h := newHarness(t)
		h.down(nil, 10, 10, ctrl)
		h.move(nil, 30, 30)
		require.Equal(t, domain.Point{}, h.d.Pan())
	})

	t.Run("press on a node does not pan", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)
		h.down(n, 1, 1)
		h.move(nil, 30, 30)
		require.Equal(t, domain.Point{}, h.d.Pan())
	})
}
