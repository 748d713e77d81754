package behavior

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

func TestDeleteCascade(t *testing.T) {
	t.Run("removing a node disposes it and its links", func(t *testing.T) {
		f := newDrawFixture(t)
		l := domain.NewLink(f.p1)
		f.p1.OutgoingLinks().Add(l)
		l.SetTargetPort(f.p2)

		ok, err := domain.Remove(f.n2)
		require.NoError(t, err)
		require.True(t, ok)

		require.True(t, f.n2.Disposed())
		require.True(t, f.p2.Disposed())
		require.True(t, l.Disposed())
		require.Empty(t, f.d.AllLinks())
		require.Zero(t, f.p1.OutgoingLinks().Len())
	})

	t.Run("moving a node to a group does not dispose it", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)
		g := domain.NewGroup(domain.Point{}, domain.Size{})
		h.d.CurrentLayer().Groups().Add(g)

		g.Nodes().Add(n)

		require.False(t, n.Disposed())
		require.Contains(t, h.d.AllNodes(), n)
	})

	t.Run("removing a layer disposes its contents", func(t *testing.T) {
		h := newHarness(t)
		second := domain.NewLayer("second")
		h.d.AddLayer(second)
		n := domain.NewNode(domain.Point{}, domain.Size{})
		second.Nodes().Add(n)

		ok, err := h.d.RemoveLayer(second)
		require.NoError(t, err)
		require.True(t, ok)
		require.True(t, second.Disposed())
		require.True(t, n.Disposed())
	})

	t.Run("disabled cascade only detaches", func(t *testing.T) {
		h := newHarness(t)
		h.opts.DeleteCascade.SetEnabled(false)
		n := h.node(0, 0, 10, 10)

		_, _ = domain.Remove(n)

		require.False(t, n.Disposed())
		require.Nil(t, n.Diagram())
	})
}

func TestKeyboardDelete(t *testing.T) {
	t.Run("delete key removes the selection", func(t *testing.T) {
		f := newDrawFixture(t)
		l := domain.NewLink(f.p1)
		f.p1.OutgoingLinks().Add(l)
		l.SetTargetPort(f.p2)
		keep := f.node(600, 0, 10, 10)
		f.n1.SetSelected(true)
		l.SetSelected(true)

		f.bus.Publish(input.KeyDown{Code: "Delete"})

		require.True(t, f.n1.Disposed())
		require.True(t, l.Disposed())
		require.False(t, f.n2.Disposed())
		require.False(t, keep.Disposed())
		require.ElementsMatch(t, []*domain.Node{f.n2, keep}, f.d.AllNodes())
	})

	t.Run("selected ports stay on their node", func(t *testing.T) {
		f := newDrawFixture(t)
		f.p2.SetSelected(true)
		f.n1.SetSelected(true)

		f.bus.Publish(input.KeyDown{Code: "Delete"})

		require.True(t, f.n1.Disposed())
		require.False(t, f.p2.Disposed())
		require.True(t, f.n2.Ports().Contains(f.p2))
	})

	t.Run("other keys do nothing", func(t *testing.T) {
		h := newHarness(t)
		n := h.node(0, 0, 10, 10)
		n.SetSelected(true)

		h.bus.Publish(input.KeyDown{Code: "KeyA"})

		require.False(t, n.Disposed())
	})

	t.Run("configured code is honoured", func(t *testing.T) {
		h := newHarness(t)
		h.opts.KeyboardDelete.Code = "Backspace"
		n := h.node(0, 0, 10, 10)
		n.SetSelected(true)

		h.bus.Publish(input.KeyDown{Code: "Delete"})
		require.False(t, n.Disposed())
		h.bus.Publish(input.KeyDown{Code: "Backspace"})
		require.True(t, n.Disposed())
	})

	t.Run("selected group and its node are removed once", func(t *testing.T) {
		h := newHarness(t)
		g := domain.NewGroup(domain.Point{}, domain.Size{})
		n := domain.NewNode(domain.Point{}, domain.Size{})
		g.Nodes().Add(n)
		h.d.CurrentLayer().Groups().Add(g)
		g.SetSelected(true)
		n.SetSelected(true)

		h.bus.Publish(input.KeyDown{Code: "Delete"})

		require.True(t, g.Disposed())
		require.True(t, n.Disposed())
		require.Empty(t, h.d.AllGroups())
	})
}
