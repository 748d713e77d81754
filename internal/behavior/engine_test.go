package behavior

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

func TestEngineRegistration(t *testing.T) {
	t.Run("rejects a second behaviour of the same type", func(t *testing.T) {
		h := newHarness(t)
		extra := NewZoom(h.bus, DefaultZoomOptions(), nil)
		defer extra.Dispose()

		err := h.engine.Register(extra)
		require.True(t, errors.Is(err, ErrDuplicateBehavior), "got %v", err)
	})

	t.Run("rejects a second options value of the same type", func(t *testing.T) {
		h := newHarness(t)
		err := h.engine.RegisterOptions(DefaultZoomOptions())
		require.ErrorIs(t, err, ErrDuplicateOptions)
	})

	t.Run("looks behaviours and options up by type and name", func(t *testing.T) {
		h := newHarness(t)

		z, ok := Get[*Zoom](h.engine)
		require.True(t, ok)
		require.Equal(t, "zoom", z.Name())

		opts, ok := OptionsOf[*ZoomOptions](h.engine)
		require.True(t, ok)
		require.Same(t, h.opts.Zoom, opts)

		byName, ok := h.engine.ByName("draw_link")
		require.True(t, ok)
		require.IsType(t, &DrawLink{}, byName)

		_, ok = h.engine.ByName("teleport")
		require.False(t, ok)
	})

	t.Run("unregister disposes the behaviour", func(t *testing.T) {
		h := newHarness(t)
		z, _ := Get[*Zoom](h.engine)

		require.True(t, h.engine.Unregister(z))
		require.False(t, h.engine.Unregister(z))

		h.bus.Publish(input.Wheel{DeltaY: -1})
		require.Equal(t, 1.0, h.d.Zoom())

		_, ok := Get[*Zoom](h.engine)
		require.False(t, ok)
	})
}

func TestToggle(t *testing.T) {
	t.Run("disabling drops subscriptions and enabling restores them", func(t *testing.T) {
		h := newHarness(t)
		z, _ := Get[*Zoom](h.engine)

		h.opts.Zoom.SetEnabled(false)
		require.False(t, z.Subscribed())
		h.bus.Publish(input.Wheel{DeltaY: -1})
		require.Equal(t, 1.0, h.d.Zoom())

		h.opts.Zoom.SetEnabled(true)
		require.True(t, z.Subscribed())
		h.bus.Publish(input.Wheel{DeltaY: -1})
		require.Greater(t, h.d.Zoom(), 1.0)
	})

	t.Run("behaviours are independent", func(t *testing.T) {
		h := newHarness(t)
		h.opts.Zoom.SetEnabled(false)

		n := h.node(0, 0, 10, 10)
		h.down(n, 1, 1)
		require.True(t, n.Selected(), "selection should still react")
	})

	t.Run("starting disabled subscribes nothing", func(t *testing.T) {
		d := domain.NewDiagram(domain.DefaultOptions())
		b := bus.New(d, nil)
		opts := DefaultPanOptions()
		opts.SetEnabled(false)
		p := NewPan(b, opts, nil)
		defer p.Dispose()

		require.False(t, p.Subscribed())
		b.Publish(input.PointerDown{})
		require.False(t, p.Panning())
	})

	t.Run("dispose ignores later toggles", func(t *testing.T) {
		h := newHarness(t)
		z, _ := Get[*Zoom](h.engine)
		z.Dispose()
		h.opts.Zoom.SetEnabled(false)
		h.opts.Zoom.SetEnabled(true)
		require.False(t, z.Subscribed())
	})
}
