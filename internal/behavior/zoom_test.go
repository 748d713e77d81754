package behavior

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

func TestZoom(t *testing.T) {
	t.Run("wheel up zooms in by one step", func(t *testing.T) {
		h := newHarness(t)
		h.bus.Publish(input.Wheel{DeltaY: -100})
		require.InDelta(t, DefaultZoomStep, h.d.Zoom(), 1e-9)
	})

	t.Run("wheel down zooms out by one step", func(t *testing.T) {
		h := newHarness(t)
		h.bus.Publish(input.Wheel{DeltaY: 100})
		require.InDelta(t, 1/DefaultZoomStep, h.d.Zoom(), 1e-9)
	})

	t.Run("zero delta is a no-op", func(t *testing.T) {
		h := newHarness(t)
		changes := record[domain.ZoomChanged](h.bus)
		h.bus.Publish(input.Wheel{DeltaX: 5})
		require.Equal(t, 1.0, h.d.Zoom())
		require.Empty(t, *changes)
	})

	t.Run("zoom stays within bounds", func(t *testing.T) {
		h := newHarness(t)
		for range 200 {
			h.bus.Publish(input.Wheel{DeltaY: -1})
		}
		_, hi := h.d.ZoomBounds()
		require.Equal(t, hi, h.d.Zoom())
	})

	t.Run("zoom to pointer keeps the point under the pointer", func(t *testing.T) {
		h := newHarness(t)
		h.opts.Zoom.ToPointer = true
		pointer := domain.Point{X: 200, Y: 100}
		before := h.d.ToModel(pointer)

		h.bus.Publish(input.Wheel{Point: pointer, DeltaY: -1})

		after := h.d.ToModel(pointer)
		require.InDelta(t, before.X, after.X, 1e-9)
		require.InDelta(t, before.Y, after.Y, 1e-9)
	})
}
