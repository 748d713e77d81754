package config

import (
	"flowcanvas/internal/behavior"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/service"
)

// BehaviorInfo describes one behaviour block for display
type BehaviorInfo struct {
	Name    string
	Enabled bool
}

// List returns every behaviour block in registration order
func (b BehaviorsConfig) List() []BehaviorInfo {
	return []BehaviorInfo{
		{"events", b.Events.Enabled},
		{"selection", b.Selection.Enabled},
		{"move", b.Move.Enabled},
		{"pan", b.Pan.Enabled},
		{"zoom", b.Zoom.Enabled},
		{"draw_link", b.DrawLink.Enabled},
		{"z_index", b.ZIndex.Enabled},
		{"group_move", b.GroupMove.Enabled},
		{"delete_cascade", b.DeleteCascade.Enabled},
		{"keyboard_delete", b.KeyboardDelete.Enabled},
	}
}

// Enabled returns the enabled behaviour blocks
func (b BehaviorsConfig) Enabled() []BehaviorInfo {
	var enabled []BehaviorInfo
	for _, info := range b.List() {
		if info.Enabled {
			enabled = append(enabled, info)
		}
	}
	return enabled
}

// Options converts the blocks to behaviour options. Disabled behaviours are
// still registered so they can be switched on at runtime.
func (b BehaviorsConfig) Options() behavior.Options {
	o := behavior.DefaultOptions()

	o.Events.SetEnabled(b.Events.Enabled)
	o.Events.Tolerance = b.Events.Tolerance
	o.Events.DoubleClickWindow = b.Events.DoubleClickWindow.Duration()

	o.Selection.SetEnabled(b.Selection.Enabled)
	o.Selection.Multiselect = b.Selection.Multiselect

	o.Move.SetEnabled(b.Move.Enabled)
	o.Pan.SetEnabled(b.Pan.Enabled)

	o.Zoom.SetEnabled(b.Zoom.Enabled)
	if b.Zoom.Step != 0 {
		o.Zoom.Step = b.Zoom.Step
	}
	o.Zoom.ToPointer = b.Zoom.ToPointer

	o.DrawLink.SetEnabled(b.DrawLink.Enabled)

	o.ZIndex.SetEnabled(b.ZIndex.Enabled)
	o.ZIndex.Multiplier = b.ZIndex.Multiplier
	o.ZIndex.GroupOffset = b.ZIndex.GroupOffset
	o.ZIndex.NodeOffset = b.ZIndex.NodeOffset
	o.ZIndex.PortOffset = b.ZIndex.PortOffset
	o.ZIndex.LayerBand = b.ZIndex.LayerBand

	o.GroupMove.SetEnabled(b.GroupMove.Enabled)
	o.DeleteCascade.SetEnabled(b.DeleteCascade.Enabled)

	o.KeyboardDelete.SetEnabled(b.KeyboardDelete.Enabled)
	o.KeyboardDelete.Code = b.KeyboardDelete.Code

	return o
}

// DiagramOptions converts the diagram block to viewport options
func (d DiagramConfig) DiagramOptions() domain.Options {
	return domain.Options{
		MinZoom: d.MinZoom,
		MaxZoom: d.MaxZoom,
		Zoom:    d.Zoom,
		Canvas:  domain.Size{Width: d.CanvasWidth, Height: d.CanvasHeight},
	}
}

// ServiceOptions returns the options a DiagramService is built with
func (c *Config) ServiceOptions() service.Options {
	return service.Options{
		Diagram:   c.Diagram.DiagramOptions(),
		Behaviors: c.Behaviors.Options(),
	}
}
