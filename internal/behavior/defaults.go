package behavior

import "fmt"

// Options groups the options of every built-in behaviour.
type Options struct {
	Events         *EventsOptions
	Selection      *SelectionOptions
	Move           *MoveOptions
	Pan            *PanOptions
	Zoom           *ZoomOptions
	DrawLink       *DrawLinkOptions
	ZIndex         *ZIndexOptions
	GroupMove      *GroupMoveOptions
	DeleteCascade  *DeleteCascadeOptions
	KeyboardDelete *KeyboardDeleteOptions
}

// DefaultOptions returns every built-in behaviour enabled with its default
// settings.
func DefaultOptions() Options {
	return Options{
		Events:         DefaultEventsOptions(),
		Selection:      DefaultSelectionOptions(),
		Move:           DefaultMoveOptions(),
		Pan:            DefaultPanOptions(),
		Zoom:           DefaultZoomOptions(),
		DrawLink:       DefaultDrawLinkOptions(),
		ZIndex:         DefaultZIndexOptions(),
		GroupMove:      DefaultGroupMoveOptions(),
		DeleteCascade:  DefaultDeleteCascadeOptions(),
		KeyboardDelete: DefaultKeyboardDeleteOptions(),
	}
}

// RegisterBuiltins creates every built-in behaviour on e's bus and registers
// it together with its options. Nil options fall back to the defaults.
// Order matters: selection reacts to a press before move looks at it.
func RegisterBuiltins(e *Engine, o Options) error {
	def := DefaultOptions()
	if o.Events == nil {
		o.Events = def.Events
	}
	if o.Selection == nil {
		o.Selection = def.Selection
	}
	if o.Move == nil {
		o.Move = def.Move
	}
	if o.Pan == nil {
		o.Pan = def.Pan
	}
	if o.Zoom == nil {
		o.Zoom = def.Zoom
	}
	if o.DrawLink == nil {
		o.DrawLink = def.DrawLink
	}
	if o.ZIndex == nil {
		o.ZIndex = def.ZIndex
	}
	if o.GroupMove == nil {
		o.GroupMove = def.GroupMove
	}
	if o.DeleteCascade == nil {
		o.DeleteCascade = def.DeleteCascade
	}
	if o.KeyboardDelete == nil {
		o.KeyboardDelete = def.KeyboardDelete
	}

	b, log := e.Bus(), e.Logger()
	entries := []struct {
		opts any
		make func() Behavior
	}{
		{o.Events, func() Behavior { return NewEvents(b, o.Events, log) }},
		{o.Selection, func() Behavior { return NewSelection(b, o.Selection, log) }},
		{o.Move, func() Behavior { return NewMove(b, o.Move, log) }},
		{o.Pan, func() Behavior { return NewPan(b, o.Pan, log) }},
		{o.Zoom, func() Behavior { return NewZoom(b, o.Zoom, log) }},
		{o.DrawLink, func() Behavior { return NewDrawLink(b, o.DrawLink, log) }},
		{o.ZIndex, func() Behavior { return NewZIndex(b, o.ZIndex, log) }},
		{o.GroupMove, func() Behavior { return NewGroupMove(b, o.GroupMove, log) }},
		{o.DeleteCascade, func() Behavior { return NewDeleteCascade(b, o.DeleteCascade, log) }},
		{o.KeyboardDelete, func() Behavior { return NewKeyboardDelete(b, o.KeyboardDelete, log) }},
	}
	for _, entry := range entries {
		if err := e.RegisterOptions(entry.opts); err != nil {
			return err
		}
		bh := entry.make()
		if err := e.Register(bh); err != nil {
			bh.Dispose()
			return fmt.Errorf("register builtins: %w", err)
		}
	}
	return nil
}
