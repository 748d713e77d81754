package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
	"flowcanvas/internal/observable"
)

// DeleteCascadeOptions configures the DeleteCascade behaviour.
type DeleteCascadeOptions struct {
	*Toggle
}

// DefaultDeleteCascadeOptions returns enabled cascade options.
func DefaultDeleteCascadeOptions() *DeleteCascadeOptions {
	return &DeleteCascadeOptions{Toggle: NewToggle(true)}
}

// DeleteCascade disposes entities removed from their owner, which in turn
// disposes what they own and unhooks their links. Internal removals, such as
// moving an entity to another container, are ignored.
type DeleteCascade struct {
	base
	opts *DeleteCascadeOptions
}

// NewDeleteCascade creates the behaviour and subscribes it if enabled.
func NewDeleteCascade(b *bus.Bus, opts *DeleteCascadeOptions, logger *slog.Logger) *DeleteCascade {
	if opts == nil {
		opts = DefaultDeleteCascadeOptions()
	}
	dc := &DeleteCascade{base: newBase("delete_cascade", b, logger, opts.Toggle), opts: opts}
	dc.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			subscribeRemoval[*domain.Layer](b, dc.dispose),
			subscribeRemoval[*domain.Group](b, dc.dispose),
			subscribeRemoval[*domain.Node](b, dc.dispose),
			subscribeRemoval[*domain.Port](b, dc.dispose),
			subscribeRemoval[*domain.Link](b, dc.dispose),
		}
	})
	return dc
}

func subscribeRemoval[T domain.Entity](b *bus.Bus, fn func(domain.Entity)) *bus.Subscription {
	return bus.SubscribeWhere(b,
		func(e observable.Removed[T]) bool { return e.Owning && !e.Internal },
		func(e observable.Removed[T]) { fn(e.Item) },
	)
}

func (dc *DeleteCascade) dispose(e domain.Entity) {
	if e.Disposed() {
		return
	}
	dc.logger.Debug("Disposing removed entity", "id", e.ID())
	e.Dispose()
}

// KeyboardDeleteOptions configures the KeyboardDelete behaviour.
type KeyboardDeleteOptions struct {
	*Toggle
	// Code is the key code that deletes the selection.
	Code string
}

// DefaultKeyboardDeleteOptions returns enabled options bound to "Delete".
func DefaultKeyboardDeleteOptions() *KeyboardDeleteOptions {
	return &KeyboardDeleteOptions{Toggle: NewToggle(true), Code: "Delete"}
}

// KeyboardDelete removes every selected node, group and link when the
// configured key is pressed.
type KeyboardDelete struct {
	base
	opts *KeyboardDeleteOptions
}

// NewKeyboardDelete creates the behaviour and subscribes it if enabled.
func NewKeyboardDelete(b *bus.Bus, opts *KeyboardDeleteOptions, logger *slog.Logger) *KeyboardDelete {
	if opts == nil {
		opts = DefaultKeyboardDeleteOptions()
	}
	kd := &KeyboardDelete{base: newBase("keyboard_delete", b, logger, opts.Toggle), opts: opts}
	kd.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.SubscribeWhere(b,
				func(e input.KeyDown) bool { return e.Code == kd.opts.Code },
				kd.onKeyDown,
			),
		}
	})
	return kd
}

func (kd *KeyboardDelete) onKeyDown(input.KeyDown) {
	var selected []domain.Selectable
	for _, s := range kd.diagram().Selected() {
		// Ports go with their node or group, never on their own.
		if _, ok := s.(*domain.Port); !ok {
			selected = append(selected, s)
		}
	}
	if len(selected) == 0 {
		return
	}
	kd.logger.Debug("Deleting selection", "count", len(selected))
	// Links go first; the rest may dispose them along the way.
	for _, s := range selected {
		if l, ok := s.(*domain.Link); ok && !l.Disposed() {
			_, _ = domain.Remove(l)
		}
	}
	for _, s := range selected {
		if _, ok := s.(*domain.Link); ok || s.Disposed() {
			continue
		}
		_, _ = domain.Remove(s)
	}
}
