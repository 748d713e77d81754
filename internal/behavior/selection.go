package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

// SelectionOptions configures the Selection behaviour.
type SelectionOptions struct {
	*Toggle
	// Multiselect lets ctrl-click toggle an entity without clearing the
	// rest of the selection.
	Multiselect bool
}

// DefaultSelectionOptions returns enabled selection with multiselect.
func DefaultSelectionOptions() *SelectionOptions {
	return &SelectionOptions{Toggle: NewToggle(true), Multiselect: true}
}

// Selection selects nodes, groups and links on left button presses and
// clears the selection on background presses.
type Selection struct {
	base
	opts *SelectionOptions
}

// NewSelection creates the behaviour and subscribes it if enabled.
func NewSelection(b *bus.Bus, opts *SelectionOptions, logger *slog.Logger) *Selection {
	if opts == nil {
		opts = DefaultSelectionOptions()
	}
	s := &Selection{base: newBase("selection", b, logger, opts.Toggle), opts: opts}
	s.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.SubscribeWhere(b, isLeftDown, s.onPointerDown),
		}
	})
	return s
}

func isLeftDown(e input.PointerDown) bool { return e.Button == input.ButtonLeft }

func (s *Selection) onPointerDown(e input.PointerDown) {
	additive := s.opts.Multiselect && e.Ctrl
	if e.OnBackground() {
		if !additive {
			s.diagram().UnselectAll()
		}
		return
	}

	target, ok := selectableTarget(e.Target)
	if !ok {
		return
	}
	if additive {
		target.SetSelected(!target.Selected())
		return
	}
	if target.Selected() {
		// Keep the selection so that a drag moves all of it.
		return
	}
	s.diagram().UnselectAll()
	target.SetSelected(true)
}

func selectableTarget(e domain.Entity) (domain.Selectable, bool) {
	switch v := e.(type) {
	case *domain.Node:
		return v, true
	case *domain.Group:
		return v, true
	case *domain.Port:
		return v, true
	case *domain.Link:
		return v, true
	}
	return nil, false
}
