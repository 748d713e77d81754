package behavior

import (
	"log/slog"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
)

// GroupMoveOptions configures the GroupMove behaviour.
type GroupMoveOptions struct {
	*Toggle
}

// DefaultGroupMoveOptions returns enabled group move options.
func DefaultGroupMoveOptions() *GroupMoveOptions {
	return &GroupMoveOptions{Toggle: NewToggle(true)}
}

// GroupMove carries a group's contents along when the group moves.
// Descendants are translated without notifications, so ports are not
// realigned against a half-moved parent, and then asked to redraw.
type GroupMove struct {
	base
	opts *GroupMoveOptions
}

// NewGroupMove creates the behaviour and subscribes it if enabled.
func NewGroupMove(b *bus.Bus, opts *GroupMoveOptions, logger *slog.Logger) *GroupMove {
	if opts == nil {
		opts = DefaultGroupMoveOptions()
	}
	gm := &GroupMove{base: newBase("group_move", b, logger, opts.Toggle), opts: opts}
	gm.start(func() []*bus.Subscription {
		return []*bus.Subscription{
			bus.SubscribeWhere(b, isGroupMove, gm.onGroupMoved),
		}
	})
	return gm
}

func isGroupMove(e domain.PositionChanged) bool {
	_, ok := e.Entity.(*domain.Group)
	return ok
}

func (gm *GroupMove) onGroupMoved(e domain.PositionChanged) {
	g := e.Entity.(*domain.Group)
	delta := e.New.Sub(e.Old)

	var moved []domain.Movable
	for _, n := range g.AllNodes() {
		moved = append(moved, n)
	}
	for _, child := range g.AllGroups() {
		moved = append(moved, child)
	}
	ports := g.AllPorts()
	for _, p := range ports {
		moved = append(moved, p)
	}

	for _, m := range moved {
		m.TranslateInternal(delta)
	}
	for _, m := range moved {
		m.RequestRedraw()
	}
	seen := make(map[domain.ID]bool)
	for _, p := range ports {
		for _, l := range p.Links() {
			if !seen[l.ID()] {
				seen[l.ID()] = true
				l.RequestRedraw()
			}
		}
	}
}
