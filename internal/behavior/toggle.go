package behavior

import "flowcanvas/internal/observable"

// Toggle is the enable flag of a behaviour.
type Toggle struct {
	enabled bool
	changed *observable.Channel[bool]
}

// NewToggle creates a toggle in the given state.
func NewToggle(enabled bool) *Toggle {
	return &Toggle{enabled: enabled, changed: observable.NewChannel[bool]()}
}

// Enabled reports the current state.
func (t *Toggle) Enabled() bool {
	return t != nil && t.enabled
}

// SetEnabled changes the state and notifies the owning behaviour.
func (t *Toggle) SetEnabled(v bool) {
	if t.enabled == v {
		return
	}
	t.enabled = v
	t.changed.Publish(v)
}

// OnChange returns the channel the new state is published on.
func (t *Toggle) OnChange() *observable.Channel[bool] { return t.changed }
