// Package input defines the pointer, wheel and keyboard events an input
// collaborator publishes on the bus.
//
// Target is the entity under the pointer, or nil when the event happened on
// the diagram background. Points are screen coordinates.
package input

import (
	"fmt"

	"flowcanvas/internal/domain"
)

// Button identifies a pointer button.
type Button int

const (
	ButtonLeft Button = iota
	ButtonMiddle
	ButtonRight
)

// String implements fmt.Stringer.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	default:
		return fmt.Sprintf("button(%d)", int(b))
	}
}

// ParseButton converts a name produced by String back to a Button.
func ParseButton(s string) (Button, error) {
	switch s {
	case "", "left":
		return ButtonLeft, nil
	case "middle":
		return ButtonMiddle, nil
	case "right":
		return ButtonRight, nil
	}
	return 0, fmt.Errorf("unknown pointer button %q", s)
}

// Modifiers are the keyboard modifiers held during an event.
type Modifiers struct {
	Ctrl  bool `json:"ctrl,omitempty"`
	Shift bool `json:"shift,omitempty"`
	Alt   bool `json:"alt,omitempty"`
	Meta  bool `json:"meta,omitempty"`
}

// Pointer is the state shared by every pointer event.
type Pointer struct {
	Target domain.Entity
	Point  domain.Point
	Button Button
	Modifiers
}

// OnBackground reports whether the pointer was over empty diagram space.
func (p Pointer) OnBackground() bool { return p.Target == nil }

// PointerDown is published when a button is pressed.
type PointerDown struct{ Pointer }

// PointerUp is published when a button is released.
type PointerUp struct{ Pointer }

// PointerMove is published while the pointer moves.
type PointerMove struct{ Pointer }

// PointerEnter is published when the pointer enters an entity.
type PointerEnter struct{ Pointer }

// PointerLeave is published when the pointer leaves an entity.
type PointerLeave struct{ Pointer }

// Click is a press and release on the same target without travel.
type Click struct{ Pointer }

// DoubleClick is two clicks on the same target in quick succession.
type DoubleClick struct{ Pointer }

// Wheel is a scroll step. Negative DeltaY scrolls up.
type Wheel struct {
	Point  domain.Point
	DeltaX float64
	DeltaY float64
	Modifiers
}

// KeyDown is published when a key is pressed. Key is the produced
// character, Code the physical key name such as "Delete".
type KeyDown struct {
	Key  string
	Code string
	Modifiers
}

// KeyUp is published when a key is released.
type KeyUp struct {
	Key  string
	Code string
	Modifiers
}
