package handler

import (
	"errors"
	"fmt"

	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

var (
	// ErrUnknownInput is returned for an InputMessage type no event maps to.
	ErrUnknownInput = errors.New("unknown input type")
	// ErrUnknownTarget is returned when the target ID is not in the diagram.
	ErrUnknownTarget = errors.New("unknown input target")
)

// InputMessage is the wire form of a pointer, wheel or keyboard event.
// Target is the ID of the entity under the pointer and is left empty for
// the diagram background.
type InputMessage struct {
	Type   string       `json:"type"`
	Target domain.ID    `json:"target,omitempty"`
	Point  domain.Point `json:"point"`
	Button string       `json:"button,omitempty"`
	DeltaX float64      `json:"delta_x,omitempty"`
	DeltaY float64      `json:"delta_y,omitempty"`
	Key    string       `json:"key,omitempty"`
	Code   string       `json:"code,omitempty"`
	input.Modifiers
}

// Event resolves the message against d and returns the input event to
// publish.
func (m InputMessage) Event(d *domain.Diagram) (any, error) {
	switch m.Type {
	case "wheel":
		return input.Wheel{Point: m.Point, DeltaX: m.DeltaX, DeltaY: m.DeltaY, Modifiers: m.Modifiers}, nil
	case "key_down":
		return input.KeyDown{Key: m.Key, Code: m.Code, Modifiers: m.Modifiers}, nil
	case "key_up":
		return input.KeyUp{Key: m.Key, Code: m.Code, Modifiers: m.Modifiers}, nil
	}

	build, ok := pointerEvents[m.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownInput, m.Type)
	}
	p, err := m.pointer(d)
	if err != nil {
		return nil, err
	}
	return build(p), nil
}

var pointerEvents = map[string]func(input.Pointer) any{
	"pointer_down":  func(p input.Pointer) any { return input.PointerDown{Pointer: p} },
	"pointer_up":    func(p input.Pointer) any { return input.PointerUp{Pointer: p} },
	"pointer_move":  func(p input.Pointer) any { return input.PointerMove{Pointer: p} },
	"pointer_enter": func(p input.Pointer) any { return input.PointerEnter{Pointer: p} },
	"pointer_leave": func(p input.Pointer) any { return input.PointerLeave{Pointer: p} },
	"click":         func(p input.Pointer) any { return input.Click{Pointer: p} },
	"double_click":  func(p input.Pointer) any { return input.DoubleClick{Pointer: p} },
}

func (m InputMessage) pointer(d *domain.Diagram) (input.Pointer, error) {
	button, err := input.ParseButton(m.Button)
	if err != nil {
		return input.Pointer{}, fmt.Errorf("%w: %v", ErrUnknownInput, err)
	}
	p := input.Pointer{Point: m.Point, Button: button, Modifiers: m.Modifiers}
	if !m.Target.IsZero() {
		e, ok := d.Find(m.Target)
		if !ok {
			return input.Pointer{}, fmt.Errorf("%w: %s", ErrUnknownTarget, m.Target)
		}
		p.Target = e
	}
	return p, nil
}
