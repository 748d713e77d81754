package handler

import (
	"encoding/json"
	"errors"
	"testing"

	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

func TestInputMessageEvent(t *testing.T) {
	d := domain.NewDiagram(domain.DefaultOptions())
	t.Cleanup(d.Dispose)
	n := domain.NewNode(domain.Point{}, domain.Size{Width: 10, Height: 10})
	d.CurrentLayer().Nodes().Add(n)

	t.Run("pointer events resolve their target", func(t *testing.T) {
		var msg InputMessage
		raw := `{"type":"pointer_down","target":"` + string(n.ID()) + `","point":{"x":1,"y":2},"button":"right","shift":true}`
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			t.Fatal(err)
		}
		ev, err := msg.Event(d)
		if err != nil {
			t.Fatal(err)
		}
		down, ok := ev.(input.PointerDown)
		if !ok {
			t.Fatalf("expected PointerDown, got %T", ev)
		}
		if down.Target != n || down.Button != input.ButtonRight || !down.Shift {
			t.Errorf("unexpected event %+v", down)
		}
		if down.Point != (domain.Point{X: 1, Y: 2}) {
			t.Errorf("expected point (1,2), got %v", down.Point)
		}
	})

	t.Run("no target means the background", func(t *testing.T) {
		ev, err := InputMessage{Type: "double_click"}.Event(d)
		if err != nil {
			t.Fatal(err)
		}
		if dc := ev.(input.DoubleClick); !dc.OnBackground() {
			t.Error("expected a background event")
		}
	})

	t.Run("wheel and keys", func(t *testing.T) {
		ev, err := InputMessage{Type: "wheel", DeltaY: -3, Modifiers: input.Modifiers{Ctrl: true}}.Event(d)
		if err != nil {
			t.Fatal(err)
		}
		if w := ev.(input.Wheel); w.DeltaY != -3 || !w.Ctrl {
			t.Errorf("unexpected wheel %+v", w)
		}

		ev, err = InputMessage{Type: "key_up", Key: "a", Code: "KeyA"}.Event(d)
		if err != nil {
			t.Fatal(err)
		}
		if k := ev.(input.KeyUp); k.Code != "KeyA" {
			t.Errorf("unexpected key %+v", k)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			msg  InputMessage
			want error
		}{
			{"unknown type", InputMessage{Type: "hover"}, ErrUnknownInput},
			{"unknown button", InputMessage{Type: "click", Button: "fourth"}, ErrUnknownInput},
			{"unknown target", InputMessage{Type: "pointer_move", Target: "ghost"}, ErrUnknownTarget},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if _, err := tt.msg.Event(d); !errors.Is(err, tt.want) {
					t.Errorf("expected %v, got %v", tt.want, err)
				}
			})
		}
	})
}
