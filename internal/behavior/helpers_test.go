package behavior

import (
	"testing"

	"github.com/stretchr/testify/require"

	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/input"
)

type harness struct {
	d      *domain.Diagram
	bus    *bus.Bus
	engine *Engine
	opts   Options
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, DefaultOptions())
}

func newHarnessWith(t *testing.T, opts Options) *harness {
	t.Helper()
	d := domain.NewDiagram(domain.DefaultOptions())
	b := bus.New(d, nil)
	e := NewEngine(b, nil)
	require.NoError(t, RegisterBuiltins(e, opts))
	t.Cleanup(func() {
		e.Dispose()
		b.Close()
	})
	return &harness{d: d, bus: b, engine: e, opts: opts}
}

func (h *harness) node(x, y, w, ht float64) *domain.Node {
	n := domain.NewNode(domain.Point{X: x, Y: y}, domain.Size{Width: w, Height: ht})
	h.d.CurrentLayer().Nodes().Add(n)
	return n
}

func (h *harness) port(c domain.PortContainer, align domain.Alignment) *domain.Port {
	p := domain.NewPort(align, domain.JustifyCenter, domain.Size{Width: 10, Height: 10})
	c.Ports().Add(p)
	return p
}

func (h *harness) down(target domain.Entity, x, y float64, mods ...func(*input.Modifiers)) {
	ev := input.PointerDown{Pointer: input.Pointer{Target: target, Point: domain.Point{X: x, Y: y}}}
	for _, m := range mods {
		m(&ev.Modifiers)
	}
	h.bus.Publish(ev)
}

func (h *harness) move(target domain.Entity, x, y float64) {
	h.bus.Publish(input.PointerMove{Pointer: input.Pointer{Target: target, Point: domain.Point{X: x, Y: y}}})
}

func (h *harness) up(target domain.Entity, x, y float64) {
	h.bus.Publish(input.PointerUp{Pointer: input.Pointer{Target: target, Point: domain.Point{X: x, Y: y}}})
}

func ctrl(m *input.Modifiers) { m.Ctrl = true }

// record collects every event of type E published on b.
func record[E any](b *bus.Bus) *[]E {
	var got []E
	bus.Subscribe(b, func(e E) { got = append(got, e) })
	return &got
}
