package behavior

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"

	"flowcanvas/internal/bus"
)

var (
	// ErrDuplicateBehavior is returned when a behaviour type is registered
	// twice.
	ErrDuplicateBehavior = errors.New("behavior already registered")
	// ErrDuplicateOptions is returned when an options type is registered
	// twice.
	ErrDuplicateOptions = errors.New("behavior options already registered")
)

// Engine is the registry of behaviours for one diagram.
type Engine struct {
	bus       *bus.Bus
	logger    *slog.Logger
	behaviors []Behavior
	byType    map[reflect.Type]Behavior
	options   map[reflect.Type]any
}

// NewEngine creates an empty engine on b.
func NewEngine(b *bus.Bus, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		bus:     b,
		logger:  logger,
		byType:  make(map[reflect.Type]Behavior),
		options: make(map[reflect.Type]any),
	}
}

// Bus returns the bus behaviours subscribe to.
func (e *Engine) Bus() *bus.Bus { return e.bus }

// Logger returns the logger behaviours should derive theirs from.
func (e *Engine) Logger() *slog.Logger { return e.logger }

// Register adds b to the engine.
func (e *Engine) Register(b Behavior) error {
	t := reflect.TypeOf(b)
	if _, ok := e.byType[t]; ok {
		return fmt.Errorf("register %s: %w", b.Name(), ErrDuplicateBehavior)
	}
	e.logger.Debug("Registering behavior", "name", b.Name(), "enabled", b.Toggle().Enabled())
	e.byType[t] = b
	e.behaviors = append(e.behaviors, b)
	return nil
}

// RegisterOptions stores opts so it can be looked up by type.
func (e *Engine) RegisterOptions(opts any) error {
	t := reflect.TypeOf(opts)
	if _, ok := e.options[t]; ok {
		return fmt.Errorf("register options %s: %w", t, ErrDuplicateOptions)
	}
	e.options[t] = opts
	return nil
}

// Behaviors returns the registered behaviours in registration order.
func (e *Engine) Behaviors() []Behavior {
	return slices.Clone(e.behaviors)
}

// ByName returns the behaviour with the given name.
func (e *Engine) ByName(name string) (Behavior, bool) {
	for _, b := range e.behaviors {
		if b.Name() == name {
			return b, true
		}
	}
	return nil, false
}

// Unregister disposes b and removes it. It reports whether b was
// registered.
func (e *Engine) Unregister(b Behavior) bool {
	t := reflect.TypeOf(b)
	if cur, ok := e.byType[t]; !ok || cur != b {
		return false
	}
	delete(e.byType, t)
	e.behaviors = slices.DeleteFunc(e.behaviors, func(x Behavior) bool { return x == b })
	b.Dispose()
	return true
}

// Dispose disposes every behaviour and forgets every options value.
func (e *Engine) Dispose() {
	for _, b := range e.behaviors {
		b.Dispose()
	}
	e.behaviors = nil
	clear(e.byType)
	clear(e.options)
}

// Get returns the registered behaviour of type T.
func Get[T Behavior](e *Engine) (T, bool) {
	b, ok := e.byType[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return b.(T), true
}

// OptionsOf returns the registered options value of type T.
func OptionsOf[T any](e *Engine) (T, bool) {
	o, ok := e.options[reflect.TypeFor[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return o.(T), true
}
