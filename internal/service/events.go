package service

import (
	"slices"
	"sync"

	"flowcanvas/internal/behavior"
	"flowcanvas/internal/bus"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/observable"
)

// EventType defines the type of event
type EventType string

const (
	EventEntityAdded       EventType = "entity_added"
	EventEntityRemoved     EventType = "entity_removed"
	EventEntityDisposed    EventType = "entity_disposed"
	EventRedraw            EventType = "redraw"
	EventMoved             EventType = "moved"
	EventResized           EventType = "resized"
	EventSelectionChanged  EventType = "selection_changed"
	EventVisibilityChanged EventType = "visibility_changed"
	EventZIndexChanged     EventType = "z_index_changed"
	EventLinkRetargeted    EventType = "link_retargeted"
	EventLinkDragged       EventType = "link_dragged"
	EventViewportChanged   EventType = "viewport_changed"
	EventLayerChanged      EventType = "layer_changed"
	EventDrawStarted       EventType = "draw_started"
	EventDrawCreated       EventType = "draw_created"
	EventDrawCancelled     EventType = "draw_cancelled"
)

// Event is a diagram change as a renderer needs to hear about it.
type Event struct {
	Type     EventType `json:"type"`
	EntityID domain.ID `json:"entity_id,omitempty"`
	Kind     string    `json:"kind,omitempty"`
	Payload  any       `json:"payload,omitempty"`
}

// KindOf names the entity type the way events and snapshots do.
func KindOf(e domain.Entity) string {
	switch e.(type) {
	case *domain.Diagram:
		return "diagram"
	case *domain.Layer:
		return "layer"
	case *domain.Group:
		return "group"
	case *domain.Node:
		return "node"
	case *domain.Port:
		return "port"
	case *domain.Link:
		return "link"
	}
	return ""
}

func entityEvent(t EventType, e domain.Entity, payload any) Event {
	return Event{Type: t, EntityID: e.ID(), Kind: KindOf(e), Payload: payload}
}

type addedNotification interface {
	AddedItem() any
}

type removedNotification interface {
	RemovedItem() any
	IsOwning() bool
}

// Translate maps a bus event to an Event. Events a renderer does not care
// about, such as raw input, report false.
func Translate(ev any) (Event, bool) {
	switch v := ev.(type) {
	case domain.PositionChanged:
		return entityEvent(EventMoved, v.Entity, v.New), true
	case domain.SizeChanged:
		return entityEvent(EventResized, v.Entity, v.New), true
	case domain.SelectionChanged:
		return entityEvent(EventSelectionChanged, v.Entity, v.Selected), true
	case domain.VisibilityChanged:
		return entityEvent(EventVisibilityChanged, v.Entity, v.Visible), true
	case domain.ZIndexChanged:
		return entityEvent(EventZIndexChanged, v.Entity, v.New), true
	case domain.Redraw:
		return entityEvent(EventRedraw, v.Entity, nil), true
	case domain.Disposed:
		return entityEvent(EventEntityDisposed, v.Entity, nil), true
	case domain.TargetPortChanged:
		var target domain.ID
		if v.New != nil {
			target = v.New.ID()
		}
		return entityEvent(EventLinkRetargeted, v.Link, target), true
	case domain.TargetPositionChanged:
		return entityEvent(EventLinkDragged, v.Link, v.New), true
	case domain.PanChanged:
		return Event{Type: EventViewportChanged, EntityID: v.Diagram.ID(), Kind: "diagram",
			Payload: map[string]any{"pan": v.New, "zoom": v.Diagram.Zoom()}}, true
	case domain.ZoomChanged:
		return Event{Type: EventViewportChanged, EntityID: v.Diagram.ID(), Kind: "diagram",
			Payload: map[string]any{"pan": v.Diagram.Pan(), "zoom": v.New}}, true
	case domain.CurrentLayerChanged:
		return entityEvent(EventLayerChanged, v.New, nil), true
	case behavior.DrawStarted:
		return entityEvent(EventDrawStarted, v.Link, nil), true
	case behavior.DrawCreated:
		return entityEvent(EventDrawCreated, v.Link, nil), true
	case behavior.DrawCancelled:
		return entityEvent(EventDrawCancelled, v.Link, nil), true
	case addedNotification:
		if e, ok := v.AddedItem().(domain.Entity); ok {
			return entityEvent(EventEntityAdded, e, ownerID(ev)), true
		}
	case removedNotification:
		if e, ok := v.RemovedItem().(domain.Entity); ok && v.IsOwning() {
			return entityEvent(EventEntityRemoved, e, ownerID(ev)), true
		}
	}
	return Event{}, false
}

func ownerID(ev any) domain.ID {
	var owner any
	switch v := ev.(type) {
	case observable.Added[*domain.Layer]:
		owner = v.Owner
	case observable.Added[*domain.Group]:
		owner = v.Owner
	case observable.Added[*domain.Node]:
		owner = v.Owner
	case observable.Added[*domain.Port]:
		owner = v.Owner
	case observable.Added[*domain.Link]:
		owner = v.Owner
	case observable.Removed[*domain.Layer]:
		owner = v.Owner
	case observable.Removed[*domain.Group]:
		owner = v.Owner
	case observable.Removed[*domain.Node]:
		owner = v.Owner
	case observable.Removed[*domain.Port]:
		owner = v.Owner
	case observable.Removed[*domain.Link]:
		owner = v.Owner
	}
	if e, ok := owner.(domain.Entity); ok {
		return e.ID()
	}
	return ""
}

// eventStream fans translated bus events out to channels.
type eventStream struct {
	mu          sync.Mutex
	subscribers []chan<- Event
	sub         *bus.Subscription
}

func newEventStream(b *bus.Bus) *eventStream {
	es := &eventStream{}
	es.sub = b.SubscribeAny(es.publish)
	return es
}

func (es *eventStream) subscribe(ch chan<- Event) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.subscribers = append(es.subscribers, ch)
}

func (es *eventStream) unsubscribe(ch chan<- Event) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.subscribers = slices.DeleteFunc(es.subscribers, func(c chan<- Event) bool { return c == ch })
}

func (es *eventStream) publish(ev any) {
	event, ok := Translate(ev)
	if !ok {
		return
	}
	es.mu.Lock()
	defer es.mu.Unlock()
	for _, ch := range es.subscribers {
		select {
		case ch <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}

func (es *eventStream) close() {
	es.sub.Unsubscribe()
	es.mu.Lock()
	es.subscribers = nil
	es.mu.Unlock()
}
