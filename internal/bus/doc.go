// Package bus implements the diagram-wide event bus.
//
// A Bus is created for one Diagram. Besides plain publish/subscribe keyed by
// the event's concrete Go type, it keeps itself wired to every entity that
// is reachable from the diagram: each entity's channels are forwarded onto
// the bus, so a subscriber to domain.PositionChanged hears every node, group
// and port that moves without knowing about any of them.
//
// # Propagation
//
// Entities list their channels through domain.Entity.Channels and the
// entities they own through Children. The bus walks both when it is created
// and again whenever a collection reports an added entity. The new entity,
// and everything already nested in it, is wired before subscribers hear the
// Added notification. An owning Removed notification or a domain.Disposed
// event unwires the entity and its descendants after delivery.
//
// Registration is keyed by entity ID, so propagating the same entity twice
// is a no-op.
//
// # Delivery
//
// Delivery is synchronous and re-entrant. Handlers run in subscription
// order over a snapshot of the subscriber list; a panic in a handler reaches
// the publisher.
package bus
