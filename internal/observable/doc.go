// Package observable provides the two notification primitives the diagram
// model is built from.
//
// Channel is a single-event-type publish/subscribe primitive. Delivery is
// synchronous, in subscription order, over a snapshot of the subscriber list
// taken when Publish starts.
//
// Collection is an ordered, duplicate-free list that publishes Added and
// Removed notifications on every mutation. Every parent to children
// relationship in the diagram model is a Collection.
//
// Nothing in this package recovers panics: a failing subscriber unwinds
// through the publisher.
package observable
