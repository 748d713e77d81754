// Package service implements the diagram facade.
//
// DiagramService owns one Diagram together with the event bus wired to it
// and the behaviour engine running on that bus. It is the single entry point
// application code and the transport layer use to build and edit a diagram.
//
// # Operations
//
// Add* operations attach entities to the diagram and fail with a wrapped
// domain error when the target is not part of the diagram, the entity was
// disposed, or the operation would break an invariant (a group cycle, the
// last layer). Remove* operations report whether anything was removed; with
// the delete cascade behaviour enabled, removed entities are disposed.
//
// # Events
//
// Every bus event that matters to a renderer is translated into an Event
// and fanned out to channels registered with Subscribe. Slow subscribers
// miss events instead of blocking the diagram.
//
// # Concurrency
//
// DiagramService is not safe for concurrent use. Callers that share one
// between goroutines serialise access themselves.
package service
