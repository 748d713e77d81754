// Package domain defines the diagram model: a Diagram owns Layers, Layers own
// Groups and Nodes, Groups nest further Groups and Nodes, Nodes and Groups own
// Ports, and Ports anchor Links.
//
// # Entities
//
// Diagram is the root aggregate. It always has at least one Layer and exactly
// one current Layer, and it carries the pan offset, the zoom factor and the
// canvas size.
//
// Layer, Group and Node are containers. Group and Node also own Ports.
//
// Port is a connection point owned by exactly one Node or Group. Its
// position is derived from its parent's bounds, its Alignment and its
// Justification, unless the alignment is AlignCustom.
//
// Link connects a required source Port to an optional target Port. While
// the target is nil the link's free end sits at TargetPosition.
//
// # Notifications
//
// Every entity owns a fixed set of observable channels and collections and
// lists them through Entity.Channels. The event bus forwards everything
// published on them, so the model never needs to know who is listening.
//
// # Invariants
//
// The model keeps these relationships consistent on its own:
//
//   - a Port's Parent lists the Port in its Ports collection while attached
//   - a Link is in its source's OutgoingLinks and, when bound, in its
//     target's IncomingLinks
//   - removing a Link from its source's OutgoingLinks disposes it
//   - a Group is never its own ancestor
//   - a Diagram never loses its last Layer
//
// Policy such as selection, dragging or z-ordering lives in the behavior
// package, not here.
package domain
