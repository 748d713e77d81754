// Package behavior implements the behaviour engine and the built-in
// behaviours that turn model changes and raw input into coordinated
// mutations.
//
// # Behaviours
//
// A behaviour is a set of bus subscriptions guarded by a Toggle that lives
// in the behaviour's options struct. While the toggle is on the behaviour is
// subscribed; switching it off drops every subscription the behaviour holds
// and switching it back on recreates them. Behaviours never reach for global
// state: each one receives the bus (and through it the diagram) when it is
// constructed.
//
// # Engine
//
// The Engine is the registry of behaviours for one diagram. It refuses a
// second behaviour of the same type and a second options value of the same
// type, and looks both up by type. Disposing the engine disposes every
// behaviour it holds.
//
// # Built-ins
//
//   - Events: click and double-click synthesis
//   - Selection: exclusive or ctrl-toggled selection
//   - Move: dragging selected nodes and groups
//   - Pan, Zoom: viewport interaction
//   - DrawLink: the link drawing state machine
//   - ZIndex: stacking order assignment
//   - GroupMove: rigid movement of group contents
//   - DeleteCascade: disposal of removed entities
//   - KeyboardDelete: removal of the selection with a key
package behavior
