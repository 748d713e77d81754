// Package handler implements the HTTP surface of a diagram session.
//
// Every request goes through a Session, which serialises access to the
// single DiagramService behind it. The diagram model itself has no locks.
//
// # Handlers
//
// DiagramHandler serves the REST API: the whole diagram as a snapshot,
// import and export in every codec format, entity creation and removal,
// the viewport, the selection, behaviour toggles and named snapshots kept
// in a repository.
//
// Input reaches the behaviours either as single POST /api/input requests
// or as a stream of messages on the /ws websocket. Both use InputMessage.
// The websocket writes every service.Event back to the client.
//
// Middleware provides panic recovery, CORS and request logging.
//
// # Response Format
//
// Success responses return JSON with 200 or 201. Errors return JSON with
// an {error, details} body and a status derived from the domain error.
package handler
