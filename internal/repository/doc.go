// Package repository defines the data access interfaces for flowcanvas.
//
// Diagrams are persisted as named snapshots. The actual implementation is in
// the sqlite subpackage.
//
// # Snapshot Store
//
// A snapshot is stored together with a BLAKE2b digest of its encoding.
// Saving content identical to what is already stored under the same name
// changes nothing and reports SaveUnchanged, so autosave loops can call
// SaveSnapshot freely.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
