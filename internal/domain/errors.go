package domain

import "errors"

var (
	// ErrLastLayer is returned when removing the only remaining layer.
	ErrLastLayer = errors.New("cannot remove the last layer of a diagram")
	// ErrGroupCycle is returned when a group would become its own ancestor.
	ErrGroupCycle = errors.New("group cannot contain itself")
	// ErrNilReference is raised when a required reference is nil.
	ErrNilReference = errors.New("required reference is nil")
	// ErrDisposed is returned when attaching an entity that was disposed.
	ErrDisposed = errors.New("entity is disposed")
	// ErrNotInDiagram is returned when an entity is not reachable from the diagram.
	ErrNotInDiagram = errors.New("entity is not part of the diagram")
	// ErrDuplicateID is returned when an entity reuses the id of another
	// entity in the same diagram.
	ErrDuplicateID = errors.New("id already in use")
	// ErrLayerNotFound is returned when switching to a layer the diagram does not own.
	ErrLayerNotFound = errors.New("layer not found")
)
