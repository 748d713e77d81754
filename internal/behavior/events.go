package behavior

import "flowcanvas/internal/domain"

// PanStarted is published when a background drag starts panning.
type PanStarted struct {
	Diagram *domain.Diagram
	Pan     domain.Point
}

// PanEnded is published when panning stops.
type PanEnded struct {
	Diagram *domain.Diagram
	Pan     domain.Point
}

// DrawStarted is published when a link starts following the pointer.
type DrawStarted struct {
	Link   *domain.Link
	Source *domain.Port
}

// DrawCreated is published when a drawn link was bound to its target.
type DrawCreated struct {
	Link *domain.Link
}

// DrawCancelled is published when a drawn link was discarded.
type DrawCancelled struct {
	Link *domain.Link
}
