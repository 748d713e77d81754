package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/service"
)

var errRefused = errors.New("ports refuse the link")

// CreateLayerRequest adds a layer. Current makes it the current layer.
type CreateLayerRequest struct {
	ID      domain.ID `json:"id,omitempty"`
	Name    string    `json:"name"`
	Current bool      `json:"current,omitempty"`
}

// CreateGroupRequest adds a group to Parent, or to the current layer when
// Parent is empty.
type CreateGroupRequest struct {
	ID       domain.ID       `json:"id,omitempty"`
	Parent   domain.ID       `json:"parent,omitempty"`
	Title    string          `json:"title,omitempty"`
	Position domain.Point    `json:"position"`
	Size     domain.Size     `json:"size"`
	Padding  *domain.Padding `json:"padding,omitempty"`
}

// CreateNodeRequest adds a node to Parent, or to the current layer when
// Parent is empty.
type CreateNodeRequest struct {
	ID       domain.ID    `json:"id,omitempty"`
	Parent   domain.ID    `json:"parent,omitempty"`
	Type     string       `json:"type,omitempty"`
	Title    string       `json:"title,omitempty"`
	Position domain.Point `json:"position"`
	Size     domain.Size  `json:"size"`
}

// CreatePortRequest attaches a port to a node or group. Position only
// applies to custom alignment.
type CreatePortRequest struct {
	ID            domain.ID     `json:"id,omitempty"`
	Parent        domain.ID     `json:"parent"`
	Alignment     string        `json:"alignment"`
	Justification string        `json:"justification,omitempty"`
	Offset        domain.Point  `json:"offset"`
	Size          domain.Size   `json:"size"`
	Position      *domain.Point `json:"position,omitempty"`
	MaxLinks      int           `json:"max_links,omitempty"`
}

// CreateLinkRequest connects Source to Target. Without a target the link
// stays unbound and End places its free end.
type CreateLinkRequest struct {
	ID     domain.ID     `json:"id,omitempty"`
	Source domain.ID     `json:"source"`
	Target domain.ID     `json:"target,omitempty"`
	End    *domain.Point `json:"end,omitempty"`
}

// MoveRequest places a movable entity
type MoveRequest struct {
	Position domain.Point `json:"position"`
}

func newID(id domain.ID) domain.ID {
	if id.IsZero() {
		return domain.NewID()
	}
	return id
}

func resolveParent(svc *service.DiagramService, id domain.ID) (domain.Container, error) {
	if id.IsZero() {
		return svc.Diagram().CurrentLayer(), nil
	}
	return find[domain.Container](svc, id)
}

// create decodes a request, runs build under the session lock and answers
// with the created entity.
func create[T any](h *DiagramHandler, w http.ResponseWriter, r *http.Request, build func(*service.DiagramService, T) (domain.Entity, error)) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var view any
	err := h.session.Do(func(svc *service.DiagramService) error {
		e, err := build(svc, req)
		if err != nil {
			return err
		}
		view, _ = codec.CaptureEntity(e)
		return nil
	})
	if err != nil {
		h.writeError(w, "Failed to create entity", err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, view, http.StatusCreated)
}

// CreateLayer appends a layer
func (h *DiagramHandler) CreateLayer(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, func(svc *service.DiagramService, req CreateLayerRequest) (domain.Entity, error) {
		l := domain.NewLayerWithID(newID(req.ID), req.Name)
		if err := svc.AddLayer(l); err != nil {
			return nil, err
		}
		if req.Current {
			if err := svc.UseLayer(l); err != nil {
				return nil, err
			}
		}
		return l, nil
	})
}

// UseLayer makes a layer current
func (h *DiagramHandler) UseLayer(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(r.PathValue("id"))
	err := h.session.Do(func(svc *service.DiagramService) error {
		l, err := find[*domain.Layer](svc, id)
		if err != nil {
			return err
		}
		return svc.UseLayer(l)
	})
	if err != nil {
		h.writeError(w, "Failed to switch layer", err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateGroup adds a group
func (h *DiagramHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, func(svc *service.DiagramService, req CreateGroupRequest) (domain.Entity, error) {
		parent, err := resolveParent(svc, req.Parent)
		if err != nil {
			return nil, err
		}
		g := domain.NewGroupWithID(newID(req.ID), req.Position, req.Size)
		g.Title = req.Title
		if req.Padding != nil {
			g.Padding = *req.Padding
		}
		if err := svc.AddGroupTo(parent, g); err != nil {
			return nil, err
		}
		return g, nil
	})
}

// CreateNode adds a node
func (h *DiagramHandler) CreateNode(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, func(svc *service.DiagramService, req CreateNodeRequest) (domain.Entity, error) {
		parent, err := resolveParent(svc, req.Parent)
		if err != nil {
			return nil, err
		}
		n := domain.NewNodeWithID(newID(req.ID), req.Position, req.Size)
		n.Type = req.Type
		n.Title = req.Title
		if err := svc.AddNodeTo(parent, n); err != nil {
			return nil, err
		}
		return n, nil
	})
}

// CreatePort attaches a port
func (h *DiagramHandler) CreatePort(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, func(svc *service.DiagramService, req CreatePortRequest) (domain.Entity, error) {
		parent, err := find[domain.PortContainer](svc, req.Parent)
		if err != nil {
			return nil, err
		}
		a, err := domain.ParseAlignment(req.Alignment)
		if err != nil {
			return nil, err
		}
		j := domain.JustifyCenter
		if req.Justification != "" {
			if j, err = domain.ParseJustification(req.Justification); err != nil {
				return nil, err
			}
		}

		p := domain.NewPortWithID(newID(req.ID), a, j, req.Size)
		p.MaxLinks = req.MaxLinks
		p.SetOffset(req.Offset)
		if err := svc.AddPortTo(parent, p); err != nil {
			return nil, err
		}
		if a == domain.AlignCustom && req.Position != nil {
			p.SetPosition(*req.Position)
		}
		return p, nil
	})
}

// CreateLink connects two ports, or starts an unbound link
func (h *DiagramHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	create(h, w, r, func(svc *service.DiagramService, req CreateLinkRequest) (domain.Entity, error) {
		source, err := find[*domain.Port](svc, req.Source)
		if err != nil {
			return nil, err
		}
		if !source.CanCreateLink() {
			return nil, fmt.Errorf("port %s: %w", source.ID(), errRefused)
		}
		var target *domain.Port
		if !req.Target.IsZero() {
			if target, err = find[*domain.Port](svc, req.Target); err != nil {
				return nil, err
			}
			if !source.CanConnectTo(target) {
				return nil, fmt.Errorf("%s to %s: %w", source.ID(), target.ID(), errRefused)
			}
		}

		l := domain.NewLinkWithID(newID(req.ID), source)
		if target == nil && req.End != nil {
			l.SetTargetPosition(*req.End)
		}
		if err := svc.AddLink(l, target); err != nil {
			return nil, err
		}
		return l, nil
	})
}

// GetEntity returns one entity with everything it owns
func (h *DiagramHandler) GetEntity(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(r.PathValue("id"))
	var view any
	err := h.session.Do(func(svc *service.DiagramService) error {
		e, ok := svc.Find(id)
		if !ok {
			return fmt.Errorf("entity %s: %w", id, errNotFound)
		}
		view, _ = codec.CaptureEntity(e)
		return nil
	})
	if err != nil {
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	h.writeJSON(w, view, http.StatusOK)
}

// MoveEntity places a group, node or port
func (h *DiagramHandler) MoveEntity(w http.ResponseWriter, r *http.Request) {
	var req MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	id := domain.ID(r.PathValue("id"))
	var view any
	err := h.session.Do(func(svc *service.DiagramService) error {
		m, err := find[domain.Movable](svc, id)
		if err != nil {
			return err
		}
		m.SetPosition(req.Position)
		view, _ = codec.CaptureEntity(m)
		return nil
	})
	if err != nil {
		h.writeError(w, "Failed to move entity", err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, view, http.StatusOK)
}

// DeleteEntity removes any entity, layers included
func (h *DiagramHandler) DeleteEntity(w http.ResponseWriter, r *http.Request) {
	id := domain.ID(r.PathValue("id"))
	err := h.session.Do(func(svc *service.DiagramService) error {
		e, ok := svc.Find(id)
		if !ok {
			return fmt.Errorf("entity %s: %w", id, errNotFound)
		}
		switch v := e.(type) {
		case *domain.Layer:
			_, err := svc.RemoveLayer(v)
			return err
		case *domain.Group:
			svc.RemoveGroup(v)
		case *domain.Node:
			svc.RemoveNode(v)
		case *domain.Port:
			svc.RemovePort(v)
		case *domain.Link:
			svc.RemoveLink(v)
		}
		return nil
	})
	if err != nil {
		h.writeError(w, "Failed to delete entity", err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
