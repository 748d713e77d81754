package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"flowcanvas/internal/codec"
	"flowcanvas/internal/domain"
	"flowcanvas/internal/repository"
	"flowcanvas/internal/service"
)

var (
	errNotFound  = errors.New("not found")
	errWrongKind = errors.New("wrong entity kind")
)

// DiagramHandler handles diagram API requests
type DiagramHandler struct {
	session *Session
	repo    repository.Repository
	logger  *slog.Logger
}

// NewDiagramHandler creates a new diagram handler. repo may be nil, in which
// case the snapshot endpoints answer 503.
func NewDiagramHandler(session *Session, repo repository.Repository, logger *slog.Logger) *DiagramHandler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &DiagramHandler{session: session, repo: repo, logger: logger}
}

// Register adds every route to mux.
func (h *DiagramHandler) Register(mux *http.ServeMux) {
	// Diagram
	mux.HandleFunc("GET /api/diagram", h.GetDiagram)
	mux.HandleFunc("DELETE /api/diagram", h.ClearDiagram)
	mux.HandleFunc("GET /api/export/{format}", h.Export)
	mux.HandleFunc("POST /api/import/{format}", h.Import)

	// Entities
	mux.HandleFunc("POST /api/layers", h.CreateLayer)
	mux.HandleFunc("PUT /api/layers/{id}/current", h.UseLayer)
	mux.HandleFunc("POST /api/groups", h.CreateGroup)
	mux.HandleFunc("POST /api/nodes", h.CreateNode)
	mux.HandleFunc("POST /api/ports", h.CreatePort)
	mux.HandleFunc("POST /api/links", h.CreateLink)
	mux.HandleFunc("GET /api/entities/{id}", h.GetEntity)
	mux.HandleFunc("PUT /api/entities/{id}/position", h.MoveEntity)
	mux.HandleFunc("DELETE /api/entities/{id}", h.DeleteEntity)

	// Viewport, selection and input
	mux.HandleFunc("PUT /api/viewport", h.SetViewport)
	mux.HandleFunc("PUT /api/selection", h.SetSelection)
	mux.HandleFunc("POST /api/input", h.PostInput)
	mux.HandleFunc("GET /ws", h.ServeWS)

	// Behaviours
	mux.HandleFunc("GET /api/behaviors", h.ListBehaviors)
	mux.HandleFunc("PUT /api/behaviors/{name}", h.ToggleBehavior)

	// Snapshots
	mux.HandleFunc("GET /api/snapshots", h.ListSnapshots)
	mux.HandleFunc("GET /api/snapshots/{name}", h.GetSnapshot)
	mux.HandleFunc("PUT /api/snapshots/{name}", h.SaveSnapshot)
	mux.HandleFunc("POST /api/snapshots/{name}/load", h.LoadSnapshot)
	mux.HandleFunc("DELETE /api/snapshots/{name}", h.DeleteSnapshot)
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// GetDiagram returns the whole diagram as a snapshot
func (h *DiagramHandler) GetDiagram(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.session.Capture(), http.StatusOK)
}

// ClearDiagram removes everything but the first layer
func (h *DiagramHandler) ClearDiagram(w http.ResponseWriter, r *http.Request) {
	_ = h.session.Do(func(svc *service.DiagramService) error {
		svc.Clear()
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
	"toml": "application/toml",
}

// Export writes the diagram in the format named by the path
func (h *DiagramHandler) Export(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.PathValue("format"))
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	snap := h.session.Capture()
	w.Header().Set("Content-Type", contentTypes[c.Format()])
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=diagram.%s", c.Format()))
	if err := c.Export(snap, w); err != nil {
		h.logger.Error("Failed to export diagram", "format", c.Format(), "error", err)
	}
}

// ImportResult reports what an import restored
type ImportResult struct {
	Format string      `json:"format"`
	Stats  codec.Stats `json:"stats"`
}

// Import replaces the diagram with the request body
func (h *DiagramHandler) Import(w http.ResponseWriter, r *http.Request) {
	c, err := codec.ForFormat(r.PathValue("format"))
	if err != nil {
		h.writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
		return
	}

	snap, err := c.Parse(r.Body)
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.session.Restore(snap); err != nil {
		h.writeError(w, "Failed to import diagram", err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("Diagram imported", "format", c.Format())
	h.writeJSON(w, ImportResult{Format: c.Format(), Stats: snap.Stats()}, http.StatusOK)
}

// ViewportRequest changes any of zoom, pan and canvas size
type ViewportRequest struct {
	Zoom   *float64      `json:"zoom,omitempty"`
	Pan    *domain.Point `json:"pan,omitempty"`
	Canvas *domain.Size  `json:"canvas,omitempty"`
}

// SetViewport updates the viewport and returns the resulting one
func (h *DiagramHandler) SetViewport(w http.ResponseWriter, r *http.Request) {
	var req ViewportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	var vp codec.Viewport
	_ = h.session.Do(func(svc *service.DiagramService) error {
		d := svc.Diagram()
		if req.Canvas != nil {
			d.SetCanvas(*req.Canvas)
		}
		if req.Zoom != nil {
			svc.SetZoom(*req.Zoom)
		}
		if req.Pan != nil {
			d.SetPan(*req.Pan)
		}
		vp = codec.Viewport{Pan: d.Pan(), Zoom: d.Zoom(), Canvas: d.Canvas()}
		return nil
	})
	h.writeJSON(w, vp, http.StatusOK)
}

// SelectionRequest replaces the selection. All selects everything and
// takes precedence over IDs.
type SelectionRequest struct {
	IDs []domain.ID `json:"ids"`
	All bool        `json:"all,omitempty"`
}

// SelectionResponse lists the selected entity IDs
type SelectionResponse struct {
	IDs []domain.ID `json:"ids"`
}

// SetSelection replaces the selection
func (h *DiagramHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	resp := SelectionResponse{IDs: []domain.ID{}}
	err := h.session.Do(func(svc *service.DiagramService) error {
		if req.All {
			svc.SelectAll()
		} else {
			targets := make([]domain.Selectable, 0, len(req.IDs))
			for _, id := range req.IDs {
				s, err := find[domain.Selectable](svc, id)
				if err != nil {
					return err
				}
				targets = append(targets, s)
			}
			svc.UnselectAll()
			for _, s := range targets {
				s.SetSelected(true)
			}
		}
		for _, s := range svc.Diagram().Selected() {
			resp.IDs = append(resp.IDs, s.ID())
		}
		return nil
	})
	if err != nil {
		h.writeError(w, "Failed to select", err.Error(), statusFor(err))
		return
	}
	h.writeJSON(w, resp, http.StatusOK)
}

// PostInput publishes one input event
func (h *DiagramHandler) PostInput(w http.ResponseWriter, r *http.Request) {
	var msg InputMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.dispatch(msg); err != nil {
		h.writeError(w, "Invalid input", err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// dispatch resolves msg and publishes it in one critical section, so the
// target cannot be removed in between.
func (h *DiagramHandler) dispatch(msg InputMessage) error {
	return h.session.Do(func(svc *service.DiagramService) error {
		ev, err := msg.Event(svc.Diagram())
		if err != nil {
			return err
		}
		svc.Publish(ev)
		return nil
	})
}

// BehaviorStatus describes one registered behaviour
type BehaviorStatus struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

// ListBehaviors returns every registered behaviour
func (h *DiagramHandler) ListBehaviors(w http.ResponseWriter, r *http.Request) {
	list := []BehaviorStatus{}
	_ = h.session.Do(func(svc *service.DiagramService) error {
		for _, b := range svc.Behaviors().Behaviors() {
			list = append(list, BehaviorStatus{Name: b.Name(), Enabled: b.Toggle().Enabled()})
		}
		return nil
	})
	h.writeJSON(w, list, http.StatusOK)
}

// ToggleRequest enables or disables a behaviour
type ToggleRequest struct {
	Enabled bool `json:"enabled"`
}

// ToggleBehavior switches a behaviour on or off
func (h *DiagramHandler) ToggleBehavior(w http.ResponseWriter, r *http.Request) {
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	name := r.PathValue("name")
	var status BehaviorStatus
	err := h.session.Do(func(svc *service.DiagramService) error {
		b, ok := svc.Behaviors().ByName(name)
		if !ok {
			return fmt.Errorf("behavior %q: %w", name, errNotFound)
		}
		b.Toggle().SetEnabled(req.Enabled)
		status = BehaviorStatus{Name: b.Name(), Enabled: b.Toggle().Enabled()}
		return nil
	})
	if err != nil {
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}

	h.logger.Info("Behavior toggled", "behavior", status.Name, "enabled", status.Enabled)
	h.writeJSON(w, status, http.StatusOK)
}

// find looks id up and checks it has the wanted type.
func find[T domain.Entity](svc *service.DiagramService, id domain.ID) (T, error) {
	var zero T
	e, ok := svc.Find(id)
	if !ok {
		return zero, fmt.Errorf("entity %s: %w", id, errNotFound)
	}
	v, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("entity %s is a %s: %w", id, service.KindOf(e), errWrongKind)
	}
	return v, nil
}

// statusFor maps domain and lookup errors to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotFound), errors.Is(err, ErrUnknownTarget), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrLastLayer), errors.Is(err, domain.ErrGroupCycle), errors.Is(err, domain.ErrDuplicateID), errors.Is(err, errRefused):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func (h *DiagramHandler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode JSON", "error", err)
	}
}

func (h *DiagramHandler) writeError(w http.ResponseWriter, error, details string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   error,
		Details: details,
	}); err != nil {
		h.logger.Error("Failed to encode error response", "error", err)
	}
}
