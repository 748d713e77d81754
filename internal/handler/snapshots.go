package handler

import (
	"errors"
	"net/http"

	"flowcanvas/internal/repository"
)

// SaveResponse reports the outcome of saving a named snapshot
type SaveResponse struct {
	Result repository.SaveResult    `json:"result"`
	Info   *repository.SnapshotInfo `json:"info,omitempty"`
}

func (h *DiagramHandler) requireRepo(w http.ResponseWriter) bool {
	if h.repo == nil {
		h.writeError(w, "Snapshots unavailable", "no repository configured", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// repoError writes err with the status a repository error deserves.
func (h *DiagramHandler) repoError(w http.ResponseWriter, msg string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.writeError(w, "Not found", err.Error(), http.StatusNotFound)
	case errors.Is(err, repository.ErrInvalidName):
		h.writeError(w, msg, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Error(msg, "error", err)
		h.writeError(w, msg, err.Error(), http.StatusInternalServerError)
	}
}

// ListSnapshots returns every stored snapshot, most recently updated first
func (h *DiagramHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	list, err := h.repo.ListSnapshots(r.Context())
	if err != nil {
		h.repoError(w, "Failed to list snapshots", err)
		return
	}
	if list == nil {
		list = []repository.SnapshotInfo{}
	}
	h.writeJSON(w, list, http.StatusOK)
}

// GetSnapshot returns the metadata of one stored snapshot
func (h *DiagramHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	info, err := h.repo.GetSnapshotInfo(r.Context(), r.PathValue("name"))
	if err != nil {
		h.repoError(w, "Failed to get snapshot", err)
		return
	}
	h.writeJSON(w, info, http.StatusOK)
}

// SaveSnapshot stores the current diagram under a name
func (h *DiagramHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	name := r.PathValue("name")
	result, err := h.repo.SaveSnapshot(r.Context(), name, h.session.Capture())
	if err != nil {
		h.repoError(w, "Failed to save snapshot", err)
		return
	}
	info, err := h.repo.GetSnapshotInfo(r.Context(), name)
	if err != nil {
		h.repoError(w, "Failed to save snapshot", err)
		return
	}

	h.logger.Info("Snapshot saved", "name", name, "result", result, "revision", info.Revision)
	status := http.StatusOK
	if result == repository.SaveCreated {
		status = http.StatusCreated
	}
	h.writeJSON(w, SaveResponse{Result: result, Info: info}, status)
}

// LoadSnapshot replaces the diagram with a stored snapshot
func (h *DiagramHandler) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	name := r.PathValue("name")
	snap, err := h.repo.LoadSnapshot(r.Context(), name)
	if err != nil {
		h.repoError(w, "Failed to load snapshot", err)
		return
	}
	if err := h.session.Restore(snap); err != nil {
		h.writeError(w, "Failed to restore snapshot", err.Error(), http.StatusUnprocessableEntity)
		return
	}

	h.logger.Info("Snapshot loaded", "name", name)
	h.writeJSON(w, ImportResult{Format: "json", Stats: snap.Stats()}, http.StatusOK)
}

// DeleteSnapshot removes a stored snapshot
func (h *DiagramHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireRepo(w) {
		return
	}
	if err := h.repo.DeleteSnapshot(r.Context(), r.PathValue("name")); err != nil {
		h.repoError(w, "Failed to delete snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
