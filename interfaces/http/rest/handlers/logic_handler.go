package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appbuilder/application/commands"
	"appbuilder/domain/core/entities"
)

// AddNode handles POST /projects/{projectID}/nodes
func (h *Handler) AddNode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddNodeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	cmd.NodeID = orNewID(cmd.NodeID)
	h.send(w, r, cmd, http.StatusCreated)
}

// UpdateNode handles PATCH /projects/{projectID}/nodes/{nodeID}
func (h *Handler) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var patch entities.NodePatch
	if !h.decode(w, r, &patch) {
		return
	}
	h.send(w, r, commands.UpdateNodeCommand{
		ProjectID: projectID(r),
		NodeID:    chi.URLParam(r, "nodeID"),
		Patch:     patch,
	}, http.StatusOK)
}

// RemoveNode handles DELETE /projects/{projectID}/nodes/{nodeID}
func (h *Handler) RemoveNode(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveNodeCommand{
		ProjectID: projectID(r),
		NodeID:    chi.URLParam(r, "nodeID"),
	}, http.StatusNoContent)
}

// Connect handles POST /projects/{projectID}/edges
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var cmd commands.ConnectCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	cmd.EdgeID = orNewID(cmd.EdgeID)
	h.send(w, r, cmd, http.StatusCreated)
}

// Disconnect handles DELETE /projects/{projectID}/edges/{edgeID}
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.DisconnectCommand{
		ProjectID: projectID(r),
		EdgeID:    chi.URLParam(r, "edgeID"),
	}, http.StatusNoContent)
}

// ApplyTemplate handles POST /projects/{projectID}/templates/{name}
func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.ApplyTemplateCommand{
		ProjectID: projectID(r),
		Template:  chi.URLParam(r, "name"),
	}, http.StatusCreated)
}
