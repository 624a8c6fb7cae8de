package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appbuilder/application/commands"
)

// AddFile handles POST /projects/{projectID}/files
func (h *Handler) AddFile(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddFileCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	h.send(w, r, cmd, http.StatusCreated)
}

// UpdateFile handles PUT /projects/{projectID}/files/{fileID}
func (h *Handler) UpdateFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.UpdateFileCommand{
		ProjectID: projectID(r),
		FileID:    chi.URLParam(r, "fileID"),
		Content:   req.Content,
	}, http.StatusOK)
}

// RemoveFile handles DELETE /projects/{projectID}/files/{fileID}
func (h *Handler) RemoveFile(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveFileCommand{
		ProjectID: projectID(r),
		FileID:    chi.URLParam(r, "fileID"),
	}, http.StatusNoContent)
}
