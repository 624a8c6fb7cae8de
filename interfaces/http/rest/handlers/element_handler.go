package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appbuilder/application/commands"
	"appbuilder/application/queries"
	"appbuilder/domain/core/entities"
)

func elementID(r *http.Request) string {
	return chi.URLParam(r, "elementID")
}

// AddElement handles POST /projects/{projectID}/elements. Without x and y
// the element lands at the default drop position.
func (h *Handler) AddElement(w http.ResponseWriter, r *http.Request) {
	var cmd commands.AddElementCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	cmd.ElementID = orNewID(cmd.ElementID)
	h.send(w, r, cmd, http.StatusCreated)
}

// UpdateElement handles PATCH /projects/{projectID}/elements/{elementID}.
// The body is the patch itself.
func (h *Handler) UpdateElement(w http.ResponseWriter, r *http.Request) {
	var patch entities.ElementPatch
	if !h.decode(w, r, &patch) {
		return
	}
	h.send(w, r, commands.UpdateElementCommand{
		ProjectID: projectID(r),
		ElementID: elementID(r),
		Patch:     patch,
	}, http.StatusOK)
}

// MoveElement handles POST /projects/{projectID}/elements/{elementID}/move
func (h *Handler) MoveElement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.MoveElementCommand{
		ProjectID: projectID(r),
		ElementID: elementID(r),
		X:         req.X,
		Y:         req.Y,
	}, http.StatusOK)
}

// ResizeElement handles POST /projects/{projectID}/elements/{elementID}/resize
func (h *Handler) ResizeElement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.ResizeElementCommand{
		ProjectID: projectID(r),
		ElementID: elementID(r),
		Width:     req.Width,
		Height:    req.Height,
	}, http.StatusOK)
}

// DuplicateElement handles POST /projects/{projectID}/elements/{elementID}/duplicate
func (h *Handler) DuplicateElement(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NewID string `json:"newId"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	h.send(w, r, commands.DuplicateElementCommand{
		ProjectID: projectID(r),
		ElementID: elementID(r),
		NewID:     orNewID(req.NewID),
	}, http.StatusCreated)
}

// RemoveElement handles DELETE /projects/{projectID}/elements/{elementID}
func (h *Handler) RemoveElement(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.RemoveElementCommand{
		ProjectID: projectID(r),
		ElementID: elementID(r),
	}, http.StatusNoContent)
}

// PreviewElement handles GET /projects/{projectID}/elements/{elementID}/code
func (h *Handler) PreviewElement(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.PreviewComponentQuery{
		ProjectID: projectID(r),
		ElementID: elementID(r),
		Language:  r.URL.Query().Get("language"),
	})
}
