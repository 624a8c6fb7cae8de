package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"appbuilder/application/commands"
	"appbuilder/application/queries"
)

// CreateProject handles POST /projects
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var cmd commands.CreateProjectCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = orNewID(cmd.ProjectID)
	h.send(w, r, cmd, http.StatusCreated)
}

// GetProject handles GET /projects/{projectID}
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetProjectQuery{ProjectID: projectID(r)})
}

// GetDocument handles GET /projects/{projectID}/document
func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.GetDocumentQuery{ProjectID: projectID(r)})
}

// SwitchMode handles PUT /projects/{projectID}/mode
func (h *Handler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SwitchModeCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	h.send(w, r, cmd, http.StatusOK)
}

// Select handles PUT /projects/{projectID}/selection. An empty id clears
// the selection of that kind.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	var cmd commands.SelectCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	h.send(w, r, cmd, http.StatusOK)
}

// Regenerate handles POST /projects/{projectID}/regenerate
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	var cmd commands.RegenerateCommand
	if !h.decode(w, r, &cmd) {
		return
	}
	cmd.ProjectID = projectID(r)
	if lang := r.URL.Query().Get("language"); lang != "" {
		cmd.Language = lang
	}
	h.send(w, r, cmd, http.StatusOK)
}

// CloseSession handles DELETE /projects/{projectID}/session
func (h *Handler) CloseSession(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, commands.CloseSessionCommand{ProjectID: projectID(r)}, http.StatusOK)
}

// Catalog handles GET /catalog/{kind}
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	h.ask(w, r, queries.CatalogQuery{Kind: chi.URLParam(r, "kind")})
}
