// Package handlers exposes editor commands and queries over HTTP.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"appbuilder/application/commands/bus"
	querybus "appbuilder/application/queries/bus"
	"appbuilder/pkg/common"
	pkgerrors "appbuilder/pkg/errors"
)

// Handler holds what every editor endpoint needs
type Handler struct {
	commandBus *bus.CommandBus
	queryBus   *querybus.QueryBus
	errors     *pkgerrors.ErrorHandler
	logger     *zap.Logger
}

// NewHandler creates a new handler
func NewHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		commandBus: commandBus,
		queryBus:   queryBus,
		errors:     errorHandler,
		logger:     logger,
	}
}

// send dispatches cmd and writes its result with status. A nil result
// becomes 204 No Content.
func (h *Handler) send(w http.ResponseWriter, r *http.Request, cmd bus.Command, status int) {
	result, err := h.commandBus.Send(r.Context(), cmd)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	common.RespondJSON(w, r, status, result)
}

// ask dispatches query and writes its result
func (h *Handler) ask(w http.ResponseWriter, r *http.Request, query querybus.Query) {
	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.errors.Handle(w, r, err)
		return
	}
	common.RespondJSON(w, r, http.StatusOK, result)
}

// decode reads the JSON body into v, answering 400 on failure
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := common.ParseJSONBody(w, r, v); err != nil {
		h.errors.Handle(w, r, err)
		return false
	}
	return true
}

func projectID(r *http.Request) string {
	return chi.URLParam(r, "projectID")
}

// orNewID keeps a caller-chosen id or mints one
func orNewID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}
