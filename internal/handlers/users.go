package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wexford-labs/widgetry/internal/query"
	"github.com/wexford-labs/widgetry/internal/repositories"
	"github.com/wexford-labs/widgetry/internal/services"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

// UserHandler serves the admin-only user management endpoints. Role
// enforcement happens in the route group; handlers assume an admin
// principal.
type UserHandler struct {
	service *services.UserService
	runner  *query.Runner
	limits  query.Limits
	logger  *slog.Logger
}

func NewUserHandler(service *services.UserService, runner *query.Runner, limits query.Limits, logger *slog.Logger) *UserHandler {
	return &UserHandler{service: service, runner: runner, limits: limits, logger: logger}
}

func (h *UserHandler) List() http.HandlerFunc {
	return listEndpoint(h.runner, repositories.UserDescriptor(), h.limits, h.logger)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !bindJSON(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), services.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusCreated, created)
}

type adminUpdateUserRequest struct {
	Name  string `json:"name" validate:"omitempty,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req adminUpdateUserRequest
	if !bindJSON(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Name, req.Email, req.Role)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, updated)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, struct{}{})
}
