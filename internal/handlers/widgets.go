package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/internal/query"
	"github.com/wexford-labs/widgetry/internal/repositories"
	"github.com/wexford-labs/widgetry/internal/services"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

type WidgetHandler struct {
	service *services.WidgetService
	runner  *query.Runner
	limits  query.Limits
	logger  *slog.Logger
}

func NewWidgetHandler(service *services.WidgetService, runner *query.Runner, limits query.Limits, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{service: service, runner: runner, limits: limits, logger: logger}
}

func (h *WidgetHandler) List() http.HandlerFunc {
	return listEndpoint(h.runner, repositories.WidgetDescriptor(), h.limits, h.logger)
}

func (h *WidgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	widget, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, widget)
}

type widgetRequest struct {
	Name        string     `json:"name" validate:"required,max=50"`
	Description string     `json:"description" validate:"max=500"`
	Who         string     `json:"who"`
	What        string     `json:"what"`
	When        *time.Time `json:"when"`
	Why         string     `json:"why"`
	Where       string     `json:"where"`
	Wishes      string     `json:"wishes" validate:"omitempty,oneof=Weight Worth Walk Whole Whale Wallrus"`
}

func (r *widgetRequest) toModel() *models.Widget {
	return &models.Widget{
		Name:        r.Name,
		Description: r.Description,
		Who:         r.Who,
		What:        r.What,
		When:        r.When,
		Why:         r.Why,
		Where:       r.Where,
		Wishes:      r.Wishes,
	}
}

func (h *WidgetHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req widgetRequest
	if !bindJSON(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), principal, req.toModel())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusCreated, created)
}

func (h *WidgetHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req widgetRequest
	if !bindJSON(w, r, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), principal, chi.URLParam(r, "id"), req.toModel())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, updated)
}

func (h *WidgetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	if err := h.service.Delete(r.Context(), principal, chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, struct{}{})
}
