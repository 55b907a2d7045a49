package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/query"
	"github.com/wexford-labs/widgetry/internal/repositories"
	"github.com/wexford-labs/widgetry/internal/services"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

type PostHandler struct {
	service *services.PostService
	runner  *query.Runner
	limits  query.Limits
	logger  *slog.Logger
}

func NewPostHandler(service *services.PostService, runner *query.Runner, limits query.Limits, logger *slog.Logger) *PostHandler {
	return &PostHandler{service: service, runner: runner, limits: limits, logger: logger}
}

func (h *PostHandler) List() http.HandlerFunc {
	return listEndpoint(h.runner, repositories.PostDescriptor(), h.limits, h.logger)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	post, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, post)
}

type postRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req postRequest
	if !bindJSON(w, r, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), principal, req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusCreated, created)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	post, err := h.service.Like(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, post.Likes)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	post, err := h.service.Unlike(r.Context(), principal, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, post.Likes)
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req postRequest
	if !bindJSON(w, r, &req) {
		return
	}

	post, err := h.service.AddComment(r.Context(), principal, chi.URLParam(r, "id"), req.Text)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusCreated, post.Comments)
}

func (h *PostHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	post, err := h.service.RemoveComment(r.Context(), principal,
		chi.URLParam(r, "id"), chi.URLParam(r, "commentId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, post.Comments)
}
