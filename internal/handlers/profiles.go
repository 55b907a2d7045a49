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

type ProfileHandler struct {
	service *services.ProfileService
	runner  *query.Runner
	limits  query.Limits
	logger  *slog.Logger
}

func NewProfileHandler(service *services.ProfileService, runner *query.Runner, limits query.Limits, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, runner: runner, limits: limits, logger: logger}
}

func (h *ProfileHandler) List() http.HandlerFunc {
	return listEndpoint(h.runner, repositories.ProfileDescriptor(), h.limits, h.logger)
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	profile, err := h.service.GetByUserID(r.Context(), principal.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

func (h *ProfileHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetByUserID(r.Context(), chi.URLParam(r, "userId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

type profileRequest struct {
	Company        string             `json:"company" validate:"max=100"`
	Website        string             `json:"website" validate:"omitempty,url"`
	Location       string             `json:"location" validate:"max=100"`
	Status         string             `json:"status" validate:"required,max=100"`
	Skills         []string           `json:"skills" validate:"required,min=1"`
	Bio            string             `json:"bio" validate:"max=500"`
	GithubUsername string             `json:"githubusername" validate:"max=50"`
	Social         models.SocialLinks `json:"social"`
}

func (h *ProfileHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req profileRequest
	if !bindJSON(w, r, &req) {
		return
	}

	profile, err := h.service.Upsert(r.Context(), principal, &models.Profile{
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         req.Skills,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Social:         req.Social,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

type experienceRequest struct {
	Title       string     `json:"title" validate:"required,max=100"`
	Company     string     `json:"company" validate:"required,max=100"`
	Location    string     `json:"location" validate:"max=100"`
	From        time.Time  `json:"from" validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description" validate:"max=500"`
}

func (h *ProfileHandler) AddExperience(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req experienceRequest
	if !bindJSON(w, r, &req) {
		return
	}

	profile, err := h.service.AddExperience(r.Context(), principal, models.Experience{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

func (h *ProfileHandler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	profile, err := h.service.RemoveExperience(r.Context(), principal, chi.URLParam(r, "expId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

type educationRequest struct {
	School       string     `json:"school" validate:"required,max=100"`
	Degree       string     `json:"degree" validate:"required,max=100"`
	FieldOfStudy string     `json:"fieldofstudy" validate:"required,max=100"`
	From         time.Time  `json:"from" validate:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description" validate:"max=500"`
}

func (h *ProfileHandler) AddEducation(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req educationRequest
	if !bindJSON(w, r, &req) {
		return
	}

	profile, err := h.service.AddEducation(r.Context(), principal, models.Education{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

func (h *ProfileHandler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	profile, err := h.service.RemoveEducation(r.Context(), principal, chi.URLParam(r, "eduId"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, profile)
}

// DeleteAccount removes the caller's profile and account together.
func (h *ProfileHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	if err := h.service.DeleteAccount(r.Context(), principal); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	auth.ClearTokenCookie(w, false)
	pkghttp.WriteData(w, http.StatusOK, "User deleted")
}
