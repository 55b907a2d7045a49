package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/config"
	"github.com/wexford-labs/widgetry/internal/middleware"
	"github.com/wexford-labs/widgetry/internal/services"
	pkghttp "github.com/wexford-labs/widgetry/pkg/http"
)

type AuthHandler struct {
	service        *services.AuthService
	cookieDays     int
	secure         bool
	trustedProxies []string
	logger         *slog.Logger
}

func NewAuthHandler(service *services.AuthService, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service:        service,
		cookieDays:     cfg.Auth.CookieExpireDays,
		secure:         cfg.Server.IsProduction(),
		trustedProxies: cfg.Server.TrustedProxies,
		logger:         logger,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r)
	ip := pkghttp.ClientIP(r, h.trustedProxies)

	// Throttle before validation: an exhausted session gets no feedback
	// on its payload at all.
	if err := h.service.CheckRegisterThrottle(r.Context(), sid, ip); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req registerRequest
	if !bindJSON(w, r, &req) {
		return
	}

	_, token, err := h.service.Register(r.Context(), sid, ip,
		services.RegisterParams{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Role:     req.Role,
		})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.sendToken(w, http.StatusOK, token)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	sid := middleware.SessionID(r)
	ip := pkghttp.ClientIP(r, h.trustedProxies)

	if err := h.service.CheckLoginThrottle(r.Context(), sid, ip); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	var req loginRequest
	if !bindJSON(w, r, &req) {
		return
	}

	_, token, err := h.service.Login(r.Context(), sid, ip, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.sendToken(w, http.StatusOK, token)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearTokenCookie(w, h.secure)
	pkghttp.WriteData(w, http.StatusOK, struct{}{})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}
	pkghttp.WriteData(w, http.StatusOK, principal)
}

type updateDetailsRequest struct {
	Name  string `json:"name" validate:"omitempty,max=50"`
	Email string `json:"email" validate:"omitempty,email"`
}

func (h *AuthHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req updateDetailsRequest
	if !bindJSON(w, r, &req) {
		return
	}

	updated, err := h.service.UpdateDetails(r.Context(), principal, req.Name, req.Email)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, updated)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	principal := auth.PrincipalFromContext(r)
	if principal == nil {
		pkghttp.WriteUnauthorized(w, "Not authorized to access this route")
		return
	}

	var req updatePasswordRequest
	if !bindJSON(w, r, &req) {
		return
	}

	token, err := h.service.UpdatePassword(r.Context(), principal.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.sendToken(w, http.StatusOK, token)
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if !bindJSON(w, r, &req) {
		return
	}

	if err := h.service.ForgotPassword(r.Context(), req.Email); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	pkghttp.WriteData(w, http.StatusOK, "Email sent")
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !bindJSON(w, r, &req) {
		return
	}

	_, token, err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "resettoken"), req.Password)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.sendToken(w, http.StatusOK, token)
}

// sendToken writes the bearer token in both the response body and the
// token cookie, so browser and API clients each have a path.
func (h *AuthHandler) sendToken(w http.ResponseWriter, status int, token string) {
	auth.SetTokenCookie(w, token, h.cookieDays, h.secure)
	pkghttp.WriteToken(w, status, token)
}
