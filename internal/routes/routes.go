package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/wexford-labs/widgetry/internal/auth"
	"github.com/wexford-labs/widgetry/internal/handlers"
	"github.com/wexford-labs/widgetry/internal/middleware"
	"github.com/wexford-labs/widgetry/internal/models"
	"github.com/wexford-labs/widgetry/internal/repositories"
)

// RegisterRoutes wires the /api/v1 surface.
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	widgetHandler *handlers.WidgetHandler,
	postHandler *handlers.PostHandler,
	profileHandler *handlers.ProfileHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
) {
	rateLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())

	// Public auth routes. The per-session attempt counter throttles
	// credential guessing; the IP rate limit caps raw request volume.
	router.With(rateLimit).Post("/auth/register", authHandler.Register)
	router.With(rateLimit).Post("/auth/login", authHandler.Login)
	router.With(rateLimit).Post("/auth/forgotpassword", authHandler.ForgotPassword)
	router.With(rateLimit).Put("/auth/resetpassword/{resettoken}", authHandler.ResetPassword)
	router.Get("/auth/logout", authHandler.Logout)

	// Authenticated routes.
	router.Group(func(r chi.Router) {
		r.Use(auth.Protect(tokenManager, userRepo))

		r.Get("/auth/me", authHandler.Me)
		r.Put("/auth/updatedetails", authHandler.UpdateDetails)
		r.Put("/auth/updatepassword", authHandler.UpdatePassword)

		r.Get("/widgets", widgetHandler.List())
		r.Get("/widgets/{id}", widgetHandler.Get)
		r.Post("/widgets", widgetHandler.Create)
		r.Put("/widgets/{id}", widgetHandler.Update)
		r.Delete("/widgets/{id}", widgetHandler.Delete)

		r.Get("/posts", postHandler.List())
		r.Get("/posts/{id}", postHandler.Get)
		r.Post("/posts", postHandler.Create)
		r.Delete("/posts/{id}", postHandler.Delete)
		r.Put("/posts/{id}/like", postHandler.Like)
		r.Put("/posts/{id}/unlike", postHandler.Unlike)
		r.Post("/posts/{id}/comments", postHandler.AddComment)
		r.Delete("/posts/{id}/comments/{commentId}", postHandler.RemoveComment)

		r.Get("/profiles", profileHandler.List())
		r.Get("/profiles/me", profileHandler.Me)
		r.Get("/profiles/user/{userId}", profileHandler.GetByUser)
		r.Post("/profiles", profileHandler.Upsert)
		r.Put("/profiles/experience", profileHandler.AddExperience)
		r.Delete("/profiles/experience/{expId}", profileHandler.RemoveExperience)
		r.Put("/profiles/education", profileHandler.AddEducation)
		r.Delete("/profiles/education/{eduId}", profileHandler.RemoveEducation)
		r.Delete("/profiles", profileHandler.DeleteAccount)

		// Admin-only user management.
		r.Group(func(r chi.Router) {
			r.Use(auth.Authorize(models.RoleAdmin))
			r.Get("/users", userHandler.List())
			r.Post("/users", userHandler.Create)
			r.Get("/users/{id}", userHandler.Get)
			r.Put("/users/{id}", userHandler.Update)
			r.Delete("/users/{id}", userHandler.Delete)
		})
	})
}
