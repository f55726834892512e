package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/handlers"
	"github.com/nskaret/lingoread/internal/middleware"
	"github.com/nskaret/lingoread/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	blogHandler *handlers.BlogHandler,
	adminHandler *handlers.AdminHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
	rateLimitConfig middleware.RateLimitConfig,
) {
	// Auth routes - rate limited, no authentication required
	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(rateLimitConfig))
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/activate", authHandler.Activate)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/auth/verify", authHandler.Verify)
		r.Post("/auth/logout", authHandler.Logout)
	})

	// Public lesson reads
	router.Get("/blogs", blogHandler.List)
	router.Get("/blogs/{id}", blogHandler.Get)

	// Lesson writes require an activated account
	router.Group(func(r chi.Router) {
		r.Use(auth.Authenticate(tokenManager, userRepo))
		r.Use(auth.RequireActivation)

		r.Post("/blogs", blogHandler.Create)
		r.Put("/blogs/{id}", blogHandler.Update)
		r.Delete("/blogs/{id}", blogHandler.Delete)
	})

	// Admin routes - the admin check re-resolves the account from the token
	router.Group(func(r chi.Router) {
		r.Use(auth.RequireAdmin(tokenManager, userRepo))

		r.Get("/admin/users", adminHandler.ListUsers)
		r.Post("/admin/users", adminHandler.CreateUser)
		r.Put("/admin/users/{id}", adminHandler.UpdateUser)
		r.Delete("/admin/users/{id}", adminHandler.DeleteUser)

		r.Get("/admin/activation-codes", adminHandler.ListCodes)
		r.Post("/admin/activation-codes", adminHandler.GenerateCode)
		r.Delete("/admin/activation-codes/{code}", adminHandler.DeleteCode)

		r.Get("/admin/blogs", adminHandler.ListBlogs)
		r.Delete("/admin/blogs/{id}", adminHandler.DeleteBlog)

		r.Get("/admin/stats", adminHandler.Stats)
	})
}
