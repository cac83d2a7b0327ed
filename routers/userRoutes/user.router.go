package userRoutes

import (
	"greenacademy/cache"
	"greenacademy/config"
	userController "greenacademy/controllers/users"
	"greenacademy/middleware"
	userValidator "greenacademy/validators/users"

	"github.com/gofiber/fiber/v2"
)

// SetupUserRoutes sets up registration, account and user management routes
func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/users")

	// Self-registration is open to anyone
	userGroup.Post("/", userValidator.Register(), userController.CreateUser)
	userGroup.Get("/", middleware.JWTMiddleware, cache.Page(config.AppConfig.CacheTTL), userController.ListUsers)

	// Account endpoints must be registered before the :id routes
	userGroup.Get("/me", middleware.JWTMiddleware, userController.Me)
	userGroup.Get("/me/export", middleware.JWTMiddleware, userController.ExportPersonalData)
	userGroup.Delete("/me/delete", middleware.JWTMiddleware, userController.DeleteAccount)

	userGroup.Get("/:id", middleware.JWTMiddleware, userValidator.UserID(), userController.GetUser)
	userGroup.Put("/:id", middleware.JWTMiddleware, userValidator.UserID(), userValidator.UpdateUser(), userController.UpdateUser)
	userGroup.Patch("/:id", middleware.JWTMiddleware, userValidator.UserID(), userValidator.UpdateUser(), userController.UpdateUser)
	userGroup.Delete("/:id", middleware.JWTMiddleware, userValidator.UserID(), userController.DeleteUser)
}
