package authRoutes

import (
	authController "greenacademy/controllers/auth"
	authValidator "greenacademy/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes sets up login, token refresh and token verify routes
func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/refresh", authValidator.Token(), authController.Refresh)
	authGroup.Post("/verify", authValidator.Token(), authController.Verify)
}
