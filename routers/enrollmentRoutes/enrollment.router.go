package enrollmentRoutes

import (
	"greenacademy/cache"
	"greenacademy/config"
	courseController "greenacademy/controllers/course"
	"greenacademy/middleware"
	courseValidator "greenacademy/validators/course"
	userValidator "greenacademy/validators/users"

	"github.com/gofiber/fiber/v2"
)

// SetupEnrollmentRoutes sets up enrollment CRUD plus the nested per-user
// and per-course enrollment listings.
func SetupEnrollmentRoutes(app *fiber.App) {
	enrollGroup := app.Group("/api/enrollments")

	enrollGroup.Get("/", middleware.JWTMiddleware, cache.Page(config.AppConfig.CacheTTL), courseController.ListEnrollments)
	enrollGroup.Post("/", middleware.JWTMiddleware, courseValidator.CreateEnrollment(), courseController.CreateEnrollment)
	enrollGroup.Get("/:id", middleware.JWTMiddleware, courseValidator.EnrollmentID(), courseController.GetEnrollment)
	enrollGroup.Put("/:id", middleware.JWTMiddleware, courseValidator.EnrollmentID(), courseValidator.UpdateEnrollment(), courseController.UpdateEnrollment)
	enrollGroup.Patch("/:id", middleware.JWTMiddleware, courseValidator.EnrollmentID(), courseValidator.UpdateEnrollment(), courseController.UpdateEnrollment)
	enrollGroup.Delete("/:id", middleware.JWTMiddleware, courseValidator.EnrollmentID(), courseController.DeleteEnrollment)

	// Nested listings
	app.Get("/api/users/:user_id/enrollments", middleware.JWTMiddleware, userValidator.UserIDParam(), courseController.GetUserEnrollments)
	app.Get("/api/courses/:course_id/enrollments", middleware.JWTMiddleware, courseValidator.CourseIDParam(), courseController.GetCourseEnrollments)
}
