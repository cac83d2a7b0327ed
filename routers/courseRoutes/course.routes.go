package courseRoutes

import (
	"greenacademy/cache"
	"greenacademy/config"
	courseController "greenacademy/controllers/course"
	"greenacademy/middleware"
	courseValidator "greenacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the course catalog and content tree routes.
// Reads are open to everyone; course writes are admin only, module and
// activity writes need authentication only.
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/api/courses")

	courseGroup.Get("/", cache.Page(config.AppConfig.CacheTTL), courseController.GetAllCourses)
	courseGroup.Get("/featured", cache.Page(config.AppConfig.FeaturedCacheTTL), courseController.GetFeaturedCourses)
	courseGroup.Get("/:id", courseValidator.CourseID(), courseController.GetCourseDetails)

	courseGroup.Post("/", middleware.JWTMiddleware, courseValidator.CreateCourse(), courseController.CreateCourse)
	courseGroup.Put("/:id", middleware.JWTMiddleware, courseValidator.CourseID(), courseValidator.UpdateCourse(), courseController.UpdateCourse)
	courseGroup.Patch("/:id", middleware.JWTMiddleware, courseValidator.CourseID(), courseValidator.UpdateCourse(), courseController.UpdateCourse)
	courseGroup.Delete("/:id", middleware.JWTMiddleware, courseValidator.CourseID(), courseController.DeleteCourse)

	moduleGroup := app.Group("/api/modules")

	// Module and activity listings cache their per-parent first page inside
	// the handler so writes can invalidate it; no page cache here.
	moduleGroup.Get("/", courseController.ListModules)
	moduleGroup.Get("/:id", courseValidator.ModuleID(), courseController.GetModule)
	moduleGroup.Post("/", middleware.JWTMiddleware, courseValidator.CreateModule(), courseController.CreateModule)
	moduleGroup.Put("/:id", middleware.JWTMiddleware, courseValidator.ModuleID(), courseValidator.UpdateModule(), courseController.UpdateModule)
	moduleGroup.Patch("/:id", middleware.JWTMiddleware, courseValidator.ModuleID(), courseValidator.UpdateModule(), courseController.UpdateModule)
	moduleGroup.Delete("/:id", middleware.JWTMiddleware, courseValidator.ModuleID(), courseController.DeleteModule)

	activityGroup := app.Group("/api/activities")

	activityGroup.Get("/", courseController.ListActivities)
	activityGroup.Get("/:id", courseValidator.ActivityID(), courseController.GetActivity)
	activityGroup.Post("/", middleware.JWTMiddleware, courseValidator.CreateActivity(), courseController.CreateActivity)
	activityGroup.Put("/:id", middleware.JWTMiddleware, courseValidator.ActivityID(), courseValidator.UpdateActivity(), courseController.UpdateActivity)
	activityGroup.Patch("/:id", middleware.JWTMiddleware, courseValidator.ActivityID(), courseValidator.UpdateActivity(), courseController.UpdateActivity)
	activityGroup.Delete("/:id", middleware.JWTMiddleware, courseValidator.ActivityID(), courseController.DeleteActivity)
}
