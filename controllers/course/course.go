package courseController

import (
	"greenacademy/database"
	"greenacademy/middleware"
	"greenacademy/models"
	courseModels "greenacademy/models/course"
	"greenacademy/permissions"
	"greenacademy/utils"
	courseValidator "greenacademy/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// enrollmentCounts resolves enrollment counts for a set of course ids in
// one grouped query.
func enrollmentCounts(db *gorm.DB, courseIDs []uint) map[uint]int64 {
	counts := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return counts
	}

	var rows []struct {
		CourseID uint
		Total    int64
	}
	db.Model(&courseModels.Enrollment{}).
		Select("course_id, COUNT(*) as total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows)

	for _, row := range rows {
		counts[row.CourseID] = row.Total
	}
	return counts
}

func coursePayload(course *courseModels.Course, enrollments int64) fiber.Map {
	return fiber.Map{
		"id":               course.ID,
		"title":            course.Title,
		"description":      course.Description,
		"instructor_id":    course.InstructorID,
		"duration":         course.Duration,
		"level":            course.Level,
		"is_featured":      course.IsFeatured,
		"created_at":       course.CreatedAt,
		"updated_at":       course.UpdatedAt,
		"enrollment_count": enrollments,
	}
}

func listCourses(c *fiber.Ctx, featuredOnly bool) error {
	page, limit, offset := utils.Pagination(c)

	db := database.Database.Db.Model(&courseModels.Course{})
	if featuredOnly {
		db = db.Where("is_featured = ?", true)
	}
	db = utils.ApplySearch(db, c.Query("search"), "title", "description")

	var total int64
	db.Count(&total)

	var courses []courseModels.Course
	if err := db.Offset(offset).Limit(limit).Order("created_at desc").Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	ids := make([]uint, 0, len(courses))
	for i := range courses {
		ids = append(ids, courses[i].ID)
	}
	counts := enrollmentCounts(database.Database.Db, ids)

	payload := make([]fiber.Map, 0, len(courses))
	for i := range courses {
		payload = append(payload, coursePayload(&courses[i], counts[courses[i].ID]))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!",
		utils.PaginatedResponse(payload, "courses", total, page, limit))
}

// GetAllCourses lists courses. Open to everyone, cached wholesale.
func GetAllCourses(c *fiber.Ctx) error {
	return listCourses(c, false)
}

// GetFeaturedCourses lists featured courses. Open to everyone.
func GetFeaturedCourses(c *fiber.Ctx) error {
	return listCourses(c, true)
}

// GetCourseDetails retrieves a single course. Open to everyone.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	counts := enrollmentCounts(database.Database.Db, []uint{course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!",
		coursePayload(&course, counts[course.ID]))
}

// CreateCourse creates a new course. Admin only; the instructor reference
// must point at a staff user.
func CreateCourse(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !permissions.CanManageCourses(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	reqData, ok := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var instructor models.User
	if err := database.Database.Db.First(&instructor, reqData.InstructorID).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"instructor_id": "Instructor does not exist!",
		})
	}

	level := reqData.Level
	if level == "" {
		level = courseModels.LevelBeginner
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Description:  reqData.Description,
		InstructorID: reqData.InstructorID,
		Duration:     reqData.Duration,
		Level:        level,
		IsFeatured:   reqData.IsFeatured,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!",
		coursePayload(&course, 0))
}

// UpdateCourse updates a course. Admin only: even the course's own
// instructor is refused here.
func UpdateCourse(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !permissions.CanManageCourses(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedCourseUpdate").(*courseValidator.UpdateCourseRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Update only provided fields
	if reqData.Title != "" {
		course.Title = reqData.Title
	}
	if reqData.Description != "" {
		course.Description = reqData.Description
	}
	if reqData.InstructorID != 0 {
		var instructor models.User
		if err := database.Database.Db.First(&instructor, reqData.InstructorID).Error; err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"instructor_id": "Instructor does not exist!",
			})
		}
		course.InstructorID = reqData.InstructorID
	}
	if reqData.Duration != "" {
		course.Duration = reqData.Duration
	}
	if reqData.Level != "" {
		course.Level = reqData.Level
	}
	if reqData.IsFeatured != nil {
		course.IsFeatured = *reqData.IsFeatured
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	counts := enrollmentCounts(database.Database.Db, []uint{course.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!",
		coursePayload(&course, counts[course.ID]))
}

// DeleteCourse removes a course and cascades to its modules, activities
// and enrollments. Admin only.
func DeleteCourse(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !permissions.CanManageCourses(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(uint)

	var course courseModels.Course
	if err := database.Database.Db.First(&course, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var moduleIDs []uint
		if err := tx.Model(&courseModels.Module{}).Where("course_id = ?", courseID).Pluck("id", &moduleIDs).Error; err != nil {
			return err
		}
		if len(moduleIDs) > 0 {
			if err := tx.Where("module_id IN ?", moduleIDs).Delete(&courseModels.Activity{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&courseModels.Module{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&courseModels.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&courseModels.Course{}, courseID).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}
