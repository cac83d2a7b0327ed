package courseController

import (
	"encoding/json"

	"greenacademy/cache"
	"greenacademy/config"
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

func enrollmentPayload(e *courseModels.Enrollment, user *models.User, course *courseModels.Course) fiber.Map {
	payload := fiber.Map{
		"id":                    e.ID,
		"enrolled_at":           e.EnrolledAt,
		"status":                e.Status,
		"completion_percentage": e.CompletionPercentage,
	}
	if user != nil {
		payload["user"] = fiber.Map{"id": user.ID, "username": user.Username, "email": user.Email}
	} else {
		payload["user"] = fiber.Map{"id": e.UserID}
	}
	if course != nil {
		payload["course"] = fiber.Map{"id": course.ID, "title": course.Title}
	} else {
		payload["course"] = fiber.Map{"id": e.CourseID}
	}
	return payload
}

// enrollmentPayloads shapes a list of enrollments, batch-loading the
// referenced users and courses.
func enrollmentPayloads(db *gorm.DB, enrollments []courseModels.Enrollment) []fiber.Map {
	userIDs := make([]uint, 0, len(enrollments))
	courseIDs := make([]uint, 0, len(enrollments))
	for i := range enrollments {
		userIDs = append(userIDs, enrollments[i].UserID)
		courseIDs = append(courseIDs, enrollments[i].CourseID)
	}

	users := make(map[uint]*models.User)
	if len(userIDs) > 0 {
		var rows []models.User
		db.Where("id IN ?", userIDs).Find(&rows)
		for i := range rows {
			users[rows[i].ID] = &rows[i]
		}
	}

	courses := make(map[uint]*courseModels.Course)
	if len(courseIDs) > 0 {
		var rows []courseModels.Course
		db.Where("id IN ?", courseIDs).Find(&rows)
		for i := range rows {
			courses[rows[i].ID] = &rows[i]
		}
	}

	payload := make([]fiber.Map, 0, len(enrollments))
	for i := range enrollments {
		e := &enrollments[i]
		payload = append(payload, enrollmentPayload(e, users[e.UserID], courses[e.CourseID]))
	}
	return payload
}

// ListEnrollments lists the enrollments the actor may see: staff get all
// rows, everyone else only their own.
func ListEnrollments(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page, limit, offset := utils.Pagination(c)

	db := permissions.VisibleEnrollments(database.Database.Db.Model(&courseModels.Enrollment{}), actor)
	db = utils.ApplySearch(db, c.Query("search"), "status")

	var total int64
	db.Count(&total)

	var enrollments []courseModels.Enrollment
	if err := db.Offset(offset).Limit(limit).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!",
		utils.PaginatedResponse(enrollmentPayloads(database.Database.Db, enrollments), "enrollments", total, page, limit))
}

// CreateEnrollment enrolls a user in a course. A non-staff actor always
// enrolls themselves: an explicit different user_id is silently overridden,
// never rejected.
func CreateEnrollment(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollment").(*courseValidator.CreateEnrollmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	ownerID := permissions.EnrollmentOwner(actor, reqData.UserID)

	var owner models.User
	if err := db.First(&owner, ownerID).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"user_id": "User does not exist!",
		})
	}

	var course courseModels.Course
	if err := db.First(&course, reqData.CourseID).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"course_id": "Course does not exist!",
		})
	}

	// Check before insert for a clean error; the unique index settles
	// concurrent creates for the same pair.
	var existing courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", ownerID, course.ID).First(&existing).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already enrolled in this course!",
			fiber.Map{"detail": "User is already enrolled in this course."})
	}

	enrollment := courseModels.Enrollment{
		UserID:   ownerID,
		CourseID: course.ID,
		Status:   courseModels.StatusActive,
	}

	if err := db.Create(&enrollment).Error; err != nil {
		// Lost the race on the unique index
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User is already enrolled in this course!",
			fiber.Map{"detail": "User is already enrolled in this course."})
	}

	cache.Client.Delete(c.UserContext(), cache.Key("enrollments", ownerID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!",
		enrollmentPayload(&enrollment, &owner, &course))
}

// GetEnrollment retrieves a single enrollment. Owner or staff only; a
// foreign enrollment fetched directly by id is forbidden, not hidden.
func GetEnrollment(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if !permissions.CanAccessEnrollment(actor, &enrollment) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	var user models.User
	database.Database.Db.First(&user, enrollment.UserID)
	var course courseModels.Course
	database.Database.Db.First(&course, enrollment.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully!",
		enrollmentPayload(&enrollment, &user, &course))
}

// UpdateEnrollment updates status and completion percentage. Owner or
// staff only. All status transitions are permitted.
func UpdateEnrollment(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if !permissions.CanAccessEnrollment(actor, &enrollment) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	reqData, ok := c.Locals("validatedEnrollmentUpdate").(*courseValidator.UpdateEnrollmentRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Status != "" {
		enrollment.Status = reqData.Status
	}
	if reqData.CompletionPercentage != nil {
		enrollment.CompletionPercentage = *reqData.CompletionPercentage
	}

	if err := database.Database.Db.Save(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("enrollments", enrollment.UserID))

	var user models.User
	database.Database.Db.First(&user, enrollment.UserID)
	var course courseModels.Course
	database.Database.Db.First(&course, enrollment.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment updated successfully!",
		enrollmentPayload(&enrollment, &user, &course))
}

// DeleteEnrollment unenrolls. Owner or staff only.
func DeleteEnrollment(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	enrollmentID := c.Locals("enrollmentID").(uint)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.First(&enrollment, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if !permissions.CanAccessEnrollment(actor, &enrollment) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	if err := database.Database.Db.Delete(&courseModels.Enrollment{}, enrollmentID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete enrollment!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("enrollments", enrollment.UserID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully!", nil)
}

// GetUserEnrollments lists enrollments for the user named in the path.
// Denied access surfaces as not-found here, unlike the object-level
// forbidden on direct enrollment routes. The result is cached per user id
// and invalidated by every enrollment mutation.
func GetUserEnrollments(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	userID := c.Locals("userID").(uint)

	if !permissions.CanListUserEnrollments(actor, userID) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found!", nil)
	}

	cacheKey := cache.Key("enrollments", userID)
	if raw, ok := cache.Client.Get(c.UserContext(), cacheKey); ok {
		var cached []json.RawMessage
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", cached)
		}
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ?", userID).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	payload := enrollmentPayloads(database.Database.Db, enrollments)

	if raw, err := json.Marshal(payload); err == nil {
		cache.Client.Set(c.UserContext(), cacheKey, string(raw), config.AppConfig.CacheTTL)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!", payload)
}

// GetCourseEnrollments lists enrollments for the course named in the path.
// Admin only.
func GetCourseEnrollments(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if !actor.IsStaff {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	courseID := c.Locals("courseID").(uint)

	if err := database.Database.Db.First(&courseModels.Course{}, courseID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var enrollments []courseModels.Enrollment
	if err := database.Database.Db.Where("course_id = ?", courseID).Order("enrolled_at desc").Find(&enrollments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollments!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully!",
		enrollmentPayloads(database.Database.Db, enrollments))
}
