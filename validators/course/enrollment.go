package courseValidator

import (
	"greenacademy/middleware"
	"greenacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateEnrollmentRequest struct {
	// UserID is advisory: non-staff actors always enroll themselves,
	// whatever they ask for.
	UserID   uint `json:"user_id"`
	CourseID uint `json:"course_id" validate:"required"`
}

type UpdateEnrollmentRequest struct {
	Status               string `json:"status" validate:"omitempty,oneof=ACTIVE COMPLETED PAUSED DROPPED"`
	CompletionPercentage *int   `json:"completion_percentage" validate:"omitempty,min=0,max=100"`
}

// CreateEnrollment validates the enrollment creation payload
func CreateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateEnrollmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

// UpdateEnrollment validates the status/percentage update payload
func UpdateEnrollment() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateEnrollmentRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedEnrollmentUpdate", reqData)
		return c.Next()
	}
}

// EnrollmentID validates the :id path parameter
func EnrollmentID() fiber.Handler {
	return ParamID("id", "enrollmentID", "Enrollment")
}
