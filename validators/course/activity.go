package courseValidator

import (
	"greenacademy/middleware"
	"greenacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateActivityRequest struct {
	ModuleID    uint   `json:"module_id" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,oneof=LESSON QUIZ ASSIGNMENT"`
	Content     string `json:"content"`
	Order       int    `json:"order" validate:"gte=0"`
}

type UpdateActivityRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type" validate:"omitempty,oneof=LESSON QUIZ ASSIGNMENT"`
	Content     *string `json:"content"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
}

// CreateActivity validates the activity creation payload
func CreateActivity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateActivityRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedActivity", reqData)
		return c.Next()
	}
}

// UpdateActivity validates the activity update payload
func UpdateActivity() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateActivityRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.FieldErrors(err))
		}

		c.Locals("validatedActivityUpdate", reqData)
		return c.Next()
	}
}

// ActivityID validates the :id path parameter
func ActivityID() fiber.Handler {
	return ParamID("id", "activityID", "Activity")
}
