package middleware

import (
	"fmt"

	"greenacademy/database"
	"greenacademy/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser resolves the authenticated actor set by JWTMiddleware to its
// database record. The record is authoritative for staff/group checks; the
// token only identifies the user.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, fmt.Errorf("user id not found in request context")
	}

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found")
	}
	return &user, nil
}
