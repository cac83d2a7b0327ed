package authController

import (
	"log"

	"greenacademy/database"
	"greenacademy/middleware"
	"greenacademy/models"
	authValidator "greenacademy/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Login authenticates with username or email plus password and returns an
// access/refresh token pair with a user summary.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db
	username := reqData.Username

	// Email-only login resolves the username first
	if username == "" {
		var user models.User
		if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
			logAuthAttempt(reqData.Email, false)
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "No user found with this email address!", nil)
		}
		username = user.Username
	}

	var user models.User
	if err := db.Where("username = ?", username).First(&user).Error; err != nil {
		logAuthAttempt(username, false)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		logAuthAttempt(username, false)
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	accessToken, err := middleware.GenerateAccessToken(&user)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process login!", nil)
	}

	refreshToken, err := middleware.GenerateRefreshToken(&user)
	if err != nil {
		log.Printf("Error generating refresh token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process login!", nil)
	}

	logAuthAttempt(username, true)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"access":  accessToken,
		"refresh": refreshToken,
		"user": fiber.Map{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"full_name": user.FullName,
			"is_staff":  user.IsStaff,
			"role":      user.Role(),
		},
	})
}

// Refresh exchanges a valid refresh token for a new access token
func Refresh(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedToken").(*authValidator.TokenRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	claims, err := middleware.ParseToken(reqData.Token)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	userID := uint(claims["userId"].(float64))
	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	accessToken, err := middleware.GenerateAccessToken(&user)
	if err != nil {
		log.Printf("Error generating access token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to refresh token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed successfully!", fiber.Map{
		"access": accessToken,
	})
}

// Verify reports whether a token is valid
func Verify(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedToken").(*authValidator.TokenRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if _, err := middleware.ParseToken(reqData.Token); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token is valid.", nil)
}

// logAuthAttempt records login attempts. Best effort only: it must never
// abort the request it describes.
func logAuthAttempt(identity string, success bool) {
	if identity == "" {
		return
	}
	if success {
		log.Printf("Login attempt succeeded for %s", identity)
		return
	}
	log.Printf("Failed login attempt for %s", identity)
}
