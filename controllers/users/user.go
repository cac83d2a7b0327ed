package userController

import (
	"log"

	"greenacademy/config"
	"greenacademy/database"
	"greenacademy/middleware"
	"greenacademy/models"
	courseModels "greenacademy/models/course"
	"greenacademy/permissions"
	"greenacademy/utils"
	userValidator "greenacademy/validators/users"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func userPayload(u *models.User) fiber.Map {
	return fiber.Map{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"full_name":   u.FullName,
		"date_joined": u.CreatedAt,
		"is_staff":    u.IsStaff,
		"role":        u.Role(),
	}
}

// CreateUser registers a new account. Registration is open to anyone.
func CreateUser(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedRegister").(*userValidator.RegisterRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	if err := db.Where("username = ?", reqData.Username).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already registered!",
			fiber.Map{"username": "A user with that username already exists."})
	}
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!",
			fiber.Map{"email": "A user with that email already exists."})
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	// Unspecified role falls back to ADMIN. Questionable default, kept on
	// purpose; see DESIGN.md.
	role := reqData.Role
	if role == "" {
		role = models.RoleAdmin
	}

	// Only the ADMIN role implies staff. Instructors stay non-staff so the
	// derived-role precedence (staff wins) keeps the three roles distinct.
	isStaff := role == models.RoleAdmin
	if reqData.IsStaff != nil && *reqData.IsStaff {
		isStaff = true
	}

	newUser := models.User{
		Username: reqData.Username,
		Email:    reqData.Email,
		FullName: reqData.FullName,
		Password: string(hashedPassword),
		IsStaff:  isStaff,
		Group:    models.GroupForRole(role),
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", userPayload(&newUser))
}

// ListUsers lists the user collection the actor may see: staff get everyone,
// anyone else gets a single-element list holding themselves.
func ListUsers(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page, limit, offset := utils.Pagination(c)

	db := permissions.VisibleUsers(database.Database.Db.Model(&models.User{}), actor)
	db = utils.ApplySearch(db, c.Query("search"), "username", "email", "full_name")

	var total int64
	db.Count(&total)

	var users []models.User
	if err := db.Offset(offset).Limit(limit).Order("id asc").Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	payload := make([]fiber.Map, 0, len(users))
	for i := range users {
		payload = append(payload, userPayload(&users[i]))
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched successfully!",
		utils.PaginatedResponse(payload, "users", total, page, limit))
}

// GetUser retrieves a single user. Owner or staff only.
func GetUser(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID := c.Locals("userID").(uint)
	if !permissions.CanAccessUser(actor, targetID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	var user models.User
	if err := database.Database.Db.First(&user, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", userPayload(&user))
}

// UpdateUser updates a user record. Owner or staff only.
func UpdateUser(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID := c.Locals("userID").(uint)
	if !permissions.CanAccessUser(actor, targetID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, targetID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedUserUpdate").(*userValidator.UpdateUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Username != "" && reqData.Username != user.Username {
		if err := db.Where("username = ?", reqData.Username).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already registered!",
				fiber.Map{"username": "A user with that username already exists."})
		}
		user.Username = reqData.Username
	}
	if reqData.Email != "" && reqData.Email != user.Email {
		if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!",
				fiber.Map{"email": "A user with that email already exists."})
		}
		user.Email = reqData.Email
	}
	if reqData.FullName != "" {
		user.FullName = reqData.FullName
	}
	if reqData.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}
		user.Password = string(hashedPassword)
	}
	if reqData.IsStaff != nil {
		user.IsStaff = *reqData.IsStaff
	}

	if err := db.Save(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User updated successfully!", userPayload(&user))
}

// DeleteUser removes a user and everything they own. Owner or staff only.
func DeleteUser(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	targetID := c.Locals("userID").(uint)
	if !permissions.CanAccessUser(actor, targetID) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	return deleteUserAccount(c, targetID)
}

// Me returns the authenticated user's details
func Me(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User fetched successfully!", userPayload(actor))
}

// ExportPersonalData exports all personal data held for the authenticated
// user: the account record and their enrollments.
func ExportPersonalData(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var enrollments []courseModels.Enrollment
	database.Database.Db.Where("user_id = ?", actor.ID).Find(&enrollments)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Personal data exported successfully!", fiber.Map{
		"user":        userPayload(actor),
		"enrollments": enrollments,
	})
}

// DeleteAccount lets the authenticated user delete their own account
func DeleteAccount(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	return deleteUserAccount(c, actor.ID)
}

// deleteUserAccount removes the user, their enrollments, and the courses
// they instruct with each course's modules, activities and enrollments.
func deleteUserAccount(c *fiber.Ctx, userID uint) error {
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var courseIDs []uint
		if err := tx.Model(&courseModels.Course{}).Where("instructor_id = ?", userID).Pluck("id", &courseIDs).Error; err != nil {
			return err
		}

		if len(courseIDs) > 0 {
			var moduleIDs []uint
			if err := tx.Model(&courseModels.Module{}).Where("course_id IN ?", courseIDs).Pluck("id", &moduleIDs).Error; err != nil {
				return err
			}
			if len(moduleIDs) > 0 {
				if err := tx.Where("module_id IN ?", moduleIDs).Delete(&courseModels.Activity{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("course_id IN ?", courseIDs).Delete(&courseModels.Module{}).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id IN ?", courseIDs).Delete(&courseModels.Enrollment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", courseIDs).Delete(&courseModels.Course{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&courseModels.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
	if err != nil {
		log.Printf("Error deleting user %d: %v", userID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account deleted successfully.", nil)
}
