package courseController

import (
	"encoding/json"

	"greenacademy/cache"
	"greenacademy/config"
	"greenacademy/database"
	"greenacademy/middleware"
	courseModels "greenacademy/models/course"
	"greenacademy/permissions"
	"greenacademy/utils"
	courseValidator "greenacademy/validators/course"

	"github.com/gofiber/fiber/v2"
)

// ListActivities lists activities, optionally narrowed to one module via
// the module_id query filter. Open to everyone. The default first page of
// a per-module listing is cached and invalidated by every activity write
// in that module.
func ListActivities(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	moduleID := c.QueryInt("module_id", 0)
	cacheable := moduleID > 0 && c.Query("search") == "" && page == 1 && limit == config.AppConfig.PageSize
	cacheKey := cache.Key("activities", uint(moduleID))

	if cacheable {
		if raw, ok := cache.Client.Get(c.UserContext(), cacheKey); ok {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Activities fetched successfully!", json.RawMessage(raw))
		}
	}

	db := database.Database.Db.Model(&courseModels.Activity{})
	if moduleID > 0 {
		db = db.Where("module_id = ?", moduleID)
	}
	db = utils.ApplySearch(db, c.Query("search"), "title", "description")

	var total int64
	db.Count(&total)

	var activities []courseModels.Activity
	if err := db.Offset(offset).Limit(limit).Order("module_id asc, order_index asc").Find(&activities).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch activities!", nil)
	}

	response := utils.PaginatedResponse(activities, "activities", total, page, limit)

	if cacheable {
		if raw, err := json.Marshal(response); err == nil {
			cache.Client.Set(c.UserContext(), cacheKey, string(raw), config.AppConfig.CacheTTL)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activities fetched successfully!", response)
}

// GetActivity retrieves a single activity. Open to everyone.
func GetActivity(c *fiber.Ctx) error {
	activityID := c.Locals("activityID").(uint)

	var activity courseModels.Activity
	if err := database.Database.Db.First(&activity, activityID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity fetched successfully!", activity)
}

// CreateActivity creates an activity. Any authenticated actor may do this.
func CreateActivity(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if !permissions.CanManageContent(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	reqData, ok := c.Locals("validatedActivity").(*courseValidator.CreateActivityRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := database.Database.Db.First(&courseModels.Module{}, reqData.ModuleID).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"module_id": "Module does not exist!",
		})
	}

	activityType := reqData.Type
	if activityType == "" {
		activityType = courseModels.ActivityLesson
	}

	activity := courseModels.Activity{
		ModuleID:    reqData.ModuleID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Type:        activityType,
		Content:     reqData.Content,
		Order:       reqData.Order,
	}

	if err := database.Database.Db.Create(&activity).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create activity!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("activities", activity.ModuleID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Activity created successfully!", activity)
}

// UpdateActivity updates an activity. Authenticated actors only.
func UpdateActivity(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if !permissions.CanManageContent(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	activityID := c.Locals("activityID").(uint)

	var activity courseModels.Activity
	if err := database.Database.Db.First(&activity, activityID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity not found!", nil)
	}

	reqData, ok := c.Locals("validatedActivityUpdate").(*courseValidator.UpdateActivityRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		activity.Title = reqData.Title
	}
	if reqData.Description != "" {
		activity.Description = reqData.Description
	}
	if reqData.Type != "" {
		activity.Type = reqData.Type
	}
	if reqData.Content != nil {
		activity.Content = *reqData.Content
	}
	if reqData.Order != nil {
		activity.Order = *reqData.Order
	}

	if err := database.Database.Db.Save(&activity).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update activity!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("activities", activity.ModuleID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity updated successfully!", activity)
}

// DeleteActivity removes an activity. Authenticated actors only.
func DeleteActivity(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if !permissions.CanManageContent(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	activityID := c.Locals("activityID").(uint)

	var activity courseModels.Activity
	if err := database.Database.Db.First(&activity, activityID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Activity not found!", nil)
	}

	if err := database.Database.Db.Delete(&courseModels.Activity{}, activityID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete activity!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("activities", activity.ModuleID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Activity deleted successfully!", nil)
}
