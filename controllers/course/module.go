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
	"gorm.io/gorm"
)

// activityCounts resolves activity counts for a set of module ids in one
// grouped query.
func activityCounts(db *gorm.DB, moduleIDs []uint) map[uint]int64 {
	counts := make(map[uint]int64, len(moduleIDs))
	if len(moduleIDs) == 0 {
		return counts
	}

	var rows []struct {
		ModuleID uint
		Total    int64
	}
	db.Model(&courseModels.Activity{}).
		Select("module_id, COUNT(*) as total").
		Where("module_id IN ?", moduleIDs).
		Group("module_id").
		Scan(&rows)

	for _, row := range rows {
		counts[row.ModuleID] = row.Total
	}
	return counts
}

func modulePayload(module *courseModels.Module, activities int64) fiber.Map {
	return fiber.Map{
		"id":             module.ID,
		"course_id":      module.CourseID,
		"title":          module.Title,
		"description":    module.Description,
		"order":          module.Order,
		"created_at":     module.CreatedAt,
		"updated_at":     module.UpdatedAt,
		"activity_count": activities,
	}
}

// ListModules lists modules, optionally narrowed to one course via the
// course_id query filter. Open to everyone; the filter is a convenience,
// not a security boundary. The default first page of a per-course listing
// is cached and invalidated by every module write in that course.
func ListModules(c *fiber.Ctx) error {
	page, limit, offset := utils.Pagination(c)

	courseID := c.QueryInt("course_id", 0)
	cacheable := courseID > 0 && c.Query("search") == "" && page == 1 && limit == config.AppConfig.PageSize
	cacheKey := cache.Key("modules", uint(courseID))

	if cacheable {
		if raw, ok := cache.Client.Get(c.UserContext(), cacheKey); ok {
			return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", json.RawMessage(raw))
		}
	}

	db := database.Database.Db.Model(&courseModels.Module{})
	if courseID > 0 {
		db = db.Where("course_id = ?", courseID)
	}
	db = utils.ApplySearch(db, c.Query("search"), "title", "description")

	var total int64
	db.Count(&total)

	var modules []courseModels.Module
	if err := db.Offset(offset).Limit(limit).Order("course_id asc, order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	ids := make([]uint, 0, len(modules))
	for i := range modules {
		ids = append(ids, modules[i].ID)
	}
	counts := activityCounts(database.Database.Db, ids)

	payload := make([]fiber.Map, 0, len(modules))
	for i := range modules {
		payload = append(payload, modulePayload(&modules[i], counts[modules[i].ID]))
	}

	response := utils.PaginatedResponse(payload, "modules", total, page, limit)

	if cacheable {
		if raw, err := json.Marshal(response); err == nil {
			cache.Client.Set(c.UserContext(), cacheKey, string(raw), config.AppConfig.CacheTTL)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", response)
}

// GetModule retrieves a single module. Open to everyone.
func GetModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(uint)

	var module courseModels.Module
	if err := database.Database.Db.First(&module, moduleID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	counts := activityCounts(database.Database.Db, []uint{module.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module fetched successfully!",
		modulePayload(&module, counts[module.ID]))
}

// CreateModule creates a module. Any authenticated actor may do this;
// there is no ownership check on the content tree.
func CreateModule(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if !permissions.CanManageContent(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*courseValidator.CreateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := database.Database.Db.First(&courseModels.Course{}, reqData.CourseID).Error; err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"course_id": "Course does not exist!",
		})
	}

	module := courseModels.Module{
		CourseID:    reqData.CourseID,
		Title:       reqData.Title,
		Description: reqData.Description,
		Order:       reqData.Order,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("modules", module.CourseID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!",
		modulePayload(&module, 0))
}

// UpdateModule updates a module. Authenticated actors only.
func UpdateModule(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if !permissions.CanManageContent(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	moduleID := c.Locals("moduleID").(uint)

	var module courseModels.Module
	if err := database.Database.Db.First(&module, moduleID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedModuleUpdate").(*courseValidator.UpdateModuleRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		module.Title = reqData.Title
	}
	if reqData.Description != "" {
		module.Description = reqData.Description
	}
	if reqData.Order != nil {
		module.Order = *reqData.Order
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("modules", module.CourseID))

	counts := activityCounts(database.Database.Db, []uint{module.ID})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!",
		modulePayload(&module, counts[module.ID]))
}

// DeleteModule removes a module and its activities. Authenticated actors only.
func DeleteModule(c *fiber.Ctx) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	if !permissions.CanManageContent(actor) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
	}

	moduleID := c.Locals("moduleID").(uint)

	var module courseModels.Module
	if err := database.Database.Db.First(&module, moduleID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("module_id = ?", moduleID).Delete(&courseModels.Activity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&courseModels.Module{}, moduleID).Error
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	cache.Client.Delete(c.UserContext(), cache.Key("modules", module.CourseID))

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}
