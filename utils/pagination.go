package utils

import (
	"strings"

	"greenacademy/config"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Pagination reads page/limit query parameters with sane defaults
func Pagination(c *fiber.Ctx) (page, limit, offset int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", config.AppConfig.PageSize)
	if limit < 1 {
		limit = config.AppConfig.PageSize
	}
	return page, limit, (page - 1) * limit
}

// ApplySearch narrows a query with a case-insensitive substring match over
// the given columns. Applied after visibility filtering, before pagination.
func ApplySearch(db *gorm.DB, term string, columns ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return db
	}

	pattern := "%" + strings.ToLower(term) + "%"
	query := ""
	args := make([]interface{}, 0, len(columns))
	for i, col := range columns {
		if i > 0 {
			query += " OR "
		}
		query += "LOWER(" + col + ") LIKE ?"
		args = append(args, pattern)
	}
	return db.Where(query, args...)
}

// PaginatedResponse is the standard shape for list payloads
func PaginatedResponse(items interface{}, itemsKey string, total int64, page, limit int) fiber.Map {
	return fiber.Map{
		itemsKey: items,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}
}
