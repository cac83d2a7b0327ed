package courseController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"greenacademy/cache"
	"greenacademy/database"
	"greenacademy/models"
	courseModels "greenacademy/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createModule(t *testing.T, courseID uint, title string, order int) *courseModels.Module {
	t.Helper()

	module := &courseModels.Module{CourseID: courseID, Title: title, Order: order}
	require.NoError(t, database.Database.Db.Create(module).Error)
	return module
}

// Content writes need authentication but no particular role: students,
// instructors and admins are all allowed.
func TestModuleWritesNeedAuthOnly(t *testing.T) {
	app := setupTestApp(t)

	teacher := createUser(t, "teacher", models.RoleInstructor)
	student := createUser(t, "student", models.RoleStudent)
	course := createCourse(t, "Rainwater Harvesting", teacher.ID)

	body := map[string]interface{}{
		"course_id": course.ID,
		"title":     "Week 1: Gutters",
		"order":     1,
	}

	resp, _ := doRequest(t, app, http.MethodPost, "/api/modules", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, parsed := doRequest(t, app, http.MethodPost, "/api/modules", accessToken(t, student), body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed.Data, &created))
	assert.Equal(t, "Week 1: Gutters", created["title"])
	assert.Equal(t, float64(0), created["activity_count"])
}

func TestCreateModuleUnknownCourse(t *testing.T) {
	app := setupTestApp(t)

	student := createUser(t, "student", models.RoleStudent)

	resp, parsed := doRequest(t, app, http.MethodPost, "/api/modules", accessToken(t, student), map[string]interface{}{
		"course_id": 424242,
		"title":     "Orphan Module",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var data map[string]string
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	assert.Contains(t, data, "course_id")
}

func TestListModulesByCourseUsesCache(t *testing.T) {
	app := setupTestApp(t)

	teacher := createUser(t, "teacher", models.RoleInstructor)
	student := createUser(t, "student", models.RoleStudent)
	course := createCourse(t, "Drip Irrigation", teacher.ID)
	createModule(t, course.ID, "Basics", 1)

	listURL := fmt.Sprintf("/api/modules?course_id=%d", course.ID)
	cacheKey := cache.Key("modules", course.ID)
	store := cache.Client.(*cache.MemoryStore)

	resp, parsed := doRequest(t, app, http.MethodGet, listURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, store.Has(cacheKey))

	data := decodeList(t, parsed.Data, "modules")
	require.Len(t, data.Items, 1)

	// A module write drops the cached listing and the next read sees it.
	resp, _ = doRequest(t, app, http.MethodPost, "/api/modules", accessToken(t, student), map[string]interface{}{
		"course_id": course.ID,
		"title":     "Emitters",
		"order":     2,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, store.Has(cacheKey))

	resp, parsed = doRequest(t, app, http.MethodGet, listURL, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data = decodeList(t, parsed.Data, "modules")
	assert.Len(t, data.Items, 2)
}

func TestUpdateModuleOrder(t *testing.T) {
	app := setupTestApp(t)

	teacher := createUser(t, "teacher", models.RoleInstructor)
	course := createCourse(t, "Greenhouses", teacher.ID)
	module := createModule(t, course.ID, "Framing", 5)

	resp, parsed := doRequest(t, app, http.MethodPatch, fmt.Sprintf("/api/modules/%d", module.ID), accessToken(t, teacher), map[string]interface{}{
		"order": 0,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated map[string]interface{}
	require.NoError(t, json.Unmarshal(parsed.Data, &updated))
	assert.Equal(t, float64(0), updated["order"])
	assert.Equal(t, "Framing", updated["title"])

	resp, _ = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/api/modules/%d", module.ID), accessToken(t, teacher), map[string]interface{}{
		"order": -1,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDeleteModuleCascadesActivities(t *testing.T) {
	app := setupTestApp(t)

	teacher := createUser(t, "teacher", models.RoleInstructor)
	course := createCourse(t, "Mushroom Farming", teacher.ID)
	module := createModule(t, course.ID, "Substrate", 1)

	activity := courseModels.Activity{ModuleID: module.ID, Title: "Sterilizing", Type: courseModels.ActivityLesson}
	require.NoError(t, database.Database.Db.Create(&activity).Error)

	resp, _ := doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/modules/%d", module.ID), accessToken(t, teacher), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	database.Database.Db.Model(&courseModels.Activity{}).Where("module_id = ?", module.ID).Count(&count)
	assert.Zero(t, count)
}

func TestActivityLifecycle(t *testing.T) {
	app := setupTestApp(t)

	teacher := createUser(t, "teacher", models.RoleInstructor)
	student := createUser(t, "student", models.RoleStudent)
	course := createCourse(t, "Vermiculture", teacher.ID)
	module := createModule(t, course.ID, "Worm Bins", 1)

	resp, parsed := doRequest(t, app, http.MethodPost, "/api/activities", accessToken(t, student), map[string]interface{}{
		"module_id": module.ID,
		"title":     "Bin Quiz",
		"type":      courseModels.ActivityQuiz,
		"content":   "What do red wigglers eat?",
		"order":     1,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created courseModels.Activity
	require.NoError(t, json.Unmarshal(parsed.Data, &created))
	assert.Equal(t, courseModels.ActivityQuiz, created.Type)

	// The type enum is closed.
	resp, _ = doRequest(t, app, http.MethodPost, "/api/activities", accessToken(t, student), map[string]interface{}{
		"module_id": module.ID,
		"title":     "Bad Type",
		"type":      "WORKSHOP",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, parsed = doRequest(t, app, http.MethodPatch, fmt.Sprintf("/api/activities/%d", created.ID), accessToken(t, teacher), map[string]interface{}{
		"title": "Bin Quiz v2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var updated courseModels.Activity
	require.NoError(t, json.Unmarshal(parsed.Data, &updated))
	assert.Equal(t, "Bin Quiz v2", updated.Title)
	assert.Equal(t, courseModels.ActivityQuiz, updated.Type)

	resp, _ = doRequest(t, app, http.MethodDelete, fmt.Sprintf("/api/activities/%d", created.ID), accessToken(t, teacher), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, http.MethodGet, fmt.Sprintf("/api/activities/%d", created.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateActivityUnknownModule(t *testing.T) {
	app := setupTestApp(t)

	student := createUser(t, "student", models.RoleStudent)

	resp, parsed := doRequest(t, app, http.MethodPost, "/api/activities", accessToken(t, student), map[string]interface{}{
		"module_id": 424242,
		"title":     "Orphan Activity",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var data map[string]string
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	assert.Contains(t, data, "module_id")
}
