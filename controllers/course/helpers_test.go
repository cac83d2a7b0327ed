package courseController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenacademy/cache"
	"greenacademy/config"
	"greenacademy/database"
	"greenacademy/middleware"
	"greenacademy/models"
	courseModels "greenacademy/models/course"
	courseRoutes "greenacademy/routers/courseRoutes"
	enrollmentRoutes "greenacademy/routers/enrollmentRoutes"
	userRoutes "greenacademy/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type listResponse struct {
	Items      []map[string]interface{}
	Pagination struct {
		Total int64 `json:"total"`
		Page  int   `json:"page"`
		Limit int   `json:"limit"`
	} `json:"pagination"`
}

func decodeList(t *testing.T, data json.RawMessage, itemsKey string) listResponse {
	t.Helper()

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	var out listResponse
	require.NoError(t, json.Unmarshal(raw["pagination"], &out.Pagination))
	require.NoError(t, json.Unmarshal(raw[itemsKey], &out.Items))
	return out
}

func courseURL(id uint) string {
	return fmt.Sprintf("/api/courses/%d", id)
}

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	cache.Client = cache.NewMemoryStore()

	app := fiber.New()
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	return app
}

func createUser(t *testing.T, username, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("sup3rsecret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Username: username,
		Email:    username + "@greenacademy.test",
		Password: string(hash),
		IsStaff:  role == models.RoleAdmin,
		Group:    models.GroupForRole(role),
	}
	require.NoError(t, database.Database.Db.Create(user).Error)
	return user
}

func createCourse(t *testing.T, title string, instructorID uint) *courseModels.Course {
	t.Helper()

	course := &courseModels.Course{
		Title:        title,
		Description:  "A course about " + title,
		InstructorID: instructorID,
		Duration:     "4 weeks",
		Level:        courseModels.LevelBeginner,
	}
	require.NoError(t, database.Database.Db.Create(course).Error)
	return course
}

func accessToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return resp, parsed
}
