package authController_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"greenacademy/cache"
	"greenacademy/config"
	"greenacademy/database"
	"greenacademy/middleware"
	"greenacademy/models"
	authRoutes "greenacademy/routers/authRoutes"
	userRoutes "greenacademy/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
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

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	cache.Client = cache.NewMemoryStore()

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	return app
}

func createUser(t *testing.T, username, password, role string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
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

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, apiResponse) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var parsed apiResponse
	require.NoError(t, json.Unmarshal(out, &parsed))
	return resp, parsed
}

type tokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    struct {
		ID       uint   `json:"id"`
		Username string `json:"username"`
		Role     string `json:"role"`
		IsStaff  bool   `json:"is_staff"`
	} `json:"user"`
}

func TestLoginWithUsername(t *testing.T) {
	app := setupTestApp(t)
	createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	resp, parsed := postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"username": "alice",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, parsed.Status)

	var pair tokenPair
	require.NoError(t, json.Unmarshal(parsed.Data, &pair))
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.Equal(t, "alice", pair.User.Username)
	assert.Equal(t, models.RoleStudent, pair.User.Role)
	assert.False(t, pair.User.IsStaff)
}

func TestLoginWithEmail(t *testing.T) {
	app := setupTestApp(t)
	createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	resp, parsed := postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"email":    "alice@greenacademy.test",
		"password": "sup3rsecret",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair tokenPair
	require.NoError(t, json.Unmarshal(parsed.Data, &pair))
	assert.Equal(t, "alice", pair.User.Username)
}

func TestLoginFailures(t *testing.T) {
	app := setupTestApp(t)
	createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	// Unknown email gets its own message.
	resp, parsed := postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"email":    "nobody@greenacademy.test",
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No user found with this email address!", parsed.Message)

	// Wrong password and unknown username share one.
	resp, parsed = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"username": "alice",
		"password": "wrongwrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials!", parsed.Message)

	resp, parsed = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"username": "nobody",
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials!", parsed.Message)

	// Neither username nor email is a validation error.
	resp, _ = postJSON(t, app, "/api/auth/login", map[string]interface{}{
		"password": "sup3rsecret",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRefreshToken(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	refresh, err := middleware.GenerateRefreshToken(user)
	require.NoError(t, err)

	resp, parsed := postJSON(t, app, "/api/auth/refresh", map[string]interface{}{
		"token": refresh,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var data map[string]string
	require.NoError(t, json.Unmarshal(parsed.Data, &data))
	assert.NotEmpty(t, data["access"])

	// The new access token works against a protected route.
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+data["access"])
	meResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meResp.StatusCode)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	access, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)

	resp, _ := postJSON(t, app, "/api/auth/refresh", map[string]interface{}{
		"token": access,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAccessRejectsRefreshToken(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	refresh, err := middleware.GenerateRefreshToken(user)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerifyToken(t *testing.T) {
	app := setupTestApp(t)
	user := createUser(t, "alice", "sup3rsecret", models.RoleStudent)

	access, err := middleware.GenerateAccessToken(user)
	require.NoError(t, err)

	resp, parsed := postJSON(t, app, "/api/auth/verify", map[string]interface{}{
		"token": access,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, parsed.Status)

	resp, _ = postJSON(t, app, "/api/auth/verify", map[string]interface{}{
		"token": "not.a.token",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
