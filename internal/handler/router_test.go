package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bigsteppa/backend/internal/config"
	"github.com/bigsteppa/backend/internal/events"
	"github.com/bigsteppa/backend/internal/handler"
	"github.com/bigsteppa/backend/internal/middleware"
	"github.com/bigsteppa/backend/internal/models"
	"github.com/bigsteppa/backend/internal/repository"
	"github.com/bigsteppa/backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testPassword = "Str0ng!Pass"

type testEnv struct {
	router *gin.Engine
	hub    *events.Hub
	db     *gorm.DB
}

// newTestEnv wires the full API the way cmd/server does, on an in-memory
// SQLite database and an in-process token blacklist.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Credential{},
		&models.Challenge{},
		&models.ChallengeLog{},
	))

	userRepo := repository.NewUserRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	challengeLogRepo := repository.NewChallengeLogRepository(db)

	blacklist := service.NewTokenBlacklist(nil)
	authService := service.NewAuthService(userRepo, blacklist, config.JWTConfig{
		Secret:        "test-secret",
		ExpireSeconds: 1800,
	})
	userService := service.NewUserService(userRepo)

	hub := events.NewHub()
	challengeService := service.NewChallengeService(challengeRepo, challengeLogRepo, hub)

	router := gin.New()
	api := router.Group("/api")
	authMiddleware := middleware.AuthMiddleware(authService)
	handler.NewAuthHandler(authService).RegisterRoutes(api, authMiddleware)
	handler.NewUserHandler(userService).RegisterRoutes(api, authMiddleware)
	handler.NewChallengeHandler(challengeService, hub).RegisterRoutes(api, authMiddleware)

	return &testEnv{router: router, hub: hub, db: db}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns its bearer token
// and user ID.
func (e *testEnv) register(t *testing.T, email, username string) (string, string) {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"username": username,
		"password": testPassword,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.User.ID)
	return resp.Token, resp.User.ID
}

// createChallenge creates a challenge through the API and returns its ID
func (e *testEnv) createChallenge(t *testing.T, token string) string {
	t.Helper()

	w := e.request(t, http.MethodPost, "/api/challenges/create_challenge", token, gin.H{
		"name":          "30 days of running",
		"durationValue": 30,
		"durationUnit":  "Days",
		"startDate":     "2025-01-01T00:00:00Z",
		"reminderTime":  "08:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	list := e.request(t, http.MethodGet, "/api/challenges/challenges", token, nil)
	require.Equal(t, http.StatusOK, list.Code)

	var challenges []models.Challenge
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &challenges))
	require.NotEmpty(t, challenges)
	return challenges[len(challenges)-1].ID
}
