package authController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lms/config"
	"lms/database"
	"lms/models"
	authValidator "lms/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const correctPassword = "correct-horse"

type loginEnv struct {
	app  *fiber.App
	db   *gorm.DB
	user models.User
}

func newLoginEnv(t *testing.T) *loginEnv {
	t.Helper()
	config.AppConfig = &config.Config{JWTKey: "test-secret", SaltRound: bcrypt.MinCost, SchedulerTimezone: "UTC"}

	db, err := database.OpenSQLite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	database.Database.Db = db

	hash, err := bcrypt.GenerateFromPassword([]byte(correctPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{Name: "Student", Email: "student@example.com", Password: string(hash), Role: models.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	app := fiber.New()
	app.Post("/auth/login", authValidator.Login(), Login)
	return &loginEnv{app: app, db: db, user: user}
}

func (e *loginEnv) login(t *testing.T, password string) int {
	t.Helper()
	raw, err := json.Marshal(map[string]string{"email": e.user.Email, "password": password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

func (e *loginEnv) reload(t *testing.T) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, e.db.First(&u, e.user.ID).Error)
	return u
}

func TestLoginBlocksAfterThreeFailures(t *testing.T) {
	env := newLoginEnv(t)

	for i := 0; i < maxFailedLogins; i++ {
		assert.Equal(t, http.StatusUnauthorized, env.login(t, "wrong-password"))
	}

	blocked := env.reload(t)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, maxFailedLogins, blocked.FailedLoginAttempts)
	require.NotNil(t, blocked.BlockedUntil)
	assert.WithinDuration(t, time.Now().Add(blockDuration), *blocked.BlockedUntil, time.Minute)

	// The right password does not get through while blocked
	assert.Equal(t, http.StatusUnauthorized, env.login(t, correctPassword))

	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", env.user.ID).
		Update("blocked_until", time.Now().Add(-time.Minute)).Error)
	assert.Equal(t, http.StatusOK, env.login(t, correctPassword))

	after := env.reload(t)
	assert.False(t, after.IsBlocked)
	assert.Nil(t, after.BlockedUntil)
	assert.Zero(t, after.FailedLoginAttempts)

	var logins int64
	env.db.Model(&models.LoginTracking{}).Where("user_id = ?", env.user.ID).Count(&logins)
	assert.EqualValues(t, 1, logins)
}

func TestLoginFailuresResetAfterWindow(t *testing.T) {
	env := newLoginEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.login(t, "wrong-password"))
	assert.Equal(t, http.StatusUnauthorized, env.login(t, "wrong-password"))
	assert.Equal(t, 2, env.reload(t).FailedLoginAttempts)

	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", env.user.ID).
		Update("last_failed_login", time.Now().Add(-failureWindow-time.Minute)).Error)

	assert.Equal(t, http.StatusUnauthorized, env.login(t, "wrong-password"))
	u := env.reload(t)
	assert.Equal(t, 1, u.FailedLoginAttempts)
	assert.False(t, u.IsBlocked)
}

func TestLoginAdminBlockIsIndefinite(t *testing.T) {
	env := newLoginEnv(t)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", env.user.ID).
		Updates(map[string]interface{}{"is_blocked": true, "blocked_until": nil}).Error)

	assert.Equal(t, http.StatusUnauthorized, env.login(t, correctPassword))

	u := env.reload(t)
	assert.True(t, u.IsBlocked)
	assert.Nil(t, u.BlockedUntil)
	assert.Nil(t, u.LastLogin)
}
