package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/routes"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	cfg := config.Default()
	cfg.DBDriver = "sqlite"
	cfg.DBName = filepath.Join(t.TempDir(), "lms_test.db")
	cfg.JWTSecret = "testsecret"

	db, err := utils.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return &testEnv{
		app: routes.NewApp(db, cfg, zerolog.Nop()),
		db:  db,
		cfg: cfg,
	}
}

// createUser inserts a user directly and returns it with a bearer token.
func (e *testEnv) createUser(t *testing.T, username string, staff bool) (models.User, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		IsStaff:      staff,
	}
	require.NoError(t, e.db.Create(&user).Error)

	token, err := utils.GenerateJWTToken(user.ID, e.cfg)
	require.NoError(t, err)

	return user, "Bearer " + token
}

func (e *testEnv) createCourse(t *testing.T, teacher models.User, maxStudents *int) models.Course {
	t.Helper()

	course := models.Course{
		Name:        "Course of " + teacher.Username,
		Description: "A test course",
		TeacherID:   teacher.ID,
		MaxStudents: maxStudents,
	}
	require.NoError(t, e.db.Create(&course).Error)
	return course
}

func (e *testEnv) createContent(t *testing.T, course models.Course, name string, start, end *time.Time) models.CourseContent {
	t.Helper()

	content := models.CourseContent{
		CourseID:           course.ID,
		Name:               name,
		ScheduledStartTime: start,
		ScheduledEndTime:   end,
	}
	require.NoError(t, e.db.Create(&content).Error)
	return content
}

func (e *testEnv) enroll(t *testing.T, course models.Course, user models.User) {
	t.Helper()
	require.NoError(t, e.db.Create(&models.CourseMember{
		CourseID: course.ID,
		UserID:   user.ID,
		Role:     models.RoleStudent,
	}).Error)
}

func (e *testEnv) doJSON(t *testing.T, method, path string, body interface{}, token string) *http.Response {
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
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) doForm(t *testing.T, method, path string, form url.Values, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func decodeMap(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	decode(t, resp, &result)
	return result
}

func decodeList(t *testing.T, resp *http.Response) []map[string]interface{} {
	t.Helper()
	var result []map[string]interface{}
	decode(t, resp, &result)
	return result
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }
