package controllers_test

import (
	"testing"

	"simplelms/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := setup(t)

	userData := map[string]string{
		"username": "student1",
		"password": "s3cret!",
		"email":    "student1@example.com",
	}

	resp := env.doJSON(t, fiber.MethodPost, "/api/auth/register", userData, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	result := decodeMap(t, resp)
	assert.Equal(t, "User registered successfully", result["message"])
	assert.NotZero(t, result["id"])

	var user models.User
	require.NoError(t, env.db.Where("username = ?", "student1").First(&user).Error)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)
	assert.False(t, user.IsStaff)

	t.Run("duplicate username", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPost, "/api/auth/register", userData, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Username already exists", decodeMap(t, resp)["error"])

		var count int64
		env.db.Model(&models.User{}).Where("username = ?", "student1").Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("missing field", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPost, "/api/auth/register", map[string]string{"username": "x"}, "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "All fields are required", decodeMap(t, resp)["error"])
	})

	t.Run("invalid json", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPost, "/api/auth/register", "not an object", "")
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Invalid JSON data", decodeMap(t, resp)["error"])
	})

	t.Run("wrong method", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodGet, "/api/auth/register", nil, "")
		assert.Equal(t, fiber.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "Invalid request method", decodeMap(t, resp)["error"])
	})
}

func TestLogin(t *testing.T) {
	env := setup(t)
	env.createUser(t, "teacher", false)

	resp := env.doJSON(t, fiber.MethodPost, "/api/auth/login", map[string]string{
		"username": "teacher",
		"password": "password",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decodeMap(t, resp)
	assert.NotEmpty(t, result["token"])
	assert.Equal(t, "teacher", result["user"].(map[string]interface{})["username"])

	resp = env.doJSON(t, fiber.MethodPost, "/api/auth/login", map[string]string{
		"username": "teacher",
		"password": "wrong",
	}, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", decodeMap(t, resp)["error"])
}

func TestGetProfile(t *testing.T) {
	env := setup(t)
	user, token := env.createUser(t, "profile_user", false)

	resp := env.doJSON(t, fiber.MethodGet, "/api/user/profile", nil, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeMap(t, resp)
	assert.EqualValues(t, user.ID, result["id"])
	assert.Equal(t, "profile_user", result["username"])
	assert.NotContains(t, result, "password_hash")

	resp = env.doJSON(t, fiber.MethodGet, "/api/user/profile", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	env := setup(t)
	user, token := env.createUser(t, "editor", false)

	resp := env.doJSON(t, fiber.MethodPut, "/api/user/profile", map[string]string{
		"first_name":   "Budi",
		"new_password": "another-secret",
		"old_password": "wrong",
	}, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Old password is incorrect", decodeMap(t, resp)["error"])

	resp = env.doJSON(t, fiber.MethodPut, "/api/user/profile", map[string]string{
		"first_name":   "Budi",
		"last_name":    "Santoso",
		"new_password": "another-secret",
		"old_password": "password",
	}, token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.User
	require.NoError(t, env.db.First(&updated, user.ID).Error)
	assert.Equal(t, "Budi Santoso", updated.DisplayName())

	resp = env.doJSON(t, fiber.MethodPost, "/api/auth/login", map[string]string{
		"username": "editor",
		"password": "another-secret",
	}, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestGetUserCourses(t *testing.T) {
	env := setup(t)
	teacher, teacherToken := env.createUser(t, "teacher", false)
	student, studentToken := env.createUser(t, "student", false)
	course := env.createCourse(t, teacher, nil)
	env.enroll(t, course, student)

	resp := env.doJSON(t, fiber.MethodGet, "/api/user/courses", nil, studentToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	result := decodeMap(t, resp)
	assert.Len(t, result["enrolled"], 1)
	assert.Len(t, result["teaching"], 0)

	resp = env.doJSON(t, fiber.MethodGet, "/api/user/courses", nil, teacherToken)
	result = decodeMap(t, resp)
	assert.Len(t, result["enrolled"], 0)
	assert.Len(t, result["teaching"], 1)
}
