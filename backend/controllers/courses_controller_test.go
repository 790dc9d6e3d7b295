package controllers_test

import (
	"fmt"
	"testing"
	"time"

	"simplelms/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCourse(t *testing.T) {
	env := setup(t)
	teacher, token := env.createUser(t, "teacher", false)

	resp := env.doJSON(t, fiber.MethodPost, "/api/courses", map[string]interface{}{
		"name":         "Belajar Django",
		"description":  "Belajar Django dengan Mudah",
		"price":        "1000000",
		"max_students": 2,
	}, token)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	result := decodeMap(t, resp)
	assert.Equal(t, "Course created successfully", result["message"])

	var course models.Course
	require.NoError(t, env.db.First(&course, uint(result["id"].(float64))).Error)
	assert.Equal(t, teacher.ID, course.TeacherID)
	assert.Equal(t, "1000000", course.Price.String())
	require.NotNil(t, course.MaxStudents)
	assert.Equal(t, 2, *course.MaxStudents)

	t.Run("anonymous", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPost, "/api/courses", map[string]string{"name": "x"}, "")
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing name", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPost, "/api/courses", map[string]string{"description": "x"}, token)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestListCourses(t *testing.T) {
	env := setup(t)
	teacher, _ := env.createUser(t, "teacher", false)

	for _, name := range []string{"Intro to Go", "Advanced Django", "Go Concurrency"} {
		require.NoError(t, env.db.Create(&models.Course{Name: name, TeacherID: teacher.ID}).Error)
	}

	resp := env.doJSON(t, fiber.MethodGet, "/api/courses", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, decodeList(t, resp), 3)

	// "go" also matches "Django"
	resp = env.doJSON(t, fiber.MethodGet, "/api/courses?search=GO", nil, "")
	courses := decodeList(t, resp)
	require.Len(t, courses, 3)
	assert.Equal(t, "Intro to Go", courses[0]["name"])
	assert.Equal(t, "Advanced Django", courses[1]["name"])
	assert.Equal(t, "teacher", courses[0]["teacher"].(map[string]interface{})["username"])

	resp = env.doJSON(t, fiber.MethodGet, "/api/courses?search=concurrency", nil, "")
	courses = decodeList(t, resp)
	require.Len(t, courses, 1)
	assert.Equal(t, "Go Concurrency", courses[0]["name"])

	resp = env.doJSON(t, fiber.MethodGet, "/api/courses?search=rust", nil, "")
	assert.Empty(t, decodeList(t, resp))

	resp = env.doJSON(t, fiber.MethodGet, "/api/courses?sort=newest", nil, "")
	courses = decodeList(t, resp)
	require.Len(t, courses, 3)
	assert.Equal(t, "Go Concurrency", courses[0]["name"])
}

func TestListCourseContentsNeverShowsFutureContent(t *testing.T) {
	env := setup(t)
	teacher, _ := env.createUser(t, "teacher", false)
	course := env.createCourse(t, teacher, nil)

	now := time.Now().UTC()
	env.createContent(t, course, "open", timePtr(now.Add(-time.Hour)), timePtr(now.Add(time.Hour)))
	env.createContent(t, course, "closed", timePtr(now.Add(-48*time.Hour)), timePtr(now.Add(-24*time.Hour)))
	env.createContent(t, course, "future", timePtr(now.Add(24*time.Hour)), timePtr(now.Add(48*time.Hour)))
	env.createContent(t, course, "unscheduled", nil, nil)

	resp := env.doJSON(t, fiber.MethodGet, fmt.Sprintf("/api/courses/%d/contents", course.ID), nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	contents := decodeList(t, resp)
	require.Len(t, contents, 2)

	byName := map[string]map[string]interface{}{}
	for _, c := range contents {
		byName[c["name"].(string)] = c
	}
	assert.Equal(t, true, byName["open"]["is_available"])
	assert.Equal(t, false, byName["closed"]["is_available"])
	assert.NotContains(t, byName, "future")
	assert.Equal(t, course.Name, byName["open"]["course"].(map[string]interface{})["name"])
}

func TestAddContent(t *testing.T) {
	env := setup(t)
	teacher, teacherToken := env.createUser(t, "teacher", false)
	_, otherToken := env.createUser(t, "other", false)
	course := env.createCourse(t, teacher, nil)
	path := fmt.Sprintf("/api/courses/%d/contents", course.ID)

	payload := map[string]string{
		"name":                 "Week 1",
		"scheduled_start_time": "2024-09-01T08:00:00Z",
		"scheduled_end_time":   "2024-09-08 08:00:00",
	}

	resp := env.doJSON(t, fiber.MethodPost, path, payload, otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodPost, path, payload, teacherToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var content models.CourseContent
	require.NoError(t, env.db.Where("course_id = ?", course.ID).First(&content).Error)
	require.NotNil(t, content.ScheduledEndTime)
	assert.True(t, content.ScheduledEndTime.Equal(time.Date(2024, 9, 8, 8, 0, 0, 0, time.UTC)))

	resp = env.doJSON(t, fiber.MethodPost, path, map[string]string{
		"name":                 "Backwards",
		"scheduled_start_time": "2024-09-08",
		"scheduled_end_time":   "2024-09-01",
	}, teacherToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodPost, "/api/courses/9999/contents", payload, teacherToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
