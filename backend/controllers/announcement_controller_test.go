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

func TestAnnouncements(t *testing.T) {
	env := setup(t)
	teacher, teacherToken := env.createUser(t, "teacher", false)
	_, otherToken := env.createUser(t, "other", false)
	course := env.createCourse(t, teacher, nil)
	path := fmt.Sprintf("/api/courses/%d/announcements", course.ID)

	now := time.Now().UTC()
	window := func(title string, start, end time.Time) map[string]string {
		return map[string]string{
			"title":      title,
			"content":    "Body of " + title,
			"start_date": start.Format(time.RFC3339),
			"end_date":   end.Format(time.RFC3339),
		}
	}

	resp := env.doJSON(t, fiber.MethodPost, path, window("current", now.Add(-time.Hour), now.Add(time.Hour)), otherToken)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Only the course teacher can create announcements", decodeMap(t, resp)["error"])

	resp = env.doJSON(t, fiber.MethodPost, path, window("current", now.Add(-time.Hour), now.Add(time.Hour)), teacherToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	currentID := uint(decodeMap(t, resp)["id"].(float64))

	resp = env.doJSON(t, fiber.MethodPost, path, window("expired", now.Add(-48*time.Hour), now.Add(-24*time.Hour)), teacherToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodPost, path, window("upcoming", now.Add(24*time.Hour), now.Add(48*time.Hour)), teacherToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodPost, path, map[string]string{"title": "incomplete"}, teacherToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodGet, path, nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	active := decodeList(t, resp)
	require.Len(t, active, 1)
	assert.Equal(t, "current", active[0]["title"])
	assert.Equal(t, true, active[0]["is_active"])

	resp = env.doJSON(t, fiber.MethodGet, "/api/courses/999/announcements", nil, "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	itemPath := fmt.Sprintf("/api/announcements/%d", currentID)

	t.Run("non creator cannot edit", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPut, itemPath, window("hijacked", now, now.Add(time.Hour)), otherToken)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		var a models.Announcement
		require.NoError(t, env.db.First(&a, currentID).Error)
		assert.Equal(t, "current", a.Title)
	})

	t.Run("non creator cannot delete", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodDelete, itemPath, nil, otherToken)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

		var count int64
		env.db.Model(&models.Announcement{}).Where("id = ?", currentID).Count(&count)
		assert.EqualValues(t, 1, count)
	})

	t.Run("creator edits", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodPut, itemPath, window("edited", now.Add(-time.Minute), now.Add(time.Hour)), teacherToken)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Announcement updated successfully", decodeMap(t, resp)["message"])

		var a models.Announcement
		require.NoError(t, env.db.First(&a, currentID).Error)
		assert.Equal(t, "edited", a.Title)
	})

	t.Run("creator deletes", func(t *testing.T) {
		resp := env.doJSON(t, fiber.MethodDelete, itemPath, nil, teacherToken)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp = env.doJSON(t, fiber.MethodDelete, itemPath, nil, teacherToken)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
