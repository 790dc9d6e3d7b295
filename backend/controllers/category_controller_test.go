package controllers_test

import (
	"fmt"
	"testing"

	"simplelms/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	env := setup(t)
	_, ownerToken := env.createUser(t, "owner", false)
	_, otherToken := env.createUser(t, "other", false)

	resp := env.doJSON(t, fiber.MethodPost, "/api/categories", map[string]string{"name": "Programming"}, ownerToken)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Category created successfully", decodeMap(t, resp)["message"])

	resp = env.doJSON(t, fiber.MethodPost, "/api/categories", map[string]string{"name": "Anonymous"}, "")
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = env.doJSON(t, fiber.MethodPost, "/api/categories", map[string]string{}, ownerToken)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Category name is required", decodeMap(t, resp)["error"])

	resp = env.doJSON(t, fiber.MethodGet, "/api/categories", nil, "")
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	categories := decodeList(t, resp)
	require.Len(t, categories, 2)
	assert.Equal(t, "owner", categories[0]["created_by"])
	assert.Nil(t, categories[1]["created_by"])

	var category models.Category
	require.NoError(t, env.db.Where("name = ?", "Programming").First(&category).Error)
	path := fmt.Sprintf("/api/categories/%d", category.ID)

	resp = env.doJSON(t, fiber.MethodDelete, path, nil, otherToken)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Category not found", decodeMap(t, resp)["error"])

	resp = env.doJSON(t, fiber.MethodDelete, path, nil, ownerToken)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Category deleted successfully", decodeMap(t, resp)["message"])

	var count int64
	env.db.Model(&models.Category{}).Count(&count)
	assert.EqualValues(t, 1, count)
}
