package controllers

import (
	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CategoryController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCategoryController(db *gorm.DB, cfg *config.Config) *CategoryController {
	return &CategoryController{DB: db, Cfg: cfg}
}

type CategoryRequest struct {
	Name string `json:"name" validate:"required" example:"Programming"`
}

// CreateCategory godoc
// @Summary Create a category
// @Description The requester, when authenticated, is recorded as the creator
// @Tags categories
// @Accept json
// @Produce json
// @Param input body CategoryRequest true "Category"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/categories [post]
func (cc *CategoryController) CreateCategory(c *fiber.Ctx) error {
	var input CategoryRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "Category name is required")
	}

	category := models.Category{Name: input.Name}
	if userID, ok := utils.CurrentUserID(c); ok {
		category.CreatedBy = &userID
	}

	if err := cc.DB.Create(&category).Error; err != nil {
		log.Error().Err(err).Msg("create category")
		return utils.InternalServerError(c, "Could not create category")
	}

	return utils.Created(c, "Category created successfully", category.ID)
}

// ShowCategories godoc
// @Summary List categories
// @Tags categories
// @Produce json
// @Success 200 {array} map[string]interface{}
// @Router /api/categories [get]
func (cc *CategoryController) ShowCategories(c *fiber.Ctx) error {
	var categories []models.Category
	if err := cc.DB.Preload("Creator").Order("id").Find(&categories).Error; err != nil {
		log.Error().Err(err).Msg("show categories")
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(categories))
	for _, category := range categories {
		var createdBy interface{}
		if category.Creator != nil {
			createdBy = category.Creator.Username
		}
		result = append(result, fiber.Map{
			"id":         category.ID,
			"name":       category.Name,
			"created_by": createdBy,
			"created_at": category.CreatedAt,
		})
	}

	return c.JSON(result)
}

// DeleteCategory godoc
// @Summary Delete a category
// @Description Only the creator can delete a category; anything else reads as not found
// @Tags categories
// @Produce json
// @Param category_id path int true "Category ID"
// @Success 200 {object} utils.MessageResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/categories/{category_id} [delete]
func (cc *CategoryController) DeleteCategory(c *fiber.Ctx) error {
	categoryID, err := paramID(c, "category_id")
	if err != nil {
		return utils.NotFound(c, "Category not found")
	}

	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return utils.NotFound(c, "Category not found")
	}

	var category models.Category
	if err := cc.DB.Where("id = ? AND created_by = ?", categoryID, userID).First(&category).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.NotFound(c, "Category not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := cc.DB.Delete(&category).Error; err != nil {
		log.Error().Err(err).Uint("category_id", category.ID).Msg("delete category")
		return utils.InternalServerError(c, "Could not delete category")
	}

	return utils.Message(c, fiber.StatusOK, "Category deleted successfully")
}
