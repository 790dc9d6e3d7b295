package controllers

import (
	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{DB: db, Cfg: cfg}
}

type UpdateUserRequest struct {
	Email       string `json:"email" validate:"omitempty,email" example:"user@example.com"`
	FirstName   string `json:"first_name" example:"Budi"`
	LastName    string `json:"last_name" example:"Santoso"`
	OldPassword string `json:"old_password" example:"oldPassword123"`
	NewPassword string `json:"new_password" validate:"omitempty,min=6" example:"newPassword123"`
}

// currentUser loads the requester. A nil user means the error response is
// already written and err is what the handler should return.
func (uc *UserController) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, ok := utils.CurrentUserID(c)
	if !ok {
		return nil, utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		if utils.IsNotFound(err) {
			return nil, utils.NotFound(c, "User not found")
		}
		return nil, utils.InternalServerError(c, "Could not query database")
	}
	return &user, nil
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	user, err := uc.currentUser(c)
	if user == nil {
		return err
	}

	return c.JSON(fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"is_staff":   user.IsStaff,
		"created_at": user.CreatedAt,
	})
}

// UpdateProfile godoc
// @Summary Update user profile
// @Description Changing the password requires the current one
// @Tags users
// @Accept json
// @Produce json
// @Param input body UpdateUserRequest true "Profile update data"
// @Success 200 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/user/profile [put]
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	user, err := uc.currentUser(c)
	if user == nil {
		return err
	}

	var input UpdateUserRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "Invalid email or password too short")
	}

	updates := map[string]interface{}{}
	if input.Email != "" {
		updates["email"] = input.Email
	}
	if input.FirstName != "" {
		updates["first_name"] = input.FirstName
	}
	if input.LastName != "" {
		updates["last_name"] = input.LastName
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set a new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.BadRequest(c, "Old password is incorrect")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Failed to hash password")
		}
		updates["password_hash"] = string(hash)
	}

	if len(updates) == 0 {
		return utils.BadRequest(c, "Nothing to update")
	}

	if err := uc.DB.Model(user).Updates(updates).Error; err != nil {
		log.Error().Err(err).Uint("user_id", user.ID).Msg("update profile")
		return utils.InternalServerError(c, "Failed to update profile")
	}

	return utils.Message(c, fiber.StatusOK, "Profile updated successfully")
}

// GetUserCourses godoc
// @Summary Courses of the current user
// @Description Courses the user is enrolled in and courses the user teaches
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/user/courses [get]
func (uc *UserController) GetUserCourses(c *fiber.Ctx) error {
	user, err := uc.currentUser(c)
	if user == nil {
		return err
	}

	var memberships []models.CourseMember
	if err := uc.DB.Preload("Course").Where("user_id = ?", user.ID).Order("id").Find(&memberships).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var taught []models.Course
	if err := uc.DB.Where("teacher_id = ?", user.ID).Order("id").Find(&taught).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	enrolled := make([]fiber.Map, 0, len(memberships))
	for _, m := range memberships {
		enrolled = append(enrolled, fiber.Map{
			"id":          m.Course.ID,
			"name":        m.Course.Name,
			"role":        m.Role,
			"enrolled_at": m.CreatedAt,
		})
	}

	teaching := make([]fiber.Map, 0, len(taught))
	for _, course := range taught {
		teaching = append(teaching, fiber.Map{
			"id":   course.ID,
			"name": course.Name,
		})
	}

	return c.JSON(fiber.Map{
		"enrolled": enrolled,
		"teaching": teaching,
	})
}
