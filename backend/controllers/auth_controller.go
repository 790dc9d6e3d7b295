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

type AuthController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAuthController(db *gorm.DB, cfg *config.Config) *AuthController {
	return &AuthController{DB: db, Cfg: cfg}
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required" example:"student1"`
	Password string `json:"password" validate:"required" example:"s3cret!"`
	Email    string `json:"email" validate:"required" example:"student1@example.com"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "User registration data"
// @Success 201 {object} utils.MessageResponse
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/auth/register [post]
func (ac *AuthController) Register(c *fiber.Ctx) error {
	var input RegisterRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}

	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "All fields are required")
	}

	var taken int64
	if err := ac.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&taken).Error; err != nil {
		log.Error().Err(err).Msg("register: lookup username")
		return utils.InternalServerError(c, "Could not query database")
	}
	if taken > 0 {
		return utils.BadRequest(c, "Username already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.InternalServerError(c, "Could not hash password")
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		if utils.IsIntegrityError(err) {
			return utils.BadRequest(c, "Username already exists")
		}
		log.Error().Err(err).Msg("register: create user")
		return utils.InternalServerError(c, "Could not create user")
	}

	return utils.Created(c, "User registered successfully", user.ID)
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return JWT token, also set as the `token` cookie for browser pages
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var input LoginRequest
	if err := utils.ParseJSON(c, &input); err != nil {
		return utils.BadRequest(c, "Invalid JSON data")
	}
	if err := utils.Validate(input); err != nil {
		return utils.BadRequest(c, "Username and password are required")
	}

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		if utils.IsNotFound(err) {
			return utils.Unauthorized(c, "Invalid credentials")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return utils.Unauthorized(c, "Invalid credentials")
	}

	token, err := utils.GenerateJWTToken(user.ID, ac.Cfg)
	if err != nil {
		return utils.InternalServerError(c, "Could not generate token")
	}
	utils.SetTokenCookie(c, token, ac.Cfg)

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"is_staff": user.IsStaff,
		},
	})
}
