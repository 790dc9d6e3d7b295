package middleware

import (
	"simplelms/backend/config"
	"simplelms/backend/models"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OptionalAuth records the requester when a valid token is present and lets
// anonymous requests through.
func OptionalAuth(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if utils.RequestToken(c) == "" {
			return c.Next()
		}
		if userID, err := utils.ExtractUserIDFromToken(c, cfg); err == nil {
			utils.SetCurrentUserID(c, userID)
		}
		return c.Next()
	}
}

func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		utils.SetCurrentUserID(c, userID)
		return c.Next()
	}
}

// StaffMiddleware must run after AuthMiddleware.
func StaffMiddleware(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := utils.CurrentUserID(c)
		if !ok {
			return utils.Unauthorized(c, "Unauthorized")
		}

		var user models.User
		if err := db.Select("id", "is_staff").First(&user, userID).Error; err != nil || !user.IsStaff {
			return utils.Forbidden(c, "Staff access required")
		}

		return c.Next()
	}
}
