package middleware

import (
	"net/http/httptest"
	"testing"

	"simplelms/backend/config"
	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whoAmI(c *fiber.Ctx) error {
	id, ok := utils.CurrentUserID(c)
	return c.JSON(fiber.Map{"user_id": id, "authenticated": ok})
}

func TestAuthMiddleware(t *testing.T) {
	cfg := config.Default()
	token, err := utils.GenerateJWTToken(7, cfg)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/optional", OptionalAuth(cfg), whoAmI)
	app.Get("/required", AuthMiddleware(cfg), whoAmI)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"optional anonymous", "/optional", "", fiber.StatusOK},
		{"optional bad token", "/optional", "Bearer nope", fiber.StatusOK},
		{"optional valid", "/optional", "Bearer " + token, fiber.StatusOK},
		{"required anonymous", "/required", "", fiber.StatusUnauthorized},
		{"required bad token", "/required", "Bearer nope", fiber.StatusUnauthorized},
		{"required valid", "/required", "Bearer " + token, fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
