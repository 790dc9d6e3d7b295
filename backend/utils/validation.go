package utils

import (
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate checks struct tags with a shared validator instance.
func Validate(v interface{}) error {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate.Struct(v)
}

// ParseJSON decodes the request body as JSON whatever Content-Type the client sent.
func ParseJSON(c *fiber.Ctx, out interface{}) error {
	return json.Unmarshal(c.Body(), out)
}
