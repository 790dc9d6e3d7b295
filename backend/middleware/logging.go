package middleware

import (
	"errors"
	"time"

	"simplelms/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDLocal  = "request_id"
)

// RequestID reuses the caller's X-Request-ID or generates a new one.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Locals(requestIDLocal, requestID)
		c.Set(RequestIDHeader, requestID)
		return c.Next()
	}
}

func LoggingMiddleware(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		var e *zerolog.Event
		switch {
		case status >= 500:
			e = logger.Error().Err(err)
		case status >= 400:
			e = logger.Warn()
		default:
			e = logger.Info()
		}

		if requestID, ok := c.Locals(requestIDLocal).(string); ok {
			e = e.Str("request_id", requestID)
		}
		if userID, ok := utils.CurrentUserID(c); ok {
			e = e.Uint("user_id", userID)
		}

		e.Dur("latency", time.Since(start)).
			Int("status", status).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", c.IP()).
			Str("user_agent", c.Get(fiber.HeaderUserAgent)).
			Msg("request")

		return err
	}
}
