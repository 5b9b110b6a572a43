// Package response renders every API reply in the {data, success, message, status} envelope.
package response

import (
	"errors"

	"retail-transfers/app/models"

	"github.com/gofiber/fiber/v2"
)

func JSON(c *fiber.Ctx, status int, data any, message string) error {
	return c.Status(status).JSON(models.Envelope[any]{
		Data:    data,
		Success: status < fiber.StatusBadRequest,
		Message: message,
		Status:  status,
	})
}

func OK(c *fiber.Ctx, data any) error {
	return JSON(c, fiber.StatusOK, data, "")
}

func Created(c *fiber.Ctx, data any, message string) error {
	return JSON(c, fiber.StatusCreated, data, message)
}

// Invalid replies 400 with one message per offending field.
func Invalid(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.Envelope[any]{
		Success: false,
		Message: "validation failed",
		Status:  fiber.StatusBadRequest,
		Errors:  fields,
	})
}

// ErrorHandler turns returned errors into envelopes. *fiber.Error keeps its code,
// anything else is a 500 with a generic message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return JSON(c, code, nil, message)
}
