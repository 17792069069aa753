package controllers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/thangnm/rentacc/internal/pkg/rental"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{Status: "success", Message: message, Data: data})
}

func respondCreated(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Status: "success", Message: message, Data: data})
}

// respondEngineError maps an engine error onto its HTTP status.
func respondEngineError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch rental.KindOf(err) {
	case rental.KindNotFound:
		status = fiber.StatusNotFound
	case rental.KindBadRequest:
		status = fiber.StatusBadRequest
	case rental.KindConflict:
		status = fiber.StatusConflict
	case rental.KindForbidden:
		status = fiber.StatusForbidden
	}

	message := err.Error()
	if status == fiber.StatusInternalServerError {
		// Internal details stay in the logs.
		message = "something went wrong"
	}
	return c.Status(status).JSON(Response{Status: "error", Message: message})
}

func parseIDParam(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func parsePagination(c *fiber.Ctx) (offset, limit int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("per_page", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return (page - 1) * limit, limit
}
