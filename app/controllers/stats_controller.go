package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/thangnm/rentacc/internal/pkg/statistics"
)

// HandleStats serves the cached dashboard counters.
func HandleStats(c *fiber.Ctx) error {
	return respondOK(c, "statistics", statistics.GetStatistics())
}
