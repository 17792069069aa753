package controllers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/thangnm/rentacc/app/models"
	"github.com/thangnm/rentacc/app/repository"
)

// CreateUserRequest is the admin DTO for onboarding a team member.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=staff admin"`
}

// HandleCreateUser creates an operations-team user (admin only, enforced by
// router middleware).
func HandleCreateUser(c *fiber.Ctx) error {
	var req CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid request body"})
	}
	if err := validator.New().Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: err.Error()})
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: err.Error()})
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if err := repo.Create(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(Response{Status: "error", Message: "failed to create user"})
	}
	return respondCreated(c, "user created", user)
}

// HandleIssueUserAPIKey rotates the API key of a user and returns the raw
// secret once (admin only).
func HandleIssueUserAPIKey(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(Response{Status: "error", Message: "user not found"})
	}

	rawKey, err := user.IssueAPIKey()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(Response{Status: "error", Message: "failed to issue api key"})
	}
	if err := repo.Update(user); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(Response{Status: "error", Message: "failed to persist api key"})
	}
	return respondOK(c, "api key issued", fiber.Map{"api_key": rawKey})
}
