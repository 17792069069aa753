package controllers

import (
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/thangnm/rentacc/internal/pkg/database"
	"github.com/thangnm/rentacc/internal/pkg/rental"
	"github.com/thangnm/rentacc/internal/pkg/usercontext"
)

var (
	engine     *rental.Engine
	engineOnce sync.Once
)

// SetEngine injects the rental engine; main wires the production one.
func SetEngine(e *rental.Engine) {
	engine = e
}

func getEngine() *rental.Engine {
	engineOnce.Do(func() {
		if engine == nil {
			engine = rental.NewEngine(database.GetDB())
		}
	})
	return engine
}

// CreateRentalRequest is the creation DTO.
type CreateRentalRequest struct {
	CustomerID     uint    `json:"customer_id" validate:"required"`
	AccountPriceID uint    `json:"account_price_id" validate:"required"`
	EmailID        uint    `json:"email_id" validate:"required"`
	WorkspaceID    *uint   `json:"workspace_id"`
	StartDate      string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	Status         string  `json:"status" validate:"omitempty,oneof=active expired"`
	Note           string  `json:"note"`
	WarrantyFee    float64 `json:"warranty_fee" validate:"gte=0"`
	Discount       float64 `json:"discount" validate:"gte=0"`
	PaymentMethod  string  `json:"payment_method" validate:"omitempty,oneof=cash bank e_wallet deferred"`
}

// HandleCreateRental creates a rental with its opening renewal entry.
func HandleCreateRental(c *fiber.Ctx) error {
	var req CreateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid request body"})
	}
	if err := validator.New().Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: err.Error()})
	}
	startDate, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid start_date"})
	}

	userCtx := usercontext.GetUserContext(c)
	created, err := getEngine().CreateRental(userCtx.Abilities, rental.CreateRentalInput{
		CustomerID:     req.CustomerID,
		AccountPriceID: req.AccountPriceID,
		EmailID:        req.EmailID,
		WorkspaceID:    req.WorkspaceID,
		StartDate:      startDate,
		Status:         req.Status,
		Note:           req.Note,
		WarrantyFee:    req.WarrantyFee,
		Discount:       req.Discount,
		PaymentMethod:  req.PaymentMethod,
	})
	if err != nil {
		return respondEngineError(c, err)
	}
	return respondCreated(c, "rental created", created)
}

// HandleGetRental returns one rental with its relations.
func HandleGetRental(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)
	found, err := getEngine().GetRental(userCtx.Abilities, id)
	if err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rental found", found)
}

// HandleListRentals returns a filtered, paginated rental list.
func HandleListRentals(c *fiber.Ctx) error {
	offset, limit := parsePagination(c)
	status := c.Query("status")
	search := c.Query("search")

	userCtx := usercontext.GetUserContext(c)
	rentals, total, err := getEngine().ListRentals(userCtx.Abilities, offset, limit, status, search)
	if err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rentals listed", fiber.Map{
		"items": rentals,
		"total": total,
	})
}

// UpdateRentalRequest is the partial-update DTO; absent fields stay as-is.
type UpdateRentalRequest struct {
	EmailID       *uint    `json:"email_id"`
	WorkspaceID   *uint    `json:"workspace_id"`
	StartDate     *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Status        *string  `json:"status" validate:"omitempty,oneof=active expired"`
	Note          *string  `json:"note"`
	PaymentAmount *float64 `json:"payment_amount" validate:"omitempty,gte=0"`
	WarrantyFee   *float64 `json:"warranty_fee" validate:"omitempty,gte=0"`
	Discount      *float64 `json:"discount" validate:"omitempty,gte=0"`
	PaymentMethod *string  `json:"payment_method" validate:"omitempty,oneof=cash bank e_wallet deferred"`
}

// HandleUpdateRental applies a partial update to a rental.
func HandleUpdateRental(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req UpdateRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid request body"})
	}
	if err := validator.New().Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: err.Error()})
	}

	in := rental.UpdateRentalInput{
		EmailID:       req.EmailID,
		WorkspaceID:   req.WorkspaceID,
		Status:        req.Status,
		Note:          req.Note,
		PaymentAmount: req.PaymentAmount,
		WarrantyFee:   req.WarrantyFee,
		Discount:      req.Discount,
		PaymentMethod: req.PaymentMethod,
	}
	if req.StartDate != nil {
		t, err := time.ParseInLocation("2006-01-02", *req.StartDate, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid start_date"})
		}
		in.StartDate = &t
	}
	if req.EndDate != nil {
		t, err := time.ParseInLocation("2006-01-02", *req.EndDate, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid end_date"})
		}
		in.EndDate = &t
	}

	userCtx := usercontext.GetUserContext(c)
	updated, err := getEngine().UpdateRental(userCtx.Abilities, id, in)
	if err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rental updated", updated)
}

// RenewRentalRequest is the renewal DTO.
type RenewRentalRequest struct {
	AccountPriceID *uint   `json:"account_price_id"`
	WarrantyFee    float64 `json:"warranty_fee" validate:"gte=0"`
	Discount       float64 `json:"discount" validate:"gte=0"`
	PaymentMethod  string  `json:"payment_method" validate:"omitempty,oneof=cash bank e_wallet deferred"`
	Note           string  `json:"note"`
}

// HandleRenewRental appends a renewal and pushes the rental's end date.
func HandleRenewRental(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	var req RenewRentalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: "invalid request body"})
	}
	if err := validator.New().Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(Response{Status: "error", Message: err.Error()})
	}

	userCtx := usercontext.GetUserContext(c)
	renewed, err := getEngine().RenewRental(userCtx.Abilities, id, rental.RenewRentalInput{
		AccountPriceID: req.AccountPriceID,
		WarrantyFee:    req.WarrantyFee,
		Discount:       req.Discount,
		PaymentMethod:  req.PaymentMethod,
		Note:           req.Note,
	})
	if err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rental renewed", renewed)
}

// HandleRemoveRental soft-deletes a rental with its ledger rows and slot.
func HandleRemoveRental(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)
	if err := getEngine().RemoveRental(userCtx.Abilities, id); err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rental removed", nil)
}

// HandleHardRemoveRental permanently deletes an already soft-deleted rental.
func HandleHardRemoveRental(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)
	if err := getEngine().HardRemoveRental(userCtx.Abilities, id); err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rental deleted permanently", nil)
}

// HandleRestoreRental restores a soft-deleted rental and its cascade.
func HandleRestoreRental(c *fiber.Ctx) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}
	userCtx := usercontext.GetUserContext(c)
	if err := getEngine().RestoreRental(userCtx.Abilities, id); err != nil {
		return respondEngineError(c, err)
	}
	return respondOK(c, "rental restored", nil)
}

// HandleCheckExpired triggers an on-demand sweep, optionally limited to one
// email address for diagnostics.
func HandleCheckExpired(c *fiber.Ctx) error {
	emailFilter := c.Query("email")

	msg, err := getEngine().CheckExpiredAllPaginated(0, emailFilter)
	if err != nil {
		log.Printf("manual sweep failed: %v", err)
		return respondEngineError(c, err)
	}
	return respondOK(c, msg, nil)
}

// HandleSweepStatus reports the cached summary of the last sweep run.
func HandleSweepStatus(c *fiber.Ctx) error {
	summary, err := rental.LastSweepFromCache()
	if err != nil {
		return respondOK(c, "no sweep has run yet", nil)
	}
	return respondOK(c, "last sweep", summary)
}
