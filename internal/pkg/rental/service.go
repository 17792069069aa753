package rental

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/thangnm/rentacc/app/models"
	"github.com/thangnm/rentacc/app/repository"
	"github.com/thangnm/rentacc/internal/pkg/ability"
)

// CreateRentalInput carries the creation request after DTO validation.
type CreateRentalInput struct {
	CustomerID     uint
	AccountPriceID uint
	EmailID        uint
	WorkspaceID    *uint
	StartDate      time.Time
	Status         string
	Note           string
	WarrantyFee    float64
	Discount       float64
	PaymentMethod  string
}

// CreateRental runs the full creation workflow inside one transaction:
// resolve customer, email, price tier; bind a workspace slot when the rental
// type requires one; persist the rental; record the opening ledger entry,
// which also derives the end date and total price from the price tier.
func (e *Engine) CreateRental(actor *ability.Abilities, in CreateRentalInput) (*models.Rental, error) {
	if !actor.Can(ability.ActionCreate, ability.SubjectRental) {
		return nil, forbidden("you are not allowed to create rentals")
	}

	var created *models.Rental
	err := e.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		customer, err := repos.Customer.GetByID(in.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("customer not found")
			}
			return internal("failed to resolve customer", err)
		}

		email, err := repos.Email.GetByID(in.EmailID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("email not found")
			}
			return internal("failed to resolve email", err)
		}
		if !email.BelongsTo(customer.ID) {
			return badRequest("email does not belong to customer")
		}

		price, err := repos.AccountPrice.GetByIDWithRentalType(in.AccountPriceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("account price not found")
			}
			return internal("failed to resolve account price", err)
		}

		var workspaceEmailID *uint
		if !price.RentalType.RequiresWorkspace() {
			if in.WorkspaceID != nil {
				return badRequest("personal rentals cannot be bound to a workspace")
			}
		} else {
			if in.WorkspaceID == nil {
				return badRequest("workspace is required for this rental type")
			}
			workspace, err := repos.Workspace.GetByIDWithAdminAccount(*in.WorkspaceID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("workspace not found")
				}
				return internal("failed to resolve workspace", err)
			}
			if !workspace.MatchesRentalType(price.RentalType.Type) {
				return badRequest("workspace type not match")
			}

			slotID, err := repos.WorkspaceEmail.CreateAndGetID(workspace.ID, email.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return conflict("workspace email already exists")
				}
				return internal("failed to allocate workspace email", err)
			}
			workspaceEmailID = &slotID
		}

		status := in.Status
		if status == "" {
			status = models.RentalStatusActive
		}

		rental := &models.Rental{
			CustomerID:       customer.ID,
			AccountPriceID:   price.ID,
			EmailID:          email.ID,
			WorkspaceEmailID: workspaceEmailID,
			StartDate:        models.DateOnly(in.StartDate),
			EndDate:          models.DateOnly(in.StartDate),
			Status:           status,
			Note:             in.Note,
			WarrantyFee:      in.WarrantyFee,
			Discount:         in.Discount,
			PaymentMethod:    in.PaymentMethod,
		}
		if err := rental.Validate(); err != nil {
			return badRequest(err.Error())
		}
		if err := repos.Rental.Create(rental); err != nil {
			return internal("failed to persist rental", err)
		}

		// The opening ledger entry owns the pricing rule: it derives the
		// real end date from the tier duration and writes it back.
		if err := recordOpening(repos, rental, price, in); err != nil {
			return err
		}

		created = rental
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// recordOpening appends the opening RentalRenew entry and pushes the derived
// end date and total price onto the rental.
func recordOpening(repos *repository.Repositories, rental *models.Rental, price *models.AccountPrice, in CreateRentalInput) error {
	newEndDate := models.DateOnly(in.StartDate).AddDate(0, price.DurationMonths, 0)
	totalPrice := price.Price - in.Discount + in.WarrantyFee

	renew := &models.RentalRenew{
		RentalID:       rental.ID,
		AccountPriceID: price.ID,
		NewEndDate:     newEndDate,
		LastStartDate:  models.DateOnly(in.StartDate),
		TotalPrice:     totalPrice,
		WarrantyFee:    in.WarrantyFee,
		Discount:       in.Discount,
		PaymentMethod:  in.PaymentMethod,
		Note:           in.Note,
	}
	if err := repos.RentalRenew.Create(renew); err != nil {
		return internal("failed to record opening renewal", err)
	}

	rental.EndDate = newEndDate
	rental.TotalPrice = totalPrice
	if err := repos.Rental.Update(rental); err != nil {
		return internal("failed to persist rental end date", err)
	}
	return nil
}

// UpdateRentalInput carries a partial update; nil fields stay untouched.
type UpdateRentalInput struct {
	EmailID       *uint
	WorkspaceID   *uint
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *string
	Note          *string
	PaymentAmount *float64
	WarrantyFee   *float64
	Discount      *float64
	PaymentMethod *string
}

// UpdateRental applies a partial update. The email-change and
// workspace-change validations are independent and run concurrently before
// the workspace-email slot is reconciled and the merged fields persisted.
func (e *Engine) UpdateRental(actor *ability.Abilities, id uint, in UpdateRentalInput) (*models.Rental, error) {
	if !actor.Can(ability.ActionUpdate, ability.SubjectRental) {
		return nil, forbidden("you are not allowed to update rentals")
	}

	var updated *models.Rental
	err := e.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		rental, err := repos.Rental.GetByIDWithRelations(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rental not found")
			}
			return internal("failed to resolve rental", err)
		}

		emailChanged := in.EmailID != nil && *in.EmailID != rental.EmailID
		workspaceChanged := in.WorkspaceID != nil &&
			rental.WorkspaceEmail != nil &&
			*in.WorkspaceID != rental.WorkspaceEmail.WorkspaceID

		// The two checks are independent, so they run concurrently on the
		// engine's own handle; a gorm transaction is not goroutine-safe.
		var (
			wg       sync.WaitGroup
			emailErr error
			wsErr    error
		)
		if emailChanged {
			wg.Add(1)
			go func() {
				defer wg.Done()
				emailErr = validateEmailChange(e.repos, *in.EmailID)
			}()
		}
		if workspaceChanged {
			wg.Add(1)
			go func() {
				defer wg.Done()
				wsErr = validateWorkspaceChange(e.repos, *in.WorkspaceID, rental.AccountPrice.AccountID)
			}()
		}
		wg.Wait()
		if emailErr != nil {
			return emailErr
		}
		if wsErr != nil {
			return wsErr
		}

		if (emailChanged || workspaceChanged) && rental.WorkspaceEmail != nil {
			newEmailID := rental.EmailID
			if emailChanged {
				newEmailID = *in.EmailID
			}
			newWorkspaceID := rental.WorkspaceEmail.WorkspaceID
			if workspaceChanged {
				newWorkspaceID = *in.WorkspaceID
			}
			slotID, err := reconcileSlot(repos, rental.WorkspaceEmail, newWorkspaceID, newEmailID, rental.Status)
			if err != nil {
				return err
			}
			rental.WorkspaceEmailID = &slotID
			rental.WorkspaceEmail = nil
		}

		applyRentalFields(rental, in)
		if rental.EndDate.Before(rental.StartDate) {
			return badRequest("end date must not be before start date")
		}
		if err := rental.Validate(); err != nil {
			return badRequest(err.Error())
		}
		if err := repos.Rental.Update(rental); err != nil {
			return internal("failed to persist rental", err)
		}

		// Keep the slot's display status in sync with the rental.
		if in.Status != nil && rental.WorkspaceEmailID != nil {
			if err := repos.WorkspaceEmail.UpdateStatus(*rental.WorkspaceEmailID, rental.Status); err != nil {
				return internal("failed to sync workspace email status", err)
			}
		}

		updated = rental
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func validateEmailChange(repos *repository.Repositories, emailID uint) error {
	exists, err := repos.Email.Exists(emailID)
	if err != nil {
		return internal("failed to check email", err)
	}
	if !exists {
		return badRequest("email not found")
	}
	return nil
}

func validateWorkspaceChange(repos *repository.Repositories, workspaceID uint, accountID uint) error {
	workspace, err := repos.Workspace.GetByIDWithAdminAccount(workspaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return badRequest("workspace not found")
		}
		return internal("failed to check workspace", err)
	}
	if workspace.AdminAccount.AccountID != accountID {
		return badRequest("workspace not belonging to account")
	}
	return nil
}

// reconcileSlot re-binds the rental's workspace-email slot to the new pair.
// An existing binding for the target pair is a conflict; otherwise the old
// slot is released and a fresh one created.
func reconcileSlot(repos *repository.Repositories, current *models.WorkspaceEmail, workspaceID, emailID uint, status string) (uint, error) {
	exists, err := repos.WorkspaceEmail.ExistsByPair(workspaceID, emailID)
	if err != nil {
		return 0, internal("failed to check workspace email", err)
	}
	if exists {
		return 0, conflict("workspace email already exists")
	}

	if err := repos.WorkspaceEmail.Release(current.ID); err != nil {
		return 0, internal("failed to release workspace email", err)
	}
	slotID, err := repos.WorkspaceEmail.CreateAndGetID(workspaceID, emailID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, conflict("workspace email already exists")
		}
		return 0, internal("failed to allocate workspace email", err)
	}
	if status != models.RentalStatusActive {
		if err := repos.WorkspaceEmail.UpdateStatus(slotID, status); err != nil {
			return 0, internal("failed to sync workspace email status", err)
		}
	}
	return slotID, nil
}

func applyRentalFields(rental *models.Rental, in UpdateRentalInput) {
	if in.EmailID != nil {
		rental.EmailID = *in.EmailID
	}
	if in.StartDate != nil {
		rental.StartDate = models.DateOnly(*in.StartDate)
	}
	if in.EndDate != nil {
		rental.EndDate = models.DateOnly(*in.EndDate)
	}
	if in.Status != nil {
		rental.Status = *in.Status
	}
	if in.Note != nil {
		rental.Note = *in.Note
	}
	if in.PaymentAmount != nil {
		rental.PaymentAmount = *in.PaymentAmount
	}
	if in.WarrantyFee != nil {
		rental.WarrantyFee = *in.WarrantyFee
	}
	if in.Discount != nil {
		rental.Discount = *in.Discount
	}
	if in.PaymentMethod != nil {
		rental.PaymentMethod = *in.PaymentMethod
	}
}

// RemoveRental soft-deletes a rental, cascading into its ledger rows and
// workspace-email slot so the whole group restores together.
func (e *Engine) RemoveRental(actor *ability.Abilities, id uint) error {
	if !actor.Can(ability.ActionDelete, ability.SubjectRental) {
		return forbidden("you are not allowed to delete rentals")
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		rental, err := repos.Rental.GetByID(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rental not found")
			}
			return internal("failed to resolve rental", err)
		}

		if err := repos.RentalRenew.SoftRemoveByRentalID(rental.ID); err != nil {
			return internal("failed to remove renewal entries", err)
		}
		if rental.WorkspaceEmailID != nil {
			if err := repos.WorkspaceEmail.Remove(*rental.WorkspaceEmailID); err != nil {
				return internal("failed to remove workspace email", err)
			}
		}
		if err := repos.Rental.Remove(rental.ID); err != nil {
			return internal("failed to remove rental", err)
		}
		return nil
	})
}

// HardRemoveRental permanently deletes an already soft-deleted rental along
// with its ledger rows, and releases its workspace-email slot.
func (e *Engine) HardRemoveRental(actor *ability.Abilities, id uint) error {
	if !actor.Can(ability.ActionDelete, ability.SubjectRental) {
		return forbidden("you are not allowed to delete rentals")
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		rental, err := repos.Rental.GetByIDIncludingDeleted(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rental not found")
			}
			return internal("failed to resolve rental", err)
		}
		if !rental.DeletedAt.Valid {
			return badRequest("rental is not deleted")
		}

		if err := repos.RentalRenew.HardRemoveByRentalID(rental.ID); err != nil {
			return internal("failed to remove renewal entries", err)
		}
		if rental.WorkspaceEmailID != nil {
			if err := repos.WorkspaceEmail.Release(*rental.WorkspaceEmailID); err != nil {
				return internal("failed to release workspace email", err)
			}
		}
		if err := repos.Rental.HardRemove(rental.ID); err != nil {
			return internal("failed to remove rental", err)
		}
		return nil
	})
}

// RestoreRental brings a soft-deleted rental back, together with its slot
// and ledger rows.
func (e *Engine) RestoreRental(actor *ability.Abilities, id uint) error {
	if !actor.Can(ability.ActionRestore, ability.SubjectRental) {
		return forbidden("you are not allowed to restore rentals")
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		rental, err := repos.Rental.GetByIDIncludingDeleted(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rental not found")
			}
			return internal("failed to resolve rental", err)
		}
		if !rental.DeletedAt.Valid {
			return badRequest("rental is not deleted")
		}

		if rental.WorkspaceEmailID != nil {
			if err := repos.WorkspaceEmail.Restore(*rental.WorkspaceEmailID); err != nil {
				return internal("failed to restore workspace email", err)
			}
		}
		if err := repos.RentalRenew.RestoreByRentalID(rental.ID); err != nil {
			return internal("failed to restore renewal entries", err)
		}
		if err := repos.Rental.Restore(rental.ID); err != nil {
			return internal("failed to restore rental", err)
		}
		return nil
	})
}

// RenewRentalInput carries the terms of a renewal.
type RenewRentalInput struct {
	AccountPriceID *uint
	WarrantyFee    float64
	Discount       float64
	PaymentMethod  string
	Note           string
}

// RenewRental appends a ledger entry and advances the rental's end date by
// the price tier duration. An expired rental whose new end date lies in the
// future becomes active again.
func (e *Engine) RenewRental(actor *ability.Abilities, id uint, in RenewRentalInput) (*models.Rental, error) {
	if !actor.Can(ability.ActionUpdate, ability.SubjectRental) {
		return nil, forbidden("you are not allowed to renew rentals")
	}

	var renewed *models.Rental
	err := e.db.Transaction(func(tx *gorm.DB) error {
		repos := repository.NewRepositories(tx)

		rental, err := repos.Rental.GetByIDWithRelations(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("rental not found")
			}
			return internal("failed to resolve rental", err)
		}

		priceID := rental.AccountPriceID
		if in.AccountPriceID != nil {
			priceID = *in.AccountPriceID
		}
		price, err := repos.AccountPrice.GetByIDWithRentalType(priceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("account price not found")
			}
			return internal("failed to resolve account price", err)
		}

		// An overdue rental renews from today, a running one from its
		// current end date.
		today := models.DateOnly(e.today())
		base := models.DateOnly(rental.EndDate)
		if base.Before(today) {
			base = today
		}
		newEndDate := base.AddDate(0, price.DurationMonths, 0)
		totalPrice := price.Price - in.Discount + in.WarrantyFee

		renew := &models.RentalRenew{
			RentalID:       rental.ID,
			AccountPriceID: price.ID,
			NewEndDate:     newEndDate,
			LastStartDate:  base,
			TotalPrice:     totalPrice,
			WarrantyFee:    in.WarrantyFee,
			Discount:       in.Discount,
			PaymentMethod:  in.PaymentMethod,
			Note:           in.Note,
		}
		if err := repos.RentalRenew.Create(renew); err != nil {
			return internal("failed to record renewal", err)
		}

		rental.AccountPriceID = price.ID
		rental.EndDate = newEndDate
		rental.TotalPrice = totalPrice
		if rental.Status == models.RentalStatusExpired && newEndDate.After(today) {
			rental.Status = models.RentalStatusActive
			if rental.WorkspaceEmailID != nil {
				if err := repos.WorkspaceEmail.UpdateStatus(*rental.WorkspaceEmailID, rental.Status); err != nil {
					return internal("failed to sync workspace email status", err)
				}
			}
		}
		if err := repos.Rental.Update(rental); err != nil {
			return internal("failed to persist rental", err)
		}

		renewed = rental
		return nil
	})
	if err != nil {
		return nil, err
	}
	return renewed, nil
}

// GetRental resolves one rental with its relations.
func (e *Engine) GetRental(actor *ability.Abilities, id uint) (*models.Rental, error) {
	if !actor.Can(ability.ActionRead, ability.SubjectRental) {
		return nil, forbidden("you are not allowed to read rentals")
	}
	rental, err := e.repos.Rental.GetByIDWithRelations(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("rental not found")
		}
		return nil, internal("failed to resolve rental", err)
	}
	return rental, nil
}

// ListRentals returns a page of rentals and the total match count.
func (e *Engine) ListRentals(actor *ability.Abilities, offset, limit int, status, search string) ([]models.Rental, int64, error) {
	if !actor.Can(ability.ActionReadAll, ability.SubjectRental) {
		return nil, 0, forbidden("you are not allowed to list rentals")
	}
	rentals, total, err := e.repos.Rental.List(offset, limit, status, search)
	if err != nil {
		return nil, 0, internal("failed to list rentals", err)
	}
	return rentals, total, nil
}
