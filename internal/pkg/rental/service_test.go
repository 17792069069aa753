package rental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thangnm/rentacc/app/models"
	"github.com/thangnm/rentacc/internal/pkg/ability"
)

func TestCreateRentalPersonal(t *testing.T) {
	f := newFixture(t)

	start := f.date(2024, 6, 1)
	rental, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.personalPrice.ID,
		EmailID:        f.email.ID,
		StartDate:      start,
		WarrantyFee:    5,
		Discount:       10,
		PaymentMethod:  models.PaymentMethodBank,
	})
	require.NoError(t, err)

	assert.Equal(t, models.RentalStatusActive, rental.Status)
	assert.Nil(t, rental.WorkspaceEmailID)
	assert.NotEmpty(t, rental.UUID)

	// End date comes from the tier duration, total from price-discount+fee.
	assertSameDate(t, f.date(2024, 7, 1), rental.EndDate)
	assert.Equal(t, 115.0, rental.TotalPrice)

	var renews []models.RentalRenew
	require.NoError(t, f.db.Where("rental_id = ?", rental.ID).Find(&renews).Error)
	require.Len(t, renews, 1)
	assertSameDate(t, f.date(2024, 7, 1), renews[0].NewEndDate)
	assert.Equal(t, 115.0, renews[0].TotalPrice)
	assertSameDate(t, start, renews[0].LastStartDate)
}

func TestCreateRentalPersonalRejectsWorkspace(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.personalPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
}

func TestCreateRentalSharedRequiresWorkspace(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
}

func TestCreateRentalSharedAllocatesSlot(t *testing.T) {
	f := newFixture(t)

	rental, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.NoError(t, err)
	require.NotNil(t, rental.WorkspaceEmailID)

	var slot models.WorkspaceEmail
	require.NoError(t, f.db.First(&slot, *rental.WorkspaceEmailID).Error)
	assert.Equal(t, f.sharedWorkspace.ID, slot.WorkspaceID)
	assert.Equal(t, f.email.ID, slot.EmailID)
	assert.Equal(t, models.RentalStatusActive, slot.Status)
}

func TestCreateRentalReusesPairAfterSoftRemove(t *testing.T) {
	f := newFixture(t)

	in := CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	}
	first, err := f.eng.CreateRental(f.staff, in)
	require.NoError(t, err)
	require.NoError(t, f.eng.RemoveRental(f.admin, first.ID))

	// The pair is only unique among live slots; a soft-removed rental
	// must not block renting the same email into the same workspace.
	second, err := f.eng.CreateRental(f.staff, in)
	require.NoError(t, err)
	require.NotNil(t, second.WorkspaceEmailID)

	var slot models.WorkspaceEmail
	require.NoError(t, f.db.First(&slot, *second.WorkspaceEmailID).Error)
	assert.Equal(t, models.RentalStatusActive, slot.Status)
}

func TestCreateRentalDuplicateSlotConflict(t *testing.T) {
	f := newFixture(t)

	in := CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	}
	_, err := f.eng.CreateRental(f.staff, in)
	require.NoError(t, err)

	_, err = f.eng.CreateRental(f.staff, in)
	require.Error(t, err)
	assert.True(t, IsConflict(err))

	// The failed creation must roll back entirely.
	var rentals, slots int64
	require.NoError(t, f.db.Model(&models.Rental{}).Count(&rentals).Error)
	require.NoError(t, f.db.Model(&models.WorkspaceEmail{}).Count(&slots).Error)
	assert.EqualValues(t, 1, rentals)
	assert.EqualValues(t, 1, slots)
}

func TestCreateRentalWorkspaceTypeMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.businessWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
	assert.Contains(t, err.Error(), "workspace type not match")
}

func TestCreateRentalForeignEmailRejected(t *testing.T) {
	f := newFixture(t)

	other := models.Customer{Name: "Bob Tran"}
	require.NoError(t, f.db.Create(&other).Error)
	foreign := models.Email{Address: "bob@example.com", CustomerID: other.ID}
	require.NoError(t, f.db.Create(&foreign).Error)

	_, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.personalPrice.ID,
		EmailID:        foreign.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
}

func TestCreateRentalUnknownReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     9999,
		AccountPriceID: f.personalPrice.ID,
		EmailID:        f.email.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	assert.True(t, IsNotFound(err))

	_, err = f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: 9999,
		EmailID:        f.email.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	assert.True(t, IsNotFound(err))
}

func TestCreateRentalForbiddenWithoutAbility(t *testing.T) {
	f := newFixture(t)

	nobody := ability.Compute(nil)
	_, err := f.eng.CreateRental(nobody, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.personalPrice.ID,
		EmailID:        f.email.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
}

func TestUpdateRentalEndBeforeStartRejected(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 8, 1), models.RentalStatusActive, nil)

	bad := f.date(2023, 1, 1)
	_, err := f.eng.UpdateRental(f.staff, rental.ID, UpdateRentalInput{EndDate: &bad})
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
}

func TestUpdateRentalFields(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 8, 1), models.RentalStatusActive, nil)

	note := "extended per request"
	amount := 99.5
	updated, err := f.eng.UpdateRental(f.staff, rental.ID, UpdateRentalInput{
		Note:          &note,
		PaymentAmount: &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, note, updated.Note)
	assert.Equal(t, amount, updated.PaymentAmount)
}

func TestUpdateRentalMovesWorkspaceSlot(t *testing.T) {
	f := newFixture(t)

	var adminAccount models.AdminAccount
	require.NoError(t, f.db.First(&adminAccount).Error)
	second := models.Workspace{Name: "Shared Pool B", Type: models.RentalTypeShared, MaxSlots: 5, AdminAccountID: adminAccount.ID}
	require.NoError(t, f.db.Create(&second).Error)

	rental, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.NoError(t, err)

	updated, err := f.eng.UpdateRental(f.staff, rental.ID, UpdateRentalInput{WorkspaceID: &second.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.WorkspaceEmailID)

	var slots []models.WorkspaceEmail
	require.NoError(t, f.db.Find(&slots).Error)
	require.Len(t, slots, 1)
	assert.Equal(t, second.ID, slots[0].WorkspaceID)
	assert.Equal(t, f.email.ID, slots[0].EmailID)
}

func TestUpdateRentalSlotPairConflict(t *testing.T) {
	f := newFixture(t)

	first, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.NoError(t, err)

	_, err = f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email2.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.NoError(t, err)

	// Re-pointing the first rental at email2 collides with the second slot.
	_, err = f.eng.UpdateRental(f.staff, first.ID, UpdateRentalInput{EmailID: &f.email2.ID})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
}

func TestRemoveAndRestoreCascade(t *testing.T) {
	f := newFixture(t)

	rental, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.NoError(t, err)

	require.NoError(t, f.eng.RemoveRental(f.admin, rental.ID))

	var liveRentals, liveRenews, liveSlots int64
	require.NoError(t, f.db.Model(&models.Rental{}).Count(&liveRentals).Error)
	require.NoError(t, f.db.Model(&models.RentalRenew{}).Count(&liveRenews).Error)
	require.NoError(t, f.db.Model(&models.WorkspaceEmail{}).Count(&liveSlots).Error)
	assert.Zero(t, liveRentals)
	assert.Zero(t, liveRenews)
	assert.Zero(t, liveSlots)

	// Everything is still there underneath and comes back together.
	var allRentals int64
	require.NoError(t, f.db.Unscoped().Model(&models.Rental{}).Count(&allRentals).Error)
	assert.EqualValues(t, 1, allRentals)

	require.NoError(t, f.eng.RestoreRental(f.admin, rental.ID))
	require.NoError(t, f.db.Model(&models.Rental{}).Count(&liveRentals).Error)
	require.NoError(t, f.db.Model(&models.RentalRenew{}).Count(&liveRenews).Error)
	require.NoError(t, f.db.Model(&models.WorkspaceEmail{}).Count(&liveSlots).Error)
	assert.EqualValues(t, 1, liveRentals)
	assert.EqualValues(t, 1, liveRenews)
	assert.EqualValues(t, 1, liveSlots)
}

func TestRemoveRentalForbiddenForStaff(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 8, 1), models.RentalStatusActive, nil)

	err := f.eng.RemoveRental(f.staff, rental.ID)
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
}

func TestHardRemoveRequiresPriorSoftDelete(t *testing.T) {
	f := newFixture(t)

	rental, err := f.eng.CreateRental(f.staff, CreateRentalInput{
		CustomerID:     f.customer.ID,
		AccountPriceID: f.sharedPrice.ID,
		EmailID:        f.email.ID,
		WorkspaceID:    &f.sharedWorkspace.ID,
		StartDate:      f.date(2024, 6, 1),
	})
	require.NoError(t, err)

	err = f.eng.HardRemoveRental(f.admin, rental.ID)
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))

	require.NoError(t, f.eng.RemoveRental(f.admin, rental.ID))
	require.NoError(t, f.eng.HardRemoveRental(f.admin, rental.ID))

	var allRentals, allRenews, allSlots int64
	require.NoError(t, f.db.Unscoped().Model(&models.Rental{}).Count(&allRentals).Error)
	require.NoError(t, f.db.Unscoped().Model(&models.RentalRenew{}).Count(&allRenews).Error)
	require.NoError(t, f.db.Unscoped().Model(&models.WorkspaceEmail{}).Count(&allSlots).Error)
	assert.Zero(t, allRentals)
	assert.Zero(t, allRenews)
	assert.Zero(t, allSlots)
}

func TestRestoreRentalNotDeletedRejected(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 8, 1), models.RentalStatusActive, nil)

	err := f.eng.RestoreRental(f.admin, rental.ID)
	require.Error(t, err)
	assert.True(t, IsBadRequest(err))
}

func TestRenewRentalExtendsFromCurrentEnd(t *testing.T) {
	f := newFixture(t)
	// Still running: ends after today (2024-06-15).
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 7, 1), models.RentalStatusActive, nil)

	renewed, err := f.eng.RenewRental(f.staff, rental.ID, RenewRentalInput{
		PaymentMethod: models.PaymentMethodCash,
	})
	require.NoError(t, err)
	assertSameDate(t, f.date(2024, 8, 1), renewed.EndDate)
	assert.Equal(t, models.RentalStatusActive, renewed.Status)

	var count int64
	require.NoError(t, f.db.Model(&models.RentalRenew{}).Where("rental_id = ?", rental.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRenewRentalOverdueRestartsFromToday(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.sharedPrice, f.date(2024, 5, 1), models.RentalStatusExpired, &f.sharedWorkspace.ID)

	renewed, err := f.eng.RenewRental(f.staff, rental.ID, RenewRentalInput{})
	require.NoError(t, err)

	// Base moves to today, not the stale end date, and the rental reactivates.
	assertSameDate(t, f.date(2024, 9, 15), renewed.EndDate)
	assert.Equal(t, models.RentalStatusActive, renewed.Status)

	var slot models.WorkspaceEmail
	require.NoError(t, f.db.First(&slot, *renewed.WorkspaceEmailID).Error)
	assert.Equal(t, models.RentalStatusActive, slot.Status)
}

func TestRenewRentalSwitchesPriceTier(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 7, 1), models.RentalStatusActive, nil)

	renewed, err := f.eng.RenewRental(f.staff, rental.ID, RenewRentalInput{
		AccountPriceID: &f.sharedPrice.ID,
		Discount:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, f.sharedPrice.ID, renewed.AccountPriceID)
	assertSameDate(t, f.date(2024, 10, 1), renewed.EndDate)
	assert.Equal(t, 50.0, renewed.TotalPrice)
}

func TestGetRentalNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.eng.GetRental(f.staff, 4242)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestListRentalsFiltersByStatusAndSearch(t *testing.T) {
	f := newFixture(t)
	f.seedRental(t, f.email, f.personalPrice, f.date(2024, 8, 1), models.RentalStatusActive, nil)
	f.seedRental(t, f.email2, f.personalPrice, f.date(2024, 5, 1), models.RentalStatusExpired, nil)

	rentals, total, err := f.eng.ListRentals(f.staff, 0, 10, models.RentalStatusExpired, "")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rentals, 1)
	assert.Equal(t, f.email2.ID, rentals[0].EmailID)

	rentals, total, err = f.eng.ListRentals(f.staff, 0, 10, "", "alice.work")
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rentals, 1)

	_, total, err = f.eng.ListRentals(f.staff, 0, 10, "", "")
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}
