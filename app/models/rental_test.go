package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestRentalDaysUntilEnd(t *testing.T) {
	r := &Rental{EndDate: date(2024, 3, 10), Status: RentalStatusActive}

	assert.Equal(t, 3, r.DaysUntilEnd(date(2024, 3, 7)))
	assert.Equal(t, 0, r.DaysUntilEnd(date(2024, 3, 10)))
	assert.Equal(t, -2, r.DaysUntilEnd(date(2024, 3, 12)))
}

func TestRentalDaysUntilEndIgnoresTimeOfDay(t *testing.T) {
	r := &Rental{EndDate: time.Date(2024, 3, 10, 23, 59, 0, 0, time.Local)}

	today := time.Date(2024, 3, 10, 0, 1, 0, 0, time.Local)
	assert.Equal(t, 0, r.DaysUntilEnd(today))
	assert.False(t, r.IsExpiredAt(today))
	assert.True(t, r.IsExpiredAt(date(2024, 3, 11)))
}

func TestRentalValidateSkipsRelations(t *testing.T) {
	// Relations are loaded lazily and are usually zero-valued here; only
	// the rental's own fields are subject to validation.
	r := &Rental{
		CustomerID:     1,
		AccountPriceID: 1,
		EmailID:        1,
		StartDate:      date(2024, 6, 1),
		EndDate:        date(2024, 7, 1),
		Status:         RentalStatusActive,
	}
	assert.NoError(t, r.Validate())

	r.Status = "paused"
	assert.Error(t, r.Validate())

	r.Status = RentalStatusActive
	r.WarrantyFee = -1
	assert.Error(t, r.Validate())
}

func TestRentalIsNearExpiredAt(t *testing.T) {
	r := &Rental{EndDate: date(2024, 5, 20), Status: RentalStatusActive}

	assert.True(t, r.IsNearExpiredAt(date(2024, 5, 17), 3))
	assert.False(t, r.IsNearExpiredAt(date(2024, 5, 16), 3))
	assert.False(t, r.IsNearExpiredAt(date(2024, 5, 18), 3))

	r.Status = RentalStatusExpired
	assert.False(t, r.IsNearExpiredAt(date(2024, 5, 17), 3))
}

func TestRentalTypeRequiresWorkspace(t *testing.T) {
	assert.False(t, (&RentalType{Type: RentalTypePersonal}).RequiresWorkspace())
	assert.True(t, (&RentalType{Type: RentalTypeShared}).RequiresWorkspace())
	assert.True(t, (&RentalType{Type: RentalTypeBusiness}).RequiresWorkspace())
}

func TestWorkspaceMatchesRentalType(t *testing.T) {
	w := &Workspace{Type: RentalTypeShared}

	assert.True(t, w.MatchesRentalType(RentalTypeShared))
	assert.False(t, w.MatchesRentalType(RentalTypeBusiness))
}
