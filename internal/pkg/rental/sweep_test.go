package rental

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thangnm/rentacc/app/models"
)

func TestSweepTransitionsOverdueRental(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.sharedPrice, f.date(2024, 6, 10), models.RentalStatusActive, &f.sharedWorkspace.ID)

	msg, err := f.eng.CheckExpiredAllPaginated(0, "")
	require.NoError(t, err)
	assert.Equal(t, "1 data has been checked", msg)

	var got models.Rental
	require.NoError(t, f.db.First(&got, rental.ID).Error)
	assert.Equal(t, models.RentalStatusExpired, got.Status)

	// The workspace slot mirrors the rental's status.
	var slot models.WorkspaceEmail
	require.NoError(t, f.db.First(&slot, *rental.WorkspaceEmailID).Error)
	assert.Equal(t, models.RentalStatusExpired, slot.Status)

	near, expired := f.mail.counts()
	assert.Zero(t, near)
	assert.Equal(t, 1, expired)
	assert.Equal(t, 1, f.chat.count())
	assert.Contains(t, f.chat.messages[0], "EXPIRED")
	assert.Contains(t, f.chat.messages[0], "alice@example.com")
	assert.Contains(t, f.chat.messages[0], "pool-admin@example.com")
}

func TestSweepNearExpiredAtThresholdOnly(t *testing.T) {
	f := newFixture(t)
	// Today is 2024-06-15, threshold 3 days: only the 06-18 rental is flagged.
	atThreshold := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 6, 18), models.RentalStatusActive, nil)
	f.seedRental(t, f.email2, f.personalPrice, f.date(2024, 6, 17), models.RentalStatusActive, nil)
	f.seedRental(t, f.email2, f.personalPrice, f.date(2024, 6, 19), models.RentalStatusActive, nil)

	msg, err := f.eng.CheckExpiredAllPaginated(0, "")
	require.NoError(t, err)
	assert.Equal(t, "3 data has been checked", msg)

	near, expired := f.mail.counts()
	assert.Equal(t, 1, near)
	assert.Zero(t, expired)
	assert.Equal(t, []string{"alice@example.com"}, f.mail.near)

	// A reminder never changes the rental itself.
	var got models.Rental
	require.NoError(t, f.db.First(&got, atThreshold.ID).Error)
	assert.Equal(t, models.RentalStatusActive, got.Status)
}

func TestSweepIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedRental(t, f.email, f.personalPrice, f.date(2024, 6, 1), models.RentalStatusActive, nil)

	_, err := f.eng.CheckExpiredAllPaginated(0, "")
	require.NoError(t, err)
	_, expired := f.mail.counts()
	assert.Equal(t, 1, expired)

	f.mail.reset()
	msg, err := f.eng.CheckExpiredAllPaginated(0, "")
	require.NoError(t, err)
	assert.Equal(t, "0 data has been checked", msg)

	near, expired := f.mail.counts()
	assert.Zero(t, near)
	assert.Zero(t, expired)
}

func TestSweepPaginatesThroughAllRecords(t *testing.T) {
	f := newFixture(t)
	f.seedRental(t, f.email, f.personalPrice, f.date(2025, 1, 1), models.RentalStatusActive, nil)
	f.seedRental(t, f.email, f.personalPrice, f.date(2025, 2, 1), models.RentalStatusActive, nil)
	f.seedRental(t, f.email2, f.personalPrice, f.date(2025, 3, 1), models.RentalStatusActive, nil)

	msg, err := f.eng.CheckExpiredAllPaginated(2, "")
	require.NoError(t, err)
	assert.Equal(t, "3 data has been checked", msg)
}

func TestSweepPaginatesAcrossExpiringPages(t *testing.T) {
	f := newFixture(t)
	// Every rental on the first page expires and leaves the active result
	// set, pulling the remaining rows forward under the next offset.
	r1 := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 6, 1), models.RentalStatusActive, nil)
	r2 := f.seedRental(t, f.email2, f.personalPrice, f.date(2024, 6, 5), models.RentalStatusActive, nil)
	r3 := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 6, 10), models.RentalStatusActive, nil)

	msg, err := f.eng.CheckExpiredAllPaginated(2, "")
	require.NoError(t, err)
	assert.Equal(t, "3 data has been checked", msg)

	for _, id := range []uint{r1.ID, r2.ID, r3.ID} {
		var got models.Rental
		require.NoError(t, f.db.First(&got, id).Error)
		assert.Equal(t, models.RentalStatusExpired, got.Status)
	}

	_, expired := f.mail.counts()
	assert.Equal(t, 3, expired)
}

func TestSweepEmailFilterReportsWithoutExpiry(t *testing.T) {
	f := newFixture(t)
	// Already expired long ago: a plain sweep ignores it, a filtered one
	// still reports its state to the operator chat.
	f.seedRental(t, f.email, f.sharedPrice, f.date(2024, 4, 1), models.RentalStatusExpired, &f.sharedWorkspace.ID)

	msg, err := f.eng.CheckExpiredAllPaginated(0, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "1 data has been checked", msg)

	near, expired := f.mail.counts()
	assert.Zero(t, near)
	assert.Zero(t, expired)
	assert.Equal(t, 1, f.chat.count())
	assert.Contains(t, f.chat.messages[0], "expired")
}

func TestSweepHaltsOnUnknownStatus(t *testing.T) {
	f := newFixture(t)
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 7, 1), models.RentalStatusActive, nil)
	require.NoError(t, f.db.Model(rental).Update("status", "paused").Error)

	_, err := f.eng.CheckExpiredAllPaginated(0, "alice@example.com")
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestSweepSurvivesMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mail.fail = true
	rental := f.seedRental(t, f.email, f.personalPrice, f.date(2024, 6, 1), models.RentalStatusActive, nil)

	msg, err := f.eng.CheckExpiredAllPaginated(0, "")
	require.NoError(t, err)
	assert.Equal(t, "1 data has been checked", msg)

	// Delivery failed but the state transition still landed, and the chat
	// ping went out independently.
	var got models.Rental
	require.NoError(t, f.db.First(&got, rental.ID).Error)
	assert.Equal(t, models.RentalStatusExpired, got.Status)
	assert.Equal(t, 1, f.chat.count())
}

func TestSweepRecordsSummary(t *testing.T) {
	f := newFixture(t)
	f.seedRental(t, f.email, f.personalPrice, f.date(2024, 6, 1), models.RentalStatusActive, nil)
	f.seedRental(t, f.email2, f.personalPrice, f.date(2024, 6, 18), models.RentalStatusActive, nil)
	f.seedRental(t, f.email2, f.personalPrice, f.date(2025, 1, 1), models.RentalStatusActive, nil)

	var recorded *SweepSummary
	f.eng.RecordSweep = func(s SweepSummary) { recorded = &s }

	_, err := f.eng.CheckExpiredAllPaginated(0, "")
	require.NoError(t, err)

	require.NotNil(t, recorded)
	assert.Equal(t, 3, recorded.Checked)
	assert.Equal(t, 1, recorded.Expired)
	assert.Equal(t, 1, recorded.NearExpired)
	assert.Equal(t, f.today, recorded.RanAt)
}
