package ability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/thangnm/rentacc/app/models"
)

func TestComputeStaffAbilities(t *testing.T) {
	staff := &models.User{Role: models.ROLE_STAFF, Status: models.STATUS_ACTIVE}
	a := Compute(staff)

	assert.True(t, a.Can(ActionCreate, SubjectRental))
	assert.True(t, a.Can(ActionUpdate, SubjectRental))
	assert.True(t, a.Can(ActionReadAll, SubjectCustomer))

	assert.False(t, a.Can(ActionDelete, SubjectRental))
	assert.False(t, a.Can(ActionRestore, SubjectRental))
	assert.False(t, a.Can(ActionCreate, SubjectUser))
}

func TestComputeAdminAbilities(t *testing.T) {
	admin := &models.User{Role: models.ROLE_ADMIN, Status: models.STATUS_ACTIVE}
	a := Compute(admin)

	assert.True(t, a.Can(ActionDelete, SubjectRental))
	assert.True(t, a.Can(ActionRestore, SubjectRental))
	assert.True(t, a.Can(ActionReadWithDeleted, SubjectRental))
	assert.True(t, a.Can(ActionDelete, SubjectUser))
}

func TestComputeInactiveUserHasNoAbilities(t *testing.T) {
	inactive := &models.User{Role: models.ROLE_ADMIN, Status: models.STATUS_DISABLED}
	a := Compute(inactive)

	assert.False(t, a.Can(ActionRead, SubjectRental))
}

func TestNilAbilities(t *testing.T) {
	var a *Abilities
	assert.False(t, a.Can(ActionRead, SubjectRental))
	assert.False(t, Compute(nil).Can(ActionRead, SubjectRental))
}
